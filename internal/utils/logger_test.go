package utils

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLogger() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestFromContext_Fallback(t *testing.T) {
	fallback := newLogger()

	if got := FromContext(context.Background(), fallback); got != Logger(fallback) {
		t.Error("FromContext without a stored logger should return the fallback")
	}
}

func TestContextLogger_StoresRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	base := newLogger()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/proposals", nil)
	c.Set("request_id", "req-1")

	ContextLogger(base)(c)

	stored := FromContext(c.Request.Context(), nil)
	if stored == nil {
		t.Fatal("ContextLogger should store a logger in the request context")
	}
	if stored == Logger(base) {
		t.Error("Stored logger should carry the request id, not be the bare base logger")
	}

	if value, ok := c.Get(string(loggerKey)); !ok || value == nil {
		t.Error("ContextLogger should also store the logger on the gin context")
	}
}

func TestContextLogger_WithoutRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	base := newLogger()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health", nil)

	ContextLogger(base)(c)

	if got := FromContext(c.Request.Context(), nil); got != Logger(base) {
		t.Error("Without a request id the base logger should be stored as-is")
	}
}
