package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/curriculum-service/internal/services"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error body for every endpoint.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared handler plumbing.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs one structured line per handler invocation, using the
// request-scoped logger so the request id is carried.
func (h *BaseHandler) LogRequest(c *gin.Context, operation string, args ...any) {
	logArgs := append([]any{
		"operation", operation,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}, args...)
	utils.FromContext(c.Request.Context(), h.logger).Info("Handling request", logArgs...)
}

// GetAuthority returns the authenticated caller's identity set by the
// auth middleware.
func (h *BaseHandler) GetAuthority(c *gin.Context) (string, bool) {
	authority, ok := c.Get("authority")
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return "", false
	}
	name, ok := authority.(string)
	if !ok || name == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return "", false
	}
	return name, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// handleServiceError maps the service error taxonomy onto HTTP status
// codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	var stateErr *services.StateError
	if errors.As(err, &stateErr) {
		c.JSON(http.StatusConflict, ErrorResponse{Message: stateErr.Error()})
		return
	}

	var permissionErr *services.PermissionError
	if errors.As(err, &permissionErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: permissionErr.Error()})
		return
	}

	var businessErr *services.BusinessRuleError
	if errors.As(err, &businessErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessErr.Message,
			Details: businessErr.Context,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrProposalNotFound),
		errors.Is(err, services.ErrWriteupNotFound),
		errors.Is(err, services.ErrSubjectNotFound),
		errors.Is(err, services.ErrAggregateNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFacultyNotFound),
		errors.Is(err, services.ErrDegreeNotFound),
		errors.Is(err, services.ErrSpecialtyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUserDoesNotBelongToSubject),
		errors.Is(err, services.ErrCreatorIdentityMismatch),
		errors.Is(err, services.ErrInvalidRoleCredential):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUserHasAlreadyVoted),
		errors.Is(err, services.ErrUserAlreadyRegistered),
		errors.Is(err, services.ErrSubjectCodeTaken),
		errors.Is(err, services.ErrRewardAlreadyGranted):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrVotingNotOpen):
		c.JSON(http.StatusGone, ErrorResponse{Message: err.Error()})

	default:
		utils.FromContext(c.Request.Context(), h.logger).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
