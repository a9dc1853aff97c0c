package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/curriculum-service/internal/config"
	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// CasdoorAuthMiddleware authenticates requests against the Casdoor
// identity provider. The JWT subject becomes the caller's authority
// string; Casdoor roles map onto governance roles.
type CasdoorAuthMiddleware struct {
	client *casdoorsdk.Client
	logger utils.Logger
}

func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, logger utils.Logger) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)
	return &CasdoorAuthMiddleware{client: client, logger: logger}
}

// AuthMiddleware validates the Bearer token and stores the caller's
// authority and governance role in the request context.
func (m *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header required"})
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Bearer token required"})
			return
		}

		claims, err := m.client.ParseJwtToken(token)
		if err != nil {
			m.logger.Warn("Token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token"})
			return
		}

		c.Set("authority", claims.User.Name)
		c.Set("governance_role", governanceRoleFor(claims))
		c.Next()
	}
}

// RequireRoleMiddleware rejects callers whose governance role is not in
// the allowed set. Must run after AuthMiddleware.
func (m *CasdoorAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetGovernanceRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient role"})
	}
}

// GetGovernanceRole returns the caller's governance role from context.
func GetGovernanceRole(c *gin.Context) (models.UserRole, bool) {
	value, ok := c.Get("governance_role")
	if !ok {
		return "", false
	}
	role, ok := value.(models.UserRole)
	return role, ok
}

func governanceRoleFor(claims *casdoorsdk.Claims) models.UserRole {
	for _, role := range claims.User.Roles {
		switch role.Name {
		case "high_rank":
			return models.RoleHighRank
		case "professor":
			return models.RoleTeacher
		case "student":
			return models.RoleStudent
		}
	}
	// Unmapped identities default to the least privileged role.
	return models.RoleStudent
}
