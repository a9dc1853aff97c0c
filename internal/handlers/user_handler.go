package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/services"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	BaseHandler
	users services.UserService
}

func NewUserHandler(users services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		users:       users,
	}
}

// Register creates the caller's governance record for their role.
// POST /api/v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	h.LogRequest(c, "register_user")

	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}
	role, ok := GetGovernanceRole(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), authority, role, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me returns the caller's governance record.
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}
	role, ok := GetGovernanceRole(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	user, err := h.users.GetByAuthority(c.Request.Context(), authority, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Get returns a user by id and role.
// GET /api/v1/users/:role/:id
func (h *UserHandler) Get(c *gin.Context) {
	role := models.UserRole(c.Param("role"))
	if models.RoleCodeDigest(role) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid role"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
