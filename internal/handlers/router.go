package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/services"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// HandlerManager holds the per-domain handlers and the auth middleware.
type HandlerManager struct {
	users     *UserHandler
	catalog   *CatalogHandler
	proposals *ProposalHandler

	auth           *CasdoorAuthMiddleware
	serviceManager services.ServiceManager
}

func NewHandlerManager(sm services.ServiceManager, auth *CasdoorAuthMiddleware, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		users:          NewUserHandler(sm.Users(), logger),
		catalog:        NewCatalogHandler(sm.Catalog(), logger),
		proposals:      NewProposalHandler(sm.Proposals(), sm.Export(), logger),
		auth:           auth,
		serviceManager: sm,
	}
}

// SetupRoutes wires the API surface.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(hm.auth.AuthMiddleware())

	users := v1.Group("/users")
	{
		users.POST("/register", hm.users.Register)
		users.GET("/me", hm.users.Me)
		users.GET("/:role/:id", hm.users.Get)
	}

	highRankOnly := hm.auth.RequireRoleMiddleware(models.RoleHighRank)

	faculties := v1.Group("/faculties")
	{
		faculties.POST("", highRankOnly, hm.catalog.CreateFaculty)
		faculties.GET("", hm.catalog.ListFaculties)
		faculties.GET("/:id/degrees", hm.catalog.ListDegrees)
	}

	degrees := v1.Group("/degrees")
	{
		degrees.POST("", highRankOnly, hm.catalog.CreateDegree)
		degrees.GET("/:id/specialties", hm.catalog.ListSpecialties)
	}

	v1.POST("/specialties", highRankOnly, hm.catalog.CreateSpecialty)

	subjects := v1.Group("/subjects")
	{
		subjects.POST("", highRankOnly, hm.catalog.CreateSubject)
		subjects.GET("", hm.catalog.ListSubjects)
		subjects.GET("/:id", hm.catalog.GetSubject)
		subjects.GET("/:id/proposals", hm.proposals.ListBySubject)
		subjects.GET("/:id/proposals/export", hm.proposals.Export)
	}

	memberOnly := hm.auth.RequireRoleMiddleware(models.RoleStudent, models.RoleTeacher)

	proposals := v1.Group("/proposals")
	{
		proposals.POST("", memberOnly, hm.proposals.Create)
		proposals.GET("/:id", hm.proposals.Get)
		proposals.POST("/:id/votes", memberOnly, hm.proposals.Vote)
		proposals.PUT("/:id/writeup", hm.auth.RequireRoleMiddleware(models.RoleTeacher), hm.proposals.SubmitWriteup)
		proposals.PUT("/:id/resolution", highRankOnly, hm.proposals.Resolve)
		proposals.POST("/:id/reward", memberOnly, hm.proposals.GrantReward)
		proposals.DELETE("/:id", highRankOnly, hm.proposals.Delete)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "curriculum-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
