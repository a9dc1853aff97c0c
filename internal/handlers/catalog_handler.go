package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/services"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	BaseHandler
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// CreateFaculty handles POST /api/v1/faculties
func (h *CatalogHandler) CreateFaculty(c *gin.Context) {
	h.LogRequest(c, "create_faculty")

	var req services.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	faculty, err := h.catalog.CreateFaculty(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, faculty)
}

// ListFaculties handles GET /api/v1/faculties
func (h *CatalogHandler) ListFaculties(c *gin.Context) {
	faculties, err := h.catalog.ListFaculties(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, faculties)
}

// CreateDegree handles POST /api/v1/degrees
func (h *CatalogHandler) CreateDegree(c *gin.Context) {
	h.LogRequest(c, "create_degree")

	var req services.CreateDegreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	degree, err := h.catalog.CreateDegree(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, degree)
}

// ListDegrees handles GET /api/v1/faculties/:id/degrees
func (h *CatalogHandler) ListDegrees(c *gin.Context) {
	facultyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	degrees, err := h.catalog.ListDegreesByFaculty(c.Request.Context(), facultyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, degrees)
}

// CreateSpecialty handles POST /api/v1/specialties
func (h *CatalogHandler) CreateSpecialty(c *gin.Context) {
	h.LogRequest(c, "create_specialty")

	var req services.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	specialty, err := h.catalog.CreateSpecialty(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, specialty)
}

// ListSpecialties handles GET /api/v1/degrees/:id/specialties
func (h *CatalogHandler) ListSpecialties(c *gin.Context) {
	degreeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	specialties, err := h.catalog.ListSpecialtiesByDegree(c.Request.Context(), degreeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, specialties)
}

// CreateSubject handles POST /api/v1/subjects
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	h.LogRequest(c, "create_subject")

	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	subject, err := h.catalog.CreateSubject(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// GetSubject handles GET /api/v1/subjects/:id
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subject, err := h.catalog.GetSubject(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

// ListSubjects handles GET /api/v1/subjects
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	filters := repositories.SubjectFilters{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}

	subjects, err := h.catalog.ListSubjects(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}
