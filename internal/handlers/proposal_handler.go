package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/services"
	"github.com/SAP-F-2025/curriculum-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	BaseHandler
	proposals services.ProposalService
	export    services.ExportService
}

func NewProposalHandler(proposals services.ProposalService, export services.ExportService, logger utils.Logger) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler: NewBaseHandler(logger),
		proposals:   proposals,
		export:      export,
	}
}

// Create handles POST /api/v1/proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	h.LogRequest(c, "create_proposal")

	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}
	role, _ := GetGovernanceRole(c)

	var req services.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	response, err := h.proposals.Create(c.Request.Context(), authority, role, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// Vote handles POST /api/v1/proposals/:id/votes
func (h *ProposalHandler) Vote(c *gin.Context) {
	h.LogRequest(c, "cast_vote")

	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}
	role, _ := GetGovernanceRole(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	result, err := h.proposals.CastVote(c.Request.Context(), id, authority, role, req.Support)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitWriteup handles PUT /api/v1/proposals/:id/writeup
func (h *ProposalHandler) SubmitWriteup(c *gin.Context) {
	h.LogRequest(c, "submit_writeup")

	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SubmitWriteupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	response, err := h.proposals.SubmitWriteup(c.Request.Context(), id, authority, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Resolve handles PUT /api/v1/proposals/:id/resolution
func (h *ProposalHandler) Resolve(c *gin.Context) {
	h.LogRequest(c, "resolve_proposal")

	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ResolveProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	response, err := h.proposals.Resolve(c.Request.Context(), id, authority, req.Accept)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GrantReward handles POST /api/v1/proposals/:id/reward
func (h *ProposalHandler) GrantReward(c *gin.Context) {
	h.LogRequest(c, "grant_reward")

	authority, ok := h.GetAuthority(c)
	if !ok {
		return
	}
	role, _ := GetGovernanceRole(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.proposals.GrantReward(c.Request.Context(), id, authority, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/v1/proposals/:id
func (h *ProposalHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "delete_proposal")

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.proposals.DeleteIfRejected(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get handles GET /api/v1/proposals/:id
func (h *ProposalHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.proposals.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListBySubject handles GET /api/v1/subjects/:id/proposals
func (h *ProposalHandler) ListBySubject(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	filters := repositories.ProposalFilters{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if state := c.Query("state"); state != "" {
		ps := models.ProposalState(state)
		filters.State = &ps
	}

	proposals, err := h.proposals.ListBySubject(c.Request.Context(), subjectID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// Export handles GET /api/v1/subjects/:id/proposals/export
func (h *ProposalHandler) Export(c *gin.Context) {
	h.LogRequest(c, "export_proposals")

	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := h.export.ExportSubjectProposals(c.Request.Context(), subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=subject_%d_proposals.xlsx", subjectID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream export", "error", err)
	}
}
