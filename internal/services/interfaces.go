package services

import (
	"context"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// Request DTOs are defined alongside their validation tags.
type (
	RegisterUserRequest    = validator.RegisterUserRequest
	CreateFacultyRequest   = validator.CreateFacultyRequest
	CreateDegreeRequest    = validator.CreateDegreeRequest
	CreateSpecialtyRequest = validator.CreateSpecialtyRequest
	CreateSubjectRequest   = validator.CreateSubjectRequest
	CreateProposalRequest  = validator.CreateProposalRequest
	CastVoteRequest        = validator.CastVoteRequest
	SubmitWriteupRequest   = validator.SubmitWriteupRequest
	ResolveProposalRequest = validator.ResolveProposalRequest
)

// ProposalResponse is a proposal plus what the requesting user may do
// with it.
type ProposalResponse struct {
	*models.Proposal
	Writeup   *models.ProfessorProposal `json:"writeup,omitempty"`
	CanVote   bool                      `json:"can_vote"`
	CanDelete bool                      `json:"can_delete"`
}

// VoteResult is the outcome of a ballot: the state the proposal ended up
// in and whether this ballot closed the vote.
type VoteResult struct {
	State        models.ProposalState `json:"state"`
	VoteRecorded bool                 `json:"vote_recorded"`
	VotingClosed bool                 `json:"voting_closed"`
}

// UserService registers academic actors and manages their enrollment.
type UserService interface {
	Register(ctx context.Context, authority string, role models.UserRole, req RegisterUserRequest) (*models.User, error)
	GetByAuthority(ctx context.Context, authority string, role models.UserRole) (*models.User, error)
	GetByID(ctx context.Context, id uint, role models.UserRole) (*models.User, error)
}

// CatalogService manages the faculty/degree/specialty/subject hierarchy.
type CatalogService interface {
	CreateFaculty(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error)
	ListFaculties(ctx context.Context) ([]*models.Faculty, error)
	CreateDegree(ctx context.Context, req CreateDegreeRequest) (*models.Degree, error)
	ListDegreesByFaculty(ctx context.Context, facultyID uint) ([]*models.Degree, error)
	CreateSpecialty(ctx context.Context, req CreateSpecialtyRequest) (*models.Specialty, error)
	ListSpecialtiesByDegree(ctx context.Context, degreeID uint) ([]*models.Specialty, error)
	CreateSubject(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, id uint) (*models.Subject, error)
	ListSubjects(ctx context.Context, filters repositories.SubjectFilters) ([]*models.Subject, error)
}

// ProposalService runs the governance workflow.
type ProposalService interface {
	Create(ctx context.Context, creatorAuthority string, role models.UserRole, req CreateProposalRequest) (*ProposalResponse, error)
	CastVote(ctx context.Context, proposalID uint, voterAuthority string, role models.UserRole, support bool) (*VoteResult, error)
	SubmitWriteup(ctx context.Context, proposalID uint, professorAuthority string, req SubmitWriteupRequest) (*ProposalResponse, error)
	Resolve(ctx context.Context, proposalID uint, highRankAuthority string, accept bool) (*ProposalResponse, error)
	GrantReward(ctx context.Context, proposalID uint, callerAuthority string, role models.UserRole) (*ProposalResponse, error)
	DeleteIfRejected(ctx context.Context, proposalID uint) error
	GetByID(ctx context.Context, proposalID uint) (*ProposalResponse, error)
	ListBySubject(ctx context.Context, subjectID uint, filters repositories.ProposalFilters) ([]*models.Proposal, error)
}

// ExportService produces spreadsheet reports.
type ExportService interface {
	ExportSubjectProposals(ctx context.Context, subjectID uint) (*excelize.File, error)
}

// ServiceManager wires the services together with shared lifecycle.
type ServiceManager interface {
	Users() UserService
	Catalog() CatalogService
	Proposals() ProposalService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
