package repositories

import (
	"context"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
)

// SequenceRepository hands out per-category identifiers. Ids start at 1,
// are strictly increasing and never reused; 0 marks an uninitialized
// counter and is never issued.
type SequenceRepository interface {
	// Next allocates and returns the next id for the category, creating
	// the counter lazily on first use.
	Next(ctx context.Context, category string) (uint, error)

	// Current returns the id that Next would issue, without allocating.
	Current(ctx context.Context, category string) (uint, error)
}

// UserRepository persists registered academic users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint, role models.UserRole) (*models.User, error)
	GetByAuthority(ctx context.Context, authority string, role models.UserRole) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CatalogRepository persists the faculty/degree/specialty hierarchy.
type CatalogRepository interface {
	CreateFaculty(ctx context.Context, faculty *models.Faculty) error
	GetFacultyByID(ctx context.Context, id uint) (*models.Faculty, error)
	ListFaculties(ctx context.Context) ([]*models.Faculty, error)

	CreateDegree(ctx context.Context, degree *models.Degree) error
	GetDegreeByID(ctx context.Context, id uint) (*models.Degree, error)
	ListDegreesByFaculty(ctx context.Context, facultyID uint) ([]*models.Degree, error)

	CreateSpecialty(ctx context.Context, specialty *models.Specialty) error
	GetSpecialtyByID(ctx context.Context, id uint) (*models.Specialty, error)
	ListSpecialtiesByDegree(ctx context.Context, degreeID uint) ([]*models.Specialty, error)
}

// SubjectRepository persists subjects.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (*models.Subject, error)

	// GetByIDForUpdate loads the subject under a row lock for
	// read-modify-write transactions. Callers must be inside
	// WithTransaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Subject, error)
	GetByCode(ctx context.Context, code uint32) (*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	List(ctx context.Context, filters SubjectFilters) ([]*models.Subject, error)
}

// SubjectAggregateRepository maintains the code to subject-id relation
// with per-role enrollment counters. Entries may exist before their
// subject does (SubjectID holds the placeholder until bound).
type SubjectAggregateRepository interface {
	// RegisterCodeWithoutID creates a placeholder entry for the code with
	// the role counter at 1. No-op if the code is already present.
	RegisterCodeWithoutID(ctx context.Context, code uint32, role models.UserRole) error

	// BindSubject records the subject id for the code: updates a
	// placeholder in place (counters preserved) or inserts a fresh entry.
	// An entry already bound to a subject keeps its id.
	BindSubject(ctx context.Context, subjectID uint, code uint32) error

	GetByCode(ctx context.Context, code uint32) (*models.SubjectAggregate, error)
	GetBySubjectID(ctx context.Context, subjectID uint) (*models.SubjectAggregate, error)

	// IncrementRoleCount bumps the enrollment counter for the role.
	// No-op if the code is not present.
	IncrementRoleCount(ctx context.Context, code uint32, role models.UserRole) error
}

// ProposalRepository persists proposals and their faculty write-ups.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uint) (*models.Proposal, error)

	// GetByIDForUpdate loads the proposal under a row lock so concurrent
	// ballots serialize on the row instead of overwriting each other.
	// Callers must be inside WithTransaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Proposal, error)
	Update(ctx context.Context, proposal *models.Proposal) error
	ListBySubject(ctx context.Context, subjectID uint, filters ProposalFilters) ([]*models.Proposal, error)

	CreateWriteup(ctx context.Context, writeup *models.ProfessorProposal) error
	GetWriteupByID(ctx context.Context, id uint) (*models.ProfessorProposal, error)
	GetWriteupByProposalID(ctx context.Context, proposalID uint) (*models.ProfessorProposal, error)
	UpdateWriteup(ctx context.Context, writeup *models.ProfessorProposal) error

	// Delete removes a proposal and its write-up together.
	Delete(ctx context.Context, proposalID uint) error
}

// SubjectFilters narrows subject listings.
type SubjectFilters struct {
	DegreeID    *uint                 `json:"degree_id,omitempty"`
	SpecialtyID *uint                 `json:"specialty_id,omitempty"`
	Course      *models.SubjectCourse `json:"course,omitempty"`
	Limit       int                   `json:"limit,omitempty"`
	Offset      int                   `json:"offset,omitempty"`
}

// ProposalFilters narrows proposal listings.
type ProposalFilters struct {
	State      *models.ProposalState `json:"state,omitempty"`
	AuthorRole *models.UserRole      `json:"author_role,omitempty"`
	Limit      int                   `json:"limit,omitempty"`
	Offset     int                   `json:"offset,omitempty"`
	SortBy     string                `json:"sort_by,omitempty"`
	SortOrder  string                `json:"sort_order,omitempty"`
}
