package validator

// Request DTOs for the governance API. Validation rules live on the
// tags; custom rule names are registered in New().

type RegisterUserRequest struct {
	IdentifierCode string   `json:"identifier_code" validate:"required"`
	SubjectCodes   []uint32 `json:"subject_codes" validate:"omitempty,dive,gt=0"`
}

type CreateFacultyRequest struct {
	Name string `json:"name" validate:"required,catalog_name"`
}

type CreateDegreeRequest struct {
	Name      string `json:"name" validate:"required,catalog_name"`
	FacultyID uint   `json:"faculty_id" validate:"required,gt=0"`
}

type CreateSpecialtyRequest struct {
	Name     string `json:"name" validate:"required,catalog_name"`
	DegreeID uint   `json:"degree_id" validate:"required,gt=0"`
}

type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,catalog_name"`
	Code        uint32 `json:"code" validate:"required,gt=0"`
	DegreeID    uint   `json:"degree_id" validate:"required,gt=0"`
	SpecialtyID uint   `json:"specialty_id" validate:"required,gt=0"`
	Course      string `json:"course" validate:"required,subject_course"`
}

type CreateProposalRequest struct {
	SubjectID uint   `json:"subject_id" validate:"required,gt=0"`
	Title     string `json:"title" validate:"required,proposal_title"`
	Content   string `json:"content" validate:"required,proposal_content"`
}

type CastVoteRequest struct {
	Support bool `json:"support"`
}

type SubmitWriteupRequest struct {
	TeachingProjectReference string `json:"teaching_project_reference" validate:"required,project_reference"`
}

type ResolveProposalRequest struct {
	Accept bool `json:"accept"`
}
