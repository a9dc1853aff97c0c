package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
)

// Sentinel errors for the governance workflow. Handlers map these to
// HTTP status codes with errors.Is.
var (
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrWriteupNotFound   = errors.New("write-up not found")
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrAggregateNotFound = errors.New("no aggregate registered for subject code")
	ErrUserNotFound      = errors.New("user not found")
	ErrFacultyNotFound   = errors.New("faculty not found")
	ErrDegreeNotFound    = errors.New("degree not found")
	ErrSpecialtyNotFound = errors.New("specialty not found")

	// ErrUserDoesNotBelongToSubject: the actor is not enrolled in the
	// proposal's subject.
	ErrUserDoesNotBelongToSubject = errors.New("user does not belong to subject")

	// ErrUserHasAlreadyVoted: one ballot per user per proposal.
	ErrUserHasAlreadyVoted = errors.New("user has already voted on this proposal")

	// ErrVotingNotOpen: the voting window has ended. Closing mutations
	// triggered by the late call are still committed before this is
	// returned.
	ErrVotingNotOpen = errors.New("voting window is not open")

	// ErrCreatorIdentityMismatch: reward claimed by someone other than
	// the recorded creator.
	ErrCreatorIdentityMismatch = errors.New("caller is not the proposal creator")

	// ErrInvalidRoleCredential: registration credential does not hash to
	// the role's expected digest.
	ErrInvalidRoleCredential = errors.New("invalid role credential")

	ErrUserAlreadyRegistered = errors.New("user already registered for role")
	ErrSubjectCodeTaken      = errors.New("subject code already registered")
	ErrRewardAlreadyGranted  = errors.New("reward already granted for proposal")
)

// ValidationErrors re-exported so callers match on one package.
type ValidationErrors = validator.ValidationErrors

// StateError reports an operation attempted against a proposal in the
// wrong lifecycle state.
type StateError struct {
	ProposalID uint
	Current    models.ProposalState
	Required   models.ProposalState
	Operation  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("proposal %d: cannot %s in state %s (requires %s)",
		e.ProposalID, e.Operation, e.Current, e.Required)
}

func NewStateError(proposalID uint, current, required models.ProposalState, operation string) *StateError {
	return &StateError{
		ProposalID: proposalID,
		Current:    current,
		Required:   required,
		Operation:  operation,
	}
}

// PermissionError reports an actor attempting an operation they are not
// allowed to perform.
type PermissionError struct {
	UserID   uint
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// BusinessRuleError reports a domain rule violation that is neither a
// state nor a permission problem.
type BusinessRuleError struct {
	Message string
	Rule    string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func NewBusinessRuleError(message, rule string) *BusinessRuleError {
	return &BusinessRuleError{Message: message, Rule: rule}
}
