package models

import (
	"time"

	"gorm.io/datatypes"
)

// Governance timing and participation constants. Timestamps across the
// proposal workflow are unix seconds.
const (
	// VotingWindowSeconds is how long a proposal stays open for peer voting.
	VotingWindowSeconds int64 = 30 * 24 * 60 * 60

	// HalfWindowSeconds is the faculty write-up deadline and the unit in
	// which write-up delay penalties accrue.
	HalfWindowSeconds int64 = VotingWindowSeconds / 2

	// ExtraVotesMargin is added to a subject's enrollment when computing
	// the expected number of votes.
	ExtraVotesMargin uint32 = 20

	// MaxParticipation closes voting early once this many ballots are in.
	MaxParticipation uint32 = 20

	// RewardCredits is minted to the creator of an accepted proposal.
	RewardCredits uint32 = 25
)

// ProposalState tracks a proposal through the governance workflow.
type ProposalState string

const (
	// StateVotingInProgress: open for peer voting.
	StateVotingInProgress ProposalState = "votation_in_progress"
	// StateWaitingForTeacher: peer vote passed, faculty write-up pending.
	StateWaitingForTeacher ProposalState = "waiting_for_teacher"
	// StateWaitingForHighRank: write-up submitted, awaiting ratification.
	StateWaitingForHighRank ProposalState = "waiting_for_high_rank"
	// StateAccepted: ratified, reward not yet issued.
	StateAccepted ProposalState = "accepted"
	// StateAcceptedAndTokensGranted: terminal, reward issued.
	StateAcceptedAndTokensGranted ProposalState = "accepted_and_tokens_granted"
	// StateRejected: terminal, record eligible for deletion.
	StateRejected ProposalState = "rejected"
)

// ProfessorProposalState tracks the faculty write-up attached to a proposal.
type ProfessorProposalState string

const (
	WriteupPending  ProfessorProposalState = "pending"
	WriteupComplete ProfessorProposalState = "complete"
)

// Proposal is a curriculum change request submitted against a subject.
// SupportingVotes+AgainstVotes always equals the combined size of the two
// voter sets; EndingTimestamp is fixed at creation and never extended.
type Proposal struct {
	ID                  uint                      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SubjectID           uint                      `json:"subject_id" gorm:"not null;index"`
	Title               string                    `json:"title" gorm:"size:100;not null"`
	Content             string                    `json:"content" gorm:"size:2500;not null"`
	CreatorID           uint                      `json:"creator_id" gorm:"not null"`
	CreatorAuthority    string                    `json:"creator_authority" gorm:"size:255;not null"`
	AuthorRole          UserRole                  `json:"author_role" gorm:"size:20;not null"`
	SupportingVotes     uint32                    `json:"supporting_votes" gorm:"default:0"`
	AgainstVotes        uint32                    `json:"against_votes" gorm:"default:0"`
	ExpectedVotes       uint32                    `json:"expected_votes" gorm:"not null"`
	StudentVoters       datatypes.JSONSlice[uint] `json:"-"`
	ProfessorVoters     datatypes.JSONSlice[uint] `json:"-"`
	PublishingTimestamp int64                     `json:"publishing_timestamp" gorm:"not null"`
	EndingTimestamp     int64                     `json:"ending_timestamp" gorm:"not null"`
	State               ProposalState             `json:"state" gorm:"size:40;not null;index"`
	FollowUpID          uint                      `json:"followup_id" gorm:"not null"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

func (Proposal) TableName() string {
	return "proposals"
}

// TotalVotes is the number of ballots recorded so far.
func (p *Proposal) TotalVotes() uint32 {
	return p.SupportingVotes + p.AgainstVotes
}

// VotingOpenAt reports whether the voting window is still open at the
// given unix time.
func (p *Proposal) VotingOpenAt(now int64) bool {
	return now < p.EndingTimestamp
}

// ProfessorProposal is the faculty write-up that accompanies a proposal.
// It is created alongside its proposal with a zeroed timer; the timer is
// armed when the peer vote passes, with half a voting window to deliver.
type ProfessorProposal struct {
	ID                       uint                   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OriginalProposalID       uint                   `json:"original_proposal_id" gorm:"not null;uniqueIndex"`
	Name                     string                 `json:"name" gorm:"size:100;not null"`
	PublishingTimestamp      int64                  `json:"publishing_timestamp" gorm:"default:0"`
	EndingTimestamp          int64                  `json:"ending_timestamp" gorm:"default:0"`
	TeachingProjectReference string                 `json:"teaching_project_reference" gorm:"size:46"`
	State                    ProfessorProposalState `json:"state" gorm:"size:20;not null;default:pending"`
	CreatedAt                time.Time              `json:"created_at"`
	UpdatedAt                time.Time              `json:"updated_at"`
}

func (ProfessorProposal) TableName() string {
	return "professor_proposals"
}

// TokenGrant records a reward issuance. The unique index on ProposalID
// backs the exactly-once guarantee at the storage layer.
type TokenGrant struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProposalID uint      `json:"proposal_id" gorm:"not null;uniqueIndex"`
	Recipient  string    `json:"recipient" gorm:"size:255;not null"`
	Amount     uint32    `json:"amount" gorm:"not null"`
	GrantedAt  time.Time `json:"granted_at"`
}

func (TokenGrant) TableName() string {
	return "token_grants"
}
