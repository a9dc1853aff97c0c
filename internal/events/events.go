package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the governance workflow.
const (
	TypeProposalCreated  = "proposal.created"
	TypeFollowUpCreated  = "proposal.followup_created"
	TypePeerVotePassed   = "proposal.peer_vote_passed"
	TypeProposalRejected = "proposal.rejected"
	TypeProposalRatified = "proposal.ratified"
	TypeRewardGranted    = "proposal.reward_granted"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent builds an envelope stamped with this service as source.
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "curriculum-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ProposalCreated announces a new proposal on a subject.
func ProposalCreated(proposalID, subjectID uint) Event {
	return NewEvent(TypeProposalCreated, map[string]interface{}{
		"proposal_id": proposalID,
		"subject_id":  subjectID,
	})
}

// FollowUpCreated announces the write-up record attached to a proposal.
func FollowUpCreated(proposalID, followupID uint) Event {
	return NewEvent(TypeFollowUpCreated, map[string]interface{}{
		"proposal_id": proposalID,
		"followup_id": followupID,
	})
}

// EventPublisher is the outbound boundary to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
