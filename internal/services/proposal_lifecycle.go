package services

import (
	"github.com/SAP-F-2025/curriculum-service/internal/models"
)

// voteOutcome describes what a single ballot did to a proposal.
type voteOutcome struct {
	Recorded     bool
	Closed       bool
	FollowUpOpen bool
}

// applyVote runs the ballot rules against an in-memory proposal and its
// write-up. Callers persist the mutated records; on ErrVotingNotOpen the
// mutations are still expected to be persisted, since a late ballot is
// the trigger that closes out a stalled vote.
func applyVote(p *models.Proposal, writeup *models.ProfessorProposal, voterID uint, role models.UserRole, support bool, now int64) (voteOutcome, error) {
	var out voteOutcome

	voters := &p.StudentVoters
	if role == models.RoleTeacher {
		voters = &p.ProfessorVoters
	}
	for _, id := range *voters {
		if id == voterID {
			return out, ErrUserHasAlreadyVoted
		}
	}

	open := p.VotingOpenAt(now)

	if open {
		*voters = append(*voters, voterID)
		if support {
			p.SupportingVotes++
		} else {
			p.AgainstVotes++
		}
		out.Recorded = true
	}

	total := p.TotalVotes()

	switch {
	case open && total >= models.MaxParticipation:
		evaluateAgreement(p, writeup, now, &out)
	case !open && total >= p.ExpectedVotes:
		evaluateAgreement(p, writeup, now, &out)
	case !open:
		// Window over without quorum.
		p.State = models.StateRejected
		out.Closed = true
	}

	if !open {
		return out, ErrVotingNotOpen
	}
	return out, nil
}

// evaluateAgreement closes the vote: two thirds of the ballots in favor
// sends the proposal to faculty and arms the write-up timer, anything
// less rejects it.
func evaluateAgreement(p *models.Proposal, writeup *models.ProfessorProposal, now int64, out *voteOutcome) {
	out.Closed = true

	total := p.TotalVotes()
	if total > 0 && 3*p.SupportingVotes >= 2*total {
		p.State = models.StateWaitingForTeacher
		writeup.PublishingTimestamp = now
		writeup.EndingTimestamp = now + models.HalfWindowSeconds
		writeup.State = models.WriteupPending
		out.FollowUpOpen = true
		return
	}
	p.State = models.StateRejected
}

// overduePeriods counts how many full or partial periods have elapsed
// past the deadline.
func overduePeriods(now, deadline, period int64) uint32 {
	if now <= deadline || period <= 0 {
		return 0
	}
	elapsed := now - deadline
	return uint32((elapsed + period - 1) / period)
}

// removePending drops a proposal id from a subject's pending list.
func removePending(list []uint, proposalID uint) []uint {
	out := make([]uint, 0, len(list))
	for _, id := range list {
		if id != proposalID {
			out = append(out, id)
		}
	}
	return out
}
