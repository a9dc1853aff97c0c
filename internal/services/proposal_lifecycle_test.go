package services

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
)

func newOpenProposal(expected uint32) (*models.Proposal, *models.ProfessorProposal) {
	proposal := &models.Proposal{
		ID:                  1,
		FollowUpID:          1,
		ExpectedVotes:       expected,
		PublishingTimestamp: 1000,
		EndingTimestamp:     1000 + models.VotingWindowSeconds,
		State:               models.StateVotingInProgress,
	}
	writeup := &models.ProfessorProposal{
		ID:                 1,
		OriginalProposalID: 1,
		State:              models.WriteupPending,
	}
	return proposal, writeup
}

func TestApplyVote_RecordsWhileOpen(t *testing.T) {
	proposal, writeup := newOpenProposal(30)

	outcome, err := applyVote(proposal, writeup, 7, models.RoleStudent, true, 2000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !outcome.Recorded {
		t.Error("Vote should be recorded while the window is open")
	}
	if outcome.Closed {
		t.Error("A single vote should not close the window")
	}
	if proposal.SupportingVotes != 1 || proposal.AgainstVotes != 0 {
		t.Errorf("Tally = %d/%d, want 1/0", proposal.SupportingVotes, proposal.AgainstVotes)
	}
	if len(proposal.StudentVoters) != 1 || proposal.StudentVoters[0] != 7 {
		t.Errorf("Student voters = %v, want [7]", proposal.StudentVoters)
	}
}

func TestApplyVote_DuplicateVoter(t *testing.T) {
	proposal, writeup := newOpenProposal(30)

	if _, err := applyVote(proposal, writeup, 7, models.RoleStudent, true, 2000); err != nil {
		t.Fatalf("First vote failed: %v", err)
	}
	if _, err := applyVote(proposal, writeup, 7, models.RoleStudent, false, 2001); !errors.Is(err, ErrUserHasAlreadyVoted) {
		t.Fatalf("Second vote error = %v, want ErrUserHasAlreadyVoted", err)
	}
	if proposal.TotalVotes() != 1 {
		t.Errorf("Total votes = %d, want 1", proposal.TotalVotes())
	}
}

func TestApplyVote_SameIDDifferentRoles(t *testing.T) {
	// Ids are allocated per role, so a student and a professor can share
	// the numeric id; both ballots count.
	proposal, writeup := newOpenProposal(30)

	if _, err := applyVote(proposal, writeup, 1, models.RoleStudent, true, 2000); err != nil {
		t.Fatalf("Student vote failed: %v", err)
	}
	if _, err := applyVote(proposal, writeup, 1, models.RoleTeacher, true, 2001); err != nil {
		t.Fatalf("Professor vote failed: %v", err)
	}
	if proposal.TotalVotes() != 2 {
		t.Errorf("Total votes = %d, want 2", proposal.TotalVotes())
	}
}

func TestApplyVote_EarlyCloseAtMaxParticipation(t *testing.T) {
	proposal, writeup := newOpenProposal(30)

	// 13 in favor, 6 against, then the 20th ballot in favor closes the
	// vote with 14/20 supporting.
	id := uint(1)
	for i := 0; i < 13; i++ {
		if _, err := applyVote(proposal, writeup, id, models.RoleStudent, true, 2000); err != nil {
			t.Fatalf("Vote %d failed: %v", id, err)
		}
		id++
	}
	for i := 0; i < 6; i++ {
		if _, err := applyVote(proposal, writeup, id, models.RoleStudent, false, 2000); err != nil {
			t.Fatalf("Vote %d failed: %v", id, err)
		}
		id++
	}

	outcome, err := applyVote(proposal, writeup, id, models.RoleStudent, true, 2000)
	if err != nil {
		t.Fatalf("Closing vote failed: %v", err)
	}
	if !outcome.Closed {
		t.Fatal("Vote should close at max participation")
	}
	if proposal.State != models.StateWaitingForTeacher {
		t.Errorf("State = %s, want %s", proposal.State, models.StateWaitingForTeacher)
	}
	if !outcome.FollowUpOpen {
		t.Error("Write-up timer should be armed")
	}
	if writeup.PublishingTimestamp != 2000 {
		t.Errorf("Write-up publishing = %d, want 2000", writeup.PublishingTimestamp)
	}
	if writeup.EndingTimestamp != 2000+models.HalfWindowSeconds {
		t.Errorf("Write-up deadline = %d, want %d", writeup.EndingTimestamp, 2000+models.HalfWindowSeconds)
	}
}

func TestApplyVote_EarlyCloseBelowAgreement(t *testing.T) {
	proposal, writeup := newOpenProposal(30)

	// 13/20 supporting is below two thirds.
	id := uint(1)
	for i := 0; i < 13; i++ {
		applyVote(proposal, writeup, id, models.RoleStudent, true, 2000)
		id++
	}
	for i := 0; i < 7; i++ {
		applyVote(proposal, writeup, id, models.RoleStudent, false, 2000)
		id++
	}

	if proposal.State != models.StateRejected {
		t.Errorf("State = %s, want %s", proposal.State, models.StateRejected)
	}
}

func TestApplyVote_LateBallot(t *testing.T) {
	proposal, writeup := newOpenProposal(30)

	for i := uint(1); i <= 10; i++ {
		if _, err := applyVote(proposal, writeup, i, models.RoleStudent, true, 2000); err != nil {
			t.Fatalf("Vote %d failed: %v", i, err)
		}
	}

	late := proposal.EndingTimestamp + 1
	outcome, err := applyVote(proposal, writeup, 11, models.RoleStudent, true, late)
	if !errors.Is(err, ErrVotingNotOpen) {
		t.Fatalf("Late ballot error = %v, want ErrVotingNotOpen", err)
	}
	if outcome.Recorded {
		t.Error("Late ballot must not be tallied")
	}
	if proposal.TotalVotes() != 10 {
		t.Errorf("Total votes = %d, want 10", proposal.TotalVotes())
	}
	// 10 of 30 expected: quorum unmet, the stalled vote is closed out.
	if proposal.State != models.StateRejected {
		t.Errorf("State = %s, want %s", proposal.State, models.StateRejected)
	}
	if !outcome.Closed {
		t.Error("Late ballot should close the stalled vote")
	}
}

func TestApplyVote_LateBallotWithQuorum(t *testing.T) {
	proposal, writeup := newOpenProposal(10)

	// MaxParticipation never triggers here because the window lapses
	// with 12 ballots in; expected is 10, quorum is met and 9/12 wins.
	id := uint(1)
	for i := 0; i < 9; i++ {
		applyVote(proposal, writeup, id, models.RoleStudent, true, 2000)
		id++
	}
	for i := 0; i < 3; i++ {
		applyVote(proposal, writeup, id, models.RoleStudent, false, 2000)
		id++
	}
	if proposal.State != models.StateVotingInProgress {
		t.Fatalf("State = %s before window close", proposal.State)
	}

	late := proposal.EndingTimestamp + 5
	_, err := applyVote(proposal, writeup, id, models.RoleStudent, false, late)
	if !errors.Is(err, ErrVotingNotOpen) {
		t.Fatalf("Late ballot error = %v, want ErrVotingNotOpen", err)
	}
	if proposal.State != models.StateWaitingForTeacher {
		t.Errorf("State = %s, want %s", proposal.State, models.StateWaitingForTeacher)
	}
}

func TestOverduePeriods(t *testing.T) {
	const period = models.HalfWindowSeconds

	tests := []struct {
		name     string
		now      int64
		deadline int64
		want     uint32
	}{
		{"on time", 100, 100, 0},
		{"before deadline", 50, 100, 0},
		{"one second late", 101, 100, 1},
		{"exactly one period", 100 + period, 100, 1},
		{"one period and a second", 101 + period, 100, 2},
		{"three and a half periods", 100 + 3*period + period/2, 100, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overduePeriods(tt.now, tt.deadline, period); got != tt.want {
				t.Errorf("overduePeriods(%d, %d) = %d, want %d", tt.now, tt.deadline, got, tt.want)
			}
		})
	}
}

func TestRemovePending(t *testing.T) {
	got := removePending([]uint{1, 2, 3}, 2)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("removePending = %v, want [1 3]", got)
	}

	got = removePending([]uint{1}, 5)
	if len(got) != 1 {
		t.Errorf("removePending with absent id = %v, want [1]", got)
	}
}
