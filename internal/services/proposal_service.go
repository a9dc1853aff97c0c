package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/events"
	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/rewards"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
)

// proposalService runs the governance workflow. Every mutating
// operation is one repository transaction; domain events are published
// after the transaction commits.
type proposalService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	minter    rewards.Minter

	// now is overridable in tests. Workflow timestamps are unix seconds.
	now func() time.Time
}

func NewProposalService(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
	minter rewards.Minter,
) *proposalService {
	return &proposalService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
		minter:    minter,
		now:       time.Now,
	}
}

func (s *proposalService) Create(ctx context.Context, creatorAuthority string, role models.UserRole, req CreateProposalRequest) (*ProposalResponse, error) {
	s.logger.Info("Creating proposal",
		"subject_id", req.SubjectID,
		"author_role", role)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, NewPermissionError(0, "proposal", "create", "only students and professors submit proposals")
	}

	creator, err := s.loadUser(ctx, creatorAuthority, role)
	if err != nil {
		return nil, err
	}

	var (
		proposal models.Proposal
		writeup  models.ProfessorProposal
	)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Locked load: the pending-list append below must not race a
		// concurrent create or delete on the same subject.
		subject, err := txRepo.Subjects().GetByIDForUpdate(ctx, req.SubjectID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSubjectNotFound
			}
			return fmt.Errorf("failed to load subject: %w", err)
		}

		if !creator.EnrolledIn(subject.Code) {
			return ErrUserDoesNotBelongToSubject
		}

		aggregate, err := txRepo.Aggregates().GetByCode(ctx, subject.Code)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAggregateNotFound
			}
			return fmt.Errorf("failed to load subject aggregate: %w", err)
		}

		proposalID, err := txRepo.Sequences().Next(ctx, models.SeqProposal)
		if err != nil {
			return fmt.Errorf("failed to allocate proposal id: %w", err)
		}
		writeupID, err := txRepo.Sequences().Next(ctx, models.SeqProfessorProposal)
		if err != nil {
			return fmt.Errorf("failed to allocate write-up id: %w", err)
		}

		now := s.now().Unix()
		proposal = models.Proposal{
			ID:                  proposalID,
			SubjectID:           subject.ID,
			Title:               req.Title,
			Content:             req.Content,
			CreatorID:           creator.ID,
			CreatorAuthority:    creator.Authority,
			AuthorRole:          role,
			ExpectedVotes:       aggregate.ExpectedVotes(),
			PublishingTimestamp: now,
			EndingTimestamp:     now + models.VotingWindowSeconds,
			State:               models.StateVotingInProgress,
			FollowUpID:          writeupID,
		}
		writeup = models.ProfessorProposal{
			ID:                 writeupID,
			OriginalProposalID: proposalID,
			Name:               req.Title,
			State:              models.WriteupPending,
		}

		if err := txRepo.Proposals().Create(ctx, &proposal); err != nil {
			return err
		}
		if err := txRepo.Proposals().CreateWriteup(ctx, &writeup); err != nil {
			return err
		}

		subject.PendingProposals = append(subject.PendingProposals, proposalID)
		return txRepo.Subjects().Update(ctx, subject)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx,
		events.ProposalCreated(proposal.ID, proposal.SubjectID),
		events.FollowUpCreated(proposal.ID, writeup.ID))

	s.logger.Info("Proposal created",
		"proposal_id", proposal.ID,
		"subject_id", proposal.SubjectID,
		"expected_votes", proposal.ExpectedVotes)

	return &ProposalResponse{Proposal: &proposal, Writeup: &writeup, CanVote: true}, nil
}

func (s *proposalService) CastVote(ctx context.Context, proposalID uint, voterAuthority string, role models.UserRole, support bool) (*VoteResult, error) {
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, NewPermissionError(0, "proposal", "vote", "only students and professors vote")
	}

	voter, err := s.loadUser(ctx, voterAuthority, role)
	if err != nil {
		return nil, err
	}

	var (
		result  VoteResult
		outcome voteOutcome
		lateErr error
	)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Locked load so concurrent ballots serialize; without it two
		// transactions pass the duplicate check on the same snapshot and
		// the second save drops the first ballot.
		proposal, err := txRepo.Proposals().GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProposalNotFound
			}
			return err
		}

		if proposal.State != models.StateVotingInProgress {
			return NewStateError(proposalID, proposal.State, models.StateVotingInProgress, "vote")
		}

		subject, err := txRepo.Subjects().GetByID(ctx, proposal.SubjectID)
		if err != nil {
			return fmt.Errorf("failed to load subject: %w", err)
		}
		if !voter.EnrolledIn(subject.Code) {
			return ErrUserDoesNotBelongToSubject
		}

		writeup, err := txRepo.Proposals().GetWriteupByID(ctx, proposal.FollowUpID)
		if err != nil {
			return fmt.Errorf("failed to load write-up: %w", err)
		}

		outcome, err = applyVote(proposal, writeup, voter.ID, role, support, s.now().Unix())
		if err != nil && !errors.Is(err, ErrVotingNotOpen) {
			return err
		}
		// A late ballot is never tallied but its closing side effects
		// are committed; the error is surfaced after the commit.
		lateErr = err

		if err := txRepo.Proposals().Update(ctx, proposal); err != nil {
			return err
		}
		if outcome.FollowUpOpen {
			if err := txRepo.Proposals().UpdateWriteup(ctx, writeup); err != nil {
				return err
			}
		}

		result = VoteResult{
			State:        proposal.State,
			VoteRecorded: outcome.Recorded,
			VotingClosed: outcome.Closed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Closed {
		switch result.State {
		case models.StateWaitingForTeacher:
			s.publish(ctx, events.NewEvent(events.TypePeerVotePassed, map[string]interface{}{
				"proposal_id": proposalID,
			}))
		case models.StateRejected:
			s.publish(ctx, events.NewEvent(events.TypeProposalRejected, map[string]interface{}{
				"proposal_id": proposalID,
			}))
		}
	}

	s.logger.Info("Vote processed",
		"proposal_id", proposalID,
		"voter_id", voter.ID,
		"role", role,
		"recorded", result.VoteRecorded,
		"state", result.State)

	if lateErr != nil {
		return &result, lateErr
	}
	return &result, nil
}

func (s *proposalService) SubmitWriteup(ctx context.Context, proposalID uint, professorAuthority string, req SubmitWriteupRequest) (*ProposalResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	professor, err := s.loadUser(ctx, professorAuthority, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	var (
		proposal *models.Proposal
		writeup  *models.ProfessorProposal
	)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		proposal, err = txRepo.Proposals().GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProposalNotFound
			}
			return err
		}
		if proposal.State != models.StateWaitingForTeacher {
			return NewStateError(proposalID, proposal.State, models.StateWaitingForTeacher, "submit write-up")
		}

		subject, err := txRepo.Subjects().GetByID(ctx, proposal.SubjectID)
		if err != nil {
			return fmt.Errorf("failed to load subject: %w", err)
		}
		if !professor.EnrolledIn(subject.Code) {
			return ErrUserDoesNotBelongToSubject
		}

		writeup, err = txRepo.Proposals().GetWriteupByID(ctx, proposal.FollowUpID)
		if err != nil {
			return fmt.Errorf("failed to load write-up: %w", err)
		}

		now := s.now().Unix()
		if penalty := overduePeriods(now, writeup.EndingTimestamp, models.HalfWindowSeconds); penalty > 0 {
			professor.Punishments += penalty
			if err := txRepo.Users().Update(ctx, professor); err != nil {
				return err
			}
			s.logger.Warn("Write-up delivered late",
				"proposal_id", proposalID,
				"professor_id", professor.ID,
				"penalty", penalty)
		}

		writeup.TeachingProjectReference = req.TeachingProjectReference
		writeup.State = models.WriteupComplete
		proposal.State = models.StateWaitingForHighRank

		if err := txRepo.Proposals().UpdateWriteup(ctx, writeup); err != nil {
			return err
		}
		return txRepo.Proposals().Update(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Write-up submitted",
		"proposal_id", proposalID,
		"professor_id", professor.ID)

	return &ProposalResponse{Proposal: proposal, Writeup: writeup}, nil
}

func (s *proposalService) Resolve(ctx context.Context, proposalID uint, highRankAuthority string, accept bool) (*ProposalResponse, error) {
	if _, err := s.loadUser(ctx, highRankAuthority, models.RoleHighRank); err != nil {
		return nil, err
	}

	var (
		proposal *models.Proposal
		writeup  *models.ProfessorProposal
	)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		proposal, err = txRepo.Proposals().GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProposalNotFound
			}
			return err
		}
		if proposal.State != models.StateWaitingForHighRank {
			return NewStateError(proposalID, proposal.State, models.StateWaitingForHighRank, "resolve")
		}

		writeup, err = txRepo.Proposals().GetWriteupByID(ctx, proposal.FollowUpID)
		if err != nil {
			return fmt.Errorf("failed to load write-up: %w", err)
		}

		if accept {
			subject, err := txRepo.Subjects().GetByIDForUpdate(ctx, proposal.SubjectID)
			if err != nil {
				return fmt.Errorf("failed to load subject: %w", err)
			}
			subject.TeachingProjectReference = writeup.TeachingProjectReference
			if err := txRepo.Subjects().Update(ctx, subject); err != nil {
				return err
			}

			proposal.State = models.StateAccepted
			writeup.State = models.WriteupComplete
		} else {
			// Back to faculty. The write-up deadline is deliberately
			// not extended, so a rework past it accrues penalties.
			proposal.State = models.StateWaitingForTeacher
			writeup.State = models.WriteupPending
		}

		if err := txRepo.Proposals().UpdateWriteup(ctx, writeup); err != nil {
			return err
		}
		return txRepo.Proposals().Update(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	if accept {
		s.publish(ctx, events.NewEvent(events.TypeProposalRatified, map[string]interface{}{
			"proposal_id": proposalID,
			"subject_id":  proposal.SubjectID,
		}))
	}

	s.logger.Info("Proposal resolved",
		"proposal_id", proposalID,
		"accepted", accept,
		"state", proposal.State)

	return &ProposalResponse{Proposal: proposal, Writeup: writeup}, nil
}

func (s *proposalService) GrantReward(ctx context.Context, proposalID uint, callerAuthority string, role models.UserRole) (*ProposalResponse, error) {
	caller, err := s.loadUser(ctx, callerAuthority, role)
	if err != nil {
		return nil, err
	}

	var proposal *models.Proposal

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		proposal, err = txRepo.Proposals().GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProposalNotFound
			}
			return err
		}

		if proposal.State == models.StateAcceptedAndTokensGranted {
			return ErrRewardAlreadyGranted
		}
		if proposal.State != models.StateAccepted {
			return NewStateError(proposalID, proposal.State, models.StateAccepted, "grant reward")
		}

		if proposal.CreatorAuthority != caller.Authority || proposal.AuthorRole != caller.Role {
			return ErrCreatorIdentityMismatch
		}

		creator, err := txRepo.Users().GetByID(ctx, proposal.CreatorID, proposal.AuthorRole)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}

		grant := models.TokenGrant{
			ProposalID: proposalID,
			Recipient:  creator.Authority,
			Amount:     models.RewardCredits,
		}
		if err := s.minter.Mint(ctx, txRepo.DB(), &grant); err != nil {
			return fmt.Errorf("failed to mint reward: %w", err)
		}

		creator.Rewards += models.RewardCredits
		if err := txRepo.Users().Update(ctx, creator); err != nil {
			return err
		}

		// The state transition rides the same transaction as the mint;
		// either both land or neither does.
		proposal.State = models.StateAcceptedAndTokensGranted
		return txRepo.Proposals().Update(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.TypeRewardGranted, map[string]interface{}{
		"proposal_id": proposalID,
		"recipient":   caller.Authority,
		"amount":      models.RewardCredits,
	}))

	s.logger.Info("Reward granted",
		"proposal_id", proposalID,
		"recipient", caller.Authority)

	return &ProposalResponse{Proposal: proposal}, nil
}

func (s *proposalService) DeleteIfRejected(ctx context.Context, proposalID uint) error {
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		proposal, err := txRepo.Proposals().GetByIDForUpdate(ctx, proposalID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProposalNotFound
			}
			return err
		}
		if proposal.State != models.StateRejected {
			return NewStateError(proposalID, proposal.State, models.StateRejected, "delete")
		}

		subject, err := txRepo.Subjects().GetByIDForUpdate(ctx, proposal.SubjectID)
		if err != nil {
			return fmt.Errorf("failed to load subject: %w", err)
		}
		subject.PendingProposals = removePending(subject.PendingProposals, proposalID)
		if err := txRepo.Subjects().Update(ctx, subject); err != nil {
			return err
		}

		return txRepo.Proposals().Delete(ctx, proposalID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Rejected proposal deleted", "proposal_id", proposalID)
	return nil
}

func (s *proposalService) GetByID(ctx context.Context, proposalID uint) (*ProposalResponse, error) {
	proposal, err := s.repo.Proposals().GetByID(ctx, proposalID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	writeup, err := s.repo.Proposals().GetWriteupByID(ctx, proposal.FollowUpID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, err
	}

	return &ProposalResponse{
		Proposal:  proposal,
		Writeup:   writeup,
		CanVote:   proposal.State == models.StateVotingInProgress,
		CanDelete: proposal.State == models.StateRejected,
	}, nil
}

func (s *proposalService) ListBySubject(ctx context.Context, subjectID uint, filters repositories.ProposalFilters) ([]*models.Proposal, error) {
	return s.repo.Proposals().ListBySubject(ctx, subjectID, filters)
}

func (s *proposalService) loadUser(ctx context.Context, authority string, role models.UserRole) (*models.User, error) {
	user, err := s.repo.Users().GetByAuthority(ctx, authority, role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *proposalService) publish(ctx context.Context, evts ...events.Event) {
	if s.publisher == nil {
		return
	}
	for _, event := range evts {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				"event_type", event.Type,
				"error", err)
		}
	}
}
