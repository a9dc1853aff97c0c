package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"gorm.io/gorm"
)

// proposalRepository persists proposals and their faculty write-ups.
// Proposal rows are hot and mutate under voting, so reads always hit the
// database.
type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *proposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

func (r *proposalRepository) GetByID(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal

	err := r.db.WithContext(ctx).First(&proposal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal %d: %w", id, err)
	}
	return &proposal, nil
}

func (r *proposalRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal

	err := lockForUpdate(r.db.WithContext(ctx)).First(&proposal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock proposal %d: %w", id, err)
	}
	return &proposal, nil
}

func (r *proposalRepository) Update(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Save(proposal).Error; err != nil {
		return fmt.Errorf("failed to update proposal %d: %w", proposal.ID, err)
	}
	return nil
}

func (r *proposalRepository) ListBySubject(ctx context.Context, subjectID uint, filters repositories.ProposalFilters) ([]*models.Proposal, error) {
	query := r.db.WithContext(ctx).Model(&models.Proposal{}).Where("subject_id = ?", subjectID)

	if filters.State != nil {
		query = query.Where("state = ?", *filters.State)
	}
	if filters.AuthorRole != nil {
		query = query.Where("author_role = ?", *filters.AuthorRole)
	}

	sortBy := "id"
	if filters.SortBy != "" {
		sortBy = filters.SortBy
	}
	sortOrder := "asc"
	if filters.SortOrder == "desc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var proposals []*models.Proposal
	if err := query.Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("failed to list proposals for subject %d: %w", subjectID, err)
	}
	return proposals, nil
}

func (r *proposalRepository) CreateWriteup(ctx context.Context, writeup *models.ProfessorProposal) error {
	if err := r.db.WithContext(ctx).Create(writeup).Error; err != nil {
		return fmt.Errorf("failed to create write-up: %w", err)
	}
	return nil
}

func (r *proposalRepository) GetWriteupByID(ctx context.Context, id uint) (*models.ProfessorProposal, error) {
	var writeup models.ProfessorProposal

	err := r.db.WithContext(ctx).First(&writeup, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get write-up %d: %w", id, err)
	}
	return &writeup, nil
}

func (r *proposalRepository) GetWriteupByProposalID(ctx context.Context, proposalID uint) (*models.ProfessorProposal, error) {
	var writeup models.ProfessorProposal

	err := r.db.WithContext(ctx).Where("original_proposal_id = ?", proposalID).First(&writeup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get write-up for proposal %d: %w", proposalID, err)
	}
	return &writeup, nil
}

func (r *proposalRepository) UpdateWriteup(ctx context.Context, writeup *models.ProfessorProposal) error {
	if err := r.db.WithContext(ctx).Save(writeup).Error; err != nil {
		return fmt.Errorf("failed to update write-up %d: %w", writeup.ID, err)
	}
	return nil
}

func (r *proposalRepository) Delete(ctx context.Context, proposalID uint) error {
	if err := r.db.WithContext(ctx).
		Where("original_proposal_id = ?", proposalID).
		Delete(&models.ProfessorProposal{}).Error; err != nil {
		return fmt.Errorf("failed to delete write-up for proposal %d: %w", proposalID, err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Proposal{}, proposalID).Error; err != nil {
		return fmt.Errorf("failed to delete proposal %d: %w", proposalID, err)
	}
	return nil
}
