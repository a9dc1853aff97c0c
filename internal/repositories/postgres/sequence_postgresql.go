package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"gorm.io/gorm"
)

// sequenceRepository issues per-category identifiers from a persisted
// counter row. Allocation must run inside the caller's transaction so a
// rolled-back operation does not burn ids; the counter row is read under
// FOR UPDATE so concurrent allocators never issue the same id.
type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *sequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, category string) (uint, error) {
	var counter models.SequenceCounter

	err := lockForUpdate(r.db.WithContext(ctx)).
		Where("category = ?", category).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.SequenceCounter{Category: category}
		if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("failed to create sequence counter %s: %w", category, err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("failed to load sequence counter %s: %w", category, err)
	}

	// Zero means the counter was never used; 0 itself is reserved and
	// never issued.
	if counter.NextID == 0 {
		counter.NextID = 1
	}

	issued := counter.NextID
	counter.NextID++

	if err := r.db.WithContext(ctx).Save(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to advance sequence counter %s: %w", category, err)
	}
	return issued, nil
}

func (r *sequenceRepository) Current(ctx context.Context, category string) (uint, error) {
	var counter models.SequenceCounter

	err := r.db.WithContext(ctx).Where("category = ?", category).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load sequence counter %s: %w", category, err)
	}

	if counter.NextID == 0 {
		return 1, nil
	}
	return counter.NextID, nil
}
