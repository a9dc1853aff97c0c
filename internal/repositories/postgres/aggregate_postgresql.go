package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/curriculum-service/internal/cache"
	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"gorm.io/gorm"
)

// subjectAggregateRepository maintains the code to subject-id relation.
// Entries outlive registration order: enrollment may create a placeholder
// before the subject exists, and binding later fills in the id without
// touching the counters.
type subjectAggregateRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSubjectAggregateRepository(db *gorm.DB, cacheManager *cache.CacheManager) *subjectAggregateRepository {
	return &subjectAggregateRepository{db: db, cacheManager: cacheManager}
}

func (r *subjectAggregateRepository) RegisterCodeWithoutID(ctx context.Context, code uint32, role models.UserRole) error {
	var existing models.SubjectAggregate

	err := r.db.WithContext(ctx).Where("code = ?", code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check aggregate for code %d: %w", code, err)
	}

	aggregate := models.SubjectAggregate{
		Code:      code,
		SubjectID: models.PlaceholderSubjectID,
	}
	switch role {
	case models.RoleStudent:
		aggregate.Students = 1
	case models.RoleTeacher:
		aggregate.Professors = 1
	}

	if err := r.db.WithContext(ctx).Create(&aggregate).Error; err != nil {
		return fmt.Errorf("failed to register code %d: %w", code, err)
	}
	cache.InvalidateAggregateCache(ctx, r.cacheManager, code)
	return nil
}

func (r *subjectAggregateRepository) BindSubject(ctx context.Context, subjectID uint, code uint32) error {
	var existing models.SubjectAggregate

	err := r.db.WithContext(ctx).Where("code = ?", code).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		aggregate := models.SubjectAggregate{
			Code:      code,
			SubjectID: int64(subjectID),
		}
		if err := r.db.WithContext(ctx).Create(&aggregate).Error; err != nil {
			return fmt.Errorf("failed to bind subject %d to code %d: %w", subjectID, code, err)
		}
		cache.InvalidateAggregateCache(ctx, r.cacheManager, code)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check aggregate for code %d: %w", code, err)
	}

	// Only a placeholder gets bound; an entry already holding a subject
	// id keeps it.
	if existing.SubjectID != models.PlaceholderSubjectID {
		return nil
	}

	// Counters accumulated before the subject existed are kept.
	existing.SubjectID = int64(subjectID)
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to bind subject %d to code %d: %w", subjectID, code, err)
	}
	cache.InvalidateAggregateCache(ctx, r.cacheManager, code)
	return nil
}

func (r *subjectAggregateRepository) GetByCode(ctx context.Context, code uint32) (*models.SubjectAggregate, error) {
	var aggregate models.SubjectAggregate

	cacheKey := fmt.Sprintf("code:%d", code)
	err := r.cacheManager.Aggregate.CacheOrExecute(ctx, cacheKey, &aggregate, cache.AggregateCacheConfig.TTL, func() (interface{}, error) {
		var a models.SubjectAggregate
		if err := r.db.WithContext(ctx).Where("code = ?", code).First(&a).Error; err != nil {
			return nil, err
		}
		return &a, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate for code %d: %w", code, err)
	}
	return &aggregate, nil
}

func (r *subjectAggregateRepository) GetBySubjectID(ctx context.Context, subjectID uint) (*models.SubjectAggregate, error) {
	var aggregate models.SubjectAggregate

	err := r.db.WithContext(ctx).Where("subject_id = ?", int64(subjectID)).First(&aggregate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate for subject %d: %w", subjectID, err)
	}
	return &aggregate, nil
}

func (r *subjectAggregateRepository) IncrementRoleCount(ctx context.Context, code uint32, role models.UserRole) error {
	var column string
	switch role {
	case models.RoleStudent:
		column = "students"
	case models.RoleTeacher:
		column = "professors"
	default:
		return nil
	}

	// Absent codes are ignored on purpose; the increment is only
	// meaningful once an entry exists.
	result := r.db.WithContext(ctx).Model(&models.SubjectAggregate{}).
		Where("code = ?", code).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s count for code %d: %w", role, code, result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateAggregateCache(ctx, r.cacheManager, code)
	}
	return nil
}
