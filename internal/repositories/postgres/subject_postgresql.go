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

type subjectRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSubjectRepository(db *gorm.DB, cacheManager *cache.CacheManager) *subjectRepository {
	return &subjectRepository{db: db, cacheManager: cacheManager}
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	cache.InvalidateSubjectCache(ctx, r.cacheManager, subject.ID, subject.Code)
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject

	cacheKey := fmt.Sprintf("id:%d", id)
	err := r.cacheManager.Subject.CacheOrExecute(ctx, cacheKey, &subject, cache.SubjectCacheConfig.TTL, func() (interface{}, error) {
		var s models.Subject
		if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
			return nil, err
		}
		return &s, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject %d: %w", id, err)
	}
	return &subject, nil
}

// GetByIDForUpdate bypasses the cache and locks the row; pending-list
// edits must not start from a cached copy.
func (r *subjectRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject

	err := lockForUpdate(r.db.WithContext(ctx)).First(&subject, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock subject %d: %w", id, err)
	}
	return &subject, nil
}

func (r *subjectRepository) GetByCode(ctx context.Context, code uint32) (*models.Subject, error) {
	var subject models.Subject

	err := r.db.WithContext(ctx).Where("code = ?", code).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject by code %d: %w", code, err)
	}
	return &subject, nil
}

func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Save(subject).Error; err != nil {
		return fmt.Errorf("failed to update subject %d: %w", subject.ID, err)
	}
	cache.InvalidateSubjectCache(ctx, r.cacheManager, subject.ID, subject.Code)
	return nil
}

func (r *subjectRepository) List(ctx context.Context, filters repositories.SubjectFilters) ([]*models.Subject, error) {
	query := r.db.WithContext(ctx).Model(&models.Subject{})

	if filters.DegreeID != nil {
		query = query.Where("degree_id = ?", *filters.DegreeID)
	}
	if filters.SpecialtyID != nil {
		query = query.Where("specialty_id = ?", *filters.SpecialtyID)
	}
	if filters.Course != nil {
		query = query.Where("course = ?", *filters.Course)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var subjects []*models.Subject
	if err := query.Order("id").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}
