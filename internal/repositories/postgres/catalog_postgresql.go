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

type catalogRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCatalogRepository(db *gorm.DB, cacheManager *cache.CacheManager) *catalogRepository {
	return &catalogRepository{db: db, cacheManager: cacheManager}
}

func (r *catalogRepository) CreateFaculty(ctx context.Context, faculty *models.Faculty) error {
	if err := r.db.WithContext(ctx).Create(faculty).Error; err != nil {
		return fmt.Errorf("failed to create faculty: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Catalog, "faculty:*")
	return nil
}

func (r *catalogRepository) GetFacultyByID(ctx context.Context, id uint) (*models.Faculty, error) {
	var faculty models.Faculty

	cacheKey := fmt.Sprintf("faculty:id:%d", id)
	err := r.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &faculty, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var f models.Faculty
		if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
			return nil, err
		}
		return &f, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty %d: %w", id, err)
	}
	return &faculty, nil
}

func (r *catalogRepository) ListFaculties(ctx context.Context) ([]*models.Faculty, error) {
	var faculties []*models.Faculty
	if err := r.db.WithContext(ctx).Order("id").Find(&faculties).Error; err != nil {
		return nil, fmt.Errorf("failed to list faculties: %w", err)
	}
	return faculties, nil
}

func (r *catalogRepository) CreateDegree(ctx context.Context, degree *models.Degree) error {
	if err := r.db.WithContext(ctx).Create(degree).Error; err != nil {
		return fmt.Errorf("failed to create degree: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Catalog, "degree:*")
	return nil
}

func (r *catalogRepository) GetDegreeByID(ctx context.Context, id uint) (*models.Degree, error) {
	var degree models.Degree

	err := r.db.WithContext(ctx).First(&degree, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get degree %d: %w", id, err)
	}
	return &degree, nil
}

func (r *catalogRepository) ListDegreesByFaculty(ctx context.Context, facultyID uint) ([]*models.Degree, error) {
	var degrees []*models.Degree
	if err := r.db.WithContext(ctx).Where("faculty_id = ?", facultyID).Order("id").Find(&degrees).Error; err != nil {
		return nil, fmt.Errorf("failed to list degrees for faculty %d: %w", facultyID, err)
	}
	return degrees, nil
}

func (r *catalogRepository) CreateSpecialty(ctx context.Context, specialty *models.Specialty) error {
	if err := r.db.WithContext(ctx).Create(specialty).Error; err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Catalog, "specialty:*")
	return nil
}

func (r *catalogRepository) GetSpecialtyByID(ctx context.Context, id uint) (*models.Specialty, error) {
	var specialty models.Specialty

	err := r.db.WithContext(ctx).First(&specialty, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty %d: %w", id, err)
	}
	return &specialty, nil
}

func (r *catalogRepository) ListSpecialtiesByDegree(ctx context.Context, degreeID uint) ([]*models.Specialty, error) {
	var specialties []*models.Specialty
	if err := r.db.WithContext(ctx).Where("degree_id = ?", degreeID).Order("id").Find(&specialties).Error; err != nil {
		return nil, fmt.Errorf("failed to list specialties for degree %d: %w", degreeID, err)
	}
	return specialties, nil
}
