package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint, role models.UserRole) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, role).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d (%s): %w", id, role, err)
	}
	return &user, nil
}

func (r *userRepository) GetByAuthority(ctx context.Context, authority string, role models.UserRole) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("authority = ? AND role = ?", authority, role).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by authority: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %d (%s): %w", user.ID, user.Role, err)
	}
	return nil
}
