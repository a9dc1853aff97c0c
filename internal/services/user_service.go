package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
	"gorm.io/gorm"
)

// userService registers academic actors. Registration is gated by a
// role credential whose sha256 digest must match the institutional
// constant for that role.
type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) *userService {
	return &userService{repo: repo, logger: logger, validator: v}
}

func (s *userService) Register(ctx context.Context, authority string, role models.UserRole, req RegisterUserRequest) (*models.User, error) {
	s.logger.Info("Registering user",
		"authority", authority,
		"role", role,
		"subject_codes", len(req.SubjectCodes))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	expected := models.RoleCodeDigest(role)
	if expected == "" {
		return nil, NewPermissionError(0, "user", "register", fmt.Sprintf("unknown role %q", role))
	}

	digest := sha256.Sum256([]byte(req.IdentifierCode))
	hash := hex.EncodeToString(digest[:])
	if hash != expected {
		return nil, ErrInvalidRoleCredential
	}

	// High rank carries no enrollment.
	codes := req.SubjectCodes
	if role == models.RoleHighRank {
		codes = nil
	}

	var user models.User

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if _, err := txRepo.Users().GetByAuthority(ctx, authority, role); err == nil {
			return ErrUserAlreadyRegistered
		} else if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check existing registration: %w", err)
		}

		id, err := txRepo.Sequences().Next(ctx, sequenceCategoryFor(role))
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}

		user = models.User{
			ID:                 id,
			Role:               role,
			Authority:          authority,
			IdentifierCodeHash: hash,
			SubjectCodes:       codes,
		}
		if err := txRepo.Users().Create(ctx, &user); err != nil {
			// A registration racing this one past the existence check
			// lands on the (authority, role) unique index.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyRegistered
			}
			return err
		}

		// Enrollment feeds the relation table. A code whose subject is
		// not registered yet gets a placeholder entry; the subject id
		// is back-filled when the subject is created.
		for _, code := range codes {
			if _, err := txRepo.Aggregates().GetByCode(ctx, code); err != nil {
				if !repositories.IsNotFoundError(err) {
					return err
				}
				if err := txRepo.Aggregates().RegisterCodeWithoutID(ctx, code, role); err != nil {
					return err
				}
				continue
			}
			if err := txRepo.Aggregates().IncrementRoleCount(ctx, code, role); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		"user_id", user.ID,
		"role", role)

	return &user, nil
}

func (s *userService) GetByAuthority(ctx context.Context, authority string, role models.UserRole) (*models.User, error) {
	user, err := s.repo.Users().GetByAuthority(ctx, authority, role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint, role models.UserRole) (*models.User, error) {
	user, err := s.repo.Users().GetByID(ctx, id, role)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func sequenceCategoryFor(role models.UserRole) string {
	switch role {
	case models.RoleStudent:
		return models.SeqStudent
	case models.RoleTeacher:
		return models.SeqProfessor
	default:
		return models.SeqHighRank
	}
}
