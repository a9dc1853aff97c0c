package postgres

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/curriculum-service/internal/cache"
	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
)

func TestSubjectAggregateRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubjectAggregateRepository(db, cache.NewCacheManager(nil))
	ctx := context.Background()
	const code uint32 = 43001

	t.Run("register_without_id_creates_placeholder", func(t *testing.T) {
		if err := repo.RegisterCodeWithoutID(ctx, code, models.RoleStudent); err != nil {
			t.Fatalf("RegisterCodeWithoutID failed: %v", err)
		}

		aggregate, err := repo.GetByCode(ctx, code)
		if err != nil {
			t.Fatalf("GetByCode failed: %v", err)
		}
		if aggregate.SubjectID != models.PlaceholderSubjectID {
			t.Errorf("SubjectID = %d, want placeholder", aggregate.SubjectID)
		}
		if aggregate.Students != 1 || aggregate.Professors != 0 {
			t.Errorf("Counts = %d/%d, want 1 student / 0 professors", aggregate.Students, aggregate.Professors)
		}
	})

	t.Run("register_is_idempotent", func(t *testing.T) {
		if err := repo.RegisterCodeWithoutID(ctx, code, models.RoleTeacher); err != nil {
			t.Fatalf("RegisterCodeWithoutID failed: %v", err)
		}
		aggregate, err := repo.GetByCode(ctx, code)
		if err != nil {
			t.Fatalf("GetByCode failed: %v", err)
		}
		if aggregate.Students != 1 || aggregate.Professors != 0 {
			t.Errorf("Counts changed on re-register: %d/%d", aggregate.Students, aggregate.Professors)
		}
	})

	t.Run("increment_counts", func(t *testing.T) {
		if err := repo.IncrementRoleCount(ctx, code, models.RoleTeacher); err != nil {
			t.Fatalf("IncrementRoleCount failed: %v", err)
		}
		if err := repo.IncrementRoleCount(ctx, code, models.RoleStudent); err != nil {
			t.Fatalf("IncrementRoleCount failed: %v", err)
		}

		aggregate, err := repo.GetByCode(ctx, code)
		if err != nil {
			t.Fatalf("GetByCode failed: %v", err)
		}
		if aggregate.Students != 2 || aggregate.Professors != 1 {
			t.Errorf("Counts = %d/%d, want 2/1", aggregate.Students, aggregate.Professors)
		}
	})

	t.Run("increment_absent_code_is_noop", func(t *testing.T) {
		if err := repo.IncrementRoleCount(ctx, 99999, models.RoleStudent); err != nil {
			t.Fatalf("IncrementRoleCount on absent code failed: %v", err)
		}
		if _, err := repo.GetByCode(ctx, 99999); !repositories.IsNotFoundError(err) {
			t.Fatalf("GetByCode = %v, want not-found", err)
		}
	})

	t.Run("bind_preserves_counts", func(t *testing.T) {
		if err := repo.BindSubject(ctx, 7, code); err != nil {
			t.Fatalf("BindSubject failed: %v", err)
		}

		aggregate, err := repo.GetByCode(ctx, code)
		if err != nil {
			t.Fatalf("GetByCode failed: %v", err)
		}
		if aggregate.SubjectID != 7 {
			t.Errorf("SubjectID = %d, want 7", aggregate.SubjectID)
		}
		if aggregate.Students != 2 || aggregate.Professors != 1 {
			t.Errorf("Counts after bind = %d/%d, want 2/1", aggregate.Students, aggregate.Professors)
		}
	})

	t.Run("bind_does_not_rebind", func(t *testing.T) {
		if err := repo.BindSubject(ctx, 42, code); err != nil {
			t.Fatalf("BindSubject failed: %v", err)
		}

		aggregate, err := repo.GetByCode(ctx, code)
		if err != nil {
			t.Fatalf("GetByCode failed: %v", err)
		}
		if aggregate.SubjectID != 7 {
			t.Errorf("SubjectID = %d, want the original binding 7", aggregate.SubjectID)
		}
	})

	t.Run("bind_inserts_when_absent", func(t *testing.T) {
		const fresh uint32 = 60200
		if err := repo.BindSubject(ctx, 8, fresh); err != nil {
			t.Fatalf("BindSubject failed: %v", err)
		}

		aggregate, err := repo.GetBySubjectID(ctx, 8)
		if err != nil {
			t.Fatalf("GetBySubjectID failed: %v", err)
		}
		if aggregate.Code != fresh {
			t.Errorf("Code = %d, want %d", aggregate.Code, fresh)
		}
		if aggregate.Students != 0 || aggregate.Professors != 0 {
			t.Errorf("Fresh bind counts = %d/%d, want 0/0", aggregate.Students, aggregate.Professors)
		}
	})
}
