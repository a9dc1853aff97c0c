package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"gorm.io/gorm"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("first_id_is_one", func(t *testing.T) {
		student := env.registerStudent(t, "alice", 43001)
		if student.ID != 1 {
			t.Errorf("First student id = %d, want 1", student.ID)
		}
		second := env.registerStudent(t, "bob", 43001)
		if second.ID != 2 {
			t.Errorf("Second student id = %d, want 2", second.ID)
		}
	})

	t.Run("ids_are_per_role", func(t *testing.T) {
		professor := env.registerProfessor(t, "prof-carol", 43001)
		if professor.ID != 1 {
			t.Errorf("First professor id = %d, want 1", professor.ID)
		}
	})

	t.Run("invalid_credential", func(t *testing.T) {
		_, err := env.users.Register(ctx, "mallory", models.RoleHighRank, RegisterUserRequest{
			IdentifierCode: "not-the-code",
		})
		if !errors.Is(err, ErrInvalidRoleCredential) {
			t.Fatalf("Error = %v, want ErrInvalidRoleCredential", err)
		}
	})

	t.Run("credential_of_wrong_role", func(t *testing.T) {
		_, err := env.users.Register(ctx, "mallory", models.RoleHighRank, RegisterUserRequest{
			IdentifierCode: studentCredential,
		})
		if !errors.Is(err, ErrInvalidRoleCredential) {
			t.Fatalf("Error = %v, want ErrInvalidRoleCredential", err)
		}
	})

	t.Run("duplicate_registration", func(t *testing.T) {
		_, err := env.users.Register(ctx, "alice", models.RoleStudent, RegisterUserRequest{
			IdentifierCode: studentCredential,
		})
		if !errors.Is(err, ErrUserAlreadyRegistered) {
			t.Fatalf("Error = %v, want ErrUserAlreadyRegistered", err)
		}
	})

	t.Run("same_authority_other_role_allowed", func(t *testing.T) {
		_, err := env.users.Register(ctx, "alice", models.RoleTeacher, RegisterUserRequest{
			IdentifierCode: professorCredential,
		})
		if err != nil {
			t.Fatalf("Registering the same authority under another role failed: %v", err)
		}
	})
}

func TestUserService_EnrollmentBeforeSubjectExists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const code uint32 = 50100

	// Three students and a professor enroll against a code whose
	// subject does not exist yet.
	env.registerStudent(t, "s1", code)
	env.registerStudent(t, "s2", code)
	env.registerStudent(t, "s3", code)
	env.registerProfessor(t, "p1", code)

	aggregate, err := env.repo.Aggregates().GetByCode(ctx, code)
	if err != nil {
		t.Fatalf("Failed to load aggregate: %v", err)
	}
	if aggregate.Bound() {
		t.Error("Aggregate should hold the placeholder before the subject exists")
	}
	if aggregate.Students != 3 || aggregate.Professors != 1 {
		t.Errorf("Counts = %d students / %d professors, want 3/1", aggregate.Students, aggregate.Professors)
	}

	// Registering the subject back-fills the id and keeps the counts.
	subject := env.createSubject(t, code)

	aggregate, err = env.repo.Aggregates().GetByCode(ctx, code)
	if err != nil {
		t.Fatalf("Failed to reload aggregate: %v", err)
	}
	if aggregate.SubjectID != int64(subject.ID) {
		t.Errorf("Aggregate subject id = %d, want %d", aggregate.SubjectID, subject.ID)
	}
	if aggregate.Students != 3 || aggregate.Professors != 1 {
		t.Errorf("Counts after bind = %d/%d, want 3/1", aggregate.Students, aggregate.Professors)
	}

	// Enrollment after binding keeps counting.
	env.registerStudent(t, "s4", code)
	aggregate, err = env.repo.Aggregates().GetByCode(ctx, code)
	if err != nil {
		t.Fatalf("Failed to reload aggregate: %v", err)
	}
	if aggregate.Students != 4 {
		t.Errorf("Students after late enrollment = %d, want 4", aggregate.Students)
	}
}

func TestUserService_HighRankHasNoEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, "dean", models.RoleHighRank, RegisterUserRequest{
		IdentifierCode: highRankCredential,
		SubjectCodes:   []uint32{43001},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(user.SubjectCodes) != 0 {
		t.Errorf("High rank subject codes = %v, want none", user.SubjectCodes)
	}
	if _, err := env.repo.Aggregates().GetByCode(ctx, 43001); err == nil {
		t.Error("High rank registration must not touch the relation table")
	}
}

func TestUserService_DuplicateInsertSurfacesSentinel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerStudent(t, "carol", 43001)

	// A racing registration that slips past the existence check lands on
	// the (authority, role) unique index; the driver error must translate
	// so the service can map it.
	err := env.repo.Users().Create(ctx, &models.User{
		ID:        99,
		Role:      models.RoleStudent,
		Authority: "carol",
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Direct duplicate insert = %v, want gorm.ErrDuplicatedKey", err)
	}

	if _, err := env.users.Register(ctx, "carol", models.RoleStudent, RegisterUserRequest{
		IdentifierCode: studentCredential,
	}); !errors.Is(err, ErrUserAlreadyRegistered) {
		t.Fatalf("Re-register error = %v, want ErrUserAlreadyRegistered", err)
	}
}
