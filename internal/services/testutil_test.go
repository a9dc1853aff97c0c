package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/events"
	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/curriculum-service/internal/rewards"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
	"github.com/SAP-F-2025/curriculum-service/pkg"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Registration credentials whose sha256 digests match the role
// constants.
const (
	highRankCredential  = "1111"
	professorCredential = "2222"
	studentCredential   = "3333"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRepo opens a fresh in-memory database for one test.
func newTestRepo(t *testing.T) repositories.Repository {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
}

// testEnv wires the services against one in-memory database.
type testEnv struct {
	repo      repositories.Repository
	users     *userService
	catalog   *catalogService
	proposals *proposalService
	publisher *events.MockEventPublisher
	minter    *rewards.MockMinter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newTestRepo(t)
	log := testLogger()
	v := validator.New()
	publisher := events.NewMockEventPublisher(log)
	minter := rewards.NewMockMinter()

	return &testEnv{
		repo:      repo,
		users:     NewUserService(repo, log, v),
		catalog:   NewCatalogService(repo, log, v),
		proposals: NewProposalService(repo, log, v, publisher, minter),
		publisher: publisher,
		minter:    minter,
	}
}

// setNow freezes the proposal service clock.
func (e *testEnv) setNow(unix int64) {
	e.proposals.now = func() time.Time { return time.Unix(unix, 0) }
}

func (e *testEnv) registerStudent(t *testing.T, authority string, codes ...uint32) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), authority, models.RoleStudent, RegisterUserRequest{
		IdentifierCode: studentCredential,
		SubjectCodes:   codes,
	})
	if err != nil {
		t.Fatalf("Failed to register student %s: %v", authority, err)
	}
	return user
}

func (e *testEnv) registerProfessor(t *testing.T, authority string, codes ...uint32) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), authority, models.RoleTeacher, RegisterUserRequest{
		IdentifierCode: professorCredential,
		SubjectCodes:   codes,
	})
	if err != nil {
		t.Fatalf("Failed to register professor %s: %v", authority, err)
	}
	return user
}

func (e *testEnv) registerHighRank(t *testing.T, authority string) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), authority, models.RoleHighRank, RegisterUserRequest{
		IdentifierCode: highRankCredential,
	})
	if err != nil {
		t.Fatalf("Failed to register high rank %s: %v", authority, err)
	}
	return user
}

// createSubject builds the catalog chain down to one subject.
func (e *testEnv) createSubject(t *testing.T, code uint32) *models.Subject {
	t.Helper()
	ctx := context.Background()

	faculty, err := e.catalog.CreateFaculty(ctx, CreateFacultyRequest{Name: "Engineering"})
	if err != nil {
		t.Fatalf("Failed to create faculty: %v", err)
	}
	degree, err := e.catalog.CreateDegree(ctx, CreateDegreeRequest{Name: "Computer Science", FacultyID: faculty.ID})
	if err != nil {
		t.Fatalf("Failed to create degree: %v", err)
	}
	specialty, err := e.catalog.CreateSpecialty(ctx, CreateSpecialtyRequest{Name: "Software Engineering", DegreeID: degree.ID})
	if err != nil {
		t.Fatalf("Failed to create specialty: %v", err)
	}
	subject, err := e.catalog.CreateSubject(ctx, CreateSubjectRequest{
		Name:        "Operating Systems",
		Code:        code,
		DegreeID:    degree.ID,
		SpecialtyID: specialty.ID,
		Course:      "third",
	})
	if err != nil {
		t.Fatalf("Failed to create subject: %v", err)
	}
	return subject
}

func validReference() string {
	return strings.Repeat("Q", 46)
}
