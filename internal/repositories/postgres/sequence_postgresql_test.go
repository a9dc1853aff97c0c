package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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

	err = db.AutoMigrate(
		&models.SequenceCounter{},
		&models.SubjectAggregate{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestSequenceRepository_Next(t *testing.T) {
	db := newTestDB(t)
	repo := NewSequenceRepository(db)
	ctx := context.Background()

	t.Run("first_id_is_one", func(t *testing.T) {
		id, err := repo.Next(ctx, models.SeqProposal)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if id != 1 {
			t.Errorf("First id = %d, want 1", id)
		}
	})

	t.Run("strictly_increasing", func(t *testing.T) {
		prev := uint(0)
		for i := 0; i < 5; i++ {
			id, err := repo.Next(ctx, models.SeqProposal)
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			if id <= prev {
				t.Fatalf("Id %d not greater than previous %d", id, prev)
			}
			prev = id
		}
	})

	t.Run("categories_are_independent", func(t *testing.T) {
		id, err := repo.Next(ctx, models.SeqStudent)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if id != 1 {
			t.Errorf("First student id = %d, want 1", id)
		}
	})

	t.Run("current_does_not_allocate", func(t *testing.T) {
		before, err := repo.Current(ctx, models.SeqSubject)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if before != 1 {
			t.Errorf("Current on untouched category = %d, want 1", before)
		}
		after, err := repo.Current(ctx, models.SeqSubject)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if after != before {
			t.Errorf("Current advanced from %d to %d without allocation", before, after)
		}
	})
}

func TestSequenceRepository_ConcurrentNext(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const workers = 10
	ids := make(chan uint, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				id, err := NewSequenceRepository(tx).Next(ctx, models.SeqProposal)
				if err != nil {
					return err
				}
				ids <- id
				return nil
			})
			if err != nil {
				t.Errorf("Concurrent Next failed: %v", err)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint]bool)
	for id := range ids {
		if id == 0 {
			t.Error("Allocator issued 0")
		}
		if seen[id] {
			t.Errorf("Id %d issued twice", id)
		}
		seen[id] = true
	}
	if len(seen) != workers {
		t.Errorf("Unique ids = %d, want %d", len(seen), workers)
	}
}

func TestSequenceRepository_RollbackDoesNotBurnIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := NewSequenceRepository(tx)
		if _, err := txRepo.Next(ctx, models.SeqProposal); err != nil {
			return err
		}
		return fmt.Errorf("force rollback")
	})
	if err == nil {
		t.Fatal("Transaction should have rolled back")
	}

	repo := NewSequenceRepository(db)
	id, err := repo.Next(ctx, models.SeqProposal)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if id != 1 {
		t.Errorf("Id after rollback = %d, want 1", id)
	}
}
