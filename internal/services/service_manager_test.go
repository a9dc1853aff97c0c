package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/curriculum-service/internal/events"
	"github.com/SAP-F-2025/curriculum-service/internal/rewards"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
)

func TestServiceManager_Initialize(t *testing.T) {
	repo := newTestRepo(t)
	log := testLogger()

	manager := NewServiceManager(repo, log, validator.New(), events.NewMockEventPublisher(log), rewards.NewMockMinter())

	ctx := context.Background()
	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if manager.Users() == nil {
		t.Error("Users() returned nil")
	}
	if manager.Catalog() == nil {
		t.Error("Catalog() returned nil")
	}
	if manager.Proposals() == nil {
		t.Error("Proposals() returned nil")
	}
	if manager.Export() == nil {
		t.Error("Export() returned nil")
	}

	if err := manager.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	if err := manager.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if err := manager.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck should fail after shutdown")
	}
}

func TestServiceManager_PanicsBeforeInitialize(t *testing.T) {
	repo := newTestRepo(t)
	log := testLogger()
	manager := NewServiceManager(repo, log, validator.New(), nil, nil)

	defer func() {
		if recover() == nil {
			t.Error("Accessing services before Initialize should panic")
		}
	}()
	manager.Proposals()
}

func TestServiceManager_RequiresRepository(t *testing.T) {
	manager := NewServiceManager(nil, testLogger(), validator.New(), nil, nil)
	if err := manager.Initialize(context.Background()); err == nil {
		t.Error("Initialize without repository should fail")
	}
}
