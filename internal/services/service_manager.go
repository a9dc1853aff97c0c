package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/curriculum-service/internal/events"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/rewards"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
)

// serviceManager owns service construction and lifecycle.
type serviceManager struct {
	mu sync.RWMutex

	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	minter    rewards.Minter

	users     UserService
	catalog   CatalogService
	proposals ProposalService
	export    ExportService

	initialized bool
	shutdown    bool
}

// NewServiceManager wires the services. publisher may be nil for
// environments without a broker; minter defaults to the ledger minter
// when nil.
func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
	minter rewards.Minter,
) *serviceManager {
	if minter == nil {
		minter = rewards.NewLedgerMinter(logger)
	}
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
		minter:    minter,
	}
}

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if m.repo == nil {
		return fmt.Errorf("repository is required")
	}

	m.users = NewUserService(m.repo, m.logger, m.validator)
	m.catalog = NewCatalogService(m.repo, m.logger, m.validator)
	m.proposals = NewProposalService(m.repo, m.logger, m.validator, m.publisher, m.minter)
	m.export = NewExportService(m.repo, m.logger)

	m.initialized = true
	m.logger.Info("Service manager initialized")
	return nil
}

func (m *serviceManager) Users() UserService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		panic("service manager not initialized")
	}
	return m.users
}

func (m *serviceManager) Catalog() CatalogService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		panic("service manager not initialized")
	}
	return m.catalog
}

func (m *serviceManager) Proposals() ProposalService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		panic("service manager not initialized")
	}
	return m.proposals
}

func (m *serviceManager) Export() ExportService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		panic("service manager not initialized")
	}
	return m.export
}

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if m.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return m.repo.Ping(ctx)
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	m.logger.Info("Service manager shut down")
	return nil
}
