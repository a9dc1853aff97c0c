package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/curriculum-service/internal/cache"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PostgreSQLRepository implements repositories.Repository over gorm with
// Redis read-through caching on the read-mostly entities.
type PostgreSQLRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager

	sequences  repositories.SequenceRepository
	users      repositories.UserRepository
	catalog    repositories.CatalogRepository
	subjects   repositories.SubjectRepository
	aggregates repositories.SubjectAggregateRepository
	proposals  repositories.ProposalRepository
}

// RepositoryConfig holds the dependencies for repository construction.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates the repository aggregate. RedisClient
// may be nil; caching then degrades to direct reads.
func NewPostgreSQLRepository(config RepositoryConfig) *PostgreSQLRepository {
	cacheManager := cache.NewCacheManager(config.RedisClient)
	return newRepositoryWithCache(config.DB, cacheManager)
}

func newRepositoryWithCache(db *gorm.DB, cacheManager *cache.CacheManager) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		cacheManager: cacheManager,
		sequences:    NewSequenceRepository(db),
		users:        NewUserRepository(db),
		catalog:      NewCatalogRepository(db, cacheManager),
		subjects:     NewSubjectRepository(db, cacheManager),
		aggregates:   NewSubjectAggregateRepository(db, cacheManager),
		proposals:    NewProposalRepository(db),
	}
}

func (r *PostgreSQLRepository) Sequences() repositories.SequenceRepository {
	return r.sequences
}

func (r *PostgreSQLRepository) Users() repositories.UserRepository {
	return r.users
}

func (r *PostgreSQLRepository) Catalog() repositories.CatalogRepository {
	return r.catalog
}

func (r *PostgreSQLRepository) Subjects() repositories.SubjectRepository {
	return r.subjects
}

func (r *PostgreSQLRepository) Aggregates() repositories.SubjectAggregateRepository {
	return r.aggregates
}

func (r *PostgreSQLRepository) Proposals() repositories.ProposalRepository {
	return r.proposals
}

func (r *PostgreSQLRepository) DB() *gorm.DB {
	return r.db
}

// WithTransaction rebinds every sub-repository to one transaction and
// runs fn against the bound aggregate. Any error rolls the whole
// transaction back.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(txRepo repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositoryWithCache(tx, r.cacheManager))
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// Manager is the default RepositoryManager over PostgreSQLRepository.
type Manager struct {
	config     RepositoryConfig
	repository *PostgreSQLRepository
}

func NewRepositoryManager(config RepositoryConfig) *Manager {
	return &Manager{config: config}
}

func (m *Manager) Initialize(ctx context.Context) error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repository = NewPostgreSQLRepository(m.config)
	return m.repository.Ping(ctx)
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repository
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.repository == nil {
		return fmt.Errorf("repository not initialized")
	}
	return m.repository.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	if m.repository == nil {
		return nil
	}
	return m.repository.Close()
}
