package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository aggregates all entity repositories behind one interface so
// services depend on a single seam.
type Repository interface {
	Sequences() SequenceRepository
	Users() UserRepository
	Catalog() CatalogRepository
	Subjects() SubjectRepository
	Aggregates() SubjectAggregateRepository
	Proposals() ProposalRepository

	// WithTransaction runs fn against a Repository bound to a single
	// database transaction. fn returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(txRepo Repository) error) error

	// DB exposes the bound gorm handle (the transaction handle inside
	// WithTransaction) for collaborators that write alongside the
	// repositories, such as the reward minter.
	DB() *gorm.DB

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager controls repository lifecycle.
type RepositoryManager interface {
	Initialize(ctx context.Context) error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// IsNotFoundError reports whether err is a missing-record error from any
// repository layer.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
