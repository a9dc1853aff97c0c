package rewards

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"gorm.io/gorm"
)

// Minter issues reward credits to a recipient. Implementations must be
// safe to call inside a storage transaction; the caller ties issuance to
// the proposal state transition so a failed mint rolls everything back.
type Minter interface {
	Mint(ctx context.Context, db *gorm.DB, grant *models.TokenGrant) error
}

// LedgerMinter records grants in the token_grants table. The unique
// index on proposal_id makes a second mint for the same proposal fail at
// the storage layer.
type LedgerMinter struct {
	logger *slog.Logger
}

func NewLedgerMinter(logger *slog.Logger) *LedgerMinter {
	return &LedgerMinter{logger: logger}
}

func (m *LedgerMinter) Mint(ctx context.Context, db *gorm.DB, grant *models.TokenGrant) error {
	if grant.GrantedAt.IsZero() {
		grant.GrantedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(grant).Error; err != nil {
		return fmt.Errorf("failed to record token grant for proposal %d: %w", grant.ProposalID, err)
	}

	m.logger.Info("Reward minted",
		"proposal_id", grant.ProposalID,
		"recipient", grant.Recipient,
		"amount", grant.Amount)
	return nil
}

// MockMinter counts mints for tests.
type MockMinter struct {
	mu     sync.Mutex
	grants []models.TokenGrant

	// FailNext makes the next Mint call return an error.
	FailNext bool
}

func NewMockMinter() *MockMinter {
	return &MockMinter{}
}

func (m *MockMinter) Mint(ctx context.Context, db *gorm.DB, grant *models.TokenGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("mint failed")
	}
	m.grants = append(m.grants, *grant)
	return nil
}

// MintCount returns how many grants were issued.
func (m *MockMinter) MintCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.grants)
}

// Grants returns a copy of the issued grants.
func (m *MockMinter) Grants() []models.TokenGrant {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TokenGrant, len(m.grants))
	copy(out, m.grants)
	return out
}
