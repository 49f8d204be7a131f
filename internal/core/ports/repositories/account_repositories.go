package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier within a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart-of-accounts code.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves accounts for the given codes, keyed by code.
	// Codes with no matching account are simply absent from the map.
	FindAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts for a company, optionally active-only.
	ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount persists a new account. Duplicate codes yield apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields (name, description, active flag).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount soft-deletes an account.
	DeactivateAccount(ctx context.Context, companyID, accountID, actorID string, at time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
