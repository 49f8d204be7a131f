package services

import (
	"context"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart-of-accounts code.
	GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// ListAccounts retrieves a company's accounts, optionally active-only.
	ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)

	// UpdateAccount updates an account's mutable fields.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. System accounts are protected.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, actorID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
