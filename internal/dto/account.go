package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code          string                `json:"code" binding:"required"`
	Name          string                `json:"name" binding:"required"`
	AccountType   domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance *domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // Optional, defaults per account type
	Description   string                `json:"description"` // Optional
	IsSystem      bool                  `json:"isSystem"`    // Optional, marks engine-managed accounts
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	CompanyID     string               `json:"companyID"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	Description   string               `json:"description"`
	IsActive      bool                 `json:"isActive"`
	IsSystem      bool                 `json:"isSystem"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`        // Optional: New name
	Description *string `json:"description"` // Optional: New description
	IsActive    *bool   `json:"isActive"`    // Optional: New active status
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		CompanyID:     acc.CompanyID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalBalance: acc.NormalBalance,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		IsSystem:      acc.IsSystem,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID     string               `json:"accountID"`
	Code          string               `json:"code"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	TotalDebit    decimal.Decimal      `json:"totalDebit"`
	TotalCredit   decimal.Decimal      `json:"totalCredit"`
	Balance       decimal.Decimal      `json:"balance"`
	AsOf          time.Time            `json:"asOf"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance to its DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance, asOf time.Time) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:     b.AccountID,
		Code:          b.Code,
		NormalBalance: b.NormalBalance,
		TotalDebit:    b.TotalDebit,
		TotalCredit:   b.TotalCredit,
		Balance:       b.Balance,
		AsOf:          asOf,
	}
}
