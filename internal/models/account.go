package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account naturally accumulates value.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Account represents a chart-of-accounts row.
type Account struct {
	AccountID     string        `db:"account_id"`
	CompanyID     string        `db:"company_id"`
	Code          string        `db:"code"` // Unique per company
	Name          string        `db:"name"`
	AccountType   AccountType   `db:"account_type"`
	NormalBalance NormalBalance `db:"normal_balance"` // Immutable after creation
	Description   string        `db:"description"`
	IsActive      bool          `db:"is_active"`
	IsSystem      bool          `db:"is_system"`
	AuditFields
}
