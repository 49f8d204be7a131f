package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account type naturally accumulates value.
// It is fixed at account creation and never changes.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the conventional normal-balance side for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// Account represents a chart-of-accounts node within the core domain.
type Account struct {
	AccountID     string        `json:"accountID"` // Primary key (UUID)
	CompanyID     string        `json:"companyID"` // Owning tenant (non-null)
	Code          string        `json:"code"`      // Hierarchical code, e.g. "1-2010"; unique per company
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"` // Immutable after creation
	Description   string        `json:"description"`
	IsActive      bool          `json:"isActive"`
	IsSystem      bool          `json:"isSystem"` // System accounts cannot be mutated or deactivated
	AuditFields
}
