package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ECLProvisionStatus is the lifecycle state of a provision row.
type ECLProvisionStatus string

// ECLProvision is an expected-credit-loss allowance against one invoice.
// A partial unique index keeps at most one ACTIVE row per invoice.
type ECLProvision struct {
	ProvisionID       string             `db:"provision_id"`
	CompanyID         string             `db:"company_id"`
	InvoiceID         string             `db:"invoice_id"`
	CalculationDate   time.Time          `db:"calculation_date"`
	AgingBucket       string             `db:"aging_bucket"`
	OutstandingAmount decimal.Decimal    `db:"outstanding_amount"`
	ECLRate           decimal.Decimal    `db:"ecl_rate"`
	ECLAmount         decimal.Decimal    `db:"ecl_amount"`
	PreviousECLAmount decimal.Decimal    `db:"previous_ecl_amount"`
	AdjustmentAmount  decimal.Decimal    `db:"adjustment_amount"`
	Status            ECLProvisionStatus `db:"status"`
	WriteOffAmount    decimal.Decimal    `db:"write_off_amount"`
	WriteOffReason    string             `db:"write_off_reason"`
	RecoveredAmount   decimal.Decimal    `db:"recovered_amount"`
	JournalEntryID    *string            `db:"journal_entry_id"` // Nullable
	AuditFields
}
