package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingBucket is a days-past-due range used for risk grouping and provisioning.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "CURRENT"
	Bucket1To30   AgingBucket = "1-30"
	Bucket31To60  AgingBucket = "31-60"
	Bucket61To90  AgingBucket = "61-90"
	Bucket91To120 AgingBucket = "91-120"
	BucketOver120 AgingBucket = ">120"
)

// BucketForDays maps days past due onto the fine-grained aging bucket.
// Zero or negative days (not yet due) are CURRENT.
func BucketForDays(days int) AgingBucket {
	switch {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket1To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	case days <= 120:
		return Bucket91To120
	default:
		return BucketOver120
	}
}

// DaysPastDue computes whole days between dueDate and asOf.
func DaysPastDue(asOf, dueDate time.Time) int {
	return int(asOf.Sub(dueDate).Hours() / 24)
}

// DefaultECLRates is the aging-bucket -> loss-rate table applied when no
// per-call override is supplied.
func DefaultECLRates() map[AgingBucket]decimal.Decimal {
	return map[AgingBucket]decimal.Decimal{
		BucketCurrent: decimal.NewFromFloat(0.005),
		Bucket1To30:   decimal.NewFromFloat(0.02),
		Bucket31To60:  decimal.NewFromFloat(0.05),
		Bucket61To90:  decimal.NewFromFloat(0.15),
		Bucket91To120: decimal.NewFromFloat(0.30),
		BucketOver120: decimal.NewFromFloat(0.50),
	}
}

// ECLProvisionStatus is the lifecycle state of a provision record.
type ECLProvisionStatus string

const (
	ProvisionActive     ECLProvisionStatus = "ACTIVE"
	ProvisionReversed   ECLProvisionStatus = "REVERSED"
	ProvisionWrittenOff ECLProvisionStatus = "WRITTEN_OFF"
	ProvisionRecovered  ECLProvisionStatus = "RECOVERED"
)

// ECLAllowance is the loss allowance carried by the latest live provision of
// one invoice, as surfaced on aging reports.
type ECLAllowance struct {
	ECLAmount decimal.Decimal `json:"eclAmount"`
	ECLRate   decimal.Decimal `json:"eclRate"`
}

// ECLProvision is an expected-credit-loss allowance against one invoice.
// At most one ACTIVE provision exists per invoice; creating a new one flips the
// prior ACTIVE provision to REVERSED in the same transaction.
type ECLProvision struct {
	ProvisionID       string             `json:"provisionID"` // Primary key (UUID)
	CompanyID         string             `json:"companyID"`
	InvoiceID         string             `json:"invoiceID"`
	CalculationDate   time.Time          `json:"calculationDate"`
	AgingBucket       AgingBucket        `json:"agingBucket"`
	OutstandingAmount decimal.Decimal    `json:"outstandingAmount"`
	ECLRate           decimal.Decimal    `json:"eclRate"`
	ECLAmount         decimal.Decimal    `json:"eclAmount"`
	PreviousECLAmount decimal.Decimal    `json:"previousEclAmount"`
	AdjustmentAmount  decimal.Decimal    `json:"adjustmentAmount"` // eclAmount - previousEclAmount
	Status            ECLProvisionStatus `json:"status"`
	WriteOffAmount    decimal.Decimal    `json:"writeOffAmount"`
	WriteOffReason    string             `json:"writeOffReason,omitempty"`
	RecoveredAmount   decimal.Decimal    `json:"recoveredAmount"`
	JournalEntryID    *string            `json:"journalEntryID,omitempty"`
	AuditFields
}
