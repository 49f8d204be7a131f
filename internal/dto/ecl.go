package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateECLRequest defines the input to an invoice-level ECL calculation.
// Rates maps bucket labels to decimal rates; omitted buckets fall back to the
// default table's worst-bucket rate.
type CalculateECLRequest struct {
	InvoiceID string                     `json:"invoiceID" binding:"required"`
	AsOf      *time.Time                 `json:"asOf"` // Defaults to today
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// ProcessMonthlyECLRequest defines the input to a portfolio-wide ECL run. When
// AutoPost is false the calculated provisions are left unposted for review.
type ProcessMonthlyECLRequest struct {
	AsOf     *time.Time                 `json:"asOf"` // Defaults to today
	AutoPost bool                       `json:"autoPost"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// WriteOffRequest defines the input to a bad-debt write-off.
type WriteOffRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}

// RecoveryRequest defines the input to a bad-debt recovery.
type RecoveryRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ProvisionResponse defines the data returned for an ECL provision.
type ProvisionResponse struct {
	ProvisionID       string                    `json:"provisionID"`
	CompanyID         string                    `json:"companyID"`
	InvoiceID         string                    `json:"invoiceID"`
	CalculationDate   time.Time                 `json:"calculationDate"`
	AgingBucket       domain.AgingBucket        `json:"agingBucket"`
	OutstandingAmount decimal.Decimal           `json:"outstandingAmount"`
	ECLRate           decimal.Decimal           `json:"eclRate"`
	ECLAmount         decimal.Decimal           `json:"eclAmount"`
	PreviousECLAmount decimal.Decimal           `json:"previousEclAmount"`
	AdjustmentAmount  decimal.Decimal           `json:"adjustmentAmount"`
	Status            domain.ECLProvisionStatus `json:"status"`
	WriteOffAmount    decimal.Decimal           `json:"writeOffAmount"`
	WriteOffReason    string                    `json:"writeOffReason,omitempty"`
	RecoveredAmount   decimal.Decimal           `json:"recoveredAmount"`
	JournalEntryID    *string                   `json:"journalEntryID,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	CreatedBy         string                    `json:"createdBy"`
}

// InvoiceFailure records why one invoice could not be processed during a run.
type InvoiceFailure struct {
	InvoiceID string `json:"invoiceID"`
	Reason    string `json:"reason"`
}

// ECLRunResult summarises a portfolio-wide ECL run. Per-invoice failures never
// abort the run.
type ECLRunResult struct {
	AsOf      time.Time        `json:"asOf"`
	Processed int              `json:"processed"`
	Posted    int              `json:"posted"`
	Skipped   int              `json:"skipped"` // Zero-adjustment provisions
	Failures  []InvoiceFailure `json:"failures,omitempty"`
	TotalECL  decimal.Decimal  `json:"totalEcl"`
}

// ToProvisionResponse converts a domain.ECLProvision to its DTO.
func ToProvisionResponse(p *domain.ECLProvision) ProvisionResponse {
	return ProvisionResponse{
		ProvisionID:       p.ProvisionID,
		CompanyID:         p.CompanyID,
		InvoiceID:         p.InvoiceID,
		CalculationDate:   p.CalculationDate,
		AgingBucket:       p.AgingBucket,
		OutstandingAmount: p.OutstandingAmount,
		ECLRate:           p.ECLRate,
		ECLAmount:         p.ECLAmount,
		PreviousECLAmount: p.PreviousECLAmount,
		AdjustmentAmount:  p.AdjustmentAmount,
		Status:            p.Status,
		WriteOffAmount:    p.WriteOffAmount,
		WriteOffReason:    p.WriteOffReason,
		RecoveredAmount:   p.RecoveredAmount,
		JournalEntryID:    p.JournalEntryID,
		CreatedAt:         p.CreatedAt,
		CreatedBy:         p.CreatedBy,
	}
}

// ToListProvisionsResponse converts a slice of provisions to response DTOs.
func ToListProvisionsResponse(provisions []domain.ECLProvision) []ProvisionResponse {
	res := make([]ProvisionResponse, len(provisions))
	for i, p := range provisions {
		res[i] = ToProvisionResponse(&p)
	}
	return res
}

// ParseBucketRates converts label-keyed request rates into domain bucket keys.
// Unknown labels are rejected by the caller via the ok result.
func ParseBucketRates(raw map[string]decimal.Decimal) (map[domain.AgingBucket]decimal.Decimal, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	known := map[string]domain.AgingBucket{
		string(domain.BucketCurrent): domain.BucketCurrent,
		string(domain.Bucket1To30):   domain.Bucket1To30,
		string(domain.Bucket31To60):  domain.Bucket31To60,
		string(domain.Bucket61To90):  domain.Bucket61To90,
		string(domain.Bucket91To120): domain.Bucket91To120,
		string(domain.BucketOver120): domain.BucketOver120,
	}
	rates := make(map[domain.AgingBucket]decimal.Decimal, len(raw))
	for label, rate := range raw {
		bucket, ok := known[label]
		if !ok {
			return nil, false
		}
		rates[bucket] = rate
	}
	return rates, true
}
