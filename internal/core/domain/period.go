package domain

import "time"

// PeriodStatus indicates whether a fiscal period accepts postings.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED" // Terminal; no reopen operation
)

// FiscalPeriod is a posting window. A period may only close when it contains no
// unposted journal entries; once closed it accepts no further postings.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"` // Primary key (UUID)
	CompanyID string       `json:"companyID"`
	Name      string       `json:"name"` // e.g. "2026-08"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	AuditFields
}

// Covers reports whether date falls within the period window (inclusive).
func (p FiscalPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}
