package models

import "time"

// PeriodStatus indicates whether a fiscal period accepts postings.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FiscalPeriod is a posting window.
type FiscalPeriod struct {
	PeriodID  string       `db:"period_id"`
	CompanyID string       `db:"company_id"`
	Name      string       `db:"name"`
	StartDate time.Time    `db:"start_date"`
	EndDate   time.Time    `db:"end_date"`
	Status    PeriodStatus `db:"status"`
	ClosedAt  *time.Time   `db:"closed_at"` // Nullable
	AuditFields
}
