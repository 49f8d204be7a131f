package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationMethod identifies the calculation method of a schedule.
type DepreciationMethod string

// DepreciationEntryStatus indicates whether a period's charge has been posted.
type DepreciationEntryStatus string

const (
	DepreciationCalculated DepreciationEntryStatus = "CALCULATED"
	DepreciationPosted     DepreciationEntryStatus = "POSTED"
)

// DepreciationSchedule holds the parameters and derived per-period amounts for one asset.
type DepreciationSchedule struct {
	ScheduleID           string             `db:"schedule_id"`
	CompanyID            string             `db:"company_id"`
	AssetID              string             `db:"asset_id"`
	Method               DepreciationMethod `db:"method"`
	PurchasePrice        decimal.Decimal    `db:"purchase_price"`
	ResidualValue        decimal.Decimal    `db:"residual_value"`
	DepreciableAmount    decimal.Decimal    `db:"depreciable_amount"`
	UsefulLifeMonths     int                `db:"useful_life_months"`
	AnnualRate           decimal.Decimal    `db:"annual_rate"`
	DepreciationPerMonth decimal.Decimal    `db:"depreciation_per_month"`
	StartDate            time.Time          `db:"start_date"`
	EndDate              time.Time          `db:"end_date"`
	IsActive             bool               `db:"is_active"`
	IsFulfilled          bool               `db:"is_fulfilled"`
	AuditFields
}

// DepreciationEntry is one period's depreciation charge for one asset.
type DepreciationEntry struct {
	DepreciationEntryID     string                  `db:"depreciation_entry_id"`
	CompanyID               string                  `db:"company_id"`
	ScheduleID              string                  `db:"schedule_id"`
	AssetID                 string                  `db:"asset_id"`
	PeriodDate              time.Time               `db:"period_date"`
	DepreciationAmount      decimal.Decimal         `db:"depreciation_amount"`
	AccumulatedDepreciation decimal.Decimal         `db:"accumulated_depreciation"`
	BookValue               decimal.Decimal         `db:"book_value"`
	Status                  DepreciationEntryStatus `db:"status"`
	JournalEntryID          *string                 `db:"journal_entry_id"` // Nullable
	AuditFields
}
