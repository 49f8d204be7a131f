package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationMethod identifies the calculation method of a schedule.
type DepreciationMethod string

const (
	StraightLine      DepreciationMethod = "STRAIGHT_LINE"
	DecliningBalance  DepreciationMethod = "DECLINING_BALANCE"
	DoubleDeclining   DepreciationMethod = "DOUBLE_DECLINING"
	SumOfYearsDigits  DepreciationMethod = "SUM_OF_YEARS_DIGITS"
	UnitsOfProduction DepreciationMethod = "UNITS_OF_PRODUCTION"
)

// DepreciationSchedule holds the parameters and derived per-period amounts for one
// asset. At most one active, unfulfilled schedule may exist per asset at a time.
type DepreciationSchedule struct {
	ScheduleID           string             `json:"scheduleID"` // Primary key (UUID)
	CompanyID            string             `json:"companyID"`
	AssetID              string             `json:"assetID"`
	Method               DepreciationMethod `json:"method"`
	PurchasePrice        decimal.Decimal    `json:"purchasePrice"`
	ResidualValue        decimal.Decimal    `json:"residualValue"`
	DepreciableAmount    decimal.Decimal    `json:"depreciableAmount"` // purchasePrice - residualValue
	UsefulLifeMonths     int                `json:"usefulLifeMonths"`
	AnnualRate           decimal.Decimal    `json:"annualRate"`           // Declining methods; first-year scalar for SOYD
	DepreciationPerMonth decimal.Decimal    `json:"depreciationPerMonth"` // Flat monthly amount for linear methods
	StartDate            time.Time          `json:"startDate"`
	EndDate              time.Time          `json:"endDate"`
	IsActive             bool               `json:"isActive"`
	IsFulfilled          bool               `json:"isFulfilled"` // Book value reached residual; terminal
	AuditFields
}

// DepreciationEntryStatus indicates whether a period's depreciation has been posted.
type DepreciationEntryStatus string

const (
	DepreciationCalculated DepreciationEntryStatus = "CALCULATED"
	DepreciationPosted     DepreciationEntryStatus = "POSTED"
)

// DepreciationEntry is one period's depreciation for one asset. Unique per
// (asset, period); bookValue never drops below the schedule's residual value.
type DepreciationEntry struct {
	DepreciationEntryID     string                  `json:"depreciationEntryID"` // Primary key (UUID)
	CompanyID               string                  `json:"companyID"`
	ScheduleID              string                  `json:"scheduleID"`
	AssetID                 string                  `json:"assetID"`
	PeriodDate              time.Time               `json:"periodDate"`
	DepreciationAmount      decimal.Decimal         `json:"depreciationAmount"`
	AccumulatedDepreciation decimal.Decimal         `json:"accumulatedDepreciation"`
	BookValue               decimal.Decimal         `json:"bookValue"`
	Status                  DepreciationEntryStatus `json:"status"`
	JournalEntryID          *string                 `json:"journalEntryID,omitempty"`
	AuditFields
}
