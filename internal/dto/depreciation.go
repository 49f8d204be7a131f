package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateScheduleRequest defines the data needed to create a depreciation schedule.
type CreateScheduleRequest struct {
	AssetID          string                    `json:"assetID" binding:"required"`
	Method           domain.DepreciationMethod `json:"method" binding:"required,oneof=STRAIGHT_LINE DECLINING_BALANCE DOUBLE_DECLINING SUM_OF_YEARS_DIGITS UNITS_OF_PRODUCTION"`
	PurchasePrice    decimal.Decimal           `json:"purchasePrice" binding:"required"`
	ResidualValue    decimal.Decimal           `json:"residualValue"`
	UsefulLifeMonths int                       `json:"usefulLifeMonths" binding:"required,min=1"`
	StartDate        time.Time                 `json:"startDate" binding:"required"`
}

// ScheduleResponse defines the data returned for a depreciation schedule.
type ScheduleResponse struct {
	ScheduleID           string                    `json:"scheduleID"`
	CompanyID            string                    `json:"companyID"`
	AssetID              string                    `json:"assetID"`
	Method               domain.DepreciationMethod `json:"method"`
	PurchasePrice        decimal.Decimal           `json:"purchasePrice"`
	ResidualValue        decimal.Decimal           `json:"residualValue"`
	DepreciableAmount    decimal.Decimal           `json:"depreciableAmount"`
	UsefulLifeMonths     int                       `json:"usefulLifeMonths"`
	AnnualRate           decimal.Decimal           `json:"annualRate"`
	DepreciationPerMonth decimal.Decimal           `json:"depreciationPerMonth"`
	StartDate            time.Time                 `json:"startDate"`
	EndDate              time.Time                 `json:"endDate"`
	IsActive             bool                      `json:"isActive"`
	IsFulfilled          bool                      `json:"isFulfilled"`
	CreatedAt            time.Time                 `json:"createdAt"`
	CreatedBy            string                    `json:"createdBy"`
}

// DepreciationEntryResponse defines the data returned for a depreciation entry.
type DepreciationEntryResponse struct {
	DepreciationEntryID     string                         `json:"depreciationEntryID"`
	ScheduleID              string                         `json:"scheduleID"`
	AssetID                 string                         `json:"assetID"`
	PeriodDate              time.Time                      `json:"periodDate"`
	DepreciationAmount      decimal.Decimal                `json:"depreciationAmount"`
	AccumulatedDepreciation decimal.Decimal                `json:"accumulatedDepreciation"`
	BookValue               decimal.Decimal                `json:"bookValue"`
	Status                  domain.DepreciationEntryStatus `json:"status"`
	JournalEntryID          *string                        `json:"journalEntryID,omitempty"`
}

// CalculatePeriodRequest defines the input to a single-asset period calculation.
type CalculatePeriodRequest struct {
	AssetID    string    `json:"assetID" binding:"required"`
	PeriodDate time.Time `json:"periodDate" binding:"required"`
}

// ProcessPeriodRequest defines the input to a full depreciation run. When
// AutoPost is false the calculated entries are left unposted for review.
type ProcessPeriodRequest struct {
	PeriodDate time.Time `json:"periodDate" binding:"required"`
	AutoPost   bool      `json:"autoPost"`
}

// AssetFailure records why one asset could not be processed during a run.
type AssetFailure struct {
	AssetID string `json:"assetID"`
	Reason  string `json:"reason"`
}

// DepreciationRunResult summarises a batch depreciation run. Per-asset failures
// never abort the run.
type DepreciationRunResult struct {
	PeriodDate time.Time       `json:"periodDate"`
	Processed  int             `json:"processed"`
	Posted     int             `json:"posted"`
	Skipped    int             `json:"skipped"`
	Failures   []AssetFailure  `json:"failures,omitempty"`
	Total      decimal.Decimal `json:"totalDepreciation"`
}

// ToScheduleResponse converts a domain.DepreciationSchedule to its DTO.
func ToScheduleResponse(s *domain.DepreciationSchedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:           s.ScheduleID,
		CompanyID:            s.CompanyID,
		AssetID:              s.AssetID,
		Method:               s.Method,
		PurchasePrice:        s.PurchasePrice,
		ResidualValue:        s.ResidualValue,
		DepreciableAmount:    s.DepreciableAmount,
		UsefulLifeMonths:     s.UsefulLifeMonths,
		AnnualRate:           s.AnnualRate,
		DepreciationPerMonth: s.DepreciationPerMonth,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		IsActive:             s.IsActive,
		IsFulfilled:          s.IsFulfilled,
		CreatedAt:            s.CreatedAt,
		CreatedBy:            s.CreatedBy,
	}
}

// ToDepreciationEntryResponse converts a domain.DepreciationEntry to its DTO.
func ToDepreciationEntryResponse(e *domain.DepreciationEntry) DepreciationEntryResponse {
	return DepreciationEntryResponse{
		DepreciationEntryID:     e.DepreciationEntryID,
		ScheduleID:              e.ScheduleID,
		AssetID:                 e.AssetID,
		PeriodDate:              e.PeriodDate,
		DepreciationAmount:      e.DepreciationAmount,
		AccumulatedDepreciation: e.AccumulatedDepreciation,
		BookValue:               e.BookValue,
		Status:                  e.Status,
		JournalEntryID:          e.JournalEntryID,
	}
}
