package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to open a new fiscal period.
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	CompanyID string              `json:"companyID"`
	Name      string              `json:"name"`
	StartDate time.Time           `json:"startDate"`
	EndDate   time.Time           `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
	ClosedAt  *time.Time          `json:"closedAt,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	CreatedBy string              `json:"createdBy"`
}

// ToPeriodResponse converts a domain.FiscalPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
		ClosedAt:  p.ClosedAt,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}

// ToListPeriodsResponse converts a slice of periods to response DTOs.
func ToListPeriodsResponse(periods []domain.FiscalPeriod) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = ToPeriodResponse(&p)
	}
	return res
}
