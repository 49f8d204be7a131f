package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListPostingsParams defines query parameters for listing an account's postings.
type ListPostingsParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken *string    `form:"nextToken"`
}

// PostingResponse defines the data returned for one ledger posting.
type PostingResponse struct {
	PostingID   string          `json:"postingID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	EntryDate   time.Time       `json:"entryDate"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// ListPostingsResponse wraps a page of postings with the token for the next page.
type ListPostingsResponse struct {
	Postings  []PostingResponse `json:"postings"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPostingResponse converts a domain.LedgerPosting to PostingResponse DTO.
func ToPostingResponse(p *domain.LedgerPosting) PostingResponse {
	return PostingResponse{
		PostingID:   p.PostingID,
		EntryID:     p.EntryID,
		AccountID:   p.AccountID,
		AccountCode: p.AccountCode,
		EntryDate:   p.EntryDate,
		Debit:       p.Debit,
		Credit:      p.Credit,
	}
}

// ToListPostingsResponse converts a page of postings plus its continuation token.
func ToListPostingsResponse(postings []domain.LedgerPosting, nextToken *string) *ListPostingsResponse {
	res := make([]PostingResponse, len(postings))
	for i, p := range postings {
		res[i] = ToPostingResponse(&p)
	}
	return &ListPostingsResponse{Postings: res, NextToken: nextToken}
}

// TrialBalanceParams defines query parameters for the trial balance report.
type TrialBalanceParams struct {
	PeriodStart *time.Time `form:"periodStart" time_format:"2006-01-02"`
	PeriodEnd   *time.Time `form:"periodEnd" time_format:"2006-01-02"` // Defaults to today
}

// AgingReportParams defines query parameters for the aging report.
type AgingReportParams struct {
	Side string     `form:"side,default=RECEIVABLE" binding:"omitempty,oneof=RECEIVABLE PAYABLE"`
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"` // Defaults to today
}
