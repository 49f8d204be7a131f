package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest defines one debit or credit line of a new entry.
// Lines reference accounts by chart-of-accounts code; the service resolves them.
type CreateLineItemRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"` // Optional
}

// CreateEntryRequest defines the data needed to create a new journal entry.
type CreateEntryRequest struct {
	EntryDate   time.Time               `json:"entryDate" binding:"required"`
	Description string                  `json:"description" binding:"required"`
	Lines       []CreateLineItemRequest `json:"lines" binding:"required,min=2,dive"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string             `json:"entryID"`
	CompanyID        string             `json:"companyID"`
	EntryNumber      string             `json:"entryNumber"`
	EntryDate        time.Time          `json:"entryDate"`
	Description      string             `json:"description"`
	Status           domain.EntryStatus `json:"status"`
	IsPosted         bool               `json:"isPosted"`
	FiscalPeriodID   string             `json:"fiscalPeriodID"`
	ReversedEntryID  *string            `json:"reversedEntryID,omitempty"`
	ReversingEntryID *string            `json:"reversingEntryID,omitempty"`
	IsReversing      bool               `json:"isReversing"`
	PostedAt         *time.Time         `json:"postedAt,omitempty"`
	PostedBy         string             `json:"postedBy,omitempty"`
	Lines            []LineItemResponse `json:"lines,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	CreatedBy        string             `json:"createdBy"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of journal entries with the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO.
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		LineItemID:  li.LineItemID,
		AccountID:   li.AccountID,
		AccountCode: li.AccountCode,
		Debit:       li.Debit,
		Credit:      li.Credit,
		Memo:        li.Memo,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]LineItemResponse, len(e.LineItems))
	for i, li := range e.LineItems {
		lines[i] = ToLineItemResponse(&li)
	}
	return EntryResponse{
		EntryID:          e.EntryID,
		CompanyID:        e.CompanyID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		Status:           e.Status,
		IsPosted:         e.IsPosted,
		FiscalPeriodID:   e.FiscalPeriodID,
		ReversedEntryID:  e.ReversedEntryID,
		ReversingEntryID: e.ReversingEntryID,
		IsReversing:      e.IsReversing,
		PostedAt:         e.PostedAt,
		PostedBy:         e.PostedBy,
		Lines:            lines,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}

// ToListEntriesResponse converts a page of entries plus its continuation token.
func ToListEntriesResponse(entries []domain.JournalEntry, nextToken *string) *ListEntriesResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(&e)
	}
	return &ListEntriesResponse{Entries: res, NextToken: nextToken}
}
