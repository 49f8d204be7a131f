package mapping

import (
	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/models"
)

// ToModelLedgerPosting converts a domain LedgerPosting to a model LedgerPosting
func ToModelLedgerPosting(d domain.LedgerPosting) models.LedgerPosting {
	return models.LedgerPosting{
		PostingID:      d.PostingID,
		CompanyID:      d.CompanyID,
		EntryID:        d.EntryID,
		LineItemID:     d.LineItemID,
		AccountID:      d.AccountID,
		AccountCode:    d.AccountCode,
		EntryDate:      d.EntryDate,
		Debit:          d.Debit,
		Credit:         d.Credit,
		FiscalPeriodID: d.FiscalPeriodID,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainLedgerPosting converts a model LedgerPosting to a domain LedgerPosting
func ToDomainLedgerPosting(m models.LedgerPosting) domain.LedgerPosting {
	return domain.LedgerPosting{
		PostingID:      m.PostingID,
		CompanyID:      m.CompanyID,
		EntryID:        m.EntryID,
		LineItemID:     m.LineItemID,
		AccountID:      m.AccountID,
		AccountCode:    m.AccountCode,
		EntryDate:      m.EntryDate,
		Debit:          m.Debit,
		Credit:         m.Credit,
		FiscalPeriodID: m.FiscalPeriodID,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainLedgerPostingSlice converts a slice of model LedgerPostings to domain LedgerPostings
func ToDomainLedgerPostingSlice(ms []models.LedgerPosting) []domain.LedgerPosting {
	ds := make([]domain.LedgerPosting, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerPosting(m)
	}
	return ds
}
