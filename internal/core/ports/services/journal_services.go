package services

import (
	"context"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entry data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific journal entry, with line items, by ID.
	GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries for a company.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entry data
type JournalWriterSvc interface {
	// CreateEntry validates and persists a new DRAFT journal entry.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorID string) (*domain.JournalEntry, error)

	// PostEntry atomically posts a DRAFT entry: revalidates it, projects its
	// lines into the ledger, and flips the entry to POSTED.
	PostEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts the mirror-image entry of a POSTED entry.
	ReverseEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error)
}

// PeriodManagerSvc defines fiscal period lifecycle operations
type PeriodManagerSvc interface {
	// CreatePeriod opens a new fiscal period.
	CreatePeriod(ctx context.Context, companyID string, req dto.CreatePeriodRequest, creatorID string) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all fiscal periods of a company.
	ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error)

	// ClosePeriod closes an OPEN period once it holds no draft entries.
	ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.FiscalPeriod, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	PeriodManagerSvc
}
