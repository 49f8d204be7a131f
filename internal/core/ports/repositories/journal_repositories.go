package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal entry data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry (without line items) by its identifier.
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindLineItemsByEntryID retrieves all line items of a journal entry.
	FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.LineItem, error)

	// ListEntriesByCompany retrieves a paginated list of entries using token-based
	// pagination. It returns the entries, a token for the next page, and an error.
	ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entry data.
// Methods taking a pgx.Tx participate in a caller-owned transaction: the journal
// engine owns and commits the atomic unit around posting and reversal.
type JournalWriter interface {
	// NextEntryNumber claims the next sequence value for the (company, year, month)
	// bucket. Values are monotonic and never reused, even if an entry is deleted.
	NextEntryNumber(ctx context.Context, tx pgx.Tx, companyID string, year int, month time.Month) (int, error)

	// SaveEntry persists a new entry and its line items inside tx.
	SaveEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.LineItem) error

	// FindEntryForPosting locks the entry row (FOR UPDATE) and returns it with lines.
	FindEntryForPosting(ctx context.Context, tx pgx.Tx, companyID, entryID string) (*domain.JournalEntry, error)

	// InsertPostings writes the ledger postings projected from an entry's lines.
	InsertPostings(ctx context.Context, tx pgx.Tx, postings []domain.LedgerPosting) error

	// MarkEntryPosted flips the entry to POSTED/isPosted in the same transaction
	// that projected its postings.
	MarkEntryPosted(ctx context.Context, tx pgx.Tx, entryID string, postedAt time.Time, postedBy string) error

	// LinkReversal records the reversing entry id on the source entry.
	LinkReversal(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID, actorID string, at time.Time) error

	// CountDraftEntriesInPeriod counts DRAFT entries belonging to a fiscal period.
	CountDraftEntriesInPeriod(ctx context.Context, tx pgx.Tx, periodID string) (int, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
