package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	"github.com/accountica/ledger_backend/internal/models"
	"github.com/accountica/ledger_backend/internal/utils/mapping"
	"github.com/accountica/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalEntryColumns = `entry_id, company_id, entry_number, entry_date, description, status, is_posted, fiscal_period_id, reversed_entry_id, reversing_entry_id, is_reversing, posted_at, posted_by, created_at, created_by, last_updated_at, last_updated_by`

const lineItemColumns = `line_item_id, entry_id, account_id, account_code, debit, credit, memo, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var reversedID, reversingID, postedBy sql.NullString
	var postedAt sql.NullTime

	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.IsPosted,
		&m.FiscalPeriodID,
		&reversedID,
		&reversingID,
		&m.IsReversing,
		&postedAt,
		&postedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}

	if reversedID.Valid {
		m.ReversedEntryID = &reversedID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	if postedAt.Valid {
		m.PostedAt = &postedAt.Time
	}
	if postedBy.Valid {
		m.PostedBy = postedBy.String
	}
	return m, nil
}

func scanLineItem(row pgx.Row) (models.LineItem, error) {
	var m models.LineItem
	err := row.Scan(
		&m.LineItemID,
		&m.EntryID,
		&m.AccountID,
		&m.AccountCode,
		&m.Debit,
		&m.Credit,
		&m.Memo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves a journal entry (without line items).
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2;
	`
	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry by ID %s: %w", entryID, err)
	}

	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// FindLineItemsByEntryID retrieves all line items of a journal entry.
func (r *PgxJournalRepository) FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items
		WHERE entry_id = $1
		ORDER BY created_at, line_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	ms := []models.LineItem{}
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row for entry %s: %w", entryID, err)
		}
		ms = append(ms, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows for entry %s: %w", entryID, rows.Err())
	}

	return mapping.ToDomainLineItemSlice(ms), nil
}

// ListEntriesByCompany retrieves a page of entries ordered newest first, using a
// (entry_date, created_at) tuple cursor encoded in the page token.
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1

	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE company_id = $1
	`
	args := []interface{}{companyID, fetchLimit}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($3, $4)`
		args = append(args, entryDate, createdAt)
	}

	query += `
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", rows.Err())
	}

	var newNextToken *string
	if len(ms) == fetchLimit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		newNextToken = &token
		ms = ms[:limit]
	}

	return mapping.ToDomainJournalEntrySlice(ms), newNextToken, nil
}

// NextEntryNumber claims the next sequence value for the (company, year, month)
// bucket. The upsert is atomic, so values are monotonic and never reused even
// under concurrent entry creation.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, companyID string, year int, month time.Month) (int, error) {
	query := `
		INSERT INTO entry_number_sequences (company_id, year, month, next_value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, year, month)
		DO UPDATE SET next_value = entry_number_sequences.next_value + 1
		RETURNING next_value;
	`
	var seq int
	err := tx.QueryRow(ctx, query, companyID, year, int(month)).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to claim entry number for company %s %04d-%02d: %w", companyID, year, int(month), err)
	}
	return seq, nil
}

// SaveEntry persists a new entry and its line items inside tx. Line items go
// through a single batch round trip.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.LineItem) error {
	m := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	var postedBy sql.NullString
	if m.PostedBy != "" {
		postedBy = sql.NullString{String: m.PostedBy, Valid: true}
	}

	_, err := tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.CompanyID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		m.Status,
		m.IsPosted,
		m.FiscalPeriodID,
		m.ReversedEntryID,
		m.ReversingEntryID,
		m.IsReversing,
		m.PostedAt,
		postedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, m.EntryNumber)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", m.EntryID, err)
	}

	lineQuery := `
		INSERT INTO line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		lm := mapping.ToModelLineItem(line)
		batch.Queue(lineQuery,
			lm.LineItemID,
			lm.EntryID,
			lm.AccountID,
			lm.AccountCode,
			lm.Debit,
			lm.Credit,
			lm.Memo,
			lm.CreatedAt,
			lm.CreatedBy,
			lm.LastUpdatedAt,
			lm.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert line item %d of entry %s: %w", i, m.EntryID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line item batch for entry %s: %w", m.EntryID, err)
	}

	return batchErr
}

// FindEntryForPosting locks the entry row (FOR UPDATE) and returns it with its
// line items. The lock serializes posting against concurrent post or reverse
// attempts on the same entry.
func (r *PgxJournalRepository) FindEntryForPosting(ctx context.Context, tx pgx.Tx, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2
		FOR UPDATE;
	`
	m, err := scanJournalEntry(tx.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock journal entry %s: %w", entryID, err)
	}

	lineQuery := `
		SELECT ` + lineItemColumns + `
		FROM line_items
		WHERE entry_id = $1
		ORDER BY created_at, line_item_id;
	`
	rows, err := tx.Query(ctx, lineQuery, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for locked entry %s: %w", entryID, err)
	}
	defer rows.Close()

	ms := []models.LineItem{}
	for rows.Next() {
		lm, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row for locked entry %s: %w", entryID, err)
		}
		ms = append(ms, lm)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows for locked entry %s: %w", entryID, rows.Err())
	}

	d := mapping.ToDomainJournalEntry(m)
	d.LineItems = mapping.ToDomainLineItemSlice(ms)
	return &d, nil
}

// InsertPostings writes the ledger postings projected from an entry's lines.
// Postings are append only; there is no update path.
func (r *PgxJournalRepository) InsertPostings(ctx context.Context, tx pgx.Tx, postings []domain.LedgerPosting) error {
	query := `
		INSERT INTO ledger_postings (posting_id, company_id, entry_id, line_item_id, account_id, account_code, entry_date, debit, credit, fiscal_period_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, posting := range postings {
		pm := mapping.ToModelLedgerPosting(posting)
		batch.Queue(query,
			pm.PostingID,
			pm.CompanyID,
			pm.EntryID,
			pm.LineItemID,
			pm.AccountID,
			pm.AccountCode,
			pm.EntryDate,
			pm.Debit,
			pm.Credit,
			pm.FiscalPeriodID,
			pm.CreatedAt,
			pm.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert ledger posting %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close ledger posting batch: %w", err)
	}

	return batchErr
}

// MarkEntryPosted flips the entry to POSTED in the same transaction that
// projected its postings. The is_posted guard keeps the flip monotonic.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entryID string, postedAt time.Time, postedBy string) error {
	query := `
		UPDATE journal_entries
		SET status = $2, is_posted = TRUE, posted_at = $3, posted_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND is_posted = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, models.EntryPosted, postedAt, postedBy)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is already posted", apperrors.ErrConflict, entryID)
	}
	return nil
}

// LinkReversal records the reversing entry id on the source entry. The NULL
// guard makes a second reversal of the same entry fail inside the transaction.
func (r *PgxJournalRepository) LinkReversal(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID, actorID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, originalEntryID, reversingEntryID, at, actorID)
	if err != nil {
		return fmt.Errorf("failed to link reversal on journal entry %s: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is already reversed", apperrors.ErrConflict, originalEntryID)
	}
	return nil
}

// CountDraftEntriesInPeriod counts DRAFT entries belonging to a fiscal period.
func (r *PgxJournalRepository) CountDraftEntriesInPeriod(ctx context.Context, tx pgx.Tx, periodID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_entries
		WHERE fiscal_period_id = $1 AND status = $2;
	`
	var count int
	if err := tx.QueryRow(ctx, query, periodID, models.EntryDraft).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draft entries in period %s: %w", periodID, err)
	}
	return count, nil
}
