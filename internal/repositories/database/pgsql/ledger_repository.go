package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	"github.com/accountica/ledger_backend/internal/models"
	"github.com/accountica/ledger_backend/internal/utils/mapping"
	"github.com/accountica/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// newPgxLedgerRepository creates a new read-side repository over posted ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{pool: pool}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerReader
var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// GetAccountTotals sums posted debits and credits for one account over the
// window. A nil periodStart means from inception.
func (r *PgxLedgerRepository) GetAccountTotals(ctx context.Context, companyID, accountID string, periodStart *time.Time, periodEnd time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_postings
		WHERE company_id = $1 AND account_id = $2 AND entry_date <= $3
		  AND ($4::timestamptz IS NULL OR entry_date >= $4);
	`
	var totalDebit, totalCredit decimal.Decimal
	err := r.pool.QueryRow(ctx, query, companyID, accountID, periodEnd, periodStart).Scan(&totalDebit, &totalCredit)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to aggregate postings for account %s: %w", accountID, err)
	}
	return totalDebit, totalCredit, nil
}

// GetTrialBalanceTotals sums posted debits and credits per account over the
// window. The LEFT JOIN keeps accounts with no activity in the result with
// zero totals; signing happens in the service layer.
func (r *PgxLedgerRepository) GetTrialBalanceTotals(ctx context.Context, companyID string, periodStart *time.Time, periodEnd time.Time) ([]domain.AccountBalance, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, a.normal_balance,
		       COALESCE(SUM(p.debit), 0), COALESCE(SUM(p.credit), 0)
		FROM accounts a
		LEFT JOIN ledger_postings p
		  ON p.account_id = a.account_id
		 AND p.entry_date <= $2
		 AND ($3::timestamptz IS NULL OR p.entry_date >= $3)
		WHERE a.company_id = $1
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.normal_balance
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, companyID, periodEnd, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance for company %s: %w", companyID, err)
	}
	defer rows.Close()

	balances := []domain.AccountBalance{}
	for rows.Next() {
		var b domain.AccountBalance
		err := rows.Scan(
			&b.AccountID,
			&b.Code,
			&b.Name,
			&b.AccountType,
			&b.NormalBalance,
			&b.TotalDebit,
			&b.TotalCredit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		balances = append(balances, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", rows.Err())
	}

	return balances, nil
}

// ListPostingsByAccount retrieves a page of an account's postings ordered by
// entry date then creation time, newest first, with a tuple-cursor token.
func (r *PgxLedgerRepository) ListPostingsByAccount(ctx context.Context, companyID, accountID string, from *time.Time, to time.Time, limit int, nextToken *string) ([]domain.LedgerPosting, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `
		SELECT posting_id, company_id, entry_id, line_item_id, account_id, account_code, entry_date, debit, credit, fiscal_period_id, created_at, created_by
		FROM ledger_postings
		WHERE company_id = $1 AND account_id = $2 AND entry_date <= $3
		  AND ($4::timestamptz IS NULL OR entry_date >= $4)
	`
	args := []interface{}{companyID, accountID, to, from, fetchLimit}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($6, $7)`
		args = append(args, entryDate, createdAt)
	}

	query += `
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $5;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query postings for account %s: %w", accountID, err)
	}
	defer rows.Close()

	ms := []models.LedgerPosting{}
	for rows.Next() {
		var m models.LedgerPosting
		err := rows.Scan(
			&m.PostingID,
			&m.CompanyID,
			&m.EntryID,
			&m.LineItemID,
			&m.AccountID,
			&m.AccountCode,
			&m.EntryDate,
			&m.Debit,
			&m.Credit,
			&m.FiscalPeriodID,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating posting rows: %w", rows.Err())
	}

	var newNextToken *string
	if len(ms) == fetchLimit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		newNextToken = &token
		ms = ms[:limit]
	}

	return mapping.ToDomainLedgerPostingSlice(ms), newNextToken, nil
}
