package pgsql

import (
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	depreciationRepo := newPgxDepreciationRepository(dbPool)
	eclRepo := newPgxECLRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	fxRateRepo := newPgxFxRateRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		JournalRepo:      journalRepo,
		PeriodRepo:       periodRepo,
		LedgerRepo:       ledgerRepo,
		DepreciationRepo: depreciationRepo,
		ECLRepo:          eclRepo,
		InvoiceRepo:      invoiceRepo,
		FxRateRepo:       fxRateRepo,
	}
}
