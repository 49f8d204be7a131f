package services

import (
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo)
	container.FxRate = NewFxRateService(repos.FxRateRepo)

	// The journal engine is the only writer of ledger state; the valuation
	// engines post through it rather than touching the ledger directly.
	container.Journal = NewJournalService(repos.JournalRepo, repos.PeriodRepo, repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.InvoiceRepo, repos.ECLRepo, cfg.SystemAccounts)
	container.Depreciation = NewDepreciationService(repos.DepreciationRepo, container.Journal, cfg.SystemAccounts)
	container.ECL = NewECLService(repos.ECLRepo, repos.InvoiceRepo, container.Journal, cfg.SystemAccounts)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
	_ portssvc.DepreciationSvcFacade = (*depreciationService)(nil)
	_ portssvc.ECLSvcFacade          = (*eclService)(nil)
	_ portssvc.InvoiceSvcFacade      = (*invoiceService)(nil)
	_ portssvc.FxRateSvcFacade       = (*fxRateService)(nil)
)
