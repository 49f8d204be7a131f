package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedToken, args.Error(2)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, companyID string, year int, month time.Month) (int, error) {
	args := m.Called(ctx, tx, companyID, year, month)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.LineItem) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryForPosting(ctx context.Context, tx pgx.Tx, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) InsertPostings(ctx context.Context, tx pgx.Tx, postings []domain.LedgerPosting) error {
	args := m.Called(ctx, tx, postings)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entryID string, postedAt time.Time, postedBy string) error {
	args := m.Called(ctx, tx, entryID, postedAt, postedBy)
	return args.Error(0)
}

func (m *MockJournalRepository) LinkReversal(ctx context.Context, tx pgx.Tx, originalEntryID, reversingEntryID, actorID string, at time.Time) error {
	args := m.Called(ctx, tx, originalEntryID, reversingEntryID, actorID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) CountDraftEntriesInPeriod(ctx context.Context, tx pgx.Tx, periodID string) (int, error) {
	args := m.Called(ctx, tx, periodID)
	return args.Int(0), args.Error(1)
}

// --- Mock PeriodRepository ---
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, companyID, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOpenPeriodCovering(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriodsByCompany(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, companyID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodForUpdate(ctx context.Context, tx pgx.Tx, companyID, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ClosePeriod(ctx context.Context, tx pgx.Tx, periodID string, closedAt time.Time, actorID string) error {
	args := m.Called(ctx, tx, periodID, closedAt, actorID)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, companyID, accountID, actorID string, at time.Time) error {
	args := m.Called(ctx, companyID, accountID, actorID, at)
	return args.Error(0)
}

// --- Mock LedgerReader ---
type MockLedgerReader struct {
	mock.Mock
}

var _ portsrepo.LedgerReader = (*MockLedgerReader)(nil)

func (m *MockLedgerReader) GetAccountTotals(ctx context.Context, companyID, accountID string, periodStart *time.Time, periodEnd time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, companyID, accountID, periodStart, periodEnd)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerReader) GetTrialBalanceTotals(ctx context.Context, companyID string, periodStart *time.Time, periodEnd time.Time) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockLedgerReader) ListPostingsByAccount(ctx context.Context, companyID, accountID string, from *time.Time, to time.Time, limit int, nextToken *string) ([]domain.LedgerPosting, *string, error) {
	args := m.Called(ctx, companyID, accountID, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerPosting), returnedToken, args.Error(2)
}

// --- Mock DepreciationRepository ---
type MockDepreciationRepository struct {
	mock.Mock
}

var _ portsrepo.DepreciationRepositoryFacade = (*MockDepreciationRepository)(nil)

func (m *MockDepreciationRepository) FindScheduleByID(ctx context.Context, companyID, scheduleID string) (*domain.DepreciationSchedule, error) {
	args := m.Called(ctx, companyID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationSchedule), args.Error(1)
}

func (m *MockDepreciationRepository) FindActiveScheduleByAsset(ctx context.Context, companyID, assetID string) (*domain.DepreciationSchedule, error) {
	args := m.Called(ctx, companyID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationSchedule), args.Error(1)
}

func (m *MockDepreciationRepository) ListActiveSchedulesCovering(ctx context.Context, companyID string, periodDate time.Time) ([]domain.DepreciationSchedule, error) {
	args := m.Called(ctx, companyID, periodDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepreciationSchedule), args.Error(1)
}

func (m *MockDepreciationRepository) FindEntryByID(ctx context.Context, companyID, depreciationEntryID string) (*domain.DepreciationEntry, error) {
	args := m.Called(ctx, companyID, depreciationEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationEntry), args.Error(1)
}

func (m *MockDepreciationRepository) FindEntryByAssetPeriod(ctx context.Context, companyID, assetID string, periodDate time.Time) (*domain.DepreciationEntry, error) {
	args := m.Called(ctx, companyID, assetID, periodDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationEntry), args.Error(1)
}

func (m *MockDepreciationRepository) SumRecordedDepreciation(ctx context.Context, scheduleID string) (decimal.Decimal, error) {
	args := m.Called(ctx, scheduleID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDepreciationRepository) SaveSchedule(ctx context.Context, schedule domain.DepreciationSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockDepreciationRepository) SaveEntry(ctx context.Context, entry domain.DepreciationEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDepreciationRepository) MarkScheduleFulfilled(ctx context.Context, scheduleID, actorID string, at time.Time) error {
	args := m.Called(ctx, scheduleID, actorID, at)
	return args.Error(0)
}

func (m *MockDepreciationRepository) LinkJournalEntry(ctx context.Context, depreciationEntryID, journalEntryID, actorID string, at time.Time) error {
	args := m.Called(ctx, depreciationEntryID, journalEntryID, actorID, at)
	return args.Error(0)
}

// --- Mock ECLRepository ---
type MockECLRepository struct {
	mock.Mock
}

var _ portsrepo.ECLRepositoryFacade = (*MockECLRepository)(nil)

func (m *MockECLRepository) FindProvisionByID(ctx context.Context, companyID, provisionID string) (*domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, provisionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ECLProvision), args.Error(1)
}

func (m *MockECLRepository) FindActiveProvisionByInvoice(ctx context.Context, companyID, invoiceID string) (*domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ECLProvision), args.Error(1)
}

func (m *MockECLRepository) ListProvisionsByInvoice(ctx context.Context, companyID, invoiceID string) ([]domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ECLProvision), args.Error(1)
}

func (m *MockECLRepository) LatestAllowanceByInvoices(ctx context.Context, companyID string, invoiceIDs []string) (map[string]domain.ECLAllowance, error) {
	args := m.Called(ctx, companyID, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ECLAllowance), args.Error(1)
}

func (m *MockECLRepository) SaveProvisionSuperseding(ctx context.Context, provision domain.ECLProvision, supersededID *string) error {
	args := m.Called(ctx, provision, supersededID)
	return args.Error(0)
}

func (m *MockECLRepository) UpdateProvisionOnPost(ctx context.Context, provisionID, journalEntryID, actorID string, at time.Time) error {
	args := m.Called(ctx, provisionID, journalEntryID, actorID, at)
	return args.Error(0)
}

func (m *MockECLRepository) MarkWrittenOff(ctx context.Context, provisionID string, amount decimal.Decimal, reason, journalEntryID, actorID string, at time.Time) error {
	args := m.Called(ctx, provisionID, amount, reason, journalEntryID, actorID, at)
	return args.Error(0)
}

func (m *MockECLRepository) MarkRecovered(ctx context.Context, provisionID string, amount decimal.Decimal, journalEntryID, actorID string, at time.Time) error {
	args := m.Called(ctx, provisionID, amount, journalEntryID, actorID, at)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListOutstandingBySide(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, companyID, side, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SumConfirmedPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, invoiceID, status, actorID, at)
	return args.Error(0)
}

func (m *MockInvoiceRepository) LinkJournalEntry(ctx context.Context, invoiceID, journalEntryID, actorID string, at time.Time) error {
	args := m.Called(ctx, invoiceID, journalEntryID, actorID, at)
	return args.Error(0)
}

// --- Mock FxRateRepository ---
type MockFxRateRepository struct {
	mock.Mock
}

var _ portsrepo.FxRateRepositoryFacade = (*MockFxRateRepository)(nil)

func (m *MockFxRateRepository) FindCurrentRate(ctx context.Context, fromCurrency, toCurrency string, at time.Time) (*domain.FxRate, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxRate), args.Error(1)
}

func (m *MockFxRateRepository) ListRates(ctx context.Context, fromCurrency, toCurrency string) ([]domain.FxRate, error) {
	args := m.Called(ctx, fromCurrency, toCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FxRate), args.Error(1)
}

func (m *MockFxRateRepository) SaveRate(ctx context.Context, rate domain.FxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock JournalService (as used by the valuation engines) ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) CreatePeriod(ctx context.Context, companyID string, req dto.CreatePeriodRequest, creatorID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockJournalService) ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockJournalService) ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, periodID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}
