package handlers_test

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/handlers"
	"github.com/accountica/ledger_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, actorID string) error {
	args := m.Called(ctx, companyID, accountID, actorID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

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

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AccountBalance(ctx context.Context, companyID string, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockLedgerService) ListAccountPostings(ctx context.Context, companyID string, accountID string, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error) {
	args := m.Called(ctx, companyID, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPostingsResponse), args.Error(1)
}
func (m *MockLedgerService) TrialBalance(ctx context.Context, companyID string, periodStart *time.Time, periodEnd time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, companyID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}
func (m *MockLedgerService) AgingReport(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time) (*domain.AgingReport, error) {
	args := m.Called(ctx, companyID, side, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgingReport), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock DepreciationService ---
type MockDepreciationService struct {
	mock.Mock
}

func (m *MockDepreciationService) CreateSchedule(ctx context.Context, companyID string, req dto.CreateScheduleRequest, creatorID string) (*domain.DepreciationSchedule, error) {
	args := m.Called(ctx, companyID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationSchedule), args.Error(1)
}
func (m *MockDepreciationService) GetSchedule(ctx context.Context, companyID string, scheduleID string) (*domain.DepreciationSchedule, error) {
	args := m.Called(ctx, companyID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationSchedule), args.Error(1)
}
func (m *MockDepreciationService) CalculatePeriod(ctx context.Context, companyID string, assetID string, periodDate time.Time, actorID string) (*domain.DepreciationEntry, error) {
	args := m.Called(ctx, companyID, assetID, periodDate, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationEntry), args.Error(1)
}
func (m *MockDepreciationService) PostEntry(ctx context.Context, companyID string, depreciationEntryID string, actorID string) (*domain.DepreciationEntry, error) {
	args := m.Called(ctx, companyID, depreciationEntryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationEntry), args.Error(1)
}
func (m *MockDepreciationService) ProcessPeriod(ctx context.Context, companyID string, periodDate time.Time, autoPost bool, actorID string) (*dto.DepreciationRunResult, error) {
	args := m.Called(ctx, companyID, periodDate, autoPost, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DepreciationRunResult), args.Error(1)
}

var _ portssvc.DepreciationSvcFacade = (*MockDepreciationService)(nil)

// --- Mock ECLService ---
type MockECLService struct {
	mock.Mock
}

func (m *MockECLService) CalculateInvoiceECL(ctx context.Context, companyID string, invoiceID string, asOf time.Time, rates map[domain.AgingBucket]decimal.Decimal, actorID string) (*domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, invoiceID, asOf, rates, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ECLProvision), args.Error(1)
}
func (m *MockECLService) PostProvision(ctx context.Context, companyID string, provisionID string, actorID string) (*domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, provisionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ECLProvision), args.Error(1)
}
func (m *MockECLService) ProcessMonthly(ctx context.Context, companyID string, asOf time.Time, autoPost bool, rates map[domain.AgingBucket]decimal.Decimal, actorID string) (*dto.ECLRunResult, error) {
	args := m.Called(ctx, companyID, asOf, autoPost, rates, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ECLRunResult), args.Error(1)
}
func (m *MockECLService) WriteOffBadDebt(ctx context.Context, companyID string, invoiceID string, req dto.WriteOffRequest, actorID string) (*domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, invoiceID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ECLProvision), args.Error(1)
}
func (m *MockECLService) RecordRecovery(ctx context.Context, companyID string, invoiceID string, req dto.RecoveryRequest, actorID string) (*domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, invoiceID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ECLProvision), args.Error(1)
}
func (m *MockECLService) ListProvisionHistory(ctx context.Context, companyID string, invoiceID string) ([]domain.ECLProvision, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ECLProvision), args.Error(1)
}

var _ portssvc.ECLSvcFacade = (*MockECLService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) RecordPayment(ctx context.Context, companyID string, invoiceID string, req dto.RecordPaymentRequest, actorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) OutstandingAmount(ctx context.Context, companyID string, invoiceID string) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock FxRateService ---
type MockFxRateService struct {
	mock.Mock
}

func (m *MockFxRateService) GetCurrentRate(ctx context.Context, fromCurrency, toCurrency string, at time.Time) (*domain.FxRate, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxRate), args.Error(1)
}
func (m *MockFxRateService) SaveRate(ctx context.Context, req dto.SaveFxRateRequest, actorID string) (*domain.FxRate, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FxRate), args.Error(1)
}
func (m *MockFxRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string, at time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCurrency, toCurrency, at)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.FxRateSvcFacade = (*MockFxRateService)(nil)

// mockServices bundles one mock per facade for route registration in tests.
type mockServices struct {
	account      *MockAccountService
	journal      *MockJournalService
	ledger       *MockLedgerService
	depreciation *MockDepreciationService
	ecl          *MockECLService
	invoice      *MockInvoiceService
	fxRate       *MockFxRateService
}

func newMockServices() *mockServices {
	return &mockServices{
		account:      new(MockAccountService),
		journal:      new(MockJournalService),
		ledger:       new(MockLedgerService),
		depreciation: new(MockDepreciationService),
		ecl:          new(MockECLService),
		invoice:      new(MockInvoiceService),
		fxRate:       new(MockFxRateService),
	}
}

// newTestRouter builds a gin engine with all routes registered against mocks.
func newTestRouter(m *mockServices) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{}, &portssvc.ServiceContainer{
		Account:      m.account,
		Journal:      m.journal,
		Ledger:       m.ledger,
		Depreciation: m.depreciation,
		ECL:          m.ecl,
		Invoice:      m.invoice,
		FxRate:       m.fxRate,
	})
	return r
}
