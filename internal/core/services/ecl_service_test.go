package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/core/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/pkg/config"
)

type ECLServiceTestSuite struct {
	suite.Suite
	mockECLRepo     *MockECLRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockJournalSvc  *MockJournalService
	service         portssvc.ECLSvcFacade
	ctx             context.Context

	companyID   string
	actorID     string
	sysAccounts config.SystemAccounts
	asOf        time.Time
}

func (suite *ECLServiceTestSuite) SetupTest() {
	suite.mockECLRepo = new(MockECLRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalSvc = new(MockJournalService)
	suite.sysAccounts = config.SystemAccounts{
		BadDebtExpense:     "6400",
		AllowanceForECL:    "1190",
		AccountsReceivable: "1200",
		Cash:               "1010",
	}
	suite.service = services.NewECLService(suite.mockECLRepo, suite.mockInvoiceRepo, suite.mockJournalSvc, suite.sysAccounts)
	suite.ctx = context.Background()

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.asOf = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// receivableInvoice is 45 days past due as of the suite's reference date, which
// places it in the 31-60 bucket at the default 5% rate.
func (suite *ECLServiceTestSuite) receivableInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Number:      "INV-2025-0042",
		PartyID:     uuid.NewString(),
		Side:        domain.Receivable,
		TotalAmount: decimal.NewFromInt(10000000),
		IssueDate:   time.Date(2025, time.April, 16, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2025, time.May, 16, 0, 0, 0, 0, time.UTC),
		Status:      domain.InvoiceSent,
	}
}

// --- CalculateInvoiceECL ---

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_FirstProvision() {
	invoice := suite.receivableInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), (*string)(nil)).
		Return(nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(provision)
	suite.Equal(domain.Bucket31To60, provision.AgingBucket)
	suite.True(provision.ECLRate.Equal(decimal.RequireFromString("0.05")))
	suite.True(provision.ECLAmount.Equal(decimal.NewFromInt(500000)))
	suite.True(provision.PreviousECLAmount.IsZero())
	suite.True(provision.AdjustmentAmount.Equal(decimal.NewFromInt(500000)))
	suite.Equal(domain.ProvisionActive, provision.Status)
	suite.mockECLRepo.AssertExpectations(suite.T())
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_SupersedesPrior() {
	invoice := suite.receivableInvoice()
	prior := &domain.ECLProvision{
		ProvisionID: uuid.NewString(),
		InvoiceID:   invoice.InvoiceID,
		ECLAmount:   decimal.NewFromInt(200000),
		Status:      domain.ProvisionActive,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(prior, nil).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), &prior.ProvisionID).
		Return(nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.True(provision.PreviousECLAmount.Equal(decimal.NewFromInt(200000)))
	suite.True(provision.AdjustmentAmount.Equal(decimal.NewFromInt(300000)))
	suite.mockECLRepo.AssertExpectations(suite.T())
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_CustomRates() {
	invoice := suite.receivableInvoice()
	rates := map[domain.AgingBucket]decimal.Decimal{
		domain.Bucket31To60: decimal.RequireFromString("0.10"),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), (*string)(nil)).
		Return(nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, rates, suite.actorID)

	suite.Require().NoError(err)
	suite.True(provision.ECLAmount.Equal(decimal.NewFromInt(1000000)))
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_CustomRatesFallBackToWorstBucket() {
	invoice := suite.receivableInvoice()
	// The custom map leaves 31-60 unmapped; the default worst-bucket rate applies.
	rates := map[domain.AgingBucket]decimal.Decimal{
		domain.BucketCurrent: decimal.RequireFromString("0.01"),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), (*string)(nil)).
		Return(nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, rates, suite.actorID)

	suite.Require().NoError(err)
	suite.True(provision.ECLRate.Equal(domain.DefaultECLRates()[domain.BucketOver120]))
	suite.True(provision.ECLAmount.Equal(decimal.NewFromInt(5000000)))
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_PayableRejected() {
	invoice := suite.receivableInvoice()
	invoice.Side = domain.Payable

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotReceivable)
	suite.Nil(provision)
	suite.mockECLRepo.AssertNotCalled(suite.T(), "SaveProvisionSuperseding")
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_PaidRejected() {
	invoice := suite.receivableInvoice()
	invoice.Status = domain.InvoicePaid

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvoicePaid)
	suite.Nil(provision)
	suite.mockECLRepo.AssertNotCalled(suite.T(), "SaveProvisionSuperseding")
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_CancelledRejected() {
	invoice := suite.receivableInvoice()
	invoice.Status = domain.InvoiceCancelled

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvoiceCancelled)
	suite.Nil(provision)
	suite.mockECLRepo.AssertNotCalled(suite.T(), "SaveProvisionSuperseding")
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_SettledWithoutPrior() {
	invoice := suite.receivableInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(invoice.TotalAmount, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNothingOutstanding)
	suite.Nil(provision)
}

func (suite *ECLServiceTestSuite) TestCalculateInvoiceECL_SettledWithPriorReleases() {
	invoice := suite.receivableInvoice()
	prior := &domain.ECLProvision{
		ProvisionID: uuid.NewString(),
		InvoiceID:   invoice.InvoiceID,
		ECLAmount:   decimal.NewFromInt(500000),
		Status:      domain.ProvisionActive,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(invoice.TotalAmount, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(prior, nil).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), &prior.ProvisionID).
		Return(nil).Once()

	provision, err := suite.service.CalculateInvoiceECL(suite.ctx, suite.companyID, invoice.InvoiceID, suite.asOf, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.True(provision.ECLAmount.IsZero())
	// The full prior allowance comes back as a negative adjustment.
	suite.True(provision.AdjustmentAmount.Equal(decimal.NewFromInt(-500000)))
}

// --- PostProvision ---

func (suite *ECLServiceTestSuite) activeProvision() *domain.ECLProvision {
	return &domain.ECLProvision{
		ProvisionID:       uuid.NewString(),
		CompanyID:         suite.companyID,
		InvoiceID:         uuid.NewString(),
		CalculationDate:   suite.asOf,
		AgingBucket:       domain.Bucket31To60,
		OutstandingAmount: decimal.NewFromInt(10000000),
		ECLRate:           decimal.RequireFromString("0.05"),
		ECLAmount:         decimal.NewFromInt(500000),
		PreviousECLAmount: decimal.Zero,
		AdjustmentAmount:  decimal.NewFromInt(500000),
		Status:            domain.ProvisionActive,
	}
}

func (suite *ECLServiceTestSuite) TestPostProvision_PositiveAdjustment() {
	provision := suite.activeProvision()
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}

	suite.mockECLRepo.On("FindProvisionByID", suite.ctx, suite.companyID, provision.ProvisionID).
		Return(provision, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return len(req.Lines) == 2 &&
			req.Lines[0].AccountCode == suite.sysAccounts.BadDebtExpense &&
			req.Lines[0].Debit.Equal(decimal.NewFromInt(500000)) &&
			req.Lines[1].AccountCode == suite.sysAccounts.AllowanceForECL &&
			req.Lines[1].Credit.Equal(decimal.NewFromInt(500000))
	}), suite.actorID).Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("UpdateProvisionOnPost", suite.ctx, provision.ProvisionID, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	posted, err := suite.service.PostProvision(suite.ctx, suite.companyID, provision.ProvisionID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted.JournalEntryID)
	suite.Equal(journalEntry.EntryID, *posted.JournalEntryID)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *ECLServiceTestSuite) TestPostProvision_NegativeAdjustmentReleases() {
	provision := suite.activeProvision()
	provision.ECLAmount = decimal.NewFromInt(200000)
	provision.PreviousECLAmount = decimal.NewFromInt(500000)
	provision.AdjustmentAmount = decimal.NewFromInt(-300000)
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}

	suite.mockECLRepo.On("FindProvisionByID", suite.ctx, suite.companyID, provision.ProvisionID).
		Return(provision, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return len(req.Lines) == 2 &&
			req.Lines[0].AccountCode == suite.sysAccounts.AllowanceForECL &&
			req.Lines[0].Debit.Equal(decimal.NewFromInt(300000)) &&
			req.Lines[1].AccountCode == suite.sysAccounts.BadDebtExpense &&
			req.Lines[1].Credit.Equal(decimal.NewFromInt(300000))
	}), suite.actorID).Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("UpdateProvisionOnPost", suite.ctx, provision.ProvisionID, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	posted, err := suite.service.PostProvision(suite.ctx, suite.companyID, provision.ProvisionID, suite.actorID)

	suite.Require().NoError(err)
	suite.NotNil(posted.JournalEntryID)
}

func (suite *ECLServiceTestSuite) TestPostProvision_ZeroAdjustmentPostsNothing() {
	provision := suite.activeProvision()
	provision.PreviousECLAmount = provision.ECLAmount
	provision.AdjustmentAmount = decimal.Zero

	suite.mockECLRepo.On("FindProvisionByID", suite.ctx, suite.companyID, provision.ProvisionID).
		Return(provision, nil).Once()

	posted, err := suite.service.PostProvision(suite.ctx, suite.companyID, provision.ProvisionID, suite.actorID)

	suite.Require().NoError(err)
	suite.Nil(posted.JournalEntryID)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry")
	suite.mockECLRepo.AssertNotCalled(suite.T(), "UpdateProvisionOnPost")
}

func (suite *ECLServiceTestSuite) TestPostProvision_AttachFailureReversesJournal() {
	provision := suite.activeProvision()
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}
	reversal := &domain.JournalEntry{EntryID: uuid.NewString()}

	suite.mockECLRepo.On("FindProvisionByID", suite.ctx, suite.companyID, provision.ProvisionID).
		Return(provision, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.AnythingOfType("dto.CreateEntryRequest"), suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("UpdateProvisionOnPost", suite.ctx, provision.ProvisionID, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(assert.AnError).Once()
	// The posted adjustment is backed out so a retry cannot double-post.
	suite.mockJournalSvc.On("ReverseEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(reversal, nil).Once()

	posted, err := suite.service.PostProvision(suite.ctx, suite.companyID, provision.ProvisionID, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(posted)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *ECLServiceTestSuite) TestPostProvision_SupersededRejected() {
	provision := suite.activeProvision()
	provision.Status = domain.ProvisionReversed

	suite.mockECLRepo.On("FindProvisionByID", suite.ctx, suite.companyID, provision.ProvisionID).
		Return(provision, nil).Once()

	posted, err := suite.service.PostProvision(suite.ctx, suite.companyID, provision.ProvisionID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(posted)
}

// --- ProcessMonthly ---

func (suite *ECLServiceTestSuite) TestProcessMonthly_MixedOutcomes() {
	healthy := suite.receivableInvoice()
	settled := suite.receivableInvoice()
	settled.InvoiceID = uuid.NewString()

	suite.mockInvoiceRepo.On("ListOutstandingBySide", suite.ctx, suite.companyID, domain.Receivable, suite.asOf).
		Return([]domain.Invoice{*healthy, *settled}, nil).Once()

	// Healthy invoice provisions and posts.
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, healthy.InvoiceID).
		Return(healthy, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, healthy.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, healthy.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), (*string)(nil)).
		Return(nil).Once()
	suite.mockECLRepo.On("FindProvisionByID", suite.ctx, suite.companyID, mock.AnythingOfType("string")).
		Return(suite.activeProvision(), nil).Once()
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.AnythingOfType("dto.CreateEntryRequest"), suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("UpdateProvisionOnPost", suite.ctx, mock.AnythingOfType("string"), journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	// Settled invoice with no prior provision is skipped.
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, settled.InvoiceID).
		Return(settled, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, settled.InvoiceID).
		Return(settled.TotalAmount, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, settled.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ProcessMonthly(suite.ctx, suite.companyID, suite.asOf, true, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Equal(1, result.Posted)
	suite.Equal(1, result.Skipped)
	suite.Empty(result.Failures)
	suite.True(result.TotalECL.Equal(decimal.NewFromInt(500000)))
}

func (suite *ECLServiceTestSuite) TestProcessMonthly_WithoutAutoPostLeavesProvisionsUnposted() {
	invoice := suite.receivableInvoice()

	suite.mockInvoiceRepo.On("ListOutstandingBySide", suite.ctx, suite.companyID, domain.Receivable, suite.asOf).
		Return([]domain.Invoice{*invoice}, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockECLRepo.On("SaveProvisionSuperseding", suite.ctx, mock.AnythingOfType("domain.ECLProvision"), (*string)(nil)).
		Return(nil).Once()

	result, err := suite.service.ProcessMonthly(suite.ctx, suite.companyID, suite.asOf, false, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Equal(0, result.Posted)
	suite.True(result.TotalECL.Equal(decimal.NewFromInt(500000)))
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry")
	suite.mockECLRepo.AssertNotCalled(suite.T(), "UpdateProvisionOnPost")
}

func (suite *ECLServiceTestSuite) TestProcessMonthly_FailureIsolated() {
	broken := suite.receivableInvoice()

	suite.mockInvoiceRepo.On("ListOutstandingBySide", suite.ctx, suite.companyID, domain.Receivable, suite.asOf).
		Return([]domain.Invoice{*broken}, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, broken.InvoiceID).
		Return(nil, assert.AnError).Once()

	result, err := suite.service.ProcessMonthly(suite.ctx, suite.companyID, suite.asOf, true, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(0, result.Processed)
	suite.Require().Len(result.Failures, 1)
	suite.Equal(broken.InvoiceID, result.Failures[0].InvoiceID)
}

// --- WriteOffBadDebt ---

func (suite *ECLServiceTestSuite) TestWriteOffBadDebt_Success() {
	invoice := suite.receivableInvoice()
	provision := suite.activeProvision()
	provision.InvoiceID = invoice.InvoiceID
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}
	req := dto.WriteOffRequest{Amount: decimal.NewFromInt(10000000), Reason: "debtor insolvent"}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(provision, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.MatchedBy(func(jr dto.CreateEntryRequest) bool {
		return len(jr.Lines) == 2 &&
			jr.Lines[0].AccountCode == suite.sysAccounts.AllowanceForECL &&
			jr.Lines[0].Debit.Equal(req.Amount) &&
			jr.Lines[1].AccountCode == suite.sysAccounts.AccountsReceivable &&
			jr.Lines[1].Credit.Equal(req.Amount)
	}), suite.actorID).Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("MarkWrittenOff", suite.ctx, provision.ProvisionID, req.Amount, req.Reason, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.WriteOffBadDebt(suite.ctx, suite.companyID, invoice.InvoiceID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ProvisionWrittenOff, result.Status)
	suite.True(result.WriteOffAmount.Equal(req.Amount))
	suite.Equal(req.Reason, result.WriteOffReason)
	suite.mockECLRepo.AssertExpectations(suite.T())
}

func (suite *ECLServiceTestSuite) TestWriteOffBadDebt_MarkFailureReversesJournal() {
	invoice := suite.receivableInvoice()
	provision := suite.activeProvision()
	provision.InvoiceID = invoice.InvoiceID
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}
	reversal := &domain.JournalEntry{EntryID: uuid.NewString()}
	req := dto.WriteOffRequest{Amount: decimal.NewFromInt(10000000), Reason: "debtor insolvent"}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(provision, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.AnythingOfType("dto.CreateEntryRequest"), suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("MarkWrittenOff", suite.ctx, provision.ProvisionID, req.Amount, req.Reason, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(assert.AnError).Once()
	suite.mockJournalSvc.On("ReverseEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(reversal, nil).Once()

	result, err := suite.service.WriteOffBadDebt(suite.ctx, suite.companyID, invoice.InvoiceID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *ECLServiceTestSuite) TestWriteOffBadDebt_ExceedsOutstanding() {
	invoice := suite.receivableInvoice()
	req := dto.WriteOffRequest{Amount: decimal.NewFromInt(20000000), Reason: "too much"}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()

	result, err := suite.service.WriteOffBadDebt(suite.ctx, suite.companyID, invoice.InvoiceID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrWriteOffExceedsOutstanding)
	suite.Nil(result)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *ECLServiceTestSuite) TestWriteOffBadDebt_RequiresActiveProvision() {
	invoice := suite.receivableInvoice()
	req := dto.WriteOffRequest{Amount: decimal.NewFromInt(1000000), Reason: "no provision"}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("SumConfirmedPayments", suite.ctx, invoice.InvoiceID).
		Return(decimal.Zero, nil).Once()
	suite.mockECLRepo.On("FindActiveProvisionByInvoice", suite.ctx, suite.companyID, invoice.InvoiceID).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.WriteOffBadDebt(suite.ctx, suite.companyID, invoice.InvoiceID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(result)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry")
}

// --- RecordRecovery ---

func (suite *ECLServiceTestSuite) writtenOffProvision(invoiceID string) domain.ECLProvision {
	return domain.ECLProvision{
		ProvisionID:     uuid.NewString(),
		CompanyID:       suite.companyID,
		InvoiceID:       invoiceID,
		ECLAmount:       decimal.NewFromInt(500000),
		Status:          domain.ProvisionWrittenOff,
		WriteOffAmount:  decimal.NewFromInt(10000000),
		RecoveredAmount: decimal.Zero,
	}
}

func (suite *ECLServiceTestSuite) TestRecordRecovery_PartialRecovery() {
	invoiceID := uuid.NewString()
	provision := suite.writtenOffProvision(invoiceID)
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}
	req := dto.RecoveryRequest{Amount: decimal.NewFromInt(4000000)}

	suite.mockECLRepo.On("ListProvisionsByInvoice", suite.ctx, suite.companyID, invoiceID).
		Return([]domain.ECLProvision{provision}, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.MatchedBy(func(jr dto.CreateEntryRequest) bool {
		return len(jr.Lines) == 2 &&
			jr.Lines[0].AccountCode == suite.sysAccounts.Cash &&
			jr.Lines[0].Debit.Equal(req.Amount) &&
			jr.Lines[1].AccountCode == suite.sysAccounts.BadDebtExpense &&
			jr.Lines[1].Credit.Equal(req.Amount)
	}), suite.actorID).Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("MarkRecovered", suite.ctx, provision.ProvisionID, req.Amount, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.RecordRecovery(suite.ctx, suite.companyID, invoiceID, req, suite.actorID)

	suite.Require().NoError(err)
	// Partial recovery keeps the provision written off.
	suite.Equal(domain.ProvisionWrittenOff, result.Status)
	suite.True(result.RecoveredAmount.Equal(req.Amount))
}

func (suite *ECLServiceTestSuite) TestRecordRecovery_FullRecoveryFlipsStatus() {
	invoiceID := uuid.NewString()
	provision := suite.writtenOffProvision(invoiceID)
	journalEntry := &domain.JournalEntry{EntryID: uuid.NewString()}
	req := dto.RecoveryRequest{Amount: provision.WriteOffAmount}

	suite.mockECLRepo.On("ListProvisionsByInvoice", suite.ctx, suite.companyID, invoiceID).
		Return([]domain.ECLProvision{provision}, nil).Once()
	suite.mockJournalSvc.On("CreateEntry", suite.ctx, suite.companyID, mock.AnythingOfType("dto.CreateEntryRequest"), suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", suite.ctx, suite.companyID, journalEntry.EntryID, suite.actorID).
		Return(journalEntry, nil).Once()
	suite.mockECLRepo.On("MarkRecovered", suite.ctx, provision.ProvisionID, req.Amount, journalEntry.EntryID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.RecordRecovery(suite.ctx, suite.companyID, invoiceID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ProvisionRecovered, result.Status)
}

func (suite *ECLServiceTestSuite) TestRecordRecovery_NoWriteOff() {
	invoiceID := uuid.NewString()
	active := *suite.activeProvision()
	req := dto.RecoveryRequest{Amount: decimal.NewFromInt(1000000)}

	suite.mockECLRepo.On("ListProvisionsByInvoice", suite.ctx, suite.companyID, invoiceID).
		Return([]domain.ECLProvision{active}, nil).Once()

	result, err := suite.service.RecordRecovery(suite.ctx, suite.companyID, invoiceID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotWrittenOff)
	suite.Nil(result)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *ECLServiceTestSuite) TestRecordRecovery_ExceedsWriteOff() {
	invoiceID := uuid.NewString()
	provision := suite.writtenOffProvision(invoiceID)
	provision.RecoveredAmount = decimal.NewFromInt(8000000)
	req := dto.RecoveryRequest{Amount: decimal.NewFromInt(3000000)}

	suite.mockECLRepo.On("ListProvisionsByInvoice", suite.ctx, suite.companyID, invoiceID).
		Return([]domain.ECLProvision{provision}, nil).Once()

	result, err := suite.service.RecordRecovery(suite.ctx, suite.companyID, invoiceID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrRecoveryExceedsWriteOff)
	suite.Nil(result)
}

func TestECLService(t *testing.T) {
	suite.Run(t, new(ECLServiceTestSuite))
}
