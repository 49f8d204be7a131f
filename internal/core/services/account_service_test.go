package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/core/services"
	"github.com/accountica/ledger_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	ctx             context.Context

	companyID string
	actorID   string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.ctx = context.Background()

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsNormalBalance() {
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1010" && a.NormalBalance == domain.NormalDebit && a.IsActive
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.NormalDebit, account.NormalBalance)
	suite.True(account.IsActive)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ContraAccountOverride() {
	// Accumulated depreciation: asset type, credit normal.
	creditNormal := domain.NormalCredit
	req := dto.CreateAccountRequest{
		Code:          "1590",
		Name:          "Accumulated Depreciation",
		AccountType:   domain.Asset,
		NormalBalance: &creditNormal,
		IsSystem:      true,
	}

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.NormalBalance == domain.NormalCredit && a.IsSystem
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.companyID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.NormalCredit, account.NormalBalance)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.companyID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	account := &domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		Code:          "1010",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.NormalDebit,
		IsActive:      true,
	}
	newName := "Cash and Equivalents"
	req := dto.UpdateAccountRequest{Name: &newName}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.companyID, account.AccountID).
		Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == newName
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, suite.companyID, account.AccountID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SystemAccountRejected() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1590",
		AccountType: domain.Asset,
		IsActive:    true,
		IsSystem:    true,
	}
	newName := "Renamed"
	req := dto.UpdateAccountRequest{Name: &newName}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.companyID, account.AccountID).
		Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, suite.companyID, account.AccountID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSystemAccountImmutable)
	suite.Nil(updated)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	account := &domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Code:      "5100",
		IsActive:  true,
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.companyID, account.AccountID).
		Return(account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", suite.ctx, suite.companyID, account.AccountID, suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.companyID, account.AccountID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccountRejected() {
	account := &domain.Account{
		AccountID: uuid.NewString(),
		CompanyID: suite.companyID,
		Code:      "1200",
		IsActive:  true,
		IsSystem:  true,
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.companyID, account.AccountID).
		Return(account, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.companyID, account.AccountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSystemAccountImmutable)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_RepositoryError() {
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, suite.companyID, "4000").
		Return(nil, assert.AnError).Once()

	account, err := suite.service.GetAccountByCode(suite.ctx, suite.companyID, "4000")

	suite.Require().Error(err)
	suite.Contains(err.Error(), "failed to find account with code 4000")
	suite.Nil(account)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
