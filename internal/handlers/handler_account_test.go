package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/core/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	suite.Suite
	mocks  *mockServices
	router http.Handler
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	suite.mocks = newMockServices()
	suite.router = newTestRouter(suite.mocks)
}

func (suite *AccountHandlerTestSuite) doJSON(method, url string, body any, actorID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set(middleware.ActorHeader, actorID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Cash",
		AccountType: domain.Asset,
	}
	created := &domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		Code:          "1010",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.NormalDebit,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: actorID,
		},
	}

	suite.mocks.account.On("CreateAccount", mock.Anything, companyID, req, actorID).
		Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/accounts", companyID), req, actorID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1010", resp.Code)
	suite.Equal(domain.NormalDebit, resp.NormalBalance)
	suite.mocks.account.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mocks.account.On("CreateAccount", mock.Anything, companyID, req, actorID).
		Return(nil, fmt.Errorf("%w: account code 1010 already exists", apperrors.ErrDuplicate)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/accounts", companyID), req, actorID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mocks.account.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MissingActorHeader() {
	companyID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/accounts", companyID), req, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mocks.account.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	companyID := uuid.NewString()
	accountID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mocks.account.On("GetAccountByID", mock.Anything, companyID, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/accounts/%s", companyID, accountID), nil, actorID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mocks.account.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_ActiveOnly() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), CompanyID: companyID, Code: "1010", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: uuid.NewString(), CompanyID: companyID, Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
	}

	suite.mocks.account.On("ListAccounts", mock.Anything, companyID, true).
		Return(accounts, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/accounts?activeOnly=true", companyID), nil, actorID)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.Equal("1010", resp[0].Code)
	suite.mocks.account.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_SystemAccountConflict() {
	companyID := uuid.NewString()
	accountID := uuid.NewString()
	actorID := uuid.NewString()
	name := "Renamed"
	req := dto.UpdateAccountRequest{Name: &name}

	suite.mocks.account.On("UpdateAccount", mock.Anything, companyID, accountID, req, actorID).
		Return(nil, services.ErrSystemAccountImmutable).Once()

	w := suite.doJSON(http.MethodPut, fmt.Sprintf("/api/v1/companies/%s/accounts/%s", companyID, accountID), req, actorID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mocks.account.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_Success() {
	companyID := uuid.NewString()
	accountID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mocks.account.On("DeactivateAccount", mock.Anything, companyID, accountID, actorID).
		Return(nil).Once()

	w := suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/v1/companies/%s/accounts/%s", companyID, accountID), nil, actorID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mocks.account.AssertExpectations(suite.T())
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
