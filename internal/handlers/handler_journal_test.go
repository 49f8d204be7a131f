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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalHandlerTestSuite struct {
	suite.Suite
	mocks  *mockServices
	router http.Handler
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	suite.mocks = newMockServices()
	suite.router = newTestRouter(suite.mocks)
}

func (suite *JournalHandlerTestSuite) doJSON(method, url string, body any, actorID string) *httptest.ResponseRecorder {
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

func balancedEntryRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Office supplies",
		Lines: []dto.CreateLineItemRequest{
			{AccountCode: "6100", Debit: decimal.NewFromInt(250)},
			{AccountCode: "1010", Credit: decimal.NewFromInt(250)},
		},
	}
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Success() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := balancedEntryRequest()
	created := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryNumber: "JE-2025-03-0001",
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Status:      domain.EntryDraft,
	}

	suite.mocks.journal.On("CreateEntry", mock.Anything, companyID, mock.MatchedBy(func(r dto.CreateEntryRequest) bool {
		return r.Description == req.Description && len(r.Lines) == 2
	}), actorID).Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/journal-entries", companyID), req, actorID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.EntryID, resp.EntryID)
	suite.Equal("JE-2025-03-0001", resp.EntryNumber)
	suite.Equal(domain.EntryDraft, resp.Status)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Unbalanced() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := balancedEntryRequest()

	suite.mocks.journal.On("CreateEntry", mock.Anything, companyID, mock.Anything, actorID).
		Return(nil, services.ErrUnbalancedEntry).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/journal-entries", companyID), req, actorID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_NoOpenPeriod() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := balancedEntryRequest()

	suite.mocks.journal.On("CreateEntry", mock.Anything, companyID, mock.Anything, actorID).
		Return(nil, services.ErrNoOpenPeriod).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/journal-entries", companyID), req, actorID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_SingleLineRejectedByBinding() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.CreateEntryRequest{
		EntryDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "One-sided",
		Lines: []dto.CreateLineItemRequest{
			{AccountCode: "6100", Debit: decimal.NewFromInt(250)},
		},
	}

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/journal-entries", companyID), req, actorID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mocks.journal.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *JournalHandlerTestSuite) TestPostEntry_AlreadyPosted() {
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mocks.journal.On("PostEntry", mock.Anything, companyID, entryID, actorID).
		Return(nil, services.ErrAlreadyPosted).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/journal-entries/%s/post", companyID, entryID), nil, actorID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_Success() {
	companyID := uuid.NewString()
	entryID := uuid.NewString()
	actorID := uuid.NewString()
	reversing := &domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       companyID,
		EntryNumber:     "JE-2025-03-0002",
		ReversedEntryID: &entryID,
		IsReversing:     true,
		Status:          domain.EntryPosted,
		IsPosted:        true,
	}

	suite.mocks.journal.On("ReverseEntry", mock.Anything, companyID, entryID, actorID).
		Return(reversing, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/journal-entries/%s/reverse", companyID, entryID), nil, actorID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsReversing)
	suite.NotNil(resp.ReversedEntryID)
	suite.Equal(entryID, *resp.ReversedEntryID)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestListEntries_PassesPagination() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	token := "next-page-token"
	page := &dto.ListEntriesResponse{
		Entries:   []dto.EntryResponse{{EntryID: uuid.NewString(), EntryNumber: "JE-2025-03-0001"}},
		NextToken: &token,
	}

	suite.mocks.journal.On("ListEntries", mock.Anything, companyID, mock.MatchedBy(func(p dto.ListEntriesParams) bool {
		return p.Limit == 5
	})).Return(page, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/journal-entries?limit=5", companyID), nil, actorID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.NotNil(resp.NextToken)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestClosePeriod_BlockedByDraftEntries() {
	companyID := uuid.NewString()
	periodID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mocks.journal.On("ClosePeriod", mock.Anything, companyID, periodID, actorID).
		Return(nil, &services.UnpostedEntriesError{Count: 3}).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/fiscal-periods/%s/close", companyID, periodID), nil, actorID)

	suite.Equal(http.StatusConflict, w.Code)
	var body map[string]any
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(float64(3), body["unpostedCount"])
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestClosePeriod_NotFound() {
	companyID := uuid.NewString()
	periodID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mocks.journal.On("ClosePeriod", mock.Anything, companyID, periodID, actorID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/fiscal-periods/%s/close", companyID, periodID), nil, actorID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreatePeriod_Overlap() {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	req := dto.CreatePeriodRequest{
		Name:      "2025-03",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.mocks.journal.On("CreatePeriod", mock.Anything, companyID, req, actorID).
		Return(nil, services.ErrPeriodOverlap).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/fiscal-periods", companyID), req, actorID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mocks.journal.AssertExpectations(suite.T())
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
