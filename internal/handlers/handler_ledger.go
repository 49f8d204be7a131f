package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for the read-side of the posted ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers routes related to ledger balances and reports.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/postings", h.listAccountPostings)
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/aging", h.getAgingReport)
	}
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Computes an account's signed balance from posted activity up to a date
// @Tags ledger
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /companies/{companyID}/accounts/{accountID}/balance [get]
func (h *ledgerHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	balance, err := h.ledgerService.AccountBalance(c.Request.Context(), companyID, accountID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute account balance", slog.String("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute account balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance, asOf))
}

// listAccountPostings godoc
// @Summary List an account's ledger postings
// @Description Retrieves a paginated slice of an account's postings, newest first
// @Tags ledger
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Window start (YYYY-MM-DD)"
// @Param   to query string false "Window end (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(50) minimum(1) maximum(200)
// @Param   nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListPostingsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list postings"
// @Router /companies/{companyID}/accounts/{accountID}/postings [get]
func (h *ledgerHandler) listAccountPostings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	var params dto.ListPostingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccountPostings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.ledgerService.ListAccountPostings(c.Request.Context(), companyID, accountID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list postings from service", slog.String("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list account postings"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Generates a trial balance over a date window; omitting periodStart reports from inception
// @Tags reports
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   periodStart query string false "Window start (YYYY-MM-DD)"
// @Param   periodEnd query string false "Window end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /companies/{companyID}/reports/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for TrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	periodEnd := time.Now()
	if params.PeriodEnd != nil {
		periodEnd = *params.PeriodEnd
	}
	if params.PeriodStart != nil && params.PeriodStart.After(periodEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periodStart must not be after periodEnd"})
		return
	}

	report, err := h.ledgerService.TrialBalance(c.Request.Context(), companyID, params.PeriodStart, periodEnd)
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trial balance"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// getAgingReport godoc
// @Summary Generate an aging report
// @Description Generates an aged receivables or payables report as of a date
// @Tags reports
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   side query string false "RECEIVABLE or PAYABLE" default(RECEIVABLE)
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.AgingReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /companies/{companyID}/reports/aging [get]
func (h *ledgerHandler) getAgingReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.AgingReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for AgingReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	report, err := h.ledgerService.AgingReport(c.Request.Context(), companyID, domain.DocumentSide(params.Side), asOf)
	if err != nil {
		logger.Error("Failed to generate aging report", slog.String("company_id", companyID), slog.String("side", params.Side), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate aging report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
