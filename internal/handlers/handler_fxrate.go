package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/accountica/ledger_backend/internal/apperrors"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/core/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// fxRateHandler handles HTTP requests for exchange rates. Rates are shared
// reference data, not company-scoped.
type fxRateHandler struct {
	fxRateService portssvc.FxRateSvcFacade
}

// newFxRateHandler creates a new fxRateHandler.
func newFxRateHandler(fs portssvc.FxRateSvcFacade) *fxRateHandler {
	return &fxRateHandler{
		fxRateService: fs,
	}
}

// registerFxRateRoutes registers routes related to exchange rates.
func registerFxRateRoutes(rg *gin.RouterGroup, fxRateService portssvc.FxRateSvcFacade) {
	h := newFxRateHandler(fxRateService)

	rates := rg.Group("/fx-rates")
	{
		rates.POST("", h.saveRate)
		rates.GET("/current", h.getCurrentRate)
		rates.GET("/convert", h.convert)
	}
}

// saveRate godoc
// @Summary Record an exchange rate
// @Description Records a rate observation for a currency pair at an effective date
// @Tags fx-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.SaveFxRateRequest true "Rate details"
// @Success 201 {object} dto.FxRateResponse
// @Failure 400 {object} map[string]string "Invalid input or identical currencies"
// @Failure 409 {object} map[string]string "Rate already recorded for that date"
// @Failure 500 {object} map[string]string "Failed to save rate"
// @Router /fx-rates [post]
func (h *fxRateHandler) saveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveFxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveFxRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID))
	logger.Info("Received request to save fx rate", slog.String("pair", req.FromCurrency+"/"+req.ToCurrency))

	rate, err := h.fxRateService.SaveRate(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSameCurrencyRate), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error saving rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate rate observation")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to save rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate saved", slog.String("rate_id", rate.RateID))
	c.JSON(http.StatusCreated, dto.ToFxRateResponse(rate))
}

// getCurrentRate godoc
// @Summary Get the effective exchange rate
// @Description Retrieves the newest rate effective at or before a date for a currency pair
// @Tags fx-rates
// @Produce  json
// @Param   from query string true "Source currency (ISO 4217)"
// @Param   to query string true "Target currency (ISO 4217)"
// @Param   at query string false "Effective date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.FxRateResponse
// @Failure 400 {object} map[string]string "Missing or invalid parameters"
// @Failure 404 {object} map[string]string "No rate loaded for the pair"
// @Failure 500 {object} map[string]string "Failed to look up rate"
// @Router /fx-rates/current [get]
func (h *fxRateHandler) getCurrentRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to currencies are required"})
		return
	}

	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid at date, expected YYYY-MM-DD"})
			return
		}
		at = parsed
	}

	rate, err := h.fxRateService.GetCurrentRate(c.Request.Context(), from, to, at)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate loaded for " + from + "/" + to})
		} else {
			logger.Error("Failed to look up rate", slog.String("pair", from+"/"+to), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFxRateResponse(rate))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount at the rate effective on the given date
// @Tags fx-rates
// @Produce  json
// @Param   amount query string true "Amount to convert"
// @Param   from query string true "Source currency (ISO 4217)"
// @Param   to query string true "Target currency (ISO 4217)"
// @Param   at query string false "Effective date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Missing or invalid parameters"
// @Failure 404 {object} map[string]string "No rate loaded for the pair"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Router /fx-rates/convert [get]
func (h *fxRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to currencies are required"})
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid at date, expected YYYY-MM-DD"})
			return
		}
		at = parsed
	}

	converted, err := h.fxRateService.Convert(c.Request.Context(), amount, from, to, at)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate loaded for " + from + "/" + to})
		} else {
			logger.Error("Failed to convert amount", slog.String("pair", from+"/"+to), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}
