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
)

// eclHandler handles HTTP requests for the expected credit loss engine.
type eclHandler struct {
	eclService portssvc.ECLSvcFacade
}

// newECLHandler creates a new eclHandler.
func newECLHandler(es portssvc.ECLSvcFacade) *eclHandler {
	return &eclHandler{
		eclService: es,
	}
}

// registerECLRoutes registers routes related to ECL provisioning, write-offs
// and recoveries.
func registerECLRoutes(rg *gin.RouterGroup, eclService portssvc.ECLSvcFacade) {
	h := newECLHandler(eclService)

	ecl := rg.Group("/ecl")
	{
		ecl.POST("/calculate", h.calculateInvoiceECL)
		ecl.POST("/provisions/:provisionID/post", h.postProvision)
		ecl.POST("/run", h.processMonthly)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/:invoiceID/write-off", h.writeOffBadDebt)
		invoices.POST("/:invoiceID/recoveries", h.recordRecovery)
		invoices.GET("/:invoiceID/provisions", h.listProvisionHistory)
	}
}

// calculateInvoiceECL godoc
// @Summary Calculate ECL for an invoice
// @Description Computes and records an expected credit loss provision for one invoice, superseding any active provision
// @Tags ecl
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   request body dto.CalculateECLRequest true "Invoice, date and optional rate overrides"
// @Success 201 {object} dto.ProvisionResponse
// @Failure 400 {object} map[string]string "Invalid input, unknown bucket label or non-receivable invoice"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice paid or cancelled, or nothing outstanding"
// @Failure 500 {object} map[string]string "Failed to calculate ECL"
// @Router /companies/{companyID}/ecl/calculate [post]
func (h *eclHandler) calculateInvoiceECL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CalculateECLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateECL", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rates, ok := dto.ParseBucketRates(req.Rates)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown aging bucket label in rates"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("invoice_id", req.InvoiceID), slog.String("actor_id", actorID))
	logger.Info("Received request to calculate invoice ECL", slog.Time("as_of", asOf))

	provision, err := h.eclService.CalculateInvoiceECL(c.Request.Context(), companyID, req.InvoiceID, asOf, rates, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrNotReceivable), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error calculating ECL", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvoicePaid),
			errors.Is(err, services.ErrInvoiceCancelled),
			errors.Is(err, services.ErrNothingOutstanding),
			errors.Is(err, apperrors.ErrConflict),
			errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Conflict calculating ECL", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to calculate ECL in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate ECL"})
		}
		return
	}

	logger.Info("ECL provision recorded", slog.String("provision_id", provision.ProvisionID), slog.String("bucket", string(provision.AgingBucket)))
	c.JSON(http.StatusCreated, dto.ToProvisionResponse(provision))
}

// postProvision godoc
// @Summary Post an ECL provision adjustment
// @Description Posts the provision's allowance adjustment to the journal; zero adjustments post nothing
// @Tags ecl
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   provisionID path string true "Provision ID to post"
// @Success 200 {object} dto.ProvisionResponse
// @Failure 404 {object} map[string]string "Provision not found"
// @Failure 409 {object} map[string]string "Provision no longer active"
// @Failure 500 {object} map[string]string "Failed to post provision"
// @Router /companies/{companyID}/ecl/provisions/{provisionID}/post [post]
func (h *eclHandler) postProvision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	provisionID := c.Param("provisionID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("provision_id", provisionID), slog.String("actor_id", actorID))
	logger.Info("Received request to post ECL provision")

	provision, err := h.eclService.PostProvision(c.Request.Context(), companyID, provisionID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Provision not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict posting provision", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoOpenPeriod):
			logger.Warn("No open period for provision posting")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to post provision in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post provision"})
		}
		return
	}

	logger.Info("ECL provision posted successfully")
	c.JSON(http.StatusOK, dto.ToProvisionResponse(provision))
}

// processMonthly godoc
// @Summary Run the monthly ECL provisioning cycle
// @Description Calculates provisions across all outstanding receivables, posting each adjustment when autoPost is set
// @Tags ecl
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   request body dto.ProcessMonthlyECLRequest true "Run date and optional rate overrides"
// @Success 200 {object} dto.ECLRunResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to run ECL cycle"
// @Router /companies/{companyID}/ecl/run [post]
func (h *eclHandler) processMonthly(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.ProcessMonthlyECLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessMonthlyECL", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rates, ok := dto.ParseBucketRates(req.Rates)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown aging bucket label in rates"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("actor_id", actorID))
	logger.Info("Received request to run monthly ECL cycle", slog.Time("as_of", asOf), slog.Bool("auto_post", req.AutoPost))

	result, err := h.eclService.ProcessMonthly(c.Request.Context(), companyID, asOf, req.AutoPost, rates, actorID)
	if err != nil {
		logger.Error("Failed to run ECL cycle in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run ECL cycle"})
		return
	}

	logger.Info("ECL cycle completed",
		slog.Int("processed", result.Processed),
		slog.Int("posted", result.Posted),
		slog.Int("failures", len(result.Failures)))
	c.JSON(http.StatusOK, result)
}

// writeOffBadDebt godoc
// @Summary Write off bad debt
// @Description Writes off part or all of an invoice's outstanding balance against the allowance
// @Tags ecl
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   invoiceID path string true "Invoice ID"
// @Param   request body dto.WriteOffRequest true "Write-off amount and reason"
// @Success 200 {object} dto.ProvisionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Amount exceeds outstanding or invoice cancelled"
// @Failure 500 {object} map[string]string "Failed to write off"
// @Router /companies/{companyID}/invoices/{invoiceID}/write-off [post]
func (h *eclHandler) writeOffBadDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	invoiceID := c.Param("invoiceID")

	var req dto.WriteOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for WriteOff", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("invoice_id", invoiceID), slog.String("actor_id", actorID))
	logger.Info("Received request to write off bad debt", slog.String("amount", req.Amount.String()))

	provision, err := h.eclService.WriteOffBadDebt(c.Request.Context(), companyID, invoiceID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrNotReceivable), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error writing off", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWriteOffExceedsOutstanding),
			errors.Is(err, services.ErrInvoiceCancelled),
			errors.Is(err, services.ErrNothingOutstanding),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict writing off", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to write off in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write off bad debt"})
		}
		return
	}

	logger.Info("Bad debt written off", slog.String("provision_id", provision.ProvisionID))
	c.JSON(http.StatusOK, dto.ToProvisionResponse(provision))
}

// recordRecovery godoc
// @Summary Record a bad-debt recovery
// @Description Records cash recovered against a previously written-off invoice
// @Tags ecl
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   invoiceID path string true "Invoice ID"
// @Param   request body dto.RecoveryRequest true "Recovery amount"
// @Success 200 {object} dto.ProvisionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "No write-off to recover against or amount too large"
// @Failure 500 {object} map[string]string "Failed to record recovery"
// @Router /companies/{companyID}/invoices/{invoiceID}/recoveries [post]
func (h *eclHandler) recordRecovery(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	invoiceID := c.Param("invoiceID")

	var req dto.RecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordRecovery", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("invoice_id", invoiceID), slog.String("actor_id", actorID))
	logger.Info("Received request to record recovery", slog.String("amount", req.Amount.String()))

	provision, err := h.eclService.RecordRecovery(c.Request.Context(), companyID, invoiceID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recording recovery", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotWrittenOff),
			errors.Is(err, services.ErrRecoveryExceedsWriteOff),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict recording recovery", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to record recovery in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record recovery"})
		}
		return
	}

	logger.Info("Recovery recorded", slog.String("provision_id", provision.ProvisionID))
	c.JSON(http.StatusOK, dto.ToProvisionResponse(provision))
}

// listProvisionHistory godoc
// @Summary List an invoice's provision history
// @Description Retrieves the supersession chain of provisions for an invoice, newest first
// @Tags ecl
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {array} dto.ProvisionResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to list provisions"
// @Router /companies/{companyID}/invoices/{invoiceID}/provisions [get]
func (h *eclHandler) listProvisionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	invoiceID := c.Param("invoiceID")

	provisions, err := h.eclService.ListProvisionHistory(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			logger.Error("Failed to list provisions from service", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list provisions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListProvisionsResponse(provisions))
}
