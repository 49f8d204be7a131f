package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/accountica/ledger_backend/internal/apperrors"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/core/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// depreciationHandler handles HTTP requests for the depreciation engine.
type depreciationHandler struct {
	depreciationService portssvc.DepreciationSvcFacade
}

// newDepreciationHandler creates a new depreciationHandler.
func newDepreciationHandler(ds portssvc.DepreciationSvcFacade) *depreciationHandler {
	return &depreciationHandler{
		depreciationService: ds,
	}
}

// registerDepreciationRoutes registers routes related to depreciation schedules
// and the periodic depreciation run.
func registerDepreciationRoutes(rg *gin.RouterGroup, depreciationService portssvc.DepreciationSvcFacade) {
	h := newDepreciationHandler(depreciationService)

	depreciation := rg.Group("/depreciation")
	{
		depreciation.POST("/schedules", h.createSchedule)
		depreciation.GET("/schedules/:scheduleID", h.getSchedule)
		depreciation.POST("/calculate", h.calculatePeriod)
		depreciation.POST("/entries/:depreciationEntryID/post", h.postEntry)
		depreciation.POST("/run", h.processPeriod)
	}
}

// createSchedule godoc
// @Summary Create a depreciation schedule
// @Description Derives and persists a depreciation schedule for an asset
// @Tags depreciation
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   schedule body dto.CreateScheduleRequest true "Schedule details"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 400 {object} map[string]string "Invalid schedule parameters"
// @Failure 409 {object} map[string]string "Asset already has an active schedule"
// @Failure 500 {object} map[string]string "Failed to create schedule"
// @Router /companies/{companyID}/depreciation/schedules [post]
func (h *depreciationHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("asset_id", req.AssetID), slog.String("actor_id", actorID))
	logger.Info("Received request to create depreciation schedule", slog.String("method", string(req.Method)))

	schedule, err := h.depreciationService.CreateSchedule(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrManualMethodRequired),
			errors.Is(err, services.ErrResidualExceedsPrice),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating schedule", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrScheduleExists), errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Asset already has an active schedule")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create schedule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create depreciation schedule"})
		}
		return
	}

	logger.Info("Depreciation schedule created successfully", slog.String("schedule_id", schedule.ScheduleID))
	c.JSON(http.StatusCreated, dto.ToScheduleResponse(schedule))
}

// getSchedule godoc
// @Summary Get a depreciation schedule
// @Description Retrieves a depreciation schedule by ID
// @Tags depreciation
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   scheduleID path string true "Schedule ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Failure 500 {object} map[string]string "Failed to retrieve schedule"
// @Router /companies/{companyID}/depreciation/schedules/{scheduleID} [get]
func (h *depreciationHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	scheduleID := c.Param("scheduleID")

	schedule, err := h.depreciationService.GetSchedule(c.Request.Context(), companyID, scheduleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Depreciation schedule not found"})
		} else {
			logger.Error("Failed to get schedule from service", slog.String("schedule_id", scheduleID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve depreciation schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleResponse(schedule))
}

// calculatePeriod godoc
// @Summary Calculate one period's depreciation for an asset
// @Description Computes and records a CALCULATED depreciation entry; idempotent per asset and period
// @Tags depreciation
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   request body dto.CalculatePeriodRequest true "Asset and period"
// @Success 201 {object} dto.DepreciationEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or period precedes schedule start"
// @Failure 404 {object} map[string]string "No active schedule for the asset"
// @Failure 409 {object} map[string]string "Period already recorded or schedule fulfilled"
// @Failure 500 {object} map[string]string "Failed to calculate depreciation"
// @Router /companies/{companyID}/depreciation/calculate [post]
func (h *depreciationHandler) calculatePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CalculatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("asset_id", req.AssetID), slog.String("actor_id", actorID))
	logger.Info("Received request to calculate depreciation", slog.Time("period_date", req.PeriodDate))

	entry, err := h.depreciationService.CalculatePeriod(c.Request.Context(), companyID, req.AssetID, req.PeriodDate, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No active depreciation schedule for asset"})
		case errors.Is(err, services.ErrPeriodBeforeStart),
			errors.Is(err, services.ErrPeriodAfterEnd),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error calculating depreciation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrScheduleFulfilled), errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Conflict calculating depreciation", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to calculate depreciation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate depreciation"})
		}
		return
	}

	logger.Info("Depreciation calculated successfully", slog.String("depreciation_entry_id", entry.DepreciationEntryID))
	c.JSON(http.StatusCreated, dto.ToDepreciationEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a depreciation entry
// @Description Posts a CALCULATED depreciation entry to the journal
// @Tags depreciation
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   depreciationEntryID path string true "Depreciation entry ID to post"
// @Success 200 {object} dto.DepreciationEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already posted"
// @Failure 500 {object} map[string]string "Failed to post entry"
// @Router /companies/{companyID}/depreciation/entries/{depreciationEntryID}/post [post]
func (h *depreciationHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	depreciationEntryID := c.Param("depreciationEntryID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("depreciation_entry_id", depreciationEntryID), slog.String("actor_id", actorID))
	logger.Info("Received request to post depreciation entry")

	entry, err := h.depreciationService.PostEntry(c.Request.Context(), companyID, depreciationEntryID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Depreciation entry not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict posting depreciation entry", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoOpenPeriod):
			logger.Warn("No open period for depreciation posting")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to post depreciation entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post depreciation entry"})
		}
		return
	}

	logger.Info("Depreciation entry posted successfully")
	c.JSON(http.StatusOK, dto.ToDepreciationEntryResponse(entry))
}

// processPeriod godoc
// @Summary Run depreciation for a period
// @Description Calculates depreciation for every active schedule covering the period date, posting each charge when autoPost is set
// @Tags depreciation
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   request body dto.ProcessPeriodRequest true "Period to process"
// @Success 200 {object} dto.DepreciationRunResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to run depreciation"
// @Router /companies/{companyID}/depreciation/run [post]
func (h *depreciationHandler) processPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.ProcessPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("actor_id", actorID))
	logger.Info("Received request to run depreciation", slog.Time("period_date", req.PeriodDate), slog.Bool("auto_post", req.AutoPost))

	result, err := h.depreciationService.ProcessPeriod(c.Request.Context(), companyID, req.PeriodDate, req.AutoPost, actorID)
	if err != nil {
		logger.Error("Failed to run depreciation in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run depreciation"})
		return
	}

	logger.Info("Depreciation run completed",
		slog.Int("processed", result.Processed),
		slog.Int("posted", result.Posted),
		slog.Int("failures", len(result.Failures)))
	c.JSON(http.StatusOK, result)
}
