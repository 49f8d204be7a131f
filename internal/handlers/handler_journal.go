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

// journalHandler handles HTTP requests for journal entries and fiscal periods.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries and
// fiscal periods.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:periodID/close", h.closePeriod)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Validates and persists a new DRAFT journal entry
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 409 {object} map[string]string "No open period covers the entry date"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Router /companies/{companyID}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
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
	logger.Info("Received request to create journal entry", slog.Int("lines", len(req.Lines)))

	entry, err := h.journalService.CreateEntry(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyEntry),
			errors.Is(err, services.ErrUnbalancedEntry),
			errors.Is(err, services.ErrOneSidedLine),
			errors.Is(err, services.ErrUnknownAccount),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoOpenPeriod):
			logger.Warn("No open period for entry date", slog.Time("entry_date", req.EntryDate))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
		}
		return
	}

	logger.Info("Journal entry created successfully", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its line items
// @Tags journal
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Router /companies/{companyID}/journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			logger.Error("Failed to get entry from service", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of a company's journal entries, newest first
// @Tags journal
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param   nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Router /companies/{companyID}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list entries from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Atomically posts a DRAFT entry to the ledger
// @Tags journal
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID to post"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already posted or period closed"
// @Failure 500 {object} map[string]string "Failed to post entry"
// @Router /companies/{companyID}/journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("entry_id", entryID), slog.String("actor_id", actorID))
	logger.Info("Received request to post journal entry")

	entry, err := h.journalService.PostEntry(c.Request.Context(), companyID, entryID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, services.ErrAlreadyPosted),
			errors.Is(err, services.ErrPeriodClosed),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict posting entry", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnbalancedEntry), errors.Is(err, services.ErrUnknownAccount):
			logger.Warn("Entry failed revalidation on post", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to post entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post journal entry"})
		}
		return
	}

	logger.Info("Journal entry posted successfully")
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Creates and posts the mirror-image entry of a POSTED entry
// @Tags journal
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID to reverse"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry not posted, already reversed or period closed"
// @Failure 500 {object} map[string]string "Failed to reverse entry"
// @Router /companies/{companyID}/journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("entry_id", entryID), slog.String("actor_id", actorID))
	logger.Info("Received request to reverse journal entry")

	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), companyID, entryID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, services.ErrNotPosted),
			errors.Is(err, services.ErrAlreadyReversed),
			errors.Is(err, services.ErrNoOpenPeriod),
			errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict reversing entry", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse journal entry"})
		}
		return
	}

	logger.Info("Journal entry reversed successfully", slog.String("reversing_entry_id", reversing.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversing))
}

// createPeriod godoc
// @Summary Open a fiscal period
// @Description Opens a new fiscal period for a company
// @Tags fiscal-periods
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 409 {object} map[string]string "Overlapping or duplicate period"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Router /companies/{companyID}/fiscal-periods [post]
func (h *journalHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
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
	logger.Info("Received request to open fiscal period", slog.String("name", req.Name))

	period, err := h.journalService.CreatePeriod(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPeriodDatesOrder), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating period", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPeriodOverlap), errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Conflicting period", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create period in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal period"})
		}
		return
	}

	logger.Info("Fiscal period opened successfully", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Description Retrieves all fiscal periods of a company, newest first
// @Tags fiscal-periods
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {array} dto.PeriodResponse
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Router /companies/{companyID}/fiscal-periods [get]
func (h *journalHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	periods, err := h.journalService.ListPeriods(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list periods from service", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Closes an OPEN period once it holds no draft entries
// @Tags fiscal-periods
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   periodID path string true "Period ID to close"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Period already closed or holds draft entries"
// @Failure 500 {object} map[string]string "Failed to close period"
// @Router /companies/{companyID}/fiscal-periods/{periodID}/close [post]
func (h *journalHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	periodID := c.Param("periodID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("period_id", periodID), slog.String("actor_id", actorID))
	logger.Info("Received request to close fiscal period")

	period, err := h.journalService.ClosePeriod(c.Request.Context(), companyID, periodID, actorID)
	if err != nil {
		var unposted *services.UnpostedEntriesError
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal period not found"})
		case errors.As(err, &unposted):
			logger.Warn("Period close blocked by draft entries", slog.Int("draft_count", unposted.Count))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "unpostedCount": unposted.Count})
		case errors.Is(err, services.ErrPeriodClosed), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Period already closed")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close period in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close fiscal period"})
		}
		return
	}

	logger.Info("Fiscal period closed successfully")
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
