package handlers

import (
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/accountica/ledger_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Every v1 route requires an acting user for the audit trail
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	// Exchange rates are shared reference data, registered outside the company scope
	registerFxRateRoutes(v1, service.FxRate)

	// Everything else is scoped to a company
	companies := v1.Group("/companies/:companyID")
	registerAccountRoutes(companies, service.Account)
	registerJournalRoutes(companies, service.Journal)
	registerLedgerRoutes(companies, service.Ledger)
	registerDepreciationRoutes(companies, service.Depreciation)
	registerECLRoutes(companies, service.ECL)
	registerInvoiceRoutes(companies, service.Invoice)
}
