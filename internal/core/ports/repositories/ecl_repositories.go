package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ECLReader defines read operations for expected credit loss provisions
type ECLReader interface {
	// FindProvisionByID retrieves a provision by its identifier.
	FindProvisionByID(ctx context.Context, companyID, provisionID string) (*domain.ECLProvision, error)

	// FindActiveProvisionByInvoice retrieves the single ACTIVE provision of an
	// invoice. Returns apperrors.ErrNotFound when the invoice has none.
	FindActiveProvisionByInvoice(ctx context.Context, companyID, invoiceID string) (*domain.ECLProvision, error)

	// ListProvisionsByInvoice retrieves the full provision history of an invoice,
	// newest first.
	ListProvisionsByInvoice(ctx context.Context, companyID, invoiceID string) ([]domain.ECLProvision, error)

	// LatestAllowanceByInvoices retrieves each invoice's newest ACTIVE or
	// WRITTEN_OFF provision amount and rate, keyed by invoice id.
	LatestAllowanceByInvoices(ctx context.Context, companyID string, invoiceIDs []string) (map[string]domain.ECLAllowance, error)
}

// ECLWriter defines write operations for expected credit loss provisions
type ECLWriter interface {
	// SaveProvisionSuperseding persists a new ACTIVE provision and, when
	// supersededID is non-nil, flips the prior provision to REVERSED in the same
	// database transaction so the invoice never carries two ACTIVE provisions.
	SaveProvisionSuperseding(ctx context.Context, provision domain.ECLProvision, supersededID *string) error

	// UpdateProvisionOnPost attaches the posted adjustment journal entry.
	UpdateProvisionOnPost(ctx context.Context, provisionID, journalEntryID, actorID string, at time.Time) error

	// MarkWrittenOff flips a provision to WRITTEN_OFF with the write-off details.
	MarkWrittenOff(ctx context.Context, provisionID string, amount decimal.Decimal, reason, journalEntryID, actorID string, at time.Time) error

	// MarkRecovered records a recovery against a written-off provision.
	MarkRecovered(ctx context.Context, provisionID string, amount decimal.Decimal, journalEntryID, actorID string, at time.Time) error
}

// ECLRepositoryFacade combines all ECL repository interfaces.
type ECLRepositoryFacade interface {
	ECLReader
	ECLWriter
}
