package services

import (
	"context"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
)

// CapitalReaderSvc defines read operations for capital data
type CapitalReaderSvc interface {
	// GetActiveCapital retrieves the teller's active capital record.
	GetActiveCapital(ctx context.Context, tellerID string) (*domain.CapitalRecord, error)

	// ListCapitalTransactions retrieves a page of the teller's capital ledger.
	ListCapitalTransactions(ctx context.Context, tellerID string, params dto.ListCapitalTransactionsParams) (*dto.ListCapitalTransactionsResponse, error)
}

// CapitalWriterSvc defines the capital movements. Each keeps
// balanceRemaining == (amount + totalAdditional) - totalRemitted and appends one ledger entry.
type CapitalWriterSvc interface {
	// IssueCapital creates a new active capital record for a teller.
	IssueCapital(ctx context.Context, req dto.IssueCapitalRequest, actorID string) (*dto.CapitalMovementResponse, error)

	// AddAdditional tops up the teller's active capital.
	AddAdditional(ctx context.Context, tellerID string, req dto.CapitalMovementRequest, actorID string) (*dto.CapitalMovementResponse, error)

	// Remit records cash returned by the teller.
	Remit(ctx context.Context, tellerID string, req dto.CapitalMovementRequest, actorID string) (*dto.CapitalMovementResponse, error)

	// AdjustCapital records a signed manual correction.
	AdjustCapital(ctx context.Context, tellerID string, req dto.AdjustCapitalRequest, actorID string) (*dto.CapitalMovementResponse, error)

	// CloseCapital ends the teller's active capital record.
	CloseCapital(ctx context.Context, tellerID string, req dto.CloseCapitalRequest, actorID string) (*dto.CapitalMovementResponse, error)
}

// CapitalMaintenanceSvc defines scheduled capital housekeeping
type CapitalMaintenanceSvc interface {
	// CloseStaleCapital completes every active record opened before the cutoff and returns how many it closed.
	CloseStaleCapital(ctx context.Context, cutoff time.Time, actorID string) (int, error)
}

// CapitalSvcFacade combines all capital-related service interfaces
type CapitalSvcFacade interface {
	CapitalReaderSvc
	CapitalWriterSvc
	CapitalMaintenanceSvc
}
