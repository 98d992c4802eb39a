package services

import (
	"context"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
)

// ServiceContainer holds instances of all the application services.
// It is built once by each binary and is the entry point to the payroll core.
type ServiceContainer struct {
	Capital       CapitalSvcFacade
	Payroll       PayrollSvcFacade
	Withdrawal    WithdrawalSvcFacade
	Consolidation ConsolidationSvc
}

// ConsolidationSvc collapses legacy duplicate payrolls into canonical records.
type ConsolidationSvc interface {
	// ImportLegacy groups legacy payroll documents by user and day (or week), merges each
	// group and inserts one canonical record per group.
	ImportLegacy(ctx context.Context, docs []dto.LegacyPayrollDocument, opts dto.ImportLegacyOptions) (*dto.ImportLegacyResult, error)
}

// TellerLocker serialises writes for one teller across processes.
type TellerLocker interface {
	// Acquire blocks until the lock for key is held or ctx ends. The returned
	// release func must be called exactly once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// EventPublisher emits advisory UI refresh events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
