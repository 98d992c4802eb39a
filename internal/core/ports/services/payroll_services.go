package services

import (
	"context"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
)

// PayrollReaderSvc defines read operations for payroll data
type PayrollReaderSvc interface {
	// GetPayroll retrieves a payroll record with its computed total.
	GetPayroll(ctx context.Context, payrollID string) (*dto.PayrollResponse, error)

	// ListPayrolls retrieves a page of payroll records with computed totals.
	ListPayrolls(ctx context.Context, params dto.ListPayrollsParams) (*dto.ListPayrollsResponse, error)
}

// PayrollSyncSvc turns teller reports into payroll records
type PayrollSyncSvc interface {
	// SyncFromReports recomputes the user's payroll for one day from that day's reports.
	// Repeating the call produces the same record.
	SyncFromReports(ctx context.Context, userID string, day time.Time, actorID string) (*domain.PayrollRecord, error)

	// SyncAllForDate syncs every user who reported or already has payroll on the day.
	SyncAllForDate(ctx context.Context, day time.Time, actorID string) (*dto.SyncSummary, error)
}

// PayrollApprovalSvc defines the payroll state machine
type PayrollApprovalSvc interface {
	Approve(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error)
	Disapprove(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error)
	Lock(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error)
	Unlock(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error)
}

// PayrollAdjusterSvc defines manual corrections
type PayrollAdjusterSvc interface {
	// AdjustPayroll applies a delta to one component and records it in the adjustment log.
	AdjustPayroll(ctx context.Context, payrollID string, req dto.AdjustPayrollRequest, actorID string) (*domain.PayrollRecord, error)
}

// PayrollSvcFacade combines all payroll-related service interfaces
type PayrollSvcFacade interface {
	PayrollReaderSvc
	PayrollSyncSvc
	PayrollApprovalSvc
	PayrollAdjusterSvc
}
