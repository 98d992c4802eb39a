package services

import (
	"context"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
)

// WithdrawalReaderSvc defines read operations for withdrawals
type WithdrawalReaderSvc interface {
	GetWithdrawal(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, params dto.ListWithdrawalsParams) ([]domain.Withdrawal, error)
}

// WithdrawalWriterSvc defines the withdrawal workflow
type WithdrawalWriterSvc interface {
	// RequestWithdrawal creates a pending withdrawal over approved, not yet withdrawn payrolls.
	RequestWithdrawal(ctx context.Context, req dto.RequestWithdrawalRequest, actorID string) (*domain.Withdrawal, error)

	// ApproveWithdrawal approves a pending withdrawal and marks its payrolls withdrawn.
	ApproveWithdrawal(ctx context.Context, withdrawalID string, actorID string) (*domain.Withdrawal, error)

	// RejectWithdrawal rejects a pending withdrawal.
	RejectWithdrawal(ctx context.Context, withdrawalID string, req dto.RejectWithdrawalRequest, actorID string) (*domain.Withdrawal, error)
}

// WithdrawalSvcFacade combines all withdrawal-related service interfaces
type WithdrawalSvcFacade interface {
	WithdrawalReaderSvc
	WithdrawalWriterSvc
}
