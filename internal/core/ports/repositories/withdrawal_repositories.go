package repositories

import (
	"context"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// WithdrawalReader defines read operations for withdrawals
type WithdrawalReader interface {
	FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)

	// FindWithdrawalForUpdate retrieves and row-locks a withdrawal.
	FindWithdrawalForUpdate(ctx context.Context, tx pgx.Tx, withdrawalID string) (*domain.Withdrawal, error)

	// FindPendingPayrollIDs returns those of payrollIDs already referenced by a pending withdrawal.
	FindPendingPayrollIDs(ctx context.Context, tx pgx.Tx, payrollIDs []string) ([]string, error)

	// ListWithdrawals lists withdrawals newest first. Empty userID and nil status do not filter.
	ListWithdrawals(ctx context.Context, userID string, status *domain.WithdrawalStatus) ([]domain.Withdrawal, error)
}

// WithdrawalWriter defines write operations for withdrawals
type WithdrawalWriter interface {
	// SaveWithdrawal inserts the withdrawal and its payroll links.
	SaveWithdrawal(ctx context.Context, tx pgx.Tx, withdrawal domain.Withdrawal) error

	// UpdateWithdrawalStatus persists status, reason and audit fields.
	UpdateWithdrawalStatus(ctx context.Context, tx pgx.Tx, withdrawal domain.Withdrawal) error
}

// WithdrawalRepositoryFacade combines all withdrawal-related repository interfaces
type WithdrawalRepositoryFacade interface {
	WithdrawalReader
	WithdrawalWriter
}
