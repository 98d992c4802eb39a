package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PayrollFilter narrows payroll listings. Zero values do not filter.
type PayrollFilter struct {
	UserID   string
	From     *time.Time
	To       *time.Time
	Approved *bool
}

// PayrollReader defines read operations for payroll data
type PayrollReader interface {
	// FindPayrollByID retrieves a payroll record with its adjustment log.
	FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error)

	// FindPayrollForUpdate retrieves and row-locks a payroll record with its adjustment log.
	FindPayrollForUpdate(ctx context.Context, tx pgx.Tx, payrollID string) (*domain.PayrollRecord, error)

	// FindPayrollsForUpdate row-locks several payroll records in ID order.
	FindPayrollsForUpdate(ctx context.Context, tx pgx.Tx, payrollIDs []string) ([]domain.PayrollRecord, error)

	// ListPayrolls retrieves payroll records, newest payroll date first, using token-based pagination.
	ListPayrolls(ctx context.Context, filter PayrollFilter, limit int, nextToken *string) ([]domain.PayrollRecord, *string, error)

	// ListPayrollUserIDsByDate returns users that already have a payroll record on a day.
	ListPayrollUserIDsByDate(ctx context.Context, day time.Time) ([]string, error)
}

// PayrollWriter defines write operations for payroll data
type PayrollWriter interface {
	// EnsurePayroll inserts the template unless a record for (user, date) exists, then returns the
	// stored record row-locked. The boolean reports whether the template was inserted.
	EnsurePayroll(ctx context.Context, tx pgx.Tx, template domain.PayrollRecord) (*domain.PayrollRecord, bool, error)

	// SavePayroll inserts a complete record. A second record for (user, date) yields apperrors.ErrDuplicate.
	SavePayroll(ctx context.Context, tx pgx.Tx, record domain.PayrollRecord) error

	// UpdatePayroll persists components, flags and audit fields.
	UpdatePayroll(ctx context.Context, tx pgx.Tx, record domain.PayrollRecord) error

	// SaveAdjustment appends an entry to a payroll's adjustment log.
	SaveAdjustment(ctx context.Context, tx pgx.Tx, adjustment domain.PayrollAdjustment) error
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces
type PayrollRepositoryFacade interface {
	PayrollReader
	PayrollWriter
}
