package repositories

import (
	"context"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByIDForUpdate retrieves a user and locks the row for the rest of the transaction.
	FindUserByIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// UpdateUserPayrollLinks persists the supervisor link and base salary of a user.
	UpdateUserPayrollLinks(ctx context.Context, tx pgx.Tx, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
