package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CapitalReader defines read operations for capital records
type CapitalReader interface {
	// FindActiveCapitalByTeller retrieves the teller's active capital record.
	// Returns apperrors.ErrNotFound when the teller has none.
	FindActiveCapitalByTeller(ctx context.Context, tellerID string) (*domain.CapitalRecord, error)

	// FindActiveCapitalForUpdate is FindActiveCapitalByTeller with a row lock held until tx ends.
	FindActiveCapitalForUpdate(ctx context.Context, tx pgx.Tx, tellerID string) (*domain.CapitalRecord, error)

	// ListActiveCapitalOpenedBefore returns active records created before the cutoff.
	ListActiveCapitalOpenedBefore(ctx context.Context, cutoff time.Time) ([]domain.CapitalRecord, error)
}

// CapitalWriter defines write operations for capital records
type CapitalWriter interface {
	// SaveCapital inserts a new capital record.
	SaveCapital(ctx context.Context, tx pgx.Tx, record domain.CapitalRecord) error

	// UpdateCapital persists running totals, status and audit fields. Amount is never updated.
	UpdateCapital(ctx context.Context, tx pgx.Tx, record domain.CapitalRecord) error
}

// CapitalTransactionReader defines read operations for the capital ledger
type CapitalTransactionReader interface {
	// ListCapitalTransactions retrieves a teller's ledger newest first using token-based pagination.
	// An empty capitalID lists entries across all of the teller's records.
	ListCapitalTransactions(ctx context.Context, tellerID, capitalID string, limit int, nextToken *string) ([]domain.CapitalTransaction, *string, error)
}

// CapitalTransactionWriter appends to the ledger. There is no update or delete.
type CapitalTransactionWriter interface {
	SaveCapitalTransaction(ctx context.Context, tx pgx.Tx, txn domain.CapitalTransaction) error
}

// CapitalRepositoryFacade combines all capital-related repository interfaces
type CapitalRepositoryFacade interface {
	CapitalReader
	CapitalWriter
	CapitalTransactionReader
	CapitalTransactionWriter
}
