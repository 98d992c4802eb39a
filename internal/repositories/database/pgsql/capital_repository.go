package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/teller_payroll_app/internal/models"
	"github.com/SscSPs/teller_payroll_app/internal/utils/mapping"
	"github.com/SscSPs/teller_payroll_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCapitalRepository struct {
	BaseRepository
}

// newPgxCapitalRepository creates a new repository for capital records and their ledger.
func newPgxCapitalRepository(pool *pgxpool.Pool) portsrepo.CapitalRepositoryFacade {
	return &PgxCapitalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCapitalRepository implements portsrepo.CapitalRepositoryFacade
var _ portsrepo.CapitalRepositoryFacade = (*PgxCapitalRepository)(nil)

const capitalColumns = `capital_id, teller_id, supervisor_id, amount, total_additional, total_remitted, balance_remaining,
	status, closed_at, created_at, created_by, last_updated_at, last_updated_by`

const capitalTxnColumns = `transaction_id, capital_id, teller_id, supervisor_id, type, amount, balance_before, balance_after,
	notes, created_at, created_by`

func scanCapital(row pgx.Row) (models.CapitalRecord, error) {
	var m models.CapitalRecord
	err := row.Scan(
		&m.CapitalID,
		&m.TellerID,
		&m.SupervisorID,
		&m.Amount,
		&m.TotalAdditional,
		&m.TotalRemitted,
		&m.BalanceRemaining,
		&m.Status,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCapitalRepository) findActive(ctx context.Context, q querier, tellerID, lock string) (*domain.CapitalRecord, error) {
	query := `SELECT ` + capitalColumns + ` FROM capital_records WHERE teller_id = $1 AND status = 'ACTIVE'` + lock + `;`
	m, err := scanCapital(q.QueryRow(ctx, query, tellerID))
	if err != nil {
		return nil, notFoundOr(err, "active capital for teller %s", tellerID)
	}
	rec := mapping.ToDomainCapitalRecord(m)
	return &rec, nil
}

func (r *PgxCapitalRepository) FindActiveCapitalByTeller(ctx context.Context, tellerID string) (*domain.CapitalRecord, error) {
	return r.findActive(ctx, r.Pool, tellerID, "")
}

// FindActiveCapitalForUpdate locks the teller's active record. Must be called within a transaction.
func (r *PgxCapitalRepository) FindActiveCapitalForUpdate(ctx context.Context, tx pgx.Tx, tellerID string) (*domain.CapitalRecord, error) {
	return r.findActive(ctx, tx, tellerID, " FOR UPDATE")
}

func (r *PgxCapitalRepository) ListActiveCapitalOpenedBefore(ctx context.Context, cutoff time.Time) ([]domain.CapitalRecord, error) {
	query := `SELECT ` + capitalColumns + ` FROM capital_records WHERE status = 'ACTIVE' AND created_at < $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query active capital: %w", err)
	}
	defer rows.Close()

	var out []models.CapitalRecord
	for rows.Next() {
		m, err := scanCapital(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capital row: %w", err)
		}
		out = append(out, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating capital rows: %w", rows.Err())
	}
	return mapping.ToDomainCapitalRecordSlice(out), nil
}

// SaveCapital inserts a new record. A second ACTIVE record for the teller violates
// the partial unique index and is reported as apperrors.ErrDuplicate.
func (r *PgxCapitalRepository) SaveCapital(ctx context.Context, tx pgx.Tx, record domain.CapitalRecord) error {
	m := mapping.ToModelCapitalRecord(record)
	query := `
		INSERT INTO capital_records (
			capital_id, teller_id, supervisor_id, amount, total_additional, total_remitted,
			status, closed_at, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.q(tx).Exec(ctx, query,
		m.CapitalID,
		m.TellerID,
		m.SupervisorID,
		m.Amount,
		m.TotalAdditional,
		m.TotalRemitted,
		m.Status,
		m.ClosedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: teller %s already has an active capital record", apperrors.ErrDuplicate, m.TellerID)
		}
		return fmt.Errorf("failed to save capital record %s: %w", m.CapitalID, err)
	}
	return nil
}

func (r *PgxCapitalRepository) UpdateCapital(ctx context.Context, tx pgx.Tx, record domain.CapitalRecord) error {
	m := mapping.ToModelCapitalRecord(record)
	query := `
		UPDATE capital_records
		SET total_additional = $1, total_remitted = $2, status = $3, closed_at = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE capital_id = $7;
	`
	cmdTag, err := r.q(tx).Exec(ctx, query,
		m.TotalAdditional,
		m.TotalRemitted,
		m.Status,
		m.ClosedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.CapitalID,
	)
	if err != nil {
		return fmt.Errorf("failed to update capital record %s: %w", m.CapitalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: capital record %s", apperrors.ErrNotFound, m.CapitalID)
	}
	return nil
}

// ListCapitalTransactions retrieves ledger entries newest first using token-based pagination.
func (r *PgxCapitalRepository) ListCapitalTransactions(ctx context.Context, tellerID, capitalID string, limit int, nextToken *string) ([]domain.CapitalTransaction, *string, error) {
	limit = pagination.ClampLimit(limit)
	fetchLimit := limit + 1

	args := []any{tellerID}
	query := `SELECT ` + capitalTxnColumns + ` FROM capital_transactions WHERE teller_id = $1`
	if capitalID != "" {
		args = append(args, capitalID)
		query += ` AND capital_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeIDToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, transaction_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query capital transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.CapitalTransaction
	for rows.Next() {
		var m models.CapitalTransaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.CapitalID,
			&m.TellerID,
			&m.SupervisorID,
			&m.Type,
			&m.Amount,
			&m.BalanceBefore,
			&m.BalanceAfter,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan capital transaction row: %w", err)
		}
		txns = append(txns, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating capital transaction rows: %w", rows.Err())
	}

	var nextTokenVal *string
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeIDToken(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
		txns = txns[:limit]
	}
	return mapping.ToDomainCapitalTransactionSlice(txns), nextTokenVal, nil
}

// SaveCapitalTransaction appends one ledger entry.
func (r *PgxCapitalRepository) SaveCapitalTransaction(ctx context.Context, tx pgx.Tx, txn domain.CapitalTransaction) error {
	m := mapping.ToModelCapitalTransaction(txn)
	query := `
		INSERT INTO capital_transactions (` + capitalTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q(tx).Exec(ctx, query,
		m.TransactionID,
		m.CapitalID,
		m.TellerID,
		m.SupervisorID,
		m.Type,
		m.Amount,
		m.BalanceBefore,
		m.BalanceAfter,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save capital transaction %s: %w", m.TransactionID, err)
	}
	return nil
}
