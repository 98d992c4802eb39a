package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/teller_payroll_app/internal/models"
	"github.com/SscSPs/teller_payroll_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWithdrawalRepository struct {
	BaseRepository
}

func newPgxWithdrawalRepository(pool *pgxpool.Pool) portsrepo.WithdrawalRepositoryFacade {
	return &PgxWithdrawalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WithdrawalRepositoryFacade = (*PgxWithdrawalRepository)(nil)

const withdrawalColumns = `withdrawal_id, user_id, amount, status, reason, created_at, created_by, last_updated_at, last_updated_by`

func scanWithdrawal(row pgx.Row) (models.Withdrawal, error) {
	var m models.Withdrawal
	err := row.Scan(
		&m.WithdrawalID,
		&m.UserID,
		&m.Amount,
		&m.Status,
		&m.Reason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// payrollLinks returns the payroll IDs of each withdrawal, in payroll ID order.
func (r *PgxWithdrawalRepository) payrollLinks(ctx context.Context, q querier, withdrawalIDs []string) (map[string][]string, error) {
	links := make(map[string][]string, len(withdrawalIDs))
	if len(withdrawalIDs) == 0 {
		return links, nil
	}
	rows, err := q.Query(ctx, `
		SELECT withdrawal_id, payroll_id FROM withdrawal_payrolls
		WHERE withdrawal_id = ANY($1)
		ORDER BY withdrawal_id, payroll_id;`, withdrawalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal payrolls: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var wID, pID string
		if err := rows.Scan(&wID, &pID); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal payroll row: %w", err)
		}
		links[wID] = append(links[wID], pID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating withdrawal payroll rows: %w", rows.Err())
	}
	return links, nil
}

func (r *PgxWithdrawalRepository) findOne(ctx context.Context, q querier, withdrawalID, lock string) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE withdrawal_id = $1` + lock + `;`
	m, err := scanWithdrawal(q.QueryRow(ctx, query, withdrawalID))
	if err != nil {
		return nil, notFoundOr(err, "withdrawal %s", withdrawalID)
	}
	links, err := r.payrollLinks(ctx, q, []string{withdrawalID})
	if err != nil {
		return nil, err
	}
	w := mapping.ToDomainWithdrawal(m, links[withdrawalID])
	return &w, nil
}

func (r *PgxWithdrawalRepository) FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	return r.findOne(ctx, r.Pool, withdrawalID, "")
}

func (r *PgxWithdrawalRepository) FindWithdrawalForUpdate(ctx context.Context, tx pgx.Tx, withdrawalID string) (*domain.Withdrawal, error) {
	return r.findOne(ctx, tx, withdrawalID, " FOR UPDATE")
}

func (r *PgxWithdrawalRepository) FindPendingPayrollIDs(ctx context.Context, tx pgx.Tx, payrollIDs []string) ([]string, error) {
	if len(payrollIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q(tx).Query(ctx, `
		SELECT DISTINCT wp.payroll_id
		FROM withdrawal_payrolls wp
		JOIN withdrawals w ON w.withdrawal_id = wp.withdrawal_id
		WHERE w.status = 'PENDING' AND wp.payroll_id = ANY($1)
		ORDER BY wp.payroll_id;`, payrollIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending withdrawal payrolls: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (r *PgxWithdrawalRepository) ListWithdrawals(ctx context.Context, userID string, status *domain.WithdrawalStatus) ([]domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE 1=1`
	var args []any
	if userID != "" {
		args = append(args, userID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC, withdrawal_id DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()

	var ms []models.Withdrawal
	var ids []string
	for rows.Next() {
		m, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal row: %w", err)
		}
		ms = append(ms, m)
		ids = append(ids, m.WithdrawalID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating withdrawal rows: %w", rows.Err())
	}
	rows.Close()

	links, err := r.payrollLinks(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Withdrawal, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainWithdrawal(m, links[m.WithdrawalID])
	}
	return out, nil
}

// SaveWithdrawal inserts the withdrawal and queues one link row per payroll in a single batch.
func (r *PgxWithdrawalRepository) SaveWithdrawal(ctx context.Context, tx pgx.Tx, withdrawal domain.Withdrawal) error {
	m := mapping.ToModelWithdrawal(withdrawal)
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO withdrawals (`+withdrawalColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.WithdrawalID, m.UserID, m.Amount, m.Status, m.Reason, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	for _, payrollID := range withdrawal.PayrollIDs {
		batch.Queue(`INSERT INTO withdrawal_payrolls (withdrawal_id, payroll_id) VALUES ($1, $2);`, m.WithdrawalID, payrollID)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: withdrawal %s", apperrors.ErrDuplicate, m.WithdrawalID)
			}
			return fmt.Errorf("failed to save withdrawal %s: %w", m.WithdrawalID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to save withdrawal %s: %w", m.WithdrawalID, err)
	}
	return nil
}

func (r *PgxWithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, tx pgx.Tx, withdrawal domain.Withdrawal) error {
	m := mapping.ToModelWithdrawal(withdrawal)
	cmdTag, err := r.q(tx).Exec(ctx, `
		UPDATE withdrawals
		SET status = $1, reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE withdrawal_id = $5;`,
		m.Status, m.Reason, m.LastUpdatedAt, m.LastUpdatedBy, m.WithdrawalID)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %s: %w", m.WithdrawalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: withdrawal %s", apperrors.ErrNotFound, m.WithdrawalID)
	}
	return nil
}
