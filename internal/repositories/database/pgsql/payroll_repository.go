package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
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

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll records and adjustments.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPayrollRepository implements portsrepo.PayrollRepositoryFacade
var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

const payrollColumns = `payroll_id, user_id, payroll_date, period, base_salary, over_amount, short_amount, short_kind,
	short_payment_terms, deduction, withdrawal, days_present, handles_cash, approved, locked, withdrawn,
	source, created_at, created_by, last_updated_at, last_updated_by`

func scanPayroll(row pgx.Row) (models.PayrollRecord, error) {
	var m models.PayrollRecord
	err := row.Scan(
		&m.PayrollID,
		&m.UserID,
		&m.PayrollDate,
		&m.Period,
		&m.BaseSalary,
		&m.Over,
		&m.Short,
		&m.ShortKind,
		&m.ShortPaymentTerms,
		&m.Deduction,
		&m.Withdrawal,
		&m.DaysPresent,
		&m.HandlesCash,
		&m.Approved,
		&m.Locked,
		&m.Withdrawn,
		&m.Source,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPayrollRows(rows pgx.Rows) ([]models.PayrollRecord, error) {
	defer rows.Close()
	var out []models.PayrollRecord
	for rows.Next() {
		m, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll row: %w", err)
		}
		out = append(out, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payroll rows: %w", rows.Err())
	}
	return out, nil
}

// findOne loads one record plus its adjustment log using q.
func (r *PgxPayrollRepository) findOne(ctx context.Context, q querier, where, lock string, args ...any) (*domain.PayrollRecord, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_records WHERE ` + where + lock + `;`
	m, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, "payroll %v", args)
	}
	record := mapping.ToDomainPayrollRecord(m)
	adjustments, err := r.loadAdjustments(ctx, q, record.PayrollID)
	if err != nil {
		return nil, err
	}
	record.Adjustments = adjustments
	return &record, nil
}

func (r *PgxPayrollRepository) loadAdjustments(ctx context.Context, q querier, payrollID string) ([]domain.PayrollAdjustment, error) {
	query := `
		SELECT adjustment_id, payroll_id, field, delta, reason, created_at, created_by
		FROM payroll_adjustments
		WHERE payroll_id = $1
		ORDER BY created_at, adjustment_id;
	`
	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll adjustments: %w", err)
	}
	defer rows.Close()

	var out []domain.PayrollAdjustment
	for rows.Next() {
		var m models.PayrollAdjustment
		if err := rows.Scan(&m.AdjustmentID, &m.PayrollID, &m.Field, &m.Delta, &m.Reason, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan payroll adjustment row: %w", err)
		}
		out = append(out, mapping.ToDomainPayrollAdjustment(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payroll adjustment rows: %w", rows.Err())
	}
	return out, nil
}

func (r *PgxPayrollRepository) FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error) {
	return r.findOne(ctx, r.Pool, "payroll_id = $1", "", payrollID)
}

// FindPayrollForUpdate must be called within a transaction.
func (r *PgxPayrollRepository) FindPayrollForUpdate(ctx context.Context, tx pgx.Tx, payrollID string) (*domain.PayrollRecord, error) {
	return r.findOne(ctx, tx, "payroll_id = $1", " FOR UPDATE", payrollID)
}

// FindPayrollsForUpdate locks rows in ID order so concurrent callers cannot deadlock.
// Adjustment logs are not loaded.
func (r *PgxPayrollRepository) FindPayrollsForUpdate(ctx context.Context, tx pgx.Tx, payrollIDs []string) ([]domain.PayrollRecord, error) {
	if len(payrollIDs) == 0 {
		return []domain.PayrollRecord{}, nil
	}
	query := `SELECT ` + payrollColumns + ` FROM payroll_records WHERE payroll_id = ANY($1) ORDER BY payroll_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, payrollIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query payrolls for update: %w", err)
	}
	ms, err := scanPayrollRows(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainPayrollRecordSlice(ms), nil
}

// ListPayrolls retrieves payroll records newest payroll date first using token-based pagination.
func (r *PgxPayrollRepository) ListPayrolls(ctx context.Context, filter portsrepo.PayrollFilter, limit int, nextToken *string) ([]domain.PayrollRecord, *string, error) {
	limit = pagination.ClampLimit(limit)

	var (
		conds []string
		args  []any
	)
	add := func(cond string, v ...any) {
		args = append(args, v...)
		for i := range v {
			cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)-len(v)+i+1), 1)
		}
		conds = append(conds, cond)
	}
	if filter.UserID != "" {
		add("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		add("payroll_date >= ?", domain.DayOf(*filter.From))
	}
	if filter.To != nil {
		add("payroll_date <= ?", domain.DayOf(*filter.To))
	}
	if filter.Approved != nil {
		add("approved = ?", *filter.Approved)
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		add("(payroll_date, created_at) < (?, ?)", lastDate, lastCreatedAt)
	}

	query := `SELECT ` + payrollColumns + ` FROM payroll_records`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit+1)
	query += ` ORDER BY payroll_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payrolls: %w", err)
	}
	ms, err := scanPayrollRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.PayrollDate, last.CreatedAt)
		nextTokenVal = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainPayrollRecordSlice(ms), nextTokenVal, nil
}

func (r *PgxPayrollRepository) ListPayrollUserIDsByDate(ctx context.Context, day time.Time) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT user_id FROM payroll_records WHERE payroll_date = $1 ORDER BY user_id;`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll users: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

const insertPayrollSQL = `
	INSERT INTO payroll_records (` + payrollColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

func payrollInsertArgs(m models.PayrollRecord) []any {
	return []any{
		m.PayrollID, m.UserID, m.PayrollDate, m.Period, m.BaseSalary, m.Over, m.Short, m.ShortKind,
		m.ShortPaymentTerms, m.Deduction, m.Withdrawal, m.DaysPresent, m.HandlesCash, m.Approved, m.Locked, m.Withdrawn,
		m.Source, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// EnsurePayroll is an insert-if-absent on (user_id, payroll_date) followed by a locking read.
func (r *PgxPayrollRepository) EnsurePayroll(ctx context.Context, tx pgx.Tx, template domain.PayrollRecord) (*domain.PayrollRecord, bool, error) {
	m := mapping.ToModelPayrollRecord(template)
	var insertedID string
	err := tx.QueryRow(ctx, insertPayrollSQL+` ON CONFLICT (user_id, payroll_date) DO NOTHING RETURNING payroll_id;`,
		payrollInsertArgs(m)...).Scan(&insertedID)
	created := true
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("failed to insert payroll for user %s: %w", m.UserID, err)
		}
		created = false
	}

	record, err := r.findOne(ctx, tx, "user_id = $1 AND payroll_date = $2", " FOR UPDATE", m.UserID, m.PayrollDate)
	if err != nil {
		return nil, false, err
	}
	return record, created, nil
}

// SavePayroll inserts a complete record together with any adjustments it carries.
func (r *PgxPayrollRepository) SavePayroll(ctx context.Context, tx pgx.Tx, record domain.PayrollRecord) error {
	m := mapping.ToModelPayrollRecord(record)
	if _, err := r.q(tx).Exec(ctx, insertPayrollSQL+`;`, payrollInsertArgs(m)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payroll for user %s on %s", apperrors.ErrDuplicate, m.UserID, m.PayrollDate.Format(time.DateOnly))
		}
		return fmt.Errorf("failed to save payroll %s: %w", m.PayrollID, err)
	}
	for _, adj := range record.Adjustments {
		if err := r.SaveAdjustment(ctx, tx, adj); err != nil {
			return err
		}
	}
	return nil
}

func (r *PgxPayrollRepository) UpdatePayroll(ctx context.Context, tx pgx.Tx, record domain.PayrollRecord) error {
	m := mapping.ToModelPayrollRecord(record)
	query := `
		UPDATE payroll_records
		SET payroll_date = $1, base_salary = $2, over_amount = $3, short_amount = $4, short_kind = $5,
			short_payment_terms = $6, deduction = $7, withdrawal = $8, days_present = $9, handles_cash = $10,
			approved = $11, locked = $12, withdrawn = $13, last_updated_at = $14, last_updated_by = $15
		WHERE payroll_id = $16;
	`
	cmdTag, err := r.q(tx).Exec(ctx, query,
		m.PayrollDate,
		m.BaseSalary,
		m.Over,
		m.Short,
		m.ShortKind,
		m.ShortPaymentTerms,
		m.Deduction,
		m.Withdrawal,
		m.DaysPresent,
		m.HandlesCash,
		m.Approved,
		m.Locked,
		m.Withdrawn,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.PayrollID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll %s: %w", m.PayrollID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll %s", apperrors.ErrNotFound, m.PayrollID)
	}
	return nil
}

func (r *PgxPayrollRepository) SaveAdjustment(ctx context.Context, tx pgx.Tx, adjustment domain.PayrollAdjustment) error {
	m := mapping.ToModelPayrollAdjustment(adjustment)
	query := `
		INSERT INTO payroll_adjustments (adjustment_id, payroll_id, field, delta, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := r.q(tx).Exec(ctx, query, m.AdjustmentID, m.PayrollID, m.Field, m.Delta, m.Reason, m.CreatedAt, m.CreatedBy); err != nil {
		return fmt.Errorf("failed to save payroll adjustment %s: %w", m.AdjustmentID, err)
	}
	return nil
}
