package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/teller_payroll_app/internal/models"
	"github.com/SscSPs/teller_payroll_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportRepository reads teller cash-count reports.
type PgxReportRepository struct {
	Pool *pgxpool.Pool
}

func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportReader {
	return &PgxReportRepository{Pool: pool}
}

var _ portsrepo.ReportReader = (*PgxReportRepository)(nil)

func (r *PgxReportRepository) FindReportsByTellerAndDate(ctx context.Context, tellerID string, day time.Time) ([]domain.TellerReport, error) {
	query := `
		SELECT report_id, teller_id, report_date, system_balance, cash_count, short_payment_terms, created_at
		FROM teller_reports
		WHERE teller_id = $1 AND report_date = $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, tellerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query teller reports: %w", err)
	}
	defer rows.Close()

	var reports []models.TellerReport
	for rows.Next() {
		var m models.TellerReport
		if err := rows.Scan(
			&m.ReportID,
			&m.TellerID,
			&m.ReportDate,
			&m.SystemBalance,
			&m.CashCount,
			&m.ShortPaymentTerms,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan teller report row: %w", err)
		}
		reports = append(reports, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating teller report rows: %w", rows.Err())
	}
	return mapping.ToDomainTellerReportSlice(reports), nil
}

func (r *PgxReportRepository) ListReportingTellerIDs(ctx context.Context, day time.Time) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT teller_id FROM teller_reports WHERE report_date = $1 ORDER BY teller_id;`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query reporting tellers: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}
