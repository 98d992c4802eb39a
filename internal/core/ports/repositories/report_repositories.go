package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
)

// ReportReader defines read operations for teller cash-count reports.
// Reports are written by the reporting front end, never by payroll.
type ReportReader interface {
	// FindReportsByTellerAndDate retrieves all reports a teller submitted for one day.
	FindReportsByTellerAndDate(ctx context.Context, tellerID string, day time.Time) ([]domain.TellerReport, error)

	// ListReportingTellerIDs returns the distinct tellers that reported on a day.
	ListReportingTellerIDs(ctx context.Context, day time.Time) ([]string, error)
}
