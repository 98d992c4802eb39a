package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PayrollDefaults are the payroll policies shared by every service that creates payroll rows.
type PayrollDefaults struct {
	Rates  domain.SalaryRates
	Period domain.PayPeriod
}

// DefaultPayrollDefaults returns the built-in rate table and the monthly short policy.
func DefaultPayrollDefaults() PayrollDefaults {
	return PayrollDefaults{Rates: domain.DefaultSalaryRates(), Period: domain.PeriodMonthly}
}

// baseSalaryFor resolves the user's daily rate, logging when it falls back to the role default.
func (s *BaseService) baseSalaryFor(ctx context.Context, user *domain.User, defaults PayrollDefaults) decimal.Decimal {
	rate, fellBack := user.EffectiveBaseSalary(defaults.Rates)
	if fellBack {
		s.LogWarn(ctx, "User has no base salary; using role default",
			slog.String("user_id", user.UserID),
			slog.String("role", string(user.Role)),
			slog.String("fallback_rate", rate.String()))
	}
	return rate
}

// newPayrollTemplate builds the zero-activity payroll row for a user and day.
func newPayrollTemplate(user *domain.User, day time.Time, base decimal.Decimal, period domain.PayPeriod, actorID string, now time.Time) (domain.PayrollRecord, error) {
	policy, err := user.Role.Policy()
	if err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("user %s: %w", user.UserID, err)
	}
	return domain.PayrollRecord{
		PayrollID:   uuid.NewString(),
		UserID:      user.UserID,
		PayrollDate: day,
		Period:      period,
		BaseSalary:  base,
		Over:        decimal.Zero,
		Short:       domain.ShortDeduction{Amount: decimal.Zero, Kind: domain.ShortOutstanding, PaymentTerms: 1},
		Deduction:   decimal.Zero,
		Withdrawal:  decimal.Zero,
		DaysPresent: 1,
		HandlesCash: policy.HandlesCash,
		Source:      domain.SourceReportSync,
		AuditFields: domain.NewAuditFields(actorID, now),
	}, nil
}

// ensureDailyPayroll makes sure the user has a payroll row for the day and returns it row-locked.
// Creation is an insert-if-absent on (user, date), so concurrent callers converge on one row.
func (s *BaseService) ensureDailyPayroll(ctx context.Context, tx pgx.Tx, repo portsrepo.PayrollWriter, user *domain.User, day time.Time, defaults PayrollDefaults, actorID string) (*domain.PayrollRecord, bool, error) {
	base := s.baseSalaryFor(ctx, user, defaults)
	template, err := newPayrollTemplate(user, day, base, defaults.Period, actorID, s.Now())
	if err != nil {
		return nil, false, err
	}
	record, created, err := repo.EnsurePayroll(ctx, tx, template)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure payroll for user %s on %s: %w", user.UserID, day.Format(time.DateOnly), err)
	}
	if created {
		s.LogInfo(ctx, "Payroll record created",
			slog.String("payroll_id", record.PayrollID),
			slog.String("user_id", user.UserID),
			slog.String("payroll_date", day.Format(time.DateOnly)))
	}
	return record, created, nil
}
