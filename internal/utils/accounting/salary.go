package accounting

import (
	"fmt"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// installmentPlaces is the rounding precision of a derived weekly installment.
const installmentPlaces = 2

// WeeklyShortInstallment divides an outstanding short into one weekly installment.
// Terms of zero or less are treated as a single installment.
func WeeklyShortInstallment(short decimal.Decimal, terms int) decimal.Decimal {
	if terms <= 1 {
		return short
	}
	return short.Div(decimal.NewFromInt(int64(terms))).Round(installmentPlaces)
}

// EffectiveShort returns the short amount charged for the given components under their period policy.
func EffectiveShort(c domain.SalaryComponents) decimal.Decimal {
	if !c.HandlesCash {
		return decimal.Zero
	}
	if c.Period == domain.PeriodWeekly && !c.ShortIsInstallment {
		return WeeklyShortInstallment(c.Short, c.ShortPaymentTerms)
	}
	// Monthly applies the short in full; an installment is already per period.
	return c.Short
}

// ComputeTotalSalary derives the total salary from the payroll components.
//
//	total = base + over - short' - deduction - withdrawal
//
// where short' depends on the period policy (see EffectiveShort). Payroll for users who
// do not handle cash ignores over and short entirely. The result may be negative when
// deductions exceed earnings; inputs may not.
func ComputeTotalSalary(c domain.SalaryComponents) (decimal.Decimal, error) {
	if err := validateComponents(c); err != nil {
		return decimal.Zero, err
	}

	over := c.Over
	if !c.HandlesCash {
		over = decimal.Zero
	}

	total := c.BaseSalary.
		Add(over).
		Sub(EffectiveShort(c)).
		Sub(c.Deduction).
		Sub(c.Withdrawal)
	return total, nil
}

func validateComponents(c domain.SalaryComponents) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"baseSalary", c.BaseSalary},
		{"over", c.Over},
		{"short", c.Short},
		{"deduction", c.Deduction},
		{"withdrawal", c.Withdrawal},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrDataIntegrity, f.name, f.value)
		}
	}
	switch c.Period {
	case domain.PeriodWeekly, domain.PeriodMonthly:
	case "":
		// An unset period follows the monthly policy.
	default:
		return fmt.Errorf("%w: unknown pay period '%s'", apperrors.ErrDataIntegrity, c.Period)
	}
	return nil
}
