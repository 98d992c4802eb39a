package accounting

import (
	"testing"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestComputeTotalSalary(t *testing.T) {
	tests := []struct {
		name  string
		input domain.SalaryComponents
		want  string
	}{
		{
			name: "monthly applies short in full",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Over: d("100"), Short: d("700"), Deduction: d("20"), Withdrawal: d("30"),
				ShortPaymentTerms: 7, Period: domain.PeriodMonthly, HandlesCash: true,
			},
			want: "-200",
		},
		{
			name: "monthly base and over only",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Over: d("373"), Period: domain.PeriodMonthly, HandlesCash: true,
			},
			want: "823",
		},
		{
			name: "weekly divides outstanding short by terms",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Short: d("700"), ShortPaymentTerms: 7, Period: domain.PeriodWeekly, HandlesCash: true,
			},
			want: "350",
		},
		{
			name: "weekly installment is not divided again",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Short: d("100"), ShortPaymentTerms: 7, ShortIsInstallment: true,
				Period: domain.PeriodWeekly, HandlesCash: true,
			},
			want: "350",
		},
		{
			name: "zero terms behaves as one",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Short: d("700"), ShortPaymentTerms: 0, Period: domain.PeriodWeekly, HandlesCash: true,
			},
			want: "-250",
		},
		{
			name: "negative terms behaves as one",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Short: d("100"), ShortPaymentTerms: -3, Period: domain.PeriodWeekly, HandlesCash: true,
			},
			want: "350",
		},
		{
			name: "supervisor-only payroll ignores over and short",
			input: domain.SalaryComponents{
				BaseSalary: d("600"), Over: d("373"), Short: d("700"), Deduction: d("50"), Withdrawal: d("100"),
				Period: domain.PeriodMonthly, HandlesCash: false,
			},
			want: "450",
		},
		{
			name: "unset period follows monthly policy",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Short: d("700"), ShortPaymentTerms: 7, HandlesCash: true,
			},
			want: "-250",
		},
		{
			name: "weekly installment rounds to cents",
			input: domain.SalaryComponents{
				BaseSalary: d("450"), Short: d("100"), ShortPaymentTerms: 3, Period: domain.PeriodWeekly, HandlesCash: true,
			},
			want: "416.67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotalSalary(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestComputeTotalSalary_MonthlyIdentity(t *testing.T) {
	values := []string{"0", "1", "17.5", "450", "999.99"}
	for _, base := range values {
		for _, over := range values {
			for _, short := range values {
				c := domain.SalaryComponents{
					BaseSalary: d(base), Over: d(over), Short: d(short), Deduction: d("12.25"), Withdrawal: d("3"),
					ShortPaymentTerms: 4, Period: domain.PeriodMonthly, HandlesCash: true,
				}
				got, err := ComputeTotalSalary(c)
				require.NoError(t, err)
				want := d(base).Add(d(over)).Sub(d(short)).Sub(d("12.25")).Sub(d("3"))
				assert.True(t, got.Equal(want), "base=%s over=%s short=%s: expected %s, got %s", base, over, short, want, got)
			}
		}
	}
}

func TestComputeTotalSalary_RejectsNegativeInputs(t *testing.T) {
	base := domain.SalaryComponents{BaseSalary: d("450"), Period: domain.PeriodMonthly, HandlesCash: true}

	cases := map[string]func(c *domain.SalaryComponents){
		"baseSalary": func(c *domain.SalaryComponents) { c.BaseSalary = d("-1") },
		"over":       func(c *domain.SalaryComponents) { c.Over = d("-1") },
		"short":      func(c *domain.SalaryComponents) { c.Short = d("-1") },
		"deduction":  func(c *domain.SalaryComponents) { c.Deduction = d("-1") },
		"withdrawal": func(c *domain.SalaryComponents) { c.Withdrawal = d("-1") },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			c := base
			mutate(&c)
			_, err := ComputeTotalSalary(c)
			assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
			assert.Contains(t, err.Error(), field)
		})
	}

	_, err := ComputeTotalSalary(domain.SalaryComponents{Period: "DAILY"})
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
}

func TestWeeklyShortInstallment(t *testing.T) {
	assert.True(t, WeeklyShortInstallment(d("700"), 7).Equal(d("100")))
	assert.True(t, WeeklyShortInstallment(d("700"), 1).Equal(d("700")))
	assert.True(t, WeeklyShortInstallment(d("700"), 0).Equal(d("700")))
	assert.True(t, WeeklyShortInstallment(d("10"), 3).Equal(d("3.33")))
}
