package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRecord_StateMachine(t *testing.T) {
	p := domain.PayrollRecord{PayrollID: "pay_1"}

	require.NoError(t, p.Approve())
	assert.ErrorIs(t, p.Approve(), apperrors.ErrInvalidState)

	require.NoError(t, p.Lock())
	err := p.Disapprove()
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "locked")
	assert.True(t, p.Approved, "a rejected disapprove must not change state")

	require.NoError(t, p.Unlock())
	require.NoError(t, p.Disapprove())
	assert.False(t, p.Approved)

	assert.ErrorIs(t, p.Lock(), apperrors.ErrInvalidState)
	assert.ErrorIs(t, p.Unlock(), apperrors.ErrInvalidState)
}

func TestPayrollRecord_MarkWithdrawn(t *testing.T) {
	p := domain.PayrollRecord{PayrollID: "pay_1"}
	assert.ErrorIs(t, p.MarkWithdrawn(), apperrors.ErrInvalidState)

	require.NoError(t, p.Approve())
	require.NoError(t, p.MarkWithdrawn())
	assert.True(t, p.Withdrawn)

	assert.ErrorIs(t, p.MarkWithdrawn(), apperrors.ErrInvalidState)
	assert.ErrorIs(t, p.Disapprove(), apperrors.ErrInvalidState)

	locked := domain.PayrollRecord{PayrollID: "pay_2"}
	require.NoError(t, locked.Approve())
	require.NoError(t, locked.Lock())
	require.NoError(t, locked.MarkWithdrawn())
	assert.ErrorIs(t, locked.Unlock(), apperrors.ErrInvalidState)
	assert.True(t, locked.Locked, "withdrawn record stays locked")
}

func TestPayrollRecord_ApplyDelta(t *testing.T) {
	p := domain.PayrollRecord{
		Over:      decimal.NewFromInt(100),
		Deduction: decimal.NewFromInt(20),
		Short:     domain.ShortDeduction{Amount: decimal.NewFromInt(50), Kind: domain.ShortOutstanding, PaymentTerms: 5},
	}

	require.NoError(t, p.ApplyDelta(domain.FieldOver, decimal.NewFromInt(-40)))
	assert.True(t, p.Over.Equal(decimal.NewFromInt(60)))

	require.NoError(t, p.ApplyDelta(domain.FieldShort, decimal.NewFromInt(25)))
	assert.True(t, p.Short.Amount.Equal(decimal.NewFromInt(75)))

	err := p.ApplyDelta(domain.FieldDeduction, decimal.NewFromInt(-21))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, p.Deduction.Equal(decimal.NewFromInt(20)))

	assert.ErrorIs(t, p.ApplyDelta("BONUS", decimal.NewFromInt(1)), apperrors.ErrValidation)
}

func TestPayrollRecord_Components(t *testing.T) {
	p := domain.PayrollRecord{
		BaseSalary:  decimal.NewFromInt(450),
		Short:       domain.ShortDeduction{Amount: decimal.NewFromInt(100), Kind: domain.ShortInstallment, PaymentTerms: 7},
		Period:      domain.PeriodWeekly,
		HandlesCash: true,
	}
	c := p.Components()
	assert.True(t, c.ShortIsInstallment)
	assert.Equal(t, 7, c.ShortPaymentTerms)
	assert.Equal(t, domain.PeriodWeekly, c.Period)
	assert.True(t, c.BaseSalary.Equal(decimal.NewFromInt(450)))
}

func TestUser_EffectiveBaseSalary(t *testing.T) {
	rates := domain.DefaultSalaryRates()
	custom := decimal.NewFromInt(500)

	rate, fellBack := domain.User{Role: domain.RoleTeller, BaseSalary: &custom}.EffectiveBaseSalary(rates)
	assert.False(t, fellBack)
	assert.True(t, rate.Equal(custom))

	tests := []struct {
		role domain.Role
		want int64
	}{
		{domain.RoleTeller, 450},
		{domain.RoleSupervisor, 600},
		{domain.RoleSupervisorTeller, 600},
		{domain.RoleAdmin, 0},
		{domain.RoleSuperAdmin, 0},
		{domain.RoleHeadWatcher, 450},
		{domain.RoleSubWatcher, 400},
		{domain.RoleDeclarator, 450},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			rate, fellBack := domain.User{Role: tt.role}.EffectiveBaseSalary(rates)
			assert.True(t, fellBack)
			assert.True(t, rate.Equal(decimal.NewFromInt(tt.want)), "got %s", rate)
		})
	}
}

func TestRole_Policy(t *testing.T) {
	p, err := domain.RoleSupervisor.Policy()
	require.NoError(t, err)
	assert.False(t, p.HandlesCash)

	p, err = domain.RoleSupervisorTeller.Policy()
	require.NoError(t, err)
	assert.True(t, p.HandlesCash)
	assert.True(t, p.IssuesCapital)

	_, err = domain.Role("cashier").Policy()
	assert.Error(t, err)
}

func TestTellerReport_OverShort(t *testing.T) {
	r := domain.TellerReport{SystemBalance: decimal.NewFromInt(1000), CashCount: decimal.NewFromInt(1373)}
	assert.True(t, r.Over().Equal(decimal.NewFromInt(373)))
	assert.True(t, r.Short().IsZero())

	r.CashCount = decimal.NewFromInt(300)
	assert.True(t, r.Over().IsZero())
	assert.True(t, r.Short().Equal(decimal.NewFromInt(700)))
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), domain.WeekStart(sunday))

	monday := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), domain.WeekStart(monday))
}
