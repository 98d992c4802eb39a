package dto_test

import (
	"testing"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidate_CapitalRequests(t *testing.T) {
	valid := dto.IssueCapitalRequest{TellerID: "t1", SupervisorID: "s1", Amount: decimal.NewFromInt(10000)}
	assert.NoError(t, dto.Validate(valid))

	zero := valid
	zero.Amount = decimal.Zero
	err := dto.Validate(zero)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "Amount")

	missing := valid
	missing.TellerID = ""
	assert.ErrorIs(t, dto.Validate(missing), apperrors.ErrValidation)

	assert.ErrorIs(t, dto.Validate(dto.CapitalMovementRequest{Amount: decimal.NewFromInt(-5)}), apperrors.ErrValidation)
	assert.NoError(t, dto.Validate(dto.CapitalMovementRequest{Amount: decimal.RequireFromString("0.01")}))

	assert.NoError(t, dto.Validate(dto.AdjustCapitalRequest{Amount: decimal.NewFromInt(-5), Notes: "miscount"}))
	assert.ErrorIs(t, dto.Validate(dto.AdjustCapitalRequest{Amount: decimal.NewFromInt(-5)}), apperrors.ErrValidation)
}

func TestValidate_PayrollRequests(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.AdjustPayrollRequest{Field: "OVER", Delta: decimal.NewFromInt(-10), Reason: "recount"}))
	assert.ErrorIs(t, dto.Validate(dto.AdjustPayrollRequest{Field: "BONUS", Delta: decimal.NewFromInt(1), Reason: "x"}), apperrors.ErrValidation)
	assert.ErrorIs(t, dto.Validate(dto.AdjustPayrollRequest{Field: "OVER", Delta: decimal.Zero, Reason: "x"}), apperrors.ErrValidation)

	assert.NoError(t, dto.Validate(dto.RequestWithdrawalRequest{UserID: "u1", PayrollIDs: []string{"p1", "p2"}}))
	assert.ErrorIs(t, dto.Validate(dto.RequestWithdrawalRequest{UserID: "u1"}), apperrors.ErrValidation)
	assert.ErrorIs(t, dto.Validate(dto.RequestWithdrawalRequest{UserID: "u1", PayrollIDs: []string{"p1", "p1"}}), apperrors.ErrValidation)
}

func TestValidate_ImportOptionsRequireShortKind(t *testing.T) {
	opts := dto.ImportLegacyOptions{Period: "WEEKLY", Grouping: dto.GroupByDay, ActorID: "migration"}
	err := dto.Validate(opts)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "ShortKind")

	opts.ShortKind = "INSTALLMENT"
	assert.NoError(t, dto.Validate(opts))
}

func TestValidate_MoneyScale(t *testing.T) {
	tooFine := dto.CapitalMovementRequest{Amount: decimal.RequireFromString("0.004")}
	err := dto.Validate(tooFine)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "Amount")

	assert.ErrorIs(t, dto.Validate(dto.AdjustPayrollRequest{Field: "OVER", Delta: decimal.RequireFromString("10.125"), Reason: "x"}), apperrors.ErrValidation)
	assert.ErrorIs(t, dto.Validate(dto.IssueCapitalRequest{TellerID: "t1", SupervisorID: "s1", Amount: decimal.RequireFromString("100.001")}), apperrors.ErrValidation)

	// Trailing zeros are not extra precision.
	assert.NoError(t, dto.Validate(dto.CapitalMovementRequest{Amount: decimal.RequireFromString("12.500")}))
	assert.NoError(t, dto.Validate(dto.AdjustCapitalRequest{Amount: decimal.RequireFromString("-0.05"), Notes: "coins"}))
}
