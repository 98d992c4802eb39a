package accounting

import (
	"fmt"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedCapitalAmount applies the sign a capital movement has on the teller's balance.
// STARTING, ADDITIONAL and CAPITAL add; REMITTANCE subtracts; ADJUSTMENT is taken as given;
// CLOSING only marks the end of the record and moves nothing.
func SignedCapitalAmount(txnType domain.CapitalTransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch txnType {
	case domain.CapitalTxnStarting, domain.CapitalTxnAdditional, domain.CapitalTxnCapital:
		return amount, nil
	case domain.CapitalTxnRemittance:
		return amount.Neg(), nil
	case domain.CapitalTxnAdjustment:
		return amount, nil
	case domain.CapitalTxnClosing:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown capital transaction type '%s'", apperrors.ErrValidation, txnType)
	}
}

// ApplyCapitalMovement updates the running totals of a capital record for one movement
// and returns the ledger entry describing it. The record's balance before and after
// are derived from its fields, so the entry always satisfies after = before + signed amount.
func ApplyCapitalMovement(record *domain.CapitalRecord, txnType domain.CapitalTransactionType, amount decimal.Decimal) (domain.CapitalTransaction, error) {
	if txnType != domain.CapitalTxnAdjustment && amount.IsNegative() {
		return domain.CapitalTransaction{}, fmt.Errorf("%w: %s amount must not be negative", apperrors.ErrValidation, txnType)
	}
	signed, err := SignedCapitalAmount(txnType, amount)
	if err != nil {
		return domain.CapitalTransaction{}, err
	}

	before := record.BalanceRemaining()
	switch txnType {
	case domain.CapitalTxnAdditional, domain.CapitalTxnCapital:
		record.TotalAdditional = record.TotalAdditional.Add(amount)
	case domain.CapitalTxnRemittance:
		record.TotalRemitted = record.TotalRemitted.Add(amount)
	case domain.CapitalTxnAdjustment:
		// Positive adjustments top up, negative ones count as returned cash.
		if signed.IsNegative() {
			record.TotalRemitted = record.TotalRemitted.Add(signed.Neg())
		} else {
			record.TotalAdditional = record.TotalAdditional.Add(signed)
		}
	case domain.CapitalTxnStarting:
		// The starting amount is the record's own Amount; before is zero by definition.
		before = decimal.Zero
	}
	after := before.Add(signed)
	if txnType != domain.CapitalTxnStarting && !after.Equal(record.BalanceRemaining()) {
		return domain.CapitalTransaction{}, fmt.Errorf("%w: capital %s balance %s does not match ledger %s",
			apperrors.ErrDataIntegrity, record.CapitalID, record.BalanceRemaining(), after)
	}

	return domain.CapitalTransaction{
		CapitalID:     record.CapitalID,
		TellerID:      record.TellerID,
		SupervisorID:  record.SupervisorID,
		Type:          txnType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
	}, nil
}
