package models

import (
	"github.com/shopspring/decimal"
)

// Withdrawal is a row of withdrawals; payroll links live in withdrawal_payrolls.
type Withdrawal struct {
	WithdrawalID string          `db:"withdrawal_id"`
	UserID       string          `db:"user_id"`
	Amount       decimal.Decimal `db:"amount"`
	Status       string          `db:"status"`
	Reason       *string         `db:"reason"`
	AuditFields
}
