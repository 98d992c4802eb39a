package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is a row of payroll_records. There is no total column.
type PayrollRecord struct {
	PayrollID         string          `db:"payroll_id"`
	UserID            string          `db:"user_id"`
	PayrollDate       time.Time       `db:"payroll_date"`
	Period            string          `db:"period"`
	BaseSalary        decimal.Decimal `db:"base_salary"`
	Over              decimal.Decimal `db:"over_amount"`
	Short             decimal.Decimal `db:"short_amount"`
	ShortKind         string          `db:"short_kind"`
	ShortPaymentTerms int             `db:"short_payment_terms"`
	Deduction         decimal.Decimal `db:"deduction"`
	Withdrawal        decimal.Decimal `db:"withdrawal"`
	DaysPresent       int             `db:"days_present"`
	HandlesCash       bool            `db:"handles_cash"`
	Approved          bool            `db:"approved"`
	Locked            bool            `db:"locked"`
	Withdrawn         bool            `db:"withdrawn"`
	Source            string          `db:"source"`
	AuditFields
}

// PayrollAdjustment is a row of payroll_adjustments.
type PayrollAdjustment struct {
	AdjustmentID string          `db:"adjustment_id"`
	PayrollID    string          `db:"payroll_id"`
	Field        string          `db:"field"`
	Delta        decimal.Decimal `db:"delta"`
	Reason       string          `db:"reason"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
