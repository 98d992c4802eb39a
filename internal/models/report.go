package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TellerReport is a row of teller_reports.
type TellerReport struct {
	ReportID          string          `db:"report_id"`
	TellerID          string          `db:"teller_id"`
	ReportDate        time.Time       `db:"report_date"`
	SystemBalance     decimal.Decimal `db:"system_balance"`
	CashCount         decimal.Decimal `db:"cash_count"`
	ShortPaymentTerms int             `db:"short_payment_terms"`
	CreatedAt         time.Time       `db:"created_at"`
}
