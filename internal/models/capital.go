package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CapitalRecord is a row of capital_records. balance_remaining is a generated column.
type CapitalRecord struct {
	CapitalID        string          `db:"capital_id"`
	TellerID         string          `db:"teller_id"`
	SupervisorID     *string         `db:"supervisor_id"`
	Amount           decimal.Decimal `db:"amount"`
	TotalAdditional  decimal.Decimal `db:"total_additional"`
	TotalRemitted    decimal.Decimal `db:"total_remitted"`
	BalanceRemaining decimal.Decimal `db:"balance_remaining"`
	Status           string          `db:"status"`
	ClosedAt         *time.Time      `db:"closed_at"`
	AuditFields
}

// CapitalTransaction is a row of the append-only capital_transactions ledger.
type CapitalTransaction struct {
	TransactionID string          `db:"transaction_id"`
	CapitalID     string          `db:"capital_id"`
	TellerID      string          `db:"teller_id"`
	SupervisorID  *string         `db:"supervisor_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Notes         *string         `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
