package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CapitalStatus indicates the lifecycle state of a capital record.
type CapitalStatus string

const (
	CapitalActive    CapitalStatus = "ACTIVE"
	CapitalCompleted CapitalStatus = "COMPLETED"
	CapitalClosed    CapitalStatus = "CLOSED"
)

// CapitalRecord is the working cash float issued to a teller for a working period.
// Amount never changes after issue; BalanceRemaining is always derived.
type CapitalRecord struct {
	CapitalID       string          `json:"capitalID"`
	TellerID        string          `json:"tellerID"`
	SupervisorID    *string         `json:"supervisorID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TotalAdditional decimal.Decimal `json:"totalAdditional"`
	TotalRemitted   decimal.Decimal `json:"totalRemitted"`
	Status          CapitalStatus   `json:"status"`
	ClosedAt        *time.Time      `json:"closedAt,omitempty"`
	AuditFields
}

// BalanceRemaining is (amount + totalAdditional) - totalRemitted.
func (c CapitalRecord) BalanceRemaining() decimal.Decimal {
	return c.Amount.Add(c.TotalAdditional).Sub(c.TotalRemitted)
}

// IsActive reports whether the record still accepts movements.
func (c CapitalRecord) IsActive() bool {
	return c.Status == CapitalActive
}

// CapitalTransactionType indicates the kind of capital movement.
type CapitalTransactionType string

const (
	CapitalTxnStarting   CapitalTransactionType = "STARTING"
	CapitalTxnAdditional CapitalTransactionType = "ADDITIONAL"
	CapitalTxnRemittance CapitalTransactionType = "REMITTANCE"
	CapitalTxnAdjustment CapitalTransactionType = "ADJUSTMENT"
	CapitalTxnClosing    CapitalTransactionType = "CLOSING"
	CapitalTxnCapital    CapitalTransactionType = "CAPITAL"
)

// CapitalTransaction is an immutable ledger entry recording one capital movement.
type CapitalTransaction struct {
	TransactionID string                 `json:"transactionID"`
	CapitalID     string                 `json:"capitalID"`
	TellerID      string                 `json:"tellerID"`
	SupervisorID  *string                `json:"supervisorID,omitempty"`
	Type          CapitalTransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"` // Positive except for ADJUSTMENT, which is signed
	BalanceBefore decimal.Decimal        `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal        `json:"balanceAfter"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
}
