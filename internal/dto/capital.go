package dto

import (
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IssueCapitalRequest defines the data needed to hand starting capital to a teller.
type IssueCapitalRequest struct {
	TellerID     string          `json:"tellerID" validate:"required"`
	SupervisorID string          `json:"supervisorID" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Notes        string          `json:"notes" validate:"max=500"`
}

// CapitalMovementRequest defines an additional-capital or remittance movement.
type CapitalMovementRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Notes  string          `json:"notes" validate:"max=500"`
}

// AdjustCapitalRequest defines a signed manual correction of a teller's balance.
type AdjustCapitalRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"ne=0"`
	Notes  string          `json:"notes" validate:"required,max=500"` // Corrections must say why
}

// CloseCapitalRequest ends a teller's active capital record.
type CloseCapitalRequest struct {
	Status domain.CapitalStatus `json:"status" validate:"required,oneof=COMPLETED CLOSED"`
	Notes  string               `json:"notes" validate:"max=500"`
}

// CapitalResponse defines the data returned for a capital record.
type CapitalResponse struct {
	CapitalID        string               `json:"capitalID"`
	TellerID         string               `json:"tellerID"`
	SupervisorID     *string              `json:"supervisorID,omitempty"`
	Amount           decimal.Decimal      `json:"amount"`
	TotalAdditional  decimal.Decimal      `json:"totalAdditional"`
	TotalRemitted    decimal.Decimal      `json:"totalRemitted"`
	BalanceRemaining decimal.Decimal      `json:"balanceRemaining"`
	Status           domain.CapitalStatus `json:"status"`
	CreatedAt        time.Time            `json:"createdAt"`
	ClosedAt         *time.Time           `json:"closedAt,omitempty"`
}

// ToCapitalResponse converts a domain.CapitalRecord to CapitalResponse DTO.
func ToCapitalResponse(c *domain.CapitalRecord) CapitalResponse {
	return CapitalResponse{
		CapitalID:        c.CapitalID,
		TellerID:         c.TellerID,
		SupervisorID:     c.SupervisorID,
		Amount:           c.Amount,
		TotalAdditional:  c.TotalAdditional,
		TotalRemitted:    c.TotalRemitted,
		BalanceRemaining: c.BalanceRemaining(),
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		ClosedAt:         c.ClosedAt,
	}
}

// CapitalMovementResponse combines the updated record and the ledger entry it produced.
type CapitalMovementResponse struct {
	Capital     CapitalResponse           `json:"capital"`
	Transaction domain.CapitalTransaction `json:"transaction"`
}

// ListCapitalTransactionsParams defines query parameters for listing a teller's capital ledger.
type ListCapitalTransactionsParams struct {
	CapitalID string  `json:"capitalID"` // Empty lists across all of the teller's records
	Limit     int     `json:"limit"`
	NextToken *string `json:"nextToken"`
}

// ListCapitalTransactionsResponse wraps one page of ledger entries, newest first.
type ListCapitalTransactionsResponse struct {
	Transactions []domain.CapitalTransaction `json:"transactions"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}
