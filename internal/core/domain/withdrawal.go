package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus indicates the state of a cash-out request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// Withdrawal is a request to cash out one or more payroll records.
type Withdrawal struct {
	WithdrawalID string           `json:"withdrawalID"`
	UserID       string           `json:"userID"`
	PayrollIDs   []string         `json:"payrollIDs"`
	Amount       decimal.Decimal  `json:"amount"` // Sum of computed totals at request time
	Status       WithdrawalStatus `json:"status"`
	Reason       string           `json:"reason,omitempty"`
	AuditFields
}

// EventType names the advisory notifications emitted after mutations.
type EventType string

const (
	EventPayrollUpdated          EventType = "payrollUpdated"
	EventTellerManagementUpdated EventType = "tellerManagementUpdated"
	EventSupervisorReportUpdated EventType = "supervisorReportUpdated"
)

// Event is a best-effort UI refresh hint.
type Event struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"userID"`
	EntityID   string    `json:"entityID,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
