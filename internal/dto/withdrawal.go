package dto

import (
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
)

// RequestWithdrawalRequest asks to cash out approved payroll records.
type RequestWithdrawalRequest struct {
	UserID     string   `json:"userID" validate:"required"`
	PayrollIDs []string `json:"payrollIDs" validate:"required,min=1,unique,dive,required"`
	Reason     string   `json:"reason" validate:"max=500"`
}

// RejectWithdrawalRequest carries the reason shown to the requester.
type RejectWithdrawalRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListWithdrawalsParams filters withdrawals.
type ListWithdrawalsParams struct {
	UserID string                   `json:"userID"`
	Status *domain.WithdrawalStatus `json:"status"`
}
