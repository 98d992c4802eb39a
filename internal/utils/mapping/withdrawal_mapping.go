package mapping

import (
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/models"
)

// ToModelWithdrawal converts a domain Withdrawal to a model Withdrawal
func ToModelWithdrawal(d domain.Withdrawal) models.Withdrawal {
	m := models.Withdrawal{
		WithdrawalID: d.WithdrawalID,
		UserID:       d.UserID,
		Amount:       d.Amount,
		Status:       string(d.Status),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.Reason != "" {
		reason := d.Reason
		m.Reason = &reason
	}
	return m
}

// ToDomainWithdrawal converts a model Withdrawal and its linked payroll IDs to a domain Withdrawal
func ToDomainWithdrawal(m models.Withdrawal, payrollIDs []string) domain.Withdrawal {
	d := domain.Withdrawal{
		WithdrawalID: m.WithdrawalID,
		UserID:       m.UserID,
		PayrollIDs:   payrollIDs,
		Amount:       m.Amount,
		Status:       domain.WithdrawalStatus(m.Status),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.Reason != nil {
		d.Reason = *m.Reason
	}
	return d
}
