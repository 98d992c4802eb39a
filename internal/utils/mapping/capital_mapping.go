package mapping

import (
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/models"
)

// ToModelCapitalRecord converts a domain CapitalRecord to a model CapitalRecord
func ToModelCapitalRecord(d domain.CapitalRecord) models.CapitalRecord {
	return models.CapitalRecord{
		CapitalID:        d.CapitalID,
		TellerID:         d.TellerID,
		SupervisorID:     d.SupervisorID,
		Amount:           d.Amount,
		TotalAdditional:  d.TotalAdditional,
		TotalRemitted:    d.TotalRemitted,
		BalanceRemaining: d.BalanceRemaining(),
		Status:           string(d.Status),
		ClosedAt:         d.ClosedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCapitalRecord converts a model CapitalRecord to a domain CapitalRecord.
// The stored balance is not copied; the domain type always derives it.
func ToDomainCapitalRecord(m models.CapitalRecord) domain.CapitalRecord {
	return domain.CapitalRecord{
		CapitalID:       m.CapitalID,
		TellerID:        m.TellerID,
		SupervisorID:    m.SupervisorID,
		Amount:          m.Amount,
		TotalAdditional: m.TotalAdditional,
		TotalRemitted:   m.TotalRemitted,
		Status:          domain.CapitalStatus(m.Status),
		ClosedAt:        m.ClosedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCapitalRecordSlice converts a slice of model CapitalRecords to domain CapitalRecords
func ToDomainCapitalRecordSlice(ms []models.CapitalRecord) []domain.CapitalRecord {
	ds := make([]domain.CapitalRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCapitalRecord(m)
	}
	return ds
}

// ToModelCapitalTransaction converts a domain CapitalTransaction to a model CapitalTransaction
func ToModelCapitalTransaction(d domain.CapitalTransaction) models.CapitalTransaction {
	m := models.CapitalTransaction{
		TransactionID: d.TransactionID,
		CapitalID:     d.CapitalID,
		TellerID:      d.TellerID,
		SupervisorID:  d.SupervisorID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		BalanceBefore: d.BalanceBefore,
		BalanceAfter:  d.BalanceAfter,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
	if d.Notes != "" {
		notes := d.Notes
		m.Notes = &notes
	}
	return m
}

// ToDomainCapitalTransaction converts a model CapitalTransaction to a domain CapitalTransaction
func ToDomainCapitalTransaction(m models.CapitalTransaction) domain.CapitalTransaction {
	d := domain.CapitalTransaction{
		TransactionID: m.TransactionID,
		CapitalID:     m.CapitalID,
		TellerID:      m.TellerID,
		SupervisorID:  m.SupervisorID,
		Type:          domain.CapitalTransactionType(m.Type),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
	if m.Notes != nil {
		d.Notes = *m.Notes
	}
	return d
}

// ToDomainCapitalTransactionSlice converts a slice of model CapitalTransactions to domain CapitalTransactions
func ToDomainCapitalTransactionSlice(ms []models.CapitalTransaction) []domain.CapitalTransaction {
	ds := make([]domain.CapitalTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCapitalTransaction(m)
	}
	return ds
}
