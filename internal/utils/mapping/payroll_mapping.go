package mapping

import (
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/models"
)

// ToModelPayrollRecord converts a domain PayrollRecord to a model PayrollRecord.
// Adjustments are stored separately.
func ToModelPayrollRecord(d domain.PayrollRecord) models.PayrollRecord {
	return models.PayrollRecord{
		PayrollID:         d.PayrollID,
		UserID:            d.UserID,
		PayrollDate:       d.PayrollDate,
		Period:            string(d.Period),
		BaseSalary:        d.BaseSalary,
		Over:              d.Over,
		Short:             d.Short.Amount,
		ShortKind:         string(d.Short.Kind),
		ShortPaymentTerms: d.Short.PaymentTerms,
		Deduction:         d.Deduction,
		Withdrawal:        d.Withdrawal,
		DaysPresent:       d.DaysPresent,
		HandlesCash:       d.HandlesCash,
		Approved:          d.Approved,
		Locked:            d.Locked,
		Withdrawn:         d.Withdrawn,
		Source:            string(d.Source),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollRecord converts a model PayrollRecord to a domain PayrollRecord
func ToDomainPayrollRecord(m models.PayrollRecord) domain.PayrollRecord {
	return domain.PayrollRecord{
		PayrollID:   m.PayrollID,
		UserID:      m.UserID,
		PayrollDate: m.PayrollDate,
		Period:      domain.PayPeriod(m.Period),
		BaseSalary:  m.BaseSalary,
		Over:        m.Over,
		Short: domain.ShortDeduction{
			Amount:       m.Short,
			Kind:         domain.ShortKind(m.ShortKind),
			PaymentTerms: m.ShortPaymentTerms,
		},
		Deduction:   m.Deduction,
		Withdrawal:  m.Withdrawal,
		DaysPresent: m.DaysPresent,
		HandlesCash: m.HandlesCash,
		Approved:    m.Approved,
		Locked:      m.Locked,
		Withdrawn:   m.Withdrawn,
		Source:      domain.PayrollSource(m.Source),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayrollRecordSlice converts a slice of model PayrollRecords to domain PayrollRecords
func ToDomainPayrollRecordSlice(ms []models.PayrollRecord) []domain.PayrollRecord {
	ds := make([]domain.PayrollRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayrollRecord(m)
	}
	return ds
}

// ToModelPayrollAdjustment converts a domain PayrollAdjustment to a model PayrollAdjustment
func ToModelPayrollAdjustment(d domain.PayrollAdjustment) models.PayrollAdjustment {
	return models.PayrollAdjustment{
		AdjustmentID: d.AdjustmentID,
		PayrollID:    d.PayrollID,
		Field:        string(d.Field),
		Delta:        d.Delta,
		Reason:       d.Reason,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainPayrollAdjustment converts a model PayrollAdjustment to a domain PayrollAdjustment
func ToDomainPayrollAdjustment(m models.PayrollAdjustment) domain.PayrollAdjustment {
	return domain.PayrollAdjustment{
		AdjustmentID: m.AdjustmentID,
		PayrollID:    m.PayrollID,
		Field:        domain.PayrollField(m.Field),
		Delta:        m.Delta,
		Reason:       m.Reason,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}
