package mapping

import (
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/models"
)

// ToDomainTellerReport converts a model TellerReport to a domain TellerReport
func ToDomainTellerReport(m models.TellerReport) domain.TellerReport {
	return domain.TellerReport{
		ReportID:          m.ReportID,
		TellerID:          m.TellerID,
		ReportDate:        m.ReportDate,
		SystemBalance:     m.SystemBalance,
		CashCount:         m.CashCount,
		ShortPaymentTerms: m.ShortPaymentTerms,
		CreatedAt:         m.CreatedAt,
	}
}

// ToDomainTellerReportSlice converts a slice of model TellerReports to domain TellerReports
func ToDomainTellerReportSlice(ms []models.TellerReport) []domain.TellerReport {
	ds := make([]domain.TellerReport, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTellerReport(m)
	}
	return ds
}
