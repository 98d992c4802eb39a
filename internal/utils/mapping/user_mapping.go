package mapping

import (
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Name:         d.Name,
		Role:         string(d.Role),
		SupervisorID: d.SupervisorID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.BaseSalary != nil {
		m.BaseSalary = decimal.NullDecimal{Decimal: *d.BaseSalary, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Role:         domain.Role(m.Role),
		SupervisorID: m.SupervisorID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.BaseSalary.Valid {
		base := m.BaseSalary.Decimal
		d.BaseSalary = &base
	}
	return d
}
