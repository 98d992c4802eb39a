package domain

import (
	"fmt"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Role is the closed set of staff roles known to payroll.
type Role string

const (
	RoleTeller           Role = "teller"
	RoleSupervisor       Role = "supervisor"
	RoleSupervisorTeller Role = "supervisor_teller"
	RoleAdmin            Role = "admin"
	RoleSuperAdmin       Role = "super_admin"
	RoleDeclarator       Role = "declarator"
	RoleHeadWatcher      Role = "head_watcher"
	RoleSubWatcher       Role = "sub_watcher"
)

// RolePolicy captures the payroll-relevant behaviour attached to a role.
type RolePolicy struct {
	// HandlesCash is true for roles that work a cash drawer and therefore carry over/short.
	HandlesCash bool
	// IssuesCapital is true for roles allowed to hand out starting capital.
	IssuesCapital bool
}

var rolePolicies = map[Role]RolePolicy{
	RoleTeller:           {HandlesCash: true},
	RoleSupervisor:       {IssuesCapital: true},
	RoleSupervisorTeller: {HandlesCash: true, IssuesCapital: true},
	RoleAdmin:            {IssuesCapital: true},
	RoleSuperAdmin:       {IssuesCapital: true},
	RoleDeclarator:       {},
	RoleHeadWatcher:      {},
	RoleSubWatcher:       {},
}

// Policy returns the payroll policy for the role.
func (r Role) Policy() (RolePolicy, error) {
	p, ok := rolePolicies[r]
	if !ok {
		return RolePolicy{}, fmt.Errorf("%w: unknown role '%s'", apperrors.ErrValidation, r)
	}
	return p, nil
}

// Valid reports whether the role is part of the closed set.
func (r Role) Valid() bool {
	_, ok := rolePolicies[r]
	return ok
}

// SalaryRates maps every role to its default daily rate.
type SalaryRates map[Role]decimal.Decimal

// DefaultSalaryRates returns the built-in daily rate table.
func DefaultSalaryRates() SalaryRates {
	return SalaryRates{
		RoleTeller:           decimal.NewFromInt(450),
		RoleSupervisor:       decimal.NewFromInt(600),
		RoleSupervisorTeller: decimal.NewFromInt(600),
		RoleAdmin:            decimal.Zero,
		RoleSuperAdmin:       decimal.Zero,
		RoleHeadWatcher:      decimal.NewFromInt(450),
		RoleSubWatcher:       decimal.NewFromInt(400),
		RoleDeclarator:       decimal.NewFromInt(450),
	}
}

// RateFor returns the configured daily rate for a role, zero for unknown roles.
func (r SalaryRates) RateFor(role Role) decimal.Decimal {
	if rate, ok := r[role]; ok {
		return rate
	}
	return decimal.Zero
}

// TellerRate is the daily rate a supervisor_teller earns on days they work a drawer.
func (r SalaryRates) TellerRate() decimal.Decimal {
	return r.RateFor(RoleTeller)
}

// User represents a staff member as seen by payroll.
type User struct {
	UserID       string           `json:"userID"`
	Name         string           `json:"name"`
	Role         Role             `json:"role"`
	BaseSalary   *decimal.Decimal `json:"baseSalary,omitempty"` // Daily rate; nil when never set
	SupervisorID *string          `json:"supervisorID,omitempty"`
	AuditFields
}

// EffectiveBaseSalary returns the user's daily rate. The second return value is true
// when the rate came from the role default table because BaseSalary was missing.
func (u User) EffectiveBaseSalary(rates SalaryRates) (decimal.Decimal, bool) {
	if u.BaseSalary != nil {
		return *u.BaseSalary, false
	}
	return rates.RateFor(u.Role), true
}
