package models

import (
	"github.com/shopspring/decimal"
)

// User is a row of the users table as payroll reads it.
// Identity and credentials live with the account service.
type User struct {
	UserID       string              `db:"user_id"`
	Name         string              `db:"name"`
	Role         string              `db:"role"`
	BaseSalary   decimal.NullDecimal `db:"base_salary"` // NULL when never set
	SupervisorID *string             `db:"supervisor_id"`
	AuditFields
}
