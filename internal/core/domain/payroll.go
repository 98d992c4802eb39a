package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PayPeriod selects how an outstanding short is charged against a payroll.
type PayPeriod string

const (
	PeriodWeekly  PayPeriod = "WEEKLY"
	PeriodMonthly PayPeriod = "MONTHLY"
)

// ParsePayPeriod parses a period name case-insensitively.
func ParsePayPeriod(s string) (PayPeriod, error) {
	switch PayPeriod(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodWeekly:
		return PeriodWeekly, nil
	case PeriodMonthly:
		return PeriodMonthly, nil
	}
	return "", fmt.Errorf("%w: unknown pay period '%s'", apperrors.ErrValidation, s)
}

// ShortKind states what a stored short amount represents.
type ShortKind string

const (
	// ShortOutstanding is the full short still owed; installments are derived at read time.
	ShortOutstanding ShortKind = "OUTSTANDING"
	// ShortInstallment is an amount already divided into a per-period installment.
	ShortInstallment ShortKind = "INSTALLMENT"
)

// ParseShortKind parses a short kind case-insensitively.
func ParseShortKind(s string) (ShortKind, error) {
	switch ShortKind(strings.ToUpper(strings.TrimSpace(s))) {
	case ShortOutstanding:
		return ShortOutstanding, nil
	case ShortInstallment:
		return ShortInstallment, nil
	}
	return "", fmt.Errorf("%w: unknown short kind '%s'", apperrors.ErrValidation, s)
}

// ShortDeduction is a short amount together with its interpretation.
type ShortDeduction struct {
	Amount       decimal.Decimal `json:"amount"`
	Kind         ShortKind       `json:"kind"`
	PaymentTerms int             `json:"paymentTerms"` // Only meaningful for ShortOutstanding
}

// SalaryComponents is the full input of the salary calculation.
type SalaryComponents struct {
	BaseSalary         decimal.Decimal
	Over               decimal.Decimal
	Short              decimal.Decimal
	Deduction          decimal.Decimal
	Withdrawal         decimal.Decimal
	ShortPaymentTerms  int
	ShortIsInstallment bool
	Period             PayPeriod
	// HandlesCash is false for supervisor-only payroll; over and short are then ignored.
	HandlesCash bool
}

// PayrollSource records which writer created a payroll row.
type PayrollSource string

const (
	// SourceReportSync rows are rebuilt from the day's cash-count reports.
	SourceReportSync PayrollSource = "REPORT_SYNC"
	// SourceLegacyImport rows carry imported amounts that no report backs.
	SourceLegacyImport PayrollSource = "LEGACY_IMPORT"
)

// PayrollField names an adjustable money component of a payroll record.
type PayrollField string

const (
	FieldBaseSalary PayrollField = "BASE_SALARY"
	FieldOver       PayrollField = "OVER"
	FieldShort      PayrollField = "SHORT"
	FieldDeduction  PayrollField = "DEDUCTION"
	FieldWithdrawal PayrollField = "WITHDRAWAL"
)

// PayrollAdjustment is one entry in a payroll's manual adjustment audit log.
type PayrollAdjustment struct {
	AdjustmentID string          `json:"adjustmentID"`
	PayrollID    string          `json:"payrollID"`
	Field        PayrollField    `json:"field"`
	Delta        decimal.Decimal `json:"delta"`
	Reason       string          `json:"reason"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// PayrollRecord is one pay entry per user per payroll date.
// The total salary is not a field: it is always computed from the components.
type PayrollRecord struct {
	PayrollID   string              `json:"payrollID"`
	UserID      string              `json:"userID"`
	PayrollDate time.Time           `json:"payrollDate"`
	Period      PayPeriod           `json:"period"`
	BaseSalary  decimal.Decimal     `json:"baseSalary"`
	Over        decimal.Decimal     `json:"over"`
	Short       ShortDeduction      `json:"short"`
	Deduction   decimal.Decimal     `json:"deduction"`
	Withdrawal  decimal.Decimal     `json:"withdrawal"`
	DaysPresent int                 `json:"daysPresent"`
	HandlesCash bool                `json:"handlesCash"`
	Approved    bool                `json:"approved"`
	Locked      bool                `json:"locked"`
	Withdrawn   bool                `json:"withdrawn"`
	Source      PayrollSource       `json:"source"`
	Adjustments []PayrollAdjustment `json:"adjustments,omitempty"`
	AuditFields
}

// Components returns the salary calculation input for this record.
func (p PayrollRecord) Components() SalaryComponents {
	return SalaryComponents{
		BaseSalary:         p.BaseSalary,
		Over:               p.Over,
		Short:              p.Short.Amount,
		Deduction:          p.Deduction,
		Withdrawal:         p.Withdrawal,
		ShortPaymentTerms:  p.Short.PaymentTerms,
		ShortIsInstallment: p.Short.Kind == ShortInstallment,
		Period:             p.Period,
		HandlesCash:        p.HandlesCash,
	}
}

// FieldValue returns the current value of an adjustable component.
func (p PayrollRecord) FieldValue(field PayrollField) (decimal.Decimal, error) {
	switch field {
	case FieldBaseSalary:
		return p.BaseSalary, nil
	case FieldOver:
		return p.Over, nil
	case FieldShort:
		return p.Short.Amount, nil
	case FieldDeduction:
		return p.Deduction, nil
	case FieldWithdrawal:
		return p.Withdrawal, nil
	}
	return decimal.Zero, fmt.Errorf("%w: unknown payroll field '%s'", apperrors.ErrValidation, field)
}

// ApplyDelta adds delta to one component. The resulting value may not be negative.
func (p *PayrollRecord) ApplyDelta(field PayrollField, delta decimal.Decimal) error {
	current, err := p.FieldValue(field)
	if err != nil {
		return err
	}
	next := current.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: adjusting %s by %s would make it negative (%s)", apperrors.ErrValidation, field, delta, next)
	}
	switch field {
	case FieldBaseSalary:
		p.BaseSalary = next
	case FieldOver:
		p.Over = next
	case FieldShort:
		p.Short.Amount = next
	case FieldDeduction:
		p.Deduction = next
	case FieldWithdrawal:
		p.Withdrawal = next
	}
	return nil
}

// EnsureMutable rejects direct changes to locked or withdrawn records.
func (p PayrollRecord) EnsureMutable() error {
	if p.Locked {
		return fmt.Errorf("%w: payroll %s is locked and must be unlocked first", apperrors.ErrInvalidState, p.PayrollID)
	}
	if p.Withdrawn {
		return fmt.Errorf("%w: payroll %s has already been withdrawn", apperrors.ErrInvalidState, p.PayrollID)
	}
	return nil
}

// Approve moves an unapproved record to approved.
func (p *PayrollRecord) Approve() error {
	if p.Approved {
		return fmt.Errorf("%w: payroll %s is already approved", apperrors.ErrInvalidState, p.PayrollID)
	}
	p.Approved = true
	return nil
}

// Disapprove moves an approved, unlocked, not-withdrawn record back to unapproved.
func (p *PayrollRecord) Disapprove() error {
	if err := p.EnsureMutable(); err != nil {
		return fmt.Errorf("cannot disapprove: %w", err)
	}
	if !p.Approved {
		return fmt.Errorf("%w: cannot disapprove: payroll %s is not approved", apperrors.ErrInvalidState, p.PayrollID)
	}
	p.Approved = false
	return nil
}

// Lock freezes an approved record.
func (p *PayrollRecord) Lock() error {
	if !p.Approved {
		return fmt.Errorf("%w: cannot lock: payroll %s is not approved", apperrors.ErrInvalidState, p.PayrollID)
	}
	if p.Locked {
		return fmt.Errorf("%w: payroll %s is already locked", apperrors.ErrInvalidState, p.PayrollID)
	}
	p.Locked = true
	return nil
}

// Unlock is the explicit transition required before a locked record can change again.
// Withdrawn records stay locked.
func (p *PayrollRecord) Unlock() error {
	if !p.Locked {
		return fmt.Errorf("%w: cannot unlock: payroll %s is not locked", apperrors.ErrInvalidState, p.PayrollID)
	}
	if p.Withdrawn {
		return fmt.Errorf("%w: cannot unlock: payroll %s has already been withdrawn", apperrors.ErrInvalidState, p.PayrollID)
	}
	p.Locked = false
	return nil
}

// MarkWithdrawn sets the withdrawn flag; only approved, not yet withdrawn records qualify.
func (p *PayrollRecord) MarkWithdrawn() error {
	if !p.Approved {
		return fmt.Errorf("%w: cannot withdraw: payroll %s is not approved", apperrors.ErrInvalidState, p.PayrollID)
	}
	if p.Withdrawn {
		return fmt.Errorf("%w: cannot withdraw: payroll %s has already been withdrawn", apperrors.ErrInvalidState, p.PayrollID)
	}
	p.Withdrawn = true
	return nil
}

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := DayOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
