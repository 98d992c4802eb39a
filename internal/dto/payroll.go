package dto

import (
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// AdjustPayrollRequest applies a manual delta to one payroll component.
type AdjustPayrollRequest struct {
	Field  domain.PayrollField `json:"field" validate:"required,oneof=BASE_SALARY OVER SHORT DEDUCTION WITHDRAWAL"`
	Delta  decimal.Decimal     `json:"delta" validate:"ne=0"`
	Reason string              `json:"reason" validate:"required,max=500"`
}

// ListPayrollsParams defines filters for listing payroll records.
type ListPayrollsParams struct {
	UserID    string     `json:"userID"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"` // Inclusive
	Approved  *bool      `json:"approved"`
	Limit     int        `json:"limit"`
	NextToken *string    `json:"nextToken"`
}

// PayrollResponse defines the data returned for a payroll record, including its derived total.
type PayrollResponse struct {
	PayrollID     string                     `json:"payrollID"`
	UserID        string                     `json:"userID"`
	PayrollDate   time.Time                  `json:"payrollDate"`
	Period        domain.PayPeriod           `json:"period"`
	BaseSalary    decimal.Decimal            `json:"baseSalary"`
	Over          decimal.Decimal            `json:"over"`
	Short         domain.ShortDeduction      `json:"short"`
	ShortCharged  decimal.Decimal            `json:"shortCharged"`
	Deduction     decimal.Decimal            `json:"deduction"`
	Withdrawal    decimal.Decimal            `json:"withdrawal"`
	TotalSalary   decimal.Decimal            `json:"totalSalary"`
	DaysPresent   int                        `json:"daysPresent"`
	HandlesCash   bool                       `json:"handlesCash"`
	Approved      bool                       `json:"approved"`
	Locked        bool                       `json:"locked"`
	Withdrawn     bool                       `json:"withdrawn"`
	Adjustments   []domain.PayrollAdjustment `json:"adjustments,omitempty"`
	CreatedAt     time.Time                  `json:"createdAt"`
	LastUpdatedAt time.Time                  `json:"lastUpdatedAt"`
}

// ToPayrollResponse converts a domain.PayrollRecord to PayrollResponse, computing its total.
func ToPayrollResponse(p *domain.PayrollRecord) (PayrollResponse, error) {
	components := p.Components()
	total, err := accounting.ComputeTotalSalary(components)
	if err != nil {
		return PayrollResponse{}, err
	}
	return PayrollResponse{
		PayrollID:     p.PayrollID,
		UserID:        p.UserID,
		PayrollDate:   p.PayrollDate,
		Period:        p.Period,
		BaseSalary:    p.BaseSalary,
		Over:          p.Over,
		Short:         p.Short,
		ShortCharged:  accounting.EffectiveShort(components),
		Deduction:     p.Deduction,
		Withdrawal:    p.Withdrawal,
		TotalSalary:   total,
		DaysPresent:   p.DaysPresent,
		HandlesCash:   p.HandlesCash,
		Approved:      p.Approved,
		Locked:        p.Locked,
		Withdrawn:     p.Withdrawn,
		Adjustments:   p.Adjustments,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}, nil
}

// ListPayrollsResponse wraps one page of payroll records.
type ListPayrollsResponse struct {
	Payrolls  []PayrollResponse `json:"payrolls"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListPayrollsResponse converts a slice of domain.PayrollRecord to ListPayrollsResponse.
func ToListPayrollsResponse(payrolls []domain.PayrollRecord, nextToken *string) (ListPayrollsResponse, error) {
	responses := make([]PayrollResponse, len(payrolls))
	for i := range payrolls {
		resp, err := ToPayrollResponse(&payrolls[i])
		if err != nil {
			return ListPayrollsResponse{}, err
		}
		responses[i] = resp
	}
	return ListPayrollsResponse{Payrolls: responses, NextToken: nextToken}, nil
}

// SyncSummary reports what a bulk report sync did.
type SyncSummary struct {
	Date    time.Time `json:"date"`
	Synced  int       `json:"synced"`
	Skipped int       `json:"skipped"` // Locked or withdrawn records left untouched
	Failed  int       `json:"failed"`
}
