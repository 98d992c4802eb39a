package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TellerReport is one cash-count report submitted by a teller.
type TellerReport struct {
	ReportID          string          `json:"reportID"`
	TellerID          string          `json:"tellerID"`
	ReportDate        time.Time       `json:"reportDate"`
	SystemBalance     decimal.Decimal `json:"systemBalance"`
	CashCount         decimal.Decimal `json:"cashCount"`
	ShortPaymentTerms int             `json:"shortPaymentTerms"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Over is the surplus of physical cash over the system balance.
func (r TellerReport) Over() decimal.Decimal {
	diff := r.CashCount.Sub(r.SystemBalance)
	if diff.IsPositive() {
		return diff
	}
	return decimal.Zero
}

// Short is the deficit of physical cash against the system balance.
func (r TellerReport) Short() decimal.Decimal {
	diff := r.SystemBalance.Sub(r.CashCount)
	if diff.IsPositive() {
		return diff
	}
	return decimal.Zero
}
