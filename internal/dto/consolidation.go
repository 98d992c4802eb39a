package dto

import (
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// LegacyPayrollDocument is one payroll row exported from the legacy document store.
// Money fields accept JSON numbers or strings; totalSalary is read only for logging.
type LegacyPayrollDocument struct {
	ID                string           `json:"_id" validate:"required"`
	UserID            string           `json:"userId" validate:"required"`
	Date              time.Time        `json:"date" validate:"required"`
	BaseSalary        decimal.Decimal  `json:"baseSalary" validate:"gte=0"`
	Over              decimal.Decimal  `json:"over" validate:"gte=0"`
	Short             decimal.Decimal  `json:"short" validate:"gte=0"`
	ShortPaymentTerms int              `json:"shortPaymentTerms"`
	Deduction         decimal.Decimal  `json:"deduction" validate:"gte=0"`
	Withdrawal        decimal.Decimal  `json:"withdrawal" validate:"gte=0"`
	TotalSalary       *decimal.Decimal `json:"totalSalary,omitempty"`
	DaysPresent       int              `json:"daysPresent"`
	Approved          bool             `json:"approved"`
	Locked            bool             `json:"locked"`
	Withdrawn         bool             `json:"withdrawn"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// LegacyGrouping selects the duplicate bucket key used by the import.
type LegacyGrouping string

const (
	GroupByDay  LegacyGrouping = "DAY"
	GroupByWeek LegacyGrouping = "WEEK"
)

// ImportLegacyOptions configures a one-time legacy payroll import.
type ImportLegacyOptions struct {
	// ShortKind is how every legacy short value is interpreted. There is no default.
	ShortKind domain.ShortKind `validate:"required,oneof=OUTSTANDING INSTALLMENT"`
	Period    domain.PayPeriod `validate:"required,oneof=WEEKLY MONTHLY"`
	Grouping  LegacyGrouping   `validate:"required,oneof=DAY WEEK"`
	Policy    accounting.ConsolidationPolicy
	ActorID   string `validate:"required"`
	DryRun    bool
}

// ImportLegacyResult summarises a legacy import run.
type ImportLegacyResult struct {
	Documents  int      `json:"documents"`
	Groups     int      `json:"groups"`
	Merged     int      `json:"merged"` // Groups that had duplicates
	Inserted   int      `json:"inserted"`
	DroppedIDs []string `json:"droppedIDs"`
	Failed     []string `json:"failed"` // Group keys rejected by the merge
	DryRun     bool     `json:"dryRun"`
}
