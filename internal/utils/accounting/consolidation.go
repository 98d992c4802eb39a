package accounting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BaseSalaryMode decides how base salary combines across duplicate payroll rows.
type BaseSalaryMode string

const (
	// BasePerDay counts the base salary once per distinct payroll date (largest value wins).
	BasePerDay BaseSalaryMode = "PER_DAY"
	// BaseSum adds every row's base salary, reproducing the legacy cleanup scripts.
	BaseSum BaseSalaryMode = "SUM"
)

// DaysPresentMode decides how days present is derived for a merged row.
type DaysPresentMode string

const (
	DaysDistinctDates DaysPresentMode = "DISTINCT_DATES"
	DaysRowCount      DaysPresentMode = "ROW_COUNT"
)

// DateAnchor decides which payroll date the merged row carries.
type DateAnchor string

const (
	AnchorEarliestRecord DateAnchor = "EARLIEST_RECORD"
	AnchorPeriodStart    DateAnchor = "PERIOD_START" // Monday of the earliest record's week
)

// ConsolidationPolicy configures MergePayrolls.
type ConsolidationPolicy struct {
	BaseSalary  BaseSalaryMode
	DaysPresent DaysPresentMode
	Anchor      DateAnchor
}

// DefaultConsolidationPolicy treats duplicates of the same day as redundant writes.
func DefaultConsolidationPolicy() ConsolidationPolicy {
	return ConsolidationPolicy{
		BaseSalary:  BasePerDay,
		DaysPresent: DaysDistinctDates,
		Anchor:      AnchorEarliestRecord,
	}
}

// LegacyConsolidationPolicy treats every duplicate as a distinct accumulation event.
func LegacyConsolidationPolicy() ConsolidationPolicy {
	return ConsolidationPolicy{
		BaseSalary:  BaseSum,
		DaysPresent: DaysRowCount,
		Anchor:      AnchorEarliestRecord,
	}
}

// ConsolidationPolicyByName resolves "default" or "legacy".
func ConsolidationPolicyByName(name string) (ConsolidationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultConsolidationPolicy(), nil
	case "legacy":
		return LegacyConsolidationPolicy(), nil
	}
	return ConsolidationPolicy{}, fmt.Errorf("%w: unknown consolidation policy '%s'", apperrors.ErrValidation, name)
}

// MergeResult is the outcome of merging a duplicate set.
type MergeResult struct {
	Kept        domain.PayrollRecord
	Dropped     []domain.PayrollRecord // Pre-merge values, oldest first
	TotalSalary decimal.Decimal
}

// DroppedIDs returns the payroll IDs of the discarded rows.
func (r MergeResult) DroppedIDs() []string {
	ids := make([]string, 0, len(r.Dropped))
	for _, p := range r.Dropped {
		ids = append(ids, p.PayrollID)
	}
	return ids
}

// MergePayrolls collapses duplicate payroll rows of one user and period into one canonical row.
// The oldest row (by creation time, then ID) is kept; over, short, deduction and withdrawal are
// summed; base salary and days present follow the policy. The input slice is not modified.
func MergePayrolls(records []domain.PayrollRecord, policy ConsolidationPolicy) (MergeResult, error) {
	if len(records) < 2 {
		return MergeResult{}, fmt.Errorf("%w: consolidation needs at least two payroll records, got %d", apperrors.ErrValidation, len(records))
	}
	if err := checkMergeable(records); err != nil {
		return MergeResult{}, err
	}

	sorted := make([]domain.PayrollRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].PayrollID < sorted[j].PayrollID
	})

	kept := sorted[0]
	kept.Over = decimal.Zero
	kept.Short.Amount = decimal.Zero
	kept.Deduction = decimal.Zero
	kept.Withdrawal = decimal.Zero
	kept.Approved = true
	kept.HandlesCash = false
	kept.Adjustments = nil

	basePerDay := make(map[time.Time]decimal.Decimal)
	baseSum := decimal.Zero
	earliest := sorted[0].PayrollDate

	for _, p := range sorted {
		kept.Over = kept.Over.Add(p.Over)
		kept.Short.Amount = kept.Short.Amount.Add(p.Short.Amount)
		kept.Deduction = kept.Deduction.Add(p.Deduction)
		kept.Withdrawal = kept.Withdrawal.Add(p.Withdrawal)
		kept.Approved = kept.Approved && p.Approved
		kept.HandlesCash = kept.HandlesCash || p.HandlesCash
		if p.Short.Amount.IsPositive() && p.Short.PaymentTerms > 0 {
			kept.Short.PaymentTerms = p.Short.PaymentTerms
		}
		for _, adj := range p.Adjustments {
			adj.PayrollID = kept.PayrollID
			kept.Adjustments = append(kept.Adjustments, adj)
		}

		baseSum = baseSum.Add(p.BaseSalary)
		day := domain.DayOf(p.PayrollDate)
		if current, ok := basePerDay[day]; !ok || p.BaseSalary.GreaterThan(current) {
			basePerDay[day] = p.BaseSalary
		}
		if p.PayrollDate.Before(earliest) {
			earliest = p.PayrollDate
		}
	}

	switch policy.BaseSalary {
	case BaseSum:
		kept.BaseSalary = baseSum
	default:
		kept.BaseSalary = decimal.Zero
		for _, base := range basePerDay {
			kept.BaseSalary = kept.BaseSalary.Add(base)
		}
	}

	switch policy.DaysPresent {
	case DaysRowCount:
		kept.DaysPresent = len(sorted)
	default:
		kept.DaysPresent = len(basePerDay)
	}

	switch policy.Anchor {
	case AnchorPeriodStart:
		kept.PayrollDate = domain.WeekStart(earliest)
	default:
		kept.PayrollDate = domain.DayOf(earliest)
	}

	total, err := ComputeTotalSalary(kept.Components())
	if err != nil {
		return MergeResult{}, fmt.Errorf("recomputing total for merged payroll %s: %w", kept.PayrollID, err)
	}

	return MergeResult{
		Kept:        kept,
		Dropped:     sorted[1:],
		TotalSalary: total,
	}, nil
}

// checkMergeable rejects duplicate sets that cannot be merged without guessing.
func checkMergeable(records []domain.PayrollRecord) error {
	first := records[0]
	terms := 0
	for _, p := range records {
		if p.UserID != first.UserID {
			return fmt.Errorf("%w: cannot merge payrolls of different users (%s, %s)", apperrors.ErrDataIntegrity, first.UserID, p.UserID)
		}
		if p.Period != first.Period {
			return fmt.Errorf("%w: cannot merge payrolls with different periods (%s, %s)", apperrors.ErrDataIntegrity, first.Period, p.Period)
		}
		if p.Short.Kind != first.Short.Kind {
			return fmt.Errorf("%w: cannot merge payrolls with different short kinds (%s, %s)", apperrors.ErrDataIntegrity, first.Short.Kind, p.Short.Kind)
		}
		if p.Locked {
			return fmt.Errorf("%w: cannot merge: payroll %s is locked", apperrors.ErrInvalidState, p.PayrollID)
		}
		if p.Withdrawn {
			return fmt.Errorf("%w: cannot merge: payroll %s has been withdrawn", apperrors.ErrInvalidState, p.PayrollID)
		}
		// Summing outstanding shorts is only meaningful when they share a repayment schedule.
		if p.Short.Kind == domain.ShortOutstanding && p.Short.Amount.IsPositive() && p.Short.PaymentTerms > 0 {
			if terms != 0 && terms != p.Short.PaymentTerms {
				return fmt.Errorf("%w: cannot merge outstanding shorts with different payment terms (%d, %d)",
					apperrors.ErrDataIntegrity, terms, p.Short.PaymentTerms)
			}
			terms = p.Short.PaymentTerms
		}
	}
	return nil
}
