package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayrollMapping_KeepsSourceAndShortKind(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	stamped := time.Date(2024, 3, 5, 9, 0, 0, 0, manila)
	d := domain.PayrollRecord{
		PayrollID:   "legacy_1",
		UserID:      "teller_1",
		Period:      domain.PeriodWeekly,
		BaseSalary:  decimal.NewFromInt(1350),
		Short:       domain.ShortDeduction{Amount: decimal.NewFromInt(40), Kind: domain.ShortInstallment, PaymentTerms: 1},
		DaysPresent: 3,
		Source:      domain.SourceLegacyImport,
		AuditFields: domain.NewAuditFields("migration", stamped),
	}

	m := mapping.ToModelPayrollRecord(d)
	assert.Equal(t, "LEGACY_IMPORT", m.Source)
	assert.Equal(t, "INSTALLMENT", m.ShortKind)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())
	assert.True(t, m.CreatedAt.Equal(stamped))

	back := mapping.ToDomainPayrollRecord(m)
	assert.Equal(t, domain.SourceLegacyImport, back.Source)
	assert.Equal(t, d.Short, back.Short)
	assert.Equal(t, time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC), back.CreatedAt)
	assert.Equal(t, "migration", back.LastUpdatedBy)
}
