package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/SscSPs/teller_payroll_app/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type consolidationService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewConsolidationService creates a new ConsolidationSvc.
func NewConsolidationService(repos portsrepo.RepositoryProvider, opts ...BaseOption) portssvc.ConsolidationSvc {
	return &consolidationService{
		BaseService: newBaseService(repos.TxManager, opts...),
		payrollRepo: repos.PayrollRepo,
		userRepo:    repos.UserRepo,
	}
}

var _ portssvc.ConsolidationSvc = (*consolidationService)(nil)

type legacyGroup struct {
	key     string
	records []domain.PayrollRecord
	docs    []dto.LegacyPayrollDocument
}

// ImportLegacy converts legacy documents, merges duplicates per user and day (or week) and
// inserts one record per group. Each group is written in its own transaction; a group that
// cannot be merged or inserted is reported in Failed and does not stop the run.
func (s *consolidationService) ImportLegacy(ctx context.Context, docs []dto.LegacyPayrollDocument, opts dto.ImportLegacyOptions) (*dto.ImportLegacyResult, error) {
	if err := dto.Validate(opts); err != nil {
		return nil, err
	}

	result := &dto.ImportLegacyResult{Documents: len(docs), DryRun: opts.DryRun, DroppedIDs: []string{}, Failed: []string{}}
	groups, failed := s.groupDocuments(ctx, docs, opts)
	result.Failed = append(result.Failed, failed...)
	result.Groups = len(groups)

	for _, g := range groups {
		record := g.records[0]
		if len(g.records) > 1 {
			merged, err := accounting.MergePayrolls(g.records, opts.Policy)
			if err != nil {
				s.LogWarn(ctx, "Legacy group cannot be merged",
					slog.String("group", g.key),
					slog.Int("documents", len(g.records)),
					slog.String("error", err.Error()))
				result.Failed = append(result.Failed, g.key)
				continue
			}
			s.logMerge(ctx, g, merged)
			record = merged.Kept
			result.Merged++
			result.DroppedIDs = append(result.DroppedIDs, merged.DroppedIDs()...)
		} else {
			s.checkLegacyTotal(ctx, g.docs[0], record)
		}

		if opts.DryRun {
			continue
		}
		err := s.InTx(ctx, func(tx pgx.Tx) error {
			return s.payrollRepo.SavePayroll(ctx, tx, record)
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to insert consolidated payroll",
				slog.String("group", g.key),
				slog.String("payroll_id", record.PayrollID))
			result.Failed = append(result.Failed, g.key)
			continue
		}
		result.Inserted++
	}

	s.LogInfo(ctx, "Legacy payroll import finished",
		slog.Int("documents", result.Documents),
		slog.Int("groups", result.Groups),
		slog.Int("merged", result.Merged),
		slog.Int("inserted", result.Inserted),
		slog.Int("dropped", len(result.DroppedIDs)),
		slog.Int("failed", len(result.Failed)),
		slog.Bool("dry_run", result.DryRun))
	return result, nil
}

// groupDocuments converts the documents and buckets them by user and day or week, in key order.
func (s *consolidationService) groupDocuments(ctx context.Context, docs []dto.LegacyPayrollDocument, opts dto.ImportLegacyOptions) ([]*legacyGroup, []string) {
	var failed []string
	byKey := make(map[string]*legacyGroup)
	handlesCash := make(map[string]bool)

	for _, doc := range docs {
		if err := dto.Validate(doc); err != nil {
			s.LogWarn(ctx, "Skipping invalid legacy document", slog.String("document_id", doc.ID), slog.String("error", err.Error()))
			failed = append(failed, "document:"+doc.ID)
			continue
		}
		cash, ok := handlesCash[doc.UserID]
		if !ok {
			user, err := s.userRepo.FindUserByID(ctx, doc.UserID)
			if err != nil {
				s.LogWarn(ctx, "Skipping legacy document for unknown user", slog.String("document_id", doc.ID), slog.String("user_id", doc.UserID))
				failed = append(failed, "document:"+doc.ID)
				continue
			}
			policy, err := user.Role.Policy()
			if err != nil {
				failed = append(failed, "document:"+doc.ID)
				continue
			}
			cash = policy.HandlesCash
			handlesCash[doc.UserID] = cash
		}

		record := s.legacyToPayroll(doc, opts, cash)
		bucket := record.PayrollDate
		if opts.Grouping == dto.GroupByWeek {
			bucket = domain.WeekStart(bucket)
		}
		key := doc.UserID + "@" + bucket.Format(time.DateOnly)
		g, ok := byKey[key]
		if !ok {
			g = &legacyGroup{key: key}
			byKey[key] = g
		}
		g.records = append(g.records, record)
		g.docs = append(g.docs, doc)
	}

	groups := make([]*legacyGroup, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups, failed
}

func (s *consolidationService) legacyToPayroll(doc dto.LegacyPayrollDocument, opts dto.ImportLegacyOptions, handlesCash bool) domain.PayrollRecord {
	terms := doc.ShortPaymentTerms
	if terms < 1 {
		terms = 1
	}
	days := doc.DaysPresent
	if days < 1 {
		days = 1
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = doc.Date
	}
	audit := domain.NewAuditFields(opts.ActorID, s.Now())
	audit.CreatedAt = createdAt.UTC()

	return domain.PayrollRecord{
		PayrollID:   doc.ID,
		UserID:      doc.UserID,
		PayrollDate: s.BusinessDay(doc.Date),
		Period:      opts.Period,
		BaseSalary:  doc.BaseSalary,
		Over:        doc.Over,
		Short:       domain.ShortDeduction{Amount: doc.Short, Kind: opts.ShortKind, PaymentTerms: terms},
		Deduction:   doc.Deduction,
		Withdrawal:  doc.Withdrawal,
		DaysPresent: days,
		HandlesCash: handlesCash,
		Approved:    doc.Approved,
		Locked:      doc.Locked,
		Withdrawn:   doc.Withdrawn,
		Source:      domain.SourceLegacyImport,
		AuditFields: audit,
	}
}

func (s *consolidationService) logMerge(ctx context.Context, g *legacyGroup, merged accounting.MergeResult) {
	legacyTotal := decimal.Zero
	for _, doc := range g.docs {
		if doc.TotalSalary != nil {
			legacyTotal = legacyTotal.Add(*doc.TotalSalary)
		}
	}
	for _, dropped := range merged.Dropped {
		s.LogInfo(ctx, "Legacy duplicate dropped",
			slog.String("group", g.key),
			slog.String("payroll_id", dropped.PayrollID),
			slog.String("kept_id", merged.Kept.PayrollID),
			slog.String("base_salary", dropped.BaseSalary.String()),
			slog.String("over", dropped.Over.String()),
			slog.String("short", dropped.Short.Amount.String()),
			slog.String("deduction", dropped.Deduction.String()),
			slog.String("withdrawal", dropped.Withdrawal.String()))
	}
	s.LogInfo(ctx, "Legacy duplicates merged",
		slog.String("group", g.key),
		slog.String("kept_id", merged.Kept.PayrollID),
		slog.Int("documents", len(g.docs)),
		slog.Int("days_present", merged.Kept.DaysPresent),
		slog.String("total_salary", merged.TotalSalary.String()),
		slog.String("legacy_total_sum", legacyTotal.String()))
}

// checkLegacyTotal reports stored totals that disagree with the recomputed one. The stored value is never used.
func (s *consolidationService) checkLegacyTotal(ctx context.Context, doc dto.LegacyPayrollDocument, record domain.PayrollRecord) {
	if doc.TotalSalary == nil {
		return
	}
	total, err := accounting.ComputeTotalSalary(record.Components())
	if err != nil {
		s.LogWarn(ctx, "Legacy payroll fails salary invariants", slog.String("payroll_id", doc.ID), slog.String("error", err.Error()))
		return
	}
	if !total.Equal(*doc.TotalSalary) {
		s.LogDebug(ctx, "Legacy stored total differs from computed total",
			slog.String("payroll_id", doc.ID),
			slog.String("stored", doc.TotalSalary.String()),
			slog.String("computed", fmt.Sprint(total)))
	}
}
