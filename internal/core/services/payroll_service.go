package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/SscSPs/teller_payroll_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	reportRepo  portsrepo.ReportReader
	pendingRepo portsrepo.WithdrawalReader
	defaults    PayrollDefaults
}

// NewPayrollService creates a new PayrollSvcFacade.
func NewPayrollService(repos portsrepo.RepositoryProvider, defaults PayrollDefaults, opts ...BaseOption) portssvc.PayrollSvcFacade {
	return &payrollService{
		BaseService: newBaseService(repos.TxManager, opts...),
		payrollRepo: repos.PayrollRepo,
		userRepo:    repos.UserRepo,
		reportRepo:  repos.ReportRepo,
		pendingRepo: repos.WithdrawalRepo,
		defaults:    defaults,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// GetPayroll retrieves a payroll record with its computed total.
func (s *payrollService) GetPayroll(ctx context.Context, payrollID string) (*dto.PayrollResponse, error) {
	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	resp, err := dto.ToPayrollResponse(record)
	if err != nil {
		s.LogError(ctx, err, "Stored payroll violates salary invariants", slog.String("payroll_id", payrollID))
		return nil, err
	}
	return &resp, nil
}

// ListPayrolls retrieves a page of payroll records.
func (s *payrollService) ListPayrolls(ctx context.Context, params dto.ListPayrollsParams) (*dto.ListPayrollsResponse, error) {
	filter := portsrepo.PayrollFilter{
		UserID:   params.UserID,
		From:     params.From,
		To:       params.To,
		Approved: params.Approved,
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' must not be before 'from'", apperrors.ErrValidation)
	}

	records, nextToken, err := s.payrollRepo.ListPayrolls(ctx, filter, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payrolls", slog.String("user_id", params.UserID))
		return nil, err
	}
	resp, err := dto.ToListPayrollsResponse(records, nextToken)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncFromReports rebuilds the user's payroll for the day from that day's cash-count reports.
// Manual adjustments are replayed on top of the report-derived values, so the call is idempotent.
// Imported rows and rows tied to a pending withdrawal are rejected with ErrInvalidState or ErrConflict.
func (s *payrollService) SyncFromReports(ctx context.Context, userID string, day time.Time, actorID string) (*domain.PayrollRecord, error) {
	day = s.BusinessDay(day)
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cannot sync payroll: user %s: %w", userID, err)
	}
	policy, err := user.Role.Policy()
	if err != nil {
		return nil, fmt.Errorf("cannot sync payroll: user %s: %w", userID, err)
	}
	reports, err := s.reportRepo.FindReportsByTellerAndDate(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports for %s: %w", userID, err)
	}

	var synced *domain.PayrollRecord
	err = s.WithTellerLock(ctx, userID, func() error {
		return s.InTx(ctx, func(tx pgx.Tx) error {
			record, _, err := s.ensureDailyPayroll(ctx, tx, s.payrollRepo, user, day, s.defaults, actorID)
			if err != nil {
				return err
			}
			if err := record.EnsureMutable(); err != nil {
				return fmt.Errorf("cannot sync payroll: %w", err)
			}
			if record.Source == domain.SourceLegacyImport {
				return fmt.Errorf("%w: cannot sync payroll: %s holds imported amounts with no backing reports", apperrors.ErrInvalidState, record.PayrollID)
			}
			if err := s.ensureNoPendingWithdrawal(ctx, tx, record); err != nil {
				return fmt.Errorf("cannot sync payroll: %w", err)
			}

			applyReports(record, reports, s.baseSalaryFor(ctx, user, s.defaults), policy.HandlesCash)
			record.Touch(actorID, s.Now())
			if err := s.payrollRepo.UpdatePayroll(ctx, tx, *record); err != nil {
				return fmt.Errorf("failed to update payroll %s: %w", record.PayrollID, err)
			}
			synced = record
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to sync payroll", slog.String("user_id", userID), slog.Time("day", day))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Payroll synced from reports",
		slog.String("payroll_id", synced.PayrollID),
		slog.Int("reports", len(reports)),
		slog.String("over", synced.Over.String()),
		slog.String("short", synced.Short.Amount.String()))
	s.Emit(ctx, domain.Event{Type: domain.EventPayrollUpdated, UserID: userID, EntityID: synced.PayrollID})
	return synced, nil
}

// applyReports overwrites base, over and short with report-derived values plus the
// record's adjustment deltas for those fields. Deduction and withdrawal are left alone.
func applyReports(record *domain.PayrollRecord, reports []domain.TellerReport, base decimal.Decimal, roleHandlesCash bool) {
	over, short := decimal.Zero, decimal.Zero
	terms := 0
	for _, r := range reports {
		over = over.Add(r.Over())
		if rs := r.Short(); rs.IsPositive() {
			short = short.Add(rs)
			if r.ShortPaymentTerms > terms {
				terms = r.ShortPaymentTerms
			}
		}
	}
	if terms < 1 {
		terms = 1
	}

	for _, adj := range record.Adjustments {
		switch adj.Field {
		case domain.FieldBaseSalary:
			base = base.Add(adj.Delta)
		case domain.FieldOver:
			over = over.Add(adj.Delta)
		case domain.FieldShort:
			short = short.Add(adj.Delta)
		}
	}

	record.BaseSalary = decimal.Max(base, decimal.Zero)
	record.Over = decimal.Max(over, decimal.Zero)
	record.Short = domain.ShortDeduction{
		Amount:       decimal.Max(short, decimal.Zero),
		Kind:         domain.ShortOutstanding,
		PaymentTerms: terms,
	}
	record.HandlesCash = roleHandlesCash && len(reports) > 0
}

// SyncAllForDate syncs every user who reported on the day or already has a payroll row for it.
func (s *payrollService) SyncAllForDate(ctx context.Context, day time.Time, actorID string) (*dto.SyncSummary, error) {
	day = s.BusinessDay(day)
	reporting, err := s.reportRepo.ListReportingTellerIDs(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list reporting tellers: %w", err)
	}
	existing, err := s.payrollRepo.ListPayrollUserIDsByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll users: %w", err)
	}

	summary := &dto.SyncSummary{Date: day}
	for _, userID := range unionSorted(reporting, existing) {
		_, err := s.SyncFromReports(ctx, userID, day, actorID)
		switch {
		case err == nil:
			summary.Synced++
		case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrConflict):
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	s.LogInfo(ctx, "Payroll sync finished",
		slog.Time("day", day),
		slog.Int("synced", summary.Synced),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

// ensureNoPendingWithdrawal rejects changes to an approved payroll that a pending withdrawal
// already priced. Unapproved or withdrawn records cannot be pending, so they skip the lookup.
func (s *payrollService) ensureNoPendingWithdrawal(ctx context.Context, tx pgx.Tx, record *domain.PayrollRecord) error {
	if !record.Approved || record.Withdrawn {
		return nil
	}
	pending, err := s.pendingRepo.FindPendingPayrollIDs(ctx, tx, []string{record.PayrollID})
	if err != nil {
		return fmt.Errorf("failed to check pending withdrawals for %s: %w", record.PayrollID, err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: payroll %s is part of a pending withdrawal", apperrors.ErrConflict, record.PayrollID)
	}
	return nil
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, ids := range [][]string{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (s *payrollService) Approve(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error) {
	return s.transition(ctx, payrollID, actorID, "approve", plainTransition((*domain.PayrollRecord).Approve))
}

func (s *payrollService) Disapprove(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error) {
	return s.transition(ctx, payrollID, actorID, "disapprove", func(ctx context.Context, tx pgx.Tx, p *domain.PayrollRecord) error {
		if err := p.EnsureMutable(); err != nil {
			return fmt.Errorf("cannot disapprove: %w", err)
		}
		if err := s.ensureNoPendingWithdrawal(ctx, tx, p); err != nil {
			return fmt.Errorf("cannot disapprove: %w", err)
		}
		return p.Disapprove()
	})
}

func (s *payrollService) Lock(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error) {
	return s.transition(ctx, payrollID, actorID, "lock", plainTransition((*domain.PayrollRecord).Lock))
}

func (s *payrollService) Unlock(ctx context.Context, payrollID string, actorID string) (*domain.PayrollRecord, error) {
	return s.transition(ctx, payrollID, actorID, "unlock", plainTransition((*domain.PayrollRecord).Unlock))
}

type transitionFunc func(ctx context.Context, tx pgx.Tx, p *domain.PayrollRecord) error

func plainTransition(apply func(*domain.PayrollRecord) error) transitionFunc {
	return func(_ context.Context, _ pgx.Tx, p *domain.PayrollRecord) error { return apply(p) }
}

func (s *payrollService) transition(ctx context.Context, payrollID, actorID, action string, apply transitionFunc) (*domain.PayrollRecord, error) {
	var updated *domain.PayrollRecord
	err := s.InTx(ctx, func(tx pgx.Tx) error {
		record, err := s.payrollRepo.FindPayrollForUpdate(ctx, tx, payrollID)
		if err != nil {
			return err
		}
		if err := apply(ctx, tx, record); err != nil {
			return err
		}
		record.Touch(actorID, s.Now())
		if err := s.payrollRepo.UpdatePayroll(ctx, tx, *record); err != nil {
			return fmt.Errorf("failed to update payroll %s: %w", payrollID, err)
		}
		updated = record
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Payroll transition rejected",
			slog.String("payroll_id", payrollID),
			slog.String("action", action),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll transition applied",
		slog.String("payroll_id", payrollID),
		slog.String("action", action),
		slog.String("actor_id", actorID))
	s.Emit(ctx, domain.Event{Type: domain.EventPayrollUpdated, UserID: updated.UserID, EntityID: payrollID})
	return updated, nil
}

// AdjustPayroll applies a manual delta to one component and appends it to the adjustment log.
func (s *payrollService) AdjustPayroll(ctx context.Context, payrollID string, req dto.AdjustPayrollRequest, actorID string) (*domain.PayrollRecord, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var updated *domain.PayrollRecord
	err := s.InTx(ctx, func(tx pgx.Tx) error {
		record, err := s.payrollRepo.FindPayrollForUpdate(ctx, tx, payrollID)
		if err != nil {
			return err
		}
		if err := record.EnsureMutable(); err != nil {
			return fmt.Errorf("cannot adjust: %w", err)
		}
		if err := s.ensureNoPendingWithdrawal(ctx, tx, record); err != nil {
			return fmt.Errorf("cannot adjust: %w", err)
		}
		if err := record.ApplyDelta(req.Field, req.Delta); err != nil {
			return err
		}

		now := s.Now()
		adjustment := domain.PayrollAdjustment{
			AdjustmentID: uuid.NewString(),
			PayrollID:    record.PayrollID,
			Field:        req.Field,
			Delta:        req.Delta,
			Reason:       req.Reason,
			CreatedAt:    now,
			CreatedBy:    actorID,
		}
		record.Touch(actorID, now)
		if err := s.payrollRepo.UpdatePayroll(ctx, tx, *record); err != nil {
			return fmt.Errorf("failed to update payroll %s: %w", payrollID, err)
		}
		if err := s.payrollRepo.SaveAdjustment(ctx, tx, adjustment); err != nil {
			return fmt.Errorf("failed to record adjustment: %w", err)
		}
		record.Adjustments = append(record.Adjustments, adjustment)
		updated = record
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Payroll adjustment rejected",
			slog.String("payroll_id", payrollID),
			slog.String("field", string(req.Field)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll adjusted",
		slog.String("payroll_id", payrollID),
		slog.String("field", string(req.Field)),
		slog.String("delta", req.Delta.String()),
		slog.String("actor_id", actorID))
	s.Emit(ctx, domain.Event{Type: domain.EventPayrollUpdated, UserID: updated.UserID, EntityID: payrollID})
	return updated, nil
}
