package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/SscSPs/teller_payroll_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type withdrawalService struct {
	BaseService
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade
	payrollRepo    portsrepo.PayrollRepositoryFacade
}

// NewWithdrawalService creates a new WithdrawalSvcFacade.
func NewWithdrawalService(repos portsrepo.RepositoryProvider, opts ...BaseOption) portssvc.WithdrawalSvcFacade {
	return &withdrawalService{
		BaseService:    newBaseService(repos.TxManager, opts...),
		withdrawalRepo: repos.WithdrawalRepo,
		payrollRepo:    repos.PayrollRepo,
	}
}

var _ portssvc.WithdrawalSvcFacade = (*withdrawalService)(nil)

func (s *withdrawalService) GetWithdrawal(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	return s.withdrawalRepo.FindWithdrawalByID(ctx, withdrawalID)
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, params dto.ListWithdrawalsParams) ([]domain.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.ListWithdrawals(ctx, params.UserID, params.Status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list withdrawals", slog.String("user_id", params.UserID))
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []domain.Withdrawal{}
	}
	return withdrawals, nil
}

// RequestWithdrawal creates a pending withdrawal. Every payroll must belong to the user,
// be approved, not yet withdrawn and not part of another pending request.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, req dto.RequestWithdrawalRequest, actorID string) (*domain.Withdrawal, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var created *domain.Withdrawal
	err := s.InTx(ctx, func(tx pgx.Tx) error {
		payrolls, err := s.payrollRepo.FindPayrollsForUpdate(ctx, tx, req.PayrollIDs)
		if err != nil {
			return err
		}
		if missing := missingIDs(req.PayrollIDs, payrolls); len(missing) > 0 {
			return fmt.Errorf("%w: payrolls %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
		}

		amount := decimal.Zero
		for i := range payrolls {
			p := &payrolls[i]
			if p.UserID != req.UserID {
				return fmt.Errorf("%w: payroll %s does not belong to user %s", apperrors.ErrValidation, p.PayrollID, req.UserID)
			}
			if !p.Approved {
				return fmt.Errorf("%w: payroll %s is not approved", apperrors.ErrInvalidState, p.PayrollID)
			}
			if p.Withdrawn {
				return fmt.Errorf("%w: payroll %s has already been withdrawn", apperrors.ErrInvalidState, p.PayrollID)
			}
			total, err := accounting.ComputeTotalSalary(p.Components())
			if err != nil {
				return fmt.Errorf("payroll %s: %w", p.PayrollID, err)
			}
			amount = amount.Add(total)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: nothing to withdraw, total is %s", apperrors.ErrValidation, amount)
		}

		pending, err := s.withdrawalRepo.FindPendingPayrollIDs(ctx, tx, req.PayrollIDs)
		if err != nil {
			return err
		}
		if len(pending) > 0 {
			return fmt.Errorf("%w: payrolls %s already have a pending withdrawal", apperrors.ErrConflict, strings.Join(pending, ", "))
		}

		w := domain.Withdrawal{
			WithdrawalID: uuid.NewString(),
			UserID:       req.UserID,
			PayrollIDs:   req.PayrollIDs,
			Amount:       amount,
			Status:       domain.WithdrawalPending,
			Reason:       req.Reason,
			AuditFields:  domain.NewAuditFields(actorID, s.Now()),
		}
		if err := s.withdrawalRepo.SaveWithdrawal(ctx, tx, w); err != nil {
			return fmt.Errorf("failed to save withdrawal: %w", err)
		}
		created = &w
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Withdrawal request rejected",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal requested",
		slog.String("withdrawal_id", created.WithdrawalID),
		slog.String("user_id", created.UserID),
		slog.String("amount", created.Amount.String()))
	s.Emit(ctx, domain.Event{Type: domain.EventPayrollUpdated, UserID: created.UserID, EntityID: created.WithdrawalID})
	return created, nil
}

func missingIDs(want []string, got []domain.PayrollRecord) []string {
	found := make(map[string]struct{}, len(got))
	for _, p := range got {
		found[p.PayrollID] = struct{}{}
	}
	var missing []string
	for _, id := range want {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// ApproveWithdrawal approves a pending withdrawal and marks each of its payrolls withdrawn.
// The payroll totals must still add up to the requested amount.
func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, withdrawalID string, actorID string) (*domain.Withdrawal, error) {
	return s.decide(ctx, withdrawalID, actorID, "approve", func(tx pgx.Tx, w *domain.Withdrawal) error {
		payrolls, err := s.payrollRepo.FindPayrollsForUpdate(ctx, tx, w.PayrollIDs)
		if err != nil {
			return err
		}
		if missing := missingIDs(w.PayrollIDs, payrolls); len(missing) > 0 {
			return fmt.Errorf("%w: payrolls %s vanished", apperrors.ErrDataIntegrity, strings.Join(missing, ", "))
		}
		current := decimal.Zero
		for _, p := range payrolls {
			total, err := accounting.ComputeTotalSalary(p.Components())
			if err != nil {
				return fmt.Errorf("payroll %s: %w", p.PayrollID, err)
			}
			current = current.Add(total)
		}
		if !current.Equal(w.Amount) {
			return fmt.Errorf("%w: payrolls now total %s but %s was requested", apperrors.ErrConflict, current, w.Amount)
		}
		now := s.Now()
		for i := range payrolls {
			p := &payrolls[i]
			if err := p.MarkWithdrawn(); err != nil {
				return err
			}
			p.Touch(actorID, now)
			if err := s.payrollRepo.UpdatePayroll(ctx, tx, *p); err != nil {
				return fmt.Errorf("failed to update payroll %s: %w", p.PayrollID, err)
			}
		}
		w.Status = domain.WithdrawalApproved
		return nil
	})
}

// RejectWithdrawal rejects a pending withdrawal, leaving its payrolls available.
func (s *withdrawalService) RejectWithdrawal(ctx context.Context, withdrawalID string, req dto.RejectWithdrawalRequest, actorID string) (*domain.Withdrawal, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.decide(ctx, withdrawalID, actorID, "reject", func(_ pgx.Tx, w *domain.Withdrawal) error {
		w.Status = domain.WithdrawalRejected
		w.Reason = req.Reason
		return nil
	})
}

func (s *withdrawalService) decide(ctx context.Context, withdrawalID, actorID, action string, apply func(tx pgx.Tx, w *domain.Withdrawal) error) (*domain.Withdrawal, error) {
	var decided *domain.Withdrawal
	err := s.InTx(ctx, func(tx pgx.Tx) error {
		w, err := s.withdrawalRepo.FindWithdrawalForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.WithdrawalPending {
			return fmt.Errorf("%w: cannot %s: withdrawal %s is %s", apperrors.ErrInvalidState, action, withdrawalID, w.Status)
		}
		if err := apply(tx, w); err != nil {
			return err
		}
		w.Touch(actorID, s.Now())
		if err := s.withdrawalRepo.UpdateWithdrawalStatus(ctx, tx, *w); err != nil {
			return fmt.Errorf("failed to update withdrawal %s: %w", withdrawalID, err)
		}
		decided = w
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Withdrawal decision rejected",
			slog.String("withdrawal_id", withdrawalID),
			slog.String("action", action),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal decided",
		slog.String("withdrawal_id", withdrawalID),
		slog.String("status", string(decided.Status)),
		slog.String("actor_id", actorID))
	s.Emit(ctx, domain.Event{Type: domain.EventPayrollUpdated, UserID: decided.UserID, EntityID: withdrawalID})
	return decided, nil
}
