package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/SscSPs/teller_payroll_app/internal/utils/accounting"
	"github.com/SscSPs/teller_payroll_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// capitalService maintains teller capital records and their append-only ledger.
type capitalService struct {
	BaseService
	capitalRepo portsrepo.CapitalRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	payrollRepo portsrepo.PayrollRepositoryFacade
	defaults    PayrollDefaults
}

// NewCapitalService creates a new CapitalSvcFacade.
func NewCapitalService(repos portsrepo.RepositoryProvider, defaults PayrollDefaults, opts ...BaseOption) portssvc.CapitalSvcFacade {
	return &capitalService{
		BaseService: newBaseService(repos.TxManager, opts...),
		capitalRepo: repos.CapitalRepo,
		userRepo:    repos.UserRepo,
		payrollRepo: repos.PayrollRepo,
		defaults:    defaults,
	}
}

var _ portssvc.CapitalSvcFacade = (*capitalService)(nil)

// IssueCapital creates the teller's active capital record and its STARTING ledger entry.
func (s *capitalService) IssueCapital(ctx context.Context, req dto.IssueCapitalRequest, actorID string) (*dto.CapitalMovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	supervisor, err := s.userRepo.FindUserByID(ctx, req.SupervisorID)
	if err != nil {
		return nil, fmt.Errorf("cannot issue capital: supervisor %s: %w", req.SupervisorID, err)
	}
	supervisorPolicy, err := supervisor.Role.Policy()
	if err != nil {
		return nil, fmt.Errorf("cannot issue capital: supervisor %s: %w", supervisor.UserID, err)
	}
	if !supervisorPolicy.IssuesCapital {
		return nil, fmt.Errorf("%w: cannot issue capital: role %s may not issue capital", apperrors.ErrInvalidState, supervisor.Role)
	}

	var (
		resp       *dto.CapitalMovementResponse
		payrollFor []string
	)
	err = s.WithTellerLock(ctx, req.TellerID, func() error {
		return s.InTx(ctx, func(tx pgx.Tx) error {
			teller, err := s.userRepo.FindUserByIDForUpdate(ctx, tx, req.TellerID)
			if err != nil {
				return fmt.Errorf("cannot issue capital: teller %s: %w", req.TellerID, err)
			}
			policy, err := teller.Role.Policy()
			if err != nil {
				return fmt.Errorf("cannot issue capital: teller %s: %w", teller.UserID, err)
			}
			if !policy.HandlesCash {
				return fmt.Errorf("%w: cannot issue capital: role %s does not handle cash", apperrors.ErrInvalidState, teller.Role)
			}

			existing, err := s.capitalRepo.FindActiveCapitalForUpdate(ctx, tx, teller.UserID)
			if err == nil {
				return fmt.Errorf("%w: cannot issue capital: teller %s already has active capital record %s",
					apperrors.ErrInvalidState, teller.UserID, existing.CapitalID)
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}

			now := s.Now()
			if s.linkTeller(teller, supervisor.UserID) {
				teller.Touch(actorID, now)
				if err := s.userRepo.UpdateUserPayrollLinks(ctx, tx, *teller); err != nil {
					return fmt.Errorf("failed to update teller %s: %w", teller.UserID, err)
				}
			}

			supervisorID := supervisor.UserID
			record := domain.CapitalRecord{
				CapitalID:       uuid.NewString(),
				TellerID:        teller.UserID,
				SupervisorID:    &supervisorID,
				Amount:          req.Amount,
				TotalAdditional: decimal.Zero,
				TotalRemitted:   decimal.Zero,
				Status:          domain.CapitalActive,
				AuditFields:     domain.NewAuditFields(actorID, now),
			}
			if err := s.capitalRepo.SaveCapital(ctx, tx, record); err != nil {
				return fmt.Errorf("failed to save capital record: %w", err)
			}
			txn, err := s.recordMovement(ctx, tx, &record, domain.CapitalTxnStarting, req.Amount, req.Notes, actorID, now)
			if err != nil {
				return err
			}

			day := s.Today()
			if _, _, err := s.ensureDailyPayroll(ctx, tx, s.payrollRepo, teller, day, s.defaults, actorID); err != nil {
				return err
			}
			payrollFor = append(payrollFor, teller.UserID)
			if supervisor.UserID != teller.UserID && earnsSupervisorPayroll(supervisor.Role) {
				if _, _, err := s.ensureDailyPayroll(ctx, tx, s.payrollRepo, supervisor, day, s.defaults, actorID); err != nil {
					return err
				}
				payrollFor = append(payrollFor, supervisor.UserID)
			}

			resp = &dto.CapitalMovementResponse{Capital: dto.ToCapitalResponse(&record), Transaction: txn}
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to issue capital",
			slog.String("teller_id", req.TellerID),
			slog.String("supervisor_id", req.SupervisorID))
		return nil, err
	}

	s.LogInfo(ctx, "Capital issued",
		slog.String("capital_id", resp.Capital.CapitalID),
		slog.String("teller_id", req.TellerID),
		slog.String("amount", req.Amount.String()))

	events := []domain.Event{
		{Type: domain.EventTellerManagementUpdated, UserID: req.TellerID, EntityID: resp.Capital.CapitalID},
		{Type: domain.EventSupervisorReportUpdated, UserID: req.SupervisorID, EntityID: resp.Capital.CapitalID},
	}
	for _, userID := range payrollFor {
		events = append(events, domain.Event{Type: domain.EventPayrollUpdated, UserID: userID})
	}
	s.Emit(ctx, events...)
	return resp, nil
}

// linkTeller applies the issue-time side effects to the teller and reports whether anything changed.
func (s *capitalService) linkTeller(teller *domain.User, supervisorID string) bool {
	changed := false
	if teller.SupervisorID == nil && teller.UserID != supervisorID {
		id := supervisorID
		teller.SupervisorID = &id
		changed = true
	}
	// supervisor_tellers earn the teller rate on days they work a drawer.
	if teller.Role == domain.RoleSupervisorTeller {
		rate := s.defaults.Rates.TellerRate()
		if teller.BaseSalary == nil || !teller.BaseSalary.Equal(rate) {
			teller.BaseSalary = &rate
			changed = true
		}
	}
	return changed
}

func earnsSupervisorPayroll(role domain.Role) bool {
	return role == domain.RoleSupervisor || role == domain.RoleSupervisorTeller
}

// AddAdditional tops up the teller's active capital.
func (s *capitalService) AddAdditional(ctx context.Context, tellerID string, req dto.CapitalMovementRequest, actorID string) (*dto.CapitalMovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.move(ctx, tellerID, domain.CapitalTxnAdditional, req.Amount, req.Notes, actorID, "add capital")
}

// Remit records cash the teller handed back.
func (s *capitalService) Remit(ctx context.Context, tellerID string, req dto.CapitalMovementRequest, actorID string) (*dto.CapitalMovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.move(ctx, tellerID, domain.CapitalTxnRemittance, req.Amount, req.Notes, actorID, "remit")
}

// AdjustCapital records a signed manual correction.
func (s *capitalService) AdjustCapital(ctx context.Context, tellerID string, req dto.AdjustCapitalRequest, actorID string) (*dto.CapitalMovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.move(ctx, tellerID, domain.CapitalTxnAdjustment, req.Amount, req.Notes, actorID, "adjust capital")
}

// move applies one movement to the teller's active record under the teller lock and a row lock.
// Nothing is written when the teller has no active record.
func (s *capitalService) move(ctx context.Context, tellerID string, txnType domain.CapitalTransactionType, amount decimal.Decimal, notes, actorID, verb string) (*dto.CapitalMovementResponse, error) {
	var resp *dto.CapitalMovementResponse
	err := s.WithTellerLock(ctx, tellerID, func() error {
		return s.InTx(ctx, func(tx pgx.Tx) error {
			record, err := s.findActiveForUpdate(ctx, tx, tellerID, verb)
			if err != nil {
				return err
			}
			txn, err := s.recordMovement(ctx, tx, record, txnType, amount, notes, actorID, s.Now())
			if err != nil {
				return err
			}
			resp = &dto.CapitalMovementResponse{Capital: dto.ToCapitalResponse(record), Transaction: txn}
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Capital movement failed",
			slog.String("teller_id", tellerID),
			slog.String("type", string(txnType)))
		return nil, err
	}

	s.LogInfo(ctx, "Capital movement recorded",
		slog.String("capital_id", resp.Capital.CapitalID),
		slog.String("type", string(txnType)),
		slog.String("amount", amount.String()),
		slog.String("balance_remaining", resp.Capital.BalanceRemaining.String()))
	s.Emit(ctx, s.movementEvents(resp.Capital)...)
	return resp, nil
}

func (s *capitalService) findActiveForUpdate(ctx context.Context, tx pgx.Tx, tellerID, verb string) (*domain.CapitalRecord, error) {
	record, err := s.capitalRepo.FindActiveCapitalForUpdate(ctx, tx, tellerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: cannot %s: no active capital record for teller %s", apperrors.ErrNotFound, verb, tellerID)
		}
		return nil, fmt.Errorf("failed to load capital for teller %s: %w", tellerID, err)
	}
	return record, nil
}

// recordMovement updates the record's totals and appends the ledger entry in tx.
// A STARTING movement expects the record to have been inserted already.
func (s *capitalService) recordMovement(ctx context.Context, tx pgx.Tx, record *domain.CapitalRecord, txnType domain.CapitalTransactionType, amount decimal.Decimal, notes, actorID string, now time.Time) (domain.CapitalTransaction, error) {
	txn, err := accounting.ApplyCapitalMovement(record, txnType, amount)
	if err != nil {
		return domain.CapitalTransaction{}, err
	}
	txn.TransactionID = uuid.NewString()
	txn.Notes = notes
	txn.CreatedAt = now
	txn.CreatedBy = actorID

	if txnType != domain.CapitalTxnStarting {
		record.Touch(actorID, now)
		if err := s.capitalRepo.UpdateCapital(ctx, tx, *record); err != nil {
			return domain.CapitalTransaction{}, fmt.Errorf("failed to update capital record %s: %w", record.CapitalID, err)
		}
	}
	if err := s.capitalRepo.SaveCapitalTransaction(ctx, tx, txn); err != nil {
		return domain.CapitalTransaction{}, fmt.Errorf("failed to append capital transaction: %w", err)
	}
	return txn, nil
}

func (s *capitalService) movementEvents(c dto.CapitalResponse) []domain.Event {
	events := []domain.Event{{Type: domain.EventTellerManagementUpdated, UserID: c.TellerID, EntityID: c.CapitalID}}
	if c.SupervisorID != nil {
		events = append(events, domain.Event{Type: domain.EventSupervisorReportUpdated, UserID: *c.SupervisorID, EntityID: c.CapitalID})
	}
	return events
}

// CloseCapital appends a CLOSING entry and ends the teller's active record.
func (s *capitalService) CloseCapital(ctx context.Context, tellerID string, req dto.CloseCapitalRequest, actorID string) (*dto.CapitalMovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var resp *dto.CapitalMovementResponse
	err := s.WithTellerLock(ctx, tellerID, func() error {
		return s.InTx(ctx, func(tx pgx.Tx) error {
			record, err := s.findActiveForUpdate(ctx, tx, tellerID, "close capital")
			if err != nil {
				return err
			}
			now := s.Now()
			record.Status = req.Status
			record.ClosedAt = &now
			txn, err := s.recordMovement(ctx, tx, record, domain.CapitalTxnClosing, decimal.Zero, req.Notes, actorID, now)
			if err != nil {
				return err
			}
			resp = &dto.CapitalMovementResponse{Capital: dto.ToCapitalResponse(record), Transaction: txn}
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close capital", slog.String("teller_id", tellerID))
		return nil, err
	}

	s.LogInfo(ctx, "Capital closed",
		slog.String("capital_id", resp.Capital.CapitalID),
		slog.String("status", string(req.Status)),
		slog.String("balance_remaining", resp.Capital.BalanceRemaining.String()))
	s.Emit(ctx, s.movementEvents(resp.Capital)...)
	return resp, nil
}

// CloseStaleCapital completes every active record opened before cutoff. Failures on one
// teller do not stop the others; they are returned joined.
func (s *capitalService) CloseStaleCapital(ctx context.Context, cutoff time.Time, actorID string) (int, error) {
	stale, err := s.capitalRepo.ListActiveCapitalOpenedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale capital: %w", err)
	}

	closed := 0
	var errs []error
	for _, record := range stale {
		req := dto.CloseCapitalRequest{Status: domain.CapitalCompleted, Notes: "closed at end of day"}
		_, err := s.CloseCapital(ctx, record.TellerID, req, actorID)
		switch {
		case err == nil:
			closed++
		case errors.Is(err, apperrors.ErrNotFound):
			// Closed by someone else in the meantime.
		default:
			errs = append(errs, fmt.Errorf("teller %s: %w", record.TellerID, err))
		}
	}

	s.LogInfo(ctx, "Stale capital closed",
		slog.Time("cutoff", cutoff),
		slog.Int("found", len(stale)),
		slog.Int("closed", closed),
		slog.Int("failed", len(errs)))
	return closed, errors.Join(errs...)
}

// GetActiveCapital retrieves the teller's active capital record.
func (s *capitalService) GetActiveCapital(ctx context.Context, tellerID string) (*domain.CapitalRecord, error) {
	record, err := s.capitalRepo.FindActiveCapitalByTeller(ctx, tellerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active capital record for teller %s", apperrors.ErrNotFound, tellerID)
		}
		return nil, err
	}
	return record, nil
}

// ListCapitalTransactions retrieves a page of the teller's ledger.
func (s *capitalService) ListCapitalTransactions(ctx context.Context, tellerID string, params dto.ListCapitalTransactionsParams) (*dto.ListCapitalTransactionsResponse, error) {
	limit := pagination.ClampLimit(params.Limit)
	txns, nextToken, err := s.capitalRepo.ListCapitalTransactions(ctx, tellerID, params.CapitalID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list capital transactions", slog.String("teller_id", tellerID))
		return nil, err
	}
	if txns == nil {
		txns = []domain.CapitalTransaction{}
	}
	return &dto.ListCapitalTransactionsResponse{Transactions: txns, NextToken: nextToken}, nil
}
