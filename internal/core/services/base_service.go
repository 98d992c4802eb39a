package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/platform/logging"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct {
	TxManager portsrepo.TransactionManager
	Locker    portssvc.TellerLocker
	Events    portssvc.EventPublisher
	Clock     func() time.Time
	Location  *time.Location
}

// BaseOption configures the shared infrastructure of a service.
type BaseOption func(*BaseService)

// WithTellerLocker sets the lock used to serialise writes per teller.
func WithTellerLocker(locker portssvc.TellerLocker) BaseOption {
	return func(b *BaseService) {
		if locker != nil {
			b.Locker = locker
		}
	}
}

// WithEventPublisher sets the publisher for UI refresh events.
func WithEventPublisher(events portssvc.EventPublisher) BaseOption {
	return func(b *BaseService) {
		if events != nil {
			b.Events = events
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) BaseOption {
	return func(b *BaseService) {
		if clock != nil {
			b.Clock = clock
		}
	}
}

// WithLocation sets the business time zone that defines a payroll day.
func WithLocation(loc *time.Location) BaseOption {
	return func(b *BaseService) {
		if loc != nil {
			b.Location = loc
		}
	}
}

func newBaseService(txManager portsrepo.TransactionManager, opts ...BaseOption) BaseService {
	b := BaseService{
		TxManager: txManager,
		Locker:    noopLocker{},
		Events:    noopPublisher{},
		Clock:     time.Now,
		Location:  time.UTC,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return logging.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a recoverable problem with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	return s.Clock().UTC()
}

// Today returns midnight of the current business day, in the business time zone.
func (s *BaseService) Today() time.Time {
	return s.BusinessDay(s.Clock())
}

// BusinessDay truncates t to its day in the business time zone.
func (s *BaseService) BusinessDay(t time.Time) time.Time {
	return domain.DayOf(t.In(s.Location))
}

// WithTellerLock runs fn while holding the lock for the teller.
func (s *BaseService) WithTellerLock(ctx context.Context, tellerID string, fn func() error) error {
	release, err := s.Locker.Acquire(ctx, tellerID)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// InTx runs fn inside one database transaction, committing only if fn succeeds.
func (s *BaseService) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.TxManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op once committed.
		if rbErr := s.TxManager.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := s.TxManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Emit publishes events without letting delivery failures affect the caller.
func (s *BaseService) Emit(ctx context.Context, events ...domain.Event) {
	for _, event := range events {
		if event.OccurredAt.IsZero() {
			event.OccurredAt = s.Now()
		}
		if err := s.Events.Publish(ctx, event); err != nil {
			s.LogWarn(ctx, "Failed to publish event",
				slog.String("event_type", string(event.Type)),
				slog.String("user_id", event.UserID),
				slog.String("error", err.Error()))
		}
	}
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Event) error {
	return nil
}
