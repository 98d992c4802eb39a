package local

import (
	"context"
	"log/slog"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/platform/logging"
)

// LogPublisher writes events to the scoped logger instead of a broker.
type LogPublisher struct{}

var _ portssvc.EventPublisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	logging.GetLoggerFromCtx(ctx).Debug("Event emitted",
		slog.String("event_type", string(event.Type)),
		slog.String("user_id", event.UserID),
		slog.String("entity_id", event.EntityID),
	)
	return nil
}
