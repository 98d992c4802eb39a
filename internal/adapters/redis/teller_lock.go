package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/platform/logging"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix      = "teller_payroll:lock:"
	defaultRetryPeriod = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TellerLock is a TellerLocker backed by Redis SET NX PX.
// The TTL bounds how long a crashed holder can block a teller.
type TellerLock struct {
	client *goredis.Client
	ttl    time.Duration
	retry  time.Duration
}

var _ portssvc.TellerLocker = (*TellerLock)(nil)

// NewTellerLock creates a Redis-backed teller lock.
func NewTellerLock(client *goredis.Client, ttl time.Duration) *TellerLock {
	return &TellerLock{client: client, ttl: ttl, retry: defaultRetryPeriod}
}

// Acquire polls until the lock is taken, the TTL has elapsed once, or ctx ends.
func (l *TellerLock) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, apperrors.NewAppError(500, "failed to acquire teller lock", err)
		}
		if ok {
			return l.releaseFunc(ctx, redisKey, token), nil
		}
		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: teller %s is busy with another operation", apperrors.ErrConflict, key)
		case <-ticker.C:
		}
	}
}

func (l *TellerLock) releaseFunc(ctx context.Context, redisKey, token string) func() {
	logger := logging.GetLoggerFromCtx(ctx)
	return func() {
		// The caller's ctx may already be cancelled; release must still run.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			logger.Warn("Failed to release teller lock; it will expire on its own",
				slog.String("key", redisKey), slog.String("error", err.Error()))
		}
	}
}
