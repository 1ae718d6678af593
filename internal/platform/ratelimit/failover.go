package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"lexscreen/pkg/platform/circuit"
)

// Failover checks the primary store on every request and answers from the
// fallback while the breaker is open.
type Failover struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFailover(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *Failover {
	return &Failover{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (f *Failover) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	result, err := f.primary.Allow(ctx, key, limit, window)
	if err == nil {
		usePrimary, change := f.breaker.RecordSuccess()
		if change.Closed {
			f.logger.InfoContext(ctx, "rate limit store recovered", "breaker", f.breaker.Name())
		}
		if usePrimary {
			return result, nil
		}
		return f.fallback.Allow(ctx, key, limit, window)
	}

	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "rate limit store failing, using in-process fallback",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	if useFallback {
		return f.fallback.Allow(ctx, key, limit, window)
	}
	return Result{}, err
}
