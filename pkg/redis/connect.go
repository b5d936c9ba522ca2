package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reservekit/pkg/logger"
)

// Connect opens a client and pings the server until it answers, retrying up
// to cfg.RetryAttempts times with cfg.RetryInterval between attempts. The
// whole procedure is bounded by cfg.ConnectTimeout. log may be nil.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		log.WarnContext(ctx, "redis not ready",
			logger.RetryCount(attempt),
			logger.Error(lastErr),
		)
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-timer.C:
		}
	}

	return nil, errors.Join(ErrRedisNotReady, lastErr)
}
