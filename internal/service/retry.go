package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/galleryhub/display-relay/internal/metrics"
	"go.uber.org/zap"
)

// retrier bounds every persistence call with exponential backoff. Once the
// attempts are used up the error is wrapped in ErrPersistence and the caller
// decides whether the process can go on.
type retrier struct {
	logger          *zap.Logger
	retries         uint64
	initialInterval time.Duration
}

func newRetrier(logger *zap.Logger, retries uint64, initialInterval time.Duration) *retrier {
	if initialInterval <= 0 {
		initialInterval = 200 * time.Millisecond
	}
	return &retrier{
		logger:          logger,
		retries:         retries,
		initialInterval: initialInterval,
	}
}

func (r *retrier) do(ctx context.Context, operation string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, r.retries), ctx)

	err := backoff.RetryNotify(fn, policy, func(err error, wait time.Duration) {
		metrics.PersistenceRetries.WithLabelValues(operation).Inc()
		r.logger.Sugar().Warnf("retrying %s in %s: %s", operation, wait, err.Error())
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersistence, operation, err)
	}

	return nil
}
