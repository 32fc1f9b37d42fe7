package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxBackoffInterval   = 5 * time.Second
	// Retry-After values beyond this are clamped so a single day cannot stall a request.
	maxRetryAfter = 30 * time.Second
)

// retryingProvider wraps a ScheduleProvider with bounded exponential backoff.
type retryingProvider struct {
	inner        ScheduleProvider
	logger       *slog.Logger
	recorder     *metrics.Recorder
	providerName string
	maxAttempts  int
	newBackOff   func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/initialBackoff are <= 0, defaults are used.
func NewRetryingProvider(inner ScheduleProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initialBackoff time.Duration) ScheduleProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initialBackoff <= 0 {
		initialBackoff = defaultBackoff
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		recorder:     recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initialBackoff
			b.MaxInterval = maxBackoffInterval
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	if r == nil || r.inner == nil {
		return nil, ErrProviderUnavailable
	}

	policy := &retryAfterBackOff{
		BackOff: backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)),
	}

	var games []domaingames.Game
	attempt := 0
	op := func() error {
		attempt++
		start := time.Now()
		result, err := r.inner.FetchGames(ctx, date)
		r.recorder.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			games = result
			return nil
		}
		if ctx.Err() != nil || isPermanent(err) {
			return backoff.Permanent(err)
		}
		if rlErr, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(r.providerName, rlErr.RetryAfter)
			policy.pending = rlErr.RetryAfter
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.String(logging.FieldDate, date),
			slog.Duration("delay", delay),
			slog.Any("err", err),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed",
			slog.Int("attempts", attempt),
			slog.String(logging.FieldDate, date),
			slog.Any("err", err),
		)
		return nil, err
	}
	return games, nil
}

// retryAfterBackOff honors an upstream Retry-After in place of the computed delay
// when it is longer, while the wrapped policy still bounds the number of retries.
type retryAfterBackOff struct {
	backoff.BackOff
	pending time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	pending := b.pending
	b.pending = 0
	if next == backoff.Stop {
		return backoff.Stop
	}
	if pending > maxRetryAfter {
		pending = maxRetryAfter
	}
	if pending > next {
		return pending
	}
	return next
}
