package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
	"pantry/internal/ports"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

// WithRetry runs fn with exponential backoff while it fails with a retryable
// error. The last error is returned once attempts run out.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if ctx == nil {
		return zero, errors.New("context is required")
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, errs.Wrap(err, "check context")
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.BaseDelay * time.Duration(1<<attempt)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		logging.Debug(ctx, "retrying model call",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.Any("err", errs.Loggable(err)),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errs.Wrap(ctx.Err(), "wait retry backoff")
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// RetryingGenerator decorates a TextGenerator with WithRetry.
type RetryingGenerator struct {
	next ports.TextGenerator
	cfg  RetryConfig
}

var _ ports.TextGenerator = (*RetryingGenerator)(nil)

func NewRetryingGenerator(next ports.TextGenerator, cfg RetryConfig) *RetryingGenerator {
	return &RetryingGenerator{next: next, cfg: cfg}
}

func (g *RetryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return WithRetry(ctx, g.cfg, func(ctx context.Context) (string, error) {
		return g.next.Generate(ctx, prompt)
	})
}
