package notify

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/retry"
)

// RetryingPublisher retries failed publications according to a backoff policy.
type RetryingPublisher struct {
	next   Publisher
	policy retry.Policy
}

// WithRetry wraps next. A policy without retries returns next unchanged.
func WithRetry(next Publisher, policy retry.Policy) Publisher {
	if policy.MaxRetries == 0 {
		return next
	}
	return &RetryingPublisher{next: next, policy: policy}
}

// Publish delivers msg, retrying on failure until the policy is exhausted.
func (p *RetryingPublisher) Publish(ctx context.Context, msg Generated) error {
	return p.policy.Do(ctx, func() error {
		return p.next.Publish(ctx, msg)
	}, func(attempt int, delay time.Duration, err error) {
		slog.WarnContext(ctx, "Publish failed, retrying",
			logfields.BuildID(msg.BuildID),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			logfields.Error(err))
	})
}

// Close closes the wrapped publisher.
func (p *RetryingPublisher) Close() {
	p.next.Close()
}
