package cloudapi

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is an opt-in, caller-chosen retry discipline. Only 429 and
// 5xx responses are retried; validation, authentication and not-found
// failures are returned immediately. The zero value disables retries.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int

	// InitialInterval is the first backoff delay. Defaults to 1s.
	InitialInterval time.Duration

	// MaxInterval caps a single delay. Defaults to 30s.
	MaxInterval time.Duration
}

// Enabled reports whether any retry will be attempted.
func (p RetryPolicy) Enabled() bool {
	return p.MaxRetries > 0
}

func (p RetryPolicy) newBackOff() *retryAfterBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Second
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	exp.MaxInterval = 30 * time.Second
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0
	exp.Reset()
	return &retryAfterBackOff{BackOff: exp}
}

// run calls fn once, or up to MaxRetries more times on retryable errors.
func (p RetryPolicy) run(ctx context.Context, logger *log.Logger, fn func() ([]byte, error)) ([]byte, error) {
	if !p.Enabled() {
		return fn()
	}

	policy := p.newBackOff()
	var body []byte
	operation := func() error {
		var err error
		body, err = fn()
		if err == nil {
			return nil
		}
		var apiError *APIError
		if errors.As(err, &apiError) && apiError.Retryable() {
			policy.notBefore = apiError.RetryAfter
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		logger.Printf("retrying in %s: %v", wait.Round(time.Millisecond), err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(p.MaxRetries)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// retryAfterBackOff stretches the next delay to honor a Retry-After header.
type retryAfterBackOff struct {
	backoff.BackOff
	notBefore time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.notBefore > next {
		next = b.notBefore
	}
	b.notBefore = 0
	return next
}
