package leetcode

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// RetryPolicy bounds how transient failures are retried.
type RetryPolicy struct {
	MaxRetries int           // additional attempts after the first
	Base       time.Duration // first backoff interval
	Cap        time.Duration // backoff ceiling
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Base
	b.MaxInterval = p.Cap
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// withRetry runs fn until it succeeds, fails with a non-retryable error,
// or the policy is exhausted. The last error is returned unchanged.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err == nil || IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		c.metrics.retried(op)
		c.logger.WithError(err).WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("Upstream request failed, retrying")
	}

	return backoff.RetryNotify(operation, c.retry.backOff(ctx), notify)
}
