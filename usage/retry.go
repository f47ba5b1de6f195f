package usage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v5"
)

// API error codes worth retrying. Anything else from the provider is treated
// as permanent and surfaced immediately.
var transientCodes = map[string]struct{}{
	"Throttling":                  {},
	"ThrottlingException":         {},
	"RequestLimitExceeded":        {},
	"TooManyRequestsException":    {},
	"RequestThrottledException":   {},
	"ServiceUnavailable":          {},
	"ServiceUnavailableException": {},
	"RequestTimeout":              {},
	"InternalError":               {},
}

// IsTransient reports whether err is a rate-limit or availability failure
// that may succeed on retry. Access-denied, not-found and other client
// faults are permanent.
func IsTransient(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if _, ok := transientCodes[apiErr.ErrorCode()]; ok {
		return true
	}
	return apiErr.ErrorFault() == smithy.FaultServer
}

// RetryPolicy bounds retries of individual provider calls.
type RetryPolicy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
}

// DefaultRetryPolicy matches the provider client's own standard-mode retry
// budget of five attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, InitialInterval: 500 * time.Millisecond}
}

// Call invokes fn with exponential backoff until it succeeds, returns a
// permanent error, or the attempt budget is spent.
func Call[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	operation := func() (T, error) {
		v, err := fn()
		if err != nil && !IsTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(policy.MaxAttempts))
}
