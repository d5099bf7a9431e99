package domain

import "time"

// RetryOptions controls re-execution of failed statements. Only errors for
// which Match returns true are retried; a nil Match retries nothing.
type RetryOptions struct {
	// Max is the total number of attempts, including the first. Values
	// below 1 are treated as 1.
	Max int

	// Backoff is the delay before the second attempt.
	Backoff time.Duration

	// BackoffFactor multiplies the delay after each attempt. Values below 1
	// are treated as 1 (constant backoff).
	BackoffFactor float64

	// Match decides whether an error is retryable.
	Match func(error) bool
}

// Attempts returns the effective attempt budget.
func (r *RetryOptions) Attempts() int {
	if r == nil || r.Max < 1 {
		return 1
	}
	return r.Max
}

// Delay returns the backoff before the given 1-based retry attempt.
func (r *RetryOptions) Delay(attempt int) time.Duration {
	if r == nil || r.Backoff <= 0 {
		return 0
	}
	d := r.Backoff
	factor := r.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * factor)
	}
	return d
}

// Retryable reports whether err matches the retry predicate.
func (r *RetryOptions) Retryable(err error) bool {
	if r == nil || r.Match == nil || err == nil {
		return false
	}
	return r.Match(err)
}
