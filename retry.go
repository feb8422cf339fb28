package weft

import "time"

// RetryBuilder provides a fluent way to construct RetryStrategy values for
// use with NewRetry and PipelineBuilder.StepWithRetry.
type RetryBuilder struct {
	strategy RetryStrategy
}

// Retry creates a RetryBuilder with the given maxRetries (additional
// attempts after the first).
//
// maxRetries < 0 is treated as 0 (no retries).
func Retry(maxRetries int) RetryBuilder {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return RetryBuilder{
		strategy: RetryStrategy{
			MaxRetries: maxRetries,
		},
	}
}

// WithExponentialBackoff configures exponential backoff:
//
//   - base is the delay before the first retry.
//   - multiplier > 1 grows the delay each attempt (default 2.0 if <= 0).
//   - max caps the delay; if <= 0, there is no cap.
//
// Example:
//
//	Retry(3).WithExponentialBackoff(100*time.Millisecond, 2.0, 2*time.Second)
func (r RetryBuilder) WithExponentialBackoff(base time.Duration, multiplier float64, max time.Duration) RetryBuilder {
	s := r.strategy
	s.Base = base
	s.Max = max
	if multiplier <= 0 {
		multiplier = 2.0
	}
	s.Multiplier = multiplier
	return RetryBuilder{strategy: s}
}

// WithConstantBackoff configures a constant backoff between retries.
//
// This is equivalent to an exponential backoff with multiplier 1.0 and no
// max cap.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	s := r.strategy
	s.Base = delay
	s.Max = 0
	s.Multiplier = 1.0
	return RetryBuilder{strategy: s}
}

// WithJitter randomizes each computed delay uniformly in [d/2, d].
func (r RetryBuilder) WithJitter() RetryBuilder {
	s := r.strategy
	s.Jitter = true
	return RetryBuilder{strategy: s}
}

// Immediate disables any sleep between retries.
// Retries still respect MaxRetries.
func (r RetryBuilder) Immediate() RetryBuilder {
	s := r.strategy
	s.Base = 0
	s.Max = 0
	s.Multiplier = 0
	s.Jitter = false
	return RetryBuilder{strategy: s}
}

// Strategy returns the underlying RetryStrategy.
func (r RetryBuilder) Strategy() RetryStrategy {
	return r.strategy
}
