package record

import (
	"time"

	"github.com/trancendwear/trancend/config"
	"github.com/trancendwear/trancend/pkg/logger"
	"github.com/trancendwear/trancend/pkg/metrics"
)

// CallOption tweaks a single Call invocation.
type CallOption func(*callOptions)

type callOptions struct {
	attempts int
	backoff  time.Duration
}

// Attempts overrides the total attempt budget (default RETRY_ATTEMPTS).
func Attempts(n int) CallOption {
	return func(o *callOptions) {
		if n >= 1 {
			o.attempts = n
		}
	}
}

// Backoff overrides the base backoff unit (default RETRY_BACKOFF).
// Attempt n waits n × backoff before the next try.
func Backoff(d time.Duration) CallOption {
	return func(o *callOptions) { o.backoff = d }
}

// Call invokes op with bounded retries and returns fallback when every
// attempt fails. It never returns an error:
//
//   - success → the operation's result, immediately;
//   - 4xx backend response → abort at once, these are not fixed by
//     repeating the request;
//   - anything else → linear backoff (backoff × attempt number), retry
//     while attempts remain;
//   - exhaustion → fallback, so every caller always receives a value of
//     the expected shape and read paths never surface a hard error.
func Call[T any](op func() (T, error), fallback T, opts ...CallOption) T {
	o := callOptions{
		attempts: config.RetryAttempts(),
		backoff:  config.RetryBackoff(),
	}
	for _, apply := range opts {
		apply(&o)
	}

	for attempt := 1; attempt <= o.attempts; attempt++ {
		out, err := op()
		if err == nil {
			return out
		}

		logger.Warn("record: call failed",
			"attempt", attempt, "status", StatusOf(err), "error", err)

		if IsClientError(err) {
			break
		}
		if attempt < o.attempts {
			metrics.BackendRetries.Inc()
			time.Sleep(time.Duration(attempt) * o.backoff)
		}
	}

	metrics.BackendFallbacks.Inc()
	return fallback
}
