// Package policy provides retry policies for the table scanner.
package policy

import (
	"github.com/wikimedia/restbase-cassandra/internal/logging"
	"github.com/wikimedia/restbase-cassandra/types"
)

// ReconnectRetry implements the never-give-up retry policy for bulk scans.
//
// Every failure class is retried; the policy pushes all give-up logic into
// the page fetcher's backoff and skip-forward layer. On unavailable and
// read-timeout failures it additionally fires a connection reset before
// the retry decision is returned, to clear potentially poisoned socket
// state. The reset is fire-and-forget and the retry does not wait for it.
type ReconnectRetry struct {
	resetter types.ConnectionResetter
	logger   types.Logger
}

// Compile-time assertion that ReconnectRetry implements types.RetryPolicy.
var _ types.RetryPolicy = (*ReconnectRetry)(nil)

// ReconnectRetryOption configures a ReconnectRetry policy.
type ReconnectRetryOption func(*ReconnectRetry)

// WithResetter sets the connection resetter fired on unavailable and
// read-timeout failures. Without one the policy only decides retries.
//
// Parameters:
//   - resetter: The resetter, typically a cassandra.SessionManager
//
// Returns:
//   - ReconnectRetryOption: Configuration option
func WithResetter(resetter types.ConnectionResetter) ReconnectRetryOption {
	return func(p *ReconnectRetry) {
		p.resetter = resetter
	}
}

// WithLogger sets the logger for retry diagnostics.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - ReconnectRetryOption: Configuration option
func WithLogger(logger types.Logger) ReconnectRetryOption {
	return func(p *ReconnectRetry) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewReconnectRetry creates a new ReconnectRetry policy.
//
// Parameters:
//   - opts: Optional configuration options
//
// Returns:
//   - *ReconnectRetry: A new policy
func NewReconnectRetry(opts ...ReconnectRetryOption) *ReconnectRetry {
	p := &ReconnectRetry{
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Decide returns the retry decision for a failed attempt.
//
// Unavailable failures reset the connection and route the retry to the
// next usable replica. Read timeouts reset the connection and retry in
// place. Write timeouts retry in place without a reset. Unknown kinds
// retry without side effects; they include retry-budget probes where no
// error has occurred yet.
func (p *ReconnectRetry) Decide(attempt types.RetryAttempt) types.RetryDecision {
	switch attempt.Kind {
	case types.FailureUnavailable:
		p.reset()

		return types.RetryNextReplica
	case types.FailureReadTimeout:
		p.logger.Warn("read timed out, resetting connection before retry",
			"attempts", attempt.Attempts,
			"statement", attempt.Statement,
			"error", attempt.Err,
		)
		p.reset()

		return types.Retry
	case types.FailureWriteTimeout:
		return types.Retry
	case types.FailureUnknown:
		return types.Retry
	}

	return types.Retry
}

func (p *ReconnectRetry) reset() {
	if p.resetter != nil {
		p.resetter.Reset()
	}
}

// BoundedRetry retries up to a fixed number of attempts, then rethrows.
//
// It is an alternative to ReconnectRetry for callers that prefer failing
// a scan over waiting out a long outage.
type BoundedRetry struct {
	maxAttempts int
}

// Compile-time assertion that BoundedRetry implements types.RetryPolicy.
var _ types.RetryPolicy = (*BoundedRetry)(nil)

// NewBoundedRetry creates a policy allowing at most maxAttempts attempts
// per request.
//
// Parameters:
//   - maxAttempts: Attempt budget, values below 1 are treated as 1
//
// Returns:
//   - *BoundedRetry: A new policy
func NewBoundedRetry(maxAttempts int) *BoundedRetry {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &BoundedRetry{maxAttempts: maxAttempts}
}

// Decide retries until the attempt budget is spent, then rethrows.
func (p *BoundedRetry) Decide(attempt types.RetryAttempt) types.RetryDecision {
	if attempt.Attempts >= p.maxAttempts {
		return types.Rethrow
	}

	return types.Retry
}
