package types

import (
	"context"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// Row is a single backend row, keyed by column name.
//
// The scanner treats rows as opaque values and forwards them to the
// consumer exactly as the driver returned them.
type Row = map[string]any

// RowTuple is a positional tuple of rows, one per scanned table.
//
// Index i of the tuple holds the row from the i-th table passed to
// ScanMany. Pairing is positional, not key-based.
type RowTuple []Row

// RowConsumer receives one row per invocation during a single-table scan.
//
// The scanner awaits each invocation before delivering the next row or
// fetching the next page (backpressure). Returning a non-nil error halts
// the scan; the error is propagated to the caller wrapped in a ScanError.
type RowConsumer func(ctx context.Context, row Row) error

// TupleConsumer receives one positional row tuple per invocation during a
// synchronized multi-table scan. Same backpressure and error contract as
// RowConsumer.
type TupleConsumer func(ctx context.Context, tuple RowTuple) error

// Consistency represents the Cassandra consistency level.
type Consistency uint16

// Common consistency levels matching gocql.
const (
	Any         Consistency = 0x00
	One         Consistency = 0x01
	Two         Consistency = 0x02
	Three       Consistency = 0x03
	Quorum      Consistency = 0x04
	All         Consistency = 0x05
	LocalQuorum Consistency = 0x06
	EachQuorum  Consistency = 0x07
	Serial      Consistency = 0x08
	LocalSerial Consistency = 0x09
	LocalOne    Consistency = 0x0A
)

// FailureKind classifies a backend failure for retry decisions.
type FailureKind int

const (
	// FailureUnknown indicates an unclassified failure, or a retry-budget
	// probe where no error is available yet.
	FailureUnknown FailureKind = iota

	// FailureUnavailable indicates not enough replicas were reachable to
	// satisfy the requested consistency level.
	FailureUnavailable

	// FailureReadTimeout indicates a coordinator-side read timeout.
	FailureReadTimeout

	// FailureWriteTimeout indicates a coordinator-side write timeout.
	FailureWriteTimeout
)

// String returns a human-readable name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureUnavailable:
		return "unavailable"
	case FailureReadTimeout:
		return "read_timeout"
	case FailureWriteTimeout:
		return "write_timeout"
	case FailureUnknown:
		return "unknown"
	}

	return "invalid"
}

// RetryDecision is the outcome of a RetryPolicy decision.
type RetryDecision int

const (
	// Retry retries the request on the same replica and routing strategy.
	Retry RetryDecision = iota

	// RetryNextReplica retries the request on the next usable replica.
	RetryNextReplica

	// Rethrow surfaces the failure to the caller without retrying.
	Rethrow
)

// RetryAttempt describes one failed request for a RetryPolicy decision.
type RetryAttempt struct {
	// Kind classifies the failure. FailureUnknown is used for retry-budget
	// probes where the driver asks "may I retry at all?" before an error
	// is available; policies must not trigger side effects for it.
	Kind FailureKind

	// Attempts is the number of attempts already made for this request.
	Attempts int

	// Statement is the CQL statement text, when available.
	Statement string

	// Err is the underlying driver error, when available.
	Err error
}

// RetryPolicy decides whether and how a failed backend request is retried.
//
// The policy is invoked synchronously by the backend driver at the point
// of failure, before the failure ever reaches the page fetcher's backoff
// layer.
//
// Implementations MUST be safe for concurrent use; the driver may invoke
// Decide from multiple in-flight requests at once.
type RetryPolicy interface {
	// Decide returns the retry decision for the given failed attempt.
	//
	// Parameters:
	//   - attempt: Description of the failure
	//
	// Returns:
	//   - RetryDecision: Retry, RetryNextReplica, or Rethrow
	Decide(attempt RetryAttempt) RetryDecision
}

// ConnectionResetter force-closes and reopens a backend connection.
//
// Reset is fire-and-forget: it returns immediately and the reopen happens
// in the background, so a retry issued right after Reset may race the
// still-reopening connection. Callers must tolerate one extra failure
// cycle as a normal occurrence, not a fatal condition.
type ConnectionResetter interface {
	Reset()
}

// SkipRangeEvent describes a token range abandoned by the page fetcher
// after its backoff budget saturated against a stuck partition.
//
// Rows in [FromToken, ToToken) are permanently lost from the scan.
type SkipRangeEvent struct {
	// Table is the table being scanned.
	Table string

	// FromToken is the token the scan was stuck at.
	FromToken int64

	// ToToken is the token the scan resumed from.
	ToToken int64

	// Elapsed is the cumulative backoff delay spent before skipping.
	Elapsed time.Duration
}

// Sentinel errors for common failure scenarios.
var (
	// ErrNilSession indicates that a nil session or session provider was
	// supplied to a constructor.
	ErrNilSession = errors.New("cassandra: session cannot be nil")

	// ErrScannerClosed indicates an operation was attempted on a closed
	// scanner or session manager.
	ErrScannerClosed = errors.New("cassandra: scanner is closed")

	// ErrNoTables indicates ScanMany was called with an empty table list.
	ErrNoTables = errors.New("cassandra: no tables to scan")

	// ErrPageMismatch indicates the per-table pages of a synchronized
	// multi-table fetch diverged in row count, so positional pairing
	// would silently misalign data.
	ErrPageMismatch = errors.New("cassandra: page row counts diverged across tables")

	// ErrCheckpointNotFound indicates no checkpoint exists under the
	// requested name.
	ErrCheckpointNotFound = errors.New("cassandra: checkpoint not found")
)

// ScanError wraps a fatal scan failure with enough cursor state for exact
// resumption from a persisted cursor.
type ScanError struct {
	// Table is the table (or comma-joined tables) being scanned.
	Table string

	// Token is the last known partition token, nil if the scan had not
	// established one.
	Token *int64

	// PageState is the last known opaque continuation handle.
	PageState []byte

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	msg := "cassandra: scan of " + e.Table + " halted"
	if e.Token != nil {
		msg += " at token " + strconv.FormatInt(*e.Token, 10)
	}
	if len(e.PageState) > 0 {
		msg += " (page state " + hex.EncodeToString(e.PageState) + ")"
	}

	return msg + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// Logger is a minimal structured logging interface.
//
// It is compatible with zap.SugaredLogger: messages are accompanied by
// alternating key/value pairs.
type Logger interface {
	// Debug logs a debug-level message with key/value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with key/value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with key/value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with key/value pairs.
	Error(msg string, keysAndValues ...any)
}
