package cassandra

import (
	"context"

	"github.com/wikimedia/restbase-cassandra/types"
)

// Aliases for types defined in the types package, re-exported so that most
// applications only need to import the root package.
type (
	// Cursor is the serializable position of one logical scan.
	Cursor = types.Cursor

	// Row is a single backend row, keyed by column name.
	Row = types.Row

	// RowTuple is a positional tuple of rows, one per scanned table.
	RowTuple = types.RowTuple

	// RowConsumer receives one row per invocation during a scan.
	RowConsumer = types.RowConsumer

	// TupleConsumer receives one row tuple per invocation during a
	// synchronized multi-table scan.
	TupleConsumer = types.TupleConsumer

	// Logger is the minimal structured logging interface.
	Logger = types.Logger

	// MetricsCollector collects scan metrics.
	MetricsCollector = types.MetricsCollector

	// RetryPolicy decides whether and how a failed request is retried.
	RetryPolicy = types.RetryPolicy

	// RetryAttempt describes one failed request for a RetryPolicy.
	RetryAttempt = types.RetryAttempt

	// RetryDecision is the outcome of a RetryPolicy decision.
	RetryDecision = types.RetryDecision

	// FailureKind classifies a backend failure.
	FailureKind = types.FailureKind

	// Consistency represents the Cassandra consistency level.
	Consistency = types.Consistency

	// SkipRangeEvent describes a token range abandoned by the fetcher.
	SkipRangeEvent = types.SkipRangeEvent

	// ScanError wraps a fatal scan failure with resumption state.
	ScanError = types.ScanError
)

// Consistency levels re-exported from the types package.
const (
	Any         = types.Any
	One         = types.One
	Two         = types.Two
	Three       = types.Three
	Quorum      = types.Quorum
	All         = types.All
	LocalQuorum = types.LocalQuorum
	EachQuorum  = types.EachQuorum
	Serial      = types.Serial
	LocalSerial = types.LocalSerial
	LocalOne    = types.LocalOne
)

// Retry decisions re-exported from the types package.
const (
	Retry            = types.Retry
	RetryNextReplica = types.RetryNextReplica
	Rethrow          = types.Rethrow
)

// Failure kinds re-exported from the types package.
const (
	FailureUnknown      = types.FailureUnknown
	FailureUnavailable  = types.FailureUnavailable
	FailureReadTimeout  = types.FailureReadTimeout
	FailureWriteTimeout = types.FailureWriteTimeout
)

// Sentinel errors re-exported from the types package.
var (
	ErrNilSession         = types.ErrNilSession
	ErrScannerClosed      = types.ErrScannerClosed
	ErrNoTables           = types.ErrNoTables
	ErrPageMismatch       = types.ErrPageMismatch
	ErrCheckpointNotFound = types.ErrCheckpointNotFound
)

// NewCursor returns an empty cursor that scans a table from the beginning.
func NewCursor() *Cursor {
	return types.NewCursor()
}

// NewTokenCursor returns a cursor positioned at the given partition token.
func NewTokenCursor(token int64) *Cursor {
	return types.NewTokenCursor(token)
}

// NewSeedCursor returns a cursor whose initial token is derived from the
// given domain and key via the backend's token() hashing.
func NewSeedCursor(domain, key string) *Cursor {
	return types.NewSeedCursor(domain, key)
}

// Checkpointer persists scan cursors so that interrupted scans can resume
// from their last delivered page.
//
// Implementations live in the checkpoint package (in-memory, NATS
// JetStream key-value). Save is called by the scanner after every
// delivered page; a failed save is logged and counted but never halts the
// scan.
type Checkpointer interface {
	// Save persists the cursor under the given name, replacing any
	// previous checkpoint with that name.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - name: Checkpoint name, unique per logical scan
	//   - cursor: Cursor snapshot to persist
	//
	// Returns:
	//   - error: Non-nil if the checkpoint could not be persisted
	Save(ctx context.Context, name string, cursor types.Cursor) error

	// Load retrieves the most recent cursor saved under the given name.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - name: Checkpoint name
	//
	// Returns:
	//   - types.Cursor: The restored cursor
	//   - error: types.ErrCheckpointNotFound if no checkpoint exists
	Load(ctx context.Context, name string) (types.Cursor, error)

	// Close releases resources held by the checkpoint store.
	Close() error
}
