package cassandra

import (
	"math/rand"
	"time"

	"github.com/wikimedia/restbase-cassandra/internal/logging"
	"github.com/wikimedia/restbase-cassandra/internal/metrics"
	"github.com/wikimedia/restbase-cassandra/types"
)

// RangeSkippedHandler is called when the page fetcher abandons a token
// range after its backoff budget saturated. This callback allows
// applications to record or alert on the permanent data loss.
//
// Parameters:
//   - event: Description of the skipped range
type RangeSkippedHandler func(event types.SkipRangeEvent)

// ScanConfig holds configuration for scanners.
type ScanConfig struct {
	PageSize       int
	RetryPageSize  int
	BackoffUnit    time.Duration
	BackoffCeiling time.Duration
	TokenStride    int64
	Consistency    types.Consistency
	PartitionKeys  []string
	Checkpointer   Checkpointer
	CheckpointKey  string
	OnRangeSkipped RangeSkippedHandler
	LenientTuples  bool
	Metrics        MetricsCollector
	Logger         types.Logger
	Rand           *rand.Rand
}

// DefaultScanConfig returns a ScanConfig with production defaults.
//
// Defaults:
//   - PageSize: 50 rows per page, dropped to RetryPageSize (1) while a
//     page is being retried after a failure
//   - BackoffUnit: 100ms base delay, doubled per consecutive failure
//   - BackoffCeiling: 20s cumulative delay before the stuck token range
//     is skipped
//   - TokenStride: 500000000 token units per skip
//   - Consistency: One, trading staleness for availability on large scans
//   - PartitionKeys: ["_domain", "key"], quoted as the column names
//     require
//
// Returns:
//   - *ScanConfig: Configuration with default settings
func DefaultScanConfig() *ScanConfig {
	return &ScanConfig{
		PageSize:       50,
		RetryPageSize:  1,
		BackoffUnit:    100 * time.Millisecond,
		BackoffCeiling: 20 * time.Second,
		TokenStride:    500000000,
		Consistency:    types.One,
		PartitionKeys:  []string{`"_domain"`, "key"},
		Metrics:        metrics.NewNopMetrics(),
		Logger:         logging.NewNopLogger(),
	}
}

// Option configures a ScanConfig.
type Option func(*ScanConfig)

// WithPageSize sets the page size for normal fetches.
//
// Parameters:
//   - n: Rows per page, must be positive
//
// Returns:
//   - Option: Configuration option
func WithPageSize(n int) Option {
	return func(c *ScanConfig) {
		if n > 0 {
			c.PageSize = n
		}
	}
}

// WithRetryPageSize sets the reduced page size used while a failed page is
// being retried. A size of 1 minimizes coordinator load against partitions
// that time out under the normal page size.
//
// Parameters:
//   - n: Rows per page during retries, must be positive
//
// Returns:
//   - Option: Configuration option
func WithRetryPageSize(n int) Option {
	return func(c *ScanConfig) {
		if n > 0 {
			c.RetryPageSize = n
		}
	}
}

// WithBackoffUnit sets the base delay of the exponential backoff.
//
// The k-th consecutive failure of a page sleeps unit * 2^k plus a jitter
// drawn uniformly from [0, unit), capped at the backoff ceiling.
//
// Parameters:
//   - unit: Base delay
//
// Returns:
//   - Option: Configuration option
func WithBackoffUnit(unit time.Duration) Option {
	return func(c *ScanConfig) {
		if unit > 0 {
			c.BackoffUnit = unit
		}
	}
}

// WithBackoffCeiling sets the cumulative backoff budget per page.
//
// Once the summed delays for one page exceed the ceiling, the fetcher
// skips the token range forward instead of retrying further.
//
// Parameters:
//   - ceiling: Cumulative delay budget
//
// Returns:
//   - Option: Configuration option
func WithBackoffCeiling(ceiling time.Duration) Option {
	return func(c *ScanConfig) {
		if ceiling > 0 {
			c.BackoffCeiling = ceiling
		}
	}
}

// WithTokenStride sets the token increment applied when a stuck range is
// skipped.
//
// Parameters:
//   - stride: Token units to jump forward, must be positive
//
// Returns:
//   - Option: Configuration option
func WithTokenStride(stride int64) Option {
	return func(c *ScanConfig) {
		if stride > 0 {
			c.TokenStride = stride
		}
	}
}

// WithConsistency sets the consistency level for page reads.
//
// Parameters:
//   - consistency: Consistency level (default One)
//
// Returns:
//   - Option: Configuration option
func WithConsistency(consistency types.Consistency) Option {
	return func(c *ScanConfig) {
		c.Consistency = consistency
	}
}

// WithPartitionKeys sets the partition key columns used in token()
// predicates. The order must match the table's partition key definition,
// and names needing CQL quoting must be passed quoted.
//
// Parameters:
//   - columns: Partition key column names
//
// Returns:
//   - Option: Configuration option
func WithPartitionKeys(columns ...string) Option {
	return func(c *ScanConfig) {
		if len(columns) > 0 {
			c.PartitionKeys = columns
		}
	}
}

// WithCheckpointer sets a checkpoint store that receives the cursor after
// every delivered page. Checkpoint failures are logged and counted but do
// not halt the scan.
//
// Parameters:
//   - cp: The checkpoint store
//
// Returns:
//   - Option: Configuration option
func WithCheckpointer(cp Checkpointer) Option {
	return func(c *ScanConfig) {
		c.Checkpointer = cp
	}
}

// WithCheckpointKey sets the name checkpoints are saved under. When empty
// the scanned table name is used.
//
// Parameters:
//   - key: Checkpoint name
//
// Returns:
//   - Option: Configuration option
func WithCheckpointKey(key string) Option {
	return func(c *ScanConfig) {
		c.CheckpointKey = key
	}
}

// WithOnRangeSkipped sets the handler invoked when a token range is
// abandoned. The handler runs synchronously on the scan goroutine before
// the scan resumes past the skipped range.
//
// Parameters:
//   - handler: The skip handler
//
// Returns:
//   - Option: Configuration option
func WithOnRangeSkipped(handler RangeSkippedHandler) Option {
	return func(c *ScanConfig) {
		c.OnRangeSkipped = handler
	}
}

// WithLenientPageAlignment makes ScanMany pair rows up to the shortest
// page instead of failing when the per-table pages diverge in row count.
//
// Use this only when the scanned tables are known to drift, and only when
// positional misalignment after a short page is acceptable.
//
// Returns:
//   - Option: Configuration option
func WithLenientPageAlignment() Option {
	return func(c *ScanConfig) {
		c.LenientTuples = true
	}
}

// WithMetrics sets the metrics collector.
//
// Parameters:
//   - collector: The metrics collector (e.g., vm.Collector)
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector MetricsCollector) Option {
	return func(c *ScanConfig) {
		if collector != nil {
			c.Metrics = collector
		}
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(c *ScanConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithRand sets the random source used for backoff jitter. Intended for
// deterministic tests; production scanners seed their own source.
//
// Parameters:
//   - r: Random source
//
// Returns:
//   - Option: Configuration option
func WithRand(r *rand.Rand) Option {
	return func(c *ScanConfig) {
		if r != nil {
			c.Rand = r
		}
	}
}
