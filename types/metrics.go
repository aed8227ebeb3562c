package types

// MetricsCollector defines methods for collecting scan metrics.
//
// All table-scoped methods accept the table name for labeling.
// Implementations should be thread-safe as methods may be called
// concurrently from the fan-out fetches of a multi-table scan.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/wikimedia/restbase-cassandra/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("restbase"))
//	scanner, _ := cassandra.NewScanner(sessions,
//	    cassandra.WithMetrics(collector),
//	)
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Page Fetches
	// ----------------------

	// IncPageTotal increments the successful page fetch counter.
	IncPageTotal(table string)

	// IncPageError increments the failed page fetch attempt counter.
	IncPageError(table string)

	// ObservePageDuration records a successful page fetch duration in seconds.
	ObservePageDuration(table string, seconds float64)

	// ----------------------
	// Rows
	// ----------------------

	// AddRowsDelivered adds to the counter of rows delivered to the consumer.
	AddRowsDelivered(table string, n int)

	// ----------------------
	// Resilience
	// ----------------------

	// IncRetryTotal increments the backoff retry counter.
	IncRetryTotal(table string)

	// ObserveBackoffDelay records a single backoff delay in seconds.
	ObserveBackoffDelay(table string, seconds float64)

	// IncTokenSkip increments the counter of token ranges skipped after
	// backoff saturated. Each increment implies permanent data loss for
	// the skipped range.
	IncTokenSkip(table string)

	// IncConnectionReset increments the connection reset counter.
	IncConnectionReset()

	// ----------------------
	// Checkpoints
	// ----------------------

	// IncCheckpointSave increments the successful checkpoint save counter.
	IncCheckpointSave(name string)

	// IncCheckpointError increments the failed checkpoint save counter.
	IncCheckpointError(name string)
}
