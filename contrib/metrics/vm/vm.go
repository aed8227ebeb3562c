package vm

import (
	"fmt"
	"io"
	"net/http"

	"github.com/VictoriaMetrics/metrics"

	"github.com/wikimedia/restbase-cassandra/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "cassandra_scan"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead
// of creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// Table-scoped metrics are labeled by table name and created on first use,
// since the set of scanned tables is not known at initialization. Metric
// lookup goes through the set's get-or-create path, which is thread-safe
// and cheap after the first call.
type Collector struct {
	set    *metrics.Set
	prefix string
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// Without WithMetricsSet the collector creates its own metrics.Set and
// registers it globally, so the metrics appear in the default
// metrics.WritePrometheus output.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("restbase_dump"))
//	scanner, _ := cassandra.NewScanner(provider,
//	    cassandra.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: "cassandra_scan",
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	return c
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns metrics in Prometheus format over HTTP.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given
// writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

func (c *Collector) tableCounter(name, table string) *metrics.Counter {
	return c.set.GetOrCreateCounter(fmt.Sprintf(`%s_%s{table=%q}`, c.prefix, name, table))
}

func (c *Collector) tableHistogram(name, table string) *metrics.Histogram {
	return c.set.GetOrCreateHistogram(fmt.Sprintf(`%s_%s{table=%q}`, c.prefix, name, table))
}

// ----------------------
// Page Fetches
// ----------------------

// IncPageTotal increments the successful page fetch counter.
func (c *Collector) IncPageTotal(table string) {
	c.tableCounter("pages_total", table).Inc()
}

// IncPageError increments the failed page fetch attempt counter.
func (c *Collector) IncPageError(table string) {
	c.tableCounter("page_errors_total", table).Inc()
}

// ObservePageDuration records a successful page fetch duration in seconds.
func (c *Collector) ObservePageDuration(table string, seconds float64) {
	c.tableHistogram("page_duration_seconds", table).Update(seconds)
}

// ----------------------
// Rows
// ----------------------

// AddRowsDelivered adds to the counter of rows delivered to the consumer.
func (c *Collector) AddRowsDelivered(table string, n int) {
	c.tableCounter("rows_delivered_total", table).Add(n)
}

// ----------------------
// Resilience
// ----------------------

// IncRetryTotal increments the backoff retry counter.
func (c *Collector) IncRetryTotal(table string) {
	c.tableCounter("retries_total", table).Inc()
}

// ObserveBackoffDelay records a single backoff delay in seconds.
func (c *Collector) ObserveBackoffDelay(table string, seconds float64) {
	c.tableHistogram("backoff_delay_seconds", table).Update(seconds)
}

// IncTokenSkip increments the counter of token ranges skipped after
// backoff saturated.
func (c *Collector) IncTokenSkip(table string) {
	c.tableCounter("token_skips_total", table).Inc()
}

// IncConnectionReset increments the connection reset counter.
func (c *Collector) IncConnectionReset() {
	c.set.GetOrCreateCounter(c.prefix + "_connection_resets_total").Inc()
}

// ----------------------
// Checkpoints
// ----------------------

// IncCheckpointSave increments the successful checkpoint save counter.
func (c *Collector) IncCheckpointSave(name string) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_checkpoint_saves_total{name=%q}`, c.prefix, name)).Inc()
}

// IncCheckpointError increments the failed checkpoint save counter.
func (c *Collector) IncCheckpointError(name string) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_checkpoint_errors_total{name=%q}`, c.prefix, name)).Inc()
}
