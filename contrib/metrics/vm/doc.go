// Package vm provides a VictoriaMetrics-based implementation of the
// MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with the default prefix "cassandra_scan":
//
//	collector := vm.New()
//	scanner, _ := cassandra.NewScanner(provider,
//	    cassandra.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("restbase_dump"))
//
// This produces metrics like:
//   - restbase_dump_pages_total{table="data"}
//   - restbase_dump_backoff_delay_seconds{table="data"}
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Page fetches:
//   - {prefix}_pages_total{table} - Counter of successful page fetches
//   - {prefix}_page_errors_total{table} - Counter of failed fetch attempts
//   - {prefix}_page_duration_seconds{table} - Histogram of fetch durations
//
// Rows:
//   - {prefix}_rows_delivered_total{table} - Counter of rows handed to the consumer
//
// Resilience:
//   - {prefix}_retries_total{table} - Counter of backoff retries
//   - {prefix}_backoff_delay_seconds{table} - Histogram of backoff delays
//   - {prefix}_token_skips_total{table} - Counter of skipped token ranges
//   - {prefix}_connection_resets_total - Counter of session resets
//
// Checkpoints:
//   - {prefix}_checkpoint_saves_total{name} - Counter of saved checkpoints
//   - {prefix}_checkpoint_errors_total{name} - Counter of failed saves
//
// Token skips imply permanent data loss for the skipped range; alert on
// {prefix}_token_skips_total.
package vm
