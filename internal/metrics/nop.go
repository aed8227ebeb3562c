// Package metrics provides internal metrics utilities for the scanner.
package metrics

import "github.com/wikimedia/restbase-cassandra/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is
// configured, avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// IncPageTotal discards the metric.
func (m *NopMetrics) IncPageTotal(_ string) {}

// IncPageError discards the metric.
func (m *NopMetrics) IncPageError(_ string) {}

// ObservePageDuration discards the metric.
func (m *NopMetrics) ObservePageDuration(_ string, _ float64) {}

// AddRowsDelivered discards the metric.
func (m *NopMetrics) AddRowsDelivered(_ string, _ int) {}

// IncRetryTotal discards the metric.
func (m *NopMetrics) IncRetryTotal(_ string) {}

// ObserveBackoffDelay discards the metric.
func (m *NopMetrics) ObserveBackoffDelay(_ string, _ float64) {}

// IncTokenSkip discards the metric.
func (m *NopMetrics) IncTokenSkip(_ string) {}

// IncConnectionReset discards the metric.
func (m *NopMetrics) IncConnectionReset() {}

// IncCheckpointSave discards the metric.
func (m *NopMetrics) IncCheckpointSave(_ string) {}

// IncCheckpointError discards the metric.
func (m *NopMetrics) IncCheckpointError(_ string) {}
