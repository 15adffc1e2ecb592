package wallet

// MetricsCollector records wallet operation outcomes. Metrics are optional;
// pass nil to NewService to disable collection.
type MetricsCollector interface {
	RecordTransaction(txType string, amount uint64)
	RecordError(operation string, errMsg string)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(txType string, amount uint64) {}
func (n *NoopMetricsCollector) RecordError(operation string, errMsg string)    {}
