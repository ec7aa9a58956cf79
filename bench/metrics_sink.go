package bench

import (
	"context"
)

// RowRecorder is the metrics side of a row.
type RowRecorder interface {
	RecordRow(ctx context.Context, structure string, n int, searchRemovalNanos, rebalanceNanos int64)
}

var _ Sink = (*MetricsSink)(nil)

type MetricsSink struct {
	recorder RowRecorder
}

func NewMetricsSink(recorder RowRecorder) *MetricsSink {
	return &MetricsSink{recorder: recorder}
}

func (sink *MetricsSink) Write(rows []Row) error {
	ctx := context.Background()
	for _, row := range rows {
		sink.recorder.RecordRow(ctx, row.Structure, row.N, row.SearchRemovalNanos, row.RebalanceNanos)
	}
	return nil
}

// Close is a no-op, the meter provider is flushed by its owner.
func (sink *MetricsSink) Close() error {
	return nil
}
