package analytics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racelog-analytics/log"
)

type metrics struct {
	duration metric.Float64Histogram
}

func newMetrics(mp metric.MeterProvider, l *log.Logger) *metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	duration, err := mp.Meter("racelog-analytics/service").Float64Histogram("analytics.operation.duration",
		metric.WithDescription("duration of analytics operations"),
		metric.WithUnit("s"))
	if err != nil {
		l.Warn("could not create histogram", log.ErrorField(err))
	}
	return &metrics{duration: duration}
}

// record is meant to be deferred at the start of an operation
func (m *metrics) record(ctx context.Context, operation string, start time.Time) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)))
}
