package api

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

func samples(n int) []model.TelemetrySample {
	ret := make([]model.TelemetrySample, n)
	for i := range ret {
		ret[i] = model.TelemetrySample{Distance: float64(i)}
	}
	return ret
}

func TestTelemetryQuerySample(t *testing.T) {
	tests := []struct {
		name string
		opts []TelemetryOption
		in   int
		want []float64
	}{
		{"default", nil, 3, []float64{0, 1, 2}},
		{"rate 1", []TelemetryOption{WithSampleRate(1)}, 3, []float64{0, 1, 2}},
		{"rate 0", []TelemetryOption{WithSampleRate(0)}, 2, []float64{0, 1}},
		{"rate 5", []TelemetryOption{WithSampleRate(5)}, 12, []float64{0, 5, 10}},
		{"empty", []TelemetryOption{WithSampleRate(5)}, 0, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTelemetryQuery(tt.opts...).Sample(samples(tt.in))
			dist := make([]float64, len(got))
			for i := range got {
				dist[i] = got[i].Distance
			}
			assert.DeepEqual(t, tt.want, dist)
		})
	}
}

func TestWithLap(t *testing.T) {
	q := NewTelemetryQuery(WithLap(4), WithSampleRate(5))
	assert.Equal(t, 4, q.Lap)
	assert.Equal(t, 5, q.SampleRate)
}
