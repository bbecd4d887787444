package tire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_Degradation(t *testing.T) {
	tests := []struct {
		name  string
		model *Model
		laps  int
		want  float64
	}{
		{"fresh set", NewModel(0.02), 0, 0},
		{"one lap", NewModel(0.02), 1, 0.02},
		{"compounding", NewModel(0.02), 2, 1 - 0.98*0.98},
		{"capped", NewModel(0.02), 50, DefaultMaxDegradation},
		{"custom cap", NewModel(0.02, WithMaxDegradation(0.1)), 10, 0.1},
		{"uncapped", NewModel(0.02, WithMaxDegradation(0)), 50, 1 - math.Pow(0.98, 50)},
		{"zero rate", NewModel(0), 30, 0},
		{"negative rate", NewModel(-0.01), 30, 0},
		{"negative laps", NewModel(0.02), -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.model.Degradation(tt.laps), 1e-12)
		})
	}
}

func TestModel_DegradationMonotonic(t *testing.T) {
	m := NewModel(0.03)
	prev := 0.0
	for n := range 100 {
		d := m.Degradation(n)
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, DefaultMaxDegradation)
		prev = d
	}
}

func TestModel_LapTime(t *testing.T) {
	m := NewModel(0.02, WithBaseLapTime(98.0))
	assert.InDelta(t, 98.0, m.LapTime(0), 1e-9)
	assert.InDelta(t, 98.0*1.02, m.LapTime(1), 1e-9)
	assert.InDelta(t, 98.0+98.0*1.02, m.StintTime(0, 2), 1e-9)

	cum := m.CumulativeStintTimes(3, 4)
	assert.Len(t, cum, 5)
	assert.InDelta(t, m.StintTime(3, 4), cum[4], 1e-9)
	assert.InDelta(t, m.StintTime(3, 2), cum[2], 1e-9)
}
