// Package tire models the lap time loss caused by tire wear.
package tire

import "math"

const DefaultMaxDegradation = 0.25

type (
	Option func(*Model)
	// Model is a compounding wear model:
	// degradation(n) = min(1 - (1-rate)^n, maxDegradation)
	// where n is the number of laps completed on the tire set.
	Model struct {
		rate           float64
		maxDegradation float64
		baseLapTime    float64
	}
)

// WithMaxDegradation caps the degradation. Values <= 0 disable the cap.
func WithMaxDegradation(v float64) Option {
	return func(m *Model) {
		if v <= 0 {
			m.maxDegradation = 1
			return
		}
		m.maxDegradation = v
	}
}

// WithBaseLapTime sets the lap time in seconds on a fresh tire set
func WithBaseLapTime(v float64) Option {
	return func(m *Model) {
		m.baseLapTime = v
	}
}

func NewModel(rate float64, opts ...Option) *Model {
	m := &Model{rate: rate, maxDegradation: DefaultMaxDegradation}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Rate() float64 {
	return m.rate
}

func (m *Model) BaseLapTime() float64 {
	return m.baseLapTime
}

// Degradation returns the relative lap time loss after laps completed
// laps on the same set. Never negative, never above the configured cap.
func (m *Model) Degradation(laps int) float64 {
	if m.rate <= 0 || laps <= 0 {
		return 0
	}
	var d float64
	if m.rate >= 1 {
		d = 1
	} else {
		d = 1 - math.Pow(1-m.rate, float64(laps))
	}
	return math.Min(d, m.maxDegradation)
}

// LapTime returns the lap time on a set with age completed laps
func (m *Model) LapTime(age int) float64 {
	return m.baseLapTime * (1 + m.Degradation(age))
}

// StintTime returns the time needed for laps laps starting on a set
// which already completed startAge laps.
func (m *Model) StintTime(startAge, laps int) float64 {
	sum := 0.0
	for i := range laps {
		sum += m.LapTime(startAge + i)
	}
	return sum
}

// CumulativeStintTimes returns prefix sums of stint times.
// ret[k] is the time for k laps starting with a set of age startAge.
func (m *Model) CumulativeStintTimes(startAge, laps int) []float64 {
	ret := make([]float64, laps+1)
	for i := range laps {
		ret[i+1] = ret[i] + m.LapTime(startAge+i)
	}
	return ret
}
