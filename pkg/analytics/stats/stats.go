// Package stats computes per driver lap and telemetry statistics.
package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

const (
	DefaultMaxLapFactor = 1.5
	// relative change between first and second half to report a trend
	trendThreshold = 0.01
	// minimum number of valid laps to report a trend
	minTrendLaps = 3
)

type (
	Option func(*config)
	config struct {
		maxLapFactor float64
	}
)

// WithMaxLapFactor sets the factor applied to the median lap time above which
// a lap is treated as outlier (pit stop, safety car, marker values).
// A value <= 0 disables the outlier check.
func WithMaxLapFactor(f float64) Option {
	return func(c *config) {
		c.maxLapFactor = f
	}
}

func newConfig(opts ...Option) *config {
	c := &config{maxLapFactor: DefaultMaxLapFactor}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidLaps returns the laps usable for statistics in lap number order.
// A lap is valid if it has a positive time which is not above
// median * maxLapFactor of all laps with a positive time.
func ValidLaps(laps []model.LapRecord, opts ...Option) []model.LapRecord {
	cfg := newConfig(opts...)
	timed := lo.Filter(laps, func(item model.LapRecord, _ int) bool {
		return item.HasTime()
	})
	if len(timed) == 0 {
		return []model.LapRecord{}
	}
	slices.SortStableFunc(timed, func(a, b model.LapRecord) int {
		return a.LapNumber - b.LapNumber
	})
	if cfg.maxLapFactor <= 0 {
		return timed
	}
	limit := Median(lapTimes(timed)) * cfg.maxLapFactor
	return lo.Filter(timed, func(item model.LapRecord, _ int) bool {
		return item.LapTime <= limit
	})
}

// ValidLapTimes returns the times of the valid laps in lap number order
func ValidLapTimes(laps []model.LapRecord, opts ...Option) []float64 {
	return lapTimes(ValidLaps(laps, opts...))
}

// OutlierCount returns the number of laps with a positive time that were
// rejected by the outlier check.
func OutlierCount(laps []model.LapRecord, opts ...Option) int {
	timed := lo.CountBy(laps, func(item model.LapRecord) bool { return item.HasTime() })
	return timed - len(ValidLaps(laps, opts...))
}

func lapTimes(laps []model.LapRecord) []float64 {
	return lo.Map(laps, func(item model.LapRecord, _ int) float64 {
		return item.LapTime
	})
}

// BestLap returns the fastest valid lap time
func BestLap(laps []model.LapRecord, opts ...Option) (float64, error) {
	times := ValidLapTimes(laps, opts...)
	if len(times) == 0 {
		return 0, model.ErrNoValidLaps
	}
	return floats.Min(times), nil
}

// AverageLap returns the mean of the valid lap times
func AverageLap(laps []model.LapRecord, opts ...Option) (float64, error) {
	times := ValidLapTimes(laps, opts...)
	if len(times) == 0 {
		return 0, model.ErrNoValidLaps
	}
	return stat.Mean(times, nil), nil
}

// Consistency returns the population standard deviation of the valid lap
// times. Lower values are more consistent, a single lap yields 0.
func Consistency(laps []model.LapRecord, opts ...Option) (float64, error) {
	times := ValidLapTimes(laps, opts...)
	if len(times) == 0 {
		return 0, model.ErrNoValidLaps
	}
	return stdDev(times), nil
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, std := stat.PopMeanStdDev(values, nil)
	return std
}

// Median returns the median of values or NaN for empty input.
// The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Sorted(slices.Values(values))
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Trend compares the mean of the second half of times with the first half.
// times are expected in lap order.
func Trend(times []float64) model.Trend {
	if len(times) < minTrendLaps {
		return model.TrendInsufficientData
	}
	first, second := HalfMeans(times)
	switch {
	case second < first*(1-trendThreshold):
		return model.TrendImproving
	case second > first*(1+trendThreshold):
		return model.TrendDegrading
	default:
		return model.TrendStable
	}
}

// HalfMeans returns the mean of the first and the second half of times.
// For odd lengths the middle value belongs to the second half.
func HalfMeans(times []float64) (first, second float64) {
	if len(times) < 2 {
		return math.NaN(), math.NaN()
	}
	mid := len(times) / 2
	return stat.Mean(times[:mid], nil), stat.Mean(times[mid:], nil)
}

// Summarize computes the summary for a single driver.
// Statistics which cannot be computed stay null.
//
//nolint:whitespace // can't make both editor and linter happy
func Summarize(
	driverID string,
	laps []model.LapRecord,
	samples []model.TelemetrySample,
	opts ...Option,
) model.DriverSummary {
	times := ValidLapTimes(laps, opts...)
	ret := model.DriverSummary{
		DriverID:         driverID,
		LapCount:         len(laps),
		ValidLapCount:    len(times),
		Trend:            Trend(times),
		TelemetrySummary: Summary(samples),
		WeakSectors:      WeakSectors(samples),
		Strengths:        Strengths(samples, times),
	}
	if len(times) > 0 {
		ret.BestLapTime = null.From(floats.Min(times))
		ret.AvgLapTime = null.From(stat.Mean(times, nil))
		ret.Consistency = null.From(stdDev(times))
	}
	return ret
}

// FormatLapTime formats seconds as m:ss.sss
func FormatLapTime(secs float64) string {
	if secs <= 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return "N/A"
	}
	millis := int64(math.Round(secs * 1000))
	minutes := millis / 60000
	rest := float64(millis%60000) / 1000
	return fmt.Sprintf("%d:%06.3f", minutes, rest)
}

// FormatNullable formats an optional lap time, null is shown as N/A
func FormatNullable(v null.Val[float64]) string {
	if t, ok := v.Get(); ok {
		return FormatLapTime(t)
	}
	return "N/A"
}
