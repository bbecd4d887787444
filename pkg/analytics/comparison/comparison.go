// Package comparison builds side by side statistics for a set of drivers.
package comparison

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mpapenbr/racelog-analytics/pkg/analytics/stats"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

// DriverData contains everything known about a driver in a race
type DriverData struct {
	DriverID  string
	Laps      []model.LapRecord
	Telemetry []model.TelemetrySample
}

// Compare returns one summary per entry in the order of entries.
// Drivers without valid laps are included with null statistics.
func Compare(entries []DriverData, opts ...stats.Option) ([]model.DriverSummary, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInsufficientDrivers, len(entries))
	}
	return SummarizeAll(entries, opts...), nil
}

// SummarizeAll returns one summary per entry without a minimum count
func SummarizeAll(entries []DriverData, opts ...stats.Option) []model.DriverSummary {
	return lo.Map(entries, func(e DriverData, _ int) model.DriverSummary {
		return stats.Summarize(e.DriverID, e.Laps, e.Telemetry, opts...)
	})
}

// FieldPosition returns the driver ids ordered by best lap, fastest first.
// Drivers without a best lap follow in input order.
func FieldPosition(summaries []model.DriverSummary) []string {
	timed := lo.Filter(summaries, func(s model.DriverSummary, _ int) bool {
		return s.BestLapTime.IsValue()
	})
	untimed := lo.Filter(summaries, func(s model.DriverSummary, _ int) bool {
		return s.BestLapTime.IsNull()
	})
	sorted := make([]model.DriverSummary, len(timed))
	copy(sorted, timed)
	sortByBestLap(sorted)
	return lo.Map(append(sorted, untimed...), func(s model.DriverSummary, _ int) string {
		return s.DriverID
	})
}
