package comparison

import (
	"cmp"
	"slices"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

// sortByBestLap sorts summaries with a best lap, stable for equal times
func sortByBestLap(s []model.DriverSummary) {
	slices.SortStableFunc(s, func(a, b model.DriverSummary) int {
		return cmp.Compare(a.BestLapTime.GetOr(0), b.BestLapTime.GetOr(0))
	})
}
