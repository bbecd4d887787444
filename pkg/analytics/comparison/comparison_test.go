package comparison

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

func laps(driver string, times ...float64) []model.LapRecord {
	ret := make([]model.LapRecord, len(times))
	for i, t := range times {
		ret[i] = model.LapRecord{DriverID: driver, LapNumber: i + 1, LapTime: t}
	}
	return ret
}

func TestCompare(t *testing.T) {
	entries := []DriverData{
		{DriverID: "A", Laps: laps("A", 97.0, 96.5, 96.8)},
		{DriverID: "B"},
		{DriverID: "C", Laps: laps("C", 98.0, 97.5)},
	}
	got, err := Compare(entries)
	assert.NoError(t, err)
	ids := make([]string, len(got))
	for i := range got {
		ids[i] = got[i].DriverID
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	best, ok := got[0].BestLapTime.Get()
	assert.True(t, ok)
	assert.Equal(t, 96.5, best)

	assert.True(t, got[1].BestLapTime.IsNull())
	assert.True(t, got[1].AvgLapTime.IsNull())
	assert.True(t, got[1].Consistency.IsNull())
	assert.Equal(t, 0, got[1].LapCount)
	assert.Nil(t, got[1].TelemetrySummary)

	assert.Equal(t, 2, got[2].LapCount)
}

func TestCompare_InsufficientDrivers(t *testing.T) {
	tests := []struct {
		name    string
		entries []DriverData
	}{
		{"none", nil},
		{"single", []DriverData{{DriverID: "A", Laps: laps("A", 97)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.entries)
			assert.Nil(t, got)
			if !errors.Is(err, model.ErrInsufficientDrivers) {
				t.Errorf("expected ErrInsufficientDrivers, got %v", err)
			}
		})
	}
}

func TestFieldPosition(t *testing.T) {
	summaries := SummarizeAll([]DriverData{
		{DriverID: "slow", Laps: laps("slow", 99)},
		{DriverID: "none"},
		{DriverID: "fast", Laps: laps("fast", 97)},
		{DriverID: "mid", Laps: laps("mid", 98)},
	})
	got := FieldPosition(summaries)
	if diff := cmp.Diff([]string{"fast", "mid", "slow", "none"}, got); diff != "" {
		t.Errorf("FieldPosition() mismatch (-want +got):\n%s", diff)
	}
}
