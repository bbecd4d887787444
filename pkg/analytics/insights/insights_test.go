//nolint:funlen // test setup
package insights

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/analytics/comparison"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

func driver(id string, times ...float64) comparison.DriverData {
	laps := make([]model.LapRecord, len(times))
	for i, t := range times {
		laps[i] = model.LapRecord{DriverID: id, LapNumber: i + 1, LapTime: t}
	}
	return comparison.DriverData{DriverID: id, Laps: laps}
}

func sampleField() []comparison.DriverData {
	return []comparison.DriverData{
		driver("A", 96.5, 96.6, 96.7, 96.6, 96.5, 96.6),
		driver("B", 96.9, 97.0, 96.95),
		driver("C", 99, 99.5, 100, 101, 102, 103),
		driver("D"),
		driver("E", 100, 99, 98, 97.5, 400),
	}
}

type brief struct {
	Title    string
	DriverID string
	Type     model.InsightType
	Impact   model.Impact
}

func toBrief(in []model.Insight) []brief {
	ret := make([]brief, len(in))
	for i, item := range in {
		ret[i] = brief{Title: item.Title, DriverID: item.DriverID, Type: item.Type, Impact: item.Impact}
	}
	return ret
}

func TestGenerate(t *testing.T) {
	got := NewGenerator().Generate(sampleField())
	want := []brief{
		{"Fastest Lap", "A", model.InsightPerformance, model.ImpactHigh},
		{"Close to the Pace", "B", model.InsightPerformance, model.ImpactHigh},
		{"Most Improved", "E", model.InsightPerformance, model.ImpactHigh},
		{"Late-Race Pace Drop", "C", model.InsightStrategy, model.ImpactHigh},
		{"Most Consistent Driver", "A", model.InsightConsistency, model.ImpactMedium},
		{"Laps Excluded", "E", model.InsightAnomaly, model.ImpactLow},
		{"Lap Time Spike", "C", model.InsightAnomaly, model.ImpactLow},
	}
	if diff := cmp.Diff(want, toBrief(got)); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	for _, i := range got {
		assert.NotEmpty(t, i.Description)
	}
}

func TestGenerate_Cap(t *testing.T) {
	got := NewGenerator(WithMaxInsights(3)).Generate(sampleField())
	assert.Len(t, got, 3)
	assert.Equal(t, "Fastest Lap", got[0].Title)
}

func TestGenerate_TieBreakFasterDriverFirst(t *testing.T) {
	field := []comparison.DriverData{
		driver("slow", 100, 100, 100, 104, 104, 104),
		driver("fast", 99, 99, 99, 103, 103, 103),
	}
	got := NewGenerator().Generate(field)
	drops := []string{}
	for _, i := range got {
		if i.Title == "Late-Race Pace Drop" {
			drops = append(drops, i.DriverID)
		}
	}
	if diff := cmp.Diff([]string{"fast", "slow"}, drops); diff != "" {
		t.Errorf("tie-break mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_ImpactSorted(t *testing.T) {
	got := NewGenerator(WithMaxInsights(0)).Generate(sampleField())
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Impact.Rank(), got[i].Impact.Rank())
	}
}

func TestGenerate_EmptyField(t *testing.T) {
	assert.Empty(t, NewGenerator().Generate(nil))
	assert.Empty(t, NewGenerator().Generate([]comparison.DriverData{driver("X")}))
}

func TestGenerate_SpikeImpact(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		want  model.Impact
	}{
		{"low spike", []float64{100, 100, 103, 100}, model.ImpactLow},
		{"high spike", []float64{100, 100, 110, 100}, model.ImpactHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGenerator().Generate([]comparison.DriverData{driver("X", tt.times...)})
			spikes := []model.Insight{}
			for _, i := range got {
				if i.Title == "Lap Time Spike" {
					spikes = append(spikes, i)
				}
			}
			assert.Len(t, spikes, 1)
			assert.Equal(t, tt.want, spikes[0].Impact)
			assert.Contains(t, spikes[0].Description, "lap 3")
		})
	}
}

func pickDriver(in []model.Insight, title string) string {
	for _, i := range in {
		if i.Title == title {
			return i.DriverID
		}
	}
	return ""
}

func TestGenerate_SingleSlotTieGoesToFasterDriver(t *testing.T) {
	tests := []struct {
		name  string
		title string
		field []comparison.DriverData
	}{
		{
			name:  "consistency",
			title: "Most Consistent Driver",
			field: []comparison.DriverData{
				driver("slow", 101, 101, 101, 101, 101),
				driver("fast", 100, 100, 100, 100, 100),
				driver("x", 102, 103, 102, 103, 102),
				driver("y", 102, 104, 102, 104, 102),
			},
		},
		{
			name:  "improvement",
			title: "Most Improved",
			field: []comparison.DriverData{
				driver("slow", 200, 200, 196, 196),
				driver("fast", 100, 100, 98, 98),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGenerator(WithMaxInsights(0)).Generate(tt.field)
			assert.Equal(t, "fast", pickDriver(got, tt.title))
		})
	}
}
