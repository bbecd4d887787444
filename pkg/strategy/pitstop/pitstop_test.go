//nolint:funlen // test tables
package pitstop

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

func sampleParams() *Params {
	return &Params{
		CurrentLap:      10,
		TotalLaps:       27,
		DegradationRate: 0.02,
		BaseLapTime:     98.0,
		PitLaneTimeCost: 25.0,
	}
}

func TestOptimizer_Calc(t *testing.T) {
	type want struct {
		strategy model.StrategyType
		laps     []int
		timeGain float64
		timeLoss float64
	}
	tests := []struct {
		name  string
		param func(p *Params)
		want  want
	}{
		{
			name:  "one stop",
			param: func(p *Params) {},
			want: want{
				strategy: model.StrategyOnePit,
				laps:     []int{18},
				timeGain: 92.885758,
				timeLoss: 25.0,
			},
		},
		{
			name:  "two stops on long remaining distance",
			param: func(p *Params) { p.TotalLaps = 40 },
			want: want{
				strategy: model.StrategyTwoPit,
				laps:     []int{20, 30},
				timeGain: 255.518341,
				timeLoss: 50.0,
			},
		},
		{
			name:  "low degradation",
			param: func(p *Params) { p.DegradationRate = 0.001 },
			want: want{
				strategy: model.StrategyNoPit,
				laps:     []int{},
			},
		},
		{
			name:  "zero degradation",
			param: func(p *Params) { p.DegradationRate = 0 },
			want: want{
				strategy: model.StrategyNoPit,
				laps:     []int{},
			},
		},
		{
			name:  "negative degradation",
			param: func(p *Params) { p.DegradationRate = -0.5 },
			want: want{
				strategy: model.StrategyNoPit,
				laps:     []int{},
			},
		},
		{
			name:  "last lap remaining",
			param: func(p *Params) { p.CurrentLap = 26 },
			want: want{
				strategy: model.StrategyNoPit,
				laps:     []int{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleParams()
			tt.param(p)
			got, err := NewOptimizer(p).Calc()
			if err != nil {
				t.Fatalf("Calc() unexpected error = %v", err)
			}
			assert.Equal(t, tt.want.strategy, got.StrategyType)
			if diff := cmp.Diff(tt.want.laps, got.RecommendedLaps); diff != "" {
				t.Errorf("RecommendedLaps mismatch (-want +got):\n%s", diff)
			}
			assert.InDelta(t, tt.want.timeGain, got.TimeGain, 1e-5)
			assert.InDelta(t, tt.want.timeLoss, got.TimeLoss, 1e-9)
			assert.NotEmpty(t, got.Reasoning)

			// degradation map covers current lap to total laps
			assert.Len(t, got.TireDegradation, p.TotalLaps-p.CurrentLap+1)
			for l := p.CurrentLap; l <= p.TotalLaps; l++ {
				d, ok := got.TireDegradation[l]
				assert.True(t, ok, "missing lap %d", l)
				assert.GreaterOrEqual(t, d, 0.0)
				assert.LessOrEqual(t, d, 0.25)
			}
			for _, s := range got.RecommendedLaps {
				assert.Greater(t, s, p.CurrentLap)
				assert.Less(t, s, p.TotalLaps)
				assert.Equal(t, 0.0, got.TireDegradation[s])
			}
		})
	}
}

func TestOptimizer_NotApplicable(t *testing.T) {
	tests := []struct {
		name  string
		param *Params
	}{
		{"nil params", nil},
		{"race finished", &Params{CurrentLap: 27, TotalLaps: 27, BaseLapTime: 98}},
		{"beyond race end", &Params{CurrentLap: 30, TotalLaps: 27, BaseLapTime: 98}},
		{"negative lap", &Params{CurrentLap: -1, TotalLaps: 27, BaseLapTime: 98}},
		{"missing base lap", &Params{CurrentLap: 10, TotalLaps: 27}},
		{"negative tire age", &Params{CurrentLap: 10, TotalLaps: 27, BaseLapTime: 98, TireAge: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Optimize(tt.param)
			assert.Nil(t, got)
			if !errors.Is(err, model.ErrNotApplicable) {
				t.Errorf("expected ErrNotApplicable, got %v", err)
			}
		})
	}
}

func TestOptimizer_NoPitWinsWithoutGain(t *testing.T) {
	// with a pit lane cost this high no stop can pay off
	p := sampleParams()
	p.PitLaneTimeCost = 1000
	got, err := Optimize(p)
	assert.NoError(t, err)
	assert.Equal(t, model.StrategyNoPit, got.StrategyType)
	assert.Equal(t, 0.0, got.TimeGain)
	assert.Equal(t, 0.0, got.TimeLoss)
	assert.Len(t, got.Candidates, 2)
	assert.True(t, strings.HasPrefix(got.Reasoning, "Staying out is fastest"))
}

func TestOptimizer_Reasoning(t *testing.T) {
	got, err := Optimize(sampleParams())
	assert.NoError(t, err)
	assert.Equal(t,
		"Pit at lap 18: tire degradation exceeds the 25.0s pit-lane cost after lap 16, "+
			"saving 92.9s over staying out.",
		got.Reasoning)
}

func TestOptimizer_TireAge(t *testing.T) {
	fresh, _ := Optimize(sampleParams())
	p := sampleParams()
	p.TireAge = 12
	worn, err := Optimize(p)
	assert.NoError(t, err)
	assert.Equal(t, model.StrategyOnePit, worn.StrategyType)
	// worn tires should be changed earlier
	assert.Less(t, worn.RecommendedLaps[0], fresh.RecommendedLaps[0])
	assert.Greater(t, worn.TireDegradation[10], 0.0)
}

func TestOptimizer_Parts(t *testing.T) {
	got, err := Optimize(sampleParams())
	assert.NoError(t, err)
	assert.Len(t, got.Parts, 3)

	first, ok := got.Parts[0].(StintPart)
	assert.True(t, ok)
	assert.Equal(t, 11, first.LapStart())
	assert.Equal(t, 18, first.LapEnd())
	assert.Equal(t, 8, first.Laps())

	pit, ok := got.Parts[1].(PitPart)
	assert.True(t, ok)
	assert.Equal(t, 18, pit.Lap())
	assert.Equal(t, 25*time.Second, pit.PitTime())

	last, ok := got.Parts[2].(StintPart)
	assert.True(t, ok)
	assert.Equal(t, 19, last.LapStart())
	assert.Equal(t, 27, last.LapEnd())
	assert.Equal(t, 0, last.StartAge())
}

func TestOptimizer_Deterministic(t *testing.T) {
	a, _ := Optimize(sampleParams())
	b, _ := Optimize(sampleParams())
	if diff := cmp.Diff(a.StrategyResult, b.StrategyResult); diff != "" {
		t.Errorf("results differ (-a +b):\n%s", diff)
	}
}
