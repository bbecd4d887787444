package client

import (
	"bytes"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/api/strategyv1"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

func TestRenderComparison(t *testing.T) {
	var buf bytes.Buffer
	renderComparison(&buf, []model.DriverSummary{
		{
			DriverID:    "A",
			BestLapTime: null.From(96.5),
			AvgLapTime:  null.From(96.8),
			Consistency: null.From(0.2),
			LapCount:    3,
			Trend:       model.TrendStable,
		},
		{DriverID: "B", Trend: model.TrendInsufficientData},
	})
	out := buf.String()
	assert.Contains(t, out, "1:36.500")
	assert.Contains(t, out, "0.200s")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "insufficient_data")
}

func TestRenderStrategy(t *testing.T) {
	t.Run("not applicable", func(t *testing.T) {
		var buf bytes.Buffer
		renderStrategy(&buf, &strategyv1.PitStopStrategyResponse{
			Reason: "race is over",
		})
		assert.Equal(t, "No strategy: race is over\n", buf.String())
	})
	t.Run("result", func(t *testing.T) {
		var buf bytes.Buffer
		renderStrategy(&buf, &strategyv1.PitStopStrategyResponse{
			Applicable: true,
			Result: &model.StrategyResult{
				StrategyType:    model.StrategyOnePit,
				RecommendedLaps: []int{18},
				TimeGain:        92.8858,
				Candidates: []model.StrategyCandidate{
					{StrategyType: model.StrategyNoPit, TotalTime: 1800},
				},
			},
			Plan: []strategyv1.PlanItem{
				{Type: strategyv1.PlanItemStint, LapStart: 10, LapEnd: 17},
			},
		})
		out := buf.String()
		assert.Contains(t, out, "one_pit, pit on laps [18], gain 92.886s")
		assert.Contains(t, out, "1800.000")
		assert.Contains(t, out, "stint")
	})
}

func TestBaseURL(t *testing.T) {
	defer func(s string) { config.ServerAddr = s }(config.ServerAddr)
	config.ServerAddr = "localhost:9000"
	assert.Equal(t, "http://localhost:9000", baseURL())
	config.ServerAddr = "https://analytics.example.com"
	assert.Equal(t, "https://analytics.example.com", baseURL())
}
