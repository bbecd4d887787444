package strategy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"gotest.tools/v3/assert"

	x "github.com/mpapenbr/racelog-analytics/pkg/grpc/api/strategyv1"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/inmem"
	"github.com/mpapenbr/racelog-analytics/pkg/service/analytics"
)

func setup(t *testing.T) x.StrategyServiceClient {
	t.Helper()
	ctx := context.Background()
	repos := inmem.NewRepositories()
	assert.NilError(t, repos.Race().Create(ctx, &model.Race{ID: "r1", TotalLaps: 27}))
	svc := analytics.NewService(analytics.WithRepositories(repos))
	mux := http.NewServeMux()
	path, handler := x.NewStrategyServiceHandler(NewServer(WithService(svc)))
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return x.NewStrategyServiceClient(srv.Client(), srv.URL)
}

func TestPitStopStrategy(t *testing.T) {
	c := setup(t)
	res, err := c.PitStopStrategy(context.Background(), connect.NewRequest(
		&x.PitStopStrategyRequest{
			CurrentLap:      10,
			TotalLaps:       27,
			DegradationRate: 0.02,
			BaseLapTime:     98,
			PitLaneTimeCost: 25,
		}))
	assert.NilError(t, err)
	assert.Assert(t, res.Msg.Applicable)
	assert.Equal(t, model.StrategyOnePit, res.Msg.Result.StrategyType)
	assert.DeepEqual(t, []int{18}, res.Msg.Result.RecommendedLaps)
	assert.Assert(t, res.Msg.Result.TimeGain > 0)
	// degradation of every lap from current to total lap survives JSON
	assert.Equal(t, 18, len(res.Msg.Result.TireDegradation))
	assert.Equal(t, 0.0, res.Msg.Result.TireDegradation[18])

	types := []string{}
	for _, p := range res.Msg.Plan {
		types = append(types, p.Type)
	}
	assert.DeepEqual(t, []string{x.PlanItemStint, x.PlanItemPit, x.PlanItemStint}, types)
}

func TestPitStopStrategyTotalLapsFromRace(t *testing.T) {
	c := setup(t)
	res, err := c.PitStopStrategy(context.Background(), connect.NewRequest(
		&x.PitStopStrategyRequest{
			RaceID:          "r1",
			CurrentLap:      26,
			DegradationRate: 0.02,
			BaseLapTime:     98,
		}))
	assert.NilError(t, err)
	assert.Assert(t, res.Msg.Applicable)
	assert.Equal(t, model.StrategyNoPit, res.Msg.Result.StrategyType)
}

func TestPitStopStrategyValidation(t *testing.T) {
	c := setup(t)
	tests := []struct {
		name string
		req  *x.PitStopStrategyRequest
	}{
		{"current lap 0", &x.PitStopStrategyRequest{TotalLaps: 27, DegradationRate: 0.02}},
		{"total <= current", &x.PitStopStrategyRequest{CurrentLap: 27, TotalLaps: 27, DegradationRate: 0.02}},
		{"no total, no race", &x.PitStopStrategyRequest{CurrentLap: 3, DegradationRate: 0.02}},
		{"rate 0", &x.PitStopStrategyRequest{CurrentLap: 3, TotalLaps: 27}},
		{"rate too high", &x.PitStopStrategyRequest{CurrentLap: 3, TotalLaps: 27, DegradationRate: 0.06}},
		{"negative tire age", &x.PitStopStrategyRequest{
			CurrentLap: 3, TotalLaps: 27, DegradationRate: 0.02, TireAge: -1,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.PitStopStrategy(context.Background(), connect.NewRequest(tt.req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}
}

func TestPitStopStrategyNotApplicable(t *testing.T) {
	c := setup(t)
	// race r1 has 27 laps, current lap is beyond
	res, err := c.PitStopStrategy(context.Background(), connect.NewRequest(
		&x.PitStopStrategyRequest{RaceID: "r1", CurrentLap: 30, DegradationRate: 0.02}))
	assert.NilError(t, err)
	assert.Assert(t, !res.Msg.Applicable)
	assert.Assert(t, res.Msg.Reason != "")
}

func TestPitStopStrategyUnknownRace(t *testing.T) {
	c := setup(t)
	_, err := c.PitStopStrategy(context.Background(), connect.NewRequest(
		&x.PitStopStrategyRequest{RaceID: "nope", CurrentLap: 3, DegradationRate: 0.02}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}
