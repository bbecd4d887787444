package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/config"
	x "github.com/mpapenbr/racelog-analytics/pkg/grpc/api/analyticsv1"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/server/util"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/inmem"
	"github.com/mpapenbr/racelog-analytics/pkg/service/analytics"
)

func setup(t *testing.T) x.AnalyticsServiceClient {
	t.Helper()
	ctx := context.Background()
	repos := inmem.NewRepositories()
	assert.NilError(t, repos.Race().Create(ctx, &model.Race{ID: "r1", TotalLaps: 20}))
	for _, id := range []string{"A", "B"} {
		assert.NilError(t, repos.Driver().Create(ctx, "r1", &model.DriverInfo{ID: id}))
	}
	assert.NilError(t, repos.Lap().Create(ctx, "r1", []model.LapRecord{
		{DriverID: "A", LapNumber: 1, LapTime: 96.5},
		{DriverID: "A", LapNumber: 2, LapTime: 96.8},
		{DriverID: "B", LapNumber: 1, LapTime: 97.5},
	}))

	svc := analytics.NewService(analytics.WithRepositories(repos))
	mux := http.NewServeMux()
	path, handler := x.NewAnalyticsServiceHandler(NewServer(WithService(svc)),
		connect.WithInterceptors(util.NewAppContextInterceptor(config.DefaultConfig())))
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return x.NewAnalyticsServiceClient(srv.Client(), srv.URL)
}

func TestListRaces(t *testing.T) {
	c := setup(t)
	res, err := c.ListRaces(context.Background(), connect.NewRequest(&x.ListRacesRequest{}))
	assert.NilError(t, err)
	assert.Equal(t, 1, len(res.Msg.Races))
	assert.Equal(t, "r1", res.Msg.Races[0].ID)
}

func TestAnalyzeDriver(t *testing.T) {
	c := setup(t)
	res, err := c.AnalyzeDriver(context.Background(),
		connect.NewRequest(&x.AnalyzeDriverRequest{RaceID: "r1", DriverID: "A"}))
	assert.NilError(t, err)
	assert.Equal(t, 96.5, res.Msg.Summary.BestLapTime.GetOr(0))
	assert.Equal(t, 2, res.Msg.Summary.LapCount)
}

func TestErrorCodes(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{"missing driver", func() error {
			_, err := c.AnalyzeDriver(ctx, connect.NewRequest(&x.AnalyzeDriverRequest{RaceID: "r1"}))
			return err
		}, connect.CodeInvalidArgument},
		{"unknown driver", func() error {
			_, err := c.AnalyzeDriver(ctx,
				connect.NewRequest(&x.AnalyzeDriverRequest{RaceID: "r1", DriverID: "X"}))
			return err
		}, connect.CodeNotFound},
		{"unknown race", func() error {
			_, err := c.RaceInsights(ctx, connect.NewRequest(&x.RaceInsightsRequest{RaceID: "nope"}))
			return err
		}, connect.CodeNotFound},
		{"single driver comparison", func() error {
			_, err := c.CompareDrivers(ctx, connect.NewRequest(
				&x.CompareDriversRequest{RaceID: "r1", DriverIDs: []string{"A"}}))
			return err
		}, connect.CodeInvalidArgument},
		{"duplicate driver comparison", func() error {
			_, err := c.CompareDrivers(ctx, connect.NewRequest(
				&x.CompareDriversRequest{RaceID: "r1", DriverIDs: []string{"A", "B", "A"}}))
			return err
		}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(tt.call()))
		})
	}
}

func TestCompareAndInsights(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	cmpRes, err := c.CompareDrivers(ctx, connect.NewRequest(&x.CompareDriversRequest{RaceID: "r1"}))
	assert.NilError(t, err)
	assert.Equal(t, 2, len(cmpRes.Msg.Drivers))

	insRes, err := c.RaceInsights(ctx, connect.NewRequest(&x.RaceInsightsRequest{RaceID: "r1"}))
	assert.NilError(t, err)
	assert.Assert(t, len(insRes.Msg.Insights) > 0)
	assert.Equal(t, model.InsightPerformance, insRes.Msg.Insights[0].Type)
}

func TestRacingLineWithoutTelemetry(t *testing.T) {
	c := setup(t)
	res, err := c.RacingLine(context.Background(),
		connect.NewRequest(&x.RacingLineRequest{RaceID: "r1", DriverID: "A"}))
	assert.NilError(t, err)
	assert.Equal(t, 0, len(res.Msg.RacingLine.CurrentLine))
	assert.Equal(t, 0.0, res.Msg.RacingLine.TimePotential)
}
