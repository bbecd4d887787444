package analyticsv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racelog-analytics/pkg/grpc/codec"
)

const AnalyticsServiceName = "racelog.analytics.v1.AnalyticsService"

//nolint:lll // readability
const (
	AnalyticsServiceListRacesProcedure      = "/racelog.analytics.v1.AnalyticsService/ListRaces"
	AnalyticsServiceListDriversProcedure    = "/racelog.analytics.v1.AnalyticsService/ListDrivers"
	AnalyticsServiceAnalyzeDriverProcedure  = "/racelog.analytics.v1.AnalyticsService/AnalyzeDriver"
	AnalyticsServiceRacingLineProcedure     = "/racelog.analytics.v1.AnalyticsService/RacingLine"
	AnalyticsServiceCompareDriversProcedure = "/racelog.analytics.v1.AnalyticsService/CompareDrivers"
	AnalyticsServiceRaceInsightsProcedure   = "/racelog.analytics.v1.AnalyticsService/RaceInsights"
)

//nolint:lll // readability
type AnalyticsServiceHandler interface {
	ListRaces(context.Context, *connect.Request[ListRacesRequest]) (*connect.Response[ListRacesResponse], error)
	ListDrivers(context.Context, *connect.Request[ListDriversRequest]) (*connect.Response[ListDriversResponse], error)
	AnalyzeDriver(context.Context, *connect.Request[AnalyzeDriverRequest]) (*connect.Response[AnalyzeDriverResponse], error)
	RacingLine(context.Context, *connect.Request[RacingLineRequest]) (*connect.Response[RacingLineResponse], error)
	CompareDrivers(context.Context, *connect.Request[CompareDriversRequest]) (*connect.Response[CompareDriversResponse], error)
	RaceInsights(context.Context, *connect.Request[RaceInsightsRequest]) (*connect.Response[RaceInsightsResponse], error)
}

// AnalyticsServiceClient has the same methods as the handler
type AnalyticsServiceClient interface {
	AnalyticsServiceHandler
}

// NewAnalyticsServiceHandler returns the path to mount the handler on and
// the handler itself.
//
//nolint:whitespace // can't make both editor and linter happy
func NewAnalyticsServiceHandler(
	svc AnalyticsServiceHandler,
	opts ...connect.HandlerOption,
) (string, http.Handler) {
	opts = append([]connect.HandlerOption{codec.HandlerOption()}, opts...)
	mux := http.NewServeMux()
	mux.Handle(AnalyticsServiceListRacesProcedure, connect.NewUnaryHandler(
		AnalyticsServiceListRacesProcedure, svc.ListRaces, opts...))
	mux.Handle(AnalyticsServiceListDriversProcedure, connect.NewUnaryHandler(
		AnalyticsServiceListDriversProcedure, svc.ListDrivers, opts...))
	mux.Handle(AnalyticsServiceAnalyzeDriverProcedure, connect.NewUnaryHandler(
		AnalyticsServiceAnalyzeDriverProcedure, svc.AnalyzeDriver, opts...))
	mux.Handle(AnalyticsServiceRacingLineProcedure, connect.NewUnaryHandler(
		AnalyticsServiceRacingLineProcedure, svc.RacingLine, opts...))
	mux.Handle(AnalyticsServiceCompareDriversProcedure, connect.NewUnaryHandler(
		AnalyticsServiceCompareDriversProcedure, svc.CompareDrivers, opts...))
	mux.Handle(AnalyticsServiceRaceInsightsProcedure, connect.NewUnaryHandler(
		AnalyticsServiceRaceInsightsProcedure, svc.RaceInsights, opts...))
	return "/" + AnalyticsServiceName + "/", mux
}

type analyticsServiceClient struct {
	listRaces      *connect.Client[ListRacesRequest, ListRacesResponse]
	listDrivers    *connect.Client[ListDriversRequest, ListDriversResponse]
	analyzeDriver  *connect.Client[AnalyzeDriverRequest, AnalyzeDriverResponse]
	racingLine     *connect.Client[RacingLineRequest, RacingLineResponse]
	compareDrivers *connect.Client[CompareDriversRequest, CompareDriversResponse]
	raceInsights   *connect.Client[RaceInsightsRequest, RaceInsightsResponse]
}

//nolint:whitespace // can't make both editor and linter happy
func NewAnalyticsServiceClient(
	httpClient connect.HTTPClient,
	baseURL string,
	opts ...connect.ClientOption,
) AnalyticsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{codec.ClientOption()}, opts...)
	return &analyticsServiceClient{
		listRaces: connect.NewClient[ListRacesRequest, ListRacesResponse](
			httpClient, baseURL+AnalyticsServiceListRacesProcedure, opts...),
		listDrivers: connect.NewClient[ListDriversRequest, ListDriversResponse](
			httpClient, baseURL+AnalyticsServiceListDriversProcedure, opts...),
		analyzeDriver: connect.NewClient[AnalyzeDriverRequest, AnalyzeDriverResponse](
			httpClient, baseURL+AnalyticsServiceAnalyzeDriverProcedure, opts...),
		racingLine: connect.NewClient[RacingLineRequest, RacingLineResponse](
			httpClient, baseURL+AnalyticsServiceRacingLineProcedure, opts...),
		compareDrivers: connect.NewClient[CompareDriversRequest, CompareDriversResponse](
			httpClient, baseURL+AnalyticsServiceCompareDriversProcedure, opts...),
		raceInsights: connect.NewClient[RaceInsightsRequest, RaceInsightsResponse](
			httpClient, baseURL+AnalyticsServiceRaceInsightsProcedure, opts...),
	}
}

//nolint:lll // readability
func (c *analyticsServiceClient) ListRaces(ctx context.Context, req *connect.Request[ListRacesRequest]) (*connect.Response[ListRacesResponse], error) {
	return c.listRaces.CallUnary(ctx, req)
}

//nolint:lll // readability
func (c *analyticsServiceClient) ListDrivers(ctx context.Context, req *connect.Request[ListDriversRequest]) (*connect.Response[ListDriversResponse], error) {
	return c.listDrivers.CallUnary(ctx, req)
}

//nolint:lll // readability
func (c *analyticsServiceClient) AnalyzeDriver(ctx context.Context, req *connect.Request[AnalyzeDriverRequest]) (*connect.Response[AnalyzeDriverResponse], error) {
	return c.analyzeDriver.CallUnary(ctx, req)
}

//nolint:lll // readability
func (c *analyticsServiceClient) RacingLine(ctx context.Context, req *connect.Request[RacingLineRequest]) (*connect.Response[RacingLineResponse], error) {
	return c.racingLine.CallUnary(ctx, req)
}

//nolint:lll // readability
func (c *analyticsServiceClient) CompareDrivers(ctx context.Context, req *connect.Request[CompareDriversRequest]) (*connect.Response[CompareDriversResponse], error) {
	return c.compareDrivers.CallUnary(ctx, req)
}

//nolint:lll // readability
func (c *analyticsServiceClient) RaceInsights(ctx context.Context, req *connect.Request[RaceInsightsRequest]) (*connect.Response[RaceInsightsResponse], error) {
	return c.raceInsights.CallUnary(ctx, req)
}
