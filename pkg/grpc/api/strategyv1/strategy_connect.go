package strategyv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racelog-analytics/pkg/grpc/codec"
)

const (
	StrategyServiceName                     = "racelog.strategy.v1.StrategyService"
	StrategyServicePitStopStrategyProcedure = "/racelog.strategy.v1.StrategyService/PitStopStrategy"
)

//nolint:lll // readability
type StrategyServiceHandler interface {
	PitStopStrategy(context.Context, *connect.Request[PitStopStrategyRequest]) (*connect.Response[PitStopStrategyResponse], error)
}

type StrategyServiceClient interface {
	StrategyServiceHandler
}

//nolint:whitespace // can't make both editor and linter happy
func NewStrategyServiceHandler(
	svc StrategyServiceHandler,
	opts ...connect.HandlerOption,
) (string, http.Handler) {
	opts = append([]connect.HandlerOption{codec.HandlerOption()}, opts...)
	mux := http.NewServeMux()
	mux.Handle(StrategyServicePitStopStrategyProcedure, connect.NewUnaryHandler(
		StrategyServicePitStopStrategyProcedure, svc.PitStopStrategy, opts...))
	return "/" + StrategyServiceName + "/", mux
}

type strategyServiceClient struct {
	pitStopStrategy *connect.Client[PitStopStrategyRequest, PitStopStrategyResponse]
}

//nolint:whitespace // can't make both editor and linter happy
func NewStrategyServiceClient(
	httpClient connect.HTTPClient,
	baseURL string,
	opts ...connect.ClientOption,
) StrategyServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{codec.ClientOption()}, opts...)
	return &strategyServiceClient{
		pitStopStrategy: connect.NewClient[PitStopStrategyRequest, PitStopStrategyResponse](
			httpClient, baseURL+StrategyServicePitStopStrategyProcedure, opts...),
	}
}

//nolint:lll // readability
func (c *strategyServiceClient) PitStopStrategy(ctx context.Context, req *connect.Request[PitStopStrategyRequest]) (*connect.Response[PitStopStrategyResponse], error) {
	return c.pitStopStrategy.CallUnary(ctx, req)
}
