package analytics

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racelog-analytics/log"
	x "github.com/mpapenbr/racelog-analytics/pkg/grpc/api/analyticsv1"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/server/util"
	"github.com/mpapenbr/racelog-analytics/pkg/service/analytics"
)

var (
	errMissingRaceID   = errors.New("raceId is required")
	errMissingDriverID = errors.New("driverId is required")
	errDuplicateDriver = errors.New("driverIds must not contain duplicates")
)

func NewServer(opts ...Option) *analyticsServer {
	ret := &analyticsServer{
		log: log.Default().Named("grpc.analytics"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("rla")
	}
	return ret
}

type Option func(*analyticsServer)

func WithService(svc *analytics.Service) Option {
	return func(srv *analyticsServer) {
		srv.svc = svc
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *analyticsServer) {
		srv.tracer = tracer
	}
}

type analyticsServer struct {
	log    *log.Logger
	svc    *analytics.Service
	tracer trace.Tracer
}

var _ x.AnalyticsServiceHandler = (*analyticsServer)(nil)

//nolint:whitespace // can't make both editor and linter happy
func (s *analyticsServer) ListRaces(
	ctx context.Context,
	req *connect.Request[x.ListRacesRequest],
) (*connect.Response[x.ListRacesResponse], error) {
	data, err := s.svc.ListRaces(ctx)
	if err != nil {
		return nil, s.toError("ListRaces", err)
	}
	return connect.NewResponse(&x.ListRacesResponse{Races: data}), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *analyticsServer) ListDrivers(
	ctx context.Context,
	req *connect.Request[x.ListDriversRequest],
) (*connect.Response[x.ListDriversResponse], error) {
	if req.Msg.RaceID == "" {
		return nil, util.InvalidArgument(errMissingRaceID)
	}
	data, err := s.svc.ListDrivers(ctx, req.Msg.RaceID)
	if err != nil {
		return nil, s.toError("ListDrivers", err)
	}
	return connect.NewResponse(&x.ListDriversResponse{Drivers: data}), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *analyticsServer) AnalyzeDriver(
	ctx context.Context,
	req *connect.Request[x.AnalyzeDriverRequest],
) (*connect.Response[x.AnalyzeDriverResponse], error) {
	if err := validateDriver(req.Msg.RaceID, req.Msg.DriverID); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "analyze driver",
		trace.WithAttributes(
			attribute.String("raceId", req.Msg.RaceID),
			attribute.String("driverId", req.Msg.DriverID)))
	defer span.End()
	data, err := s.svc.AnalyzeDriver(ctx, req.Msg.RaceID, req.Msg.DriverID)
	if err != nil {
		span.RecordError(err)
		return nil, s.toError("AnalyzeDriver", err)
	}
	return connect.NewResponse(&x.AnalyzeDriverResponse{Summary: data}), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *analyticsServer) RacingLine(
	ctx context.Context,
	req *connect.Request[x.RacingLineRequest],
) (*connect.Response[x.RacingLineResponse], error) {
	if err := validateDriver(req.Msg.RaceID, req.Msg.DriverID); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "racing line",
		trace.WithAttributes(
			attribute.String("raceId", req.Msg.RaceID),
			attribute.String("driverId", req.Msg.DriverID)))
	defer span.End()
	data, err := s.svc.RacingLine(ctx, req.Msg.RaceID, req.Msg.DriverID)
	if err != nil {
		span.RecordError(err)
		return nil, s.toError("RacingLine", err)
	}
	span.SetAttributes(attribute.Float64("timePotential", data.TimePotential))
	return connect.NewResponse(&x.RacingLineResponse{RacingLine: data}), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *analyticsServer) CompareDrivers(
	ctx context.Context,
	req *connect.Request[x.CompareDriversRequest],
) (*connect.Response[x.CompareDriversResponse], error) {
	if req.Msg.RaceID == "" {
		return nil, util.InvalidArgument(errMissingRaceID)
	}
	if len(lo.Uniq(req.Msg.DriverIDs)) != len(req.Msg.DriverIDs) {
		return nil, util.InvalidArgument(errDuplicateDriver)
	}
	ctx, span := s.tracer.Start(ctx, "compare drivers",
		trace.WithAttributes(
			attribute.String("raceId", req.Msg.RaceID),
			attribute.StringSlice("driverIds", req.Msg.DriverIDs)))
	defer span.End()
	data, err := s.svc.CompareDrivers(ctx, req.Msg.RaceID, req.Msg.DriverIDs)
	if err != nil {
		span.RecordError(err)
		return nil, s.toError("CompareDrivers", err)
	}
	return connect.NewResponse(&x.CompareDriversResponse{Drivers: data}), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *analyticsServer) RaceInsights(
	ctx context.Context,
	req *connect.Request[x.RaceInsightsRequest],
) (*connect.Response[x.RaceInsightsResponse], error) {
	if req.Msg.RaceID == "" {
		return nil, util.InvalidArgument(errMissingRaceID)
	}
	ctx, span := s.tracer.Start(ctx, "race insights",
		trace.WithAttributes(attribute.String("raceId", req.Msg.RaceID)))
	defer span.End()
	data, err := s.svc.RaceInsights(ctx, req.Msg.RaceID)
	if err != nil {
		span.RecordError(err)
		return nil, s.toError("RaceInsights", err)
	}
	span.SetAttributes(attribute.Int("insights", len(data)))
	return connect.NewResponse(&x.RaceInsightsResponse{Insights: data}), nil
}

func (s *analyticsServer) toError(method string, err error) error {
	ret := util.ToConnectError(err)
	if connect.CodeOf(ret) == connect.CodeInternal {
		s.log.Error("request failed", log.String("method", method), log.ErrorField(err))
	} else {
		s.log.Debug("request rejected", log.String("method", method), log.ErrorField(err))
	}
	return ret
}

func validateDriver(raceID, driverID string) error {
	if raceID == "" {
		return util.InvalidArgument(errMissingRaceID)
	}
	if driverID == "" {
		return util.InvalidArgument(errMissingDriverID)
	}
	return nil
}
