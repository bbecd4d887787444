package strategy

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racelog-analytics/log"
	x "github.com/mpapenbr/racelog-analytics/pkg/grpc/api/strategyv1"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/server/util"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/service/analytics"
	"github.com/mpapenbr/racelog-analytics/pkg/strategy/pitstop"
)

// MaxDegradationRate is the highest accepted wear rate per lap
const MaxDegradationRate = 0.05

func NewServer(opts ...Option) *strategyServer {
	ret := &strategyServer{
		log: log.Default().Named("grpc.strategy"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("rla")
	}
	return ret
}

type Option func(*strategyServer)

func WithService(svc *analytics.Service) Option {
	return func(srv *strategyServer) {
		srv.svc = svc
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(srv *strategyServer) {
		srv.tracer = tracer
	}
}

type strategyServer struct {
	log    *log.Logger
	svc    *analytics.Service
	tracer trace.Tracer
}

var _ x.StrategyServiceHandler = (*strategyServer)(nil)

//nolint:whitespace // can't make both editor and linter happy
func (s *strategyServer) PitStopStrategy(
	ctx context.Context,
	req *connect.Request[x.PitStopStrategyRequest],
) (*connect.Response[x.PitStopStrategyResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, util.InvalidArgument(err)
	}
	ctx, span := s.tracer.Start(ctx, "pit stop strategy",
		trace.WithAttributes(
			attribute.Int("currentLap", req.Msg.CurrentLap),
			attribute.Int("totalLaps", req.Msg.TotalLaps),
			attribute.Float64("degradationRate", req.Msg.DegradationRate)))
	defer span.End()

	res, err := s.svc.PitStopStrategy(ctx, &analytics.StrategyRequest{
		RaceID:          req.Msg.RaceID,
		DriverID:        req.Msg.DriverID,
		CurrentLap:      req.Msg.CurrentLap,
		TotalLaps:       req.Msg.TotalLaps,
		DegradationRate: req.Msg.DegradationRate,
		BaseLapTime:     req.Msg.BaseLapTime,
		PitLaneTimeCost: req.Msg.PitLaneTimeCost,
		TireAge:         req.Msg.TireAge,
	})
	if errors.Is(err, model.ErrNotApplicable) {
		s.log.Debug("strategy not applicable", log.ErrorField(err))
		return connect.NewResponse(&x.PitStopStrategyResponse{
			Applicable: false,
			Reason:     err.Error(),
		}), nil
	}
	if err != nil {
		span.RecordError(err)
		ret := util.ToConnectError(err)
		if connect.CodeOf(ret) == connect.CodeInternal {
			s.log.Error("strategy failed", log.ErrorField(err))
		}
		return nil, ret
	}
	span.SetAttributes(
		attribute.String("strategy", res.StrategyType.String()),
		attribute.Float64("timeGain", res.TimeGain))
	return connect.NewResponse(&x.PitStopStrategyResponse{
		Applicable: true,
		Result:     res.StrategyResult,
		Plan:       toPlan(res.Parts),
	}), nil
}

// the total laps may be omitted if the race is given
func validate(msg *x.PitStopStrategyRequest) error {
	switch {
	case msg.CurrentLap < 1:
		return fmt.Errorf("currentLap must be >= 1, got %d", msg.CurrentLap)
	case msg.TotalLaps == 0 && msg.RaceID == "":
		return errors.New("totalLaps or raceId is required")
	case msg.TotalLaps != 0 && msg.TotalLaps <= msg.CurrentLap:
		return fmt.Errorf("totalLaps must be > currentLap, got %d <= %d",
			msg.TotalLaps, msg.CurrentLap)
	case msg.DegradationRate <= 0 || msg.DegradationRate > MaxDegradationRate:
		return fmt.Errorf("degradationRate must be in (0, %v], got %v",
			MaxDegradationRate, msg.DegradationRate)
	case msg.BaseLapTime < 0:
		return fmt.Errorf("baseLapTime must not be negative, got %v", msg.BaseLapTime)
	case msg.PitLaneTimeCost < 0:
		return fmt.Errorf("pitLaneTimeCost must not be negative, got %v", msg.PitLaneTimeCost)
	case msg.TireAge < 0:
		return fmt.Errorf("tireAge must not be negative, got %d", msg.TireAge)
	}
	return nil
}

func toPlan(parts []pitstop.Part) []x.PlanItem {
	ret := make([]x.PlanItem, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case pitstop.StintPart:
			ret = append(ret, x.PlanItem{
				Type:     x.PlanItemStint,
				LapStart: v.LapStart(),
				LapEnd:   v.LapEnd(),
				StartAge: v.StartAge(),
				Duration: v.StintTime().Seconds(),
			})
		case pitstop.PitPart:
			ret = append(ret, x.PlanItem{
				Type:     x.PlanItemPit,
				LapStart: v.Lap(),
				LapEnd:   v.Lap(),
				Duration: v.PitTime().Seconds(),
			})
		}
	}
	return ret
}
