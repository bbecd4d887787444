package analytics

import (
	"context"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racelog-analytics/log"
	"github.com/mpapenbr/racelog-analytics/pkg/analytics/comparison"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/strategy/pitstop"
)

// StrategyRequest holds the parameters of a pit stop strategy calculation.
// Zero values are resolved from the race data or the configuration.
type StrategyRequest struct {
	RaceID          string
	DriverID        string
	CurrentLap      int
	TotalLaps       int
	DegradationRate float64
	BaseLapTime     float64
	PitLaneTimeCost float64
	TireAge         int
}

// PitStopStrategy resolves missing parameters and runs the optimizer.
// model.ErrNotApplicable is returned if no laps remain.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) PitStopStrategy(ctx context.Context, req *StrategyRequest) (
	*pitstop.Result, error,
) {
	defer s.metrics.record(ctx, "pit_stop_strategy", time.Now())
	cfg := config.FromContext(ctx)
	param := &pitstop.Params{
		CurrentLap:         req.CurrentLap,
		TotalLaps:          req.TotalLaps,
		DegradationRate:    req.DegradationRate,
		BaseLapTime:        req.BaseLapTime,
		PitLaneTimeCost:    lo.Ternary(req.PitLaneTimeCost > 0, req.PitLaneTimeCost, cfg.PitLaneTimeCost),
		TireAge:            req.TireAge,
		MaxDegradation:     cfg.MaxDegradation,
		MinLapsForTwoStops: cfg.MinLapsForTwoStops,
	}
	if param.TotalLaps <= 0 && req.RaceID != "" {
		race, err := s.repos.Race().LoadByID(ctx, req.RaceID)
		if err != nil {
			return nil, err
		}
		param.TotalLaps = race.TotalLaps
	}
	if param.BaseLapTime <= 0 {
		base, err := s.baseLapTime(ctx, req, cfg)
		if err != nil {
			return nil, err
		}
		param.BaseLapTime = base
	}
	s.l.Debug("pit stop strategy",
		log.Int("currentLap", param.CurrentLap),
		log.Int("totalLaps", param.TotalLaps),
		log.Float64("rate", param.DegradationRate),
		log.Float64("baseLapTime", param.BaseLapTime))
	return pitstop.Optimize(param)
}

// baseLapTime uses the average lap of the driver, then the mean best lap of
// the field plus an offset, then the configured default
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) baseLapTime(
	ctx context.Context,
	req *StrategyRequest,
	cfg *config.Config,
) (float64, error) {
	if req.RaceID == "" {
		return cfg.DefaultBaseLapTime, nil
	}
	if req.DriverID != "" {
		summary, err := s.AnalyzeDriver(ctx, req.RaceID, req.DriverID)
		if err != nil {
			return 0, err
		}
		if avg, ok := summary.AvgLapTime.Get(); ok {
			return avg, nil
		}
	}
	field, err := s.fieldData(ctx, req.RaceID)
	if err != nil {
		return 0, err
	}
	bests := lo.FilterMap(comparison.SummarizeAll(field, statsOptions(cfg)...),
		func(item model.DriverSummary, _ int) (float64, bool) {
			return item.BestLapTime.Get()
		})
	if len(bests) == 0 {
		return cfg.DefaultBaseLapTime, nil
	}
	return stat.Mean(bests, nil) + cfg.AvgLapOffset, nil
}
