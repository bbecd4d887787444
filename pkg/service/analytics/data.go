package analytics

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/racelog-analytics/pkg/analytics/comparison"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

// CompareDrivers returns the summaries of the requested drivers in request
// order. If no drivers are requested all drivers of the race are compared.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) CompareDrivers(
	ctx context.Context,
	raceID string,
	driverIDs []string,
) ([]model.DriverSummary, error) {
	defer s.metrics.record(ctx, "compare_drivers", time.Now())
	var entries []comparison.DriverData
	if len(driverIDs) == 0 {
		field, err := s.fieldData(ctx, raceID)
		if err != nil {
			return nil, err
		}
		entries = field
	} else {
		for _, id := range driverIDs {
			data, err := s.driverData(ctx, raceID, id)
			if err != nil {
				return nil, err
			}
			entries = append(entries, *data)
		}
	}
	return comparison.Compare(entries, statsOptions(config.FromContext(ctx))...)
}

//nolint:whitespace // can't make both editor and linter happy
func (s *Service) driverData(ctx context.Context, raceID, driverID string) (
	*comparison.DriverData, error,
) {
	if _, err := s.repos.Driver().LoadByID(ctx, raceID, driverID); err != nil {
		return nil, err
	}
	laps, err := s.repos.Lap().GetLaps(ctx, raceID, driverID)
	if err != nil {
		return nil, err
	}
	samples, err := s.repos.Telemetry().GetTelemetry(ctx, raceID, driverID)
	if err != nil {
		return nil, err
	}
	return &comparison.DriverData{DriverID: driverID, Laps: laps, Telemetry: samples}, nil
}

// fieldData returns the laps of all drivers of a race. Drivers without laps
// are included. Telemetry is not loaded.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) fieldData(ctx context.Context, raceID string) (
	[]comparison.DriverData, error,
) {
	if _, err := s.repos.Race().LoadByID(ctx, raceID); err != nil {
		return nil, err
	}
	drivers, err := s.repos.Driver().ListDrivers(ctx, raceID)
	if err != nil {
		return nil, err
	}
	laps, err := s.repos.Lap().GetRaceLaps(ctx, raceID)
	if err != nil {
		return nil, err
	}
	byDriver := lo.GroupBy(laps, func(l model.LapRecord) string { return l.DriverID })
	return lo.Map(drivers, func(d *model.DriverInfo, _ int) comparison.DriverData {
		return comparison.DriverData{DriverID: d.ID, Laps: byDriver[d.ID]}
	}), nil
}
