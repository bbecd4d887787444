package basedata

import (
	"context"
	"log"
	"math"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
)

const (
	SampleRaceID  = "barber-r1"
	TrackLength   = 3700.0
	samplesPerLap = 20
)

func SampleRace() *model.Race {
	return &model.Race{
		ID:        SampleRaceID,
		Name:      "Barber Race 1",
		Track:     "barber",
		TotalLaps: 27,
	}
}

func SampleDrivers() []*model.DriverInfo {
	return []*model.DriverInfo{
		{ID: "A", Number: "13", Vehicle: "GR86-013", Class: "Am"},
		{ID: "B", Number: "22", Vehicle: "GR86-022", Class: "Am"},
		{ID: "C", Number: "7", Vehicle: "GR86-007", Class: "Pro"},
	}
}

// SampleLaps returns laps for drivers A and B. Lap 4 of A is an outlier,
// C has no laps.
func SampleLaps() []model.LapRecord {
	laps := []model.LapRecord{}
	for i, t := range []float64{96.5, 96.8, 97.0, 400.2} {
		laps = append(laps, model.LapRecord{DriverID: "A", LapNumber: i + 1, LapTime: t})
	}
	for i, t := range []float64{97.4, 97.1, 97.3} {
		laps = append(laps, model.LapRecord{DriverID: "B", LapNumber: i + 1, LapTime: t})
	}
	return laps
}

// SampleTelemetry returns samples on a circular track for the given laps
func SampleTelemetry(driverID string, laps ...int) []model.TelemetrySample {
	ret := []model.TelemetrySample{}
	for _, lap := range laps {
		for i := range samplesPerLap {
			frac := float64(i) / samplesPerLap
			angle := 2 * math.Pi * frac
			ret = append(ret, model.TelemetrySample{
				DriverID:   driverID,
				LapNumber:  lap,
				Distance:   frac * TrackLength,
				Lat:        33.53 + 0.005*math.Sin(angle),
				Lon:        -86.62 + 0.005*math.Cos(angle),
				Speed:      120 + 20*math.Sin(2*angle),
				Throttle:   80,
				BrakeFront: math.Max(0, -20*math.Sin(2*angle)),
				BrakeRear:  math.Max(0, -10*math.Sin(2*angle)),
			})
		}
	}
	return ret
}

// CreateSampleRace stores the sample race with drivers, laps and telemetry
// within one transaction
//
//nolint:whitespace // can't make both editor and linter happy
func CreateSampleRace(
	repos api.Repositories,
	txMgr api.TransactionManager,
) *model.Race {
	race := SampleRace()
	err := txMgr.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := repos.Race().Create(ctx, race); err != nil {
			return err
		}
		for _, d := range SampleDrivers() {
			if err := repos.Driver().Create(ctx, race.ID, d); err != nil {
				return err
			}
		}
		if err := repos.Lap().Create(ctx, race.ID, SampleLaps()); err != nil {
			return err
		}
		samples := append(SampleTelemetry("A", 1, 2), SampleTelemetry("B", 1)...)
		return repos.Telemetry().Create(ctx, race.ID, samples)
	})
	if err != nil {
		log.Fatalf("createSampleRace: %v\n", err)
	}
	return race
}
