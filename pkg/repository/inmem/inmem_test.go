package inmem

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
)

func setup(t *testing.T) *Repositories {
	t.Helper()
	ctx := context.Background()
	r := NewRepositories()
	assert.NilError(t, r.Race().Create(ctx, &model.Race{ID: "r1", Name: "Race 1", TotalLaps: 20}))
	assert.NilError(t, r.Driver().Create(ctx, "r1", &model.DriverInfo{ID: "B", Number: "2"}))
	assert.NilError(t, r.Driver().Create(ctx, "r1", &model.DriverInfo{ID: "A", Number: "1"}))
	assert.NilError(t, r.Lap().Create(ctx, "r1", []model.LapRecord{
		{DriverID: "A", LapNumber: 2, LapTime: 97},
		{DriverID: "B", LapNumber: 1, LapTime: 99},
		{DriverID: "A", LapNumber: 1, LapTime: 98},
	}))
	assert.NilError(t, r.Telemetry().Create(ctx, "r1", []model.TelemetrySample{
		{DriverID: "A", LapNumber: 1, Distance: 0},
		{DriverID: "A", LapNumber: 1, Distance: 1},
		{DriverID: "A", LapNumber: 2, Distance: 2},
		{DriverID: "B", LapNumber: 1, Distance: 3},
	}))
	return r
}

func TestLaps(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	laps, err := r.Lap().GetLaps(ctx, "r1", "A")
	assert.NilError(t, err)
	assert.DeepEqual(t, []model.LapRecord{
		{DriverID: "A", LapNumber: 1, LapTime: 98},
		{DriverID: "A", LapNumber: 2, LapTime: 97},
	}, laps)

	all, err := r.Lap().GetRaceLaps(ctx, "r1")
	assert.NilError(t, err)
	assert.Equal(t, 3, len(all))
	assert.Equal(t, "B", all[2].DriverID)

	none, err := r.Lap().GetRaceLaps(ctx, "unknown")
	assert.NilError(t, err)
	assert.Equal(t, 0, len(none))
}

func TestDrivers(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	drivers, err := r.Driver().ListDrivers(ctx, "r1")
	assert.NilError(t, err)
	assert.Equal(t, 2, len(drivers))
	assert.Equal(t, "A", drivers[0].ID)

	_, err = r.Driver().LoadByID(ctx, "r1", "X")
	assert.Assert(t, errors.Is(err, api.ErrUnknownDriver))
	assert.Assert(t, errors.Is(err, api.ErrNoRows))
}

func TestTelemetry(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	got, err := r.Telemetry().GetTelemetry(ctx, "r1", "A")
	assert.NilError(t, err)
	assert.Equal(t, 3, len(got))

	got, err = r.Telemetry().GetTelemetry(ctx, "r1", "A", api.WithLap(1))
	assert.NilError(t, err)
	assert.Equal(t, 2, len(got))

	got, err = r.Telemetry().GetTelemetry(ctx, "r1", "A", api.WithSampleRate(2))
	assert.NilError(t, err)
	assert.Equal(t, 2, len(got))
	assert.Equal(t, 2.0, got[1].Distance)
}

func TestRaceDelete(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	_, err := r.Race().LoadByID(ctx, "nope")
	assert.Assert(t, errors.Is(err, api.ErrUnknownRace))

	n, err := r.Race().DeleteByID(ctx, "r1")
	assert.NilError(t, err)
	assert.Equal(t, 1, n)
	laps, err := r.Lap().GetLaps(ctx, "r1", "A")
	assert.NilError(t, err)
	assert.Equal(t, 0, len(laps))
}
