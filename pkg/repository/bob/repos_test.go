//nolint:whitespace,lll // can't make both editor and linter happy
package bob_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
	bobRepos "github.com/mpapenbr/racelog-analytics/pkg/repository/bob"
	base "github.com/mpapenbr/racelog-analytics/testsupport/basedata"
	"github.com/mpapenbr/racelog-analytics/testsupport/testdb"
)

func setup(t *testing.T) (api.Repositories, api.TransactionManager) {
	t.Helper()
	pool := testdb.InitTestDB()
	db := bob.NewDB(stdlib.OpenDBFromPool(pool))
	return bobRepos.NewRepositories(db), bobRepos.NewTransactionManager(db)
}

func TestRaceRepository(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	race := base.CreateSampleRace(repos, txMgr)

	got, err := repos.Race().LoadByID(ctx, race.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, race, got)

	all, err := repos.Race().LoadAll(ctx)
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, 1))

	_, err = repos.Race().LoadByID(ctx, "unknown")
	assert.Check(t, errors.Is(err, api.ErrUnknownRace))
	assert.Check(t, errors.Is(err, api.ErrNoRows))
}

func TestRaceRepository_DeleteCascades(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	race := base.CreateSampleRace(repos, txMgr)

	num, err := repos.Race().DeleteByID(ctx, race.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, num)

	drivers, err := repos.Driver().ListDrivers(ctx, race.ID)
	assert.NilError(t, err)
	assert.Check(t, is.Len(drivers, 0))
	laps, err := repos.Lap().GetRaceLaps(ctx, race.ID)
	assert.NilError(t, err)
	assert.Check(t, is.Len(laps, 0))
}

func TestDriverRepository(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	race := base.CreateSampleRace(repos, txMgr)

	drivers, err := repos.Driver().ListDrivers(ctx, race.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, base.SampleDrivers(), drivers)

	d, err := repos.Driver().LoadByID(ctx, race.ID, "C")
	assert.NilError(t, err)
	assert.Equal(t, "Pro", d.Class)

	_, err = repos.Driver().LoadByID(ctx, race.ID, "X")
	assert.Check(t, errors.Is(err, api.ErrUnknownDriver))

	unknown, err := repos.Driver().ListDrivers(ctx, "unknown")
	assert.NilError(t, err)
	assert.Check(t, is.Len(unknown, 0))
}

func TestLapRepository(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	race := base.CreateSampleRace(repos, txMgr)

	laps, err := repos.Lap().GetLaps(ctx, race.ID, "A")
	assert.NilError(t, err)
	assert.DeepEqual(t, []model.LapRecord{
		{DriverID: "A", LapNumber: 1, LapTime: 96.5},
		{DriverID: "A", LapNumber: 2, LapTime: 96.8},
		{DriverID: "A", LapNumber: 3, LapTime: 97.0},
		{DriverID: "A", LapNumber: 4, LapTime: 400.2},
	}, laps)

	all, err := repos.Lap().GetRaceLaps(ctx, race.ID)
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, len(base.SampleLaps())))
	assert.Equal(t, "B", all[len(all)-1].DriverID)

	none, err := repos.Lap().GetLaps(ctx, race.ID, "C")
	assert.NilError(t, err)
	assert.Check(t, is.Len(none, 0))

	num, err := repos.Lap().DeleteByRaceID(ctx, race.ID)
	assert.NilError(t, err)
	assert.Equal(t, len(base.SampleLaps()), num)
}

func TestLapRepository_Precision(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	race := base.CreateSampleRace(repos, txMgr)

	err := repos.Lap().Create(ctx, race.ID, []model.LapRecord{
		{DriverID: "C", LapNumber: 1, LapTime: 98.12345},
		{DriverID: "C", LapNumber: 2, LapTime: -1},
	})
	assert.NilError(t, err)
	laps, err := repos.Lap().GetLaps(ctx, race.ID, "C")
	assert.NilError(t, err)
	assert.Equal(t, 98.123, laps[0].LapTime)
	assert.Equal(t, -1.0, laps[1].LapTime)
	assert.Check(t, !laps[1].HasTime())
}

func TestTelemetryRepository(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	race := base.CreateSampleRace(repos, txMgr)
	want := base.SampleTelemetry("A", 1, 2)

	tests := []struct {
		name    string
		opts    []api.TelemetryOption
		wantLen int
		first   model.TelemetrySample
	}{
		{"all", nil, len(want), want[0]},
		{"lap 2", []api.TelemetryOption{api.WithLap(2)}, len(want) / 2, want[len(want)/2]},
		{"sampled", []api.TelemetryOption{api.WithSampleRate(5)}, len(want) / 5, want[0]},
		{"lap and sampled", []api.TelemetryOption{api.WithLap(1), api.WithSampleRate(5)}, len(want) / 10, want[0]},
		{"unknown lap", []api.TelemetryOption{api.WithLap(9)}, 0, model.TelemetrySample{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Telemetry().GetTelemetry(ctx, race.ID, "A", tt.opts...)
			assert.NilError(t, err)
			assert.Equal(t, tt.wantLen, len(got))
			if tt.wantLen > 0 {
				assert.DeepEqual(t, tt.first, got[0])
			}
		})
	}
}

func TestTransactionRollback(t *testing.T) {
	repos, txMgr := setup(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := txMgr.RunInTx(ctx, func(ctx context.Context) error {
		if err := repos.Race().Create(ctx, base.SampleRace()); err != nil {
			return err
		}
		return errAbort
	})
	assert.Check(t, errors.Is(err, errAbort))

	races, err := repos.Race().LoadAll(ctx)
	assert.NilError(t, err)
	assert.Check(t, is.Len(races, 0))
}
