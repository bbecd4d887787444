//nolint:whitespace // can't make both editor and linter happy
package lap

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
	bobCtx "github.com/mpapenbr/racelog-analytics/pkg/repository/bob/context"
)

type (
	repo struct {
		conn bob.Executor
	}
	lapRow struct {
		DriverID  string          `db:"driver_id"`
		LapNumber int32           `db:"lap_number"`
		LapTime   decimal.Decimal `db:"lap_time"`
	}
)

var _ api.LapRepository = (*repo)(nil)

var columns = []any{"driver_id", "lap_number", "lap_time"}

func NewLapRepository(conn bob.Executor) api.LapRepository {
	return &repo{
		conn: conn,
	}
}

// Create stores the laps with millisecond precision.
// Lap times that are not a finite number are stored as 0 (invalid lap).
func (r *repo) Create(ctx context.Context, raceID string, laps []model.LapRecord) error {
	if len(laps) == 0 {
		return nil
	}
	mods := []bob.Mod[*dialect.InsertQuery]{
		im.Into("lap", "race_id", "driver_id", "lap_number", "lap_time"),
	}
	for i := range laps {
		lapTime := decimal.Zero
		if !math.IsNaN(laps[i].LapTime) && !math.IsInf(laps[i].LapTime, 0) {
			lapTime = toDecimal(laps[i].LapTime)
		}
		mods = append(mods, im.Values(
			psql.Arg(raceID),
			psql.Arg(laps[i].DriverID),
			psql.Arg(int32(laps[i].LapNumber)),
			psql.Arg(lapTime),
		))
	}
	_, err := psql.Insert(mods...).Exec(ctx, r.getExecutor(ctx))
	return err
}

func (r *repo) GetLaps(ctx context.Context, raceID, driverID string) (
	[]model.LapRecord, error,
) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("lap"),
		sm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
		sm.Where(psql.Quote("driver_id").EQ(psql.Arg(driverID))),
		sm.OrderBy("lap_number").Asc(),
	)
	return r.load(ctx, q)
}

func (r *repo) GetRaceLaps(ctx context.Context, raceID string) (
	[]model.LapRecord, error,
) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("lap"),
		sm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
		sm.OrderBy("driver_id").Asc(),
		sm.OrderBy("lap_number").Asc(),
	)
	return r.load(ctx, q)
}

// deletes the laps of a race, returns number of rows deleted.
func (r *repo) DeleteByRaceID(ctx context.Context, raceID string) (int, error) {
	ret, err := psql.Delete(
		dm.From("lap"),
		dm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
	).Exec(ctx, r.getExecutor(ctx))
	return int(ret), err
}

func (r *repo) load(ctx context.Context, q bob.Query) ([]model.LapRecord, error) {
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[lapRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]model.LapRecord, len(rows))
	for i := range rows {
		ret[i] = model.LapRecord{
			DriverID:  rows[i].DriverID,
			LapNumber: int(rows[i].LapNumber),
			LapTime:   rows[i].LapTime.InexactFloat64(),
		}
	}
	return ret, nil
}

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(3)
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
