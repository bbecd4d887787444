//nolint:whitespace // can't make both editor and linter happy
package telemetry

import (
	"context"

	"github.com/samber/lo"
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
	sampleRow struct {
		DriverID   string  `db:"driver_id"`
		LapNumber  int32   `db:"lap_number"`
		Distance   float64 `db:"distance"`
		Lat        float64 `db:"lat"`
		Lon        float64 `db:"lon"`
		Speed      float64 `db:"speed"`
		Throttle   float64 `db:"throttle"`
		BrakeFront float64 `db:"brake_front"`
		BrakeRear  float64 `db:"brake_rear"`
	}
)

var _ api.TelemetryRepository = (*repo)(nil)

// postgres allows at most 65535 parameters per statement
const insertChunkSize = 1000

var columns = []string{
	"driver_id", "lap_number", "distance", "lat", "lon",
	"speed", "throttle", "brake_front", "brake_rear",
}

func NewTelemetryRepository(conn bob.Executor) api.TelemetryRepository {
	return &repo{
		conn: conn,
	}
}

// Create appends the samples to the race. The insertion order defines the
// sequence returned by GetTelemetry.
func (r *repo) Create(
	ctx context.Context,
	raceID string,
	samples []model.TelemetrySample,
) error {
	for _, chunk := range lo.Chunk(samples, insertChunkSize) {
		mods := []bob.Mod[*dialect.InsertQuery]{
			im.Into("telemetry", append([]string{"race_id"}, columns...)...),
		}
		for i := range chunk {
			s := &chunk[i]
			mods = append(mods, im.Values(
				psql.Arg(raceID),
				psql.Arg(s.DriverID),
				psql.Arg(int32(s.LapNumber)),
				psql.Arg(s.Distance),
				psql.Arg(s.Lat),
				psql.Arg(s.Lon),
				psql.Arg(s.Speed),
				psql.Arg(s.Throttle),
				psql.Arg(s.BrakeFront),
				psql.Arg(s.BrakeRear),
			))
		}
		if _, err := psql.Insert(mods...).Exec(ctx, r.getExecutor(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) GetTelemetry(
	ctx context.Context,
	raceID, driverID string,
	opts ...api.TelemetryOption,
) ([]model.TelemetrySample, error) {
	query := api.NewTelemetryQuery(opts...)
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From("telemetry"),
		sm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
		sm.Where(psql.Quote("driver_id").EQ(psql.Arg(driverID))),
	}
	if query.Lap > 0 {
		mods = append(mods,
			sm.Where(psql.Quote("lap_number").EQ(psql.Arg(int32(query.Lap)))))
	}
	mods = append(mods, sm.OrderBy("id").Asc())

	rows, err := bob.All(ctx, r.getExecutor(ctx),
		psql.Select(mods...), scan.StructMapper[sampleRow]())
	if err != nil {
		return nil, err
	}
	ret := lo.Map(rows, func(row sampleRow, _ int) model.TelemetrySample {
		return model.TelemetrySample{
			DriverID:   row.DriverID,
			LapNumber:  int(row.LapNumber),
			Distance:   row.Distance,
			Lat:        row.Lat,
			Lon:        row.Lon,
			Speed:      row.Speed,
			Throttle:   row.Throttle,
			BrakeFront: row.BrakeFront,
			BrakeRear:  row.BrakeRear,
		}
	})
	return query.Sample(ret), nil
}

// deletes the telemetry of a race, returns number of rows deleted.
func (r *repo) DeleteByRaceID(ctx context.Context, raceID string) (int, error) {
	ret, err := psql.Delete(
		dm.From("telemetry"),
		dm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
	).Exec(ctx, r.getExecutor(ctx))
	return int(ret), err
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
