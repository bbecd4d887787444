//nolint:whitespace // can't make both editor and linter happy
package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
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
	driverRow struct {
		DriverID  string `db:"driver_id"`
		CarNumber string `db:"car_number"`
		Vehicle   string `db:"vehicle"`
		Class     string `db:"class"`
	}
)

var _ api.DriverRepository = (*repo)(nil)

var columns = []any{"driver_id", "car_number", "vehicle", "class"}

func NewDriverRepository(conn bob.Executor) api.DriverRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, raceID string, driver *model.DriverInfo) error {
	q := psql.Insert(
		im.Into("driver", "race_id", "driver_id", "car_number", "vehicle", "class"),
		im.Values(
			psql.Arg(raceID),
			psql.Arg(driver.ID),
			psql.Arg(driver.Number),
			psql.Arg(driver.Vehicle),
			psql.Arg(driver.Class),
		),
	)
	_, err := q.Exec(ctx, r.getExecutor(ctx))
	return err
}

// ListDrivers returns the drivers of a race ordered by driver id.
// An empty list is returned for unknown races.
func (r *repo) ListDrivers(ctx context.Context, raceID string) (
	[]*model.DriverInfo, error,
) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("driver"),
		sm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
		sm.OrderBy("driver_id").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[driverRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.DriverInfo, len(rows))
	for i := range rows {
		ret[i] = toModel(rows[i])
	}
	return ret, nil
}

func (r *repo) LoadByID(ctx context.Context, raceID, driverID string) (
	*model.DriverInfo, error,
) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("driver"),
		sm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
		sm.Where(psql.Quote("driver_id").EQ(psql.Arg(driverID))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[driverRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %w: %s/%s",
			api.ErrUnknownDriver, api.ErrNoRows, raceID, driverID)
	}
	if err != nil {
		return nil, err
	}
	return toModel(row), nil
}

// deletes the drivers of a race, returns number of rows deleted.
func (r *repo) DeleteByRaceID(ctx context.Context, raceID string) (int, error) {
	ret, err := psql.Delete(
		dm.From("driver"),
		dm.Where(psql.Quote("race_id").EQ(psql.Arg(raceID))),
	).Exec(ctx, r.getExecutor(ctx))
	return int(ret), err
}

func toModel(row driverRow) *model.DriverInfo {
	return &model.DriverInfo{
		ID:      row.DriverID,
		Number:  row.CarNumber,
		Vehicle: row.Vehicle,
		Class:   row.Class,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
