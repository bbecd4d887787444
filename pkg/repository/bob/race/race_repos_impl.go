//nolint:whitespace // can't make both editor and linter happy
package race

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
	raceRow struct {
		ID        string `db:"id"`
		Name      string `db:"name"`
		Track     string `db:"track"`
		TotalLaps int32  `db:"total_laps"`
	}
)

var _ api.RaceRepository = (*repo)(nil)

var columns = []any{"id", "name", "track", "total_laps"}

func NewRaceRepository(conn bob.Executor) api.RaceRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, race *model.Race) error {
	q := psql.Insert(
		im.Into("race", "id", "name", "track", "total_laps"),
		im.Values(
			psql.Arg(race.ID),
			psql.Arg(race.Name),
			psql.Arg(race.Track),
			psql.Arg(int32(race.TotalLaps)),
		),
	)
	_, err := q.Exec(ctx, r.getExecutor(ctx))
	return err
}

func (r *repo) LoadByID(ctx context.Context, raceID string) (*model.Race, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("race"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(raceID))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[raceRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %w: %s", api.ErrUnknownRace, api.ErrNoRows, raceID)
	}
	if err != nil {
		return nil, err
	}
	return toModel(row), nil
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Race, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("race"),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[raceRow]())
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Race, len(rows))
	for i := range rows {
		ret[i] = toModel(rows[i])
	}
	return ret, nil
}

// deletes a race including its drivers, laps and telemetry (via cascade),
// returns number of races deleted.
func (r *repo) DeleteByID(ctx context.Context, raceID string) (int, error) {
	ret, err := psql.Delete(
		dm.From("race"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(raceID))),
	).Exec(ctx, r.getExecutor(ctx))
	return int(ret), err
}

func toModel(row raceRow) *model.Race {
	return &model.Race{
		ID:        row.ID,
		Name:      row.Name,
		Track:     row.Track,
		TotalLaps: int(row.TotalLaps),
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	if executor := bobCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}
