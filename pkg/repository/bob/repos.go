package bob

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/bob/driver"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/bob/lap"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/bob/race"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/bob/telemetry"
)

type bobRepositories struct {
	raceRepository      api.RaceRepository
	driverRepository    api.DriverRepository
	lapRepository       api.LapRepository
	telemetryRepository api.TelemetryRepository
}

var _ api.Repositories = (*bobRepositories)(nil)

func NewRepositoriesFromPool(pool *pgxpool.Pool) api.Repositories {
	return NewRepositories(bob.NewDB(stdlib.OpenDBFromPool(pool)))
}

func NewRepositories(db bob.DB) api.Repositories {
	return &bobRepositories{
		raceRepository:      race.NewRaceRepository(db),
		driverRepository:    driver.NewDriverRepository(db),
		lapRepository:       lap.NewLapRepository(db),
		telemetryRepository: telemetry.NewTelemetryRepository(db),
	}
}

func (r *bobRepositories) Race() api.RaceRepository {
	return r.raceRepository
}

func (r *bobRepositories) Driver() api.DriverRepository {
	return r.driverRepository
}

func (r *bobRepositories) Lap() api.LapRepository {
	return r.lapRepository
}

func (r *bobRepositories) Telemetry() api.TelemetryRepository {
	return r.telemetryRepository
}
