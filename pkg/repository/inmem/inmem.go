// Package inmem provides repositories backed by memory.
// It backs unit tests of the service and rpc layers.
package inmem

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
)

type (
	store struct {
		mu        sync.RWMutex
		races     map[string]*model.Race
		drivers   map[string][]*model.DriverInfo
		laps      map[string][]model.LapRecord
		telemetry map[string][]model.TelemetrySample
	}
	Repositories struct {
		s *store
	}
	raceRepo      struct{ s *store }
	driverRepo    struct{ s *store }
	lapRepo       struct{ s *store }
	telemetryRepo struct{ s *store }
)

var (
	_ api.Repositories        = (*Repositories)(nil)
	_ api.RaceRepository      = (*raceRepo)(nil)
	_ api.DriverRepository    = (*driverRepo)(nil)
	_ api.LapRepository       = (*lapRepo)(nil)
	_ api.TelemetryRepository = (*telemetryRepo)(nil)
)

func NewRepositories() *Repositories {
	return &Repositories{s: &store{
		races:     map[string]*model.Race{},
		drivers:   map[string][]*model.DriverInfo{},
		laps:      map[string][]model.LapRecord{},
		telemetry: map[string][]model.TelemetrySample{},
	}}
}

func (r *Repositories) Race() api.RaceRepository           { return &raceRepo{r.s} }
func (r *Repositories) Driver() api.DriverRepository       { return &driverRepo{r.s} }
func (r *Repositories) Lap() api.LapRepository             { return &lapRepo{r.s} }
func (r *Repositories) Telemetry() api.TelemetryRepository { return &telemetryRepo{r.s} }

// RunInTx runs fn without any isolation
func (r *Repositories) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *raceRepo) Create(ctx context.Context, race *model.Race) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.races[race.ID]; ok {
		return fmt.Errorf("race %s already exists", race.ID)
	}
	c := *race
	r.s.races[race.ID] = &c
	return nil
}

func (r *raceRepo) LoadByID(ctx context.Context, raceID string) (*model.Race, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	race, ok := r.s.races[raceID]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", api.ErrUnknownRace, api.ErrNoRows, raceID)
	}
	c := *race
	return &c, nil
}

func (r *raceRepo) LoadAll(ctx context.Context) ([]*model.Race, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ret := lo.MapToSlice(r.s.races, func(_ string, race *model.Race) *model.Race {
		c := *race
		return &c
	})
	slices.SortFunc(ret, func(a, b *model.Race) int { return cmp.Compare(a.ID, b.ID) })
	return ret, nil
}

func (r *raceRepo) DeleteByID(ctx context.Context, raceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.races[raceID]; !ok {
		return 0, nil
	}
	delete(r.s.races, raceID)
	delete(r.s.drivers, raceID)
	delete(r.s.laps, raceID)
	delete(r.s.telemetry, raceID)
	return 1, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *driverRepo) Create(
	ctx context.Context,
	raceID string,
	driver *model.DriverInfo,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.races[raceID]; !ok {
		return fmt.Errorf("%w: %s", api.ErrUnknownRace, raceID)
	}
	c := *driver
	r.s.drivers[raceID] = append(r.s.drivers[raceID], &c)
	return nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *driverRepo) ListDrivers(ctx context.Context, raceID string) (
	[]*model.DriverInfo, error,
) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ret := lo.Map(r.s.drivers[raceID], func(d *model.DriverInfo, _ int) *model.DriverInfo {
		c := *d
		return &c
	})
	slices.SortFunc(ret, func(a, b *model.DriverInfo) int { return cmp.Compare(a.ID, b.ID) })
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *driverRepo) LoadByID(ctx context.Context, raceID, driverID string) (
	*model.DriverInfo, error,
) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := lo.Find(r.s.drivers[raceID], func(d *model.DriverInfo) bool {
		return d.ID == driverID
	})
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s/%s",
			api.ErrUnknownDriver, api.ErrNoRows, raceID, driverID)
	}
	c := *d
	return &c, nil
}

func (r *driverRepo) DeleteByRaceID(ctx context.Context, raceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.drivers[raceID])
	delete(r.s.drivers, raceID)
	return n, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *lapRepo) Create(
	ctx context.Context,
	raceID string,
	laps []model.LapRecord,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.races[raceID]; !ok {
		return fmt.Errorf("%w: %s", api.ErrUnknownRace, raceID)
	}
	r.s.laps[raceID] = append(r.s.laps[raceID], laps...)
	return nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *lapRepo) GetLaps(ctx context.Context, raceID, driverID string) (
	[]model.LapRecord, error,
) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ret := lo.Filter(r.s.laps[raceID], func(l model.LapRecord, _ int) bool {
		return l.DriverID == driverID
	})
	slices.SortStableFunc(ret, func(a, b model.LapRecord) int {
		return cmp.Compare(a.LapNumber, b.LapNumber)
	})
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *lapRepo) GetRaceLaps(ctx context.Context, raceID string) (
	[]model.LapRecord, error,
) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ret := slices.Clone(r.s.laps[raceID])
	slices.SortStableFunc(ret, func(a, b model.LapRecord) int {
		return cmp.Or(
			cmp.Compare(a.DriverID, b.DriverID),
			cmp.Compare(a.LapNumber, b.LapNumber))
	})
	if ret == nil {
		ret = []model.LapRecord{}
	}
	return ret, nil
}

func (r *lapRepo) DeleteByRaceID(ctx context.Context, raceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.laps[raceID])
	delete(r.s.laps, raceID)
	return n, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *telemetryRepo) Create(
	ctx context.Context,
	raceID string,
	samples []model.TelemetrySample,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.races[raceID]; !ok {
		return fmt.Errorf("%w: %s", api.ErrUnknownRace, raceID)
	}
	r.s.telemetry[raceID] = append(r.s.telemetry[raceID], samples...)
	return nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *telemetryRepo) GetTelemetry(
	ctx context.Context,
	raceID, driverID string,
	opts ...api.TelemetryOption,
) ([]model.TelemetrySample, error) {
	query := api.NewTelemetryQuery(opts...)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ret := lo.Filter(r.s.telemetry[raceID], func(s model.TelemetrySample, _ int) bool {
		return s.DriverID == driverID && (query.Lap <= 0 || s.LapNumber == query.Lap)
	})
	return query.Sample(ret), nil
}

func (r *telemetryRepo) DeleteByRaceID(ctx context.Context, raceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.telemetry[raceID])
	delete(r.s.telemetry, raceID)
	return n, nil
}
