package api

import (
	"context"
	"errors"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

var (
	ErrNoRows        = errors.New("no rows in result set")
	ErrUnknownRace   = errors.New("unknown race")
	ErrUnknownDriver = errors.New("unknown driver")
)

type Repositories interface {
	Race() RaceRepository
	Driver() DriverRepository
	Lap() LapRepository
	Telemetry() TelemetryRepository
}

type RaceRepository interface {
	Create(ctx context.Context, race *model.Race) error
	LoadByID(ctx context.Context, raceID string) (*model.Race, error)
	LoadAll(ctx context.Context) ([]*model.Race, error)
	DeleteByID(ctx context.Context, raceID string) (int, error)
}

type DriverRepository interface {
	Create(ctx context.Context, raceID string, driver *model.DriverInfo) error
	ListDrivers(ctx context.Context, raceID string) ([]*model.DriverInfo, error)
	LoadByID(ctx context.Context, raceID, driverID string) (*model.DriverInfo, error)
	DeleteByRaceID(ctx context.Context, raceID string) (int, error)
}

type LapRepository interface {
	Create(ctx context.Context, raceID string, laps []model.LapRecord) error
	// GetLaps returns the laps of a driver ordered by lap number
	GetLaps(ctx context.Context, raceID, driverID string) ([]model.LapRecord, error)
	// GetRaceLaps returns the laps of all drivers ordered by driver and lap number
	GetRaceLaps(ctx context.Context, raceID string) ([]model.LapRecord, error)
	DeleteByRaceID(ctx context.Context, raceID string) (int, error)
}

type TelemetryRepository interface {
	Create(ctx context.Context, raceID string, samples []model.TelemetrySample) error
	GetTelemetry(
		ctx context.Context,
		raceID, driverID string,
		opts ...TelemetryOption,
	) ([]model.TelemetrySample, error)
	DeleteByRaceID(ctx context.Context, raceID string) (int, error)
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type (
	TelemetryOption func(*TelemetryQuery)
	// TelemetryQuery restricts the samples returned by GetTelemetry
	TelemetryQuery struct {
		SampleRate int
		// Lap 0 means all laps
		Lap int
	}
)

// WithSampleRate returns only every n-th sample. Values < 2 return all samples.
func WithSampleRate(n int) TelemetryOption {
	return func(q *TelemetryQuery) {
		q.SampleRate = n
	}
}

func WithLap(lap int) TelemetryOption {
	return func(q *TelemetryQuery) {
		q.Lap = lap
	}
}

func NewTelemetryQuery(opts ...TelemetryOption) *TelemetryQuery {
	q := &TelemetryQuery{SampleRate: 1}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Sample applies the sample rate to samples ordered by sequence
func (q *TelemetryQuery) Sample(samples []model.TelemetrySample) []model.TelemetrySample {
	if q.SampleRate < 2 {
		return samples
	}
	ret := make([]model.TelemetrySample, 0, len(samples)/q.SampleRate+1)
	for i := 0; i < len(samples); i += q.SampleRate {
		ret = append(ret, samples[i])
	}
	return ret
}
