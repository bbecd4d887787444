// Package analytics loads race data from the repositories and runs the
// analytics and strategy engine for a single request.
package analytics

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racelog-analytics/log"
	"github.com/mpapenbr/racelog-analytics/pkg/analytics/insights"
	"github.com/mpapenbr/racelog-analytics/pkg/analytics/racingline"
	"github.com/mpapenbr/racelog-analytics/pkg/analytics/stats"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
	"github.com/mpapenbr/racelog-analytics/pkg/utils/cache"
	"github.com/mpapenbr/racelog-analytics/pkg/utils/cache/loadercache"
)

// telemetry of the racing line analysis is reduced to every n-th sample
const racingLineSampleRate = 5

type (
	Option  func(*Service)
	Service struct {
		repos    api.Repositories
		l        *log.Logger
		cacheTTL time.Duration
		cache    cache.Cache[SummaryKey, model.DriverSummary]
		metrics  *metrics
		mp       metric.MeterProvider
	}
	SummaryKey struct {
		RaceID   string
		DriverID string
	}
)

func WithRepositories(repos api.Repositories) Option {
	return func(s *Service) {
		s.repos = repos
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.l = l
	}
}

// WithMeterProvider overrides the global meter provider
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		s.mp = mp
	}
}

// WithSummaryCache enables caching of driver summaries. A ttl <= 0 disables
// the cache.
func WithSummaryCache(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		l: log.Default().Named("service.analytics"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(s.mp, s.l)
	if s.cacheTTL > 0 {
		s.cache = loadercache.New(
			loadercache.WithLoader[SummaryKey, model.DriverSummary](s.loadSummary),
			loadercache.WithExpiration[SummaryKey, model.DriverSummary](s.cacheTTL),
			loadercache.WithLogger[SummaryKey, model.DriverSummary](s.l.Named("cache")),
		)
	}
	return s
}

func (s *Service) ListRaces(ctx context.Context) ([]*model.Race, error) {
	return s.repos.Race().LoadAll(ctx)
}

//nolint:whitespace // can't make both editor and linter happy
func (s *Service) ListDrivers(ctx context.Context, raceID string) (
	[]*model.DriverInfo, error,
) {
	if _, err := s.repos.Race().LoadByID(ctx, raceID); err != nil {
		return nil, err
	}
	return s.repos.Driver().ListDrivers(ctx, raceID)
}

// AnalyzeDriver returns the summary of a single driver
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) AnalyzeDriver(ctx context.Context, raceID, driverID string) (
	*model.DriverSummary, error,
) {
	defer s.metrics.record(ctx, "analyze_driver", time.Now())
	key := SummaryKey{RaceID: raceID, DriverID: driverID}
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return cloneSummary(cached), nil
	}
	return s.loadSummary(ctx, key)
}

// cloneSummary returns a deep copy, cached entries must not be shared
// with callers.
func cloneSummary(in *model.DriverSummary) *model.DriverSummary {
	ret := *in
	ret.WeakSectors = slices.Clone(in.WeakSectors)
	ret.Strengths = slices.Clone(in.Strengths)
	if in.TelemetrySummary != nil {
		ts := *in.TelemetrySummary
		ret.TelemetrySummary = &ts
	}
	return &ret
}

// Invalidate drops the cached summaries of a race. An empty driverID drops
// all cached summaries.
func (s *Service) Invalidate(ctx context.Context, raceID, driverID string) {
	if s.cache == nil {
		return
	}
	if driverID == "" {
		s.cache.InvalidateAll(ctx)
		return
	}
	s.cache.Invalidate(ctx, SummaryKey{RaceID: raceID, DriverID: driverID})
}

//nolint:whitespace // can't make both editor and linter happy
func (s *Service) loadSummary(ctx context.Context, key SummaryKey) (
	*model.DriverSummary, error,
) {
	data, err := s.driverData(ctx, key.RaceID, key.DriverID)
	if err != nil {
		return nil, err
	}
	ret := stats.Summarize(data.DriverID, data.Laps, data.Telemetry,
		statsOptions(config.FromContext(ctx))...)
	return &ret, nil
}

// RacingLine compares the best lap of the driver with the optimal line
// derived from the best laps of the field.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Service) RacingLine(ctx context.Context, raceID, driverID string) (
	*model.RacingLine, error,
) {
	defer s.metrics.record(ctx, "racing_line", time.Now())
	cfg := config.FromContext(ctx)
	if _, err := s.repos.Driver().LoadByID(ctx, raceID, driverID); err != nil {
		return nil, err
	}
	drivers, err := s.repos.Driver().ListDrivers(ctx, raceID)
	if err != nil {
		return nil, err
	}
	in := racingline.Input{}
	for _, d := range drivers {
		trace, err := s.bestLapTrace(ctx, raceID, d.ID, cfg)
		if err != nil {
			return nil, err
		}
		if d.ID == driverID {
			in.Driver = trace
		} else if len(trace.Samples) > 0 {
			in.Field = append(in.Field, trace)
		}
	}
	s.l.Debug("racing line input",
		log.String("raceID", raceID),
		log.String("driverID", driverID),
		log.Int("samples", len(in.Driver.Samples)),
		log.Int("field", len(in.Field)))
	return racingline.NewAnalyzer(racingline.WithSegments(cfg.Segments)).Analyze(in), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *Service) bestLapTrace(
	ctx context.Context,
	raceID, driverID string,
	cfg *config.Config,
) (racingline.Trace, error) {
	ret := racingline.Trace{DriverID: driverID}
	laps, err := s.repos.Lap().GetLaps(ctx, raceID, driverID)
	if err != nil {
		return ret, err
	}
	best, ok := bestLap(stats.ValidLaps(laps, statsOptions(cfg)...))
	if !ok {
		return ret, nil
	}
	ret.Samples, err = s.repos.Telemetry().GetTelemetry(ctx, raceID, driverID,
		api.WithLap(best.LapNumber),
		api.WithSampleRate(racingLineSampleRate))
	return ret, err
}

// RaceInsights generates the insights for all drivers of a race
func (s *Service) RaceInsights(ctx context.Context, raceID string) ([]model.Insight, error) {
	defer s.metrics.record(ctx, "race_insights", time.Now())
	cfg := config.FromContext(ctx)
	field, err := s.fieldData(ctx, raceID)
	if err != nil {
		return nil, err
	}
	g := insights.NewGenerator(
		insights.WithMaxInsights(cfg.MaxInsights),
		insights.WithStatsOptions(statsOptions(cfg)...),
	)
	return g.Generate(field), nil
}

func statsOptions(cfg *config.Config) []stats.Option {
	return []stats.Option{stats.WithMaxLapFactor(cfg.MaxLapFactor)}
}

func bestLap(valid []model.LapRecord) (model.LapRecord, bool) {
	if len(valid) == 0 {
		return model.LapRecord{}, false
	}
	best := valid[0]
	for _, l := range valid[1:] {
		if l.LapTime < best.LapTime {
			best = l
		}
	}
	return best, true
}
