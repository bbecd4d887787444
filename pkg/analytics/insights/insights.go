// Package insights derives narrative findings for a race from the laps of
// all drivers.
package insights

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racelog-analytics/pkg/analytics/comparison"
	"github.com/mpapenbr/racelog-analytics/pkg/analytics/stats"
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

const (
	DefaultMaxInsights        = 10
	DefaultPaceMargin         = 0.005
	DefaultMinConsistencyLaps = 5
	DefaultSpikeThreshold     = 0.02
	DefaultHighSpikeThreshold = 0.08

	topPositions    = 3
	minImproveLaps  = 4
	minImprovement  = 0.01
	minStrategyLaps = 6
	minSpikeLaps    = 3
	dropLow         = 0.01
	dropMedium      = 0.015
	dropHigh        = 0.03
)

type (
	Option    func(*Generator)
	Generator struct {
		maxInsights        int
		paceMargin         float64
		minConsistencyLaps int
		spikeThreshold     float64
		highSpikeThreshold float64
		statOpts           []stats.Option
	}
	// driverInfo holds the per driver values used by the rules
	driverInfo struct {
		id       string
		summary  model.DriverSummary
		times    []float64
		laps     []model.LapRecord
		position int
		outliers int
	}
	entry struct {
		insight  model.Insight
		position int
	}
)

func WithMaxInsights(n int) Option {
	return func(g *Generator) {
		g.maxInsights = n
	}
}

func WithPaceMargin(f float64) Option {
	return func(g *Generator) {
		g.paceMargin = f
	}
}

func WithMinConsistencyLaps(n int) Option {
	return func(g *Generator) {
		g.minConsistencyLaps = n
	}
}

func WithSpikeThresholds(low, high float64) Option {
	return func(g *Generator) {
		g.spikeThreshold = low
		g.highSpikeThreshold = high
	}
}

func WithStatsOptions(opts ...stats.Option) Option {
	return func(g *Generator) {
		g.statOpts = opts
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		maxInsights:        DefaultMaxInsights,
		paceMargin:         DefaultPaceMargin,
		minConsistencyLaps: DefaultMinConsistencyLaps,
		spikeThreshold:     DefaultSpikeThreshold,
		highSpikeThreshold: DefaultHighSpikeThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the insights for the field ordered by impact (high
// first), then by field position of the driver (fastest best lap first).
// At most maxInsights entries are returned.
func (g *Generator) Generate(field []comparison.DriverData) []model.Insight {
	drivers := g.prepare(field)
	collected := []entry{}
	add := func(d *driverInfo, insight model.Insight) {
		insight.DriverID = d.id
		collected = append(collected, entry{insight: insight, position: d.position})
	}

	g.performance(drivers, add)
	g.consistency(drivers, add)
	g.strategy(drivers, add)
	g.anomalies(drivers, add)

	slices.SortStableFunc(collected, func(a, b entry) int {
		if r := b.insight.Impact.Rank() - a.insight.Impact.Rank(); r != 0 {
			return r
		}
		return a.position - b.position
	})
	ret := lo.Map(collected, func(e entry, _ int) model.Insight { return e.insight })
	if g.maxInsights > 0 && len(ret) > g.maxInsights {
		ret = ret[:g.maxInsights]
	}
	return ret
}

func (g *Generator) prepare(field []comparison.DriverData) []*driverInfo {
	summaries := comparison.SummarizeAll(field, g.statOpts...)
	order := comparison.FieldPosition(summaries)
	ret := make([]*driverInfo, len(field))
	for i, d := range field {
		valid := stats.ValidLaps(d.Laps, g.statOpts...)
		ret[i] = &driverInfo{
			id:       d.DriverID,
			summary:  summaries[i],
			laps:     valid,
			times:    lo.Map(valid, func(l model.LapRecord, _ int) float64 { return l.LapTime }),
			position: lo.IndexOf(order, d.DriverID),
			outliers: stats.OutlierCount(d.Laps, g.statOpts...),
		}
	}
	return ret
}

type addFunc func(d *driverInfo, insight model.Insight)

func (g *Generator) positionImpact(d *driverInfo) model.Impact {
	if d.position < topPositions {
		return model.ImpactHigh
	}
	return model.ImpactMedium
}

func (g *Generator) performance(drivers []*driverInfo, add addFunc) {
	timed := lo.Filter(drivers, func(d *driverInfo, _ int) bool {
		return d.summary.BestLapTime.IsValue()
	})
	if len(timed) == 0 {
		return
	}
	fastest := lo.MinBy(timed, func(a, b *driverInfo) bool { return a.position < b.position })
	best := fastest.summary.BestLapTime.GetOr(0)
	add(fastest, model.Insight{
		Type:   model.InsightPerformance,
		Impact: model.ImpactHigh,
		Title:  "Fastest Lap",
		Description: fmt.Sprintf("Driver %s set the fastest lap of the race: %s",
			fastest.id, stats.FormatLapTime(best)),
	})
	for _, d := range timed {
		if d == fastest {
			continue
		}
		own := d.summary.BestLapTime.GetOr(0)
		if own <= best*(1+g.paceMargin) {
			add(d, model.Insight{
				Type:   model.InsightPerformance,
				Impact: g.positionImpact(d),
				Title:  "Close to the Pace",
				Description: fmt.Sprintf("Driver %s is only %.3fs off the fastest lap",
					d.id, own-best),
			})
		}
	}

	var improved *driverInfo
	bestGain := minImprovement
	for _, d := range drivers {
		if len(d.times) < minImproveLaps {
			continue
		}
		first, second := stats.HalfMeans(d.times)
		gain := (first - second) / first
		if gain > bestGain ||
			(improved != nil && gain == bestGain && d.position < improved.position) {
			bestGain = gain
			improved = d
		}
	}
	if improved != nil {
		add(improved, model.Insight{
			Type:   model.InsightPerformance,
			Impact: g.positionImpact(improved),
			Title:  "Most Improved",
			Description: fmt.Sprintf("Driver %s improved the average lap time by %.1f%% "+
				"in the second half of the race", improved.id, bestGain*100),
		})
	}
}

func (g *Generator) consistency(drivers []*driverInfo, add addFunc) {
	qualified := lo.Filter(drivers, func(d *driverInfo, _ int) bool {
		return len(d.times) >= g.minConsistencyLaps && d.summary.Consistency.IsValue()
	})
	if len(qualified) < 2 {
		return
	}
	values := lo.Map(qualified, func(d *driverInfo, _ int) float64 {
		return d.summary.Consistency.GetOr(0)
	})
	median := stats.Median(values)
	idx := 0
	for i := range qualified {
		if values[i] < values[idx] ||
			(values[i] == values[idx] && qualified[i].position < qualified[idx].position) {
			idx = i
		}
	}
	if values[idx] >= median {
		return
	}
	d := qualified[idx]
	add(d, model.Insight{
		Type:   model.InsightConsistency,
		Impact: model.ImpactMedium,
		Title:  "Most Consistent Driver",
		Description: fmt.Sprintf("Driver %s had the most consistent lap times "+
			"(std dev %.3fs, field median %.3fs)", d.id, values[idx], median),
	})
}

func (g *Generator) strategy(drivers []*driverInfo, add addFunc) {
	for _, d := range drivers {
		if len(d.times) < minStrategyLaps {
			continue
		}
		third := len(d.times) / 3
		early := stat.Mean(d.times[:third], nil)
		late := stat.Mean(d.times[len(d.times)-third:], nil)
		drop := (late - early) / early
		var impact model.Impact
		switch {
		case drop >= dropHigh:
			impact = model.ImpactHigh
		case drop >= dropMedium:
			impact = model.ImpactMedium
		case drop >= dropLow:
			impact = model.ImpactLow
		default:
			continue
		}
		add(d, model.Insight{
			Type:   model.InsightStrategy,
			Impact: impact,
			Title:  "Late-Race Pace Drop",
			Description: fmt.Sprintf("Driver %s lost %.3fs per lap (%.1f%%) in the final "+
				"third of the race, consider an earlier tire change", d.id, late-early, drop*100),
		})
	}
}

func (g *Generator) anomalies(drivers []*driverInfo, add addFunc) {
	for _, d := range drivers {
		if len(d.times) >= minSpikeLaps {
			median := stats.Median(d.times)
			idx := floats.MaxIdx(d.times)
			spike := (d.times[idx] - median) / median
			if spike >= g.spikeThreshold && !math.IsNaN(spike) {
				add(d, model.Insight{
					Type:   model.InsightAnomaly,
					Impact: lo.Ternary(spike >= g.highSpikeThreshold, model.ImpactHigh, model.ImpactLow),
					Title:  "Lap Time Spike",
					Description: fmt.Sprintf("Driver %s was %.3fs slower than usual on lap %d",
						d.id, d.times[idx]-median, d.laps[idx].LapNumber),
				})
			}
		}
		if d.outliers > 0 {
			add(d, model.Insight{
				Type:   model.InsightAnomaly,
				Impact: model.ImpactLow,
				Title:  "Laps Excluded",
				Description: fmt.Sprintf("%d lap(s) of driver %s were excluded as outliers",
					d.outliers, d.id),
			})
		}
	}
}
