// Package racingline compares the line of a driver with an optimal line
// derived from the fastest observed samples of the field.
package racingline

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

const (
	DefaultSegments              = 50
	DefaultSmoothingWindow       = 5
	DefaultDeviationThreshold    = 3.0  // meters
	DefaultSpeedDeficitThreshold = 0.03 // relative to optimal speed
	DefaultBrakeThreshold        = 50.0
	DefaultThrottleThreshold     = 50.0

	looksGood = "Racing line looks good - focus on consistency"
)

type (
	// Trace is the telemetry of a single lap of a driver
	Trace struct {
		DriverID string
		Samples  []model.TelemetrySample
	}
	Input struct {
		Driver Trace
		// if set, this trace is used as optimal line
		Reference *Trace
		// traces of other drivers used to derive the optimal line
		Field []Trace
	}
	Option   func(*Analyzer)
	Analyzer struct {
		segments              int
		smoothingWindow       int
		deviationThreshold    float64
		speedDeficitThreshold float64
		brakeThreshold        float64
		throttleThreshold     float64
	}
)

// bin holds aggregated values of the trace points of one segment
type bin struct {
	count    int
	centroid r2.Vec
	speed    float64
	throttle float64
	brake    float64
}

func WithSegments(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.segments = n
		}
	}
}

func WithSmoothingWindow(n int) Option {
	return func(a *Analyzer) {
		a.smoothingWindow = n
	}
}

func WithDeviationThreshold(meters float64) Option {
	return func(a *Analyzer) {
		a.deviationThreshold = meters
	}
}

func WithSpeedDeficitThreshold(f float64) Option {
	return func(a *Analyzer) {
		a.speedDeficitThreshold = f
	}
}

func WithBrakeThreshold(v float64) Option {
	return func(a *Analyzer) {
		a.brakeThreshold = v
	}
}

func WithThrottleThreshold(v float64) Option {
	return func(a *Analyzer) {
		a.throttleThreshold = v
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		segments:              DefaultSegments,
		smoothingWindow:       DefaultSmoothingWindow,
		deviationThreshold:    DefaultDeviationThreshold,
		speedDeficitThreshold: DefaultSpeedDeficitThreshold,
		brakeThreshold:        DefaultBrakeThreshold,
		throttleThreshold:     DefaultThrottleThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the racing line comparison for the driver of in.
// If the driver trace has less than two distinct valid fixes the result is
// empty. The input is not modified.
//
//nolint:funlen // readability
func (a *Analyzer) Analyze(in Input) *model.RacingLine {
	ret := &model.RacingLine{
		CurrentLine:  []model.LinePoint{},
		OptimalLine:  []model.LinePoint{},
		Improvements: []string{},
		Segments:     []model.SegmentDeviation{},
	}
	valid := validFixes(in.Driver.Samples)
	if len(valid) < 2 {
		return ret
	}
	proj := newProjection(valid[0])
	drvPoints, drvLength := projectTrace(proj, valid)
	if drvLength == 0 {
		return ret
	}
	ret.CurrentLine = lo.Map(valid, func(s model.TelemetrySample, _ int) model.LinePoint {
		return model.LinePoint{Lat: s.Lat, Lon: s.Lon, Speed: s.Speed}
	})

	drvBins := a.binTrace(drvPoints)
	optBins := a.optimalBins(proj, in, drvBins)
	optPos, optDir := a.smoothOptimal(optBins)

	segLen := drvLength / float64(a.segments)
	totalTime, lostTime := 0.0, 0.0
	for k := range a.segments {
		d := drvBins[k]
		if d.count > 0 && d.speed > 0 {
			totalTime += segLen / d.speed
		}
		o := optBins[k]
		if o.count == 0 {
			continue
		}
		lat, lon := proj.toLatLon(optPos[k])
		ret.OptimalLine = append(ret.OptimalLine, model.LinePoint{Lat: lat, Lon: lon, Speed: o.speed})
		if d.count == 0 {
			continue
		}
		sd := model.SegmentDeviation{
			Segment:   k,
			Start:     float64(k) / float64(a.segments),
			End:       float64(k+1) / float64(a.segments),
			Deviation: lateralDistance(d.centroid, optPos[k], optDir[k]),
		}
		if o.speed > 0 {
			sd.SpeedDeficit = math.Max(0, (o.speed-d.speed)/o.speed)
		}
		sd.Flagged = sd.Deviation > a.deviationThreshold ||
			sd.SpeedDeficit > a.speedDeficitThreshold
		ret.Segments = append(ret.Segments, sd)
		if !sd.Flagged {
			continue
		}
		ret.Improvements = append(ret.Improvements, a.suggestion(sd, d, o))
		if d.speed > 0 && o.speed > d.speed {
			lostTime += segLen/d.speed - segLen/o.speed
		}
	}
	if len(ret.OptimalLine) > 0 && len(ret.Improvements) == 0 {
		ret.Improvements = append(ret.Improvements, looksGood)
	}
	if totalTime > 0 {
		ret.TimePotential = math.Max(0, 100*lostTime/totalTime)
	}
	return ret
}

// binTrace aggregates the trace points per segment of normalized distance
func (a *Analyzer) binTrace(points []tracePoint) []bin {
	ret := make([]bin, a.segments)
	for _, p := range points {
		k := min(int(p.s*float64(a.segments)), a.segments-1)
		b := &ret[k]
		b.count++
		b.centroid = r2.Add(b.centroid, p.pos)
		b.speed += p.speed
		b.throttle += p.throttle
		b.brake += p.brake
	}
	for k := range ret {
		if n := float64(ret[k].count); n > 0 {
			ret[k].centroid = r2.Scale(1/n, ret[k].centroid)
			ret[k].speed /= n
			ret[k].throttle /= n
			ret[k].brake /= n
		}
	}
	return ret
}

// optimalBins selects per segment the bin with the highest mean speed among
// the driver and the field. A reference trace replaces this selection.
//
//nolint:whitespace // can't make both editor and linter happy
func (a *Analyzer) optimalBins(
	proj projection, in Input, drvBins []bin,
) []bin {
	if in.Reference != nil {
		points, length := projectTrace(proj, in.Reference.Samples)
		if len(points) < 2 || length == 0 {
			return make([]bin, a.segments)
		}
		return a.binTrace(points)
	}
	candidates := [][]bin{drvBins}
	for _, t := range in.Field {
		points, length := projectTrace(proj, t.Samples)
		if len(points) < 2 || length == 0 {
			continue
		}
		candidates = append(candidates, a.binTrace(points))
	}
	ret := make([]bin, a.segments)
	for k := range a.segments {
		for _, c := range candidates {
			if c[k].count > 0 && (ret[k].count == 0 || c[k].speed > ret[k].speed) {
				ret[k] = c[k]
			}
		}
	}
	return ret
}

// smoothOptimal smooths the centroids of the segments carrying data and
// computes the direction of travel at each of them.
// The results are indexed by segment, empty segments keep the zero vector.
func (a *Analyzer) smoothOptimal(bins []bin) (pos, dir []r2.Vec) {
	idx := []int{}
	centroids := []r2.Vec{}
	for k, b := range bins {
		if b.count > 0 {
			idx = append(idx, k)
			centroids = append(centroids, b.centroid)
		}
	}
	smoothed := smooth(centroids, a.smoothingWindow)
	pos = make([]r2.Vec, len(bins))
	dir = make([]r2.Vec, len(bins))
	for i, k := range idx {
		pos[k] = smoothed[i]
		prev, next := smoothed[max(0, i-1)], smoothed[min(len(smoothed)-1, i+1)]
		dir[k] = r2.Sub(next, prev)
	}
	return pos, dir
}

// lateralDistance returns the distance of p to the line through ref with
// direction dir. Without a direction the plain distance is used.
func lateralDistance(p, ref, dir r2.Vec) float64 {
	diff := r2.Sub(p, ref)
	n := r2.Norm(dir)
	if n == 0 {
		return r2.Norm(diff)
	}
	return math.Abs(dir.X*diff.Y-dir.Y*diff.X) / n
}

func (a *Analyzer) suggestion(sd model.SegmentDeviation, drv, opt bin) string {
	where := fmt.Sprintf("Segment %d (%.0f%%-%.0f%%)", sd.Segment+1, sd.Start*100, sd.End*100)
	switch {
	case drv.brake > a.brakeThreshold && sd.SpeedDeficit > 0:
		return fmt.Sprintf("%s: entry - brake earlier and smoother to carry more speed "+
			"(%.1f below optimal)", where, opt.speed-drv.speed)
	case drv.throttle < a.throttleThreshold && sd.SpeedDeficit > 0:
		return fmt.Sprintf("%s: exit - get back on the throttle earlier "+
			"(%.0f%% average throttle)", where, drv.throttle)
	case sd.SpeedDeficit > a.speedDeficitThreshold:
		return fmt.Sprintf("%s: consider carrying more speed through the corner "+
			"(%.1f below optimal)", where, opt.speed-drv.speed)
	default:
		return fmt.Sprintf("%s: apex - line is %.1fm off the optimal line", where, sd.Deviation)
	}
}
