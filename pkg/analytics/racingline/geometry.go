package racingline

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

const earthRadius = 6371000.0 // meters

// projection maps lat/lon to a local plane in meters (equirectangular
// around origin). Accurate enough for the extent of a race track.
type projection struct {
	lat0, lon0 float64
	cosLat0    float64
}

func newProjection(origin model.TelemetrySample) projection {
	return projection{
		lat0:    origin.Lat,
		lon0:    origin.Lon,
		cosLat0: math.Cos(origin.Lat * math.Pi / 180),
	}
}

func (p projection) toPlane(lat, lon float64) r2.Vec {
	return r2.Vec{
		X: (lon - p.lon0) * math.Pi / 180 * earthRadius * p.cosLat0,
		Y: (lat - p.lat0) * math.Pi / 180 * earthRadius,
	}
}

func (p projection) toLatLon(v r2.Vec) (lat, lon float64) {
	lat = p.lat0 + v.Y/earthRadius*180/math.Pi
	if p.cosLat0 == 0 {
		return lat, p.lon0
	}
	lon = p.lon0 + v.X/(earthRadius*p.cosLat0)*180/math.Pi
	return lat, lon
}

// tracePoint is a valid sample projected to the plane.
// s is the normalized distance along the trace in [0,1].
type tracePoint struct {
	pos      r2.Vec
	s        float64
	speed    float64
	throttle float64
	brake    float64
}

// projectTrace converts the valid fixes of samples into trace points with
// normalized arc length. Returns the points and the total length in meters.
func projectTrace(proj projection, samples []model.TelemetrySample) ([]tracePoint, float64) {
	valid := validFixes(samples)
	ret := make([]tracePoint, len(valid))
	total := 0.0
	for i, s := range valid {
		ret[i] = tracePoint{
			pos:      proj.toPlane(s.Lat, s.Lon),
			speed:    s.Speed,
			throttle: s.Throttle,
			brake:    s.Brake(),
		}
		if i > 0 {
			total += r2.Norm(r2.Sub(ret[i].pos, ret[i-1].pos))
			ret[i].s = total
		}
	}
	if total > 0 {
		for i := range ret {
			ret[i].s /= total
		}
	}
	return ret, total
}

func validFixes(samples []model.TelemetrySample) []model.TelemetrySample {
	return lo.Filter(samples, func(s model.TelemetrySample, _ int) bool {
		return s.ValidFix()
	})
}

// smooth applies a centered moving average to the positions. At the
// edges the window is truncated.
func smooth(points []r2.Vec, window int) []r2.Vec {
	if window <= 1 || len(points) < 3 {
		return points
	}
	half := window / 2
	ret := make([]r2.Vec, len(points))
	for i := range points {
		from, to := max(0, i-half), min(len(points)-1, i+half)
		sum := r2.Vec{}
		for j := from; j <= to; j++ {
			sum = r2.Add(sum, points[j])
		}
		ret[i] = r2.Scale(1/float64(to-from+1), sum)
	}
	return ret
}
