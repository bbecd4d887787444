package stats

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

const (
	numSectors          = 3
	minSectorSamples    = 100
	weakSpeedFactor     = 0.95
	weakThrottle        = 50.0
	highTopSpeed        = 130.0
	consistentLapStdDev = 1.0
)

// Summary aggregates telemetry samples. Returns nil if there are no samples.
func Summary(samples []model.TelemetrySample) *model.TelemetrySummary {
	if len(samples) == 0 {
		return nil
	}
	speeds := positive(lo.Map(samples, func(s model.TelemetrySample, _ int) float64 {
		return s.Speed
	}))
	throttles := positive(lo.Map(samples, func(s model.TelemetrySample, _ int) float64 {
		return s.Throttle
	}))
	brakes := lo.Map(samples, func(s model.TelemetrySample, _ int) float64 {
		return s.Brake()
	})
	ret := &model.TelemetrySummary{
		Samples:    len(samples),
		BrakeUsage: stat.Mean(brakes, nil),
	}
	if len(speeds) > 0 {
		ret.MaxSpeed = floats.Max(speeds)
		ret.AvgSpeed = stat.Mean(speeds, nil)
	}
	if len(throttles) > 0 {
		ret.ThrottleUsage = stat.Mean(throttles, nil)
	}
	return ret
}

// WeakSectors splits the samples into three equally sized sectors and
// reports sectors with low average speed or conservative throttle usage.
func WeakSectors(samples []model.TelemetrySample) []string {
	if len(samples) < minSectorSamples {
		return nil
	}
	allSpeeds := lo.Map(samples, func(s model.TelemetrySample, _ int) float64 { return s.Speed })
	avgSpeed := stat.Mean(allSpeeds, nil)

	size := len(samples) / numSectors
	ret := []string{}
	for i := range numSectors {
		end := (i + 1) * size
		if i == numSectors-1 {
			end = len(samples)
		}
		sector := samples[i*size : end]
		speed := stat.Mean(lo.Map(sector, func(s model.TelemetrySample, _ int) float64 {
			return s.Speed
		}), nil)
		throttle := stat.Mean(lo.Map(sector, func(s model.TelemetrySample, _ int) float64 {
			return s.Throttle
		}), nil)
		if speed < avgSpeed*weakSpeedFactor {
			ret = append(ret, fmt.Sprintf("Sector %d: Lower average speed", i+1))
		}
		if throttle < weakThrottle {
			ret = append(ret, fmt.Sprintf("Sector %d: Conservative throttle usage", i+1))
		}
	}
	if len(ret) > numSectors {
		ret = ret[:numSectors]
	}
	return ret
}

// Strengths reports a high top speed and consistent lap times.
// times are the valid lap times of the driver.
func Strengths(samples []model.TelemetrySample, times []float64) []string {
	ret := []string{}
	if s := Summary(samples); s != nil && s.MaxSpeed > highTopSpeed {
		ret = append(ret, "High top speed achieved")
	}
	if len(times) > 1 && stdDev(times) < consistentLapStdDev {
		ret = append(ret, "Consistent lap times")
	}
	return ret
}

func positive(values []float64) []float64 {
	return lo.Filter(values, func(v float64, _ int) bool { return v > 0 })
}
