package model

import (
	"github.com/aarondl/opt/null"
)

type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDegrading        Trend = "degrading"
	TrendInsufficientData Trend = "insufficient_data"
)

func (t Trend) String() string { return string(t) }

// DriverSummary contains the statistics of one driver.
// Statistics that cannot be computed are null, never 0.
type DriverSummary struct {
	DriverID         string            `json:"driverId"`
	BestLapTime      null.Val[float64] `json:"bestLapTime"`
	AvgLapTime       null.Val[float64] `json:"avgLapTime"`
	Consistency      null.Val[float64] `json:"consistency"`
	LapCount         int               `json:"lapCount"`
	ValidLapCount    int               `json:"validLapCount"`
	Trend            Trend             `json:"trend"`
	WeakSectors      []string          `json:"weakSectors,omitempty"`
	Strengths        []string          `json:"strengths,omitempty"`
	TelemetrySummary *TelemetrySummary `json:"telemetrySummary"`
}

// TelemetrySummary aggregates telemetry samples.
// ThrottleUsage is the mean throttle of samples with throttle applied,
// BrakeUsage is the mean combined brake pressure.
type TelemetrySummary struct {
	MaxSpeed      float64 `json:"maxSpeed"`
	AvgSpeed      float64 `json:"avgSpeed"`
	ThrottleUsage float64 `json:"throttleUsage"`
	BrakeUsage    float64 `json:"brakeUsage"`
	Samples       int     `json:"samples"`
}
