package model

import "math"

// LapRecord is a single completed lap. LapTime is in seconds, values <= 0
// mark invalid laps (in-laps, out-laps, aborted laps).
type LapRecord struct {
	DriverID  string  `json:"driverId"`
	LapNumber int     `json:"lapNumber"`
	LapTime   float64 `json:"lapTime"`
}

// HasTime reports whether the lap carries a usable positive time
func (l LapRecord) HasTime() bool {
	return l.LapTime > 0 && !math.IsInf(l.LapTime, 0) && !math.IsNaN(l.LapTime)
}

// TelemetrySample is a single recorded sample of a car.
// Distance is the distance driven within the lap in meters.
type TelemetrySample struct {
	DriverID   string  `json:"driverId"`
	LapNumber  int     `json:"lapNumber"`
	Distance   float64 `json:"distance"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Speed      float64 `json:"speed"`
	Throttle   float64 `json:"throttle"`
	BrakeFront float64 `json:"brakeFront"`
	BrakeRear  float64 `json:"brakeRear"`
}

// ValidFix reports whether the sample carries a usable GPS position.
// (0,0) is the value reported by the logger when no fix is available.
func (s TelemetrySample) ValidFix() bool {
	switch {
	case math.IsNaN(s.Lat) || math.IsNaN(s.Lon):
		return false
	case math.IsInf(s.Lat, 0) || math.IsInf(s.Lon, 0):
		return false
	case s.Lat == 0 && s.Lon == 0:
		return false
	case math.Abs(s.Lat) > 90 || math.Abs(s.Lon) > 180:
		return false
	}
	return true
}

// Brake returns the combined brake pressure of front and rear axle
func (s TelemetrySample) Brake() float64 {
	return s.BrakeFront + s.BrakeRear
}
