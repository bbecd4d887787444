package model

type LinePoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Speed float64 `json:"speed"`
}

// SegmentDeviation describes how far the driver was off the optimal line
// in one segment. Start and End are fractions of the lap distance.
type SegmentDeviation struct {
	Segment      int     `json:"segment"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Deviation    float64 `json:"deviation"`
	SpeedDeficit float64 `json:"speedDeficit"`
	Flagged      bool    `json:"flagged"`
}

type RacingLine struct {
	CurrentLine   []LinePoint        `json:"currentLine"`
	OptimalLine   []LinePoint        `json:"optimalLine"`
	Improvements  []string           `json:"improvements"`
	TimePotential float64            `json:"timePotential"`
	Segments      []SegmentDeviation `json:"segments"`
}
