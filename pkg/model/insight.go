package model

type (
	InsightType string
	Impact      string
)

const (
	InsightPerformance InsightType = "performance"
	InsightConsistency InsightType = "consistency"
	InsightStrategy    InsightType = "strategy"
	InsightAnomaly     InsightType = "anomaly"
)

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

func (t InsightType) String() string { return string(t) }

func (i Impact) String() string { return string(i) }

// Rank orders impacts, higher is more important. Unknown values rank 0.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	}
	return 0
}

type Insight struct {
	Type        InsightType `json:"type"`
	Impact      Impact      `json:"impact"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DriverID    string      `json:"driverId,omitempty"`
}
