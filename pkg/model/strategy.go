package model

import "fmt"

type StrategyType string

const (
	StrategyNoPit  StrategyType = "no_pit"
	StrategyOnePit StrategyType = "one_pit"
	StrategyTwoPit StrategyType = "two_pit"
)

func (s StrategyType) String() string { return string(s) }

// Stops returns the number of pit stops of the strategy type
func (s StrategyType) Stops() int {
	switch s {
	case StrategyOnePit:
		return 1
	case StrategyTwoPit:
		return 2
	}
	return 0
}

func ParseStrategyType(s string) (StrategyType, error) {
	switch StrategyType(s) {
	case StrategyNoPit, StrategyOnePit, StrategyTwoPit:
		return StrategyType(s), nil
	}
	return "", fmt.Errorf("unknown strategy type %q", s)
}

// StrategyCandidate is the best schedule found for one strategy type
type StrategyCandidate struct {
	StrategyType    StrategyType `json:"strategyType"`
	RecommendedLaps []int        `json:"recommendedLaps"`
	TotalTime       float64      `json:"totalTime"`
}

type StrategyResult struct {
	StrategyType    StrategyType        `json:"strategyType"`
	RecommendedLaps []int               `json:"recommendedLaps"`
	TimeGain        float64             `json:"timeGain"`
	TimeLoss        float64             `json:"timeLoss"`
	TireDegradation map[int]float64     `json:"tireDegradation"`
	Reasoning       string              `json:"reasoning"`
	Candidates      []StrategyCandidate `json:"candidates"`
}
