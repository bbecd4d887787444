// Package strategyv1 defines the messages and the connect bindings of the
// racelog.strategy.v1.StrategyService.
package strategyv1

import (
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

type (
	// PitStopStrategyRequest holds the strategy parameters. Zero values of
	// TotalLaps, BaseLapTime and PitLaneTimeCost are resolved by the server.
	PitStopStrategyRequest struct {
		RaceID          string  `json:"raceId"`
		DriverID        string  `json:"driverId"`
		CurrentLap      int     `json:"currentLap"`
		TotalLaps       int     `json:"totalLaps"`
		DegradationRate float64 `json:"degradationRate"`
		BaseLapTime     float64 `json:"baseLapTime"`
		PitLaneTimeCost float64 `json:"pitLaneTimeCost"`
		TireAge         int     `json:"tireAge"`
	}
	PitStopStrategyResponse struct {
		// false if no strategy can be computed for the parameters
		Applicable bool                  `json:"applicable"`
		Reason     string                `json:"reason,omitempty"`
		Result     *model.StrategyResult `json:"result,omitempty"`
		Plan       []PlanItem            `json:"plan,omitempty"`
	}
	// PlanItem is either a stint or a pit stop of the recommended strategy
	PlanItem struct {
		Type     string  `json:"type"`
		LapStart int     `json:"lapStart"`
		LapEnd   int     `json:"lapEnd"`
		StartAge int     `json:"startAge,omitempty"`
		Duration float64 `json:"duration"`
	}
)

const (
	PlanItemStint = "stint"
	PlanItemPit   = "pit"
)
