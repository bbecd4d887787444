// Package analyticsv1 defines the messages and the connect bindings of the
// racelog.analytics.v1.AnalyticsService.
package analyticsv1

import (
	"github.com/mpapenbr/racelog-analytics/pkg/model"
)

type (
	ListRacesRequest  struct{}
	ListRacesResponse struct {
		Races []*model.Race `json:"races"`
	}
	ListDriversRequest struct {
		RaceID string `json:"raceId"`
	}
	ListDriversResponse struct {
		Drivers []*model.DriverInfo `json:"drivers"`
	}
	AnalyzeDriverRequest struct {
		RaceID   string `json:"raceId"`
		DriverID string `json:"driverId"`
	}
	AnalyzeDriverResponse struct {
		Summary *model.DriverSummary `json:"summary"`
	}
	RacingLineRequest struct {
		RaceID   string `json:"raceId"`
		DriverID string `json:"driverId"`
	}
	RacingLineResponse struct {
		RacingLine *model.RacingLine `json:"racingLine"`
	}
	CompareDriversRequest struct {
		RaceID string `json:"raceId"`
		// empty means all drivers of the race
		DriverIDs []string `json:"driverIds"`
	}
	CompareDriversResponse struct {
		Drivers []model.DriverSummary `json:"drivers"`
	}
	RaceInsightsRequest struct {
		RaceID string `json:"raceId"`
	}
	RaceInsightsResponse struct {
		Insights []model.Insight `json:"insights"`
	}
)
