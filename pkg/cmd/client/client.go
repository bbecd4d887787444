//nolint:funlen // keeping by design
package client

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racelog-analytics/log"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/api/analyticsv1"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/api/strategyv1"
)

var (
	callTimeout time.Duration
	strategyReq strategyv1.PitStopStrategyRequest
)

func NewClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "queries a running analytics server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := log.DevLogger(
				os.Stderr,
				log.InfoLevel,
				log.WithCaller(true),
				log.AddCallerSkip(1))
			log.ResetDefault(logger)
		},
	}
	cmd.PersistentFlags().StringVar(&config.ServerAddr,
		"addr",
		"http://localhost:8080",
		"address of the analytics server")
	cmd.PersistentFlags().DurationVar(&callTimeout,
		"timeout",
		10*time.Second,
		"timeout per request")

	cmd.AddCommand(
		newRacesCmd(),
		newDriversCmd(),
		newDriverCmd(),
		newRacingLineCmd(),
		newCompareCmd(),
		newInsightsCmd(),
		newStrategyCmd(),
	)
	return cmd
}

func newRacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "races",
		Short: "lists the recorded races",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			r, err := analyticsClient().ListRaces(ctx,
				connect.NewRequest(&analyticsv1.ListRacesRequest{}))
			if err != nil {
				return err
			}
			renderRaces(os.Stdout, r.Msg.Races)
			return nil
		},
	}
}

func newDriversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers raceID",
		Short: "lists the drivers of a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			r, err := analyticsClient().ListDrivers(ctx,
				connect.NewRequest(&analyticsv1.ListDriversRequest{RaceID: args[0]}))
			if err != nil {
				return err
			}
			renderDrivers(os.Stdout, r.Msg.Drivers)
			return nil
		},
	}
}

func newDriverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "driver raceID driverID",
		Short: "shows the performance summary of a driver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			r, err := analyticsClient().AnalyzeDriver(ctx,
				connect.NewRequest(&analyticsv1.AnalyzeDriverRequest{
					RaceID: args[0], DriverID: args[1],
				}))
			if err != nil {
				return err
			}
			renderSummary(os.Stdout, r.Msg.Summary)
			return nil
		},
	}
}

func newRacingLineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "racing-line raceID driverID",
		Short: "compares the racing line of a driver with the optimal line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			r, err := analyticsClient().RacingLine(ctx,
				connect.NewRequest(&analyticsv1.RacingLineRequest{
					RaceID: args[0], DriverID: args[1],
				}))
			if err != nil {
				return err
			}
			renderRacingLine(os.Stdout, r.Msg.RacingLine)
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare raceID [driverID...]",
		Short: "compares drivers of a race (all drivers if none given)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			r, err := analyticsClient().CompareDrivers(ctx,
				connect.NewRequest(&analyticsv1.CompareDriversRequest{
					RaceID: args[0], DriverIDs: args[1:],
				}))
			if err != nil {
				return err
			}
			renderComparison(os.Stdout, r.Msg.Drivers)
			return nil
		},
	}
}

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights raceID",
		Short: "shows the insights of a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			r, err := analyticsClient().RaceInsights(ctx,
				connect.NewRequest(&analyticsv1.RaceInsightsRequest{RaceID: args[0]}))
			if err != nil {
				return err
			}
			renderInsights(os.Stdout, r.Msg.Insights)
			return nil
		},
	}
}

func newStrategyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "computes a pit stop strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			req := strategyReq
			r, err := strategyClient().PitStopStrategy(ctx, connect.NewRequest(&req))
			if err != nil {
				return err
			}
			renderStrategy(os.Stdout, r.Msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&strategyReq.RaceID, "race", "", "race id")
	cmd.Flags().StringVar(&strategyReq.DriverID, "driver", "", "driver id")
	cmd.Flags().IntVar(&strategyReq.CurrentLap, "current-lap", 1, "current lap")
	cmd.Flags().IntVar(&strategyReq.TotalLaps, "total-laps", 0,
		"total laps of the race (0: taken from the race)")
	cmd.Flags().Float64Var(&strategyReq.DegradationRate, "degradation-rate", 0.02,
		"tire degradation per lap")
	cmd.Flags().Float64Var(&strategyReq.BaseLapTime, "base-lap-time", 0,
		"base lap time in seconds (0: derived from the race data)")
	cmd.Flags().Float64Var(&strategyReq.PitLaneTimeCost, "pit-lane-time-cost", 0,
		"time lost per pit stop (0: server default)")
	cmd.Flags().IntVar(&strategyReq.TireAge, "tire-age", 0, "age of the current tires in laps")
	return cmd
}

func callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, callTimeout)
}

func baseURL() string {
	if strings.Contains(config.ServerAddr, "://") {
		return config.ServerAddr
	}
	return "http://" + config.ServerAddr
}

func analyticsClient() analyticsv1.AnalyticsServiceClient {
	return analyticsv1.NewAnalyticsServiceClient(http.DefaultClient, baseURL())
}

func strategyClient() strategyv1.StrategyServiceClient {
	return strategyv1.NewStrategyServiceClient(http.DefaultClient, baseURL())
}
