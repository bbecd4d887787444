package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"connectrpc.com/otelconnect"
	"github.com/jackc/pgx/v5"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/racelog-analytics/log"
	cmdutil "github.com/mpapenbr/racelog-analytics/pkg/cmd/util"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
	"github.com/mpapenbr/racelog-analytics/pkg/db/postgres"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/api/analyticsv1"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/api/strategyv1"
	analyticsServer "github.com/mpapenbr/racelog-analytics/pkg/grpc/server/analytics"
	strategyServer "github.com/mpapenbr/racelog-analytics/pkg/grpc/server/strategy"
	"github.com/mpapenbr/racelog-analytics/pkg/grpc/server/util"
	bobRepos "github.com/mpapenbr/racelog-analytics/pkg/repository/bob"
	"github.com/mpapenbr/racelog-analytics/pkg/service/analytics"
	"github.com/mpapenbr/racelog-analytics/pkg/utils"
)

//nolint:funlen // by design
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the analytics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.GrpcServerAddr,
		"grpc-server-addr",
		"a",
		"localhost:8080",
		"server listen address")
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. 'debug:grpc.* info:*'")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data (use 'stdout' for console)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().IntVar(&config.DBMaxConns,
		"db-max-conns",
		0,
		"max number of database connections (0: pgx default)")
	cmd.Flags().StringVar(&config.SummaryCacheTTL,
		"summary-cache-ttl",
		config.DefaultSummaryCacheTTL.String(),
		"expiration of cached driver summaries (0s disables the cache)")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert",
		"",
		"file containing the server certificate (enables TLS)")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key",
		"",
		"file containing the server key")
	cmd.Flags().StringVar(&config.TLSCAFile,
		"tls-ca",
		"",
		"file containing the CA to verify client certificates")
	cmd.Flags().StringVar(&config.TraefikCerts,
		"traefik-certs",
		"",
		"acme.json of traefik to read the server certificate from")
	cmd.Flags().StringVar(&config.TraefikCertDomain,
		"traefik-cert-domain",
		"",
		"domain of the certificate in the acme.json")
	addEngineFlags(cmd)
	return cmd
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&config.MaxLapFactor,
		"max-lap-factor",
		config.DefaultMaxLapFactor,
		"laps slower than median * factor are excluded from statistics")
	cmd.Flags().IntVar(&config.Segments,
		"segments",
		config.DefaultSegments,
		"number of track segments for the racing line analysis")
	cmd.Flags().Float64Var(&config.PitLaneTimeCost,
		"pit-lane-time-cost",
		config.DefaultPitLaneTimeCost,
		"time lost per pit stop in seconds")
	cmd.Flags().Float64Var(&config.DefaultBaseLapTime,
		"default-base-lap-time",
		config.DefaultDefaultBaseLapTime,
		"base lap time if no lap data is available")
	cmd.Flags().Float64Var(&config.AvgLapOffset,
		"avg-lap-offset",
		config.DefaultAvgLapOffset,
		"added to the mean best lap of the field to estimate the base lap time")
	cmd.Flags().Float64Var(&config.MaxDegradation,
		"max-degradation",
		config.DefaultMaxDegradation,
		"cap of the tire degradation")
	cmd.Flags().IntVar(&config.MinLapsForTwoStops,
		"min-laps-two-stops",
		config.DefaultMinLapsForTwoStops,
		"two stop strategies are evaluated only if at least this number of laps remain")
	cmd.Flags().IntVar(&config.MaxInsights,
		"max-insights",
		config.DefaultMaxInsights,
		"max number of insights per race")
}

//nolint:funlen // by design
func startServer(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	logger := cmdutil.SetupLogger(config.LogLevel)
	sqlLogger := logger.Named("sql")
	var telemetry *config.Telemetry
	appConfig := config.FromCLI()

	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("addr", config.GrpcServerAddr),
		log.Any("engine", appConfig),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices(ctx)

	tracers := []pgx.QueryTracer{
		postgres.NewQueryLogger(sqlLogger,
			cmdutil.ParseLogLevel(config.SQLLogLevel, log.DebugLevel)),
	}
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			tracers = append(tracers, postgres.NewOtlpTracer())
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	log.Info("Starting server")
	pool := postgres.InitWithUrl(
		config.DB,
		postgres.WithTracer(tracers...),
		postgres.WithMaxConns(int32(config.DBMaxConns)),
	)
	defer pool.Close()

	svc := analytics.NewService(
		analytics.WithRepositories(bobRepos.NewRepositoriesFromPool(pool)),
		analytics.WithSummaryCache(appConfig.SummaryCacheTTL),
	)
	mux := registerServices(svc, appConfig)

	server := &http.Server{
		Addr:              config.GrpcServerAddr,
		Handler:           h2c.NewHandler(newCORS().Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.TLSConfig = newTLSConfig(ctx)
	go func() {
		log.Info("Starting connect server",
			log.String("addr", config.GrpcServerAddr),
			log.Bool("tls", server.TLSConfig != nil))
		var err error
		if server.TLSConfig != nil {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server could not be started", log.ErrorField(err))
		}
	}()
	log.Info("Server started")
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	v := <-sigChan
	log.Debug("Got signal ", log.Any("signal", v))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("error shutting down server", log.ErrorField(err))
	}
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

// registerServices mounts the analytics, strategy and health services
func registerServices(svc *analytics.Service, appConfig *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	interceptors := []connect.Interceptor{
		util.NewAppContextInterceptor(appConfig),
		util.NewTraceIDInterceptor(),
	}
	if myOtel, err := otelconnect.NewInterceptor(); err == nil {
		interceptors = append([]connect.Interceptor{myOtel}, interceptors...)
	} else {
		log.Warn("Could not create otel interceptor", log.ErrorField(err))
	}
	opts := connect.WithInterceptors(interceptors...)

	path, handler := analyticsv1.NewAnalyticsServiceHandler(
		analyticsServer.NewServer(analyticsServer.WithService(svc)), opts)
	mux.Handle(path, handler)

	path, handler = strategyv1.NewStrategyServiceHandler(
		strategyServer.NewServer(strategyServer.WithService(svc)), opts)
	mux.Handle(path, handler)

	mux.Handle(grpchealth.NewHandler(grpchealth.NewStaticChecker(
		analyticsv1.AnalyticsServiceName,
		strategyv1.StrategyServiceName,
	)))
	return mux
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func waitForRequiredServices(ctx context.Context) {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if postgresAddr := utils.ExtractFromDBURL(config.DB); postgresAddr != "" {
		if err := utils.WaitForTCP(ctx, postgresAddr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
	}
	log.Debug("Required services are available")
}

func newCORS() *cors.Cors {
	// browsers may call the services directly
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Accept-Post",
			"Connect-Accept-Encoding",
			"Connect-Content-Encoding",
			"Content-Encoding",
			"Grpc-Accept-Encoding",
			"Grpc-Encoding",
			"Grpc-Message",
			"Grpc-Status",
			"Grpc-Status-Details-Bin",
			"X-Trace-ID",
		},
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
