package config

import "time"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules, e.g. "debug:grpc.* info:*"
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry, "stdout" prints to console
	ProfilingPort      int    // port for profiling
	GrpcServerAddr     string // listen addr for connect server (insecure)
	ServerAddr         string // addr of the server used by the client commands
	DBMaxConns         int    // max number of pooled db connections
	SummaryCacheTTL    string // expiration of cached driver summaries, 0 disables the cache
	TLSCertFile        string // server certificate (PEM)
	TLSKeyFile         string // server key (PEM)
	TLSCAFile          string // CA to verify client certs, optional
	TraefikCerts       string // acme.json of traefik, takes precedence over TLSCertFile
	TraefikCertDomain  string // domain to look up in TraefikCerts
	MaxLapFactor       float64
	Segments           int
	PitLaneTimeCost    float64
	DefaultBaseLapTime float64
	AvgLapOffset       float64
	MaxDegradation     float64
	MinLapsForTwoStops int
	MaxInsights        int
)

const (
	DefaultMaxLapFactor       = 1.5
	DefaultSegments           = 50
	DefaultPitLaneTimeCost    = 25.0
	DefaultDefaultBaseLapTime = 100.0
	DefaultAvgLapOffset       = 2.5
	DefaultMaxDegradation     = 0.25
	DefaultMinLapsForTwoStops = 21
	DefaultMaxInsights        = 10
	DefaultSummaryCacheTTL    = 5 * time.Minute
)

// Config holds the configuration values which are used by the application
type Config struct {
	// laps slower than median * MaxLapFactor are treated as outliers
	MaxLapFactor float64
	// number of track segments used by the racing line analysis
	Segments int
	// time lost in the pit lane per stop (seconds)
	PitLaneTimeCost float64
	// base lap time used if nothing else is known (seconds)
	DefaultBaseLapTime float64
	// added to the mean best lap of the field to estimate a base lap time
	AvgLapOffset       float64
	MaxDegradation     float64
	MinLapsForTwoStops int
	MaxInsights        int
	SummaryCacheTTL    time.Duration
}

// DefaultConfig returns the configuration with all engine defaults
func DefaultConfig() *Config {
	return &Config{
		MaxLapFactor:       DefaultMaxLapFactor,
		Segments:           DefaultSegments,
		PitLaneTimeCost:    DefaultPitLaneTimeCost,
		DefaultBaseLapTime: DefaultDefaultBaseLapTime,
		AvgLapOffset:       DefaultAvgLapOffset,
		MaxDegradation:     DefaultMaxDegradation,
		MinLapsForTwoStops: DefaultMinLapsForTwoStops,
		MaxInsights:        DefaultMaxInsights,
		SummaryCacheTTL:    DefaultSummaryCacheTTL,
	}
}

// FromCLI creates a Config from the resolved CLI values.
// Invalid values fall back to their defaults.
func FromCLI() *Config {
	cfg := DefaultConfig()
	if MaxLapFactor > 1 {
		cfg.MaxLapFactor = MaxLapFactor
	}
	if Segments > 0 {
		cfg.Segments = Segments
	}
	if PitLaneTimeCost > 0 {
		cfg.PitLaneTimeCost = PitLaneTimeCost
	}
	if DefaultBaseLapTime > 0 {
		cfg.DefaultBaseLapTime = DefaultBaseLapTime
	}
	if AvgLapOffset >= 0 {
		cfg.AvgLapOffset = AvgLapOffset
	}
	if MaxDegradation > 0 {
		cfg.MaxDegradation = MaxDegradation
	}
	if MinLapsForTwoStops > 0 {
		cfg.MinLapsForTwoStops = MinLapsForTwoStops
	}
	if MaxInsights > 0 {
		cfg.MaxInsights = MaxInsights
	}
	if d, err := time.ParseDuration(SummaryCacheTTL); err == nil {
		cfg.SummaryCacheTTL = d
	}
	return cfg
}
