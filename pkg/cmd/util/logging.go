package util

import (
	"os"

	"github.com/mpapenbr/racelog-analytics/log"
	"github.com/mpapenbr/racelog-analytics/pkg/config"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger from the CLI values and installs it as
// default logger. The level is parsed from levelText.
func SetupLogger(levelText string) *log.Logger {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		opts = append(opts, log.WithFilter(config.LogFilter))
	}
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, ParseLogLevel(levelText, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr, ParseLogLevel(levelText, log.DebugLevel), opts...)
	}
	log.ResetDefault(logger)
	return logger
}
