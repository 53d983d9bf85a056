package utils

import (
	"io"
	"os"
	"strings"

	chlog "github.com/charmbracelet/log"
)

// Logger is the application-wide structured logger.
var Logger *chlog.Logger

const (
	debugLevel = "debug"
	infoLevel  = "info"
	warnLevel  = "warn"
	errorLevel = "error"
)

// InitLogger initializes the global logger with level from CONSUMER_PROGRESS_LOG_LEVEL.
// Valid levels: debug, info, warn, error. Logs go to stderr so that reports on
// stdout can be piped.
func InitLogger() {
	if Logger != nil {
		return
	}
	Logger = NewLogger(os.Stderr, os.Getenv("CONSUMER_PROGRESS_LOG_LEVEL"))
}

// NewLogger builds a logger writing to w at the given level, defaulting to info.
func NewLogger(w io.Writer, level string) *chlog.Logger {
	l := chlog.New(w)
	l.SetTimeFormat("2006-01-02 15:04:05.000")
	l.SetReportTimestamp(true)
	l.SetLevel(parseLevel(level, chlog.InfoLevel))
	return l
}

// SetLogLevel allows changing level at runtime.
func SetLogLevel(level string) {
	if Logger == nil {
		InitLogger()
	}
	Logger.SetLevel(parseLevel(level, Logger.GetLevel()))
}

func parseLevel(level string, fallback chlog.Level) chlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case debugLevel:
		return chlog.DebugLevel
	case infoLevel:
		return chlog.InfoLevel
	case warnLevel:
		return chlog.WarnLevel
	case errorLevel:
		return chlog.ErrorLevel
	}
	return fallback
}
