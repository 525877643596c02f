// Package logging configures scaffold's zerolog loggers. Diagnostics go to
// stderr and to a log file under the XDG state directory; user-facing
// status lines are rendered by pkg/ui instead.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appDirName  = "scaffold"
	logFileName = "scaffold.log"
)

// verbosityLevels maps -v counts to levels; higher counts stay at trace
var verbosityLevels = []zerolog.Level{
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
	zerolog.TraceLevel,
}

// Options controls Setup
type Options struct {
	Verbosity int
	// Console receives human-readable output; nil means stderr
	Console io.Writer
	// LogFile is the JSON log file; empty means the XDG default
	LogFile string
}

// LevelFor returns the global level for a verbosity count
func LevelFor(verbosity int) zerolog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(verbosityLevels) {
		return zerolog.TraceLevel
	}
	return verbosityLevels[verbosity]
}

// SetupLogger configures the global logger for a verbosity count with the
// default console and log file
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// Setup configures the global logger. A log file that cannot be opened is
// reported on the console and otherwise ignored.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	path := opts.LogFile
	if path == "" {
		path = logFilePath()
	}
	file, fileErr := openLogFile(path)
	if fileErr == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", path).Msg("Logger initialized")
}

// GetLogger returns the global logger tagged with a component name
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// LogOperationStart logs the start of an operation and returns a function
// logging its completion and duration
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

// logFilePath returns the log file location. XDG_STATE_HOME is read on
// every call so tests can redirect it.
func logFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return logFileName
	}
	return filepath.Join(stateHome, appDirName, logFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
