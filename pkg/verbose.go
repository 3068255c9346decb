package audiodedupe

import (
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

var globalVerboseLevel int
var debugFlags map[string]bool

// logger writes console-formatted events to stderr so that report output on
// stdout stays clean for pipelines
var logger = newLogger(0)

func newLogger(level int) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(level))
}

// zerologLevel maps a verbose level (0-3) to a zerolog threshold
func zerologLevel(level int) zerolog.Level {
	switch {
	case level <= 0:
		return zerolog.WarnLevel
	case level == 1:
		return zerolog.InfoLevel
	case level == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
	logger = newLogger(level)
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {} // No-op
	}

	// Get caller function name
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	// Strip package prefix for cleaner output
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	logger.Trace().Str("func", funcName).Msg("entering")

	return func() {
		logger.Trace().Str("func", funcName).Msg("exiting")
	}
}

// VerboseLog logs a message at the specified verbose level; the level maps to
// a zerolog threshold so gating happens inside the logger
func VerboseLog(level int, format string, args ...interface{}) {
	switch {
	case level <= 1:
		logger.Info().Msgf(format, args...)
	case level == 2:
		logger.Debug().Msgf(format, args...)
	default:
		logger.Trace().Msgf(format, args...)
	}
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("scan,provider") and key:value format ("scan:true,provider:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	flags := strings.Split(flagsStr, ",")
	for _, flag := range flags {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		// Handle flag:value format
		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true // Default to true for simple flag names

		if len(parts) > 1 {
			// Parse the value
			switch strings.ToLower(parts[1]) {
			case "true", "1", "yes", "on":
				flagValue = true
			case "false", "0", "no", "off":
				flagValue = false
			default:
				flagValue = true // Default to true for unknown values
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
