package common

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type LogLevel uint8

// NoLevel means it should be ignored
const (
	NoLevel LogLevel = iota
	TraceLevel
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	PanicLevel
	maxLogLevel
)

const LogLevelCount = int(maxLogLevel)

var levelMapping = []zerolog.Level{
	NoLevel:    zerolog.NoLevel,
	TraceLevel: zerolog.TraceLevel,
	InfoLevel:  zerolog.InfoLevel,
	DebugLevel: zerolog.DebugLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
	FatalLevel: zerolog.FatalLevel,
	PanicLevel: zerolog.PanicLevel,
}

var levelNames = []string{
	NoLevel:    "",
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
	PanicLevel: "panic",
}

func ToZerologLevel(level LogLevel) zerolog.Level {
	if int(level) >= LogLevelCount {
		return zerolog.NoLevel
	}
	return levelMapping[level]
}

func (level LogLevel) String() string {
	if int(level) >= LogLevelCount {
		return fmt.Sprintf("LogLevel(%d)", uint8(level))
	}
	return levelNames[level]
}

// ParseLogLevel accepts the lower-case level names used in configuration files.
func ParseLogLevel(name string) (LogLevel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := 1; i < LogLevelCount; i++ {
		if levelNames[i] == name {
			return LogLevel(i), nil
		}
	}

	return NoLevel, fmt.Errorf("unknown log level %q", name)
}
