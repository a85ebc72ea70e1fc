package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	logcomm "github.com/TopiaNetwork/ethtx/log/common"
	"github.com/TopiaNetwork/ethtx/log/zerologger"
)

type LogFormat uint8

const (
	TextFormat LogFormat = iota
	JSONFormat
)
const DefaultLogFormat = TextFormat

type LogOutput uint8

const (
	StdErrOutput LogOutput = iota
	FileLogOutput
)
const DefaultLogOutput = StdErrOutput

// Logger is the leveled logger handed to every component. Fatal and Panic
// variants exit or panic after writing the event.
type Logger interface {
	Trace(msg string)
	Tracef(string, ...interface{})
	Debug(msg string)
	Debugf(string, ...interface{})
	Info(msg string)
	Infof(string, ...interface{})
	Warn(msg string)
	Warnf(string, ...interface{})
	Error(msg string)
	Errorf(string, ...interface{})
	Fatal(msg string)
	Fatalf(string, ...interface{})
	Panic(msg string)
	Panicf(string, ...interface{})

	UpdateLoggerLevel(level logcomm.LogLevel)
}

const TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

func (l LogFormat) String() string {
	switch l {
	case TextFormat:
		return "text"
	case JSONFormat:
		return "json"
	}
	return fmt.Sprintf("LogFormat(%d)", uint8(l))
}

func ParseLogFormat(name string) (LogFormat, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	}
	return TextFormat, errors.New("unknown log format " + name)
}

func (o LogOutput) String() string {
	switch o {
	case StdErrOutput:
		return "stderr"
	case FileLogOutput:
		return "filelog"
	}
	return fmt.Sprintf("LogOutput(%d)", uint8(o))
}

var workDir = sync.OnceValue(func() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
})

var textPartsOrder = []string{
	zerolog.TimestampFieldName,
	zerolog.LevelFieldName,
	zerolog.MessageFieldName,
	zerolog.CallerFieldName,
}

// relativeCaller prints callers relative to the working directory.
func relativeCaller(i interface{}) string {
	caller, _ := i.(string)
	if caller == "" {
		return ""
	}
	if dir := workDir(); dir != "" {
		caller = strings.TrimPrefix(strings.TrimPrefix(caller, dir), "/")
	}
	return "file=" + caller
}

func newDefaultTextOutput(out io.Writer) io.Writer {
	return &zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      true,
		TimeFormat:   TimestampFormat,
		PartsOrder:   textPartsOrder,
		FormatCaller: relativeCaller,
	}
}

func selectFormatOutput(format LogFormat, output io.Writer) (io.Writer, error) {
	switch format {
	case TextFormat:
		return newDefaultTextOutput(output), nil
	case JSONFormat:
		return output, nil
	default:
		return nil, errors.New("unknown formatter " + format.String())
	}
}

func generateOutput(output LogOutput, param string) (io.Writer, error) {
	switch output {
	case StdErrOutput:
		return os.Stderr, nil
	case FileLogOutput:
		if param == "" {
			return nil, errors.New("generateOutput err: fileFullPath blank")
		}

		return os.OpenFile(param, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	default:
		return nil, errors.New("unknown output type " + output.String())
	}
}

func CreateMainLogger(level logcomm.LogLevel, format LogFormat, output LogOutput, param string) (Logger, error) {
	outputW, err := generateOutput(output, param)
	if err != nil {
		return nil, err
	}

	return CreateWriterLogger(level, format, outputW)
}

// CreateWriterLogger logs to an already opened writer, e.g. a command's stderr.
func CreateWriterLogger(level logcomm.LogLevel, format LogFormat, w io.Writer) (Logger, error) {
	wr, err := selectFormatOutput(format, w)
	if err != nil {
		return nil, err
	}

	return zerologger.NewLogger(logcomm.ToZerologLevel(level), wr), nil
}

func CreateNopLogger() Logger {
	return zerologger.NewNopLogger()
}

func CreateModuleLogger(level logcomm.LogLevel, module string, l Logger) Logger {
	if zl, ok := l.(*zerologger.ZeroLogger); ok {
		return zl.CreateModuleLogger(logcomm.ToZerologLevel(level), module)
	}

	return l
}

// CreateFieldLogger returns l with key=value attached to every event.
// Loggers that are not backed by zerolog are returned unchanged.
func CreateFieldLogger(key string, value interface{}, l Logger) Logger {
	if zl, ok := l.(*zerologger.ZeroLogger); ok {
		return zl.WithField(key, value)
	}

	return l
}
