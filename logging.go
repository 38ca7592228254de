package mbim

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log is the global log object. The default level is set to Info
var Log = newLogger(os.Stderr)

// ErrUnknownLogLevel is returned by LogLevel.Set for unrecognized names
var ErrUnknownLogLevel = errors.New("unknown log level")

// LogLevel indicates verbosity of logging
type LogLevel int

func (ll LogLevel) String() string {
	switch ll {
	case LevelNone:
		return "NONE"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	}
	return ""
}

// Set will parse one of none, info, debug or trace (case is ignored) and
// set the level accordingly.  This satisfies the pflag.Value interface
func (ll *LogLevel) Set(value string) error {
	switch strings.ToUpper(value) {
	case "NONE":
		*ll = LevelNone
	case "INFO":
		*ll = LevelInfo
	case "DEBUG":
		*ll = LevelDebug
	case "TRACE":
		*ll = LevelTrace
	default:
		return errors.Wrapf(ErrUnknownLogLevel, "%q", value)
	}
	return nil
}

// Type returns the name used in flag usage output
func (ll *LogLevel) Type() string { return "level" }

func (ll LogLevel) logrus() logrus.Level {
	switch ll {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelTrace:
		return logrus.TraceLevel
	}
	return logrus.InfoLevel
}

// Log levels are None, Info, Debug and Trace. Trace logging
// should only be used to display messages as they are
// received or sent
const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

// Logger is a struct that keeps track of a log level and only
// prints messages of that level or lower
type Logger struct {
	level  LogLevel
	logger *logrus.Logger
}

func newLogger(w io.Writer) *Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.TraceLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{level: LevelInfo, logger: logger}
}

// Level sets the Loggers log level
func (s *Logger) Level(level LogLevel) {
	s.level = level
}

// SetOutput redirects log output to w
func (s *Logger) SetOutput(w io.Writer) {
	s.logger.SetOutput(w)
}

func (s *Logger) logf(level LogLevel, format string, v ...interface{}) {
	if s.level >= level {
		s.logger.Logf(level.logrus(), format, v...)
	}
}

// Infof will print a message at the Info level
func (s *Logger) Infof(format string, v ...interface{}) {
	s.logf(LevelInfo, format, v...)
}

// Debugf will print a message at the Debug level
func (s *Logger) Debugf(format string, v ...interface{}) {
	s.logf(LevelDebug, format, v...)
}

// Tracef will print a message at the Trace level
func (s *Logger) Tracef(format string, v ...interface{}) {
	s.logf(LevelTrace, format, v...)
}

// SetLogLevel sets the global log level and output
func SetLogLevel(level LogLevel, w io.Writer) {
	Log.Level(level)
	if w != nil {
		Log.SetOutput(w)
	}
}
