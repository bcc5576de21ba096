// Package logger wraps logrus with the component-tagged, optionally rotated
// logging used by the shopdash CLI.
package logger

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields type alias for logrus.Fields to maintain compatibility
type Fields map[string]interface{}

// Options configures New.
type Options struct {
	Level  string    // logrus level name
	Format string    // "text" or "json"
	File   string    // rotate into this file instead of writing to Output
	MaxAge int       // days to keep rotated files
	Output io.Writer // used when File is empty
}

// Log wraps logrus.Logger with additional functionality
type Log struct {
	*logrus.Logger
	closer io.Closer
}

// Entry wraps logrus.Entry with additional functionality
type Entry struct {
	*logrus.Entry
}

// New builds a logger from opts.
func New(opts Options) (*Log, error) {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s'", opts.Level)
	}
	l.SetLevel(lvl)
	l.SetReportCaller(true)

	callerPrettyfier := func(f *runtime.Frame) (string, string) {
		file := filepath.Base(f.File)
		return "", fmt.Sprintf("%s:%d", file, f.Line)
	}

	switch opts.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			CallerPrettyfier: callerPrettyfier,
		})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  time.RFC3339,
			DisableColors:    true,
			CallerPrettyfier: callerPrettyfier,
		})
	default:
		return nil, fmt.Errorf("invalid log format '%s'", opts.Format)
	}

	log := &Log{Logger: l}
	switch {
	case opts.File != "":
		rotator := &lumberjack.Logger{
			Filename: opts.File,
			MaxAge:   opts.MaxAge,
			MaxSize:  100,
			Compress: true,
		}
		l.SetOutput(rotator)
		log.closer = rotator
	case opts.Output != nil:
		l.SetOutput(opts.Output)
	default:
		l.SetOutput(io.Discard)
	}
	return log, nil
}

// Close releases the rotating file, if any.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Log) WithComponent(component string) *Entry {
	return &Entry{Entry: l.Logger.WithField("component", component)}
}

func (l *Log) WithFields(fields Fields) *Entry {
	return &Entry{Entry: l.Logger.WithFields(logrus.Fields(fields))}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{Entry: e.Entry.WithFields(logrus.Fields(fields))}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{Entry: e.Entry.WithError(err)}
}
