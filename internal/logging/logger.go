package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation limits of the operator log file
const (
	DefaultMaxSizeMB  = 25
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 7
)

// Options configures the application logger
type Options struct {
	Verbose bool
	// File enables a size-rotated copy of the log when set
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Console receives log lines in addition to File; stderr when nil
	Console io.Writer
}

// Logger is a logrus logger whose optional file output must be closed
type Logger struct {
	*logrus.Logger
	rotator *lumberjack.Logger
}

// New creates the application logger
func New(opts Options) (*Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	if opts.File == "" {
		logger.SetOutput(console)
		return &Logger{Logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    withDefault(opts.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: withDefault(opts.MaxBackups, DefaultMaxBackups),
		MaxAge:     withDefault(opts.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   opts.Compress,
	}
	logger.SetOutput(io.MultiWriter(console, rotator))

	return &Logger{Logger: logger, rotator: rotator}, nil
}

// Close closes the rotated log file, if any
func (l *Logger) Close() error {
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
