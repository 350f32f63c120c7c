package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDir        = "logs"
	defaultBufferSize = 32 * 1024
)

type Options struct {
	// Name is the log file base name inside Dir, e.g. "server".
	Name  string
	Dir   string
	Level string
	// Console mirrors every entry to stdout.
	Console bool
}

// NewLogger builds the JSON logger used by every component. Entries are
// written asynchronously to <Dir>/<Name>.log; the returned func flushes and
// closes the file.
func NewLogger(opts Options) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(ParseLevel(opts.Level))

	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Name == "" {
		opts.Name = "blogqa"
	}
	if strings.ContainsAny(opts.Name, `/\`) {
		return nil, nil, fmt.Errorf("invalid log name %q", opts.Name)
	}

	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	asyncWriter, err := NewAsyncFileWriter(filepath.Join(opts.Dir, opts.Name+".log"), defaultBufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(asyncWriter)

	if opts.Console {
		logger.AddHook(NewConsoleHook(os.Stdout))
	}
	return logger, asyncWriter.Close, nil
}

// ParseLevel maps LOG_LEVEL values onto logrus levels, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
