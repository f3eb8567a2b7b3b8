package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// configureLogging builds the CLI logger from the log section. Unknown
// levels fall back to info with a warning; unknown formatters are an error.
func configureLogging(out io.Writer, cfg LogConfig) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		defer logger.Warnf("error parsing level %q: %v, using %q", cfg.Level, err, level)
	}
	logger.SetLevel(level)

	switch cfg.Formatter {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return nil, fmt.Errorf("unsupported logging formatter: %q", cfg.Formatter)
	}

	entry := logrus.NewEntry(logger)
	if len(cfg.Fields) > 0 {
		entry = entry.WithFields(logrus.Fields(cfg.Fields))
	}

	return entry, nil
}
