// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/viper"
)

var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.DiscardHandler)
	logClose = func() error { return nil }
)

// newLogger returns a logger writing text records to w and, when file is
// not empty, JSON records to file.  The returned function closes the file.
func newLogger(w io.Writer, level string, file string) (*slog.Logger, func() error, error) {
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	handlers := []slog.Handler{slog.NewTextHandler(w, opts)}
	closer := func() error { return nil }
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // user-specified log file
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closer = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func setupLogging(w io.Writer) error {
	l, closer, err := newLogger(w, viper.GetString("log-level"), viper.GetString("log-file"))
	if err != nil {
		return err
	}
	logger = l
	logClose = closer
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	return nil
}

// closeLogging closes the log file opened by setupLogging, if any.  It is
// safe to call more than once.
func closeLogging() error {
	closer := logClose
	logClose = func() error { return nil }
	return closer()
}

// exit closes the log file and terminates the process with code.
func exit(code int) {
	_ = closeLogging()
	os.Exit(code)
}
