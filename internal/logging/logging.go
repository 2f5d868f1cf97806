// Package logging builds the slog logger shared by the client.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level slog.Level
	// File is the log file to write to instead of stderr. It is rotated once
	// it reaches MaxSizeMB.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns a logger and the closer of its output.
func New(opts Options) (*slog.Logger, io.Closer) {
	if opts.File == "" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:   opts.Level,
			NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
		})), nopCloser{}
	}

	out := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    max(opts.MaxSizeMB, 1),
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:   opts.Level,
		NoColor: true,
	})), out
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
