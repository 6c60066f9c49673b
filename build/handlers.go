package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog/v2"
)

// NewDefaultLoggers returns the console handler and, if a rotator is given,
// the log file handler. Disabled loggers are returned as nil.
func NewDefaultLoggers(cfg *LogConfig,
	rotator *RotatingLogWriter) (btclog.Handler, btclog.Handler) {

	var consoleHandler, fileHandler btclog.Handler
	if !cfg.Console.Disable {
		consoleHandler = btclog.NewDefaultHandler(
			os.Stderr, cfg.Console.HandlerOptions()...,
		)
	}
	if rotator != nil && !cfg.File.Disable {
		fileHandler = btclog.NewDefaultHandler(
			rotator, cfg.File.HandlerOptions()...,
		)
	}

	return consoleHandler, fileHandler
}

// NewRootHandler returns the handler every subsystem logger writes to. When a
// rotator is given, lines go to both stderr and the log file; file logger
// options then apply to both outputs.
func NewRootHandler(cfg *LogConfig,
	rotator *RotatingLogWriter) btclog.Handler {

	consoleHandler, fileHandler := NewDefaultLoggers(cfg, rotator)

	switch {
	case consoleHandler != nil && fileHandler != nil:
		w := &LogWriter{RotatorPipe: rotator}
		return btclog.NewDefaultHandler(
			w, cfg.File.HandlerOptions()...,
		)

	case fileHandler != nil:
		return fileHandler

	case consoleHandler != nil:
		return consoleHandler

	default:
		return btclog.NewDefaultHandler(io.Discard)
	}
}
