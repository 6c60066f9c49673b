package lnhistory

import (
	"fmt"

	"github.com/btcsuite/btclog/v2"
	"github.com/ln-history/lnhistory/build"
	"github.com/ln-history/lnhistory/lnwire"
)

// Subsystem defines the logging code for this subsystem.
const Subsystem = "LNHC"

// lnhLog is the logger of the front end. Subsystem loggers are replaced with
// real ones once SetupLoggers has run.
var lnhLog = build.NewSubLogger(Subsystem, nil)

// Loggers holds everything SetupLoggers created. Close must be called on
// shutdown so that the log file is flushed.
type Loggers struct {
	// Manager hands out and tracks the subsystem loggers.
	Manager *build.SubLoggerManager

	// Rotator is the log file writer, nil if file logging is disabled.
	Rotator *build.RotatingLogWriter
}

// Close shuts the log file writer down, if one was opened.
func (l *Loggers) Close() error {
	if l.Rotator == nil {
		return nil
	}

	return l.Rotator.Close()
}

// SetupLoggers initializes the logging outputs described by cfg, registers the
// logger of every subsystem and applies the configured debug levels.
func SetupLoggers(cfg *Config) (*Loggers, error) {
	loggers := &Loggers{}

	if logFile := cfg.LogFile(); logFile != "" {
		loggers.Rotator = build.NewRotatingLogWriter()
		err := loggers.Rotator.InitLogRotator(cfg.LogConfig.File, logFile)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize log "+
				"rotator: %w", err)
		}
	}

	handler := build.NewRootHandler(cfg.LogConfig, loggers.Rotator)
	loggers.Manager = build.NewSubLoggerManager(handler)

	AddSubLogger(loggers.Manager, Subsystem, func(logger btclog.Logger) {
		lnhLog = logger
	})
	AddSubLogger(loggers.Manager, lnwire.Subsystem, lnwire.UseLogger)

	err := build.ParseAndSetDebugLevels(cfg.DebugLevel, loggers.Manager)
	if err != nil {
		_ = loggers.Close()
		return nil, err
	}

	// Warn about a missing config file only now that there is somewhere
	// to write the warning to.
	if cfg.configFileErr != nil {
		lnhLog.Warnf("Using default config: %v", cfg.configFileErr)
	}

	lnhLog.Debugf("Logging subsystems: %v",
		loggers.Manager.SupportedSubsystems())

	return loggers, nil
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, root.GenSubLogger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
