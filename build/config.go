package build

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btclog/v2"
)

const (
	callSiteOff   = "off"
	callSiteShort = "short"
	callSiteLong  = "long"

	// DefaultMaxLogFiles is the number of rolled log files kept next to
	// the active one.
	DefaultMaxLogFiles = 3

	// DefaultMaxLogFileSize is the size in MB at which the log file is
	// rolled.
	DefaultMaxLogFileSize = 10
)

// LogConfig holds the options of the two log outputs, stderr and the log
// file. Both share the subsystem levels set through the debuglevel option.
type LogConfig struct {
	Console *LoggerConfig     `group:"console" namespace:"console"`
	File    *FileLoggerConfig `group:"file" namespace:"file"`
}

// DefaultLogConfig returns the logging options used when nothing else is
// configured. Console lines carry no timestamp since a command only runs for
// a moment; the log file keeps them.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Console: &LoggerConfig{
			NoTimestamps: true,
			CallSite:     callSiteOff,
		},
		File: &FileLoggerConfig{
			Compressor:     Gzip,
			MaxLogFiles:    DefaultMaxLogFiles,
			MaxLogFileSize: DefaultMaxLogFileSize,
			LoggerConfig: LoggerConfig{
				CallSite: callSiteOff,
			},
		},
	}
}

// Validate checks the options of both outputs. A config assembled in code
// never went through the flag parser, so the call-site and compressor
// choices are checked here as well.
func (c *LogConfig) Validate() error {
	if c.Console == nil || c.File == nil {
		return errors.New("console and file logger options are " +
			"required")
	}

	if err := c.Console.validate(); err != nil {
		return fmt.Errorf("console logger: %w", err)
	}

	if err := c.File.validate(); err != nil {
		return fmt.Errorf("file logger: %w", err)
	}

	return nil
}

// LoggerConfig holds the options shared by both log outputs.
type LoggerConfig struct {
	Disable      bool   `long:"disable" description:"Turn this output off."`
	NoTimestamps bool   `long:"no-timestamps" description:"Drop timestamps."`
	CallSite     string `long:"call-site" description:"Source location of each line {off, short, long}."`
}

func (cfg *LoggerConfig) validate() error {
	switch cfg.CallSite {
	case "", callSiteOff, callSiteShort, callSiteLong:
		return nil

	default:
		return fmt.Errorf("invalid call-site %q", cfg.CallSite)
	}
}

// HandlerOptions translates the options into btclog handler options.
func (cfg *LoggerConfig) HandlerOptions() []btclog.HandlerOption {
	var opts []btclog.HandlerOption
	if cfg.NoTimestamps {
		opts = append(opts, btclog.WithNoTimestamp())
	}

	switch cfg.CallSite {
	case callSiteShort:
		opts = append(opts, btclog.WithCallerFlags(btclog.Lshortfile))
	case callSiteLong:
		opts = append(opts, btclog.WithCallerFlags(btclog.Llongfile))
	}

	return opts
}

// FileLoggerConfig adds the rotation options of the log file.
type FileLoggerConfig struct {
	LoggerConfig
	Compressor     string `long:"compressor" description:"Compression of rolled files {gzip, zstd}."`
	MaxLogFiles    int    `long:"max-files" description:"Rolled files to keep, 0 keeps all."`
	MaxLogFileSize int    `long:"max-file-size" description:"Size in MB at which to roll."`
}

func (cfg *FileLoggerConfig) validate() error {
	if err := cfg.LoggerConfig.validate(); err != nil {
		return err
	}

	// Rotation options are irrelevant when nothing is written.
	if cfg.Disable {
		return nil
	}

	switch {
	case !SupportedLogCompressor(cfg.Compressor):
		return fmt.Errorf("invalid log compressor: %v", cfg.Compressor)

	case cfg.MaxLogFiles < 0:
		return fmt.Errorf("max-files must not be negative, got %d",
			cfg.MaxLogFiles)

	case cfg.MaxLogFileSize < 1:
		return fmt.Errorf("max-file-size must be at least 1 MB, "+
			"got %d", cfg.MaxLogFileSize)
	}

	return nil
}
