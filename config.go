package lnhistory

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/ln-history/lnhistory/build"
	"github.com/ln-history/lnhistory/lnwire"
)

const (
	// DefaultConfigFilename is the name of the config file inside the
	// application directory.
	DefaultConfigFilename = "lnhistory.conf"

	// DefaultLogFilename is the name of the log file inside the log
	// directory.
	DefaultLogFilename = "lnhistory.log"

	defaultLogDirname = "logs"
	defaultLogLevel   = "info"
)

var (
	// DefaultAppDir is the default directory holding the config file and
	// the logs.
	DefaultAppDir = btcutil.AppDataDir("lnhistory", false)

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(DefaultAppDir, DefaultConfigFilename)

	defaultLogDir = filepath.Join(DefaultAppDir, defaultLogDirname)
)

// Config holds the options shared by every front end of the decoder.
//
//nolint:lll
type Config struct {
	LogDir     string `long:"logdir" description:"Directory to log output. Leave empty to only log to stderr."`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems."`

	GossipTypes      []uint16 `long:"gossiptype" description:"A message type that is recognised as gossip. Can be specified multiple times. Defaults to channel_announcement, node_announcement and channel_update."`
	ExtensionTypes   []uint16 `long:"extensiontype" description:"A vendor message type that is recognised alongside gossip. Can be specified multiple times. Defaults to the Core Lightning gossip_store record types."`
	NoExtensionTypes bool     `long:"noextensiontypes" description:"Do not recognise any vendor message types."`

	DefaultPort string `long:"defaultport" description:"The port assumed for addresses given without one."`

	LogConfig *build.LogConfig `group:"logging" namespace:"logging"`

	// configFileErr is the error hit while reading the config file, if
	// any. It is reported once logging is set up.
	configFileErr error
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		LogDir:      defaultLogDir,
		DebugLevel:  defaultLogLevel,
		DefaultPort: lnwire.DefaultPeerPort,
		LogConfig:   build.DefaultLogConfig(),
	}
}

// LoadConfig starts from DefaultConfig and applies the options found in the
// INI file at configFile. A config file that does not exist is not an error,
// any other problem reading or parsing it is.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	configFile = CleanAndExpandPath(configFile)
	if err := flags.IniParse(configFile, &cfg); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		var iniErr *flags.IniError
		if errors.As(err, &iniErr) || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to load config file "+
				"%v: %w", configFile, err)
		}

		cfg.configFileErr = err
	}

	cfg.LogDir = CleanAndExpandPath(cfg.LogDir)

	return &cfg, nil
}

// Validate checks the given configuration to be sane.
func (c *Config) Validate() error {
	if c.DebugLevel == "" {
		return errors.New("debuglevel must not be empty")
	}

	if _, err := strconv.ParseUint(c.DefaultPort, 10, 16); err != nil {
		return fmt.Errorf("invalid defaultport %q: %w", c.DefaultPort,
			err)
	}

	if c.LogConfig == nil {
		return errors.New("logging config missing")
	}

	return c.LogConfig.Validate()
}

// TypeRegistry builds the message type registry described by the config.
// Type sets that were not configured fall back to the BOLT #7 gossip types
// and the Core Lightning gossip_store types.
func (c *Config) TypeRegistry() *lnwire.TypeRegistry {
	gossip := lnwire.DefaultGossipTypes()
	if len(c.GossipTypes) > 0 {
		gossip = toMessageTypes(c.GossipTypes)
	}

	var extension []lnwire.MessageType
	switch {
	case c.NoExtensionTypes:

	case len(c.ExtensionTypes) > 0:
		extension = toMessageTypes(c.ExtensionTypes)

	default:
		extension = lnwire.DefaultCoreLightningTypes()
	}

	return lnwire.NewTypeRegistry(gossip, extension)
}

// LogFile returns the path of the log file, or an empty string if logging to
// a file is disabled.
func (c *Config) LogFile() string {
	if c.LogDir == "" || c.LogConfig.File.Disable {
		return ""
	}

	return filepath.Join(c.LogDir, DefaultLogFilename)
}

func toMessageTypes(types []uint16) []lnwire.MessageType {
	msgTypes := make([]lnwire.MessageType, 0, len(types))
	for _, t := range types {
		msgTypes = append(msgTypes, lnwire.MessageType(t))
	}

	return msgTypes
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
