package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ln-history/lnhistory"
	"github.com/ln-history/lnhistory/build"
	"github.com/ln-history/lnhistory/lnwire"
	"github.com/urfave/cli"
)

const (
	// configKey and loggersKey index the app metadata filled in by setup.
	configKey  = "config"
	loggersKey = "loggers"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[lnhcli] %v\n", err)
	os.Exit(1)
}

// newApp assembles the command line application. It is split out of main so
// that tests can run it against their own arguments and output.
func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lnhcli"
	app.Version = build.VersionWithCommit()
	app.Usage = "decode the fields of Lightning Network gossip messages"
	app.Metadata = make(map[string]interface{})
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "configfile",
			Value:     lnhistory.DefaultConfigFile,
			Usage:     "The path to the config file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "debuglevel",
			Usage: "Logging level for all subsystems, or " +
				"<global-level>,<subsystem>=<level>,...",
		},
		cli.StringFlag{
			Name: "logdir",
			Usage: "Directory to write the log file to, empty to " +
				"only log to stderr.",
			TakesFile: true,
		},
		cli.StringSliceFlag{
			Name: "gossiptype",
			Usage: "A message type recognised as gossip. May be " +
				"specified multiple times.",
		},
		cli.StringSliceFlag{
			Name: "extensiontype",
			Usage: "A vendor message type recognised alongside " +
				"gossip. May be specified multiple times.",
		},
		cli.BoolFlag{
			Name:  "noextensiontypes",
			Usage: "Do not recognise any vendor message types.",
		},
		cli.StringFlag{
			Name:  "defaultport",
			Usage: "The port assumed for addresses without one.",
		},
	}
	app.Before = setup
	app.After = teardown
	app.Commands = []cli.Command{
		msgTypeCommand,
		stripCommand,
		decodeAddrCommand,
		decodeAliasCommand,
		decodeScidCommand,
		encodeAddrCommand,
		versionCommand,
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

// setup loads the config file, applies the global flags on top of it and
// initializes logging.
func setup(ctx *cli.Context) error {
	cfg, err := lnhistory.LoadConfig(ctx.String("configfile"))
	if err != nil {
		return err
	}

	if ctx.IsSet("debuglevel") {
		cfg.DebugLevel = ctx.String("debuglevel")
	}
	if ctx.IsSet("logdir") {
		cfg.LogDir = lnhistory.CleanAndExpandPath(ctx.String("logdir"))
	}
	if ctx.IsSet("defaultport") {
		cfg.DefaultPort = ctx.String("defaultport")
	}
	if ctx.IsSet("noextensiontypes") {
		cfg.NoExtensionTypes = ctx.Bool("noextensiontypes")
	}

	if ctx.IsSet("gossiptype") {
		cfg.GossipTypes, err = parseTypes(ctx.StringSlice("gossiptype"))
		if err != nil {
			return fmt.Errorf("invalid gossiptype: %w", err)
		}
	}
	if ctx.IsSet("extensiontype") {
		cfg.ExtensionTypes, err = parseTypes(
			ctx.StringSlice("extensiontype"),
		)
		if err != nil {
			return fmt.Errorf("invalid extensiontype: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	loggers, err := lnhistory.SetupLoggers(cfg)
	if err != nil {
		return err
	}

	ctx.App.Metadata[configKey] = cfg
	ctx.App.Metadata[loggersKey] = loggers

	return nil
}

// teardown closes the log file, if one was opened.
func teardown(ctx *cli.Context) error {
	loggers, ok := ctx.App.Metadata[loggersKey].(*lnhistory.Loggers)
	if !ok {
		return nil
	}

	return loggers.Close()
}

// parseTypes parses decimal message types.
func parseTypes(values []string) ([]uint16, error) {
	types := make([]uint16, 0, len(values))
	for _, value := range values {
		t, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, err
		}
		types = append(types, uint16(t))
	}

	return types, nil
}

// getConfig returns the config assembled by setup.
func getConfig(ctx *cli.Context) (*lnhistory.Config, error) {
	cfg, ok := ctx.App.Metadata[configKey].(*lnhistory.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}

	return cfg, nil
}

// getRegistry returns the message type registry described by the config.
func getRegistry(ctx *cli.Context) (*lnwire.TypeRegistry, error) {
	cfg, err := getConfig(ctx)
	if err != nil {
		return nil, err
	}

	return cfg.TypeRegistry(), nil
}
