package build

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog/v2"
	"github.com/stretchr/testify/require"
)

// TestParseAndSetDebugLevels checks the debuglevel syntax against a manager
// with two registered subsystems.
func TestParseAndSetDebugLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mgr := NewSubLoggerManager(btclog.NewDefaultHandler(&buf))
	wire := mgr.GenSubLogger("WIRE")
	cli := mgr.GenSubLogger("LNHC")

	require.Equal(t, []string{"LNHC", "WIRE"}, mgr.SupportedSubsystems())
	require.Len(t, mgr.SubLoggers(), 2)

	require.NoError(t, ParseAndSetDebugLevels("debug", mgr))
	require.Equal(t, btclog.LevelDebug, wire.Level())
	require.Equal(t, btclog.LevelDebug, cli.Level())

	require.NoError(t, ParseAndSetDebugLevels("WIRE=trace", mgr))
	require.Equal(t, btclog.LevelTrace, wire.Level())
	require.Equal(t, btclog.LevelDebug, cli.Level())

	require.NoError(t, ParseAndSetDebugLevels("info,LNHC=error", mgr))
	require.Equal(t, btclog.LevelInfo, wire.Level())
	require.Equal(t, btclog.LevelError, cli.Level())

	invalid := []string{
		"bogus",
		"FOO=debug",
		"WIRE=bogus",
		"info,WIRE",
		"WIRE=debug=trace",
	}
	for _, level := range invalid {
		require.Error(t, ParseAndSetDebugLevels(level, mgr), level)
	}
}

// TestSubLoggerManagerOutput asserts that generated loggers write through the
// shared handler and honour their level.
func TestSubLoggerManagerOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mgr := NewSubLoggerManager(btclog.NewDefaultHandler(&buf))
	logger := mgr.GenSubLogger("WIRE")

	mgr.SetLogLevels("info")
	logger.Infof("decoded %d addresses", 3)
	require.Contains(t, buf.String(), "decoded 3 addresses")
	require.Contains(t, buf.String(), "WIRE")

	buf.Reset()
	mgr.SetLogLevel("WIRE", "off")
	logger.Infof("dropped")
	require.Empty(t, buf.String())

	// Unknown subsystems are ignored.
	mgr.SetLogLevel("NOPE", "trace")
	require.Len(t, mgr.SubLoggers(), 1)
}

// TestLogConfig covers the defaults and validation of the logging config.
func TestLogConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Console.HandlerOptions(), 1)
	require.Empty(t, cfg.File.HandlerOptions())

	cfg.Console.CallSite = callSiteShort
	require.Len(t, cfg.Console.HandlerOptions(), 2)
	require.True(t, SupportedLogCompressor(Zstd))

	testCases := []struct {
		name   string
		mutate func(cfg *LogConfig)
		valid  bool
	}{
		{
			name: "unknown compressor",
			mutate: func(cfg *LogConfig) {
				cfg.File.Compressor = "lz4"
			},
		},
		{
			name: "unknown call site",
			mutate: func(cfg *LogConfig) {
				cfg.Console.CallSite = "everywhere"
			},
		},
		{
			name: "negative max files",
			mutate: func(cfg *LogConfig) {
				cfg.File.MaxLogFiles = -1
			},
		},
		{
			name: "zero file size",
			mutate: func(cfg *LogConfig) {
				cfg.File.MaxLogFileSize = 0
			},
		},
		{
			name: "missing console options",
			mutate: func(cfg *LogConfig) {
				cfg.Console = nil
			},
		},
		{
			name: "disabled file skips rotation options",
			mutate: func(cfg *LogConfig) {
				cfg.File.Disable = true
				cfg.File.Compressor = "lz4"
				cfg.File.MaxLogFileSize = 0
			},
			valid: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultLogConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}
}

// TestRootHandler asserts that a handler is always returned, even with every
// output disabled.
func TestRootHandler(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	require.NotNil(t, NewRootHandler(cfg, nil))

	cfg.Console.Disable = true
	console, file := NewDefaultLoggers(cfg, nil)
	require.Nil(t, console)
	require.Nil(t, file)
	require.NotNil(t, NewRootHandler(cfg, nil))
}

// TestInitLogRotator checks that the log directory is created and that an
// unknown compressor is refused.
func TestInitLogRotator(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	logFile := filepath.Join(t.TempDir(), "logs", "lnhcli.log")

	bad := *cfg.File
	bad.Compressor = "lz4"
	require.Error(t, NewRotatingLogWriter().InitLogRotator(&bad, logFile))

	rotator := NewRotatingLogWriter()
	require.NoError(t, rotator.InitLogRotator(cfg.File, logFile))
	require.DirExists(t, filepath.Dir(logFile))

	// A writer that was never initialised swallows writes.
	n, err := NewRotatingLogWriter().Write([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
