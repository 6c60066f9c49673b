package lnhistory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ln-history/lnhistory/lnwire"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig asserts that the defaults are valid and recognise the
// BOLT #7 gossip types plus the Core Lightning store types.
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, lnwire.DefaultPeerPort, cfg.DefaultPort)

	registry := cfg.TypeRegistry()
	for _, msgType := range lnwire.DefaultGossipTypes() {
		require.True(t, registry.IsKnown(msgType))
	}
	for _, msgType := range lnwire.DefaultCoreLightningTypes() {
		require.True(t, registry.IsExtension(msgType))
	}
	require.Len(t, registry.Types(), 9)
}

// TestLoadConfigMissingFile asserts that a missing config file falls back to
// the defaults.
func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does-not-exist.conf")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Error(t, cfg.configFileErr)
	require.Equal(t, defaultLogLevel, cfg.DebugLevel)
}

// TestLoadConfigFile reads every option from an INI file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFilename)
	logDir := filepath.Join(dir, "logs")

	conf := "[Application Options]\n" +
		"debuglevel=debug,WIRE=trace\n" +
		"logdir=" + logDir + "\n" +
		"gossiptype=256\n" +
		"gossiptype=257\n" +
		"extensiontype=4105\n" +
		"defaultport=9736\n"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.configFileErr)

	require.Equal(t, "debug,WIRE=trace", cfg.DebugLevel)
	require.Equal(t, logDir, cfg.LogDir)
	require.Equal(t, "9736", cfg.DefaultPort)
	require.Equal(t,
		filepath.Join(logDir, DefaultLogFilename), cfg.LogFile(),
	)

	registry := cfg.TypeRegistry()
	require.Equal(t, []lnwire.MessageType{
		lnwire.MsgChannelAnnouncement,
		lnwire.MsgNodeAnnouncement,
		lnwire.MsgStoreEnded,
	}, registry.Types())
	require.False(t, registry.IsKnown(lnwire.MsgChannelUpdate))
}

// TestLoadConfigInvalidFile asserts that a malformed config file is an
// error rather than silently ignored.
func TestLoadConfigInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	conf := "[Application Options]\nnosuchoption=1\n"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

// TestConfigValidate lists configurations Validate must refuse.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "empty debug level",
			mutate: func(c *Config) {
				c.DebugLevel = ""
			},
		},
		{
			name: "port out of range",
			mutate: func(c *Config) {
				c.DefaultPort = "65536"
			},
		},
		{
			name: "port not a number",
			mutate: func(c *Config) {
				c.DefaultPort = "lightning"
			},
		},
		{
			name: "unknown compressor",
			mutate: func(c *Config) {
				c.LogConfig.File.Compressor = "lz4"
			},
		},
		{
			name: "no logging config",
			mutate: func(c *Config) {
				c.LogConfig = nil
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

// TestTypeRegistryNoExtensions asserts that vendor types can be switched off.
func TestTypeRegistryNoExtensions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.NoExtensionTypes = true
	cfg.ExtensionTypes = []uint16{4101}

	registry := cfg.TypeRegistry()
	require.Equal(t, lnwire.DefaultGossipTypes(), registry.Types())
	require.False(t, registry.IsKnown(lnwire.MsgStoreChannelAmount))
}

// TestCleanAndExpandPath checks home and environment expansion.
func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("LNH_TEST_DIR", "/var/lib/lnh")

	require.Empty(t, CleanAndExpandPath(""))
	require.Equal(t, "/var/lib/lnh/logs",
		CleanAndExpandPath("$LNH_TEST_DIR/./logs/"))

	expanded := CleanAndExpandPath("~/lnhistory")
	require.NotContains(t, expanded, "~")
	require.Equal(t, "lnhistory", filepath.Base(expanded))
}
