// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUETZAL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, []string{"@", ".", ".."}, cfg.Rules.Whitelist)
	require.Equal(t, DefaultAtoms, cfg.Rules.Atoms)
	require.Equal(t, 8, cfg.Check.PoolSize)
	require.False(t, cfg.Rules.WhitelistFirst)
	require.False(t, cfg.Rules.UnicodeNormalization)

	rules, err := cfg.Compile(logrus.New())
	require.NoError(t, err)
	require.Empty(t, rules.Tile("Chodba"))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[rules]
whitelist = ["OK"]
blacklist = ["ehm"]
atoms = ["a", "b"]
after_angle = ["SM"]
whitelist_first = true
unicode_normalization = true

[check]
pool_size = 2
max_segment_len = 100

[log]
level = "warn"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, RulesConfig{
		Whitelist:      []string{"OK"},
		Blacklist:      []string{"ehm"},
		Atoms:          []string{"a", "b"},
		AfterAngle:     []string{"SM"},
		WhitelistFirst: true,

		UnicodeNormalization: true,
	}, cfg.Rules)
	require.Equal(t, CheckConfig{PoolSize: 2, MaxSegmentLen: 100}, cfg.Check)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, logger.GetLevel())

	rules, err := cfg.Compile(logger)
	require.NoError(t, err)
	require.True(t, rules.WhitelistFirst())
	require.True(t, rules.UnicodeNormalization())
}

func TestLoad_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o600))

	t.Setenv("QUETZAL_CONFIG", path)
	t.Setenv("QUETZAL_LOG_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Log.Debug)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestConfig_Compile_Invalid(t *testing.T) {
	cfg := Config{Rules: RulesConfig{AfterAngle: []string{"SM_SJ"}}, Log: LogConfig{Level: "info"}}

	_, err := cfg.Compile(logrus.New())
	require.Error(t, err)
}

func TestConfig_Logger_Invalid(t *testing.T) {
	_, err := Config{Log: LogConfig{Level: "loud"}}.Logger()
	require.Error(t, err)
}
