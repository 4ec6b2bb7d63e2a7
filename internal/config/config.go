// SPDX-License-Identifier: MIT

// Package config loads the rule lists & runtime settings of the quetzal command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/dlukes/quetzal/rules"
)

// Config holds application configuration.
type Config struct {
	Rules RulesConfig
	Check CheckConfig
	Log   LogConfig
}

// RulesConfig holds the raw rule lists.
type RulesConfig struct {
	Whitelist      []string
	Blacklist      []string
	Atoms          []string
	AfterAngle     []string `mapstructure:"after_angle"`
	WhitelistFirst bool     `mapstructure:"whitelist_first"`
	// UnicodeNormalization NFC normalizes entries & segments.
	UnicodeNormalization bool `mapstructure:"unicode_normalization"`
}

// CheckConfig holds batch settings.
type CheckConfig struct {
	PoolSize      int `mapstructure:"pool_size"`
	MaxSegmentLen int `mapstructure:"max_segment_len"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	Debug bool
}

// EnvPrefix prefixes the environment variables overriding configuration keys.
const EnvPrefix = "QUETZAL"

// DefaultAtoms are the graphemes of Czech & Slovak orthography.
var DefaultAtoms = strings.Fields(`
	a á ä b c č ch d ď dz dž e é ě f g h i í j k l ĺ ľ m n ň o ó ô p q r ŕ ř s š t ť u ú ů v w x y ý z ž
	A Á Ä B C Č Ch CH D Ď Dz DZ Dž DŽ E É Ě F G H I Í J K L Ĺ Ľ M N Ň O Ó Ô P Q R Ŕ Ř S Š T Ť U Ú Ů V W X Y Ý Z Ž
`)

// Load reads configuration from file and env. Env var overrides use prefix QUETZAL_.
//
// An empty path falls back to $QUETZAL_CONFIG, then to an optional config.toml in the user's
// config directory.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("rules.whitelist", []string{"@", ".", ".."})
	v.SetDefault("rules.blacklist", []string{})
	v.SetDefault("rules.atoms", DefaultAtoms)
	v.SetDefault("rules.after_angle", []string{"SM", "SJ", "CIT", "ZAV"})
	v.SetDefault("rules.whitelist_first", false)
	v.SetDefault("rules.unicode_normalization", false)
	v.SetDefault("check.pool_size", 8)
	v.SetDefault("check.max_segment_len", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", false)

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "quetzal"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Logger builds the logger described by the configuration.
func (c Config) Logger() (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if c.Log.Debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger, nil
}

// Compile compiles the configured rule lists.
func (c Config) Compile(logger logrus.FieldLogger) (*rules.Config, error) {
	return rules.Compile(rules.Lists{
		Whitelist:  c.Rules.Whitelist,
		Blacklist:  c.Rules.Blacklist,
		Atoms:      c.Rules.Atoms,
		AfterAngle: c.Rules.AfterAngle,
	},
		rules.WithWhitelistFirst(c.Rules.WhitelistFirst),
		rules.WithUnicodeNormalization(c.Rules.UnicodeNormalization),
		rules.WithLogger(logger),
		rules.WithDebug(c.Log.Debug),
	)
}
