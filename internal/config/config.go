// Package config loads serialseq configuration with viper.
//
// Values come from built-in defaults, an optional YAML/JSON/TOML file and
// SERIALSEQ_-prefixed environment variables, in increasing priority.
// Nested keys map to env vars with dots replaced by underscores:
// serial.number_length is SERIALSEQ_SERIAL_NUMBER_LENGTH.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"serialseq/internal/core/serial"
	"serialseq/internal/infrastructure/storage/postgres"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "SERIALSEQ"

type AppConfig struct {
	Env      string `mapstructure:"env"`
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	// Migrate applies the schema at server start.
	Migrate bool `mapstructure:"migrate"`
}

// Development reports whether the app runs in development mode.
func (a AppConfig) Development() bool {
	return a.Env == "development"
}

type DatabaseConfig struct {
	URL              string        `mapstructure:"url"`
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// Pool returns the pool configuration for URL.
func (d DatabaseConfig) Pool() postgres.PoolConfig {
	cfg := postgres.DefaultPoolConfig(d.URL)
	if d.MaxConns > 0 {
		cfg.MaxConns = d.MaxConns
	}
	if d.MinConns > 0 {
		cfg.MinConns = d.MinConns
	}
	return cfg
}

// TxOptions returns transaction options with the configured timeouts.
func (d DatabaseConfig) TxOptions() postgres.TxOptions {
	opts := postgres.DefaultTxOptions()
	if d.LockTimeout > 0 {
		opts.LockTimeout = d.LockTimeout
	}
	if d.StatementTimeout > 0 {
		opts.StatementTimeout = d.StatementTimeout
	}
	return opts
}

type PebbleConfig struct {
	Dir         string        `mapstructure:"dir"`
	Sync        bool          `mapstructure:"sync"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

type SerialConfig struct {
	Separator       string `mapstructure:"separator"`
	PrefixSeparator string `mapstructure:"prefix_separator"`
	NumberLength    int    `mapstructure:"number_length"`
	MonthLength     int    `mapstructure:"month_length"`
	YearLength      int    `mapstructure:"year_length"`
	// PrefixExpr is a CEL expression evaluated per record; empty means no prefix.
	PrefixExpr string `mapstructure:"prefix_expr"`
	// Timezone is an IANA name used to resolve the period; empty means UTC.
	Timezone string `mapstructure:"timezone"`
}

// Formatting builds the immutable formatting config handed to the allocator.
func (s SerialConfig) Formatting() (serial.Config, error) {
	loc := time.UTC
	if s.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(s.Timezone)
		if err != nil {
			return serial.Config{}, fmt.Errorf("serial.timezone: %w", err)
		}
	}
	if s.NumberLength < 0 || s.MonthLength < 0 {
		return serial.Config{}, errors.New("serial: number_length and month_length must not be negative")
	}
	return serial.Config{
		Separator:       s.Separator,
		PrefixSeparator: s.PrefixSeparator,
		NumberLength:    s.NumberLength,
		MonthLength:     s.MonthLength,
		YearLength:      s.YearLength,
		Location:        loc,
	}, nil
}

// Config is the root configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Pebble   PebbleConfig   `mapstructure:"pebble"`
	Serial   SerialConfig   `mapstructure:"serial"`
}

func setDefaults(v *viper.Viper) {
	def := serial.DefaultConfig()
	tx := postgres.DefaultTxOptions()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.migrate", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.lock_timeout", tx.LockTimeout)
	v.SetDefault("database.statement_timeout", tx.StatementTimeout)

	v.SetDefault("pebble.dir", "")
	v.SetDefault("pebble.sync", true)
	v.SetDefault("pebble.lock_timeout", 5*time.Second)

	v.SetDefault("serial.separator", def.Separator)
	v.SetDefault("serial.prefix_separator", def.PrefixSeparator)
	v.SetDefault("serial.number_length", def.NumberLength)
	v.SetDefault("serial.month_length", def.MonthLength)
	v.SetDefault("serial.year_length", def.YearLength)
	v.SetDefault("serial.prefix_expr", "")
	v.SetDefault("serial.timezone", "")
}

// Load reads configuration. path may be empty; then SERIALSEQ_CONFIG is
// consulted, and without it only defaults and environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
