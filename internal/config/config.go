// Package config provides Viper-based configuration loading for Sea Battle.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g. SEABATTLE_GAME_SEED.
const EnvPrefix = "SEABATTLE"

// Random source kinds accepted by GameConfig.Source.
const (
	SourceCrypto = "crypto"
	SourceSeeded = "seeded"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. The boards are drawn on
	// stdout, so interactive play keeps logs elsewhere.
	Output string `mapstructure:"output"`
}

// GameConfig holds match settings.
type GameConfig struct {
	// Source selects the random source: "crypto" or "seeded".
	Source string `mapstructure:"source"`
	// Seed seeds the "seeded" source. Ignored for "crypto".
	Seed       uint64 `mapstructure:"seed"`
	PlayerName string `mapstructure:"player_name"`
	CPUName    string `mapstructure:"cpu_name"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	Color bool `mapstructure:"color"`
	// Messages is an optional YAML file overriding the built-in message catalog.
	Messages string `mapstructure:"messages"`
}

// ScriptConfig selects a Lua script to play in place of the keyboard.
type ScriptConfig struct {
	// Path is the script file; empty means interactive play.
	Path             string `mapstructure:"path"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// DatabaseConfig holds PostgreSQL match ledger settings.
type DatabaseConfig struct {
	// Enabled turns the match ledger on. All other fields are ignored when false.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// AutoMigrate applies pending migrations from MigrationsPath at startup.
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// MigrationsURL returns MigrationsPath as a golang-migrate file source URL.
func (d DatabaseConfig) MigrationsURL() string {
	return "file://" + d.MigrationsPath
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	UI       UIConfig       `mapstructure:"ui"`
	Script   ScriptConfig   `mapstructure:"script"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateLogging(c.Logging),
		validateGame(c.Game),
		validateScript(c.Script),
		validateDatabase(c.Database),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if strings.TrimSpace(l.Output) == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.Source != SourceCrypto && g.Source != SourceSeeded {
		errs = append(errs, fmt.Sprintf("game.source must be one of [%s, %s], got %q", SourceCrypto, SourceSeeded, g.Source))
	}
	if strings.TrimSpace(g.PlayerName) == "" {
		errs = append(errs, "game.player_name must not be empty")
	}
	if strings.TrimSpace(g.CPUName) == "" {
		errs = append(errs, "game.cpu_name must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScript(s ScriptConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("script.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled {
		return nil
	}
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if d.AutoMigrate && d.MigrationsPath == "" {
		errs = append(errs, "database.migrations_path must not be empty when auto_migrate is set")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("game.source", SourceCrypto)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.player_name", "Player")
	v.SetDefault("game.cpu_name", "CPU")

	v.SetDefault("ui.color", true)
	v.SetDefault("ui.messages", "")

	v.SetDefault("script.path", "")
	v.SetDefault("script.instruction_limit", 100_000)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "seabattle")
	v.SetDefault("database.password", "seabattle")
	v.SetDefault("database.name", "seabattle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.migrations_path", "migrations")
}
