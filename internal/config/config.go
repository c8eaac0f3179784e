package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g. METHODO_DB or
// METHODO_LOG_LEVEL.
const EnvPrefix = "METHODO"

// Config is the complete methodo configuration.
type Config struct {
	DB       string         `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Assist   AssistConfig   `mapstructure:"assist"`
	Practice PracticeConfig `mapstructure:"practice"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Mode  string `mapstructure:"mode"`  // development | production
	Level string `mapstructure:"level"` // debug | info | warn | error
}

// AssistConfig selects the suggestion and diagram generator.
type AssistConfig struct {
	Provider string        `mapstructure:"provider"` // scripted | mock
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PracticeConfig holds practice-history display settings.
type PracticeConfig struct {
	RecentLimit int `mapstructure:"recentLimit"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	db, err := store.DefaultDBPath()
	if err != nil {
		db = "methodo.db"
	}
	return &Config{
		DB:       db,
		Log:      LogConfig{Mode: "development", Level: "info"},
		Assist:   AssistConfig{Provider: assist.ProviderScripted, Timeout: assist.DefaultTimeout},
		Practice: PracticeConfig{RecentLimit: practice.DefaultRecentLimit},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/methodo/config.yaml, falling
// back to ~/.config/methodo/config.yaml.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "methodo", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "methodo", "config.yaml")
}

// Load reads configuration from defaults, the config file and METHODO_*
// environment variables, in increasing priority. An empty path uses
// DefaultConfigPath and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("db", def.DB)
	v.SetDefault("log.mode", def.Log.Mode)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("assist.provider", def.Assist.Provider)
	v.SetDefault("assist.timeout", def.Assist.Timeout)
	v.SetDefault("practice.recentLimit", def.Practice.RecentLimit)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, &Error{Field: "config", Message: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Field: "config", Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return &Error{Field: "db", Message: "database path must not be empty"}
	}
	switch c.Log.Mode {
	case "development", "dev", "production", "prod":
	default:
		return &Error{Field: "log.mode", Message: "must be development or production, got " + c.Log.Mode}
	}
	switch c.Assist.Provider {
	case assist.ProviderScripted, assist.ProviderMock:
	default:
		return &Error{Field: "assist.provider", Message: "unknown provider " + c.Assist.Provider}
	}
	if c.Assist.Timeout <= 0 {
		return &Error{Field: "assist.timeout", Message: "must be positive"}
	}
	if c.Practice.RecentLimit <= 0 {
		return &Error{Field: "practice.recentLimit", Message: "must be positive"}
	}
	return nil
}

// Error represents a configuration error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
