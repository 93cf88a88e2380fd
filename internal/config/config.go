package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/jask/endpoint/internal/grid"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Table    TableConfig
	Import   ImportConfig
	Refresh  RefreshConfig
	Keys     KeysConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Organization string
	User         string
	DateFormat   string `mapstructure:"date_format"`
}

// TableConfig holds the initial sort of the requests table.
type TableConfig struct {
	SortColumn    string `mapstructure:"sort_column"`
	SortDirection string `mapstructure:"sort_direction"`
}

// ImportConfig points at a CSV of data requests.
type ImportConfig struct {
	Path  string
	Watch bool
}

// RefreshConfig holds the periodic reload schedule (cron spec).
type RefreshConfig struct {
	Schedule string
}

// KeysConfig points at keybinding overrides.
type KeysConfig struct {
	Path string
}

// LogConfig holds the debug log destination.
type LogConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix ENDPOINT_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ENDPOINT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "endpoint"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ENDPOINT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "endpoint", "endpoint.db"))
	v.SetDefault("ui.organization", "endpoint.")
	v.SetDefault("ui.user", "")
	v.SetDefault("ui.date_format", grid.DateLayout)
	v.SetDefault("table.sort_column", "date")
	v.SetDefault("table.sort_direction", "desc")
	v.SetDefault("import.path", "")
	v.SetDefault("import.watch", false)
	v.SetDefault("refresh.schedule", "")
	v.SetDefault("keys.path", "")
	v.SetDefault("log.path", "")
}

// Validate checks the settings that cannot be checked by type alone.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config: database.path is empty")
	}
	if _, err := c.Direction(); err != nil {
		return fmt.Errorf("config: table.sort_direction: %w", err)
	}
	if s := strings.TrimSpace(c.Refresh.Schedule); s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return fmt.Errorf("config: refresh.schedule %q: %w", s, err)
		}
	}
	return nil
}

// Direction parses the configured initial sort direction.
func (c Config) Direction() (grid.Direction, error) {
	return grid.ParseDirection(c.Table.SortDirection)
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("ENDPOINT_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "endpoint", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.organization", cfg.UI.Organization)
	v.Set("ui.user", cfg.UI.User)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("table.sort_column", cfg.Table.SortColumn)
	v.Set("table.sort_direction", cfg.Table.SortDirection)
	v.Set("import.path", cfg.Import.Path)
	v.Set("import.watch", cfg.Import.Watch)
	v.Set("refresh.schedule", cfg.Refresh.Schedule)
	v.Set("keys.path", cfg.Keys.Path)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
