package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend      string        `mapstructure:"backend"`
	DBPath       string        `mapstructure:"db_path"`
	PostgresURL  string        `mapstructure:"postgres_url"`
	LocalPath    string        `mapstructure:"local_path"`
	Owner        string        `mapstructure:"owner"`
	LogLevel     string        `mapstructure:"log_level"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	HTTP         HTTPConfig    `mapstructure:"http"`
	Auth         AuthConfig    `mapstructure:"auth"`
	Events       EventsConfig  `mapstructure:"events"`
}

type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// EventsConfig enables Kafka publishing when Brokers is non-empty.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Load reads defaults, then the YAML file at path (or the default config
// file when path is empty and it exists), then TASKDAY_* environment
// variables. Nested keys use underscores: TASKDAY_HTTP_ADDRESS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TASKDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if def := DefaultConfigPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	dir := configDir()
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("db_path", filepath.Join(dir, "taskday.db"))
	v.SetDefault("postgres_url", "")
	v.SetDefault("local_path", filepath.Join(dir, "local.db"))
	v.SetDefault("owner", defaultOwner())
	v.SetDefault("log_level", "info")
	v.SetDefault("tick_interval", 500*time.Millisecond)
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "taskday")
	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "taskday.timer")
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db_path is required for the sqlite backend"))
		}
	case BackendPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("postgres_url is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	if c.Owner == "" {
		errs = append(errs, errors.New("owner is required"))
	}
	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		errs = append(errs, errors.New("events.topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}

// DefaultConfigPath returns ~/.config/taskday/config.yaml
func DefaultConfigPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func configDir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cfg, "taskday")
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "me"
}
