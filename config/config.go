// Package config loads connection settings and builds the logger from a
// file and GATT_ prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/XC-/gatt-core"
)

// Config is the configuration of a gatt.Registry and its logger.
type Config struct {
	Transaction TransactionConfig `mapstructure:"transaction"`
	Registry    RegistryConfig    `mapstructure:"registry"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// TransactionConfig holds transaction defaults.
type TransactionConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RegistryConfig holds connection registry settings.
type RegistryConfig struct {
	MaxTTL        int           `mapstructure:"max_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LoggingConfig represents logging configuration. An empty Output or
// "stderr" logs to standard error; anything else is a file path that is
// rotated.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads the configuration file at path, if path is not empty, and
// applies environment overrides such as GATT_TRANSACTION_TIMEOUT.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GATT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("transaction.timeout", "60s")

	v.SetDefault("registry.max_ttl", 10)
	v.SetDefault("registry.sweep_interval", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
}

func (c *Config) validate() error {
	if c.Transaction.Timeout <= 0 {
		return fmt.Errorf("transaction timeout must be positive, got %s", c.Transaction.Timeout)
	}
	if c.Registry.MaxTTL < 0 {
		return fmt.Errorf("registry max_ttl must not be negative, got %d", c.Registry.MaxTTL)
	}
	if c.Registry.SweepInterval <= 0 {
		return fmt.Errorf("registry sweep_interval must be positive, got %s", c.Registry.SweepInterval)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Options returns the registry options c describes, reporting to log.
func (c *Config) Options(log logrus.FieldLogger) []gatt.Option {
	opts := []gatt.Option{
		gatt.DefaultTimeout(c.Transaction.Timeout),
		gatt.MaxTTL(c.Registry.MaxTTL),
	}
	if log != nil {
		opts = append(opts, gatt.Logger(log))
	}
	return opts
}
