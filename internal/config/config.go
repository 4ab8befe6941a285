// This package loads qlprint settings from defaults, an optional YAML file,
// QLPRINT_ environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tomgalvin.uk/qlprint/internal/printer"
	"tomgalvin.uk/qlprint/internal/render"
)

const EnvPrefix = "QLPRINT"

// Keys shared by the config file, environment and flags
const (
	KeyFont         = "font"
	KeyScale        = "scale"
	KeyTimeout      = "timeout"
	KeyPollInterval = "poll_interval"
	KeyCanvasLength = "canvas_length"
	KeyLogLevel     = "log_level"
	KeySerial       = "serial"
)

var ErrInvalidConfig = errors.New("Invalid configuration")

type Config struct {
	Font         string        `mapstructure:"font"`
	Scale        float64       `mapstructure:"scale"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	CanvasLength int           `mapstructure:"canvas_length"`
	LogLevel     string        `mapstructure:"log_level"`
	// empty selects the first printer found
	Serial string `mapstructure:"serial"`
}

// Creates a viper instance with the defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyFont, "goregular")
	v.SetDefault(KeyScale, 1.0)
	v.SetDefault(KeyTimeout, printer.DefaultTimeout)
	v.SetDefault(KeyPollInterval, printer.DefaultPollInterval)
	v.SetDefault(KeyCanvasLength, render.DefaultLength)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySerial, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Places a config file is looked for when none is given
func searchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "qlprint", "config.yaml"))
	}
	return append(paths, "qlprint.yaml")
}

// Reads the config file, if any, then decodes and validates the settings.
// An explicit path must exist, the search paths are optional.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Couldn't read config file %s:\n%w", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("Couldn't decode config:\n%w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Font == "" {
		errs = append(errs, fmt.Errorf("%w: %s is empty", ErrInvalidConfig, KeyFont))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, KeyScale, c.Scale))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, KeyTimeout, c.Timeout))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, KeyPollInterval, c.PollInterval))
	}
	if c.CanvasLength <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, KeyCanvasLength, c.CanvasLength))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Parses the log level name
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %s %q:\n%w", ErrInvalidConfig, KeyLogLevel, c.LogLevel, err)
	}
	return l, nil
}

func (c *Config) PrinterOptions(logger *slog.Logger) printer.Options {
	return printer.Options{
		Timeout:      c.Timeout,
		PollInterval: c.PollInterval,
		Logger:       logger,
	}
}
