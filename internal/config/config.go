// Package config loads event-csv settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file in the working directory, then EVENTCSV_* environment variables.
// Later layers win. Browser settings are returned as explicit options for
// each renderer; nothing is kept in package state.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/event-csv/internal/browser"
	"github.com/pfrederiksen/event-csv/internal/logger"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "EVENTCSV_"

// DotEnvFile is read from the working directory when present
const DotEnvFile = ".env"

type ServerConfig struct {
	Addr     string `yaml:"addr"`      // listen address, default :8000
	SpoolDir string `yaml:"spool_dir"` // export temp files; empty uses the system temp dir
}

type BrowserConfig struct {
	Mode               string        `yaml:"mode"` // chrome | static
	Headless           bool          `yaml:"headless"`
	NoSandbox          bool          `yaml:"no_sandbox"`
	DisableDevShmUsage bool          `yaml:"disable_dev_shm_usage"`
	DisableGPU         bool          `yaml:"disable_gpu"`
	ExecPath           string        `yaml:"exec_path"`
	UserAgent          string        `yaml:"user_agent"`
	ReadyTimeout       time.Duration `yaml:"ready_timeout"` // e.g. 10s
}

type LogConfig struct {
	Level string `yaml:"level"` // DEBUG | INFO | WARN | ERROR
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration
func Default() *Config {
	opts := browser.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Addr: ":8000",
		},
		Browser: BrowserConfig{
			Mode:               opts.Mode,
			Headless:           opts.Headless,
			NoSandbox:          opts.NoSandbox,
			DisableDevShmUsage: opts.DisableDevShmUsage,
			DisableGPU:         opts.DisableGPU,
			UserAgent:          opts.UserAgent,
			ReadyTimeout:       browser.DefaultTimeout,
		},
		Log: LogConfig{
			Level: string(logger.LevelInfo),
		},
	}
}

// Load builds the configuration. path may be empty; a named file that
// cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv exports the variables in file; a missing file is not an error.
// Variables already set in the environment are kept.
func loadDotEnv(file string) error {
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", file, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v := strings.TrimSpace(getenv(EnvPrefix + key))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("HTTP_ADDR", &c.Server.Addr)
	str("SPOOL_DIR", &c.Server.SpoolDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("FETCH_MODE", &c.Browser.Mode)
	str("CHROME_PATH", &c.Browser.ExecPath)
	str("USER_AGENT", &c.Browser.UserAgent)

	if err := boolean("HEADLESS", &c.Browser.Headless); err != nil {
		return err
	}
	if err := boolean("NO_SANDBOX", &c.Browser.NoSandbox); err != nil {
		return err
	}
	if err := boolean("DISABLE_DEV_SHM_USAGE", &c.Browser.DisableDevShmUsage); err != nil {
		return err
	}
	if err := boolean("DISABLE_GPU", &c.Browser.DisableGPU); err != nil {
		return err
	}

	if v := strings.TrimSpace(getenv(EnvPrefix + "READY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREADY_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Browser.ReadyTimeout = d
	}
	return nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch strings.ToLower(c.Browser.Mode) {
	case browser.ModeChrome, browser.ModeStatic:
	default:
		return fmt.Errorf("invalid browser mode: %q (must be '%s' or '%s')", c.Browser.Mode, browser.ModeChrome, browser.ModeStatic)
	}
	if c.Browser.ReadyTimeout <= 0 {
		return fmt.Errorf("browser ready_timeout must be positive, got %s", c.Browser.ReadyTimeout)
	}
	if c.Server.Addr == "" {
		return errors.New("server addr must not be empty")
	}
	return nil
}

// BrowserOptions returns the renderer options for one invocation
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Mode:               strings.ToLower(c.Browser.Mode),
		Headless:           c.Browser.Headless,
		NoSandbox:          c.Browser.NoSandbox,
		DisableDevShmUsage: c.Browser.DisableDevShmUsage,
		DisableGPU:         c.Browser.DisableGPU,
		ExecPath:           c.Browser.ExecPath,
		UserAgent:          c.Browser.UserAgent,
	}
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() logger.Level {
	return logger.ParseLevel(c.Log.Level)
}
