// Package config loads curfew settings from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/focusd/curfew/internal/policy"
)

// Environment variables read by Load.
const (
	EnvTarget          = "CURFEW_TARGET"
	EnvStartHour       = "CURFEW_START_HOUR"
	EnvEndHour         = "CURFEW_END_HOUR"
	EnvIntervalSeconds = "CURFEW_INTERVAL_SECONDS"
	EnvMessage         = "CURFEW_MESSAGE"
	EnvLogLevel        = "CURFEW_LOG_LEVEL"
)

// DefaultEnvFile is read when present and no other env file is given.
const DefaultEnvFile = ".env"

// Config is the static configuration, loaded once at startup.
type Config struct {
	Target          string `yaml:"target"`
	StartHour       int    `yaml:"start_hour"`
	EndHour         int    `yaml:"end_hour"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	Message         string `yaml:"message"`
	LogLevel        string `yaml:"log_level"`
}

// LoadOptions selects the optional sources for Load.
type LoadOptions struct {
	Path    string // YAML file; empty skips it
	EnvFile string // .env file; empty tries DefaultEnvFile
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Target:          policy.DefaultTarget,
		StartHour:       policy.DefaultStartHour,
		EndHour:         policy.DefaultEndHour,
		IntervalSeconds: int(policy.DefaultInterval / time.Second),
		Message:         policy.DefaultMessage,
		LogLevel:        "info",
	}
}

// Load applies defaults, then the YAML file, then the environment.
// Real environment variables take precedence over the .env file.
// The result is not validated; callers apply flag overrides first.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := cfg.loadFile(opts.Path); err != nil {
			return nil, err
		}
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}

// readEnvFile parses an env file without touching the process environment.
// A missing default file is not an error; a missing explicit file is.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTarget); ok {
		c.Target = v
	}
	if v, ok := lookup(EnvMessage); ok {
		c.Message = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvStartHour, &c.StartHour},
		{EnvEndHour, &c.EndHour},
		{EnvIntervalSeconds, &c.IntervalSeconds},
	}
	for _, it := range ints {
		v, ok := lookup(it.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", it.key, err)
		}
		*it.dst = n
	}
	return nil
}

// Validate checks every field; the first problem found is returned.
func (c *Config) Validate() error {
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Policy converts the configuration into an enforcement policy.
func (c *Config) Policy() policy.Policy {
	return policy.Policy{
		Target:   strings.TrimSpace(c.Target),
		Window:   policy.NewWindow(c.StartHour, c.EndHour),
		Interval: time.Duration(c.IntervalSeconds) * time.Second,
		Message:  c.Message,
	}
}
