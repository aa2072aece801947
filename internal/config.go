package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read once at startup.
const (
	EnvSchedule   = "CYPHER_SCHEDULE"
	EnvPepper     = "CYPHER_PEPPER"
	EnvPepperFile = "CYPHER_PEPPER_FILE"
	EnvIterations = "CYPHER_ITERATIONS"
	EnvLogLevel   = "CYPHER_LOG_LEVEL"
)

// Config is the process-wide configuration. The pepper is a secret: it is
// resolved here and handed to the key schedule, never read elsewhere.
type Config struct {
	Schedule   string `yaml:"schedule"`    // simple | peppered | argon2id
	Pepper     string `yaml:"pepper"`      // literal pepper (prefer pepper_file)
	PepperFile string `yaml:"pepper_file"` // path to a mounted secret holding the pepper
	Iterations int    `yaml:"iterations"`  // PBKDF2 iterations for the peppered schedule
	LogLevel   string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Schedule:   ScheduleSimple,
		Iterations: DefaultIterations,
		LogLevel:   "warn",
	}
}

// LoadConfig reads the YAML file at path (skipped when path is empty) over
// the defaults, then applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSchedule); ok && v != "" {
		c.Schedule = v
	}
	if v, ok := lookup(EnvPepper); ok && v != "" {
		c.Pepper = v
	}
	if v, ok := lookup(EnvPepperFile); ok && v != "" {
		c.PepperFile = v
	}
	if v, ok := lookup(EnvIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvIterations, v, err)
		}
		c.Iterations = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// ResolvePepper returns the literal pepper, else the trimmed contents of
// PepperFile, else DefaultPepper.
func (c Config) ResolvePepper() (string, error) {
	if c.Pepper != "" {
		return c.Pepper, nil
	}
	if c.PepperFile != "" {
		b, err := os.ReadFile(c.PepperFile)
		if err != nil {
			return "", fmt.Errorf("failed to read pepper file: %w", err)
		}
		if p := strings.TrimSpace(string(b)); p != "" {
			return p, nil
		}
	}
	return DefaultPepper, nil
}

// KeyPolicy converts the configuration into a KeyPolicy, resolving the
// pepper once.
func (c Config) KeyPolicy() (KeyPolicy, error) {
	pepper, err := c.ResolvePepper()
	if err != nil {
		return KeyPolicy{}, err
	}
	p := DefaultKeyPolicy()
	p.KDF = c.Schedule
	p.Pepper = pepper
	if c.Iterations > 0 {
		p.Iterations = c.Iterations
	}
	return p, nil
}
