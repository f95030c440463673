package qphase

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultRunTimeout = 30 * time.Second

	// maxSimulatedQubits bounds max_qubits; a state vector of 2^30 amplitudes
	// already needs 16GiB.
	maxSimulatedQubits = 30
)

type Config struct {
	NumAncillae   int           `mapstructure:"ancillae" yaml:"ancillae"`
	Shots         int           `mapstructure:"shots" yaml:"shots"`
	Preset        string        `mapstructure:"preset" yaml:"preset"`
	Seed          uint64        `mapstructure:"seed" yaml:"seed"`
	MaxQubits     int           `mapstructure:"max_qubits" yaml:"max_qubits"`
	RunTimeout    time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
	Output        string        `mapstructure:"output" yaml:"output"`
	HistogramPath string        `mapstructure:"histogram" yaml:"histogram"`
	Retries       int           `mapstructure:"retries" yaml:"retries"`

	BreakerFailures int           `mapstructure:"breaker_failures" yaml:"breaker_failures"`
	BreakerReset    time.Duration `mapstructure:"breaker_reset" yaml:"breaker_reset"`
}

func NewConfig() *Config {
	return &Config{
		NumAncillae: 3,
		Shots:       1024,
		Preset:      "xz",
		MaxQubits:   24,
		RunTimeout:  defaultRunTimeout,
		Output:      "table",
		Retries:     3,

		BreakerFailures: 5,
		BreakerReset:    5 * time.Second,
	}
}

/*
LoadConfig layers the defaults from NewConfig, an optional config file at path
and QPHASE_* environment variables, in that order of increasing precedence.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault("ancillae", defaults.NumAncillae)
	v.SetDefault("shots", defaults.Shots)
	v.SetDefault("preset", defaults.Preset)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("max_qubits", defaults.MaxQubits)
	v.SetDefault("run_timeout", defaults.RunTimeout)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("histogram", defaults.HistogramPath)
	v.SetDefault("retries", defaults.Retries)
	v.SetDefault("breaker_failures", defaults.BreakerFailures)
	v.SetDefault("breaker_reset", defaults.BreakerReset)

	v.SetEnvPrefix("qphase")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
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

// Validate rejects settings no run could use.
func (c *Config) Validate() error {
	if c.NumAncillae < 1 {
		return fmt.Errorf("ancillae %d: %w", c.NumAncillae, ErrInvalidQubitCount)
	}

	if c.Shots < 1 {
		return fmt.Errorf("shots %d: %w", c.Shots, ErrInvalidShots)
	}

	if c.MaxQubits < 1 {
		return fmt.Errorf("max_qubits %d: %w", c.MaxQubits, ErrInvalidQubitCount)
	}

	if c.MaxQubits > maxSimulatedQubits {
		return fmt.Errorf("max_qubits %d, limit %d: %w", c.MaxQubits, maxSimulatedQubits, ErrTooManyQubits)
	}

	if c.Retries < 1 {
		return fmt.Errorf("retries %d must be at least 1", c.Retries)
	}

	if c.BreakerFailures < 1 {
		return fmt.Errorf("breaker_failures %d must be at least 1", c.BreakerFailures)
	}

	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output format %q is not one of table, json, yaml", c.Output)
	}

	return nil
}

// Timeout falls back to 30s when the config leaves RunTimeout unset.
func (c *Config) Timeout() time.Duration {
	if c != nil && c.RunTimeout > 0 {
		return c.RunTimeout
	}
	return defaultRunTimeout
}

// RunnerOptions turns the retry, breaker and timeout settings into options
// for NewRunner.
func (c *Config) RunnerOptions() []RunnerOption {
	return []RunnerOption{
		WithRetry(c.Retries, &ExponentialBackoff{Initial: 100 * time.Millisecond}),
		WithBreaker(NewBreaker(c.BreakerFailures, c.BreakerReset, 1)),
		WithJobTimeout(c.Timeout()),
	}
}
