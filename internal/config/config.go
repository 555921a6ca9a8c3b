// Package config loads YAML configuration for the crcstream CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/crcstream/internal/engine"
)

// EngineConfig selects the engine variant.
type EngineConfig struct {
	// Form is "reversed" (LSB-first, 0xEDB88320) or "forward"
	// (MSB-first, 0x04C11DB7)
	Form string `yaml:"form"`

	// Mode is "multi-word-frame" or "single-word"
	Mode string `yaml:"mode"`

	// Finalize is "complement" or "identity"
	Finalize string `yaml:"finalize"`

	// Seed is the accumulator seed (default 0xFFFFFFFF)
	Seed uint32 `yaml:"seed"`

	// Strict makes sequencing violations fatal
	Strict bool `yaml:"strict"`
}

// SimConfig parameterizes a simulation run.
type SimConfig struct {
	Frames          int     `yaml:"frames"`
	MinWords        int     `yaml:"min_words"`
	MaxWords        int     `yaml:"max_words"`
	Seed            int64   `yaml:"seed"`
	IdleProbability float64 `yaml:"idle_probability"`
	MaxSteps        uint64  `yaml:"max_steps"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the complete CLI configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Sim     SimConfig     `yaml:"sim"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the default configuration: the Ethernet preset driven for
// 100 frames of 1-10 words.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Form:     "reversed",
			Mode:     "multi-word-frame",
			Finalize: "complement",
			Seed:     0xFFFFFFFF,
		},
		Sim: SimConfig{
			Frames:          100,
			MinWords:        1,
			MaxWords:        10,
			Seed:            1,
			IdleProbability: 0.25,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9410",
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a configuration file, applying defaults for absent fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if _, err := c.EngineOptions(); err != nil {
		return err
	}
	if c.Sim.Frames <= 0 {
		return fmt.Errorf("sim.frames must be positive, got %d", c.Sim.Frames)
	}
	if c.Sim.MinWords < 1 {
		return fmt.Errorf("sim.min_words must be at least 1, got %d", c.Sim.MinWords)
	}
	if c.Sim.MaxWords < c.Sim.MinWords {
		return fmt.Errorf("sim.max_words (%d) must not be below sim.min_words (%d)",
			c.Sim.MaxWords, c.Sim.MinWords)
	}
	if c.Sim.IdleProbability < 0 || c.Sim.IdleProbability >= 1 {
		return fmt.Errorf("sim.idle_probability must be in [0,1), got %g",
			c.Sim.IdleProbability)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr required when metrics are enabled")
	}
	return nil
}

// EngineOptions converts the engine section into engine options.
func (c *Config) EngineOptions() (*engine.Options, error) {
	opts := &engine.Options{
		Seed:   c.Engine.Seed,
		Strict: c.Engine.Strict,
	}

	switch c.Engine.Form {
	case "reversed":
		opts.Form = engine.Reversed
	case "forward":
		opts.Form = engine.Forward
	default:
		return nil, fmt.Errorf("unknown engine.form %q (want reversed or forward)", c.Engine.Form)
	}

	switch c.Engine.Mode {
	case "multi-word-frame":
		opts.Mode = engine.MultiWordFrame
	case "single-word":
		opts.Mode = engine.SingleWord
	default:
		return nil, fmt.Errorf("unknown engine.mode %q (want multi-word-frame or single-word)", c.Engine.Mode)
	}

	switch c.Engine.Finalize {
	case "complement":
		opts.Finalize = engine.Complement
	case "identity":
		opts.Finalize = engine.Identity
	default:
		return nil, fmt.Errorf("unknown engine.finalize %q (want complement or identity)", c.Engine.Finalize)
	}

	return opts, nil
}
