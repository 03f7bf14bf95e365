package domain

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

func DefaultConfig() *Config {
	return &Config{
		Generator: DefaultGeneratorConfig(),
		Scheduler: DefaultSchedulerConfig(),
		Provider:  DefaultProviderConfig(),
		Archive:   DefaultArchiveConfig(),
	}
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxRetries:  3,
		BaseDelay:   Duration(10 * time.Second),
		MaxDelay:    Duration(2 * time.Minute),
		CallTimeout: Duration(90 * time.Second),
		MinInterval: Duration(2 * time.Second),
	}
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentUnits: 4,
	}
}

func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		BaseURL:     "https://api.groq.com/openai/v1",
		Model:       "llama-3.3-70b-versatile",
		MaxTokens:   2000,
		Temperature: 0.7,
	}
}

func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		Enabled: false,
		Path:    "./loom-runs",
	}
}

// LoadConfig reads a YAML config file and fills unset fields from defaults.
// A missing path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills any zero-valued config field from DefaultConfig. The
// merge cannot tell an explicit zero from an unset field: a config file
// setting provider.temperature to 0 or scheduler.max_concurrent_units to 0
// still gets the default for that field.
func ApplyDefaults(cfg *Config) error {
	if err := mergo.Merge(cfg, DefaultConfig()); err != nil {
		return fmt.Errorf("merge config defaults: %w", err)
	}
	return nil
}
