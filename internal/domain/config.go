package domain

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Provider  ProviderConfig  `json:"provider" yaml:"provider"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}

type GeneratorConfig struct {
	// MaxRetries is the total transient attempt budget: once this many
	// attempts have failed transiently the client reports the retry
	// budget exhausted, even if one more attempt would have succeeded.
	MaxRetries  int      `json:"max_retries" yaml:"max_retries"`
	BaseDelay   Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay    Duration `json:"max_delay" yaml:"max_delay"`
	CallTimeout Duration `json:"call_timeout" yaml:"call_timeout"`
	// MinInterval is the shared minimum spacing between consecutive
	// provider calls across all concurrent units.
	MinInterval Duration `json:"min_interval" yaml:"min_interval"`
}

type SchedulerConfig struct {
	MaxConcurrentUnits int `json:"max_concurrent_units" yaml:"max_concurrent_units"`
}

type ProviderConfig struct {
	BaseURL     string  `json:"base_url" yaml:"base_url"`
	Model       string  `json:"model" yaml:"model"`
	APIKey      string  `json:"-" yaml:"-"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

type ArchiveConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// Duration wraps time.Duration so config files can spell values as "10s"
// rather than nanosecond integers.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Duration(d).String())), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' {
		parsed, err := time.ParseDuration(string(data[1 : len(data)-1]))
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	var ns int64
	if _, err := fmt.Sscanf(string(data), "%d", &ns); err != nil {
		return err
	}
	*d = Duration(ns)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ns int64
	if err := value.Decode(&ns); err != nil {
		return err
	}
	*d = Duration(ns)
	return nil
}
