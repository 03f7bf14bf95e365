package loom

import (
	"github.com/loomhq/loom/internal/domain"
)

// Config is the engine configuration. Zero-valued fields are filled from
// DefaultConfig when the engine is constructed.
type Config = domain.Config

// GeneratorConfig controls retry, backoff, per-call timeouts, and the
// inter-call throttle of the generation client.
type GeneratorConfig = domain.GeneratorConfig

// SchedulerConfig bounds how many units execute concurrently.
type SchedulerConfig = domain.SchedulerConfig

// ProviderConfig points the engine at an OpenAI-compatible completion
// endpoint.
type ProviderConfig = domain.ProviderConfig

// ArchiveConfig controls persistence of finished runs.
type ArchiveConfig = domain.ArchiveConfig

// Duration is a time.Duration that marshals to and from strings such as
// "10s" in YAML and JSON configuration.
type Duration = domain.Duration

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return domain.DefaultConfig()
}

// LoadConfig reads a YAML config file and fills unset fields from defaults.
func LoadConfig(path string) (*Config, error) {
	return domain.LoadConfig(path)
}
