package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig carries the ambient knobs spec.md leaves to "configuration
// file parsing" as an external concern: logging, metrics, tracing, and
// simulation tuning values. cmd/bent_pipe applies Logging,
// Simulation.ThreshCoeff and Simulation.LinkRateBitsPerSec; Metrics,
// Tracing and Simulation.MinConnectionSteps are parsed but not read
// there (core.MinConnectionSteps is a constant). Its absence is not an
// error; LoadRuntimeConfig returns DefaultRuntimeConfig() when the file
// does not exist.
type RuntimeConfig struct {
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`

	Tracing struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"tracing"`

	Simulation struct {
		ThreshCoeff        float64 `yaml:"thresh_coeff"`
		MinConnectionSteps int     `yaml:"min_connection_steps"`
		LinkRateBitsPerSec float64 `yaml:"link_rate_bits_per_sec"`
	} `yaml:"simulation"`
}

// DefaultRuntimeConfig returns the configuration used when bentpipe.yaml
// is absent or leaves a field unset.
func DefaultRuntimeConfig() *RuntimeConfig {
	cfg := &RuntimeConfig{}
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Simulation.ThreshCoeff = 0.01
	cfg.Simulation.MinConnectionSteps = 30
	cfg.Simulation.LinkRateBitsPerSec = 8 * 1024 * 1024
	return cfg
}

// LoadRuntimeConfig reads bentpipe.yaml from path, merging it over
// DefaultRuntimeConfig. A missing file is not an error: it is treated as
// an empty document, so every field keeps its default.
func LoadRuntimeConfig(path string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read runtime config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse runtime config %q: %w", path, err)
	}
	return cfg, nil
}
