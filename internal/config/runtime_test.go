package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRuntimeConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadRuntimeConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRuntimeConfig: %v", err)
	}
	want := DefaultRuntimeConfig()
	if cfg.Simulation.ThreshCoeff != want.Simulation.ThreshCoeff {
		t.Fatalf("ThreshCoeff = %v, want default %v", cfg.Simulation.ThreshCoeff, want.Simulation.ThreshCoeff)
	}
	if cfg.Simulation.MinConnectionSteps != want.Simulation.MinConnectionSteps {
		t.Fatalf("MinConnectionSteps = %v, want default %v", cfg.Simulation.MinConnectionSteps, want.Simulation.MinConnectionSteps)
	}
}

func TestLoadRuntimeConfig_OverridesMergeOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bentpipe.yaml")
	doc := "simulation:\n  thresh_coeff: 0.5\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := LoadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("LoadRuntimeConfig: %v", err)
	}
	if cfg.Simulation.ThreshCoeff != 0.5 {
		t.Fatalf("ThreshCoeff = %v, want 0.5", cfg.Simulation.ThreshCoeff)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Fields absent from the override document must keep their defaults.
	if cfg.Simulation.MinConnectionSteps != DefaultRuntimeConfig().Simulation.MinConnectionSteps {
		t.Fatalf("MinConnectionSteps = %v, want default preserved", cfg.Simulation.MinConnectionSteps)
	}
}

func TestLoadRuntimeConfig_MalformedYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("not: [valid yaml"), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	if _, err := LoadRuntimeConfig(path); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}
