package config

import (
	"strings"
	"testing"
)

func TestLoadConstellationConfig_ParsesCountAndCadence(t *testing.T) {
	data := "count,second\n12,4.0\n"
	cfg, err := LoadConstellationConfig(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadConstellationConfig: %v", err)
	}
	if cfg.Count != 12 {
		t.Fatalf("Count = %d, want 12", cfg.Count)
	}
	if cfg.FrameSpacingSeconds != 4.0 {
		t.Fatalf("FrameSpacingSeconds = %v, want 4.0", cfg.FrameSpacingSeconds)
	}
}

func TestLoadConstellationConfig_CountOnly(t *testing.T) {
	cfg, err := LoadConstellationConfig(strings.NewReader("count\n5\n"))
	if err != nil {
		t.Fatalf("LoadConstellationConfig: %v", err)
	}
	if cfg.Count != 5 {
		t.Fatalf("Count = %d, want 5", cfg.Count)
	}
}

func TestLoadConstellationConfig_MissingCountErrors(t *testing.T) {
	_, err := LoadConstellationConfig(strings.NewReader("second\n4.0\n"))
	if err == nil {
		t.Fatalf("expected an error when count is absent")
	}
}

func TestLoadConstellationConfig_EmptyInputErrors(t *testing.T) {
	_, err := LoadConstellationConfig(strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected an error for empty input")
	}
}
