package config

import (
	"strings"
	"testing"
)

func TestLoadSensorConfig_ParsesAllColumns(t *testing.T) {
	data := "bits-per-sense,image-width-px,image-height-px,bits-per-pixel,max-buffer-mb\n" +
		"8388608,1920,1080,8,20\n"

	cfg, err := LoadSensorConfig(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadSensorConfig: %v", err)
	}
	if cfg.BitsPerSense != 8388608 {
		t.Fatalf("BitsPerSense = %d, want 8388608", cfg.BitsPerSense)
	}
	if cfg.ImageWidthPx != 1920 || cfg.ImageHeightPx != 1080 {
		t.Fatalf("image dims = %dx%d, want 1920x1080", cfg.ImageWidthPx, cfg.ImageHeightPx)
	}
	if cfg.BitsPerPixel != 8 {
		t.Fatalf("BitsPerPixel = %d, want 8", cfg.BitsPerPixel)
	}
	wantBuf := uint64(20 * 8 * 1024 * 1024)
	if cfg.MaxBufferCapacity != wantBuf {
		t.Fatalf("MaxBufferCapacity = %d, want %d", cfg.MaxBufferCapacity, wantBuf)
	}
}

func TestLoadSensorConfig_TolerantOfUnderscoreHeader(t *testing.T) {
	data := "bits_per_sense,image_width_px,image_height_px,bits_per_pixel,max_buffer_mb\n2048,0,0,0,0\n"
	cfg, err := LoadSensorConfig(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadSensorConfig: %v", err)
	}
	if cfg.BitsPerSense != 2048 {
		t.Fatalf("BitsPerSense = %d, want 2048", cfg.BitsPerSense)
	}
}

func TestLoadSensorConfig_MissingDataLineErrors(t *testing.T) {
	_, err := LoadSensorConfig(strings.NewReader("bits-per-sense\n"))
	if err == nil {
		t.Fatalf("expected an error for a header-only sensor.dat")
	}
}

func TestLoadSensorConfig_MissingBitsPerSenseErrors(t *testing.T) {
	_, err := LoadSensorConfig(strings.NewReader("image-width-px\n1920\n"))
	if err == nil {
		t.Fatalf("expected an error when bits-per-sense is absent")
	}
}
