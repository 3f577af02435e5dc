// Package config loads the simulator's configuration files: sensor.dat
// and constellation.dat (both header-plus-one-data-line CSV, mirroring
// the original analytics scripts that also parse them), and an optional
// bentpipe.yaml carrying ambient runtime knobs.
package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SensorConfig is the parsed contents of sensor.dat: the per-trigger
// capture size and the buffer cap derived from it, plus the image
// parameters analytics consumers read even though the simulator itself
// only needs bits_per_sense and max_buffer_mb.
type SensorConfig struct {
	BitsPerSense      uint64
	ImageWidthPx      int
	ImageHeightPx     int
	BitsPerPixel      int
	MaxBufferCapacity uint64 // bits; zero means unbounded
}

// LoadSensorConfig reads a sensor.dat stream: one header line (column
// names, skipped for matching purposes only in that it tells us which
// column is which) and one CSV data line.
func LoadSensorConfig(r io.Reader) (*SensorConfig, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("config: sensor.dat is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("config: read sensor.dat header: %w", err)
	}

	values, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("config: sensor.dat has no data line")
	}
	if err != nil {
		return nil, fmt.Errorf("config: read sensor.dat data line: %w", err)
	}

	cols := normalizeHeader(header)
	cfg := &SensorConfig{}
	for i, key := range cols {
		if i >= len(values) {
			break
		}
		val := strings.TrimSpace(values[i])
		if val == "" {
			continue
		}
		switch key {
		case "bits-per-sense":
			n, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("config: sensor.dat bits-per-sense %q: %w", val, err)
			}
			cfg.BitsPerSense = n
		case "image-width-px":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("config: sensor.dat image-width-px %q: %w", val, err)
			}
			cfg.ImageWidthPx = n
		case "image-height-px":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("config: sensor.dat image-height-px %q: %w", val, err)
			}
			cfg.ImageHeightPx = n
		case "bits-per-pixel":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("config: sensor.dat bits-per-pixel %q: %w", val, err)
			}
			cfg.BitsPerPixel = n
		case "max-buffer-mb":
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("config: sensor.dat max-buffer-mb %q: %w", val, err)
			}
			cfg.MaxBufferCapacity = uint64(n * 8 * 1024 * 1024)
		}
	}

	if cfg.BitsPerSense == 0 {
		return nil, fmt.Errorf("config: sensor.dat missing required bits-per-sense column")
	}
	return cfg, nil
}

// normalizeHeader lower-cases and hyphenates header tokens so "bits per
// sense", "bits_per_sense", and "bits-per-sense" all match the same key.
func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.ReplaceAll(h, "_", "-")
		h = strings.ReplaceAll(h, " ", "-")
		cols[i] = h
	}
	return cols
}
