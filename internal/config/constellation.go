package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConstellationConfig is the parsed contents of constellation.dat: the
// satellite count every spacing strategy sizes itself against, plus the
// optional frame-spacing cadence the original analytics scripts read
// under the "second" column.
type ConstellationConfig struct {
	Count               int
	FrameSpacingSeconds float64
}

// LoadConstellationConfig reads a constellation.dat stream: one header
// line followed by one CSV data line, whose "count" column gives the
// satellite population.
func LoadConstellationConfig(r io.Reader) (*ConstellationConfig, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("config: constellation.dat is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("config: read constellation.dat header: %w", err)
	}

	values, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("config: constellation.dat has no data line")
	}
	if err != nil {
		return nil, fmt.Errorf("config: read constellation.dat data line: %w", err)
	}

	cfg := &ConstellationConfig{}
	for i, rawKey := range header {
		if i >= len(values) {
			break
		}
		key := strings.ToLower(strings.TrimSpace(rawKey))
		val := strings.TrimSpace(values[i])
		if val == "" {
			continue
		}
		switch key {
		case "count":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("config: constellation.dat count %q: %w", val, err)
			}
			cfg.Count = n
		case "second", "seconds", "frame-spacing-seconds":
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("config: constellation.dat %s %q: %w", key, val, err)
			}
			cfg.FrameSpacingSeconds = n
		}
	}

	if cfg.Count <= 0 {
		return nil, fmt.Errorf("config: constellation.dat missing required count column")
	}
	return cfg, nil
}
