/*
* Analysis configuration module
* Copyright (C) 2025  Artem Stefankiv
*
* This program is free software: you can redistribute it and/or modify
* it under the terms of the GNU General Public License as published by
* the Free Software Foundation, either version 3 of the License, or
* (at your option) any later version.
*
* This program is distributed in the hope that it will be useful,
* but WITHOUT ANY WARRANTY; without even the implied warranty of
* MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
* GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License
* along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	DefaultWindowSize       = 256
	DefaultStepSize         = 128
	DefaultEntropyThreshold = 1.0
	DefaultMinSpanBytes     = 8192
)

// Config holds the analysis thresholds. The zero value is invalid; start
// from DefaultConfig or LoadConfig.
type Config struct {
	// WindowSize is the number of bytes read per entropy sample.
	WindowSize int `toml:"window_size"`

	// StepSize is the stride between window starts in bytes.
	StepSize int `toml:"step_size"`

	// EntropyThreshold in bits separates low from high entropy samples.
	// Samples strictly below are low, samples at or above are high.
	EntropyThreshold float64 `toml:"entropy_threshold"`

	// MinSpanBytes is the absolute minimum region span. The effective
	// minimum for a run is max(MinSpanBytes, 0.5% of the file size).
	MinSpanBytes int64 `toml:"min_span_bytes"`
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() *Config {
	return &Config{
		WindowSize:       DefaultWindowSize,
		StepSize:         DefaultStepSize,
		EntropyThreshold: DefaultEntropyThreshold,
		MinSpanBytes:     DefaultMinSpanBytes,
	}
}

// LoadConfig reads a TOML configuration file. Keys absent from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate fails fast on values that would loop forever or divide by zero.
func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("step_size must be positive, got %d", c.StepSize)
	}
	if c.EntropyThreshold < 0 || c.EntropyThreshold > 8 {
		return fmt.Errorf("entropy_threshold must be within [0, 8], got %g", c.EntropyThreshold)
	}
	if c.MinSpanBytes < 0 {
		return fmt.Errorf("min_span_bytes must not be negative, got %d", c.MinSpanBytes)
	}
	return nil
}
