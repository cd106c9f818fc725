// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the photopainter YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PanelConfig describes how the e-paper panel is wired.
type PanelConfig struct {
	// SPIPort is the spireg name of the port. Empty selects the first one.
	SPIPort string `yaml:"spi_port"`
	// DC, CS, RST and Busy are gpioreg pin names.
	DC   string `yaml:"dc"`
	CS   string `yaml:"cs"`
	RST  string `yaml:"rst"`
	Busy string `yaml:"busy"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// BusyTimeout bounds every wait for the controller. Zero waits forever.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// PMICConfig describes the power management IC.
type PMICConfig struct {
	// I2CBus is the i2creg name of the bus. Empty selects the first one.
	I2CBus string `yaml:"i2c_bus"`
	Addr   uint16 `yaml:"addr"`

	// DisplayRail is the rail feeding the panel, e.g. "ALDO1".
	DisplayRail string        `yaml:"display_rail"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	RailDelay   time.Duration `yaml:"rail_delay"`
	// KeepRailOn leaves the display rail enabled between refreshes.
	KeepRailOn bool `yaml:"keep_rail_on"`
}

// ContentConfig selects what is rendered.
type ContentConfig struct {
	// Text is drawn when Image is empty.
	Text string `yaml:"text"`
	// Image is the path of a picture, fitted and dithered to the panel.
	Image string `yaml:"image"`
	// FontSize in points for Text.
	FontSize float64 `yaml:"font_size"`
}

// Config is the top-level application configuration.
type Config struct {
	Panel   PanelConfig   `yaml:"panel"`
	PMIC    PMICConfig    `yaml:"pmic"`
	Content ContentConfig `yaml:"content"`

	// Schedule is a cron-style schedule string (e.g. "0 */6 * * *") for
	// periodic refresh.
	Schedule string `yaml:"schedule"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	p := &c.Panel
	if p.DC == "" {
		p.DC = "GPIO25"
	}
	if p.CS == "" {
		p.CS = "GPIO8"
	}
	if p.RST == "" {
		p.RST = "GPIO17"
	}
	if p.Busy == "" {
		p.Busy = "GPIO24"
	}
	if p.Width <= 0 || p.Height <= 0 {
		p.Width, p.Height = 250, 122
	}
	if p.BusyTimeout < 0 {
		p.BusyTimeout = 0
	}

	m := &c.PMIC
	if m.Addr == 0 {
		m.Addr = 0x34
	}
	if m.DisplayRail == "" {
		m.DisplayRail = "ALDO1"
	}
	if m.SettleDelay <= 0 {
		m.SettleDelay = 10 * time.Millisecond
	}
	if m.RailDelay <= 0 {
		m.RailDelay = 5 * time.Millisecond
	}

	if c.Content.Text == "" && c.Content.Image == "" {
		c.Content.Text = "Hello from periph!"
	}
	if c.Content.FontSize <= 0 {
		c.Content.FontSize = 24
	}

	if c.Schedule == "" {
		c.Schedule = "0 */6 * * *"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path.
//
// On first run the file does not exist: a default config is written there
// with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			// Return cfg with the error so the caller can decide.
			return cfg, Save(path, cfg)
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically: the YAML is written to a temporary file
// in the same directory which then replaces path. The file mode is 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	tmp, err := writeTemp(dir, cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// writeTemp encodes cfg into a new 0600 file in dir and returns its name. The
// file is removed on failure.
func writeTemp(dir string, cfg *Config) (name string, err error) {
	f, err := os.CreateTemp(dir, ".photopainter-config-*.tmp")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(0o600); err != nil {
		return "", err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err = enc.Encode(cfg); err != nil {
		return "", err
	}
	if err = enc.Close(); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
