// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	want := &Config{
		Panel: PanelConfig{
			DC:     "GPIO25",
			CS:     "GPIO8",
			RST:    "GPIO17",
			Busy:   "GPIO24",
			Width:  250,
			Height: 122,
		},
		PMIC: PMICConfig{
			Addr:        0x34,
			DisplayRail: "ALDO1",
			SettleDelay: 10 * time.Millisecond,
			RailDelay:   5 * time.Millisecond,
		},
		Content: ContentConfig{
			Text:     "Hello from periph!",
			FontSize: 24,
		},
		Schedule: "0 */6 * * *",
		LogLevel: "info",
	}
	if diff := cmp.Diff(c, want); diff != "" {
		t.Errorf("DefaultConfig() difference (-got +want):\n%s", diff)
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "photopainter.yaml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if diff := cmp.Diff(c, DefaultConfig()); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %v, want 0600", perm)
	}

	// Loading the written file yields the same config.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if diff := cmp.Diff(again, c); diff != "" {
		t.Errorf("reloaded difference (-got +want):\n%s", diff)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photopainter.yaml")
	data := `
panel:
  busy: GPIO5
  busy_timeout: 30s
pmic:
  display_rail: ALDO2
  keep_rail_on: true
content:
  image: /srv/photo.jpg
schedule: "*/30 * * * *"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := DefaultConfig()
	want.Panel.Busy = "GPIO5"
	want.Panel.BusyTimeout = 30 * time.Second
	want.PMIC.DisplayRail = "ALDO2"
	want.PMIC.KeepRailOn = true
	want.Content = ContentConfig{Image: "/srv/photo.jpg", FontSize: 24}
	want.Schedule = "*/30 * * * *"
	if diff := cmp.Diff(c, want); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photopainter.yaml")
	if err := os.WriteFile(path, []byte("panel: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Errorf("Load() succeeded on invalid YAML")
	}
	if _, err := Load(""); err == nil {
		t.Errorf("Load() succeeded without a path")
	}
}

func TestSaveNil(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Errorf("Save() succeeded with a nil config")
	}
}

func TestSaveErrorsArePrefixed(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	err := Save(filepath.Join(parent, "c.yaml"), DefaultConfig())
	if err == nil {
		t.Fatalf("Save() succeeded below a regular file")
	}
	if !strings.HasPrefix(err.Error(), "config: ") {
		t.Errorf("Save() = %q, want a config: prefix", err)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")

	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff(names, []string{"c.yaml"}); diff != "" {
		t.Errorf("directory difference (-got +want):\n%s", diff)
	}
}
