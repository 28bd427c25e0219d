package app

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wireworld.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Configure(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 32 || cfg.Scale != 16 {
		t.Fatalf("defaults = %dx%d scale %d", cfg.Width, cfg.Height, cfg.Scale)
	}
	if cfg.Delay != 100*time.Millisecond || cfg.Snapshot != "unnamed.bin" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestPresetSelectsSmallLayout(t *testing.T) {
	cfg, err := Configure(newFlagSet(), []string{"-preset", "16x16"})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 16 || cfg.Scale != 32 {
		t.Fatalf("preset = %dx%d scale %d", cfg.Width, cfg.Height, cfg.Scale)
	}

	cfg, err = Configure(newFlagSet(), []string{"-preset", "16x16", "-scale", "8"})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.Scale != 8 || cfg.Width != 16 {
		t.Fatalf("explicit scale should override preset, got %+v", cfg)
	}
}

func TestFileThenFlags(t *testing.T) {
	path := writeConfig(t, `
preset: "16x16"
width: 40
delay: 250ms
snapshot: world.bin.zst
catalog: cat.sqlite
data_dir: drops
`)
	cfg, err := Configure(newFlagSet(), []string{"-config", path, "-delay", "5ms"})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 16 || cfg.Scale != 32 {
		t.Fatalf("dims = %dx%d scale %d", cfg.Width, cfg.Height, cfg.Scale)
	}
	if cfg.Delay != 5*time.Millisecond {
		t.Fatalf("flag should win over file, delay = %v", cfg.Delay)
	}
	if cfg.Snapshot != "world.bin.zst" || cfg.Catalog != "cat.sqlite" || cfg.DataDir != "drops" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestFileRejectedBySchema(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "colour: red\n",
		"negative size": "width: -3\n",
		"bad preset":    "preset: 64x64\n",
		"bad delay":     "delay: soon\n",
		"wrong type":    "scale: big\n",
	}
	for name, body := range cases {
		path := writeConfig(t, body)
		_, err := Configure(newFlagSet(), []string{"-config", path})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: err = %v, expected ErrInvalidConfig", name, err)
		}
	}
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Configure(newFlagSet(), []string{"-config", path})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.Width != 32 || cfg.Scale != 16 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := Configure(newFlagSet(), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, expected not-exist", err)
	}
}

func TestValidateFlags(t *testing.T) {
	cases := [][]string{
		{"-width", "0"},
		{"-scale", "-1"},
		{"-delay", "-1s"},
		{"-workers", "-2"},
		{"-snapshot", ""},
		{"-preset", "8x8"},
	}
	for _, args := range cases {
		if _, err := Configure(newFlagSet(), args); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%v: err = %v, expected ErrInvalidConfig", args, err)
		}
	}
}
