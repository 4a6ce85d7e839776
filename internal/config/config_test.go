package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shooter.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.SpawnInterval != 750*time.Millisecond || cfg.Game.HitReward != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg.Game)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[game]
spawn_interval = "500ms"
seed = 42

[world]
width = 80

[logging]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.SpawnInterval != 500*time.Millisecond {
		t.Fatalf("spawn_interval = %v", cfg.Game.SpawnInterval)
	}
	if cfg.Game.Seed != 42 {
		t.Fatalf("seed = %d", cfg.Game.Seed)
	}
	if cfg.World.Width != 80 || cfg.World.Height != 40 {
		t.Fatalf("world = %+v, want width overridden and height default", cfg.World)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Enemy.Lifetime != 6*time.Second {
		t.Fatalf("enemy lifetime lost its default: %v", cfg.Enemy.Lifetime)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[world]
width = -1

[tilt]
smoothing = 2.0
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"world.width", "tilt.smoothing"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := writeConfig(t, "[game\nspawn_interval = ")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[game]\nhit_reward = 10\n")
	t.Setenv(EnvPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Game.HitReward != 10 {
		t.Fatalf("hit_reward = %d", cfg.Game.HitReward)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SHOOTER_TEST_VALUE", "set")
	if got := GetEnv("SHOOTER_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("SHOOTER_TEST_UNSET_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv = %q", got)
	}
}
