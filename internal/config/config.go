// Package config loads the tunable game parameters from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "SHOOTER_CONFIG"

type Config struct {
	Game       GameConfig       `toml:"game"`
	World      WorldConfig      `toml:"world"`
	Enemy      EnemyConfig      `toml:"enemy"`
	Player     PlayerConfig     `toml:"player"`
	Projectile ProjectileConfig `toml:"projectile"`
	Tilt       TiltConfig       `toml:"tilt"`
	Logging    LoggingConfig    `toml:"logging"`
	SSH        SSHConfig        `toml:"ssh"`
	Audio      AudioConfig      `toml:"audio"`
	Desktop    DesktopConfig    `toml:"desktop"`
}

type GameConfig struct {
	SpawnInterval time.Duration `toml:"spawn_interval"`
	HitReward     int           `toml:"hit_reward"`
	Seed          uint64        `toml:"seed"` // 0 = seed from the clock
}

// WorldConfig holds the half-extents of the play field around the origin.
type WorldConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type EnemyConfig struct {
	Width    float64       `toml:"width"`
	Height   float64       `toml:"height"`
	Lifetime time.Duration `toml:"lifetime"` // time to fall from the top to the bottom edge
}

type PlayerConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Speed  float64 `toml:"speed"` // units per second at full tilt
}

type ProjectileConfig struct {
	Width    float64       `toml:"width"`
	Lifetime time.Duration `toml:"lifetime"`
}

type TiltConfig struct {
	Smoothing float64 `toml:"smoothing"` // weight of the newest sample (0, 1]
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type SSHConfig struct {
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	HostKey string `toml:"host_key"`
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

type DesktopConfig struct {
	Scale float64 `toml:"scale"` // screen pixels per world unit
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by SHOOTER_CONFIG, or the defaults.
func LoadFromEnv() (*Config, error) {
	return Load(GetEnv(EnvPath, ""))
}

// Validate checks that geometry and durations are usable.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	positiveDur := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, d))
		}
	}

	positiveDur("game.spawn_interval", c.Game.SpawnInterval)
	if c.Game.HitReward < 0 {
		errs = append(errs, fmt.Errorf("game.hit_reward must not be negative, got %d", c.Game.HitReward))
	}
	positive("world.width", c.World.Width)
	positive("world.height", c.World.Height)
	positive("enemy.width", c.Enemy.Width)
	positive("enemy.height", c.Enemy.Height)
	positiveDur("enemy.lifetime", c.Enemy.Lifetime)
	positive("player.width", c.Player.Width)
	positive("player.height", c.Player.Height)
	if c.Player.Speed < 0 {
		errs = append(errs, fmt.Errorf("player.speed must not be negative, got %v", c.Player.Speed))
	}
	positive("projectile.width", c.Projectile.Width)
	positiveDur("projectile.lifetime", c.Projectile.Lifetime)
	if c.Tilt.Smoothing <= 0 || c.Tilt.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("tilt.smoothing must be in (0, 1], got %v", c.Tilt.Smoothing))
	}
	positive("desktop.scale", c.Desktop.Scale)

	return errors.Join(errs...)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			SpawnInterval: 750 * time.Millisecond,
			HitReward:     5,
		},
		World: WorldConfig{
			Width:  60,
			Height: 40,
		},
		Enemy: EnemyConfig{
			Width:    6,
			Height:   4,
			Lifetime: 6 * time.Second,
		},
		Player: PlayerConfig{
			Width:  6,
			Height: 4,
			Speed:  70,
		},
		Projectile: ProjectileConfig{
			Width:    1.5,
			Lifetime: 300 * time.Millisecond,
		},
		Tilt: TiltConfig{
			Smoothing: 0.75,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		SSH: SSHConfig{
			Host:    GetEnv("SSH_HOST", "::"),
			Port:    GetEnv("SSH_PORT", "2222"),
			HostKey: GetEnv("SSH_HOST_KEY", "/app/keys/host_key"),
		},
		Audio: AudioConfig{
			Enabled: true,
		},
		Desktop: DesktopConfig{
			Scale: 6,
		},
	}
}
