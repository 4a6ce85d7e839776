package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// ErrPrecondition marks settings the controller cannot run with.
var ErrPrecondition = errors.New("precondition violation")

// Settings are the fixed rules of one game.
type Settings struct {
	Bounds             physics.Bounds
	PlayerSize         physics.Size
	EnemySize          physics.Size
	ProjectileWidth    float64
	SpawnInterval      time.Duration
	EnemyLifetime      time.Duration
	ProjectileLifetime time.Duration
	HitReward          int
	PlayerSpeed        float64 // units per second at full tilt
	TiltSmoothing      float64 // weight of the newest tilt sample
	Seed               uint64
}

// SettingsFrom derives game settings from a loaded configuration.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		Bounds:             physics.Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		PlayerSize:         physics.Size{Width: cfg.Player.Width, Height: cfg.Player.Height},
		EnemySize:          physics.Size{Width: cfg.Enemy.Width, Height: cfg.Enemy.Height},
		ProjectileWidth:    cfg.Projectile.Width,
		SpawnInterval:      cfg.Game.SpawnInterval,
		EnemyLifetime:      cfg.Enemy.Lifetime,
		ProjectileLifetime: cfg.Projectile.Lifetime,
		HitReward:          cfg.Game.HitReward,
		PlayerSpeed:        cfg.Player.Speed,
		TiltSmoothing:      cfg.Tilt.Smoothing,
		Seed:               cfg.Game.Seed,
	}
}

// DefaultSettings returns the settings of the built-in configuration.
func DefaultSettings() Settings {
	return SettingsFrom(config.Default())
}

// ProjectileSize is the bounding box of a projectile (a circle of that width).
func (s Settings) ProjectileSize() physics.Size {
	return physics.Size{Width: s.ProjectileWidth, Height: s.ProjectileWidth}
}

// PlayerStart is where the player appears when the game starts.
func (s Settings) PlayerStart() physics.Vec {
	return physics.Vec{X: 0, Y: -s.Bounds.Height / 1.25}
}

func (s Settings) validate() error {
	switch {
	case !s.Bounds.Valid():
		return fmt.Errorf("bounds %+v: %w", s.Bounds, ErrPrecondition)
	case !s.PlayerSize.Valid():
		return fmt.Errorf("player size %+v: %w", s.PlayerSize, ErrPrecondition)
	case !s.EnemySize.Valid():
		return fmt.Errorf("enemy size %+v: %w", s.EnemySize, ErrPrecondition)
	case s.ProjectileWidth <= 0:
		return fmt.Errorf("projectile width %v: %w", s.ProjectileWidth, ErrPrecondition)
	case s.SpawnInterval <= 0:
		return fmt.Errorf("spawn interval %v: %w", s.SpawnInterval, ErrPrecondition)
	case s.EnemyLifetime <= 0, s.ProjectileLifetime <= 0:
		return fmt.Errorf("lifetimes %v/%v: %w", s.EnemyLifetime, s.ProjectileLifetime, ErrPrecondition)
	case s.HitReward < 0:
		return fmt.Errorf("hit reward %d: %w", s.HitReward, ErrPrecondition)
	case s.PlayerSpeed < 0:
		return fmt.Errorf("player speed %v: %w", s.PlayerSpeed, ErrPrecondition)
	case s.TiltSmoothing <= 0 || s.TiltSmoothing > 1:
		return fmt.Errorf("tilt smoothing %v: %w", s.TiltSmoothing, ErrPrecondition)
	}
	return nil
}
