// Command sim plays seeded games without a screen and logs how they went.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/logging"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

const tickRate = time.Second / 60

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sim error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.GetEnv(config.EnvPath, ""), "path to a TOML config file")
	seed := flag.Uint64("seed", 1, "spawn seed of the first game")
	games := flag.Int("games", 1, "number of games to play")
	limit := flag.Duration("limit", 2*time.Minute, "simulated time limit per game")
	fireEvery := flag.Duration("fire-every", 250*time.Millisecond, "autopilot fire interval")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	for i := range *games {
		settings := game.SettingsFrom(cfg)
		settings.Seed = *seed + uint64(i)

		res, err := play(settings, autopilot{fireEvery: *fireEvery}, *limit)
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		log.Info("game finished",
			zap.Uint64("seed", settings.Seed),
			zap.Int("score", res.score),
			zap.Int("enemies_spawned", res.spawned),
			zap.Duration("elapsed", res.elapsed),
			zap.Bool("survived", res.survived))
	}
	return nil
}

type result struct {
	score    int
	spawned  int
	elapsed  time.Duration
	survived bool
}

// play runs one game at a fixed tick rate until the player is hit or limit
// is reached.
func play(settings game.Settings, pilot autopilot, limit time.Duration) (result, error) {
	ctrl, err := game.New(settings)
	if err != nil {
		return result{}, err
	}
	if err := ctrl.Start(); err != nil {
		return result{}, err
	}

	var sinceFire time.Duration
	for ctrl.Active() && ctrl.Elapsed() < limit {
		ctrl.Tilt(pilot.steer(ctrl))
		sinceFire += tickRate
		if sinceFire >= pilot.fireEvery {
			ctrl.Fire()
			sinceFire = 0
		}
		if err := ctrl.Tick(tickRate); err != nil {
			return result{}, err
		}
	}

	return result{
		score:    ctrl.Score(),
		spawned:  ctrl.EnemiesSpawned(),
		elapsed:  ctrl.Elapsed(),
		survived: ctrl.Active(),
	}, nil
}

// autopilot steers under the lowest enemy and fires on a fixed interval.
type autopilot struct {
	fireEvery time.Duration
}

// steer returns a tilt towards the lowest enemy still above the player.
func (a autopilot) steer(ctrl *game.Controller) float64 {
	pos, ok := ctrl.PlayerPosition()
	if !ok {
		return 0
	}
	var (
		target physics.Vec
		found  bool
	)
	ctrl.ForEach(func(e *object.Entity) {
		if e.Kind != object.KindEnemy || e.Position.Y < pos.Y {
			return
		}
		if !found || e.Position.Y < target.Y {
			target, found = e.Position, true
		}
	})
	if !found {
		return 0
	}
	dx := target.X - pos.X
	switch {
	case dx > 0.5:
		return 1
	case dx < -0.5:
		return -1
	}
	return 0
}
