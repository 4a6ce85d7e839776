package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/desktop"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "desktop error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.GetEnv(config.EnvPath, ""), "path to a TOML config file")
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

	var host game.Host = game.NopHost{}
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(log)
		if err := player.Init(); err == nil {
			defer player.Close()
			host = player
		}
	}

	app := desktop.New(desktop.Options{Config: cfg, Logger: log, Host: host})
	w, h := app.ScreenSize()
	log.Info("opening window", zap.Int("width", w), zap.Int("height", h))
	return app.Run()
}
