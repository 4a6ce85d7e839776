package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/data"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/logging"
	"github.com/tomz197/spaceshooter/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.GetEnv(config.EnvPath, ""), "path to a TOML config file")
	variantsPath := flag.String("variants", "", "path to a YAML enemy variant table")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Log lines on stderr would tear the frame, so only log to a file.
	log, err := logging.ForTerminal(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	variants := data.DefaultVariants()
	if *variantsPath != "" {
		if variants, err = data.LoadVariants(*variantsPath); err != nil {
			return err
		}
	}

	var host game.Host = game.NopHost{}
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(log)
		if err := player.Init(); err == nil {
			defer player.Close()
			host = player
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	log.Info("starting terminal game", zap.String("config", *configPath))
	return loop.Run(ctx, reader, os.Stdout, loop.Options{
		Config:   cfg,
		Logger:   log,
		Variants: variants,
		Host:     host,
	})
}
