// Package loop runs the terminal front-end: the frame loop, the title,
// playing and game-over screens, and restarts.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/data"
	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
)

const (
	targetFPS       = 60
	targetFrameTime = time.Second / targetFPS

	// maxFrameDelta caps the simulated step after a stall (e.g. a slow SSH link).
	maxFrameDelta = 100 * time.Millisecond
)

// Options configures a terminal session.
type Options struct {
	Config       *config.Config
	Logger       *zap.Logger
	Variants     *data.VariantTable
	TermSizeFunc draw.TermSizeFunc
	// Host receives game instructions in addition to the terminal renderer,
	// e.g. an audio player.
	Host game.Host
}

func (o *Options) setDefaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Variants == nil {
		o.Variants = data.DefaultVariants()
	}
	if o.TermSizeFunc == nil {
		o.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if o.Host == nil {
		o.Host = game.NopHost{}
	}
}

// Run starts the main game loop with the standard Input → Update → Draw
// cycle. It returns when the player quits, the input ends or ctx is done.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	opts.setDefaults()

	s := newSession(w, opts)
	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)
	defer draw.ClearScreen(w)

	lastTime := time.Now()

	for s.running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), maxFrameDelta)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if in.Quit || in.EOF {
			s.running = false
			break
		}

		// ===== UPDATE PHASE =====
		s.resize()
		if err := s.update(in, delta); err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if err := s.drawFrame(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	opts.Logger.Info("session ended", zap.Int("games", s.games), zap.Int("best_score", s.best))
	return nil
}
