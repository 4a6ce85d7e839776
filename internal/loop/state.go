package loop

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Screen is the phase shown to the player.
type Screen int

const (
	ScreenTitle    Screen = iota // Title screen
	ScreenPlaying                // Active gameplay
	ScreenGameOver               // Player destroyed, show restart prompt
)

// restartDelay keeps a held fire key from skipping the game-over screen.
const restartDelay = time.Second

// session is the per-terminal state: one controller at a time plus the
// terminal presentation around it.
type session struct {
	opts     Options
	settings game.Settings

	screen  Screen
	running bool
	ctrl    *game.Controller
	host    *terminalHost
	stars   *draw.Starfield

	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	termWidth   int
	termHeight  int

	gameOverFor time.Duration
	games       int
	best        int
}

func newSession(w io.Writer, opts Options) *session {
	settings := game.SettingsFrom(opts.Config)
	s := &session{
		opts:        opts,
		settings:    settings,
		screen:      ScreenTitle,
		running:     true,
		stars:       draw.NewStarfield(settings.Bounds, 60, uint64(time.Now().UnixNano())),
		canvas:      draw.NewCanvas(1, 1, settings.Bounds),
		chunkWriter: draw.NewChunkWriter(w),
	}
	s.resize()
	return s
}

// resize fits the canvas to the terminal, keeping the field's aspect ratio
// and leaving the first row for the HUD.
func (s *session) resize() {
	width, height, err := s.opts.TermSizeFunc()
	if err != nil || width <= 0 || height <= 0 {
		width, height = 80, 24
	}
	if width == s.termWidth && height == s.termHeight {
		return
	}
	s.termWidth, s.termHeight = width, height

	cols, rows, offCol, offRow := layout(width, height, s.settings.Bounds)
	s.canvas.Resize(cols, rows)
	s.canvas.SetOffset(offCol, offRow)
}

// layout returns the canvas size in cells and its 0-based offset within a
// terminal of width x height. One cell is twice as tall as it is wide.
func layout(width, height int, b physics.Bounds) (cols, rows, offCol, offRow int) {
	const hudRows = 1
	availRows := max(height-hudRows, 1)
	aspect := b.Width / b.Height // columns per sub-pixel row

	cols = width
	rows = int(float64(cols) / aspect / 2)
	if rows > availRows {
		rows = availRows
		cols = min(int(float64(rows)*2*aspect), width)
	}
	cols, rows = max(cols, 1), max(rows, 1)
	return cols, rows, (width - cols) / 2, hudRows + (availRows-rows)/2
}

// newGame replaces the controller with a fresh, started one.
func (s *session) newGame() error {
	s.host = newTerminalHost(s.opts.Variants)
	ctrl, err := game.New(s.settings,
		game.WithHost(game.Hosts(s.host, s.opts.Host)),
		game.WithLogger(s.opts.Logger))
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	s.ctrl = ctrl
	s.screen = ScreenPlaying
	s.gameOverFor = 0
	s.games++
	s.chunkWriter.WriteString("\033[H\033[2J")
	return nil
}

// update advances the current screen by one frame.
func (s *session) update(in input.Input, delta time.Duration) error {
	s.stars.Update(delta)

	switch s.screen {
	case ScreenTitle:
		if in.Start {
			return s.newGame()
		}

	case ScreenPlaying:
		s.ctrl.Tilt(in.Tilt())
		for i := 0; i < in.Fire; i++ {
			s.ctrl.Fire()
		}
		if err := s.tick(delta); err != nil {
			return err
		}
		if !s.ctrl.Active() {
			s.best = max(s.best, s.ctrl.Score())
			s.screen = ScreenGameOver
		}

	case ScreenGameOver:
		// The field keeps draining behind the game-over screen.
		if err := s.tick(delta); err != nil {
			return err
		}
		s.gameOverFor += delta
		if in.Start && s.gameOverFor >= restartDelay {
			return s.newGame()
		}
	}
	return nil
}

func (s *session) tick(delta time.Duration) error {
	s.host.update(delta)
	if err := s.ctrl.Tick(delta); err != nil {
		s.opts.Logger.Error("tick failed", zap.Error(err))
		return err
	}
	return nil
}
