package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/data"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func testOptions() Options {
	opts := Options{TermSizeFunc: fixedSize(80, 24)}
	opts.setDefaults()
	return opts
}

func TestLayoutKeepsAspect(t *testing.T) {
	tests := []struct {
		name                       string
		width, height              int
		cols, rows, offCol, offRow int
	}{
		// 60x40 field: 3 columns per 2 sub-pixel rows, i.e. 3 columns per row.
		{"tall terminal", 90, 100, 90, 30, 0, 35},
		{"wide terminal", 200, 31, 90, 30, 55, 1},
		{"tiny", 1, 1, 1, 1, 0, 1},
	}
	b := physics.Bounds{Width: 60, Height: 40}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, offCol, offRow := layout(tt.width, tt.height, b)
			if cols != tt.cols || rows != tt.rows || offCol != tt.offCol || offRow != tt.offRow {
				t.Fatalf("layout(%d,%d) = %d,%d,%d,%d", tt.width, tt.height, cols, rows, offCol, offRow)
			}
		})
	}
}

func TestSessionStartsAndRestarts(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out, testOptions())

	if err := s.update(input.Input{}, 16*time.Millisecond); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.screen != ScreenTitle {
		t.Fatalf("left the title screen without input")
	}
	if err := s.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Press SPACE to Start") {
		t.Fatalf("title screen not drawn")
	}

	if err := s.update(input.Input{Start: true, Fire: 1}, 16*time.Millisecond); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.screen != ScreenPlaying || !s.ctrl.Active() || s.games != 1 {
		t.Fatalf("expected a running game, screen=%d", s.screen)
	}

	out.Reset()
	if err := s.update(input.Input{Fire: 1}, 16*time.Millisecond); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Score: 0") {
		t.Fatalf("HUD not drawn: %q", out.String())
	}
	if len(s.host.visuals) < 2 {
		t.Fatalf("expected player and projectile visuals, have %d", len(s.host.visuals))
	}

	// On the game-over screen a restart is only accepted after the delay.
	s.screen = ScreenGameOver
	if err := s.update(input.Input{Start: true}, 100*time.Millisecond); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.games != 1 {
		t.Fatalf("restarted before the delay")
	}
	for i := 0; i < 10; i++ {
		if err := s.update(input.Input{}, 100*time.Millisecond); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if err := s.update(input.Input{Start: true}, 100*time.Millisecond); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.games != 2 || s.screen != ScreenPlaying || s.ctrl.Score() != 0 {
		t.Fatalf("expected a fresh game, games=%d screen=%d", s.games, s.screen)
	}
}

func TestRunQuits(t *testing.T) {
	var out bytes.Buffer
	opts := Options{Config: config.Default(), TermSizeFunc: fixedSize(80, 24)}

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), bufio.NewReader(strings.NewReader(" q")), &out, opts)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after q")
	}
	if !strings.HasPrefix(out.String(), "\033[?25l") || !strings.Contains(out.String(), "\033[?25h") {
		t.Fatalf("cursor not hidden and restored")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, bufio.NewReader(pr), &bytes.Buffer{}, Options{TermSizeFunc: fixedSize(80, 24)})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run ignored cancellation")
	}
}

func TestTerminalHostTracksVisualsAndBursts(t *testing.T) {
	h := newTerminalHost(data.DefaultVariants())

	h.SpawnVisual(object.Entity{ID: 1, Kind: object.KindEnemy, Variant: object.VariantB})
	if v := h.visuals[1]; v.style.Name != "alien2" {
		t.Fatalf("enemy visual has style %+v", v.style)
	}
	h.RemoveVisual(object.Despawn{ID: 1})
	if len(h.visuals) != 0 {
		t.Fatalf("visual not removed")
	}

	h.PlayEffect(game.EffectFire, physics.Vec{})
	h.PlayEffect(game.EffectExplosion, physics.Vec{})
	h.PlayEffect(game.EffectPlayerDestroyed, physics.Vec{})
	if len(h.bursts) != 2 {
		t.Fatalf("expected 2 bursts, got %d", len(h.bursts))
	}
	h.update(500 * time.Millisecond)
	if len(h.bursts) != 1 {
		t.Fatalf("explosion burst should have finished, have %d", len(h.bursts))
	}
	h.update(time.Second)
	if len(h.bursts) != 0 {
		t.Fatalf("bursts left: %d", len(h.bursts))
	}
}
