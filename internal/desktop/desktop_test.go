package desktop

import (
	"testing"
	"time"

	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/physics"
)

func TestScreenSizeAndMapping(t *testing.T) {
	cfg := config.Default()
	cfg.World = config.WorldConfig{Width: 50, Height: 40}
	cfg.Desktop.Scale = 4
	a := New(Options{Config: cfg})

	w, h := a.ScreenSize()
	if w != 400 || h != 320 {
		t.Fatalf("ScreenSize() = %dx%d", w, h)
	}
	if lw, lh := a.Layout(1000, 1000); lw != w || lh != h {
		t.Fatalf("Layout() = %dx%d", lw, lh)
	}

	x, y := a.toScreen(physics.Vec{X: -50, Y: 40})
	if x != 0 || y != 0 {
		t.Fatalf("top-left maps to (%f,%f)", x, y)
	}
	x, y = a.toScreen(physics.Vec{})
	if x != 200 || y != 160 {
		t.Fatalf("origin maps to (%f,%f)", x, y)
	}
}

func TestStartGame(t *testing.T) {
	a := New(Options{})
	if err := a.startGame(); err != nil {
		t.Fatalf("startGame: %v", err)
	}
	if a.phase != phasePlaying || !a.ctrl.Active() || a.games != 1 {
		t.Fatalf("game not running")
	}
}

func TestEffectsExpire(t *testing.T) {
	e := newEffects()
	e.PlayEffect(game.EffectFire, physics.Vec{})
	e.PlayEffect(game.EffectExplosion, physics.Vec{})
	e.PlayEffect(game.EffectPlayerDestroyed, physics.Vec{})
	if len(e.bursts) != 2 {
		t.Fatalf("expected 2 bursts, got %d", len(e.bursts))
	}
	if e.debris.Len() != 52 {
		t.Fatalf("expected 52 debris particles, got %d", e.debris.Len())
	}
	e.update(400 * time.Millisecond)
	if len(e.bursts) != 1 {
		t.Fatalf("expected 1 burst, got %d", len(e.bursts))
	}
	e.update(2 * time.Second)
	if len(e.bursts) != 0 {
		t.Fatalf("expected no bursts, got %d", len(e.bursts))
	}
	if e.debris.Len() != 0 {
		t.Fatalf("debris outlived its lifetime: %d left", e.debris.Len())
	}
}
