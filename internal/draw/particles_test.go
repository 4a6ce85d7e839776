package draw

import (
	"testing"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

func TestParticlesExplodeAndExpire(t *testing.T) {
	ps := NewParticles(1)
	ps.Explode(physics.Vec{}, 20, 10, time.Second, 5)
	if ps.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", ps.Len())
	}

	ps.Update(100 * time.Millisecond)
	moved := 0
	ps.ForEach(func(p *Particle) {
		if p.Color != 5 {
			t.Fatalf("particle color = %d", p.Color)
		}
		if p.Pos != (physics.Vec{}) {
			moved++
		}
		// 50% to 150% of speed, slowed by drag, over 0.1s.
		if d := p.Pos.Sub(physics.Vec{}); d.X*d.X+d.Y*d.Y > 1.5*1.5+1e-9 {
			t.Fatalf("particle moved too far: %+v", p.Pos)
		}
	})
	if moved != 20 {
		t.Fatalf("%d particles moved, want 20", moved)
	}

	// Lifetimes are at most the requested lifetime.
	ps.Update(time.Second)
	if ps.Len() != 0 {
		t.Fatalf("Len() = %d after lifetime", ps.Len())
	}
}

func TestParticleFadesBeforeExpiry(t *testing.T) {
	p := &Particle{Life: time.Second, MaxLife: time.Second}
	if !p.Visible() {
		t.Fatalf("fresh particle not visible")
	}
	p.Life = 200 * time.Millisecond
	if p.Visible() {
		t.Fatalf("particle in its last quarter still visible")
	}
}

func TestParticlesDraw(t *testing.T) {
	c := NewCanvas(20, 10, physics.Bounds{Width: 10, Height: 10})
	ps := NewParticles(2)
	ps.Explode(physics.Vec{}, 1, 0, time.Second, 9)
	ps.Draw(c)
	if got := c.At(10, 10); got != 9 {
		t.Fatalf("canvas at origin = %d, want 9", got)
	}
}
