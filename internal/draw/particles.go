package draw

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// particlePool reuses Particle values between explosions.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived piece of explosion debris in world coordinates.
type Particle struct {
	Pos     physics.Vec
	Vel     physics.Vec // units per second
	Life    time.Duration
	MaxLife time.Duration
	Drag    float64 // velocity kept per 1/60 s (1.0 = no drag)
	Color   Color
}

// Visible reports whether the particle is bright enough to draw. The last
// quarter of its life is skipped.
func (p *Particle) Visible() bool {
	return p.MaxLife > 0 && p.Life*4 >= p.MaxLife
}

// Particles is a set of live particles. Not safe for concurrent use.
type Particles struct {
	rng   *rand.Rand
	items []*Particle
}

// NewParticles creates an empty particle set whose spread is driven by seed.
func NewParticles(seed uint64) *Particles {
	return &Particles{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Explode scatters count particles from at in random directions. Speeds vary
// between 50% and 150% of speed and lifetimes between 50% and 100% of lifetime.
func (ps *Particles) Explode(at physics.Vec, count int, speed float64, lifetime time.Duration, colors ...Color) {
	if len(colors) == 0 {
		colors = []Color{colorDebris}
	}
	for range count {
		angle := ps.rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + ps.rng.Float64())
		life := time.Duration(float64(lifetime) * (0.5 + ps.rng.Float64()*0.5))

		p := particlePool.Get().(*Particle)
		*p = Particle{
			Pos:     at,
			Vel:     physics.Vec{X: math.Cos(angle) * spd, Y: math.Sin(angle) * spd},
			Life:    life,
			MaxLife: life,
			Drag:    0.95,
			Color:   colors[ps.rng.IntN(len(colors))],
		}
		ps.items = append(ps.items, p)
	}
}

// Update moves every particle and releases the expired ones.
func (ps *Particles) Update(dt time.Duration) {
	sec := dt.Seconds()
	drag := func(d float64) float64 { return math.Pow(d, sec*60) }

	kept := ps.items[:0]
	for _, p := range ps.items {
		p.Life -= dt
		if p.Life <= 0 {
			particlePool.Put(p)
			continue
		}
		p.Vel = p.Vel.Scale(drag(p.Drag))
		p.Pos = p.Pos.Add(p.Vel.Scale(sec))
		kept = append(kept, p)
	}
	clear(ps.items[len(kept):])
	ps.items = kept
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	return len(ps.items)
}

// ForEach visits the visible particles.
func (ps *Particles) ForEach(visit func(p *Particle)) {
	for _, p := range ps.items {
		if p.Visible() {
			visit(p)
		}
	}
}

// Draw plots the visible particles on the canvas.
func (ps *Particles) Draw(c *Canvas) {
	ps.ForEach(func(p *Particle) {
		c.Set(p.Pos, p.Color)
	})
}

const colorDebris Color = 208
