package draw

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

type star struct {
	pos   physics.Vec
	speed float64 // units per second, downward
	color Color
}

// Starfield is a background of stars drifting down and wrapping to the top.
type Starfield struct {
	bounds physics.Bounds
	stars  []star
	rng    *rand.Rand
}

var starColors = []Color{236, 240, 245, 250}

// NewStarfield scatters n stars over bounds.
func NewStarfield(bounds physics.Bounds, n int, seed uint64) *Starfield {
	sf := &Starfield{
		bounds: bounds,
		stars:  make([]star, n),
		rng:    rand.New(rand.NewPCG(seed, seed+1)),
	}
	for i := range sf.stars {
		sf.stars[i] = sf.newStar(sf.randomY())
	}
	return sf
}

func (sf *Starfield) randomY() float64 {
	return -sf.bounds.Height + sf.rng.Float64()*2*sf.bounds.Height
}

func (sf *Starfield) newStar(y float64) star {
	layer := sf.rng.IntN(len(starColors))
	return star{
		pos:   physics.Vec{X: -sf.bounds.Width + sf.rng.Float64()*2*sf.bounds.Width, Y: y},
		speed: 4 + 6*float64(layer),
		color: starColors[layer],
	}
}

// Update moves the stars. Stars leaving the bottom re-enter at the top.
func (sf *Starfield) Update(dt time.Duration) {
	for i := range sf.stars {
		s := &sf.stars[i]
		s.pos.Y -= s.speed * dt.Seconds()
		if s.pos.Y < -sf.bounds.Height {
			*s = sf.newStar(sf.bounds.Height)
		}
	}
}

// Draw plots the stars on the canvas.
func (sf *Starfield) Draw(c *Canvas) {
	for _, s := range sf.stars {
		c.Set(s.pos, s.color)
	}
}

// Positions returns the current star positions.
func (sf *Starfield) Positions() []physics.Vec {
	out := make([]physics.Vec, len(sf.stars))
	for i, s := range sf.stars {
		out[i] = s.pos
	}
	return out
}
