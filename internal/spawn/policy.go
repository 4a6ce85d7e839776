// Package spawn chooses where and as what each new enemy appears.
package spawn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// ErrPrecondition marks invalid bounds or sizes passed to the policy.
var ErrPrecondition = errors.New("precondition violation")

// Rand is the random source the policy consumes. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewSeeded returns a reproducible random source. A zero seed uses the clock.
func NewSeeded(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Policy picks enemy variants and spawn positions uniformly at random.
type Policy struct {
	rng      Rand
	variants []object.Variant
}

// NewPolicy creates a policy drawing from rng.
func NewPolicy(rng Rand) *Policy {
	return &Policy{rng: rng, variants: object.Variants}
}

// NextSpawn returns the variant and position of the next enemy: x uniform in
// [-(W - w), W - w] and y just above the top edge (H + h). When the entity is
// at least as wide as the half-width the range collapses to x = 0.
func (p *Policy) NextSpawn(bounds physics.Bounds, size physics.Size) (object.Variant, physics.Vec, error) {
	if !bounds.Valid() {
		return 0, physics.Vec{}, fmt.Errorf("spawn bounds %+v: %w", bounds, ErrPrecondition)
	}
	if !size.Valid() {
		return 0, physics.Vec{}, fmt.Errorf("spawn size %+v: %w", size, ErrPrecondition)
	}

	variant := p.variants[p.rng.IntN(len(p.variants))]

	span := bounds.Width - size.Width
	if span < 0 {
		span = 0
	}
	x := -span + p.rng.Float64()*2*span

	return variant, physics.Vec{X: x, Y: bounds.Height + size.Height}, nil
}
