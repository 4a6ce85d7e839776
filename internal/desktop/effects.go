package desktop

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/physics"
)

type burst struct {
	at       physics.Vec
	age      time.Duration
	lifetime time.Duration
	radius   float64
}

// effects is the window's game.Host: it only reacts to effects, entities are
// drawn straight from the controller each frame.
type effects struct {
	game.NopHost
	bursts []burst
	debris *draw.Particles
}

func newEffects() *effects {
	return &effects{debris: draw.NewParticles(uint64(time.Now().UnixNano()))}
}

func (e *effects) PlayEffect(effect game.Effect, at physics.Vec) {
	switch effect {
	case game.EffectExplosion:
		e.bursts = append(e.bursts, burst{at: at, lifetime: 350 * time.Millisecond, radius: 5})
		e.debris.Explode(at, 12, 25, 500*time.Millisecond)
	case game.EffectPlayerDestroyed:
		e.bursts = append(e.bursts, burst{at: at, lifetime: time.Second, radius: 14})
		e.debris.Explode(at, 40, 35, 1500*time.Millisecond)
	}
}

func (e *effects) update(dt time.Duration) {
	kept := e.bursts[:0]
	for _, b := range e.bursts {
		b.age += dt
		if b.age < b.lifetime {
			kept = append(kept, b)
		}
	}
	e.bursts = kept
	e.debris.Update(dt)
}
