package loop

import (
	"math"
	"time"

	"github.com/tomz197/spaceshooter/internal/data"
	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

const (
	colorPlayer     draw.Color = 51  // cyan
	colorProjectile draw.Color = 226 // yellow
	colorBurst      draw.Color = 208
	colorBurstFade  draw.Color = 94
)

// visual is the terminal's projection of one entity.
type visual struct {
	kind  object.Kind
	style data.VariantStyle
}

// burst is an expanding ring drawn for an explosion effect.
type burst struct {
	at       physics.Vec
	age      time.Duration
	lifetime time.Duration
	radius   float64
}

// terminalHost keeps the visuals and effects the controller asks for.
type terminalHost struct {
	variants *data.VariantTable
	visuals  map[object.ID]visual
	bursts   []burst
	debris   *draw.Particles
}

var _ game.Host = (*terminalHost)(nil)

func newTerminalHost(variants *data.VariantTable) *terminalHost {
	return &terminalHost{
		variants: variants,
		visuals:  make(map[object.ID]visual),
		debris:   draw.NewParticles(uint64(time.Now().UnixNano())),
	}
}

func (h *terminalHost) SpawnVisual(e object.Entity) {
	v := visual{kind: e.Kind}
	if e.Kind == object.KindEnemy {
		v.style = h.variants.Get(e.Variant)
	}
	h.visuals[e.ID] = v
}

func (h *terminalHost) RemoveVisual(d object.Despawn) {
	delete(h.visuals, d.ID)
}

func (h *terminalHost) PlayEffect(effect game.Effect, at physics.Vec) {
	switch effect {
	case game.EffectExplosion:
		h.bursts = append(h.bursts, burst{at: at, lifetime: 400 * time.Millisecond, radius: 6})
		h.debris.Explode(at, 12, 25, 500*time.Millisecond, colorBurst, colorBurstFade)
	case game.EffectPlayerDestroyed:
		h.bursts = append(h.bursts, burst{at: at, lifetime: 1200 * time.Millisecond, radius: 16})
		h.debris.Explode(at, 40, 35, 1500*time.Millisecond, colorPlayer, colorBurst, colorBurstFade)
	}
}

// update ages the effects and drops finished ones.
func (h *terminalHost) update(dt time.Duration) {
	kept := h.bursts[:0]
	for _, b := range h.bursts {
		b.age += dt
		if b.age < b.lifetime {
			kept = append(kept, b)
		}
	}
	h.bursts = kept
	h.debris.Update(dt)
}

// drawBursts plots each burst as a ring of points, then the debris.
func (h *terminalHost) drawBursts(c *draw.Canvas) {
	defer h.debris.Draw(c)

	for _, b := range h.bursts {
		progress := b.age.Seconds() / b.lifetime.Seconds()
		r := b.radius * progress
		col := colorBurst
		if progress > 0.6 {
			col = colorBurstFade
		}
		for _, dir := range unitCircle {
			c.Set(b.at.Add(physics.Vec{X: dir.X * r, Y: dir.Y * r}), col)
		}
	}
}

var unitCircle = func() [16]physics.Vec {
	var out [16]physics.Vec
	for i := range out {
		a := float64(i) / 16 * 2 * math.Pi
		out[i] = physics.Vec{X: math.Cos(a), Y: math.Sin(a)}
	}
	return out
}()
