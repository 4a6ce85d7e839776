package object

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// ID identifies an entity. IDs are never reused by a registry.
type ID uint64

// Trajectory is linear motion anchored at a point in registry time.
type Trajectory struct {
	From     physics.Vec   // Position at Start
	Velocity physics.Vec   // Units per second
	Start    time.Duration // Registry clock when the motion began (set on spawn)
}

// Stationary returns a trajectory that stays at p.
func Stationary(p physics.Vec) Trajectory {
	return Trajectory{From: p}
}

// Linear returns a trajectory moving from p with constant velocity v.
func Linear(p, v physics.Vec) Trajectory {
	return Trajectory{From: p, Velocity: v}
}

// MoveTo returns a trajectory that travels from `from` to `to` in d.
// A non-positive d yields a stationary trajectory at `to`.
func MoveTo(from, to physics.Vec, d time.Duration) Trajectory {
	if d <= 0 {
		return Stationary(to)
	}
	return Linear(from, to.Sub(from).Scale(1/d.Seconds()))
}

// At returns the position at registry time t.
func (tr Trajectory) At(t time.Duration) physics.Vec {
	return tr.From.Add(tr.Velocity.Scale((t - tr.Start).Seconds()))
}

// Entity is a record owned by a Registry. Callers receive copies or
// pointers that are only valid for the duration of a visit.
type Entity struct {
	ID         ID
	Kind       Kind
	Variant    Variant
	Category   Category
	Position   physics.Vec
	Trajectory Trajectory
	Size       physics.Size
	SpawnTime  time.Duration // Registry clock at spawn
	Lifetime   time.Duration // 0 means the entity never expires

	removed bool
}

// Age returns how long the entity has existed at registry time now.
func (e *Entity) Age(now time.Duration) time.Duration {
	return now - e.SpawnTime
}

// Rect returns the entity's bounding rectangle.
func (e *Entity) Rect() physics.Rect {
	return physics.RectAt(e.Position, e.Size)
}

// Circle returns the entity's bounding circle (diameter = width).
func (e *Entity) Circle() physics.Circle {
	return physics.Circle{Center: e.Position, Radius: e.Size.Width / 2}
}

// Despawn records an entity leaving the registry.
type Despawn struct {
	ID       ID
	Kind     Kind
	Reason   Reason
	Position physics.Vec
}
