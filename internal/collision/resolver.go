// Package collision classifies contacts between live entities each tick.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// ErrPrecondition marks invalid bounds or entity sizes.
var ErrPrecondition = errors.New("precondition violation")

// EventKind tells what kind of contact happened.
type EventKind int

const (
	// PlayerHit: an enemy touched the player.
	PlayerHit EventKind = iota
	// ProjectileHit: a projectile struck an enemy.
	ProjectileHit
)

func (k EventKind) String() string {
	switch k {
	case PlayerHit:
		return "player-hit"
	case ProjectileHit:
		return "projectile-hit"
	default:
		return "unknown"
	}
}

// Event is a resolved contact. Player is set for PlayerHit, Projectile for
// ProjectileHit. Position is where the enemy was struck.
type Event struct {
	Kind       EventKind
	Enemy      object.ID
	Player     object.ID
	Projectile object.ID
	Position   physics.Vec
}

// Consumed returns the ids the caller must despawn for this event.
func (e Event) Consumed() []object.ID {
	if e.Kind == PlayerHit {
		return []object.ID{e.Player, e.Enemy}
	}
	return []object.ID{e.Projectile, e.Enemy}
}

// Resolver finds contacts among entities. It keeps a reusable broad-phase grid
// covering the play field; nothing else is retained between calls.
type Resolver struct {
	bounds physics.Bounds
	grid   *physics.SpatialGrid

	enemies     []*object.Entity
	projectiles []*object.Entity
	consumed    []bool
}

// NewResolver creates a resolver for the given play field.
func NewResolver(bounds physics.Bounds) (*Resolver, error) {
	if !bounds.Valid() {
		return nil, fmt.Errorf("resolver bounds %+v: %w", bounds, ErrPrecondition)
	}
	return &Resolver{bounds: bounds}, nil
}

// Resolve classifies contacts among entities, which must be in registry order.
//
// An enemy touching the player wins over everything else: a single PlayerHit
// (first such enemy) is returned. Otherwise each projectile, in order, hits at
// most one enemy (the earliest overlapping one not already hit this call).
// Resolve never mutates the entities.
func (r *Resolver) Resolve(entities []*object.Entity) ([]Event, error) {
	r.enemies = r.enemies[:0]
	r.projectiles = r.projectiles[:0]
	var player *object.Entity

	for _, e := range entities {
		if !e.Size.Valid() {
			return nil, fmt.Errorf("entity %d (%s) size %+v: %w", e.ID, e.Kind, e.Size, ErrPrecondition)
		}
		switch e.Kind {
		case object.KindPlayer:
			player = e
		case object.KindEnemy:
			r.enemies = append(r.enemies, e)
		case object.KindProjectile:
			r.projectiles = append(r.projectiles, e)
		}
	}

	if player != nil {
		pr := player.Rect()
		for _, en := range r.enemies {
			if !player.Category.Interacts(en.Category) {
				continue
			}
			if physics.RectsOverlap(pr, en.Rect()) {
				return []Event{{
					Kind:     PlayerHit,
					Enemy:    en.ID,
					Player:   player.ID,
					Position: player.Position,
				}}, nil
			}
		}
	}

	if len(r.enemies) == 0 || len(r.projectiles) == 0 {
		return nil, nil
	}
	return r.projectileHits(), nil
}

func (r *Resolver) projectileHits() []Event {
	grid := r.prepareGrid()
	for i, en := range r.enemies {
		grid.Insert(en.Position, i)
	}

	if cap(r.consumed) < len(r.enemies) {
		r.consumed = make([]bool, len(r.enemies))
	}
	r.consumed = r.consumed[:len(r.enemies)]
	clear(r.consumed)

	var events []Event
	for _, p := range r.projectiles {
		c := p.Circle()
		best := -1
		grid.QueryAround(p.Position, func(i int) bool {
			if r.consumed[i] || (best >= 0 && i > best) || !p.Category.Interacts(r.enemies[i].Category) {
				return false
			}
			if physics.CircleRectOverlap(c, r.enemies[i].Rect()) {
				best = i
			}
			return false
		})
		if best < 0 {
			continue
		}

		r.consumed[best] = true
		en := r.enemies[best]
		events = append(events, Event{
			Kind:       ProjectileHit,
			Enemy:      en.ID,
			Projectile: p.ID,
			Position:   en.Position,
		})
	}
	return events
}

// prepareGrid returns a cleared grid whose cells are large enough that any
// overlapping projectile/enemy pair sits in neighbouring cells.
func (r *Resolver) prepareGrid() *physics.SpatialGrid {
	var reach float64
	for _, en := range r.enemies {
		rect := en.Rect()
		reach = max(reach, math.Hypot(rect.HalfW, rect.HalfH))
	}
	var radius float64
	for _, p := range r.projectiles {
		radius = max(radius, p.Circle().Radius)
	}
	cell := reach + radius

	if r.grid == nil || r.grid.CellSize() < cell {
		// Cover the field plus a spawn margin above and below; anything
		// further out is clamped onto the border cells.
		origin := physics.Vec{X: -r.bounds.Width - cell, Y: -r.bounds.Height - cell}
		r.grid = physics.NewSpatialGrid(origin, 2*(r.bounds.Width+cell), 2*(r.bounds.Height+cell), cell)
	} else {
		r.grid.Clear()
	}
	return r.grid
}
