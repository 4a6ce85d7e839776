package object

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

var (
	// ErrPrecondition marks invalid arguments (caller bug).
	ErrPrecondition = errors.New("precondition violation")
	// ErrPlayerExists is returned when a second player is spawned.
	ErrPlayerExists = errors.New("player already exists")
)

// Option configures an entity at spawn.
type Option func(*Entity)

// WithSize sets the bounding box size. Every entity needs one.
func WithSize(s physics.Size) Option {
	return func(e *Entity) { e.Size = s }
}

// WithLifetime sets how long the entity lives before it expires.
func WithLifetime(d time.Duration) Option {
	return func(e *Entity) { e.Lifetime = d }
}

// WithVariant sets the enemy variant.
func WithVariant(v Variant) Option {
	return func(e *Entity) { e.Variant = v }
}

// Registry is the sole owner of entity records. It keeps spawn order, which
// is also the iteration order used for collision tie-breaks.
type Registry struct {
	bounds    physics.Bounds
	now       time.Duration
	nextID    ID
	entities  []*Entity // spawn order, may contain removed entries while iterating
	byID      map[ID]*Entity
	player    ID
	iterating int  // nesting depth of ForEach
	dirty     bool // removed entries awaiting compaction
	despawned []Despawn
}

// NewRegistry creates an empty registry for the given play field.
func NewRegistry(bounds physics.Bounds) (*Registry, error) {
	if !bounds.Valid() {
		return nil, fmt.Errorf("registry bounds %+v: %w", bounds, ErrPrecondition)
	}
	return &Registry{
		bounds:   bounds,
		nextID:   1,
		entities: make([]*Entity, 0, 64),
		byID:     make(map[ID]*Entity, 64),
	}, nil
}

// Now returns the registry clock (sum of all Advance steps).
func (r *Registry) Now() time.Duration {
	return r.now
}

// Spawn adds an entity at position moving along traj. The trajectory is
// re-anchored so that it starts at position at the current clock.
func (r *Registry) Spawn(kind Kind, position physics.Vec, traj Trajectory, opts ...Option) (ID, error) {
	if kind == KindPlayer && r.player != 0 {
		return 0, ErrPlayerExists
	}

	e := &Entity{
		Kind:      kind,
		Category:  CategoryOf(kind),
		Position:  position,
		SpawnTime: r.now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.Size.Valid() {
		return 0, fmt.Errorf("spawn %s with size %+v: %w", kind, e.Size, ErrPrecondition)
	}
	if e.Lifetime < 0 {
		return 0, fmt.Errorf("spawn %s with lifetime %v: %w", kind, e.Lifetime, ErrPrecondition)
	}

	traj.From = position
	traj.Start = r.now
	e.Trajectory = traj

	e.ID = r.nextID
	r.nextID++
	r.entities = append(r.entities, e)
	r.byID[e.ID] = e
	if kind == KindPlayer {
		r.player = e.ID
	}
	return e.ID, nil
}

// Get returns a copy of a live entity.
func (r *Registry) Get(id ID) (Entity, bool) {
	e, ok := r.byID[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Player returns the player's id, or 0 when there is none.
func (r *Registry) Player() ID {
	return r.player
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Count returns the number of live entities of a kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, e := range r.byID {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// SetPosition moves an entity and restarts its trajectory from there.
func (r *Registry) SetPosition(id ID, p physics.Vec) bool {
	e, ok := r.byID[id]
	if !ok {
		return false
	}
	e.Position = p
	e.Trajectory.From = p
	e.Trajectory.Start = r.now
	return true
}

// Remove takes an entity out of the registry and records a despawn event.
// During ForEach the slot is compacted when the outermost iteration ends;
// the entity is never visited again either way.
func (r *Registry) Remove(id ID, reason Reason) bool {
	e, ok := r.byID[id]
	if !ok {
		return false
	}
	e.removed = true
	delete(r.byID, id)
	if id == r.player {
		r.player = 0
	}
	r.despawned = append(r.despawned, Despawn{ID: id, Kind: e.Kind, Reason: reason, Position: e.Position})

	r.dirty = true
	if r.iterating == 0 {
		r.compact()
	}
	return true
}

// ForEach visits live entities in spawn order.
func (r *Registry) ForEach(visit func(e *Entity)) {
	r.iterating++
	// Entities spawned during the visit are not visited.
	n := len(r.entities)
	for i := 0; i < n; i++ {
		e := r.entities[i]
		if e.removed {
			continue
		}
		visit(e)
	}
	r.iterating--
	if r.iterating == 0 && r.dirty {
		r.compact()
	}
}

// Entities returns the live entities in spawn order. The pointers stay valid
// until the next mutating call.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.byID))
	r.ForEach(func(e *Entity) {
		out = append(out, e)
	})
	return out
}

// Advance moves the clock by dt, places every entity on its trajectory and
// removes entities that fell below the play field or outlived their lifetime.
// The player is positioned explicitly and never despawned here.
func (r *Registry) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	r.now += dt

	r.ForEach(func(e *Entity) {
		if e.Kind == KindPlayer {
			return
		}
		e.Position = e.Trajectory.At(r.now)

		switch {
		case r.belowField(e):
			r.Remove(e.ID, ReasonLeftBounds)
		case e.Lifetime > 0 && e.Age(r.now) >= e.Lifetime:
			r.Remove(e.ID, ReasonExpired)
		}
	})
}

// Despawned drains the despawn events recorded since the last call.
func (r *Registry) Despawned() []Despawn {
	if len(r.despawned) == 0 {
		return nil
	}
	out := r.despawned
	r.despawned = nil
	return out
}

// belowField reports whether the entity is entirely below the lower edge.
func (r *Registry) belowField(e *Entity) bool {
	return e.Position.Y+e.Size.Height/2 < -r.bounds.Height
}

func (r *Registry) compact() {
	kept := r.entities[:0]
	for _, e := range r.entities {
		if !e.removed {
			kept = append(kept, e)
		}
	}
	// Drop references held past the new length.
	for i := len(kept); i < len(r.entities); i++ {
		r.entities[i] = nil
	}
	r.entities = kept
	r.dirty = false
}
