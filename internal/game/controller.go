// Package game runs the shooter rules: timed enemy spawns, firing, collision
// outcomes, score and the game-over transition.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/collision"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
	"github.com/tomz197/spaceshooter/internal/spawn"
)

// State is the controller's lifecycle stage.
type State int

const (
	NotStarted State = iota
	Active
	GameOver
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Active:
		return "active"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Spawner decides the variant and position of the next enemy.
type Spawner interface {
	NextSpawn(bounds physics.Bounds, size physics.Size) (object.Variant, physics.Vec, error)
}

const inboxSize = 64

type commandKind int

const (
	cmdFire commandKind = iota
	cmdTilt
)

// command is an input posted from any goroutine and applied on the next tick.
type command struct {
	kind commandKind
	tilt float64
}

// Option customizes a Controller.
type Option func(*Controller)

// WithHost sets the presentation host.
func WithHost(h Host) Option {
	return func(c *Controller) { c.host = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithSpawner replaces the seeded random spawn policy.
func WithSpawner(s Spawner) Option {
	return func(c *Controller) { c.spawner = s }
}

// Controller owns the registry and the game state. Tick and the accessors
// must be called from one goroutine; Fire and Tilt are safe from any.
type Controller struct {
	settings Settings
	registry *object.Registry
	resolver *collision.Resolver
	spawner  Spawner
	host     Host
	log      *zap.Logger

	inbox chan command

	state     State
	score     int
	tilt      float64 // smoothed horizontal bias in [-1, 1]
	nextSpawn time.Duration
	enemies   int // enemies spawned so far
}

// New creates a controller in the NotStarted state.
func New(settings Settings, opts ...Option) (*Controller, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	registry, err := object.NewRegistry(settings.Bounds)
	if err != nil {
		return nil, fmt.Errorf("new registry: %w", err)
	}
	resolver, err := collision.NewResolver(settings.Bounds)
	if err != nil {
		return nil, fmt.Errorf("new resolver: %w", err)
	}

	c := &Controller{
		settings: settings,
		registry: registry,
		resolver: resolver,
		host:     NopHost{},
		log:      zap.NewNop(),
		inbox:    make(chan command, inboxSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.spawner == nil {
		c.spawner = spawn.NewPolicy(spawn.NewSeeded(settings.Seed))
	}
	return c, nil
}

// Start spawns the player and begins the game. Calls in any state other than
// NotStarted are ignored.
func (c *Controller) Start() error {
	if c.state != NotStarted {
		c.log.Debug("ignoring start", zap.Stringer("state", c.state))
		return nil
	}

	// Inputs posted before the game began are discarded.
	c.drainInbox()

	pos := c.settings.PlayerStart()
	id, err := c.registry.Spawn(object.KindPlayer, pos, object.Stationary(pos), object.WithSize(c.settings.PlayerSize))
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	c.emitSpawn(id)

	c.state = Active
	c.nextSpawn = c.registry.Now() + c.settings.SpawnInterval
	c.log.Info("game started",
		zap.Float64("width", c.settings.Bounds.Width),
		zap.Float64("height", c.settings.Bounds.Height),
		zap.Duration("spawn_interval", c.settings.SpawnInterval))
	return nil
}

// Fire requests a projectile on the next tick. Ignored unless Active.
func (c *Controller) Fire() {
	c.post(command{kind: cmdFire})
}

// Tilt posts a raw horizontal bias sample in [-1, 1] (values outside are
// clamped). Samples are smoothed on the next tick.
func (c *Controller) Tilt(raw float64) {
	c.post(command{kind: cmdTilt, tilt: physics.Clamp(raw, -1, 1)})
}

func (c *Controller) post(cmd command) {
	select {
	case c.inbox <- cmd:
	default:
		// Inbox full, drop input
	}
}

// Tick advances the simulation by dt.
func (c *Controller) Tick(dt time.Duration) error {
	if dt < 0 {
		dt = 0
	}

	// Apply queued inputs
	c.drainInbox()

	switch c.state {
	case NotStarted:
		return nil
	case GameOver:
		// Entities keep moving so their visuals can leave the field.
		c.registry.Advance(dt)
		c.flushDespawns()
		return nil
	}

	c.movePlayer(dt)
	c.registry.Advance(dt)

	if err := c.spawnDue(); err != nil {
		return err
	}

	events, err := c.resolver.Resolve(c.registry.Entities())
	if err != nil {
		return fmt.Errorf("resolve collisions: %w", err)
	}
	c.applyEvents(events)

	c.flushDespawns()
	return nil
}

// drainInbox applies every pending command. Commands arriving outside the
// Active state are discarded.
func (c *Controller) drainInbox() {
	for {
		select {
		case cmd := <-c.inbox:
			if c.state != Active {
				continue
			}
			switch cmd.kind {
			case cmdFire:
				c.fire()
			case cmdTilt:
				k := c.settings.TiltSmoothing
				c.tilt = cmd.tilt*k + c.tilt*(1-k)
			}
		default:
			return
		}
	}
}

// fire launches a projectile just above the player, travelling past the top
// edge within its lifetime.
func (c *Controller) fire() {
	player, ok := c.registry.Get(c.registry.Player())
	if !ok {
		return
	}

	from := player.Position.Add(physics.Vec{Y: 5})
	to := physics.Vec{X: from.X, Y: c.settings.Bounds.Height + 10}
	id, err := c.registry.Spawn(object.KindProjectile, from,
		object.MoveTo(from, to, c.settings.ProjectileLifetime),
		object.WithSize(c.settings.ProjectileSize()),
		object.WithLifetime(c.settings.ProjectileLifetime))
	if err != nil {
		c.log.Error("spawn projectile", zap.Error(err))
		return
	}
	c.emitSpawn(id)
	c.host.PlayEffect(EffectFire, from)
}

// movePlayer applies the smoothed tilt as horizontal motion, keeping the
// player inside the field.
func (c *Controller) movePlayer(dt time.Duration) {
	if c.tilt == 0 {
		return
	}
	player, ok := c.registry.Get(c.registry.Player())
	if !ok {
		return
	}

	limit := c.settings.Bounds.Width - c.settings.PlayerSize.Width/2
	x := player.Position.X + c.tilt*c.settings.PlayerSpeed*dt.Seconds()
	c.registry.SetPosition(player.ID, physics.Vec{X: physics.Clamp(x, -limit, limit), Y: player.Position.Y})
}

// spawnDue creates one enemy for every spawn instant reached by the clock.
// An instant that falls exactly on the current time counts as reached.
func (c *Controller) spawnDue() error {
	for c.registry.Now() >= c.nextSpawn {
		if err := c.spawnEnemy(); err != nil {
			return err
		}
		c.nextSpawn += c.settings.SpawnInterval
	}
	return nil
}

func (c *Controller) spawnEnemy() error {
	size := c.settings.EnemySize
	variant, pos, err := c.spawner.NextSpawn(c.settings.Bounds, size)
	if err != nil {
		return fmt.Errorf("next spawn: %w", err)
	}

	to := physics.Vec{X: pos.X, Y: -c.settings.Bounds.Height}
	id, err := c.registry.Spawn(object.KindEnemy, pos,
		object.MoveTo(pos, to, c.settings.EnemyLifetime),
		object.WithSize(size),
		object.WithLifetime(c.settings.EnemyLifetime),
		object.WithVariant(variant))
	if err != nil {
		return fmt.Errorf("spawn enemy: %w", err)
	}
	c.enemies++
	c.emitSpawn(id)
	return nil
}

// applyEvents turns resolved contacts into score, removals and effects.
func (c *Controller) applyEvents(events []collision.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case collision.PlayerHit:
			for _, id := range ev.Consumed() {
				c.registry.Remove(id, object.ReasonCollided)
			}
			c.state = GameOver
			c.host.PlayEffect(EffectPlayerDestroyed, ev.Position)
			c.log.Info("game over",
				zap.Int("score", c.score),
				zap.Int("enemies_spawned", c.enemies),
				zap.Duration("elapsed", c.registry.Now()))
			// Nothing else resolves once the player is gone.
			return

		case collision.ProjectileHit:
			for _, id := range ev.Consumed() {
				c.registry.Remove(id, object.ReasonCollided)
			}
			c.score += c.settings.HitReward
			c.host.PlayEffect(EffectExplosion, ev.Position)
			c.log.Debug("enemy destroyed",
				zap.Uint64("enemy", uint64(ev.Enemy)),
				zap.Int("score", c.score))
		}
	}
}

func (c *Controller) emitSpawn(id object.ID) {
	if e, ok := c.registry.Get(id); ok {
		c.host.SpawnVisual(e)
	}
}

func (c *Controller) flushDespawns() {
	for _, d := range c.registry.Despawned() {
		c.host.RemoveVisual(d)
	}
}

// State returns the lifecycle stage.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether the game is running.
func (c *Controller) Active() bool {
	return c.state == Active
}

// Score returns the points earned so far.
func (c *Controller) Score() int {
	return c.score
}

// PlayerPosition returns the player's position. The second result is false
// when no player exists (before Start or after game over).
func (c *Controller) PlayerPosition() (physics.Vec, bool) {
	e, ok := c.registry.Get(c.registry.Player())
	if !ok {
		return physics.Vec{}, false
	}
	return e.Position, true
}

// Elapsed returns the simulated time since the controller was created.
func (c *Controller) Elapsed() time.Duration {
	return c.registry.Now()
}

// EnemiesSpawned returns how many enemies have been spawned.
func (c *Controller) EnemiesSpawned() int {
	return c.enemies
}

// Bounds returns the play field.
func (c *Controller) Bounds() physics.Bounds {
	return c.settings.Bounds
}

// ForEach visits the live entities in spawn order. The visitor must not
// keep the pointer.
func (c *Controller) ForEach(visit func(e *object.Entity)) {
	c.registry.ForEach(visit)
}
