package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// testSettings: a 200x200 field, the player at y=-80, enemies falling from
// y=110 to y=-100 in 6s (35 units/s), projectiles rising from y=-75 to
// y=110 in 300ms.
func testSettings() Settings {
	return Settings{
		Bounds:             physics.Bounds{Width: 100, Height: 100},
		PlayerSize:         physics.Size{Width: 10, Height: 10},
		EnemySize:          physics.Size{Width: 10, Height: 10},
		ProjectileWidth:    4,
		SpawnInterval:      750 * time.Millisecond,
		EnemyLifetime:      6 * time.Second,
		ProjectileLifetime: 300 * time.Millisecond,
		HitReward:          5,
		PlayerSpeed:        50,
		TiltSmoothing:      0.75,
		Seed:               1,
	}
}

// scriptedSpawner places enemies at the given x positions in order,
// repeating the last one.
type scriptedSpawner struct {
	xs    []float64
	calls int
}

func (s *scriptedSpawner) NextSpawn(bounds physics.Bounds, size physics.Size) (object.Variant, physics.Vec, error) {
	i := min(s.calls, len(s.xs)-1)
	s.calls++
	return object.VariantA, physics.Vec{X: s.xs[i], Y: bounds.Height + size.Height}, nil
}

type recordingHost struct {
	spawned []object.Entity
	removed []object.Despawn
	effects []Effect
}

func (h *recordingHost) SpawnVisual(e object.Entity)        { h.spawned = append(h.spawned, e) }
func (h *recordingHost) RemoveVisual(d object.Despawn)      { h.removed = append(h.removed, d) }
func (h *recordingHost) PlayEffect(e Effect, _ physics.Vec) { h.effects = append(h.effects, e) }

func (h *recordingHost) count(kind object.Kind) int {
	n := 0
	for _, e := range h.spawned {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (h *recordingHost) effectCount(effect Effect) int {
	n := 0
	for _, e := range h.effects {
		if e == effect {
			n++
		}
	}
	return n
}

func newStarted(t *testing.T, s Settings, opts ...Option) *Controller {
	t.Helper()
	c, err := New(s, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return c
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero bounds", func(s *Settings) { s.Bounds = physics.Bounds{} }},
		{"negative enemy size", func(s *Settings) { s.EnemySize.Width = -1 }},
		{"zero spawn interval", func(s *Settings) { s.SpawnInterval = 0 }},
		{"zero projectile lifetime", func(s *Settings) { s.ProjectileLifetime = 0 }},
		{"smoothing above one", func(s *Settings) { s.TiltSmoothing = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			tt.mutate(&s)
			if _, err := New(s); !errors.Is(err, ErrPrecondition) {
				t.Fatalf("expected ErrPrecondition, got %v", err)
			}
		})
	}
}

func TestDefaultSettingsAreValid(t *testing.T) {
	if _, err := New(DefaultSettings()); err != nil {
		t.Fatalf("New(DefaultSettings()): %v", err)
	}
}

func TestStartTransitions(t *testing.T) {
	host := &recordingHost{}
	c, _ := New(testSettings(), WithHost(host))

	if c.State() != NotStarted || c.Active() {
		t.Fatalf("expected NotStarted, got %s", c.State())
	}
	if _, ok := c.PlayerPosition(); ok {
		t.Fatalf("player exists before start")
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !c.Active() || c.Score() != 0 {
		t.Fatalf("expected active with score 0, got %s/%d", c.State(), c.Score())
	}
	pos, ok := c.PlayerPosition()
	if !ok || pos != (physics.Vec{X: 0, Y: -80}) {
		t.Fatalf("player at %+v (%v), want (0,-80)", pos, ok)
	}

	// A second start is an ignored transition.
	if err := c.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if host.count(object.KindPlayer) != 1 {
		t.Fatalf("expected exactly one player visual, got %d", host.count(object.KindPlayer))
	}
}

func TestFireIgnoredBeforeStart(t *testing.T) {
	host := &recordingHost{}
	c, _ := New(testSettings(), WithHost(host))

	c.Fire()
	if err := c.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if n := host.count(object.KindProjectile); n != 0 {
		t.Fatalf("fire before start produced %d projectiles", n)
	}
}

func TestFireQueuedRightBeforeStartIsDiscarded(t *testing.T) {
	host := &recordingHost{}
	c, _ := New(testSettings(), WithHost(host))

	c.Fire()
	c.Tilt(-1)
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if n := host.count(object.KindProjectile); n != 0 {
		t.Fatalf("fire requested while not started produced %d projectiles", n)
	}
	if pos, _ := c.PlayerPosition(); pos.X != 0 {
		t.Fatalf("tilt requested while not started moved the player to %v", pos)
	}
}

func TestSpawnsOnIntervalInclusive(t *testing.T) {
	tests := []struct {
		name  string
		step  time.Duration
		steps int
	}{
		{"quarter seconds", 250 * time.Millisecond, 12},
		{"exact interval", 750 * time.Millisecond, 4},
		{"single large tick", 3 * time.Second, 1},
		{"frames", 10 * time.Millisecond, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &recordingHost{}
			c := newStarted(t, testSettings(), WithHost(host), WithSpawner(&scriptedSpawner{xs: []float64{80}}))

			for i := 0; i < tt.steps; i++ {
				if err := c.Tick(tt.step); err != nil {
					t.Fatalf("Tick: %v", err)
				}
			}
			if c.Elapsed() != 3*time.Second {
				t.Fatalf("elapsed %v", c.Elapsed())
			}
			if n := host.count(object.KindEnemy); n != 4 {
				t.Fatalf("expected 4 enemies in 3s, got %d", n)
			}
			if c.EnemiesSpawned() != 4 {
				t.Fatalf("EnemiesSpawned() = %d", c.EnemiesSpawned())
			}
		})
	}
}

func TestFireAndHit(t *testing.T) {
	host := &recordingHost{}
	c := newStarted(t, testSettings(), WithHost(host),
		WithSpawner(&scriptedSpawner{xs: []float64{0, 80}}))

	const dt = 10 * time.Millisecond
	fired := false
	for i := 0; i < 500 && c.Score() == 0; i++ {
		if !fired && c.Elapsed() >= 3*time.Second {
			c.Fire()
			fired = true
		}
		if err := c.Tick(dt); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	if c.Score() != 5 {
		t.Fatalf("score = %d, want 5", c.Score())
	}
	if !c.Active() {
		t.Fatalf("game ended unexpectedly")
	}
	if host.count(object.KindProjectile) != 1 {
		t.Fatalf("expected one projectile, got %d", host.count(object.KindProjectile))
	}

	var target, shot object.ID
	for _, e := range host.spawned {
		switch {
		case e.Kind == object.KindEnemy && target == 0:
			target = e.ID
		case e.Kind == object.KindProjectile:
			shot = e.ID
		}
	}
	collided := map[object.ID]bool{}
	for _, d := range host.removed {
		if d.Reason == object.ReasonCollided {
			collided[d.ID] = true
		}
	}
	if len(collided) != 2 || !collided[target] || !collided[shot] {
		t.Fatalf("expected enemy %d and projectile %d collided, got %v", target, shot, collided)
	}
	if _, ok := c.registry.Get(target); ok {
		t.Fatalf("enemy still registered")
	}
	if c.registry.Count(object.KindProjectile) != 0 {
		t.Fatalf("projectile still registered")
	}
	if host.effectCount(EffectFire) != 1 || host.effectCount(EffectExplosion) != 1 {
		t.Fatalf("unexpected effects %v", host.effects)
	}
}

func TestEnemyHitsPlayer(t *testing.T) {
	host := &recordingHost{}
	c := newStarted(t, testSettings(), WithHost(host), WithSpawner(&scriptedSpawner{xs: []float64{0}}))

	const dt = 10 * time.Millisecond
	for i := 0; i < 1000 && c.Active(); i++ {
		if err := c.Tick(dt); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	if c.State() != GameOver {
		t.Fatalf("expected GameOver, got %s", c.State())
	}
	if c.Score() != 0 {
		t.Fatalf("score changed to %d", c.Score())
	}
	if _, ok := c.PlayerPosition(); ok {
		t.Fatalf("player still present after game over")
	}
	if c.registry.Player() != 0 {
		t.Fatalf("registry still holds a player")
	}

	spawned := len(host.spawned)
	enemies := c.EnemiesSpawned()
	for i := 0; i < 700; i++ {
		c.Fire()
		c.Tilt(1)
		if err := c.Tick(dt); err != nil {
			t.Fatalf("Tick after game over: %v", err)
		}
	}

	if len(host.spawned) != spawned || c.EnemiesSpawned() != enemies {
		t.Fatalf("entities spawned after game over")
	}
	if c.Score() != 0 || c.State() != GameOver {
		t.Fatalf("state changed after game over: %s/%d", c.State(), c.Score())
	}
	if n := host.effectCount(EffectPlayerDestroyed); n != 1 {
		t.Fatalf("expected one player-destroyed effect, got %d", n)
	}
	// Leftover enemies drain out of the field after the game ends.
	if c.registry.Count(object.KindEnemy) != 0 {
		t.Fatalf("%d enemies left after draining", c.registry.Count(object.KindEnemy))
	}
	if err := c.Start(); err != nil || c.State() != GameOver {
		t.Fatalf("restart from GameOver must be ignored: %v %s", err, c.State())
	}
}

func TestPlayerHitOutranksProjectileHitInSameTick(t *testing.T) {
	host := &recordingHost{}
	c := newStarted(t, testSettings(), WithHost(host), WithSpawner(&scriptedSpawner{xs: []float64{80}}))

	place := func(kind object.Kind, at physics.Vec, size physics.Size) object.ID {
		t.Helper()
		id, err := c.registry.Spawn(kind, at, object.Stationary(at),
			object.WithSize(size), object.WithLifetime(time.Second))
		if err != nil {
			t.Fatalf("Spawn %s: %v", kind, err)
		}
		return id
	}
	enemySize := physics.Size{Width: 10, Height: 10}
	// One enemy on top of the player, another with a projectile inside it.
	place(object.KindEnemy, physics.Vec{X: 0, Y: -78}, enemySize)
	target := place(object.KindEnemy, physics.Vec{X: 50, Y: 0}, enemySize)
	shot := place(object.KindProjectile, physics.Vec{X: 50, Y: -4}, physics.Size{Width: 4, Height: 4})

	if err := c.Tick(10 * time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.State() != GameOver {
		t.Fatalf("expected GameOver, got %s", c.State())
	}
	if c.Score() != 0 {
		t.Fatalf("score = %d, want 0", c.Score())
	}
	if _, ok := c.registry.Get(target); !ok {
		t.Fatalf("enemy under the projectile was consumed")
	}
	if _, ok := c.registry.Get(shot); !ok {
		t.Fatalf("projectile was consumed")
	}

	// The overlap persists, but nothing resolves after game over.
	for i := 0; i < 10; i++ {
		if err := c.Tick(10 * time.Millisecond); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if c.Score() != 0 {
		t.Fatalf("score changed after game over: %d", c.Score())
	}
	if n := host.effectCount(EffectPlayerDestroyed); n != 1 {
		t.Fatalf("player destroyed played %d times", n)
	}
	if n := host.effectCount(EffectExplosion); n != 0 {
		t.Fatalf("explosion played %d times", n)
	}
}

func TestTiltMovesPlayerWithinBounds(t *testing.T) {
	c := newStarted(t, testSettings(), WithSpawner(&scriptedSpawner{xs: []float64{80}}))

	c.Tilt(1)
	if err := c.Tick(100 * time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	pos, _ := c.PlayerPosition()
	// s = 1*0.75 + 0*0.25, moved 0.75 * 50 * 0.1
	if pos.X < 3.749 || pos.X > 3.751 {
		t.Fatalf("x = %f, want 3.75", pos.X)
	}

	// Enemies fall at x=80, far from the player's path to the left edge.
	for i := 0; i < 40; i++ {
		c.Tilt(-5)
		if err := c.Tick(100 * time.Millisecond); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if !c.Active() {
		t.Fatalf("game ended while steering left")
	}
	pos, ok := c.PlayerPosition()
	if !ok {
		t.Fatalf("player missing")
	}
	// Half-width 5 inside a field of half-width 100.
	if pos.X != -95 {
		t.Fatalf("x = %f, want the player stopped at -95", pos.X)
	}
}

func TestScoreNeverDecreasesSeeded(t *testing.T) {
	s := testSettings()
	s.Seed = 99
	host := &recordingHost{}
	c := newStarted(t, s, WithHost(host))

	prev := 0
	over := false
	for i := 0; i < 6000; i++ {
		if i%7 == 0 {
			c.Fire()
		}
		if err := c.Tick(16 * time.Millisecond); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		score := c.Score()
		if score < prev || (score-prev)%5 != 0 {
			t.Fatalf("score went from %d to %d", prev, score)
		}
		if over && score != prev {
			t.Fatalf("score changed after game over")
		}
		over = over || !c.Active()
		prev = score
	}

	if want := host.effectCount(EffectExplosion) * 5; c.Score() != want {
		t.Fatalf("score %d does not match %d hits", c.Score(), want/5)
	}
}

func TestFireAndTiltAreSafeAcrossGoroutines(t *testing.T) {
	c := newStarted(t, testSettings())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Fire()
				c.Tilt(0.5)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if err := c.Tick(time.Millisecond); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	wg.Wait()
}

func TestHostsFanOut(t *testing.T) {
	a, b := &recordingHost{}, &recordingHost{}
	h := Hosts(a, NopHost{}, b)

	h.SpawnVisual(object.Entity{ID: 1, Kind: object.KindEnemy})
	h.RemoveVisual(object.Despawn{ID: 1})
	h.PlayEffect(EffectExplosion, physics.Vec{})

	for _, r := range []*recordingHost{a, b} {
		if len(r.spawned) != 1 || len(r.removed) != 1 || len(r.effects) != 1 {
			t.Fatalf("host missed instructions: %+v", r)
		}
	}
}
