package game

import (
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Effect is a fire-and-forget cue for the presentation layer.
type Effect int

const (
	EffectFire Effect = iota
	EffectExplosion
	EffectPlayerDestroyed
)

func (e Effect) String() string {
	switch e {
	case EffectFire:
		return "fire"
	case EffectExplosion:
		return "explosion"
	case EffectPlayerDestroyed:
		return "player-destroyed"
	default:
		return "unknown"
	}
}

// Host receives presentation instructions from the controller. Calls happen
// on the goroutine running Tick and must not block.
type Host interface {
	SpawnVisual(e object.Entity)
	RemoveVisual(d object.Despawn)
	PlayEffect(effect Effect, at physics.Vec)
}

// NopHost ignores every instruction. Embed it to implement only part of Host.
type NopHost struct{}

func (NopHost) SpawnVisual(object.Entity)      {}
func (NopHost) RemoveVisual(object.Despawn)    {}
func (NopHost) PlayEffect(Effect, physics.Vec) {}

type multiHost []Host

// Hosts fans instructions out to every host in order.
func Hosts(hosts ...Host) Host {
	return multiHost(hosts)
}

func (m multiHost) SpawnVisual(e object.Entity) {
	for _, h := range m {
		h.SpawnVisual(e)
	}
}

func (m multiHost) RemoveVisual(d object.Despawn) {
	for _, h := range m {
		h.RemoveVisual(d)
	}
}

func (m multiHost) PlayEffect(effect Effect, at physics.Vec) {
	for _, h := range m {
		h.PlayEffect(effect, at)
	}
}
