// Package audio plays the game's sound effects through the system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/physics"
)

const sampleRate = beep.SampleRate(44100)

// Player is a game.Host that turns effects into sounds. Without a working
// audio device it stays silent.
type Player struct {
	game.NopHost

	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	log         *zap.Logger
}

// NewPlayer creates a player; call Init before effects become audible.
func NewPlayer(log *zap.Logger) *Player {
	return &Player{mixer: &beep.Mixer{}, log: log}
}

// Init opens the speaker. Failing to do so is logged and leaves the
// player silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.log.Warn("audio disabled", zap.Error(err))
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops every sound.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// PlayEffect implements game.Host.
func (p *Player) PlayEffect(effect game.Effect, _ physics.Vec) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := Streamer(effect)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Streamer returns the finite sound for an effect, or nil for none.
func Streamer(effect game.Effect) beep.Streamer {
	switch effect {
	case game.EffectFire:
		return beep.Take(sampleRate.N(80*time.Millisecond), NewChirp(sampleRate, 1400, 500, 80*time.Millisecond))
	case game.EffectExplosion:
		return beep.Take(sampleRate.N(250*time.Millisecond), NewBurst(sampleRate, 250*time.Millisecond, 0.35, 1))
	case game.EffectPlayerDestroyed:
		return beep.Take(sampleRate.N(900*time.Millisecond), NewBurst(sampleRate, 900*time.Millisecond, 0.5, 7))
	default:
		return nil
	}
}
