package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Chirp is a sine sweep from one frequency to another, fading out.
type Chirp struct {
	sr       beep.SampleRate
	from, to float64
	samples  int
	pos      int
	phase    float64
}

// NewChirp creates a sweep lasting d.
func NewChirp(sr beep.SampleRate, from, to float64, d time.Duration) *Chirp {
	return &Chirp{sr: sr, from: from, to: to, samples: max(sr.N(d), 1)}
}

func (g *Chirp) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := math.Min(float64(g.pos)/float64(g.samples), 1)
		freq := g.from + (g.to-g.from)*progress
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		sample := 0.25 * (1 - progress) * math.Sin(g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Chirp) Err() error {
	return nil
}

// Burst is decaying noise, low-passed by averaging over a window.
type Burst struct {
	sr      beep.SampleRate
	samples int
	gain    float64
	smooth  int
	pos     int
	seed    uint32
	window  []float64
	sum     float64
}

// NewBurst creates a noise burst lasting d. A larger smooth gives a deeper
// rumble.
func NewBurst(sr beep.SampleRate, d time.Duration, gain float64, smooth int) *Burst {
	smooth = max(smooth, 1)
	return &Burst{
		sr:      sr,
		samples: max(sr.N(d), 1),
		gain:    gain,
		smooth:  smooth,
		seed:    0x2545f491,
		window:  make([]float64, smooth),
	}
}

func (g *Burst) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		// xorshift32
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		slot := g.pos % g.smooth
		g.sum += noise - g.window[slot]
		g.window[slot] = noise

		progress := math.Min(float64(g.pos)/float64(g.samples), 1)
		envelope := (1 - progress) * (1 - progress)
		sample := g.gain * envelope * g.sum / float64(g.smooth)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Burst) Err() error {
	return nil
}
