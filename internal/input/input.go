// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, so a held arrow key is a stream of presses.
const keyHoldDuration = 120 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Fire  int  // fire presses since the previous frame
	Start bool // space or enter pressed this frame
	EOF   bool // the stream ended
}

// Tilt maps the held direction keys to a horizontal bias in [-1, 1].
func (in Input) Tilt() float64 {
	switch {
	case in.Left && !in.Right:
		return -1
	case in.Right && !in.Left:
		return 1
	default:
		return 0
	}
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return s.Read(time.Now())
}

// Read drains the available bytes and reports the input as of now.
func (s *Stream) Read(now time.Time) Input {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, now)
	in.EOF = s.closed
	return in
}

// parse updates key state from buf and builds the frame's input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			case 'A':
				in.Fire++
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', '\x03':
			in.Quit = true
		case 'a', 'A', 'h', 'H':
			s.state.left = now
		case 'd', 'D', 'l', 'L':
			s.state.right = now
		case ' ':
			in.Fire++
			in.Start = true
		case 'k', 'K', 'w', 'W':
			in.Fire++
		case '\n', '\r':
			in.Start = true
		}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}
