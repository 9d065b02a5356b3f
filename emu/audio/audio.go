// Package audio builds the buzzer sound and gates it on the sound timer.
// The speaker device itself is opened by the caller.
package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
)

const (
	SampleRate = beep.SampleRate(44100)
	amplitude  = 0.3
)

// Square returns an endless square wave at freq Hz.
func Square(sr beep.SampleRate, freq float64) beep.Streamer {
	period := float64(sr) / freq
	var pos float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := amplitude
			if math.Mod(pos, period) >= period/2 {
				v = -amplitude
			}
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
}

// LoadMP3 decodes the whole file into memory and returns it looped forever.
func LoadMP3(path string) (beep.Streamer, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, beep.Format{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return beep.Loop(-1, buf.Streamer(0, buf.Len())), format, nil
}

// Gate pauses and resumes a streamer from the emulator loop while the
// speaker goroutine reads it. lock and unlock guard the streamer, normally
// speaker.Lock and speaker.Unlock.
type Gate struct {
	ctrl   *beep.Ctrl
	lock   func()
	unlock func()
}

func NewGate(s beep.Streamer, lock, unlock func()) *Gate {
	return &Gate{
		ctrl:   &beep.Ctrl{Streamer: s, Paused: true},
		lock:   lock,
		unlock: unlock,
	}
}

// Streamer is what gets handed to the speaker.
func (g *Gate) Streamer() beep.Streamer {
	return g.ctrl
}

func (g *Gate) SetTone(on bool) {
	g.lock()
	g.ctrl.Paused = !on
	g.unlock()
}

func (g *Gate) Playing() bool {
	g.lock()
	defer g.unlock()
	return !g.ctrl.Paused
}
