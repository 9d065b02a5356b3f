// Package runner drives an interpreter in real time: it paces instruction
// steps at the configured clock, ticks the timers from wall clock time,
// feeds input in and hands finished frames and the tone state out.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/display"
)

// Keypad receives logical key events 0-F.
type Keypad interface {
	KeyDown(k uint8)
	KeyUp(k uint8)
	PressKey(k uint8)
}

// Frontend is the window side of the emulator.
type Frontend interface {
	Closed() bool
	// Poll forwards pending input to k and reports whether a single step
	// was requested.
	Poll(k Keypad) bool
	Render(frame display.Frame)
	Update()
}

// Speaker plays the buzzer while on.
type Speaker interface {
	SetTone(on bool)
}

type Options struct {
	Cycle time.Duration //time per instruction
	Frame time.Duration //time per presented frame
	Tick  time.Duration //loop wake up interval, defaults to Cycle
	Step  bool          //one instruction per step request instead of Cycle pacing

	Logger *slog.Logger
	Now    func() time.Time
}

type Runner struct {
	emu   *cpu.EMU
	front Frontend
	spk   Speaker
	opts  Options
	log   *slog.Logger

	budget    time.Duration
	last      time.Time
	lastFrame time.Time
	tone      bool
	cycles    uint64
}

func New(emu *cpu.EMU, front Frontend, spk Speaker, opts Options) *Runner {
	if opts.Cycle <= 0 {
		opts.Cycle = time.Nanosecond
	}
	if opts.Tick <= 0 {
		opts.Tick = opts.Cycle
	}
	if opts.Tick < 100*time.Microsecond {
		opts.Tick = 100 * time.Microsecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if spk == nil {
		spk = nopSpeaker{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		emu:   emu,
		front: front,
		spk:   spk,
		opts:  opts,
		log:   log,
	}
}

// Cycles is the number of instructions executed so far.
func (r *Runner) Cycles() uint64 {
	return r.cycles
}

// Run loops until the window closes, ctx is cancelled or the program hits
// a fatal condition. The tone is switched off on return.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Tick)
	defer ticker.Stop()
	defer r.spk.SetTone(false)

	r.last = r.opts.Now()
	r.lastFrame = r.last
	r.present()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if r.front.Closed() {
			r.log.Info("window closed", "cycles", r.cycles)
			return nil
		}
		if err := r.tick(); err != nil {
			r.log.Error("emulation halted", "err", err, "cycles", r.cycles)
			r.log.Debug("machine state\n" + r.emu.String())
			return err
		}
	}
}

func (r *Runner) tick() error {
	now := r.opts.Now()
	elapsed := now.Sub(r.last)
	r.last = now

	m := r.emu.Machine()
	stepRequested := r.front.Poll(m)
	m.TickTimers(elapsed)

	if r.opts.Step {
		if stepRequested {
			if err := r.cycle(); err != nil {
				return err
			}
		}
	} else {
		//after a stall catch up on at most a frame, or one cycle when the
		//clock is slower than the refresh rate
		r.budget += min(elapsed, max(r.opts.Frame, r.opts.Cycle))
		for r.budget >= r.opts.Cycle {
			if err := r.cycle(); err != nil {
				return err
			}
			r.budget -= r.opts.Cycle
		}
	}

	if tone := m.SoundTimer() > 0; tone != r.tone {
		r.tone = tone
		r.spk.SetTone(tone)
	}

	if now.Sub(r.lastFrame) >= r.opts.Frame {
		r.lastFrame = now
		r.present()
	}
	r.front.Update()
	return nil
}

func (r *Runner) cycle() error {
	if err := r.emu.EmulateCycle(); err != nil {
		return fmt.Errorf("cycle %d: %w", r.cycles, err)
	}
	r.cycles++
	return nil
}

func (r *Runner) present() {
	if frame, dirty := r.emu.Display().TakeFrame(); dirty {
		r.front.Render(frame)
	}
}

type nopSpeaker struct{}

func (nopSpeaker) SetTone(bool) {}
