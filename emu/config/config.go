// Package config holds the emulator settings read through viper from flags,
// the ~/.chyp8 config file and CHYP8_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyClock   = "clock"
	KeyRefresh = "refresh"
	KeyScale   = "scale"
	KeyBeep    = "beep"
	KeyTone    = "tone"
	KeyDebug   = "debug"
	KeyStep    = "step"
	KeyKeymap  = "keymap"
)

// MaxClock is the fastest clock that still leaves each instruction a
// nonzero duration.
const MaxClock = int(time.Second)

// DefaultKeymap lays CHIP-8 keys 0-F out on the left of a qwerty keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var DefaultKeymap = []string{
	"X", "1", "2", "3",
	"Q", "W", "E", "A",
	"S", "D", "Z", "C",
	"4", "R", "F", "V",
}

type Config struct {
	Clock   int     //instructions per second
	Refresh int     //display frames per second
	Scale   float64 //window pixels per CHIP-8 pixel
	Beep    string  //optional mp3 played while the sound timer runs
	Tone    float64 //Hz of the generated tone when no mp3 is given
	Debug   bool
	Step    bool
	Keymap  []string //key name for CHIP-8 keys 0-F
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyClock, 700)
	v.SetDefault(KeyRefresh, 60)
	v.SetDefault(KeyScale, 10.0)
	v.SetDefault(KeyBeep, "")
	v.SetDefault(KeyTone, 440.0)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyStep, false)
	v.SetDefault(KeyKeymap, DefaultKeymap)
}

// Load reads a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Clock:   v.GetInt(KeyClock),
		Refresh: v.GetInt(KeyRefresh),
		Scale:   v.GetFloat64(KeyScale),
		Beep:    v.GetString(KeyBeep),
		Tone:    v.GetFloat64(KeyTone),
		Debug:   v.GetBool(KeyDebug),
		Step:    v.GetBool(KeyStep),
		Keymap:  v.GetStringSlice(KeyKeymap),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Clock <= 0 || c.Clock > MaxClock {
		errs = append(errs, fmt.Errorf("clock must be between 1 and %d, got %d", MaxClock, c.Clock))
	}
	if c.Refresh <= 0 || c.Refresh > MaxClock {
		errs = append(errs, fmt.Errorf("refresh must be between 1 and %d, got %d", MaxClock, c.Refresh))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %g", c.Scale))
	}
	if c.Tone <= 0 {
		errs = append(errs, fmt.Errorf("tone must be positive, got %g", c.Tone))
	}
	if len(c.Keymap) != 16 {
		errs = append(errs, fmt.Errorf("keymap needs 16 keys, got %d", len(c.Keymap)))
	}
	return errors.Join(errs...)
}

// CycleDuration is the time one instruction gets at the configured clock.
func (c *Config) CycleDuration() time.Duration {
	return time.Second / time.Duration(c.Clock)
}

// FrameDuration is the time between two presented frames.
func (c *Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.Refresh)
}
