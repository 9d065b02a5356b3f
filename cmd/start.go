package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/config"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/runner"
	"github.com/beanboi7/chyp8/emu/screen"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// chyp8 start 'path/to/ROM' -c 700
func Start(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Debug)

	rom, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	emu, err := cpu.NewEMU(rom, cpu.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}
	logger.Info("loaded ROM", "path", args[0], "bytes", len(rom))

	win, err := screen.NewWindow("Chyp8", cfg.Scale, cfg.Keymap)
	if err != nil {
		return err
	}
	defer win.Close()

	var spk runner.Speaker
	if gate, err := openSpeaker(cfg); err != nil {
		// run silent rather than not at all
		logger.Warn("audio disabled", "err", err)
	} else {
		spk = gate
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := runner.New(emu, win, spk, runner.Options{
		Cycle:  cfg.CycleDuration(),
		Frame:  cfg.FrameDuration(),
		Step:   cfg.Step,
		Logger: logger,
	})
	err = r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openSpeaker initialises the speaker with the configured beep, or a
// generated square wave when none is set.
func openSpeaker(cfg *config.Config) (*audio.Gate, error) {
	sr := audio.SampleRate
	s := audio.Square(sr, cfg.Tone)
	if cfg.Beep != "" {
		var (
			format beep.Format
			err    error
		)
		s, format, err = audio.LoadMP3(cfg.Beep)
		if err != nil {
			return nil, err
		}
		sr = format.SampleRate
	}

	if err := speaker.Init(sr, sr.N(cfg.FrameDuration())); err != nil {
		return nil, fmt.Errorf("initialising speaker: %w", err)
	}
	gate := audio.NewGate(s, speaker.Lock, speaker.Unlock)
	speaker.Play(gate.Streamer())
	return gate, nil
}

func init() {
	rootCmd.AddCommand(startCmd)

	flags := startCmd.Flags()
	flags.IntP(config.KeyClock, "c", 700, "instructions executed per second")
	flags.IntP(config.KeyRefresh, "r", 60, "sets the refresh rate of the display")
	flags.Float64P(config.KeyScale, "s", 10, "window pixels per Chip-8 pixel")
	flags.String(config.KeyBeep, "", "mp3 file played while the sound timer runs")
	flags.Float64(config.KeyTone, 440, "frequency of the generated beep in Hz")
	flags.Bool(config.KeyStep, false, "execute one instruction per press of the space bar")
	flags.StringSlice(config.KeyKeymap, config.DefaultKeymap, "keyboard keys for Chip-8 keys 0-F")

	for _, key := range []string{
		config.KeyClock, config.KeyRefresh, config.KeyScale, config.KeyBeep,
		config.KeyTone, config.KeyStep, config.KeyKeymap,
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(key)))
	}
}
