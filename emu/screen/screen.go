package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/beanboi7/chyp8/emu/display"
	"github.com/beanboi7/chyp8/emu/runner"
)

// held keys are posted again at this rate
const keyRepeatDuration = time.Second / 5

// Window is the pixelgl window the emulator draws into and reads keys from.
type Window struct {
	*pixelgl.Window
	KeyMap     map[uint16]pixelgl.Button
	KeysPushed [16]*time.Ticker
	StepKey    pixelgl.Button

	imd    *imdraw.IMDraw
	scale  float64
	redraw bool
}

var _ runner.Frontend = (*Window)(nil)

// NewWindow opens a window scale times the CHIP-8 resolution. keymap names
// the keyboard key for each CHIP-8 key 0-F.
func NewWindow(title string, scale float64, keymap []string) (*Window, error) {
	keys, err := ParseKeymap(keymap)
	if err != nil {
		return nil, err
	}

	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, display.Width*scale, display.Height*scale),
		VSync:  false,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	return &Window{
		Window:  win,
		KeyMap:  keys,
		StepKey: pixelgl.KeySpace,
		imd:     imdraw.New(nil),
		scale:   scale,
	}, nil
}

// Poll forwards key presses and releases to k. A key that stays down is
// posted again every keyRepeatDuration. Escape closes the window.
func (w *Window) Poll(k runner.Keypad) bool {
	if w.JustPressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
	}

	for i, key := range w.KeyMap {
		if w.JustReleased(key) {
			if w.KeysPushed[i] != nil {
				w.KeysPushed[i].Stop()
				w.KeysPushed[i] = nil
			}
			k.KeyUp(uint8(i))
		} else if w.JustPressed(key) {
			if w.KeysPushed[i] == nil {
				w.KeysPushed[i] = time.NewTicker(keyRepeatDuration)
			}
			k.KeyDown(uint8(i))
		}

		if w.KeysPushed[i] == nil {
			continue
		}

		select {
		case <-w.KeysPushed[i].C:
			k.PressKey(uint8(i))
		default:
		}
	}
	return w.JustPressed(w.StepKey)
}

// Render rebuilds the batch of lit pixels. It is drawn on the next Update.
func (w *Window) Render(frame display.Frame) {
	w.redraw = true
	w.imd.Clear()
	w.imd.Color = colornames.White
	for y := range frame {
		// pixel's y axis points up
		top := float64(display.Height-y) * w.scale
		for x := range frame[y] {
			if !frame[y][x] {
				continue
			}
			left := float64(x) * w.scale
			w.imd.Push(pixel.V(left, top-w.scale), pixel.V(left+w.scale, top))
			w.imd.Rectangle(0)
		}
	}
}

// Update swaps buffers only after a Render, otherwise it just polls input.
func (w *Window) Update() {
	if !w.redraw {
		w.UpdateInput()
		return
	}
	w.redraw = false
	w.Clear(colornames.Black)
	w.imd.Draw(w)
	w.Window.Update()
}

// Close stops the key repeat tickers and destroys the window.
func (w *Window) Close() {
	for i, t := range w.KeysPushed {
		if t != nil {
			t.Stop()
			w.KeysPushed[i] = nil
		}
	}
	w.Destroy()
}

var buttonNames = func() map[string]pixelgl.Button {
	names := map[string]pixelgl.Button{
		"SPACE": pixelgl.KeySpace,
		"UP":    pixelgl.KeyUp,
		"DOWN":  pixelgl.KeyDown,
		"LEFT":  pixelgl.KeyLeft,
		"RIGHT": pixelgl.KeyRight,
		"ENTER": pixelgl.KeyEnter,
	}
	for b := pixelgl.Key0; b <= pixelgl.Key9; b++ {
		names[string(rune('0'+int(b-pixelgl.Key0)))] = b
	}
	for b := pixelgl.KeyA; b <= pixelgl.KeyZ; b++ {
		names[string(rune('A'+int(b-pixelgl.KeyA)))] = b
	}
	for b := pixelgl.KeyKP0; b <= pixelgl.KeyKP9; b++ {
		names["KP"+string(rune('0'+int(b-pixelgl.KeyKP0)))] = b
	}
	return names
}()

// ParseKeymap turns 16 key names into the CHIP-8 key to button table.
func ParseKeymap(names []string) (map[uint16]pixelgl.Button, error) {
	if len(names) != 16 {
		return nil, fmt.Errorf("keymap needs 16 keys, got %d", len(names))
	}
	keys := make(map[uint16]pixelgl.Button, 16)
	seen := make(map[pixelgl.Button]bool, 16)
	for i, name := range names {
		b, ok := buttonNames[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("keymap: unknown key %q for %X", name, i)
		}
		if seen[b] {
			return nil, fmt.Errorf("keymap: key %q used twice", name)
		}
		seen[b] = true
		keys[uint16(i)] = b
	}
	return keys, nil
}
