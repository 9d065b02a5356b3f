// Package display holds the CHIP-8 64x32 monochrome frame buffer.
package display

const (
	Width  = 64
	Height = 32
)

// Frame is a copy of the display, indexed [y][x].
type Frame [Height][Width]bool

// Display is the 64x32 bitmap the interpreter draws into. Every mutation
// marks it dirty; whoever takes the frame clears the flag.
type Display struct {
	pixels Frame
	dirty  bool
}

func New() *Display {
	return &Display{}
}

// Pixel reports the state at (x, y). ok is false when there is no such pixel.
func (d *Display) Pixel(x, y int) (on bool, ok bool) {
	if !inBounds(x, y) {
		return false, false
	}
	return d.pixels[y][x], true
}

// SetPixel writes (x, y). Writes off the edge are ignored, sprites clip.
func (d *Display) SetPixel(x, y int, on bool) {
	if !inBounds(x, y) {
		return
	}
	d.pixels[y][x] = on
	d.dirty = true
}

func (d *Display) Clear() {
	d.pixels = Frame{}
	d.dirty = true
}

func (d *Display) Dirty() bool {
	return d.dirty
}

// TakeFrame hands the current frame to a renderer and clears the dirty flag.
// The bool is the dirty state before the call.
func (d *Display) TakeFrame() (Frame, bool) {
	dirty := d.dirty
	d.dirty = false
	return d.pixels, dirty
}

// Lit counts the pixels that are on.
func (f *Frame) Lit() int {
	n := 0
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				n++
			}
		}
	}
	return n
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
