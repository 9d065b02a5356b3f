package display

import "testing"

func TestPixelOutOfRange(t *testing.T) {
	d := New()
	tests := []struct {
		name string
		x, y int
		ok   bool
	}{
		{"origin", 0, 0, true},
		{"bottom right", Width - 1, Height - 1, true},
		{"right edge", Width, 0, false},
		{"bottom edge", 0, Height, false},
		{"negative", -1, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := d.Pixel(tt.x, tt.y); ok != tt.ok {
				t.Errorf("Pixel(%d, %d) ok = %v, want %v", tt.x, tt.y, ok, tt.ok)
			}
		})
	}
}

func TestSetPixelIgnoresOutOfRange(t *testing.T) {
	d := New()
	d.SetPixel(Width, 0, true)
	d.SetPixel(0, Height, true)
	if d.Dirty() {
		t.Errorf("out of range write marked display dirty")
	}
	frame, _ := d.TakeFrame()
	if n := frame.Lit(); n != 0 {
		t.Errorf("lit pixels = %d, want 0", n)
	}
}

func TestTakeFrameClearsDirty(t *testing.T) {
	d := New()
	d.SetPixel(3, 4, true)
	if !d.Dirty() {
		t.Fatalf("display not dirty after write")
	}
	frame, dirty := d.TakeFrame()
	if !dirty {
		t.Errorf("TakeFrame reported clean frame")
	}
	if !frame[4][3] {
		t.Errorf("frame[4][3] = false, want true")
	}
	if d.Dirty() {
		t.Errorf("display still dirty after TakeFrame")
	}
	if _, dirty := d.TakeFrame(); dirty {
		t.Errorf("second TakeFrame reported dirty")
	}
}

func TestClear(t *testing.T) {
	d := New()
	d.SetPixel(10, 10, true)
	d.TakeFrame()
	d.Clear()
	if !d.Dirty() {
		t.Errorf("Clear did not mark display dirty")
	}
	if on, _ := d.Pixel(10, 10); on {
		t.Errorf("pixel still on after Clear")
	}
}
