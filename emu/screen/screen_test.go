package screen

import (
	"strings"
	"testing"

	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"

	"github.com/beanboi7/chyp8/emu/config"
	"github.com/beanboi7/chyp8/emu/display"
)

func TestParseKeymap(t *testing.T) {
	keys, err := ParseKeymap(config.DefaultKeymap)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 16 {
		t.Fatalf("got %d keys, want 16", len(keys))
	}
	if keys[0x0] != pixelgl.KeyX || keys[0x1] != pixelgl.Key1 || keys[0xF] != pixelgl.KeyV {
		t.Errorf("default keymap = %v", keys)
	}
}

func TestParseKeymapErrors(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"too short", []string{"1", "2"}, "16 keys"},
		{"unknown", append([]string{"F13"}, config.DefaultKeymap[1:]...), "unknown key"},
		{"duplicate", append([]string{"1"}, config.DefaultKeymap[1:]...), "used twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeymap(tt.names)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseKeymap() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRenderMarksRedraw(t *testing.T) {
	w := &Window{imd: imdraw.New(nil), scale: 1}
	if w.redraw {
		t.Fatal("new window wants a redraw")
	}
	var frame display.Frame
	frame[0][0] = true
	w.Render(frame)
	if !w.redraw {
		t.Errorf("Render did not mark the window for redraw")
	}
}
