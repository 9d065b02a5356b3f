package cpu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeFields(t *testing.T) {
	got := Decode(0xD1, 0x2F)
	want := Instruction{
		Opcode: 0xD12F,
		Kind:   DRW,
		Op:     0xD,
		X:      0x1,
		Y:      0x2,
		N:      0xF,
		NN:     0x2F,
		NNN:    0x12F,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode(0xD12F) (-want, +got)\n%s", diff)
	}
}

func TestInstruction_String(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "SYS $123"},
		{0x1ABC, "JP $ABC"},
		{0xB300, "JP V0, $300"},
		{0x2206, "CALL $206"},
		{0x3A0B, "SE VA, $0B"},
		{0x4A0B, "SNE VA, $0B"},
		{0x5120, "SE V1, V2"},
		{0x9120, "SNE V1, V2"},
		{0x610A, "LD V1, $0A"},
		{0x71FF, "ADD V1, $FF"},
		{0x8120, "LD V1, V2"},
		{0x8121, "OR V1, V2"},
		{0x8122, "AND V1, V2"},
		{0x8123, "XOR V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8125, "SUB V1, V2"},
		{0x8126, "SHL V1, V2"},
		{0x8127, "SUBN V1, V2"},
		{0x812E, "SHR V1, V2"},
		{0xA2F0, "LD I, $2F0"},
		{0xC30F, "RND V3, $0F"},
		{0xD015, "DRW V0, V1, $5"},
		{0xE49E, "SKP V4"},
		{0xE4A1, "SKNP V4"},
		{0xF507, "LD V5, DT"},
		{0xF50A, "LD V5, K"},
		{0xF515, "LD DT, V5"},
		{0xF518, "LD ST, V5"},
		{0xF51E, "ADD I, V5"},
		{0xF529, "LD F, V5"},
		{0xF533, "LD B, V5"},
		{0xF555, "LD [I], V5"},
		{0xF565, "LD V5, [I]"},
		{0x5121, "DW $5121"},
		{0x8128, "DW $8128"},
		{0xE1FF, "DW $E1FF"},
		{0xF1FF, "DW $F1FF"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Decode(byte(tt.opcode>>8), byte(tt.opcode)).String()
			if got != tt.want {
				t.Errorf("Decode(%04X).String() = %q, want %q", tt.opcode, got, tt.want)
			}
		})
	}
}

func TestDisassemble(t *testing.T) {
	rom := []byte{0x00, 0xE0, 0xA2, 0x2A, 0x12}
	got := Listing(rom, ProgramBase)
	want := "200: 00E0  CLS\n" +
		"202: A22A  LD I, $22A\n" +
		"204: 12    DB $12\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Listing (-want, +got)\n%s", diff)
	}
}

func TestDisassembleTrailingByte(t *testing.T) {
	lines := Disassemble([]byte{0x61, 0x0A, 0xAB}, ProgramBase)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	last := lines[1]
	want := Line{Address: 0x202, Instruction: Instruction{Opcode: 0xAB, Kind: DB}}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("trailing byte (-want, +got)\n%s", diff)
	}
	if got := last.String(); got != "202: AB    DB $AB" {
		t.Errorf("trailing byte line = %q", got)
	}
}
