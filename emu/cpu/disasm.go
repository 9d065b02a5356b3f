package cpu

import (
	"fmt"
	"strings"
)

// Kind is the mnemonic of a decoded instruction.
type Kind string

const (
	CLS  Kind = "CLS"
	RET  Kind = "RET"
	SYS  Kind = "SYS"
	JP   Kind = "JP"
	CALL Kind = "CALL"
	SE   Kind = "SE"
	SNE  Kind = "SNE"
	LD   Kind = "LD"
	ADD  Kind = "ADD"
	OR   Kind = "OR"
	AND  Kind = "AND"
	XOR  Kind = "XOR"
	SUB  Kind = "SUB"
	SHR  Kind = "SHR"
	SUBN Kind = "SUBN"
	SHL  Kind = "SHL"
	RND  Kind = "RND"
	DRW  Kind = "DRW"
	SKP  Kind = "SKP"
	SKNP Kind = "SKNP"

	// DW marks a word that is not a CHIP-8 instruction.
	DW Kind = "DW"
	// DB is a lone trailing byte.
	DB Kind = "DB"
)

// Instruction is a 16 bit instruction word split into its fields.
type Instruction struct {
	Opcode uint16
	Kind   Kind

	Op, X, Y, N uint8
	NN          uint8
	NNN         uint16
}

// Decode splits the two instruction bytes into nibbles and immediates and
// names the instruction.
func Decode(hi, lo uint8) Instruction {
	opcode := uint16(hi)<<8 | uint16(lo)
	in := Instruction{
		Opcode: opcode,
		Op:     hi >> 4,
		X:      hi & 0x0F,
		Y:      lo >> 4,
		N:      lo & 0x0F,
		NN:     lo,
		NNN:    opcode & 0x0FFF,
	}
	in.Kind = kindOf(in)
	return in
}

func kindOf(in Instruction) Kind {
	switch in.Op {
	case 0x0:
		switch in.NNN {
		case 0x0E0:
			return CLS
		case 0x0EE:
			return RET
		}
		return SYS
	case 0x1, 0xB:
		return JP
	case 0x2:
		return CALL
	case 0x3:
		return SE
	case 0x4:
		return SNE
	case 0x5:
		if in.N == 0 {
			return SE
		}
	case 0x9:
		if in.N == 0 {
			return SNE
		}
	case 0x6, 0xA:
		return LD
	case 0x7:
		return ADD
	case 0x8:
		switch in.N {
		case 0x0:
			return LD
		case 0x1:
			return OR
		case 0x2:
			return AND
		case 0x3:
			return XOR
		case 0x4:
			return ADD
		case 0x5:
			return SUB
		case 0x6:
			return SHL
		case 0x7:
			return SUBN
		case 0xE:
			return SHR
		}
	case 0xC:
		return RND
	case 0xD:
		return DRW
	case 0xE:
		switch in.NN {
		case 0x9E:
			return SKP
		case 0xA1:
			return SKNP
		}
	case 0xF:
		switch in.NN {
		case 0x07, 0x0A, 0x15, 0x18, 0x29, 0x33, 0x55, 0x65:
			return LD
		case 0x1E:
			return ADD
		}
	}
	return DW
}

// String renders the instruction in assembler syntax, e.g. "LD V1, $0A".
func (in Instruction) String() string {
	if params := in.params(); params != "" {
		return fmt.Sprintf("%s %s", in.Kind, params)
	}
	return string(in.Kind)
}

func (in Instruction) params() string {
	switch in.Kind {
	case CLS, RET:
		return ""
	case DW:
		return fmt.Sprintf("$%04X", in.Opcode)
	case DB:
		return fmt.Sprintf("$%02X", in.Opcode)
	case SYS, CALL:
		return fmt.Sprintf("$%03X", in.NNN)
	case JP:
		if in.Op == 0xB {
			return fmt.Sprintf("V0, $%03X", in.NNN)
		}
		return fmt.Sprintf("$%03X", in.NNN)
	case RND:
		return fmt.Sprintf("V%X, $%02X", in.X, in.NN)
	case DRW:
		return fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case SKP, SKNP:
		return fmt.Sprintf("V%X", in.X)
	case SHL, SHR, OR, AND, XOR, SUB, SUBN:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	}

	switch in.Op {
	case 0x3, 0x4, 0x6, 0x7:
		return fmt.Sprintf("V%X, $%02X", in.X, in.NN)
	case 0x5, 0x8, 0x9:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", in.NNN)
	case 0xF:
		return fLoadParams(in)
	}
	return ""
}

func fLoadParams(in Instruction) string {
	switch in.NN {
	case 0x07:
		return fmt.Sprintf("V%X, DT", in.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", in.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", in.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", in.X)
	case 0x1E:
		return fmt.Sprintf("I, V%X", in.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", in.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", in.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", in.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", in.X)
	}
	return ""
}

// Line is one disassembled instruction word.
type Line struct {
	Address     uint16
	Instruction Instruction
}

func (l Line) String() string {
	if l.Instruction.Kind == DB {
		return fmt.Sprintf("%03X: %02X    %s", l.Address, l.Instruction.Opcode, l.Instruction)
	}
	return fmt.Sprintf("%03X: %04X  %s", l.Address, l.Instruction.Opcode, l.Instruction)
}

// Disassemble decodes rom word by word as if loaded at base. A trailing odd
// byte becomes a single DB line.
func Disassemble(rom []byte, base uint16) []Line {
	lines := make([]Line, 0, (len(rom)+1)/2)
	for i := 0; i < len(rom); i += 2 {
		addr := base + uint16(i)
		if i+1 == len(rom) {
			in := Instruction{Opcode: uint16(rom[i]), Kind: DB}
			lines = append(lines, Line{Address: addr, Instruction: in})
			break
		}
		lines = append(lines, Line{Address: addr, Instruction: Decode(rom[i], rom[i+1])})
	}
	return lines
}

// Listing joins Disassemble output into one string.
func Listing(rom []byte, base uint16) string {
	var b strings.Builder
	for _, l := range Disassemble(rom, base) {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}
