// Package cpu implements the CHIP-8 machine state and the instruction
// interpreter that runs a loaded program one step at a time.
package cpu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/beanboi7/chyp8/emu/display"
)

// EMU interprets CHIP-8 instructions against a Machine. It keeps no state of
// its own beyond what is needed for reporting; the program counter lives in
// the Machine.
type EMU struct {
	m      *Machine
	rng    *rand.Rand
	log    *slog.Logger
	opcode uint16 //last fetched

	unknown int
}

type Option func(*EMU)

// WithLogger routes unknown opcode reports and instruction traces to l.
func WithLogger(l *slog.Logger) Option {
	return func(emu *EMU) {
		emu.log = l
	}
}

// WithRand sets the source for Cxnn.
func WithRand(r *rand.Rand) Option {
	return func(emu *EMU) {
		emu.rng = r
	}
}

// NewEMU creates a machine, loads the font and the program image and returns
// an interpreter ready to step.
func NewEMU(rom []byte, opts ...Option) (*EMU, error) {
	emu := &EMU{
		m:   NewMachine(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(emu)
	}

	if err := emu.m.LoadROM(rom); err != nil {
		return nil, err
	}
	return emu, nil
}

func (emu *EMU) Machine() *Machine {
	return emu.m
}

func (emu *EMU) Display() *display.Display {
	return emu.m.Display()
}

// Opcode is the last fetched instruction word.
func (emu *EMU) Opcode() uint16 {
	return emu.opcode
}

// UnknownOpcodes counts unrecognised instructions executed as no-ops.
func (emu *EMU) UnknownOpcodes() int {
	return emu.unknown
}

// EmulateCycle fetches, decodes and executes one instruction. pc is advanced
// before dispatch, so jumps, calls and skips only overwrite or adjust it.
// A returned error is fatal for the session.
func (emu *EMU) EmulateCycle() error {
	pc := emu.m.PC()
	hi, lo, err := emu.m.ReadNextInstruction()
	if err != nil {
		return err
	}
	emu.opcode = uint16(hi)<<8 | uint16(lo)
	in := Decode(hi, lo)

	if emu.log.Enabled(context.Background(), slog.LevelDebug) {
		emu.log.Debug("exec", "pc", fmt.Sprintf("%03X", pc), "op", in.String())
	}

	emu.m.Advance()
	if err := emu.opCodeParser(in); err != nil {
		return fmt.Errorf("opcode %04X at %03X: %w", emu.opcode, pc, err)
	}
	return nil
}

func (emu *EMU) opCodeParser(in Instruction) error {
	m := emu.m
	x, y, nn, nnn := in.X, in.Y, in.NN, in.NNN
	vx, vy := m.Register(x), m.Register(y)

	switch in.Op {
	case 0x0:
		switch nnn {
		case 0x0E0:
			m.display.Clear()
		case 0x0EE:
			addr, err := m.Pop()
			if err != nil {
				return err
			}
			m.SetPC(addr)
		default:
			//0nnn machine code routine, not supported by modern interpreters
			emu.log.Debug("ignoring SYS", "addr", fmt.Sprintf("%03X", nnn))
		}
	case 0x1:
		m.SetPC(nnn)
	case 0x2:
		if err := m.Push(m.PC()); err != nil {
			return err
		}
		m.SetPC(nnn)
	case 0x3:
		emu.skipIf(vx == nn)
	case 0x4:
		emu.skipIf(vx != nn)
	case 0x5:
		if in.N != 0 {
			return emu.opCodeError(in)
		}
		emu.skipIf(vx == vy)
	case 0x9:
		if in.N != 0 {
			return emu.opCodeError(in)
		}
		emu.skipIf(vx != vy)
	case 0x6:
		m.SetRegister(x, nn)
	case 0x7:
		//wraps, VF untouched
		m.SetRegister(x, vx+nn)
	case 0x8:
		return emu.arithmetic(in, vx, vy)
	case 0xA:
		m.SetIndex(nnn)
	case 0xB:
		m.SetPC(nnn + uint16(m.Register(0)))
	case 0xC:
		m.SetRegister(x, uint8(emu.rng.Intn(256))&nn)
	case 0xD:
		return emu.draw(vx, vy, in.N)
	case 0xE:
		switch nn {
		case 0x9E:
			emu.skipIf(m.Held(vx))
		case 0xA1:
			emu.skipIf(!m.Held(vx))
		default:
			return emu.opCodeError(in)
		}
	case 0xF:
		return emu.misc(in, vx)
	}
	return nil
}

// arithmetic handles the 8xyN register-register family. The result is a data
// write to VX; where VF is affected the flag write comes last, so with x=F
// the flag wins.
func (emu *EMU) arithmetic(in Instruction, vx, vy uint8) error {
	m := emu.m
	x := in.X

	switch in.N {
	case 0x0:
		m.SetRegister(x, vy)
	case 0x1:
		m.SetRegister(x, vx|vy)
	case 0x2:
		m.SetRegister(x, vx&vy)
	case 0x3:
		m.SetRegister(x, vx^vy)
	case 0x4:
		sum := uint16(vx) + uint16(vy)
		m.SetRegister(x, uint8(sum))
		m.setFlag(boolFlag(sum > 0xFF))
	case 0x5:
		//VF is 1 when there was no borrow
		m.SetRegister(x, vx-vy)
		m.setFlag(boolFlag(vx >= vy))
	case 0x7:
		m.SetRegister(x, vy-vx)
		m.setFlag(boolFlag(vy >= vx))
	case 0x6:
		//copy VY, shift left, VF gets the bit shifted out
		m.SetRegister(x, vy<<1)
		m.setFlag(vy >> 7)
	case 0xE:
		m.SetRegister(x, vy>>1)
		m.setFlag(vy & 0x01)
	default:
		return emu.opCodeError(in)
	}
	return nil
}

func (emu *EMU) misc(in Instruction, vx uint8) error {
	m := emu.m
	x := in.X

	switch in.NN {
	case 0x07:
		m.SetRegister(x, m.DelayTimer())
	case 0x0A:
		//no key yet: fetch this instruction again next cycle
		k, ok := m.TakeInput()
		if !ok {
			m.Rewind()
			return nil
		}
		m.SetRegister(x, k)
	case 0x15:
		m.SetDelayTimer(vx)
	case 0x18:
		m.SetSoundTimer(vx)
	case 0x1E:
		//VF is set on overflow and otherwise left alone
		sum := uint32(m.Index()) + uint32(vx)
		m.SetIndex(uint16(sum))
		if sum > 0xFFFF {
			m.setFlag(1)
		}
	case 0x29:
		m.SetIndex(FontAddr(vx))
	case 0x33:
		base := int(m.Index())
		for i, d := range [3]uint8{vx / 100, vx / 10 % 10, vx % 10} {
			if err := m.WriteByte(base+i, d); err != nil {
				return err
			}
		}
	case 0x55:
		base := int(m.Index())
		for i := 0; i <= int(x); i++ {
			if err := m.WriteByte(base+i, m.v[i]); err != nil {
				return err
			}
		}
	case 0x65:
		base := int(m.Index())
		for i := 0; i <= int(x); i++ {
			b, err := m.ReadByte(base + i)
			if err != nil {
				return err
			}
			m.v[i] = b
		}
	default:
		return emu.opCodeError(in)
	}
	return nil
}

// draw XORs an n byte sprite from memory[I] onto the display. The origin
// wraps around the screen, the sprite itself is clipped at the edges.
// VF is 1 if any lit pixel was turned off.
func (emu *EMU) draw(vx, vy, n uint8) error {
	m := emu.m
	ox := int(vx) % display.Width
	oy := int(vy) % display.Height
	m.setFlag(0)

	for row := 0; row < int(n); row++ {
		py := oy + row
		if py >= display.Height {
			break
		}
		sprite, err := m.ReadByte(int(m.Index()) + row)
		if err != nil {
			return err
		}
		for bit := 0; bit < 8; bit++ {
			px := ox + bit
			if px >= display.Width {
				break
			}
			if sprite&(0x80>>bit) == 0 {
				continue
			}
			old, _ := m.display.Pixel(px, py)
			if old {
				m.setFlag(1)
			}
			m.display.SetPixel(px, py, !old)
		}
	}
	return nil
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.m.Advance()
	}
}

// opCodeError reports an unknown instruction. Unused opcode space shows up
// in real ROMs, so this is logged and execution carries on.
func (emu *EMU) opCodeError(in Instruction) error {
	emu.unknown++
	emu.log.Warn("unknown opcode",
		"opcode", fmt.Sprintf("%04X", in.Opcode),
		"pc", fmt.Sprintf("%03X", emu.m.PC()-2))
	return nil
}

// String dumps the registers in one line per pair.
func (emu *EMU) String() string {
	m := emu.m
	var b strings.Builder
	fmt.Fprintf(&b, "opcode=%04X pc=%03X I=%03X sp=%d dt=%d st=%d\n",
		emu.opcode, m.pc, m.index, m.sp, m.delayTimer, m.soundTimer)
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "V%X=%02X  V%X=%02X\n", i, m.v[i], i+8, m.v[i+8])
	}
	return b.String()
}

func boolFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
