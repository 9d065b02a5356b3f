package cpu

import (
	"fmt"
	"time"

	"github.com/beanboi7/chyp8/emu/display"
)

const (
	MemorySize  = 4096
	ProgramBase = 0x200
	MaxROMSize  = MemorySize - ProgramBase
	StackDepth  = 16
	NumKeys     = 16

	// timers count down at 60Hz no matter how fast instructions run
	TimerInterval = time.Second / 60
)

// Machine is the architectural state of a CHIP-8: memory, registers, call
// stack, timers, display and keypad. Its operations are primitive and own no
// control flow policy; the interpreter composes them.
type Machine struct {
	memory [MemorySize]uint8

	// V0-VE general purpose, VF also written as carry/borrow/collision flag
	v [16]uint8

	index uint16 //address register
	pc    uint16

	stack [StackDepth]uint16
	sp    int

	delayTimer uint8
	soundTimer uint8
	timerAcc   time.Duration

	display *display.Display

	held    [NumKeys]bool
	pending int8 //-1 when empty
}

// NewMachine returns a zeroed machine with the font loaded and pc at 0x200.
func NewMachine() *Machine {
	m := &Machine{
		pc:      ProgramBase,
		display: display.New(),
		pending: -1,
	}
	copy(m.memory[FontBase:], FontSet[:])
	return m
}

// LoadROM copies a program image to 0x200.
func (m *Machine) LoadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	copy(m.memory[ProgramBase:], rom)
	return nil
}

func (m *Machine) ReadByte(addr int) (uint8, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, fmt.Errorf("%w: read %#x", ErrAddressOutOfRange, addr)
	}
	return m.memory[addr], nil
}

// WriteByte stores b at addr. Writes into the font area are dropped.
func (m *Machine) WriteByte(addr int, b uint8) error {
	if addr < 0 || addr >= MemorySize {
		return fmt.Errorf("%w: write %#x", ErrAddressOutOfRange, addr)
	}
	if isFontAddr(addr) {
		return nil
	}
	m.memory[addr] = b
	return nil
}

// ReadNextInstruction returns the two bytes at pc.
func (m *Machine) ReadNextInstruction() (uint8, uint8, error) {
	if int(m.pc) > MemorySize-2 {
		return 0, 0, fmt.Errorf("%w: pc=%#x", ErrPCOutOfRange, m.pc)
	}
	return m.memory[m.pc], m.memory[m.pc+1], nil
}

func (m *Machine) PC() uint16 {
	return m.pc
}

func (m *Machine) SetPC(addr uint16) {
	m.pc = addr
}

func (m *Machine) Advance() {
	m.pc += 2
}

// Rewind steps pc back one instruction so the same opcode is fetched again.
func (m *Machine) Rewind() {
	m.pc -= 2
}

func (m *Machine) Push(addr uint16) error {
	if m.sp >= StackDepth {
		return ErrStackOverflow
	}
	m.stack[m.sp] = addr
	m.sp++
	return nil
}

func (m *Machine) Pop() (uint16, error) {
	if m.sp == 0 {
		return 0, ErrStackUnderflow
	}
	m.sp--
	return m.stack[m.sp], nil
}

// StackPointer is the number of return addresses on the stack.
func (m *Machine) StackPointer() int {
	return m.sp
}

func (m *Machine) Register(i uint8) uint8 {
	return m.v[i&0x0F]
}

func (m *Machine) SetRegister(i uint8, b uint8) {
	m.v[i&0x0F] = b
}

// setFlag is a flag write to VF, as opposed to a data write through SetRegister.
func (m *Machine) setFlag(b uint8) {
	m.v[0xF] = b
}

func (m *Machine) Index() uint16 {
	return m.index
}

func (m *Machine) SetIndex(addr uint16) {
	m.index = addr
}

func (m *Machine) DelayTimer() uint8 {
	return m.delayTimer
}

func (m *Machine) SetDelayTimer(b uint8) {
	m.delayTimer = b
}

// SoundTimer is nonzero while the tone should be playing.
func (m *Machine) SoundTimer() uint8 {
	return m.soundTimer
}

func (m *Machine) SetSoundTimer(b uint8) {
	m.soundTimer = b
}

// TickTimers accumulates elapsed wall clock time and decrements both timers
// once when a full 1/60s has built up. At most one decrement happens per call
// and the carried remainder never exceeds one interval.
func (m *Machine) TickTimers(elapsed time.Duration) {
	if elapsed > 0 {
		m.timerAcc += elapsed
	}
	if m.timerAcc < TimerInterval {
		return
	}
	m.timerAcc -= TimerInterval
	if m.timerAcc > TimerInterval {
		m.timerAcc = TimerInterval
	}
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

func (m *Machine) Display() *display.Display {
	return m.display
}

// KeyDown marks key k held and posts it to the input mailbox.
func (m *Machine) KeyDown(k uint8) {
	if k >= NumKeys {
		return
	}
	m.held[k] = true
	m.pending = int8(k)
}

func (m *Machine) KeyUp(k uint8) {
	if k >= NumKeys {
		return
	}
	m.held[k] = false
}

// PressKey posts k to the input mailbox without changing the held table,
// overwriting any key not yet consumed.
func (m *Machine) PressKey(k uint8) {
	if k >= NumKeys {
		return
	}
	m.pending = int8(k)
}

// Held reports whether key k is down. Values past 0xF are never held.
func (m *Machine) Held(k uint8) bool {
	if k >= NumKeys {
		return false
	}
	return m.held[k]
}

// TakeInput consumes the pending key, if any.
func (m *Machine) TakeInput() (uint8, bool) {
	if m.pending < 0 {
		return 0, false
	}
	k := uint8(m.pending)
	m.pending = -1
	return k, true
}
