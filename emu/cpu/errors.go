package cpu

import "errors"

// Fatal conditions. They mean the program is malformed or has run away;
// EmulateCycle wraps them with the failing pc and opcode.
var (
	ErrStackOverflow     = errors.New("call stack overflow")
	ErrStackUnderflow    = errors.New("return with empty call stack")
	ErrPCOutOfRange      = errors.New("program counter past end of memory")
	ErrAddressOutOfRange = errors.New("memory address out of range")
)

// ErrROMTooLarge is returned when a program image does not fit above 0x200.
var ErrROMTooLarge = errors.New("ROM too big")
