// Package asm describes the Hack target: its memory map, registers,
// and a two-pass assembler for the textual assembly the back end emits.
package asm

type (
	Addr int
)

// Memory map.
const (
	SP Addr = iota
	LCL
	ARG
	THIS
	THAT
)

const (
	R13 Addr = 13
	R14 Addr = 14
	R15 Addr = 15

	TempBase   Addr = 5
	StaticBase Addr = 16
	StackBase  Addr = 256
	HeapBase   Addr = 2048
	Screen     Addr = 16384
	Keyboard   Addr = 24576

	MemSize = 1 << 15
)

// Predefined symbols.
var Symbols = map[string]Addr{
	"SP":     SP,
	"LCL":    LCL,
	"ARG":    ARG,
	"THIS":   THIS,
	"THAT":   THAT,
	"SCREEN": Screen,
	"KBD":    Keyboard,
}

func init() {
	for r := Addr(0); r < 16; r++ {
		Symbols[r.Reg()] = r
	}
}

// Reg returns the R<n> name of a low address.
func (a Addr) Reg() string {
	if a < 10 {
		return "R" + string(rune('0'+a))
	}

	return "R1" + string(rune('0'+a-10))
}

// Name returns the canonical symbol for the address if it has one.
func (a Addr) Name() string {
	switch a {
	case SP:
		return "SP"
	case LCL:
		return "LCL"
	case ARG:
		return "ARG"
	case THIS:
		return "THIS"
	case THAT:
		return "THAT"
	}

	if a < 16 {
		return a.Reg()
	}

	return ""
}
