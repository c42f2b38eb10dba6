package back

import (
	"strconv"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/Rem113/HackVmCompiler/compiler/asm"
	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

const (
	// FrameSize is the number of cells call saves:
	// return address, LCL, ARG, THIS, THAT in that order.
	FrameSize = ir.FrameSize

	BootstrapReturn = "$bootstrap$ret"
)

var (
	saved    = []asm.Addr{asm.LCL, asm.ARG, asm.THIS, asm.THAT}
	restored = []asm.Addr{asm.THAT, asm.THIS, asm.ARG, asm.LCL}
)

// Bootstrap values of the pointer cells.
var Bootstrap = []struct {
	Reg asm.Addr
	Val asm.Addr
}{
	{asm.SP, asm.StackBase},
	{asm.LCL, asm.StackBase},
	{asm.ARG, asm.StackBase},
	{asm.THIS, asm.HeapBase},
	{asm.THAT, asm.HeapBase},
}

// ReturnLabel names the return address of the call at ordinal ord.
func ReturnLabel(callee string, ord int) string {
	return callee + "$ret." + strconv.Itoa(ord)
}

// Preamble appends the program start-up code: pointer initialization
// followed by a call to entry with no arguments.
func Preamble(b []byte, entry string) []byte {
	b = emit(b, "// bootstrap")

	for _, r := range Bootstrap {
		b = hfmt.Appendf(b, "@%d\n", r.Val)
		b = emit(b, "D=A", "@"+r.Reg.Name(), "M=D")
	}

	b = hfmt.Appendf(b, "// call %s 0\n", entry)

	return Call(b, entry, 0, BootstrapReturn)
}

func (c *Compiler) function(b []byte, x ir.Function) []byte {
	b = emit(b, "("+c.FuncName(x.Name)+")")

	for i := 0; i < x.Locals; i++ {
		b = emit(b, "D=0")
		b = pushD(b)
	}

	return b
}

// Call appends a call of fn with nargs arguments already on the stack.
// ret must be a globally unique label.
func Call(b []byte, fn string, nargs int, ret string) []byte {
	b = emit(b, "@"+ret, "D=A")
	b = pushD(b)

	for _, r := range saved {
		b = emit(b, "@"+r.Name(), "D=M")
		b = pushD(b)
	}

	// ARG = SP - 5 - nargs
	b = emit(b, "@SP", "D=M")
	b = hfmt.Appendf(b, "@%d\n", FrameSize+nargs)
	b = emit(b, "D=D-A", "@ARG", "M=D")

	// LCL = SP
	b = emit(b, "@SP", "D=M", "@LCL", "M=D")

	return emit(b,
		"@"+fn,
		"0;JMP",
		"("+ret+")",
	)
}

func ret(b []byte) []byte {
	// R13 = frame, R14 = return address
	b = emit(b,
		"@LCL",
		"D=M",
		"@R13",
		"M=D",
	)

	b = hfmt.Appendf(b, "@%d\n", FrameSize)
	b = emit(b,
		"A=D-A",
		"D=M",
		"@R14",
		"M=D",
	)

	b = popD(b)
	b = emit(b,
		"@ARG",
		"A=M",
		"M=D",
		"@ARG",
		"D=M+1",
		"@SP",
		"M=D",
	)

	for _, r := range restored {
		b = emit(b,
			"@R13",
			"AM=M-1",
			"D=M",
			"@"+r.Name(),
			"M=D",
		)
	}

	return emit(b,
		"@R14",
		"A=M",
		"0;JMP",
	)
}
