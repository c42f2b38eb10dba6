package back

import (
	"tlog.app/go/errors"

	"github.com/Rem113/HackVmCompiler/compiler/asm"
	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

type (
	// Compiler emits Hack assembly for the commands of one translation unit.
	// It holds no state besides the unit identity, so one value
	// may be used from several goroutines.
	Compiler struct {
		Unit ir.Unit
	}
)

// maxArgs keeps FrameSize+nargs within one A-instruction.
const maxArgs = asm.MemSize - 1 - FrameSize

func New(u ir.Unit) *Compiler {
	return &Compiler{Unit: u}
}

// Command appends the code for x to b.
// ord is the call-site ordinal of the source line x came from,
// it must be unique across the linked program.
func (c *Compiler) Command(b []byte, x ir.Command, ord int) (_ []byte, err error) {
	switch x := x.(type) {
	case ir.Push:
		return c.push(b, x)
	case ir.Pop:
		return c.pop(b, x)
	case ir.Binary:
		return binary(b, x.Op)
	case ir.Unary:
		return unary(b, x.Op)
	case ir.Compare:
		return compare(b, x.Op, ord)
	case ir.Label:
		return c.label(b, x.Name), nil
	case ir.Goto:
		return c.jump(b, x.Name), nil
	case ir.IfGoto:
		return c.jumpIf(b, x.Name), nil
	case ir.Function:
		return c.function(b, x), nil
	case ir.Call:
		if x.Args < 0 || x.Args > maxArgs {
			return nil, errors.New("call %v: argument count %d out of range 0..%d", x.Name, x.Args, maxArgs)
		}

		name := c.FuncName(x.Name)

		return Call(b, name, x.Args, ReturnLabel(name, ord)), nil
	case ir.Return:
		return ret(b), nil
	default:
		return nil, errors.New("unsupported command: %T", x)
	}
}

func emit(b []byte, lines ...string) []byte {
	for _, l := range lines {
		b = append(b, l...)
		b = append(b, '\n')
	}

	return b
}
