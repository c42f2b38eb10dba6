package back

import (
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/Rem113/HackVmCompiler/compiler/asm"
	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

func (c *Compiler) push(b []byte, x ir.Push) ([]byte, error) {
	switch {
	case x.Segment == ir.Constant:
		b = hfmt.Appendf(b, "@%d\n", x.Index)
		b = emit(b, "D=A")
	case x.Segment.Pointer():
		b = hfmt.Appendf(b, "@%d\n", x.Index)
		b = emit(b, "D=A", "@"+basePointer(x.Segment).Name(), "A=D+M", "D=M")
	default:
		sym, err := c.Direct(x.Segment, x.Index)
		if err != nil {
			return nil, err
		}

		b = emit(b, "@"+sym, "D=M")
	}

	return pushD(b), nil
}

func (c *Compiler) pop(b []byte, x ir.Pop) ([]byte, error) {
	if x.Segment.Pointer() {
		b = hfmt.Appendf(b, "@%d\n", x.Index)
		b = emit(b, "D=A", "@"+basePointer(x.Segment).Name(), "D=D+M", "@R13", "M=D")
		b = popD(b)

		return emit(b, "@R13", "A=M", "M=D"), nil
	}

	sym, err := c.Direct(x.Segment, x.Index)
	if err != nil {
		return nil, err
	}

	b = popD(b)

	return emit(b, "@"+sym, "M=D"), nil
}

// Direct returns the symbol of a cell with a fixed address:
// temp, pointer and static segment cells.
func (c *Compiler) Direct(seg ir.Segment, i int) (string, error) {
	switch seg {
	case ir.Temp:
		if i < 0 || i >= ir.TempSize {
			return "", errors.New("temp index out of range: %d", i)
		}

		return strconv.Itoa(int(asm.TempBase) + i), nil
	case ir.Pointer:
		switch i {
		case 0:
			return asm.THIS.Name(), nil
		case 1:
			return asm.THAT.Name(), nil
		}

		return "", errors.New("pointer index out of range: %d", i)
	case ir.Static:
		return c.Static(i), nil
	default:
		return "", errors.New("segment %v has no direct address", seg)
	}
}

// Static returns the symbol of static cell i of the unit.
func (c *Compiler) Static(i int) string {
	return c.Unit.Name + "." + strconv.Itoa(i)
}

func basePointer(seg ir.Segment) asm.Addr {
	switch seg {
	case ir.Local:
		return asm.LCL
	case ir.Argument:
		return asm.ARG
	case ir.This:
		return asm.THIS
	case ir.That:
		return asm.THAT
	}

	panic(seg)
}
