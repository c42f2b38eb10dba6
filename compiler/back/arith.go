package back

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

const (
	True  = "-1"
	False = "0"
)

func binary(b []byte, op ir.Op) ([]byte, error) {
	var comp string

	switch op {
	case ir.Add:
		comp = "M=D+M"
	case ir.Sub:
		comp = "M=M-D"
	case ir.And:
		comp = "M=D&M"
	case ir.Or:
		comp = "M=D|M"
	default:
		return nil, errors.New("not a binary op: %v", op)
	}

	b = popD(b)

	return emit(b, "A=A-1", comp), nil
}

func unary(b []byte, op ir.Op) ([]byte, error) {
	switch op {
	case ir.Neg:
		b = top(b)
		return emit(b, "D=0", "M=D-M"), nil
	case ir.Not:
		b = top(b)
		return emit(b, "M=!M"), nil
	default:
		return nil, errors.New("not a unary op: %v", op)
	}
}

func compare(b []byte, op ir.Op, ord int) ([]byte, error) {
	var jmp string

	switch op {
	case ir.Eq:
		jmp = "D;JEQ"
	case ir.Gt:
		jmp = "D;JGT"
	case ir.Lt:
		jmp = "D;JLT"
	default:
		return nil, errors.New("not a comparison: %v", op)
	}

	yes := CompareLabel(op, "true", ord)
	end := CompareLabel(op, "end", ord)

	b = popD(b)
	b = emit(b,
		"A=A-1",
		"D=M-D",
		"@"+yes,
		jmp,
		"D="+False,
		"@"+end,
		"0;JMP",
		"("+yes+")",
		"D="+True,
		"("+end+")",
	)

	b = top(b)

	return emit(b, "M=D"), nil
}

// CompareLabel names a branch target of the comparison at ordinal ord.
func CompareLabel(op ir.Op, kind string, ord int) string {
	return op.String() + "$" + kind + "." + strconv.Itoa(ord)
}
