package parse

import (
	"tlog.app/go/errors"
	"tlog.app/go/loc"

	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

type (
	Kind int

	// Error is a recoverable per-line failure.
	Error struct {
		Kind  Kind
		Op    string
		Token string
		Err   error

		PC loc.PC // rule which rejected the line
	}
)

const (
	Unsupported Kind = iota
	Arity
	Number
	Range
	BadSegment
	BadName
)

// MaxArgs is the largest argument count of a call.
const MaxArgs = MaxUint - ir.FrameSize

var kinds = []string{
	Unsupported: "unsupported",
	Arity:       "arity",
	Number:      "number",
	Range:       "range",
	BadSegment:  "segment",
	BadName:     "name",
}

// Line parses one stripped, non-empty source line.
// Errors are always *Error.
func Line(text string) (ir.Command, error) {
	f := SpaceTab.Fields(text)
	if len(f) == 0 {
		return nil, newError(Unsupported, "", "", "empty line")
	}

	op, args := f[0], f[1:]

	switch op {
	case "push", "pop":
		return segment(op, args)
	case "label", "goto", "if-goto":
		return branch(op, args)
	case "function", "call":
		return function(op, args)
	case "return":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}

		return ir.Return{}, nil
	}

	x, ok := ir.LookupOp(op)
	if !ok {
		return nil, newError(Unsupported, "", op, "unsupported operation %q", op)
	}

	if err := arity(op, args, 0); err != nil {
		return nil, err
	}

	switch {
	case x.Binary():
		return ir.Binary{Op: x}, nil
	case x.Unary():
		return ir.Unary{Op: x}, nil
	default:
		return ir.Compare{Op: x}, nil
	}
}

func segment(op string, args []string) (ir.Command, error) {
	if err := arity(op, args, 2); err != nil {
		return nil, err
	}

	seg, ok := ir.LookupSegment(args[0])
	if !ok {
		return nil, newError(BadSegment, op, args[0], "unknown segment %q", args[0])
	}

	idx, err := index(op, args[1])
	if err != nil {
		return nil, err
	}

	switch {
	case seg == ir.Constant && op == "pop":
		return nil, newError(BadSegment, op, args[0], "constant segment is push-only")
	case seg == ir.Temp && idx >= ir.TempSize:
		return nil, newError(Range, op, args[1], "temp index %d out of range 0..%d", idx, ir.TempSize-1)
	case seg == ir.Pointer && idx >= ir.PointerSize:
		return nil, newError(Range, op, args[1], "pointer index %d out of range 0..%d", idx, ir.PointerSize-1)
	}

	if op == "pop" {
		return ir.Pop{Segment: seg, Index: idx}, nil
	}

	return ir.Push{Segment: seg, Index: idx}, nil
}

func branch(op string, args []string) (ir.Command, error) {
	if err := arity(op, args, 1); err != nil {
		return nil, err
	}

	name := args[0]

	if !Symbol(name) {
		return nil, newError(BadName, op, name, "invalid label name %q", name)
	}

	switch op {
	case "label":
		return ir.Label{Name: name}, nil
	case "goto":
		return ir.Goto{Name: name}, nil
	default:
		return ir.IfGoto{Name: name}, nil
	}
}

func function(op string, args []string) (ir.Command, error) {
	if err := arity(op, args, 2); err != nil {
		return nil, err
	}

	name := args[0]

	if !FuncName(name) {
		return nil, newError(BadName, op, name, "malformed function name %q", name)
	}

	n, err := index(op, args[1])
	if err != nil {
		return nil, err
	}

	if op == "function" {
		return ir.Function{Name: name, Locals: n}, nil
	}

	// ARG is set to SP minus the frame and the arguments in one A-instruction
	if n > MaxArgs {
		return nil, newError(Range, op, args[1], "argument count %d out of range 0..%d", n, MaxArgs)
	}

	return ir.Call{Name: name, Args: n}, nil
}

func arity(op string, args []string, n int) error {
	if len(args) == n {
		return nil
	}

	return newError(Arity, op, "", "expected %d operands, got %d", n, len(args))
}

func index(op, tok string) (int, error) {
	x, ok := Uint(tok)
	if !ok {
		return 0, newError(Number, op, tok, "expected unsigned integer, got %q", tok)
	}

	if x > MaxUint {
		return 0, newError(Range, op, tok, "%s out of range 0..%d", tok, MaxUint)
	}

	return x, nil
}

func newError(k Kind, op, tok, format string, args ...any) *Error {
	return &Error{
		Kind:  k,
		Op:    op,
		Token: tok,
		Err:   errors.New(format, args...),
		PC:    loc.Caller(1),
	}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}

	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return "kind?"
	}

	return kinds[k]
}
