package ir

type (
	Segment int
	Op      int

	// Command is one parsed VM instruction.
	// The set of implementations is closed: Push, Pop, Binary, Unary,
	// Compare, Label, Goto, IfGoto, Function, Call and Return.
	Command interface {
		command()
	}

	Push struct {
		Segment Segment
		Index   int
	}

	Pop struct {
		Segment Segment
		Index   int
	}

	Binary struct {
		Op Op
	}

	Unary struct {
		Op Op
	}

	Compare struct {
		Op Op
	}

	Label struct {
		Name string
	}

	Goto struct {
		Name string
	}

	IfGoto struct {
		Name string
	}

	Function struct {
		Name   string
		Locals int
	}

	Call struct {
		Name string
		Args int
	}

	Return struct{}

	// Unit is a translation unit identity.
	// Name is the source base name without the suffix and namespaces
	// statics, labels and unqualified function names.
	Unit struct {
		Name string
	}
)

const (
	Local Segment = iota
	Argument
	This
	That
	Temp
	Static
	Pointer
	Constant
)

const (
	Add Op = iota
	Sub
	And
	Or
	Neg
	Not
	Eq
	Gt
	Lt
)

const (
	TempSize    = 8
	PointerSize = 2

	// FrameSize is the number of cells a call saves below the callee's locals.
	FrameSize = 5
)

var segments = []string{
	Local:    "local",
	Argument: "argument",
	This:     "this",
	That:     "that",
	Temp:     "temp",
	Static:   "static",
	Pointer:  "pointer",
	Constant: "constant",
}

var ops = []string{
	Add: "add",
	Sub: "sub",
	And: "and",
	Or:  "or",
	Neg: "neg",
	Not: "not",
	Eq:  "eq",
	Gt:  "gt",
	Lt:  "lt",
}

func (Push) command()     {}
func (Pop) command()      {}
func (Binary) command()   {}
func (Unary) command()    {}
func (Compare) command()  {}
func (Label) command()    {}
func (Goto) command()     {}
func (IfGoto) command()   {}
func (Function) command() {}
func (Call) command()     {}
func (Return) command()   {}

func LookupSegment(name string) (Segment, bool) {
	for s, n := range segments {
		if n == name {
			return Segment(s), true
		}
	}

	return 0, false
}

func LookupOp(name string) (Op, bool) {
	for op, n := range ops {
		if n == name {
			return Op(op), true
		}
	}

	return 0, false
}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segments) {
		return "segment?"
	}

	return segments[s]
}

// Pointer reports whether the segment is addressed through a base pointer cell.
func (s Segment) Pointer() bool {
	return s == Local || s == Argument || s == This || s == That
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(ops) {
		return "op?"
	}

	return ops[op]
}

func (op Op) Binary() bool  { return op == Add || op == Sub || op == And || op == Or }
func (op Op) Unary() bool   { return op == Neg || op == Not }
func (op Op) Compare() bool { return op == Eq || op == Gt || op == Lt }
