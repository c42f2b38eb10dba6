package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

func TestLine(t *testing.T) {
	for _, tc := range []struct {
		text string
		exp  ir.Command
	}{
		{"push constant 7", ir.Push{Segment: ir.Constant, Index: 7}},
		{"push\tlocal   2", ir.Push{Segment: ir.Local, Index: 2}},
		{"pop argument 1", ir.Pop{Segment: ir.Argument, Index: 1}},
		{"pop temp 7", ir.Pop{Segment: ir.Temp, Index: 7}},
		{"pop pointer 1", ir.Pop{Segment: ir.Pointer, Index: 1}},
		{"push static 32767", ir.Push{Segment: ir.Static, Index: 32767}},
		{"add", ir.Binary{Op: ir.Add}},
		{"sub", ir.Binary{Op: ir.Sub}},
		{"and", ir.Binary{Op: ir.And}},
		{"or", ir.Binary{Op: ir.Or}},
		{"neg", ir.Unary{Op: ir.Neg}},
		{"not", ir.Unary{Op: ir.Not}},
		{"eq", ir.Compare{Op: ir.Eq}},
		{"gt", ir.Compare{Op: ir.Gt}},
		{"lt", ir.Compare{Op: ir.Lt}},
		{"label LOOP_START", ir.Label{Name: "LOOP_START"}},
		{"goto a.b$c:d", ir.Goto{Name: "a.b$c:d"}},
		{"if-goto END", ir.IfGoto{Name: "END"}},
		{"function Main.main 2", ir.Function{Name: "Main.main", Locals: 2}},
		{"function helper 0", ir.Function{Name: "helper", Locals: 0}},
		{"call Math.multiply 2", ir.Call{Name: "Math.multiply", Args: 2}},
		{"call f 32762", ir.Call{Name: "f", Args: 32762}},
		{"function f 32767", ir.Function{Name: "f", Locals: 32767}},
		{"return", ir.Return{}},
	} {
		x, err := Line(tc.text)
		if assert.NoError(t, err, "%q", tc.text) {
			assert.Equal(t, tc.exp, x, "%q", tc.text)
		}
	}
}

func TestLineErrors(t *testing.T) {
	for _, tc := range []struct {
		text string
		kind Kind
		msg  string
	}{
		{"jump 3", Unsupported, `unsupported operation "jump"`},
		{"Push constant 1", Unsupported, `unsupported operation "Push"`},
		{"push constant", Arity, "push: expected 2 operands, got 1"},
		{"push constant 1 2", Arity, "push: expected 2 operands, got 3"},
		{"add 1", Arity, "add: expected 0 operands, got 1"},
		{"return 0", Arity, "return: expected 0 operands, got 1"},
		{"label", Arity, "label: expected 1 operands, got 0"},
		{"call f", Arity, "call: expected 2 operands, got 1"},
		{"push constant x", Number, `push: expected unsigned integer, got "x"`},
		{"push constant -1", Number, `push: expected unsigned integer, got "-1"`},
		{"function f 1a", Number, `function: expected unsigned integer, got "1a"`},
		{"push constant 32768", Range, "push: 32768 out of range 0..32767"},
		{"push constant 999999999999999999999", Range, "push: 999999999999999999999 out of range 0..32767"},
		{"call f 32763", Range, "call: argument count 32763 out of range 0..32762"},
		{"pop temp 8", Range, "pop: temp index 8 out of range 0..7"},
		{"push pointer 2", Range, "push: pointer index 2 out of range 0..1"},
		{"pop constant 0", BadSegment, "pop: constant segment is push-only"},
		{"push heap 0", BadSegment, `push: unknown segment "heap"`},
		{"label 1abc", BadName, `label: invalid label name "1abc"`},
		{"goto a-b", BadName, `goto: invalid label name "a-b"`},
		{"function .f 0", BadName, `function: malformed function name ".f"`},
		{"call Main. 0", BadName, `call: malformed function name "Main."`},
		{"call a..b 0", BadName, `call: malformed function name "a..b"`},
	} {
		x, err := Line(tc.text)
		assert.Nil(t, x, "%q", tc.text)

		var pe *Error
		if assert.ErrorAs(t, err, &pe, "%q", tc.text) {
			assert.Equal(t, tc.kind, pe.Kind, "%q", tc.text)
			assert.Equal(t, tc.msg, pe.Error(), "%q", tc.text)
		}
	}
}

func TestErrorLocation(t *testing.T) {
	_, err := Line("pop constant 1")

	var pe *Error
	require.ErrorAs(t, err, &pe)

	_, file, _ := pe.PC.NameFileLine()
	assert.Contains(t, file, "parse.go")
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "push constant 1", Strip("  push constant 1  // comment\r"))
	assert.Equal(t, "", Strip("// only a comment"))
	assert.Equal(t, "", Strip(" \t "))
	assert.Equal(t, "add", Strip("\tadd//x"))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, Lines([]byte("a\r\n\nb\n")))
	assert.Equal(t, []string{"a", "b"}, Lines([]byte("a\nb")))
	assert.Nil(t, Lines(nil))
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"push", "local", "1"}, SpaceTab.Fields(" push \t local  1 "))
	assert.Nil(t, SpaceTab.Fields("  "))
	assert.Equal(t, "x y", SpaceAll.Trim("\t x y\r\n"))
}

func TestUint(t *testing.T) {
	x, ok := Uint("0")
	assert.True(t, ok)
	assert.Equal(t, 0, x)

	x, ok = Uint("32767")
	assert.True(t, ok)
	assert.Equal(t, 32767, x)

	x, ok = Uint("40000")
	assert.True(t, ok)
	assert.Equal(t, MaxUint+1, x)

	_, ok = Uint("")
	assert.False(t, ok)

	_, ok = Uint("+1")
	assert.False(t, ok)
}

func TestSymbol(t *testing.T) {
	assert.True(t, Symbol("Main.main"))
	assert.True(t, Symbol("_x$1:y"))
	assert.False(t, Symbol(""))
	assert.False(t, Symbol("9x"))
	assert.False(t, Symbol("a b"))

	assert.True(t, FuncName("Main.main"))
	assert.True(t, FuncName("main"))
	assert.False(t, FuncName("Main..main"))
	assert.False(t, FuncName("Main."))
}
