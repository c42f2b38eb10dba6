package front

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/Rem113/HackVmCompiler/compiler/back"
	"github.com/Rem113/HackVmCompiler/compiler/ir"
	"github.com/Rem113/HackVmCompiler/compiler/parse"
)

type (
	// Unit is a parsed translation unit.
	Unit struct {
		ir.Unit

		Path string

		// Raw is the number of source lines including blank and comment lines.
		Raw int

		Lines []Line
		Diags []Diagnostic
	}

	Line struct {
		N    int // 1-based source line
		Text string
		Cmd  ir.Command
	}

	// Diagnostic is a rejected source line.
	Diagnostic struct {
		Unit string
		Line int
		Err  error
	}

	Output struct {
		Unit  string
		Path  string
		Code  []byte
		Diags []Diagnostic
	}
)

// UnitName derives the unit identity from a source path.
func UnitName(path, ext string) string {
	return strings.TrimSuffix(filepath.Base(path), ext)
}

// Parse splits raw source lines into commands.
// Lines that fail to parse become diagnostics, the rest are kept in order.
func Parse(ctx context.Context, name, path string, raw []string) (u *Unit) {
	tr := tlog.SpanFromContext(ctx)

	u = &Unit{
		Unit: ir.Unit{Name: name},
		Path: path,
		Raw:  len(raw),
	}

	for i, l := range raw {
		text := parse.Strip(l)
		if text == "" {
			continue
		}

		x, err := parse.Line(text)
		if err != nil {
			u.Diags = append(u.Diags, u.diag(tr, i+1, err))
			continue
		}

		u.Lines = append(u.Lines, Line{
			N:    i + 1,
			Text: text,
			Cmd:  x,
		})
	}

	if tr.If("dump_unit") {
		for _, l := range u.Lines {
			tr.Printw("command", "unit", name, "line", l.N, "typ", tlog.NextAsType, l.Cmd, "cmd", l.Cmd)
		}
	}

	return u
}

// Compile generates code for the parsed lines.
// base is the call-site ordinal of the first raw line of the unit.
func (u *Unit) Compile(ctx context.Context, base int) (out *Output, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: compile unit", "unit", u.Name, "base", base)
	defer tr.Finish("err", &err)

	c := back.New(u.Unit)

	out = &Output{
		Unit:  u.Name,
		Path:  u.Path,
		Diags: append([]Diagnostic(nil), u.Diags...),
	}

	var b []byte

	for _, l := range u.Lines {
		st := len(b)

		b = append(b, "// "...)
		b = append(b, l.Text...)
		b = append(b, '\n')

		b, err = c.Command(b, l.Cmd, base+l.N-1)
		if err != nil {
			out.Diags = append(out.Diags, u.diag(tr, l.N, errors.Wrap(err, "codegen")))

			b = b[:st]
			err = nil

			continue
		}
	}

	sort.SliceStable(out.Diags, func(i, j int) bool {
		return out.Diags[i].Line < out.Diags[j].Line
	})

	out.Code = b

	tr.Printw("unit compiled", "lines", len(u.Lines), "diags", len(out.Diags), "size", len(b))

	return out, nil
}

// Translate parses and compiles one unit read from path.
func Translate(ctx context.Context, name, path string, raw []string, base int) (*Output, error) {
	u := Parse(ctx, name, path, raw)

	return u.Compile(ctx, base)
}

func (u *Unit) diag(tr tlog.Span, line int, err error) Diagnostic {
	d := Diagnostic{
		Unit: u.Name,
		Line: line,
		Err:  err,
	}

	var pe *parse.Error
	if errors.As(err, &pe) {
		tr.V("diag").Printw("diagnostic", "unit", u.Name, "line", line, "kind", pe.Kind, "err", err, "from", pe.PC)
	} else {
		tr.V("diag").Printw("diagnostic", "unit", u.Name, "line", line, "err", err)
	}

	return d
}

func (d Diagnostic) Error() string {
	return d.Unit + ":" + strconv.Itoa(d.Line) + ": " + d.Err.Error()
}

func (d Diagnostic) Unwrap() error { return d.Err }
