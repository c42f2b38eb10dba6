package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora"
	"golang.org/x/term"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/Rem113/HackVmCompiler/compiler"
	"github.com/Rem113/HackVmCompiler/compiler/asm"
	"github.com/Rem113/HackVmCompiler/compiler/back"
	"github.com/Rem113/HackVmCompiler/compiler/cpu"
	"github.com/Rem113/HackVmCompiler/compiler/front"
	"github.com/Rem113/HackVmCompiler/compiler/ir"
)

func main() {
	def := compiler.DefaultOptions()

	flags := []*cli.Flag{
		cli.NewFlag("ext", def.Ext, "source file suffix"),
		cli.NewFlag("out-ext", def.OutExt, "suffix appended to the input path to name the output"),
		cli.NewFlag("entry", def.Entry, "function called by the bootstrap code"),
		cli.NewFlag("bootstrap", def.Bootstrap, "emit bootstrap code"),
		cli.NewFlag("jobs,j", def.Jobs, "units translated concurrently"),
		cli.NewFlag("strict", false, "fail if any line was rejected"),
		cli.NewFlag("color", "auto", "colorize diagnostics: auto, always, never"),
		cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
		cli.HelpFlag,
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print parsed commands of every unit",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags:       flags,
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "translate, assemble and execute a program",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: append([]*cli.Flag{
			cli.NewFlag("steps", 1000000, "max instructions to execute"),
			cli.NewFlag("stack", 16, "max stack cells to print"),
		}, flags...),
	}

	translateCmd := &cli.Command{
		Name:        "translate",
		Description: "translate a .vm file or a directory of .vm files into Hack assembly",
		Action:      translateAct,
		Args:        cli.Args{},
		Flags:       flags,
	}

	app := &cli.Command{
		Name:        "vmc",
		Description: "vmc translates stack machine code into Hack assembly",
		Action:      translateAct,
		Args:        cli.Args{},
		Flags:       flags,
		Commands: []*cli.Command{
			translateCmd,
			parseCmd,
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func translateAct(c *cli.Command) (err error) {
	ctx, path, err := setup(c)
	if err != nil {
		return err
	}

	p, dst, err := compiler.CompilePath(ctx, path, options(c))
	if err != nil {
		return errors.Wrap(err, "compile %v", path)
	}

	report(c, p.Diags)

	fmt.Printf("%v: %d units written to %v\n", path, len(p.Units), dst)

	return strict(c, p.Diags)
}

func parseAct(c *cli.Command) (err error) {
	ctx, path, err := setup(c)
	if err != nil {
		return err
	}

	opts := options(c)

	srcs, err := compiler.Load(ctx, path, opts.Ext)
	if err != nil {
		return errors.Wrap(err, "load %v", path)
	}

	var diags []front.Diagnostic

	for _, s := range srcs {
		u := front.Parse(ctx, s.Name, s.Path, s.Lines)

		fmt.Printf("unit %v (%v): %d lines, %d commands\n", u.Name, u.Path, u.Raw, len(u.Lines))

		for _, l := range u.Lines {
			fmt.Printf("%5d  %-32s %s", l.N, l.Text, spew.Sdump(l.Cmd))
		}

		diags = append(diags, u.Diags...)
	}

	report(c, diags)

	return strict(c, diags)
}

func runAct(c *cli.Command) (err error) {
	ctx, path, err := setup(c)
	if err != nil {
		return err
	}

	p, err := compiler.Build(ctx, path, options(c))
	if err != nil {
		return errors.Wrap(err, "build %v", path)
	}

	report(c, p.Diags)

	prog, err := asm.Assemble(ctx, p.Code)
	if err != nil {
		return errors.Wrap(err, "assemble")
	}

	m := cpu.New(prog.Code)

	if !c.Bool("bootstrap") {
		for _, r := range back.Bootstrap {
			m.Poke(r.Reg, uint16(r.Val))
		}
	}

	au := colors(c)

	err = m.Run(ctx, c.Int("steps"))
	if errors.Is(err, cpu.ErrStepLimit) {
		fmt.Printf("%v after %d steps\n", au.Yellow("stopped"), m.Steps)
	} else if err != nil {
		return errors.Wrap(err, "run")
	} else {
		fmt.Printf("halted after %d steps at pc %d\n", m.Steps, m.PC)
	}

	for _, r := range []asm.Addr{asm.SP, asm.LCL, asm.ARG, asm.THIS, asm.THAT} {
		mark := ""
		if m.Wrote(r) {
			mark = " *"
		}

		fmt.Printf("%-4v = %d%s\n", r.Name(), int16(m.Peek(r)), mark)
	}

	st := m.Stack()
	if n := c.Int("stack"); len(st) > n {
		st = st[len(st)-n:]
	}

	fmt.Printf("stack top: %v\n", st)
	fmt.Printf("written cells: %d\n", m.Written.Size())

	for _, sp := range m.Written.Spans() {
		fmt.Printf("  %5d..%-5d %-6v %d cells\n", sp.Lo, sp.Hi-1, region(asm.Addr(sp.Lo)), sp.Len())
	}

	return strict(c, p.Diags)
}

func region(a asm.Addr) string {
	switch {
	case a <= asm.THAT:
		return "ptr"
	case a < asm.TempBase+ir.TempSize:
		return "temp"
	case a < asm.StaticBase:
		return "reg"
	case a < asm.StackBase:
		return "static"
	case a < asm.HeapBase:
		return "stack"
	case a < asm.Screen:
		return "heap"
	case a < asm.Keyboard:
		return "screen"
	}

	return "io"
}

func setup(c *cli.Command) (ctx context.Context, path string, err error) {
	if v := c.String("verbosity"); v != "" {
		tlog.SetVerbosity(v)
	}

	if len(c.Args) != 1 {
		return nil, "", errors.New("expected one path argument, got %d", len(c.Args))
	}

	ctx = context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return ctx, c.Args[0], nil
}

func options(c *cli.Command) compiler.Options {
	return compiler.Options{
		Ext:       c.String("ext"),
		OutExt:    c.String("out-ext"),
		Entry:     c.String("entry"),
		Bootstrap: c.Bool("bootstrap"),
		Jobs:      c.Int("jobs"),
	}
}

func report(c *cli.Command, diags []front.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	au := colors(c)

	for _, d := range diags {
		fmt.Printf("%v:%d: %v %v\n", d.Unit, d.Line, au.Red("error:"), d.Err)
	}

	fmt.Printf("%v\n", au.Bold(fmt.Sprintf("%d errors", len(diags))))
}

func strict(c *cli.Command, diags []front.Diagnostic) error {
	if !c.Bool("strict") || len(diags) == 0 {
		return nil
	}

	return errors.New("%d lines rejected", len(diags))
}

func colors(c *cli.Command) aurora.Aurora {
	switch c.String("color") {
	case "always":
		return aurora.NewAurora(true)
	case "never":
		return aurora.NewAurora(false)
	}

	return aurora.NewAurora(term.IsTerminal(int(os.Stdout.Fd())))
}
