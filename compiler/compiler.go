package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/Rem113/HackVmCompiler/compiler/front"
	"github.com/Rem113/HackVmCompiler/compiler/link"
	"github.com/Rem113/HackVmCompiler/compiler/parse"
)

type (
	Options struct {
		Ext    string
		OutExt string

		Entry     string
		Bootstrap bool

		Jobs int
	}
)

var (
	ErrNotSource = errors.New("not a source file")
	ErrNoUnits   = errors.New("no source files")
	ErrBadName   = errors.New("unit name is not a valid symbol")
)

func DefaultOptions() Options {
	return Options{
		Ext:       ".vm",
		OutExt:    ".asm",
		Entry:     link.DefaultEntry,
		Bootstrap: true,
		Jobs:      4,
	}
}

// CompilePath builds the file or directory at path and writes the result
// next to it. It returns the program with its diagnostics and the output path.
func CompilePath(ctx context.Context, path string, opts Options) (p *link.Program, dst string, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile path", "path", path)
	defer tr.Finish("err", &err)

	p, err = Build(ctx, path, opts)
	if err != nil {
		return nil, "", err
	}

	dst = OutputPath(path, opts.OutExt)

	err = os.WriteFile(dst, p.Code, 0o644)
	if err != nil {
		return nil, "", errors.Wrap(err, "write output")
	}

	tr.Printw("output written", "dst", dst, "size", len(p.Code))

	return p, dst, nil
}

// Build loads and links the units at path without writing anything.
func Build(ctx context.Context, path string, opts Options) (*link.Program, error) {
	srcs, err := Load(ctx, path, opts.Ext)
	if err != nil {
		return nil, err
	}

	return link.Link(ctx, srcs, link.Options{
		Entry:     opts.Entry,
		Bootstrap: opts.Bootstrap,
		Jobs:      opts.Jobs,
	})
}

// Compile builds a single in-memory unit.
func Compile(ctx context.Context, name string, text []byte, opts Options) (*link.Program, error) {
	err := checkName(name, opts.Ext)
	if err != nil {
		return nil, err
	}

	src := link.Source{
		Name:  front.UnitName(name, opts.Ext),
		Path:  name,
		Lines: parse.Lines(text),
	}

	return link.Link(ctx, []link.Source{src}, link.Options{
		Entry:     opts.Entry,
		Bootstrap: opts.Bootstrap,
		Jobs:      1,
	})
}

// Load discovers translation units at path and reads them.
// A directory yields every regular file with the ext suffix in name order,
// a file must have the suffix itself.
func Load(ctx context.Context, path, ext string) (srcs []link.Source, err error) {
	files, err := Discover(path, ext)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		text, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrap(err, "read %v", f)
		}

		tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", f)

		srcs = append(srcs, link.Source{
			Name:  front.UnitName(f, ext),
			Path:  f,
			Lines: parse.Lines(text),
		})
	}

	return srcs, nil
}

func Discover(path, ext string) ([]string, error) {
	inf, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}

	if !inf.IsDir() {
		if !strings.HasSuffix(path, ext) {
			return nil, errors.Wrap(ErrNotSource, "%v: want %v suffix", path, ext)
		}

		err = checkName(path, ext)
		if err != nil {
			return nil, err
		}

		return []string{path}, nil
	}

	ents, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "read dir")
	}

	var files []string

	for _, e := range ents {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}

		err = checkName(e.Name(), ext)
		if err != nil {
			return nil, err
		}

		files = append(files, filepath.Join(path, e.Name()))
	}

	if len(files) == 0 {
		return nil, errors.Wrap(ErrNoUnits, "%v", path)
	}

	return files, nil
}

// checkName rejects files whose unit name can't prefix static and label symbols.
func checkName(path, ext string) error {
	name := front.UnitName(path, ext)

	if !parse.Symbol(name) {
		return errors.Wrap(ErrBadName, "%v: %q", path, name)
	}

	return nil
}

// OutputPath appends ext to the cleaned input path.
func OutputPath(path, ext string) string {
	return filepath.Clean(path) + ext
}
