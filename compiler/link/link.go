// Package link translates a set of units and joins them into one program.
package link

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"nikand.dev/go/heap"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/Rem113/HackVmCompiler/compiler/back"
	"github.com/Rem113/HackVmCompiler/compiler/front"
)

type (
	// Source is a unit as supplied by the reader.
	Source struct {
		Name  string
		Path  string
		Lines []string
	}

	Options struct {
		Entry     string
		Bootstrap bool

		// Jobs limits concurrently translated units. Zero means one.
		Jobs int
	}

	Program struct {
		Code []byte

		Units []string
		Diags []front.Diagnostic
	}

	result struct {
		idx int
		out *front.Output
	}
)

const DefaultEntry = "Sys.init"

// Link translates srcs and concatenates them in the given order after
// a single bootstrap preamble.
// Call-site ordinals are assigned from line offsets computed up front,
// so the result does not depend on scheduling.
func Link(ctx context.Context, srcs []Source, opts Options) (p *Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "link: program", "units", len(srcs), "jobs", opts.Jobs)
	defer tr.Finish("err", &err)

	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}

	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}

	base := make([]int, len(srcs))
	total := 0

	for i, s := range srcs {
		base[i] = total
		total += len(s.Lines)
	}

	p = &Program{}

	if opts.Bootstrap {
		p.Code = back.Preamble(p.Code, opts.Entry)
	}

	res := make(chan result, len(srcs))
	done := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	go func() {
		defer close(res)

		for i, s := range srcs {
			i, s := i, s

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				u := front.Parse(gctx, s.Name, s.Path, s.Lines)

				out, err := u.Compile(gctx, base[i])
				if err != nil {
					return errors.Wrap(err, "unit %v", s.Name)
				}

				res <- result{idx: i, out: out}

				return nil
			})
		}

		done <- g.Wait()
	}()

	pending := heap.Heap[result]{Less: resultLess}
	next := 0

	for r := range res {
		pending.Push(r)

		for pending.Len() != 0 {
			r := pending.Pop()
			if r.idx != next {
				pending.Push(r)
				break
			}

			p.append(srcs[r.idx], r.out)
			next++
		}
	}

	if err = <-done; err != nil {
		return nil, err
	}

	if next != len(srcs) {
		return nil, errors.New("lost units: linked %d of %d", next, len(srcs))
	}

	if tr.If("dump_program") {
		tr.Printw("program", "code", p.Code)
	}

	tr.Printw("program linked", "units", len(p.Units), "diags", len(p.Diags), "size", len(p.Code), "lines", total)

	return p, nil
}

func (p *Program) append(s Source, out *front.Output) {
	name := filepath.Base(out.Path)
	if name == "." || name == "" {
		name = s.Name
	}

	p.Code = append(p.Code, "// "...)
	p.Code = append(p.Code, name...)
	p.Code = append(p.Code, '\n')
	p.Code = append(p.Code, out.Code...)

	p.Units = append(p.Units, s.Name)
	p.Diags = append(p.Diags, out.Diags...)
}

func resultLess(d []result, i, j int) bool {
	return d[i].idx < d[j].idx
}
