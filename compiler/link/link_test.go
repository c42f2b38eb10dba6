package link

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rem113/HackVmCompiler/compiler/asm"
	"github.com/Rem113/HackVmCompiler/compiler/cpu"
)

func sources() []Source {
	return []Source{
		{
			Name: "Main",
			Path: "prog/Main.vm",
			Lines: []string{
				"function Main.double 0",
				"push argument 0",
				"push argument 0",
				"add",
				"return",
			},
		},
		{
			Name: "Sys",
			Path: "prog/Sys.vm",
			Lines: []string{
				"// entry",
				"function Sys.init 0",
				"push constant 21",
				"call Main.double 1",
				"push constant 1",
				"eq",
				"label HALT",
				"goto HALT",
			},
		},
	}
}

func TestLinkBootstrapOnce(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		var srcs []Source

		for i := 0; i < n; i++ {
			srcs = append(srcs, Source{
				Name:  fmt.Sprintf("U%d", i),
				Path:  fmt.Sprintf("U%d.vm", i),
				Lines: []string{"push constant 1", "push constant 1", "eq"},
			})
		}

		p, err := Link(context.Background(), srcs, Options{Bootstrap: true, Jobs: 3})
		require.NoError(t, err)

		code := string(p.Code)

		assert.Equal(t, 1, strings.Count(code, "// bootstrap\n"), "units %d", n)
		assert.Equal(t, 1, strings.Count(code, "// call Sys.init 0\n"), "units %d", n)

		last := -1

		for i := 0; i < n; i++ {
			pos := strings.Index(code, fmt.Sprintf("// U%d.vm\n", i))
			require.True(t, pos > last, "unit %d out of order", i)

			last = pos

			assert.Contains(t, code, fmt.Sprintf("(eq$true.%d)", i*3+2))
		}

		assert.Equal(t, srcs[0].Name, p.Units[0])
		assert.Len(t, p.Units, n)
	}
}

func TestLinkDeterministic(t *testing.T) {
	var srcs []Source

	for i := 0; i < 20; i++ {
		srcs = append(srcs, Source{
			Name:  fmt.Sprintf("U%02d", i),
			Path:  fmt.Sprintf("U%02d.vm", i),
			Lines: []string{"push constant 1", "call f 0", "bad line", "lt"},
		})
	}

	ref, err := Link(context.Background(), srcs, Options{Jobs: 1})
	require.NoError(t, err)

	for _, jobs := range []int{2, 8, 32} {
		p, err := Link(context.Background(), srcs, Options{Jobs: jobs})
		require.NoError(t, err)

		assert.Equal(t, string(ref.Code), string(p.Code), "jobs %d", jobs)
		assert.Equal(t, ref.Diags, p.Diags, "jobs %d", jobs)
	}

	require.Len(t, ref.Diags, 20)

	for i, d := range ref.Diags {
		assert.Equal(t, srcs[i].Name, d.Unit)
		assert.Equal(t, 3, d.Line)
	}

	assert.NotContains(t, string(ref.Code), "// bootstrap")
}

func TestLinkRun(t *testing.T) {
	p, err := Link(context.Background(), sources(), Options{Bootstrap: true, Jobs: 2})
	require.NoError(t, err)
	require.Empty(t, p.Diags)

	prog, err := asm.Assemble(context.Background(), p.Code)
	require.NoError(t, err)

	m := cpu.New(prog.Code)

	err = m.Run(context.Background(), 10000)
	require.NoError(t, err)
	require.True(t, m.Halted)

	st := m.Stack()
	require.NotEmpty(t, st)
	assert.Equal(t, int16(0), st[len(st)-1])

	// 21 doubled was compared with 1
	assert.Contains(t, string(p.Code), "(Main.double$ret.8)")
}

func TestLinkEmpty(t *testing.T) {
	p, err := Link(context.Background(), nil, Options{Bootstrap: true})
	require.NoError(t, err)

	assert.Contains(t, string(p.Code), "// bootstrap")
	assert.Empty(t, p.Units)
}

func TestLinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Link(ctx, sources(), Options{Jobs: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
