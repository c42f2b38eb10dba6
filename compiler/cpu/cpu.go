// Package cpu emulates the Hack computer so generated code can be executed.
package cpu

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/Rem113/HackVmCompiler/compiler/asm"
	"github.com/Rem113/HackVmCompiler/compiler/set"
)

type (
	CPU struct {
		A, D uint16
		PC   uint16

		RAM [asm.MemSize]uint16
		ROM []uint16

		// Written holds every RAM address stored to since the last Reset.
		Written set.Bitmap

		Steps  int
		Halted bool
	}
)

var ErrStepLimit = errors.New("step limit reached")

func New(rom []uint16) *CPU {
	return &CPU{
		ROM:     rom,
		Written: set.MakeBitmap(asm.MemSize),
	}
}

func (c *CPU) Reset() {
	c.A, c.D, c.PC = 0, 0, 0
	c.Steps = 0
	c.Halted = false
	c.Written.Reset()
}

// Run executes until the program halts or max steps are executed.
// A program halts by running past the end of ROM or entering
// a jump-to-itself loop.
func (c *CPU) Run(ctx context.Context, max int) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "cpu: run", "rom", len(c.ROM), "max", max)
	defer tr.Finish("steps", &c.Steps, "err", &err)

	for !c.Halted {
		if max > 0 && c.Steps >= max {
			return ErrStepLimit
		}

		if c.Steps&0xffff == 0 {
			if err = ctx.Err(); err != nil {
				return err
			}
		}

		err = c.Step()
		if err != nil {
			return errors.Wrap(err, "pc %d", c.PC)
		}
	}

	return nil
}

func (c *CPU) Step() (err error) {
	if int(c.PC) >= len(c.ROM) {
		c.Halted = true
		return nil
	}

	w := c.ROM[c.PC]
	c.Steps++

	if w&0x8000 == 0 {
		c.A = w
		c.PC++

		return nil
	}

	y := c.A

	if w&(1<<12) != 0 {
		y, err = c.load(c.A)
		if err != nil {
			return err
		}
	}

	out := alu(c.D, y, w>>6)
	addr := c.A

	if w&(1<<3) != 0 {
		err = c.store(addr, out)
		if err != nil {
			return err
		}
	}

	if w&(1<<5) != 0 {
		c.A = out
	}

	if w&(1<<4) != 0 {
		c.D = out
	}

	s := int16(out)

	jump := w&4 != 0 && s < 0 ||
		w&2 != 0 && s == 0 ||
		w&1 != 0 && s > 0

	if !jump {
		c.PC++
		return nil
	}

	if w&7 == 7 && c.PC > 0 && addr == c.PC-1 && c.ROM[addr] == addr {
		c.Halted = true
		return nil
	}

	c.PC = addr

	return nil
}

// Peek reads RAM[a].
func (c *CPU) Peek(a asm.Addr) uint16 { return c.RAM[a] }

// Poke sets RAM[a] as an initial value: the cell no longer counts as written.
func (c *CPU) Poke(a asm.Addr, v uint16) {
	c.RAM[a] = v
	c.Written.Clear(int(a))
}

// Wrote reports whether the program stored to a since the last Reset or Poke.
func (c *CPU) Wrote(a asm.Addr) bool { return c.Written.IsSet(int(a)) }

// Stack returns the cells between the stack base and SP.
func (c *CPU) Stack() []int16 {
	sp := int(c.RAM[asm.SP])
	if sp < int(asm.StackBase) || sp > asm.MemSize {
		return nil
	}

	r := make([]int16, 0, sp-int(asm.StackBase))

	for _, v := range c.RAM[asm.StackBase:sp] {
		r = append(r, int16(v))
	}

	return r
}

func (c *CPU) load(a uint16) (uint16, error) {
	if int(a) >= asm.MemSize {
		return 0, errors.New("read out of memory: %d", a)
	}

	return c.RAM[a], nil
}

func (c *CPU) store(a, v uint16) error {
	if int(a) >= asm.MemSize {
		return errors.New("write out of memory: %d", a)
	}

	c.RAM[a] = v
	c.Written.Set(int(a))

	return nil
}

func alu(x, y, c uint16) (out uint16) {
	if c&(1<<5) != 0 {
		x = 0
	}

	if c&(1<<4) != 0 {
		x = ^x
	}

	if c&(1<<3) != 0 {
		y = 0
	}

	if c&(1<<2) != 0 {
		y = ^y
	}

	if c&(1<<1) != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if c&1 != 0 {
		out = ^out
	}

	return out
}
