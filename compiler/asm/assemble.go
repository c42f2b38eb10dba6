package asm

import (
	"context"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	Program struct {
		Code []uint16

		Labels map[string]Addr
		Vars   map[string]Addr
	}

	line struct {
		n    int
		text string
	}
)

var comps = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,
}

var jumps = map[string]uint16{
	"":    0,
	"JGT": 1,
	"JEQ": 2,
	"JGE": 3,
	"JLT": 4,
	"JNE": 5,
	"JLE": 6,
	"JMP": 7,
}

func init() {
	for c, x := range comps {
		if strings.Contains(c, "A") {
			comps[strings.ReplaceAll(c, "A", "M")] = x | 1<<6
		}
	}

	for _, c := range []string{"D+A", "D&A", "D|A", "D+M", "D&M", "D|M"} {
		comps[c[2:]+c[1:2]+c[:1]] = comps[c]
	}

	for _, c := range []string{"A+1", "D+1", "M+1"} {
		comps["1+"+c[:1]] = comps[c]
	}
}

// Assemble translates Hack assembly text into machine words.
func Assemble(ctx context.Context, text []byte) (p *Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "asm: assemble", "size", len(text))
	defer tr.Finish("err", &err)

	p = &Program{
		Labels: map[string]Addr{},
		Vars:   map[string]Addr{},
	}

	var code []line

	for i, l := range strings.Split(string(text), "\n") {
		if j := strings.Index(l, "//"); j >= 0 {
			l = l[:j]
		}

		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}

		if l[0] != '(' {
			code = append(code, line{n: i + 1, text: l})
			continue
		}

		if !strings.HasSuffix(l, ")") || len(l) < 3 {
			return nil, errors.New("line %d: bad label: %q", i+1, l)
		}

		name := l[1 : len(l)-1]

		if _, ok := p.Labels[name]; ok {
			return nil, errors.New("line %d: label redefined: %v", i+1, name)
		}

		p.Labels[name] = Addr(len(code))
	}

	if len(code) > MemSize {
		return nil, errors.New("program too large: %d instructions", len(code))
	}

	next := StaticBase
	p.Code = make([]uint16, len(code))

	for pc, l := range code {
		var w uint16

		if l.text[0] == '@' {
			w, next, err = p.address(l.text[1:], next)
		} else {
			w, err = instruction(l.text)
		}

		if err != nil {
			return nil, errors.Wrap(err, "line %d", l.n)
		}

		p.Code[pc] = w
	}

	if tr.If("dump_asm_labels") {
		tr.Printw("labels", "labels", p.Labels, "vars", p.Vars)
	}

	return p, nil
}

func (p *Program) address(sym string, next Addr) (uint16, Addr, error) {
	if sym == "" {
		return 0, next, errors.New("empty address")
	}

	if sym[0] >= '0' && sym[0] <= '9' {
		x, err := strconv.ParseUint(sym, 10, 15)
		if err != nil {
			return 0, next, errors.Wrap(err, "address %q", sym)
		}

		return uint16(x), next, nil
	}

	if a, ok := Symbols[sym]; ok {
		return uint16(a), next, nil
	}

	if a, ok := p.Labels[sym]; ok {
		return uint16(a), next, nil
	}

	if a, ok := p.Vars[sym]; ok {
		return uint16(a), next, nil
	}

	if next >= Screen {
		return 0, next, errors.New("out of variable space: %v", sym)
	}

	p.Vars[sym] = next

	return uint16(next), next + 1, nil
}

func instruction(s string) (w uint16, err error) {
	dest, rest, ok := strings.Cut(s, "=")
	if !ok {
		dest, rest = "", s
	}

	comp, jump, _ := strings.Cut(rest, ";")

	c, ok := comps[comp]
	if !ok {
		return 0, errors.New("bad comp: %q", comp)
	}

	j, ok := jumps[jump]
	if !ok {
		return 0, errors.New("bad jump: %q", jump)
	}

	var d uint16

	for _, r := range dest {
		var bit uint16

		switch r {
		case 'A':
			bit = 4
		case 'D':
			bit = 2
		case 'M':
			bit = 1
		default:
			return 0, errors.New("bad dest: %q", dest)
		}

		if d&bit != 0 {
			return 0, errors.New("bad dest: %q", dest)
		}

		d |= bit
	}

	return 0b111<<13 | c<<6 | d<<3 | j, nil
}
