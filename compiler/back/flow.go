package back

import (
	"strings"
)

// Label returns the global symbol of the unit-local label name.
func (c *Compiler) Label(name string) string {
	return c.Unit.Name + "." + name
}

// FuncName qualifies a bare function name with the unit name.
func (c *Compiler) FuncName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}

	return c.Unit.Name + "." + name
}

func (c *Compiler) label(b []byte, name string) []byte {
	return emit(b, "("+c.Label(name)+")")
}

func (c *Compiler) jump(b []byte, name string) []byte {
	return emit(b, "@"+c.Label(name), "0;JMP")
}

func (c *Compiler) jumpIf(b []byte, name string) []byte {
	b = popD(b)

	return emit(b, "@"+c.Label(name), "D;JNE")
}
