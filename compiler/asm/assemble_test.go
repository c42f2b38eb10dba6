package asm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleEncoding(t *testing.T) {
	p, err := Assemble(context.Background(), []byte(`
// add two numbers
@2
D=A
@3
D=D+A
@0
M=D
AM=M-1
D;JGT
0;JMP
`))
	require.NoError(t, err)

	assert.Equal(t, []uint16{
		2,
		0xec10,
		3,
		0xe090,
		0,
		0xe308,
		0xfca8,
		0xe301,
		0xea87,
	}, p.Code)
}

func TestAssembleAliases(t *testing.T) {
	p, err := Assemble(context.Background(), []byte("D=D+M\nD=M+D\nD=D&A\nD=A&D\nM=M+1\nM=1+M\n"))
	require.NoError(t, err)

	require.Len(t, p.Code, 6)

	for i := 0; i < len(p.Code); i += 2 {
		assert.Equal(t, p.Code[i], p.Code[i+1], "pair %d", i/2)
	}
}

func TestAssembleSymbols(t *testing.T) {
	p, err := Assemble(context.Background(), []byte(`
(LOOP)
@i
M=1
@LOOP
0;JMP
(END)
@j
D=M
@i
@SP
@R13
@SCREEN
@KBD
`))
	require.NoError(t, err)

	assert.Equal(t, map[string]Addr{"LOOP": 0, "END": 4}, p.Labels)
	assert.Equal(t, map[string]Addr{"i": 16, "j": 17}, p.Vars)

	assert.Equal(t, []uint16{16, 0xefc8, 0, 0xea87, 17, 0xfc10, 16, 0, 13, 16384, 24576}, p.Code)
}

func TestAssembleErrors(t *testing.T) {
	for _, tc := range []struct {
		text string
		msg  string
	}{
		{"D=X", "bad comp"},
		{"D;JXX", "bad jump"},
		{"AA=D", "bad dest"},
		{"Q=D", "bad dest"},
		{"(BAD", "bad label"},
		{"()", "bad label"},
		{"(L)\n(L)", "label redefined"},
		{"@99999", "address"},
		{"@", "empty address"},
	} {
		_, err := Assemble(context.Background(), []byte(tc.text))
		if assert.Error(t, err, "%q", tc.text) {
			assert.Contains(t, err.Error(), tc.msg, "%q", tc.text)
			assert.Contains(t, err.Error(), "line ", "%q", tc.text)
		}
	}
}

func TestAddrNames(t *testing.T) {
	assert.Equal(t, "R0", Addr(0).Reg())
	assert.Equal(t, "R15", R15.Reg())
	assert.Equal(t, "THAT", THAT.Name())
	assert.Equal(t, "R13", R13.Name())
	assert.Equal(t, "", StackBase.Name())

	assert.Equal(t, R14, Symbols["R14"])
	assert.Equal(t, SP, Symbols["R0"])
}
