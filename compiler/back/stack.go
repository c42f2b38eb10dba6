package back

// popD moves the top of the stack into D and decrements SP.
// A is left pointing at the popped cell.
func popD(b []byte) []byte {
	return emit(b,
		"@SP",
		"AM=M-1",
		"D=M",
	)
}

// pushD stores D at the cell SP points to and increments SP.
func pushD(b []byte) []byte {
	return emit(b,
		"@SP",
		"A=M",
		"M=D",
		"@SP",
		"M=M+1",
	)
}

// top points A at the top of the stack without changing SP.
func top(b []byte) []byte {
	return emit(b,
		"@SP",
		"A=M-1",
	)
}
