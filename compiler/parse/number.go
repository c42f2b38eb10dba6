package parse

// MaxUint is the largest value an A-instruction can load.
const MaxUint = 1<<15 - 1

// Uint parses a decimal unsigned integer.
// Values above MaxUint are clamped to MaxUint+1 so callers can report the range.
func Uint(tok string) (x int, ok bool) {
	if tok == "" {
		return 0, false
	}

	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c < '0' || c > '9' {
			return 0, false
		}

		if x <= MaxUint {
			x = x*10 + int(c-'0')
		}
	}

	if x > MaxUint {
		x = MaxUint + 1
	}

	return x, true
}
