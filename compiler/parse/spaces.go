package parse

type (
	Spaces uint64
)

var (
	Space    = NewSpaces(' ')
	SpaceTab = NewSpaces(' ', '\t')
	SpaceAll = NewSpaces(' ', '\t', '\r', '\n', '\v', '\f')
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Is(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b string, st int) (i int) {
	i = st

	for i < len(b) && s.Is(b[i]) {
		i++
	}

	return
}

// Fields splits b around runs of s.
func (s Spaces) Fields(b string) (f []string) {
	for i := s.Skip(b, 0); i < len(b); i = s.Skip(b, i) {
		st := i

		for i < len(b) && !s.Is(b[i]) {
			i++
		}

		f = append(f, b[st:i])
	}

	return f
}

func (s Spaces) Trim(b string) string {
	st := s.Skip(b, 0)
	end := len(b)

	for end > st && s.Is(b[end-1]) {
		end--
	}

	return b[st:end]
}
