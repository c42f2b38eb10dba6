package parse

import "strings"

const Comment = "//"

// Lines splits source text into raw lines.
// Line terminators are dropped, a final line without terminator is kept.
func Lines(text []byte) (l []string) {
	s := string(text)

	for len(s) != 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			l = append(l, s)
			break
		}

		l = append(l, strings.TrimSuffix(s[:i], "\r"))
		s = s[i+1:]
	}

	return l
}

// Strip removes the trailing comment and surrounding whitespace.
// Comment-only and blank lines become empty.
func Strip(line string) string {
	if i := strings.Index(line, Comment); i >= 0 {
		line = line[:i]
	}

	return SpaceAll.Trim(line)
}

// Symbol reports whether s is a valid assembler symbol:
// letters, digits, '_', '.', '$', ':', not starting with a digit.
func Symbol(s string) bool {
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		return false
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '$', c == ':':
		default:
			return false
		}
	}

	return true
}

// FuncName reports whether s is a valid function name.
// Qualified names must have non-empty parts around every dot.
func FuncName(s string) bool {
	if !Symbol(s) {
		return false
	}

	for _, p := range strings.Split(s, ".") {
		if p == "" {
			return false
		}
	}

	return true
}
