package wire

import "strings"

// Quote renders s as a double-quoted wire token, escaping backslashes and
// quote characters the same way Tokenizer.scanQuoted un-escapes them --
// this symmetry is what makes quote/dequote a round trip.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}
