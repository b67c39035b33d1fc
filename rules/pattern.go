package rules

import (
	"regexp"
	"strings"
)

type patternKind int

const (
	patternExact patternKind = iota
	patternAny
	patternPrefix
)

// globMetaEscaper literal-escapes every regex metacharacter for PREFIX
// compilation, leaving '*' as the only wildcard.
// The replacer makes a single pass over its input, so a backslash it
// introduces is never itself escaped again.
var globMetaEscaper = strings.NewReplacer(
	`\`, `\\`,
	"-", `\-`, "[", `\[`, "]", `\]`, "{", `\{`, "}", `\}`,
	"(", `\(`, ")", `\)`, "+", `\+`, "?", `\?`, ".", `\.`,
	",", `\,`, "^", `\^`, "$", `\$`, "|", `\|`, "#", `\#`,
)

// Pattern is the closed, tagged match rule a rule attaches to one label:
// EXACT, ANY, or PREFIX. No runtime polymorphism is needed -- dispatch is
// a plain switch on kind.
type Pattern struct {
	kind   patternKind
	exact  string
	prefix string
	re     *regexp.Regexp
}

// Exact builds an EXACT(v) pattern.
func Exact(v string) Pattern { return Pattern{kind: patternExact, exact: v} }

// Any builds the ANY pattern, matching any value including a missing label.
func Any() Pattern { return Pattern{kind: patternAny} }

// Prefix builds a PREFIX(p) pattern. PREFIX("") collapses to ANY -- a bare
// "*" must never be represented as a regex.
func Prefix(p string) Pattern {
	if p == "" {
		return Any()
	}
	glob := strings.ReplaceAll(globMetaEscaper.Replace(p), "*", ".*")
	return Pattern{kind: patternPrefix, prefix: p, re: regexp.MustCompile("^" + glob)}
}

// ParsePattern derives a Pattern from a raw section-header value: a
// trailing '*' makes it a prefix glob, a bare "*" is ANY, anything else is
// an exact match.
func ParsePattern(v string) Pattern {
	if v == "*" {
		return Any()
	}
	if strings.HasSuffix(v, "*") {
		return Prefix(strings.TrimSuffix(v, "*"))
	}
	return Exact(v)
}

// Matches reports whether value -- "" for a label missing from the
// operation -- satisfies the pattern.
func (p Pattern) Matches(value string) bool {
	switch p.kind {
	case patternAny:
		return true
	case patternExact:
		return value == p.exact
	case patternPrefix:
		return p.re.MatchString(value)
	default:
		return false
	}
}

// IsAny reports whether this is the ANY pattern, used by the hit handler to
// pin the projected label to the literal "*" regardless of the observed
// value.
func (p Pattern) IsAny() bool { return p.kind == patternAny }

// String renders the pattern back to its section-header spelling.
func (p Pattern) String() string {
	switch p.kind {
	case patternAny:
		return "*"
	case patternPrefix:
		return p.prefix + "*"
	default:
		return p.exact
	}
}
