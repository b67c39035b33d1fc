package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  patternKind
	}{
		{"bare star is any", "*", patternAny},
		{"trailing star is prefix", "/ping*", patternPrefix},
		{"no star is exact", "GET", patternExact},
		{"empty string is exact", "", patternExact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePattern(tt.input)
			assert.Equal(t, tt.kind, p.kind)
		})
	}
}

func TestPrefixEmptyCollapsesToAny(t *testing.T) {
	p := Prefix("")
	assert.True(t, p.IsAny())
}

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		value   string
		want    bool
	}{
		{"any matches anything", Any(), "whatever", true},
		{"any matches empty", Any(), "", true},
		{"exact matches equal", Exact("GET"), "GET", true},
		{"exact rejects unequal", Exact("GET"), "POST", false},
		{"exact rejects missing", Exact("GET"), "", false},
		{"prefix matches own prefix", Prefix("/ping"), "/ping", true},
		{"prefix matches extension", Prefix("/ping"), "/pingpong", true},
		{"prefix rejects non-match", Prefix("/ping"), "/pong", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Matches(tt.value))
		})
	}
}

// TestPrefixEscapesGlobMeta ensures PREFIX treats regex metacharacters in
// the declared prefix literally -- a rule path like "/v1.0*" must not let
// '.' match any character.
func TestPrefixEscapesGlobMeta(t *testing.T) {
	p := Prefix("/v1.0")
	assert.True(t, p.Matches("/v1.0/users"))
	assert.False(t, p.Matches("/v1X0/users"))
}

func TestPatternStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"*", "/ping*", "GET", ""} {
		p := ParsePattern(raw)
		require.Equal(t, raw, p.String())
	}
}
