package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensBarewords(t *testing.T) {
	toks, err := NewTokenizer(`HIT method=GET path=/ping`).Tokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"HIT", "method=GET", "path=/ping"}, toks)
}

func TestTokensQuotedString(t *testing.T) {
	toks, err := NewTokenizer(`HIT path="/with space"`).Tokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"HIT", `path=/with space`}, toks)
}

func TestTokensQuotedEscapes(t *testing.T) {
	toks, err := NewTokenizer(`HIT msg="a\"b\\c"`).Tokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"HIT", `msg=a"b\c`}, toks)
}

func TestTokensUnterminatedQuoteIsLexError(t *testing.T) {
	_, err := NewTokenizer(`HIT "quoteme=123`).Tokens()
	require.Error(t, err)
	assert.Equal(t, "Unexpected end of quoted string.", err.Error())
}

func TestTokensEmptyLine(t *testing.T) {
	toks, err := NewTokenizer("   ").Tokens()
	require.NoError(t, err)
	assert.Empty(t, toks)
}

// TestQuoteRoundTrip verifies dequote(quote(s)) == s for printable
// ASCII, including characters the quoter itself must escape.
func TestQuoteRoundTrip(t *testing.T) {
	samples := []string{
		"",
		"plain",
		`has "quotes" inside`,
		`has\backslash`,
		`both \ and " together`,
		"tab\tand space",
	}

	for _, s := range samples {
		quoted := Quote(s)
		toks, err := NewTokenizer(quoted).Tokens()
		require.NoError(t, err)
		require.Len(t, toks, 1)
		assert.Equal(t, s, toks[0])
	}
}
