package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOK(t *testing.T) {
	assert.Equal(t, "OK true 100 60\n", FormatOK(true, 100, 60))
	assert.Equal(t, "OK false 0 10\n", FormatOK(false, 0, 10))
}

func TestFormatErrUnknownCommandReplyText(t *testing.T) {
	got := FormatErr("unknown-command", "Unrecognized command: EGGPLANT")
	assert.Equal(t, `ERR unknown-command "Unrecognized command: EGGPLANT"`+"\n", got)
}

func TestFormatErrUnterminatedQuoteReplyText(t *testing.T) {
	got := FormatErr("unknown", "Unexpected end of quoted string.")
	assert.Equal(t, `ERR unknown "Unexpected end of quoted string."`+"\n", got)
}
