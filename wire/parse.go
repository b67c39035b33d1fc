package wire

import (
	"fmt"
	"strings"

	"github.com/divvydb/divvy/rules"
)

// Request is one fully parsed wire request: the command verb, and for HIT,
// the labeled operation the client asked about.
type Request struct {
	Command   string
	Operation rules.Operation
}

// ParseLine tokenizes and parses a single newline-stripped request line.
// An unrecognized verb is not a parse error -- ParseLine returns it as-is
// so the caller can emit the correctly-kinded ERR unknown-command reply;
// only a lex failure, a line with no tokens, or a malformed HIT argument
// fails here, all surfaced as the "unknown" error kind.
func ParseLine(line string) (*Request, error) {
	tokens, err := NewTokenizer(line).Tokens()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty request line")
	}

	req := &Request{Command: strings.ToUpper(tokens[0])}
	if req.Command != "HIT" {
		return req, nil
	}

	op := rules.NewOperation()
	for _, arg := range tokens[1:] {
		idx := strings.IndexByte(arg, '=')
		if idx < 0 {
			return nil, fmt.Errorf("malformed argument %q: expected key=value", arg)
		}
		op.Set(arg[:idx], arg[idx+1:])
	}
	req.Operation = op
	return req, nil
}
