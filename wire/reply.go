package wire

import "fmt"

// FormatOK renders a successful HIT reply: OK <allowed> <credit> <ttl>.
func FormatOK(allowed bool, currentCredit, nextResetSeconds int) string {
	return fmt.Sprintf("OK %t %d %d\n", allowed, currentCredit, nextResetSeconds)
}

// FormatErr renders a protocol error reply: ERR <kind> "<message>". kind is
// one of the short dashed error-kind tokens.
func FormatErr(kind, message string) string {
	return fmt.Sprintf("ERR %s %s\n", kind, Quote(message))
}
