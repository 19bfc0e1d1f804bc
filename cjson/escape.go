package cjson

var (
	escapedQuote     = []byte{'\\', '"'}
	escapedBackslash = []byte{'\\', '\\'}
)

// canonicalEscape spells c under the canonical escape policy: quote and
// backslash get a backslash prefix, every other character is written as
// its literal byte.
func canonicalEscape(c CharEscape) []byte {
	switch c.kind {
	case escQuote:
		return escapedQuote
	case escReverseSolidus:
		return escapedBackslash
	default:
		return []byte{c.Byte}
	}
}
