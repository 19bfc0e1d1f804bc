package cjson

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// normalize rewrites fragment to Unicode Normalization Form C. The result
// aliases f's scratch buffer and is valid until the next call.
func (f *CanonicalFormatter) normalize(fragment string) ([]byte, error) {
	if !utf8.ValidString(fragment) {
		return nil, errInvalidUTF8
	}
	f.norm = norm.NFC.AppendString(f.norm[:0], fragment)
	return f.norm, nil
}
