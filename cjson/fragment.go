package cjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// parseFragment decodes exactly one JSON text into a value tree of nil,
// bool, json.Number, string, []any and Object.
func parseFragment(fragment string) (any, error) {
	if !utf8.ValidString(fragment) {
		return nil, errFragmentUTF8
	}
	if err := checkEscapes(fragment, false); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(escapeControls(fragment)))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, wrapError(KindFragment, "CJSON-RAW-001", "invalid raw fragment", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newError(KindFragment, "CJSON-RAW-002", "raw fragment has trailing data")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	case '{':
		obj := Object{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, want string", tok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Key: key, Value: v})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// escapeControls rewrites control bytes inside string literals as \u00XX.
// Canonical output carries them literally and must re-parse to itself.
// Control bytes outside strings are left for the decoder to reject.
func escapeControls(fragment string) string {
	var b []byte
	last := 0
	inString, escaped := false, false
	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		switch {
		case !inString:
			inString = c == '"'
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = false
		case c < 0x20:
			b = append(b, fragment[last:i]...)
			b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			last = i + 1
		}
	}
	if b == nil {
		return fragment
	}
	return string(append(b, fragment[last:]...))
}

// checkEscapes rejects \u escapes that encode an unpaired UTF-16 surrogate.
// The decoder would turn them into U+FFFD. With replacement set, a \ufffd
// escape is rejected too: encoding/json writes one for every invalid byte it
// meets. Malformed escapes are left for the decoder to report.
func checkEscapes(fragment string, replacement bool) error {
	inString, high := false, false
	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		if !inString {
			inString = c == '"'
			continue
		}
		if c != '\\' || i+1 >= len(fragment) || fragment[i+1] != 'u' {
			if high {
				return errLoneSurrogate
			}
			switch c {
			case '"':
				inString = false
			case '\\':
				i++
			}
			continue
		}
		if i+6 > len(fragment) {
			return nil
		}
		r, err := strconv.ParseUint(fragment[i+2:i+6], 16, 32)
		if err != nil {
			return nil
		}
		i += 5
		switch {
		case r >= 0xD800 && r < 0xDC00:
			if high {
				return errLoneSurrogate
			}
			high = true
		case r >= 0xDC00 && r < 0xE000:
			if !high {
				return errLoneSurrogate
			}
			high = false
		case high:
			return errLoneSurrogate
		case replacement && r == 0xFFFD:
			return errInvalidUTF8
		}
	}
	return nil
}
