package cjson

import (
	"io"
	"math/big"
)

// CharEscape names a character that a generic JSON emitter would escape
// inside a string. The walker hands these to Formatter.WriteCharEscape and
// the formatter decides how to spell them.
type CharEscape struct {
	kind escapeKind
	// Byte is the raw control byte for AsciiControl escapes.
	Byte byte
}

type escapeKind uint8

const (
	escQuote escapeKind = iota
	escReverseSolidus
	escSolidus
	escBackspace
	escFormFeed
	escLineFeed
	escCarriageReturn
	escTab
	escAsciiControl
)

var (
	Quote          = CharEscape{kind: escQuote, Byte: '"'}
	ReverseSolidus = CharEscape{kind: escReverseSolidus, Byte: '\\'}
	Solidus        = CharEscape{kind: escSolidus, Byte: '/'}
	Backspace      = CharEscape{kind: escBackspace, Byte: '\b'}
	FormFeed       = CharEscape{kind: escFormFeed, Byte: '\f'}
	LineFeed       = CharEscape{kind: escLineFeed, Byte: '\n'}
	CarriageReturn = CharEscape{kind: escCarriageReturn, Byte: '\r'}
	Tab            = CharEscape{kind: escTab, Byte: '\t'}
)

// AsciiControl returns the escape for a control byte without a short form.
func AsciiControl(b byte) CharEscape {
	return CharEscape{kind: escAsciiControl, Byte: b}
}

// escapeFor returns the escape event for b and whether b needs one.
func escapeFor(b byte) (CharEscape, bool) {
	switch b {
	case '"':
		return Quote, true
	case '\\':
		return ReverseSolidus, true
	case '\b':
		return Backspace, true
	case '\f':
		return FormFeed, true
	case '\n':
		return LineFeed, true
	case '\r':
		return CarriageReturn, true
	case '\t':
		return Tab, true
	}
	if b < 0x20 {
		return AsciiControl(b), true
	}
	return CharEscape{}, false
}

// Formatter receives the event stream produced by a Serializer and writes
// JSON bytes to w.
//
// Events arrive well nested: every Begin* is matched by a later End*, and
// object members alternate key then value. Implementations are not safe for
// concurrent use; one Formatter serves one document.
type Formatter interface {
	WriteNull(w io.Writer) error
	WriteBool(w io.Writer, v bool) error
	WriteInt64(w io.Writer, v int64) error
	WriteUint64(w io.Writer, v uint64) error
	WriteBigInt(w io.Writer, v *big.Int) error
	WriteFloat32(w io.Writer, v float32) error
	WriteFloat64(w io.Writer, v float64) error
	// WriteNumberString writes a number supplied in source form.
	WriteNumberString(w io.Writer, s string) error
	WriteByteArray(w io.Writer, b []byte) error

	BeginString(w io.Writer) error
	EndString(w io.Writer) error
	WriteStringFragment(w io.Writer, fragment string) error
	WriteCharEscape(w io.Writer, c CharEscape) error

	BeginArray(w io.Writer) error
	EndArray(w io.Writer) error
	BeginArrayValue(w io.Writer, first bool) error
	EndArrayValue(w io.Writer) error

	BeginObject(w io.Writer) error
	EndObject(w io.Writer) error
	BeginObjectKey(w io.Writer, first bool) error
	EndObjectKey(w io.Writer) error
	BeginObjectValue(w io.Writer) error
	EndObjectValue(w io.Writer) error

	// WriteRawFragment splices a pre-serialized JSON text.
	WriteRawFragment(w io.Writer, fragment string) error
}
