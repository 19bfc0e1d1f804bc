package cjson

import (
	"io"
	"math"
	"math/big"
	"strconv"
)

// CompactFormatter writes plain compact JSON with standard escapes.
//
// It holds no state, so the zero value is ready to use and may be shared.
// CanonicalFormatter uses it for every primitive that needs no reordering.
type CompactFormatter struct{}

var _ Formatter = CompactFormatter{}

const hexDigits = "0123456789abcdef"

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func (CompactFormatter) WriteNull(w io.Writer) error {
	return writeString(w, "null")
}

func (CompactFormatter) WriteBool(w io.Writer, v bool) error {
	if v {
		return writeString(w, "true")
	}
	return writeString(w, "false")
}

func (CompactFormatter) WriteInt64(w io.Writer, v int64) error {
	var buf [20]byte
	_, err := w.Write(strconv.AppendInt(buf[:0], v, 10))
	return err
}

func (CompactFormatter) WriteUint64(w io.Writer, v uint64) error {
	var buf [20]byte
	_, err := w.Write(strconv.AppendUint(buf[:0], v, 10))
	return err
}

func (CompactFormatter) WriteBigInt(w io.Writer, v *big.Int) error {
	if v == nil {
		return writeString(w, "null")
	}
	_, err := w.Write(v.Append(nil, 10))
	return err
}

func (f CompactFormatter) WriteFloat32(w io.Writer, v float32) error {
	return f.writeFloat(w, float64(v), 32)
}

func (f CompactFormatter) WriteFloat64(w io.Writer, v float64) error {
	return f.writeFloat(w, v, 64)
}

// Non-finite values have no JSON spelling and are written as null.
func (CompactFormatter) writeFloat(w io.Writer, v float64, bits int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return writeString(w, "null")
	}
	var buf [32]byte
	_, err := w.Write(strconv.AppendFloat(buf[:0], v, 'g', -1, bits))
	return err
}

func (CompactFormatter) WriteNumberString(w io.Writer, s string) error {
	return writeString(w, s)
}

func (f CompactFormatter) WriteByteArray(w io.Writer, b []byte) error {
	if err := f.BeginArray(w); err != nil {
		return err
	}
	for i, v := range b {
		if err := f.BeginArrayValue(w, i == 0); err != nil {
			return err
		}
		if err := f.WriteUint64(w, uint64(v)); err != nil {
			return err
		}
	}
	return f.EndArray(w)
}

func (CompactFormatter) BeginString(w io.Writer) error { return writeByte(w, '"') }
func (CompactFormatter) EndString(w io.Writer) error   { return writeByte(w, '"') }

func (CompactFormatter) WriteStringFragment(w io.Writer, fragment string) error {
	return writeString(w, fragment)
}

func (CompactFormatter) WriteCharEscape(w io.Writer, c CharEscape) error {
	var s string
	switch c.kind {
	case escQuote:
		s = `\"`
	case escReverseSolidus:
		s = `\\`
	case escSolidus:
		s = `\/`
	case escBackspace:
		s = `\b`
	case escFormFeed:
		s = `\f`
	case escLineFeed:
		s = `\n`
	case escCarriageReturn:
		s = `\r`
	case escTab:
		s = `\t`
	default:
		_, err := w.Write([]byte{'\\', 'u', '0', '0', hexDigits[c.Byte>>4], hexDigits[c.Byte&0xF]})
		return err
	}
	return writeString(w, s)
}

func (CompactFormatter) BeginArray(w io.Writer) error { return writeByte(w, '[') }
func (CompactFormatter) EndArray(w io.Writer) error   { return writeByte(w, ']') }

func (CompactFormatter) BeginArrayValue(w io.Writer, first bool) error {
	if first {
		return nil
	}
	return writeByte(w, ',')
}

func (CompactFormatter) EndArrayValue(io.Writer) error { return nil }

func (CompactFormatter) BeginObject(w io.Writer) error { return writeByte(w, '{') }
func (CompactFormatter) EndObject(w io.Writer) error   { return writeByte(w, '}') }

func (CompactFormatter) BeginObjectKey(w io.Writer, first bool) error {
	if first {
		return nil
	}
	return writeByte(w, ',')
}

func (CompactFormatter) EndObjectKey(io.Writer) error { return nil }

func (CompactFormatter) BeginObjectValue(w io.Writer) error { return writeByte(w, ':') }

func (CompactFormatter) EndObjectValue(io.Writer) error { return nil }

func (CompactFormatter) WriteRawFragment(w io.Writer, fragment string) error {
	return writeString(w, fragment)
}
