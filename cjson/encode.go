package cjson

import (
	"bytes"
	"io"
)

// EncodeOptions tunes canonical encoding.
type EncodeOptions struct {
	// RejectDuplicateKeys fails encoding when an object carries the same
	// encoded key twice. The default keeps the last member silently.
	RejectDuplicateKeys bool
}

// Marshal returns the canonical JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return MarshalWithOptions(v, EncodeOptions{})
}

// MarshalWithOptions is Marshal with explicit options.
func MarshalWithOptions(v any, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetRejectDuplicateKeys(opts.RejectDuplicateKeys)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Canonicalize re-encodes one JSON text in canonical form.
func Canonicalize(data []byte) ([]byte, error) {
	return Marshal(RawMessage(data))
}

// CanonicalizeWithOptions is Canonicalize with explicit options.
func CanonicalizeWithOptions(data []byte, opts EncodeOptions) ([]byte, error) {
	return MarshalWithOptions(RawMessage(data), opts)
}

// CheckCanonical returns nil only if data is already byte-for-byte
// canonical. It never repairs its input.
func CheckCanonical(data []byte) error {
	canon, err := Canonicalize(data)
	if err != nil {
		return err
	}
	if !bytes.Equal(canon, data) {
		return errNonCanonical
	}
	return nil
}

// MarshalCompact returns plain compact JSON for v using CompactFormatter.
// Map keys are emitted in sorted order; other objects keep their order.
func MarshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewSerializer(&buf, CompactFormatter{}).Serialize(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes canonical JSON documents to an output stream.
//
// Each Encode call uses a fresh CanonicalFormatter. Documents are written
// back to back with no separator.
type Encoder struct {
	w      io.Writer
	strict bool
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// SetRejectDuplicateKeys toggles strict duplicate key handling.
func (e *Encoder) SetRejectDuplicateKeys(on bool) {
	e.strict = on
}

// Encode writes the canonical encoding of v. Output outside any object
// streams straight to the writer; on error the bytes already written are
// incomplete and must be discarded.
func (e *Encoder) Encode(v any) error {
	f := &CanonicalFormatter{RejectDuplicateKeys: e.strict}
	if err := NewSerializer(e.w, f).Serialize(v); err != nil {
		return err
	}
	if f.Depth() != 0 {
		return errOutOfOrder
	}
	return nil
}
