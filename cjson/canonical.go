package cjson

import (
	"bytes"
	"io"
	"math/big"
	"sort"
)

type collecting uint8

const (
	// collectingKey: bytes land in the key buffer.
	collectingKey collecting = iota
	// collectingValue: the key is frozen, bytes land in the value buffer.
	collectingValue
)

// object is one open object on the formatter's stack.
//
// members maps the encoded key (quotes and escapes included) to the encoded
// value. Values of nested containers are complete, already sorted byte
// sequences by the time they are inserted.
type object struct {
	members map[string][]byte
	state   collecting
	key     bytes.Buffer
	value   bytes.Buffer
	frozen  string
}

func newObject() *object {
	return &object{members: make(map[string][]byte)}
}

// target returns the buffer receiving bytes in the current sub-state.
func (o *object) target() *bytes.Buffer {
	if o.state == collectingValue {
		return &o.value
	}
	return &o.key
}

// CanonicalFormatter is a Formatter that produces canonical JSON: object
// members sorted by encoded key bytes, integers only, NFC text, and only
// quote and backslash escaped.
//
// Objects are buffered in memory until they close, so memory use grows with
// the total size of all currently open objects. Use one CanonicalFormatter
// per document; it is not safe for concurrent use.
type CanonicalFormatter struct {
	// RejectDuplicateKeys makes a repeated encoded key in one object an
	// error. When false the last member with a given key wins.
	RejectDuplicateKeys bool

	stack []*object
	norm  []byte
}

var _ Formatter = (*CanonicalFormatter)(nil)

// NewCanonicalFormatter returns a formatter with last-write-wins duplicate
// key handling.
func NewCanonicalFormatter() *CanonicalFormatter {
	return &CanonicalFormatter{}
}

// Depth reports how many objects are currently open.
func (f *CanonicalFormatter) Depth() int {
	return len(f.stack)
}

// writer is the output redirection selector: the active buffer of the
// innermost open object, or w when no object is open.
func (f *CanonicalFormatter) writer(w io.Writer) io.Writer {
	if len(f.stack) == 0 {
		return w
	}
	return f.stack[len(f.stack)-1].target()
}

func (f *CanonicalFormatter) top() (*object, error) {
	if len(f.stack) == 0 {
		return nil, errNoOpenObject
	}
	return f.stack[len(f.stack)-1], nil
}

func (f *CanonicalFormatter) WriteNull(w io.Writer) error {
	return CompactFormatter{}.WriteNull(f.writer(w))
}

func (f *CanonicalFormatter) WriteBool(w io.Writer, v bool) error {
	return CompactFormatter{}.WriteBool(f.writer(w), v)
}

func (f *CanonicalFormatter) WriteInt64(w io.Writer, v int64) error {
	return CompactFormatter{}.WriteInt64(f.writer(w), v)
}

func (f *CanonicalFormatter) WriteUint64(w io.Writer, v uint64) error {
	return CompactFormatter{}.WriteUint64(f.writer(w), v)
}

func (f *CanonicalFormatter) WriteBigInt(w io.Writer, v *big.Int) error {
	return CompactFormatter{}.WriteBigInt(f.writer(w), v)
}

func (f *CanonicalFormatter) WriteFloat32(io.Writer, float32) error { return errFloat }
func (f *CanonicalFormatter) WriteFloat64(io.Writer, float64) error { return errFloat }

func (f *CanonicalFormatter) WriteNumberString(w io.Writer, s string) error {
	if err := checkInteger(s); err != nil {
		return err
	}
	return CompactFormatter{}.WriteNumberString(f.writer(w), s)
}

func (f *CanonicalFormatter) WriteByteArray(w io.Writer, b []byte) error {
	return CompactFormatter{}.WriteByteArray(f.writer(w), b)
}

func (f *CanonicalFormatter) BeginString(w io.Writer) error {
	return CompactFormatter{}.BeginString(f.writer(w))
}

func (f *CanonicalFormatter) EndString(w io.Writer) error {
	return CompactFormatter{}.EndString(f.writer(w))
}

func (f *CanonicalFormatter) WriteStringFragment(w io.Writer, fragment string) error {
	out, err := f.normalize(fragment)
	if err != nil {
		return err
	}
	_, err = f.writer(w).Write(out)
	return err
}

func (f *CanonicalFormatter) WriteCharEscape(w io.Writer, c CharEscape) error {
	_, err := f.writer(w).Write(canonicalEscape(c))
	return err
}

func (f *CanonicalFormatter) BeginArray(w io.Writer) error {
	return CompactFormatter{}.BeginArray(f.writer(w))
}

func (f *CanonicalFormatter) EndArray(w io.Writer) error {
	return CompactFormatter{}.EndArray(f.writer(w))
}

func (f *CanonicalFormatter) BeginArrayValue(w io.Writer, first bool) error {
	return CompactFormatter{}.BeginArrayValue(f.writer(w), first)
}

func (f *CanonicalFormatter) EndArrayValue(w io.Writer) error {
	return CompactFormatter{}.EndArrayValue(f.writer(w))
}

// BeginObject writes '{' through the selector first, so a nested object's
// open byte lands in its parent's value buffer, then pushes a frame.
func (f *CanonicalFormatter) BeginObject(w io.Writer) error {
	if err := (CompactFormatter{}).BeginObject(f.writer(w)); err != nil {
		return err
	}
	f.stack = append(f.stack, newObject())
	return nil
}

// EndObject pops the frame and replays its members in ascending key order
// through the selector, followed by '}'.
func (f *CanonicalFormatter) EndObject(w io.Writer) error {
	o, err := f.top()
	if err != nil {
		return err
	}
	if o.state != collectingKey {
		return errOutOfOrder
	}
	f.stack[len(f.stack)-1] = nil
	f.stack = f.stack[:len(f.stack)-1]

	keys := make([]string, 0, len(o.members))
	for k := range o.members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := CompactFormatter{}
	out := f.writer(w)
	for i, k := range keys {
		if err := c.BeginObjectKey(out, i == 0); err != nil {
			return err
		}
		if err := writeString(out, k); err != nil {
			return err
		}
		if err := c.EndObjectKey(out); err != nil {
			return err
		}
		if err := c.BeginObjectValue(out); err != nil {
			return err
		}
		if _, err := out.Write(o.members[k]); err != nil {
			return err
		}
		if err := c.EndObjectValue(out); err != nil {
			return err
		}
	}
	return c.EndObject(out)
}

func (f *CanonicalFormatter) BeginObjectKey(io.Writer, bool) error {
	o, err := f.top()
	if err != nil {
		return err
	}
	o.state = collectingKey
	o.key.Reset()
	return nil
}

func (f *CanonicalFormatter) EndObjectKey(io.Writer) error {
	o, err := f.top()
	if err != nil {
		return err
	}
	if o.state != collectingKey {
		return errOutOfOrder
	}
	o.frozen = o.key.String()
	o.key.Reset()
	o.value.Reset()
	o.state = collectingValue
	return nil
}

// BeginObjectValue is a no-op: value bytes are already redirected.
func (f *CanonicalFormatter) BeginObjectValue(io.Writer) error {
	_, err := f.top()
	return err
}

func (f *CanonicalFormatter) EndObjectValue(io.Writer) error {
	o, err := f.top()
	if err != nil {
		return err
	}
	if o.state != collectingValue {
		return errOutOfOrder
	}
	if _, dup := o.members[o.frozen]; dup && f.RejectDuplicateKeys {
		return &Error{Kind: KindDuplicate, RuleID: "CJSON-OBJ-001", Message: "duplicate object key " + o.frozen}
	}
	o.members[o.frozen] = bytes.Clone(o.value.Bytes())
	o.frozen = ""
	o.value.Reset()
	o.state = collectingKey
	return nil
}

// WriteRawFragment re-parses fragment and drives a fresh CanonicalFormatter
// over the result, so spliced content is normalized and sorted too.
func (f *CanonicalFormatter) WriteRawFragment(w io.Writer, fragment string) error {
	v, err := parseFragment(fragment)
	if err != nil {
		return err
	}
	inner := &CanonicalFormatter{RejectDuplicateKeys: f.RejectDuplicateKeys}
	return NewSerializer(f.writer(w), inner).Serialize(v)
}
