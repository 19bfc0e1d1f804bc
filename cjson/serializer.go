package cjson

import (
	"encoding/json"
	"io"
	"math/big"
	"sort"
)

// Serializer walks a JSON-shaped value tree and drives a Formatter with the
// matching event sequence.
//
// Accepted shapes: nil, bool, every integer kind, *big.Int and big.Int,
// float32 and float64, json.Number, string, []byte (an array of integers),
// RawMessage and json.RawMessage, []any, []string, map[string]any,
// map[string]string and Object. Any other value is marshaled with
// encoding/json and spliced as a raw fragment; a \ufffd escape in that
// output is taken as an invalid string and rejected.
type Serializer struct {
	w io.Writer
	f Formatter
}

func NewSerializer(w io.Writer, f Formatter) *Serializer {
	return &Serializer{w: w, f: f}
}

// Serialize emits v. Errors from w are returned as KindSink errors; bytes
// already written when an error occurs must be discarded.
func (s *Serializer) Serialize(v any) error {
	return sinkError(s.value(v))
}

func (s *Serializer) value(v any) error {
	switch v := v.(type) {
	case nil:
		return s.f.WriteNull(s.w)
	case bool:
		return s.f.WriteBool(s.w, v)
	case int:
		return s.f.WriteInt64(s.w, int64(v))
	case int8:
		return s.f.WriteInt64(s.w, int64(v))
	case int16:
		return s.f.WriteInt64(s.w, int64(v))
	case int32:
		return s.f.WriteInt64(s.w, int64(v))
	case int64:
		return s.f.WriteInt64(s.w, v)
	case uint:
		return s.f.WriteUint64(s.w, uint64(v))
	case uint8:
		return s.f.WriteUint64(s.w, uint64(v))
	case uint16:
		return s.f.WriteUint64(s.w, uint64(v))
	case uint32:
		return s.f.WriteUint64(s.w, uint64(v))
	case uint64:
		return s.f.WriteUint64(s.w, v)
	case *big.Int:
		if v == nil {
			return s.f.WriteNull(s.w)
		}
		return s.f.WriteBigInt(s.w, v)
	case big.Int:
		return s.f.WriteBigInt(s.w, &v)
	case float32:
		return s.f.WriteFloat32(s.w, v)
	case float64:
		return s.f.WriteFloat64(s.w, v)
	case json.Number:
		return s.f.WriteNumberString(s.w, string(v))
	case string:
		return s.str(v)
	case []byte:
		return s.f.WriteByteArray(s.w, v)
	case RawMessage:
		return s.f.WriteRawFragment(s.w, string(v))
	case json.RawMessage:
		return s.f.WriteRawFragment(s.w, string(v))
	case []any:
		return s.array(len(v), func(i int) any { return v[i] })
	case []string:
		return s.array(len(v), func(i int) any { return v[i] })
	case Object:
		return s.object(len(v), func(i int) (string, any) { return v[i].Key, v[i].Value })
	case map[string]any:
		keys := sortedKeys(v)
		return s.object(len(keys), func(i int) (string, any) { return keys[i], v[keys[i]] })
	case map[string]string:
		keys := sortedKeys(v)
		return s.object(len(keys), func(i int) (string, any) { return keys[i], v[keys[i]] })
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return wrapError(KindUnsupported, "CJSON-TYPE-001", "cannot marshal value", err)
		}
		if err := checkEscapes(string(raw), true); err != nil {
			return err
		}
		return s.f.WriteRawFragment(s.w, string(raw))
	}
}

// str splits v into fragments at characters that need an escape event.
// Escapable characters are ASCII, so a fragment never splits a multi-byte
// sequence.
func (s *Serializer) str(v string) error {
	if err := s.f.BeginString(s.w); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(v); i++ {
		esc, ok := escapeFor(v[i])
		if !ok {
			continue
		}
		if start < i {
			if err := s.f.WriteStringFragment(s.w, v[start:i]); err != nil {
				return err
			}
		}
		if err := s.f.WriteCharEscape(s.w, esc); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(v) {
		if err := s.f.WriteStringFragment(s.w, v[start:]); err != nil {
			return err
		}
	}
	return s.f.EndString(s.w)
}

func (s *Serializer) array(n int, at func(int) any) error {
	if err := s.f.BeginArray(s.w); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := s.f.BeginArrayValue(s.w, i == 0); err != nil {
			return err
		}
		if err := s.value(at(i)); err != nil {
			return err
		}
		if err := s.f.EndArrayValue(s.w); err != nil {
			return err
		}
	}
	return s.f.EndArray(s.w)
}

func (s *Serializer) object(n int, at func(int) (string, any)) error {
	if err := s.f.BeginObject(s.w); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, val := at(i)
		if err := s.f.BeginObjectKey(s.w, i == 0); err != nil {
			return err
		}
		if err := s.str(key); err != nil {
			return err
		}
		if err := s.f.EndObjectKey(s.w); err != nil {
			return err
		}
		if err := s.f.BeginObjectValue(s.w); err != nil {
			return err
		}
		if err := s.value(val); err != nil {
			return err
		}
		if err := s.f.EndObjectValue(s.w); err != nil {
			return err
		}
	}
	return s.f.EndObject(s.w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
