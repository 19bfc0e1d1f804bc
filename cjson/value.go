package cjson

// RawMessage is a pre-serialized JSON text. The walker hands it to
// Formatter.WriteRawFragment; the canonical formatter re-parses it rather
// than copying the bytes.
type RawMessage []byte

// MarshalJSON returns m, so a RawMessage nested in a value marshaled by
// encoding/json is spliced as-is.
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps source member order and repeated keys.
// Raw fragments decode their objects into this type so duplicate keys reach
// the formatter instead of being merged by a map.
type Object []Member

// Get returns the value of the last member named key.
func (o Object) Get(key string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}
