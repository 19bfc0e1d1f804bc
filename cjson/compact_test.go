package cjson

import (
	"bytes"
	"testing"
)

func TestCompactFormatter(t *testing.T) {
	out, err := MarshalCompact(Object{
		{Key: "b", Value: 1.5},
		{Key: "a", Value: "x/y\n\"\x01"},
		{Key: "b", Value: RawMessage(`{ "keep" : "order" }`)},
	})
	if err != nil {
		t.Fatalf("MarshalCompact: %v", err)
	}
	want := `{"b":1.5,"a":"x/y\n\"\u0001","b":{ "keep" : "order" }}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}

func TestFormatterInterchangeable(t *testing.T) {
	v := map[string]any{"b": []any{"é", nil}, "a": true}
	for name, f := range map[string]Formatter{
		"compact":   CompactFormatter{},
		"canonical": NewCanonicalFormatter(),
	} {
		var buf bytes.Buffer
		if err := NewSerializer(&buf, f).Serialize(v); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got, want := buf.String(), `{"a":true,"b":["é",null]}`; got != want {
			t.Fatalf("%s: got %s want %s", name, got, want)
		}
	}
}

func TestCompactFormatter_Floats(t *testing.T) {
	out, err := MarshalCompact([]any{0.5, float32(0.25), 1e21})
	if err != nil {
		t.Fatalf("MarshalCompact: %v", err)
	}
	if got, want := string(out), `[0.5,0.25,1e+21]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}
