package cjson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TestConformanceVectors canonicalizes every file under testdata/input and
// compares the bytes with testdata/<name>.golden. Run with -update to
// regenerate after an intentional format change.
func TestConformanceVectors(t *testing.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "input", "*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(inputs) == 0 {
		t.Fatalf("no conformance inputs found")
	}

	g := goldie.New(t)
	for _, path := range inputs {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		t.Run(name, func(t *testing.T) {
			in, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}
			got, err := Canonicalize(in)
			if err != nil {
				t.Fatalf("Canonicalize: %v", err)
			}
			g.Assert(t, name, got)

			if err := CheckCanonical(got); err != nil {
				t.Fatalf("golden output is not canonical: %v", err)
			}
		})
	}
}
