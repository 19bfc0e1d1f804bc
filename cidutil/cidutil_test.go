package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func TestDocumentCID_EquivalentDocumentsShareCID(t *testing.T) {
	a, canonA, err := DocumentCID([]byte(`{"b": 1, "a": "é"}`))
	if err != nil {
		t.Fatalf("DocumentCID(a): %v", err)
	}
	b, canonB, err := DocumentCID([]byte(`{"a":"é","b":1}`))
	if err != nil {
		t.Fatalf("DocumentCID(b): %v", err)
	}
	if !a.Equals(b) {
		t.Fatalf("CID mismatch: %s vs %s", a, b)
	}
	if string(canonA) != string(canonB) {
		t.Fatalf("canonical bytes differ: %q vs %q", canonA, canonB)
	}
	if a.String() != CIDv1JSONSHA256(canonA) {
		t.Fatalf("DocumentCID disagrees with CIDv1JSONSHA256")
	}
}

func TestCIDv1JSONSHA256CID_Prefix(t *testing.T) {
	id, err := CIDv1JSONSHA256CID([]byte(`{}`))
	if err != nil {
		t.Fatalf("CIDv1JSONSHA256CID: %v", err)
	}
	if id.Version() != 1 {
		t.Fatalf("version: got %d want 1", id.Version())
	}
	if id.Type() != JSONCodec {
		t.Fatalf("codec: got %#x want %#x", id.Type(), JSONCodec)
	}
	decoded, err := multihash.Decode(id.Hash())
	if err != nil {
		t.Fatalf("multihash.Decode: %v", err)
	}
	if decoded.Code != multihash.SHA2_256 {
		t.Fatalf("hash code: got %#x want sha2-256", decoded.Code)
	}

	parsed, err := cid.Decode(id.String())
	if err != nil {
		t.Fatalf("cid.Decode: %v", err)
	}
	if !parsed.Equals(id) {
		t.Fatalf("string round trip changed the CID")
	}
}

func TestDocumentCID_RejectsFloats(t *testing.T) {
	if _, _, err := DocumentCID([]byte(`{"n":1.5}`)); err == nil {
		t.Fatalf("expected float document to be rejected")
	}
}

func TestVerify(t *testing.T) {
	data := []byte(`{"a":1}`)
	id, err := CIDv1JSONSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1JSONSHA256CID: %v", err)
	}
	if !Verify(id, data) {
		t.Fatalf("Verify: expected match")
	}
	if Verify(id, []byte(`{"a":2}`)) {
		t.Fatalf("Verify: expected mismatch")
	}
	if Verify(cid.Undef, data) {
		t.Fatalf("Verify: undefined CID must not match")
	}
}
