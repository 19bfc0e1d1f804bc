// Package testkit holds the conformance suite every storage.CAS adapter
// runs in its own tests.
package testkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/cjson/cidutil"
	"xdao.co/cjson/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		doc := []byte(`{"b":1,"a":[true,null]}`)
		want := []byte(`{"a":[true,null],"b":1}`)

		id, err := cas.Put(doc)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.CIDv1JSONSHA256CID(want)
		if err != nil {
			t.Fatalf("CIDv1JSONSHA256CID failed: %v", err)
		}
		if !id.Equals(wantID) {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch: got %s want %s", got, want)
		}
	})

	t.Run("EquivalentDocumentsShareCID", func(t *testing.T) {
		cas := newCAS(t)
		id1, err := cas.Put([]byte(`{"k":"v","n":[1,2]}`))
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put([]byte("{ \"n\" : [ 1 , 2 ] ,\n \"k\" : \"v\" }"))
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if !id1.Equals(id2) {
			t.Fatalf("equivalent documents got different CIDs: %s vs %s", id1, id2)
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte(`["same","bytes"]`)

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if !id1.Equals(id2) {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte(`"missing"`)
		id, err := cidutil.CIDv1JSONSHA256CID(b)
		if err != nil {
			t.Fatalf("CIDv1JSONSHA256CID failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		_, err = cas.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})

	t.Run("RejectDocumentsWithoutCanonicalForm", func(t *testing.T) {
		cas := newCAS(t)
		for _, doc := range []string{`{"price":9.99}`, `not json`, `{"a":1} {"b":2}`} {
			if _, err := cas.Put([]byte(doc)); !errors.Is(err, storage.ErrInvalidDocument) {
				t.Fatalf("Put(%s): got %v want ErrInvalidDocument", doc, err)
			}
		}
	})
}
