// Package storage keeps canonical JSON documents addressed by CID.
package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/cjson/cidutil"
)

// CAS stores canonical JSON documents keyed by CID.
//
// Contract:
// - Put canonicalizes the document before deriving the CID, so logically
// equal documents share one address.
// - Put MUST be idempotent.
// - Stored documents MUST be immutable.
// - Get returns canonical bytes that hash to the requested CID.
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(doc []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Canonical canonicalizes doc and derives its CID. Every adapter funnels
// Put through it.
func Canonical(doc []byte) ([]byte, cid.Cid, error) {
	id, canon, err := cidutil.DocumentCID(doc)
	if err != nil {
		return nil, cid.Undef, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if !id.Defined() {
		return nil, cid.Undef, ErrInvalidCID
	}
	return canon, id, nil
}

// Check verifies that stored bytes hash to id.
func Check(id cid.Cid, data []byte) error {
	if !id.Defined() {
		return ErrInvalidCID
	}
	if !cidutil.Verify(id, data) {
		return ErrCIDMismatch
	}
	return nil
}
