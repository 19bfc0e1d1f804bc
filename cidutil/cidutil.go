package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/cjson/cjson"
)

// JSONCodec is the multicodec code for JSON (0x0200). go-cid has no
// constant for it.
const JSONCodec uint64 = 0x0200

// CIDv1JSONSHA256 returns a CIDv1 string using the "json" multicodec
// and a sha2-256 multihash. data should already be canonical.
func CIDv1JSONSHA256(data []byte) string {
	id, err := CIDv1JSONSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return id.String()
}

// CIDv1JSONSHA256CID returns a CIDv1 (json + sha2-256) derived from data.
func CIDv1JSONSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(JSONCodec, sum), nil
}

// DocumentCID canonicalizes doc and returns the CID of the canonical bytes,
// so logically equal documents share a CID.
func DocumentCID(doc []byte) (cid.Cid, []byte, error) {
	canon, err := cjson.Canonicalize(doc)
	if err != nil {
		return cid.Undef, nil, fmt.Errorf("canonical JSON required: %w", err)
	}
	id, err := CIDv1JSONSHA256CID(canon)
	if err != nil {
		return cid.Undef, nil, err
	}
	return id, canon, nil
}

// Verify reports whether data hashes to id under the json + sha2-256 scheme.
func Verify(id cid.Cid, data []byte) bool {
	if !id.Defined() {
		return false
	}
	got, err := CIDv1JSONSHA256CID(data)
	if err != nil {
		return false
	}
	return got.Equals(id)
}
