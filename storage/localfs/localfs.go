// Package localfs is a filesystem-backed storage.CAS.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/cjson/storage"
)

// readOrder lists every on-disk encoding Get and Has look for, so a store
// stays readable after its compression setting changes.
var readOrder = []Compression{CompressionNone, CompressionZstd, CompressionLZ4}

// CAS is a local filesystem-backed content-addressable store.
//
// Documents are stored immutably and keyed strictly by CID. This
// implementation never uses the network and never depends on wall-clock time.
type CAS struct {
	root        string
	compression Compression
}

var _ storage.CAS = (*CAS)(nil)

// Options tunes a filesystem CAS.
type Options struct {
	// Compression applies to new documents. Existing documents are read in
	// whatever encoding they were written with.
	Compression Compression
}

// New constructs an uncompressed filesystem CAS rooted at root.
func New(root string) (*CAS, error) {
	return NewWithOptions(root, Options{})
}

// NewWithOptions constructs a filesystem CAS rooted at root. The directory
// is created if needed.
func NewWithOptions(root string, opts Options) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	comp, err := ParseCompression(string(opts.Compression))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root, compression: comp}, nil
}

func (c *CAS) Put(doc []byte) (cid.Cid, error) {
	canon, id, err := storage.Canonical(doc)
	if err != nil {
		return cid.Undef, err
	}

	if existing, err := c.Get(id); err == nil {
		if !bytes.Equal(existing, canon) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	} else if !storage.IsNotFound(err) {
		// Present but unreadable or corrupted.
		return cid.Undef, storage.ErrImmutable
	}

	payload, err := c.compression.encode(canon)
	if err != nil {
		return cid.Undef, err
	}

	path := c.pathFor(id, c.compression)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			// Lost a race with a concurrent writer of the same document.
			existing, rerr := c.Get(id)
			if rerr != nil || !bytes.Equal(existing, canon) {
				return cid.Undef, storage.ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, err
	}

	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	for _, comp := range readOrder {
		raw, err := os.ReadFile(c.pathFor(id, comp))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		b, err := comp.decode(raw)
		if err != nil {
			return nil, storage.ErrCIDMismatch
		}
		if err := storage.Check(id, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, storage.ErrNotFound
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	for _, comp := range readOrder {
		if _, err := os.Stat(c.pathFor(id, comp)); err == nil {
			return true
		}
	}
	return false
}

// pathFor shards by the last two CID characters; the leading characters
// are the same for every CIDv1 in base32.
func (c *CAS) pathFor(id cid.Cid, comp Compression) string {
	s := id.String()
	name := s + comp.suffix()
	if len(s) < 2 {
		return filepath.Join(c.root, name)
	}
	return filepath.Join(c.root, s[len(s)-2:], name)
}
