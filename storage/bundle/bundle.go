// Package bundle moves canonical documents between stores as a
// deterministic TAR archive.
//
// Layout:
//
//	docs/<cid>   canonical JSON bytes of one document
//	index.json   optional, non-authoritative canonical JSON index
package bundle

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"xdao.co/cjson/cjson"
	"xdao.co/cjson/storage"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

const docsDir = "docs/"

var epoch0 = time.Unix(0, 0).UTC()

// ExportOptions controls bundle export behavior.
type ExportOptions struct {
	// Labels is optional, non-authoritative metadata mapping names to CIDs.
	Labels map[string]cid.Cid
	// IncludeIndex controls whether index.json is included.
	IncludeIndex bool
}

// Export writes a TAR bundle containing the documents for ids.
//
// Entry order is lexicographic by CID and headers carry no host metadata,
// so equal inputs produce equal bytes. Every exported document is checked
// against its CID.
func Export(w io.Writer, cas storage.CAS, ids []cid.Cid, opts ExportOptions) error {
	if cas == nil {
		return fmt.Errorf("bundle: nil CAS")
	}

	uniq := make(map[string]cid.Cid, len(ids))
	for _, id := range ids {
		if !id.Defined() {
			return storage.ErrInvalidCID
		}
		uniq[id.String()] = id
	}
	names := make([]string, 0, len(uniq))
	for s := range uniq {
		names = append(names, s)
	}
	sort.Strings(names)

	idx := index{Version: FormatVersion, CIDCodec: "json", Multihash: "sha2-256"}
	tw := tar.NewWriter(w)
	for _, s := range names {
		id := uniq[s]
		b, err := cas.Get(id)
		if err != nil {
			_ = tw.Close()
			return fmt.Errorf("bundle: %s: %w", s, err)
		}
		if err := storage.Check(id, b); err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, docsDir+s, b); err != nil {
			_ = tw.Close()
			return err
		}
		idx.Documents = append(idx.Documents, indexDocument{CID: s, Size: len(b)})
	}

	if opts.IncludeIndex {
		for name, id := range opts.Labels {
			if name == "" {
				_ = tw.Close()
				return fmt.Errorf("bundle: empty label key")
			}
			if !id.Defined() {
				_ = tw.Close()
				return storage.ErrInvalidCID
			}
			idx.Labels = append(idx.Labels, indexLabel{Name: name, CID: id.String()})
		}
		sort.Slice(idx.Labels, func(i, j int) bool { return idx.Labels[i].Name < idx.Labels[j].Name })

		b, err := cjson.Marshal(idx)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, "index.json", b); err != nil {
			_ = tw.Close()
			return err
		}
	}
	return tw.Close()
}

// ImportOptions controls bundle import behavior.
type ImportOptions struct {
	// IgnoreUnknown skips unknown TAR entries instead of failing.
	IgnoreUnknown bool
}

// Import reads a bundle from r and stores every document in cas. Unknown
// entries are an error.
func Import(r io.Reader, cas storage.CAS) ([]cid.Cid, error) {
	return ImportWithOptions(r, cas, ImportOptions{})
}

// ImportWithOptions reads a bundle from r and stores every document in cas.
//
// Each document must already be canonical and must hash to the CID in its
// entry name. It returns the imported CIDs in bundle order.
func ImportWithOptions(r io.Reader, cas storage.CAS, opts ImportOptions) ([]cid.Cid, error) {
	if cas == nil {
		return nil, fmt.Errorf("bundle: nil CAS")
	}

	tr := tar.NewReader(r)
	seen := map[string]struct{}{}
	var imported []cid.Cid
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return imported, nil
		}
		if err != nil {
			return imported, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return imported, fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return imported, fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}
		if name == "index.json" {
			continue
		}
		if !strings.HasPrefix(name, docsDir) {
			if opts.IgnoreUnknown {
				continue
			}
			return imported, fmt.Errorf("bundle: unknown entry: %s", name)
		}

		id, err := cid.Decode(strings.TrimPrefix(name, docsDir))
		if err != nil || !id.Defined() {
			return imported, storage.ErrInvalidCID
		}
		if _, ok := seen[id.String()]; ok {
			return imported, fmt.Errorf("bundle: duplicate document entry: %s", id)
		}
		seen[id.String()] = struct{}{}

		payload, err := io.ReadAll(tr)
		if err != nil {
			return imported, err
		}
		if err := storage.Check(id, payload); err != nil {
			return imported, err
		}
		if err := cjson.CheckCanonical(payload); err != nil {
			return imported, fmt.Errorf("bundle: %s: %w", id, err)
		}
		got, err := cas.Put(payload)
		if err != nil {
			return imported, err
		}
		if !got.Equals(id) {
			return imported, storage.ErrCIDMismatch
		}
		imported = append(imported, id)
	}
}

type index struct {
	Version   int             `json:"version"`
	CIDCodec  string          `json:"cid_codec"`
	Multihash string          `json:"multihash"`
	Documents []indexDocument `json:"documents"`
	Labels    []indexLabel    `json:"labels,omitempty"`
}

type indexDocument struct {
	CID  string `json:"cid"`
	Size int    `json:"size"`
}

type indexLabel struct {
	Name string `json:"name"`
	CID  string `json:"cid"`
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

// cleanTarPath returns "" for absolute, empty or escaping paths.
func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
