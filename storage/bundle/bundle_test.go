package bundle_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ipfs/go-cid"

	"xdao.co/cjson/cidutil"
	"xdao.co/cjson/storage"
	"xdao.co/cjson/storage/bundle"
	"xdao.co/cjson/storage/localfs"
)

func TestBundle_ExportIsDeterministic(t *testing.T) {
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	id1, err := cas.Put([]byte(`{"hello":1}`))
	if err != nil {
		t.Fatal(err)
	}
	id2, err := cas.Put([]byte(`{"world":2}`))
	if err != nil {
		t.Fatal(err)
	}
	labels := map[string]cid.Cid{"second": id2, "first": id1}

	var outA, outB bytes.Buffer
	if err := bundle.Export(&outA, cas, []cid.Cid{id2, id1}, bundle.ExportOptions{IncludeIndex: true, Labels: labels}); err != nil {
		t.Fatal(err)
	}
	if err := bundle.Export(&outB, cas, []cid.Cid{id1, id2, id1}, bundle.ExportOptions{IncludeIndex: true, Labels: labels}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(outA.Bytes(), outB.Bytes()) {
		t.Fatalf("expected deterministic bundle bytes")
	}

	tr := tar.NewReader(bytes.NewReader(outA.Bytes()))
	var names []string
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, h.Name)
	}
	if len(names) != 3 || names[2] != "index.json" {
		t.Fatalf("unexpected entries: %v", names)
	}
}

func TestBundle_ImportRoundTrip(t *testing.T) {
	src := storage.NewMemory()
	id, err := src.Put([]byte(`{"payload":[1,2,3]}`))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := bundle.Export(&buf, src, []cid.Cid{id}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}

	dst, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ids, err := bundle.Import(bytes.NewReader(buf.Bytes()), dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || !ids[0].Equals(id) {
		t.Fatalf("imported ids: %v", ids)
	}
	got, err := dst.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"payload":[1,2,3]}` {
		t.Fatalf("payload mismatch: %s", got)
	}
}

func TestBundle_ImportRejectsCIDMismatch(t *testing.T) {
	good := []byte(`"good"`)
	otherCID, err := cidutil.CIDv1JSONSHA256CID([]byte(`"other"`))
	if err != nil {
		t.Fatal(err)
	}

	bundleBytes := makeTar(t, "docs/"+otherCID.String(), good)
	if _, err := bundle.Import(bytes.NewReader(bundleBytes), storage.NewMemory()); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
}

func TestBundle_ImportRejectsNonCanonicalDocument(t *testing.T) {
	loose := []byte(`{ "a" : 1 }`)
	looseCID, err := cidutil.CIDv1JSONSHA256CID(loose)
	if err != nil {
		t.Fatal(err)
	}
	bundleBytes := makeTar(t, "docs/"+looseCID.String(), loose)
	if _, err := bundle.Import(bytes.NewReader(bundleBytes), storage.NewMemory()); err == nil {
		t.Fatalf("expected non-canonical document to be rejected")
	}
}

func TestBundle_ImportUnknownEntries(t *testing.T) {
	bundleBytes := makeTar(t, "notes/readme.txt", []byte("hi"))
	if _, err := bundle.Import(bytes.NewReader(bundleBytes), storage.NewMemory()); err == nil {
		t.Fatalf("expected unknown entry error")
	}
	ids, err := bundle.ImportWithOptions(bytes.NewReader(bundleBytes), storage.NewMemory(), bundle.ImportOptions{IgnoreUnknown: true})
	if err != nil || len(ids) != 0 {
		t.Fatalf("IgnoreUnknown: ids=%v err=%v", ids, err)
	}
	if _, err := bundle.Import(bytes.NewReader(makeTar(t, "../escape", []byte("x"))), storage.NewMemory()); err == nil {
		t.Fatalf("expected invalid path error")
	}
}

func makeTar(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	h := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  time.Unix(0, 0).UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(h); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
