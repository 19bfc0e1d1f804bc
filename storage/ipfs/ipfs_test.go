package ipfs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"xdao.co/cjson/cidutil"
	"xdao.co/cjson/storage"
)

const fakeIPFS = `#!/bin/sh
case "$1 $2" in
"block put") cat > "$FAKE_DIR/last"; echo "$FAKE_CID" ;;
"block get") if [ -f "$FAKE_DIR/last" ]; then cat "$FAKE_DIR/last"; else echo "Error: block was not found locally" >&2; exit 1; fi ;;
"block stat") [ -f "$FAKE_DIR/last" ] || { echo "Error: block was not found locally" >&2; exit 1; } ;;
*) echo "unexpected: $*" >&2; exit 2 ;;
esac
`

func fakeCAS(t *testing.T, reportCID string) (*CAS, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "ipfs")
	if err := os.WriteFile(bin, []byte(fakeIPFS), 0o755); err != nil {
		t.Fatal(err)
	}
	env := append(os.Environ(), "FAKE_DIR="+dir, "FAKE_CID="+reportCID)
	return New(Options{Bin: bin, Env: env}), dir
}

func TestIPFS_PutGetThroughCLI(t *testing.T) {
	want := []byte(`{"a":1,"b":2}`)
	id, err := cidutil.CIDv1JSONSHA256CID(want)
	if err != nil {
		t.Fatal(err)
	}
	cas, dir := fakeCAS(t, id.String())

	if cas.Has(id) {
		t.Fatalf("Has before Put: expected false")
	}
	if _, err := cas.Get(id); !storage.IsNotFound(err) {
		t.Fatalf("Get before Put: got %v want ErrNotFound", err)
	}

	got, err := cas.Put([]byte(`{"b":2,"a":1}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !got.Equals(id) {
		t.Fatalf("Put CID: got %s want %s", got, id)
	}
	stored, err := os.ReadFile(filepath.Join(dir, "last"))
	if err != nil {
		t.Fatal(err)
	}
	if string(stored) != string(want) {
		t.Fatalf("ipfs received non-canonical bytes: %s", stored)
	}
	if !cas.Has(id) {
		t.Fatalf("Has after Put: expected true")
	}
	b, err := cas.Get(id)
	if err != nil || string(b) != string(want) {
		t.Fatalf("Get: %s, %v", b, err)
	}
}

func TestIPFS_RejectsForeignCID(t *testing.T) {
	other, err := cidutil.CIDv1JSONSHA256CID([]byte(`"other"`))
	if err != nil {
		t.Fatal(err)
	}
	cas, _ := fakeCAS(t, other.String())
	if _, err := cas.Put([]byte(`{"a":1}`)); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("Put: got %v want ErrCIDMismatch", err)
	}
	// The block on disk now holds {"a":1}, which does not hash to other.
	if _, err := cas.Get(other); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("Get: got %v want ErrCIDMismatch", err)
	}
}
