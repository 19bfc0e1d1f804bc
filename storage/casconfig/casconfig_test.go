package casconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"xdao.co/cjson/storage"
	"xdao.co/cjson/storage/casconfig"
	"xdao.co/cjson/storage/casregistry"
	_ "xdao.co/cjson/storage/localfs"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cas.jsonc")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFile_ReplicatesToAllBackends(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	path := writeConfig(t, `{
  // two local stores, one compressed
  "write_policy": "all",
  "backends": [
    {"name": "localfs", "id": "a", "config": {"localfs-dir": "`+dirA+`"}},
    {"name": "localfs", "id": "b", "config": {"localfs-dir": "`+dirB+`", "localfs-compression": "zstd"}},
  ],
}`)
	cfg, err := casconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cas, closeFn, err := cfg.Open(casregistry.UsageCLI, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()

	rep, ok := cas.(storage.ReplicatingCAS)
	if !ok {
		t.Fatalf("expected ReplicatingCAS, got %T", cas)
	}
	id, per, err := rep.PutAll([]byte(`{"b":1,"a":2}`))
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if !per["a"].Equals(id) || !per["b"].Equals(id) {
		t.Fatalf("per-backend CIDs: %v", per)
	}
}

func TestOpen_PreferredBackendTakesWrites(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	cfg := casconfig.Config{Backends: []casconfig.BackendConfig{
		{Name: "localfs", ID: "a", Config: map[string]string{"localfs-dir": dirA}},
		{Name: "localfs", ID: "b", Config: map[string]string{"localfs-dir": dirB}},
	}}
	cas, closeFn, err := cfg.Open(casregistry.UsageCLI, "b")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	multi, ok := cas.(storage.MultiCAS)
	if !ok {
		t.Fatalf("expected MultiCAS, got %T", cas)
	}
	id, err := multi.Put([]byte(`[1,2,3]`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if multi.Adapters[1].Has(id) || !multi.Adapters[0].Has(id) {
		t.Fatalf("expected write to preferred backend only")
	}
	entries, err := os.ReadDir(dirA)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no writes to backend a")
	}

	if _, _, err := cfg.Open(casregistry.UsageCLI, "missing"); err == nil {
		t.Fatalf("expected unknown preferred backend error")
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"no backends":   `{"backends": []}`,
		"bad policy":    `{"write_policy": "some", "backends": [{"name": "localfs"}]}`,
		"duplicate ids": `{"backends": [{"name": "localfs"}, {"name": "localfs"}]}`,
		"unknown field": `{"backend": [{"name": "localfs"}]}`,
		"missing name":  `{"backends": [{"id": "x"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := casconfig.Parse([]byte(body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
