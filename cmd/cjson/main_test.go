package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/cjson/cidutil"
)

const testSeedHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCanon(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "doc.json", `{"b": [1, 2], "a": "x"}`)
	yamlPath := writeFile(t, dir, "doc.yaml", "a: x\nb:\n  - 1\n  - 2\n")

	for _, path := range []string{jsonPath, yamlPath} {
		code, out, errOut := runCLI(t, "canon", path)
		if code != 0 {
			t.Fatalf("canon %s: code=%d stderr=%s", path, code, errOut)
		}
		if out != `{"a":"x","b":[1,2]}` {
			t.Fatalf("canon %s: got %q", path, out)
		}
	}
}

func TestCanon_Rejections(t *testing.T) {
	dir := t.TempDir()
	floatPath := writeFile(t, dir, "float.json", `{"price": 1.5}`)
	code, _, errOut := runCLI(t, "canon", floatPath)
	if code != 1 || !strings.Contains(errOut, "CJSON-NUM-002") {
		t.Fatalf("float: code=%d stderr=%s", code, errOut)
	}

	dupPath := writeFile(t, dir, "dup.json", `{"a": 1, "a": 2}`)
	code, out, _ := runCLI(t, "canon", dupPath)
	if code != 0 || out != `{"a":2}` {
		t.Fatalf("dup default: code=%d out=%s", code, out)
	}
	code, _, errOut = runCLI(t, "canon", "--strict", dupPath)
	if code != 1 || !strings.Contains(errOut, "CJSON-OBJ-001") {
		t.Fatalf("dup strict: code=%d stderr=%s", code, errOut)
	}

	if code, _, _ := runCLI(t, "canon"); code != 2 {
		t.Fatalf("missing arg: code=%d", code)
	}
	if code, _, _ := runCLI(t, "canon", "--from", "toml", dupPath); code != 1 {
		t.Fatalf("unknown format: code=%d", code)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"a":1}`)
	bad := writeFile(t, dir, "bad.json", "{\"a\":1}\n")

	if code, out, errOut := runCLI(t, "check", good); code != 0 || out != "OK\n" {
		t.Fatalf("check good: code=%d out=%q stderr=%s", code, out, errOut)
	}
	if code, _, errOut := runCLI(t, "check", bad); code != 1 || !strings.Contains(errOut, "not canonical") {
		t.Fatalf("check bad: code=%d stderr=%s", code, errOut)
	}
}

func TestCID(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.jsonc", "{\n  // comment\n  \"k\": true,\n}")
	code, out, errOut := runCLI(t, "cid", path)
	if code != 0 {
		t.Fatalf("cid: code=%d stderr=%s", code, errOut)
	}
	want := cidutil.CIDv1JSONSHA256([]byte(`{"k":true}`))
	if strings.TrimSpace(out) != want {
		t.Fatalf("cid: got %s want %s", out, want)
	}
}

func TestSignVerify(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.json", `{"approved": true, "id": 7}`)

	for _, flag := range []string{"--seed-hex", "--dilithium-seed-hex"} {
		t.Run(flag, func(t *testing.T) {
			code, rec, errOut := runCLI(t, "sign", flag, testSeedHex, "--hash", "blake3", doc)
			if code != 0 {
				t.Fatalf("sign: code=%d stderr=%s", code, errOut)
			}
			sigPath := writeFile(t, dir, "doc.sig", rec)

			// A reformatted copy of the same document verifies.
			same := writeFile(t, dir, "same.yaml", "id: 7\napproved: true\n")
			if code, out, errOut := runCLI(t, "verify", "--sig", sigPath, same); code != 0 || out != "OK\n" {
				t.Fatalf("verify: code=%d out=%q stderr=%s", code, out, errOut)
			}
			changed := writeFile(t, dir, "changed.json", `{"approved": false, "id": 7}`)
			if code, _, _ := runCLI(t, "verify", "--sig", sigPath, changed); code != 1 {
				t.Fatalf("verify changed: code=%d", code)
			}
		})
	}

	if code, _, _ := runCLI(t, "sign", doc); code != 2 {
		t.Fatalf("sign without key: code=%d", code)
	}
}

func TestPutGetBundle(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")
	doc := writeFile(t, dir, "doc.json", `{"z": 0, "a": [true]}`)

	code, out, errOut := runCLI(t, "put", "--backend", "localfs", "--localfs-dir", store, "--localfs-compression", "zstd", doc)
	if code != 0 {
		t.Fatalf("put: code=%d stderr=%s", code, errOut)
	}
	id := strings.TrimSpace(out)

	cfg := writeFile(t, dir, "cas.jsonc", `{
  // single local store
  "backends": [{"name": "localfs", "config": {"localfs-dir": "`+store+`"}}],
}`)
	code, out, errOut = runCLI(t, "get", "--config", cfg, id)
	if code != 0 || out != `{"a":[true],"z":0}` {
		t.Fatalf("get: code=%d out=%q stderr=%s", code, out, errOut)
	}

	bundlePath := filepath.Join(dir, "docs.tar")
	code, _, errOut = runCLI(t, "bundle", "export", "--config", cfg, "--label", "main="+id, "--out", bundlePath, id)
	if code != 0 {
		t.Fatalf("bundle export: code=%d stderr=%s", code, errOut)
	}
	other := filepath.Join(dir, "other")
	code, out, errOut = runCLI(t, "bundle", "import", "--backend", "localfs", "--localfs-dir", other, bundlePath)
	if code != 0 || strings.TrimSpace(out) != id {
		t.Fatalf("bundle import: code=%d out=%q stderr=%s", code, out, errOut)
	}

	if code, _, _ := runCLI(t, "get", id); code != 2 {
		t.Fatalf("get without store: code=%d", code)
	}
	if code, _, _ := runCLI(t, "get", "--backend", "localfs", "--localfs-dir", other, "not-a-cid"); code != 2 {
		t.Fatalf("get bad cid: code=%d", code)
	}
}

func TestKey(t *testing.T) {
	code, out, errOut := runCLI(t, "key", "pub", "--seed-hex", testSeedHex)
	if code != 0 || !strings.HasPrefix(out, "ed25519:") {
		t.Fatalf("key pub: code=%d out=%q stderr=%s", code, out, errOut)
	}
	code, out, _ = runCLI(t, "key", "pub", "--seed-hex", testSeedHex, "--alg", "dilithium3")
	if code != 0 || !strings.HasPrefix(out, "dilithium3:") {
		t.Fatalf("key pub dilithium3: code=%d out=%q", code, out)
	}

	code, a, _ := runCLI(t, "key", "derive", "--seed-hex", testSeedHex, "--role", "approver")
	if code != 0 || len(strings.TrimSpace(a)) != 64 {
		t.Fatalf("key derive: code=%d out=%q", code, a)
	}
	_, b, _ := runCLI(t, "key", "derive", "--seed-hex", testSeedHex, "--role", "approver")
	if a != b {
		t.Fatalf("key derive not deterministic")
	}
	if code, _, _ := runCLI(t, "key", "derive", "--seed-hex", testSeedHex, "--role", "Bad Role"); code != 1 {
		t.Fatalf("key derive invalid role: code=%d", code)
	}
}

func TestUsage(t *testing.T) {
	if code, _, _ := runCLI(t); code != 2 {
		t.Fatalf("no args: code=%d", code)
	}
	if code, out, _ := runCLI(t, "help"); code != 0 || !strings.Contains(out, "cjson canon") {
		t.Fatalf("help: code=%d", code)
	}
	if code, _, _ := runCLI(t, "frobnicate"); code != 2 {
		t.Fatalf("unknown: code=%d", code)
	}
}
