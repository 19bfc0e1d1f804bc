package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"testing"
)

func TestDeriveRoleSeedDeterministic(t *testing.T) {
	root := make([]byte, ed25519.SeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveRoleSeed(root, "approver")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	b, err := DeriveRoleSeed(root, "approver")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveRoleSeed(root, "issuer")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) == string(c) {
		t.Fatalf("expected different roles to derive different seeds")
	}
}

func TestDeriveRoleSeedRejects(t *testing.T) {
	root := make([]byte, ed25519.SeedSize)
	if _, err := DeriveRoleSeed(root[:4], "issuer"); err == nil {
		t.Fatalf("expected short root seed to be rejected")
	}
	for _, role := range []string{"", "Issuer", "a b", strings.Repeat("x", 65)} {
		if _, err := DeriveRoleSeed(root, role); err == nil {
			t.Fatalf("expected role %q to be rejected", role)
		}
	}
}

func TestPublicKeyFromSeedFormat(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = 0x42
	}
	pub := PublicKeyFromSeed(seed)
	if !strings.HasPrefix(pub, "ed25519:") {
		t.Fatalf("expected ed25519 prefix, got %q", pub)
	}
	pubBytes, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(pub, "ed25519:"))
	if err != nil {
		t.Fatalf("expected valid base64: %v", err)
	}
	if len(pubBytes) != ed25519.PublicKeySize {
		t.Fatalf("expected %d pubkey bytes, got %d", ed25519.PublicKeySize, len(pubBytes))
	}
}

func TestParseSeedHex(t *testing.T) {
	if _, err := ParseSeedHex(strings.Repeat("ab", 32)); err != nil {
		t.Fatalf("ParseSeedHex: %v", err)
	}
	for _, s := range []string{"", "zz", strings.Repeat("ab", 31)} {
		if _, err := ParseSeedHex(s); err == nil {
			t.Fatalf("ParseSeedHex(%q): expected error", s)
		}
	}
}
