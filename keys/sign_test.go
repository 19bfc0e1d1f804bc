package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func testEd25519Key(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	return PublicKeyFromSeed(seed), ed25519.NewKeyFromSeed(seed)
}

func TestSignEd25519_VerifiesForEveryHash(t *testing.T) {
	pub, priv := testEd25519Key(t)
	msg := []byte(`{"a":1}`)

	for _, alg := range HashAlgs {
		t.Run(alg, func(t *testing.T) {
			sig, err := SignEd25519(msg, alg, priv)
			if err != nil {
				t.Fatalf("SignEd25519: %v", err)
			}
			if err := Verify(AlgEd25519, alg, pub, msg, sig); err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if err := Verify(AlgEd25519, alg, pub, []byte(`{"a":2}`), sig); !errors.Is(err, ErrSignatureInvalid) {
				t.Fatalf("Verify(tampered): got %v want ErrSignatureInvalid", err)
			}
		})
	}
}

func TestSignEd25519_DigestIsSigned(t *testing.T) {
	pub, priv := testEd25519Key(t)
	msg := []byte("hello")
	sigB64, err := SignEd25519(msg, HashSHA256, priv)
	if err != nil {
		t.Fatalf("SignEd25519: %v", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	digest, err := Digest(HashSHA256, msg)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	_, raw, err := ParsePublicKey(pub)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(raw), digest, sig) {
		t.Fatalf("signature is not over the sha256 digest")
	}
}

func TestSignDilithium3_Verifies_SHA3_256(t *testing.T) {
	pk, sk, err := GenerateDilithium3Keypair(io.Reader(&deterministicReader{}))
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	pub, err := PublicKeyFromDilithium3(pk)
	if err != nil {
		t.Fatalf("PublicKeyFromDilithium3: %v", err)
	}

	msg := []byte("hello")
	sigB64, err := SignDilithium3(msg, HashSHA3256, sk)
	if err != nil {
		t.Fatalf("SignDilithium3: %v", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if len(sig) != mode3.SignatureSize {
		t.Fatalf("unexpected signature size: got %d want %d", len(sig), mode3.SignatureSize)
	}
	if err := Verify(AlgDilithium3, HashSHA3256, pub, msg, sigB64); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := Verify(AlgEd25519, HashSHA3256, pub, msg, sigB64); err == nil {
		t.Fatalf("Verify: expected alg mismatch error")
	}
}

func TestDilithium3KeypairFromSeed_Deterministic(t *testing.T) {
	seed := make([]byte, 32)
	a, _, err := Dilithium3KeypairFromSeed(seed)
	if err != nil {
		t.Fatalf("Dilithium3KeypairFromSeed: %v", err)
	}
	b, _, err := Dilithium3KeypairFromSeed(seed)
	if err != nil {
		t.Fatalf("Dilithium3KeypairFromSeed: %v", err)
	}
	ak, err := PublicKeyFromDilithium3(a)
	if err != nil {
		t.Fatalf("PublicKeyFromDilithium3: %v", err)
	}
	bk, err := PublicKeyFromDilithium3(b)
	if err != nil {
		t.Fatalf("PublicKeyFromDilithium3: %v", err)
	}
	if ak != bk {
		t.Fatalf("same seed produced different keys")
	}
	if _, _, err := Dilithium3KeypairFromSeed(seed[:8]); err == nil {
		t.Fatalf("expected short seed to be rejected")
	}
}

func TestDigest_UnknownAlgorithm(t *testing.T) {
	if _, err := Digest("md5", nil); err == nil {
		t.Fatalf("expected md5 to be rejected")
	}
}

func TestParsePublicKey_Rejects(t *testing.T) {
	for _, s := range []string{"", "ed25519", "ed25519:!!", "ed25519:AAAA", "rsa:AAAA"} {
		if _, _, err := ParsePublicKey(s); err == nil {
			t.Fatalf("ParsePublicKey(%q): expected error", s)
		}
	}
}
