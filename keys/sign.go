package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/zeebo/blake3"
)

// Supported Signature-Alg values.
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

// SignEd25519 returns a base64 signature over hash(message).
func SignEd25519(message []byte, hashAlg string, privateKey ed25519.PrivateKey) (string, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("ed25519 private key must be %d bytes", ed25519.PrivateKeySize)
	}
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ed25519.Sign(privateKey, digest)), nil
}

// SignDilithium3 returns a base64 dilithium3 signature over hash(message).
func SignDilithium3(message []byte, hashAlg string, privateKey *mode3.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("missing private key")
	}
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return "", err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest, sig)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

// Dilithium3KeypairFromSeed derives a Dilithium3 keypair from seed. The key
// generator reads from the BLAKE3 extendable output of the seed, so the
// same seed always yields the same keypair.
func Dilithium3KeypairFromSeed(seed []byte) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	if len(seed) < 32 {
		return nil, nil, fmt.Errorf("dilithium3 seed must be at least 32 bytes")
	}
	h := blake3.New()
	_, _ = h.Write([]byte("cjson-dilithium3-seed-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(seed)
	return mode3.GenerateKey(h.Digest())
}
