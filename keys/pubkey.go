package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// PublicKeyFromSeed returns the public key string for an Ed25519 seed:
// "ed25519:" + base64(pubkey).
func PublicKeyFromSeed(seed []byte) string {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return AlgEd25519 + ":" + base64.StdEncoding.EncodeToString(pub)
}

// PublicKeyFromEd25519 encodes an Ed25519 public key.
func PublicKeyFromEd25519(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return AlgEd25519 + ":" + base64.StdEncoding.EncodeToString(pub), nil
}

// PublicKeyFromDilithium3 encodes a Dilithium3 public key.
func PublicKeyFromDilithium3(pub *mode3.PublicKey) (string, error) {
	if pub == nil {
		return "", fmt.Errorf("missing dilithium3 public key")
	}
	b, err := pub.MarshalBinary()
	if err != nil {
		return "", err
	}
	return AlgDilithium3 + ":" + base64.StdEncoding.EncodeToString(b), nil
}

// ParsePublicKey splits "<alg>:<base64>" and checks the key material for alg.
func ParsePublicKey(s string) (alg string, raw []byte, err error) {
	alg, enc, ok := strings.Cut(s, ":")
	if !ok {
		return "", nil, fmt.Errorf("invalid public key encoding")
	}
	raw, err = decodeBase64(enc)
	if err != nil {
		return "", nil, fmt.Errorf("invalid public key base64: %w", err)
	}
	switch alg {
	case AlgEd25519:
		if len(raw) != ed25519.PublicKeySize {
			return "", nil, fmt.Errorf("invalid ed25519 public key length")
		}
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(raw); err != nil {
			return "", nil, fmt.Errorf("invalid dilithium3 public key: %w", err)
		}
	default:
		return "", nil, fmt.Errorf("unsupported public key algorithm %q", alg)
	}
	return alg, raw, nil
}

func decodeBase64(s string) ([]byte, error) {
	// Prefer standard padded encoding, but accept raw encoding too.
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
