package keys

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// ErrSignatureInvalid is returned when a well-formed signature does not
// verify.
var ErrSignatureInvalid = errors.New("keys: signature invalid")

// Verify checks a base64 signature over hashAlg(message) against publicKey,
// a "<alg>:<base64>" string whose alg must equal signatureAlg.
func Verify(signatureAlg, hashAlg, publicKey string, message []byte, signature string) error {
	keyAlg, pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	if keyAlg != signatureAlg {
		return fmt.Errorf("public key alg %q does not match signature alg %q", keyAlg, signatureAlg)
	}
	sig, err := decodeBase64(signature)
	if err != nil {
		return fmt.Errorf("invalid signature base64: %w", err)
	}
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return err
	}

	switch signatureAlg {
	case AlgEd25519:
		if len(sig) != ed25519.SignatureSize {
			return fmt.Errorf("invalid ed25519 signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return ErrSignatureInvalid
		}
		return nil
	case AlgDilithium3:
		if len(sig) != mode3.SignatureSize {
			return fmt.Errorf("invalid dilithium3 signature length")
		}
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return fmt.Errorf("invalid dilithium3 public key: %w", err)
		}
		if !mode3.Verify(&pk, digest, sig) {
			return ErrSignatureInvalid
		}
		return nil
	default:
		return fmt.Errorf("unsupported signature algorithm %q", signatureAlg)
	}
}
