package keys

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Supported Hash-Alg values.
const (
	HashSHA256  = "sha256"
	HashSHA512  = "sha512"
	HashSHA3256 = "sha3-256"
	HashBLAKE3  = "blake3"
)

// HashAlgs lists the supported hash algorithms.
var HashAlgs = []string{HashBLAKE3, HashSHA256, HashSHA3256, HashSHA512}

// Digest returns hashAlg(message). Signatures are computed over the digest,
// never over the raw message.
func Digest(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case HashSHA256:
		s := sha256.Sum256(message)
		return s[:], nil
	case HashSHA512:
		s := sha512.Sum512(message)
		return s[:], nil
	case HashSHA3256:
		s := sha3.Sum256(message)
		return s[:], nil
	case HashBLAKE3:
		s := blake3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}
