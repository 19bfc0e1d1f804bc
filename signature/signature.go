// Package signature produces and checks detached signatures over canonical
// JSON documents.
//
// The signed message is always the canonical encoding of the document, so
// any producer that re-serializes an equal document can verify it. The
// signature record is itself a canonical JSON object.
package signature

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/cjson/cidutil"
	"xdao.co/cjson/cjson"
	"xdao.co/cjson/keys"
)

var (
	ErrCIDMismatch  = errors.New("signature: document CID mismatch")
	ErrMissingField = errors.New("signature: missing field")
	ErrNonCanonical = errors.New("signature: record is not canonical JSON")
)

// Signature is a detached signature over one canonical JSON document.
type Signature struct {
	SignatureAlg string `json:"signature_alg"`
	HashAlg      string `json:"hash_alg"`
	IssuerKey    string `json:"issuer_key"`
	DocumentCID  string `json:"document_cid"`
	Value        string `json:"signature"`
}

// Signer signs canonical bytes.
type Signer interface {
	Algorithm() string
	PublicKey() (string, error)
	Sign(message []byte, hashAlg string) (string, error)
}

// Ed25519Signer signs with an Ed25519 private key.
type Ed25519Signer struct {
	Key ed25519.PrivateKey
}

// NewEd25519Signer builds a signer from a 32-byte seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes", ed25519.SeedSize)
	}
	return &Ed25519Signer{Key: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *Ed25519Signer) Algorithm() string { return keys.AlgEd25519 }

func (s *Ed25519Signer) PublicKey() (string, error) {
	return keys.PublicKeyFromEd25519(s.Key.Public().(ed25519.PublicKey))
}

func (s *Ed25519Signer) Sign(message []byte, hashAlg string) (string, error) {
	return keys.SignEd25519(message, hashAlg, s.Key)
}

// Dilithium3Signer signs with a Dilithium3 keypair.
type Dilithium3Signer struct {
	Public  *mode3.PublicKey
	Private *mode3.PrivateKey
}

// NewDilithium3Signer derives a keypair from seed.
func NewDilithium3Signer(seed []byte) (*Dilithium3Signer, error) {
	pk, sk, err := keys.Dilithium3KeypairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return &Dilithium3Signer{Public: pk, Private: sk}, nil
}

func (s *Dilithium3Signer) Algorithm() string { return keys.AlgDilithium3 }

func (s *Dilithium3Signer) PublicKey() (string, error) {
	return keys.PublicKeyFromDilithium3(s.Public)
}

func (s *Dilithium3Signer) Sign(message []byte, hashAlg string) (string, error) {
	return keys.SignDilithium3(message, hashAlg, s.Private)
}

// Sign canonicalizes doc and signs the canonical bytes.
func Sign(doc []byte, signer Signer, hashAlg string) (Signature, error) {
	if signer == nil {
		return Signature{}, errors.New("signature: missing signer")
	}
	id, canon, err := cidutil.DocumentCID(doc)
	if err != nil {
		return Signature{}, err
	}
	pub, err := signer.PublicKey()
	if err != nil {
		return Signature{}, fmt.Errorf("signature: public key: %w", err)
	}
	value, err := signer.Sign(canon, hashAlg)
	if err != nil {
		return Signature{}, fmt.Errorf("signature: sign: %w", err)
	}
	return Signature{
		SignatureAlg: signer.Algorithm(),
		HashAlg:      hashAlg,
		IssuerKey:    pub,
		DocumentCID:  id.String(),
		Value:        value,
	}, nil
}

// Verify re-canonicalizes doc, checks it against the recorded CID and
// verifies the signature over the canonical bytes.
func Verify(doc []byte, sig Signature) error {
	if err := sig.validate(); err != nil {
		return err
	}
	id, canon, err := cidutil.DocumentCID(doc)
	if err != nil {
		return err
	}
	if id.String() != sig.DocumentCID {
		return ErrCIDMismatch
	}
	return keys.Verify(sig.SignatureAlg, sig.HashAlg, sig.IssuerKey, canon, sig.Value)
}

func (s Signature) validate() error {
	for name, v := range map[string]string{
		"signature_alg": s.SignatureAlg,
		"hash_alg":      s.HashAlg,
		"issuer_key":    s.IssuerKey,
		"document_cid":  s.DocumentCID,
		"signature":     s.Value,
	} {
		if v == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}

// Marshal returns the canonical JSON encoding of the record.
func (s Signature) Marshal() ([]byte, error) {
	return cjson.Marshal(map[string]string{
		"signature_alg": s.SignatureAlg,
		"hash_alg":      s.HashAlg,
		"issuer_key":    s.IssuerKey,
		"document_cid":  s.DocumentCID,
		"signature":     s.Value,
	})
}

// Parse decodes a signature record. The record must be canonical JSON and
// must not carry unknown fields.
func Parse(data []byte) (Signature, error) {
	if err := cjson.CheckCanonical(data); err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrNonCanonical, err)
	}
	var s Signature
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Signature{}, fmt.Errorf("signature: decode: %w", err)
	}
	if err := s.validate(); err != nil {
		return Signature{}, err
	}
	return s, nil
}
