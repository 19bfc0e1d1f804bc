// Package keys provides the signing primitives used for canonical JSON
// documents: message digests, Ed25519 and Dilithium3 signatures, public key
// strings of the form "<alg>:<base64>", and deterministic role seeds.
//
// All functions are pure. Key storage is left to callers.
package keys
