package main

import (
	"fmt"
	"io"
	"os"

	"xdao.co/cjson/keys"
	"xdao.co/cjson/signature"
)

func cmdSign(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("sign", errOut)
	var in inputFlags
	in.register(fs)
	var seedHex, dilithiumSeedHex, hashAlg string
	fs.StringVar(&seedHex, "seed-hex", "", "Ed25519 seed (64 hex chars)")
	fs.StringVar(&dilithiumSeedHex, "dilithium-seed-hex", "", "Dilithium3 seed (64 hex chars)")
	fs.StringVar(&hashAlg, "hash", keys.HashSHA256, "Digest: sha256, sha512, sha3-256 or blake3")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || (seedHex == "") == (dilithiumSeedHex == "") {
		fmt.Fprintln(errOut, "usage: cjson sign (--seed-hex <64hex> | --dilithium-seed-hex <64hex>) [--hash <alg>] <file|->")
		return 2
	}
	log := newLogger(errOut, *verbose)

	var signer signature.Signer
	if seedHex != "" {
		seed, err := keys.ParseSeedHex(seedHex)
		if err != nil {
			fmt.Fprintf(errOut, "--seed-hex: %v\n", err)
			return 2
		}
		s, err := signature.NewEd25519Signer(seed)
		if err != nil {
			fmt.Fprintf(errOut, "signer: %v\n", err)
			return 1
		}
		signer = s
	} else {
		seed, err := keys.ParseSeedHex(dilithiumSeedHex)
		if err != nil {
			fmt.Fprintf(errOut, "--dilithium-seed-hex: %v\n", err)
			return 2
		}
		s, err := signature.NewDilithium3Signer(seed)
		if err != nil {
			fmt.Fprintf(errOut, "signer: %v\n", err)
			return 1
		}
		signer = s
	}

	canon, err := in.canonical(fs.Arg(0))
	if err != nil {
		reportError(errOut, "sign", err)
		return 1
	}
	sig, err := signature.Sign(canon, signer, hashAlg)
	if err != nil {
		reportError(errOut, "sign", err)
		return 1
	}
	rec, err := sig.Marshal()
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	log.Debug("signed", "alg", sig.SignatureAlg, "hash", sig.HashAlg, "cid", sig.DocumentCID)
	_, _ = out.Write(rec)
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("verify", errOut)
	var in inputFlags
	in.register(fs)
	var sigPath string
	fs.StringVar(&sigPath, "sig", "", "Signature record file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || sigPath == "" {
		fmt.Fprintln(errOut, "usage: cjson verify --sig <sigfile> <file|->")
		return 2
	}
	log := newLogger(errOut, *verbose)

	rec, err := os.ReadFile(sigPath)
	if err != nil {
		fmt.Fprintf(errOut, "read --sig: %v\n", err)
		return 1
	}
	sig, err := signature.Parse(rec)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signature record: %v\n", err)
		return 1
	}
	canon, err := in.canonical(fs.Arg(0))
	if err != nil {
		reportError(errOut, "verify", err)
		return 1
	}
	if err := signature.Verify(canon, sig); err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	log.Debug("verified", "issuer", sig.IssuerKey, "cid", sig.DocumentCID)
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}
