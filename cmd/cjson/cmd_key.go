package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"xdao.co/cjson/keys"
)

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: cjson key <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: pub, derive")
		return 2
	}
	switch args[0] {
	case "pub":
		return cmdKeyPub(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func cmdKeyPub(args []string, out io.Writer, errOut io.Writer) int {
	fs, _ := newFlagSet("key pub", errOut)
	var seedHex, alg string
	fs.StringVar(&seedHex, "seed-hex", "", "Seed (64 hex chars)")
	fs.StringVar(&alg, "alg", keys.AlgEd25519, "Key algorithm: ed25519 or dilithium3")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if seedHex == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: cjson key pub --seed-hex <64hex> [--alg ed25519|dilithium3]")
		return 2
	}
	seed, err := keys.ParseSeedHex(seedHex)
	if err != nil {
		fmt.Fprintf(errOut, "--seed-hex: %v\n", err)
		return 2
	}

	switch alg {
	case keys.AlgEd25519:
		_, _ = fmt.Fprintln(out, keys.PublicKeyFromSeed(seed))
		return 0
	case keys.AlgDilithium3:
		pk, _, err := keys.Dilithium3KeypairFromSeed(seed)
		if err != nil {
			fmt.Fprintf(errOut, "derive dilithium3 key: %v\n", err)
			return 1
		}
		s, err := keys.PublicKeyFromDilithium3(pk)
		if err != nil {
			fmt.Fprintf(errOut, "encode dilithium3 key: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, s)
		return 0
	default:
		fmt.Fprintf(errOut, "unsupported --alg %q\n", alg)
		return 2
	}
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs, _ := newFlagSet("key derive", errOut)
	var seedHex, role string
	fs.StringVar(&seedHex, "seed-hex", "", "Root seed (64 hex chars)")
	fs.StringVar(&role, "role", "", "Role name ([a-z0-9-], up to 64 chars)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if seedHex == "" || role == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: cjson key derive --seed-hex <64hex> --role <role>")
		return 2
	}
	root, err := keys.ParseSeedHex(seedHex)
	if err != nil {
		fmt.Fprintf(errOut, "--seed-hex: %v\n", err)
		return 2
	}
	seed, err := keys.DeriveRoleSeed(root, role)
	if err != nil {
		fmt.Fprintf(errOut, "derive: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, hex.EncodeToString(seed))
	return 0
}
