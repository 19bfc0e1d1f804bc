// Command cjson_vector_gen prints conformance vectors for the canonical
// encoder: canonical bytes, CID and a deterministic Ed25519 signature for
// each input, or rewrites the golden files with --write.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"xdao.co/cjson/cidutil"
	"xdao.co/cjson/cjson"
	"xdao.co/cjson/keys"
	"xdao.co/cjson/signature"
)

func mustSigner(seedByte byte) *signature.Ed25519Signer {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = seedByte
	}
	s, err := signature.NewEd25519Signer(seed)
	if err != nil {
		panic(err)
	}
	return s
}

func main() {
	dir := pflag.String("dir", "cjson/testdata", "Directory holding input/*.json")
	write := pflag.Bool("write", false, "Rewrite <name>.golden next to input/")
	pflag.Parse()

	inputs, err := filepath.Glob(filepath.Join(*dir, "input", "*.json"))
	if err != nil {
		panic(err)
	}
	sort.Strings(inputs)
	signer := mustSigner(0xA1)

	for _, path := range inputs {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		data, err := os.ReadFile(path)
		if err != nil {
			panic(err)
		}
		canon, err := cjson.Canonicalize(data)
		if err != nil {
			panic(fmt.Errorf("%s: %w", path, err))
		}
		sig, err := signature.Sign(canon, signer, keys.HashSHA256)
		if err != nil {
			panic(err)
		}
		rec, err := sig.Marshal()
		if err != nil {
			panic(err)
		}

		if *write {
			if err := os.WriteFile(filepath.Join(*dir, name+".golden"), canon, 0o644); err != nil {
				panic(err)
			}
		}
		fmt.Printf("NAME=%s\n", name)
		fmt.Printf("CID=%s\n", cidutil.CIDv1JSONSHA256(canon))
		fmt.Printf("---BEGIN---\n%s\n---END---\n", canon)
		fmt.Printf("SIG=%s\n\n", rec)
	}
}
