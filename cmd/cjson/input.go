package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"xdao.co/cjson/cjson"
	"xdao.co/cjson/source"
)

// inputFlags are shared by every command that reads a document.
type inputFlags struct {
	from   string
	strict bool
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.from, "from", "", "Input format: json, jsonc, yaml or cbor (default: by extension)")
	fs.BoolVar(&f.strict, "strict", false, "Reject objects that repeat a key")
}

func (f *inputFlags) format(path string) (source.Format, error) {
	if f.from != "" {
		return source.ParseFormat(f.from)
	}
	return source.DetectFormat(path), nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// canonical reads path, decodes it and returns its canonical JSON encoding.
func (f *inputFlags) canonical(path string) ([]byte, error) {
	format, err := f.format(path)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	v, err := source.Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return cjson.MarshalWithOptions(v, cjson.EncodeOptions{RejectDuplicateKeys: f.strict})
}
