package main

import (
	"bytes"
	"fmt"
	"io"

	"xdao.co/cjson/cidutil"
	"xdao.co/cjson/cjson"
)

func cmdCanon(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("canon", errOut)
	var in inputFlags
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cjson canon [--from <format>] [--strict] <file|->")
		return 2
	}
	log := newLogger(errOut, *verbose)

	canon, err := in.canonical(fs.Arg(0))
	if err != nil {
		reportError(errOut, "canon", err)
		return 1
	}
	log.Debug("canonicalized", "input", fs.Arg(0), "bytes", len(canon))
	if _, err := out.Write(canon); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	return 0
}

func cmdCheck(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("check", errOut)
	var strict bool
	fs.BoolVar(&strict, "strict", false, "Reject objects that repeat a key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cjson check <file|->")
		return 2
	}
	log := newLogger(errOut, *verbose)

	data, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	canon, err := cjson.CanonicalizeWithOptions(data, cjson.EncodeOptions{RejectDuplicateKeys: strict})
	if err != nil {
		reportError(errOut, "check", err)
		return 1
	}
	if !bytes.Equal(canon, data) {
		log.Debug("canonical form differs", "input_bytes", len(data), "canonical_bytes", len(canon))
		fmt.Fprintln(errOut, "check: input is not canonical JSON")
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("cid", errOut)
	var in inputFlags
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cjson cid [--from <format>] [--strict] <file|->")
		return 2
	}
	log := newLogger(errOut, *verbose)

	canon, err := in.canonical(fs.Arg(0))
	if err != nil {
		reportError(errOut, "cid", err)
		return 1
	}
	id, err := cidutil.CIDv1JSONSHA256CID(canon)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	log.Debug("derived cid", "input", fs.Arg(0), "cid", id.String())
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}
