// Command cjson canonicalizes, content-addresses, signs and stores JSON
// documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"xdao.co/cjson/cjson"
	_ "xdao.co/cjson/storage/grpccas"
	_ "xdao.co/cjson/storage/ipfs"
	_ "xdao.co/cjson/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "canon":
		return cmdCanon(args[1:], out, errOut)
	case "check":
		return cmdCheck(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "sign":
		return cmdSign(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "put":
		return cmdPut(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "bundle":
		return cmdBundle(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "cjson: canonical JSON tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cjson canon [--from json|jsonc|yaml|cbor] [--strict] <file|->")
	fmt.Fprintln(w, "  cjson check <file|->")
	fmt.Fprintln(w, "  cjson cid [--from <format>] [--strict] <file|->")
	fmt.Fprintln(w, "  cjson sign (--seed-hex <64hex> | --dilithium-seed-hex <64hex>) [--hash <alg>] [--from <format>] <file|->")
	fmt.Fprintln(w, "  cjson verify --sig <sigfile> [--from <format>] <file|->")
	fmt.Fprintln(w, "  cjson put (--config <cas.jsonc> [--prefer <id>] | --backend <name> [backend flags]) [--from <format>] <file|->")
	fmt.Fprintln(w, "  cjson get (--config <cas.jsonc> | --backend <name> [backend flags]) <cid>")
	fmt.Fprintln(w, "  cjson bundle export (--config ... | --backend ...) [--index] [--label name=cid ...] --out <file> <cid> [<cid> ...]")
	fmt.Fprintln(w, "  cjson bundle import (--config ... | --backend ...) [--ignore-unknown] <file>")
	fmt.Fprintln(w, "  cjson key pub --seed-hex <64hex> [--alg ed25519|dilithium3]")
	fmt.Fprintln(w, "  cjson key derive --seed-hex <64hex> --role <role>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - canonical output has no trailing newline")
	fmt.Fprintln(w, "  - the input format defaults to the file extension, then json")
	fmt.Fprintln(w, "  - --strict rejects objects that repeat a key; the default keeps the last member")
	fmt.Fprintln(w, "  - floating point numbers have no canonical form and are rejected")
	fmt.Fprintln(w, "  - --verbose on any command logs progress to stderr")
}

// newFlagSet returns a flag set wired for run's error handling, with the
// --verbose flag every command accepts.
func newFlagSet(name string, errOut io.Writer) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	verbose := fs.Bool("verbose", false, "Log progress to stderr")
	return fs, verbose
}

func newLogger(errOut io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
}

// reportError prints err with its rule id when it carries one.
func reportError(errOut io.Writer, what string, err error) {
	if rule := cjson.RuleID(err); rule != "" {
		fmt.Fprintf(errOut, "%s: [%s] %v\n", what, rule, err)
		return
	}
	fmt.Fprintf(errOut, "%s: %v\n", what, err)
}
