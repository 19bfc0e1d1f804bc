package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/spf13/pflag"

	"xdao.co/cjson/storage"
	"xdao.co/cjson/storage/bundle"
	"xdao.co/cjson/storage/casconfig"
	"xdao.co/cjson/storage/casregistry"
)

// storeFlags select the CAS a command talks to.
type storeFlags struct {
	config  string
	prefer  string
	backend string
}

func (f *storeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "CAS config file (JSON with comments)")
	fs.StringVar(&f.prefer, "prefer", "", "Backend id from --config that takes writes")
	fs.StringVar(&f.backend, "backend", "", "CAS backend: "+strings.Join(casregistry.Names(casregistry.UsageCLI), ", "))
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
}

func (f *storeFlags) open() (storage.CAS, func() error, error) {
	switch {
	case f.config != "" && f.backend != "":
		return nil, nil, fmt.Errorf("use either --config or --backend")
	case f.config != "":
		cfg, err := casconfig.LoadFile(f.config)
		if err != nil {
			return nil, nil, err
		}
		return cfg.Open(casregistry.UsageCLI, f.prefer)
	case f.backend != "":
		return casregistry.Open(f.backend, casregistry.UsageCLI)
	default:
		return nil, nil, fmt.Errorf("missing --config or --backend")
	}
}

func closeQuietly(closeFn func() error) {
	if closeFn != nil {
		_ = closeFn()
	}
}

func cmdPut(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("put", errOut)
	var in inputFlags
	in.register(fs)
	var st storeFlags
	st.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cjson put (--config <cas.jsonc> | --backend <name>) <file|->")
		return 2
	}
	log := newLogger(errOut, *verbose)

	canon, err := in.canonical(fs.Arg(0))
	if err != nil {
		reportError(errOut, "put", err)
		return 1
	}
	cas, closeFn, err := st.open()
	if err != nil {
		fmt.Fprintf(errOut, "open cas: %v\n", err)
		return 2
	}
	defer closeQuietly(closeFn)

	if rep, ok := cas.(storage.ReplicatingCAS); ok {
		id, per, err := rep.PutAll(canon)
		if err != nil {
			fmt.Fprintf(errOut, "put: %v\n", err)
			return 1
		}
		for name, got := range per {
			log.Debug("replicated", "backend", name, "cid", got.String())
		}
		_, _ = fmt.Fprintln(out, id.String())
		return 0
	}
	id, err := cas.Put(canon)
	if err != nil {
		fmt.Fprintf(errOut, "put: %v\n", err)
		return 1
	}
	log.Debug("stored", "cid", id.String(), "bytes", len(canon))
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("get", errOut)
	var st storeFlags
	st.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cjson get (--config <cas.jsonc> | --backend <name>) <cid>")
		return 2
	}
	log := newLogger(errOut, *verbose)

	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}
	cas, closeFn, err := st.open()
	if err != nil {
		fmt.Fprintf(errOut, "open cas: %v\n", err)
		return 2
	}
	defer closeQuietly(closeFn)

	b, err := cas.Get(id)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	log.Debug("fetched", "cid", id.String(), "bytes", len(b))
	_, _ = out.Write(b)
	return 0
}

func cmdBundle(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: cjson bundle <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: export, import")
		return 2
	}
	switch args[0] {
	case "export":
		return cmdBundleExport(args[1:], out, errOut)
	case "import":
		return cmdBundleImport(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown bundle subcommand: %s\n", args[0])
		return 2
	}
}

func cmdBundleExport(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("bundle export", errOut)
	var st storeFlags
	st.register(fs)
	var outPath string
	var includeIndex bool
	var labels []string
	fs.StringVar(&outPath, "out", "", "Bundle file to write")
	fs.BoolVar(&includeIndex, "index", false, "Include index.json")
	fs.StringArrayVar(&labels, "label", nil, "Index label name=cid (repeatable, implies --index)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if outPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: cjson bundle export (--config ... | --backend ...) --out <file> <cid> [<cid> ...]")
		return 2
	}
	log := newLogger(errOut, *verbose)

	opts := bundle.ExportOptions{IncludeIndex: includeIndex || len(labels) > 0}
	if len(labels) > 0 {
		opts.Labels = make(map[string]cid.Cid, len(labels))
		for _, l := range labels {
			name, value, ok := strings.Cut(l, "=")
			if !ok || name == "" {
				fmt.Fprintf(errOut, "invalid --label %q (want name=cid)\n", l)
				return 2
			}
			id, err := cid.Decode(value)
			if err != nil {
				fmt.Fprintf(errOut, "invalid --label %q: %v\n", l, err)
				return 2
			}
			opts.Labels[name] = id
		}
	}
	ids := make([]cid.Cid, 0, fs.NArg())
	for _, s := range fs.Args() {
		id, err := cid.Decode(s)
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid %q: %v\n", s, err)
			return 2
		}
		ids = append(ids, id)
	}

	cas, closeFn, err := st.open()
	if err != nil {
		fmt.Fprintf(errOut, "open cas: %v\n", err)
		return 2
	}
	defer closeQuietly(closeFn)

	var buf bytes.Buffer
	if err := bundle.Export(&buf, cas, ids, opts); err != nil {
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(errOut, "write bundle: %v\n", err)
		return 1
	}
	log.Debug("exported", "documents", len(ids), "bytes", buf.Len(), "out", outPath)
	return 0
}

func cmdBundleImport(args []string, out io.Writer, errOut io.Writer) int {
	fs, verbose := newFlagSet("bundle import", errOut)
	var st storeFlags
	st.register(fs)
	var ignoreUnknown bool
	fs.BoolVar(&ignoreUnknown, "ignore-unknown", false, "Skip unknown entries instead of failing")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cjson bundle import (--config ... | --backend ...) <file>")
		return 2
	}
	log := newLogger(errOut, *verbose)

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "open bundle: %v\n", err)
		return 1
	}
	defer f.Close()

	cas, closeFn, err := st.open()
	if err != nil {
		fmt.Fprintf(errOut, "open cas: %v\n", err)
		return 2
	}
	defer closeQuietly(closeFn)

	ids, err := bundle.ImportWithOptions(f, cas, bundle.ImportOptions{IgnoreUnknown: ignoreUnknown})
	if err != nil {
		fmt.Fprintf(errOut, "import: %v\n", err)
		return 1
	}
	log.Debug("imported", "documents", len(ids))
	for _, id := range ids {
		_, _ = fmt.Fprintln(out, id.String())
	}
	return 0
}
