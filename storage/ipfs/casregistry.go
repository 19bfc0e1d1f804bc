package ipfs

import (
	"os"

	"github.com/spf13/pflag"

	"xdao.co/cjson/storage"
	"xdao.co/cjson/storage/casregistry"
)

var (
	flagBin  string
	flagPath string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "ipfs",
		Description: "Local IPFS repo via the Kubo ipfs CLI",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "ipfs", "Path to the ipfs binary (for --backend=ipfs)")
			fs.StringVar(&flagPath, "ipfs-path", "", "IPFS repo path; empty uses $IPFS_PATH (for --backend=ipfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			return open(flagBin, flagPath), nil, nil
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			return open(cfg["ipfs-bin"], cfg["ipfs-path"]), nil, nil
		},
	})
}

func open(bin, repo string) storage.CAS {
	opts := Options{Bin: bin}
	if repo != "" {
		opts.Env = append(os.Environ(), "IPFS_PATH="+repo)
	}
	return New(opts)
}
