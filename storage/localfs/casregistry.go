package localfs

import (
	"fmt"

	"github.com/spf13/pflag"

	"xdao.co/cjson/storage"
	"xdao.co/cjson/storage/casregistry"
)

var (
	flagLocalDir    string
	flagCompression string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "localfs",
		Description: "Local filesystem CAS (directory)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagLocalDir, "localfs-dir", "", "LocalFS CAS directory (for --backend=localfs)")
			fs.StringVar(&flagCompression, "localfs-compression", "none", "Compression for new documents: none, zstd or lz4")
		},
		Open: func() (storage.CAS, func() error, error) {
			return open(flagLocalDir, flagCompression)
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			return open(cfg["localfs-dir"], cfg["localfs-compression"])
		},
	})
}

func open(dir, compression string) (storage.CAS, func() error, error) {
	if dir == "" {
		return nil, nil, fmt.Errorf("missing --localfs-dir")
	}
	comp, err := ParseCompression(compression)
	if err != nil {
		return nil, nil, err
	}
	cas, err := NewWithOptions(dir, Options{Compression: comp})
	if err != nil {
		return nil, nil, err
	}
	return cas, nil, nil
}
