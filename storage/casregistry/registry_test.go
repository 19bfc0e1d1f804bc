package casregistry

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"xdao.co/cjson/storage"
)

func registerMemory(t *testing.T, name string, usage Usage) *string {
	t.Helper()
	var flagValue string
	err := Register(Backend{
		Name:        name,
		Description: "test backend",
		Usage:       usage,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagValue, name+"-label", "", "label")
		},
		Open: func() (storage.CAS, func() error, error) {
			if flagValue == "" {
				return nil, nil, errors.New("missing label")
			}
			return storage.NewMemory(), nil, nil
		},
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			if cfg[name+"-label"] == "" {
				return nil, nil, errors.New("missing label")
			}
			return storage.NewMemory(), nil, nil
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return &flagValue
}

func TestRegistry_OpenFromFlagsAndConfig(t *testing.T) {
	registerMemory(t, "test-mem-cli", UsageCLI)
	registerMemory(t, "test-mem-daemon", UsageDaemon)

	names := strings.Join(Names(UsageCLI), ",")
	if !strings.Contains(names, "test-mem-cli") || strings.Contains(names, "test-mem-daemon") {
		t.Fatalf("Names(UsageCLI) = %s", names)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, UsageCLI)
	if err := fs.Parse([]string{"--test-mem-cli-label=x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, err := Open("test-mem-cli", UsageCLI); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := Open("test-mem-daemon", UsageCLI); err == nil {
		t.Fatalf("expected usage mismatch error")
	}
	if _, _, err := Open("nope", UsageCLI); err == nil {
		t.Fatalf("expected unknown backend error")
	}

	if _, _, err := OpenWithConfig("test-mem-daemon", UsageDaemon, map[string]string{"test-mem-daemon-label": "y"}); err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	if _, _, err := OpenWithConfig("test-mem-daemon", UsageDaemon, nil); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestRegister_Validation(t *testing.T) {
	if err := Register(Backend{}); err == nil {
		t.Fatalf("expected error for empty backend")
	}
	registerMemory(t, "test-mem-dup", UsageCLI)
	err := Register(Backend{
		Name:          "test-mem-dup",
		Usage:         UsageCLI,
		RegisterFlags: func(*pflag.FlagSet) {},
		Open:          func() (storage.CAS, func() error, error) { return nil, nil, nil },
		OpenConfig:    func(map[string]string) (storage.CAS, func() error, error) { return nil, nil, nil },
	})
	if err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
