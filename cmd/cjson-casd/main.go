// Command cjson-casd serves a CAS backend over gRPC.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"xdao.co/cjson/storage"
	"xdao.co/cjson/storage/casregistry"
	"xdao.co/cjson/storage/grpccas"
	_ "xdao.co/cjson/storage/ipfs"
	_ "xdao.co/cjson/storage/localfs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	fs := pflag.NewFlagSet("cjson-casd", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	backend := fs.String("backend", "localfs", "CAS backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	verbose := fs.Bool("verbose", false, "Log every request")
	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	logger, err := newLogger(errOut, *logFormat, *verbose)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	cas, closeFn, err := casregistry.Open(*backend, casregistry.UsageDaemon)
	if err != nil {
		logger.Error("open backend", "backend", *backend, "error", err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error("listen", "address", *listen, "error", err)
		return 1
	}
	logger.Info("listening", "address", lis.Addr().String(), "backend", *backend)
	if err := serve(ctx, lis, cas, logger); err != nil {
		logger.Error("serve", "error", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
}

// serve runs the gRPC server on lis until ctx is done, then drains
// in-flight requests.
func serve(ctx context.Context, lis net.Listener, cas storage.CAS, logger *slog.Logger) error {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(logRequests(logger)))
	grpccas.RegisterCASServer(s, &grpccas.Server{CAS: cas})

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(lis) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		s.GracefulStop()
		return <-errc
	}
}

// logRequests logs each RPC at debug level and failures at warn level.
func logRequests(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		}
		if err != nil {
			logger.Warn("request failed", append(attrs, "error", err)...)
		} else {
			logger.Debug("request", attrs...)
		}
		return resp, err
	}
}
