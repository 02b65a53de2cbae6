package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/jonyg80/go-dag-pb/storage"
	"github.com/jonyg80/go-dag-pb/storage/casconfig"
	"github.com/jonyg80/go-dag-pb/storage/casregistry"
	"github.com/jonyg80/go-dag-pb/storage/grpcstore"

	_ "github.com/jonyg80/go-dag-pb/storage/localfs"
	_ "github.com/jonyg80/go-dag-pb/storage/memory"
)

func main() {
	fs := flag.NewFlagSet("dagpb-blockd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7845", "listen address")
	backend := fs.String("backend", "localfs", "block-store backend name")
	configPath := fs.String("cas-config", "", "Multi-backend CAS config file (JSON); overrides --backend")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	cas, closeFn, err := openCAS(*backend, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcstore.RegisterCASServer(s, &grpcstore.Server{CAS: cas})

	fmt.Fprintf(os.Stderr, "dagpb-blockd listening on %s (backend=%s)\n", lis.Addr().String(), *backend)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openCAS(backend, configPath string) (storage.CAS, func() error, error) {
	if configPath != "" {
		cfg, err := casconfig.LoadFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		return cfg.Open(casregistry.UsageDaemon, "")
	}
	return casregistry.Open(backend, casregistry.UsageDaemon)
}
