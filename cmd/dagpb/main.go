package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/cidutil"
	"github.com/jonyg80/go-dag-pb/dagpb"
	"github.com/jonyg80/go-dag-pb/model"
	"github.com/jonyg80/go-dag-pb/storage"
	"github.com/jonyg80/go-dag-pb/storage/bundle"
	"github.com/jonyg80/go-dag-pb/storage/casconfig"
	"github.com/jonyg80/go-dag-pb/storage/casregistry"

	_ "github.com/jonyg80/go-dag-pb/storage/grpcstore"
	_ "github.com/jonyg80/go-dag-pb/storage/localfs"
	_ "github.com/jonyg80/go-dag-pb/storage/memory"
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
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "put":
		return cmdPut(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "bundle":
		return cmdBundle(args[1:], out, errOut)
	case "list-backends":
		return cmdListBackends(args[1:], out, errOut)
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
	fmt.Fprintln(w, "dagpb: dag-pb node codec and block-store CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dagpb encode <node.json>")
	fmt.Fprintln(w, "  dagpb decode [--legacy] <block.bin>")
	fmt.Fprintln(w, "  dagpb cid <block.bin>")
	fmt.Fprintln(w, "  dagpb put [--backend <name>|--cas-config <file>] [--json] <file>")
	fmt.Fprintln(w, "  dagpb get [--backend <name>|--cas-config <file>] [--json] <CID>")
	fmt.Fprintln(w, "  dagpb bundle export [--backend ...] [--closure] --out <file.tar> <CID> [<CID> ...]")
	fmt.Fprintln(w, "  dagpb bundle import [--backend ...] <file.tar>")
	fmt.Fprintln(w, "  dagpb list-backends")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - node JSON uses {\"data\": base64, \"links\": [{\"hash\",\"name\",\"tsize\"}]}")
	fmt.Fprintln(w, "  - encode writes canonical block bytes to stdout and the CID to stderr")
	fmt.Fprintln(w, "  - decode prints the node as JSON; --legacy materializes legacy field defaults")
	fmt.Fprintln(w, "  - put with --json treats the file as node JSON; otherwise as raw block bytes")
	fmt.Fprintln(w, "  - file arguments accept '-' for stdin")
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: dagpb encode <node.json>")
		return 2
	}

	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	var view model.NodeView
	if err := json.Unmarshal(b, &view); err != nil {
		fmt.Fprintf(errOut, "parse node json: %v\n", err)
		return 2
	}
	n, err := view.ToNode()
	if err != nil {
		fmt.Fprintf(errOut, "invalid node: %v\n", err)
		return 2
	}
	prepared, err := dagpb.Prepare(n)
	if err != nil {
		fmt.Fprintf(errOut, "prepare: %v\n", err)
		return 2
	}
	block, err := dagpb.Encode(prepared)
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	id, err := cidutil.CIDv1DagPbSHA256CID(block)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintf(errOut, "CID: %s\n", id)
	_, _ = out.Write(block)
	return 0
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var legacy bool
	fs.BoolVar(&legacy, "legacy", false, "Materialize legacy field defaults (Data, Name, Tsize)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: dagpb decode [--legacy] <block.bin>")
		return 2
	}

	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	var opts []dagpb.DecodeOption
	if legacy {
		opts = append(opts, dagpb.WithVariant(dagpb.Legacy))
	}
	n, err := dagpb.Decode(b, opts...)
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	return printNodeJSON(n, out, errOut)
}

func printNodeJSON(n *dagpb.Node, out io.Writer, errOut io.Writer) int {
	view := model.FromNode(n)
	enc, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "marshal: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, string(enc))
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: dagpb cid <block.bin>")
		return 2
	}
	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	s := cidutil.CIDv1DagPbSHA256(b)
	if s == "" {
		fmt.Fprintln(errOut, "failed to compute CID")
		return 1
	}
	_, _ = fmt.Fprintln(out, s)
	return 0
}

// openCAS opens the CAS selected by --backend or --cas-config.
func openCAS(backend, configPath string) (storage.CAS, func() error, error) {
	if configPath != "" {
		cfg, err := casconfig.LoadFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		return cfg.Open(casregistry.UsageCLI, backend)
	}
	if backend == "" {
		return nil, nil, fmt.Errorf("missing --backend (or --cas-config)")
	}
	return casregistry.Open(backend, casregistry.UsageCLI)
}

func cmdPut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend string
	var configPath string
	var asJSON bool
	fs.StringVar(&backend, "backend", "", "CAS backend name")
	fs.StringVar(&configPath, "cas-config", "", "Multi-backend CAS config file (JSON)")
	fs.BoolVar(&asJSON, "json", false, "Treat the file as node JSON instead of raw block bytes")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: dagpb put [--backend <name>|--cas-config <file>] [--json] <file>")
		return 2
	}

	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}

	if asJSON {
		var view model.NodeView
		if err := json.Unmarshal(b, &view); err != nil {
			fmt.Fprintf(errOut, "parse node json: %v\n", err)
			return 2
		}
		n, verr := view.ToNode()
		if verr != nil {
			fmt.Fprintf(errOut, "invalid node: %v\n", verr)
			return 2
		}
		prepared, perr := dagpb.Prepare(n)
		if perr != nil {
			fmt.Fprintf(errOut, "prepare: %v\n", perr)
			return 2
		}
		b, err = dagpb.Encode(prepared)
		if err != nil {
			fmt.Fprintf(errOut, "encode: %v\n", err)
			return 1
		}
	} else if _, derr := dagpb.Decode(b); derr != nil {
		fmt.Fprintf(errOut, "not a dag-pb block: %v\n", derr)
		return 2
	}

	cas, closeFn, err := openCAS(backend, configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := cas.Put(b)
	if err != nil {
		fmt.Fprintf(errOut, "put: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend string
	var configPath string
	var asJSON bool
	fs.StringVar(&backend, "backend", "", "CAS backend name")
	fs.StringVar(&configPath, "cas-config", "", "Multi-backend CAS config file (JSON)")
	fs.BoolVar(&asJSON, "json", false, "Print the decoded node as JSON instead of raw block bytes")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: dagpb get [--backend <name>|--cas-config <file>] [--json] <CID>")
		return 2
	}

	id, err := cid.Decode(strings.TrimSpace(fs.Arg(0)))
	if err != nil || !id.Defined() {
		fmt.Fprintf(errOut, "invalid CID: %v\n", err)
		return 2
	}

	cas, closeFn, err := openCAS(backend, configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	if asJSON {
		store := storage.NodeStore{CAS: cas}
		n, gerr := store.GetNode(id)
		if gerr != nil {
			fmt.Fprintf(errOut, "get: %v\n", gerr)
			return 1
		}
		return printNodeJSON(n, out, errOut)
	}

	b, err := cas.Get(id)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdBundle(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: dagpb bundle <subcommand> ...")
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
	fs := flag.NewFlagSet("bundle export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend string
	var configPath string
	var outPath string
	var closure bool
	fs.StringVar(&backend, "backend", "", "CAS backend name")
	fs.StringVar(&configPath, "cas-config", "", "Multi-backend CAS config file (JSON)")
	fs.StringVar(&outPath, "out", "", "Output TAR file ('-' for stdout)")
	fs.BoolVar(&closure, "closure", false, "Export the DAG reachable from the given CIDs")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if outPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: dagpb bundle export [--backend ...] [--closure] --out <file.tar> <CID> [<CID> ...]")
		return 2
	}

	ids := make([]cid.Cid, 0, fs.NArg())
	for _, arg := range fs.Args() {
		id, derr := cid.Decode(strings.TrimSpace(arg))
		if derr != nil || !id.Defined() {
			fmt.Fprintf(errOut, "invalid CID %q: %v\n", arg, derr)
			return 2
		}
		ids = append(ids, id)
	}

	cas, closeFn, err := openCAS(backend, configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	var buf bytes.Buffer
	opts := bundle.ExportOptions{IncludeIndex: true}
	if closure {
		err = bundle.ExportClosure(&buf, cas, ids, opts)
	} else {
		err = bundle.Export(&buf, cas, ids, opts)
	}
	if err != nil {
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}

	if outPath == "-" {
		_, _ = out.Write(buf.Bytes())
		return 0
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", outPath, err)
		return 1
	}
	return 0
}

func cmdBundleImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("bundle import", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend string
	var configPath string
	var ignoreUnknown bool
	fs.StringVar(&backend, "backend", "", "CAS backend name")
	fs.StringVar(&configPath, "cas-config", "", "Multi-backend CAS config file (JSON)")
	fs.BoolVar(&ignoreUnknown, "ignore-unknown", false, "Ignore unknown TAR entries instead of failing")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: dagpb bundle import [--backend ...] <file.tar>")
		return 2
	}

	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}

	cas, closeFn, err := openCAS(backend, configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	if err := bundle.ImportWithOptions(bytes.NewReader(b), cas, bundle.ImportOptions{IgnoreUnknown: ignoreUnknown}); err != nil {
		fmt.Fprintf(errOut, "import: %v\n", err)
		return 1
	}
	return 0
}

func cmdListBackends(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("list-backends", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	for _, b := range casregistry.List(casregistry.UsageCLI) {
		if b.Description == "" {
			_, _ = fmt.Fprintf(out, "%s\n", b.Name)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
	}
	return 0
}
