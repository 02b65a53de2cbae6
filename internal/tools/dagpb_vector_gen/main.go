// Command dagpb_vector_gen regenerates the dag-pb conformance vectors under
// testdata/conformance/dagpb/v1.
//
// Each vector is written as <name>.hex (canonical block bytes, hex encoded)
// and <name>.cid (CIDv1 dag-pb sha2-256 of those bytes). Link targets are
// fixed CIDs so the vectors are stable.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonyg80/go-dag-pb/cidutil"
	"github.com/jonyg80/go-dag-pb/dagpb"
)

const (
	leafA      = "bafkreihjqrorqcnsskv37jxjhmp5dz56nwqamxjdv44saf7ozqfljufnb4"
	leafB      = "bafkreifs76lgikyiogdvtdsbnw4zciaz7mt66av6ducdn7obvv5dwkfode"
	leafV0     = "QmVy9nvNSdYR46rVfVHTGTF7YWmi6h7jywc9otEzZbFPuY"
	leafNegCID = leafA
)

func vectors() map[string]interface{} {
	return map[string]interface{}{
		"empty": map[string]interface{}{
			"Links": []interface{}{},
		},
		"data_only": []byte("some data"),
		"two_links": map[string]interface{}{
			"Data": []byte("payload"),
			"Links": []interface{}{
				map[string]interface{}{"Hash": leafA, "Name": "a", "Tsize": int64(6)},
				map[string]interface{}{"Hash": leafB, "Name": "b", "Tsize": int64(6)},
			},
		},
		"unnamed_link": map[string]interface{}{
			"Links": []interface{}{
				map[string]interface{}{"Hash": leafV0},
			},
		},
		"negative_tsize": map[string]interface{}{
			"Links": []interface{}{
				map[string]interface{}{"Hash": leafNegCID, "Name": "neg", "Tsize": int64(-5)},
			},
		},
	}
}

func main() {
	outDir := flag.String("out", "testdata/conformance/dagpb/v1", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	for name, input := range vectors() {
		node, err := dagpb.Prepare(input)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		block, err := dagpb.Encode(node)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		id := cidutil.CIDv1DagPbSHA256(block)
		if id == "" {
			panic(fmt.Errorf("%s: cid derivation failed", name))
		}

		hexPath := filepath.Join(*outDir, name+".hex")
		if err := os.WriteFile(hexPath, []byte(hex.EncodeToString(block)+"\n"), 0o644); err != nil {
			panic(err)
		}
		cidPath := filepath.Join(*outDir, name+".cid")
		if err := os.WriteFile(cidPath, []byte(id+"\n"), 0o644); err != nil {
			panic(err)
		}
		fmt.Printf("%s\t%s\n", name, id)
	}
}
