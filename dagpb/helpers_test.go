package dagpb

import (
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/cidutil"
)

func mustLeafCID(t *testing.T, seed string) cid.Cid {
	t.Helper()
	id, err := cidutil.CIDv1RawSHA256CID([]byte(seed))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	return id
}

func strptr(s string) *string { return &s }

func i64ptr(v int64) *int64 { return &v }

func namedLink(t *testing.T, name, seed string) Link {
	t.Helper()
	return Link{Hash: mustLeafCID(t, seed), Name: strptr(name)}
}
