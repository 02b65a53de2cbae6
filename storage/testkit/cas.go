// Package testkit provides a reusable conformance suite for CAS backends.
//
// A backend package runs the suite from its own tests:
//
//	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
//	    return New(t.TempDir())
//	})
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/cidutil"
	"github.com/jonyg80/go-dag-pb/dagpb"
	"github.com/jonyg80/go-dag-pb/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := encodeNode(t, &dagpb.Node{Data: []byte("hello, dag-pb storage"), Links: []dagpb.Link{}})

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.CIDv1DagPbSHA256CID(want)
		if err != nil {
			t.Fatalf("CIDv1DagPbSHA256CID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}

		gotID, err := cidutil.CIDv1DagPbSHA256CID(got)
		if err != nil {
			t.Fatalf("CIDv1DagPbSHA256CID(got) failed: %v", err)
		}
		if gotID != id {
			t.Fatalf("Get returned bytes not matching requested CID")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := encodeNode(t, &dagpb.Node{Data: []byte("same bytes"), Links: []dagpb.Link{}})

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := encodeNode(t, &dagpb.Node{Data: []byte("missing"), Links: []dagpb.Link{}})
		id, err := cidutil.CIDv1DagPbSHA256CID(b)
		if err != nil {
			t.Fatalf("CIDv1DagPbSHA256CID failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		_, err = cas.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		_, err = cas.Put(b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})

	t.Run("NodeStoreRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		store := storage.NodeStore{CAS: cas}

		leaf := encodeNode(t, &dagpb.Node{Data: []byte("leaf"), Links: []dagpb.Link{}})
		leafID, err := cas.Put(leaf)
		if err != nil {
			t.Fatalf("Put leaf failed: %v", err)
		}

		name := "child"
		tsize := int64(len(leaf))
		root := &dagpb.Node{Links: []dagpb.Link{{Hash: leafID, Name: &name, Tsize: &tsize}}}

		rootID, err := store.PutNode(root)
		if err != nil {
			t.Fatalf("PutNode failed: %v", err)
		}
		got, err := store.GetNode(rootID)
		if err != nil {
			t.Fatalf("GetNode failed: %v", err)
		}
		if len(got.Links) != 1 || got.Links[0].Hash != leafID {
			t.Fatalf("GetNode returned wrong links: %+v", got.Links)
		}
		if got.Links[0].Name == nil || *got.Links[0].Name != name {
			t.Fatalf("GetNode lost link name")
		}
	})
}

func encodeNode(t *testing.T, n *dagpb.Node) []byte {
	t.Helper()
	b, err := dagpb.Encode(n)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return b
}
