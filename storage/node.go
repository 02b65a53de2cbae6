package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/cidutil"
	"github.com/jonyg80/go-dag-pb/dagpb"
)

// NodeStore persists dag-pb nodes through a CAS.
//
// PutNode encodes the node to its canonical block and writes it; GetNode reads
// a block, verifies its CID against the bytes, and decodes it. The store never
// hands back a node whose bytes do not hash to the requested CID.
type NodeStore struct {
	CAS CAS
}

// PutNode encodes n and writes the resulting block.
//
// The returned CID is the block's dag-pb CIDv1. Encoding fails if n is not in
// canonical form; nothing is written in that case.
func (s NodeStore) PutNode(n *dagpb.Node) (cid.Cid, error) {
	block, err := dagpb.Encode(n)
	if err != nil {
		return cid.Undef, err
	}
	return s.CAS.Put(block)
}

// GetNode reads the block for id, verifies it, and decodes it.
//
// Decode options (e.g. dagpb.WithVariant) are forwarded unchanged.
func (s NodeStore) GetNode(id cid.Cid, opts ...dagpb.DecodeOption) (*dagpb.Node, error) {
	block, err := s.CAS.Get(id)
	if err != nil {
		return nil, err
	}
	want, err := cidutil.CIDv1DagPbSHA256CID(block)
	if err != nil {
		return nil, err
	}
	if want != id {
		return nil, fmt.Errorf("%w: got %s for %s", ErrCIDMismatch, want, id)
	}
	return dagpb.Decode(block, opts...)
}

// HasNode reports whether a block for id is present.
func (s NodeStore) HasNode(id cid.Cid) bool {
	return s.CAS.Has(id)
}
