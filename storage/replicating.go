package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/cidutil"
)

// NamedCAS associates a CAS with a stable backend name.
//
// Multi-backend orchestration keeps per-backend names so callers can report
// which replica produced a divergent CID.
type NamedCAS struct {
	Name string
	CAS  CAS
}

// ReplicatingCAS writes every block to all configured backends.
//
// Reads fall back in order. Writes go to all backends and require every
// returned CID to equal the CID computed locally from the block bytes;
// divergence yields ErrCIDMismatch.
//
// Use PutAll when the per-backend CID mapping is needed.
type ReplicatingCAS struct {
	Backends []NamedCAS
}

var _ CAS = (*ReplicatingCAS)(nil)

// PutAll writes the same block to all backends.
//
// It returns the canonical CID computed from the block bytes and a map of
// backend name to the CID that backend reported. If any backend reports a
// different CID, ErrCIDMismatch is returned along with the partial map.
func (r ReplicatingCAS) PutAll(block []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := cidutil.CIDv1DagPbSHA256CID(block)
	if err != nil {
		return cid.Undef, nil, err
	}
	if !want.Defined() {
		return cid.Undef, nil, ErrInvalidCID
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, fmt.Errorf("storage: ReplicatingCAS has no backends")
	}

	out := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		if b.CAS == nil {
			return cid.Undef, nil, fmt.Errorf("storage: nil CAS for backend %q", b.Name)
		}
		got, err := b.CAS.Put(block)
		if err != nil {
			return cid.Undef, nil, err
		}
		out[b.Name] = got
		if got != want {
			return cid.Undef, out, ErrCIDMismatch
		}
	}
	return want, out, nil
}

func (r ReplicatingCAS) Put(block []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(block)
	return id, err
}

func (r ReplicatingCAS) Get(id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		if b.CAS == nil {
			continue
		}
		out, err := b.CAS.Get(id)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r ReplicatingCAS) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b.CAS != nil && b.CAS.Has(id) {
			return true
		}
	}
	return false
}
