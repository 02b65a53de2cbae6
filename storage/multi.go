package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// MultiCAS reads blocks through an ordered chain of CAS backends.
//
// Lookup order is the slice order in Backends; callers MUST supply a fixed
// order. This keeps retrieval deterministic and the fallback strategy explicit.
//
// Put writes only to the first backend. Use ReplicatingCAS when every backend
// must hold the block.
type MultiCAS struct {
	Backends []CAS
}

var _ CAS = (*MultiCAS)(nil)

func (m MultiCAS) Put(block []byte) (cid.Cid, error) {
	if len(m.Backends) == 0 {
		return cid.Undef, errors.New("storage: MultiCAS has no backends")
	}
	return m.Backends[0].Put(block)
}

func (m MultiCAS) Get(id cid.Cid) ([]byte, error) {
	for _, cas := range m.Backends {
		b, err := cas.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m MultiCAS) Has(id cid.Cid) bool {
	for _, cas := range m.Backends {
		if cas.Has(id) {
			return true
		}
	}
	return false
}
