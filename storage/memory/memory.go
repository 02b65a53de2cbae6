// Package memory implements an in-memory block store.
//
// It is intended for tests, tooling, and daemons that do not need durability.
package memory

import (
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/cidutil"
	"github.com/jonyg80/go-dag-pb/storage"
)

// CAS holds blocks in a map keyed by CID. Safe for concurrent use.
type CAS struct {
	mu     sync.RWMutex
	blocks map[cid.Cid][]byte
}

func New() *CAS {
	return &CAS{blocks: make(map[cid.Cid][]byte)}
}

var _ storage.CAS = (*CAS)(nil)

func (c *CAS) Put(block []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1DagPbSHA256CID(block)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.blocks[id]; !ok {
		stored := make([]byte, len(block))
		copy(stored, block)
		c.blocks[id] = stored
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	c.mu.RLock()
	stored, ok := c.blocks[id]
	c.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.blocks[id]
	return ok
}

// Len reports the number of stored blocks.
func (c *CAS) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}
