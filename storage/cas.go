// Package storage defines the content-addressed block store used to hold
// encoded dag-pb nodes, plus multi-backend composition over it.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable store for encoded node blocks.
//
// Contract:
//   - Put MUST be idempotent.
//   - Stored blocks MUST be immutable.
//   - CIDs MUST be CIDv1 dag-pb + sha2-256 derived from the block bytes
//     (cidutil.CIDv1DagPbSHA256CID); callers are responsible for supplying
//     canonical bytes, typically via dagpb.Encode.
//   - Get MUST return ErrNotFound when the CID is absent.
//
// A CAS stores bytes, not semantics: it never decodes blocks. Schema
// conformance is the codec's concern (see NodeStore).
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
