// Package cidutil derives the CIDs used throughout this module.
//
// Encoded dag-pb nodes are addressed as CIDv1 dag-pb + sha2-256; leaf blobs
// referenced from nodes are addressed as CIDv1 raw + sha2-256. Both
// derivations are pure functions of the input bytes.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1DagPbSHA256CID returns the CIDv1 (dag-pb + sha2-256) for an encoded
// node block.
func CIDv1DagPbSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.DagProtobuf, sum), nil
}

// CIDv1DagPbSHA256 returns the string form of CIDv1DagPbSHA256CID.
func CIDv1DagPbSHA256(data []byte) string {
	id, err := CIDv1DagPbSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length, this should be unreachable.
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns the CIDv1 (raw + sha2-256) for a leaf blob.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
