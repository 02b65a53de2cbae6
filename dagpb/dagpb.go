// Package dagpb implements the canonical codec for the dag-pb merkle-DAG
// node format.
//
// A node carries an optional opaque data blob and an ordered list of typed
// links; each link references another node by CID, optionally with a
// human-readable name and a cumulative size hint. The codec guarantees that
// semantically identical nodes always serialize to identical bytes, which is
// what makes content addressing over the format meaningful.
//
// The pipeline is: lenient input -> Prepare (optional) -> Validate
// (mandatory; Encode runs it) -> wire bytes, and the inverse for Decode.
// All operations are pure synchronous transforms with no shared state and
// are safe for concurrent use on independent inputs.
package dagpb

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multicodec"
)

// Code is the multicodec code identifying the dag-pb format. It is the value
// a multi-format dispatch layer keys this codec under.
const Code = uint64(multicodec.DagPb)

// Name is the multicodec name identifying the dag-pb format.
const Name = "dag-pb"

// Link is a reference to another node.
//
// Hash is the only required field and MUST be a realized CID once the link
// has passed Validate. Name and Tsize are genuinely optional: a nil pointer
// means the field is absent and is never written to the wire.
//
// Tsize carries no sign constraint. The wire encoding is a varint, so a
// negative value round-trips through encode/decode unchanged; rejecting it
// would be a schema change, not a fix.
type Link struct {
	Hash  cid.Cid
	Name  *string
	Tsize *int64
}

// Node is the codec's primary record.
//
// Data is absent when nil. Links MUST be in canonical order (non-decreasing
// under CompareLinks) for the node to validate; a nil slice is an empty list.
//
// Nodes are value records: Prepare and Decode always return fresh copies and
// Validate never mutates its input.
type Node struct {
	Data  []byte
	Links []Link
}

// String returns a short human-readable summary. It is not a serialization.
func (n *Node) String() string {
	if n == nil {
		return "dagpb.Node(nil)"
	}
	return fmt.Sprintf("dagpb.Node{%d data bytes, %d links}", len(n.Data), len(n.Links))
}
