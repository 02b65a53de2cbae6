package dagpb

import "google.golang.org/protobuf/encoding/protowire"

// Wire schema (fixed; the field numbers are an external contract):
//
//	Node: field 2 = repeated Link message, field 1 = optional Data bytes.
//	      Links are written before Data.
//	Link: field 1 = optional Hash bytes, field 2 = optional Name text,
//	      field 3 = optional Tsize varint, in ascending field order.
//
// Absent optional fields are never written; there is no default-value
// emission and no padding.
const (
	nodeFieldData  = 1
	nodeFieldLinks = 2

	linkFieldHash  = 1
	linkFieldName  = 2
	linkFieldTsize = 3
)

// Encode serializes a node into its canonical wire representation.
//
// Validate runs first; on failure the form error is returned and no bytes
// are emitted. Two nodes that validate and are structurally equal always
// encode to identical bytes.
func Encode(n *Node) ([]byte, error) {
	if err := Validate(n); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, encodedSize(n))
	for i := range n.Links {
		link := appendLink(nil, &n.Links[i])
		buf = protowire.AppendTag(buf, nodeFieldLinks, protowire.BytesType)
		buf = protowire.AppendBytes(buf, link)
	}
	if n.Data != nil {
		buf = protowire.AppendTag(buf, nodeFieldData, protowire.BytesType)
		buf = protowire.AppendBytes(buf, n.Data)
	}
	return buf, nil
}

func appendLink(buf []byte, l *Link) []byte {
	// Hash is guaranteed present by Validate; the binary form is the CID's
	// own serialization.
	buf = protowire.AppendTag(buf, linkFieldHash, protowire.BytesType)
	buf = protowire.AppendBytes(buf, l.Hash.Bytes())
	if l.Name != nil {
		buf = protowire.AppendTag(buf, linkFieldName, protowire.BytesType)
		buf = protowire.AppendString(buf, *l.Name)
	}
	if l.Tsize != nil {
		buf = protowire.AppendTag(buf, linkFieldTsize, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(*l.Tsize))
	}
	return buf
}

// encodedSize is a capacity hint, not a contract; Append* reallocates if it
// undershoots.
func encodedSize(n *Node) int {
	size := 0
	for i := range n.Links {
		l := &n.Links[i]
		linkSize := 2 + len(l.Hash.Bytes())
		if l.Name != nil {
			linkSize += 2 + len(*l.Name)
		}
		if l.Tsize != nil {
			linkSize += 1 + protowire.SizeVarint(uint64(*l.Tsize))
		}
		size += 2 + linkSize
	}
	if n.Data != nil {
		size += 2 + len(n.Data)
	}
	return size
}
