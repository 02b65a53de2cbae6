package model

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/jonyg80/go-dag-pb/dagpb"
)

// LinkView is the JSON projection of a dagpb.Link.
//
// Hash is the CID in its canonical string form. Name and Tsize are omitted
// when absent so the projection preserves field presence.
type LinkView struct {
	Hash  string `json:"hash"`
	Name  *string `json:"name,omitempty"`
	Tsize *int64  `json:"tsize,omitempty"`
}

// NodeView is the JSON projection of a dagpb.Node.
//
// JSON note: Data is encoded as base64 by encoding/json and omitted when
// absent. Links is always present, possibly empty.
type NodeView struct {
	Data  []byte     `json:"data,omitempty"`
	Links []LinkView `json:"links"`
}

// FromNode projects a node into its view. The node is not validated here;
// callers projecting untrusted nodes should run dagpb.Validate first.
func FromNode(n *dagpb.Node) NodeView {
	v := NodeView{Links: make([]LinkView, 0, len(n.Links))}
	if n.Data != nil {
		v.Data = append([]byte(nil), n.Data...)
	}
	for _, l := range n.Links {
		lv := LinkView{Hash: l.Hash.String()}
		if l.Name != nil {
			name := *l.Name
			lv.Name = &name
		}
		if l.Tsize != nil {
			t := *l.Tsize
			lv.Tsize = &t
		}
		v.Links = append(v.Links, lv)
	}
	return v
}

// ToNode realizes the view back into a node. Hash strings are parsed into
// CIDs; the result is a candidate for dagpb.Validate, not guaranteed valid.
func (v NodeView) ToNode() (*dagpb.Node, error) {
	n := &dagpb.Node{Links: make([]dagpb.Link, 0, len(v.Links))}
	if v.Data != nil {
		n.Data = append([]byte(nil), v.Data...)
	}
	for i, lv := range v.Links {
		id, err := cid.Decode(lv.Hash)
		if err != nil {
			return nil, NewError(ErrInvalidCID,
				fmt.Sprintf("link %d: invalid hash %q: %v", i, lv.Hash, err))
		}
		l := dagpb.Link{Hash: id}
		if lv.Name != nil {
			name := *lv.Name
			l.Name = &name
		}
		if lv.Tsize != nil {
			t := *lv.Tsize
			l.Tsize = &t
		}
		n.Links = append(n.Links, l)
	}
	return n, nil
}
