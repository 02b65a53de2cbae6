package dagpb

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

// Prepare converts permissive caller input into the canonical in-memory
// shape. It is advisory, never authoritative: output is still subject to
// Validate, which Encode runs unconditionally.
//
// Accepted input forms:
//   - []byte or string: a data-only node with no links
//   - *Node / Node: normalized copy (links sorted, empty Data dropped)
//   - map[string]interface{} with optional "Data" ([]byte or string) and
//     optional "Links" ([]interface{})
//
// Per link entry (inside "Links"): a record with "Hash"/"Name"/"Tsize", or a
// bare CID value, CID text, or raw CID bytes as shorthand for {Hash}. Hash
// text that fails to parse and Hash bytes that fail to decode are form
// errors. Name is kept only when it is a string; Tsize only when it is a
// mathematical integer (fractional values cannot be coerced and are
// rejected).
//
// The returned node is freshly allocated; links are sorted into canonical
// order, Links is always non-nil, and Data is present only when non-empty.
func Prepare(input interface{}) (*Node, error) {
	switch v := input.(type) {
	case []byte:
		return prepareData(v), nil
	case string:
		return prepareData([]byte(v)), nil
	case *Node:
		if v == nil {
			return nil, newError(KindForm, "DAGPB-FORM-013", "cannot prepare a nil node")
		}
		return prepareNode(v), nil
	case Node:
		return prepareNode(&v), nil
	case map[string]interface{}:
		return prepareMap(v)
	default:
		return nil, newError(KindForm, "DAGPB-FORM-013",
			fmt.Sprintf("unsupported input form %T", input))
	}
}

func prepareData(data []byte) *Node {
	n := &Node{Links: []Link{}}
	if len(data) > 0 {
		n.Data = append([]byte(nil), data...)
	}
	return n
}

func prepareNode(src *Node) *Node {
	n := prepareData(src.Data)
	n.Links = copyLinks(src.Links)
	sortLinks(n.Links)
	return n
}

func prepareMap(m map[string]interface{}) (*Node, error) {
	n := &Node{Links: []Link{}}

	// Best-effort coercion: Data is kept only when it is bytes or a string,
	// and only when non-empty. Unknown node fields are ignored here; Validate
	// is where extraneous fields are rejected.
	switch d := m["Data"].(type) {
	case []byte:
		if len(d) > 0 {
			n.Data = append([]byte(nil), d...)
		}
	case string:
		if len(d) > 0 {
			n.Data = []byte(d)
		}
	}

	if lv, ok := m["Links"]; ok && lv != nil {
		entries, ok := lv.([]interface{})
		if !ok {
			return nil, newError(KindForm, "DAGPB-FORM-004",
				fmt.Sprintf("Links must be a sequence, got %T", lv))
		}
		for i, entry := range entries {
			link, err := prepareLink(i, entry)
			if err != nil {
				return nil, err
			}
			n.Links = append(n.Links, link)
		}
	}

	sortLinks(n.Links)
	return n, nil
}

func prepareLink(i int, entry interface{}) (Link, error) {
	switch v := entry.(type) {
	case map[string]interface{}:
		return prepareLinkRecord(i, v)
	case cid.Cid, *cid.Cid, string, []byte:
		// Bare-CID shorthand for a nameless, sizeless link.
		hash, err := prepareHash(i, v)
		if err != nil {
			return Link{}, err
		}
		return Link{Hash: hash}, nil
	default:
		return Link{}, newError(KindForm, "DAGPB-FORM-005",
			fmt.Sprintf("link %d: must be a record or CID, got %T", i, entry))
	}
}

func prepareLinkRecord(i int, lm map[string]interface{}) (Link, error) {
	var link Link

	if hv, ok := lm["Hash"]; ok {
		hash, err := prepareHash(i, hv)
		if err != nil {
			return Link{}, err
		}
		link.Hash = hash
	}
	// A record without Hash is carried through as-is; Validate rejects it.

	if s, ok := lm["Name"].(string); ok {
		name := s
		link.Name = &name
	}

	if tv, ok := lm["Tsize"]; ok {
		switch tv.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			t, ok := asInt64(tv)
			if !ok {
				return Link{}, newError(KindForm, "DAGPB-FORM-011",
					fmt.Sprintf("link %d: Tsize must be an integer, got %v", i, tv))
			}
			link.Tsize = &t
		}
		// Non-numeric Tsize is dropped, not rejected.
	}

	return link, nil
}

// prepareHash realizes a content identifier from any of its accepted
// supply forms. This is the lenient counterpart of the Validate rule that
// accepts only an already-realized CID.
func prepareHash(i int, v interface{}) (cid.Cid, error) {
	switch h := v.(type) {
	case cid.Cid:
		return h, nil
	case *cid.Cid:
		if h == nil {
			return cid.Undef, newError(KindForm, "DAGPB-FORM-009",
				fmt.Sprintf("link %d: invalid Hash: nil CID", i))
		}
		return *h, nil
	case string:
		id, err := cid.Parse(h)
		if err != nil {
			return cid.Undef, wrapError(KindForm, "DAGPB-FORM-009",
				fmt.Sprintf("link %d: invalid Hash text", i), err)
		}
		return id, nil
	case []byte:
		id, err := cid.Cast(h)
		if err != nil {
			return cid.Undef, wrapError(KindForm, "DAGPB-FORM-009",
				fmt.Sprintf("link %d: invalid Hash bytes", i), err)
		}
		return id, nil
	default:
		return cid.Undef, newError(KindForm, "DAGPB-FORM-009",
			fmt.Sprintf("link %d: Hash must be a CID, CID text or CID bytes, got %T", i, v))
	}
}

func copyLinks(links []Link) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		out = append(out, copyLink(l))
	}
	return out
}

func copyLink(l Link) Link {
	c := Link{Hash: l.Hash}
	if l.Name != nil {
		name := *l.Name
		c.Name = &name
	}
	if l.Tsize != nil {
		t := *l.Tsize
		c.Tsize = &t
	}
	return c
}
