package dagpb

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"google.golang.org/protobuf/encoding/protowire"
)

// DecodeOption adjusts how Decode materializes a node.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	variant SchemaVariant
}

// WithVariant selects the schema revision Decode targets. The default is
// Canonical.
func WithVariant(v SchemaVariant) DecodeOption {
	return func(c *decodeConfig) { c.variant = v }
}

// Decode parses wire bytes into a freshly-allocated node.
//
// Structurally malformed input and a link Hash that does not parse as a CID
// are decode errors; no partially-populated node is ever returned. Unknown
// wire fields are skipped per standard forward-compatible parsing semantics.
// Decode performs no schema re-validation beyond what parsing enforces, so
// untrusted bytes that decode cleanly may still fail Validate.
func Decode(data []byte, opts ...DecodeOption) (*Node, error) {
	cfg := decodeConfig{variant: Canonical}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := &Node{Links: []Link{}}
	b := data
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return nil, wrapError(KindDecode, "DAGPB-DECODE-001",
				"malformed wire bytes: invalid tag", protowire.ParseError(tagLen))
		}
		b = b[tagLen:]

		switch num {
		case nodeFieldLinks:
			if typ != protowire.BytesType {
				return nil, newError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: Links field has wire type %d", typ))
			}
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, wrapError(KindDecode, "DAGPB-DECODE-001",
					"malformed wire bytes: truncated link", protowire.ParseError(m))
			}
			b = b[m:]
			link, err := decodeLink(raw, len(n.Links), cfg)
			if err != nil {
				return nil, err
			}
			n.Links = append(n.Links, link)
		case nodeFieldData:
			if typ != protowire.BytesType {
				return nil, newError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: Data field has wire type %d", typ))
			}
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, wrapError(KindDecode, "DAGPB-DECODE-001",
					"malformed wire bytes: truncated data", protowire.ParseError(m))
			}
			b = b[m:]
			n.Data = append([]byte(nil), raw...)
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, wrapError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: field %d", num), protowire.ParseError(m))
			}
			b = b[m:]
		}
	}

	if cfg.variant == Legacy && n.Data == nil {
		n.Data = []byte{}
	}
	return n, nil
}

// DecodeLegacy decodes under the legacy schema revision, materializing
// absent Name/Tsize/Data as their zero values.
func DecodeLegacy(data []byte) (*Node, error) {
	return Decode(data, WithVariant(Legacy))
}

func decodeLink(raw []byte, index int, cfg decodeConfig) (Link, error) {
	var link Link
	b := raw
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return Link{}, wrapError(KindDecode, "DAGPB-DECODE-001",
				fmt.Sprintf("malformed wire bytes: link %d tag", index), protowire.ParseError(tagLen))
		}
		b = b[tagLen:]

		switch num {
		case linkFieldHash:
			if typ != protowire.BytesType {
				return Link{}, newError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d Hash has wire type %d", index, typ))
			}
			hv, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return Link{}, wrapError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d Hash", index), protowire.ParseError(m))
			}
			b = b[m:]
			id, err := cid.Cast(hv)
			if err != nil {
				// Never substitute a zero Hash; the whole decode fails.
				return Link{}, wrapError(KindDecode, "DAGPB-DECODE-002",
					fmt.Sprintf("link %d: Hash bytes are not a valid CID", index), err)
			}
			link.Hash = id
		case linkFieldName:
			if typ != protowire.BytesType {
				return Link{}, newError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d Name has wire type %d", index, typ))
			}
			nv, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return Link{}, wrapError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d Name", index), protowire.ParseError(m))
			}
			b = b[m:]
			name := string(nv)
			link.Name = &name
		case linkFieldTsize:
			if typ != protowire.VarintType {
				return Link{}, newError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d Tsize has wire type %d", index, typ))
			}
			tv, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return Link{}, wrapError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d Tsize", index), protowire.ParseError(m))
			}
			b = b[m:]
			// Two's-complement cast so values encoded from a negative Tsize
			// round-trip unchanged.
			t := int64(tv)
			link.Tsize = &t
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return Link{}, wrapError(KindDecode, "DAGPB-DECODE-001",
					fmt.Sprintf("malformed wire bytes: link %d field %d", index, num), protowire.ParseError(m))
			}
			b = b[m:]
		}
	}

	if cfg.variant == Legacy {
		if link.Name == nil {
			name := ""
			link.Name = &name
		}
		if link.Tsize == nil {
			t := int64(0)
			link.Tsize = &t
		}
	}
	return link, nil
}
