package dagpb

import (
	"bytes"
	"encoding/hex"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestDecode_AbsentDataStaysAbsent(t *testing.T) {
	n := mustDecode(t, nil)
	if n.Data != nil {
		t.Fatalf("Data = %v, want absent", n.Data)
	}
	if n.Links == nil || len(n.Links) != 0 {
		t.Fatalf("Links = %v, want empty non-nil", n.Links)
	}
}

func TestDecode_AbsentNameAndTsizeStayAbsent(t *testing.T) {
	b := mustEncode(t, &Node{Links: []Link{{Hash: mustLeafCID(t, "leaf-a")}}})
	n := mustDecode(t, b)
	if n.Links[0].Name != nil {
		t.Fatalf("Name = %q, want absent", *n.Links[0].Name)
	}
	if n.Links[0].Tsize != nil {
		t.Fatalf("Tsize = %d, want absent", *n.Links[0].Tsize)
	}
}

func TestDecode_MalformedHashIsDecodeError(t *testing.T) {
	// A link whose Hash field carries bytes that are not a CID.
	var link []byte
	link = protowire.AppendTag(link, linkFieldHash, protowire.BytesType)
	link = protowire.AppendBytes(link, []byte{0xde, 0xad, 0xbe, 0xef})
	var block []byte
	block = protowire.AppendTag(block, nodeFieldLinks, protowire.BytesType)
	block = protowire.AppendBytes(block, link)

	n, err := Decode(block)
	if !IsDecodeError(err) {
		t.Fatalf("err = %v, want decode error", err)
	}
	if RuleID(err) != "DAGPB-DECODE-002" {
		t.Fatalf("RuleID = %q, want DAGPB-DECODE-002", RuleID(err))
	}
	if n != nil {
		t.Fatalf("Decode returned a partial node alongside an error")
	}
}

func TestDecode_TruncatedInput(t *testing.T) {
	full := mustEncode(t, &Node{
		Data:  []byte("payload"),
		Links: []Link{{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("a")}},
	})
	for cut := 1; cut < len(full); cut++ {
		if _, err := Decode(full[:cut]); err != nil && !IsDecodeError(err) {
			t.Fatalf("cut=%d: err = %v, want decode error", cut, err)
		}
	}
	// A truncation inside a length-delimited field must fail.
	if _, err := Decode(full[:len(full)-1]); !IsDecodeError(err) {
		t.Fatalf("want decode error for truncated data field")
	}
}

func TestDecode_BadTag(t *testing.T) {
	// Field number 0 is invalid in the wire format.
	if _, err := Decode([]byte{0x00}); !IsDecodeError(err) {
		t.Fatalf("want decode error for invalid tag")
	}
}

func TestDecode_UnknownFieldsSkipped(t *testing.T) {
	// Forward compatibility: an unknown field is not a schema violation.
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 1234)
	b = protowire.AppendTag(b, nodeFieldData, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("x"))

	n := mustDecode(t, b)
	if !bytes.Equal(n.Data, []byte("x")) {
		t.Fatalf("Data = %x, want 78", n.Data)
	}
}

func TestDecode_UnknownLinkFieldSkipped(t *testing.T) {
	id := mustLeafCID(t, "leaf-a")
	var link []byte
	link = protowire.AppendTag(link, linkFieldHash, protowire.BytesType)
	link = protowire.AppendBytes(link, id.Bytes())
	link = protowire.AppendTag(link, 7, protowire.VarintType)
	link = protowire.AppendVarint(link, 5)
	var b []byte
	b = protowire.AppendTag(b, nodeFieldLinks, protowire.BytesType)
	b = protowire.AppendBytes(b, link)

	n := mustDecode(t, b)
	if len(n.Links) != 1 || !n.Links[0].Hash.Equals(id) {
		t.Fatalf("unexpected links: %v", n.Links)
	}
}

func TestDecode_FieldOrderIndependent(t *testing.T) {
	// Canonical encode writes links before data, but decode accepts either
	// order on the wire.
	id := mustLeafCID(t, "leaf-a")
	var link []byte
	link = protowire.AppendTag(link, linkFieldHash, protowire.BytesType)
	link = protowire.AppendBytes(link, id.Bytes())

	var b []byte
	b = protowire.AppendTag(b, nodeFieldData, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("d"))
	b = protowire.AppendTag(b, nodeFieldLinks, protowire.BytesType)
	b = protowire.AppendBytes(b, link)

	n := mustDecode(t, b)
	if string(n.Data) != "d" || len(n.Links) != 1 {
		t.Fatalf("unexpected node: %v", n)
	}
}

func TestDecodeLegacy_MaterializesDefaults(t *testing.T) {
	b := mustEncode(t, &Node{Links: []Link{{Hash: mustLeafCID(t, "leaf-a")}}})

	n, err := DecodeLegacy(b)
	if err != nil {
		t.Fatalf("DecodeLegacy: %v", err)
	}
	if n.Data == nil || len(n.Data) != 0 {
		t.Fatalf("legacy Data = %v, want present empty", n.Data)
	}
	if n.Links[0].Name == nil || *n.Links[0].Name != "" {
		t.Fatalf("legacy Name = %v, want present empty", n.Links[0].Name)
	}
	if n.Links[0].Tsize == nil || *n.Links[0].Tsize != 0 {
		t.Fatalf("legacy Tsize = %v, want present zero", n.Links[0].Tsize)
	}
}

func TestDecodeLegacy_PresentFieldsUnaffected(t *testing.T) {
	src := &Node{
		Data:  []byte("d"),
		Links: []Link{{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("n"), Tsize: i64ptr(3)}},
	}
	n, err := Decode(mustEncode(t, src), WithVariant(Legacy))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertNodesEqual(t, n, src)
}

func TestDecode_NoValidationRecheck(t *testing.T) {
	// Wire bytes carrying out-of-order links decode fine; Validate is a
	// separate gate.
	b := fromHex(t,
		"122b0a2401551220b2ff96642b087187598e416db9912019fb27ef02be1d0436fdc1ad7a3b28ae191201621806"+
			"122b0a2401551220e9845d1809b292abbfa6e93b1fd1e7be6da0065d23af392017eecc0ab4d0ad0f1201611806")
	n := mustDecode(t, b)
	if len(n.Links) != 2 || *n.Links[0].Name != "b" {
		t.Fatalf("unexpected decode: %v", n.Links)
	}
	if err := Validate(n); !IsFormError(err) {
		t.Fatalf("Validate(out-of-order decode) = %v, want form error", err)
	}
}
