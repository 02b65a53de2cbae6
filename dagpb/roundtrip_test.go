package dagpb

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustEncode(t *testing.T, n *Node) []byte {
	t.Helper()
	b, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return b
}

func mustDecode(t *testing.T, b []byte) *Node {
	t.Helper()
	n, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return n
}

// assertNodesEqual compares structural equality including field presence.
func assertNodesEqual(t *testing.T, got, want *Node) {
	t.Helper()
	if (got.Data == nil) != (want.Data == nil) {
		t.Fatalf("Data presence mismatch: got %v, want %v", got.Data, want.Data)
	}
	if !bytes.Equal(got.Data, want.Data) {
		t.Fatalf("Data = %x, want %x", got.Data, want.Data)
	}
	if len(got.Links) != len(want.Links) {
		t.Fatalf("len(Links) = %d, want %d", len(got.Links), len(want.Links))
	}
	for i := range want.Links {
		g, w := got.Links[i], want.Links[i]
		if !g.Hash.Equals(w.Hash) {
			t.Fatalf("link %d: Hash = %s, want %s", i, g.Hash, w.Hash)
		}
		if (g.Name == nil) != (w.Name == nil) || (g.Name != nil && *g.Name != *w.Name) {
			t.Fatalf("link %d: Name = %v, want %v", i, g.Name, w.Name)
		}
		if (g.Tsize == nil) != (w.Tsize == nil) || (g.Tsize != nil && *g.Tsize != *w.Tsize) {
			t.Fatalf("link %d: Tsize = %v, want %v", i, g.Tsize, w.Tsize)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	cases := map[string]*Node{
		"empty":     {},
		"data only": {Data: []byte("some data")},
		"bare link": {Links: []Link{{Hash: mustLeafCID(t, "leaf-a")}}},
		"full link": {Links: []Link{
			{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("a"), Tsize: i64ptr(6)},
		}},
		"name only": {Links: []Link{
			{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("a")},
		}},
		"tsize only": {Links: []Link{
			{Hash: mustLeafCID(t, "leaf-a"), Tsize: i64ptr(99)},
		}},
		"empty name": {Links: []Link{
			{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("")},
		}},
		"links and data": {
			Data: []byte("payload"),
			Links: []Link{
				{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("a"), Tsize: i64ptr(6)},
				{Hash: mustLeafCID(t, "leaf-b"), Name: strptr("b"), Tsize: i64ptr(6)},
			},
		},
	}

	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			got := mustDecode(t, mustEncode(t, n))
			assertNodesEqual(t, got, n)
		})
	}
}

func TestRoundTrip_NegativeTsize(t *testing.T) {
	n := &Node{Links: []Link{
		{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("neg"), Tsize: i64ptr(-5)},
	}}
	got := mustDecode(t, mustEncode(t, n))
	if got.Links[0].Tsize == nil || *got.Links[0].Tsize != -5 {
		t.Fatalf("Tsize = %v, want -5", got.Links[0].Tsize)
	}
}

func TestEncode_GoldenBytes(t *testing.T) {
	leafA := mustLeafCID(t, "leaf-a")
	leafB := mustLeafCID(t, "leaf-b")

	cases := []struct {
		name string
		node *Node
		hex  string
	}{
		{"empty", &Node{}, ""},
		{"data only", &Node{Data: []byte("some data")}, "0a09736f6d652064617461"},
		{
			"two links and data",
			&Node{
				Data: []byte("payload"),
				Links: []Link{
					{Hash: leafA, Name: strptr("a"), Tsize: i64ptr(6)},
					{Hash: leafB, Name: strptr("b"), Tsize: i64ptr(6)},
				},
			},
			"122b0a2401551220e9845d1809b292abbfa6e93b1fd1e7be6da0065d23af392017eecc0ab4d0ad0f1201611806" +
				"122b0a2401551220b2ff96642b087187598e416db9912019fb27ef02be1d0436fdc1ad7a3b28ae191201621806" +
				"0a077061796c6f6164",
		},
		{
			"negative tsize varint",
			&Node{Links: []Link{{Hash: leafA, Name: strptr("neg"), Tsize: i64ptr(-5)}}},
			"12360a2401551220e9845d1809b292abbfa6e93b1fd1e7be6da0065d23af392017eecc0ab4d0ad0f12036e656718fbffffffffffffffff01",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustEncode(t, tc.node)
			if hex.EncodeToString(got) != tc.hex {
				t.Fatalf("encoded = %x, want %s", got, tc.hex)
			}
		})
	}
}

func TestEncode_LinksPrecedeData(t *testing.T) {
	n := &Node{
		Data:  []byte("d"),
		Links: []Link{{Hash: mustLeafCID(t, "leaf-a")}},
	}
	b := mustEncode(t, n)
	// First wire tag must be field 2 (links), length-delimited: 0x12.
	if b[0] != 0x12 {
		t.Fatalf("first tag = %#x, want 0x12 (links before data)", b[0])
	}
}

func TestEncode_UnsortedFailsWithoutOutput(t *testing.T) {
	b, err := Encode(&Node{Links: []Link{
		namedLink(t, "b", "leaf-b"),
		namedLink(t, "a", "leaf-a"),
	}})
	if !IsFormError(err) {
		t.Fatalf("err = %v, want form error", err)
	}
	if b != nil {
		t.Fatalf("Encode returned partial output on failure: %x", b)
	}
}

func TestEncode_AbsentFieldsNotEmitted(t *testing.T) {
	// A bare link emits only the Hash field.
	id := mustLeafCID(t, "leaf-a")
	b := mustEncode(t, &Node{Links: []Link{{Hash: id}}})

	want := []byte{0x12, byte(2 + len(id.Bytes())), 0x0a, byte(len(id.Bytes()))}
	want = append(want, id.Bytes()...)
	if !bytes.Equal(b, want) {
		t.Fatalf("encoded = %x, want %x", b, want)
	}
}

func TestEncode_AbsentDataOmitted(t *testing.T) {
	b := mustEncode(t, &Node{})
	if len(b) != 0 {
		t.Fatalf("empty node encoded to %x, want no bytes", b)
	}
}
