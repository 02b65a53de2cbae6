package dagpb

import (
	"bytes"
	"testing"
)

// Determinism is the entire point of a canonical codec: every route to the
// same logical node must produce identical bytes.

func TestDeterminism_RepeatedEncode(t *testing.T) {
	n := &Node{
		Data: []byte("payload"),
		Links: []Link{
			{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("a"), Tsize: i64ptr(6)},
			{Hash: mustLeafCID(t, "leaf-b"), Name: strptr("b"), Tsize: i64ptr(6)},
		},
	}
	first := mustEncode(t, n)
	for i := 0; i < 10; i++ {
		if !bytes.Equal(mustEncode(t, n), first) {
			t.Fatalf("encode %d diverged", i)
		}
	}
}

func TestDeterminism_InputFormsConverge(t *testing.T) {
	idA := mustLeafCID(t, "leaf-a")
	idB := mustLeafCID(t, "leaf-b")

	typed := &Node{
		Data: []byte("payload"),
		Links: []Link{
			{Hash: idB, Name: strptr("b"), Tsize: i64ptr(6)},
			{Hash: idA, Name: strptr("a"), Tsize: i64ptr(6)},
		},
	}
	dynamic := map[string]interface{}{
		"Data": "payload",
		"Links": []interface{}{
			map[string]interface{}{"Hash": idB.String(), "Name": "b", "Tsize": float64(6)},
			map[string]interface{}{"Hash": idA.Bytes(), "Name": "a", "Tsize": 6},
		},
	}

	n1, err := Prepare(typed)
	if err != nil {
		t.Fatalf("Prepare(typed): %v", err)
	}
	n2, err := Prepare(dynamic)
	if err != nil {
		t.Fatalf("Prepare(dynamic): %v", err)
	}

	b1 := mustEncode(t, n1)
	b2 := mustEncode(t, n2)
	if !bytes.Equal(b1, b2) {
		t.Fatalf("encodings diverged:\n%x\n%x", b1, b2)
	}
}

func TestDeterminism_DecodeEncodeIdentity(t *testing.T) {
	n := &Node{
		Data: []byte("payload"),
		Links: []Link{
			{Hash: mustLeafCID(t, "leaf-a"), Name: strptr("a"), Tsize: i64ptr(6)},
		},
	}
	wire := mustEncode(t, n)
	again := mustEncode(t, mustDecode(t, wire))
	if !bytes.Equal(wire, again) {
		t.Fatalf("decode/encode not an identity:\n%x\n%x", wire, again)
	}
}
