package dagpb

import (
	"bytes"
	"testing"
)

func TestPrepare_BytesInput(t *testing.T) {
	n, err := Prepare([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !bytes.Equal(n.Data, []byte{1, 2, 3}) {
		t.Fatalf("Data = %x, want 010203", n.Data)
	}
	if n.Links == nil || len(n.Links) != 0 {
		t.Fatalf("Links = %v, want empty non-nil", n.Links)
	}
	if err := Validate(n); err != nil {
		t.Fatalf("Validate(prepared): %v", err)
	}
}

func TestPrepare_StringInput(t *testing.T) {
	n, err := Prepare("hello")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if string(n.Data) != "hello" {
		t.Fatalf("Data = %q, want %q", n.Data, "hello")
	}
}

func TestPrepare_EmptyDataIsAbsent(t *testing.T) {
	n, err := Prepare(make([]byte, 0))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if n.Data != nil {
		t.Fatalf("Data = %v, want absent (nil)", n.Data)
	}

	n, err = Prepare(map[string]interface{}{"Data": ""})
	if err != nil {
		t.Fatalf("Prepare(map): %v", err)
	}
	if n.Data != nil {
		t.Fatalf("Data from empty string = %v, want absent", n.Data)
	}
}

func TestPrepare_SortsLinks(t *testing.T) {
	in := &Node{Links: []Link{
		namedLink(t, "b", "leaf-b"),
		namedLink(t, "a", "leaf-a"),
	}}
	n, err := Prepare(in)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if *n.Links[0].Name != "a" || *n.Links[1].Name != "b" {
		t.Fatalf("links not sorted: %q, %q", *n.Links[0].Name, *n.Links[1].Name)
	}
	// Input was not mutated.
	if *in.Links[0].Name != "b" {
		t.Fatalf("Prepare mutated its input")
	}
	if err := Validate(n); err != nil {
		t.Fatalf("Validate(prepared): %v", err)
	}
}

func TestPrepare_PrefixRuleViaSorting(t *testing.T) {
	n, err := Prepare(&Node{Links: []Link{
		namedLink(t, "ab", "leaf-b"),
		namedLink(t, "a", "leaf-a"),
	}})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if *n.Links[0].Name != "a" || *n.Links[1].Name != "ab" {
		t.Fatalf(`order = %q,%q, want "a","ab"`, *n.Links[0].Name, *n.Links[1].Name)
	}
}

func TestPrepare_HashSupplyForms(t *testing.T) {
	id := mustLeafCID(t, "leaf-a")

	forms := []interface{}{
		id,          // realized CID
		id.String(), // text
		id.Bytes(),  // raw bytes
	}
	for _, form := range forms {
		n, err := Prepare(map[string]interface{}{
			"Links": []interface{}{map[string]interface{}{"Hash": form}},
		})
		if err != nil {
			t.Fatalf("Prepare(Hash=%T): %v", form, err)
		}
		if !n.Links[0].Hash.Equals(id) {
			t.Fatalf("Hash from %T = %s, want %s", form, n.Links[0].Hash, id)
		}
	}
}

func TestPrepare_BareCIDLinkShorthand(t *testing.T) {
	id := mustLeafCID(t, "leaf-a")
	n, err := Prepare(map[string]interface{}{
		"Links": []interface{}{id},
	})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(n.Links) != 1 || !n.Links[0].Hash.Equals(id) {
		t.Fatalf("unexpected links: %v", n.Links)
	}
	if n.Links[0].Name != nil || n.Links[0].Tsize != nil {
		t.Fatalf("shorthand link should carry Hash only")
	}
}

func TestPrepare_InvalidHashTextFails(t *testing.T) {
	_, err := Prepare(map[string]interface{}{
		"Links": []interface{}{map[string]interface{}{"Hash": "not-a-cid"}},
	})
	if !IsFormError(err) {
		t.Fatalf("err = %v, want form error", err)
	}
	if RuleID(err) != "DAGPB-FORM-009" {
		t.Fatalf("RuleID = %q, want DAGPB-FORM-009", RuleID(err))
	}
}

func TestPrepare_InvalidHashFormFails(t *testing.T) {
	_, err := Prepare(map[string]interface{}{
		"Links": []interface{}{map[string]interface{}{"Hash": 42}},
	})
	if !IsFormError(err) {
		t.Fatalf("err = %v, want form error", err)
	}
}

func TestPrepare_NameKeptOnlyIfString(t *testing.T) {
	id := mustLeafCID(t, "leaf-a")
	n, err := Prepare(map[string]interface{}{
		"Links": []interface{}{map[string]interface{}{"Hash": id, "Name": 7}},
	})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if n.Links[0].Name != nil {
		t.Fatalf("non-string Name should be dropped, got %q", *n.Links[0].Name)
	}
}

func TestPrepare_TsizeNumericForms(t *testing.T) {
	id := mustLeafCID(t, "leaf-a")

	n, err := Prepare(map[string]interface{}{
		"Links": []interface{}{map[string]interface{}{"Hash": id, "Tsize": float64(7)}},
	})
	if err != nil {
		t.Fatalf("Prepare(float64): %v", err)
	}
	if n.Links[0].Tsize == nil || *n.Links[0].Tsize != 7 {
		t.Fatalf("Tsize = %v, want 7", n.Links[0].Tsize)
	}

	// Non-numeric is dropped, not rejected.
	n, err = Prepare(map[string]interface{}{
		"Links": []interface{}{map[string]interface{}{"Hash": id, "Tsize": "7"}},
	})
	if err != nil {
		t.Fatalf("Prepare(string Tsize): %v", err)
	}
	if n.Links[0].Tsize != nil {
		t.Fatalf("string Tsize should be dropped")
	}

	// Fractional cannot be coerced losslessly.
	_, err = Prepare(map[string]interface{}{
		"Links": []interface{}{map[string]interface{}{"Hash": id, "Tsize": 7.5}},
	})
	if !IsFormError(err) {
		t.Fatalf("fractional Tsize: err = %v, want form error", err)
	}
}

func TestPrepare_UnsupportedInput(t *testing.T) {
	_, err := Prepare(42)
	if !IsFormError(err) {
		t.Fatalf("err = %v, want form error", err)
	}
	if RuleID(err) != "DAGPB-FORM-013" {
		t.Fatalf("RuleID = %q, want DAGPB-FORM-013", RuleID(err))
	}
}
