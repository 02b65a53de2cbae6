package dagpb

import (
	"fmt"
	"math"
	"sort"

	"github.com/ipfs/go-cid"
)

// Validate is the strict conformance gate for the dag-pb schema. It is the
// single check Encode passes through; Prepare output is still subject to it.
//
// Validate accepts either the static record types (*Node / Node) or a
// dynamically-typed value (map[string]interface{}, e.g. parsed from an
// untyped external representation) that has not yet been coerced into them.
// The dynamic path reproduces the closed-schema checks the static types make
// unrepresentable: extraneous fields, mistyped fields, and a Hash supplied
// as text or raw bytes instead of a realized CID.
//
// Checks run in a fixed order and stop at the first violation. Validate
// never mutates its input and holds no state.
func Validate(v interface{}) error {
	switch n := v.(type) {
	case *Node:
		if n == nil {
			return newError(KindForm, "DAGPB-FORM-001", "node must be a record, got nil")
		}
		return validateNode(n)
	case Node:
		return validateNode(&n)
	case map[string]interface{}:
		return validateMap(n)
	default:
		return newError(KindForm, "DAGPB-FORM-001",
			fmt.Sprintf("node must be a record, got %T", v))
	}
}

// validateNode covers the invariants the static types cannot enforce:
// every link carries a realized Hash, and links are in canonical order.
// The closed schema and field types hold by construction.
func validateNode(n *Node) error {
	for i := range n.Links {
		if !n.Links[i].Hash.Defined() {
			return newError(KindForm, "DAGPB-FORM-007",
				fmt.Sprintf("link %d: missing required Hash", i))
		}
		if i > 0 && CompareLinks(n.Links[i], n.Links[i-1]) == -1 {
			return newError(KindForm, "DAGPB-FORM-012",
				fmt.Sprintf("link %d: links must be sorted by Name bytes", i))
		}
	}
	return nil
}

func validateMap(m map[string]interface{}) error {
	// Key order of Go maps is randomized; sort so the first reported
	// extraneous field is deterministic.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "Data" && k != "Links" {
			return newError(KindForm, "DAGPB-FORM-002",
				fmt.Sprintf("extraneous node field %q", k))
		}
	}

	if d, ok := m["Data"]; ok {
		if _, isBytes := d.([]byte); !isBytes {
			return newError(KindForm, "DAGPB-FORM-003",
				fmt.Sprintf("Data must be a byte sequence, got %T", d))
		}
	}

	lv, ok := m["Links"]
	if !ok {
		return newError(KindForm, "DAGPB-FORM-004", "Links must be present, even if empty")
	}
	entries, ok := lv.([]interface{})
	if !ok {
		return newError(KindForm, "DAGPB-FORM-004",
			fmt.Sprintf("Links must be a sequence, got %T", lv))
	}

	prevName := ""
	for i, entry := range entries {
		name, err := validateMapLink(i, entry)
		if err != nil {
			return err
		}
		if i > 0 && CompareLinks(Link{Name: &name}, Link{Name: &prevName}) == -1 {
			return newError(KindForm, "DAGPB-FORM-012",
				fmt.Sprintf("link %d: links must be sorted by Name bytes", i))
		}
		prevName = name
	}
	return nil
}

// validateMapLink checks one dynamically-typed link and returns its
// effective name (empty when absent) for the ordering check.
func validateMapLink(i int, entry interface{}) (string, error) {
	lm, ok := entry.(map[string]interface{})
	if !ok {
		return "", newError(KindForm, "DAGPB-FORM-005",
			fmt.Sprintf("link %d: must be a record, got %T", i, entry))
	}

	keys := make([]string, 0, len(lm))
	for k := range lm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "Hash" && k != "Name" && k != "Tsize" {
			return "", newError(KindForm, "DAGPB-FORM-006",
				fmt.Sprintf("link %d: extraneous field %q", i, k))
		}
	}

	hv, ok := lm["Hash"]
	if !ok {
		return "", newError(KindForm, "DAGPB-FORM-007",
			fmt.Sprintf("link %d: missing required Hash", i))
	}
	// Stricter than Prepare: only an already-realized CID passes here.
	// Text and raw bytes are accepted by Prepare, never by Validate.
	h, ok := hv.(cid.Cid)
	if !ok || !h.Defined() {
		return "", newError(KindForm, "DAGPB-FORM-008",
			fmt.Sprintf("link %d: Hash must be a realized CID, got %T", i, hv))
	}

	name := ""
	if nv, present := lm["Name"]; present {
		s, isString := nv.(string)
		if !isString {
			return "", newError(KindForm, "DAGPB-FORM-010",
				fmt.Sprintf("link %d: Name must be a string, got %T", i, nv))
		}
		name = s
	}

	if tv, present := lm["Tsize"]; present {
		if _, ok := asInt64(tv); !ok {
			return "", newError(KindForm, "DAGPB-FORM-011",
				fmt.Sprintf("link %d: Tsize must be an integer, got %v (%T)", i, tv, tv))
		}
	}

	return name, nil
}

// asInt64 reports whether v is a mathematical integer and returns it.
// Integer-valued floats are accepted (untyped external representations
// surface all numbers as float64); fractional values are not.
func asInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float32:
		return asInt64(float64(t))
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, false
		}
		if t < math.MinInt64 || t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	default:
		return 0, false
	}
}
