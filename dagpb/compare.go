package dagpb

import "sort"

// CompareLinks is the canonical total order over links: byte-wise
// lexicographic comparison of the UTF-8 bytes of Name, with an absent name
// treated as the empty string. It returns -1, 0 or +1.
//
// The comparison is over raw bytes, never codepoints or collation tables, so
// the order is reproducible across implementations regardless of locale.
// A shorter name sorts before any longer name it is a prefix of. Equal names
// compare equal; there is no tie-breaking on Hash or Tsize.
func CompareLinks(a, b Link) int {
	x, y := linkName(a), linkName(b)
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return 0
}

func linkName(l Link) string {
	if l.Name == nil {
		return ""
	}
	return *l.Name
}

// sortLinks establishes canonical order in place. The sort is stable so that
// equal-key links keep their relative order, which keeps Prepare
// deterministic for a given input.
func sortLinks(links []Link) {
	sort.SliceStable(links, func(i, j int) bool {
		return CompareLinks(links[i], links[j]) == -1
	})
}
