package skill

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted-numeric version strings segment by
// segment: missing segments are treated as 0, and a non-numeric segment is
// also treated as 0. Returns -1, 0, or 1.
func CompareVersions(a, b string) int {
	as := splitSegments(a)
	bs := splitSegments(b)
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func splitSegments(v string) []int {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}
