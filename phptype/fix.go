package phptype

import "sort"

// Fix is a single style correction recorded during parsing: replace
// the Len bytes starting at Pos (byte offsets into the original
// source) with Replacement.
type Fix struct {
	Pos         int
	Len         int
	Replacement string
}

// ApplyFixes applies fixes to src right-to-left so that earlier
// offsets stay valid as later replacements change the string's
// length. Overlapping fixes are not expected and are applied in the
// order given after sorting.
func ApplyFixes(src string, fixes []Fix) string {
	if len(fixes) == 0 {
		return src
	}
	sorted := append([]Fix(nil), fixes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos > sorted[j].Pos })

	out := src
	for _, f := range sorted {
		out = out[:f.Pos] + f.Replacement + out[f.Pos+f.Len:]
	}
	return out
}
