// Package skipping implements the data-skipping filter, §4.F: building
// a conservative min/max/null-count predicate rewrite from the scan
// predicate and evaluating it against each add's raw stats JSON.
package skipping

// SelectionVector is a bit sequence aligned with a batch's rows; true
// means "include this row", §3.
type SelectionVector []bool

// NewAllTrue returns a selection vector of length n with every bit set,
// the "filter absent" case of §4.F.
func NewAllTrue(n int) SelectionVector {
	sv := make(SelectionVector, n)
	for i := range sv {
		sv[i] = true
	}
	return sv
}

// And refines sv in place by ANDing it with other; bits of sv past the
// end of other are cleared. The log-replay scanner does not use it: the
// dedup visitor refines the skipping filter's selection in place.
func (sv SelectionVector) And(other SelectionVector) {
	for i := range sv {
		if i >= len(other) || !other[i] {
			sv[i] = false
		}
	}
}

// AnySelected reports whether any bit is true, used by the scan-action
// iterator (§4.H) to drop batches that carry no information.
func (sv SelectionVector) AnySelected() bool {
	for _, b := range sv {
		if b {
			return true
		}
	}
	return false
}
