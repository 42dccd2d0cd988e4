package wordpiece

// ID is the set of numeric representations a segmentation can emit. uint64 is
// the canonical form; the signed and floating variants exist for downstream
// tensor consumers. Conversion to and from the canonical form is a plain Go
// conversion for every member, so the segmentation algorithm is written once
// and specialized at compile time per representation.
type ID interface {
	~uint64 | ~int64 | ~int32 | ~float64
}

// Attention returns the representation's zero for a zero id (padding) and its
// one for everything else.
func Attention[T, U ID](id T) U {
	if id == T(0) {
		return U(0)
	}

	return U(1)
}

// AttentionsInto clears out and appends one attention value per input id,
// preserving order and length.
func AttentionsInto[T, U ID](ids []T, out *[]U) {
	*out = (*out)[:0]
	for _, id := range ids {
		*out = append(*out, Attention[T, U](id))
	}
}
