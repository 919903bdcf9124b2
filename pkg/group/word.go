package group

import (
	"slices"
	"strings"
)

// Word is an ordered sequence of elements read left to right. A Word is one
// relator of a presentation or one accumulated boundary path.
type Word []Element

// String joins the elements with "*", the format written by circuit export
// and accepted by [ParseWord].
func (w Word) String() string {
	parts := make([]string, len(w))
	for i, e := range w {
		parts[i] = e.String()
	}
	return strings.Join(parts, "*")
}

// Tokens returns the matching token of every element.
func (w Word) Tokens() []string {
	out := make([]string, len(w))
	for i, e := range w {
		out[i] = e.Token()
	}
	return out
}

// Inverse returns the formal inverse of w: reversed order, every element inverted.
func (w Word) Inverse() Word {
	out := make(Word, len(w))
	for i, e := range w {
		out[len(w)-1-i] = e.Inverse()
	}
	return out
}

// Rotate returns the cyclic shift of w starting at position k.
// k is taken modulo len(w); an empty word rotates to itself.
func (w Word) Rotate(k int) Word {
	n := len(w)
	if n == 0 {
		return Word{}
	}
	k = ((k % n) + n) % n
	out := make(Word, 0, n)
	out = append(out, w[k:]...)
	return append(out, w[:k]...)
}

// Equal reports whether w and o contain equal elements in the same order.
func (w Word) Equal(o Word) bool {
	return slices.EqualFunc(w, o, Element.Equal)
}

// Compare orders words lexicographically by element; a proper prefix sorts first.
func (w Word) Compare(o Word) int {
	return slices.CompareFunc(w, o, Element.Compare)
}

// IsSquare reports whether w bounds a square cell (four letters).
func (w Word) IsSquare() bool { return len(w) == 4 }

// Presentation is a parsed group presentation: generator names and relators.
type Presentation struct {
	Generators []string `json:"generators"`
	Relators   []Word   `json:"relators"`
}
