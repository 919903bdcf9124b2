package group

import "strings"

// Element is an oriented generator symbol: a generator or its formal inverse.
//
// Elements are small immutable values and are passed and stored by value.
type Element struct {
	Name     string `json:"name"`
	Reversed bool   `json:"reversed,omitempty"`
}

// Gen returns the generator named name.
func Gen(name string) Element { return Element{Name: name} }

// Inv returns the formal inverse of the generator named name.
func Inv(name string) Element { return Element{Name: name, Reversed: true} }

// Equal reports whether e and o have the same name and orientation.
func (e Element) Equal(o Element) bool {
	return e.Name == o.Name && e.Reversed == o.Reversed
}

// IsOpposite reports whether e and o cancel: same name, different orientation.
func (e Element) IsOpposite(o Element) bool {
	return e.Name == o.Name && e.Reversed != o.Reversed
}

// Inverse returns e with its orientation flipped.
func (e Element) Inverse() Element {
	return Element{Name: e.Name, Reversed: !e.Reversed}
}

// Token returns the matching token for e: the name, suffixed with "!" when reversed.
// Tokens of distinct elements never collide since "!" is not a valid name rune.
func (e Element) Token() string {
	if e.Reversed {
		return e.Name + "!"
	}
	return e.Name
}

// String returns the display form used by circuit export, e.g. "a" or "a^(-1)".
func (e Element) String() string {
	if e.Reversed {
		return e.Name + "^(-1)"
	}
	return e.Name
}

// Compare orders elements by name, then forward before reversed.
func (e Element) Compare(o Element) int {
	if c := strings.Compare(e.Name, o.Name); c != 0 {
		return c
	}
	switch {
	case e.Reversed == o.Reversed:
		return 0
	case !e.Reversed:
		return -1
	default:
		return 1
	}
}
