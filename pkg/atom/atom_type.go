package atom

import (
	"strings"
)

// AtomType is the immutable name of a column. Atoms hold a shared pointer to
// their type and never copy or own it.
type AtomType struct {
	name string
}

// NewAtomType creates a type with the given name. Names are not validated;
// the empty name is a valid name.
func NewAtomType(name string) *AtomType {
	return &AtomType{name: name}
}

// Name returns the type's name
func (t *AtomType) Name() string {
	return t.name
}

// Equal reports whether other has the same name. It is false when either
// side is nil.
func (t *AtomType) Equal(other *AtomType) bool {
	if t == nil || other == nil {
		return false
	}
	return t.name == other.name
}

// Compare orders types by name, byte-wise. It returns 0 when other is nil,
// which is indistinguishable from a tie.
func (t *AtomType) Compare(other *AtomType) int {
	c, _ := t.Ordered(other)
	return c
}

// Ordered is Compare with an explicit comparability flag: ok is false when
// either side is nil.
func (t *AtomType) Ordered(other *AtomType) (c int, ok bool) {
	if t == nil || other == nil {
		return 0, false
	}
	return strings.Compare(t.name, other.name), true
}

// String returns `AtomType (Name = "<name>")`
func (t *AtomType) String() string {
	if t == nil {
		return nullContent
	}
	return formatAtomType(t.name)
}
