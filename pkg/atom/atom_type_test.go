package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomTypeName(t *testing.T) {
	for _, name := range []string{"", "Name", "first name", "名前"} {
		assert.Equal(t, name, NewAtomType(name).Name())
	}
}

func TestAtomTypeEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Name", "Name", true},
		{"Name", "name", false},
		{"", "", true},
		{"a", "b", false},
	}

	for _, tt := range tests {
		a, b := NewAtomType(tt.a), NewAtomType(tt.b)
		assert.Equal(t, tt.want, a.Equal(b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, a.Name() == b.Name(), a.Equal(b))
	}

	assert.False(t, NewAtomType("Name").Equal(nil))
	var nilType *AtomType
	assert.False(t, nilType.Equal(NewAtomType("Name")))
}

func TestAtomTypeCompare(t *testing.T) {
	a, b := NewAtomType("alpha"), NewAtomType("beta")

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(NewAtomType("alpha")))
}

func TestAtomTypeCompareNilIsZero(t *testing.T) {
	a := NewAtomType("alpha")

	// Zero does not mean equal here.
	assert.Zero(t, a.Compare(nil))
	assert.False(t, a.Equal(nil))

	c, ok := a.Ordered(nil)
	assert.Zero(t, c)
	assert.False(t, ok)

	c, ok = a.Ordered(NewAtomType("alpha"))
	assert.Zero(t, c)
	assert.True(t, ok)
}

func TestAtomTypeString(t *testing.T) {
	assert.Equal(t, `AtomType (Name = "Name")`, NewAtomType("Name").String())
	assert.Equal(t, `AtomType (Name = "")`, NewAtomType("").String())
}
