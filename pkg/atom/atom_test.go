package atom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

func mustAtom(t *testing.T, typ *AtomType, index int64, content ...string) *Atom {
	t.Helper()
	a, err := NewAtom(typ, index)
	require.NoError(t, err)
	if len(content) > 0 {
		a.SetContent(content[0])
	}
	return a
}

func TestNewAtomRequiresType(t *testing.T) {
	a, err := NewAtom(nil, 3)

	assert.Nil(t, a)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestNewAtomAccessors(t *testing.T) {
	typ := NewAtomType("Name")
	a := mustAtom(t, typ, -7)

	assert.Same(t, typ, a.Type())
	assert.Equal(t, int64(-7), a.Index())
	assert.Equal(t, Key{TypeName: "Name", Index: -7}, a.Key())

	content, ok := a.Content()
	assert.False(t, ok)
	assert.Empty(t, content)
	assert.False(t, a.HasContent())
}

func TestAtomsShareType(t *testing.T) {
	typ := NewAtomType("Name")
	first := mustAtom(t, typ, 0)
	second := mustAtom(t, typ, 1)

	assert.Same(t, first.Type(), second.Type())
}

func TestContentLifecycle(t *testing.T) {
	a := mustAtom(t, NewAtomType("Email"), 0)

	a.SetContent("a@example.com")
	content, ok := a.Content()
	assert.True(t, ok)
	assert.Equal(t, "a@example.com", content)

	a.SetContent("")
	content, ok = a.Content()
	assert.True(t, ok, "empty content is still content")
	assert.Empty(t, content)

	a.SetContent("b@example.com")
	a.ClearContent()
	content, ok = a.Content()
	assert.False(t, ok)
	assert.Empty(t, content, "cleared content leaves nothing behind")
}

func TestAtomEqual(t *testing.T) {
	name, other := NewAtomType("Name"), NewAtomType("Other")

	tests := []struct {
		desc string
		x, y *Atom
		want bool
	}{
		{"same content", mustAtom(t, name, 1, "hi"), mustAtom(t, NewAtomType("Name"), 1, "hi"), true},
		{"different content", mustAtom(t, name, 1, "hi"), mustAtom(t, name, 1, "ho"), false},
		{"empty contents", mustAtom(t, name, 1, ""), mustAtom(t, name, 1, ""), true},
		{"different index", mustAtom(t, name, 1, "hi"), mustAtom(t, name, 2, "hi"), false},
		{"different type", mustAtom(t, name, 1, "hi"), mustAtom(t, other, 1, "hi"), false},
		{"both absent", mustAtom(t, name, 1), mustAtom(t, name, 1), false},
		{"left absent", mustAtom(t, name, 1), mustAtom(t, name, 1, "hi"), false},
		{"right absent", mustAtom(t, name, 1, "hi"), mustAtom(t, name, 1), false},
		{"nil other", mustAtom(t, name, 1, "hi"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.x.Equal(tt.y))
		})
	}
}

func TestAtomWithoutContentIsNotEqualToItself(t *testing.T) {
	a := mustAtom(t, NewAtomType("Name"), 0)
	assert.False(t, a.Equal(a))

	a.SetContent("x")
	assert.True(t, a.Equal(a))
}

func TestAtomCompare(t *testing.T) {
	name, other := NewAtomType("Name"), NewAtomType("Other")

	tests := []struct {
		desc string
		x, y *Atom
		want int
	}{
		{"lower index", mustAtom(t, other, 1, "z"), mustAtom(t, name, 2, "a"), -1},
		{"higher index", mustAtom(t, name, 5), mustAtom(t, name, -5), 1},
		{"type breaks tie", mustAtom(t, name, 1, "z"), mustAtom(t, other, 1, "a"), -1},
		{"content breaks tie", mustAtom(t, name, 1, "a"), mustAtom(t, name, 1, "b"), -1},
		{"equal content", mustAtom(t, name, 1, "a"), mustAtom(t, name, 1, "a"), 0},
		{"both absent", mustAtom(t, name, 1), mustAtom(t, name, 1), 0},
		{"left absent ties", mustAtom(t, name, 1), mustAtom(t, name, 1, "a"), 0},
		{"right absent ties", mustAtom(t, name, 1, "a"), mustAtom(t, name, 1), 0},
		{"nil other", mustAtom(t, name, 1, "a"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.x.Compare(tt.y))
		})
	}
}

func TestAtomCompareAntisymmetricOnIndex(t *testing.T) {
	typ := NewAtomType("Name")
	for _, pair := range [][2]int64{{0, 1}, {-3, 3}, {41, 42}, {-100, -99}} {
		a := mustAtom(t, typ, pair[0], "same")
		b := mustAtom(t, typ, pair[1], "same")

		assert.Negative(t, a.Compare(b))
		assert.Positive(t, b.Compare(a))
	}
}

func TestAtomCompareExtremeIndexes(t *testing.T) {
	name := NewAtomType("name")
	low := mustAtom(t, name, math.MinInt64, "x")
	high := mustAtom(t, name, math.MaxInt64, "x")
	one := mustAtom(t, name, 1, "x")

	assert.Negative(t, low.Compare(high))
	assert.Positive(t, high.Compare(low))
	assert.Negative(t, low.Compare(one))
	assert.Positive(t, one.Compare(low))
}

func TestAtomOrdered(t *testing.T) {
	a := mustAtom(t, NewAtomType("Name"), 1, "x")

	_, ok := a.Ordered(nil)
	assert.False(t, ok)

	c, ok := a.Ordered(mustAtom(t, NewAtomType("Name"), 1))
	assert.False(t, ok, "content presence mismatch is incomparable")
	assert.Zero(t, c)
	assert.Zero(t, a.Compare(mustAtom(t, NewAtomType("Name"), 1)), "Compare still ties")

	c, ok = mustAtom(t, NewAtomType("Name"), 1).Ordered(mustAtom(t, NewAtomType("Name"), 1))
	assert.True(t, ok, "both absent is a tie")
	assert.Zero(t, c)

	c, ok = a.Ordered(mustAtom(t, NewAtomType("Name"), 1, "y"))
	assert.True(t, ok)
	assert.Negative(t, c)

	c, ok = a.Ordered(mustAtom(t, NewAtomType("Name"), 0))
	assert.True(t, ok, "index decides before content")
	assert.Positive(t, c)
}

func TestAtomString(t *testing.T) {
	a := mustAtom(t, NewAtomType("Name"), 3, "hi")
	assert.Equal(t, `ATOM (Index = 3, Type = AtomType (Name = "Name"), Content = "hi")`, a.String())

	a.ClearContent()
	assert.Equal(t, `ATOM (Index = 3, Type = AtomType (Name = "Name"), Content = null)`, a.String())

	a.SetContent("null")
	assert.Equal(t, `ATOM (Index = 3, Type = AtomType (Name = "Name"), Content = "null")`, a.String())
}

func TestAtomMarshalLogObject(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	log.Info("redacted", zap.Object("atom", mustAtom(t, NewAtomType("Email"), 4, "x")))
	log.Info("cleared", zap.Object("atom", mustAtom(t, NewAtomType("Email"), 5)))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{
		"index":   int64(4),
		"type":    "Email",
		"content": "x",
	}, entries[0].ContextMap()["atom"])
	assert.NotContains(t, entries[1].ContextMap()["atom"], "content")
}
