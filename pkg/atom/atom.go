package atom

import (
	"cmp"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

// Atom is a single table cell: a column type and a row index fixed at
// construction, and a content string that may change.
type Atom struct {
	typ        *AtomType
	index      int64
	content    string
	hasContent bool
}

// Key identifies an atom's cell position. Keys are comparable and can be
// used as map keys.
type Key struct {
	TypeName string
	Index    int64
}

// NewAtom creates an atom without content. The first row of a table has
// index 0; negative indexes are accepted.
func NewAtom(t *AtomType, index int64) (*Atom, error) {
	if t == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom type is required").
			WithDetail("index", index)
	}
	return &Atom{typ: t, index: index}, nil
}

// NewAtomWithContent creates an atom and sets its initial content
func NewAtomWithContent(t *AtomType, index int64, content string) (*Atom, error) {
	a, err := NewAtom(t, index)
	if err != nil {
		return nil, err
	}
	a.SetContent(content)
	return a, nil
}

// Type returns the atom's shared type
func (a *Atom) Type() *AtomType {
	return a.typ
}

// Index returns the atom's row index
func (a *Atom) Index() int64 {
	return a.index
}

// Key returns the atom's (type name, index) position
func (a *Atom) Key() Key {
	k := Key{Index: a.index}
	if a.typ != nil {
		k.TypeName = a.typ.name
	}
	return k
}

// Content returns the content and whether any is set
func (a *Atom) Content() (string, bool) {
	return a.content, a.hasContent
}

// HasContent reports whether content is set
func (a *Atom) HasContent() bool {
	return a.hasContent
}

// SetContent replaces the content. The previous value is lost.
func (a *Atom) SetContent(content string) {
	a.content = content
	a.hasContent = true
}

// ClearContent removes the content. The previous value is lost.
func (a *Atom) ClearContent() {
	a.content = ""
	a.hasContent = false
}

// Equal reports whether other has an equal type, the same index and the same
// content. Atoms without content are never equal to anything, including
// another atom without content.
func (a *Atom) Equal(other *Atom) bool {
	if a == nil || other == nil {
		return false
	}
	if !a.typ.Equal(other.typ) || a.index != other.index {
		return false
	}
	if !a.hasContent || !other.hasContent {
		return false
	}
	return a.content == other.content
}

// Compare orders atoms by index, then type, then content. Content is only
// compared when both atoms have some; otherwise the contents tie. It returns
// 0 when other is nil.
func (a *Atom) Compare(other *Atom) int {
	c, _ := a.Ordered(other)
	return c
}

// Ordered is Compare with an explicit comparability flag: ok is false when
// either side is nil, or when index and type tie and only one side has
// content.
func (a *Atom) Ordered(other *Atom) (c int, ok bool) {
	if a == nil || other == nil {
		return 0, false
	}
	if byIndex := cmp.Compare(a.index, other.index); byIndex != 0 {
		return byIndex, true
	}
	if byType := a.typ.Compare(other.typ); byType != 0 {
		return byType, true
	}
	if a.hasContent && other.hasContent {
		return strings.Compare(a.content, other.content), true
	}
	return 0, a.hasContent == other.hasContent
}

// String returns
// `ATOM (Index = <index>, Type = <type>, Content = <"content" or null>)`
func (a *Atom) String() string {
	return formatAtom(a)
}

// MarshalLogObject lets atoms be logged with zap.Object
func (a *Atom) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("index", a.index)
	if a.typ != nil {
		enc.AddString("type", a.typ.name)
	}
	if a.hasContent {
		enc.AddString("content", a.content)
	}
	return nil
}
