package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	stringpool "github.com/ajitpratap0/nebula-atom/pkg/strings"
)

// Long layout column names
const (
	IndexField   = "index"
	TypeField    = "type"
	ContentField = "content"
)

// AtomSchema is the Arrow schema of the long layout
var AtomSchema = arrow.NewSchema([]arrow.Field{
	{Name: IndexField, Type: arrow.PrimitiveTypes.Int64},
	{Name: TypeField, Type: arrow.BinaryTypes.String},
	{Name: ContentField, Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// AtomBuilder accumulates atoms into long layout records
type AtomBuilder struct {
	builder *array.RecordBuilder
	index   *array.Int64Builder
	types   *array.StringBuilder
	content *array.StringBuilder
	rows    int
}

// NewAtomBuilder creates a builder allocating from mem
func NewAtomBuilder(mem memory.Allocator) *AtomBuilder {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	rb := array.NewRecordBuilder(mem, AtomSchema)
	return &AtomBuilder{
		builder: rb,
		index:   rb.Field(0).(*array.Int64Builder),
		types:   rb.Field(1).(*array.StringBuilder),
		content: rb.Field(2).(*array.StringBuilder),
	}
}

// Append adds one atom as a row
func (b *AtomBuilder) Append(a *atom.Atom) error {
	if a == nil || a.Type() == nil {
		return errors.New(errors.ErrorTypeInvalidArgument, "atom with a type is required")
	}

	b.index.Append(a.Index())
	b.types.Append(a.Type().Name())
	if content, ok := a.Content(); ok {
		b.content.Append(content)
	} else {
		b.content.AppendNull()
	}
	b.rows++
	return nil
}

// Len returns the number of rows appended since the last NewRecord
func (b *AtomBuilder) Len() int {
	return b.rows
}

// NewRecord returns the appended rows as a record and resets the builder.
// The caller must Release the record.
func (b *AtomBuilder) NewRecord() arrow.Record {
	b.rows = 0
	return b.builder.NewRecord()
}

// Release frees the builder's buffers
func (b *AtomBuilder) Release() {
	b.builder.Release()
}

// AtomsFromRecord decodes a long layout record. Types are interned through
// registry; a nil registry interns into a fresh one. Strings are copied out
// of the record so the atoms outlive it.
func AtomsFromRecord(rec arrow.Record, registry *atom.TypeRegistry) ([]*atom.Atom, error) {
	if !rec.Schema().Equal(AtomSchema) {
		return nil, errors.New(errors.ErrorTypeData, "record does not use the atom schema").
			WithDetail("schema", rec.Schema().String())
	}
	if registry == nil {
		registry = atom.NewTypeRegistry(nil)
	}

	index := rec.Column(0).(*array.Int64)
	types := rec.Column(1).(*array.String)
	content := rec.Column(2).(*array.String)

	atoms := make([]*atom.Atom, 0, rec.NumRows())
	for i := 0; i < int(rec.NumRows()); i++ {
		if index.IsNull(i) || types.IsNull(i) {
			return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom row is missing its index or type").
				WithDetail("row", i)
		}

		a, err := atom.NewAtom(registry.Intern(stringpool.Clone(types.Value(i))), index.Value(i))
		if err != nil {
			return nil, err
		}
		if !content.IsNull(i) {
			a.SetContent(stringpool.Clone(content.Value(i)))
		}
		atoms = append(atoms, a)
	}
	return atoms, nil
}
