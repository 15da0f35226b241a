package columnar

import (
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	stringpool "github.com/ajitpratap0/nebula-atom/pkg/strings"
)

// RowIndexField names the row index column of the wide layout
const RowIndexField = "__index"

// ToRecord pivots atoms into a wide layout record with one row per index
// (ascending) and one nullable column per type name (ascending). Two atoms
// sharing a type and index fail with ErrorTypeData. The caller must Release
// the record.
func ToRecord(mem memory.Allocator, atoms []*atom.Atom) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	batch := atom.NewBatch(len(atoms))
	for _, a := range atoms {
		if a == nil || a.Type() == nil {
			return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom with a type is required")
		}
		batch.Add(a)
	}
	if keys := batch.CollidingKeys(); len(keys) > 0 {
		return nil, errors.New(errors.ErrorTypeData, "atoms collide on type and index").
			WithDetail("first_type", keys[0].TypeName).
			WithDetail("first_index", keys[0].Index).
			WithDetail("collisions", len(keys))
	}

	names := typeNames(atoms)
	column := make(map[string]int, len(names))
	fields := make([]arrow.Field, 0, len(names)+1)
	fields = append(fields, arrow.Field{Name: RowIndexField, Type: arrow.PrimitiveTypes.Int64})
	for i, name := range names {
		if name == RowIndexField {
			return nil, errors.New(errors.ErrorTypeData, "atom type name is reserved").
				WithDetail("name", name)
		}
		column[name] = i
		fields = append(fields, arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true})
	}

	rb := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer rb.Release()

	indexBuilder := rb.Field(0).(*array.Int64Builder)
	rows := batch.Rows()
	cells := make([]*atom.Atom, len(names))
	for _, index := range batch.RowIndexes() {
		clear(cells)
		for _, a := range rows[index] {
			cells[column[a.Type().Name()]] = a
		}

		indexBuilder.Append(index)
		for i, a := range cells {
			sb := rb.Field(i + 1).(*array.StringBuilder)
			if a == nil {
				sb.AppendNull()
				continue
			}
			if content, ok := a.Content(); ok {
				sb.Append(content)
			} else {
				sb.AppendNull()
			}
		}
	}

	return rb.NewRecord(), nil
}

// FromRecord unpivots a wide layout record into atoms ordered by row and
// then column. Null cells become atoms with absent content.
func FromRecord(rec arrow.Record, registry *atom.TypeRegistry) ([]*atom.Atom, error) {
	schema := rec.Schema()
	if schema.NumFields() == 0 || schema.Field(0).Name != RowIndexField ||
		schema.Field(0).Type.ID() != arrow.INT64 {
		return nil, errors.New(errors.ErrorTypeData, "record has no leading __index column").
			WithDetail("schema", schema.String())
	}
	if registry == nil {
		registry = atom.NewTypeRegistry(nil)
	}

	types := make([]*atom.AtomType, 0, schema.NumFields()-1)
	values := make([]*array.String, 0, schema.NumFields()-1)
	for i := 1; i < schema.NumFields(); i++ {
		col, ok := rec.Column(i).(*array.String)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "atom column is not utf8").
				WithDetail("column", schema.Field(i).Name)
		}
		types = append(types, registry.Intern(schema.Field(i).Name))
		values = append(values, col)
	}

	index := rec.Column(0).(*array.Int64)
	atoms := make([]*atom.Atom, 0, int(rec.NumRows())*len(types))
	for row := 0; row < int(rec.NumRows()); row++ {
		if index.IsNull(row) {
			return nil, errors.New(errors.ErrorTypeInvalidArgument, "row index is null").
				WithDetail("row", row)
		}
		for c, t := range types {
			a, err := atom.NewAtom(t, index.Value(row))
			if err != nil {
				return nil, err
			}
			if !values[c].IsNull(row) {
				a.SetContent(stringpool.Clone(values[c].Value(row)))
			}
			atoms = append(atoms, a)
		}
	}
	return atoms, nil
}

func typeNames(atoms []*atom.Atom) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, a := range atoms {
		name := a.Type().Name()
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
