package columnar

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/testutil"
)

func checkedAllocator(t *testing.T) *memory.CheckedAllocator {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	return mem
}

func TestAtomBuilderRoundTrip(t *testing.T) {
	mem := checkedAllocator(t)
	email := atom.NewAtomType("email")
	name := atom.NewAtomType("name")
	atoms := []*atom.Atom{
		testutil.MustAtom(t, email, 1, "a@x.io"),
		testutil.MustAtom(t, name, 1),
		testutil.MustAtom(t, email, 2, ""),
	}

	b := NewAtomBuilder(mem)
	defer b.Release()
	for _, a := range atoms {
		require.NoError(t, b.Append(a))
	}
	assert.Equal(t, 3, b.Len())

	rec := b.NewRecord()
	defer rec.Release()
	assert.Equal(t, 0, b.Len())
	assert.EqualValues(t, 3, rec.NumRows())

	registry := atom.NewTypeRegistry(nil)
	decoded, err := AtomsFromRecord(rec, registry)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	for i, a := range atoms {
		assert.Equal(t, a.String(), decoded[i].String())
	}
	assert.Same(t, decoded[0].Type(), decoded[2].Type())
	_, ok := decoded[1].Content()
	assert.False(t, ok, "null content decodes as absent")
}

func TestAtomBuilderRejectsNil(t *testing.T) {
	b := NewAtomBuilder(nil)
	defer b.Release()

	err := b.Append(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestAtomsFromRecordRejectsForeignSchema(t *testing.T) {
	mem := checkedAllocator(t)
	schema := arrow.NewSchema([]arrow.Field{{Name: "x", Type: arrow.PrimitiveTypes.Int64}}, nil)
	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()
	rb.Field(0).(*array.Int64Builder).Append(1)
	rec := rb.NewRecord()
	defer rec.Release()

	_, err := AtomsFromRecord(rec, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestToRecordPivots(t *testing.T) {
	mem := checkedAllocator(t)
	email := atom.NewAtomType("email")
	name := atom.NewAtomType("name")

	rec, err := ToRecord(mem, []*atom.Atom{
		testutil.MustAtom(t, name, 7, "Bo"),
		testutil.MustAtom(t, email, 3, "al@x.io"),
		testutil.MustAtom(t, name, 3, "Al"),
		testutil.MustAtom(t, email, 7),
	})
	require.NoError(t, err)
	defer rec.Release()

	require.EqualValues(t, 3, rec.NumCols())
	assert.Equal(t, RowIndexField, rec.ColumnName(0))
	assert.Equal(t, "email", rec.ColumnName(1))
	assert.Equal(t, "name", rec.ColumnName(2))

	index := rec.Column(0).(*array.Int64)
	assert.Equal(t, []int64{3, 7}, index.Int64Values())

	emails := rec.Column(1).(*array.String)
	assert.Equal(t, "al@x.io", emails.Value(0))
	assert.True(t, emails.IsNull(1))

	names := rec.Column(2).(*array.String)
	assert.Equal(t, "Al", names.Value(0))
	assert.Equal(t, "Bo", names.Value(1))
}

func TestToRecordRejectsCollisions(t *testing.T) {
	email := atom.NewAtomType("email")

	_, err := ToRecord(nil, []*atom.Atom{
		testutil.MustAtom(t, email, 1, "a"),
		testutil.MustAtom(t, atom.NewAtomType("email"), 1, "b"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestToRecordRejectsReservedName(t *testing.T) {
	_, err := ToRecord(nil, []*atom.Atom{testutil.MustAtom(t, atom.NewAtomType(RowIndexField), 1, "x")})
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestFromRecordFillsMissingCells(t *testing.T) {
	mem := checkedAllocator(t)
	email := atom.NewAtomType("email")
	name := atom.NewAtomType("name")

	rec, err := ToRecord(mem, []*atom.Atom{
		testutil.MustAtom(t, email, 1, "a@x.io"),
		testutil.MustAtom(t, name, 1, "A"),
		testutil.MustAtom(t, name, 2, "B"),
	})
	require.NoError(t, err)
	defer rec.Release()

	atoms, err := FromRecord(rec, nil)
	require.NoError(t, err)

	got := make([]string, len(atoms))
	for i, a := range atoms {
		got[i] = a.String()
	}
	assert.Equal(t, []string{
		`ATOM (Index = 1, Type = AtomType (Name = "email"), Content = "a@x.io")`,
		`ATOM (Index = 1, Type = AtomType (Name = "name"), Content = "A")`,
		`ATOM (Index = 2, Type = AtomType (Name = "email"), Content = null)`,
		`ATOM (Index = 2, Type = AtomType (Name = "name"), Content = "B")`,
	}, got)
}

func TestFromRecordRequiresIndexColumn(t *testing.T) {
	mem := checkedAllocator(t)
	schema := arrow.NewSchema([]arrow.Field{{Name: "email", Type: arrow.BinaryTypes.String}}, nil)
	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()
	rb.Field(0).(*array.StringBuilder).Append("a")
	rec := rb.NewRecord()
	defer rec.Release()

	_, err := FromRecord(rec, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}
