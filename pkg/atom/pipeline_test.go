package atom

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

func TestDrain(t *testing.T) {
	typ := NewAtomType("email")
	atoms := []*Atom{
		mustAtom(t, typ, 0, "a@example.com"),
		mustAtom(t, typ, 1, "b@example.com"),
	}

	// A redacting consumer mutates content in place.
	out := NewBatch(0)
	redact := ConsumerFunc(func(ctx context.Context, a *Atom) error {
		a.SetContent("***")
		return out.Consume(ctx, a)
	})

	n, err := Drain(context.Background(), NewSliceProducer(atoms), redact)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, a := range out.Atoms() {
		content, _ := a.Content()
		assert.Equal(t, "***", content)
	}
}

func TestDrainStopsOnConsumerError(t *testing.T) {
	typ := NewAtomType("a")
	atoms := []*Atom{mustAtom(t, typ, 0), mustAtom(t, typ, 1), mustAtom(t, typ, 2)}
	failure := errors.New(errors.ErrorTypeData, "rejected")

	calls := 0
	n, err := Drain(context.Background(), NewSliceProducer(atoms), ConsumerFunc(func(context.Context, *Atom) error {
		calls++
		if calls == 2 {
			return failure
		}
		return nil
	}))

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, n)
}

func TestDrainHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Drain(ctx, NewSliceProducer([]*Atom{mustAtom(t, NewAtomType("a"), 0)}), NewBatch(0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestSliceProducerEOF(t *testing.T) {
	p := NewSliceProducer(nil)
	_, err := p.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestSplitRow(t *testing.T) {
	first, last := NewAtomType("first_name"), NewAtomType("last_name")

	atoms, err := SplitRow(7, []*AtomType{first, last}, []string{"Ada", "Lovelace"})
	require.NoError(t, err)
	require.Len(t, atoms, 2)

	for i, want := range []string{"Ada", "Lovelace"} {
		assert.Equal(t, int64(7), atoms[i].Index())
		content, ok := atoms[i].Content()
		assert.True(t, ok)
		assert.Equal(t, want, content)
	}
	assert.Same(t, first, atoms[0].Type())
	assert.Same(t, last, atoms[1].Type())
}

func TestSplitRowRejectsBadInput(t *testing.T) {
	_, err := SplitRow(0, []*AtomType{NewAtomType("a")}, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	_, err = SplitRow(0, []*AtomType{NewAtomType("a"), nil}, []string{"x", "y"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}
