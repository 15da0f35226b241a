package atom

import (
	"context"
	"io"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

// Producer yields atoms, for example from a table reader. Next returns
// io.EOF once the producer is exhausted.
type Producer interface {
	Next(ctx context.Context) (*Atom, error)
}

// Consumer receives atoms, for example a writer or a transform stage. A
// consumer may change an atom's content.
type Consumer interface {
	Consume(ctx context.Context, a *Atom) error
}

// ConsumerFunc adapts a function to Consumer
type ConsumerFunc func(ctx context.Context, a *Atom) error

// Consume calls f(ctx, a)
func (f ConsumerFunc) Consume(ctx context.Context, a *Atom) error {
	return f(ctx, a)
}

// Drain moves atoms from p to c until p is exhausted, an error occurs or ctx
// is done. It returns the number of atoms consumed.
func Drain(ctx context.Context, p Producer, c Consumer) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		a, err := p.Next(ctx)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		if err := c.Consume(ctx, a); err != nil {
			return n, err
		}
		n++
	}
}

// SliceProducer yields the atoms of a slice in order
type SliceProducer struct {
	atoms []*Atom
	pos   int
}

// NewSliceProducer creates a producer over atoms
func NewSliceProducer(atoms []*Atom) *SliceProducer {
	return &SliceProducer{atoms: atoms}
}

// Next returns the next atom or io.EOF
func (p *SliceProducer) Next(_ context.Context) (*Atom, error) {
	if p.pos >= len(p.atoms) {
		return nil, io.EOF
	}
	a := p.atoms[p.pos]
	p.pos++
	return a, nil
}

// SplitRow creates one atom per column for row index, pairing types[i] with
// values[i]. It is also how one logical value is split into several atoms:
// the parts share the index and differ in type.
func SplitRow(index int64, types []*AtomType, values []string) ([]*Atom, error) {
	if len(types) != len(values) {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "row has a different number of types and values").
			WithDetail("types", len(types)).
			WithDetail("values", len(values))
	}

	atoms := make([]*Atom, len(types))
	for i, t := range types {
		a, err := NewAtomWithContent(t, index, values[i])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInvalidArgument, "invalid row column").
				WithDetail("column", i)
		}
		atoms[i] = a
	}
	return atoms, nil
}
