// Package testutil provides testing utilities for nebula-atom
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a context with a 30-second timeout that is cancelled
// when the test completes.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// MustAtom creates an atom and fails the test on error. Content is set only
// when given.
func MustAtom(t testing.TB, typ *atom.AtomType, index int64, content ...string) *atom.Atom {
	t.Helper()
	a, err := atom.NewAtom(typ, index)
	require.NoError(t, err)
	if len(content) > 0 {
		a.SetContent(content[0])
	}
	return a
}

// SampleAtoms returns a small customer table split into atoms, out of
// order, with one absent and one empty content
func SampleAtoms(t testing.TB) []*atom.Atom {
	t.Helper()
	email := atom.NewAtomType("email")
	name := atom.NewAtomType("name")
	city := atom.NewAtomType("city")

	return []*atom.Atom{
		MustAtom(t, name, 2, "Grace Hopper"),
		MustAtom(t, email, 1, "ada@example.com"),
		MustAtom(t, name, 1, "Ada Lovelace"),
		MustAtom(t, city, 1, "London"),
		MustAtom(t, email, 2),
		MustAtom(t, city, 2, ""),
		MustAtom(t, name, 3, `Alan "Turing"`),
	}
}

// Strings renders atoms with String for readable comparisons
func Strings(atoms []*atom.Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = a.String()
	}
	return out
}
