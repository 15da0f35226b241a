package atom

import (
	"cmp"
	"context"
	"slices"
)

// Batch is an ordered collection of atoms, typically one pipeline stage's
// buffer. It is not safe for concurrent use.
type Batch struct {
	atoms []*Atom
}

// NewBatch creates a batch with room for capacity atoms
func NewBatch(capacity int) *Batch {
	return &Batch{atoms: make([]*Atom, 0, capacity)}
}

// Add appends atoms to the batch. Nil atoms are skipped.
func (b *Batch) Add(atoms ...*Atom) {
	for _, a := range atoms {
		if a != nil {
			b.atoms = append(b.atoms, a)
		}
	}
}

// Consume implements Consumer by appending a to the batch
func (b *Batch) Consume(_ context.Context, a *Atom) error {
	b.Add(a)
	return nil
}

// Len returns the number of atoms in the batch
func (b *Batch) Len() int {
	return len(b.atoms)
}

// Atoms returns the batch's atoms. The slice is shared with the batch.
func (b *Batch) Atoms() []*Atom {
	return b.atoms
}

// Reset empties the batch, keeping its capacity
func (b *Batch) Reset() {
	clear(b.atoms)
	b.atoms = b.atoms[:0]
}

// Sort orders the batch by Atom.Compare. The sort is stable, so atoms that
// tie keep their insertion order. Compare ties atoms whose content presence
// differs, which makes it intransitive; the order of content within one
// index and type is only guaranteed when all of those atoms have content or
// none do.
func (b *Batch) Sort() {
	slices.SortStableFunc(b.atoms, func(x, y *Atom) int {
		return x.Compare(y)
	})
}

type contentKey struct {
	Key
	content string
}

// Dedup removes every atom that is Equal to an earlier atom and returns how
// many were removed. Atoms without content are never Equal, so they are
// always kept.
func (b *Batch) Dedup() int {
	seen := make(map[contentKey]struct{}, len(b.atoms))
	kept := b.atoms[:0]
	removed := 0

	for _, a := range b.atoms {
		if a.hasContent {
			k := contentKey{Key: a.Key(), content: a.content}
			if _, dup := seen[k]; dup {
				removed++
				continue
			}
			seen[k] = struct{}{}
		}
		kept = append(kept, a)
	}

	clear(b.atoms[len(kept):])
	b.atoms = kept
	return removed
}

// CollidingKeys returns the (type, index) positions held by more than one
// atom, ordered by index and then type name. Collisions break the
// one-atom-per-cell contract but are only reported, never repaired.
func (b *Batch) CollidingKeys() []Key {
	counts := make(map[Key]int, len(b.atoms))
	for _, a := range b.atoms {
		counts[a.Key()]++
	}

	var keys []Key
	for k, n := range counts {
		if n > 1 {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Rows groups the batch's atoms by row index
func (b *Batch) Rows() map[int64][]*Atom {
	rows := make(map[int64][]*Atom)
	for _, a := range b.atoms {
		rows[a.index] = append(rows[a.index], a)
	}
	return rows
}

// RowIndexes returns the distinct row indexes in ascending order
func (b *Batch) RowIndexes() []int64 {
	seen := make(map[int64]struct{})
	indexes := make([]int64, 0)
	for _, a := range b.atoms {
		if _, ok := seen[a.index]; !ok {
			seen[a.index] = struct{}{}
			indexes = append(indexes, a.index)
		}
	}
	slices.Sort(indexes)
	return indexes
}

func compareKeys(x, y Key) int {
	if c := cmp.Compare(x.Index, y.Index); c != 0 {
		return c
	}
	return cmp.Compare(x.TypeName, y.TypeName)
}
