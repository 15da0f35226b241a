// Package columnar converts atoms to and from Apache Arrow records.
//
// Two layouts are supported:
//
// Long layout, one row per atom. It is lossless and is what atom dumps use
// for their arrow codec:
//
//	index (int64) | type (utf8) | content (utf8, nullable)
//
// Wide layout, one row per source row and one column per atom type. This is
// the tabular shape the atoms were split from:
//
//	__index (int64) | email (utf8, nullable) | name (utf8, nullable) | ...
//
// The wide layout cannot tell an atom with absent content from a missing
// atom: FromRecord turns every null cell into an atom with absent content.
//
// # Basic Usage
//
//	b := columnar.NewAtomBuilder(memory.NewGoAllocator())
//	defer b.Release()
//	for _, a := range atoms {
//	    if err := b.Append(a); err != nil {
//	        return err
//	    }
//	}
//	rec := b.NewRecord()
//	defer rec.Release()
package columnar
