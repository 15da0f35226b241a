// Package atom models tabular data as independent cells ("atoms") for ETL
// pipelines.
//
// An AtomType names a column and is meant to be shared: create one per column
// and reuse the same pointer for every atom of that column (a TypeRegistry
// makes that a guarantee). An Atom is one cell: a fixed (type, row index) pair
// plus a content string that may be set, replaced or cleared at any time. No
// history of previous content is kept.
//
// # Identity and ordering
//
// Two atom types are equal when their names are equal, and they order by name.
// Atoms order by index, then type, then content. Equality and comparison never
// fail; given a nil argument they return false and 0 respectively, so a zero
// result from Compare does not prove equality. Use Ordered when the
// "incomparable" case must be told apart from a tie.
//
// Two behaviors are kept for parity with existing pipelines:
//   - Equal is false whenever either atom has no content, even when both
//     have none.
//   - Compare treats "one side has content, the other has none" as a tie.
//
// # Uniqueness
//
// A (type, index) pair should identify at most one atom in the population a
// consumer manages. This is not enforced; Batch.CollidingKeys reports
// violations.
//
// # Serialization
//
// Atoms and atom types encode to JSON and to Avro binary. Every encoded value
// carries a serial version, and decoding rejects values written with a
// different layout.
//
// Atoms are not safe for concurrent mutation; callers synchronize around
// SetContent. Atom types are immutable and may be shared freely.
package atom
