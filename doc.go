// Package nebulaatom is the atom data model of the Nebula ETL platform.
//
// While a row moves through a pipeline it is split into atoms: single cells
// that carry the column they belong to (an AtomType), the row they came from
// (an index) and, optionally, a string value. Atoms are compared, sorted,
// deduplicated and serialized independently of the row, and are written to
// dump files for debugging and error analysis.
//
// # Quick Start
//
//	email := atom.NewAtomType("email")
//	a, err := atom.NewAtomWithContent(email, 42, "ada@example.com")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(a)
//	// ATOM (Index = 42, Type = AtomType (Name = "email"), Content = "ada@example.com")
//
// # Key Packages
//
//	pkg/atom          - AtomType, Atom, TypeRegistry, Batch and the Producer/Consumer contract
//	pkg/dump          - Atom dump files (json, avro and arrow codecs)
//	pkg/columnar      - Apache Arrow long and wide layouts
//	pkg/compression   - Stream compression for dump bodies
//	pkg/config        - YAML configuration with environment overrides
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus collectors
//	pkg/observability - OpenTelemetry tracing
//
// # Equality and Ordering
//
// Atom equality and ordering keep two long-standing behaviors that callers
// rely on:
//   - Equal is false whenever either atom lacks content, even against itself.
//   - Compare treats a content presence mismatch as a tie.
//
// Use Atom.Ordered to tell a tie from an incomparable pair.
//
// # Command Line
//
//	atomdump split customers.csv customers.natm --codec avro --compression zstd
//	atomdump inspect customers.natm --sort
//	atomdump convert customers.natm customers.arrow.natm --codec arrow
//	atomdump collisions customers.natm
//	atomdump pivot customers.natm customers.arrow
package nebulaatom
