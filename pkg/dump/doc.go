// Package dump reads and writes atom dump files.
//
// A dump is a small uncompressed header followed by a body:
//
//	"NATM" | version (1 byte) | len | codec name | len | compression name | body
//
// The body is compressed with the named algorithm from pkg/compression and
// encoded with one of three codecs:
//
//   - json: one JSON object per line, the atom serialization form
//   - avro: an Avro object container file using atom.AtomAvroSchema
//   - arrow: an Arrow IPC stream in the long layout of pkg/columnar
//
// Writer implements atom.Consumer and Reader implements atom.Producer, so
// dumps plug into atom.Drain:
//
//	w, err := dump.NewWriter(ctx, f, dump.Options{Codec: dump.CodecAvro, Compression: compression.Zstd})
//	if err != nil {
//	    return err
//	}
//	if _, err := atom.Drain(ctx, source, w); err != nil {
//	    return err
//	}
//	return w.Close()
package dump
