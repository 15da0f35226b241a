package dump

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	gojson "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/columnar"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/json"
	stringpool "github.com/ajitpratap0/nebula-atom/pkg/strings"
)

// Codec names a dump body encoding
type Codec string

const (
	// CodecJSON writes one JSON atom per line
	CodecJSON Codec = "json"
	// CodecAvro writes an Avro object container file
	CodecAvro Codec = "avro"
	// CodecArrow writes an Arrow IPC stream
	CodecArrow Codec = "arrow"
)

// Codecs lists every supported codec
var Codecs = []Codec{CodecJSON, CodecAvro, CodecArrow}

// ParseCodec maps a configured name to a Codec
func ParseCodec(name string) (Codec, error) {
	for _, c := range Codecs {
		if string(c) == name {
			return c, nil
		}
	}
	return "", errors.New(errors.ErrorTypeConfig, "unsupported dump codec").
		WithDetail("codec", name)
}

// avroMetaVersion records the atom serial version in OCF metadata
const avroMetaVersion = "nebula.atom.serial_version"

type encoder interface {
	encode(a *atom.Atom) error
	close() error
}

type decoder interface {
	// decode returns io.EOF after the last atom
	decode() (*atom.Atom, error)
	close() error
}

func newEncoder(codec Codec, w io.Writer, batchSize int) (encoder, error) {
	switch codec {
	case CodecJSON:
		return &jsonEncoder{enc: json.NewEncoder(w)}, nil
	case CodecAvro:
		ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
			W:               w,
			Codec:           atom.AvroCodec(),
			CompressionName: goavro.CompressionNullLabel,
			MetaData: map[string][]byte{
				avroMetaVersion: []byte(stringpool.Sprintf("%d", atom.AtomSerialVersion)),
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "failed to create avro writer")
		}
		return &avroEncoder{ocf: ocf, batchSize: batchSize, pending: make([]interface{}, 0, batchSize)}, nil
	case CodecArrow:
		return &arrowEncoder{
			writer:    ipc.NewWriter(w, ipc.WithSchema(columnar.AtomSchema), ipc.WithAllocator(memory.DefaultAllocator)),
			builder:   columnar.NewAtomBuilder(memory.DefaultAllocator),
			batchSize: batchSize,
		}, nil
	default:
		return nil, errors.New(errors.ErrorTypeConfig, "unsupported dump codec").
			WithDetail("codec", string(codec))
	}
}

func newDecoder(codec Codec, r io.Reader, registry *atom.TypeRegistry) (decoder, error) {
	switch codec {
	case CodecJSON:
		return &jsonDecoder{dec: json.NewDecoder(r), registry: registry}, nil
	case CodecAvro:
		ocf, err := goavro.NewOCFReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "failed to open avro body")
		}
		return &avroDecoder{ocf: ocf, registry: registry}, nil
	case CodecArrow:
		rdr, err := ipc.NewReader(r, ipc.WithSchema(columnar.AtomSchema), ipc.WithAllocator(memory.DefaultAllocator))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCodec, "failed to open arrow body")
		}
		return &arrowDecoder{reader: rdr, registry: registry}, nil
	default:
		return nil, errors.New(errors.ErrorTypeConfig, "unsupported dump codec").
			WithDetail("codec", string(codec))
	}
}

type jsonEncoder struct {
	enc *gojson.Encoder
}

func (e *jsonEncoder) encode(a *atom.Atom) error {
	return e.enc.Encode(a)
}

func (e *jsonEncoder) close() error { return nil }

type jsonDecoder struct {
	dec      *gojson.Decoder
	registry *atom.TypeRegistry
}

func (d *jsonDecoder) decode() (*atom.Atom, error) {
	a := new(atom.Atom)
	if err := d.dec.Decode(a); err != nil {
		return nil, err
	}
	return d.registry.InternAtom(a), nil
}

func (d *jsonDecoder) close() error { return nil }

type avroEncoder struct {
	ocf       *goavro.OCFWriter
	batchSize int
	pending   []interface{}
}

func (e *avroEncoder) encode(a *atom.Atom) error {
	e.pending = append(e.pending, a.AvroNative())
	if len(e.pending) >= e.batchSize {
		return e.flush()
	}
	return nil
}

func (e *avroEncoder) flush() error {
	if len(e.pending) == 0 {
		return nil
	}
	if err := e.ocf.Append(e.pending); err != nil {
		return err
	}
	clear(e.pending)
	e.pending = e.pending[:0]
	return nil
}

func (e *avroEncoder) close() error {
	return e.flush()
}

type avroDecoder struct {
	ocf      *goavro.OCFReader
	registry *atom.TypeRegistry
}

func (d *avroDecoder) decode() (*atom.Atom, error) {
	if !d.ocf.Scan() {
		if err := d.ocf.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	native, err := d.ocf.Read()
	if err != nil {
		return nil, err
	}
	a, err := atom.AtomFromAvroNative(native)
	if err != nil {
		return nil, err
	}
	return d.registry.InternAtom(a), nil
}

func (d *avroDecoder) close() error { return nil }

type arrowEncoder struct {
	writer    *ipc.Writer
	builder   *columnar.AtomBuilder
	batchSize int
}

func (e *arrowEncoder) encode(a *atom.Atom) error {
	if err := e.builder.Append(a); err != nil {
		return err
	}
	if e.builder.Len() >= e.batchSize {
		return e.flush()
	}
	return nil
}

func (e *arrowEncoder) flush() error {
	if e.builder.Len() == 0 {
		return nil
	}
	rec := e.builder.NewRecord()
	defer rec.Release()
	return e.writer.Write(rec)
}

func (e *arrowEncoder) close() error {
	defer e.builder.Release()
	if err := e.flush(); err != nil {
		return err
	}
	return e.writer.Close()
}

type arrowDecoder struct {
	reader   *ipc.Reader
	registry *atom.TypeRegistry
	pending  []*atom.Atom
}

func (d *arrowDecoder) decode() (*atom.Atom, error) {
	for len(d.pending) == 0 {
		if !d.reader.Next() {
			if err := d.reader.Err(); err != nil && err != io.EOF {
				return nil, err
			}
			return nil, io.EOF
		}
		atoms, err := columnar.AtomsFromRecord(d.reader.Record(), d.registry)
		if err != nil {
			return nil, err
		}
		d.pending = atoms
	}

	a := d.pending[0]
	d.pending[0] = nil
	d.pending = d.pending[1:]
	return a, nil
}

func (d *arrowDecoder) close() error {
	d.reader.Release()
	return nil
}
