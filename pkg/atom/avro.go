package atom

import (
	"fmt"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

// AtomTypeAvroSchema is the Avro schema of an encoded AtomType
const AtomTypeAvroSchema = `{
  "type": "record",
  "name": "AtomType",
  "namespace": "com.nebula.atom",
  "fields": [
    {"name": "serial_version", "type": "long"},
    {"name": "name", "type": "string"}
  ]
}`

// AtomAvroSchema is the Avro schema of an encoded Atom. Dump files written
// with the avro codec use it as their OCF schema.
const AtomAvroSchema = `{
  "type": "record",
  "name": "Atom",
  "namespace": "com.nebula.atom",
  "fields": [
    {"name": "serial_version", "type": "long"},
    {"name": "type", "type": ` + AtomTypeAvroSchema + `},
    {"name": "index", "type": "long"},
    {"name": "content", "type": ["null", "string"], "default": null}
  ]
}`

var (
	atomTypeCodec = mustCodec(AtomTypeAvroSchema)
	atomCodec     = mustCodec(AtomAvroSchema)
)

func mustCodec(schema string) *goavro.Codec {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		panic(fmt.Sprintf("atom: invalid avro schema: %v", err))
	}
	return codec
}

// AvroCodec returns the compiled codec for AtomAvroSchema
func AvroCodec() *goavro.Codec {
	return atomCodec
}

func (t *AtomType) avroNative() map[string]interface{} {
	return map[string]interface{}{
		"serial_version": AtomTypeSerialVersion,
		"name":           t.name,
	}
}

// AvroNative returns the atom in goavro's native form for AtomAvroSchema
func (a *Atom) AvroNative() map[string]interface{} {
	native := map[string]interface{}{
		"serial_version": AtomSerialVersion,
		"index":          a.index,
		"content":        nil,
	}
	if a.typ != nil {
		native["type"] = a.typ.avroNative()
	}
	if a.hasContent {
		native["content"] = goavro.Union("string", a.content)
	}
	return native
}

func atomTypeFromAvroNative(native interface{}) (*AtomType, error) {
	fields, ok := native.(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrorTypeCodec, "avro atom type is not a record")
	}
	version, ok := fields["serial_version"].(int64)
	if !ok {
		return nil, errors.New(errors.ErrorTypeCodec, "avro atom type has no serial version")
	}
	if err := checkVersion("atom type", AtomTypeSerialVersion, version); err != nil {
		return nil, err
	}
	name, ok := fields["name"].(string)
	if !ok {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom type name is required")
	}
	return NewAtomType(name), nil
}

// AtomFromAvroNative rebuilds an atom from goavro's native form
func AtomFromAvroNative(native interface{}) (*Atom, error) {
	fields, ok := native.(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrorTypeCodec, "avro atom is not a record")
	}
	version, ok := fields["serial_version"].(int64)
	if !ok {
		return nil, errors.New(errors.ErrorTypeCodec, "avro atom has no serial version")
	}
	if err := checkVersion("atom", AtomSerialVersion, version); err != nil {
		return nil, err
	}
	t, err := atomTypeFromAvroNative(fields["type"])
	if err != nil {
		return nil, err
	}
	index, ok := fields["index"].(int64)
	if !ok {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom index is required").
			WithDetail("type", t.name)
	}
	a, err := NewAtom(t, index)
	if err != nil {
		return nil, err
	}

	switch content := fields["content"].(type) {
	case nil:
	case map[string]interface{}:
		s, ok := content["string"].(string)
		if !ok {
			return nil, errors.New(errors.ErrorTypeCodec, "avro atom content is not a string")
		}
		a.SetContent(s)
	default:
		return nil, errors.Newf(errors.ErrorTypeCodec, "unexpected avro content %T", content)
	}
	return a, nil
}

// MarshalBinary encodes the type as Avro binary
func (t *AtomType) MarshalBinary() ([]byte, error) {
	data, err := atomTypeCodec.BinaryFromNative(nil, t.avroNative())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeCodec, "failed to encode atom type")
	}
	return data, nil
}

// UnmarshalBinary decodes a type written by MarshalBinary
func (t *AtomType) UnmarshalBinary(data []byte) error {
	native, rest, err := atomTypeCodec.NativeFromBinary(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeCodec, "failed to decode atom type")
	}
	if len(rest) > 0 {
		return errors.New(errors.ErrorTypeData, "trailing bytes after atom type").
			WithDetail("trailing", len(rest))
	}
	decoded, err := atomTypeFromAvroNative(native)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

// MarshalBinary encodes the atom as Avro binary
func (a *Atom) MarshalBinary() ([]byte, error) {
	if a.typ == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom type is required")
	}
	data, err := atomCodec.BinaryFromNative(nil, a.AvroNative())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeCodec, "failed to encode atom")
	}
	return data, nil
}

// UnmarshalBinary decodes an atom written by MarshalBinary
func (a *Atom) UnmarshalBinary(data []byte) error {
	native, rest, err := atomCodec.NativeFromBinary(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeCodec, "failed to decode atom")
	}
	if len(rest) > 0 {
		return errors.New(errors.ErrorTypeData, "trailing bytes after atom").
			WithDetail("trailing", len(rest))
	}
	decoded, err := AtomFromAvroNative(native)
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}
