package atom

import (
	"bytes"
	"unicode/utf8"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/json"
)

// Serial versions identify the encoded field layout of each type. Any change
// to the layout must change the matching constant; decoders reject values
// carrying a different version.
const (
	AtomTypeSerialVersion int64 = -6808427998371142235
	AtomSerialVersion     int64 = 1973437748746859444
)

// Strings that are not valid UTF-8 travel base64 encoded in the *_bytes
// fields, since JSON strings would replace the invalid bytes.
type atomTypeWire struct {
	SerialVersion int64   `json:"serial_version"`
	Name          *string `json:"name,omitempty"`
	NameBytes     []byte  `json:"name_bytes,omitempty"`
}

type atomWire struct {
	SerialVersion int64         `json:"serial_version"`
	Type          *atomTypeWire `json:"type"`
	Index         *int64        `json:"index"`
	Content       *string       `json:"content"`
	ContentBytes  []byte        `json:"content_bytes,omitempty"`
}

func (t *AtomType) wire() *atomTypeWire {
	w := &atomTypeWire{SerialVersion: AtomTypeSerialVersion}
	if utf8.ValidString(t.name) {
		name := t.name
		w.Name = &name
	} else {
		w.NameBytes = []byte(t.name)
	}
	return w
}

func (w *atomTypeWire) atomType() (*AtomType, error) {
	if w == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom type is required")
	}
	if err := checkVersion("atom type", AtomTypeSerialVersion, w.SerialVersion); err != nil {
		return nil, err
	}
	switch {
	case w.NameBytes != nil:
		return NewAtomType(string(w.NameBytes)), nil
	case w.Name != nil:
		return NewAtomType(*w.Name), nil
	default:
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom type name is required")
	}
}

func (a *Atom) wire() *atomWire {
	index := a.index
	w := &atomWire{
		SerialVersion: AtomSerialVersion,
		Index:         &index,
	}
	if a.typ != nil {
		w.Type = a.typ.wire()
	}
	switch {
	case !a.hasContent:
	case utf8.ValidString(a.content):
		content := a.content
		w.Content = &content
	default:
		w.ContentBytes = []byte(a.content)
	}
	return w
}

func (w *atomWire) atom() (*Atom, error) {
	if err := checkVersion("atom", AtomSerialVersion, w.SerialVersion); err != nil {
		return nil, err
	}
	t, err := w.Type.atomType()
	if err != nil {
		return nil, err
	}
	if w.Index == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "atom index is required").
			WithDetail("type", t.name)
	}
	a, err := NewAtom(t, *w.Index)
	if err != nil {
		return nil, err
	}
	switch {
	case w.ContentBytes != nil:
		a.SetContent(string(w.ContentBytes))
	case w.Content != nil:
		a.SetContent(*w.Content)
	}
	return a, nil
}

func checkVersion(kind string, expected, actual int64) error {
	if expected == actual {
		return nil
	}
	return errors.Newf(errors.ErrorTypeData, "incompatible %s serial version", kind).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

var jsonNull = []byte("null")

// MarshalJSON encodes the type as {"serial_version":...,"name":...}
func (t *AtomType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

// UnmarshalJSON decodes a type written by MarshalJSON. A null value or a
// missing name is an invalid argument.
func (t *AtomType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return errors.New(errors.ErrorTypeInvalidArgument, "atom type is required")
	}
	var w atomTypeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, errors.ErrorTypeCodec, "failed to decode atom type")
	}
	decoded, err := w.atomType()
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

// MarshalJSON encodes the atom with its type, index and content. Absent
// content encodes as null; content that is not valid UTF-8 goes to
// content_bytes.
func (a *Atom) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.wire())
}

// UnmarshalJSON decodes an atom written by MarshalJSON. A missing type, type
// name or index is an invalid argument; a missing or null content leaves the
// content absent.
func (a *Atom) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return errors.New(errors.ErrorTypeInvalidArgument, "atom is required")
	}
	var w atomWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, errors.ErrorTypeCodec, "failed to decode atom")
	}
	decoded, err := w.atom()
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}
