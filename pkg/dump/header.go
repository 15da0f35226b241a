package dump

import (
	"bytes"
	"io"

	"github.com/ajitpratap0/nebula-atom/pkg/compression"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

const (
	// Magic opens every dump file
	Magic = "NATM"
	// FormatVersion is the header layout written by this package
	FormatVersion byte = 1
)

// Header describes how a dump body is encoded
type Header struct {
	Version     byte
	Codec       Codec
	Compression compression.Algorithm
}

func (h Header) encode() ([]byte, error) {
	codec, comp := string(h.Codec), string(h.Compression)
	if len(codec) > 255 || len(comp) > 255 {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "header name too long")
	}

	var buf bytes.Buffer
	buf.Grow(len(Magic) + 3 + len(codec) + len(comp))
	buf.WriteString(Magic)
	buf.WriteByte(h.Version)
	buf.WriteByte(byte(len(codec)))
	buf.WriteString(codec)
	buf.WriteByte(byte(len(comp)))
	buf.WriteString(comp)
	return buf.Bytes(), nil
}

func readHeader(r io.Reader) (Header, error) {
	var h Header

	fixed := make([]byte, len(Magic)+2)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return h, errors.Wrap(err, errors.ErrorTypeData, "failed to read dump header")
	}
	if string(fixed[:len(Magic)]) != Magic {
		return h, errors.New(errors.ErrorTypeData, "not an atom dump").
			WithDetail("magic", string(fixed[:len(Magic)]))
	}

	h.Version = fixed[len(Magic)]
	if h.Version != FormatVersion {
		return h, errors.Newf(errors.ErrorTypeData, "dump format version %d is not supported", h.Version).
			WithDetail("expected", FormatVersion)
	}

	codecName, err := readName(r, int(fixed[len(Magic)+1]))
	if err != nil {
		return h, err
	}
	if h.Codec, err = ParseCodec(codecName); err != nil {
		return h, errors.Wrap(err, errors.ErrorTypeData, "dump uses an unknown codec")
	}

	var size [1]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return h, errors.Wrap(err, errors.ErrorTypeData, "failed to read dump header")
	}
	compName, err := readName(r, int(size[0]))
	if err != nil {
		return h, err
	}
	if h.Compression, err = compression.ParseAlgorithm(compName); err != nil {
		return h, errors.Wrap(err, errors.ErrorTypeData, "dump uses an unknown compression")
	}

	return h, nil
}

func readName(r io.Reader, n int) (string, error) {
	name := make([]byte, n)
	if _, err := io.ReadFull(r, name); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeData, "failed to read dump header")
	}
	return string(name), nil
}
