package dump

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/compression"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/metrics"
	"github.com/ajitpratap0/nebula-atom/pkg/observability"
)

// ReaderOptions configures a Reader
type ReaderOptions struct {
	// Registry interns the types of decoded atoms; nil creates a private one
	Registry *atom.TypeRegistry
	// Logger defaults to the global logger
	Logger *zap.Logger
}

// Reader streams atoms out of a dump. It is not safe for concurrent use.
type Reader struct {
	header   Header
	counter  *countingReader
	body     io.ReadCloser
	dec      decoder
	registry *atom.TypeRegistry
	span     *observability.Span
	timer    *metrics.Timer
	logger   *zap.Logger
	count    int
	err      error
	closed   bool
}

// NewReader reads the dump header from r and prepares the body decoder
func NewReader(ctx context.Context, r io.Reader, opts ReaderOptions) (*Reader, error) {
	_, span := observability.StartSpan(ctx, "dump.read")

	counter := &countingReader{r: r}
	header, err := readHeader(counter)
	if err != nil {
		span.Finish(err)
		return nil, err
	}
	span.SetAttribute("codec", string(header.Codec))
	span.SetAttribute("compression", string(header.Compression))

	fail := func(err error) (*Reader, error) {
		metrics.CodecErrors.WithLabelValues(string(header.Codec), "decode").Inc()
		span.Finish(err)
		return nil, err
	}

	body, err := compression.NewReader(counter, header.Compression)
	if err != nil {
		return fail(err)
	}

	registry := opts.Registry
	if registry == nil {
		registry = atom.NewTypeRegistry(opts.Logger)
	}

	dec, err := newDecoder(header.Codec, body, registry)
	if err != nil {
		_ = body.Close()
		return fail(err)
	}

	return &Reader{
		header:   header,
		counter:  counter,
		body:     body,
		dec:      dec,
		registry: registry,
		span:     span,
		timer:    metrics.NewTimer(),
		logger:   loggerFor(ctx, opts.Logger).With(zap.String("codec", string(header.Codec))),
	}, nil
}

// Header returns the dump header
func (r *Reader) Header() Header {
	return r.header
}

// Registry returns the registry decoded types are interned into
func (r *Reader) Registry() *atom.TypeRegistry {
	return r.registry
}

// Next implements atom.Producer. It returns io.EOF after the last atom;
// decode errors are sticky.
func (r *Reader) Next(ctx context.Context) (*atom.Atom, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, err := r.dec.decode()
	if errors.Is(err, io.EOF) {
		r.err = io.EOF
		return nil, io.EOF
	}
	if err != nil {
		metrics.CodecErrors.WithLabelValues(string(r.header.Codec), "decode").Inc()
		r.err = asCodecError(err, r.header.Codec, "failed to decode atom")
		r.logger.Warn("dump decode failed", zap.Int("atoms", r.count), zap.Error(r.err))
		return nil, r.err
	}

	r.count++
	return a, nil
}

// ReadAll returns the remaining atoms
func (r *Reader) ReadAll(ctx context.Context) ([]*atom.Atom, error) {
	batch := atom.NewBatch(0)
	if _, err := atom.Drain(ctx, r, batch); err != nil {
		return batch.Atoms(), err
	}
	return batch.Atoms(), nil
}

// Count returns the number of atoms decoded so far
func (r *Reader) Count() int {
	return r.count
}

// Close releases the decoder and the decompressor but not the underlying
// reader. Calling Close again is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	_ = r.dec.close()
	err := r.body.Close()

	codec := string(r.header.Codec)
	metrics.AtomsDecoded.WithLabelValues(codec).Add(float64(r.count))
	metrics.DumpBytes.WithLabelValues("read").Add(float64(r.counter.n))
	metrics.CodecLatency.WithLabelValues(codec, "decode").Observe(r.timer.Seconds())

	failure := r.err
	if failure == io.EOF {
		failure = nil
	}
	r.span.SetAttribute("atoms", r.count)
	r.span.SetAttribute("bytes", r.counter.n)
	r.span.Finish(failure)

	r.logger.Debug("dump read",
		zap.Int("atoms", r.count),
		zap.Int64("bytes", r.counter.n),
		zap.Int("types", r.registry.Len()),
		zap.Duration("elapsed", r.timer.Elapsed()))
	return err
}
