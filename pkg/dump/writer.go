package dump

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/compression"
	"github.com/ajitpratap0/nebula-atom/pkg/config"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/logger"
	"github.com/ajitpratap0/nebula-atom/pkg/metrics"
	"github.com/ajitpratap0/nebula-atom/pkg/observability"
)

// DefaultBatchSize is the number of atoms per avro block or arrow record
const DefaultBatchSize = 1024

// Options configures a Writer
type Options struct {
	Codec       Codec
	Compression compression.Algorithm
	Level       compression.Level
	// BatchSize bounds avro blocks and arrow records; zero means DefaultBatchSize
	BatchSize int
	// Sort and Dedup are applied by WriteFile before writing
	Sort  bool
	Dedup bool
	// Logger defaults to the global logger
	Logger *zap.Logger
}

// DefaultOptions returns uncompressed JSON lines
func DefaultOptions() Options {
	return Options{
		Codec:       CodecJSON,
		Compression: compression.None,
		Level:       compression.Default,
		BatchSize:   DefaultBatchSize,
	}
}

// OptionsFromConfig converts the dump section of a configuration
func OptionsFromConfig(cfg config.DumpConfig) (Options, error) {
	opts := DefaultOptions()

	var err error
	if opts.Codec, err = ParseCodec(cfg.Codec); err != nil {
		return opts, err
	}
	if opts.Compression, err = compression.ParseAlgorithm(cfg.Compression); err != nil {
		return opts, err
	}
	if cfg.CompressionLevel != "" {
		if opts.Level, err = compression.ParseLevel(cfg.CompressionLevel); err != nil {
			return opts, err
		}
	}
	opts.Sort = cfg.Sort
	opts.Dedup = cfg.Dedup
	return opts, nil
}

// Writer streams atoms into a dump. It is safe for concurrent use; atoms
// are written in the order Write is called.
type Writer struct {
	mu      sync.Mutex
	opts    Options
	counter *countingWriter
	body    io.WriteCloser
	enc     encoder
	span    *observability.Span
	timer   *metrics.Timer
	logger  *zap.Logger
	count   int
	closed  bool
}

// NewWriter writes the dump header to w and returns a Writer for the body.
// Close flushes the body but does not close w.
func NewWriter(ctx context.Context, w io.Writer, opts Options) (*Writer, error) {
	if opts.Codec == "" {
		opts.Codec = CodecJSON
	}
	if opts.Compression == "" {
		opts.Compression = compression.None
	}
	if opts.Level == 0 {
		opts.Level = compression.Default
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if _, err := ParseCodec(string(opts.Codec)); err != nil {
		return nil, err
	}

	_, span := observability.StartSpan(ctx, "dump.write")
	span.SetAttribute("codec", string(opts.Codec))
	span.SetAttribute("compression", string(opts.Compression))

	fail := func(err error) (*Writer, error) {
		metrics.CodecErrors.WithLabelValues(string(opts.Codec), "encode").Inc()
		span.Finish(err)
		return nil, err
	}

	counter := &countingWriter{w: w}
	header, err := Header{Version: FormatVersion, Codec: opts.Codec, Compression: opts.Compression}.encode()
	if err != nil {
		return fail(err)
	}
	if _, err := counter.Write(header); err != nil {
		return fail(errors.Wrap(err, errors.ErrorTypeFile, "failed to write dump header"))
	}

	body, err := compression.NewWriter(counter, opts.Compression, opts.Level)
	if err != nil {
		return fail(err)
	}

	enc, err := newEncoder(opts.Codec, body, opts.BatchSize)
	if err != nil {
		_ = body.Close()
		return fail(err)
	}

	return &Writer{
		opts:    opts,
		counter: counter,
		body:    body,
		enc:     enc,
		span:    span,
		timer:   metrics.NewTimer(),
		logger:  loggerFor(ctx, opts.Logger).With(zap.String("codec", string(opts.Codec))),
	}, nil
}

// Write appends one atom to the dump
func (w *Writer) Write(a *atom.Atom) error {
	if a == nil || a.Type() == nil {
		return errors.New(errors.ErrorTypeInvalidArgument, "atom with a type is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New(errors.ErrorTypeInternal, "dump writer is closed")
	}
	if err := w.enc.encode(a); err != nil {
		return w.codecError(err, "failed to encode atom")
	}
	w.count++
	return nil
}

// Consume implements atom.Consumer
func (w *Writer) Consume(ctx context.Context, a *atom.Atom) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Write(a)
}

// Count returns the number of atoms written so far
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes the codec and the compressor. Calling Close again is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	err := w.enc.close()
	if err != nil {
		err = w.codecError(err, "failed to flush dump body")
	}
	if cerr := w.body.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close dump compressor")
	}

	codec := string(w.opts.Codec)
	metrics.AtomsEncoded.WithLabelValues(codec).Add(float64(w.count))
	metrics.DumpBytes.WithLabelValues("write").Add(float64(w.counter.n))
	metrics.CodecLatency.WithLabelValues(codec, "encode").Observe(w.timer.Seconds())

	w.span.SetAttribute("atoms", w.count)
	w.span.SetAttribute("bytes", w.counter.n)
	w.span.Finish(err)

	if err != nil {
		w.logger.Error("dump write failed", zap.Int("atoms", w.count), zap.Error(err))
		return err
	}
	w.logger.Debug("dump written",
		zap.Int("atoms", w.count),
		zap.Int64("bytes", w.counter.n),
		zap.String("compression", string(w.opts.Compression)),
		zap.Duration("elapsed", w.timer.Elapsed()))
	return nil
}

func (w *Writer) codecError(err error, msg string) error {
	metrics.CodecErrors.WithLabelValues(string(w.opts.Codec), "encode").Inc()
	return asCodecError(err, w.opts.Codec, msg)
}

// asCodecError keeps typed errors and wraps everything else as ErrorTypeCodec
func asCodecError(err error, codec Codec, msg string) error {
	var typed *errors.Error
	if errors.As(err, &typed) {
		return err
	}
	return errors.Wrap(err, errors.ErrorTypeCodec, msg).WithDetail("codec", string(codec))
}

// loggerFor returns l, or the global logger when l is nil, tagged with the
// dump file carried by ctx
func loggerFor(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		return logger.WithContext(ctx)
	}
	if file, ok := ctx.Value(logger.DumpFileKey).(string); ok {
		return l.With(zap.String("dump_file", file))
	}
	return l
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
