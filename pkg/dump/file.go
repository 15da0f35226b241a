package dump

import (
	"bufio"
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/logger"
)

// WriteFile writes atoms to a new dump at path, replacing any existing file.
// The input slice is not modified by Sort or Dedup.
func WriteFile(ctx context.Context, path string, atoms []*atom.Atom, opts Options) (int, error) {
	ctx = context.WithValue(ctx, logger.DumpFileKey, path)

	batch := atom.NewBatch(len(atoms))
	batch.Add(atoms...)
	if opts.Dedup {
		if removed := batch.Dedup(); removed > 0 {
			loggerFor(ctx, opts.Logger).Debug("duplicate atoms dropped", zap.Int("removed", removed))
		}
	}
	if opts.Sort {
		batch.Sort()
	}

	f, err := os.Create(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to create dump file").
			WithDetail("path", path)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w, err := NewWriter(ctx, buf, opts)
	if err != nil {
		return 0, err
	}

	n, err := atom.Drain(ctx, atom.NewSliceProducer(batch.Atoms()), w)
	if err != nil {
		_ = w.Close()
		return n, err
	}
	if err := w.Close(); err != nil {
		return n, err
	}
	if err := buf.Flush(); err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeFile, "failed to flush dump file").
			WithDetail("path", path)
	}
	if err := f.Close(); err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeFile, "failed to close dump file").
			WithDetail("path", path)
	}
	return n, nil
}

// ReadFile reads every atom of the dump at path
func ReadFile(ctx context.Context, path string, opts ReaderOptions) ([]*atom.Atom, Header, error) {
	ctx = context.WithValue(ctx, logger.DumpFileKey, path)

	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, Header{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to open dump file").
			WithDetail("path", path)
	}
	defer f.Close()

	r, err := NewReader(ctx, bufio.NewReader(f), opts)
	if err != nil {
		return nil, Header{}, err
	}
	defer r.Close()

	atoms, err := r.ReadAll(ctx)
	return atoms, r.Header(), err
}
