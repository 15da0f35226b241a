package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/columnar"
	"github.com/ajitpratap0/nebula-atom/pkg/dump"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/observability"
)

// dumpFlags override the dump section of the configuration
type dumpFlags struct {
	codec       string
	compression string
	level       string
	sort        bool
	dedup       bool
}

func (f *dumpFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.codec, "codec", "", "Output codec (json, avro, arrow)")
	cmd.Flags().StringVar(&f.compression, "compression", "", "Output compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	cmd.Flags().StringVar(&f.level, "level", "", "Compression level (fastest, default, better, best)")
	cmd.Flags().BoolVar(&f.sort, "sort", false, "Sort atoms by index, type and content before writing")
	cmd.Flags().BoolVar(&f.dedup, "dedup", false, "Drop atoms equal to an earlier atom before writing")
}

func (f *dumpFlags) options(cmd *cobra.Command, a *app) (dump.Options, error) {
	cfg := a.cfg.Dump
	flags := cmd.Flags()
	if flags.Changed("codec") {
		cfg.Codec = f.codec
	}
	if flags.Changed("compression") {
		cfg.Compression = f.compression
	}
	if flags.Changed("level") {
		cfg.CompressionLevel = f.level
	}
	if flags.Changed("sort") {
		cfg.Sort = f.sort
	}
	if flags.Changed("dedup") {
		cfg.Dedup = f.dedup
	}

	opts, err := dump.OptionsFromConfig(cfg)
	if err != nil {
		return opts, err
	}
	opts.Logger = a.log
	return opts, nil
}

func (a *app) readDump(ctx context.Context, path string) ([]*atom.Atom, dump.Header, error) {
	return dump.ReadFile(ctx, path, dump.ReaderOptions{Registry: a.registry, Logger: a.log})
}

func (a *app) inspectCmd() *cobra.Command {
	var sorted, dedup bool
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the header and atoms of a dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			atoms, header, err := a.readDump(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			batch := atom.NewBatch(len(atoms))
			batch.Add(atoms...)
			if dedup {
				batch.Dedup()
			}
			if sorted {
				batch.Sort()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "codec=%s compression=%s atoms=%d types=%d\n",
				header.Codec, header.Compression, batch.Len(), a.registry.Len())
			for i, at := range batch.Atoms() {
				if limit > 0 && i >= limit {
					fmt.Fprintf(out, "... %d more\n", batch.Len()-limit)
					break
				}
				fmt.Fprintln(out, at.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort atoms by index, type and content")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "Hide atoms equal to an earlier atom")
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most this many atoms (0 prints all)")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var flags dumpFlags

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a dump with another codec or compression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, a)
			if err != nil {
				return err
			}

			return observability.Trace(cmd.Context(), "atomdump.convert", func(ctx context.Context, span *observability.Span) error {
				atoms, header, err := a.readDump(ctx, args[0])
				if err != nil {
					return err
				}
				span.AddEvent("dump.read",
					attribute.String("codec", string(header.Codec)),
					attribute.Int("atoms", len(atoms)))

				n, err := dump.WriteFile(ctx, args[1], atoms, opts)
				if err != nil {
					return err
				}
				span.SetAttribute("atoms", n)

				a.log.Info("dump converted",
					zap.String("input", args[0]),
					zap.String("output", args[1]),
					zap.Int("atoms", n))
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d atoms to %s (%s, %s)\n", n, args[1], opts.Codec, opts.Compression)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types <file>",
		Short: "List the atom types of a dump with their atom counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			atoms, _, err := a.readDump(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			counts := make(map[string]int)
			for _, at := range atoms {
				counts[at.Type().Name()]++
			}
			out := cmd.OutOrStdout()
			for _, name := range a.registry.Names() {
				fmt.Fprintf(out, "%s\t%d\n", name, counts[name])
			}
			return nil
		},
	}
}

func (a *app) collisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collisions <file>",
		Short: "Report cells held by more than one atom",
		Long: `Report (index, type) cells held by more than one atom. The command
fails when any collision is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			atoms, _, err := a.readDump(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			batch := atom.NewBatch(len(atoms))
			batch.Add(atoms...)
			keys := batch.CollidingKeys()

			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, "no collisions")
				return nil
			}
			for _, k := range keys {
				fmt.Fprintf(out, "index=%d type=%s\n", k.Index, k.TypeName)
			}
			return errors.Newf(errors.ErrorTypeData, "%d colliding cells", len(keys)).
				WithDetail("file", args[0])
		},
	}
}

func (a *app) splitCmd() *cobra.Command {
	var flags dumpFlags
	var firstIndex int64

	cmd := &cobra.Command{
		Use:   "split <in.csv> <out>",
		Short: "Split the rows of a CSV file into atoms and dump them",
		Long: `Split the rows of a CSV file into atoms and dump them. The header row
names the atom types; every later row becomes one atom per column with the
row number as index.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, a)
			if err != nil {
				return err
			}

			atoms, err := a.splitCSV(args[0], firstIndex)
			if err != nil {
				return err
			}

			n, err := dump.WriteFile(cmd.Context(), args[1], atoms, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d atoms to %s (%s, %s)\n", n, args[1], opts.Codec, opts.Compression)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Int64Var(&firstIndex, "first-index", 0, "Index of the first data row")
	return cmd
}

func (a *app) splitCSV(path string, firstIndex int64) ([]*atom.Atom, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open CSV file").
			WithDetail("path", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV header").
			WithDetail("path", path)
	}

	types := make([]*atom.AtomType, len(header))
	for i, name := range header {
		types[i] = a.registry.Intern(name)
	}

	var atoms []*atom.Atom
	for index := firstIndex; ; index++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV row").
				WithDetail("path", path).
				WithDetail("index", index)
		}

		row, err := atom.SplitRow(index, types, record)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, row...)
	}
	return atoms, nil
}

func (a *app) pivotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pivot <in> <out.arrow>",
		Short: "Reassemble the atoms of a dump into a wide Arrow IPC file",
		Long: `Reassemble the atoms of a dump into rows and write them as an Arrow IPC
file with an __index column and one nullable utf8 column per atom type.
Missing cells and atoms without content both become nulls.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			atoms, _, err := a.readDump(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rec, err := columnar.ToRecord(memory.DefaultAllocator, atoms)
			if err != nil {
				return err
			}
			defer rec.Release()

			f, err := os.Create(args[1]) //nolint:gosec // G304: path is supplied by the operator
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to create arrow file").
					WithDetail("path", args[1])
			}
			defer f.Close()

			w, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeCodec, "failed to create arrow writer")
			}
			if err := w.Write(rec); err != nil {
				return errors.Wrap(err, errors.ErrorTypeCodec, "failed to write arrow record")
			}
			if err := w.Close(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeCodec, "failed to close arrow writer")
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to close arrow file").
					WithDetail("path", args[1])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pivoted %d rows x %d types into %s\n", rec.NumRows(), rec.NumCols()-1, args[1])
			return nil
		},
	}
}
