// Command atomdump inspects and converts atom dump files.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/atom"
	"github.com/ajitpratap0/nebula-atom/pkg/config"
	"github.com/ajitpratap0/nebula-atom/pkg/logger"
	"github.com/ajitpratap0/nebula-atom/pkg/observability"
)

var version = "0.1.0"

// app holds state shared by every subcommand
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	log      *zap.Logger
	registry *atom.TypeRegistry
	shutdown observability.ShutdownFunc
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "atomdump",
		Short: "Inspect and convert atom dump files",
		Long: `atomdump works with dumps of atoms, the single cells a row is split
into while it moves through an ETL pipeline. Dumps are written by the
pipeline for debugging and error analysis.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return observability.Shutdown(cmd.Context(), a.shutdown)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "atomdump v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(
		a.inspectCmd(),
		a.convertCmd(),
		a.typesCmd(),
		a.collisionsCmd(),
		a.splitCmd(),
		a.pivotCmd(),
	)

	return root
}

// setup loads configuration and starts logging and tracing
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Encoding:    cfg.Log.Encoding,
		OutputPaths: cfg.Log.OutputPaths,
	}); err != nil {
		return err
	}
	ctx := context.WithValue(cmd.Context(), logger.JobIDKey, cfg.Name)
	ctx = context.WithValue(ctx, logger.StageKey, cmd.Name())
	cmd.SetContext(ctx)
	a.log = logger.WithContext(ctx)

	observability.Version = version
	a.shutdown, err = observability.InitTracing(cfg.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.registry = atom.NewTypeRegistry(a.log)
	return nil
}
