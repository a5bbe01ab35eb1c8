// Package cli implements the fsq command tree.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/fsq/internal/config"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"

	// Config is populated before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fsq CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fsq",
		Short: "fsq - FlexibleSearch query builder",
		Long: `Build FlexibleSearch statements from declarative query documents.

Documents are YAML or CUE files holding a list of queries. Each query is
rendered to FlexibleSearch text (or MySQL/PostgreSQL), with its named
parameters, and can be syntax-checked against a SQL parser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			opts.Format = cfg.Format
			opts.Verbose = cfg.Verbose

			setupLogging(cmd.ErrOrStderr(), cfg.Verbose)
			slog.Debug("config loaded", "file", cfg.File, "dialect", cfg.Dialect, "engine", cfg.Engine, "catalog", cfg.Catalog)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./fsq.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().String("catalog", config.DefaultCatalog, "path to the type catalog database")
	cmd.PersistentFlags().String("model-suffix", config.DefaultModelSuffix, "suffix stripped from unregistered type names")
	cmd.PersistentFlags().Bool("plural-tables", false, "pluralise table names of unregistered types")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTypesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
