package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/fsq/internal/catalog"
)

// NewTypesCommand creates the types command group managing the catalog.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage the type catalog",
		Long: `Manage the catalog mapping Go model type names to item type codes.

Documents reference types with "type: ProductModel"; the catalog decides
which table that renders as.`,
	}

	cmd.AddCommand(newTypesListCommand(rootOpts))
	cmd.AddCommand(newTypesAddCommand(rootOpts))
	cmd.AddCommand(newTypesRemoveCommand(rootOpts))

	return cmd
}

func newTypesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(ctx context.Context, f *OutputFormatter, cat *catalog.Catalog) error {
				entries, err := cat.List(ctx)
				if err != nil {
					return outputCatalogError(f, err)
				}
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return f.Success(entries, func(w io.Writer) error {
					if len(entries) == 0 {
						fmt.Fprintln(w, "(no types registered)")
						return nil
					}
					rows := make([]table.Row, len(entries))
					for i, e := range entries {
						rows[i] = table.Row{e.TypeName, e.Code, e.Description}
					}
					Table(w, table.Row{"TYPE", "CODE", "DESCRIPTION"}, rows)
					return nil
				})
			})
		},
	}
}

func newTypesAddCommand(opts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <type-name> <code>",
		Short: "Register or replace a type code",
		Example: `  fsq types add ProductModel Product
  fsq types add StockLevelModel StockLevel -d "warehouse stock"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(ctx context.Context, f *OutputFormatter, cat *catalog.Catalog) error {
				if err := cat.Register(ctx, args[0], args[1], description); err != nil {
					return outputCatalogError(f, err)
				}
				entry := catalog.Entry{TypeName: args[0], Code: args[1], Description: description}
				return f.Success(entry, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "registered %s -> %s\n", args[0], args[1])
					return err
				})
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	return cmd
}

func newTypesRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <type-name>",
		Aliases: []string{"remove"},
		Short:   "Remove a type registration",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(ctx context.Context, f *OutputFormatter, cat *catalog.Catalog) error {
				removed, err := cat.Delete(ctx, args[0])
				if err != nil {
					return outputCatalogError(f, err)
				}
				if !removed {
					_ = f.Error(ErrCodeNotFound, fmt.Sprintf("type %s is not registered", args[0]), nil)
					return reportedExitError(ExitFailure, ErrCodeNotFound, nil)
				}
				return f.Success(map[string]string{"removed": args[0]}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "removed %s\n", args[0])
					return err
				})
			})
		},
	}
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *OutputFormatter, *catalog.Catalog) error) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	sess, err := openSession(opts.Config)
	if err != nil {
		return err
	}
	defer sess.Close()

	return fn(cmd.Context(), formatter, sess.catalog)
}

func outputCatalogError(f *OutputFormatter, err error) error {
	code := ErrCodeCatalog
	if errors.Is(err, catalog.ErrNotFound) {
		code = ErrCodeNotFound
	}
	_ = f.Error(code, err.Error(), nil)
	return reportedExitError(ExitFailure, code, err)
}
