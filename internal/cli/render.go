package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/fsq/internal/querydoc"
	"github.com/roach88/fsq/pkg/flexsearch"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Query string
}

// RenderedQuery is the output of rendering one document.
type RenderedQuery struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Dialect     string      `json:"dialect"`
	Query       string      `json:"query"`
	Params      []ParamView `json:"params,omitempty"`
	Count       int         `json:"count,omitempty"`
	ResultTypes []string    `json:"result_types,omitempty"`
}

// ParamView is a bound parameter as shown to the user.
type ParamView struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render query documents to query text and parameters",
		Long: `Render every query in a YAML or CUE document file.

Type references are resolved through the catalog; types not registered
there fall back to the naming convention (--model-suffix, --plural-tables).

Example:
  fsq render queries.yaml
  fsq render --dialect postgresql --query products-by-name queries.cue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().String("dialect", "flexiblesearch", "output dialect (flexiblesearch|mysql|postgresql)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "render only the named query")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
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

	dialect := opts.Config.RenderDialect()
	compiled, code, err := sess.compile(cmd.Context(), path, flexsearch.WithDialect(dialect))
	if err != nil {
		return outputFailure(formatter, code, err)
	}

	compiled, err = selectQuery(compiled, opts.Query)
	if err != nil {
		return outputFailure(formatter, ErrCodeGeneric, err)
	}

	rendered := make([]RenderedQuery, 0, len(compiled))
	for _, c := range compiled {
		stmt, err := c.Query.Build()
		if err != nil {
			return outputFailure(formatter, ErrCodeBuild, fmt.Errorf("%s: %w", c.Doc.Name, err))
		}
		slog.Debug("query rendered", "name", c.Doc.Name, "params", len(stmt.Params))
		rendered = append(rendered, newRenderedQuery(c.Doc, stmt))
	}

	return formatter.Success(rendered, func(w io.Writer) error {
		for i, r := range rendered {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeRendered(w, r)
		}
		return nil
	})
}

// selectQuery narrows compiled to the query called name, if set.
func selectQuery(compiled []querydoc.Compiled, name string) ([]querydoc.Compiled, error) {
	if name == "" {
		return compiled, nil
	}
	for _, c := range compiled {
		if c.Doc.Name == name {
			return []querydoc.Compiled{c}, nil
		}
	}
	return nil, fmt.Errorf("no query named %q", name)
}

func newRenderedQuery(doc querydoc.Document, stmt *flexsearch.Statement) RenderedQuery {
	r := RenderedQuery{
		Name:        doc.Name,
		Description: doc.Description,
		Dialect:     stmt.Dialect,
		Query:       stmt.Query,
		Count:       stmt.Count,
	}
	for _, p := range stmt.Params {
		r.Params = append(r.Params, ParamView{Name: p.Name, Value: p.Value, Type: fmt.Sprintf("%T", p.Value)})
	}
	for _, t := range stmt.ResultTypes {
		r.ResultTypes = append(r.ResultTypes, t.String())
	}
	return r
}

func writeRendered(w io.Writer, r RenderedQuery) {
	fmt.Fprintf(w, "-- %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(w, "-- %s\n", r.Description)
	}
	fmt.Fprintln(w, r.Query)
	if r.Count > 0 {
		fmt.Fprintf(w, "count: %d\n", r.Count)
	}
	if len(r.Params) > 0 {
		rows := make([]table.Row, len(r.Params))
		for i, p := range r.Params {
			rows[i] = table.Row{p.Name, p.Value, p.Type}
		}
		Table(w, table.Row{"PARAM", "VALUE", "TYPE"}, rows)
	}
}

// outputFailure reports err under code and returns the matching exit error.
func outputFailure(formatter *OutputFormatter, code string, err error) error {
	var details any
	var compileErr *querydoc.CompileError
	if errors.As(err, &compileErr) {
		details = map[string]string{"query": compileErr.Query, "field": compileErr.Field}
	}
	if bc := flexsearch.ErrorCode(err); bc != "" {
		details = map[string]string{"build_error": string(bc)}
	}
	_ = formatter.Error(code, err.Error(), details)
	return reportedExitError(ExitFailure, code, err)
}
