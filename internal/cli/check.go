package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/fsq/internal/sqlcheck"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Query string
}

// CheckedQuery is the output of checking one document.
type CheckedQuery struct {
	Name string `json:"name"`
	*sqlcheck.Result
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Lower query documents to SQL and syntax-check them",
		Long: `Lower every query in a document file to SQL and parse it with the
selected engine's grammar. Reports the referenced tables of each valid
statement.

Example:
  fsq check queries.yaml
  fsq check --engine postgresql --format json queries.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().String("engine", "mysql", "SQL engine (mysql|tidb|postgresql)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "check only the named query")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
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

	engine := opts.Config.CheckEngine()
	compiled, code, err := sess.compile(cmd.Context(), path)
	if err != nil {
		return outputFailure(formatter, code, err)
	}
	compiled, err = selectQuery(compiled, opts.Query)
	if err != nil {
		return outputFailure(formatter, ErrCodeGeneric, err)
	}

	results := make([]CheckedQuery, 0, len(compiled))
	invalid := 0
	for _, c := range compiled {
		res, err := sqlcheck.Check(c.Query, engine)
		if err != nil {
			return outputFailure(formatter, ErrCodeBuild, fmt.Errorf("%s: %w", c.Doc.Name, err))
		}
		slog.Debug("query checked", "name", c.Doc.Name, "engine", engine, "valid", res.Valid)
		if !res.Valid {
			invalid++
		}
		results = append(results, CheckedQuery{Name: c.Doc.Name, Result: res})
	}

	if err := formatter.Success(results, func(w io.Writer) error {
		writeChecked(w, results)
		return nil
	}); err != nil {
		return err
	}

	if invalid > 0 {
		return reportedExitError(ExitFailure, fmt.Sprintf("%s: %d of %d queries rejected by %s", ErrCodeSQL, invalid, len(results), engine), nil)
	}
	return nil
}

func writeChecked(w io.Writer, results []CheckedQuery) {
	rows := make([]table.Row, len(results))
	for i, r := range results {
		status := "ok"
		detail := strings.Join(r.Tables, ", ")
		if !r.Valid {
			status = "invalid"
			detail = r.Error
		}
		rows[i] = table.Row{r.Name, r.Engine, status, detail}
	}
	Table(w, table.Row{"QUERY", "ENGINE", "STATUS", "TABLES / ERROR"}, rows)

	for _, r := range results {
		fmt.Fprintf(w, "\n-- %s\n%s\n", r.Name, r.SQL)
	}
}
