// Package sqlcheck lowers built queries to plain SQL and checks that the
// result parses in the target engine.
package sqlcheck

import (
	"fmt"
	"strings"

	"github.com/roach88/fsq/pkg/flexsearch"
)

// Engine names a SQL parser.
type Engine string

const (
	// MySQL parses with the vitess-derived MySQL grammar.
	MySQL Engine = "mysql"
	// TiDB parses with the TiDB MySQL-compatible grammar.
	TiDB Engine = "tidb"
	// PostgreSQL parses with libpg_query, the PostgreSQL server grammar.
	PostgreSQL Engine = "postgresql"
)

// Engines lists every supported engine.
var Engines = []Engine{MySQL, TiDB, PostgreSQL}

// ParseEngine returns the engine registered under name.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQL, nil
	case "tidb":
		return TiDB, nil
	case "postgresql", "postgres", "pg":
		return PostgreSQL, nil
	default:
		return "", fmt.Errorf("unknown engine %q: must be one of mysql, tidb, postgresql", name)
	}
}

// Dialect returns the dialect a query is lowered to for this engine.
func (e Engine) Dialect() flexsearch.Dialect {
	if e == PostgreSQL {
		return flexsearch.PostgreSQL
	}
	return flexsearch.MySQL
}

// Result is the outcome of checking one statement.
type Result struct {
	Engine Engine   `json:"engine"`
	SQL    string   `json:"sql"`
	Args   []any    `json:"args,omitempty"`
	Tables []string `json:"tables,omitempty"` // base tables referenced, first-seen order
	Valid  bool     `json:"valid"`
	Error  string   `json:"error,omitempty"`
}

// Check lowers q to the engine's dialect and parses the result.
// Build errors are returned as errors; parse failures are reported in
// the Result with Valid false.
func Check(q *flexsearch.Query, engine Engine) (*Result, error) {
	stmt, err := q.BuildWith(engine.Dialect())
	if err != nil {
		return nil, err
	}
	res, err := Validate(engine, stmt.Query)
	if err != nil {
		return nil, err
	}
	res.Args = stmt.Args()
	return res, nil
}

// Validate parses sql with the engine's parser.
func Validate(engine Engine, sql string) (*Result, error) {
	var parse func(string) ([]string, error)
	switch engine {
	case MySQL:
		parse = mysqlTables
	case TiDB:
		parse = tidbTables
	case PostgreSQL:
		parse = postgresTables
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}

	res := &Result{Engine: engine, SQL: sql}
	tables, err := parse(sql)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.Valid = true
	res.Tables = tables
	return res, nil
}

// tableSet collects table names in first-seen order.
type tableSet struct {
	names []string
	seen  map[string]bool
}

func (s *tableSet) add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}
