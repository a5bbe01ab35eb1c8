package flexsearch

import (
	"fmt"
	"strings"
)

// Dialect renders the leaves of a query tree into one concrete query language.
//
// The tree walk (clause order, parameter collection, errors) is shared;
// a Dialect only decides how each leaf is spelled.
type Dialect interface {
	// Name identifies the dialect in statements and CLI output.
	Name() string

	// Column renders an attribute reference. locale is "" when unlocalized.
	Column(alias, name, locale string) string

	// Ident renders a table or alias identifier.
	Ident(name string) string

	// From renders the FROM body: rendered base table, raw alias, rendered joins.
	From(table, alias string, joins []string) string

	// Operand joins a comparison operator to its right-hand side.
	Operand(op, rhs string) string

	// Placeholder renders a bound parameter. position is 1-based in text order.
	Placeholder(name string, position int) string

	// Positional reports whether parameters bind by position rather than name.
	Positional() bool

	// Subquery renders an embedded query with an optional alias.
	Subquery(inner, alias string) string

	// Union renders two embedded queries combined with UNION or UNION ALL.
	Union(left, right string, all bool, alias string) string

	// Limit renders a row limit clause, or "" when the limit travels out of band.
	Limit(n int) string

	// Raw reports whether raw query text can be embedded verbatim.
	Raw() bool
}

// FlexibleSearch is the bracket-and-placeholder dialect of the host
// persistence layer: {alias:column}, ?name placeholders, ({{inner}}) subqueries.
var FlexibleSearch Dialect = flexibleSearch{}

type flexibleSearch struct{}

func (flexibleSearch) Name() string { return "flexiblesearch" }

func (flexibleSearch) Column(alias, name, locale string) string {
	if locale != "" {
		name = name + "[" + locale + "]"
	}
	if alias != "" {
		return "{" + alias + ":" + name + "}"
	}
	return "{" + name + "}"
}

func (flexibleSearch) Ident(name string) string { return name }

// From keeps a trailing space after every join inside the braces; the
// host parser has always been fed that shape.
func (flexibleSearch) From(table, alias string, joins []string) string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(table)
	if alias != "" {
		b.WriteString(" AS ")
		b.WriteString(alias)
	}
	if len(joins) > 0 {
		b.WriteString(" ")
		for _, j := range joins {
			b.WriteString(j)
			b.WriteString(" ")
		}
	}
	b.WriteString("}")
	return b.String()
}

func (flexibleSearch) Operand(op, rhs string) string { return op + "  " + rhs }

func (flexibleSearch) Placeholder(name string, _ int) string { return "?" + name }

func (flexibleSearch) Positional() bool { return false }

func (flexibleSearch) Subquery(inner, alias string) string {
	return "({{" + inner + "}}) " + alias
}

func (flexibleSearch) Union(left, right string, all bool, alias string) string {
	op := "UNION"
	if all {
		op = "UNION ALL"
	}
	return "({{" + left + "}} " + op + " {{" + right + "}}) " + alias
}

func (flexibleSearch) Limit(int) string { return "" }

func (flexibleSearch) Raw() bool { return true }

// sqlDialect lowers the tree to plain SQL for syntax checking and
// for hosts that execute against the underlying schema directly.
type sqlDialect struct {
	name        string
	quote       byte
	placeholder func(position int) string
}

// MySQL renders backtick-quoted identifiers and ? placeholders.
var MySQL Dialect = sqlDialect{
	name:        "mysql",
	quote:       '`',
	placeholder: func(int) string { return "?" },
}

// PostgreSQL renders double-quoted identifiers and $n placeholders.
var PostgreSQL Dialect = sqlDialect{
	name:        "postgresql",
	quote:       '"',
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

func (d sqlDialect) Name() string { return d.name }

func (d sqlDialect) ident(s string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(s, q, q+q) + q
}

// Column maps a localized attribute onto a name_locale column.
func (d sqlDialect) Column(alias, name, locale string) string {
	if locale != "" {
		name = name + "_" + locale
	}
	if alias != "" {
		return d.ident(alias) + "." + d.ident(name)
	}
	return d.ident(name)
}

func (d sqlDialect) Ident(name string) string { return d.ident(name) }

func (d sqlDialect) From(table, alias string, joins []string) string {
	parts := []string{table}
	if alias != "" {
		parts = append(parts, "AS", d.ident(alias))
	}
	parts = append(parts, joins...)
	return strings.Join(parts, " ")
}

func (sqlDialect) Operand(op, rhs string) string { return op + " " + rhs }

func (d sqlDialect) Placeholder(_ string, position int) string { return d.placeholder(position) }

func (sqlDialect) Positional() bool { return true }

func (d sqlDialect) Subquery(inner, alias string) string {
	if alias == "" {
		return "(" + inner + ")"
	}
	return "(" + inner + ") AS " + d.ident(alias)
}

func (d sqlDialect) Union(left, right string, all bool, alias string) string {
	op := " UNION "
	if all {
		op = " UNION ALL "
	}
	return d.Subquery(left+op+right, alias)
}

func (sqlDialect) Limit(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", n)
}

func (sqlDialect) Raw() bool { return false }

// DialectByName returns the dialect registered under name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "flexiblesearch", "fs":
		return FlexibleSearch, nil
	case "mysql":
		return MySQL, nil
	case "postgresql", "postgres", "pg":
		return PostgreSQL, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q: must be one of flexiblesearch, mysql, postgresql", name)
	}
}
