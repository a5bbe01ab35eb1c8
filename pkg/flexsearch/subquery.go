package flexsearch

// SubQuery is a query embedded in an IN, EXISTS or FROM position.
//
// This is a sealed interface - CommonSubQuery and UnionSubQuery are the
// only implementations.
type SubQuery interface {
	subqueryNode()

	// Alias returns the derived-table alias ("" = none).
	Alias() string
}

// CommonSubQuery wraps one inner query: a subquery context, a select
// clause, or raw query text.
//
// Renders as ({{inner}}) alias. Parameters bound inside a subquery
// context or attached to raw text are carried into the enclosing
// statement.
type CommonSubQuery struct {
	query  *Query
	sel    Selector
	text   string
	params []Param
	alias  string
}

func (CommonSubQuery) subqueryNode() {}

// Alias returns the derived-table alias.
func (s CommonSubQuery) Alias() string { return s.alias }

// As returns a copy of the subquery with an alias.
func (s CommonSubQuery) As(alias string) CommonSubQuery {
	s.alias = canonical(alias)
	return s
}

// Subquery embeds a subquery context created with Query.Sub.
func Subquery(q *Query) CommonSubQuery {
	return CommonSubQuery{query: q}
}

// SubqueryOf embeds a bare select.
func SubqueryOf(sel Selector) CommonSubQuery {
	return CommonSubQuery{sel: sel}
}

// RawSubquery embeds query text verbatim, collapsed to a single line.
// params lists the bindings for any ?name placeholders in text.
// Raw text only renders in dialects that accept it.
func RawSubquery(text string, params ...Param) CommonSubQuery {
	return CommonSubQuery{text: singleLine(text), params: params}
}

// UnionSubQuery combines two subqueries.
//
// Renders as ({{left}} UNION [ALL] {{right}}) alias.
type UnionSubQuery struct {
	Left  CommonSubQuery
	Right CommonSubQuery
	All   bool

	alias string
}

func (UnionSubQuery) subqueryNode() {}

// Alias returns the derived-table alias.
func (u UnionSubQuery) Alias() string { return u.alias }

// As returns a copy of the union with an alias.
func (u UnionSubQuery) As(alias string) UnionSubQuery {
	u.alias = canonical(alias)
	return u
}

// Union combines left and right with UNION (duplicates removed).
func Union(left, right CommonSubQuery) UnionSubQuery {
	return UnionSubQuery{Left: left, Right: right}
}

// UnionAll combines left and right with UNION ALL.
func UnionAll(left, right CommonSubQuery) UnionSubQuery {
	return UnionSubQuery{Left: left, Right: right, All: true}
}
