package flexsearch

import "fmt"

// Query is the per-statement building context.
//
// A Query owns the parameter counter for one statement: every comparison
// built through it (and through its Sub contexts) gets a name that is
// unique across the whole statement. Contexts are independent of each
// other, so statements can be built concurrently as long as each goroutine
// uses its own Query.
//
// Clause methods record into the context and return it for chaining.
// The first misuse is kept and reported by Build.
type Query struct {
	counter  *counter
	resolver TypeResolver
	dialect  Dialect

	sel     Selector
	where   []predicate
	groupBy []Ref
	having  []predicate
	orderBy []Ordering
	limit   int

	stage stage
	err   error
}

// stage tracks which clause AND/OR currently extend.
type stage int

const (
	stageSelect stage = iota
	stageWhere
	stageGroupBy
	stageHaving
	stageOrderBy
)

// Option configures a Query.
type Option func(*Query)

// WithResolver sets the resolver used by Type.
func WithResolver(r TypeResolver) Option {
	return func(q *Query) { q.resolver = r }
}

// WithDialect sets the dialect used by Build.
func WithDialect(d Dialect) Option {
	return func(q *Query) { q.dialect = d }
}

// NewQuery creates a context for building one statement.
// The default dialect is FlexibleSearch; the default resolver is TypeCodes.
func NewQuery(opts ...Option) *Query {
	q := &Query{
		counter:  &counter{},
		resolver: TypeCodes,
		dialect:  FlexibleSearch,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Sub creates a subquery context that shares this context's parameter
// counter, resolver and dialect.
func (q *Query) Sub() *Query {
	return &Query{
		counter:  q.counter,
		resolver: q.resolver,
		dialect:  q.dialect,
	}
}

// Type resolves model to a table reference with the context's resolver.
// A resolution failure is recorded and returned by Build.
func (q *Query) Type(model any) TableRef {
	t, err := TableFor(q.resolver, model)
	if err != nil {
		q.fail(err)
		t.err = err
	}
	return t
}

// Brace opens or closes a parenthesised group around a condition.
type Brace int

const (
	// OpenParen renders "(" before the condition.
	OpenParen Brace = iota + 1
	// CloseParen renders ")" after the condition.
	CloseParen
)

// predicate is one link of a WHERE or HAVING chain.
type predicate struct {
	keyword string // WHERE, AND, OR, HAVING
	cond    Condition
	exists  SubQuery // set for EXISTS links
	negate  bool     // NOT EXISTS
	open    bool
	close   bool
}

func newPredicate(keyword string, braces []Brace) predicate {
	p := predicate{keyword: keyword}
	for _, b := range braces {
		switch b {
		case OpenParen:
			p.open = true
		case CloseParen:
			p.close = true
		}
	}
	return p
}

// Select sets the SELECT ... FROM part.
func (q *Query) Select(sel Selector) *Query {
	if sel == nil {
		q.fail(&BuildError{Code: ErrCodeNoSelect, Message: "nil selector"})
		return q
	}
	q.sel = sel
	return q
}

// Where starts the WHERE chain.
func (q *Query) Where(c Condition, braces ...Brace) *Query {
	p := newPredicate("WHERE", braces)
	p.cond = c
	return q.startWhere(p)
}

// WhereExists starts the WHERE chain with EXISTS (sub).
func (q *Query) WhereExists(sub SubQuery, braces ...Brace) *Query {
	p := newPredicate("WHERE", braces)
	p.exists = sub
	return q.startWhere(p)
}

// WhereNotExists starts the WHERE chain with NOT EXISTS (sub).
func (q *Query) WhereNotExists(sub SubQuery, braces ...Brace) *Query {
	p := newPredicate("WHERE", braces)
	p.exists = sub
	p.negate = true
	return q.startWhere(p)
}

func (q *Query) startWhere(p predicate) *Query {
	if q.stage >= stageWhere {
		q.fail(clauseOrder("WHERE must come first and only once, before GROUP BY, HAVING and ORDER BY"))
		return q
	}
	q.stage = stageWhere
	q.where = append(q.where, p)
	return q
}

// And extends the open WHERE or HAVING chain.
func (q *Query) And(c Condition, braces ...Brace) *Query {
	p := newPredicate("AND", braces)
	p.cond = c
	return q.extend(p)
}

// Or extends the open WHERE or HAVING chain.
func (q *Query) Or(c Condition, braces ...Brace) *Query {
	p := newPredicate("OR", braces)
	p.cond = c
	return q.extend(p)
}

// AndExists extends the open chain with AND EXISTS (sub).
func (q *Query) AndExists(sub SubQuery, braces ...Brace) *Query {
	p := newPredicate("AND", braces)
	p.exists = sub
	return q.extend(p)
}

// AndNotExists extends the open chain with AND NOT EXISTS (sub).
func (q *Query) AndNotExists(sub SubQuery, braces ...Brace) *Query {
	p := newPredicate("AND", braces)
	p.exists = sub
	p.negate = true
	return q.extend(p)
}

// OrExists extends the open chain with OR EXISTS (sub).
func (q *Query) OrExists(sub SubQuery, braces ...Brace) *Query {
	p := newPredicate("OR", braces)
	p.exists = sub
	return q.extend(p)
}

// OrNotExists extends the open chain with OR NOT EXISTS (sub).
func (q *Query) OrNotExists(sub SubQuery, braces ...Brace) *Query {
	p := newPredicate("OR", braces)
	p.exists = sub
	p.negate = true
	return q.extend(p)
}

func (q *Query) extend(p predicate) *Query {
	switch q.stage {
	case stageWhere:
		q.where = append(q.where, p)
	case stageHaving:
		q.having = append(q.having, p)
	default:
		q.fail(clauseOrder(fmt.Sprintf("%s without an open WHERE or HAVING", p.keyword)))
	}
	return q
}

// GroupBy sets the GROUP BY keys.
func (q *Query) GroupBy(refs ...Ref) *Query {
	if q.stage >= stageGroupBy {
		q.fail(clauseOrder("GROUP BY must come once, before HAVING and ORDER BY"))
		return q
	}
	q.stage = stageGroupBy
	q.groupBy = refs
	return q
}

// Having starts the HAVING chain.
func (q *Query) Having(c Condition, braces ...Brace) *Query {
	if q.stage >= stageHaving {
		q.fail(clauseOrder("HAVING must come once, before ORDER BY"))
		return q
	}
	p := newPredicate("HAVING", braces)
	p.cond = c
	q.stage = stageHaving
	q.having = append(q.having, p)
	return q
}

// OrderBy sets the ORDER BY keys.
func (q *Query) OrderBy(keys ...Ordering) *Query {
	if q.stage >= stageOrderBy {
		q.fail(clauseOrder("ORDER BY must come once"))
		return q
	}
	q.stage = stageOrderBy
	q.orderBy = keys
	return q
}

// Limit sets the row limit of the built statement (the host's count).
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Err returns the first error recorded while building.
func (q *Query) Err() error { return q.err }

func (q *Query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Build renders the statement in the context's dialect.
func (q *Query) Build() (*Statement, error) {
	return q.BuildWith(q.dialect)
}

// BuildWith renders the statement in dialect d. Building is pure: the
// context can be built again, in any dialect, with the same result.
func (q *Query) BuildWith(d Dialect) (*Statement, error) {
	r := newRenderer(d)
	text, err := r.query(q)
	if err != nil {
		return nil, err
	}
	return &Statement{
		Query:       text,
		Params:      r.params,
		ResultTypes: q.sel.resultTypes(),
		Count:       q.limit,
		Dialect:     d.Name(),
	}, nil
}
