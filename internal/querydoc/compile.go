package querydoc

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/fsq/pkg/flexsearch"
)

// TypeNames resolves a Go model type name to its item type code.
// The type catalog implements it.
type TypeNames interface {
	Lookup(ctx context.Context, typeName string) (string, error)
}

// Compiled pairs a document with the query built from it.
type Compiled struct {
	Doc   Document
	Query *flexsearch.Query
}

// CompileAll compiles every document in f, stopping at the first error.
func CompileAll(ctx context.Context, f *File, names TypeNames, opts ...flexsearch.Option) ([]Compiled, error) {
	out := make([]Compiled, 0, len(f.Queries))
	for _, doc := range f.Queries {
		q, err := Compile(ctx, doc, names, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, Compiled{Doc: doc, Query: q})
	}
	return out, nil
}

// Compile builds the query declared by doc. names may be nil when the
// document references no type: names.
func Compile(ctx context.Context, doc Document, names TypeNames, opts ...flexsearch.Option) (*flexsearch.Query, error) {
	c := &compiler{ctx: ctx, names: names, query: doc.Name}
	q := flexsearch.NewQuery(opts...)
	if err := c.document(q, doc, ""); err != nil {
		return nil, err
	}
	return q, nil
}

type compiler struct {
	ctx   context.Context
	names TypeNames
	query string
}

func (c *compiler) errorf(path, format string, args ...any) error {
	return &CompileError{Query: c.query, Field: path, Message: fmt.Sprintf(format, args...)}
}

func (c *compiler) wrap(path, msg string, err error) error {
	return &CompileError{Query: c.query, Field: path, Message: msg, Err: err}
}

// document records doc into q. prefix is the field path of doc inside
// the top-level document ("" at the top).
func (c *compiler) document(q *flexsearch.Query, doc Document, prefix string) error {
	sel, err := c.selector(q, doc.Select, prefix+"select")
	if err != nil {
		return err
	}
	q.Select(sel)

	if err := c.chain(q, doc.Where, prefix+"where", false); err != nil {
		return err
	}

	if len(doc.GroupBy) > 0 {
		keys := make([]flexsearch.Ref, len(doc.GroupBy))
		for i, attr := range doc.GroupBy {
			col, err := ParseAttr(attr)
			if err != nil {
				return c.wrap(fmt.Sprintf("%sgroup_by[%d]", prefix, i), "bad group key", err)
			}
			keys[i] = col
		}
		q.GroupBy(keys...)
	}

	if err := c.chain(q, doc.Having, prefix+"having", true); err != nil {
		return err
	}

	if len(doc.OrderBy) > 0 {
		keys := make([]flexsearch.Ordering, len(doc.OrderBy))
		for i, o := range doc.OrderBy {
			r, err := ref(o.Attr, o.Func, false)
			if err != nil {
				return c.wrap(fmt.Sprintf("%sorder_by[%d]", prefix, i), "bad order key", err)
			}
			if o.Desc {
				keys[i] = flexsearch.Desc(r)
			} else {
				keys[i] = flexsearch.Asc(r)
			}
		}
		q.OrderBy(keys...)
	}

	if doc.Limit < 0 {
		return c.errorf(prefix+"limit", "limit must not be negative")
	}
	q.Limit(doc.Limit)
	return nil
}

func (c *compiler) selector(q *flexsearch.Query, s Select, path string) (flexsearch.Selector, error) {
	fields, err := c.fields(s.Fields, path)
	if err != nil {
		return nil, err
	}

	switch {
	case s.FromQuery != nil:
		sub, err := c.subquery(q, *s.FromQuery, path+".from_query")
		if err != nil {
			return nil, err
		}
		return c.derived(sub.As(s.Alias), fields, s.Distinct), nil

	case len(s.Union) > 0:
		if len(s.Union) != 2 {
			return nil, c.errorf(path+".union", "union takes exactly two queries")
		}
		left, err := c.subquery(q, s.Union[0], path+".union[0]")
		if err != nil {
			return nil, err
		}
		right, err := c.subquery(q, s.Union[1], path+".union[1]")
		if err != nil {
			return nil, err
		}
		u := flexsearch.Union(left, right)
		if s.UnionAll {
			u = flexsearch.UnionAll(left, right)
		}
		return c.derived(u.As(s.Alias), fields, s.Distinct), nil
	}

	table, err := c.table(s.Table, s.Type, path)
	if err != nil {
		return nil, err
	}
	var sel flexsearch.SelectClause
	if s.Alias != "" {
		sel = flexsearch.SelectFrom(table.As(flexsearch.Alias(s.Alias)))
	} else {
		sel = flexsearch.SelectFrom(table)
	}
	sel = sel.Fields(fields...)

	for i, j := range s.Joins {
		jc, err := c.join(j, fmt.Sprintf("%s.joins[%d]", path, i))
		if err != nil {
			return nil, err
		}
		sel = sel.Join(jc)
	}
	if s.Distinct {
		sel = sel.Distinct()
	}
	return sel, nil
}

func (c *compiler) derived(sub flexsearch.SubQuery, fields []flexsearch.Field, distinct bool) flexsearch.Selector {
	sel := flexsearch.SelectFromSubquery(sub, fields...)
	if distinct {
		sel = sel.Distinct()
	}
	return sel
}

func (c *compiler) fields(specs []Field, path string) ([]flexsearch.Field, error) {
	var out []flexsearch.Field
	for i, f := range specs {
		fp := fmt.Sprintf("%s.fields[%d]", path, i)
		r, err := ref(f.Attr, f.Func, f.Distinct)
		if err != nil {
			return nil, c.wrap(fp, "bad field", err)
		}
		field, err := typedField(r, f.Result)
		if err != nil {
			return nil, c.wrap(fp+".result", "bad result type", err)
		}
		out = append(out, field)
	}
	return out, nil
}

// table resolves a literal table name or a model type name.
func (c *compiler) table(name, typeName, path string) (flexsearch.TableRef, error) {
	if typeName == "" {
		return flexsearch.Table(name), nil
	}
	if c.names == nil {
		return flexsearch.TableRef{}, c.errorf(path+".type", "type %q cannot be resolved without a type catalog", typeName)
	}
	code, err := c.names.Lookup(c.ctx, typeName)
	if err != nil {
		return flexsearch.TableRef{}, c.wrap(path+".type", "cannot resolve type", errors.Join(flexsearch.NewInvalidType(typeName), err))
	}
	return flexsearch.Table(code), nil
}

func (c *compiler) join(j Join, path string) (flexsearch.JoinClause, error) {
	table, err := c.table(j.Table, j.Type, path)
	if err != nil {
		return flexsearch.JoinClause{}, err
	}
	if j.Alias == "" {
		return flexsearch.JoinClause{}, c.errorf(path+".alias", "joined tables must be aliased")
	}
	if len(j.On) != 2 {
		return flexsearch.JoinClause{}, c.errorf(path+".on", "on takes exactly two attributes")
	}
	left, err := joinAttr(j.On[0])
	if err != nil {
		return flexsearch.JoinClause{}, c.wrap(path+".on[0]", "bad join attribute", err)
	}
	right, err := joinAttr(j.On[1])
	if err != nil {
		return flexsearch.JoinClause{}, c.wrap(path+".on[1]", "bad join attribute", err)
	}

	target := table.As(flexsearch.Alias(j.Alias))
	var jc flexsearch.JoinClause
	switch strings.ToLower(j.Kind) {
	case "", "inner":
		jc = flexsearch.Join(target, left, right)
	case "left":
		jc = flexsearch.LeftJoin(target, left, right)
	case "right":
		jc = flexsearch.RightJoin(target, left, right)
	default:
		return flexsearch.JoinClause{}, c.errorf(path+".kind", "unknown join kind %q: must be inner, left or right", j.Kind)
	}
	if j.Outer {
		jc = jc.Outer()
	}
	return jc, nil
}

func joinAttr(s string) (flexsearch.Attr, error) {
	col, err := ParseAttr(s)
	if err != nil {
		return flexsearch.Attr{}, err
	}
	attr, ok := col.(flexsearch.Attr)
	if !ok {
		return flexsearch.Attr{}, fmt.Errorf("join attribute %q cannot be localized", s)
	}
	return attr, nil
}

func (c *compiler) subquery(q *flexsearch.Query, doc Document, path string) (flexsearch.CommonSubQuery, error) {
	sub := q.Sub()
	if err := c.document(sub, doc, path+"."); err != nil {
		return flexsearch.CommonSubQuery{}, err
	}
	return flexsearch.Subquery(sub), nil
}

// predicateSub builds the subquery of an IN or EXISTS predicate.
func (c *compiler) predicateSub(q *flexsearch.Query, p Predicate, path string) (flexsearch.SubQuery, error) {
	switch {
	case p.Subquery != nil && p.Raw != "":
		return nil, c.errorf(path, "subquery and raw are mutually exclusive")
	case p.Subquery != nil:
		return c.subquery(q, *p.Subquery, path+".subquery")
	case p.Raw != "":
		params := make([]flexsearch.Param, 0, len(p.Params))
		for _, name := range slices.Sorted(maps.Keys(p.Params)) {
			v, err := convert(p.Params[name], p.ValueType)
			if err != nil {
				return nil, c.wrap(path+".params."+name, "bad parameter", err)
			}
			params = append(params, flexsearch.NewParam(name, v))
		}
		return flexsearch.RawSubquery(p.Raw, params...), nil
	default:
		return nil, c.errorf(path, "subquery or raw is required")
	}
}

// comparisons maps a normalized operator onto its builder.
var comparisons = map[string]func(*flexsearch.Query, flexsearch.Ref, any) flexsearch.Condition{
	"=":        (*flexsearch.Query).Eq,
	"<>":       (*flexsearch.Query).NotEq,
	"<":        (*flexsearch.Query).Lt,
	"<=":       (*flexsearch.Query).Lte,
	">":        (*flexsearch.Query).Gt,
	">=":       (*flexsearch.Query).Gte,
	"like":     (*flexsearch.Query).Like,
	"not like": (*flexsearch.Query).NotLike,
}

var opAliases = map[string]string{
	"eq":  "=",
	"==":  "=",
	"ne":  "<>",
	"!=":  "<>",
	"lt":  "<",
	"lte": "<=",
	"gt":  ">",
	"gte": ">=",
}

func normalizeOp(op string) string {
	op = strings.Join(strings.Fields(strings.ToLower(op)), " ")
	if alias, ok := opAliases[op]; ok {
		return alias
	}
	return op
}

func (c *compiler) chain(q *flexsearch.Query, preds []Predicate, path string, having bool) error {
	for i, p := range preds {
		pp := fmt.Sprintf("%s[%d]", path, i)

		var braces []flexsearch.Brace
		if p.Open {
			braces = append(braces, flexsearch.OpenParen)
		}
		if p.Close {
			braces = append(braces, flexsearch.CloseParen)
		}

		conj := strings.ToLower(p.Conj)
		if i > 0 && conj != "" && conj != "and" && conj != "or" {
			return c.errorf(pp+".conj", "unknown conjunction %q: must be and or or", p.Conj)
		}
		or := conj == "or"

		op := normalizeOp(p.Op)
		if op == "exists" || op == "not exists" {
			if i == 0 && having {
				return c.errorf(pp+".op", "HAVING cannot start with %s", strings.ToUpper(op))
			}
			if p.Attr != "" {
				return c.errorf(pp+".attr", "%s takes no attribute", op)
			}
			sub, err := c.predicateSub(q, p, pp)
			if err != nil {
				return err
			}
			negate := op == "not exists"
			switch {
			case i == 0 && negate:
				q.WhereNotExists(sub, braces...)
			case i == 0:
				q.WhereExists(sub, braces...)
			case or && negate:
				q.OrNotExists(sub, braces...)
			case or:
				q.OrExists(sub, braces...)
			case negate:
				q.AndNotExists(sub, braces...)
			default:
				q.AndExists(sub, braces...)
			}
			continue
		}

		cond, err := c.condition(q, p, op, pp)
		if err != nil {
			return err
		}
		switch {
		case i == 0 && having:
			q.Having(cond, braces...)
		case i == 0:
			q.Where(cond, braces...)
		case or:
			q.Or(cond, braces...)
		default:
			q.And(cond, braces...)
		}
	}
	return nil
}

func (c *compiler) condition(q *flexsearch.Query, p Predicate, op, path string) (flexsearch.Condition, error) {
	if p.Attr == "" {
		return flexsearch.Condition{}, c.errorf(path+".attr", "attr is required")
	}
	left, err := ref(p.Attr, p.Func, false)
	if err != nil {
		return flexsearch.Condition{}, c.wrap(path+".attr", "bad attribute", err)
	}

	switch op {
	case "is null":
		return q.IsNull(left), nil
	case "is not null":
		return q.IsNotNull(left), nil

	case "between", "not between":
		if len(p.Values) != 2 {
			return flexsearch.Condition{}, c.errorf(path+".values", "%s takes exactly two values", op)
		}
		vals, err := c.values(p.Values, p.ValueType, path)
		if err != nil {
			return flexsearch.Condition{}, err
		}
		if op == "between" {
			return q.Between(left, vals[0], vals[1]), nil
		}
		return q.NotBetween(left, vals[0], vals[1]), nil

	case "in", "not in":
		if p.Subquery != nil || p.Raw != "" {
			sub, err := c.predicateSub(q, p, path)
			if err != nil {
				return flexsearch.Condition{}, err
			}
			if op == "in" {
				return q.InSub(left, sub), nil
			}
			return q.NotInSub(left, sub), nil
		}
		vals, err := c.values(p.Values, p.ValueType, path)
		if err != nil {
			return flexsearch.Condition{}, err
		}
		if op == "in" {
			return q.In(left, vals...), nil
		}
		return q.NotIn(left, vals...), nil
	}

	build, ok := comparisons[op]
	if !ok {
		return flexsearch.Condition{}, c.errorf(path+".op", "unknown operator %q", p.Op)
	}
	if p.Column != "" {
		if p.Value != nil {
			return flexsearch.Condition{}, c.errorf(path, "value and column are mutually exclusive")
		}
		col, err := ParseAttr(p.Column)
		if err != nil {
			return flexsearch.Condition{}, c.wrap(path+".column", "bad column", err)
		}
		return build(q, left, col), nil
	}
	if p.Value == nil {
		return flexsearch.Condition{}, c.errorf(path+".value", "%s needs a value or a column", op)
	}
	v, err := convert(p.Value, p.ValueType)
	if err != nil {
		return flexsearch.Condition{}, c.wrap(path+".value", "bad value", err)
	}
	return build(q, left, v), nil
}

func (c *compiler) values(in []any, tag, path string) ([]any, error) {
	out := make([]any, len(in))
	for i, v := range in {
		conv, err := convert(v, tag)
		if err != nil {
			return nil, c.wrap(fmt.Sprintf("%s.values[%d]", path, i), "bad value", err)
		}
		out[i] = conv
	}
	return out, nil
}
