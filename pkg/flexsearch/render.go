package flexsearch

import (
	"fmt"
	"strings"
)

// renderer walks a query tree, emits text in one dialect and collects
// parameters in the order their placeholders appear.
type renderer struct {
	d      Dialect
	params []Param
	seen   map[string]*paramKey
}

func newRenderer(d Dialect) *renderer {
	return &renderer{d: d, seen: make(map[string]*paramKey)}
}

// bind records p and returns its placeholder. Rendering one binding
// twice is allowed (a reused condition); two different bindings under one
// name are not.
func (r *renderer) bind(p Param) (string, error) {
	if err := r.record(p); err != nil {
		return "", err
	}
	if r.d.Positional() {
		return r.d.Placeholder(p.Name, len(r.params)), nil
	}
	return r.d.Placeholder(p.Name, 0), nil
}

func (r *renderer) record(p Param) error {
	key, ok := r.seen[p.Name]
	if ok && key != p.key {
		return &BuildError{
			Code:    ErrCodeDuplicateParam,
			Message: "two bindings share one placeholder name",
			Detail:  p.Name,
		}
	}
	if ok && !r.d.Positional() {
		return nil
	}
	r.seen[p.Name] = p.key
	r.params = append(r.params, p)
	return nil
}

func (r *renderer) query(q *Query) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if q.sel == nil {
		return "", &BuildError{Code: ErrCodeNoSelect, Message: "query has no SELECT"}
	}

	head, err := r.selector(q.sel)
	if err != nil {
		return "", err
	}
	parts := []string{head}

	where, err := r.chain(q.where)
	if err != nil {
		return "", err
	}
	parts = append(parts, where...)

	if len(q.groupBy) > 0 {
		parts = append(parts, "GROUP BY "+r.refList(q.groupBy))
	}

	having, err := r.chain(q.having)
	if err != nil {
		return "", err
	}
	parts = append(parts, having...)

	if len(q.orderBy) > 0 {
		keys := make([]string, len(q.orderBy))
		for i, o := range q.orderBy {
			keys[i] = r.ref(o.Ref) + " " + string(o.Dir)
		}
		parts = append(parts, "ORDER BY "+strings.Join(keys, ", "))
	}

	if limit := r.d.Limit(q.limit); limit != "" {
		parts = append(parts, limit)
	}
	return strings.Join(parts, " "), nil
}

// chain renders a WHERE or HAVING chain and checks that its brace flags pair up.
func (r *renderer) chain(preds []predicate) ([]string, error) {
	var out []string
	depth := 0
	for _, p := range preds {
		var body string
		var err error
		if p.exists != nil {
			body, err = r.subquery(p.exists)
			body = "EXISTS " + body
			if p.negate {
				body = "NOT " + body
			}
		} else {
			body, err = r.condition(p.cond)
		}
		if err != nil {
			return nil, err
		}

		if p.open {
			depth++
			body = "(" + body
		}
		if p.close {
			depth--
			body += ")"
		}
		if depth < 0 {
			return nil, &BuildError{Code: ErrCodeUnbalancedParens, Message: "closing brace without an open one", Detail: p.keyword}
		}
		out = append(out, p.keyword+" "+body)
	}
	if depth != 0 {
		return nil, &BuildError{Code: ErrCodeUnbalancedParens, Message: fmt.Sprintf("%d brace(s) left open", depth)}
	}
	return out, nil
}

func (r *renderer) condition(c Condition) (string, error) {
	if c.Left == nil {
		return "", &BuildError{Code: ErrCodeClauseOrder, Message: "empty condition"}
	}
	left := r.ref(c.Left)
	op := string(c.Op)

	switch rhs := c.right.(type) {
	case noOperand:
		return left + " " + op, nil
	case refOperand:
		return left + " " + r.d.Operand(op, r.ref(rhs.ref)), nil
	case paramOperand:
		ph, err := r.bind(rhs.p)
		if err != nil {
			return "", err
		}
		return left + " " + r.d.Operand(op, ph), nil
	case betweenOperand:
		lo, err := r.value(rhs.low)
		if err != nil {
			return "", err
		}
		hi, err := r.value(rhs.high)
		if err != nil {
			return "", err
		}
		return left + " " + r.d.Operand(op, lo) + " " + r.d.Operand("AND", hi), nil
	case listOperand:
		items := make([]string, len(rhs.items))
		for i, item := range rhs.items {
			v, err := r.value(item)
			if err != nil {
				return "", err
			}
			items[i] = v
		}
		return left + " " + r.d.Operand(op, "("+strings.Join(items, ", ")+")"), nil
	case subOperand:
		sub, err := r.subquery(rhs.sub)
		if err != nil {
			return "", err
		}
		return left + " " + op + " " + sub, nil
	default:
		return "", fmt.Errorf("unsupported operand type: %T", c.right)
	}
}

// value renders a single BETWEEN bound or IN list item.
func (r *renderer) value(o operand) (string, error) {
	switch v := o.(type) {
	case refOperand:
		return r.ref(v.ref), nil
	case paramOperand:
		return r.bind(v.p)
	default:
		return "", fmt.Errorf("unsupported list operand type: %T", o)
	}
}

func (r *renderer) ref(x Ref) string {
	switch v := x.(type) {
	case Attr:
		return r.d.Column(v.Alias, v.Name, "")
	case LocalizedAttr:
		return r.d.Column(v.Alias, v.Name, v.Locale)
	case DistinctRef:
		return "DISTINCT " + r.ref(v.Of)
	case Func:
		return string(v.Kind) + "(" + r.ref(v.Arg) + ")"
	default:
		return ""
	}
}

func (r *renderer) refList(refs []Ref) string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = r.ref(ref)
	}
	return strings.Join(out, ", ")
}

func (r *renderer) fieldList(fields []Field, prefix string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = prefix + r.ref(f.Ref)
	}
	return strings.Join(out, ", ")
}

func (r *renderer) selector(sel Selector) (string, error) {
	switch s := sel.(type) {
	case SelectClause:
		return r.selectClause(s)
	case SubquerySelect:
		return r.subquerySelect(s)
	default:
		return "", fmt.Errorf("unsupported selector type: %T", sel)
	}
}

func (r *renderer) selectClause(s SelectClause) (string, error) {
	t := s.From
	if t.err != nil {
		return "", t.err
	}
	if len(s.Joins) > 0 && t.Alias == "" {
		return "", missingAlias(t.Name, "joins require an aliased base table")
	}

	var cols string
	if len(s.FieldList) == 0 {
		cols = r.d.Column(t.Alias, "PK", "")
	} else {
		cols = r.fieldList(s.FieldList, "")
	}

	joins := make([]string, 0, len(s.Joins))
	for _, j := range s.Joins {
		if j.Target.err != nil {
			return "", j.Target.err
		}
		joins = append(joins, fmt.Sprintf("%s %s AS %s ON %s = %s",
			j.keyword(),
			r.d.Ident(j.Target.Name),
			r.d.Ident(j.Target.Alias),
			r.ref(j.Left),
			r.ref(j.Right)))
	}

	return selectHead(s.IsDistinct) + cols + " FROM " + r.d.From(r.d.Ident(t.Name), t.Alias, joins), nil
}

func (r *renderer) subquerySelect(s SubquerySelect) (string, error) {
	alias := s.Sub.Alias()
	if s.IsDistinct && alias == "" {
		return "", missingAlias("subquery", "DISTINCT over a subquery requires an alias")
	}
	prefix := ""
	if alias != "" {
		prefix = r.d.Ident(alias) + "."
	}

	var cols string
	if len(s.FieldList) == 0 {
		cols = prefix + r.d.Ident("PK")
	} else {
		cols = r.fieldList(s.FieldList, prefix)
	}

	from, err := r.subquery(s.Sub)
	if err != nil {
		return "", err
	}
	return selectHead(s.IsDistinct) + cols + " FROM " + from, nil
}

func selectHead(distinct bool) string {
	if distinct {
		return "SELECT DISTINCT "
	}
	return "SELECT "
}

func (r *renderer) subquery(sub SubQuery) (string, error) {
	switch s := sub.(type) {
	case CommonSubQuery:
		inner, err := r.inner(s)
		if err != nil {
			return "", err
		}
		return r.d.Subquery(inner, s.alias), nil
	case UnionSubQuery:
		left, err := r.inner(s.Left)
		if err != nil {
			return "", err
		}
		right, err := r.inner(s.Right)
		if err != nil {
			return "", err
		}
		return r.d.Union(left, right, s.All, s.alias), nil
	default:
		return "", fmt.Errorf("unsupported subquery type: %T", sub)
	}
}

// inner renders the body of a subquery without its wrapping.
func (r *renderer) inner(s CommonSubQuery) (string, error) {
	switch {
	case s.query != nil:
		return r.query(s.query)
	case s.sel != nil:
		return r.selector(s.sel)
	default:
		if !r.d.Raw() {
			return "", &BuildError{
				Code:    ErrCodeUnsupported,
				Message: "raw subquery text cannot be rendered in this dialect",
				Detail:  r.d.Name(),
			}
		}
		for _, p := range s.params {
			if err := r.record(p); err != nil {
				return "", err
			}
		}
		return s.text, nil
	}
}
