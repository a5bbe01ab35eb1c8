package flexsearch

import "strconv"

// Operator is a comparison keyword.
type Operator string

const (
	OpEq         Operator = "="
	OpNotEq      Operator = "<>"
	OpLt         Operator = "<"
	OpLte        Operator = "<="
	OpGt         Operator = ">"
	OpGte        Operator = ">="
	OpLike       Operator = "LIKE"
	OpNotLike    Operator = "NOT LIKE"
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT BETWEEN"
	OpIn         Operator = "IN"
	OpNotIn      Operator = "NOT IN"
	OpIsNull     Operator = "IS NULL"
	OpIsNotNull  Operator = "IS NOT NULL"
)

// Param is one bound parameter: the placeholder name (without ?) and its value.
type Param struct {
	Name  string
	Value any

	key *paramKey // identity of the binding, shared by reuses of one condition
}

type paramKey struct{ seq int }

// NewParam returns a parameter for raw subquery text.
func NewParam(name string, value any) Param {
	return Param{Name: name, Value: value, key: &paramKey{}}
}

// counter hands out statement-wide parameter suffixes. A context and its
// subquery contexts share one counter.
type counter struct {
	n int
}

// bind registers value under ref's name and the next counter value.
func (c *counter) bind(ref Ref, value any) Param {
	c.n++
	return Param{
		Name:  ref.ParamName() + strconv.Itoa(c.n),
		Value: value,
		key:   &paramKey{seq: c.n},
	}
}

// Condition is a rendered-on-demand predicate together with the
// parameters it introduced. Conditions are values; they are produced by
// the comparison methods of Query and combined with Where/And/Or/Having.
type Condition struct {
	Left Ref
	Op   Operator

	right operand
}

// Params returns the parameters bound by this condition, in order.
func (c Condition) Params() []Param {
	switch r := c.right.(type) {
	case paramOperand:
		return []Param{r.p}
	case betweenOperand:
		return boundParams([]operand{r.low, r.high})
	case listOperand:
		return boundParams(r.items)
	}
	return nil
}

func boundParams(items []operand) []Param {
	var out []Param
	for _, o := range items {
		if p, ok := o.(paramOperand); ok {
			out = append(out, p.p)
		}
	}
	return out
}

// String renders the condition in the FlexibleSearch dialect.
func (c Condition) String() string {
	s, err := newRenderer(FlexibleSearch).condition(c)
	if err != nil {
		return "!ERR(" + err.Error() + ")"
	}
	return s
}

// operand is the right-hand side of a condition.
type operand interface {
	operandNode()
}

type (
	noOperand      struct{}
	refOperand     struct{ ref Ref }
	paramOperand   struct{ p Param }
	betweenOperand struct{ low, high operand }
	listOperand    struct{ items []operand }
	subOperand     struct{ sub SubQuery }
)

func (noOperand) operandNode()      {}
func (refOperand) operandNode()     {}
func (paramOperand) operandNode()   {}
func (betweenOperand) operandNode() {}
func (listOperand) operandNode()    {}
func (subOperand) operandNode()     {}

// compare builds a binary comparison. A Ref on the right is rendered in
// place and binds nothing; any other value becomes a parameter.
func (q *Query) compare(left Ref, op Operator, right any) Condition {
	return Condition{Left: left, Op: op, right: q.value(left, right)}
}

// value turns one right-hand value into an operand. Only non-Ref values
// advance the counter.
func (q *Query) value(left Ref, v any) operand {
	if ref, ok := v.(Ref); ok {
		return refOperand{ref: ref}
	}
	return paramOperand{p: q.counter.bind(left, v)}
}

// Eq renders left =  ?name.
func (q *Query) Eq(left Ref, right any) Condition { return q.compare(left, OpEq, right) }

// NotEq renders left <>  ?name.
func (q *Query) NotEq(left Ref, right any) Condition { return q.compare(left, OpNotEq, right) }

func (q *Query) Lt(left Ref, right any) Condition  { return q.compare(left, OpLt, right) }
func (q *Query) Lte(left Ref, right any) Condition { return q.compare(left, OpLte, right) }
func (q *Query) Gt(left Ref, right any) Condition  { return q.compare(left, OpGt, right) }
func (q *Query) Gte(left Ref, right any) Condition { return q.compare(left, OpGte, right) }

func (q *Query) Like(left Ref, pattern any) Condition    { return q.compare(left, OpLike, pattern) }
func (q *Query) NotLike(left Ref, pattern any) Condition { return q.compare(left, OpNotLike, pattern) }

// Between binds low and high under consecutive names of left. A Ref bound
// is rendered in place.
func (q *Query) Between(left Ref, low, high any) Condition {
	return q.between(left, OpBetween, low, high)
}

// NotBetween is the negation of Between.
func (q *Query) NotBetween(left Ref, low, high any) Condition {
	return q.between(left, OpNotBetween, low, high)
}

func (q *Query) between(left Ref, op Operator, low, high any) Condition {
	lo := q.value(left, low)
	hi := q.value(left, high)
	return Condition{Left: left, Op: op, right: betweenOperand{low: lo, high: hi}}
}

// In binds one parameter per non-Ref value, in order.
func (q *Query) In(left Ref, values ...any) Condition { return q.in(left, OpIn, values) }

// NotIn is the negation of In.
func (q *Query) NotIn(left Ref, values ...any) Condition { return q.in(left, OpNotIn, values) }

func (q *Query) in(left Ref, op Operator, values []any) Condition {
	items := make([]operand, 0, len(values))
	for _, v := range values {
		items = append(items, q.value(left, v))
	}
	return Condition{Left: left, Op: op, right: listOperand{items: items}}
}

// InSub tests membership in a subquery. It binds nothing itself; the
// subquery's own parameters surface when the statement is built.
func (q *Query) InSub(left Ref, sub SubQuery) Condition {
	return Condition{Left: left, Op: OpIn, right: subOperand{sub: sub}}
}

// NotInSub is the negation of InSub.
func (q *Query) NotInSub(left Ref, sub SubQuery) Condition {
	return Condition{Left: left, Op: OpNotIn, right: subOperand{sub: sub}}
}

func (q *Query) IsNull(left Ref) Condition {
	return Condition{Left: left, Op: OpIsNull, right: noOperand{}}
}

func (q *Query) IsNotNull(left Ref) Condition {
	return Condition{Left: left, Op: OpIsNotNull, right: noOperand{}}
}
