package flexsearch

// Ref is anything that can stand in a select list, a comparison, an
// ordering or a grouping: a column, a DISTINCT column, or a function call.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern keeps the set closed so renderers can switch
// exhaustively.
//
// Ref types form three layers:
//   - Column: Attr, LocalizedAttr
//   - Term: any Column, or Distinct(Column)
//   - Ref: any Term, or a Func wrapping a Term
//
// Func only accepts a Term, so COUNT(UPPER(x)) cannot be expressed.
type Ref interface {
	refNode() // Marker method - seals interface to this package

	// ParamName is the name bound parameters are derived from.
	ParamName() string
}

// Term is a Ref that may be wrapped by a Func.
type Term interface {
	Ref
	termNode()
}

// Column is a plain or localized attribute reference.
type Column interface {
	Term
	columnNode()
}

// PK is the attribute name of the primary key.
const PK = "pk"

// Attr names a column, optionally qualified by a table alias.
//
// Renders as {name} or {alias:name}.
type Attr struct {
	Alias string // Table alias ("" = unqualified)
	Name  string // Attribute name
}

func (Attr) refNode()    {}
func (Attr) termNode()   {}
func (Attr) columnNode() {}

// ParamName returns the attribute name.
func (a Attr) ParamName() string { return a.Name }

// Localized returns the attribute for one locale.
func (a Attr) Localized(locale string) LocalizedAttr {
	return LocalizedAttr{Attr: a, Locale: locale}
}

// LocalizedAttr is an attribute bound to a locale.
//
// Renders as {name[locale]} or {alias:name[locale]}.
type LocalizedAttr struct {
	Attr
	Locale string
}

func (LocalizedAttr) refNode()    {}
func (LocalizedAttr) termNode()   {}
func (LocalizedAttr) columnNode() {}

// DistinctRef prefixes a column with DISTINCT.
//
// Renders as DISTINCT {name}; inside a function, COUNT(DISTINCT {name}).
type DistinctRef struct {
	Of Column
}

func (DistinctRef) refNode()  {}
func (DistinctRef) termNode() {}

// ParamName returns the wrapped column's name.
func (d DistinctRef) ParamName() string { return d.Of.ParamName() }

// FuncKind is an aggregate or scalar function applied to a Term.
type FuncKind string

const (
	FuncCount FuncKind = "COUNT"
	FuncUpper FuncKind = "UPPER"
	FuncMin   FuncKind = "MIN"
	FuncMax   FuncKind = "MAX"
	FuncSum   FuncKind = "SUM"
	FuncAvg   FuncKind = "AVG"
)

// Func wraps a Term in a function call: KIND(term).
type Func struct {
	Kind FuncKind
	Arg  Term
}

func (Func) refNode() {}

// ParamName returns the wrapped term's name.
func (f Func) ParamName() string { return f.Arg.ParamName() }

// A returns an unqualified attribute.
func A(name string) Attr { return Attr{Name: name} }

// Loc returns an unqualified localized attribute.
func Loc(name, locale string) LocalizedAttr { return A(name).Localized(locale) }

// Distinct prefixes a column with DISTINCT.
func Distinct(c Column) DistinctRef { return DistinctRef{Of: c} }

func Count(t Term) Func { return Func{Kind: FuncCount, Arg: t} }
func Upper(t Term) Func { return Func{Kind: FuncUpper, Arg: t} }
func Min(t Term) Func   { return Func{Kind: FuncMin, Arg: t} }
func Max(t Term) Func   { return Func{Kind: FuncMax, Arg: t} }
func Sum(t Term) Func   { return Func{Kind: FuncSum, Arg: t} }
func Avg(t Term) Func   { return Func{Kind: FuncAvg, Arg: t} }

// AliasRef is a short table name used to qualify attributes and joins.
// Uniqueness is not enforced.
type AliasRef struct {
	Name string
}

// Alias returns an alias handle.
func Alias(name string) AliasRef { return AliasRef{Name: canonical(name)} }

// Attr returns an attribute qualified by this alias.
func (a AliasRef) Attr(name string) Attr { return Attr{Alias: a.Name, Name: name} }

// Loc returns a localized attribute qualified by this alias.
func (a AliasRef) Loc(name, locale string) LocalizedAttr { return a.Attr(name).Localized(locale) }

// PK returns the alias-qualified primary key attribute.
func (a AliasRef) PK() Attr { return a.Attr(PK) }

func (a AliasRef) String() string { return a.Name }
