package flexsearch

import (
	"reflect"
	"slices"
)

// Field is one select-list entry with an optional result type.
// Typed fields describe how the host decodes the matching result column.
type Field struct {
	Ref        Ref
	ResultType reflect.Type // nil = untyped
}

// F returns an untyped field.
func F(ref Ref) Field { return Field{Ref: ref} }

// Typed returns a field whose result column decodes as T.
func Typed[T any](ref Ref) Field {
	return Field{Ref: ref, ResultType: reflect.TypeFor[T]()}
}

// Selector is the SELECT ... FROM part of a query: a SelectClause or a
// SubquerySelect.
type Selector interface {
	selectNode()
	resultTypes() []reflect.Type
}

// SelectClause composes a table, fields and joins into SELECT ... FROM.
//
// Four shapes, depending on which of fields and joins are present:
//
//	SELECT [DISTINCT] {[alias:]PK} FROM {Table [AS alias]}
//	SELECT [DISTINCT] f1, f2 FROM {Table [AS alias]}
//	SELECT [DISTINCT] {alias:PK} FROM {Table AS alias j1 j2 }
//	SELECT [DISTINCT] f1, f2 FROM {Table AS alias j1 j2 }
//
// Joins require an aliased base table; rendering without one fails
// with MISSING_ALIAS.
type SelectClause struct {
	From       TableRef
	FieldList  []Field
	Joins      []JoinClause
	IsDistinct bool
}

func (SelectClause) selectNode() {}

// SelectFrom starts a select clause over src.
func SelectFrom(src Source) SelectClause {
	return SelectClause{From: src.table()}
}

// Fields returns a copy with fields appended.
func (s SelectClause) Fields(fields ...Field) SelectClause {
	s.FieldList = append(slices.Clip(s.FieldList), fields...)
	return s
}

// Join returns a copy with joins appended.
func (s SelectClause) Join(joins ...JoinClause) SelectClause {
	s.Joins = append(slices.Clip(s.Joins), joins...)
	return s
}

// Distinct returns a copy marked SELECT DISTINCT.
func (s SelectClause) Distinct() SelectClause {
	s.IsDistinct = true
	return s
}

func (s SelectClause) resultTypes() []reflect.Type {
	return typesOf(s.FieldList)
}

// SubquerySelect selects from a derived table:
//
//	SELECT [DISTINCT] x.PK FROM ({{...}}) x
//	SELECT [DISTINCT] x.f1, x.f2 FROM ({{...}}) x
//
// Without a subquery alias the x. prefix is dropped; DISTINCT then
// fails with MISSING_ALIAS.
type SubquerySelect struct {
	Sub        SubQuery
	FieldList  []Field
	IsDistinct bool
}

func (SubquerySelect) selectNode() {}

// SelectFromSubquery starts a select over a derived table.
func SelectFromSubquery(sub SubQuery, fields ...Field) SubquerySelect {
	return SubquerySelect{Sub: sub, FieldList: fields}
}

// Distinct returns a copy marked SELECT DISTINCT.
func (s SubquerySelect) Distinct() SubquerySelect {
	s.IsDistinct = true
	return s
}

func (s SubquerySelect) resultTypes() []reflect.Type {
	return typesOf(s.FieldList)
}

func typesOf(fields []Field) []reflect.Type {
	var out []reflect.Type
	for _, f := range fields {
		if f.ResultType != nil {
			out = append(out, f.ResultType)
		}
	}
	return out
}
