// Package flexsearch builds FlexibleSearch statements as typed values.
//
// A statement is composed bottom-up: attribute references, conditions,
// joins and a select clause, combined through one Query context, then
// rendered at the boundary by Build.
//
//	q := flexsearch.NewQuery()
//	p := flexsearch.Alias("p")
//	stmt, err := q.Select(flexsearch.SelectFrom(flexsearch.Table("Product").As(p))).
//		Where(q.Like(p.Attr("name"), "%shirt%")).
//		Build()
//
//	// stmt.Query:  SELECT {p:PK} FROM {Product AS p} WHERE {p:name} LIKE  ?name1
//	// stmt.Params: name1 = "%shirt%"
//
// # Parameters
//
// Each literal operand becomes a parameter named after the attribute on
// the left plus a counter owned by the Query context: name1, code2, ...
// Subquery contexts created with Query.Sub share that counter, and their
// parameters are carried into the enclosing statement. A Ref on the right
// of a comparison is rendered in place and binds nothing.
//
// # Dialects
//
// FlexibleSearch is the default output. MySQL and PostgreSQL lower the same
// tree to plain SQL, which is used for syntax checking.
//
// # Errors
//
// Misuse is recorded in the context and reported by Build as a *BuildError
// (INVALID_TYPE, MISSING_ALIAS, CLAUSE_ORDER, ...).
package flexsearch
