package sqlcheck

import (
	pg_query "github.com/pganalyze/pg_query_go/v5"
)

func postgresTables(sql string) ([]string, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, err
	}

	var set tableSet
	for _, raw := range tree.Stmts {
		pgNode(&set, raw.Stmt)
	}
	return set.names, nil
}

// pgNode follows the node kinds a built SELECT can contain: FROM items,
// joins, derived tables, set operations and sublinks in predicates.
func pgNode(set *tableSet, n *pg_query.Node) {
	if n == nil {
		return
	}
	switch {
	case n.GetRangeVar() != nil:
		set.add(n.GetRangeVar().Relname)
	case n.GetJoinExpr() != nil:
		j := n.GetJoinExpr()
		pgNode(set, j.Larg)
		pgNode(set, j.Rarg)
		pgNode(set, j.Quals)
	case n.GetRangeSubselect() != nil:
		pgNode(set, n.GetRangeSubselect().Subquery)
	case n.GetSelectStmt() != nil:
		pgSelect(set, n.GetSelectStmt())
	case n.GetSubLink() != nil:
		pgNode(set, n.GetSubLink().Subselect)
	case n.GetBoolExpr() != nil:
		for _, arg := range n.GetBoolExpr().Args {
			pgNode(set, arg)
		}
	case n.GetAExpr() != nil:
		pgNode(set, n.GetAExpr().Lexpr)
		pgNode(set, n.GetAExpr().Rexpr)
	}
}

func pgSelect(set *tableSet, s *pg_query.SelectStmt) {
	if s == nil {
		return
	}
	pgSelect(set, s.Larg)
	pgSelect(set, s.Rarg)
	for _, item := range s.FromClause {
		pgNode(set, item)
	}
	pgNode(set, s.WhereClause)
	pgNode(set, s.HavingClause)
}
