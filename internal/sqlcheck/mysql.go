package sqlcheck

import (
	"github.com/xwb1989/sqlparser"
)

func mysqlTables(sql string) ([]string, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, err
	}

	var set tableSet
	err = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		if expr, ok := node.(*sqlparser.AliasedTableExpr); ok {
			if name, ok := expr.Expr.(sqlparser.TableName); ok {
				set.add(name.Name.String())
			}
		}
		return true, nil
	}, stmt)
	if err != nil {
		return nil, err
	}
	return set.names, nil
}
