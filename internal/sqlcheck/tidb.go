package sqlcheck

import (
	"errors"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

func tidbTables(sql string) ([]string, error) {
	stmts, _, err := parser.New().Parse(sql, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, errors.New("empty statement")
	}

	v := &tidbCollector{}
	for _, stmt := range stmts {
		stmt.Accept(v)
	}
	return v.set.names, nil
}

// tidbCollector is an ast.Visitor recording every table name node.
type tidbCollector struct {
	set tableSet
}

func (v *tidbCollector) Enter(n ast.Node) (ast.Node, bool) {
	if t, ok := n.(*ast.TableName); ok {
		v.set.add(t.Name.O)
	}
	return n, false
}

func (v *tidbCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}
