package flexsearch

// JoinKind is the direction of a join.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoinKind
	RightJoinKind
)

// JoinClause is one FROM-clause join edge.
//
// Renders as [LEFT|RIGHT] [OUTER] JOIN <table> AS <alias> ON <left> = <right>.
// Joins render in list order; an ON clause may reference any alias
// introduced by the base table or an earlier join.
type JoinClause struct {
	Target  AliasedTable
	Left    Attr
	Right   Attr
	Kind    JoinKind
	IsOuter bool
}

// Join returns an inner join of target on left = right.
func Join(target AliasedTable, left, right Attr) JoinClause {
	return JoinClause{Target: target, Left: left, Right: right, Kind: InnerJoin}
}

// LeftJoin returns a left join of target on left = right.
func LeftJoin(target AliasedTable, left, right Attr) JoinClause {
	return JoinClause{Target: target, Left: left, Right: right, Kind: LeftJoinKind}
}

// RightJoin returns a right join of target on left = right.
func RightJoin(target AliasedTable, left, right Attr) JoinClause {
	return JoinClause{Target: target, Left: left, Right: right, Kind: RightJoinKind}
}

// Outer returns a copy of the join with the OUTER keyword.
func (j JoinClause) Outer() JoinClause {
	j.IsOuter = true
	return j
}

func (j JoinClause) keyword() string {
	kw := "JOIN"
	if j.IsOuter {
		kw = "OUTER " + kw
	}
	switch j.Kind {
	case LeftJoinKind:
		kw = "LEFT " + kw
	case RightJoinKind:
		kw = "RIGHT " + kw
	}
	return kw
}
