package flexsearch

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		build  func(q *Query) *Query
		query  string
		params map[string]any
	}{
		{
			name: "plain select",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product")))
			},
			query:  "SELECT {PK} FROM {Product}",
			params: map[string]any{},
		},
		{
			name: "aliased distinct select",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product").As(Alias("p"))).Distinct())
			},
			query:  "SELECT DISTINCT {p:PK} FROM {Product AS p}",
			params: map[string]any{},
		},
		{
			name: "equals literal",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.Eq(A("name"), "x"))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} =  ?name1",
			params: map[string]any{"name1": "x"},
		},
		{
			name: "aliased like",
			build: func(q *Query) *Query {
				p := Alias("p")
				return q.Select(SelectFrom(Table("Product").As(p))).
					Where(q.Like(p.Attr("name"), "%t%"))
			},
			query:  "SELECT {p:PK} FROM {Product AS p} WHERE {p:name} LIKE  ?name1",
			params: map[string]any{"name1": "%t%"},
		},
		{
			name: "is null or like",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					Or(q.Like(A("name"), "%test%"))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL OR {name} LIKE  ?name1",
			params: map[string]any{"name1": "%test%"},
		},
		{
			name: "null checks bind nothing",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					Or(q.IsNotNull(A("description")))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL OR {description} IS NOT NULL",
			params: map[string]any{},
		},
		{
			name: "column to column",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					And(q.Eq(Upper(A("code")), A("code")))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL AND UPPER({code}) =  {code}",
			params: map[string]any{},
		},
		{
			name: "between",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					Or(q.Between(A("creationtime"), "2020-01-01", "2020-12-31"))
			},
			query: "SELECT {PK} FROM {Product} WHERE {name} IS NULL OR {creationtime} BETWEEN  ?creationtime1 AND  ?creationtime2",
			params: map[string]any{
				"creationtime1": "2020-01-01",
				"creationtime2": "2020-12-31",
			},
		},
		{
			name: "not between",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.NotBetween(A("price"), 1, 10))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {price} NOT BETWEEN  ?price1 AND  ?price2",
			params: map[string]any{"price1": 1, "price2": 10},
		},
		{
			name: "in list",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Customer"))).
					Where(q.In(A("uid"), "a", "b", "c"))
			},
			query:  "SELECT {PK} FROM {Customer} WHERE {uid} IN  (?uid1, ?uid2, ?uid3)",
			params: map[string]any{"uid1": "a", "uid2": "b", "uid3": "c"},
		},
		{
			name: "not in list",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Customer"))).
					Where(q.NotIn(A("uid"), "a", "b"))
			},
			query:  "SELECT {PK} FROM {Customer} WHERE {uid} NOT IN  (?uid1, ?uid2)",
			params: map[string]any{"uid1": "a", "uid2": "b"},
		},
		{
			name: "in list mixing a column and a value",
			build: func(q *Query) *Query {
				p := Alias("p")
				return q.Select(SelectFrom(Table("Product").As(p))).
					Where(q.In(p.Attr("code"), p.Attr("ean"), "x"))
			},
			query:  "SELECT {p:PK} FROM {Product AS p} WHERE {p:code} IN  ({p:ean}, ?code1)",
			params: map[string]any{"code1": "x"},
		},
		{
			name: "between column bounds",
			build: func(q *Query) *Query {
				p := Alias("p")
				return q.Select(SelectFrom(Table("Promotion").As(p))).
					Where(q.In(p.Attr("code"), "a")).
					And(q.Between(p.Attr("date"), p.Attr("start"), p.Attr("end")))
			},
			query:  "SELECT {p:PK} FROM {Promotion AS p} WHERE {p:code} IN  (?code1) AND {p:date} BETWEEN  {p:start} AND  {p:end}",
			params: map[string]any{"code1": "a"},
		},
		{
			name: "between a column and a value",
			build: func(q *Query) *Query {
				p := Alias("p")
				return q.Select(SelectFrom(Table("Promotion").As(p))).
					Where(q.NotBetween(p.Attr("date"), p.Attr("start"), "2020-12-31"))
			},
			query:  "SELECT {p:PK} FROM {Promotion AS p} WHERE {p:date} NOT BETWEEN  {p:start} AND  ?date1",
			params: map[string]any{"date1": "2020-12-31"},
		},
		{
			name: "in subquery",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(Upper(A("code")))))
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					And(q.InSub(A("code"), sub))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL AND {code} IN ({{SELECT UPPER({code}) FROM {Product}}}) ",
			params: map[string]any{},
		},
		{
			name: "not in subquery",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(Upper(A("code")))))
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.NotInSub(A("code"), sub))
			},
			query:  "SELECT {PK} FROM {Product} WHERE {code} NOT IN ({{SELECT UPPER({code}) FROM {Product}}}) ",
			params: map[string]any{},
		},
		{
			name: "braces around subquery",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(Upper(A("code")))))
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					And(q.InSub(A("code"), sub), OpenParen).
					Or(q.IsNotNull(A("name")), CloseParen)
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL AND ({code} IN ({{SELECT UPPER({code}) FROM {Product}}})  OR {name} IS NOT NULL)",
			params: map[string]any{},
		},
		{
			name: "where exists",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(Upper(A("code")))))
				return q.Select(SelectFrom(Table("Product").As(Alias("p")))).WhereExists(sub)
			},
			query:  "SELECT {p:PK} FROM {Product AS p} WHERE EXISTS ({{SELECT UPPER({code}) FROM {Product}}}) ",
			params: map[string]any{},
		},
		{
			name: "where not exists",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(Upper(A("code")))))
				return q.Select(SelectFrom(Table("Product"))).WhereNotExists(sub)
			},
			query:  "SELECT {PK} FROM {Product} WHERE NOT EXISTS ({{SELECT UPPER({code}) FROM {Product}}}) ",
			params: map[string]any{},
		},
		{
			name: "and exists",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(Upper(A("code")))))
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					AndExists(sub)
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL AND EXISTS ({{SELECT UPPER({code}) FROM {Product}}}) ",
			params: map[string]any{},
		},
		{
			name: "or not exists",
			build: func(q *Query) *Query {
				sub := SubqueryOf(SelectFrom(Table("Stock")))
				return q.Select(SelectFrom(Table("Product"))).
					Where(q.IsNull(A("name"))).
					OrNotExists(sub)
			},
			query:  "SELECT {PK} FROM {Product} WHERE {name} IS NULL OR NOT EXISTS ({{SELECT {PK} FROM {Stock}}}) ",
			params: map[string]any{},
		},
		{
			name: "group by",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product")).Fields(F(Count(A(PK))), F(A("name")))).
					GroupBy(A("code"), A("name"), A("description"))
			},
			query:  "SELECT COUNT({pk}), {name} FROM {Product} GROUP BY {code}, {name}, {description}",
			params: map[string]any{},
		},
		{
			name: "group by with where",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product")).Fields(F(Count(A(PK))), F(A("name")))).
					Where(q.Like(A("name"), "%test%")).
					GroupBy(A("name"))
			},
			query:  "SELECT COUNT({pk}), {name} FROM {Product} WHERE {name} LIKE  ?name1 GROUP BY {name}",
			params: map[string]any{"name1": "%test%"},
		},
		{
			name: "having",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product")).Fields(F(Count(A(PK))), F(A("name")))).
					GroupBy(A("name")).
					Having(q.Gt(Count(A(PK)), 2))
			},
			query:  "SELECT COUNT({pk}), {name} FROM {Product} GROUP BY {name} HAVING COUNT({pk}) >  ?pk1",
			params: map[string]any{"pk1": 2},
		},
		{
			name: "having chain",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product")).Fields(F(Count(A(PK))), F(A("name")))).
					GroupBy(A("name")).
					Having(q.Gt(Count(A(PK)), 2)).
					And(q.Lte(Count(A(PK)), 10))
			},
			query:  "SELECT COUNT({pk}), {name} FROM {Product} GROUP BY {name} HAVING COUNT({pk}) >  ?pk1 AND COUNT({pk}) <=  ?pk2",
			params: map[string]any{"pk1": 2, "pk2": 10},
		},
		{
			name: "localized field",
			build: func(q *Query) *Query {
				return q.Select(SelectFrom(Table("Product")).Fields(F(Loc("name", "es"))))
			},
			query:  "SELECT {name[es]} FROM {Product}",
			params: map[string]any{},
		},
		{
			name: "distinct field",
			build: func(q *Query) *Query {
				p := Alias("p")
				return q.Select(SelectFrom(Table("Product").As(p)).Fields(F(Distinct(p.Attr("code")))))
			},
			query:  "SELECT DISTINCT {p:code} FROM {Product AS p}",
			params: map[string]any{},
		},
		{
			name: "left outer join with ordering",
			build: func(q *Query) *Query {
				p, a := Alias("p"), Alias("a")
				sel := SelectFrom(Table("PointOfService").As(p)).
					Join(LeftJoin(Table("Address").As(a), p.Attr("address"), a.PK()).Outer())
				return q.Select(sel).
					Where(q.Gte(p.Attr("modifiedtime"), "2020-10-01")).
					Or(q.Gte(a.Attr("modifiedtime"), "2020-10-01")).
					OrderBy(Desc(p.Attr("baseStore")), Asc(p.Attr("creationtime")))
			},
			query: "SELECT {p:PK} FROM {PointOfService AS p LEFT OUTER JOIN Address AS a ON {p:address} = {a:pk} } " +
				"WHERE {p:modifiedtime} >=  ?modifiedtime1 OR {a:modifiedtime} >=  ?modifiedtime2 " +
				"ORDER BY {p:baseStore} DESC, {p:creationtime} ASC",
			params: map[string]any{"modifiedtime1": "2020-10-01", "modifiedtime2": "2020-10-01"},
		},
		{
			name: "join only",
			build: func(q *Query) *Query {
				e, o := Alias("e"), Alias("o")
				return q.Select(SelectFrom(Table("Order").As(o)).
					Fields(F(e.PK())).
					Join(Join(Table("OrderEntry").As(e), e.Attr("order"), o.PK())))
			},
			query:  "SELECT {e:pk} FROM {Order AS o JOIN OrderEntry AS e ON {e:order} = {o:pk} }",
			params: map[string]any{},
		},
		{
			name: "joins without fields select the base alias",
			build: func(q *Query) *Query {
				e, o := Alias("e"), Alias("o")
				return q.Select(SelectFrom(Table("Order").As(o)).
					Join(RightJoin(Table("OrderEntry").As(e), e.Attr("order"), o.PK())).
					Distinct())
			},
			query:  "SELECT DISTINCT {o:PK} FROM {Order AS o RIGHT JOIN OrderEntry AS e ON {e:order} = {o:pk} }",
			params: map[string]any{},
		},
		{
			name: "multiple joins keep list order",
			build: func(q *Query) *Query {
				e, o, p, sl := Alias("e"), Alias("o"), Alias("p"), Alias("sl2p")
				return q.Select(SelectFrom(Table("StockLevelProductRelation").As(sl)).
					Fields(F(e.Attr("pk"))).
					Join(
						Join(Table("Product").As(p), sl.Attr("target"), p.PK()),
						Join(Table("OrderEntry").As(e), e.Attr("product"), p.PK()),
						Join(Table("Order").As(o), e.Attr("order"), o.PK()),
					))
			},
			query: "SELECT {e:pk} FROM {StockLevelProductRelation AS sl2p " +
				"JOIN Product AS p ON {sl2p:target} = {p:pk} " +
				"JOIN OrderEntry AS e ON {e:product} = {p:pk} " +
				"JOIN Order AS o ON {e:order} = {o:pk} }",
			params: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := tt.build(NewQuery()).Build()
			require.NoError(t, err)
			assert.Equal(t, tt.query, stmt.Query)
			assert.Equal(t, tt.params, stmt.Parameters())
		})
	}
}

func TestBuild_DeliveryModeCosts(t *testing.T) {
	q := NewQuery()
	zdm, zdmv, z2c, z2r, s2d := Alias("zdm"), Alias("zdmv"), Alias("z2c"), Alias("z2r"), Alias("s2d")

	sel := SelectFrom(Table("ZoneDeliveryMode").As(zdm)).
		Fields(F(Distinct(zdm.PK()))).
		Join(
			Join(Table("ZoneDeliveryModeValue").As(zdmv), zdmv.Attr("deliveryMode"), zdm.PK()),
			LeftJoin(Table("ZoneCountryRelation").As(z2c), zdmv.Attr("zone"), z2c.Attr("source")),
			LeftJoin(Table("ZoneRegionRelation").As(z2r), zdmv.Attr("zone"), z2r.Attr("source")),
			Join(Table("BaseStore2DeliveryModeRel").As(s2d), zdmv.Attr("deliveryMode"), s2d.Attr("target")),
		)

	currency := q.Eq(zdmv.Attr("currency"), "EUR")
	country := q.Eq(z2c.Attr("target"), "DE")
	region := q.Eq(z2r.Attr("target"), "DE-BY")
	store := q.Eq(s2d.Attr("source"), "apparel")
	net := q.Eq(zdm.Attr("net"), true)
	active := q.Eq(zdm.Attr("active"), true)

	stmt, err := q.Select(sel).
		Where(currency).
		And(country, OpenParen).
		Or(region, CloseParen).
		And(store).
		And(net).
		And(active).
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT DISTINCT {zdm:pk} FROM {ZoneDeliveryMode AS zdm "+
			"JOIN ZoneDeliveryModeValue AS zdmv ON {zdmv:deliveryMode} = {zdm:pk} "+
			"LEFT JOIN ZoneCountryRelation AS z2c ON {zdmv:zone} = {z2c:source} "+
			"LEFT JOIN ZoneRegionRelation AS z2r ON {zdmv:zone} = {z2r:source} "+
			"JOIN BaseStore2DeliveryModeRel AS s2d ON {zdmv:deliveryMode} = {s2d:target} } "+
			"WHERE {zdmv:currency} =  ?currency1 AND ({z2c:target} =  ?target2 OR {z2r:target} =  ?target3) "+
			"AND {s2d:source} =  ?source4 AND {zdm:net} =  ?net5 AND {zdm:active} =  ?active6",
		stmt.Query)

	names := make([]string, len(stmt.Params))
	for i, p := range stmt.Params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"currency1", "target2", "target3", "source4", "net5", "active6"}, names)
}

func TestBuild_CounterIsStatementWide(t *testing.T) {
	q := NewQuery()
	stmt, err := q.Select(SelectFrom(Table("Product"))).
		Where(q.Eq(A("a"), 1)).
		And(q.Eq(A("b"), 2)).
		Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a1": 1, "b2": 2}, stmt.Parameters())
}

func TestBuild_ColumnOperandDoesNotAdvanceCounter(t *testing.T) {
	q := NewQuery()
	stmt, err := q.Select(SelectFrom(Table("Product"))).
		Where(q.Eq(Upper(A("code")), A("code"))).
		And(q.Eq(A("name"), "x")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name1": "x"}, stmt.Parameters())
}

func TestCondition_ParamsSkipColumnItems(t *testing.T) {
	q := NewQuery()
	p := Alias("p")

	in := q.In(p.Attr("code"), p.Attr("ean"), "x", p.Attr("sku"), "y")
	require.Len(t, in.Params(), 2)
	assert.Equal(t, "code1", in.Params()[0].Name)
	assert.Equal(t, "y", in.Params()[1].Value)

	between := q.Between(p.Attr("date"), p.Attr("start"), p.Attr("end"))
	assert.Empty(t, between.Params())
	assert.Equal(t, "{p:date} BETWEEN  {p:start} AND  {p:end}", between.String())
}

func TestBuild_FreshContextsRestartNumbering(t *testing.T) {
	for i := 0; i < 2; i++ {
		q := NewQuery()
		stmt, err := q.Select(SelectFrom(Table("Product"))).Where(q.Eq(A("name"), "x")).Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT {PK} FROM {Product} WHERE {name} =  ?name1", stmt.Query)
	}
}

func TestBuild_IsRepeatable(t *testing.T) {
	q := NewQuery()
	q.Select(SelectFrom(Table("Product"))).Where(q.Eq(A("name"), "x"))

	first, err := q.Build()
	require.NoError(t, err)
	second, err := q.Build()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild_ConcurrentContexts(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := NewQuery()
			stmt, err := q.Select(SelectFrom(Table("Product"))).
				Where(q.Eq(A("name"), i)).
				And(q.Eq(A("code"), i)).
				Build()
			if err == nil {
				results[i] = stmt.Query
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "SELECT {PK} FROM {Product} WHERE {name} =  ?name1 AND {code} =  ?code2", got)
	}
}

func TestBuild_SubqueryParamsPropagate(t *testing.T) {
	q := NewQuery()
	sub := q.Sub()
	sub.Select(SelectFrom(Table("Product")).Fields(F(A("code")))).
		Where(sub.Eq(A("approvalStatus"), "approved"))

	stmt, err := q.Select(SelectFrom(Table("Product"))).
		Where(q.InSub(A("code"), Subquery(sub))).
		And(q.Eq(A("name"), "x")).
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT {PK} FROM {Product} WHERE {code} IN ({{SELECT {code} FROM {Product} WHERE {approvalStatus} =  ?approvalStatus1}})  AND {name} =  ?name2",
		stmt.Query)
	assert.Equal(t, map[string]any{"approvalStatus1": "approved", "name2": "x"}, stmt.Parameters())
}

func TestBuild_RawSubqueryCarriesParams(t *testing.T) {
	q := NewQuery()
	raw := RawSubquery(`
		SELECT {code} FROM {Product}
		WHERE {catalog} = ?catalog
	`, NewParam("catalog", "online"))

	stmt, err := q.Select(SelectFrom(Table("Product"))).
		WhereExists(raw).
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT {PK} FROM {Product} WHERE EXISTS ({{SELECT {code} FROM {Product} WHERE {catalog} = ?catalog}}) ",
		stmt.Query)
	assert.Equal(t, map[string]any{"catalog": "online"}, stmt.Parameters())
	assert.NotContains(t, stmt.Query, "\n")
}

func TestBuild_ReusedConditionBindsOnce(t *testing.T) {
	q := NewQuery()
	c := q.Eq(A("name"), "x")
	stmt, err := q.Select(SelectFrom(Table("Product"))).Where(c).Or(c).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT {PK} FROM {Product} WHERE {name} =  ?name1 OR {name} =  ?name1", stmt.Query)
	assert.Len(t, stmt.Params, 1)
}

func TestBuild_ResultTypes(t *testing.T) {
	q := NewQuery()
	sub := SubqueryOf(SelectFrom(Table("Product")).Fields(Typed[float64](A("price"))))
	stmt, err := q.Select(SelectFrom(Table("Product")).Fields(
		Typed[int64](Count(A(PK))),
		Typed[string](A("name")),
		F(A("code")),
	)).WhereExists(sub).GroupBy(A("name"), A("code")).Build()
	require.NoError(t, err)

	assert.Equal(t, []reflect.Type{reflect.TypeFor[int64](), reflect.TypeFor[string]()}, stmt.ResultTypes)
}

func TestBuild_Limit(t *testing.T) {
	q := NewQuery()
	p := Alias("p")
	stmt, err := q.Select(SelectFrom(Table("Product").As(p)).Fields(Typed[string](Distinct(p.Attr("code"))))).
		Limit(5).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "SELECT DISTINCT {p:code} FROM {Product AS p}", stmt.Query)
	assert.Equal(t, 5, stmt.Count)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[string]()}, stmt.ResultTypes)
}

func TestBuild_TimeValuesAreBoundAsIs(t *testing.T) {
	q := NewQuery()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	stmt, err := q.Select(SelectFrom(Table("Order"))).Where(q.Between(A("date"), from, to)).Build()
	require.NoError(t, err)

	require.Len(t, stmt.Params, 2)
	assert.Equal(t, from, stmt.Params[0].Value)
	assert.Equal(t, to, stmt.Params[1].Value)
	assert.Equal(t, []any{from, to}, stmt.Args())
}

func TestSubquerySelect(t *testing.T) {
	tests := []struct {
		name  string
		sel   func() SubquerySelect
		query string
		err   BuildErrorCode
	}{
		{
			name: "aliased without fields",
			sel: func() SubquerySelect {
				return SelectFromSubquery(SubqueryOf(SelectFrom(Table("Product"))).As("x"))
			},
			query: "SELECT x.PK FROM ({{SELECT {PK} FROM {Product}}}) x",
		},
		{
			name: "aliased distinct with fields",
			sel: func() SubquerySelect {
				sub := SubqueryOf(SelectFrom(Table("Product")).Fields(F(A("code")))).As("x")
				return SelectFromSubquery(sub, F(A("code"))).Distinct()
			},
			query: "SELECT DISTINCT x.{code} FROM ({{SELECT {code} FROM {Product}}}) x",
		},
		{
			name: "unaliased",
			sel: func() SubquerySelect {
				return SelectFromSubquery(SubqueryOf(SelectFrom(Table("Product"))))
			},
			query: "SELECT PK FROM ({{SELECT {PK} FROM {Product}}}) ",
		},
		{
			name: "unaliased distinct",
			sel: func() SubquerySelect {
				return SelectFromSubquery(SubqueryOf(SelectFrom(Table("Product")))).Distinct()
			},
			err: ErrCodeMissingAlias,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := NewQuery().Select(tt.sel()).Build()
			if tt.err != "" {
				require.Error(t, err)
				assert.Equal(t, tt.err, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.query, stmt.Query)
		})
	}
}

func TestUnion(t *testing.T) {
	left := SubqueryOf(SelectFrom(Table("Product")))
	right := SubqueryOf(SelectFrom(Table("Variant")))

	stmt, err := NewQuery().Select(SelectFromSubquery(UnionAll(left, right).As("u"))).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT u.PK FROM ({{SELECT {PK} FROM {Product}}} UNION ALL {{SELECT {PK} FROM {Variant}}}) u", stmt.Query)

	stmt, err = NewQuery().Select(SelectFromSubquery(Union(left, right).As("u"))).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT u.PK FROM ({{SELECT {PK} FROM {Product}}} UNION {{SELECT {PK} FROM {Variant}}}) u", stmt.Query)
}

func TestSubqueryAsIsPure(t *testing.T) {
	sub := SubqueryOf(SelectFrom(Table("Product")))
	aliased := sub.As("x")
	assert.Equal(t, "", sub.Alias())
	assert.Equal(t, "x", aliased.Alias())
}
