package flexsearch

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ProductModel struct{}

func (ProductModel) TypeCode() string { return "Product" }

type OrderModel struct{}

func (*OrderModel) TypeCode() string { return "Order" }

type BlankModel struct{}

func (BlankModel) TypeCode() string { return "" }

type CategoryModel struct{}

func TestTypeCodes(t *testing.T) {
	tests := []struct {
		name  string
		model any
		want  string
		code  BuildErrorCode
	}{
		{name: "value receiver", model: ProductModel{}, want: "Product"},
		{name: "pointer to value receiver", model: &ProductModel{}, want: "Product"},
		{name: "pointer receiver", model: OrderModel{}, want: "Order"},
		{name: "reflect type", model: reflect.TypeFor[*OrderModel](), want: "Order"},
		{name: "empty code", model: BlankModel{}, code: ErrCodeInvalidType},
		{name: "no code", model: CategoryModel{}, code: ErrCodeInvalidType},
		{name: "nil", model: nil, code: ErrCodeInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := TableFor(TypeCodes, tt.model)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Name)
			assert.Empty(t, table.Alias)
		})
	}
}

func TestConventionResolver(t *testing.T) {
	tests := []struct {
		name     string
		resolver ConventionResolver
		model    any
		want     string
	}{
		{name: "default suffix", resolver: ConventionResolver{}, model: CategoryModel{}, want: "Category"},
		{name: "plural", resolver: ConventionResolver{Plural: true}, model: CategoryModel{}, want: "Categories"},
		{name: "custom suffix kept when absent", resolver: ConventionResolver{Suffix: "Entity"}, model: OrderModel{}, want: "OrderModel"},
		{name: "suffix only name kept", resolver: ConventionResolver{Suffix: "OrderModel"}, model: OrderModel{}, want: "OrderModel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := TableFor(tt.resolver, tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Name)
		})
	}

	_, err := ConventionResolver{}.ResolveType(reflect.TypeFor[[]string]())
	assert.True(t, IsInvalidType(err))

	assert.Equal(t, "StockLevels", ConventionResolver{Plural: true}.TableName("StockLevelModel"))
	assert.Equal(t, "Warehouse", ConventionResolver{}.TableName("Warehouse"))
}

func TestMapResolver(t *testing.T) {
	r := MapResolver{reflect.TypeFor[CategoryModel](): "Category"}

	table, err := TableFor(r, &CategoryModel{})
	require.NoError(t, err)
	assert.Equal(t, "Category", table.Name)

	_, err = TableFor(r, ProductModel{})
	assert.True(t, IsInvalidType(err))
}

func TestChainResolver(t *testing.T) {
	chain := ChainResolver{
		TypeCodes,
		MapResolver{reflect.TypeFor[CategoryModel](): "Category"},
	}

	table, err := TableFor(chain, ProductModel{})
	require.NoError(t, err)
	assert.Equal(t, "Product", table.Name)

	table, err = TableFor(chain, CategoryModel{})
	require.NoError(t, err)
	assert.Equal(t, "Category", table.Name)

	_, err = TableFor(chain, BlankModel{})
	assert.True(t, IsInvalidType(err))

	boom := errors.New("catalog offline")
	failing := ChainResolver{
		TypeResolverFunc(func(reflect.Type) (string, error) { return "", boom }),
		TypeCodes,
	}
	_, err = TableFor(failing, ProductModel{})
	assert.ErrorIs(t, err, boom)
}

func TestQueryType_UsesResolver(t *testing.T) {
	q := NewQuery(WithResolver(ConventionResolver{Plural: true}))
	c := Alias("c")
	stmt, err := q.Select(SelectFrom(q.Type(CategoryModel{}).As(c))).
		Where(q.Eq(c.Attr("code"), "shirts")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT {c:PK} FROM {Categories AS c} WHERE {c:code} =  ?code1", stmt.Query)
}

func TestTableFor_NoResolver(t *testing.T) {
	_, err := TableFor(nil, ProductModel{})
	require.Error(t, err)
	assert.False(t, IsInvalidType(err))
}
