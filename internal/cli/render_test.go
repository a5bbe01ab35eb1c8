package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("--format", "json", "render", env.doc("queries.yaml"))
	require.NoError(t, err)

	resp := decode[[]RenderedQuery](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	require.Len(t, resp.Data, 2)

	products := resp.Data[0]
	assert.Equal(t, "products-by-code", products.Name)
	assert.Equal(t, "Products with one code", products.Description)
	assert.Equal(t, "flexiblesearch", products.Dialect)
	assert.Equal(t, "SELECT {p:code} FROM {Product AS p} WHERE {p:code} =  ?code1", products.Query)
	assert.Equal(t, 5, products.Count)
	assert.Equal(t, []string{"string"}, products.ResultTypes)
	require.Len(t, products.Params, 1)
	assert.Equal(t, ParamView{Name: "code1", Value: "shirt", Type: "string"}, products.Params[0])

	stock := resp.Data[1]
	assert.Equal(t, "SELECT {PK} FROM {StockLevel} WHERE {available} >  ?available1", stock.Query)
	assert.Zero(t, stock.Count)
}

func TestRender_CatalogOverridesConvention(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("types", "add", "ProductModel", "ApparelProduct")
	require.NoError(t, err)

	out, err := env.run("--format", "json", "render", "-q", "products-by-code", env.doc("queries.yaml"))
	require.NoError(t, err)

	resp := decode[[]RenderedQuery](t, out)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "SELECT {p:code} FROM {ApparelProduct AS p} WHERE {p:code} =  ?code1", resp.Data[0].Query)
}

func TestRender_ConventionFlags(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("--format", "json", "--plural-tables", "render", "-q", "products-by-code", env.doc("queries.yaml"))
	require.NoError(t, err)

	resp := decode[[]RenderedQuery](t, out)
	require.Len(t, resp.Data, 1)
	assert.Contains(t, resp.Data[0].Query, "{Products AS p}")
}

func TestRender_Dialect(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("--format", "json", "render", "--dialect", "postgresql", "-q", "stock", env.doc("queries.yaml"))
	require.NoError(t, err)

	resp := decode[[]RenderedQuery](t, out)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "postgresql", resp.Data[0].Dialect)
	assert.Equal(t, `SELECT "PK" FROM "StockLevel" WHERE "available" > $1`, resp.Data[0].Query)
}

func TestRender_Text(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("render", env.doc("queries.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "-- products-by-code\n-- Products with one code\n")
	assert.Contains(t, out, "SELECT {p:code} FROM {Product AS p} WHERE {p:code} =  ?code1\ncount: 5\n")
	assert.Contains(t, out, "PARAM")
	assert.Contains(t, out, "available1")
}

func TestRender_Failures(t *testing.T) {
	tests := []struct {
		name string
		args func(env *testEnv) []string
		code string
		msg  string
	}{
		{
			name: "missing file",
			args: func(env *testEnv) []string { return []string{"render", env.doc("missing.yaml")} },
			code: ErrCodeLoad,
			msg:  "failed to read document file",
		},
		{
			name: "unknown query",
			args: func(env *testEnv) []string { return []string{"render", "-q", "nope", env.doc("queries.yaml")} },
			code: ErrCodeGeneric,
			msg:  `no query named "nope"`,
		},
		{
			name: "unsupported in sql dialect",
			args: func(env *testEnv) []string { return []string{"render", "--dialect", "mysql", env.doc("raw.yaml")} },
			code: ErrCodeBuild,
			msg:  "UNSUPPORTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, err := env.run(append([]string{"--format", "json"}, tt.args(env)...)...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.True(t, IsReported(err))

			resp := decode[any](t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.msg)
		})
	}
}

func TestRender_RawSubqueryInFlexibleSearch(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("--format", "json", "render", env.doc("raw.yaml"))
	require.NoError(t, err)

	resp := decode[[]RenderedQuery](t, out)
	require.Len(t, resp.Data, 1)
	assert.Contains(t, resp.Data[0].Query, "EXISTS ({{SELECT {PK} FROM {StockLevel}}})")
}
