package rewriter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/sqlglot/ast"
	"github.com/oarkflow/sqlglot/parser"
	"github.com/oarkflow/sqlglot/render"
	"github.com/oarkflow/sqlglot/rewriter"
)

func mustParseOne(t *testing.T, src string) *ast.Expression {
	t.Helper()
	e, err := parser.ParseOne(src, "")
	require.NoError(t, err)
	return e
}

// Scenario 5.
func TestCtasHiveRendersFormatAndTblproperties(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM y")
	r := rewriter.New(base, true, "").Ctas("x", "foo",
		rewriter.Property{Key: "format", Value: "parquet"},
		rewriter.Property{Key: "y", Value: "2"},
	)
	require.NoError(t, r.Err())
	got := render.SQL(r.Expression, render.Hive)
	assert.Equal(t, "CREATE TABLE foo.x STORED AS PARQUET TBLPROPERTIES ('y' = '2') AS SELECT * FROM y", got)
}

// Scenario 6.
func TestAddWhereCombinesWithNewConditionOnLeft(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM x WHERE col1 > 5")
	r := rewriter.New(base, true, "").AddWhere("AND", "col2 IN (1, 2, 3)")
	require.NoError(t, r.Err())
	got := render.SQL(r.Expression, render.Hive)
	assert.Equal(t, "SELECT * FROM x WHERE col2 IN (1, 2, 3) AND col1 > 5", got)
}

func TestAddWhereInstallsFreshWhereWhenNoneExists(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM x")
	r := rewriter.New(base, true, "").AddWhere("AND", "col1 > 5")
	require.NoError(t, r.Err())
	assert.Equal(t, "SELECT * FROM x WHERE col1 > 5", render.SQL(r.Expression, ""))
}

func TestAddWhereUnknownOperatorIsNoOpOnExistingWhere(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM x WHERE col1 > 5")
	r := rewriter.New(base, true, "").AddWhere("", "col2 > 1")
	require.NoError(t, r.Err())
	assert.Equal(t, "SELECT * FROM x WHERE col1 > 5", render.SQL(r.Expression, ""))
}

func TestAddSelectsAppendsProjections(t *testing.T) {
	base := mustParseOne(t, "SELECT a FROM x")
	r := rewriter.New(base, true, "").AddSelects("b", "c AS d")
	require.NoError(t, r.Err())
	assert.Equal(t, "SELECT a, b, c AS d FROM x", render.SQL(r.Expression, ""))
}

func TestAddJoinAppendsJoinClause(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM a")
	r := rewriter.New(base, true, "").AddJoin("JOIN b ON a.id = b.id")
	require.NoError(t, r.Err())
	assert.Equal(t, "SELECT * FROM a JOIN b ON a.id = b.id", render.SQL(r.Expression, ""))
}

// AddSelects and AddJoin splice nodes parsed from a throwaway scratch
// statement into the target tree; both must rebind Parent to the real
// Select, not leave it pointing at the discarded scratch tree.
func TestAddSelectsAndAddJoinRebindParentToRealSelect(t *testing.T) {
	base := mustParseOne(t, "SELECT a FROM x")
	r := rewriter.New(base, true, "").AddSelects("b").AddJoin("JOIN y ON x.id = y.id")
	require.NoError(t, r.Err())

	sel := r.Expression.Find(ast.Select)
	require.NotNil(t, sel)

	exprs := sel.List("expressions")
	require.Len(t, exprs, 2)
	assert.Same(t, sel, exprs[1].Parent, "appended projection should be parented to the real Select")

	joins := sel.List("joins")
	require.Len(t, joins, 1)
	assert.Same(t, sel, joins[0].Parent, "appended join should be parented to the real Select")
}

// Deep-copy safety: rewriting never mutates the original tree.
func TestDeepCopySafety(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM y")
	before := render.SQL(base, "")
	_ = rewriter.New(base, true, "").Ctas("x", "")
	assert.Equal(t, before, render.SQL(base, ""))
}

// Chainability: two façades built from the same base, each mutated
// differently, produce independent trees — neither leaks into the other
// or into the shared base.
func TestChainedRewritersAreIndependent(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM x")
	r1 := rewriter.New(base, true, "").AddWhere("AND", "a > 1")
	r2 := rewriter.New(base, true, "").AddWhere("AND", "b > 2")

	assert.Equal(t, "SELECT * FROM x", render.SQL(base, ""))
	assert.Equal(t, "SELECT * FROM x WHERE a > 1", render.SQL(r1.Expression, ""))
	assert.Equal(t, "SELECT * FROM x WHERE b > 2", render.SQL(r2.Expression, ""))
}

func TestCtasRejectsExistingCreate(t *testing.T) {
	base := mustParseOne(t, "SELECT * FROM y")
	wrapped := rewriter.New(base, true, "").Ctas("x", "")
	require.NoError(t, wrapped.Err())
	again := rewriter.New(wrapped.Expression, true, "").Ctas("z", "")
	var verr *rewriter.ValueError
	require.ErrorAs(t, again.Err(), &verr)
}
