package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/sqlglot/ast"
	"github.com/oarkflow/sqlglot/render"
)

func mustParseOne(t *testing.T, src string) *ast.Expression {
	t.Helper()
	e, err := ParseOne(src, "")
	require.NoError(t, err)
	return e
}

func sql(e *ast.Expression, dialect string) string {
	return render.SQL(e, dialect)
}

// requireSQL fails the test with the full tree dump (via ast.Repr) when
// e doesn't render to want, so a mismatch doesn't just show two SQL
// strings but also the node shapes that produced them.
func requireSQL(t *testing.T, want string, e *ast.Expression, dialect string) {
	t.Helper()
	got := sql(e, dialect)
	if got != want {
		t.Fatalf("rendered SQL mismatch:\n got:  %s\n want: %s\n tree: %s", got, want, ast.Repr(e))
	}
}

// Scenario 1: multiple statements split on top-level ';'.
func TestParseMultipleStatements(t *testing.T) {
	stmts, err := Parse("SET x = 1; ADD JAR s3://a; SELECT 1", "")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, "SET x = 1", sql(stmts[0], ""))
	assert.Equal(t, "ADD JAR s3://a", sql(stmts[1], ""))
	assert.Equal(t, "SELECT 1", sql(stmts[2], ""))
}

// Scenario 2: qualified names, quoted identifiers, and aliases.
func TestParseQualifiedNamesAndAliases(t *testing.T) {
	stmt := mustParseOne(t, `SELECT a, "b", c AS c, d AS "D", e AS "y|z'" FROM y."z"`)
	exprs := stmt.List("expressions")
	require.Len(t, exprs, 5)

	assert.Equal(t, "a", exprs[0].Text("this"))
	assert.Equal(t, "b", exprs[1].Text("this"))
	assert.Equal(t, "c", exprs[2].Text("alias"))
	assert.Equal(t, "D", exprs[3].Text("alias"))
	assert.Equal(t, "y|z'", exprs[4].Text("alias"))

	from := stmt.Get("from")
	require.NotNil(t, from)
	tbl := from.List("expressions")[0]
	assert.Equal(t, "z", tbl.Text("this"))
	assert.Equal(t, "y", tbl.Text("db"))
}

// Scenario 3: percent-valued targets round-trip with exact decimal text.
func TestParsePercentTargets(t *testing.T) {
	stmt := mustParseOne(t, "SELECT a FROM b ERROR_TARGET 5.8% CONFIDENCE 95%")
	assert.Equal(t, "SELECT a FROM b ERROR_TARGET 5.8% CONFIDENCE 95%", sql(stmt, ""))
	assert.Equal(t, "5.8", stmt.Get("error_target").Text("this"))
	assert.Equal(t, "95", stmt.Get("confidence").Text("this"))
}

// Scenario 4: annotation handling, including the glued-hash and bare-hash
// edge cases.
func TestParseAnnotations(t *testing.T) {
	src := "SELECT a #annotation1, b as B #annotation2:testing, " +
		"\"test#annotation\", c#annotation3, d #annotation4, e #\nFROM foo"
	stmt := mustParseOne(t, src)
	exprs := stmt.List("expressions")
	require.Len(t, exprs, 6)

	want := []string{"annotation1", "annotation2:testing", "test#annotation", "c#annotation3", "annotation4", ""}
	for i, w := range want {
		assert.Equal(t, w, exprs[i].Text("this"), "projection %d", i)
	}
}

// Scenario 8: a dangling GROUP BY raises ParseError.
func TestParseDanglingGroupByErrors(t *testing.T) {
	_, err := ParseOne("SELECT FROM x GROUP BY", "")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

// Arity: IF must take exactly 3 arguments.
func TestParseIfArity(t *testing.T) {
	_, err := ParseOne("SELECT IF(a, b, c) FROM x", "")
	require.NoError(t, err)

	_, err = ParseOne("SELECT IF(a, b) FROM x", "")
	require.Error(t, err)
}

// User-defined function names round-trip without case normalization,
// while well-known aggregates are uppercased.
func TestParseUserFunctionRoundTrips(t *testing.T) {
	src := "SELECT a, objects00(frame) AS (result1, result2) FROM test WHERE result1 > 1000"
	stmt := mustParseOne(t, src)
	assert.Equal(t, src, sql(stmt, ""))
}

func TestParseBuiltinFunctionNameUppercased(t *testing.T) {
	stmt := mustParseOne(t, "SELECT sum(b) AS c FROM t")
	assert.Equal(t, "SELECT SUM(b) AS c FROM t", sql(stmt, ""))
}

func TestParseJoinsPreserveKind(t *testing.T) {
	stmt := mustParseOne(t, "SELECT * FROM a LEFT JOIN b ON a.id = b.id CROSS JOIN c")
	joins := stmt.List("joins")
	require.Len(t, joins, 2)
	assert.Equal(t, "LEFT JOIN", joins[0].Str("kind"))
	assert.Equal(t, "CROSS JOIN", joins[1].Str("kind"))
}

func TestParseInWithTupleLHSAndSubquery(t *testing.T) {
	stmt := mustParseOne(t, "SELECT * FROM t WHERE (x, y) IN (SELECT a, b FROM u)")
	where := stmt.Get("where")
	in := where.This()
	assert.Equal(t, ast.In, in.Kind)
	assert.Equal(t, ast.Tuple, in.This().Kind)
	require.NotNil(t, in.Get("query"))
}

func TestParseWindowFunction(t *testing.T) {
	stmt := mustParseOne(t, "SELECT rank() OVER (PARTITION BY a ORDER BY b) AS r FROM t")
	alias := stmt.List("expressions")[0]
	win := alias.This()
	assert.Equal(t, ast.Window, win.Kind)
	assert.Equal(t, "SELECT rank() OVER (PARTITION BY a ORDER BY b) AS r FROM t", sql(stmt, ""))
}

func TestParseWhitespaceInsensitivity(t *testing.T) {
	a := mustParseOne(t, "SELECT sum(x) OVER (PARTITION BY a ORDER BY b) FROM t")
	b := mustParseOne(t, "SELECT sum(x) OVER (PARTITION   BY a ORDER BY b) FROM t")
	assert.True(t, a.Equals(b))
}

func TestParserWarnLevelAccumulatesStructuralErrors(t *testing.T) {
	p, err := New("SELECT 1", "")
	require.NoError(t, err)
	p.Level = WARN
	_, err = p.Expression(ast.Literal, map[string]any{"bogus": "x"})
	require.NoError(t, err)
	require.Len(t, p.Errors, 1)
}

func TestParserRaiseLevelFailsOnBadArgs(t *testing.T) {
	p, err := New("SELECT 1", "")
	require.NoError(t, err)
	_, err = p.Expression(ast.Literal, map[string]any{"bogus": "x"})
	require.Error(t, err)
}

func TestParseCreateTableAsSelectHive(t *testing.T) {
	stmt := mustParseOne(t, "CREATE TABLE foo.x STORED AS PARQUET TBLPROPERTIES ('y' = '2') AS SELECT * FROM y")
	assert.Equal(t,
		"CREATE TABLE foo.x STORED AS PARQUET TBLPROPERTIES ('y' = '2') AS SELECT * FROM y",
		sql(stmt, render.Hive),
	)
}

func TestRoundTripStability(t *testing.T) {
	srcs := []string{
		"SELECT a, b FROM t WHERE a > 1 AND b < 2",
		"SELECT a FROM b ERROR_TARGET 5.8% CONFIDENCE 95%",
		"SELECT * FROM a LEFT JOIN b ON a.id = b.id",
	}
	for _, src := range srcs {
		first := mustParseOne(t, src)
		out1 := sql(first, "")
		second := mustParseOne(t, out1)
		requireSQL(t, out1, second, "")
		assert.True(t, first.Equals(second), "round trip for %q", src)
	}
}
