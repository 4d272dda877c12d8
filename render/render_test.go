package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/sqlglot/parser"
	"github.com/oarkflow/sqlglot/render"
)

func TestDialectParityWithoutCTAS(t *testing.T) {
	e, err := parser.ParseOne("SELECT a, b FROM t WHERE a > 1 ORDER BY a LIMIT 5", "")
	require.NoError(t, err)
	generic := render.SQL(e, "")
	hive := render.SQL(e, render.Hive)
	assert.Equal(t, generic, hive)
}

func TestCTASGenericOmitsProperties(t *testing.T) {
	e, err := parser.ParseOne("CREATE TABLE x STORED AS PARQUET TBLPROPERTIES ('y' = '2') AS SELECT * FROM y", "")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE x AS SELECT * FROM y", render.SQL(e, ""))
}

func TestAnnotationRendersHashPrefixed(t *testing.T) {
	e, err := parser.ParseOne("SELECT a #hello FROM t", "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT #hello FROM t", render.SQL(e, ""))
}

func TestScalarSubqueryIsParenthesized(t *testing.T) {
	e, err := parser.ParseOne("SELECT (SELECT a FROM inner1) AS x FROM outer1", "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT (SELECT a FROM inner1) AS x FROM outer1", render.SQL(e, ""))
}
