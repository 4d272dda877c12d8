// Package sqlglot is a SQL lexer, parser, and renderer producing a
// dialect-neutral abstract syntax tree, plus a small rewriter façade for
// common AST transformations (CTAS wrapping, adding select items, WHERE
// clauses, and joins).
package sqlglot

import (
	"github.com/oarkflow/sqlglot/ast"
	"github.com/oarkflow/sqlglot/parser"
	"github.com/oarkflow/sqlglot/render"
	"github.com/oarkflow/sqlglot/rewriter"
)

// Dialect identifiers accepted by Parse and SQL. Unknown dialects behave
// as Generic.
const (
	Generic = ""
	Hive    = render.Hive
)

// Expression is the uniform AST node type shared by every construct the
// parser produces.
type Expression = ast.Expression

// Kind tags an Expression's node type.
type Kind = ast.Kind

// ParseError reports a grammar failure. Scanning failures (such as an
// unterminated quote) are returned as *lexer.LexError instead.
type ParseError = parser.ParseError

// ValueError reports a rewriter precondition violation.
type ValueError = rewriter.ValueError

// ErrorLevel controls how a Parser reacts to structural construction
// failures (Parser.Expression called with a mismatched args shape).
type ErrorLevel = parser.ErrorLevel

const (
	RAISE  = parser.RAISE
	WARN   = parser.WARN
	IGNORE = parser.IGNORE
)

// Parse tokenizes and parses src, splitting on top-level semicolons, and
// returns one Expression per statement.
func Parse(src, dialect string) ([]*Expression, error) {
	return parser.Parse(src, dialect)
}

// ParseOne parses src and returns its first statement.
func ParseOne(src, dialect string) (*Expression, error) {
	return parser.ParseOne(src, dialect)
}

// NewParser builds a Parser over src with the default RAISE error level;
// callers needing WARN/IGNORE semantics or a diagnostic Logger can adjust
// the returned Parser's fields before calling ParseStatements.
func NewParser(src, dialect string) (*parser.Parser, error) {
	return parser.New(src, dialect)
}

// SQL renders e as SQL text for dialect ("" or "hive").
func SQL(e *Expression, dialect string) string {
	return render.SQL(e, dialect)
}

// NewRewriter wraps expr in a Rewriter façade, deep-copying it unless copy
// is false.
func NewRewriter(expr *Expression, copy bool, dialect string) *rewriter.Rewriter {
	return rewriter.New(expr, copy, dialect)
}
