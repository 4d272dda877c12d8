// Package rewriter provides a small fluent façade for building common
// transformations over a parsed AST: wrapping a query as CTAS, appending
// select items, installing or combining a WHERE clause, and splicing in
// extra joins. New deep-copies its input (unless told not to), so the
// façade's trees are independent of the caller's original; chained calls
// then work on that copy without copying again.
package rewriter

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/oarkflow/sqlglot/ast"
	"github.com/oarkflow/sqlglot/parser"
)

// ValueError reports a rewriter precondition violation, distinct from the
// parser's grammar-level ParseError.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string { return e.Msg }

// Property is one ordered CTAS property key/value pair. Ctas takes these
// as an explicit ordered slice because Go maps do not preserve insertion
// order the way the source's keyword arguments do, and rendering must be
// able to single out "format" deterministically regardless of order.
type Property struct {
	Key   string
	Value string
}

// Rewriter wraps one Expression and offers chainable transformations.
// Each call returns a new Rewriter. AddSelects, AddWhere and AddJoin
// modify the wrapped tree in place and return a Rewriter over that same
// tree, so earlier Rewriters in a chain observe the change; Ctas builds a
// new Create node around the existing tree.
type Rewriter struct {
	Expression *ast.Expression
	dialect    string
	err        error
}

// New wraps expr. When copy is true (the normal case) expr is deep-copied
// immediately, so later chained calls never touch the caller's original
// tree; copy=false is an explicit opt-out for callers that already hold a
// private tree and want to avoid the extra allocation.
func New(expr *ast.Expression, copy bool, dialect string) *Rewriter {
	if copy {
		expr = expr.Copy()
	}
	return &Rewriter{Expression: expr, dialect: dialect}
}

// Err returns the first error recorded by a chained call, if any.
func (r *Rewriter) Err() error { return r.err }

func (r *Rewriter) fail(err error) *Rewriter {
	return &Rewriter{Expression: r.Expression, dialect: r.dialect, err: err}
}

// Ctas wraps r's expression as the SELECT side of a CREATE TABLE AS
// SELECT. It fails with ValueError if the tree already contains a Create.
func (r *Rewriter) Ctas(table, db string, properties ...Property) *Rewriter {
	if r.err != nil {
		return r
	}
	if r.Expression.Find(ast.Create) != nil {
		return r.fail(&ValueError{Msg: "expression already contains a CREATE statement"})
	}

	nameIdent := ast.New(ast.Identifier, map[string]any{"this": table})
	tblArgs := map[string]any{"this": nameIdent}
	if db != "" {
		tblArgs["db"] = ast.New(ast.Identifier, map[string]any{"this": db})
	}
	tbl := ast.New(ast.Table, tblArgs)

	createArgs := map[string]any{
		"this":       tbl,
		"kind":       "table",
		"expression": r.Expression,
	}
	if len(properties) > 0 {
		props := make([]*ast.Expression, len(properties))
		for i, p := range properties {
			props[i] = ast.New(ast.Property, map[string]any{
				"this":  ast.New(ast.Literal, map[string]any{"this": p.Key, "is_string": true}),
				"value": ast.New(ast.Literal, map[string]any{"this": p.Value, "is_string": true}),
			})
		}
		createArgs["properties"] = ast.New(ast.Properties, map[string]any{"expressions": props})
	}

	return &Rewriter{Expression: ast.New(ast.Create, createArgs), dialect: r.dialect}
}

// AddSelects parses each snippet as a standalone expression and appends it
// to the projection list of the first Select found by a depth-first,
// pre-order search: the tree itself when it is a Select, or the query
// under a CREATE. Selects nested inside that one are not targeted.
func (r *Rewriter) AddSelects(snippets ...string) *Rewriter {
	if r.err != nil {
		return r
	}
	sel := r.Expression.Find(ast.Select)
	if sel == nil {
		return r.fail(&ValueError{Msg: "no SELECT found to add selects to"})
	}
	exprs := sel.List("expressions")
	for _, snippet := range snippets {
		parsed, err := parseFragmentExpr(snippet, r.dialect)
		if err != nil {
			return r.fail(err)
		}
		parsed.Parent = sel
		exprs = append(exprs, parsed)
	}
	sel.Args["expressions"] = exprs
	return &Rewriter{Expression: r.Expression, dialect: r.dialect}
}

// AddWhere parses conditionSQL and either installs it as a fresh WHERE or,
// if one already exists, combines the two with And/Or chosen by operator,
// with the new condition on the left: `new AND old` / `new OR old`. An
// empty or unrecognized operator installs the condition when there is no
// existing WHERE, and is a documented no-op (preserving the existing
// WHERE unchanged) when one is already present.
func (r *Rewriter) AddWhere(operator, conditionSQL string) *Rewriter {
	if r.err != nil {
		return r
	}
	sel := r.Expression.Find(ast.Select)
	if sel == nil {
		return r.fail(&ValueError{Msg: "no SELECT found to add a WHERE to"})
	}
	cond, err := parseFragmentExpr(conditionSQL, r.dialect)
	if err != nil {
		return r.fail(err)
	}

	existing := sel.Get("where")
	if existing == nil {
		where := ast.New(ast.Where, map[string]any{"this": cond})
		sel.Args["where"] = where
		return &Rewriter{Expression: r.Expression, dialect: r.dialect}
	}

	var kind ast.Kind
	switch strings.ToUpper(operator) {
	case "AND":
		kind = ast.And
	case "OR":
		kind = ast.Or
	default:
		return &Rewriter{Expression: r.Expression, dialect: r.dialect}
	}
	combined := ast.New(kind, map[string]any{"this": cond, "expression": existing.This()})
	sel.Args["where"] = ast.New(ast.Where, map[string]any{"this": combined})
	return &Rewriter{Expression: r.Expression, dialect: r.dialect}
}

// AddJoin parses joinSQL (a single join clause, e.g. "JOIN b ON a.id =
// b.id") by prefixing it onto a throwaway `SELECT fake FROM fake ` and
// lifting the resulting Select's joins, then appends them to the target
// Select's joins.
func (r *Rewriter) AddJoin(joinSQL string) *Rewriter {
	if r.err != nil {
		return r
	}
	sel := r.Expression.Find(ast.Select)
	if sel == nil {
		return r.fail(&ValueError{Msg: "no SELECT found to add a join to"})
	}
	scratch, err := parser.ParseOne("SELECT fake FROM fake "+joinSQL, r.dialect)
	if err != nil {
		return r.fail(errors.Wrapf(err, "parsing join clause %q", joinSQL))
	}
	newJoins := scratch.List("joins")
	if len(newJoins) == 0 {
		return r.fail(&ValueError{Msg: "no join clause found in: " + joinSQL})
	}
	for _, j := range newJoins {
		j.Parent = sel
	}
	sel.Args["joins"] = append(sel.List("joins"), newJoins...)
	return &Rewriter{Expression: r.Expression, dialect: r.dialect}
}

// parseFragmentExpr parses snippet as a standalone expression by wrapping
// it in a throwaway SELECT and lifting the first projection back out.
func parseFragmentExpr(snippet, dialect string) (*ast.Expression, error) {
	stmt, err := parser.ParseOne("SELECT "+snippet, dialect)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing fragment %q", snippet)
	}
	exprs := stmt.List("expressions")
	if len(exprs) == 0 {
		return nil, &ValueError{Msg: "empty expression fragment: " + snippet}
	}
	return exprs[0], nil
}
