// Package render walks an ast.Expression tree and emits canonical SQL text
// for a chosen dialect. Rendering is pure: it never mutates its input.
package render

import (
	"strings"

	"github.com/oarkflow/sqlglot/ast"
)

// Hive is the dialect identifier selecting hive-flavored CTAS rendering.
// The empty string selects the generic dialect; any other tag behaves as
// generic.
const Hive = "hive"

// builtinFuncNames is the small set of well-known functions canonicalized
// to upper case in output; user-defined function names preserve the case
// given at the call site.
var builtinFuncNames = map[string]string{
	"sum": "SUM", "count": "COUNT", "avg": "AVG",
	"min": "MIN", "max": "MAX", "if": "IF",
}

// SQL renders e as SQL text for dialect ("" or "hive").
func SQL(e *ast.Expression, dialect string) string {
	r := &renderer{dialect: dialect}
	return r.render(e)
}

type renderer struct {
	dialect string
}

func (r *renderer) render(e *ast.Expression) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ast.Select:
		return r.renderSelect(e)
	case ast.From:
		return "FROM " + r.renderExprList(e.List("expressions"))
	case ast.Join:
		return r.renderJoin(e)
	case ast.Where:
		return "WHERE " + r.render(e.This())
	case ast.And:
		return r.render(e.Get("this")) + " AND " + r.render(e.Get("expression"))
	case ast.Or:
		return r.render(e.Get("this")) + " OR " + r.render(e.Get("expression"))
	case ast.Not:
		return "NOT " + r.render(e.This())
	case ast.Column:
		return r.renderColumn(e)
	case ast.Table:
		return r.renderTable(e)
	case ast.Identifier:
		return r.renderIdentifier(e)
	case ast.Star:
		return "*"
	case ast.Literal:
		return r.renderLiteral(e)
	case ast.Alias:
		return r.render(e.This()) + " AS " + r.render(e.Get("alias"))
	case ast.Func:
		return r.renderFunc(e)
	case ast.Case:
		return r.renderCase(e)
	case ast.When:
		return "WHEN " + r.render(e.This()) + " THEN " + r.render(e.Get("then"))
	case ast.In:
		return r.renderIn(e)
	case ast.Tuple:
		return "(" + r.renderExprList(e.List("expressions")) + ")"
	case ast.Between:
		op := " BETWEEN "
		if e.Bool("not") {
			op = " NOT BETWEEN "
		}
		return r.render(e.This()) + op + r.render(e.Get("low")) + " AND " + r.render(e.Get("high"))
	case ast.Like:
		return r.renderMatch(e, "LIKE")
	case ast.Rlike:
		return r.renderMatch(e, "RLIKE")
	case ast.IsNull:
		if e.Bool("not") {
			return r.render(e.This()) + " IS NOT NULL"
		}
		return r.render(e.This()) + " IS NULL"
	case ast.Binary:
		return r.render(e.Get("this")) + " " + e.Str("op") + " " + r.render(e.Get("expression"))
	case ast.Unary:
		return e.Str("op") + r.render(e.This())
	case ast.Window:
		return r.render(e.This()) + " OVER (" + r.renderOver(e.Get("over")) + ")"
	case ast.Over:
		return r.renderOver(e)
	case ast.PartitionBy:
		return "PARTITION BY " + r.renderExprList(e.List("expressions"))
	case ast.OrderBy:
		return "ORDER BY " + r.renderExprList(e.List("expressions"))
	case ast.GroupBy:
		return "GROUP BY " + r.renderExprList(e.List("expressions"))
	case ast.Limit:
		return "LIMIT " + r.render(e.This())
	case ast.Create:
		return r.renderCreate(e)
	case ast.Property:
		return "'" + escapeSingle(e.Text("this")) + "' = '" + escapeSingle(e.Text("value")) + "'"
	case ast.Annotation:
		return "#" + e.Str("this")
	case ast.Command:
		return e.Str("this")
	case ast.Set:
		return "SET " + r.render(e.This()) + " = " + r.render(e.Get("value"))
	case ast.Paren:
		return "(" + r.render(e.This()) + ")"
	case ast.ErrorTarget:
		return "ERROR_TARGET " + r.render(e.This()) + "%"
	case ast.Confidence:
		return "CONFIDENCE " + r.render(e.This()) + "%"
	case ast.RecallTarget:
		return "RECALL_TARGET " + r.render(e.This()) + "%"
	case ast.PrecisionTarget:
		return "PRECISION_TARGET " + r.render(e.This()) + "%"
	default:
		return ""
	}
}

func (r *renderer) renderSelect(e *ast.Expression) string {
	var clauses []string
	if exprs := e.List("expressions"); len(exprs) > 0 {
		clauses = append(clauses, "SELECT "+r.renderExprList(exprs))
	} else {
		clauses = append(clauses, "SELECT")
	}
	if from := e.Get("from"); from != nil {
		clauses = append(clauses, r.render(from))
	}
	for _, j := range e.List("joins") {
		clauses = append(clauses, r.render(j))
	}
	if w := e.Get("where"); w != nil {
		clauses = append(clauses, r.render(w))
	}
	if gb := e.Get("groupby"); gb != nil {
		clauses = append(clauses, r.render(gb))
	}
	if ob := e.Get("orderby"); ob != nil {
		clauses = append(clauses, r.render(ob))
	}
	if lim := e.Get("limit"); lim != nil {
		clauses = append(clauses, r.render(lim))
	}
	for _, key := range []string{"error_target", "confidence", "recall_target", "precision_target"} {
		if t := e.Get(key); t != nil {
			clauses = append(clauses, r.render(t))
		}
	}
	return strings.Join(clauses, " ")
}

func (r *renderer) renderJoin(e *ast.Expression) string {
	s := e.Str("kind") + " " + r.render(e.This())
	if on := e.Get("on"); on != nil {
		s += " ON " + r.render(on)
	}
	return s
}

func (r *renderer) renderColumn(e *ast.Expression) string {
	var parts []string
	if db := e.Get("db"); db != nil {
		parts = append(parts, r.render(db))
	}
	if tbl := e.Get("table"); tbl != nil {
		parts = append(parts, r.render(tbl))
	}
	parts = append(parts, r.render(e.This()))
	return strings.Join(parts, ".")
}

func (r *renderer) renderTable(e *ast.Expression) string {
	var parts []string
	if db := e.Get("db"); db != nil {
		parts = append(parts, r.render(db))
	}
	parts = append(parts, r.render(e.This()))
	return strings.Join(parts, ".")
}

func (r *renderer) renderIdentifier(e *ast.Expression) string {
	name := e.Str("this")
	if e.Bool("quoted") {
		return "\"" + strings.ReplaceAll(name, "\"", "\"\"") + "\""
	}
	return name
}

func (r *renderer) renderLiteral(e *ast.Expression) string {
	text := e.Str("this")
	if e.Bool("is_string") {
		return "'" + escapeSingle(text) + "'"
	}
	return text
}

func escapeSingle(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (r *renderer) renderFunc(e *ast.Expression) string {
	name := e.Text("this")
	if upper, ok := builtinFuncNames[strings.ToLower(name)]; ok {
		name = upper
	}
	var args string
	if e.Bool("distinct") {
		args = "DISTINCT "
	}
	args += r.renderExprList(e.List("expressions"))
	return name + "(" + args + ")"
}

func (r *renderer) renderCase(e *ast.Expression) string {
	parts := []string{"CASE"}
	for _, w := range e.List("ifs") {
		parts = append(parts, r.render(w))
	}
	if def := e.Get("default"); def != nil {
		parts = append(parts, "ELSE "+r.render(def))
	}
	parts = append(parts, "END")
	return strings.Join(parts, " ")
}

func (r *renderer) renderIn(e *ast.Expression) string {
	op := "IN"
	if e.Bool("not") {
		op = "NOT IN"
	}
	var body string
	if q := e.Get("query"); q != nil {
		body = r.render(q)
	} else {
		body = r.renderExprList(e.List("expressions"))
	}
	return r.render(e.This()) + " " + op + " (" + body + ")"
}

func (r *renderer) renderMatch(e *ast.Expression, keyword string) string {
	op := " " + keyword + " "
	if e.Bool("not") {
		op = " NOT " + keyword + " "
	}
	return r.render(e.Get("this")) + op + r.render(e.Get("expression"))
}

func (r *renderer) renderOver(e *ast.Expression) string {
	var parts []string
	if pb := e.Get("partitionby"); pb != nil {
		parts = append(parts, r.render(pb))
	}
	if ob := e.Get("orderby"); ob != nil {
		parts = append(parts, r.render(ob))
	}
	return strings.Join(parts, " ")
}

func (r *renderer) renderCreate(e *ast.Expression) string {
	head := "CREATE TABLE " + r.render(e.This())
	if r.dialect == Hive {
		props := e.Get("properties")
		var format *ast.Expression
		var rest []*ast.Expression
		for _, p := range props.List("expressions") {
			if strings.EqualFold(p.Text("this"), "format") {
				format = p
				continue
			}
			rest = append(rest, p)
		}
		if format != nil {
			head += " STORED AS " + strings.ToUpper(format.Text("value"))
		}
		if len(rest) > 0 {
			head += " TBLPROPERTIES (" + r.renderExprList(rest) + ")"
		}
	}
	return head + " AS " + r.render(e.Get("expression"))
}

func (r *renderer) renderExprList(list []*ast.Expression) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = r.render(e)
	}
	return strings.Join(parts, ", ")
}
