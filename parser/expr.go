package parser

import (
	"strings"

	"github.com/oarkflow/sqlglot/ast"
	"github.com/oarkflow/sqlglot/lexer"
)

// parseExpr is the entry point into the precedence ladder:
// OR < AND < NOT (prefix) < comparison < IN/LIKE/RLIKE/BETWEEN/IS NULL
// < additive < multiplicative < unary < primary.
func (p *Parser) parseExpr() (*ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (*ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.OR) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left, err = p.mustExpr(ast.Or, map[string]any{"this": left, "expression": right})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseAnd() (*ast.Expression, error) {
	left, err := p.parseNotPrefix()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.AND) {
		p.advance()
		right, err := p.parseNotPrefix()
		if err != nil {
			return nil, err
		}
		left, err = p.mustExpr(ast.And, map[string]any{"this": left, "expression": right})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseNotPrefix() (*ast.Expression, error) {
	if p.at(lexer.NOT) {
		p.advance()
		inner, err := p.parseNotPrefix()
		if err != nil {
			return nil, err
		}
		return p.mustExpr(ast.Not, map[string]any{"this": inner})
	}
	return p.parseComparison()
}

var comparisonOps = map[lexer.TokenType]string{
	lexer.EQ: "=", lexer.NEQ: "<>", lexer.LT: "<",
	lexer.GT: ">", lexer.LTE: "<=", lexer.GTE: ">=",
}

func (p *Parser) parseComparison() (*ast.Expression, error) {
	left, err := p.parseInLikeBetween()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Type]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseInLikeBetween()
		if err != nil {
			return nil, err
		}
		left, err = p.mustExpr(ast.Binary, map[string]any{"this": left, "op": op, "expression": right})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseInLikeBetween handles IN, LIKE, RLIKE, BETWEEN ... AND ..., and
// IS [NOT] NULL. IN, LIKE, RLIKE and BETWEEN may each be preceded by NOT
// (as part of their own production, not the general boolean-prefix NOT).
func (p *Parser) parseInLikeBetween() (*ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		negated := false
		if p.at(lexer.NOT) && p.peek(1).Type != lexer.EOF {
			switch p.peek(1).Type {
			case lexer.IN, lexer.LIKE, lexer.RLIKE, lexer.BETWEEN:
				negated = true
				p.advance()
			}
		}

		switch {
		case p.at(lexer.IN):
			p.advance()
			exprs, query, err := p.parseInRHS()
			if err != nil {
				return nil, err
			}
			args := map[string]any{"this": left, "not": negated}
			if query != nil {
				args["query"] = query
			} else {
				args["expressions"] = exprs
			}
			left, err = p.mustExpr(ast.In, args)
			if err != nil {
				return nil, err
			}
			continue

		case p.at(lexer.LIKE):
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left, err = p.mustExpr(ast.Like, map[string]any{"this": left, "expression": right, "not": negated})
			if err != nil {
				return nil, err
			}
			continue

		case p.at(lexer.RLIKE):
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left, err = p.mustExpr(ast.Rlike, map[string]any{"this": left, "expression": right, "not": negated})
			if err != nil {
				return nil, err
			}
			continue

		case p.at(lexer.BETWEEN):
			p.advance()
			low, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.AND); err != nil {
				return nil, err
			}
			high, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left, err = p.mustExpr(ast.Between, map[string]any{"this": left, "low": low, "high": high, "not": negated})
			if err != nil {
				return nil, err
			}
			continue

		case p.at(lexer.IS):
			p.advance()
			isNot := false
			if _, ok := p.tryEat(lexer.NOT); ok {
				isNot = true
			}
			if _, err := p.eat(lexer.NULL_KW); err != nil {
				return nil, err
			}
			left, err = p.mustExpr(ast.IsNull, map[string]any{"this": left, "not": isNot})
			if err != nil {
				return nil, err
			}
			continue
		}

		if negated {
			return nil, p.errorf("expected IN, LIKE, RLIKE, or BETWEEN after NOT")
		}
		break
	}
	return left, nil
}

// parseInRHS parses the parenthesized right-hand side of IN: either a
// subquery or a comma-separated list of expressions (each of which may
// itself be a tuple, e.g. `(1,2)` as one element of an outer list).
func (p *Parser) parseInRHS() ([]*ast.Expression, *ast.Expression, error) {
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, nil, err
	}
	if p.at(lexer.SELECT) {
		sub, err := p.parseSelect()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, nil, err
		}
		return nil, sub, nil
	}
	var items []*ast.Expression
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, nil, err
		}
		items = append(items, e)
		if _, ok := p.tryEat(lexer.COMMA); !ok {
			break
		}
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, nil, err
	}
	return items, nil, nil
}

var additiveOps = map[lexer.TokenType]string{lexer.PLUS: "+", lexer.MINUS: "-"}
var multiplicativeOps = map[lexer.TokenType]string{lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%"}

func (p *Parser) parseAdditive() (*ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.cur().Type]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left, err = p.mustExpr(ast.Binary, map[string]any{"this": left, "op": op, "expression": right})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (*ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur().Type]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left, err = p.mustExpr(ast.Binary, map[string]any{"this": left, "op": op, "expression": right})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (*ast.Expression, error) {
	if p.at(lexer.MINUS) || p.at(lexer.PLUS) {
		op := "-"
		if p.at(lexer.PLUS) {
			op = "+"
		}
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.mustExpr(ast.Unary, map[string]any{"this": operand, "op": op})
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*ast.Expression, error) {
	switch p.cur().Type {
	case lexer.LPAREN:
		return p.parseParenOrTuple()
	case lexer.STAR:
		p.advance()
		return p.mustExpr(ast.Star, map[string]any{})
	case lexer.NUMBER:
		tok := p.advance()
		return p.mustExpr(ast.Literal, map[string]any{"this": tok.Raw, "is_string": false})
	case lexer.STRING:
		tok := p.advance()
		return p.mustExpr(ast.Literal, map[string]any{"this": tok.Raw, "is_string": true})
	case lexer.TRUE_KW:
		p.advance()
		return p.mustExpr(ast.Literal, map[string]any{"this": "true", "is_string": false})
	case lexer.FALSE_KW:
		p.advance()
		return p.mustExpr(ast.Literal, map[string]any{"this": "false", "is_string": false})
	case lexer.NULL_KW:
		p.advance()
		return p.mustExpr(ast.Literal, map[string]any{"this": "NULL", "is_string": false})
	case lexer.CASE:
		return p.parseCase()
	case lexer.IDENT, lexer.QIDENT:
		return p.parseIdentExpr()
	default:
		return nil, p.errorf("unexpected token %s in expression", p.cur().Type)
	}
}

// parseParenOrTuple parses a parenthesized subquery, a grouped expression
// `(e)`, or a tuple `(e1, e2, ...)`.
func (p *Parser) parseParenOrTuple() (*ast.Expression, error) {
	p.advance() // (
	if p.at(lexer.SELECT) {
		sub, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return p.mustExpr(ast.Paren, map[string]any{"this": sub})
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.COMMA) {
		items := []*ast.Expression{first}
		for p.at(lexer.COMMA) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return p.mustExpr(ast.Tuple, map[string]any{"expressions": items})
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return p.mustExpr(ast.Paren, map[string]any{"this": first})
}

// parseIdentExpr parses a (possibly dot-qualified) identifier, which
// resolves to a function call, a window function, or a plain column
// reference depending on what follows.
func (p *Parser) parseIdentExpr() (*ast.Expression, error) {
	parts, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 && p.at(lexer.LPAREN) {
		return p.parseFuncCall(parts[0])
	}
	switch len(parts) {
	case 1:
		return p.mustExpr(ast.Column, map[string]any{"this": parts[0]})
	case 2:
		return p.mustExpr(ast.Column, map[string]any{"this": parts[1], "table": parts[0]})
	case 3:
		return p.mustExpr(ast.Column, map[string]any{"this": parts[2], "table": parts[1], "db": parts[0]})
	default:
		return nil, p.errorf("invalid column reference")
	}
}

// parseFuncCall parses `name(args)`, applying the IF arity check, then an
// optional `OVER (...)` window clause.
func (p *Parser) parseFuncCall(name *ast.Expression) (*ast.Expression, error) {
	p.advance() // (
	distinct := false
	if p.at(lexer.IDENT) && strings.EqualFold(p.cur().Raw, "DISTINCT") {
		distinct = true
		p.advance()
	}
	var argList []*ast.Expression
	if !p.at(lexer.RPAREN) {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			argList = append(argList, a)
			if _, ok := p.tryEat(lexer.COMMA); !ok {
				break
			}
		}
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}

	if strings.EqualFold(name.Text("this"), "IF") && len(argList) != 3 {
		return nil, p.errorf("IF requires exactly 3 arguments, got %d", len(argList))
	}

	args := map[string]any{"this": name, "distinct": distinct}
	if argList != nil {
		args["expressions"] = argList
	}
	fn, err := p.mustExpr(ast.Func, args)
	if err != nil {
		return nil, err
	}

	if p.at(lexer.OVER) {
		return p.parseWindow(fn)
	}
	return fn, nil
}

// parseWindow parses `OVER ( [PARTITION BY ...] [ORDER BY ...] )`.
func (p *Parser) parseWindow(fn *ast.Expression) (*ast.Expression, error) {
	p.advance() // OVER
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	overArgs := map[string]any{}
	if _, ok := p.tryEat(lexer.PARTITION); ok {
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseSimpleExprList()
		if err != nil {
			return nil, err
		}
		pb, err := p.mustExpr(ast.PartitionBy, map[string]any{"expressions": exprs})
		if err != nil {
			return nil, err
		}
		overArgs["partitionby"] = pb
	}
	if p.at(lexer.ORDER) {
		p.advance()
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseSimpleExprList()
		if err != nil {
			return nil, err
		}
		ob, err := p.mustExpr(ast.OrderBy, map[string]any{"expressions": exprs})
		if err != nil {
			return nil, err
		}
		overArgs["orderby"] = ob
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	over, err := p.mustExpr(ast.Over, overArgs)
	if err != nil {
		return nil, err
	}
	return p.mustExpr(ast.Window, map[string]any{"this": fn, "over": over})
}

func (p *Parser) parseSimpleExprList() ([]*ast.Expression, error) {
	var exprs []*ast.Expression
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if _, ok := p.tryEat(lexer.COMMA); !ok {
			break
		}
	}
	return exprs, nil
}

// parseCase parses a searched `CASE WHEN ... THEN ... [ELSE ...] END`.
func (p *Parser) parseCase() (*ast.Expression, error) {
	p.advance() // CASE
	var whens []*ast.Expression
	for p.at(lexer.WHEN) {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.THEN); err != nil {
			return nil, err
		}
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		when, err := p.mustExpr(ast.When, map[string]any{"this": cond, "then": then})
		if err != nil {
			return nil, err
		}
		whens = append(whens, when)
	}
	args := map[string]any{}
	if whens != nil {
		args["ifs"] = whens
	}
	if _, ok := p.tryEat(lexer.ELSE); ok {
		def, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args["default"] = def
	}
	if _, err := p.eat(lexer.END); err != nil {
		return nil, err
	}
	return p.mustExpr(ast.Case, args)
}
