// Package parser implements a Pratt-style, one-token-lookahead parser that
// turns a token stream into a dialect-neutral ast.Expression tree.
package parser

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oarkflow/sqlglot/ast"
	"github.com/oarkflow/sqlglot/lexer"
)

// Parser consumes a pre-lexed token stream and builds ast.Expression trees.
type Parser struct {
	src     string
	toks    []lexer.Token
	pos     int
	dialect string

	Level  ErrorLevel
	Logger *logrus.Logger
	Errors []*ParseError
}

// New creates a Parser over src for the given dialect ("" or "hive").
// Dialect does not change tokenization or grammar; it is stored on the
// Parser but not read by it. The rendering dialect is passed to the
// renderer separately.
func New(src, dialect string) (*Parser, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &Parser{src: src, toks: toks, dialect: dialect, Level: RAISE}, nil
}

// Parse tokenizes and parses src, splitting on top-level semicolons, and
// returns one Expression per statement.
func Parse(src, dialect string) ([]*ast.Expression, error) {
	p, err := New(src, dialect)
	if err != nil {
		return nil, err
	}
	return p.ParseStatements()
}

// ParseOne parses src and returns its first (and only expected) statement.
func ParseOne(src, dialect string) (*ast.Expression, error) {
	stmts, err := Parse(src, dialect)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, newParseError("empty input", 0, 1, 1)
	}
	return stmts[0], nil
}

// ParseStatements parses every top-level, semicolon-separated statement.
func (p *Parser) ParseStatements() ([]*ast.Expression, error) {
	var stmts []*ast.Expression
	for {
		for p.at(lexer.SEMICOLON) {
			p.advance()
		}
		if p.at(lexer.EOF) {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return stmts, err
		}
		stmts = append(stmts, stmt)
		if p.at(lexer.SEMICOLON) {
			p.advance()
		} else if !p.at(lexer.EOF) {
			return stmts, p.errorf("expected ';' or end of input, got %s", p.cur().Type)
		}
	}
	return stmts, nil
}

// --- token-stream helpers -------------------------------------------------

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) atAny(tts ...lexer.TokenType) bool {
	c := p.cur().Type
	for _, tt := range tts {
		if c == tt {
			return true
		}
	}
	return false
}

func (p *Parser) eat(tt lexer.TokenType) (lexer.Token, error) {
	if !p.at(tt) {
		return lexer.Token{}, p.errorf("expected %s, got %s", tt, p.cur().Type)
	}
	return p.advance(), nil
}

func (p *Parser) tryEat(tt lexer.TokenType) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	t := p.cur()
	return newParseError(fmt.Sprintf(format, args...), t.Pos, t.Line, t.Col)
}

// --- schema-validated construction ---------------------------------------

// Expression validates args against kind's schema and, depending on p.Level,
// either returns the constructed node, records a warning and still
// constructs it, or fails outright.
func (p *Parser) Expression(kind ast.Kind, args map[string]any) (*ast.Expression, error) {
	spec, ok := ast.Schema[kind]
	if !ok {
		return nil, p.errorf("unknown expression kind %s", kind)
	}
	var bad string
	for k := range args {
		if !spec.AllowsKey(k) {
			bad = "unknown argument " + k + " for " + kind.String()
			break
		}
	}
	if bad == "" {
		for _, req := range spec.Required {
			if _, present := args[req]; !present {
				bad = "missing required argument " + req + " for " + kind.String()
				break
			}
		}
	}
	if bad != "" {
		perr := p.errorf("%s", bad)
		switch p.Level {
		case RAISE:
			return nil, perr
		case WARN:
			p.Errors = append(p.Errors, perr)
			if p.Logger != nil {
				p.Logger.WithFields(logrus.Fields{
					"msg":  perr.Msg,
					"line": perr.Line,
					"col":  perr.Col,
				}).Warn("structural construction error")
			}
		case IGNORE:
		}
	}
	return ast.New(kind, args), nil
}

func (p *Parser) mustExpr(kind ast.Kind, args map[string]any) (*ast.Expression, error) {
	return p.Expression(kind, args)
}

// --- statements ------------------------------------------------------------

func (p *Parser) parseStatement() (*ast.Expression, error) {
	switch p.cur().Type {
	case lexer.SELECT:
		return p.parseSelect()
	case lexer.CREATE:
		return p.parseCreate()
	case lexer.SET:
		return p.parseSet()
	default:
		return p.parseCommand()
	}
}

func (p *Parser) parseSet() (*ast.Expression, error) {
	p.advance() // SET
	nameTok, err := p.eatIdentLike()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.EQ); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	name, err := p.mustExpr(ast.Identifier, map[string]any{"this": nameTok.Raw})
	if err != nil {
		return nil, err
	}
	return p.mustExpr(ast.Set, map[string]any{"this": name, "value": val})
}

func (p *Parser) eatIdentLike() (lexer.Token, error) {
	if p.at(lexer.IDENT) || p.at(lexer.QIDENT) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf("expected identifier, got %s", p.cur().Type)
}

// parseCommand captures everything up to the next top-level ';' (or EOF)
// verbatim, used for ADD JAR and any statement form outside the grammar.
func (p *Parser) parseCommand() (*ast.Expression, error) {
	if p.at(lexer.EOF) {
		return nil, p.errorf("unexpected end of input")
	}
	start := p.cur().Pos
	end := len(p.src)
	for !p.at(lexer.EOF) && !p.at(lexer.SEMICOLON) {
		p.advance()
	}
	if p.at(lexer.SEMICOLON) {
		end = p.cur().Pos
	}
	text := strings.TrimSpace(p.src[start:end])
	return p.mustExpr(ast.Command, map[string]any{"this": text})
}

// --- SELECT ------------------------------------------------------------

var selectTerminators = []lexer.TokenType{
	lexer.FROM, lexer.WHERE, lexer.GROUP, lexer.ORDER, lexer.LIMIT,
	lexer.ERROR_TARGET, lexer.CONFIDENCE, lexer.RECALL_TARGET, lexer.PRECISION_TARGET,
	lexer.SEMICOLON, lexer.EOF, lexer.RPAREN,
}

func (p *Parser) parseSelect() (*ast.Expression, error) {
	p.advance() // SELECT
	args := map[string]any{}

	var projections []*ast.Expression
	if !p.atAny(selectTerminators...) {
		for {
			proj, err := p.parseProjection()
			if err != nil {
				return nil, err
			}
			projections = append(projections, proj)
			if _, ok := p.tryEat(lexer.COMMA); !ok {
				break
			}
		}
	}
	if projections != nil {
		args["expressions"] = projections
	}

	if p.at(lexer.FROM) {
		from, err := p.parseFrom()
		if err != nil {
			return nil, err
		}
		args["from"] = from
	}

	var joins []*ast.Expression
	for p.startsJoin() {
		j, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		joins = append(joins, j)
	}
	if joins != nil {
		args["joins"] = joins
	}

	if p.at(lexer.WHERE) {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		where, err := p.mustExpr(ast.Where, map[string]any{"this": cond})
		if err != nil {
			return nil, err
		}
		args["where"] = where
	}

	if p.at(lexer.GROUP) {
		p.advance()
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprListUntilTerminator()
		if err != nil {
			return nil, err
		}
		if len(exprs) == 0 {
			return nil, p.errorf("expected expression after GROUP BY")
		}
		gb, err := p.mustExpr(ast.GroupBy, map[string]any{"expressions": exprs})
		if err != nil {
			return nil, err
		}
		args["groupby"] = gb
	}

	if p.at(lexer.ORDER) {
		p.advance()
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprListUntilTerminator()
		if err != nil {
			return nil, err
		}
		if len(exprs) == 0 {
			return nil, p.errorf("expected expression after ORDER BY")
		}
		ob, err := p.mustExpr(ast.OrderBy, map[string]any{"expressions": exprs})
		if err != nil {
			return nil, err
		}
		args["orderby"] = ob
	}

	if p.at(lexer.LIMIT) {
		p.advance()
		n, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		lim, err := p.mustExpr(ast.Limit, map[string]any{"this": n})
		if err != nil {
			return nil, err
		}
		args["limit"] = lim
	}

	for {
		var key string
		var tt lexer.TokenType
		switch p.cur().Type {
		case lexer.ERROR_TARGET:
			key, tt = "error_target", lexer.ERROR_TARGET
		case lexer.CONFIDENCE:
			key, tt = "confidence", lexer.CONFIDENCE
		case lexer.RECALL_TARGET:
			key, tt = "recall_target", lexer.RECALL_TARGET
		case lexer.PRECISION_TARGET:
			key, tt = "precision_target", lexer.PRECISION_TARGET
		default:
			tt = 0
		}
		if tt == 0 {
			break
		}
		target, err := p.parsePercentTarget(tt, targetKind(tt))
		if err != nil {
			return nil, err
		}
		args[key] = target
	}

	return p.mustExpr(ast.Select, args)
}

func targetKind(tt lexer.TokenType) ast.Kind {
	switch tt {
	case lexer.ERROR_TARGET:
		return ast.ErrorTarget
	case lexer.CONFIDENCE:
		return ast.Confidence
	case lexer.RECALL_TARGET:
		return ast.RecallTarget
	default:
		return ast.PrecisionTarget
	}
}

// parsePercentTarget parses `NAME <number>%`; the '%' is mandatory.
func (p *Parser) parsePercentTarget(tt lexer.TokenType, kind ast.Kind) (*ast.Expression, error) {
	p.advance() // the target keyword
	numTok, err := p.eat(lexer.NUMBER)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.PERCENT); err != nil {
		return nil, p.errorf("expected '%%' after %s value", tt)
	}
	lit, err := p.mustExpr(ast.Literal, map[string]any{"this": numTok.Raw, "is_string": false})
	if err != nil {
		return nil, err
	}
	return p.mustExpr(kind, map[string]any{"this": lit})
}

// parseProjection parses one `<expr> [AS <ident-or-tuple>] [# annotation]`
// projection entry. An annotation, when present, replaces the entire
// projection with a standalone Annotation node (discarding any base
// expression and alias), matching the observed source behavior for
// annotated projections.
func (p *Parser) parseProjection() (*ast.Expression, error) {
	if tok, ok := p.tryEat(lexer.ANNOTATION); ok {
		return p.mustExpr(ast.Annotation, map[string]any{"this": tok.Raw})
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	result := expr
	if p.at(lexer.AS) {
		p.advance()
		aliasExpr, err := p.parseAliasTarget()
		if err != nil {
			return nil, err
		}
		result, err = p.mustExpr(ast.Alias, map[string]any{"this": expr, "alias": aliasExpr})
		if err != nil {
			return nil, err
		}
	}

	if tok, ok := p.tryEat(lexer.ANNOTATION); ok {
		return p.mustExpr(ast.Annotation, map[string]any{"this": tok.Raw})
	}
	return result, nil
}

// parseAliasTarget parses either a single identifier or, when the alias is
// introduced by '(', a parenthesized comma list wrapped in a Tuple (used
// for `f(x) AS (a, b)` tuple-valued function results).
func (p *Parser) parseAliasTarget() (*ast.Expression, error) {
	if _, ok := p.tryEat(lexer.LPAREN); ok {
		var idents []*ast.Expression
		for {
			tok, err := p.eatIdentLike()
			if err != nil {
				return nil, err
			}
			ident, err := p.mustExpr(ast.Identifier, map[string]any{"this": tok.Raw, "quoted": tok.Type == lexer.QIDENT})
			if err != nil {
				return nil, err
			}
			idents = append(idents, ident)
			if _, ok := p.tryEat(lexer.COMMA); !ok {
				break
			}
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return p.mustExpr(ast.Tuple, map[string]any{"expressions": idents})
	}
	tok, err := p.eatIdentLike()
	if err != nil {
		return nil, err
	}
	return p.mustExpr(ast.Identifier, map[string]any{"this": tok.Raw, "quoted": tok.Type == lexer.QIDENT})
}

// --- FROM / JOIN -----------------------------------------------------------

func (p *Parser) parseFrom() (*ast.Expression, error) {
	p.advance() // FROM
	var tables []*ast.Expression
	for {
		t, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
		if _, ok := p.tryEat(lexer.COMMA); !ok {
			break
		}
	}
	return p.mustExpr(ast.From, map[string]any{"expressions": tables})
}

func (p *Parser) parseTableRef() (*ast.Expression, error) {
	parts, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	switch len(parts) {
	case 1:
		return p.mustExpr(ast.Table, map[string]any{"this": parts[0]})
	case 2:
		return p.mustExpr(ast.Table, map[string]any{"this": parts[1], "db": parts[0]})
	default:
		return nil, p.errorf("invalid table reference")
	}
}

// parseQualifiedName reads one or more dot-separated identifier parts;
// callers reject more parts than their construct allows.
func (p *Parser) parseQualifiedName() ([]*ast.Expression, error) {
	var parts []*ast.Expression
	for {
		tok, err := p.eatIdentLike()
		if err != nil {
			return nil, err
		}
		ident, err := p.mustExpr(ast.Identifier, map[string]any{"this": tok.Raw, "quoted": tok.Type == lexer.QIDENT})
		if err != nil {
			return nil, err
		}
		parts = append(parts, ident)
		if _, ok := p.tryEat(lexer.DOT); !ok {
			break
		}
	}
	return parts, nil
}

var joinKindTokens = map[lexer.TokenType]bool{
	lexer.JOIN: true, lexer.INNER: true, lexer.LEFT: true,
	lexer.RIGHT: true, lexer.FULL: true, lexer.CROSS: true,
}

func (p *Parser) startsJoin() bool {
	return joinKindTokens[p.cur().Type]
}

// parseJoin recognizes JOIN, INNER JOIN, LEFT JOIN, RIGHT JOIN,
// FULL OUTER JOIN, and CROSS JOIN, preserving the kind text verbatim.
func (p *Parser) parseJoin() (*ast.Expression, error) {
	var words []string
	switch p.cur().Type {
	case lexer.JOIN:
		words = []string{"JOIN"}
		p.advance()
	case lexer.INNER:
		p.advance()
		if _, err := p.eat(lexer.JOIN); err != nil {
			return nil, err
		}
		words = []string{"INNER", "JOIN"}
	case lexer.LEFT:
		p.advance()
		if _, err := p.eat(lexer.JOIN); err != nil {
			return nil, err
		}
		words = []string{"LEFT", "JOIN"}
	case lexer.RIGHT:
		p.advance()
		if _, err := p.eat(lexer.JOIN); err != nil {
			return nil, err
		}
		words = []string{"RIGHT", "JOIN"}
	case lexer.FULL:
		p.advance()
		if _, err := p.eat(lexer.OUTER); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.JOIN); err != nil {
			return nil, err
		}
		words = []string{"FULL", "OUTER", "JOIN"}
	case lexer.CROSS:
		p.advance()
		if _, err := p.eat(lexer.JOIN); err != nil {
			return nil, err
		}
		words = []string{"CROSS", "JOIN"}
	default:
		return nil, p.errorf("expected join, got %s", p.cur().Type)
	}

	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	args := map[string]any{"this": table, "kind": strings.Join(words, " ")}
	if _, ok := p.tryEat(lexer.ON); ok {
		on, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args["on"] = on
	}
	return p.mustExpr(ast.Join, args)
}

// parseExprListUntilTerminator parses a comma-separated expression list,
// stopping (without consuming) at a statement-level terminator.
func (p *Parser) parseExprListUntilTerminator() ([]*ast.Expression, error) {
	var exprs []*ast.Expression
	if p.atAny(selectTerminators...) {
		return exprs, nil
	}
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

// --- CREATE TABLE AS SELECT -------------------------------------------------

func (p *Parser) parseCreate() (*ast.Expression, error) {
	p.advance() // CREATE
	if _, err := p.eat(lexer.TABLE); err != nil {
		return nil, err
	}
	parts, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	var tbl *ast.Expression
	switch len(parts) {
	case 1:
		tbl, err = p.mustExpr(ast.Table, map[string]any{"this": parts[0]})
	case 2:
		tbl, err = p.mustExpr(ast.Table, map[string]any{"this": parts[1], "db": parts[0]})
	default:
		return nil, p.errorf("invalid table reference")
	}
	if err != nil {
		return nil, err
	}

	var props []*ast.Expression
	if _, ok := p.tryEat(lexer.STORED); ok {
		if _, err := p.eat(lexer.AS); err != nil {
			return nil, err
		}
		fmtTok, err := p.eatIdentLike()
		if err != nil {
			return nil, err
		}
		prop, err := p.newProperty("format", fmtTok.Raw)
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	if _, ok := p.tryEat(lexer.TBLPROPERTIES); ok {
		if _, err := p.eat(lexer.LPAREN); err != nil {
			return nil, err
		}
		for {
			keyTok, err := p.eat(lexer.STRING)
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.EQ); err != nil {
				return nil, err
			}
			valTok, err := p.eat(lexer.STRING)
			if err != nil {
				return nil, err
			}
			prop, err := p.newProperty(keyTok.Raw, valTok.Raw)
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
			if _, ok := p.tryEat(lexer.COMMA); !ok {
				break
			}
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(lexer.AS); err != nil {
		return nil, err
	}
	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}

	args := map[string]any{"this": tbl, "kind": "table", "expression": sel}
	if len(props) > 0 {
		properties, err := p.mustExpr(ast.Properties, map[string]any{"expressions": props})
		if err != nil {
			return nil, err
		}
		args["properties"] = properties
	}
	return p.mustExpr(ast.Create, args)
}

func (p *Parser) newProperty(key, value string) (*ast.Expression, error) {
	keyLit, err := p.mustExpr(ast.Literal, map[string]any{"this": key, "is_string": true})
	if err != nil {
		return nil, err
	}
	valLit, err := p.mustExpr(ast.Literal, map[string]any{"this": value, "is_string": true})
	if err != nil {
		return nil, err
	}
	return p.mustExpr(ast.Property, map[string]any{"this": keyLit, "value": valLit})
}
