package parser

import "github.com/pkg/errors"

// ErrorLevel controls what Parser.Expression does when asked to build a
// node whose args don't match its Kind's schema.
type ErrorLevel uint8

const (
	// RAISE fails the construction immediately with a *ParseError.
	RAISE ErrorLevel = iota
	// WARN records a *ParseError on Parser.Errors (and logs it, if a
	// Logger is set) but still constructs the node.
	WARN
	// IGNORE silently constructs the node without recording anything.
	IGNORE
)

// ParseError describes a single grammar or structural-construction
// failure, positioned in the original source.
type ParseError struct {
	Msg  string
	Pos  int
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return errors.Errorf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg).Error()
}

func newParseError(msg string, pos, line, col int) *ParseError {
	return &ParseError{Msg: msg, Pos: pos, Line: line, Col: col}
}
