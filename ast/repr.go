package ast

import "github.com/alecthomas/repr"

// Repr renders e as a deeply nested Go-literal-like string, useful for
// debugging a parsed tree or diffing two trees in a test failure message.
func Repr(e *Expression) string {
	return repr.String(e)
}
