package ast

import "sort"

// Expression is the single node type for the whole AST. Every construct —
// a SELECT statement, a column reference, a literal, a join — is an
// Expression distinguished only by its Kind and the shape of its Args.
// Args values are one of: string, bool, *Expression, or []*Expression.
type Expression struct {
	Kind   Kind
	Args   map[string]any
	Parent *Expression
}

// New builds an Expression without schema validation. It is used by the
// rewriter, which constructs nodes it already knows to be well-formed;
// construction during parsing goes through Parser.Expression instead,
// which validates against Schema before calling New.
func New(kind Kind, args map[string]any) *Expression {
	e := &Expression{Kind: kind, Args: args}
	e.adopt()
	return e
}

// adopt sets Parent on every *Expression/[]*Expression child to e.
func (e *Expression) adopt() {
	for _, v := range e.Args {
		switch child := v.(type) {
		case *Expression:
			if child != nil {
				child.Parent = e
			}
		case []*Expression:
			for _, c := range child {
				if c != nil {
					c.Parent = e
				}
			}
		}
	}
}

// This returns the "this" argument as an *Expression, or nil.
func (e *Expression) This() *Expression {
	if e == nil {
		return nil
	}
	if c, ok := e.Args["this"].(*Expression); ok {
		return c
	}
	return nil
}

// Get returns the *Expression stored under key, or nil.
func (e *Expression) Get(key string) *Expression {
	if e == nil {
		return nil
	}
	if c, ok := e.Args[key].(*Expression); ok {
		return c
	}
	return nil
}

// List returns the []*Expression stored under key, or nil.
func (e *Expression) List(key string) []*Expression {
	if e == nil {
		return nil
	}
	if c, ok := e.Args[key].([]*Expression); ok {
		return c
	}
	return nil
}

// Str returns the string stored under key, or "".
func (e *Expression) Str(key string) string {
	if e == nil {
		return ""
	}
	if s, ok := e.Args[key].(string); ok {
		return s
	}
	return ""
}

// Bool returns the bool stored under key.
func (e *Expression) Bool(key string) bool {
	if e == nil {
		return false
	}
	b, _ := e.Args[key].(bool)
	return b
}

// Text returns the textual payload of an argument: if the value stored
// under key is a raw string, it is returned directly; if it is itself an
// *Expression, Text recurses into THAT expression's own "this" argument.
// This single rule resolves plain names, aliases, and literal bodies
// without special-casing per Kind.
func (e *Expression) Text(key string) string {
	if e == nil {
		return ""
	}
	switch v := e.Args[key].(type) {
	case string:
		return v
	case *Expression:
		return v.Text("this")
	default:
		return ""
	}
}

// Copy returns a deep clone of e: every nested *Expression and
// []*Expression argument is itself cloned, and Parent links are rebuilt
// for the cloned tree. The clone's own Parent is left nil regardless of
// e's; callers reattach it when splicing the clone into another tree.
func (e *Expression) Copy() *Expression {
	if e == nil {
		return nil
	}
	args := make(map[string]any, len(e.Args))
	for k, v := range e.Args {
		switch child := v.(type) {
		case *Expression:
			args[k] = child.Copy()
		case []*Expression:
			cp := make([]*Expression, len(child))
			for i, c := range child {
				cp[i] = c.Copy()
			}
			args[k] = cp
		default:
			args[k] = v
		}
	}
	clone := &Expression{Kind: e.Kind, Args: args}
	clone.adopt()
	return clone
}

// Equals reports whether e and other have the same structure: same Kind
// and recursively equal Args. Parent is excluded from the comparison.
func (e *Expression) Equals(other *Expression) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind || len(e.Args) != len(other.Args) {
		return false
	}
	for k, v := range e.Args {
		ov, ok := other.Args[k]
		if !ok {
			return false
		}
		if !argEquals(v, ov) {
			return false
		}
	}
	return true
}

func argEquals(a, b any) bool {
	switch av := a.(type) {
	case *Expression:
		bv, ok := b.(*Expression)
		return ok && av.Equals(bv)
	case []*Expression:
		bv, ok := b.([]*Expression)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equals(bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Find returns the first node of kind found in a depth-first, pre-order
// walk of e (e itself included), or nil.
func (e *Expression) Find(kind Kind) *Expression {
	var found *Expression
	e.Walk(func(n *Expression) bool {
		if found != nil {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node of kind in e, in depth-first pre-order.
func (e *Expression) FindAll(kind Kind) []*Expression {
	var found []*Expression
	e.Walk(func(n *Expression) bool {
		if n.Kind == kind {
			found = append(found, n)
		}
		return true
	})
	return found
}

// Walk visits e and every descendant in depth-first pre-order, calling
// visit on each. Walk stops descending into a subtree (but continues the
// overall traversal) when visit returns false for that node's children;
// it descends in a stable key order so repeated walks are deterministic.
func (e *Expression) Walk(visit func(*Expression) bool) {
	if e == nil {
		return
	}
	if !visit(e) {
		return
	}
	keys := make([]string, 0, len(e.Args))
	for k := range e.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch child := e.Args[k].(type) {
		case *Expression:
			child.Walk(visit)
		case []*Expression:
			for _, c := range child {
				c.Walk(visit)
			}
		}
	}
}
