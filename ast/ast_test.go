package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string) *Expression {
	return New(Identifier, map[string]any{"this": name})
}

func literal(text string, isString bool) *Expression {
	return New(Literal, map[string]any{"this": text, "is_string": isString})
}

func TestTextDrillsThroughChildExpression(t *testing.T) {
	col := New(Column, map[string]any{"this": ident("a")})
	assert.Equal(t, "a", col.Text("this"))

	alias := New(Alias, map[string]any{"this": col, "alias": ident("B")})
	assert.Equal(t, "B", alias.Text("alias"))
}

func TestCopyIsDeepAndIndependent(t *testing.T) {
	original := New(Column, map[string]any{"this": ident("a")})
	clone := original.Copy()

	require.True(t, original.Equals(clone))
	clone.This().Args["this"] = "changed"
	assert.Equal(t, "a", original.Text("this"))
	assert.Equal(t, "changed", clone.Text("this"))
	assert.False(t, original.Equals(clone))
}

func TestCopyRebuildsParentLinks(t *testing.T) {
	col := New(Column, map[string]any{"this": ident("a")})
	clone := col.Copy()
	require.NotNil(t, clone.This().Parent)
	assert.Same(t, clone, clone.This().Parent)
	assert.NotSame(t, col, clone.This().Parent)
}

func TestEqualsIgnoresParent(t *testing.T) {
	a := New(Select, map[string]any{"expressions": []*Expression{ident("x")}})
	b := New(Select, map[string]any{"expressions": []*Expression{ident("x")}})
	assert.True(t, a.Equals(b))
}

func TestFindAndFindAll(t *testing.T) {
	where := New(Where, map[string]any{"this": New(Binary, map[string]any{
		"this": New(Column, map[string]any{"this": ident("a")}),
		"op":   ">",
		"expression": literal("5", false),
	})})
	sel := New(Select, map[string]any{
		"expressions": []*Expression{New(Column, map[string]any{"this": ident("a")})},
		"where":       where,
	})

	cols := sel.FindAll(Column)
	assert.Len(t, cols, 2)

	assert.Equal(t, Where, sel.Find(Where).Kind)
	assert.Nil(t, sel.Find(Join))
}

func TestExpressionConstructorAdoptsChildren(t *testing.T) {
	this := ident("a")
	col := New(Column, map[string]any{"this": this})
	assert.Same(t, col, this.Parent)
}
