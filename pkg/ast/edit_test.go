package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/ast"
)

func TestScript_Apply(t *testing.T) {
	t.Parallel()

	root, expr := sampleTree()
	a := expr.FirstChild
	b := expr.LastChild

	var script ast.Script
	script.Delete(expr, expr.ChildAt(1))
	script.Insert(expr, ast.NewLeaf(typePlus, "-"), 1)
	script.Replace(b, ast.NewLeaf(typeIdent, "bc"))

	require.NoError(t, script.Apply())

	assert.Equal(t, "a-bc", root.Text())
	assert.Same(t, a, expr.FirstChild)
	assert.Equal(t, 3, script.Len())
	assert.Len(t, script.Touched(), 2)
}

func TestScript_ApplyIsAllOrNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(expr *ast.Node) *ast.Script
	}{
		{
			name: "index out of range after delete",
			build: func(expr *ast.Node) *ast.Script {
				var s ast.Script
				s.Delete(expr, expr.LastChild)
				s.Insert(expr, ast.NewLeaf(typeIdent, "x"), 3)
				return &s
			},
		},
		{
			name: "double delete",
			build: func(expr *ast.Node) *ast.Script {
				var s ast.Script
				s.Delete(expr, expr.FirstChild)
				s.Delete(expr, expr.FirstChild)
				return &s
			},
		},
		{
			name: "attached new node",
			build: func(expr *ast.Node) *ast.Script {
				var s ast.Script
				s.Insert(expr, ast.NewLeaf(typeIdent, "x"), 0)
				s.Insert(expr, expr.FirstChild, 0)
				return &s
			},
		},
		{
			name: "same new node twice",
			build: func(expr *ast.Node) *ast.Script {
				var s ast.Script
				leaf := ast.NewLeaf(typeIdent, "x")
				s.Insert(expr, leaf, 0)
				s.Insert(expr, leaf, 0)
				return &s
			},
		},
		{
			name: "delete from wrong parent",
			build: func(expr *ast.Node) *ast.Script {
				var s ast.Script
				s.Delete(expr.Parent, expr.FirstChild)
				return &s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, expr := sampleTree()
			before := root.String()

			err := tt.build(expr).Apply()
			require.ErrorIs(t, err, ast.ErrInvalidEdit)
			assert.Equal(t, before, root.String())
		})
	}
}

func TestScript_String(t *testing.T) {
	t.Parallel()

	_, expr := sampleTree()

	var script ast.Script
	assert.True(t, script.Empty())

	script.Replace(expr.LastChild, ast.NewLeaf(typeIdent, "bc"))
	assert.Contains(t, script.String(), `replace AST_TEST_IDENT#`)
	assert.Contains(t, script.String(), `AST_TEST_IDENT"bc"`)
}
