package eval

import (
	"testing"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
)

func TestEvalExprListEvaluatesInOrder(t *testing.T) {
	fm := &Frame{Stack: NewSymbolTableStack()}
	nodes := []ast.Node{
		&ast.Literal{LitKind: ast.LitInt, Value: int64(1)},
		&ast.Literal{LitKind: ast.LitInt, Value: int64(2)},
		&ast.Literal{LitKind: ast.LitInt, Value: int64(3)},
	}
	out, err := evalExprList(fm, nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []int64{1, 2, 3} {
		if out[i].(*IntObject).Value != want {
			t.Fatalf("out[%d] = %v, want %d", i, out[i].Repr(), want)
		}
	}
}

func TestEvalExprListStopsAtFirstError(t *testing.T) {
	fm := &Frame{Stack: NewSymbolTableStack()}
	nodes := []ast.Node{
		&ast.Literal{LitKind: ast.LitInt, Value: int64(1)},
		&ast.Identifier{Name: "never_defined"},
	}
	_, err := evalExprList(fm, nodes)
	if err == nil {
		t.Fatalf("expected an error resolving an undefined identifier")
	}
}

func TestEvalKWArgsEmptyReturnsNil(t *testing.T) {
	fm := &Frame{Stack: NewSymbolTableStack()}
	out, err := evalKWArgs(fm, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("empty kwargs should evaluate to a nil map, got %v", out)
	}
}

func TestEvalKWArgsBuildsNameToValueMap(t *testing.T) {
	fm := &Frame{Stack: NewSymbolTableStack()}
	kwargs := []ast.KWArg{
		{Name: "a", Value: &ast.Literal{LitKind: ast.LitInt, Value: int64(1)}},
		{Name: "b", Value: &ast.Literal{LitKind: ast.LitString, Value: "x"}},
	}
	out, err := evalKWArgs(fm, kwargs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["a"].(*IntObject).Value != 1 || out["b"].(*StringObject).Value != "x" {
		t.Fatalf("unexpected kwargs map: %v", out)
	}
}
