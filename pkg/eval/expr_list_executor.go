package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// evalExprList evaluates a list of expression nodes left-to-right into a
// slice of Objects, used for array/tuple literals and function-call
// positional arguments, which are always fully evaluated before the call
// itself happens.
func evalExprList(fm *Frame, nodes []ast.Node) ([]Object, error) {
	out := make([]Object, len(nodes))
	for i, n := range nodes {
		v, err := fm.EvalExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalKWArgs evaluates a FuncCall's keyword arguments into a name->Object
// map.
func evalKWArgs(fm *Frame, kwargs []ast.KWArg) (map[string]Object, error) {
	if len(kwargs) == 0 {
		return nil, nil
	}
	out := make(map[string]Object, len(kwargs))
	for _, kw := range kwargs {
		v, err := fm.EvalExpr(kw.Value)
		if err != nil {
			return nil, err
		}
		out[kw.Name] = v
	}
	return out, nil
}
