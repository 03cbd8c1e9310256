package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// evalExpr is the expression executor: a type switch over every
// expression-shaped AST node, producing an Object or propagating a wrapped
// RuntimeError.
func evalExpr(fm *Frame, node ast.Node) (Object, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return evalLiteral(n), nil

	case *ast.Identifier:
		v, err := fm.Stack.SharedAccess(n.Name)
		return v, fm.errorp(n, err)

	case *ast.BinaryOp:
		return evalBinaryOpExpr(fm, n)

	case *ast.UnaryOp:
		v, err := fm.EvalExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		res, err := evalUnary(fm, n.Op, v)
		return res, fm.errorp(n, err)

	case *ast.Not:
		v, err := fm.EvalExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		res, err := evalNot(fm, v)
		return res, fm.errorp(n, err)

	case *ast.Attribute:
		operand, err := fm.EvalExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		holder, ok := operand.(AttrHolder)
		if !ok {
			return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no attributes", operand.Kind()))
		}
		v, err := holder.Attr(operand, n.Name)
		return v, fm.errorp(n, err)

	case *ast.ArrayAccess:
		container, err := fm.EvalExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		key, err := fm.EvalExpr(n.Key)
		if err != nil {
			return nil, err
		}
		v, err := getItem(fm, container, key)
		return v, fm.errorp(n, err)

	case *ast.Slice:
		return evalSlice(fm, n)

	case *ast.ArrayInst:
		elems, err := evalExprList(fm, n.Elems)
		if err != nil {
			return nil, err
		}
		return NewArray(elems), nil

	case *ast.TupleInst:
		elems, err := evalExprList(fm, n.Elems)
		if err != nil {
			return nil, err
		}
		return NewTuple(elems), nil

	case *ast.MapInst:
		m := NewMap()
		for _, entry := range n.Entries {
			k, err := fm.EvalExpr(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := fm.EvalExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			if err := m.Set(fm, k, v); err != nil {
				return nil, fm.errorp(n, err)
			}
		}
		return m, nil

	case *ast.FuncCall:
		return evalFuncCall(fm, n)

	case *ast.Lambda:
		return &FuncObject{Name: "<lambda>", Params: paramsOf(n.Params), Body: n.Body, Closure: fm.Stack}, nil

	case *ast.CmdExpression:
		v, err := evalCmdExpression(fm, n)
		return v, fm.errorp(n, err)

	case *ast.CmdPipeSequence:
		v, err := evalCmdPipeSequence(fm, n)
		return v, fm.errorp(n, err)

	default:
		return nil, fm.errorp(node, NewRuntimeError(INVALID_OPCODE, "node kind %v is not an expression", node.Kind()))
	}
}

func evalLiteral(n *ast.Literal) Object {
	switch n.LitKind {
	case ast.LitNull:
		return NewNull()
	case ast.LitBool:
		return NewBool(n.Value.(bool))
	case ast.LitInt:
		return NewInt(n.Value.(int64))
	case ast.LitReal:
		return NewReal(n.Value.(float64))
	case ast.LitString:
		return NewString(n.Value.(string))
	default:
		return NewNull()
	}
}

// evalBinaryOpExpr evaluates a BinaryOp node, short-circuiting && and ||
// so the right operand is never evaluated unless it's actually needed.
func evalBinaryOpExpr(fm *Frame, n *ast.BinaryOp) (Object, error) {
	left, err := fm.EvalExpr(n.Left)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "&&":
		lt, err := Truthy(fm, left)
		if err != nil {
			return nil, fm.errorp(n, err)
		}
		if !lt {
			return NewBool(false), nil
		}
		right, err := fm.EvalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		rt, err := Truthy(fm, right)
		return NewBool(rt), fm.errorp(n, err)

	case "||":
		lt, err := Truthy(fm, left)
		if err != nil {
			return nil, fm.errorp(n, err)
		}
		if lt {
			return NewBool(true), nil
		}
		right, err := fm.EvalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		rt, err := Truthy(fm, right)
		return NewBool(rt), fm.errorp(n, err)
	}

	right, err := fm.EvalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	res, err := evalBinaryOp(fm, n.Op, left, right)
	return res, fm.errorp(n, err)
}

func evalFuncCall(fm *Frame, n *ast.FuncCall) (Object, error) {
	callee, err := fm.EvalExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	callable, ok := callee.(Callable)
	if !ok {
		return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not callable", callee.Kind()))
	}
	args, err := evalExprList(fm, n.Args)
	if err != nil {
		return nil, err
	}
	kwargs, err := evalKWArgs(fm, n.KWArgs)
	if err != nil {
		return nil, err
	}
	v, err := callable.Call(fm, args, kwargs)
	return v, fm.errorp(n, err)
}

// getItem implements `container[key]` reads, the counterpart of
// assignable_list_executor.go's setItem.
func getItem(fm *Frame, container, key Object) (Object, error) {
	switch c := container.(type) {
	case *ArrayObject:
		idx, ok := key.(*IntObject)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "array index must be int")
		}
		return c.GetItem(idx.Value)
	case *TupleObject:
		idx, ok := key.(*IntObject)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "tuple index must be int")
		}
		i, ok := normalizeIndex(idx.Value, len(c.Elems))
		if !ok {
			return nil, NewRuntimeError(OUT_OF_RANGE, "tuple index out of range: %d", idx.Value)
		}
		return c.Elems[i], nil
	case *StringObject:
		idx, ok := key.(*IntObject)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "string index must be int")
		}
		runes := []rune(c.Value)
		i, ok := normalizeIndex(idx.Value, len(runes))
		if !ok {
			return nil, NewRuntimeError(OUT_OF_RANGE, "string index out of range: %d", idx.Value)
		}
		return NewString(string(runes[i])), nil
	case *MapObject:
		return c.Get(fm, key)
	case *DeclClassObject:
		if fn, ok := c.lookupOwnOrType(dunderGetItem); ok {
			return callDunder(fm, c, fn, dunderGetItem, []Object{key})
		}
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", c.declType.Name(), dunderGetItem)
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s does not support item access", container.Kind())
	}
}

func evalSlice(fm *Frame, n *ast.Slice) (Object, error) {
	operand, err := fm.EvalExpr(n.Operand)
	if err != nil {
		return nil, err
	}

	var length int
	switch v := operand.(type) {
	case *ArrayObject:
		length = len(v.Elems)
	case *TupleObject:
		length = len(v.Elems)
	case *StringObject:
		length = len([]rune(v.Value))
	default:
		return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not sliceable", operand.Kind()))
	}

	step := 1
	if n.Step != nil {
		v, err := evalIntNode(fm, n.Step)
		if err != nil {
			return nil, err
		}
		step = v
	}
	start := 0
	if step < 0 {
		start = length - 1
	}
	if n.Start != nil {
		v, err := evalIntNode(fm, n.Start)
		if err != nil {
			return nil, err
		}
		start = v
	}
	stop := length
	if step < 0 {
		stop = -1
	}
	if n.Stop != nil {
		v, err := evalIntNode(fm, n.Stop)
		if err != nil {
			return nil, err
		}
		stop = v
	}

	switch v := operand.(type) {
	case *ArrayObject:
		return v.SliceArray(start, stop, step), nil
	case *TupleObject:
		return v.SliceTuple(start, stop, step), nil
	case *StringObject:
		return sliceString(v.Value, start, stop, step), nil
	default:
		panic("unreachable")
	}
}

func evalIntNode(fm *Frame, n ast.Node) (int, error) {
	v, err := fm.EvalExpr(n)
	if err != nil {
		return 0, err
	}
	i, ok := v.(*IntObject)
	if !ok {
		return 0, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "slice bound must be int"))
	}
	return int(i.Value), nil
}

func sliceString(s string, start, stop, step int) *StringObject {
	runes := []rune(s)
	start, stop, step = clampSlice(len(runes), start, stop, step)
	var out []rune
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, runes[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, runes[i])
		}
	}
	return NewString(string(out))
}
