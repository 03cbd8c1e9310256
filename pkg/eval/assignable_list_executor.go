package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// execAssignment evaluates an Assignment statement's value and writes it
// through its target, which may be a single assignable (identifier,
// attribute, array access) or a destructuring list (ArrayInst/TupleInst of
// assignables).
func execAssignment(fm *Frame, n *ast.Assignment) error {
	value, err := fm.EvalExpr(n.Value)
	if err != nil {
		return err
	}
	return assignTo(fm, n.Target, value)
}

func assignTo(fm *Frame, target ast.Node, value Object) error {
	switch t := target.(type) {
	case *ast.Identifier:
		ref, err := fm.Stack.Ref(t.Name)
		if err != nil {
			return fm.errorp(t, err)
		}
		ref.Object = value
		return nil

	case *ast.Attribute:
		self, err := fm.EvalExpr(t.Operand)
		if err != nil {
			return err
		}
		holder, ok := self.(AttrHolder)
		if !ok {
			return fm.errorp(t, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no assignable attributes", self.Kind()))
		}
		ref, err := holder.AttrAssign(self, t.Name)
		if err != nil {
			return fm.errorp(t, err)
		}
		ref.Object = value
		return nil

	case *ast.ArrayAccess:
		container, err := fm.EvalExpr(t.Operand)
		if err != nil {
			return err
		}
		key, err := fm.EvalExpr(t.Key)
		if err != nil {
			return err
		}
		return fm.errorp(t, setItem(fm, container, key, value))

	case *ast.ArrayInst:
		return destructure(fm, t.Elems, value)
	case *ast.TupleInst:
		return destructure(fm, t.Elems, value)

	default:
		return fm.errorp(target, NewRuntimeError(INCOMPATIBLE_TYPE, "invalid assignment target"))
	}
}

func destructure(fm *Frame, targets []ast.Node, value Object) error {
	var elems []Object
	switch v := value.(type) {
	case *ArrayObject:
		elems = v.Elems
	case *TupleObject:
		elems = v.Elems
	default:
		return NewRuntimeError(INCOMPATIBLE_TYPE, "cannot destructure %s", value.Kind())
	}
	if len(elems) != len(targets) {
		return NewRuntimeError(FUNC_PARAMS, "destructuring assignment count mismatch: got %d, want %d", len(elems), len(targets))
	}
	for i, t := range targets {
		if err := assignTo(fm, t, elems[i]); err != nil {
			return err
		}
	}
	return nil
}

// setItem implements `container[key] = value`, dispatching to __getitem__
// for declared instances -- there is no separate write-side dunder, so the
// same method handles both -- while container writes for ARRAY/MAP are
// handled directly since those kinds have no overload.
func setItem(fm *Frame, container, key, value Object) error {
	switch c := container.(type) {
	case *ArrayObject:
		idx, ok := key.(*IntObject)
		if !ok {
			return NewRuntimeError(INCOMPATIBLE_TYPE, "array index must be int")
		}
		return c.SetItem(idx.Value, value)
	case *MapObject:
		return c.Set(fm, key, value)
	case *DeclClassObject:
		if fn, ok := c.lookupOwnOrType(dunderGetItem); ok {
			_, err := callDunder(fm, c, fn, dunderGetItem, []Object{key, value})
			return err
		}
		return NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", c.declType.Name(), dunderGetItem)
	default:
		return NewRuntimeError(INCOMPATIBLE_TYPE, "%s does not support item assignment", container.Kind())
	}
}
