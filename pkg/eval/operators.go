package eval

// Dunder method names used for operator-overload dispatch on declared
// instances.
const (
	dunderAdd     = "__add__"
	dunderSub     = "__sub__"
	dunderMul     = "__mul__"
	dunderDiv     = "__div__"
	dunderMod     = "__mod__"
	dunderLShift  = "__lshift__"
	dunderRShift  = "__rshift__"
	dunderLt      = "__lt__"
	dunderGt      = "__gt__"
	dunderLe      = "__le__"
	dunderGe      = "__ge__"
	dunderEq      = "__eq__"
	dunderNe      = "__ne__"
	dunderContain = "__contains__"
	dunderRAnd    = "__rand__"
	dunderROr     = "__ror__"
	dunderRXor    = "__rxor__"
	dunderRInvert = "__rinvert__"
	dunderAnd     = "__and__"
	dunderOr      = "__or__"
	dunderGetItem = "__getitem__"
	dunderIter    = "__iter__"
	dunderDel     = "__del__"
	dunderPos     = "__pos__"
	dunderNeg     = "__neg__"
	dunderInvert  = "__invert__"
	dunderBegin   = "__begin__"
	dunderEnd     = "__end__"
	dunderNext    = "__next__"
	dunderHasNext = "__has_next__"
	dunderCall    = "__call__"
	dunderPrint   = "__print__"
	dunderLen     = "__len__"
	dunderHash    = "__hash__"
	dunderBool    = "__bool__"
	dunderCmd     = "__cmd__"
	dunderStr     = "__str__"
	dunderInit    = "__init__"
)

var binaryDunder = map[string]string{
	"+": dunderAdd, "-": dunderSub, "*": dunderMul, "/": dunderDiv, "%": dunderMod,
	"<<": dunderLShift, ">>": dunderRShift,
	"<": dunderLt, ">": dunderGt, "<=": dunderLe, ">=": dunderGe,
	"==": dunderEq, "!=": dunderNe,
	"&": dunderAnd, "|": dunderOr,
}

// callDunder invokes a resolved method attribute obtained from a type
// scope, prepending self to args the same way WrapperFunc does, so unary
// and binary dunder dispatch both go through one uniform calling shape.
func callDunder(fm *Frame, self Object, fn Object, name string, args []Object) (Object, error) {
	callable, ok := fn.(Callable)
	if !ok {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not callable", name)
	}
	wrapped := NewWrapperFunc(callable, self)
	return wrapped.Call(fm, args, nil)
}

// evalBinaryOp dispatches a binary operator on the left operand's kind,
// routing declared instances to their dunder method and builtin kinds
// through the usual INT/REAL/STRING coercions.
func evalBinaryOp(fm *Frame, op string, left, right Object) (Object, error) {
	if decl, ok := left.(*DeclClassObject); ok {
		name, ok := binaryDunder[op]
		if !ok {
			return nil, NewRuntimeError(INVALID_OPCODE, "unsupported operator: %s", op)
		}
		fn, ok := decl.lookupOwnOrType(name)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", decl.declType.Name(), name)
		}
		return callDunder(fm, decl, fn, name, []Object{right})
	}

	switch op {
	case "+":
		return arithAdd(left, right)
	case "-", "*", "/", "%":
		return arithNumeric(op, left, right)
	case "<<", ">>", "&", "|", "^":
		return bitOp(op, left, right)
	case "==":
		eq, err := objectsEqual(fm, left, right)
		return NewBool(eq), err
	case "!=":
		eq, err := objectsEqual(fm, left, right)
		return NewBool(!eq), err
	case "<", ">", "<=", ">=":
		return compareOp(op, left, right)
	case "&&":
		lt, err := Truthy(fm, left)
		if err != nil || !lt {
			return NewBool(false), err
		}
		rt, err := Truthy(fm, right)
		return NewBool(rt), err
	case "||":
		lt, err := Truthy(fm, left)
		if err != nil {
			return nil, err
		}
		if lt {
			return NewBool(true), nil
		}
		rt, err := Truthy(fm, right)
		return NewBool(rt), err
	}
	return nil, NewRuntimeError(INVALID_OPCODE, "unsupported operator: %s", op)
}

func arithAdd(left, right Object) (Object, error) {
	if ls, ok := left.(*StringObject); ok {
		if rs, ok := right.(*StringObject); ok {
			return NewString(ls.Value + rs.Value), nil
		}
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot add %s and %s", left.Kind(), right.Kind())
	}
	if la, ok := left.(*ArrayObject); ok {
		if ra, ok := right.(*ArrayObject); ok {
			elems := append(append([]Object{}, la.Elems...), ra.Elems...)
			return NewArray(elems), nil
		}
	}
	return arithNumeric("+", left, right)
}

func numeric(o Object) (float64, bool, bool) {
	switch v := o.(type) {
	case *IntObject:
		return float64(v.Value), true, true
	case *RealObject:
		return v.Value, false, true
	default:
		return 0, false, false
	}
}

func arithNumeric(op string, left, right Object) (Object, error) {
	lf, lIsInt, lok := numeric(left)
	rf, rIsInt, rok := numeric(right)
	if !lok || !rok {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot apply %s to %s and %s", op, left.Kind(), right.Kind())
	}
	var res float64
	switch op {
	case "+":
		res = lf + rf
	case "-":
		res = lf - rf
	case "*":
		res = lf * rf
	case "/":
		if rf == 0 {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "division by zero")
		}
		res = lf / rf
	case "%":
		li, ri := int64(lf), int64(rf)
		if ri == 0 {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "modulo by zero")
		}
		return NewInt(li % ri), nil
	}
	if lIsInt && rIsInt && op != "/" {
		return NewInt(int64(res)), nil
	}
	return NewReal(res), nil
}

func bitOp(op string, left, right Object) (Object, error) {
	li, ok1 := left.(*IntObject)
	ri, ok2 := right.(*IntObject)
	if !ok1 || !ok2 {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "bitwise %s requires int operands", op)
	}
	switch op {
	case "<<":
		return NewInt(li.Value << uint(ri.Value)), nil
	case ">>":
		return NewInt(li.Value >> uint(ri.Value)), nil
	case "&":
		return NewInt(li.Value & ri.Value), nil
	case "|":
		return NewInt(li.Value | ri.Value), nil
	case "^":
		return NewInt(li.Value ^ ri.Value), nil
	}
	return nil, NewRuntimeError(INVALID_OPCODE, "unsupported operator: %s", op)
}

func compareOp(op string, left, right Object) (Object, error) {
	lf, _, lok := numeric(left)
	rf, _, rok := numeric(right)
	if lok && rok {
		return NewBool(compareFloats(op, lf, rf)), nil
	}
	ls, lok := left.(*StringObject)
	rs, rok := right.(*StringObject)
	if lok && rok {
		return NewBool(compareStrings(op, ls.Value, rs.Value)), nil
	}
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot compare %s and %s", left.Kind(), right.Kind())
}

func compareFloats(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

func compareStrings(op string, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

// objectsEqual implements `==`/`!=`, dispatching to __eq__ for declared
// instances.
func objectsEqual(fm *Frame, left, right Object) (bool, error) {
	if decl, ok := left.(*DeclClassObject); ok {
		if fn, ok := decl.lookupOwnOrType(dunderEq); ok {
			res, err := callDunder(fm, decl, fn, dunderEq, []Object{right})
			if err != nil {
				return false, err
			}
			return Truthy(fm, res)
		}
	}
	return left.Equal(right), nil
}

// evalUnary implements the unary/not operators.
func evalUnary(fm *Frame, op string, operand Object) (Object, error) {
	if decl, ok := operand.(*DeclClassObject); ok {
		name := map[string]string{"-": dunderNeg, "+": dunderPos, "~": dunderInvert}[op]
		if fn, ok := decl.lookupOwnOrType(name); ok {
			return callDunder(fm, decl, fn, name, nil)
		}
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", decl.declType.Name(), name)
	}
	switch op {
	case "-":
		switch v := operand.(type) {
		case *IntObject:
			return NewInt(-v.Value), nil
		case *RealObject:
			return NewReal(-v.Value), nil
		}
	case "+":
		switch operand.(type) {
		case *IntObject, *RealObject:
			return operand, nil
		}
	case "~":
		if v, ok := operand.(*IntObject); ok {
			return NewInt(^v.Value), nil
		}
	}
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "unsupported unary %s on %s", op, operand.Kind())
}

func evalNot(fm *Frame, operand Object) (Object, error) {
	t, err := Truthy(fm, operand)
	if err != nil {
		return nil, err
	}
	return NewBool(!t), nil
}
