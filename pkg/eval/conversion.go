package eval

import "strconv"

// toInt implements int(x); converting an INT is a no-op, so
// int(int(x)) == int(x).
func toInt(o Object) (Object, error) {
	switch v := o.(type) {
	case *IntObject:
		return NewInt(v.Value), nil
	case *RealObject:
		return NewInt(int64(v.Value)), nil
	case *BoolObject:
		if v.Value {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	case *StringObject:
		i, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot convert %q to int", v.Value)
		}
		return NewInt(i), nil
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot convert %s to int", o.Kind())
	}
}

func toReal(o Object) (Object, error) {
	switch v := o.(type) {
	case *RealObject:
		return NewReal(v.Value), nil
	case *IntObject:
		return NewReal(float64(v.Value)), nil
	case *StringObject:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot convert %q to real", v.Value)
		}
		return NewReal(f), nil
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot convert %s to real", o.Kind())
	}
}

// toStr implements str(x), dispatching to __str__ for declared instances
// and requiring it to return a STRING.
func toStr(fm *Frame, o Object) (Object, error) {
	if decl, ok := o.(*DeclClassObject); ok {
		if fn, ok := decl.lookupOwnOrType(dunderStr); ok {
			res, err := callDunder(fm, decl, fn, dunderStr, nil)
			if err != nil {
				return nil, err
			}
			s, ok := res.(*StringObject)
			if !ok {
				return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "__str__ must return STRING")
			}
			return s, nil
		}
	}
	return NewString(o.Repr()), nil
}
