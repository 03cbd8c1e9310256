package eval

// materializeDeclIterable drains a declared instance's iteration protocol
// eagerly: __iter__ (if present) produces the iterator object, defaulting
// to the instance itself, then __has_next__/__next__ are called in
// lock-step until exhausted.
func materializeDeclIterable(fm *Frame, obj *DeclClassObject) ([]Object, error) {
	iterObj := Object(obj)
	if fn, ok := obj.lookupOwnOrType(dunderIter); ok {
		v, err := callDunder(fm, obj, fn, dunderIter, nil)
		if err != nil {
			return nil, err
		}
		iterObj = v
	}

	decl, ok := iterObj.(*DeclClassObject)
	if !ok {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s.%s did not return an iterable instance", obj.declType.Name(), dunderIter)
	}
	hasNextFn, ok := decl.lookupOwnOrType(dunderHasNext)
	if !ok {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", decl.declType.Name(), dunderHasNext)
	}
	nextFn, ok := decl.lookupOwnOrType(dunderNext)
	if !ok {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", decl.declType.Name(), dunderNext)
	}

	var out []Object
	for {
		hn, err := callDunder(fm, decl, hasNextFn, dunderHasNext, nil)
		if err != nil {
			return nil, err
		}
		truthy, err := Truthy(fm, hn)
		if err != nil {
			return nil, err
		}
		if !truthy {
			break
		}
		v, err := callDunder(fm, decl, nextFn, dunderNext, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
