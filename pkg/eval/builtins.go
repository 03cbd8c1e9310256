package eval

import (
	"fmt"
	"os"
)

// registerBuiltins seeds a fresh global scope with the native functions and
// type objects every script can call without an import, plus the native
// modules reachable via `import` (spec's SUPPLEMENTED FEATURES: "native
// Go-backed builtins alongside declared functions").
func registerBuiltins(stack *SymbolTableStack) {
	top := stack.Top()
	top.Insert("print", NewNativeFunc("print", builtinPrint), false)
	top.Insert("len", NewNativeFunc("len", builtinLen), false)
	top.Insert("type", NewNativeFunc("type", builtinType), false)
	top.Insert("hash", NewNativeFunc("hash", builtinHash), false)

	top.Insert("null_t", NullTypeObj, false)
	top.Insert("bool", BoolTypeObj, false)
	top.Insert("int", IntTypeObj, false)
	top.Insert("real", RealTypeObj, false)
	top.Insert("str", StringTypeObj, false)
	top.Insert("array", ArrayTypeObj, false)
	top.Insert("tuple", TupleTypeObj, false)
	top.Insert("map", MapTypeObj, false)
}

func registerNativeModules(in *Interpreter) {
	in.modules["math"] = buildMathModule()
	in.modules["env"] = buildEnvModule()
}

func builtinPrint(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := printableString(fm, a)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	fmt.Fprintln(fm.Stdout, out)
	return NewNull(), nil
}

// printableString dispatches to __print__ if a declared instance defines
// one, else __str__, else the object's Repr, so a declared instance always
// has some printable form even when it customizes neither dunder.
func printableString(fm *Frame, o Object) (string, error) {
	if decl, ok := o.(*DeclClassObject); ok {
		if fn, ok := decl.lookupOwnOrType(dunderPrint); ok {
			res, err := callDunder(fm, decl, fn, dunderPrint, nil)
			if err != nil {
				return "", err
			}
			if s, ok := res.(*StringObject); ok {
				return s.Value, nil
			}
			return "", NewRuntimeError(INCOMPATIBLE_TYPE, "%s must return STRING", dunderPrint)
		}
	}
	s, err := toStr(fm, o)
	if err != nil {
		return "", err
	}
	return s.(*StringObject).Value, nil
}

func builtinLen(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "len() takes exactly 1 argument")
	}
	switch v := args[0].(type) {
	case *ArrayObject:
		return NewInt(int64(len(v.Elems))), nil
	case *TupleObject:
		return NewInt(int64(len(v.Elems))), nil
	case *StringObject:
		return NewInt(int64(len([]rune(v.Value)))), nil
	case *MapObject:
		return NewInt(int64(v.Len())), nil
	case *DeclClassObject:
		if fn, ok := v.lookupOwnOrType(dunderLen); ok {
			res, err := callDunder(fm, v, fn, dunderLen, nil)
			if err != nil {
				return nil, err
			}
			if _, ok := res.(*IntObject); !ok {
				return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s must return INT", dunderLen)
			}
			return res, nil
		}
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", v.declType.Name(), dunderLen)
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no len()", args[0].Kind())
	}
}

// builtinHash implements the hash() builtin, reusing the same __hash__
// dispatch and INT coercion check that map-key hashing applies via
// declHash.
func builtinHash(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "hash() takes exactly 1 argument")
	}
	switch v := args[0].(type) {
	case *DeclClassObject:
		h, err := declHash(fm, v)
		if err != nil {
			return nil, err
		}
		return NewInt(h), nil
	default:
		h, ok := hashKey(fm, v)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not hashable", v.Kind())
		}
		return NewInt(int64(h)), nil
	}
}

func builtinType(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "type() takes exactly 1 argument")
	}
	t := args[0].TypeObj()
	if t == nil {
		return rootType, nil
	}
	return t, nil
}

func buildMathModule() *ModuleObject {
	m := NewModule("math")
	m.set("abs", NewNativeFunc("math.abs", func(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
		if len(args) != 1 {
			return nil, NewRuntimeError(FUNC_PARAMS, "math.abs() takes exactly 1 argument")
		}
		switch v := args[0].(type) {
		case *IntObject:
			if v.Value < 0 {
				return NewInt(-v.Value), nil
			}
			return NewInt(v.Value), nil
		case *RealObject:
			if v.Value < 0 {
				return NewReal(-v.Value), nil
			}
			return NewReal(v.Value), nil
		default:
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "math.abs() requires int or real")
		}
	}))
	m.set("max", NewNativeFunc("math.max", func(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
		if len(args) != 2 {
			return nil, NewRuntimeError(FUNC_PARAMS, "math.max() takes exactly 2 arguments")
		}
		res, err := compareOp(">", args[0], args[1])
		if err != nil {
			return nil, err
		}
		if res.(*BoolObject).Value {
			return args[0], nil
		}
		return args[1], nil
	}))
	return m
}

func buildEnvModule() *ModuleObject {
	m := NewModule("env")
	m.set("get", NewNativeFunc("env.get", func(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
		if len(args) != 1 {
			return nil, NewRuntimeError(FUNC_PARAMS, "env.get() takes exactly 1 argument")
		}
		s, ok := args[0].(*StringObject)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "env.get() requires a string name")
		}
		return NewString(os.Getenv(s.Value)), nil
	}))
	m.set("set", NewNativeFunc("env.set", func(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
		if len(args) != 2 {
			return nil, NewRuntimeError(FUNC_PARAMS, "env.set() takes exactly 2 arguments")
		}
		name, ok := args[0].(*StringObject)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "env.set() requires a string name")
		}
		val, err := toStr(fm, args[1])
		if err != nil {
			return nil, err
		}
		if err := os.Setenv(name.Value, val.(*StringObject).Value); err != nil {
			return nil, NewRuntimeError(INVALID_COMMAND, "env.set(): %v", err)
		}
		return NewNull(), nil
	}))
	return m
}
