package eval

// BuiltinType is a TYPE-kind Object describing one of the built-in scalar,
// container, function or module kinds. One struct parameterized by a
// constructor func covers every builtin type, since none of them need
// per-type state beyond their name and constructor.
type BuiltinType struct {
	name string
	ctor func(fm *Frame, args []Object, kwargs map[string]Object) (Object, error)
}

// rootType is the singleton `type` object; every TypeObj() chain bottoms
// out here except for rootType itself, which has no type reference.
var rootType = &BuiltinType{name: "type"}

func newBuiltinType(name string, ctor func(*Frame, []Object, map[string]Object) (Object, error)) *BuiltinType {
	return &BuiltinType{name: name, ctor: ctor}
}

func (*BuiltinType) Kind() Kind { return TYPE }

// TypeObj returns rootType for every builtin type except rootType itself,
// which has no type reference.
func (t *BuiltinType) TypeObj() Object {
	if t == rootType {
		return nil
	}
	return rootType
}
func (t *BuiltinType) Copy() Object  { return t }
func (t *BuiltinType) Repr() string  { return "type(" + t.name + ")" }
func (t *BuiltinType) Name() string  { return t.name }

// Equal compares TYPE objects by canonical name.
func (t *BuiltinType) Equal(x Object) bool {
	o, ok := x.(*BuiltinType)
	return ok && o.name == t.name
}

// Call constructs an instance, e.g. `int("3")` or `array(t)`.
func (t *BuiltinType) Call(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	if t.ctor == nil {
		return nil, NewRuntimeError(FUNC_PARAMS, "%s() is not constructible", t.name)
	}
	return t.ctor(fm, args, kwargs)
}

// Builtin type singletons, referenced by scalar/container Kind() -> TypeObj
// mappings above.
var (
	NullTypeObj      = newBuiltinType("null_t", ctorNull)
	BoolTypeObj      = newBuiltinType("bool", ctorBool)
	IntTypeObj       = newBuiltinType("int", ctorInt)
	RealTypeObj      = newBuiltinType("real", ctorReal)
	StringTypeObj    = newBuiltinType("string", ctorString)
	ArrayTypeObj     = newBuiltinType("array", ctorArray)
	TupleTypeObj     = newBuiltinType("tuple", ctorTuple)
	MapTypeObj       = newBuiltinType("map", ctorMap)
	FuncTypeObj      = newBuiltinType("func", nil)
	ModuleTypeObj    = newBuiltinType("module", nil)
	CmdTypeObj       = newBuiltinType("cmdobj", nil)
	ArrayIterTypeObj = newBuiltinType("array_iter", nil)
	CmdIterTypeObj   = newBuiltinType("cmd_iter", nil)
)

func ctorNull(*Frame, []Object, map[string]Object) (Object, error) { return NewNull(), nil }

func ctorBool(fm *Frame, args []Object, _ map[string]Object) (Object, error) {
	if len(args) == 0 {
		return NewBool(false), nil
	}
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "bool() takes at most 1 argument")
	}
	v, err := Truthy(fm, args[0])
	if err != nil {
		return nil, err
	}
	return NewBool(v), nil
}

func ctorInt(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
	if len(args) == 0 {
		return NewInt(0), nil
	}
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "int() takes at most 1 argument")
	}
	return toInt(args[0])
}

func ctorReal(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
	if len(args) == 0 {
		return NewReal(0), nil
	}
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "real() takes at most 1 argument")
	}
	return toReal(args[0])
}

func ctorString(fm *Frame, args []Object, _ map[string]Object) (Object, error) {
	if len(args) == 0 {
		return NewString(""), nil
	}
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "str() takes at most 1 argument")
	}
	return toStr(fm, args[0])
}

func ctorArray(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "array() takes exactly 1 argument")
	}
	switch v := args[0].(type) {
	case *ArrayObject:
		return v.CloneShallow(), nil
	case *TupleObject:
		return v.ToArray(), nil
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "array() argument must be array or tuple")
	}
}

func ctorTuple(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
	if len(args) != 1 {
		return nil, NewRuntimeError(FUNC_PARAMS, "tuple() takes exactly 1 argument")
	}
	switch v := args[0].(type) {
	case *ArrayObject:
		return v.ToTuple(), nil
	case *TupleObject:
		return NewTuple(append([]Object(nil), v.Elems...)), nil
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "tuple() argument must be array or tuple")
	}
}

func ctorMap(*Frame, []Object, map[string]Object) (Object, error) { return NewMap(), nil }
