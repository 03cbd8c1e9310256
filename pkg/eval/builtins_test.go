package eval

import (
	"bytes"
	"os"
	"testing"
)

func TestBuiltinLenDispatchesPerKind(t *testing.T) {
	fm := &Frame{}
	cases := []struct {
		name string
		obj  Object
		want int64
	}{
		{"array", NewArray([]Object{NewInt(1), NewInt(2)}), 2},
		{"string", NewString("hé"), 2}, // rune count, not byte count
	}
	for _, c := range cases {
		res, err := builtinLen(fm, []Object{c.obj}, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if res.(*IntObject).Value != c.want {
			t.Errorf("%s: len() = %v, want %d", c.name, res.Repr(), c.want)
		}
	}
}

func TestBuiltinLenRejectsUnsupportedKind(t *testing.T) {
	fm := &Frame{}
	_, err := builtinLen(fm, []Object{NewInt(1)}, nil)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE, got %v", err)
	}
}

func declClassWithDunder(name string) (*DeclClassType, *SymbolTable) {
	stack := NewSymbolTableStack()
	stack.NewTable(CLASS_TABLE)
	cls := &DeclClassType{name: name, Methods: stack, AbstractMethods: map[string]AbstractMethod{}}
	return cls, stack.Top()
}

func TestBuiltinLenDispatchesToDunderLen(t *testing.T) {
	cls, methods := declClassWithDunder("Widget")
	methods.Insert(dunderLen, NewNativeFunc(dunderLen, func(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
		return NewInt(3), nil
	}), false)
	obj := newDeclClassObject(cls)

	fm := &Frame{}
	res, err := builtinLen(fm, []Object{obj}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*IntObject).Value != 3 {
		t.Fatalf("len(instance) = %v, want 3", res.Repr())
	}
}

func TestBuiltinLenRejectsNonIntFromDunderLen(t *testing.T) {
	cls, methods := declClassWithDunder("Widget")
	methods.Insert(dunderLen, NewNativeFunc(dunderLen, func(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
		return NewString("not an int"), nil
	}), false)
	obj := newDeclClassObject(cls)

	fm := &Frame{}
	_, err := builtinLen(fm, []Object{obj}, nil)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE when __len__ returns non-INT, got %v", err)
	}
}

func TestBuiltinHashDispatchesToDunderHash(t *testing.T) {
	cls, methods := declClassWithDunder("Widget")
	methods.Insert(dunderHash, NewNativeFunc(dunderHash, func(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
		return NewInt(42), nil
	}), false)
	obj := newDeclClassObject(cls)

	fm := &Frame{}
	res, err := builtinHash(fm, []Object{obj}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*IntObject).Value != 42 {
		t.Fatalf("hash(instance) = %v, want 42", res.Repr())
	}
}

func TestBuiltinHashRejectsNonIntFromDunderHash(t *testing.T) {
	cls, methods := declClassWithDunder("Widget")
	methods.Insert(dunderHash, NewNativeFunc(dunderHash, func(_ *Frame, args []Object, _ map[string]Object) (Object, error) {
		return NewString("nope"), nil
	}), false)
	obj := newDeclClassObject(cls)

	fm := &Frame{}
	_, err := builtinHash(fm, []Object{obj}, nil)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE when __hash__ returns non-INT, got %v", err)
	}
}

func TestBuiltinHashOnScalarMatchesMapKeyHashing(t *testing.T) {
	fm := &Frame{}
	res, err := builtinHash(fm, []Object{NewString("k")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*IntObject).Value == 0 {
		t.Fatalf("hash(\"k\") should not be the zero value")
	}
	want, _ := hashKey(fm, NewString("k"))
	if res.(*IntObject).Value != int64(want) {
		t.Fatalf("hash(\"k\") = %d, want map-key hash %d", res.(*IntObject).Value, want)
	}
}

func TestBuiltinTypeReturnsOwningType(t *testing.T) {
	fm := &Frame{}
	res, err := builtinType(fm, []Object{NewInt(1)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != IntTypeObj {
		t.Fatalf("type(1) should be IntTypeObj, got %v", res.Repr())
	}
}

func TestBuiltinTypeOfRootTypeIsRootType(t *testing.T) {
	fm := &Frame{}
	res, err := builtinType(fm, []Object{rootType}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != rootType {
		t.Fatalf("type(type) should be rootType itself, got %v", res.Repr())
	}
}

func TestBuiltinPrintJoinsWithSpacesAndNewline(t *testing.T) {
	var buf bytes.Buffer
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not open pipe: %v", err)
	}
	fm := &Frame{Stdout: w}
	if _, err := builtinPrint(fm, []Object{NewInt(1), NewString("two")}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Close()
	buf.ReadFrom(r)
	if buf.String() != "1 two\n" {
		t.Fatalf("print output = %q, want %q", buf.String(), "1 two\n")
	}
}

func TestMathAbsAndMax(t *testing.T) {
	m := buildMathModule()
	fm := &Frame{}

	absFn, err := m.Attr(m, "abs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := absFn.(Callable).Call(fm, []Object{NewInt(-5)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*IntObject).Value != 5 {
		t.Fatalf("math.abs(-5) = %v, want 5", res.Repr())
	}

	maxFn, err := m.Attr(m, "max")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err = maxFn.(Callable).Call(fm, []Object{NewInt(3), NewInt(9)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*IntObject).Value != 9 {
		t.Fatalf("math.max(3, 9) = %v, want 9", res.Repr())
	}
}

func TestEnvSetThenGetRoundTrips(t *testing.T) {
	m := buildEnvModule()
	fm := &Frame{}

	setFn, _ := m.Attr(m, "set")
	if _, err := setFn.(Callable).Call(fm, []Object{NewString("SHELL_PLUS_PLUS_TEST_VAR"), NewString("hi")}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	getFn, _ := m.Attr(m, "get")
	res, err := getFn.(Callable).Call(fm, []Object{NewString("SHELL_PLUS_PLUS_TEST_VAR")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(*StringObject).Value != "hi" {
		t.Fatalf("env.get() after env.set() = %q, want %q", res.(*StringObject).Value, "hi")
	}
}

func TestImportResolvesOnlyRegisteredNativeModules(t *testing.T) {
	in := NewInterpreter()
	mod, err := in.importModule("math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mod.(*ModuleObject); !ok {
		t.Fatalf("expected a *ModuleObject, got %T", mod)
	}

	_, err = in.importModule("./some/script.shpp")
	code, ok := CodeOf(err)
	if !ok || code != IMPORT_ERROR {
		t.Fatalf("importing a non-native path should fail with IMPORT_ERROR, got %v", err)
	}
}

func TestPrintableStringFallsBackThroughDunderChain(t *testing.T) {
	stack := NewSymbolTableStack()
	stack.NewTable(CLASS_TABLE)
	cls := &DeclClassType{name: "Plain", Methods: stack, AbstractMethods: map[string]AbstractMethod{}}
	obj := newDeclClassObject(cls)

	fm := &Frame{}
	s, err := printableString(fm, obj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != obj.Repr() {
		t.Fatalf("with no __print__/__str__, printableString should fall back to Repr(), got %q want %q", s, obj.Repr())
	}
}
