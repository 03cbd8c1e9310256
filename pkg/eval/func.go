package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// ParamSpec describes one formal parameter of a declared function.
type ParamSpec struct {
	Name       string
	Default    ast.Node // nil if the parameter has no default
	IsVariadic bool
}

// NumDefaultParams counts trailing defaulted parameters, used by abstract
// method conformance checks.
func NumDefaultParams(params []ParamSpec) int {
	n := 0
	for _, p := range params {
		if p.Default != nil {
			n++
		}
	}
	return n
}

// NativeFn is the signature of a Go-backed builtin, assigned to
// FuncObject's Native field.
type NativeFn func(fm *Frame, args []Object, kwargs map[string]Object) (Object, error)

// FuncObject is a callable carrying parameter metadata plus either a
// declared AST body or a native handler.
type FuncObject struct {
	Name    string
	Params  []ParamSpec
	Body    ast.Node // Block; nil when Native is set
	Native  NativeFn
	Closure *SymbolTableStack // lexical environment captured at declaration
	Static  bool
}

func NewNativeFunc(name string, fn NativeFn) *FuncObject {
	return &FuncObject{Name: name, Native: fn}
}

func (*FuncObject) Kind() Kind      { return FUNC }
func (*FuncObject) TypeObj() Object { return FuncTypeObj }
func (f *FuncObject) Copy() Object  { return f }
func (f *FuncObject) Repr() string  { return "<func " + f.Name + ">" }
func (f *FuncObject) Equal(x Object) bool {
	o, ok := x.(*FuncObject)
	return ok && o == f
}

// Call invokes Native with args/kwargs as given, or, for a declared
// function, binds args/kwargs to Params (applying defaults and gathering a
// variadic tail), pushes a FUNC_TABLE, and tree-walks Body via a
// FuncCallExecutor.
func (f *FuncObject) Call(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	if f.Native != nil {
		return f.Native(fm, args, kwargs)
	}

	callStack := f.Closure
	if callStack == nil {
		callStack = fm.Stack
	}
	callStack = callStack.Fork()
	callStack.NewTable(FUNC_TABLE)

	if err := bindParams(fm, callStack, f.Params, args, kwargs); err != nil {
		return nil, err
	}

	callFm := fm.withStack(callStack)
	ce := NewFuncCallExecutor(fm.Exec, callStack)
	outcome, err := ce.ExecBlock(callFm, f.Body)
	if err != nil {
		return nil, err
	}
	if outcome.Flag == RETURN {
		return outcome.Value, nil
	}
	return NewNull(), nil
}

func bindParams(fm *Frame, stack *SymbolTableStack, params []ParamSpec, args []Object, kwargs map[string]Object) error {
	variadicIdx := -1
	for i, p := range params {
		if p.IsVariadic {
			variadicIdx = i
		}
	}

	if variadicIdx == -1 {
		if len(args) > len(params) {
			return NewRuntimeError(FUNC_PARAMS, "too many arguments: got %d, want at most %d", len(args), len(params))
		}
	}

	for i, p := range params {
		var val Object
		switch {
		case p.IsVariadic:
			var rest []Object
			if i < len(args) {
				rest = args[i:]
			}
			elems := make([]Object, len(rest))
			copy(elems, rest)
			val = NewArray(elems)
			stack.Top().Insert(p.Name, val, false)
			continue
		case i < len(args):
			val = args[i]
		case kwargs != nil:
			if v, ok := kwargs[p.Name]; ok {
				val = v
				break
			}
			fallthrough
		default:
			if p.Default == nil {
				return NewRuntimeError(FUNC_PARAMS, "missing argument: %s", p.Name)
			}
			v, err := fm.EvalExpr(p.Default)
			if err != nil {
				return err
			}
			val = v
		}
		stack.Top().Insert(p.Name, val, false)
	}
	return nil
}

// WrapperFunc binds a fixed first argument (self) before delegating.
// Constructing a wrapper around an existing wrapper is idempotent: the
// inner self is shadowed rather than stacked.
type WrapperFunc struct {
	Inner Callable
	Self  Object
}

// NewWrapperFunc builds a WrapperFunc, collapsing double-wrapping so that
// wrapper(wrapper(f, self), self2) behaves as wrapper(f, self2).
func NewWrapperFunc(inner Callable, self Object) *WrapperFunc {
	if w, ok := inner.(*WrapperFunc); ok {
		inner = w.Inner
	}
	return &WrapperFunc{Inner: inner, Self: self}
}

func (*WrapperFunc) Kind() Kind      { return WRAPPER_FUNC }
func (*WrapperFunc) TypeObj() Object { return FuncTypeObj }
func (w *WrapperFunc) Copy() Object  { return w }
func (w *WrapperFunc) Repr() string  { return "<bound " + w.Inner.Repr() + ">" }
func (w *WrapperFunc) Equal(x Object) bool {
	o, ok := x.(*WrapperFunc)
	return ok && o.Inner == w.Inner && o.Self == w.Self
}

func (w *WrapperFunc) Call(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	full := make([]Object, 0, len(args)+1)
	full = append(full, w.Self)
	full = append(full, args...)
	return w.Inner.Call(fm, full, kwargs)
}
