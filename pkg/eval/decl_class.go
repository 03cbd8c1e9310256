package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// AbstractMethod records an unimplemented method's signature: how many
// parameters it takes, how many of those have defaults, and whether the
// last one is variadic.
type AbstractMethod struct {
	NumParams        int
	NumDefaultParams int
	Variadic         bool
}

// Equal reports whether two signatures are interchangeable for overriding
// purposes. For variadic methods all three fields must match; for
// non-variadic methods NumDefaultParams is ignored, since a caller can
// always supply every default explicitly regardless of how many the
// declaration happens to carry. DESIGN.md records the choice to keep this
// asymmetry rather than treat it as a bug.
func (a AbstractMethod) Equal(b AbstractMethod) bool {
	if a.Variadic != b.Variadic {
		return false
	}
	if a.Variadic {
		return a.NumParams == b.NumParams && a.NumDefaultParams == b.NumDefaultParams
	}
	return a.NumParams == b.NumParams
}

func abstractMethodOf(sig ast.AbstractMethodSig) AbstractMethod {
	return AbstractMethod{NumParams: sig.NumParams, NumDefaultParams: sig.NumDefaultParams, Variadic: sig.Variadic}
}

func abstractMethodOfFunc(f *FuncObject) AbstractMethod {
	n := len(f.Params)
	variadic := n > 0 && f.Params[n-1].IsVariadic
	if variadic {
		n--
	}
	return AbstractMethod{NumParams: n, NumDefaultParams: NumDefaultParams(f.Params), Variadic: variadic}
}

// ifaceSigMatches reports whether impl satisfies want: parameter count and
// variadicity must always match; default-parameter count only has to match
// when the method is non-variadic.
func ifaceSigMatches(impl AbstractMethod, want ast.AbstractMethodSig) bool {
	if impl.Variadic != want.Variadic || impl.NumParams != want.NumParams {
		return false
	}
	if want.Variadic {
		return true
	}
	return impl.NumDefaultParams == want.NumDefaultParams
}

// DeclClassType is a user-declared class: a DECL_TYPE object carrying an
// optional base, implemented interfaces, and the set of still-unimplemented
// abstract methods.
type DeclClassType struct {
	name            string
	Base            *DeclClassType
	Interfaces      []*DeclIfaceType
	AbstractFlag    bool
	AbstractMethods map[string]AbstractMethod
	Methods         *SymbolTableStack // CLASS_TABLE holding this class's own declared methods
}

func (*DeclClassType) Kind() Kind      { return DECL_TYPE }
func (*DeclClassType) TypeObj() Object { return rootType }
func (c *DeclClassType) Copy() Object  { return c }
func (c *DeclClassType) Repr() string  { return "type(" + c.name + ")" }
func (c *DeclClassType) Name() string  { return c.name }
func (c *DeclClassType) Equal(x Object) bool {
	o, ok := x.(*DeclClassType)
	return ok && o.name == c.name
}

// lookupMethod walks self, then base (recursively).
func (c *DeclClassType) lookupMethod(name string) (Object, bool) {
	if entry, err := c.Methods.Lookup(name, false); err == nil {
		return entry.Object, true
	}
	if c.Base != nil {
		return c.Base.lookupMethod(name)
	}
	return nil, false
}

// buildDeclClassType constructs a DeclClassType from its declaration node,
// enforcing the class's construction-time invariants: no duplicate abstract
// methods across base and own declarations, every override matching the
// abstract signature it satisfies, and (for non-abstract classes) every
// abstract method and interface method actually implemented.
func buildDeclClassType(fm *Frame, n *ast.ClassDecl) (*DeclClassType, error) {
	var base *DeclClassType
	if n.Base != "" {
		obj, err := fm.Stack.SharedAccess(n.Base)
		if err != nil {
			return nil, fm.errorp(n, err)
		}
		b, ok := obj.(*DeclClassType)
		if !ok {
			return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not a class", n.Base))
		}
		base = b
	}

	var ifaces []*DeclIfaceType
	for _, name := range n.Interfaces {
		obj, err := fm.Stack.SharedAccess(name)
		if err != nil {
			return nil, fm.errorp(n, err)
		}
		iface, ok := obj.(*DeclIfaceType)
		if !ok {
			return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not an interface", name))
		}
		ifaces = append(ifaces, iface)
	}

	abstractMethods := make(map[string]AbstractMethod)
	if base != nil {
		for name, am := range base.AbstractMethods {
			abstractMethods[name] = am
		}
	}
	for _, sig := range n.Abstracts {
		if _, exists := abstractMethods[sig.Name]; exists {
			return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE,
				"duplicate abstract method %s across base and %s", sig.Name, n.Name))
		}
		abstractMethods[sig.Name] = abstractMethodOf(sig)
	}

	classStack := fm.Stack.Fork()
	classStack.NewTable(CLASS_TABLE)

	cls := &DeclClassType{
		name:            n.Name,
		Base:            base,
		Interfaces:      ifaces,
		AbstractFlag:    n.Abstract,
		AbstractMethods: abstractMethods,
		Methods:         classStack,
	}

	for _, m := range n.Methods {
		fn := &FuncObject{Name: m.Name, Params: paramsOf(m.Params), Body: m.Body, Closure: classStack, Static: m.Static}
		if want, exists := cls.AbstractMethods[m.Name]; exists {
			if !abstractMethodOfFunc(fn).Equal(want) {
				return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE,
					"%s.%s does not match the abstract method signature it implements", n.Name, m.Name))
			}
			delete(cls.AbstractMethods, m.Name)
		}
		classStack.Top().Insert(m.Name, fn, false)
	}

	if !n.Abstract {
		if err := cls.checkAbstractMethodsCompatibility(); err != nil {
			return nil, fm.errorp(n, err)
		}
		if err := cls.checkInterfaceConformance(); err != nil {
			return nil, fm.errorp(n, err)
		}
	}

	return cls, nil
}

// checkAbstractMethodsCompatibility requires a non-abstract class to leave
// no abstract method (inherited or own) unimplemented.
func (c *DeclClassType) checkAbstractMethodsCompatibility() error {
	if len(c.AbstractMethods) > 0 {
		for name := range c.AbstractMethods {
			return NewRuntimeError(INCOMPATIBLE_TYPE,
				"class %s does not implement abstract method %s", c.name, name)
		}
	}
	return nil
}

// checkInterfaceConformance requires every implemented interface's methods
// to be present, with a matching signature, somewhere in the MRO chain.
func (c *DeclClassType) checkInterfaceConformance() error {
	for _, iface := range c.Interfaces {
		for name, sig := range iface.Methods {
			fn, ok := c.lookupMethod(name)
			if !ok {
				return NewRuntimeError(INCOMPATIBLE_TYPE,
					"class %s does not implement %s.%s", c.name, iface.name, name)
			}
			fo, ok := fn.(*FuncObject)
			if !ok {
				return NewRuntimeError(INCOMPATIBLE_TYPE, "%s.%s is not a function", c.name, name)
			}
			if !ifaceSigMatches(abstractMethodOfFunc(fo), sig) {
				return NewRuntimeError(INCOMPATIBLE_TYPE,
					"class %s method %s does not match interface %s signature", c.name, name, iface.name)
			}
		}
	}
	return nil
}

// Attr resolves a static method accessed through the type itself (e.g.
// `ClassName.static_method()`); non-static methods require an instance.
func (c *DeclClassType) Attr(self Object, name string) (Object, error) {
	fn, ok := c.lookupMethod(name)
	if !ok {
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "%s has no attribute %s", c.name, name)
	}
	fo, ok := fn.(*FuncObject)
	if !ok || !fo.Static {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s.%s is not static; call it through an instance", c.name, name)
	}
	return fo, nil
}

func (c *DeclClassType) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot assign attributes on a type object")
}

// Call constructs a DeclClassObject and runs __init__ on it, if declared.
func (c *DeclClassType) Call(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	if c.AbstractFlag {
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cannot instantiate abstract class %s", c.name)
	}
	obj := newDeclClassObject(c)
	if fn, ok := obj.lookupOwnOrType(dunderInit); ok {
		if _, err := callDunder(fm, obj, fn, dunderInit, args); err != nil {
			return nil, err
		}
	}
	return obj, nil
}
