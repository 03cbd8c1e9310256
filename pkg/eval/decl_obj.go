package eval

// DeclClassObject is an instance of a user-declared class. It owns its own
// attribute scope (created on construction; Destroy marks the instance
// dead but leaves the scope in place) plus a
// self-back-reference used to bind method wrappers.
//
// Go's GC handles reference cycles between an instance and closures that
// capture it without a leak, so self is kept as a plain pointer rather
// than a weak one; the alive flag instead tracks liveness explicitly, so
// that an access through self after the owning scope has torn the
// instance down fails rather than silently resurrecting it.
type DeclClassObject struct {
	declType *DeclClassType
	attrs    *SymbolTableStack
	alive    bool
}

func newDeclClassObject(declType *DeclClassType) *DeclClassObject {
	return &DeclClassObject{declType: declType, attrs: NewSymbolTableStack(), alive: true}
}

func (*DeclClassObject) Kind() Kind      { return DECL_OBJ }
func (o *DeclClassObject) TypeObj() Object { return o.declType }
func (o *DeclClassObject) Copy() Object  { return o }
func (o *DeclClassObject) Repr() string  { return "<" + o.declType.name + " instance>" }
func (o *DeclClassObject) Equal(x Object) bool {
	v, ok := x.(*DeclClassObject)
	return ok && v == o
}

// Destroy marks self as expired. It is called by the owning scope (the
// evaluator frame whose declaration introduced the instance) when that
// scope exits.
func (o *DeclClassObject) Destroy() {
	o.alive = false
}

// self returns the instance while it is alive, or a SYMBOL_NOT_FOUND
// RuntimeError if the instance has already been destroyed.
func (o *DeclClassObject) self() (*DeclClassObject, error) {
	if !o.alive {
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "self reference to destroyed %s instance", o.declType.name)
	}
	return o, nil
}

// lookupOwnOrType resolves name for internal dunder dispatch: instance
// scope first, then the type's method chain, without the static-method
// restriction full attribute access applies, since a dunder call is
// always logically instance-bound.
func (o *DeclClassObject) lookupOwnOrType(name string) (Object, bool) {
	if entry, err := o.attrs.Lookup(name, false); err == nil {
		if _, ok := entry.Object.(Callable); ok {
			return entry.Object, true
		}
	}
	return o.declType.lookupMethod(name)
}

// Attr resolves name against the instance scope first (functions wrapped
// with self), otherwise the type's method chain walking bases (functions
// wrapped unless static; calling a static method through an instance is
// an error only for that second path).
func (o *DeclClassObject) Attr(self Object, name string) (Object, error) {
	if _, err := o.self(); err != nil {
		return nil, err
	}
	if entry, err := o.attrs.Lookup(name, false); err == nil {
		if fn, ok := entry.Object.(Callable); ok {
			return NewWrapperFunc(fn, self), nil
		}
		return entry.Object, nil
	}
	if fn, ok := o.declType.lookupMethod(name); ok {
		fo, ok := fn.(*FuncObject)
		if ok && fo.Static {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is static; call it via the type, not an instance", name)
		}
		callable, ok := fn.(Callable)
		if !ok {
			return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not callable", name)
		}
		return NewWrapperFunc(callable, self), nil
	}
	return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "%s has no attribute %s", o.declType.name, name)
}

// AttrAssign always targets the instance scope, creating the slot if
// absent.
func (o *DeclClassObject) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	if _, err := o.self(); err != nil {
		return nil, err
	}
	return o.attrs.Ref(name)
}
