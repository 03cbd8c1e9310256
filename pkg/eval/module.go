package eval

// ModuleObject is a named, read-only bag of symbols. The only modules
// built are the native Go-backed ones registered at interpreter
// construction.
type ModuleObject struct {
	name  string
	scope *SymbolTableStack
}

// NewModule creates an empty module ready to have symbols Insert-ed into
// its top table.
func NewModule(name string) *ModuleObject {
	return &ModuleObject{name: name, scope: NewSymbolTableStack()}
}

func (*ModuleObject) Kind() Kind      { return MODULE }
func (*ModuleObject) TypeObj() Object { return ModuleTypeObj }
func (m *ModuleObject) Copy() Object  { return m }
func (m *ModuleObject) Repr() string  { return "<module " + m.name + ">" }
func (m *ModuleObject) Equal(x Object) bool {
	v, ok := x.(*ModuleObject)
	return ok && v == m
}

func (m *ModuleObject) Attr(self Object, name string) (Object, error) {
	entry, err := m.scope.Lookup(name, false)
	if err != nil {
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "module %s has no symbol %s", m.name, name)
	}
	return entry.Object, nil
}

func (m *ModuleObject) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "module %s is read-only", m.name)
}

func (m *ModuleObject) set(name string, obj Object) {
	m.scope.Top().Insert(name, obj, false)
}

// importModule resolves an import path against the interpreter's registry
// of native modules. Script files are not read, parsed or run: any path
// that is not a registered native module fails with IMPORT_ERROR.
func (in *Interpreter) importModule(path string) (Object, error) {
	if mod, ok := in.modules[path]; ok {
		return mod, nil
	}
	return nil, NewRuntimeError(IMPORT_ERROR, "no such module: %s", path)
}
