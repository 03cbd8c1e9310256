package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// DeclIfaceType is a user-declared interface: a DECL_IFACE object holding
// only method signatures, merged uniquely from any base interfaces.
type DeclIfaceType struct {
	name    string
	Bases   []*DeclIfaceType
	Methods map[string]ast.AbstractMethodSig
}

func (*DeclIfaceType) Kind() Kind      { return DECL_IFACE }
func (*DeclIfaceType) TypeObj() Object { return rootType }
func (i *DeclIfaceType) Copy() Object  { return i }
func (i *DeclIfaceType) Repr() string  { return "interface(" + i.name + ")" }
func (i *DeclIfaceType) Equal(x Object) bool {
	o, ok := x.(*DeclIfaceType)
	return ok && o.name == i.name
}

// Call rejects instantiation: an interface describes a contract, not a
// constructible value.
func (i *DeclIfaceType) Call(fm *Frame, args []Object, kwargs map[string]Object) (Object, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "interface %s is not constructible", i.name)
}

func buildDeclIfaceType(fm *Frame, n *ast.InterfaceDecl) (*DeclIfaceType, error) {
	var bases []*DeclIfaceType
	methods := make(map[string]ast.AbstractMethodSig)
	for _, name := range n.Bases {
		obj, err := fm.Stack.SharedAccess(name)
		if err != nil {
			return nil, fm.errorp(n, err)
		}
		base, ok := obj.(*DeclIfaceType)
		if !ok {
			return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not an interface", name))
		}
		bases = append(bases, base)
		for mname, sig := range base.Methods {
			if _, exists := methods[mname]; exists {
				return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE,
					"duplicate method %s across base interfaces of %s", mname, n.Name))
			}
			methods[mname] = sig
		}
	}
	for _, sig := range n.Methods {
		if _, exists := methods[sig.Name]; exists {
			return nil, fm.errorp(n, NewRuntimeError(INCOMPATIBLE_TYPE,
				"duplicate method %s in interface %s", sig.Name, n.Name))
		}
		methods[sig.Name] = sig
	}
	return &DeclIfaceType{name: n.Name, Bases: bases, Methods: methods}, nil
}
