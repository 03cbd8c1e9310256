package eval

import (
	"testing"

	"github.com/johanlieber/shell-plus-plus/pkg/ast"
)

func TestBuildDeclIfaceTypeMergesBaseMethods(t *testing.T) {
	stack := NewSymbolTableStack()
	base := &DeclIfaceType{name: "Base", Methods: map[string]ast.AbstractMethodSig{
		"greet": {Name: "greet", NumParams: 0},
	}}
	stack.Top().Insert("Base", base, false)
	fm := &Frame{Stack: stack}

	n := &ast.InterfaceDecl{
		Name:  "Derived",
		Bases: []string{"Base"},
		Methods: []ast.AbstractMethodSig{
			{Name: "farewell", NumParams: 1},
		},
	}
	derived, err := buildDeclIfaceType(fm, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := derived.Methods["greet"]; !ok {
		t.Fatalf("derived interface should inherit greet from its base")
	}
	if _, ok := derived.Methods["farewell"]; !ok {
		t.Fatalf("derived interface should keep its own farewell method")
	}
}

func TestBuildDeclIfaceTypeRejectsDuplicateAcrossBases(t *testing.T) {
	stack := NewSymbolTableStack()
	a := &DeclIfaceType{name: "A", Methods: map[string]ast.AbstractMethodSig{"m": {Name: "m"}}}
	b := &DeclIfaceType{name: "B", Methods: map[string]ast.AbstractMethodSig{"m": {Name: "m"}}}
	stack.Top().Insert("A", a, false)
	stack.Top().Insert("B", b, false)
	fm := &Frame{Stack: stack}

	n := &ast.InterfaceDecl{Name: "C", Bases: []string{"A", "B"}}
	_, err := buildDeclIfaceType(fm, n)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE for a method duplicated across bases, got %v", err)
	}
}

func TestBuildDeclIfaceTypeRejectsDuplicateOwnMethod(t *testing.T) {
	stack := NewSymbolTableStack()
	fm := &Frame{Stack: stack}
	n := &ast.InterfaceDecl{
		Name: "C",
		Methods: []ast.AbstractMethodSig{
			{Name: "m"},
			{Name: "m"},
		},
	}
	_, err := buildDeclIfaceType(fm, n)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE for a method declared twice, got %v", err)
	}
}

func TestDeclIfaceTypeCallRejectsInstantiation(t *testing.T) {
	iface := &DeclIfaceType{name: "Shape", Methods: map[string]ast.AbstractMethodSig{}}
	_, err := iface.Call(&Frame{}, nil, nil)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE when constructing an interface, got %v", err)
	}
}

func TestClassConformsToInterfaceWithMatchingSignature(t *testing.T) {
	stack := NewSymbolTableStack()
	iface := &DeclIfaceType{name: "Greeter", Methods: map[string]ast.AbstractMethodSig{
		"greet": {Name: "greet", NumParams: 0},
	}}
	stack.Top().Insert("Greeter", iface, false)
	fm := &Frame{Stack: stack}

	n := &ast.ClassDecl{
		Name:       "Person",
		Interfaces: []string{"Greeter"},
		Methods: []*ast.FuncDecl{
			{Name: "greet", Params: nil},
		},
	}
	cls, err := buildDeclClassType(fm, n)
	if err != nil {
		t.Fatalf("unexpected error building a conforming class: %v", err)
	}
	if len(cls.Interfaces) != 1 {
		t.Fatalf("expected the class to record its implemented interface")
	}
}

func TestClassFailsConformanceWithMismatchedSignature(t *testing.T) {
	stack := NewSymbolTableStack()
	iface := &DeclIfaceType{name: "Greeter", Methods: map[string]ast.AbstractMethodSig{
		"greet": {Name: "greet", NumParams: 1},
	}}
	stack.Top().Insert("Greeter", iface, false)
	fm := &Frame{Stack: stack}

	n := &ast.ClassDecl{
		Name:       "Person",
		Interfaces: []string{"Greeter"},
		Methods: []*ast.FuncDecl{
			{Name: "greet", Params: nil},
		},
	}
	_, err := buildDeclClassType(fm, n)
	code, ok := CodeOf(err)
	if !ok || code != INCOMPATIBLE_TYPE {
		t.Fatalf("expected INCOMPATIBLE_TYPE for a parameter-count mismatch against the interface, got %v", err)
	}
}
