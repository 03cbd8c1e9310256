// Package eval implements the tree-walking evaluator, the polymorphic
// object model it operates on, and the lexically scoped symbol-table stack
// that backs both variable lookup and declared-object attributes.
package eval

import "github.com/johanlieber/shell-plus-plus/internal/logutil"

var logger = logutil.GetLogger("[eval] ")

// Kind is the closed set of tags every Object carries.
type Kind int

const (
	NULL Kind = iota
	BOOL
	INT
	REAL
	STRING
	ARRAY
	TUPLE
	MAP
	FUNC
	TYPE
	DECL_TYPE
	DECL_IFACE
	DECL_OBJ
	MODULE
	CMD
	ARRAY_ITER
	CMD_ITER
	WRAPPER_FUNC
)

var kindNames = map[Kind]string{
	NULL: "null", BOOL: "bool", INT: "int", REAL: "real", STRING: "string",
	ARRAY: "array", TUPLE: "tuple", MAP: "map", FUNC: "func", TYPE: "type",
	DECL_TYPE: "decl_type", DECL_IFACE: "decl_iface", DECL_OBJ: "decl_obj",
	MODULE: "module", CMD: "cmdobj", ARRAY_ITER: "array_iter",
	CMD_ITER: "cmd_iter", WRAPPER_FUNC: "wrapper_func",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Object is the fundamental unit of value representation. Every concrete
// object type in this package implements it.
type Object interface {
	// Kind returns the object's closed-set kind tag.
	Kind() Kind
	// TypeObj returns the owning reference to the object's type. Only the
	// root `type` object (see typeobj.go) may return nil.
	TypeObj() Object
	// Copy returns a value appropriate for SharedAccess: for scalars, an
	// independent value; for containers and declared instances, the
	// receiver itself (reference semantics).
	Copy() Object
	// Repr renders the object for `print`, without invoking any
	// user-declared __print__/__str__ dispatch (that happens in
	// builtins.go's printableString and conversion.go's toStr, above this
	// method).
	Repr() string
	// Equal reports value equality with another Object.
	Equal(Object) bool
}

// Hasher is implemented by the scalar kinds. Map-key hashing does not go
// through it: hashKey and mapKeyString (container.go) accept INT, STRING,
// TUPLE and declared instances with __hash__, and reject other kinds.
type Hasher interface {
	// Hash returns the object's hash and true, or ok=false if the concrete
	// kind is not hashable.
	Hash() (uint32, bool)
}

// Callable is implemented by every object that can appear on the left of a
// FuncCall: FuncObject (declared, or native via NewNativeFunc),
// WrapperFunc, and type objects (whose
// Call constructs an instance).
type Callable interface {
	Object
	Call(fm *Frame, args []Object, kwargs map[string]Object) (Object, error)
}

// AttrHolder is implemented by objects that expose named attributes:
// declared instances, type objects (methods), and modules.
type AttrHolder interface {
	Object
	// Attr resolves name for reading, given the self object the read is
	// performed through (used to bind method wrappers).
	Attr(self Object, name string) (Object, error)
	// AttrAssign resolves name for writing, creating the slot in the
	// instance scope if absent.
	AttrAssign(self Object, name string) (*SymbolAttr, error)
}
