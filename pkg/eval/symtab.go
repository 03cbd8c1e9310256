package eval

// TableType tags the purpose of a SymbolTable frame, determining how
// lookups cross it.
type TableType int

const (
	// BLOCK_TABLE is an ordinary lexical block: loops, if/else arms, try
	// blocks. Lookups pass straight through it.
	BLOCK_TABLE TableType = iota
	// FUNC_TABLE is a function-call frame. It blocks lookup of
	// non-global entries in enclosing BLOCK_TABLE frames, implementing
	// closure isolation: a function body only sees its own locals, the
	// nearest enclosing CLASS_TABLE (for method bodies), and module-root
	// globals.
	FUNC_TABLE
	// CLASS_TABLE holds a declared class or interface's own method/attr
	// scope and participates in method resolution.
	CLASS_TABLE
)

// SymbolAttr is one entry in a SymbolTable: the bound object plus whether
// the binding was declared global.
type SymbolAttr struct {
	Object Object
	Global bool
}

// SymbolTable is a single lexical scope: a flat name -> SymbolAttr map plus
// its TableType tag.
type SymbolTable struct {
	kind    TableType
	entries map[string]*SymbolAttr
}

// NewSymbolTable creates an empty table of the given kind.
func NewSymbolTable(kind TableType) *SymbolTable {
	return &SymbolTable{kind: kind, entries: make(map[string]*SymbolAttr)}
}

// Insert creates or overwrites an entry in this table directly (bypassing
// stack lookup rules); used to seed function parameters, method tables and
// module namespaces.
func (t *SymbolTable) Insert(name string, obj Object, global bool) {
	t.entries[name] = &SymbolAttr{Object: obj, Global: global}
}

// SymbolTableStack is a stack of SymbolTable frames implementing lexical
// scoping. The top frame is always writable.
type SymbolTableStack struct {
	tables []*SymbolTable
}

// NewSymbolTableStack creates a stack seeded with a single BLOCK_TABLE
// (the module/root scope).
func NewSymbolTableStack() *SymbolTableStack {
	return &SymbolTableStack{tables: []*SymbolTable{NewSymbolTable(BLOCK_TABLE)}}
}

// NewTable pushes a fresh table of the given kind onto the stack.
func (s *SymbolTableStack) NewTable(kind TableType) {
	s.tables = append(s.tables, NewSymbolTable(kind))
}

// Pop removes the top table. Popping the last remaining table panics: the
// root scope must never be popped while the stack is in use.
func (s *SymbolTableStack) Pop() {
	if len(s.tables) <= 1 {
		panic("eval: cannot pop the root symbol table")
	}
	s.tables = s.tables[:len(s.tables)-1]
}

// Top returns the writable top table.
func (s *SymbolTableStack) Top() *SymbolTable {
	return s.tables[len(s.tables)-1]
}

// Fork returns a new stack sharing the same underlying table pointers, for
// snapshotting a defer statement's lexical environment.
func (s *SymbolTableStack) Fork() *SymbolTableStack {
	tables := make([]*SymbolTable, len(s.tables))
	copy(tables, s.tables)
	return &SymbolTableStack{tables: tables}
}

// lookupEntry walks the stack from top to bottom applying the FUNC_TABLE
// closure-isolation rule: once a FUNC_TABLE frame is crossed while
// descending, only CLASS_TABLE frames and the bottommost (module-root)
// BLOCK_TABLE remain visible, and only global entries of intervening
// BLOCK_TABLE frames are visible at all.
func (s *SymbolTableStack) lookupEntry(name string) *SymbolAttr {
	crossedFunc := false
	for i := len(s.tables) - 1; i >= 0; i-- {
		t := s.tables[i]
		isRoot := i == 0
		if entry, ok := t.entries[name]; ok {
			switch {
			case !crossedFunc:
				return entry
			case t.kind == CLASS_TABLE:
				return entry
			case isRoot:
				return entry
			case entry.Global:
				return entry
			}
			continue
		}
		if t.kind == FUNC_TABLE {
			crossedFunc = true
		}
	}
	return nil
}

// Lookup resolves name. With create=false, a miss returns
// SYMBOL_NOT_FOUND. With create=true, a miss allocates a fresh NULL-valued
// entry in the top table instead of failing.
func (s *SymbolTableStack) Lookup(name string, create bool) (*SymbolAttr, error) {
	if entry := s.lookupEntry(name); entry != nil {
		return entry, nil
	}
	if create {
		entry := &SymbolAttr{Object: NewNull()}
		s.Top().entries[name] = entry
		return entry, nil
	}
	return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "symbol not found: %s", name)
}

// InsertEntry inserts name into the top table, returning false if it
// already existed there (caller decides whether that is an error).
func (s *SymbolTableStack) InsertEntry(name string, obj Object, global bool) bool {
	top := s.Top()
	if _, exists := top.entries[name]; exists {
		return false
	}
	top.entries[name] = &SymbolAttr{Object: obj, Global: global}
	return true
}

// SharedAccess reads name applying scalar-copy semantics: scalar kinds
// return object.Copy() (an independent value), containers/declared
// objects/functions/types return the same handle.
func (s *SymbolTableStack) SharedAccess(name string) (Object, error) {
	entry, err := s.Lookup(name, false)
	if err != nil {
		return nil, err
	}
	return sharedCopy(entry.Object), nil
}

// Ref returns the mutable binding for name, creating it in the top table if
// absent, for use as an assignment target.
func (s *SymbolTableStack) Ref(name string) (*SymbolAttr, error) {
	return s.Lookup(name, true)
}

func sharedCopy(obj Object) Object {
	switch obj.Kind() {
	case NULL, BOOL, INT, REAL, STRING:
		return obj.Copy()
	default:
		return obj
	}
}
