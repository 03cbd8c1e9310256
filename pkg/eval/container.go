package eval

import (
	"fmt"
	"strings"

	"github.com/johanlieber/shell-plus-plus/internal/hashutil"
)

// ArrayObject is a mutable, reference-semantic ordered sequence.
type ArrayObject struct {
	Elems []Object
}

func NewArray(elems []Object) *ArrayObject { return &ArrayObject{Elems: elems} }

func (*ArrayObject) Kind() Kind      { return ARRAY }
func (*ArrayObject) TypeObj() Object { return ArrayTypeObj }

// Copy returns the receiver itself: arrays have reference semantics, so
// SharedAccess never calls this for identifier reads, but an explicit
// `array(x)` copy-constructor needs an independent clone -- see
// CloneShallow.
func (o *ArrayObject) Copy() Object { return o }

// CloneShallow returns a new ArrayObject with the same elements (used by
// the `array` conversion built-in).
func (o *ArrayObject) CloneShallow() *ArrayObject {
	elems := make([]Object, len(o.Elems))
	copy(elems, o.Elems)
	return NewArray(elems)
}

func (o *ArrayObject) Repr() string {
	parts := make([]string, len(o.Elems))
	for i, e := range o.Elems {
		parts[i] = e.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (o *ArrayObject) Equal(x Object) bool {
	v, ok := x.(*ArrayObject)
	if !ok || len(v.Elems) != len(o.Elems) {
		return false
	}
	for i := range o.Elems {
		if !o.Elems[i].Equal(v.Elems[i]) {
			return false
		}
	}
	return true
}

// GetItem implements array indexing with Python-style negative indices.
func (o *ArrayObject) GetItem(idx int64) (Object, error) {
	i, ok := normalizeIndex(idx, len(o.Elems))
	if !ok {
		return nil, NewRuntimeError(OUT_OF_RANGE, "array index out of range: %d", idx)
	}
	return o.Elems[i], nil
}

// SetItem implements assignment through `arr[i] = v`.
func (o *ArrayObject) SetItem(idx int64, v Object) error {
	i, ok := normalizeIndex(idx, len(o.Elems))
	if !ok {
		return NewRuntimeError(OUT_OF_RANGE, "array index out of range: %d", idx)
	}
	o.Elems[i] = v
	return nil
}

func normalizeIndex(idx int64, length int) (int, bool) {
	i := idx
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, false
	}
	return int(i), true
}

// clampSlice clamps start/stop/step to the container bounds without raising.
func clampSlice(length, start, stop, step int) (int, int, int) {
	if step == 0 {
		step = 1
	}
	if step > 0 {
		if start < 0 {
			start = 0
		}
		if start > length {
			start = length
		}
		if stop < 0 {
			stop = 0
		}
		if stop > length {
			stop = length
		}
	} else {
		if start >= length {
			start = length - 1
		}
		if start < -1 {
			start = -1
		}
		if stop >= length {
			stop = length - 1
		}
		if stop < -1 {
			stop = -1
		}
	}
	return start, stop, step
}

// Attr exposes `.iter()`, constructing an ARRAY_ITER object so scripts can
// drive iteration manually (`while it.has_next() { ... it.next() }`)
// instead of only through a for-loop, which materializes eagerly via
// materializeIterable.
func (o *ArrayObject) Attr(self Object, name string) (Object, error) {
	switch name {
	case "iter":
		arr := self.(*ArrayObject)
		return NewNativeFunc("iter", func(*Frame, []Object, map[string]Object) (Object, error) {
			return NewArrayIter(arr), nil
		}), nil
	default:
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "array has no attribute %s", name)
	}
}

func (o *ArrayObject) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "array has no assignable attributes")
}

// SliceArray produces a new ArrayObject over [start, stop, step).
func (o *ArrayObject) SliceArray(start, stop, step int) *ArrayObject {
	start, stop, step = clampSlice(len(o.Elems), start, stop, step)
	var out []Object
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, o.Elems[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, o.Elems[i])
		}
	}
	return NewArray(out)
}

// TupleObject is an immutable, reference-semantic ordered sequence (used
// primarily as hashable map keys).
type TupleObject struct {
	Elems []Object
}

func NewTuple(elems []Object) *TupleObject { return &TupleObject{Elems: elems} }

// SliceTuple implements `tuple[a:b:c]`, mirroring ArrayObject.SliceArray:
// tuple is as much a container as array, just immutable.
func (o *TupleObject) SliceTuple(start, stop, step int) *TupleObject {
	start, stop, step = clampSlice(len(o.Elems), start, stop, step)
	var out []Object
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, o.Elems[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, o.Elems[i])
		}
	}
	return NewTuple(out)
}

func (*TupleObject) Kind() Kind      { return TUPLE }
func (*TupleObject) TypeObj() Object { return TupleTypeObj }
func (o *TupleObject) Copy() Object  { return o }

func (o *TupleObject) Repr() string {
	parts := make([]string, len(o.Elems))
	for i, e := range o.Elems {
		parts[i] = e.Repr()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (o *TupleObject) Equal(x Object) bool {
	v, ok := x.(*TupleObject)
	if !ok || len(v.Elems) != len(o.Elems) {
		return false
	}
	for i := range o.Elems {
		if !o.Elems[i].Equal(v.Elems[i]) {
			return false
		}
	}
	return true
}

func (o *TupleObject) Hash(fm *Frame) (uint32, bool) {
	hs := make([]uint32, 0, len(o.Elems))
	for _, e := range o.Elems {
		h, ok := hashKey(fm, e)
		if !ok {
			return 0, false
		}
		hs = append(hs, h)
	}
	return hashutil.DJB(hs...), true
}

func (o *ArrayObject) ToTuple() *TupleObject {
	elems := make([]Object, len(o.Elems))
	copy(elems, o.Elems)
	return NewTuple(elems)
}

func (o *TupleObject) ToArray() *ArrayObject {
	elems := make([]Object, len(o.Elems))
	copy(elems, o.Elems)
	return NewArray(elems)
}

// mapKey is the internal representation used to index MapObject.entries: a
// string form derived from a hashable Object -- maps require hashable
// keys (INT, STRING, tuples thereof, or a declared instance with
// __hash__).
type mapKey string

// hashKey computes a hashable, comparable Go key for k, or ok=false if k's
// kind is not a valid map key. A *DeclClassObject dispatches to __hash__
// when fm is non-nil; fm is nil only from contexts (e.g. TupleObject.Hash
// called without a frame) that never carry declared instances.
func hashKey(fm *Frame, k Object) (uint32, bool) {
	switch v := k.(type) {
	case *IntObject:
		return hashutil.UIntPtr(uintptr(v.Value)), true
	case *StringObject:
		return hashutil.String(v.Value), true
	case *TupleObject:
		return v.Hash(fm)
	case *DeclClassObject:
		h, err := declHash(fm, v)
		if err != nil {
			return 0, false
		}
		return hashutil.UIntPtr(uintptr(h)), true
	default:
		return 0, false
	}
}

// declHash dispatches to __hash__, requiring an INT result the same way
// toStr requires __str__ to return STRING.
func declHash(fm *Frame, v *DeclClassObject) (int64, error) {
	fn, ok := v.lookupOwnOrType(dunderHash)
	if !ok {
		return 0, NewRuntimeError(INCOMPATIBLE_TYPE, "%s has no %s", v.declType.Name(), dunderHash)
	}
	res, err := callDunder(fm, v, fn, dunderHash, nil)
	if err != nil {
		return 0, err
	}
	i, ok := res.(*IntObject)
	if !ok {
		return 0, NewRuntimeError(INCOMPATIBLE_TYPE, "%s must return INT", dunderHash)
	}
	return i.Value, nil
}

func mapKeyString(fm *Frame, k Object) (mapKey, error) {
	switch v := k.(type) {
	case *IntObject:
		return mapKey("i:" + v.Repr()), nil
	case *StringObject:
		return mapKey("s:" + v.Value), nil
	case *TupleObject:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			mk, err := mapKeyString(fm, e)
			if err != nil {
				return "", err
			}
			parts[i] = string(mk)
		}
		return mapKey("t:" + strings.Join(parts, "\x00")), nil
	case *DeclClassObject:
		h, err := declHash(fm, v)
		if err != nil {
			return "", err
		}
		return mapKey(fmt.Sprintf("d:%s:%d", v.declType.Name(), h)), nil
	default:
		return "", NewRuntimeError(INCOMPATIBLE_TYPE, "unhashable key kind: %s", k.Kind())
	}
}

// MapObject is a mutable, reference-semantic associative container.
type MapObject struct {
	entries map[mapKey]*mapEntry
	order   []mapKey
}

type mapEntry struct {
	key   Object
	value Object
}

func NewMap() *MapObject {
	return &MapObject{entries: make(map[mapKey]*mapEntry)}
}

func (*MapObject) Kind() Kind      { return MAP }
func (*MapObject) TypeObj() Object { return MapTypeObj }
func (o *MapObject) Copy() Object  { return o }

func (o *MapObject) Repr() string {
	parts := make([]string, 0, len(o.order))
	for _, k := range o.order {
		e := o.entries[k]
		parts = append(parts, e.key.Repr()+": "+e.value.Repr())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o *MapObject) Equal(x Object) bool {
	v, ok := x.(*MapObject)
	if !ok || len(v.entries) != len(o.entries) {
		return false
	}
	for k, e := range o.entries {
		oe, ok := v.entries[k]
		if !ok || !oe.value.Equal(e.value) {
			return false
		}
	}
	return true
}

// Get looks up key, returning KEY_NOT_FOUND when absent. fm may be nil
// when key cannot be a *DeclClassObject.
func (o *MapObject) Get(fm *Frame, key Object) (Object, error) {
	mk, err := mapKeyString(fm, key)
	if err != nil {
		return nil, err
	}
	e, ok := o.entries[mk]
	if !ok {
		return nil, NewRuntimeError(KEY_NOT_FOUND, "key not found: %s", key.Repr())
	}
	return e.value, nil
}

// Set inserts or overwrites key -> value, preserving first-insertion order.
func (o *MapObject) Set(fm *Frame, key, value Object) error {
	mk, err := mapKeyString(fm, key)
	if err != nil {
		return err
	}
	if _, exists := o.entries[mk]; !exists {
		o.order = append(o.order, mk)
	}
	o.entries[mk] = &mapEntry{key: key, value: value}
	return nil
}

// Contains reports whether key is present.
func (o *MapObject) Contains(fm *Frame, key Object) bool {
	mk, err := mapKeyString(fm, key)
	if err != nil {
		return false
	}
	_, ok := o.entries[mk]
	return ok
}

// Len returns the number of entries.
func (o *MapObject) Len() int { return len(o.order) }

// Keys returns the map's keys in insertion order.
func (o *MapObject) Keys() []Object {
	out := make([]Object, len(o.order))
	for i, k := range o.order {
		out[i] = o.entries[k].key
	}
	return out
}

// ArrayIterObject iterates an ArrayObject's elements.
type ArrayIterObject struct {
	arr *ArrayObject
	pos int
}

func NewArrayIter(a *ArrayObject) *ArrayIterObject { return &ArrayIterObject{arr: a} }

func (*ArrayIterObject) Kind() Kind      { return ARRAY_ITER }
func (*ArrayIterObject) TypeObj() Object { return ArrayIterTypeObj }
func (o *ArrayIterObject) Copy() Object  { return o }
func (o *ArrayIterObject) Repr() string  { return "<array_iter>" }
func (o *ArrayIterObject) Equal(x Object) bool {
	v, ok := x.(*ArrayIterObject)
	return ok && v == o
}

// HasNext reports whether Next would succeed.
func (o *ArrayIterObject) HasNext() bool { return o.pos < len(o.arr.Elems) }

// Next returns the current element and advances.
func (o *ArrayIterObject) Next() Object {
	v := o.arr.Elems[o.pos]
	o.pos++
	return v
}

// Attr exposes `.has_next()`/`.next()` so an iterator pulled off `.iter()`
// can be driven manually from a while-loop, not just a for-loop.
func (o *ArrayIterObject) Attr(self Object, name string) (Object, error) {
	it := self.(*ArrayIterObject)
	switch name {
	case "has_next":
		return NewNativeFunc("has_next", func(*Frame, []Object, map[string]Object) (Object, error) {
			return NewBool(it.HasNext()), nil
		}), nil
	case "next":
		return NewNativeFunc("next", func(*Frame, []Object, map[string]Object) (Object, error) {
			if !it.HasNext() {
				return nil, NewRuntimeError(OUT_OF_RANGE, "array_iter exhausted")
			}
			return it.Next(), nil
		}), nil
	default:
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "array_iter has no attribute %s", name)
	}
}

func (o *ArrayIterObject) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "array_iter has no assignable attributes")
}
