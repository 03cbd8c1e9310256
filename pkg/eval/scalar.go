package eval

import (
	"strconv"

	"github.com/johanlieber/shell-plus-plus/internal/hashutil"
)

// NullObject is the sole inhabitant of the NULL kind.
type NullObject struct{}

// NewNull returns a fresh null value (scalars still get a Copy identity).
func NewNull() *NullObject { return &NullObject{} }

func (*NullObject) Kind() Kind        { return NULL }
func (*NullObject) TypeObj() Object   { return NullTypeObj }
func (o *NullObject) Copy() Object    { return NewNull() }
func (*NullObject) Repr() string      { return "null" }
func (o *NullObject) Equal(x Object) bool {
	_, ok := x.(*NullObject)
	return ok
}
func (*NullObject) Hash() (uint32, bool) { return 0, true }

// BoolObject wraps a bool.
type BoolObject struct{ Value bool }

func NewBool(v bool) *BoolObject { return &BoolObject{v} }

func (*BoolObject) Kind() Kind      { return BOOL }
func (*BoolObject) TypeObj() Object { return BoolTypeObj }
func (o *BoolObject) Copy() Object  { return NewBool(o.Value) }
func (o *BoolObject) Repr() string {
	if o.Value {
		return "true"
	}
	return "false"
}
func (o *BoolObject) Equal(x Object) bool {
	b, ok := x.(*BoolObject)
	return ok && b.Value == o.Value
}
func (o *BoolObject) Hash() (uint32, bool) {
	if o.Value {
		return 1, true
	}
	return 0, true
}

// IntObject wraps an int64.
type IntObject struct{ Value int64 }

func NewInt(v int64) *IntObject { return &IntObject{v} }

func (*IntObject) Kind() Kind      { return INT }
func (*IntObject) TypeObj() Object { return IntTypeObj }
func (o *IntObject) Copy() Object  { return NewInt(o.Value) }
func (o *IntObject) Repr() string  { return strconv.FormatInt(o.Value, 10) }
func (o *IntObject) Equal(x Object) bool {
	switch v := x.(type) {
	case *IntObject:
		return v.Value == o.Value
	case *RealObject:
		return float64(o.Value) == v.Value
	}
	return false
}
func (o *IntObject) Hash() (uint32, bool) { return hashutil.UIntPtr(uintptr(o.Value)), true }

// RealObject wraps a float64.
type RealObject struct{ Value float64 }

func NewReal(v float64) *RealObject { return &RealObject{v} }

func (*RealObject) Kind() Kind      { return REAL }
func (*RealObject) TypeObj() Object { return RealTypeObj }
func (o *RealObject) Copy() Object  { return NewReal(o.Value) }
func (o *RealObject) Repr() string  { return strconv.FormatFloat(o.Value, 'g', -1, 64) }
func (o *RealObject) Equal(x Object) bool {
	switch v := x.(type) {
	case *RealObject:
		return v.Value == o.Value
	case *IntObject:
		return o.Value == float64(v.Value)
	}
	return false
}
func (o *RealObject) Hash() (uint32, bool) { return hashutil.UInt64(uint64(o.Value)), true }

// StringObject wraps a string.
type StringObject struct{ Value string }

func NewString(v string) *StringObject { return &StringObject{v} }

func (*StringObject) Kind() Kind      { return STRING }
func (*StringObject) TypeObj() Object { return StringTypeObj }
func (o *StringObject) Copy() Object  { return NewString(o.Value) }
func (o *StringObject) Repr() string  { return o.Value }
func (o *StringObject) Equal(x Object) bool {
	s, ok := x.(*StringObject)
	return ok && s.Value == o.Value
}
func (o *StringObject) Hash() (uint32, bool) { return hashutil.String(o.Value), true }

// Truthy implements the truthiness coercion rules: NULL is
// false; BOOL is itself; INT/REAL are non-zero; STRING is non-empty;
// containers are non-empty; a declared instance defers to __bool__ if
// present, else is always true.
func Truthy(fm *Frame, o Object) (bool, error) {
	switch v := o.(type) {
	case *NullObject:
		return false, nil
	case *BoolObject:
		return v.Value, nil
	case *IntObject:
		return v.Value != 0, nil
	case *RealObject:
		return v.Value != 0, nil
	case *StringObject:
		return v.Value != "", nil
	case *ArrayObject:
		return len(v.Elems) != 0, nil
	case *TupleObject:
		return len(v.Elems) != 0, nil
	case *MapObject:
		return len(v.entries) != 0, nil
	case *DeclClassObject:
		if fn, ok := v.lookupOwnOrType(dunderBool); ok {
			res, err := callDunder(fm, v, fn, dunderBool, nil)
			if err != nil {
				return false, err
			}
			return Truthy(fm, res)
		}
		return true, nil
	default:
		return true, nil
	}
}
