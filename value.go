// value.go — the BLOA runtime value domain.
//
// OVERVIEW
// --------
// `Value` is a tagged sum covering: none, bool, int64, float64, string,
// lists, insertion-ordered maps, callables, and module proxies. Scalars are
// passed by assignment-copy; lists and maps are passed by shared reference
// (`*ListObject` / `*MapObject`), so mutation through one alias is visible
// through every other — expressions may hand out references into
// caller-visible containers and that aliasing must survive.
//
// Callables are a closed two-variant sum (`Fun`): a native function with a
// host Go implementation, or a user function carrying its parameter list,
// body block, and the env captured at definition time. Dispatch happens on
// the explicit `Kind` tag, never by capability probing.
//
// Ordered maps are backed by gods' linkedhashmap, which preserves insertion
// order for iteration and display.
package bloa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

////////////////////////////////////////////////////////////////////////////////
//                              VALUES & CONSTRUCTORS
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNone   ValueTag = iota // absence of value (no payload)
	VTBool                   // bool
	VTInt                    // int64
	VTNum                    // float64
	VTStr                    // string
	VTList                   // *ListObject (shared reference)
	VTMap                    // *MapObject (shared reference, insertion-ordered)
	VTFun                    // *Fun (native or user-defined callable)
	VTModule                 // *Module (cached module proxy)
)

// Value is the universal runtime carrier used by the interpreter. The tag
// determines which Go type Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// None is the singleton absence-of-value.
var None = Value{Tag: VTNone}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value   { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ListObject is the shared backing store of a list value.
type ListObject struct {
	Elems []Value
}

// List wraps a fresh ListObject around elems (no copy; the slice is owned).
func List(elems []Value) Value { return Value{Tag: VTList, Data: &ListObject{Elems: elems}} }

// MapObject is the shared backing store of a mapping value. Iteration order
// is insertion order.
type MapObject struct {
	m *linkedhashmap.Map
}

// NewMapObject returns an empty insertion-ordered map.
func NewMapObject() *MapObject { return &MapObject{m: linkedhashmap.New()} }

// Set inserts or updates a key. A new key is appended to the iteration order.
func (mo *MapObject) Set(key, val Value) { mo.m.Put(key, val) }

// Get returns the value for key and whether it was present.
func (mo *MapObject) Get(key Value) (Value, bool) {
	v, ok := mo.m.Get(key)
	if !ok {
		return None, false
	}
	return v.(Value), true
}

// Delete removes a key if present.
func (mo *MapObject) Delete(key Value) { mo.m.Remove(key) }

// Len returns the number of entries.
func (mo *MapObject) Len() int { return mo.m.Size() }

// Keys returns the keys in insertion order.
func (mo *MapObject) Keys() []Value {
	raw := mo.m.Keys()
	keys := make([]Value, len(raw))
	for i, k := range raw {
		keys[i] = k.(Value)
	}
	return keys
}

// MapVal wraps a MapObject into a Value.
func MapVal(mo *MapObject) Value { return Value{Tag: VTMap, Data: mo} }

// FunKind selects the callable variant.
type FunKind int

const (
	FunNative FunKind = iota // host-provided Go implementation
	FunUser                  // params + body block + captured env
)

// NativeImpl is the implementation signature of a native function. Arguments
// arrive already evaluated, in call order.
type NativeImpl func(ip *Interpreter, args []Value) (Value, error)

// Fun is the closed callable sum. For FunNative, Impl is non-nil and Params
// documents the expected arity (ignored when Variadic). For FunUser, Body and
// Env carry the definition; Env is the *defining* env, which is what gives
// closures their definition-time scope chain.
type Fun struct {
	Kind     FunKind
	Name     string
	Params   []string
	Variadic bool // natives only: accept any argument count

	Body Block // user functions
	Env  *Env  // user functions: captured defining env

	Impl NativeImpl // natives

	// owner is the interpreter whose function registry the body resolves
	// sibling calls against (relevant for functions defined by modules).
	owner *Interpreter
}

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// Arity returns the declared parameter count.
func (f *Fun) Arity() int { return len(f.Params) }

////////////////////////////////////////////////////////////////////////////////
//                              DISPLAY & PREDICATES
////////////////////////////////////////////////////////////////////////////////

// FormatValue renders v the way `say` and the REPL print it: strings raw,
// booleans as the language literals `true`/`false`, absence as `none`, and
// containers recursively (with strings quoted inside containers).
func FormatValue(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return displayValue(v)
}

// String renders a debug representation; strings are quoted.
func (v Value) String() string { return displayValue(v) }

func displayValue(v Value) string {
	switch v.Tag {
	case VTNone:
		return "none"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return strconv.Quote(v.Data.(string))
	case VTList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.Data.(*ListObject).Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(displayValue(e))
		}
		b.WriteByte(']')
		return b.String()
	case VTMap:
		mo := v.Data.(*MapObject)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range mo.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			val, _ := mo.Get(k)
			b.WriteString(displayValue(k))
			b.WriteString(": ")
			b.WriteString(displayValue(val))
		}
		b.WriteByte('}')
		return b.String()
	case VTFun:
		f := v.Data.(*Fun)
		if f.Name != "" {
			return fmt.Sprintf("<function %s>", f.Name)
		}
		return "<function>"
	case VTModule:
		return fmt.Sprintf("<module %s>", v.Data.(*Module).Name)
	default:
		return "<unknown>"
	}
}

// Truthy implements the language's truthiness: false, 0, 0.0, "", empty
// containers and none are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNone:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTList:
		return len(v.Data.(*ListObject).Elems) > 0
	case VTMap:
		return v.Data.(*MapObject).Len() > 0
	default:
		return true
	}
}

// Equal implements `==`: numeric comparison crosses int/float, lists and maps
// compare structurally, everything else by tag and payload. Functions and
// modules compare by identity.
func Equal(a, b Value) bool {
	if an, aok := asNum(a); aok {
		if bn, bok := asNum(b); bok {
			return an == bn
		}
		return false
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNone:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		ae, be := a.Data.(*ListObject).Elems, b.Data.(*ListObject).Elems
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !Equal(ae[i], be[i]) {
				return false
			}
		}
		return true
	case VTMap:
		am, bm := a.Data.(*MapObject), b.Data.(*MapObject)
		if am.Len() != bm.Len() {
			return false
		}
		for _, k := range am.Keys() {
			av, _ := am.Get(k)
			bv, ok := bm.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return a.Data == b.Data
	}
}

// asNum views ints and floats uniformly as float64.
func asNum(v Value) (float64, bool) {
	switch v.Tag {
	case VTInt:
		return float64(v.Data.(int64)), true
	case VTNum:
		return v.Data.(float64), true
	}
	return 0, false
}

// tagName names a value kind for diagnostics.
func tagName(t ValueTag) string {
	switch t {
	case VTNone:
		return "none"
	case VTBool:
		return "bool"
	case VTInt:
		return "int"
	case VTNum:
		return "float"
	case VTStr:
		return "string"
	case VTList:
		return "list"
	case VTMap:
		return "map"
	case VTFun:
		return "function"
	case VTModule:
		return "module"
	}
	return "unknown"
}
