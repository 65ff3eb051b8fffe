package runtime

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Value is the runtime representation of every evaluated expression.
// Implementations outside this package (closures, builtins, actors) satisfy
// the same interface, so the evaluator and the core values stay decoupled.
type Value interface {
	// Type returns the value's type name as surfaced in error messages.
	Type() string
	// Display returns the canonical user-facing rendering.
	Display() string
}

// Integer is a 64-bit signed integer value.
type Integer struct {
	Val int64
}

func (Integer) Type() string      { return "Int" }
func (v Integer) Display() string { return fmt.Sprintf("%d", v.Val) }

// Float is a 64-bit floating point value.
type Float struct {
	Val float64
}

func (Float) Type() string { return "Float" }

func (v Float) Display() string { return formatFloat(v.Val) }

// Bool is a boolean value.
type Bool struct {
	Val bool
}

func (Bool) Type() string { return "Bool" }
func (v Bool) Display() string {
	if v.Val {
		return "true"
	}
	return "false"
}

// Str is an immutable string value.
type Str struct {
	Val string
}

func (Str) Type() string      { return "String" }
func (v Str) Display() string { return v.Val }

// Char is a single Unicode scalar value.
type Char struct {
	Val rune
}

func (Char) Type() string      { return "Char" }
func (v Char) Display() string { return string(v.Val) }

// ByteVal is a single byte value.
type ByteVal struct {
	Val byte
}

func (ByteVal) Type() string      { return "Byte" }
func (v ByteVal) Display() string { return fmt.Sprintf("%d", v.Val) }

// Atom is an interned symbolic constant `:name`.
type Atom struct {
	Name string
}

func (Atom) Type() string      { return "Atom" }
func (v Atom) Display() string { return ":" + v.Name }

// Nil is the absent value.
type Nil struct{}

func (Nil) Type() string    { return "Nil" }
func (Nil) Display() string { return "nil" }

// Unit is the value of expressions evaluated for effect.
type Unit struct{}

func (Unit) Type() string    { return "Unit" }
func (Unit) Display() string { return "()" }

// Array is a mutable ordered collection. Arrays share identity: assigning an
// array to a second binding aliases the same storage.
type Array struct {
	Elems []Value
}

func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (*Array) Type() string { return "Array" }
func (v *Array) Display() string {
	return displayValue(v, make(map[Value]bool))
}

// Tuple is an immutable fixed-arity collection.
type Tuple struct {
	Elems []Value
}

func (*Tuple) Type() string { return "Tuple" }
func (v *Tuple) Display() string {
	return displayValue(v, make(map[Value]bool))
}

// Range is a half-open or inclusive integer range.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
}

func (Range) Type() string { return "Range" }
func (v Range) Display() string {
	op := ".."
	if v.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%d%s%d", v.Start, op, v.End)
}

// Len returns the number of elements the range yields.
func (v Range) Len() int64 {
	n := v.End - v.Start
	if v.Inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

// Object is a keyed record with preserved insertion order. Struct and class
// instances are objects carrying their type name.
type Object struct {
	TypeName string
	names    []string
	fields   map[string]Value
}

func NewObject(typeName string) *Object {
	return &Object{TypeName: typeName, fields: make(map[string]Value)}
}

func (*Object) Type() string { return "Object" }
func (v *Object) Display() string {
	return displayValue(v, make(map[Value]bool))
}

// Get returns a field value.
func (v *Object) Get(name string) (Value, bool) {
	val, ok := v.fields[name]
	return val, ok
}

// Set stores a field, preserving first-insertion order.
func (v *Object) Set(name string, val Value) {
	if _, exists := v.fields[name]; !exists {
		v.names = append(v.names, name)
	}
	v.fields[name] = val
}

// Names returns field names in insertion order.
func (v *Object) Names() []string { return v.names }

// Len returns the field count.
func (v *Object) Len() int { return len(v.names) }

// Dict is a hash map keyed by primitive values, preserving insertion order.
type Dict struct {
	keys    []string
	entries map[string]dictEntry
}

type dictEntry struct {
	key Value
	val Value
}

func NewDict() *Dict {
	return &Dict{entries: make(map[string]dictEntry)}
}

func (*Dict) Type() string { return "Dict" }
func (v *Dict) Display() string {
	return displayValue(v, make(map[Value]bool))
}

// Get looks up by key value.
func (v *Dict) Get(key Value) (Value, bool, error) {
	k, err := HashKey(key)
	if err != nil {
		return nil, false, err
	}
	e, ok := v.entries[k]
	if !ok {
		return nil, false, nil
	}
	return e.val, true, nil
}

// Set inserts or updates an entry.
func (v *Dict) Set(key, val Value) error {
	k, err := HashKey(key)
	if err != nil {
		return err
	}
	if _, exists := v.entries[k]; !exists {
		v.keys = append(v.keys, k)
	}
	v.entries[k] = dictEntry{key: key, val: val}
	return nil
}

// Delete removes an entry, reporting whether it existed.
func (v *Dict) Delete(key Value) (bool, error) {
	k, err := HashKey(key)
	if err != nil {
		return false, err
	}
	if _, exists := v.entries[k]; !exists {
		return false, nil
	}
	delete(v.entries, k)
	for i, existing := range v.keys {
		if existing == k {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true, nil
}

// Len returns the entry count.
func (v *Dict) Len() int { return len(v.keys) }

// Entries iterates pairs in insertion order.
func (v *Dict) Entries(fn func(key, val Value) bool) {
	for _, k := range v.keys {
		e := v.entries[k]
		if !fn(e.key, e.val) {
			return
		}
	}
}

// Set is an unordered collection of unique primitive values; iteration
// follows insertion order.
type Set struct {
	keys  []string
	items map[string]Value
}

func NewSet() *Set {
	return &Set{items: make(map[string]Value)}
}

func (*Set) Type() string { return "Set" }
func (v *Set) Display() string {
	return displayValue(v, make(map[Value]bool))
}

// Add inserts a member.
func (v *Set) Add(member Value) error {
	k, err := HashKey(member)
	if err != nil {
		return err
	}
	if _, exists := v.items[k]; !exists {
		v.keys = append(v.keys, k)
		v.items[k] = member
	}
	return nil
}

// Contains reports membership.
func (v *Set) Contains(member Value) (bool, error) {
	k, err := HashKey(member)
	if err != nil {
		return false, err
	}
	_, ok := v.items[k]
	return ok, nil
}

// Len returns the member count.
func (v *Set) Len() int { return len(v.keys) }

// Members iterates in insertion order.
func (v *Set) Members(fn func(Value) bool) {
	for _, k := range v.keys {
		if !fn(v.items[k]) {
			return
		}
	}
}

// EnumVariant is a constructed enum value such as `Color::Rgb(1, 2, 3)`.
type EnumVariant struct {
	Enum    string
	Variant string
	Payload []Value
}

func (*EnumVariant) Type() string { return "EnumVariant" }
func (v *EnumVariant) Display() string {
	return displayValue(v, make(map[Value]bool))
}

// HashKey derives the string key a Dict or Set uses for a member. Only
// primitive values are hashable.
func HashKey(v Value) (string, error) {
	switch val := v.(type) {
	case Integer:
		return fmt.Sprintf("i:%d", val.Val), nil
	case Float:
		if val.Val == math.Trunc(val.Val) && !math.IsInf(val.Val, 0) {
			// Integral floats hash like their integer counterpart so
			// 1 and 1.0 collide as dict keys.
			return fmt.Sprintf("i:%d", int64(val.Val)), nil
		}
		return fmt.Sprintf("f:%s", formatFloat(val.Val)), nil
	case Bool:
		return fmt.Sprintf("b:%v", val.Val), nil
	case Str:
		return "s:" + val.Val, nil
	case Char:
		return "c:" + string(val.Val), nil
	case ByteVal:
		return fmt.Sprintf("y:%d", val.Val), nil
	case Atom:
		return "a:" + val.Name, nil
	case Nil:
		return "n", nil
	case Unit:
		return "u", nil
	case *Tuple:
		parts := make([]string, len(val.Elems))
		for i, el := range val.Elems {
			k, err := HashKey(el)
			if err != nil {
				return "", err
			}
			parts[i] = k
		}
		return "t:(" + strings.Join(parts, ",") + ")", nil
	default:
		return "", fmt.Errorf("%s is not hashable", v.Type())
	}
}

// Equals compares two values structurally. Numeric comparison promotes
// integers to floats when the operands mix.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		switch bv := b.(type) {
		case Integer:
			return av.Val == bv.Val
		case Float:
			return float64(av.Val) == bv.Val
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Integer:
			return av.Val == float64(bv.Val)
		case Float:
			return av.Val == bv.Val
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Val == bv.Val
	case Str:
		bv, ok := b.(Str)
		return ok && av.Val == bv.Val
	case Char:
		bv, ok := b.(Char)
		return ok && av.Val == bv.Val
	case ByteVal:
		bv, ok := b.(ByteVal)
		return ok && av.Val == bv.Val
	case Atom:
		bv, ok := b.(Atom)
		return ok && av.Name == bv.Name
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Range:
		bv, ok := b.(Range)
		return ok && av == bv
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equals(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equals(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.TypeName != bv.TypeName || av.Len() != bv.Len() {
			return false
		}
		for _, name := range av.names {
			bval, exists := bv.Get(name)
			if !exists || !Equals(av.fields[name], bval) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		equal := true
		av.Entries(func(key, val Value) bool {
			other, found, err := bv.Get(key)
			if err != nil || !found || !Equals(val, other) {
				equal = false
				return false
			}
			return true
		})
		return equal
	case *Set:
		bv, ok := b.(*Set)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		akeys := append([]string(nil), av.keys...)
		bkeys := append([]string(nil), bv.keys...)
		sort.Strings(akeys)
		sort.Strings(bkeys)
		for i := range akeys {
			if akeys[i] != bkeys[i] {
				return false
			}
		}
		return true
	case *EnumVariant:
		bv, ok := b.(*EnumVariant)
		if !ok || av.Enum != bv.Enum || av.Variant != bv.Variant ||
			len(av.Payload) != len(bv.Payload) {
			return false
		}
		for i := range av.Payload {
			if !Equals(av.Payload[i], bv.Payload[i]) {
				return false
			}
		}
		return true
	case *DataFrame:
		bv, ok := b.(*DataFrame)
		if !ok || len(av.Cols) != len(bv.Cols) {
			return false
		}
		for i := range av.Cols {
			if av.Cols[i].Name != bv.Cols[i].Name ||
				len(av.Cols[i].Values) != len(bv.Cols[i].Values) {
				return false
			}
			for j := range av.Cols[i].Values {
				if !Equals(av.Cols[i].Values[j], bv.Cols[i].Values[j]) {
					return false
				}
			}
		}
		return true
	}
	return a == b
}

// Truthy reports a value's boolean interpretation: false and nil are falsy,
// everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Bool:
		return val.Val
	case Nil:
		return false
	default:
		return true
	}
}
