package runtime

import (
	"strings"
	"testing"
)

func TestDisplayScalars(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Integer{Val: 42}, "42"},
		{Float{Val: 2.5}, "2.5"},
		{Float{Val: 2.0}, "2"},
		{Bool{Val: true}, "true"},
		{Str{Val: "hi"}, "hi"},
		{Char{Val: 'x'}, "x"},
		{Atom{Name: "ok"}, ":ok"},
		{Nil{}, "nil"},
		{Unit{}, "()"},
		{Range{Start: 1, End: 5}, "1..5"},
		{Range{Start: 1, End: 5, Inclusive: true}, "1..=5"},
	}

	for _, tt := range tests {
		if got := tt.v.Display(); got != tt.want {
			t.Errorf("Display(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestDisplayContainers(t *testing.T) {
	arr := NewArray([]Value{Integer{Val: 1}, Str{Val: "a"}, Char{Val: 'c'}})
	if got := arr.Display(); got != `[1, "a", 'c']` {
		t.Errorf("array display = %q", got)
	}

	tup := &Tuple{Elems: []Value{Integer{Val: 1}, Integer{Val: 2}}}
	if got := tup.Display(); got != "(1, 2)" {
		t.Errorf("tuple display = %q", got)
	}

	single := &Tuple{Elems: []Value{Integer{Val: 7}}}
	if got := single.Display(); got != "(7,)" {
		t.Errorf("single tuple display = %q", got)
	}

	obj := NewObject("")
	obj.Set("name", Str{Val: "x"})
	obj.Set("age", Integer{Val: 3})
	if got := obj.Display(); got != `{name: "x", age: 3}` {
		t.Errorf("object display = %q", got)
	}

	typed := NewObject("Point")
	typed.Set("x", Integer{Val: 1})
	if got := typed.Display(); got != "Point {x: 1}" {
		t.Errorf("struct display = %q", got)
	}
}

func TestDisplayCycle(t *testing.T) {
	arr := NewArray(nil)
	arr.Elems = append(arr.Elems, Integer{Val: 1}, arr)

	got := arr.Display()
	if !strings.Contains(got, "...") {
		t.Fatalf("cyclic display should elide the revisit, got %q", got)
	}
}

func TestInspectQuotesStrings(t *testing.T) {
	if got := Inspect(Str{Val: "hi"}); got != `"hi"` {
		t.Errorf("Inspect = %q", got)
	}
	if got := Inspect(Integer{Val: 5}); got != "5" {
		t.Errorf("Inspect = %q", got)
	}
}

func TestEqualsNumericPromotion(t *testing.T) {
	if !Equals(Integer{Val: 2}, Float{Val: 2.0}) {
		t.Error("2 == 2.0 should hold")
	}
	if Equals(Integer{Val: 2}, Float{Val: 2.5}) {
		t.Error("2 == 2.5 should not hold")
	}
}

func TestEqualsStructural(t *testing.T) {
	a := NewArray([]Value{Integer{Val: 1}, Integer{Val: 2}})
	b := NewArray([]Value{Integer{Val: 1}, Integer{Val: 2}})
	c := NewArray([]Value{Integer{Val: 1}})

	if !Equals(a, b) {
		t.Error("equal arrays should compare equal")
	}
	if Equals(a, c) {
		t.Error("different arrays should not compare equal")
	}

	v1 := &EnumVariant{Enum: "Color", Variant: "Rgb", Payload: []Value{Integer{Val: 1}}}
	v2 := &EnumVariant{Enum: "Color", Variant: "Rgb", Payload: []Value{Integer{Val: 1}}}
	if !Equals(v1, v2) {
		t.Error("equal variants should compare equal")
	}
}

func TestDictOrderAndLookup(t *testing.T) {
	d := NewDict()
	if err := d.Set(Str{Val: "b"}, Integer{Val: 2}); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(Str{Val: "a"}, Integer{Val: 1}); err != nil {
		t.Fatal(err)
	}

	got, found, err := d.Get(Str{Val: "b"})
	if err != nil || !found {
		t.Fatalf("lookup failed: %v %v", found, err)
	}
	if got.(Integer).Val != 2 {
		t.Fatalf("value = %v", got)
	}

	// Insertion order is preserved by display.
	if disp := d.Display(); disp != `{"b": 2, "a": 1}` {
		t.Errorf("display = %q", disp)
	}

	// Integral float keys collide with integer keys.
	if err := d.Set(Integer{Val: 1}, Str{Val: "one"}); err != nil {
		t.Fatal(err)
	}
	got, found, err = d.Get(Float{Val: 1.0})
	if err != nil || !found || got.(Str).Val != "one" {
		t.Fatalf("1.0 should find the entry keyed by 1, got %v %v %v", got, found, err)
	}
}

func TestHashKeyRejectsMutables(t *testing.T) {
	if _, err := HashKey(NewArray(nil)); err == nil {
		t.Error("arrays must not be hashable")
	}
	if _, err := HashKey(&Tuple{Elems: []Value{Integer{Val: 1}}}); err != nil {
		t.Errorf("tuples of primitives should be hashable: %v", err)
	}
}

func TestSetSemantics(t *testing.T) {
	s := NewSet()
	for _, n := range []int64{1, 2, 2, 3} {
		if err := s.Add(Integer{Val: n}); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	ok, err := s.Contains(Integer{Val: 2})
	if err != nil || !ok {
		t.Fatalf("contains(2) = %v %v", ok, err)
	}
}

func TestTruthy(t *testing.T) {
	if Truthy(Bool{Val: false}) || Truthy(Nil{}) {
		t.Error("false and nil must be falsy")
	}
	if !Truthy(Integer{Val: 0}) || !Truthy(Str{Val: ""}) {
		t.Error("zero and empty string are truthy")
	}
}
