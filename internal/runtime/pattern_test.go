package runtime

import (
	"testing"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/parser"
)

// patternOf parses a pattern by embedding it in a match arm.
func patternOf(t *testing.T, src string) ast.Pattern {
	t.Helper()

	p := parser.New("match subject { " + src + " => 0, _ => 1 }")
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("pattern %q failed to parse: %v", src, errs)
	}
	m := program.Exprs[0].(*ast.MatchExpr)
	return m.Arms[0].Pattern
}

func mustMatch(t *testing.T, src string, v Value) map[string]Value {
	t.Helper()

	bindings, ok, err := Match(patternOf(t, src), v)
	if err != nil {
		t.Fatalf("match %q error: %v", src, err)
	}
	if !ok {
		t.Fatalf("pattern %q should match %s", src, Inspect(v))
	}
	return bindings
}

func mustNotMatch(t *testing.T, src string, v Value) {
	t.Helper()

	_, ok, err := Match(patternOf(t, src), v)
	if err != nil {
		t.Fatalf("match %q error: %v", src, err)
	}
	if ok {
		t.Fatalf("pattern %q should not match %s", src, Inspect(v))
	}
}

func TestMatchLiterals(t *testing.T) {
	mustMatch(t, "1", Integer{Val: 1})
	mustNotMatch(t, "1", Integer{Val: 2})
	mustMatch(t, "-3", Integer{Val: -3})
	mustMatch(t, `"hi"`, Str{Val: "hi"})
	mustMatch(t, ":ok", Atom{Name: "ok"})
	mustMatch(t, "true", Bool{Val: true})
	mustMatch(t, "nil", Nil{})
	mustNotMatch(t, "nil", Unit{})
}

func TestMatchBindingAndWildcard(t *testing.T) {
	b := mustMatch(t, "x", Integer{Val: 9})
	if b["x"].(Integer).Val != 9 {
		t.Fatalf("binding = %v", b["x"])
	}

	b = mustMatch(t, "_", Str{Val: "anything"})
	if len(b) != 0 {
		t.Fatalf("wildcard must bind nothing, got %v", b)
	}
}

func TestMatchTuple(t *testing.T) {
	pair := &Tuple{Elems: []Value{Integer{Val: 1}, Integer{Val: 2}}}

	b := mustMatch(t, "(1, y)", pair)
	if b["y"].(Integer).Val != 2 {
		t.Fatalf("y = %v", b["y"])
	}
	mustNotMatch(t, "(2, y)", pair)
	mustNotMatch(t, "(1, y)", &Tuple{Elems: []Value{Integer{Val: 1}}})
}

func TestMatchListWithRest(t *testing.T) {
	arr := NewArray([]Value{Integer{Val: 1}, Integer{Val: 2}, Integer{Val: 3}})

	b := mustMatch(t, "[head, ...tail]", arr)
	if b["head"].(Integer).Val != 1 {
		t.Fatalf("head = %v", b["head"])
	}
	tail := b["tail"].(*Array)
	if len(tail.Elems) != 2 {
		t.Fatalf("tail len = %d", len(tail.Elems))
	}

	mustMatch(t, "[...]", NewArray(nil))
	mustNotMatch(t, "[a, b]", arr)
}

func TestMatchEnumVariants(t *testing.T) {
	some := &EnumVariant{Enum: "Option", Variant: "Some", Payload: []Value{Integer{Val: 5}}}
	none := &EnumVariant{Enum: "Option", Variant: "None"}

	b := mustMatch(t, "Some(v)", some)
	if b["v"].(Integer).Val != 5 {
		t.Fatalf("v = %v", b["v"])
	}
	mustNotMatch(t, "Some(v)", none)
	mustMatch(t, "None", none)
	mustMatch(t, "Option::Some(v)", some)
	mustNotMatch(t, "Result::Ok(v)", some)
}

func TestMatchStruct(t *testing.T) {
	point := NewObject("Point")
	point.Set("x", Integer{Val: 1})
	point.Set("y", Integer{Val: 2})

	b := mustMatch(t, "Point { x, y }", point)
	if b["x"].(Integer).Val != 1 || b["y"].(Integer).Val != 2 {
		t.Fatalf("bindings = %v", b)
	}

	b = mustMatch(t, "Point { x: 1, .. }", point)
	if len(b) != 0 {
		t.Fatalf("no bindings expected, got %v", b)
	}

	mustNotMatch(t, "Point { x: 2, .. }", point)
	mustNotMatch(t, "Circle { x, y }", point)
}

func TestMatchRanges(t *testing.T) {
	mustMatch(t, "0..=9", Integer{Val: 9})
	mustNotMatch(t, "0..9", Integer{Val: 9})
	mustMatch(t, "'a'..='z'", Char{Val: 'm'})
	mustNotMatch(t, "'a'..='z'", Char{Val: 'A'})
}

func TestMatchOrAlternation(t *testing.T) {
	mustMatch(t, "1 | 2 | 3", Integer{Val: 2})
	mustNotMatch(t, "1 | 2 | 3", Integer{Val: 4})
}

func TestPatternRefutability(t *testing.T) {
	if PatternIsRefutable(patternOf(t, "x")) {
		t.Error("binding is irrefutable")
	}
	if PatternIsRefutable(patternOf(t, "(a, b)")) {
		t.Error("tuple of bindings is irrefutable")
	}
	if !PatternIsRefutable(patternOf(t, "1")) {
		t.Error("literal is refutable")
	}
	if !PatternIsRefutable(patternOf(t, "Some(v)")) {
		t.Error("variant is refutable")
	}
}
