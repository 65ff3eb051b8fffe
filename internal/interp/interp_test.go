package interp

import (
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub011/internal/runtime"
)

func evalSrc(t *testing.T, src string) runtime.Value {
	t.Helper()

	v, err := New().EvalString(src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func wantInt(t *testing.T, v runtime.Value, want int64) {
	t.Helper()

	n, ok := v.(runtime.Integer)
	if !ok {
		t.Fatalf("got %s %s, want Int %d", v.Type(), runtime.Inspect(v), want)
	}
	if n.Val != want {
		t.Fatalf("got %d, want %d", n.Val, want)
	}
}

func TestArithmeticAndBindings(t *testing.T) {
	wantInt(t, evalSrc(t, "let x = 10; let y = 20; x + y"), 30)
	wantInt(t, evalSrc(t, "2 + 3 * 4"), 14)
	wantInt(t, evalSrc(t, "2 ** 10"), 1024)
	wantInt(t, evalSrc(t, "7 % 3"), 1)
}

func TestNotNegatesTruthiness(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"!true", false},
		{"!false", true},
		{"!nil", true},
		{"!0", false},
		{`!"x"`, false},
		{"![]", false},
	}
	for _, tc := range cases {
		v := evalSrc(t, tc.src)
		b, ok := v.(runtime.Bool)
		if !ok || b.Val != tc.want {
			t.Errorf("%s = %s, want %v", tc.src, runtime.Inspect(v), tc.want)
		}
	}
}

func TestNumericPromotion(t *testing.T) {
	v := evalSrc(t, "1 + 2.5")
	f, ok := v.(runtime.Float)
	if !ok || f.Val != 3.5 {
		t.Fatalf("got %s, want 3.5", runtime.Inspect(v))
	}
}

func TestFactorial(t *testing.T) {
	src := `fun fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }
fact(5)`
	wantInt(t, evalSrc(t, src), 120)
}

func TestListComprehension(t *testing.T) {
	v := evalSrc(t, "[x * 2 for x in [1, 2, 3, 4, 5] if x > 2]")
	if got := v.Display(); got != "[6, 8, 10]" {
		t.Fatalf("got %s", got)
	}
}

func TestMatchTuple(t *testing.T) {
	wantInt(t, evalSrc(t, "match (1, 2) { (1, y) => y, _ => 0 }"), 2)
}

func TestMatchGuardsAndNonExhaustive(t *testing.T) {
	wantInt(t, evalSrc(t, "match 7 { n if n > 5 => 1, _ => 0 }"), 1)

	_, err := New().EvalString("match 7 { 1 => 1, 2 => 2 }")
	if err == nil || !strings.Contains(err.Error(), "no match arm") {
		t.Fatalf("want non-exhaustive error, got %v", err)
	}
}

func TestTryCatchDivisionByZero(t *testing.T) {
	v := evalSrc(t, `try { 1 / 0 } catch e { "caught" }`)
	s, ok := v.(runtime.Str)
	if !ok || s.Val != "caught" {
		t.Fatalf("got %s", runtime.Inspect(v))
	}
}

func TestMutableArrayAssign(t *testing.T) {
	wantInt(t, evalSrc(t, "let mut a = [1, 2, 3]; a[1] = 42; a[1]"), 42)
}

func TestImmutableBindingRejectsAssign(t *testing.T) {
	_, err := New().EvalString("let x = 1; x = 2")
	if err == nil || !strings.Contains(err.Error(), "immutable") {
		t.Fatalf("want immutability error, got %v", err)
	}
}

func TestShortCircuitSkipsRight(t *testing.T) {
	src := `let mut hits = 0
fun probe() { hits = hits + 1; true }
false && probe()
true || probe()
hits`
	wantInt(t, evalSrc(t, src), 0)
}

func TestLexicalScoping(t *testing.T) {
	wantInt(t, evalSrc(t, "let x = 1; { let x = 2; x }; x"), 1)
}

func TestClosuresShareCapturedState(t *testing.T) {
	src := `fun make() {
    let mut n = 0
    || { n = n + 1; n }
}
let c = make()
c()
c()`
	wantInt(t, evalSrc(t, src), 2)
}

func TestTryFinallyRunsOnReturn(t *testing.T) {
	src := `let mut log = []
fun f() {
    try { return 1 } finally { push(log, 1) }
}
f()
len(log)`
	wantInt(t, evalSrc(t, src), 1)
}

func TestLoopBreakValue(t *testing.T) {
	src := `let mut i = 0
let v = loop { i = i + 1; if i == 3 { break i * 10 } }
v`
	wantInt(t, evalSrc(t, src), 30)
}

func TestLabeledBreak(t *testing.T) {
	src := `let mut total = 0
'outer: for i in 0..3 {
    for j in 0..3 {
        if j == 1 { continue 'outer }
        total = total + 1
    }
}
total`
	wantInt(t, evalSrc(t, src), 3)
}

func TestForOverRangeAndString(t *testing.T) {
	wantInt(t, evalSrc(t, "let mut s = 0; for i in 1..=4 { s = s + i }; s"), 10)
	wantInt(t, evalSrc(t, `let mut n = 0; for c in "abc" { n = n + 1 }; n`), 3)
}

func TestWhileLoop(t *testing.T) {
	wantInt(t, evalSrc(t, "let mut n = 0; while n < 5 { n = n + 1 }; n"), 5)
}

func TestStringInterpolationFormat(t *testing.T) {
	v := evalSrc(t, `let x = 3.14159; f"pi = {x:.2}"`)
	s, ok := v.(runtime.Str)
	if !ok || s.Val != "pi = 3.14" {
		t.Fatalf("got %s", runtime.Inspect(v))
	}

	v = evalSrc(t, `let name = "ada"; f"[{name:>5}]"`)
	if v.(runtime.Str).Val != "[  ada]" {
		t.Fatalf("got %s", runtime.Inspect(v))
	}
}

func TestFormatSpecBasesAndZeroPad(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`f"{255:x}"`, "ff"},
		{`f"{255:X}"`, "FF"},
		{`f"{8:o}"`, "10"},
		{`f"{5:b}"`, "101"},
		{`f"{42:05}"`, "00042"},
		{`f"{255:08x}"`, "000000ff"},
		{`f"{-7:05}"`, "-0007"},
		{`f"{255:>6x}"`, "    ff"},
	}
	for _, tc := range cases {
		v := evalSrc(t, tc.src)
		s, ok := v.(runtime.Str)
		if !ok || s.Val != tc.want {
			t.Errorf("%s = %s, want %q", tc.src, runtime.Inspect(v), tc.want)
		}
	}
}

func TestEnumDefinitionAndMatch(t *testing.T) {
	src := `enum Color { Red, Green, Rgb(i32, i32, i32) }
match Color::Rgb(1, 2, 3) {
    Color::Red => 0,
    Color::Rgb(r, g, b) => r + g + b,
    _ => -1
}`
	wantInt(t, evalSrc(t, src), 6)
}

func TestStructAndImplMethod(t *testing.T) {
	src := `struct Point { x: i32, y: i32 }
impl Point {
    fun sum(self) { self.x + self.y }
}
let p = Point { x: 3, y: 4 }
p.sum()`
	wantInt(t, evalSrc(t, src), 7)
}

func TestClassConstructor(t *testing.T) {
	src := `class Counter {
    count: i32
    fun new(self, start) { self.count = start }
    fun bump(self) { self.count = self.count + 1; self.count }
}
let c = Counter(10)
c.bump()
c.bump()`
	wantInt(t, evalSrc(t, src), 12)
}

func TestActorSendAndAsk(t *testing.T) {
	src := `actor Counter {
    count: i32
    on Inc { self.count = self.count + 1 }
    on Add(n) { self.count = self.count + n }
    on Get { self.count }
}
let c = spawn Counter
c ! Inc
c ! Add(5)
c ? Get`
	wantInt(t, evalSrc(t, src), 6)
}

func TestQuestionOperator(t *testing.T) {
	src := `fun bump(x) { let v = x?; v + 1 }
bump(Some(4))`
	wantInt(t, evalSrc(t, src), 5)

	v := evalSrc(t, `fun bump(x) { let v = x?; v + 1 }
bump(None)`)
	variant, ok := v.(*runtime.EnumVariant)
	if !ok || variant.Variant != "None" {
		t.Fatalf("got %s, want None", runtime.Inspect(v))
	}
}

func TestArityDefaultsAndRest(t *testing.T) {
	wantInt(t, evalSrc(t, "fun add(a, b = 10) { a + b }; add(1)"), 11)
	wantInt(t, evalSrc(t, "fun add(a, b = 10) { a + b }; add(1, 2)"), 3)
	wantInt(t, evalSrc(t, "fun gather(...xs) { len(xs) }; gather(1, 2, 3)"), 3)

	_, err := New().EvalString("fun two(a, b) { a }; two(1)")
	if err == nil || !strings.Contains(err.Error(), "arguments") {
		t.Fatalf("want arity error, got %v", err)
	}
}

func TestRecursionDepthGuard(t *testing.T) {
	_, err := New().EvalString("fun f() { f() }; f()")
	if err == nil || !strings.Contains(err.Error(), "recursion depth") {
		t.Fatalf("want stack overflow, got %v", err)
	}
}

func TestThrowCaughtByPattern(t *testing.T) {
	src := `try {
    throw (1, "boom")
} catch (code, msg) {
    msg
}`
	v := evalSrc(t, src)
	if v.(runtime.Str).Val != "boom" {
		t.Fatalf("got %s", runtime.Inspect(v))
	}
}

func TestUncaughtThrowSurfaces(t *testing.T) {
	_, err := New().EvalString(`throw "boom"`)
	if err == nil || !strings.Contains(err.Error(), "uncaught throw") {
		t.Fatalf("want uncaught throw, got %v", err)
	}
}

func TestPipelineCallsThroughOperator(t *testing.T) {
	wantInt(t, evalSrc(t, "[1, 2, 3] |> len"), 3)
}

func TestCompoundAssignAndIncrement(t *testing.T) {
	wantInt(t, evalSrc(t, "let mut n = 5; n += 3; n *= 2; n"), 16)
	wantInt(t, evalSrc(t, "let mut n = 5; n++; ++n; n"), 7)
}

func TestShiftMasking(t *testing.T) {
	// Shift counts wrap at the 64-bit width.
	wantInt(t, evalSrc(t, "1 << 64"), 1)
	wantInt(t, evalSrc(t, "1 << 3"), 8)
}

func TestIndexOutOfBounds(t *testing.T) {
	_, err := New().EvalString("[1, 2][5]")
	if err == nil || !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("want bounds error, got %v", err)
	}
}

func TestCollectionMethods(t *testing.T) {
	wantInt(t, evalSrc(t, "[1, 2, 3].map(|x| x * x).sum()"), 14)
	wantInt(t, evalSrc(t, "[4, 1, 3].sort()[0]"), 1)
	wantInt(t, evalSrc(t, `"a,b,c".split(",").len()`), 3)
	wantInt(t, evalSrc(t, `let d = {"a": 1, "b": 2}; d["b"]`), 2)
	wantInt(t, evalSrc(t, "(1..=5).sum()"), 15)
}

func TestDictIterationYieldsPairs(t *testing.T) {
	src := `let d = {"a": 1, "b": 2}
let mut total = 0
for (k, v) in d { total = total + v }
total`
	wantInt(t, evalSrc(t, src), 3)
}

func TestCustomIteratorProtocol(t *testing.T) {
	src := `struct UpTo { n: i32, limit: i32 }
impl UpTo {
    fun next(self) {
        if self.n >= self.limit { None } else {
            self.n = self.n + 1
            Some(self.n)
        }
    }
}
let mut counter = UpTo { n: 0, limit: 3 }
let mut total = 0
for v in counter { total = total + v }
total`
	wantInt(t, evalSrc(t, src), 6)
}

func TestDataFrameEndToEnd(t *testing.T) {
	src := `let df = df![age => [10, 20, 30], name => ["a", "b", "c"]]
let grown = df.filter(|row| row.age > 15)
grown.rows()`
	wantInt(t, evalSrc(t, src), 2)

	src = `let df = df![age => [10, 20]]
let doubled = df.with_column("age2", |age| age * 2)
doubled["age2"][1]`
	wantInt(t, evalSrc(t, src), 40)
}

func TestSessionVariablesPersist(t *testing.T) {
	in := New()
	if _, err := in.EvalString("let x = 5"); err != nil {
		t.Fatal(err)
	}
	v, err := in.EvalString("x * 2")
	if err != nil {
		t.Fatal(err)
	}
	wantInt(t, v, 10)

	in.SetVariable("y", runtime.Integer{Val: 7})
	v, err = in.EvalString("y + 1")
	if err != nil {
		t.Fatal(err)
	}
	wantInt(t, v, 8)

	got, ok := in.GetVariable("x")
	if !ok {
		t.Fatal("x should be visible")
	}
	wantInt(t, got, 5)
}

func TestCaptureStdout(t *testing.T) {
	in := New()
	in.CaptureStdout()
	if _, err := in.EvalString(`println("hi", 42)`); err != nil {
		t.Fatal(err)
	}
	if got := in.GetStdout(); got != "hi 42\n" {
		t.Fatalf("captured %q", got)
	}
	// The buffer drains on read.
	if got := in.GetStdout(); got != "" {
		t.Fatalf("second read = %q", got)
	}
}

func TestPushPopScope(t *testing.T) {
	in := New()
	in.PushScope()
	in.SetVariable("tmp", runtime.Integer{Val: 1})
	if _, ok := in.GetVariable("tmp"); !ok {
		t.Fatal("tmp should resolve inside the pushed scope")
	}
	in.PopScope()
	if _, ok := in.GetVariable("tmp"); ok {
		t.Fatal("tmp should not survive PopScope")
	}
}

func TestGCCollectSweepsUnreachable(t *testing.T) {
	in := New()

	kept := runtime.NewArray([]runtime.Value{runtime.Integer{Val: 1}})
	in.SetVariable("kept", kept)
	in.GCTrack(kept)
	in.GCTrack(runtime.NewArray(nil))

	if freed := in.GCCollect(); freed != 1 {
		t.Fatalf("freed = %d, want 1", freed)
	}
	// The surviving value is still tracked and reachable.
	if freed := in.GCCollect(); freed != 0 {
		t.Fatalf("second collect freed = %d, want 0", freed)
	}

	stats, ok := in.GCStats().(*runtime.Object)
	if !ok {
		t.Fatal("stats must be an object")
	}
	collections, _ := stats.Get("collections")
	wantInt(t, collections, 2)
}

func TestModuleMemberAccess(t *testing.T) {
	src := `mod math_utils {
    fun double(x) { x * 2 }
}
math_utils::double(21)`
	wantInt(t, evalSrc(t, src), 42)
}

func TestStructUpdateSyntax(t *testing.T) {
	src := `struct P { x: i32, y: i32 }
let a = P { x: 1, y: 2 }
let b = P { x: 10, ..a }
b.x + b.y`
	wantInt(t, evalSrc(t, src), 12)
}

func TestLetElseDiverges(t *testing.T) {
	src := `fun first(xs) {
    let [head, ...] = xs else { return -1 }
    head
}
first([]) + first([9])`
	wantInt(t, evalSrc(t, src), 8)
}

func TestLazyForcesOnce(t *testing.T) {
	src := `let mut hits = 0
fun probe() { hits = hits + 1; 5 }
let l = lazy probe()
let a = l.force()
let b = l.force()
a + b + hits`
	wantInt(t, evalSrc(t, src), 11)
}
