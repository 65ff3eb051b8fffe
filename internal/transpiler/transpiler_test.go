package transpiler

import (
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub011/internal/parser"
)

func transpile(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src)
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	out, err := New().Transpile(program)
	if err != nil {
		t.Fatalf("transpile: %v", err)
	}
	return out
}

func wantContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, frag := range fragments {
		if !strings.Contains(out, frag) {
			t.Errorf("output missing %q:\n%s", frag, out)
		}
	}
}

func TestFunctionItemAndMainWrapper(t *testing.T) {
	out := transpile(t, `
fun add(a: i32, b: i32) -> i32 {
    a + b
}
println(add(1, 2))
`)
	wantContains(t, out,
		"fn add(a: i32, b: i32) -> i32 {",
		"a + b",
		"fn main() {",
		`println!("{}", add(1, 2))`,
	)
}

func TestActorLowering(t *testing.T) {
	out := transpile(t, `
actor Counter {
    count: i32,

    on Inc {
        self.count += 1
    }

    on Add(amount: i32) {
        self.count += amount
    }
}
`)
	wantContains(t, out,
		"enum CounterMessage {",
		"Inc,",
		"Add(i32),",
		"struct Counter {",
		"count: i32,",
		"fn handle_message(&mut self, msg: CounterMessage) {",
		"CounterMessage::Inc =>",
		"CounterMessage::Add(amount) =>",
		"self.count += amount",
	)
}

func TestSendBecomesHandlerCall(t *testing.T) {
	out := transpile(t, `
actor Counter {
    count: i32,
    on Inc { self.count += 1 }
}
let c = spawn Counter { count: 0 }
c ! Inc
`)
	wantContains(t, out, "c.handle_message(Inc)")
}

func TestMatchGuardsAndOrPatterns(t *testing.T) {
	out := transpile(t, `
let x = 5
match x {
    1 | 2 => "small",
    n if n > 10 => "big",
    _ => "mid"
}
`)
	wantContains(t, out,
		"match x {",
		`1 | 2 => "small",`,
		`n if n > 10 => "big",`,
		`_ => "mid",`,
	)
}

func TestInterpolationBecomesFormat(t *testing.T) {
	out := transpile(t, `
let name = "ada"
let greeting = f"hi {name:>8}!"
println(f"pi is {3.14159:.2}")
`)
	wantContains(t, out,
		`format!("hi {:>8}!", name)`,
		`println!("pi is {:.2}", 3.14159)`,
	)
}

func TestDestructuringLet(t *testing.T) {
	out := transpile(t, `
let (a, b) = (1, 2)
let [head, ...rest] = [1, 2, 3]
`)
	wantContains(t, out,
		"let (a, b) = (1, 2);",
		"let [head, rest @ ..] = vec![1, 2, 3];",
	)
}

func TestRangeForAndLabels(t *testing.T) {
	out := transpile(t, `
'outer: for i in 0..10 {
    if i == 5 {
        break 'outer
    }
}
`)
	wantContains(t, out,
		"'outer: for i in 0..10 {",
		"break 'outer",
	)
}

func TestWhileLetPassesThrough(t *testing.T) {
	out := transpile(t, `
while let Some(x) = it.next() {
    println(x)
}
`)
	wantContains(t, out, "while let Some(x) = it.next() {")
}

func TestTryCatchBecomesResultMatch(t *testing.T) {
	out := transpile(t, `
try {
    risky()
} catch e {
    println(e)
}
`)
	wantContains(t, out,
		"match (|| -> Result<_, Box<dyn std::error::Error>> { Ok(",
		"Ok(__v) => __v,",
		"Err(e) =>",
	)
}

func TestCommandLiteral(t *testing.T) {
	out := transpile(t, "let listing = `ls -la`")
	wantContains(t, out,
		`std::process::Command::new("ls").args(["-la"]).output()`,
	)
}

func TestKeywordHygiene(t *testing.T) {
	out := transpile(t, `
let move = 5
move + 1
`)
	wantContains(t, out, "let r#move = 5;", "r#move + 1")
}

func TestPipelineRewrite(t *testing.T) {
	out := transpile(t, `[1, 2, 3] |> len`)
	wantContains(t, out, "len(vec![1, 2, 3])")
}

func TestPowerUsesPow(t *testing.T) {
	out := transpile(t, `let x = 2 ** 10`)
	wantContains(t, out, "2.pow(10 as u32)")
}

func TestAttributesMap(t *testing.T) {
	out := transpile(t, `
@inline
fun fast(x: i64) -> i64 {
    x * 2
}
`)
	wantContains(t, out, "#[inline]", "fn fast(x: i64) -> i64 {")
}

func TestCommentsCarryThrough(t *testing.T) {
	out := transpile(t, `
// counts in twos
fun double(x: i64) -> i64 {
    x * 2
}
`)
	wantContains(t, out, "// counts in twos")
}

func TestDataFrameFacade(t *testing.T) {
	out := transpile(t, `let d = df![age => [30, 25], name => ["ada", "bob"]]`)
	wantContains(t, out,
		`DataFrame::new(vec![Column::new("age", vec![30, 25]), Column::new("name", vec!["ada", "bob"])])`,
	)
}

func TestSpreadInCallIsRejected(t *testing.T) {
	p := parser.New("f(...xs)")
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	_, err := New().Transpile(program)
	if err == nil {
		t.Fatal("expected a transpile error for spread arguments")
	}
	if _, ok := err.(*TranspileError); !ok {
		t.Fatalf("expected *TranspileError, got %T", err)
	}
}

func TestExprAPI(t *testing.T) {
	p := parser.New("1 + 2 * 3")
	program := p.Parse()
	if len(program.Exprs) != 1 {
		t.Fatalf("expected one expression, got %d", len(program.Exprs))
	}
	out, err := New().TranspileExpr(program.Exprs[0])
	if err != nil {
		t.Fatalf("transpile: %v", err)
	}
	if out != "1 + 2 * 3" {
		t.Errorf("got %q", out)
	}
}
