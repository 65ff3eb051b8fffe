package parser

import (
	"testing"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()

	p := New(src)
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	if program == nil {
		t.Fatalf("Parse returned nil program for %q", src)
	}
	return program
}

func parseExprOne(t *testing.T, src string) ast.Expr {
	t.Helper()

	program := parseProgram(t, src)
	if len(program.Exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d for %q", len(program.Exprs), src)
	}
	return program.Exprs[0]
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		src string
		// shape checks the top node of the parsed expression
		shape func(t *testing.T, e ast.Expr)
	}{
		{"1 + 2 * 3", func(t *testing.T, e ast.Expr) {
			inf := e.(*ast.InfixExpr)
			if inf.Op != lexer.PLUS {
				t.Fatalf("top op = %s, want +", inf.Op)
			}
			right := inf.Right.(*ast.InfixExpr)
			if right.Op != lexer.ASTERISK {
				t.Fatalf("right op = %s, want *", right.Op)
			}
		}},
		{"2 ** 3 ** 2", func(t *testing.T, e ast.Expr) {
			inf := e.(*ast.InfixExpr)
			if _, ok := inf.Left.(*ast.IntegerLit); !ok {
				t.Fatalf("power should be right-associative, left = %T", inf.Left)
			}
			if _, ok := inf.Right.(*ast.InfixExpr); !ok {
				t.Fatalf("power should be right-associative, right = %T", inf.Right)
			}
		}},
		{"a || b && c", func(t *testing.T, e ast.Expr) {
			inf := e.(*ast.InfixExpr)
			if inf.Op != lexer.OR {
				t.Fatalf("top op = %s, want ||", inf.Op)
			}
		}},
		{"1 | 2 ^ 3 & 4", func(t *testing.T, e ast.Expr) {
			inf := e.(*ast.InfixExpr)
			if inf.Op != lexer.PIPE {
				t.Fatalf("top op = %s, want |", inf.Op)
			}
		}},
		{"1 << 2 + 3", func(t *testing.T, e ast.Expr) {
			inf := e.(*ast.InfixExpr)
			if inf.Op != lexer.SHL {
				t.Fatalf("top op = %s, want <<", inf.Op)
			}
		}},
		{"-x ** 2", func(t *testing.T, e ast.Expr) {
			// Unary minus binds tighter than **.
			if _, ok := e.(*ast.InfixExpr); !ok {
				t.Fatalf("top = %T, want InfixExpr", e)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tt.shape(t, parseExprOne(t, tt.src))
		})
	}
}

func TestAssignmentRightAssociative(t *testing.T) {
	expr := parseExprOne(t, "a = b = 1")
	outer := expr.(*ast.AssignExpr)
	if _, ok := outer.Value.(*ast.AssignExpr); !ok {
		t.Fatalf("assignment should be right-associative, value = %T", outer.Value)
	}
}

func TestInvalidAssignTarget(t *testing.T) {
	p := New("1 + 2 = 3")
	p.Parse()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected an error for invalid assignment target")
	}
}

func TestTernaryAndAtom(t *testing.T) {
	expr := parseExprOne(t, "flag ? :yes : :no")
	tern := expr.(*ast.TernaryExpr)
	if atom := tern.Then.(*ast.AtomLit); atom.Name != "yes" {
		t.Fatalf("then atom = %q, want yes", atom.Name)
	}
	if atom := tern.Else.(*ast.AtomLit); atom.Name != "no" {
		t.Fatalf("else atom = %q, want no", atom.Name)
	}
}

func TestPostfixQuestion(t *testing.T) {
	expr := parseExprOne(t, "let v = read()?")
	let := expr.(*ast.LetExpr)
	if _, ok := let.Value.(*ast.QuestionExpr); !ok {
		t.Fatalf("value = %T, want QuestionExpr", let.Value)
	}
}

func TestPipelineDesugar(t *testing.T) {
	expr := parseExprOne(t, "xs |> filter(pred) |> sum")
	call := expr.(*ast.CallExpr)
	callee := call.Callee.(*ast.Ident)
	if callee.Name != "sum" {
		t.Fatalf("outer callee = %q, want sum", callee.Name)
	}
	if len(call.Args) != 1 {
		t.Fatalf("outer args = %d, want 1", len(call.Args))
	}

	inner := call.Args[0].(*ast.CallExpr)
	if inner.Callee.(*ast.Ident).Name != "filter" {
		t.Fatalf("inner callee = %q, want filter", inner.Callee.(*ast.Ident).Name)
	}
	if len(inner.Args) != 2 {
		t.Fatalf("pipeline should prepend the piped value, args = %d", len(inner.Args))
	}
	if inner.Args[0].(*ast.Ident).Name != "xs" {
		t.Fatalf("first arg = %q, want xs", inner.Args[0].(*ast.Ident).Name)
	}
}

func TestLambdaForms(t *testing.T) {
	tests := []struct {
		src    string
		params int
	}{
		{"|x| x + 1", 1},
		{"|a, b| a * b", 2},
		{"|| 42", 0},
		{"\\x -> x * 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lam := parseExprOne(t, tt.src).(*ast.LambdaExpr)
			if len(lam.Params) != tt.params {
				t.Fatalf("params = %d, want %d", len(lam.Params), tt.params)
			}
		})
	}
}

func TestFunDeclaration(t *testing.T) {
	src := `fun add(x: i32, y: i32 = 1) -> i32 {
    x + y
}`
	fn := parseExprOne(t, src).(*ast.FunExpr)
	if fn.Name.Name != "add" {
		t.Fatalf("name = %q, want add", fn.Name.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Fatal("second parameter should carry a default")
	}
	if fn.ReturnType == nil {
		t.Fatal("return type missing")
	}
	if len(fn.Body.Exprs) != 1 {
		t.Fatalf("body statements = %d, want 1", len(fn.Body.Exprs))
	}
}

func TestMatchTuplePattern(t *testing.T) {
	src := `match (1, 2) {
    (1, y) => y,
    _ => 0
}`
	m := parseExprOne(t, src).(*ast.MatchExpr)
	if len(m.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(m.Arms))
	}

	tup := m.Arms[0].Pattern.(*ast.PatternTuple)
	if len(tup.Elements) != 2 {
		t.Fatalf("tuple pattern elements = %d, want 2", len(tup.Elements))
	}
	if _, ok := tup.Elements[0].(*ast.PatternLiteral); !ok {
		t.Fatalf("first element = %T, want literal", tup.Elements[0])
	}
	if _, ok := tup.Elements[1].(*ast.PatternIdent); !ok {
		t.Fatalf("second element = %T, want binding", tup.Elements[1])
	}
	if _, ok := m.Arms[1].Pattern.(*ast.PatternWild); !ok {
		t.Fatalf("second arm = %T, want wildcard", m.Arms[1].Pattern)
	}
}

func TestMatchGuardsAndRanges(t *testing.T) {
	src := `match n {
    0..=9 => "digit",
    x if x < 0 => "negative",
    _ => "big"
}`
	m := parseExprOne(t, src).(*ast.MatchExpr)
	if _, ok := m.Arms[0].Pattern.(*ast.PatternRange); !ok {
		t.Fatalf("first arm = %T, want range pattern", m.Arms[0].Pattern)
	}
	if m.Arms[1].Guard == nil {
		t.Fatal("second arm should carry a guard")
	}
}

func TestEnumVariantPattern(t *testing.T) {
	src := `match opt {
    Some(v) => v,
    None => 0
}`
	m := parseExprOne(t, src).(*ast.MatchExpr)
	en := m.Arms[0].Pattern.(*ast.PatternEnum)
	if en.Path[0].Name != "Some" || len(en.Elements) != 1 {
		t.Fatalf("unexpected variant pattern %+v", en)
	}
	unit := m.Arms[1].Pattern.(*ast.PatternEnum)
	if unit.Path[0].Name != "None" || unit.Elements != nil {
		t.Fatalf("unexpected unit variant pattern %+v", unit)
	}
}

func TestIfLetAndWhileLet(t *testing.T) {
	ifLet := parseExprOne(t, "if let Some(x) = opt { x } else { 0 }").(*ast.IfLetExpr)
	if ifLet.Else == nil {
		t.Fatal("if-let else branch missing")
	}

	whileLet := parseExprOne(t, "while let Some(x) = it.next() { total = total + x }").(*ast.WhileLetExpr)
	if whileLet.Pattern == nil || whileLet.Body == nil {
		t.Fatal("while-let pieces missing")
	}
}

func TestLoopLabels(t *testing.T) {
	src := `'outer: for i in 0..10 {
    'inner: while true {
        break 'outer
    }
}`
	loop := parseExprOne(t, src).(*ast.ForExpr)
	if loop.Label != "outer" {
		t.Fatalf("label = %q, want outer", loop.Label)
	}
}

func TestUnresolvedLabelIsError(t *testing.T) {
	p := New("for i in 0..3 { break 'missing }")
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected unresolved label error")
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	p := New("break")
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected error for break outside loop")
	}
}

func TestStructLiteralVsBlock(t *testing.T) {
	// In statement position after `=`, Point { ... } is a struct literal.
	let := parseExprOne(t, "let p = Point { x: 1, y: 2 }").(*ast.LetExpr)
	lit := let.Value.(*ast.StructLit)
	if len(lit.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(lit.Fields))
	}

	// In an if header the brace opens the body, not a literal.
	ifExpr := parseExprOne(t, "if Ready { 1 } else { 0 }").(*ast.IfExpr)
	if _, ok := ifExpr.Cond.(*ast.Ident); !ok {
		t.Fatalf("condition = %T, want bare identifier", ifExpr.Cond)
	}
}

func TestBraceConstructs(t *testing.T) {
	obj := parseExprOne(t, "let o = {name: \"x\", age: 3}").(*ast.LetExpr).Value
	if _, ok := obj.(*ast.ObjectLit); !ok {
		t.Fatalf("got %T, want ObjectLit", obj)
	}

	dict := parseExprOne(t, "let d = {\"a\": 1, \"b\": 2}").(*ast.LetExpr).Value
	if _, ok := dict.(*ast.DictLit); !ok {
		t.Fatalf("got %T, want DictLit", dict)
	}

	set := parseExprOne(t, "let s = {1, 2, 3}").(*ast.LetExpr).Value
	if _, ok := set.(*ast.SetLit); !ok {
		t.Fatalf("got %T, want SetLit", set)
	}
}

func TestListForms(t *testing.T) {
	list := parseExprOne(t, "[1, 2, 3]").(*ast.ListLit)
	if len(list.Elements) != 3 {
		t.Fatalf("elements = %d, want 3", len(list.Elements))
	}

	repeat := parseExprOne(t, "[0; 8]").(*ast.ArrayRepeat)
	if repeat.Value == nil || repeat.Count == nil {
		t.Fatal("array repeat pieces missing")
	}

	comp := parseExprOne(t, "[x * x for x in 1..5 if x != 3]").(*ast.ListComp)
	if comp.Filter == nil {
		t.Fatal("comprehension filter missing")
	}
}

func TestInterpolation(t *testing.T) {
	lit := parseExprOne(t, `f"sum = {a + b:>8}!"`).(*ast.InterpLit)
	if len(lit.Parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(lit.Parts))
	}
	if lit.Parts[0].Text != "sum = " {
		t.Fatalf("leading text = %q", lit.Parts[0].Text)
	}
	if _, ok := lit.Parts[1].Expr.(*ast.InfixExpr); !ok {
		t.Fatalf("embedded expr = %T, want InfixExpr", lit.Parts[1].Expr)
	}
	if lit.Parts[1].Format != ">8" {
		t.Fatalf("format = %q, want >8", lit.Parts[1].Format)
	}
	if lit.Parts[2].Text != "!" {
		t.Fatalf("trailing text = %q", lit.Parts[2].Text)
	}
}

func TestInterpolationEscapedBraces(t *testing.T) {
	lit := parseExprOne(t, `f"{{literal}} {x}"`).(*ast.InterpLit)
	if lit.Parts[0].Text != "{literal} " {
		t.Fatalf("text = %q", lit.Parts[0].Text)
	}
}

func TestDataFrameLiteral(t *testing.T) {
	df := parseExprOne(t, `df![age => [1, 2, 3], name => ["a", "b", "c"]]`).(*ast.DataFrameLit)
	if len(df.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(df.Columns))
	}
	if df.Columns[0].Name != "age" || len(df.Columns[0].Values) != 3 {
		t.Fatalf("unexpected first column %+v", df.Columns[0])
	}
}

func TestActorDefinition(t *testing.T) {
	src := `actor Counter {
    count: i32

    on Inc {
        count = count + 1
    }

    on Get {
        count
    }
}`
	def := parseExprOne(t, src).(*ast.ActorDef)
	if def.Name.Name != "Counter" {
		t.Fatalf("name = %q", def.Name.Name)
	}
	if len(def.Fields) != 1 || len(def.Handlers) != 2 {
		t.Fatalf("fields = %d handlers = %d", len(def.Fields), len(def.Handlers))
	}
	if def.Handlers[0].Message.Name != "Inc" {
		t.Fatalf("first handler = %q", def.Handlers[0].Message.Name)
	}
}

func TestActorSendAndAsk(t *testing.T) {
	send := parseExprOne(t, "counter ! Inc").(*ast.SendExpr)
	if _, ok := send.Msg.(*ast.Ident); !ok {
		t.Fatalf("msg = %T", send.Msg)
	}

	askOp := parseExprOne(t, "counter ? Get").(*ast.AskExpr)
	if askOp.Timeout != nil {
		t.Fatal("operator ask should have no timeout")
	}

	askKw := parseExprOne(t, "ask(counter, Get, 100)").(*ast.AskExpr)
	if askKw.Timeout == nil {
		t.Fatal("keyword ask should keep its timeout argument")
	}
}

func TestTryCatchFinally(t *testing.T) {
	src := `try {
    risky()
} catch e {
    log(e)
} finally {
    cleanup()
}`
	tc := parseExprOne(t, src).(*ast.TryCatchExpr)
	if len(tc.Catches) != 1 || tc.Finally == nil {
		t.Fatalf("catches = %d finally = %v", len(tc.Catches), tc.Finally)
	}
}

func TestSlicing(t *testing.T) {
	slice := parseExprOne(t, "xs[1:3]").(*ast.SliceExpr)
	if slice.Start == nil || slice.End == nil {
		t.Fatal("slice bounds missing")
	}

	open := parseExprOne(t, "xs[2:]").(*ast.SliceExpr)
	if open.Start == nil || open.End != nil {
		t.Fatal("open slice should drop its end bound")
	}
}

func TestMethodChainAcrossLines(t *testing.T) {
	src := `df.filter(|row| row > 1)
    .select("age")`
	call := parseExprOne(t, src).(*ast.MethodCallExpr)
	if call.Method.Name != "select" {
		t.Fatalf("outer method = %q, want select", call.Method.Name)
	}
}

func TestSafeNavigation(t *testing.T) {
	field := parseExprOne(t, "user?.name").(*ast.FieldExpr)
	if !field.Optional {
		t.Fatal("safe field access should be optional")
	}

	idx := parseExprOne(t, "xs?[0]").(*ast.IndexExpr)
	if !idx.Optional {
		t.Fatal("safe index access should be optional")
	}
}

func TestDecorators(t *testing.T) {
	src := `@memoize
@log("calls")
fun fib(n: i32) -> i32 {
    n
}`
	fn := parseExprOne(t, src).(*ast.FunExpr)
	attrs := fn.Attrs()
	if len(attrs) != 2 {
		t.Fatalf("attributes = %d, want 2", len(attrs))
	}
	if attrs[0].Name != "memoize" || attrs[1].Name != "log" {
		t.Fatalf("attribute names = %q, %q", attrs[0].Name, attrs[1].Name)
	}
	if len(attrs[1].Args) != 1 {
		t.Fatalf("log args = %d, want 1", len(attrs[1].Args))
	}
}

func TestErrorRecovery(t *testing.T) {
	src := `let a = ;
let b = 2
let c = @@
let d = 4`
	p := New(src)
	program := p.Parse()

	if len(p.Errors()) < 2 {
		t.Fatalf("expected errors from both bad statements, got %d", len(p.Errors()))
	}

	// Recovery keeps the good statements.
	var lets int
	for _, e := range program.Exprs {
		if _, ok := e.(*ast.LetExpr); ok {
			lets++
		}
	}
	if lets < 2 {
		t.Fatalf("recovered let statements = %d, want at least 2", lets)
	}
}

func TestDuplicatePatternBinding(t *testing.T) {
	p := New("let (a, a) = pair")
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected duplicate binding error")
	}
}

func TestNestedGenericsClose(t *testing.T) {
	let := parseExprOne(t, "let m: HashMap<String, Vec<i32>> = make()").(*ast.LetExpr)
	if let.Type == nil {
		t.Fatal("type annotation missing")
	}
	gen := let.Type.(*ast.GenericType)
	if len(gen.Params) != 2 {
		t.Fatalf("type params = %d, want 2", len(gen.Params))
	}
}

func TestImportsAndModules(t *testing.T) {
	imp := parseExprOne(t, "import std::collections as coll").(*ast.ImportExpr)
	if imp.Alias == nil || imp.Alias.Name != "coll" {
		t.Fatalf("alias missing: %+v", imp)
	}

	from := parseExprOne(t, "from math import sin, cos").(*ast.ImportExpr)
	if len(from.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(from.Items))
	}

	star := parseExprOne(t, "from math import *").(*ast.ImportExpr)
	if !star.All {
		t.Fatal("star import not flagged")
	}

	mod := parseExprOne(t, "mod geometry { fun area(r: f64) -> f64 { r * r } }").(*ast.ModuleDef)
	if mod.Name.Name != "geometry" {
		t.Fatalf("module name = %q", mod.Name.Name)
	}
}

func TestStructEnumTraitImpl(t *testing.T) {
	src := `struct Point { x: f64, y: f64 }

enum Color {
    Red,
    Green,
    Rgb(i32, i32, i32)
}

trait Shape {
    fun area(self) -> f64
}

impl Shape for Point {
    fun area(self) -> f64 { 0.0 }
}`
	program := parseProgram(t, src)
	if len(program.Exprs) != 4 {
		t.Fatalf("declarations = %d, want 4", len(program.Exprs))
	}

	enum := program.Exprs[1].(*ast.EnumDef)
	if len(enum.Variants) != 3 {
		t.Fatalf("variants = %d, want 3", len(enum.Variants))
	}
	if len(enum.Variants[2].Fields) != 3 {
		t.Fatalf("Rgb payload = %d, want 3", len(enum.Variants[2].Fields))
	}

	impl := program.Exprs[3].(*ast.ImplBlock)
	if impl.Trait == nil || impl.Trait.Name != "Shape" {
		t.Fatalf("impl trait = %+v", impl.Trait)
	}
}

func TestCommentAttachment(t *testing.T) {
	src := `// doc for a
let a = 1
let b = 2 // trailing`
	p := New(src)
	program := p.Parse()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}

	first := program.Exprs[0].(*ast.LetExpr)
	if len(first.LeadingComments()) != 1 {
		t.Fatalf("leading comments = %d, want 1", len(first.LeadingComments()))
	}

	second := program.Exprs[1].(*ast.LetExpr)
	if second.TrailingComment() == nil {
		t.Fatal("trailing comment missing")
	}
}

func TestSemicolonsOptionalAtNewlines(t *testing.T) {
	program := parseProgram(t, "let a = 1\nlet b = 2;\nlet c = 3")
	if len(program.Exprs) != 3 {
		t.Fatalf("statements = %d, want 3", len(program.Exprs))
	}
}

func TestCompoundAssignAndIncDec(t *testing.T) {
	ca := parseExprOne(t, "total += 2").(*ast.CompoundAssignExpr)
	if ca.Op != lexer.PLUS {
		t.Fatalf("op = %s, want +", ca.Op)
	}

	inc := parseExprOne(t, "i++").(*ast.IncDecExpr)
	if inc.Prefix {
		t.Fatal("i++ should be postfix")
	}

	dec := parseExprOne(t, "--j").(*ast.IncDecExpr)
	if !dec.Prefix {
		t.Fatal("--j should be prefix")
	}
}

func TestSpawnSendBlock(t *testing.T) {
	spawn := parseExprOne(t, "spawn Counter").(*ast.SpawnExpr)
	if _, ok := spawn.Expr.(*ast.Ident); !ok {
		t.Fatalf("spawn target = %T", spawn.Expr)
	}
}

func TestQualifiedCall(t *testing.T) {
	call := parseExprOne(t, "math::sqrt(2.0)").(*ast.CallExpr)
	qn := call.Callee.(*ast.QualifiedName)
	if len(qn.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(qn.Segments))
	}
}
