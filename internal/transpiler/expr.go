package transpiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// rustKeywords are identifiers that need escaping in the output. Names that
// cannot be raw identifiers get a trailing underscore instead.
var rustKeywords = map[string]bool{
	"as": true, "box": true, "const": true, "crate": false, "dyn": true,
	"extern": true, "fn": true, "impl": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true,
	"ref": true, "self": false, "Self": false, "static": true, "struct": true,
	"super": false, "trait": true, "type": true, "unsafe": true, "use": true,
	"where": true,
}

func hygienic(name string) string {
	raw, reserved := rustKeywords[name]
	if !reserved {
		return name
	}
	if raw {
		return "r#" + name
	}
	return name + "_"
}

func (t *Transpiler) expr(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return hygienic(e.Name), nil
	case *ast.QualifiedName:
		segments := make([]string, len(e.Segments))
		for i, s := range e.Segments {
			segments[i] = hygienic(s.Name)
		}
		return strings.Join(segments, "::"), nil
	case *ast.IntegerLit:
		return e.Text + e.Suffix, nil
	case *ast.FloatLit:
		return e.Text + e.Suffix, nil
	case *ast.StringLit:
		return strconv.Quote(e.Value), nil
	case *ast.InterpLit:
		return t.interpLit(e)
	case *ast.CharLit:
		return strconv.QuoteRune(e.Value), nil
	case *ast.ByteLit:
		return fmt.Sprintf("b'\\x%02x'", e.Value), nil
	case *ast.BoolLit:
		if e.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.UnitLit:
		return "()", nil
	case *ast.NilLit:
		return "None", nil
	case *ast.AtomLit:
		// Atoms have no Rust analogue; a string literal is the closest fit.
		return strconv.Quote(e.Name), nil
	case *ast.ListLit:
		elems, err := t.exprList(e.Elements)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("vec![%s]", elems), nil
	case *ast.ListComp:
		return t.listComp(e)
	case *ast.TupleLit:
		elems, err := t.exprList(e.Elements)
		if err != nil {
			return "", err
		}
		if len(e.Elements) == 1 {
			return fmt.Sprintf("(%s,)", elems), nil
		}
		return fmt.Sprintf("(%s)", elems), nil
	case *ast.SetLit:
		elems, err := t.exprList(e.Elements)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("HashSet::from([%s])", elems), nil
	case *ast.ObjectLit:
		pairs := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			v, err := t.expr(f.Value)
			if err != nil {
				return "", err
			}
			pairs[i] = fmt.Sprintf("(%s, %s)", strconv.Quote(f.Name.Name), v)
		}
		return fmt.Sprintf("HashMap::from([%s])", strings.Join(pairs, ", ")), nil
	case *ast.DictLit:
		pairs := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			k, err := t.expr(entry.Key)
			if err != nil {
				return "", err
			}
			v, err := t.expr(entry.Value)
			if err != nil {
				return "", err
			}
			pairs[i] = fmt.Sprintf("(%s, %s)", k, v)
		}
		return fmt.Sprintf("HashMap::from([%s])", strings.Join(pairs, ", ")), nil
	case *ast.StructLit:
		return t.structLit(e)
	case *ast.ArrayRepeat:
		v, err := t.expr(e.Value)
		if err != nil {
			return "", err
		}
		n, err := t.expr(e.Count)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("vec![%s; %s]", v, n), nil
	case *ast.RangeLit:
		start, err := t.expr(e.Start)
		if err != nil {
			return "", err
		}
		end, err := t.expr(e.End)
		if err != nil {
			return "", err
		}
		if e.Inclusive {
			return fmt.Sprintf("%s..=%s", start, end), nil
		}
		return fmt.Sprintf("%s..%s", start, end), nil
	case *ast.CommandLit:
		return commandLit(e.Text), nil
	case *ast.DataFrameLit:
		return t.dataFrameLit(e)
	case *ast.MacroExpr:
		args, err := t.exprList(e.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s!(%s)", e.Name, args), nil
	case *ast.SpreadExpr:
		return "", unsupported(e.Span(), "spread has no Rust equivalent in this position")

	case *ast.PrefixExpr:
		return t.prefixExpr(e)
	case *ast.InfixExpr:
		return t.infixExpr(e)
	case *ast.TernaryExpr:
		return t.ternaryExpr(e)
	case *ast.AssignExpr:
		return t.simplePair("%s = %s", e.Target, e.Value)
	case *ast.CompoundAssignExpr:
		target, err := t.expr(e.Target)
		if err != nil {
			return "", err
		}
		value, err := t.expr(e.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s= %s", target, string(e.Op), value), nil
	case *ast.IncDecExpr:
		return t.incDecExpr(e)
	case *ast.CallExpr:
		return t.callExpr(e)
	case *ast.MethodCallExpr:
		recv, err := t.expr(e.Receiver)
		if err != nil {
			return "", err
		}
		args, err := t.exprList(e.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s(%s)", recv, hygienic(e.Method.Name), args), nil
	case *ast.FieldExpr:
		target, err := t.expr(e.Target)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", target, hygienic(e.Field.Name)), nil
	case *ast.IndexExpr:
		return t.simplePair("%s[%s]", e.Target, e.Index)
	case *ast.SliceExpr:
		return t.sliceExpr(e)
	case *ast.QuestionExpr:
		inner, err := t.expr(e.Expr)
		if err != nil {
			return "", err
		}
		return inner + "?", nil
	case *ast.ThrowExpr:
		v, err := t.expr(e.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("return Err(%s)", v), nil
	case *ast.AwaitExpr:
		inner, err := t.expr(e.Expr)
		if err != nil {
			return "", err
		}
		return inner + ".await", nil
	case *ast.AsyncBlock:
		body, err := t.blockBody(e.Body)
		if err != nil {
			return "", err
		}
		return "async " + body, nil
	case *ast.UnsafeBlock:
		body, err := t.blockBody(e.Body)
		if err != nil {
			return "", err
		}
		return "unsafe " + body, nil
	case *ast.SpawnExpr:
		// Handlers run synchronously, so spawning reduces to construction.
		return t.expr(e.Expr)
	case *ast.SendExpr:
		return t.sendExpr(e.Actor, e.Msg)
	case *ast.AskExpr:
		s, err := t.sendExpr(e.Actor, e.Msg)
		if err != nil {
			return "", err
		}
		if e.Timeout != nil {
			s += " /* timeout not enforced */"
		}
		return s, nil
	case *ast.LazyExpr:
		inner, err := t.expr(e.Expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("std::cell::LazyCell::new(move || %s)", inner), nil
	case *ast.LambdaExpr:
		return t.lambdaExpr(e)
	case *ast.BlockExpr:
		return t.blockBody(e)
	case *ast.FunExpr:
		if e.Name == nil {
			return t.anonFun(e)
		}
		return t.funItem(e)

	case *ast.IfExpr:
		return t.ifExpr(e)
	case *ast.IfLetExpr:
		return t.ifLetExpr(e)
	case *ast.MatchExpr:
		return t.matchExpr(e)
	case *ast.WhileExpr:
		return t.whileExpr(e)
	case *ast.WhileLetExpr:
		return t.whileLetExpr(e)
	case *ast.ForExpr:
		return t.forExpr(e)
	case *ast.LoopExpr:
		return t.loopExpr(e)
	case *ast.BreakExpr:
		return t.breakExpr(e)
	case *ast.ContinueExpr:
		if e.Label != "" {
			return "continue '" + e.Label, nil
		}
		return "continue", nil
	case *ast.ReturnExpr:
		if e.Value == nil {
			return "return", nil
		}
		v, err := t.expr(e.Value)
		if err != nil {
			return "", err
		}
		return "return " + v, nil
	case *ast.TryCatchExpr:
		return t.tryCatchExpr(e)

	case *ast.LetExpr:
		return t.letStmt(e)
	}
	return "", unsupported(expr.Span(), "cannot transpile %T", expr)
}

func (t *Transpiler) simplePair(format string, a, b ast.Expr) (string, error) {
	left, err := t.expr(a)
	if err != nil {
		return "", err
	}
	right, err := t.expr(b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(format, left, right), nil
}

func (t *Transpiler) exprList(exprs []ast.Expr) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := t.expr(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// blockBody renders a block with the last expression left bare so the block
// keeps its value in expression position.
func (t *Transpiler) blockBody(block *ast.BlockExpr) (string, error) {
	if len(block.Exprs) == 0 {
		return "{}", nil
	}
	var b strings.Builder
	b.WriteString("{\n")
	t.indent++
	for i, e := range block.Exprs {
		if i == len(block.Exprs)-1 && isValueTail(e) {
			s, err := t.expr(e)
			if err != nil {
				return "", err
			}
			b.WriteString(t.pad())
			b.WriteString(s)
			b.WriteString("\n")
			continue
		}
		s, err := t.statement(e)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString("\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

// isValueTail reports whether a trailing expression should be emitted without
// a semicolon so the enclosing block yields its value.
func isValueTail(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.LetExpr, *ast.ConstExpr, *ast.AssignExpr, *ast.CompoundAssignExpr,
		*ast.StructDef, *ast.EnumDef, *ast.TraitDef, *ast.ImplBlock,
		*ast.ClassDef, *ast.ActorDef, *ast.ModuleDef, *ast.TypeAlias,
		*ast.ImportExpr, *ast.ExportExpr:
		return false
	case *ast.FunExpr:
		return false
	}
	return true
}

func (t *Transpiler) interpLit(e *ast.InterpLit) (string, error) {
	var format strings.Builder
	var args []string
	for _, part := range e.Parts {
		if part.Expr == nil {
			format.WriteString(strings.NewReplacer("{", "{{", "}", "}}").Replace(part.Text))
			continue
		}
		if part.Format != "" {
			format.WriteString("{:" + part.Format + "}")
		} else {
			format.WriteString("{}")
		}
		arg, err := t.expr(part.Expr)
		if err != nil {
			return "", err
		}
		args = append(args, arg)
	}
	quoted := strconv.Quote(format.String())
	if len(args) == 0 {
		return fmt.Sprintf("format!(%s)", quoted), nil
	}
	return fmt.Sprintf("format!(%s, %s)", quoted, strings.Join(args, ", ")), nil
}

func (t *Transpiler) listComp(e *ast.ListComp) (string, error) {
	iter, err := t.expr(e.Iter)
	if err != nil {
		return "", err
	}
	binder, err := t.pattern(e.Var)
	if err != nil {
		return "", err
	}
	elem, err := t.expr(e.Element)
	if err != nil {
		return "", err
	}
	pipeline := fmt.Sprintf("%s.into_iter()", iter)
	if e.Filter != nil {
		cond, err := t.expr(e.Filter)
		if err != nil {
			return "", err
		}
		pipeline += fmt.Sprintf(".filter(|%s| %s)", binder, cond)
	}
	return fmt.Sprintf("%s.map(|%s| %s).collect::<Vec<_>>()", pipeline, binder, elem), nil
}

func (t *Transpiler) structLit(e *ast.StructLit) (string, error) {
	name, err := t.expr(e.Name)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(e.Fields)+1)
	for _, f := range e.Fields {
		if f.Shorthand {
			parts = append(parts, hygienic(f.Name.Name))
			continue
		}
		v, err := t.expr(f.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s: %s", hygienic(f.Name.Name), v))
	}
	if e.Base != nil {
		b, err := t.expr(e.Base)
		if err != nil {
			return "", err
		}
		parts = append(parts, ".."+b)
	}
	return fmt.Sprintf("%s { %s }", name, strings.Join(parts, ", ")), nil
}

func commandLit(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return `std::process::Command::new("sh")`
	}
	prog := strconv.Quote(fields[0])
	if len(fields) == 1 {
		return fmt.Sprintf("std::process::Command::new(%s).output()", prog)
	}
	args := make([]string, len(fields)-1)
	for i, f := range fields[1:] {
		args[i] = strconv.Quote(f)
	}
	return fmt.Sprintf("std::process::Command::new(%s).args([%s]).output()",
		prog, strings.Join(args, ", "))
}

func (t *Transpiler) dataFrameLit(e *ast.DataFrameLit) (string, error) {
	cols := make([]string, len(e.Columns))
	for i, col := range e.Columns {
		values, err := t.exprList(col.Values)
		if err != nil {
			return "", err
		}
		cols[i] = fmt.Sprintf("Column::new(%s, vec![%s])", strconv.Quote(col.Name), values)
	}
	return fmt.Sprintf("DataFrame::new(vec![%s])", strings.Join(cols, ", ")), nil
}

func (t *Transpiler) prefixExpr(e *ast.PrefixExpr) (string, error) {
	inner, err := t.expr(e.Expr)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case lexer.MINUS:
		return "-" + inner, nil
	case lexer.BANG, lexer.TILDE:
		// Rust spells both logical and bitwise negation as `!`.
		return "!" + inner, nil
	case lexer.AMPERSAND:
		return "&" + inner, nil
	case lexer.ASTERISK:
		return "*" + inner, nil
	case lexer.PLUS:
		return inner, nil
	}
	return "", unsupported(e.Span(), "prefix operator %s", e.Op)
}

func (t *Transpiler) infixExpr(e *ast.InfixExpr) (string, error) {
	if e.Op == lexer.PIPELINE {
		return t.pipeline(e)
	}
	left, err := t.expr(e.Left)
	if err != nil {
		return "", err
	}
	right, err := t.expr(e.Right)
	if err != nil {
		return "", err
	}
	if e.Op == lexer.POWER {
		return fmt.Sprintf("%s.pow(%s as u32)", maybeParen(left), right), nil
	}
	return fmt.Sprintf("%s %s %s", left, string(e.Op), right), nil
}

// maybeParen wraps an operand so a method call binds to the whole expression.
func maybeParen(s string) string {
	if strings.ContainsAny(s, " +-*/%") {
		return "(" + s + ")"
	}
	return s
}

// pipeline rewrites `x |> f` as `f(x)` and `x |> f(a)` as `f(x, a)`.
func (t *Transpiler) pipeline(e *ast.InfixExpr) (string, error) {
	left, err := t.expr(e.Left)
	if err != nil {
		return "", err
	}
	if call, ok := e.Right.(*ast.CallExpr); ok {
		callee, err := t.expr(call.Callee)
		if err != nil {
			return "", err
		}
		args, err := t.exprList(call.Args)
		if err != nil {
			return "", err
		}
		if args == "" {
			return fmt.Sprintf("%s(%s)", callee, left), nil
		}
		return fmt.Sprintf("%s(%s, %s)", callee, left, args), nil
	}
	right, err := t.expr(e.Right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", right, left), nil
}

func (t *Transpiler) ternaryExpr(e *ast.TernaryExpr) (string, error) {
	cond, err := t.expr(e.Cond)
	if err != nil {
		return "", err
	}
	then, err := t.expr(e.Then)
	if err != nil {
		return "", err
	}
	els, err := t.expr(e.Else)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("if %s { %s } else { %s }", cond, then, els), nil
}

func (t *Transpiler) incDecExpr(e *ast.IncDecExpr) (string, error) {
	target, err := t.expr(e.Target)
	if err != nil {
		return "", err
	}
	op := "+="
	if e.Op == lexer.DECREMENT {
		op = "-="
	}
	if e.Prefix {
		return fmt.Sprintf("{ %s %s 1; %s }", target, op, target), nil
	}
	return fmt.Sprintf("{ let __old = %s; %s %s 1; __old }", target, target, op), nil
}

func (t *Transpiler) callExpr(e *ast.CallExpr) (string, error) {
	if id, ok := e.Callee.(*ast.Ident); ok {
		if s, handled, err := t.printCall(id.Name, e.Args); handled || err != nil {
			return s, err
		}
	}
	callee, err := t.expr(e.Callee)
	if err != nil {
		return "", err
	}
	args, err := t.exprList(e.Args)
	if err != nil {
		return "", err
	}
	if len(e.TypeArgs) > 0 {
		types := make([]string, len(e.TypeArgs))
		for i, ta := range e.TypeArgs {
			types[i], err = t.typeExpr(ta)
			if err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%s::<%s>(%s)", callee, strings.Join(types, ", "), args), nil
	}
	return fmt.Sprintf("%s(%s)", callee, args), nil
}

// printCall maps the print builtins onto the Rust formatting macros. A single
// interpolated-string argument reuses its format string directly.
func (t *Transpiler) printCall(name string, args []ast.Expr) (string, bool, error) {
	var macro string
	switch name {
	case "println", "print", "format":
		macro = name
	case "panic":
		macro = "panic"
	default:
		return "", false, nil
	}

	if len(args) == 1 {
		if interp, ok := args[0].(*ast.InterpLit); ok {
			s, err := t.interpLit(interp)
			if err != nil {
				return "", true, err
			}
			return macro + "!" + strings.TrimPrefix(s, "format!"), true, nil
		}
	}
	if len(args) == 0 {
		return macro + "!()", true, nil
	}
	rendered, err := t.exprList(args)
	if err != nil {
		return "", true, err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("{} ", len(args)), " ")
	return fmt.Sprintf("%s!(%q, %s)", macro, placeholders, rendered), true, nil
}

func (t *Transpiler) sliceExpr(e *ast.SliceExpr) (string, error) {
	target, err := t.expr(e.Target)
	if err != nil {
		return "", err
	}
	start, end := "", ""
	if e.Start != nil {
		start, err = t.expr(e.Start)
		if err != nil {
			return "", err
		}
	}
	if e.End != nil {
		end, err = t.expr(e.End)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("&%s[%s..%s]", target, start, end), nil
}

// sendExpr lowers message delivery to a synchronous handler call.
func (t *Transpiler) sendExpr(actor, msg ast.Expr) (string, error) {
	target, err := t.expr(actor)
	if err != nil {
		return "", err
	}
	rendered, err := t.expr(msg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.handle_message(%s)", target, rendered), nil
}

func (t *Transpiler) lambdaExpr(e *ast.LambdaExpr) (string, error) {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = hygienic(p.Name.Name)
		if p.Type != nil {
			ty, err := t.typeExpr(p.Type)
			if err != nil {
				return "", err
			}
			params[i] += ": " + ty
		}
	}
	body, err := t.expr(e.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("|%s| %s", strings.Join(params, ", "), body), nil
}

// anonFun renders `fun (x) { ... }` in expression position as a closure.
func (t *Transpiler) anonFun(e *ast.FunExpr) (string, error) {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = hygienic(p.Name.Name)
	}
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("|%s| %s", strings.Join(params, ", "), body), nil
}

func (t *Transpiler) ifExpr(e *ast.IfExpr) (string, error) {
	cond, err := t.expr(e.Cond)
	if err != nil {
		return "", err
	}
	then, err := t.blockBody(e.Then)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("if %s %s", cond, then)
	if e.Else != nil {
		els, err := t.expr(e.Else)
		if err != nil {
			return "", err
		}
		out += " else " + els
	}
	return out, nil
}

func (t *Transpiler) ifLetExpr(e *ast.IfLetExpr) (string, error) {
	pat, err := t.pattern(e.Pattern)
	if err != nil {
		return "", err
	}
	value, err := t.expr(e.Value)
	if err != nil {
		return "", err
	}
	then, err := t.blockBody(e.Then)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("if let %s = %s %s", pat, value, then)
	if e.Else != nil {
		els, err := t.expr(e.Else)
		if err != nil {
			return "", err
		}
		out += " else " + els
	}
	return out, nil
}

func (t *Transpiler) matchExpr(e *ast.MatchExpr) (string, error) {
	subject, err := t.expr(e.Subject)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "match %s {\n", subject)
	t.indent++
	for _, arm := range e.Arms {
		pat, err := t.pattern(arm.Pattern)
		if err != nil {
			return "", err
		}
		b.WriteString(t.pad())
		b.WriteString(pat)
		if arm.Guard != nil {
			guard, err := t.expr(arm.Guard)
			if err != nil {
				return "", err
			}
			b.WriteString(" if " + guard)
		}
		body, err := t.expr(arm.Body)
		if err != nil {
			return "", err
		}
		b.WriteString(" => " + body + ",\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

func label(name string) string {
	if name == "" {
		return ""
	}
	return "'" + name + ": "
}

func (t *Transpiler) whileExpr(e *ast.WhileExpr) (string, error) {
	cond, err := t.expr(e.Cond)
	if err != nil {
		return "", err
	}
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%swhile %s %s", label(e.Label), cond, body), nil
}

func (t *Transpiler) whileLetExpr(e *ast.WhileLetExpr) (string, error) {
	pat, err := t.pattern(e.Pattern)
	if err != nil {
		return "", err
	}
	value, err := t.expr(e.Value)
	if err != nil {
		return "", err
	}
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%swhile let %s = %s %s", label(e.Label), pat, value, body), nil
}

func (t *Transpiler) forExpr(e *ast.ForExpr) (string, error) {
	pat, err := t.pattern(e.Pattern)
	if err != nil {
		return "", err
	}
	iter, err := t.expr(e.Iter)
	if err != nil {
		return "", err
	}
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%sfor %s in %s %s", label(e.Label), pat, iter, body), nil
}

func (t *Transpiler) loopExpr(e *ast.LoopExpr) (string, error) {
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%sloop %s", label(e.Label), body), nil
}

func (t *Transpiler) breakExpr(e *ast.BreakExpr) (string, error) {
	out := "break"
	if e.Label != "" {
		out += " '" + e.Label
	}
	if e.Value != nil {
		v, err := t.expr(e.Value)
		if err != nil {
			return "", err
		}
		out += " " + v
	}
	return out, nil
}

// tryCatchExpr lowers try/catch to an immediately invoked closure returning
// Result, matched at the call site. finally runs after the match so it covers
// both outcomes.
func (t *Transpiler) tryCatchExpr(e *ast.TryCatchExpr) (string, error) {
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "match (|| -> Result<_, Box<dyn std::error::Error>> { Ok(%s) })() {\n", body)
	t.indent++
	b.WriteString(t.pad())
	b.WriteString("Ok(__v) => __v,\n")
	for _, clause := range e.Catches {
		pat, err := t.pattern(clause.Pattern)
		if err != nil {
			return "", err
		}
		catchBody, err := t.blockBody(clause.Body)
		if err != nil {
			return "", err
		}
		b.WriteString(t.pad())
		fmt.Fprintf(&b, "Err(%s) => %s,\n", pat, catchBody)
	}
	if len(e.Catches) == 0 {
		b.WriteString(t.pad())
		b.WriteString("Err(__e) => panic!(\"{__e}\"),\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")

	if e.Finally == nil {
		return b.String(), nil
	}
	finally, err := t.blockBody(e.Finally)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("{ let __result = %s; %s; __result }", b.String(), finally), nil
}
