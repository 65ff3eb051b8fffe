package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
)

// dumpNode is the display form of an AST node, shared by the text and JSON
// renderings of `ruchy ast`.
type dumpNode struct {
	Kind     string      `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Children []*dumpNode `json:"children,omitempty"`
}

func node(kind, text string, children ...*dumpNode) *dumpNode {
	kids := make([]*dumpNode, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	return &dumpNode{Kind: kind, Text: text, Children: kids}
}

func printDump(w io.Writer, n *dumpNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Text != "" {
		fmt.Fprintf(w, "%s%s %s\n", indent, n.Kind, n.Text)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
	}
	for _, c := range n.Children {
		printDump(w, c, depth+1)
	}
}

func dumpExprs(kind string, exprs []ast.Expr) *dumpNode {
	kids := make([]*dumpNode, len(exprs))
	for i, e := range exprs {
		kids[i] = dumpExpr(e)
	}
	return node(kind, "", kids...)
}

func dumpExpr(expr ast.Expr) *dumpNode {
	switch e := expr.(type) {
	case *ast.Ident:
		return node("Ident", e.Name)
	case *ast.QualifiedName:
		names := make([]string, len(e.Segments))
		for i, s := range e.Segments {
			names[i] = s.Name
		}
		return node("Path", strings.Join(names, "::"))
	case *ast.IntegerLit:
		return node("Int", e.Text+e.Suffix)
	case *ast.FloatLit:
		return node("Float", e.Text+e.Suffix)
	case *ast.StringLit:
		return node("String", fmt.Sprintf("%q", e.Value))
	case *ast.InterpLit:
		var kids []*dumpNode
		for _, part := range e.Parts {
			if part.Expr != nil {
				kids = append(kids, dumpExpr(part.Expr))
			}
		}
		return node("Interp", "", kids...)
	case *ast.CharLit:
		return node("Char", string(e.Value))
	case *ast.ByteLit:
		return node("Byte", fmt.Sprintf("0x%02x", e.Value))
	case *ast.BoolLit:
		return node("Bool", fmt.Sprintf("%v", e.Value))
	case *ast.UnitLit:
		return node("Unit", "")
	case *ast.NilLit:
		return node("Nil", "")
	case *ast.AtomLit:
		return node("Atom", ":"+e.Name)
	case *ast.ListLit:
		return dumpExprs("List", e.Elements)
	case *ast.TupleLit:
		return dumpExprs("Tuple", e.Elements)
	case *ast.SetLit:
		return dumpExprs("Set", e.Elements)
	case *ast.ObjectLit:
		kids := make([]*dumpNode, len(e.Fields))
		for i, f := range e.Fields {
			kids[i] = node("Field", f.Name.Name, dumpExpr(f.Value))
		}
		return node("Object", "", kids...)
	case *ast.DictLit:
		kids := make([]*dumpNode, len(e.Entries))
		for i, entry := range e.Entries {
			kids[i] = node("Entry", "", dumpExpr(entry.Key), dumpExpr(entry.Value))
		}
		return node("Dict", "", kids...)
	case *ast.StructLit:
		kids := []*dumpNode{dumpExpr(e.Name)}
		for _, f := range e.Fields {
			if f.Shorthand {
				kids = append(kids, node("Field", f.Name.Name))
				continue
			}
			kids = append(kids, node("Field", f.Name.Name, dumpExpr(f.Value)))
		}
		if e.Base != nil {
			kids = append(kids, node("Spread", "", dumpExpr(e.Base)))
		}
		return node("StructLit", "", kids...)
	case *ast.ListComp:
		return node("ListComp", "", dumpExpr(e.Element), dumpPattern(e.Var),
			dumpExpr(e.Iter), maybeExpr(e.Filter))
	case *ast.ArrayRepeat:
		return node("Repeat", "", dumpExpr(e.Value), dumpExpr(e.Count))
	case *ast.RangeLit:
		op := ".."
		if e.Inclusive {
			op = "..="
		}
		return node("Range", op, dumpExpr(e.Start), dumpExpr(e.End))
	case *ast.CommandLit:
		return node("Command", fmt.Sprintf("%q", e.Text))
	case *ast.DataFrameLit:
		kids := make([]*dumpNode, len(e.Columns))
		for i, col := range e.Columns {
			kids[i] = dumpExprs("Column "+col.Name, col.Values)
		}
		return node("DataFrame", "", kids...)
	case *ast.MacroExpr:
		return dumpExprs("Macro "+e.Name+"!", e.Args)
	case *ast.SpreadExpr:
		return node("Spread", "", dumpExpr(e.Expr))

	case *ast.PrefixExpr:
		return node("Prefix", string(e.Op), dumpExpr(e.Expr))
	case *ast.InfixExpr:
		return node("Infix", string(e.Op), dumpExpr(e.Left), dumpExpr(e.Right))
	case *ast.TernaryExpr:
		return node("Ternary", "", dumpExpr(e.Cond), dumpExpr(e.Then), dumpExpr(e.Else))
	case *ast.AssignExpr:
		return node("Assign", "", dumpExpr(e.Target), dumpExpr(e.Value))
	case *ast.CompoundAssignExpr:
		return node("Assign", string(e.Op)+"=", dumpExpr(e.Target), dumpExpr(e.Value))
	case *ast.IncDecExpr:
		pos := "postfix"
		if e.Prefix {
			pos = "prefix"
		}
		return node("IncDec", string(e.Op)+" "+pos, dumpExpr(e.Target))
	case *ast.CallExpr:
		kids := append([]*dumpNode{dumpExpr(e.Callee)}, dumpExprs("Args", e.Args))
		return node("Call", "", kids...)
	case *ast.MethodCallExpr:
		return node("MethodCall", e.Method.Name, dumpExpr(e.Receiver), dumpExprs("Args", e.Args))
	case *ast.FieldExpr:
		kind := "Field"
		if e.Optional {
			kind = "OptField"
		}
		return node(kind, e.Field.Name, dumpExpr(e.Target))
	case *ast.IndexExpr:
		kind := "Index"
		if e.Optional {
			kind = "OptIndex"
		}
		return node(kind, "", dumpExpr(e.Target), dumpExpr(e.Index))
	case *ast.SliceExpr:
		return node("Slice", "", dumpExpr(e.Target), maybeExpr(e.Start), maybeExpr(e.End))
	case *ast.QuestionExpr:
		return node("Try", "", dumpExpr(e.Expr))
	case *ast.ThrowExpr:
		return node("Throw", "", dumpExpr(e.Value))
	case *ast.AwaitExpr:
		return node("Await", "", dumpExpr(e.Expr))
	case *ast.AsyncBlock:
		return node("Async", "", dumpBlock(e.Body))
	case *ast.UnsafeBlock:
		return node("Unsafe", "", dumpBlock(e.Body))
	case *ast.SpawnExpr:
		return node("Spawn", "", dumpExpr(e.Expr))
	case *ast.SendExpr:
		return node("Send", "", dumpExpr(e.Actor), dumpExpr(e.Msg))
	case *ast.AskExpr:
		return node("Ask", "", dumpExpr(e.Actor), dumpExpr(e.Msg), maybeExpr(e.Timeout))
	case *ast.LazyExpr:
		return node("Lazy", "", dumpExpr(e.Expr))
	case *ast.LambdaExpr:
		return node("Lambda", paramNames(e.Params), dumpExpr(e.Body))
	case *ast.BlockExpr:
		return dumpBlock(e)

	case *ast.IfExpr:
		return node("If", "", dumpExpr(e.Cond), dumpBlock(e.Then), maybeExpr(e.Else))
	case *ast.IfLetExpr:
		return node("IfLet", "", dumpPattern(e.Pattern), dumpExpr(e.Value),
			dumpBlock(e.Then), maybeExpr(e.Else))
	case *ast.MatchExpr:
		kids := []*dumpNode{dumpExpr(e.Subject)}
		for _, arm := range e.Arms {
			kids = append(kids, node("Arm", "", dumpPattern(arm.Pattern),
				maybeExpr(arm.Guard), dumpExpr(arm.Body)))
		}
		return node("Match", "", kids...)
	case *ast.WhileExpr:
		return node("While", e.Label, dumpExpr(e.Cond), dumpBlock(e.Body))
	case *ast.WhileLetExpr:
		return node("WhileLet", e.Label, dumpPattern(e.Pattern), dumpExpr(e.Value), dumpBlock(e.Body))
	case *ast.ForExpr:
		return node("For", e.Label, dumpPattern(e.Pattern), dumpExpr(e.Iter), dumpBlock(e.Body))
	case *ast.LoopExpr:
		return node("Loop", e.Label, dumpBlock(e.Body))
	case *ast.BreakExpr:
		return node("Break", e.Label, maybeExpr(e.Value))
	case *ast.ContinueExpr:
		return node("Continue", e.Label)
	case *ast.ReturnExpr:
		return node("Return", "", maybeExpr(e.Value))
	case *ast.TryCatchExpr:
		kids := []*dumpNode{dumpBlock(e.Body)}
		for _, c := range e.Catches {
			kids = append(kids, node("Catch", "", dumpPattern(c.Pattern), dumpBlock(c.Body)))
		}
		if e.Finally != nil {
			kids = append(kids, node("Finally", "", dumpBlock(e.Finally)))
		}
		return node("TryCatch", "", kids...)

	case *ast.LetExpr:
		name := ""
		if e.Name != nil {
			name = e.Name.Name
		}
		if e.Mutable {
			name = "mut " + name
		}
		var pat *dumpNode
		if e.Pattern != nil {
			pat = dumpPattern(e.Pattern)
		}
		return node("Let", strings.TrimSpace(name), pat, maybeExpr(e.Value))
	case *ast.ConstExpr:
		return node("Const", e.Name.Name, dumpExpr(e.Value))
	case *ast.FunExpr:
		name := "<anon>"
		if e.Name != nil {
			name = e.Name.Name
		}
		return node("Fun", name+"("+paramNames(e.Params)+")", dumpBlock(e.Body))
	case *ast.StructDef:
		return node("Struct", e.Name.Name)
	case *ast.EnumDef:
		names := make([]string, len(e.Variants))
		for i, v := range e.Variants {
			names[i] = v.Name.Name
		}
		return node("Enum", e.Name.Name+" { "+strings.Join(names, ", ")+" }")
	case *ast.TraitDef:
		return node("Trait", e.Name.Name)
	case *ast.ImplBlock:
		label := e.Type.Name
		if e.Trait != nil {
			label = e.Trait.Name + " for " + e.Type.Name
		}
		kids := make([]*dumpNode, len(e.Methods))
		for i, m := range e.Methods {
			kids[i] = dumpExpr(m)
		}
		return node("Impl", label, kids...)
	case *ast.ClassDef:
		kids := make([]*dumpNode, len(e.Methods))
		for i, m := range e.Methods {
			kids[i] = dumpExpr(m)
		}
		return node("Class", e.Name.Name, kids...)
	case *ast.ActorDef:
		kids := make([]*dumpNode, len(e.Handlers))
		for i, h := range e.Handlers {
			kids[i] = node("Handler", h.Message.Name+"("+paramNames(h.Params)+")", dumpBlock(h.Body))
		}
		return node("Actor", e.Name.Name, kids...)
	case *ast.TypeAlias:
		return node("TypeAlias", e.Name.Name)
	case *ast.ModuleDef:
		return node("Module", e.Name.Name, dumpBlock(e.Body))
	case *ast.ImportExpr:
		names := make([]string, len(e.Path))
		for i, s := range e.Path {
			names[i] = s.Name
		}
		return node("Import", strings.Join(names, "::"))
	case *ast.ExportExpr:
		return node("Export", "", maybeExpr(e.Expr))
	}
	return node(fmt.Sprintf("%T", expr), "")
}

func maybeExpr(e ast.Expr) *dumpNode {
	if e == nil {
		return nil
	}
	return dumpExpr(e)
}

func dumpBlock(b *ast.BlockExpr) *dumpNode {
	if b == nil {
		return nil
	}
	return dumpExprs("Block", b.Exprs)
}

func paramNames(params []*ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name.Name
		if p.Rest {
			names[i] = "..." + names[i]
		}
	}
	return strings.Join(names, ", ")
}

func dumpPattern(p ast.Pattern) *dumpNode {
	switch pat := p.(type) {
	case *ast.PatternWild:
		return node("PatWild", "_")
	case *ast.PatternIdent:
		return node("PatBind", pat.Name.Name)
	case *ast.PatternLiteral:
		return node("PatLit", "", dumpExpr(pat.Expr))
	case *ast.PatternTuple:
		return node("PatTuple", "", dumpPatterns(pat.Elements)...)
	case *ast.PatternList:
		return node("PatList", "", dumpPatterns(pat.Elements)...)
	case *ast.PatternStruct:
		names := make([]string, len(pat.Path))
		for i, s := range pat.Path {
			names[i] = s.Name
		}
		return node("PatStruct", strings.Join(names, "::"))
	case *ast.PatternEnum:
		names := make([]string, len(pat.Path))
		for i, s := range pat.Path {
			names[i] = s.Name
		}
		return node("PatEnum", strings.Join(names, "::"), dumpPatterns(pat.Elements)...)
	case *ast.PatternRange:
		op := ".."
		if pat.Inclusive {
			op = "..="
		}
		return node("PatRange", op, dumpExpr(pat.Start), dumpExpr(pat.End))
	case *ast.PatternOr:
		return node("PatOr", "", dumpPatterns(pat.Patterns)...)
	case *ast.PatternRest:
		if pat.Name != nil {
			return node("PatRest", pat.Name.Name)
		}
		return node("PatRest", "")
	}
	return node(fmt.Sprintf("%T", p), "")
}

func dumpPatterns(pats []ast.Pattern) []*dumpNode {
	out := make([]*dumpNode, len(pats))
	for i, p := range pats {
		out[i] = dumpPattern(p)
	}
	return out
}
