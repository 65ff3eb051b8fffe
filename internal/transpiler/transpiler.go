package transpiler

import (
	"fmt"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// TranspileError marks a construct with no defined Rust lowering.
type TranspileError struct {
	Message string
	Span    lexer.Span
}

func (e *TranspileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

// ToDiagnostic converts the error for the caret formatter.
func (e *TranspileError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageTranspile,
		Severity: diag.SeverityError,
		Code:     diag.CodeTranspileUnsupported,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

func unsupported(span lexer.Span, format string, args ...interface{}) error {
	return &TranspileError{Message: fmt.Sprintf(format, args...), Span: span}
}

// Transpiler translates the AST into Rust surface syntax. It is single-pass
// and does not typecheck: untyped parameters fall back to i64 and the output
// is meant to be reviewed, not blindly compiled.
type Transpiler struct {
	indent int
}

// New builds a transpiler.
func New() *Transpiler { return &Transpiler{} }

// Transpile renders a whole program. Item definitions stay at the top level;
// remaining statements are gathered into fn main().
func (t *Transpiler) Transpile(program *ast.Program) (string, error) {
	var items, mainBody []ast.Expr
	for _, expr := range program.Exprs {
		if isItem(expr) {
			items = append(items, expr)
		} else {
			mainBody = append(mainBody, expr)
		}
	}

	var b strings.Builder
	for _, item := range items {
		s, err := t.statement(item)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString("\n")
	}

	if len(mainBody) > 0 {
		b.WriteString("fn main() {\n")
		t.indent++
		for _, stmt := range mainBody {
			s, err := t.statement(stmt)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			b.WriteString("\n")
		}
		t.indent--
		b.WriteString("}\n")
	}
	return b.String(), nil
}

// TranspileExpr renders a single expression with no item/main separation.
func (t *Transpiler) TranspileExpr(expr ast.Expr) (string, error) {
	return t.expr(expr)
}

func isItem(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.FunExpr:
		return e.Name != nil
	case *ast.StructDef, *ast.EnumDef, *ast.TraitDef, *ast.ImplBlock,
		*ast.ClassDef, *ast.ActorDef, *ast.TypeAlias, *ast.ModuleDef,
		*ast.ConstExpr, *ast.ImportExpr:
		return true
	case *ast.ExportExpr:
		return e.Expr != nil && isItem(e.Expr)
	}
	return false
}

func (t *Transpiler) pad() string {
	return strings.Repeat("    ", t.indent)
}

// statement renders one statement at the current indent, carrying attached
// comments and a trailing semicolon where Rust wants one.
func (t *Transpiler) statement(expr ast.Expr) (string, error) {
	var b strings.Builder
	if c, ok := expr.(ast.Commented); ok {
		for _, lead := range c.LeadingComments() {
			b.WriteString(t.pad())
			b.WriteString(lead.Text)
			b.WriteString("\n")
		}
	}

	s, err := t.stmtBody(expr)
	if err != nil {
		return "", err
	}
	b.WriteString(t.pad())
	b.WriteString(s)
	if needsSemicolon(expr) {
		b.WriteString(";")
	}

	if c, ok := expr.(ast.Commented); ok {
		if trail := c.TrailingComment(); trail != nil {
			b.WriteString(" ")
			b.WriteString(trail.Text)
		}
	}
	return b.String(), nil
}

func (t *Transpiler) stmtBody(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.FunExpr:
		if e.Name != nil {
			return t.funItem(e)
		}
	case *ast.StructDef:
		return t.structItem(e)
	case *ast.EnumDef:
		return t.enumItem(e)
	case *ast.TraitDef:
		return t.traitItem(e)
	case *ast.ImplBlock:
		return t.implItem(e)
	case *ast.ClassDef:
		return t.classItem(e)
	case *ast.ActorDef:
		return t.actorItem(e)
	case *ast.TypeAlias:
		ty, err := t.typeExpr(e.Type)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("type %s = %s;", hygienic(e.Name.Name), ty), nil
	case *ast.ModuleDef:
		body, err := t.blockBody(e.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("mod %s %s", hygienic(e.Name.Name), body), nil
	case *ast.ImportExpr:
		return t.importItem(e), nil
	case *ast.ExportExpr:
		if e.Expr != nil {
			inner, err := t.stmtBody(e.Expr)
			if err != nil {
				return "", err
			}
			return "pub " + inner, nil
		}
		return "", nil
	case *ast.LetExpr:
		return t.letStmt(e)
	case *ast.ConstExpr:
		return t.constStmt(e)
	}
	return t.expr(expr)
}

func needsSemicolon(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.FunExpr:
		return e.Name == nil
	case *ast.StructDef, *ast.EnumDef, *ast.TraitDef, *ast.ImplBlock,
		*ast.ClassDef, *ast.ActorDef, *ast.ModuleDef, *ast.TypeAlias,
		*ast.ImportExpr, *ast.ExportExpr,
		*ast.IfExpr, *ast.IfLetExpr, *ast.MatchExpr, *ast.WhileExpr,
		*ast.WhileLetExpr, *ast.ForExpr, *ast.LoopExpr, *ast.BlockExpr,
		*ast.TryCatchExpr, *ast.UnsafeBlock:
		return false
	}
	return true
}

func (t *Transpiler) importItem(e *ast.ImportExpr) string {
	segments := make([]string, len(e.Path))
	for i, seg := range e.Path {
		segments[i] = hygienic(seg.Name)
	}
	path := strings.Join(segments, "::")

	switch {
	case e.All:
		return fmt.Sprintf("use %s::*;", path)
	case len(e.Items) > 0:
		names := make([]string, len(e.Items))
		for i, item := range e.Items {
			if item.Alias != nil {
				names[i] = fmt.Sprintf("%s as %s", hygienic(item.Name.Name), hygienic(item.Alias.Name))
			} else {
				names[i] = hygienic(item.Name.Name)
			}
		}
		return fmt.Sprintf("use %s::{%s};", path, strings.Join(names, ", "))
	case e.Alias != nil:
		return fmt.Sprintf("use %s as %s;", path, hygienic(e.Alias.Name))
	}
	return fmt.Sprintf("use %s;", path)
}

func (t *Transpiler) letStmt(e *ast.LetExpr) (string, error) {
	var b strings.Builder
	b.WriteString("let ")
	if e.Mutable {
		b.WriteString("mut ")
	}
	if e.Name != nil {
		b.WriteString(hygienic(e.Name.Name))
	} else {
		// Destructuring binds through a native Rust pattern.
		pat, err := t.pattern(e.Pattern)
		if err != nil {
			return "", err
		}
		b.WriteString(pat)
	}
	if e.Type != nil {
		ty, err := t.typeExpr(e.Type)
		if err != nil {
			return "", err
		}
		b.WriteString(": ")
		b.WriteString(ty)
	}
	if e.Value != nil {
		v, err := t.expr(e.Value)
		if err != nil {
			return "", err
		}
		b.WriteString(" = ")
		b.WriteString(v)
	}
	if e.Else != nil {
		body, err := t.blockBody(e.Else)
		if err != nil {
			return "", err
		}
		b.WriteString(" else ")
		b.WriteString(body)
	}
	return b.String(), nil
}

func (t *Transpiler) constStmt(e *ast.ConstExpr) (string, error) {
	v, err := t.expr(e.Value)
	if err != nil {
		return "", err
	}
	ty := "i64"
	if e.Type != nil {
		ty, err = t.typeExpr(e.Type)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("const %s: %s = %s", strings.ToUpper(e.Name.Name), ty, v), nil
}

// attributes renders decorators. Known names map to Rust attributes; unknown
// ones are preserved as comments.
func (t *Transpiler) attributes(attrs []*ast.Attribute) (string, error) {
	var b strings.Builder
	for _, a := range attrs {
		switch a.Name {
		case "inline":
			b.WriteString("#[inline]\n" + t.pad())
		case "test":
			b.WriteString("#[test]\n" + t.pad())
		case "cfg":
			args := make([]string, len(a.Args))
			for i, arg := range a.Args {
				s, err := t.expr(arg)
				if err != nil {
					return "", err
				}
				args[i] = s
			}
			b.WriteString(fmt.Sprintf("#[cfg(%s)]\n%s", strings.Join(args, ", "), t.pad()))
		case "derive":
			args := make([]string, len(a.Args))
			for i, arg := range a.Args {
				s, err := t.expr(arg)
				if err != nil {
					return "", err
				}
				args[i] = s
			}
			b.WriteString(fmt.Sprintf("#[derive(%s)]\n%s", strings.Join(args, ", "), t.pad()))
		default:
			b.WriteString(fmt.Sprintf("// @%s\n%s", a.Name, t.pad()))
		}
	}
	return b.String(), nil
}
