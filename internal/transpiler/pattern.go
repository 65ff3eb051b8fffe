package transpiler

import (
	"fmt"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
)

func (t *Transpiler) pattern(p ast.Pattern) (string, error) {
	switch pat := p.(type) {
	case *ast.PatternWild:
		return "_", nil
	case *ast.PatternIdent:
		return hygienic(pat.Name.Name), nil
	case *ast.PatternLiteral:
		return t.expr(pat.Expr)
	case *ast.PatternTuple:
		elems, err := t.patternList(pat.Elements)
		if err != nil {
			return "", err
		}
		return "(" + elems + ")", nil
	case *ast.PatternList:
		parts := make([]string, len(pat.Elements))
		for i, el := range pat.Elements {
			if rest, ok := el.(*ast.PatternRest); ok {
				if rest.Name != nil {
					parts[i] = hygienic(rest.Name.Name) + " @ .."
				} else {
					parts[i] = ".."
				}
				continue
			}
			s, err := t.pattern(el)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ast.PatternStruct:
		return t.structPattern(pat)
	case *ast.PatternEnum:
		segments := make([]string, len(pat.Path))
		for i, s := range pat.Path {
			segments[i] = s.Name
		}
		path := strings.Join(segments, "::")
		if pat.Elements == nil {
			return path, nil
		}
		elems, err := t.patternList(pat.Elements)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", path, elems), nil
	case *ast.PatternRange:
		start, err := t.expr(pat.Start)
		if err != nil {
			return "", err
		}
		end, err := t.expr(pat.End)
		if err != nil {
			return "", err
		}
		if pat.Inclusive {
			return fmt.Sprintf("%s..=%s", start, end), nil
		}
		return fmt.Sprintf("%s..%s", start, end), nil
	case *ast.PatternOr:
		parts, err := t.patternList(pat.Patterns)
		if err != nil {
			return "", err
		}
		return strings.ReplaceAll(parts, ", ", " | "), nil
	case *ast.PatternRest:
		if pat.Name != nil {
			return hygienic(pat.Name.Name) + " @ ..", nil
		}
		return "..", nil
	}
	return "", unsupported(p.Span(), "cannot transpile pattern %T", p)
}

func (t *Transpiler) patternList(pats []ast.Pattern) (string, error) {
	parts := make([]string, len(pats))
	for i, p := range pats {
		s, err := t.pattern(p)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

func (t *Transpiler) structPattern(pat *ast.PatternStruct) (string, error) {
	segments := make([]string, len(pat.Path))
	for i, s := range pat.Path {
		segments[i] = s.Name
	}
	parts := make([]string, 0, len(pat.Fields)+1)
	for _, f := range pat.Fields {
		if f.Shorthand || f.Pattern == nil {
			parts = append(parts, hygienic(f.Name.Name))
			continue
		}
		inner, err := t.pattern(f.Pattern)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s: %s", hygienic(f.Name.Name), inner))
	}
	if pat.HasRest {
		parts = append(parts, "..")
	}
	return fmt.Sprintf("%s { %s }", strings.Join(segments, "::"), strings.Join(parts, ", ")), nil
}

// typeNames maps surface type names with no direct Rust spelling.
var typeNames = map[string]string{
	"int":   "i64",
	"float": "f64",
	"str":   "&str",
	"Any":   "Box<dyn std::any::Any>",
}

func (t *Transpiler) typeExpr(te ast.TypeExpr) (string, error) {
	switch ty := te.(type) {
	case *ast.NamedType:
		if mapped, ok := typeNames[ty.Name.Name]; ok {
			return mapped, nil
		}
		return ty.Name.Name, nil
	case *ast.GenericType:
		baseType, err := t.typeExpr(ty.Base)
		if err != nil {
			return "", err
		}
		params := make([]string, len(ty.Params))
		for i, p := range ty.Params {
			params[i], err = t.typeExpr(p)
			if err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%s<%s>", baseType, strings.Join(params, ", ")), nil
	case *ast.FunctionType:
		params := make([]string, len(ty.Params))
		var err error
		for i, p := range ty.Params {
			params[i], err = t.typeExpr(p)
			if err != nil {
				return "", err
			}
		}
		out := fmt.Sprintf("impl Fn(%s)", strings.Join(params, ", "))
		if ty.Return != nil {
			ret, err := t.typeExpr(ty.Return)
			if err != nil {
				return "", err
			}
			out += " -> " + ret
		}
		return out, nil
	case *ast.TupleType:
		elems := make([]string, len(ty.Elements))
		var err error
		for i, el := range ty.Elements {
			elems[i], err = t.typeExpr(el)
			if err != nil {
				return "", err
			}
		}
		return "(" + strings.Join(elems, ", ") + ")", nil
	case *ast.ArrayType:
		elem, err := t.typeExpr(ty.Elem)
		if err != nil {
			return "", err
		}
		if ty.Len != nil {
			n, err := t.expr(ty.Len)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("[%s; %s]", elem, n), nil
		}
		return fmt.Sprintf("Vec<%s>", elem), nil
	case *ast.RefType:
		elem, err := t.typeExpr(ty.Elem)
		if err != nil {
			return "", err
		}
		if ty.Mutable {
			return "&mut " + elem, nil
		}
		return "&" + elem, nil
	}
	return "", unsupported(te.Span(), "cannot transpile type %T", te)
}
