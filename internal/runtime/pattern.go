package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// LiteralValue evaluates a literal expression as used in pattern position.
func LiteralValue(expr ast.Expr) (Value, error) {
	switch lit := expr.(type) {
	case *ast.IntegerLit:
		n, err := ParseInteger(lit.Text)
		if err != nil {
			return nil, err
		}
		return Integer{Val: n}, nil
	case *ast.FloatLit:
		f, err := strconv.ParseFloat(strings.ReplaceAll(lit.Text, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q", lit.Text)
		}
		return Float{Val: f}, nil
	case *ast.StringLit:
		return Str{Val: lit.Value}, nil
	case *ast.CharLit:
		return Char{Val: lit.Value}, nil
	case *ast.ByteLit:
		return ByteVal{Val: lit.Value}, nil
	case *ast.BoolLit:
		return Bool{Val: lit.Value}, nil
	case *ast.AtomLit:
		return Atom{Name: lit.Name}, nil
	case *ast.NilLit:
		return Nil{}, nil
	case *ast.PrefixExpr:
		if lit.Op != lexer.MINUS {
			return nil, fmt.Errorf("unsupported literal pattern operator %s", lit.Op)
		}
		inner, err := LiteralValue(lit.Expr)
		if err != nil {
			return nil, err
		}
		switch n := inner.(type) {
		case Integer:
			return Integer{Val: -n.Val}, nil
		case Float:
			return Float{Val: -n.Val}, nil
		}
		return nil, fmt.Errorf("cannot negate %s literal", inner.Type())
	default:
		return nil, fmt.Errorf("unsupported literal pattern %T", expr)
	}
}

// ParseInteger parses an integer literal in any written base, ignoring `_`
// separators.
func ParseInteger(text string) (int64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(clean, "0x"), strings.HasPrefix(clean, "0X"):
		clean, base = clean[2:], 16
	case strings.HasPrefix(clean, "0o"), strings.HasPrefix(clean, "0O"):
		clean, base = clean[2:], 8
	case strings.HasPrefix(clean, "0b"), strings.HasPrefix(clean, "0B"):
		clean, base = clean[2:], 2
	}
	n, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q", text)
	}
	return n, nil
}

// Match tests a pattern against a value. On success it returns the bindings
// the pattern introduces, in pattern order.
func Match(pat ast.Pattern, v Value) (map[string]Value, bool, error) {
	bindings := make(map[string]Value)
	ok, err := matchInto(pat, v, bindings)
	if err != nil || !ok {
		return nil, false, err
	}
	return bindings, true, nil
}

func matchInto(pat ast.Pattern, v Value, bindings map[string]Value) (bool, error) {
	switch p := pat.(type) {
	case *ast.PatternWild:
		return true, nil

	case *ast.PatternIdent:
		bindings[p.Name.Name] = v
		return true, nil

	case *ast.PatternLiteral:
		want, err := LiteralValue(p.Expr)
		if err != nil {
			return false, err
		}
		return Equals(want, v), nil

	case *ast.PatternTuple:
		tup, ok := v.(*Tuple)
		if !ok || len(tup.Elems) != len(p.Elements) {
			return false, nil
		}
		for i, el := range p.Elements {
			ok, err := matchInto(el, tup.Elems[i], bindings)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil

	case *ast.PatternList:
		arr, ok := v.(*Array)
		if !ok {
			return false, nil
		}
		return matchList(p, arr, bindings)

	case *ast.PatternStruct:
		obj, ok := v.(*Object)
		if !ok {
			return false, nil
		}
		if len(p.Path) > 0 {
			want := p.Path[len(p.Path)-1].Name
			if obj.TypeName != "" && obj.TypeName != want {
				return false, nil
			}
		}
		for _, f := range p.Fields {
			field, exists := obj.Get(f.Name.Name)
			if !exists {
				return false, nil
			}
			if f.Shorthand || f.Pattern == nil {
				bindings[f.Name.Name] = field
				continue
			}
			ok, err := matchInto(f.Pattern, field, bindings)
			if err != nil || !ok {
				return ok, err
			}
		}
		if !p.HasRest && obj.Len() != len(p.Fields) {
			return false, nil
		}
		return true, nil

	case *ast.PatternEnum:
		return matchEnum(p, v, bindings)

	case *ast.PatternRange:
		return matchRange(p, v)

	case *ast.PatternOr:
		for _, alt := range p.Patterns {
			trial := make(map[string]Value)
			ok, err := matchInto(alt, v, trial)
			if err != nil {
				return false, err
			}
			if ok {
				for k, bound := range trial {
					bindings[k] = bound
				}
				return true, nil
			}
		}
		return false, nil

	case *ast.PatternRest:
		// Reached only when a rest pattern appears outside a list; the
		// enclosing list form consumes it directly.
		return false, fmt.Errorf("rest pattern is only valid inside a list pattern")

	default:
		return false, fmt.Errorf("unsupported pattern %T", pat)
	}
}

func matchList(p *ast.PatternList, arr *Array, bindings map[string]Value) (bool, error) {
	hasRest := false
	if n := len(p.Elements); n > 0 {
		_, hasRest = p.Elements[n-1].(*ast.PatternRest)
	}

	if hasRest {
		head := p.Elements[:len(p.Elements)-1]
		if len(arr.Elems) < len(head) {
			return false, nil
		}
		for i, el := range head {
			ok, err := matchInto(el, arr.Elems[i], bindings)
			if err != nil || !ok {
				return ok, err
			}
		}
		rest := p.Elements[len(p.Elements)-1].(*ast.PatternRest)
		if rest.Name != nil {
			bindings[rest.Name.Name] = NewArray(append([]Value(nil), arr.Elems[len(head):]...))
		}
		return true, nil
	}

	if len(arr.Elems) != len(p.Elements) {
		return false, nil
	}
	for i, el := range p.Elements {
		ok, err := matchInto(el, arr.Elems[i], bindings)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

func matchEnum(p *ast.PatternEnum, v Value, bindings map[string]Value) (bool, error) {
	variant := p.Path[len(p.Path)-1].Name

	ev, ok := v.(*EnumVariant)
	if !ok {
		return false, nil
	}
	if ev.Variant != variant {
		return false, nil
	}
	if len(p.Path) > 1 && ev.Enum != "" && ev.Enum != p.Path[len(p.Path)-2].Name {
		return false, nil
	}

	if p.Elements == nil {
		return len(ev.Payload) == 0, nil
	}
	if len(ev.Payload) != len(p.Elements) {
		return false, nil
	}
	for i, el := range p.Elements {
		ok, err := matchInto(el, ev.Payload[i], bindings)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

func matchRange(p *ast.PatternRange, v Value) (bool, error) {
	startVal, err := LiteralValue(p.Start)
	if err != nil {
		return false, err
	}
	endVal, err := LiteralValue(p.End)
	if err != nil {
		return false, err
	}

	switch val := v.(type) {
	case Integer:
		lo, ok1 := startVal.(Integer)
		hi, ok2 := endVal.(Integer)
		if !ok1 || !ok2 {
			return false, nil
		}
		if p.Inclusive {
			return val.Val >= lo.Val && val.Val <= hi.Val, nil
		}
		return val.Val >= lo.Val && val.Val < hi.Val, nil
	case Char:
		lo, ok1 := startVal.(Char)
		hi, ok2 := endVal.(Char)
		if !ok1 || !ok2 {
			return false, nil
		}
		if p.Inclusive {
			return val.Val >= lo.Val && val.Val <= hi.Val, nil
		}
		return val.Val >= lo.Val && val.Val < hi.Val, nil
	case Float:
		loF, okLo := toFloat(startVal)
		hiF, okHi := toFloat(endVal)
		if !okLo || !okHi {
			return false, nil
		}
		if p.Inclusive {
			return val.Val >= loF && val.Val <= hiF, nil
		}
		return val.Val >= loF && val.Val < hiF, nil
	}
	return false, nil
}

func toFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Integer:
		return float64(val.Val), true
	case Float:
		return val.Val, true
	}
	return 0, false
}

// PatternIsRefutable reports whether a pattern can fail to match. Bindings
// and wildcards are irrefutable; tuples are irrefutable when all their
// elements are.
func PatternIsRefutable(pat ast.Pattern) bool {
	switch p := pat.(type) {
	case *ast.PatternWild, *ast.PatternIdent:
		return false
	case *ast.PatternTuple:
		for _, el := range p.Elements {
			if PatternIsRefutable(el) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
