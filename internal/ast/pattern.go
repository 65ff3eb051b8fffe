package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// PatternWild represents the `_` wildcard.
type PatternWild struct {
	base
}

// NewPatternWild constructs a wildcard pattern.
func NewPatternWild(span lexer.Span) *PatternWild {
	return &PatternWild{base: at(span)}
}

func (*PatternWild) patternNode() {}

// PatternIdent represents an identifier binding.
type PatternIdent struct {
	base
	Name *Ident
}

// NewPatternIdent constructs an identifier pattern.
func NewPatternIdent(name *Ident, span lexer.Span) *PatternIdent {
	return &PatternIdent{base: at(span), Name: name}
}

func (*PatternIdent) patternNode() {}

// PatternLiteral represents literal patterns (numbers, strings, bools,
// chars, atoms, nil).
type PatternLiteral struct {
	base
	Expr Expr
}

// NewPatternLiteral constructs a literal pattern wrapping an expression literal.
func NewPatternLiteral(expr Expr, span lexer.Span) *PatternLiteral {
	return &PatternLiteral{base: at(span), Expr: expr}
}

func (*PatternLiteral) patternNode() {}

// PatternTuple represents tuple destructuring `(a, b)`.
type PatternTuple struct {
	base
	Elements []Pattern
}

// NewPatternTuple constructs a tuple pattern.
func NewPatternTuple(elements []Pattern, span lexer.Span) *PatternTuple {
	return &PatternTuple{base: at(span), Elements: elements}
}

func (*PatternTuple) patternNode() {}

// PatternList represents list patterns `[head, ...rest]`.
type PatternList struct {
	base
	Elements []Pattern
}

// NewPatternList constructs a list pattern.
func NewPatternList(elements []Pattern, span lexer.Span) *PatternList {
	return &PatternList{base: at(span), Elements: elements}
}

func (*PatternList) patternNode() {}

// PatternStructField is a single `name: pat` field of a struct pattern.
type PatternStructField struct {
	Name      *Ident
	Pattern   Pattern
	Shorthand bool
}

// PatternStruct represents `Type { field, .. }`.
type PatternStruct struct {
	base
	Path    []*Ident
	Fields  []*PatternStructField
	HasRest bool
}

func (*PatternStruct) patternNode() {}

// PatternEnum represents enum variant patterns: `Color::Red`, `Some(x)`,
// `Ok(v)`. A bare capitalized path with no payload also parses here.
type PatternEnum struct {
	base
	Path     []*Ident
	Elements []Pattern // nil for unit variants
}

// NewPatternEnum constructs an enum variant pattern.
func NewPatternEnum(path []*Ident, elements []Pattern, span lexer.Span) *PatternEnum {
	return &PatternEnum{base: at(span), Path: path, Elements: elements}
}

func (*PatternEnum) patternNode() {}

// PatternRange represents range patterns `a..b` / `a..=b`.
type PatternRange struct {
	base
	Start     Expr
	End       Expr
	Inclusive bool
}

func (*PatternRange) patternNode() {}

// PatternOr represents alternation `p1 | p2 | p3`.
type PatternOr struct {
	base
	Patterns []Pattern
}

// NewPatternOr constructs an alternation pattern.
func NewPatternOr(patterns []Pattern, span lexer.Span) *PatternOr {
	return &PatternOr{base: at(span), Patterns: patterns}
}

func (*PatternOr) patternNode() {}

// PatternRest represents the `...` rest marker, optionally binding a name.
type PatternRest struct {
	base
	Name *Ident // nil for an anonymous rest
}

func (*PatternRest) patternNode() {}

// Binders collects the identifiers a pattern binds, in source order.
func Binders(p Pattern) []*Ident {
	var out []*Ident
	collectBinders(p, &out)
	return out
}

func collectBinders(p Pattern, out *[]*Ident) {
	switch pat := p.(type) {
	case *PatternIdent:
		*out = append(*out, pat.Name)
	case *PatternTuple:
		for _, el := range pat.Elements {
			collectBinders(el, out)
		}
	case *PatternList:
		for _, el := range pat.Elements {
			collectBinders(el, out)
		}
	case *PatternStruct:
		for _, f := range pat.Fields {
			if f.Pattern != nil {
				collectBinders(f.Pattern, out)
			} else if f.Name != nil {
				*out = append(*out, f.Name)
			}
		}
	case *PatternEnum:
		for _, el := range pat.Elements {
			collectBinders(el, out)
		}
	case *PatternOr:
		// All alternatives bind the same names; the first is representative.
		if len(pat.Patterns) > 0 {
			collectBinders(pat.Patterns[0], out)
		}
	case *PatternRest:
		if pat.Name != nil {
			*out = append(*out, pat.Name)
		}
	}
}
