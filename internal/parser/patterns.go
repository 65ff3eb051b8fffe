package parser

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// parsePattern parses a match pattern, including `p1 | p2` alternation.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePatternPrimary()
	if first == nil {
		return nil
	}

	if p.peekTok.Type != lexer.PIPE {
		return first
	}

	patterns := []ast.Pattern{first}
	for p.peekTok.Type == lexer.PIPE {
		p.nextToken()
		p.nextToken()
		alt := p.parsePatternPrimary()
		if alt == nil {
			return nil
		}
		patterns = append(patterns, alt)
	}

	span := mergeSpan(first.Span(), patterns[len(patterns)-1].Span())
	return ast.NewPatternOr(patterns, span)
}

func (p *Parser) parsePatternPrimary() ast.Pattern {
	switch p.curTok.Type {
	case lexer.IDENT:
		return p.parseIdentOrPathPattern()
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR, lexer.BYTE,
		lexer.ATOM, lexer.TRUE, lexer.FALSE, lexer.NIL, lexer.MINUS:
		return p.parseLiteralPattern()
	case lexer.LPAREN:
		return p.parseTuplePattern()
	case lexer.LBRACKET:
		return p.parseListPattern()
	case lexer.ELLIPSIS:
		return p.parseRestPattern()
	default:
		p.reportErrorCode(diag.CodeParseInvalidPattern,
			"expected pattern, found '"+p.curTok.Raw+"'", p.curTok.Span)
		return nil
	}
}

// parseIdentOrPathPattern handles `_`, plain bindings, and variant paths
// with optional payloads: `Some(x)`, `Color::Red`, `Point { x, y }`.
func (p *Parser) parseIdentOrPathPattern() ast.Pattern {
	start := p.curTok.Span

	if p.curTok.Raw == "_" {
		return ast.NewPatternWild(start)
	}

	path := []*ast.Ident{ast.NewIdent(p.curTok.Raw, p.curTok.Span)}
	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		path = append(path, ast.NewIdent(p.curTok.Raw, p.curTok.Span))
	}

	switch {
	case p.peekTok.Type == lexer.LPAREN && p.peekContinuesExpr():
		p.nextToken()
		p.nextToken()
		res, ok := parseDelimited[ast.Pattern](p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected pattern after ','",
			MissingSeparatorMsg: "expected ',' or ')' in variant pattern",
		}, func(int) (ast.Pattern, bool) {
			el := p.parsePattern()
			if el == nil {
				return nil, false
			}
			return el, true
		})
		if !ok {
			return nil
		}
		elements := res.Items
		if elements == nil {
			elements = []ast.Pattern{}
		}
		return ast.NewPatternEnum(path, elements, mergeSpan(start, p.curTok.Span))

	case p.peekTok.Type == lexer.LBRACE && !p.noStruct && startsUpper(path[len(path)-1].Name):
		p.nextToken()
		return p.parseStructPattern(path, start)
	}

	if len(path) > 1 || startsUpper(path[0].Name) {
		return ast.NewPatternEnum(path, nil, mergeSpan(start, p.curTok.Span))
	}

	name := path[0]
	pat := ast.NewPatternIdent(name, name.Span())

	// A lone binding followed by `..` is a range pattern over its value.
	if p.peekTok.Type == lexer.RANGE || p.peekTok.Type == lexer.RANGE_EQ {
		return p.parseRangeTail(name, pat.Span())
	}
	return pat
}

// parseStructPattern finishes `Path { field, field: pat, .. }`. curTok is
// the opening brace.
func (p *Parser) parseStructPattern(path []*ast.Ident, start lexer.Span) ast.Pattern {
	pat := &ast.PatternStruct{Path: path}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}

		if p.curTok.Type == lexer.RANGE {
			pat.HasRest = true
			if !p.expect(lexer.RBRACE) {
				return nil
			}
			break
		}

		if p.curTok.Type != lexer.IDENT {
			p.reportExpected("field name", p.curTok)
			return nil
		}
		field := &ast.PatternStructField{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

		if p.peekTok.Type == lexer.COLON {
			p.nextToken()
			p.nextToken()
			sub := p.parsePattern()
			if sub == nil {
				return nil
			}
			field.Pattern = sub
		} else {
			field.Shorthand = true
		}
		pat.Fields = append(pat.Fields, field)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
			p.nextToken()
		case lexer.RBRACE:
			p.nextToken()
		default:
			p.reportExpected("',' or '}'", p.peekTok)
			return nil
		}
	}

	pat.SetSpan(mergeSpan(start, p.curTok.Span))
	return pat
}

// parseLiteralPattern handles literal patterns and ranges over literals.
func (p *Parser) parseLiteralPattern() ast.Pattern {
	start := p.curTok.Span

	lit := p.parsePatternLiteralExpr()
	if lit == nil {
		return nil
	}

	if p.peekTok.Type == lexer.RANGE || p.peekTok.Type == lexer.RANGE_EQ {
		return p.parseRangeTail(lit, start)
	}

	return ast.NewPatternLiteral(lit, mergeSpan(start, lit.Span()))
}

// parsePatternLiteralExpr parses the expression form of a literal pattern,
// including a leading minus for negative numbers.
func (p *Parser) parsePatternLiteralExpr() ast.Expr {
	switch p.curTok.Type {
	case lexer.MINUS:
		start := p.curTok.Span
		p.nextToken()
		if p.curTok.Type != lexer.INT && p.curTok.Type != lexer.FLOAT {
			p.reportErrorCode(diag.CodeParseInvalidPattern,
				"expected numeric literal after '-' in pattern", p.curTok.Span)
			return nil
		}
		inner := p.parsePatternLiteralExpr()
		if inner == nil {
			return nil
		}
		return ast.NewPrefixExpr(lexer.MINUS, inner, mergeSpan(start, inner.Span()))
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.CHAR:
		return p.parseCharLiteral()
	case lexer.BYTE:
		return p.parseByteLiteral()
	case lexer.ATOM:
		return p.parseAtomLiteral()
	case lexer.TRUE, lexer.FALSE:
		return p.parseBoolLiteral()
	case lexer.NIL:
		return p.parseNilLiteral()
	default:
		p.reportErrorCode(diag.CodeParseInvalidPattern,
			"expected literal pattern", p.curTok.Span)
		return nil
	}
}

// parseRangeTail finishes `start..end` / `start..=end` in pattern position.
// peekTok is the range operator.
func (p *Parser) parseRangeTail(startExpr ast.Expr, start lexer.Span) ast.Pattern {
	p.nextToken()
	inclusive := p.curTok.Type == lexer.RANGE_EQ

	p.nextToken()
	end := p.parsePatternLiteralExpr()
	if end == nil {
		return nil
	}

	pat := &ast.PatternRange{Start: startExpr, End: end, Inclusive: inclusive}
	pat.SetSpan(mergeSpan(start, end.Span()))
	return pat
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return ast.NewPatternTuple(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	res, ok := parseDelimited[ast.Pattern](p, delimitedConfig{
		Closing:             lexer.RPAREN,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected pattern after ','",
		MissingSeparatorMsg: "expected ',' or ')' in tuple pattern",
	}, func(int) (ast.Pattern, bool) {
		el := p.parsePattern()
		if el == nil {
			return nil, false
		}
		return el, true
	})
	if !ok {
		return nil
	}

	// `(pat)` is grouping, not a one-element tuple.
	if len(res.Items) == 1 {
		return res.Items[0]
	}
	return ast.NewPatternTuple(res.Items, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseListPattern() ast.Pattern {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACKET {
		p.nextToken()
		return ast.NewPatternList(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	res, ok := parseDelimited[ast.Pattern](p, delimitedConfig{
		Closing:             lexer.RBRACKET,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected pattern after ','",
		MissingSeparatorMsg: "expected ',' or ']' in list pattern",
	}, func(int) (ast.Pattern, bool) {
		el := p.parsePattern()
		if el == nil {
			return nil, false
		}
		return el, true
	})
	if !ok {
		return nil
	}

	for i, el := range res.Items {
		if _, isRest := el.(*ast.PatternRest); isRest && i != len(res.Items)-1 {
			p.reportErrorCode(diag.CodeParseInvalidPattern,
				"rest pattern must be the last element", el.Span())
			return nil
		}
	}

	return ast.NewPatternList(res.Items, mergeSpan(start, p.curTok.Span))
}

// parseRestPattern handles `...` and `...name` inside list patterns.
func (p *Parser) parseRestPattern() ast.Pattern {
	start := p.curTok.Span

	pat := &ast.PatternRest{}
	if p.peekTok.Type == lexer.IDENT && p.peekTok.Span.Start == p.curTok.Span.End {
		p.nextToken()
		pat.Name = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
	}
	pat.SetSpan(mergeSpan(start, p.curTok.Span))
	return pat
}

// checkPatternBinders reports an error when one pattern binds the same name
// twice, as in `let (a, a) = pair`.
func (p *Parser) checkPatternBinders(pat ast.Pattern) {
	seen := make(map[string]bool)
	for _, b := range ast.Binders(pat) {
		if seen[b.Name] {
			p.reportErrorCode(diag.CodeParseDuplicateBinding,
				"pattern binds '"+b.Name+"' more than once", b.Span())
		}
		seen[b.Name] = true
	}
}
