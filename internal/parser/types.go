package parser

import (
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// parseTypeExpr parses a type annotation. curTok must be on the first token
// of the type; on return curTok is on its last token.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.curTok.Type {
	case lexer.IDENT:
		return p.parseNamedOrGenericType()
	case lexer.LPAREN:
		return p.parseTupleType()
	case lexer.LBRACKET:
		return p.parseArrayType()
	case lexer.AMPERSAND:
		return p.parseRefType()
	case lexer.FUN:
		return p.parseFunctionType()
	default:
		p.reportExpected("type", p.curTok)
		return nil
	}
}

func (p *Parser) parseNamedOrGenericType() ast.TypeExpr {
	start := p.curTok.Span

	segments := []string{p.curTok.Raw}
	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		segments = append(segments, p.curTok.Raw)
	}

	name := ast.NewIdent(strings.Join(segments, "::"), mergeSpan(start, p.curTok.Span))
	named := ast.NewNamedType(name, name.Span())

	if p.peekTok.Type != lexer.LT {
		return named
	}
	p.nextToken()

	params, ok := p.parseTypeArgListBody()
	if !ok {
		return nil
	}

	return ast.NewGenericType(named, params, mergeSpan(start, p.curTok.Span))
}

// parseTypeArgList parses `<T, U>` with curTok on the '<'.
func (p *Parser) parseTypeArgList() ([]ast.TypeExpr, bool) {
	return p.parseTypeArgListBody()
}

// parseTypeArgListBody parses the comma-separated types after '<' and
// consumes the closing '>'. A `>>` left by nested generics is split in the
// lookahead window so the outer list can close on the remaining '>'.
func (p *Parser) parseTypeArgListBody() ([]ast.TypeExpr, bool) {
	var params []ast.TypeExpr

	for {
		p.nextToken()
		t := p.parseTypeExpr()
		if t == nil {
			return nil, false
		}
		params = append(params, t)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
		case lexer.GT:
			p.nextToken()
			return params, true
		case lexer.SHR:
			p.splitShiftRight()
			return params, true
		default:
			p.reportExpected("',' or '>'", p.peekTok)
			return nil, false
		}
	}
}

// splitShiftRight rewrites a `>>` in the lookahead into a single `>` so the
// enclosing generic argument list can consume it.
func (p *Parser) splitShiftRight() {
	p.peekTok.Type = lexer.GT
	p.peekTok.Raw = ">"
	p.peekTok.Span.Start++
	p.peekTok.Span.Column++
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		t := &ast.TupleType{}
		t.SetSpan(mergeSpan(start, p.curTok.Span))
		return t
	}

	p.nextToken()
	res, ok := parseDelimited[ast.TypeExpr](p, delimitedConfig{
		Closing:             lexer.RPAREN,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected type after ','",
		MissingSeparatorMsg: "expected ',' or ')' in tuple type",
	}, func(int) (ast.TypeExpr, bool) {
		t := p.parseTypeExpr()
		if t == nil {
			return nil, false
		}
		return t, true
	})
	if !ok {
		return nil
	}

	if len(res.Items) == 1 {
		return res.Items[0]
	}

	t := &ast.TupleType{Elements: res.Items}
	t.SetSpan(mergeSpan(start, p.curTok.Span))
	return t
}

func (p *Parser) parseArrayType() ast.TypeExpr {
	start := p.curTok.Span

	p.nextToken()
	elem := p.parseTypeExpr()
	if elem == nil {
		return nil
	}

	t := &ast.ArrayType{Elem: elem}

	if p.peekTok.Type == lexer.SEMICOLON {
		p.nextToken()
		p.nextToken()
		count := p.parseExpr()
		if count == nil {
			return nil
		}
		t.Len = count
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	t.SetSpan(mergeSpan(start, p.curTok.Span))
	return t
}

func (p *Parser) parseRefType() ast.TypeExpr {
	start := p.curTok.Span

	t := &ast.RefType{}
	if p.peekTok.Type == lexer.MUT {
		p.nextToken()
		t.Mutable = true
	}

	p.nextToken()
	elem := p.parseTypeExpr()
	if elem == nil {
		return nil
	}
	t.Elem = elem
	t.SetSpan(mergeSpan(start, elem.Span()))
	return t
}

func (p *Parser) parseFunctionType() ast.TypeExpr {
	start := p.curTok.Span

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	var params []ast.TypeExpr
	if p.peekTok.Type != lexer.RPAREN {
		p.nextToken()
		res, ok := parseDelimited[ast.TypeExpr](p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected type after ','",
			MissingSeparatorMsg: "expected ',' or ')' in function type",
		}, func(int) (ast.TypeExpr, bool) {
			t := p.parseTypeExpr()
			if t == nil {
				return nil, false
			}
			return t, true
		})
		if !ok {
			return nil
		}
		params = res.Items
	} else {
		p.nextToken()
	}

	var ret ast.TypeExpr
	if p.peekTok.Type == lexer.ARROW {
		p.nextToken()
		p.nextToken()
		ret = p.parseTypeExpr()
		if ret == nil {
			return nil
		}
	}

	span := mergeSpan(start, p.curTok.Span)
	if ret != nil {
		span = mergeSpan(start, ret.Span())
	}
	return ast.NewFunctionType(params, ret, span)
}
