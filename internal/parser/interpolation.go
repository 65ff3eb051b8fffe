package parser

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// parseInterpLiteral re-scans the body of an f"..." literal. The lexer has
// already decoded escapes outside braces and left `{...}` segments verbatim;
// each segment's expression is parsed with a nested parser.
func (p *Parser) parseInterpLiteral() ast.Expr {
	span := p.curTok.Span
	body := []rune(p.curTok.Value)

	var parts []ast.InterpPart
	var text []rune

	flush := func() {
		if len(text) > 0 {
			parts = append(parts, ast.InterpPart{Text: string(text)})
			text = nil
		}
	}

	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '{' && i+1 < len(body) && body[i+1] == '{':
			text = append(text, '{')
			i++
		case ch == '}' && i+1 < len(body) && body[i+1] == '}':
			text = append(text, '}')
			i++
		case ch == '{':
			end := matchingBrace(body, i)
			if end < 0 {
				p.reportError("unterminated interpolation segment", span)
				return nil
			}
			inner := body[i+1 : end]
			exprText, format := splitFormatSpec(inner)
			if len(exprText) == 0 {
				p.reportError("empty interpolation expression", span)
				return nil
			}

			expr := p.parseNestedExpr(string(exprText), span)
			if expr == nil {
				return nil
			}

			flush()
			parts = append(parts, ast.InterpPart{Expr: expr, Format: format})
			i = end
		default:
			text = append(text, ch)
		}
	}
	flush()

	return ast.NewInterpLit(parts, span)
}

// matchingBrace returns the index of the brace closing the one at open, or
// -1 when unbalanced.
func matchingBrace(body []rune, open int) int {
	depth := 0
	for i := open; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitFormatSpec splits `expr:spec` at the first top-level colon. Colons
// inside nested delimiters and the `::` path separator are not split points.
func splitFormatSpec(inner []rune) (expr []rune, format string) {
	depth := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth != 0 {
				continue
			}
			if i+1 < len(inner) && inner[i+1] == ':' {
				i++
				continue
			}
			if i > 0 && inner[i-1] == ':' {
				continue
			}
			return inner[:i], string(inner[i+1:])
		}
	}
	return inner, ""
}

// parseNestedExpr parses an embedded expression with a fresh parser and
// folds any errors into the host parser at the literal's span.
func (p *Parser) parseNestedExpr(src string, span lexer.Span) ast.Expr {
	sub := New(src)
	expr := sub.parseExpr()

	for _, err := range sub.Errors() {
		err.Span = p.spanWithFilename(span)
		p.errors = append(p.errors, err)
	}
	if expr == nil {
		return nil
	}
	if sub.peekTok.Type != lexer.EOF {
		p.reportError("unexpected trailing tokens in interpolation expression", span)
	}

	return expr
}
