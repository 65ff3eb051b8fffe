package parser

import (
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

func (p *Parser) parseIdentifier() ast.Expr {
	return ast.NewIdent(p.curTok.Raw, p.curTok.Span)
}

var numericSuffixes = []string{
	"i128", "isize", "usize", "i16", "i32", "i64", "u16", "u32", "u64",
	"u128", "f32", "f64", "i8", "u8",
}

// splitNumericSuffix separates a literal's digits from its optional type
// suffix. Longer suffixes are tried first so "i128" is not split as "i12"+"8".
func splitNumericSuffix(raw string) (text, suffix string) {
	for _, s := range numericSuffixes {
		if strings.HasSuffix(raw, s) && len(raw) > len(s) {
			head := raw[:len(raw)-len(s)]
			last := head[len(head)-1]
			if last >= '0' && last <= '9' || last == '_' || last == '.' {
				return head, s
			}
		}
	}
	return raw, ""
}

func (p *Parser) parseIntegerLiteral() ast.Expr {
	text, suffix := splitNumericSuffix(p.curTok.Raw)
	return ast.NewIntegerLit(text, suffix, p.curTok.Span)
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	text, suffix := splitNumericSuffix(p.curTok.Raw)
	return ast.NewFloatLit(text, suffix, p.curTok.Span)
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return ast.NewStringLit(p.curTok.Value, false, p.curTok.Span)
}

func (p *Parser) parseRawStringLiteral() ast.Expr {
	return ast.NewStringLit(p.curTok.Value, true, p.curTok.Span)
}

func (p *Parser) parseCharLiteral() ast.Expr {
	runes := []rune(p.curTok.Value)
	if len(runes) != 1 {
		p.reportError("character literal must contain exactly one character", p.curTok.Span)
		return nil
	}
	return ast.NewCharLit(runes[0], p.curTok.Span)
}

func (p *Parser) parseByteLiteral() ast.Expr {
	runes := []rune(p.curTok.Value)
	if len(runes) != 1 || runes[0] > 0xff {
		p.reportError("byte literal must be a single ASCII character", p.curTok.Span)
		return nil
	}
	return ast.NewByteLit(byte(runes[0]), p.curTok.Span)
}

func (p *Parser) parseAtomLiteral() ast.Expr {
	return ast.NewAtomLit(p.curTok.Value, p.curTok.Span)
}

func (p *Parser) parseCommandLiteral() ast.Expr {
	lit := &ast.CommandLit{Text: p.curTok.Value}
	lit.SetSpan(p.curTok.Span)
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.NewBoolLit(p.curTok.Type == lexer.TRUE, p.curTok.Span)
}

func (p *Parser) parseNilLiteral() ast.Expr {
	return ast.NewNilLit(p.curTok.Span)
}

// parseListLiteral parses `[a, b]`, the repeat form `[v; n]`, and list
// comprehensions `[expr for pat in iter if cond]`.
func (p *Parser) parseListLiteral() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACKET {
		p.nextToken()
		return ast.NewListLit(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()

	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	first := p.parseExpr()
	if first == nil {
		return nil
	}

	switch p.peekTok.Type {
	case lexer.FOR:
		return p.parseListComp(start, first)
	case lexer.SEMICOLON:
		p.nextToken()
		p.nextToken()
		count := p.parseExpr()
		if count == nil {
			return nil
		}
		if !p.expect(lexer.RBRACKET) {
			return nil
		}
		expr := &ast.ArrayRepeat{Value: first, Count: count}
		expr.SetSpan(mergeSpan(start, p.curTok.Span))
		return expr
	}

	elements := []ast.Expr{first}
	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if p.peekTok.Type == lexer.RBRACKET {
			break
		}
		p.nextToken()
		el := p.parseExpr()
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	return ast.NewListLit(elements, mergeSpan(start, p.curTok.Span))
}

// parseListComp finishes a comprehension after its element expression.
// peekTok is FOR on entry.
func (p *Parser) parseListComp(start lexer.Span, element ast.Expr) ast.Expr {
	p.nextToken()
	p.nextToken()

	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	if !p.expect(lexer.IN) {
		return nil
	}
	p.nextToken()

	iter := p.parseExprPrecedence(precedenceTernary)
	if iter == nil {
		return nil
	}

	var filter ast.Expr
	if p.peekTok.Type == lexer.IF {
		p.nextToken()
		p.nextToken()
		filter = p.parseExprPrecedence(precedenceTernary)
		if filter == nil {
			return nil
		}
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	comp := &ast.ListComp{Element: element, Var: pat, Iter: iter, Filter: filter}
	comp.SetSpan(mergeSpan(start, p.curTok.Span))
	return comp
}

// parseBraceConstruct disambiguates the expression-position brace forms:
// `{}` empty object, `{k: v}` object or dictionary, `{a, b}` set, and
// otherwise a block.
func (p *Parser) parseBraceConstruct() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACE {
		p.nextToken()
		obj := &ast.ObjectLit{}
		obj.SetSpan(mergeSpan(start, p.curTok.Span))
		return obj
	}

	p.nextToken()

	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	first := p.parseStatement()
	if first == nil {
		return nil
	}

	switch p.peekTok.Type {
	case lexer.COLON:
		return p.parseObjectOrDict(start, first)
	case lexer.COMMA:
		return p.parseSetLiteral(start, first)
	default:
		return p.parseBlockTail(start, first)
	}
}

// parseObjectOrDict finishes `{key: value, ...}`. Identifier keys yield an
// object literal; any other key form yields a dictionary.
func (p *Parser) parseObjectOrDict(start lexer.Span, firstKey ast.Expr) ast.Expr {
	p.nextToken()
	p.nextToken()

	firstVal := p.parseExpr()
	if firstVal == nil {
		return nil
	}

	type entry struct {
		key ast.Expr
		val ast.Expr
	}
	entries := []entry{{firstKey, firstVal}}
	allIdent := isIdentKey(firstKey)

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if p.peekTok.Type == lexer.RBRACE {
			break
		}
		p.nextToken()

		key := p.parseExpr()
		if key == nil {
			return nil
		}
		if !p.expect(lexer.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpr()
		if val == nil {
			return nil
		}

		entries = append(entries, entry{key, val})
		allIdent = allIdent && isIdentKey(key)
	}

	if !p.expect(lexer.RBRACE) {
		return nil
	}
	span := mergeSpan(start, p.curTok.Span)

	if allIdent {
		obj := &ast.ObjectLit{}
		for _, e := range entries {
			obj.Fields = append(obj.Fields, &ast.ObjectField{Name: e.key.(*ast.Ident), Value: e.val})
		}
		obj.SetSpan(span)
		return obj
	}

	dict := &ast.DictLit{}
	for _, e := range entries {
		dict.Entries = append(dict.Entries, &ast.DictEntry{Key: e.key, Value: e.val})
	}
	dict.SetSpan(span)
	return dict
}

func isIdentKey(expr ast.Expr) bool {
	_, ok := expr.(*ast.Ident)
	return ok
}

// parseSetLiteral finishes `{a, b, c}` after its first element.
func (p *Parser) parseSetLiteral(start lexer.Span, first ast.Expr) ast.Expr {
	elements := []ast.Expr{first}

	for p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		if p.peekTok.Type == lexer.RBRACE {
			break
		}
		p.nextToken()
		el := p.parseExpr()
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}

	if !p.expect(lexer.RBRACE) {
		return nil
	}

	set := &ast.SetLit{Elements: elements}
	set.SetSpan(mergeSpan(start, p.curTok.Span))
	return set
}

// parseBlockTail finishes a block whose first statement is already parsed.
func (p *Parser) parseBlockTail(start lexer.Span, first ast.Expr) ast.Expr {
	block := ast.NewBlockExpr([]ast.Expr{first}, start)
	p.consumeTerminator(first)

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		prevTok := p.curTok

		expr := p.parseStatement()
		if expr == nil {
			p.recoverStatement(prevTok)
			continue
		}
		block.Exprs = append(block.Exprs, expr)
		p.consumeTerminator(expr)
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportExpected("'}'", p.curTok)
	}

	block.SetSpan(mergeSpan(start, p.curTok.Span))
	return block
}

// parseBlock parses `{ ... }`. curTok must be on the opening brace; on
// return curTok is on the closing brace.
func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RBRACE {
		p.nextToken()
		return ast.NewBlockExpr(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()

	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	block := ast.NewBlockExpr(nil, start)
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		prevTok := p.curTok

		expr := p.parseStatement()
		if expr == nil {
			p.recoverStatement(prevTok)
			continue
		}
		block.Exprs = append(block.Exprs, expr)
		p.consumeTerminator(expr)
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportExpected("'}'", p.curTok)
	}

	block.SetSpan(mergeSpan(start, p.curTok.Span))
	return block
}

// parseStructLiteral parses `Name { field: value, ..base }` as an infix on
// the opening brace.
func (p *Parser) parseStructLiteral(name ast.Expr) ast.Expr {
	lit := &ast.StructLit{Name: name}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}

		if p.curTok.Type == lexer.RANGE {
			p.nextToken()
			baseExpr := p.parseExpr()
			if baseExpr == nil {
				return nil
			}
			lit.Base = baseExpr
			if !p.expect(lexer.RBRACE) {
				return nil
			}
			break
		}

		if p.curTok.Type != lexer.IDENT {
			p.reportExpected("field name", p.curTok)
			return nil
		}
		field := &ast.FieldInit{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

		if p.peekTok.Type == lexer.COLON {
			p.nextToken()
			p.nextToken()
			val := p.parseExpr()
			if val == nil {
				return nil
			}
			field.Value = val
		} else {
			field.Shorthand = true
		}
		lit.Fields = append(lit.Fields, field)

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

	lit.SetSpan(mergeSpan(name.Span(), p.curTok.Span))
	return lit
}

// parseMacroExpr parses `name!(args)` and `name![args]`. The df![...] form
// builds a DataFrame literal.
func (p *Parser) parseMacroExpr(name *ast.Ident) ast.Expr {
	p.nextToken() // onto '(' or '['

	if name.Name == "df" && p.curTok.Type == lexer.LBRACKET {
		return p.parseDataFrameLit(name.Span())
	}

	closing := lexer.RPAREN
	if p.curTok.Type == lexer.LBRACKET {
		closing = lexer.RBRACKET
	}
	p.nextToken()

	res, ok := parseDelimited[ast.Expr](p, delimitedConfig{
		Closing:             closing,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected argument after ',' in macro invocation",
		MissingSeparatorMsg: "expected ',' or closing delimiter in macro invocation",
	}, func(int) (ast.Expr, bool) {
		arg := p.parseExpr()
		if arg == nil {
			return nil, false
		}
		return arg, true
	})
	if !ok {
		return nil
	}

	macro := &ast.MacroExpr{Name: name.Name, Args: res.Items}
	macro.SetSpan(mergeSpan(name.Span(), p.curTok.Span))
	return macro
}

// parseDataFrameLit parses `df![name => [values], ...]`. curTok is the
// opening bracket.
func (p *Parser) parseDataFrameLit(start lexer.Span) ast.Expr {
	p.nextToken()

	res, ok := parseDelimited[*ast.DataFrameColumn](p, delimitedConfig{
		Closing:             lexer.RBRACKET,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected column after ',' in df! literal",
		MissingSeparatorMsg: "expected ',' or ']' in df! literal",
	}, func(int) (*ast.DataFrameColumn, bool) {
		var colName string
		switch p.curTok.Type {
		case lexer.IDENT:
			colName = p.curTok.Raw
		case lexer.STRING:
			colName = p.curTok.Value
		default:
			p.reportExpected("column name", p.curTok)
			return nil, false
		}

		if !p.expect(lexer.FATARROW) {
			return nil, false
		}
		if !p.expect(lexer.LBRACKET) {
			return nil, false
		}
		p.nextToken()

		values, ok := parseDelimited[ast.Expr](p, delimitedConfig{
			Closing:             lexer.RBRACKET,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected value after ',' in column values",
			MissingSeparatorMsg: "expected ',' or ']' in column values",
		}, func(int) (ast.Expr, bool) {
			v := p.parseExpr()
			if v == nil {
				return nil, false
			}
			return v, true
		})
		if !ok {
			return nil, false
		}

		return &ast.DataFrameColumn{Name: colName, Values: values.Items}, true
	})
	if !ok {
		return nil
	}

	df := &ast.DataFrameLit{Columns: res.Items}
	df.SetSpan(mergeSpan(start, p.curTok.Span))
	return df
}
