package parser

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

func (p *Parser) parseLetExpr() ast.Expr {
	return p.parseLetLike(false)
}

// parseVarExpr treats `var x = e` as a mutable let binding.
func (p *Parser) parseVarExpr() ast.Expr {
	return p.parseLetLike(true)
}

func (p *Parser) parseLetLike(mutable bool) ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.MUT {
		p.nextToken()
		mutable = true
	}

	let := &ast.LetExpr{Mutable: mutable}

	switch p.peekTok.Type {
	case lexer.IDENT:
		p.nextToken()
		let.Name = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
	case lexer.LPAREN, lexer.LBRACKET:
		p.nextToken()
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}
		p.checkPatternBinders(pat)
		let.Pattern = pat
	default:
		p.reportExpected("binding name or pattern", p.peekTok)
		return nil
	}

	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		typ := p.parseTypeExpr()
		if typ == nil {
			return nil
		}
		let.Type = typ
	}

	end := p.curTok.Span
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		let.Value = value
		end = value.Span()
	} else if let.Pattern != nil {
		p.reportExpected("'=' after pattern binding", p.peekTok)
		return nil
	}

	if p.peekTok.Type == lexer.ELSE {
		p.nextToken()
		if !p.expect(lexer.LBRACE) {
			return nil
		}
		elseBlock := p.parseBlock()
		if elseBlock == nil {
			return nil
		}
		let.Else = elseBlock
		end = elseBlock.Span()
	}

	let.SetSpan(mergeSpan(start, end))
	return let
}

func (p *Parser) parseConstExpr() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	c := &ast.ConstExpr{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		typ := p.parseTypeExpr()
		if typ == nil {
			return nil
		}
		c.Type = typ
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	value := p.parseExpr()
	if value == nil {
		return nil
	}
	c.Value = value
	c.SetSpan(mergeSpan(start, value.Span()))
	return c
}

// parseParam parses one parameter: `name`, `name: T`, `name = default`,
// `...rest`. curTok is on the first token of the parameter.
func (p *Parser) parseParam() (*ast.Param, bool) {
	start := p.curTok.Span

	rest := false
	if p.curTok.Type == lexer.ELLIPSIS {
		rest = true
		if !p.expect(lexer.IDENT) {
			return nil, false
		}
	}

	if p.curTok.Type == lexer.MUT {
		p.nextToken()
	}
	if p.curTok.Type != lexer.IDENT {
		p.reportExpected("parameter name", p.curTok)
		return nil, false
	}
	name := ast.NewIdent(p.curTok.Raw, p.curTok.Span)

	var typ ast.TypeExpr
	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		typ = p.parseTypeExpr()
		if typ == nil {
			return nil, false
		}
	}

	var def ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		def = p.parseExprPrecedence(precedenceTernary)
		if def == nil {
			return nil, false
		}
	}

	return ast.NewParam(name, typ, def, rest, mergeSpan(start, p.curTok.Span)), true
}

// parseParamList parses `(a, b: T, c = 1, ...rest)` with curTok on '('.
// On return curTok is on ')'.
func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	p.nextToken()
	res, ok := parseDelimited[*ast.Param](p, delimitedConfig{
		Closing:             lexer.RPAREN,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected parameter after ','",
		MissingSeparatorMsg: "expected ',' or ')' in parameter list",
	}, func(int) (*ast.Param, bool) {
		return p.parseParam()
	})
	if !ok {
		return nil, false
	}

	for i, param := range res.Items {
		if param.Rest && i != len(res.Items)-1 {
			p.reportError("rest parameter must be last", param.Span())
			return nil, false
		}
	}
	return res.Items, true
}

func (p *Parser) parseFunExpr() ast.Expr {
	start := p.curTok.Span

	fn := &ast.FunExpr{}

	if p.peekTok.Type == lexer.IDENT {
		p.nextToken()
		fn.Name = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
	}

	if p.peekTok.Type == lexer.LT {
		p.nextToken()
		for {
			if !p.expect(lexer.IDENT) {
				return nil
			}
			fn.TypeParams = append(fn.TypeParams, ast.NewIdent(p.curTok.Raw, p.curTok.Span))
			if p.peekTok.Type == lexer.COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(lexer.GT) {
			return nil
		}
	}

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil
	}
	fn.Params = params

	if p.peekTok.Type == lexer.ARROW {
		p.nextToken()
		p.nextToken()
		ret := p.parseTypeExpr()
		if ret == nil {
			return nil
		}
		fn.ReturnType = ret
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	restore := p.enterFunctionScope()
	body := p.parseBlock()
	restore()
	if body == nil {
		return nil
	}
	fn.Body = body

	fn.SetSpan(mergeSpan(start, body.Span()))
	return fn
}

// parsePubExpr parses `pub` followed by a definition and marks it public.
func (p *Parser) parsePubExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	var expr ast.Expr
	switch p.curTok.Type {
	case lexer.FUN:
		expr = p.parseFunExpr()
	case lexer.STRUCT:
		expr = p.parseStructDef()
	case lexer.ENUM:
		expr = p.parseEnumDef()
	case lexer.TRAIT:
		expr = p.parseTraitDef()
	case lexer.CLASS:
		expr = p.parseClassDef()
	case lexer.TYPE:
		expr = p.parseTypeAlias()
	case lexer.CONST:
		expr = p.parseConstExpr()
	case lexer.ASYNC:
		expr = p.parseAsyncExpr()
	default:
		p.reportExpected("definition after 'pub'", p.curTok)
		return nil
	}
	if expr == nil {
		return nil
	}

	switch e := expr.(type) {
	case *ast.FunExpr:
		e.Pub = true
	case *ast.StructDef:
		e.Pub = true
	case *ast.EnumDef:
		e.Pub = true
	case *ast.TraitDef:
		e.Pub = true
	case *ast.ClassDef:
		e.Pub = true
	case *ast.TypeAlias:
		e.Pub = true
	}

	if setter, ok := expr.(interface{ SetSpan(lexer.Span) }); ok {
		setter.SetSpan(mergeSpan(start, expr.Span()))
	}
	return expr
}

// parseTypeParams parses an optional `<T, U>` after a type name.
func (p *Parser) parseTypeParams() ([]*ast.Ident, bool) {
	if p.peekTok.Type != lexer.LT {
		return nil, true
	}
	p.nextToken()

	var params []*ast.Ident
	for {
		if !p.expect(lexer.IDENT) {
			return nil, false
		}
		params = append(params, ast.NewIdent(p.curTok.Raw, p.curTok.Span))
		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.GT) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseStructDef() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	def := &ast.StructDef{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	typeParams, ok := p.parseTypeParams()
	if !ok {
		return nil
	}
	def.TypeParams = typeParams

	// A bare `struct Marker` declares a unit struct.
	if p.peekTok.Type != lexer.LBRACE {
		def.SetSpan(mergeSpan(start, p.curTok.Span))
		return def
	}
	p.nextToken()

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}

		field, ok := p.parseStructField()
		if !ok {
			return nil
		}
		def.Fields = append(def.Fields, field)

		switch p.peekTok.Type {
		case lexer.COMMA, lexer.SEMICOLON:
			p.nextToken()
			p.nextToken()
		case lexer.RBRACE:
			p.nextToken()
		default:
			if p.peekTok.Span.Line > p.curTok.Span.Line {
				p.nextToken()
				continue
			}
			p.reportExpected("',' or '}'", p.peekTok)
			return nil
		}
	}

	def.SetSpan(mergeSpan(start, p.curTok.Span))
	return def
}

// parseStructField parses `name: Type` with an optional `pub` prefix.
func (p *Parser) parseStructField() (*ast.StructField, bool) {
	start := p.curTok.Span

	pub := false
	if p.curTok.Type == lexer.PUB {
		pub = true
		p.nextToken()
	}
	if p.curTok.Type != lexer.IDENT {
		p.reportExpected("field name", p.curTok)
		return nil, false
	}
	name := ast.NewIdent(p.curTok.Raw, p.curTok.Span)

	if !p.expect(lexer.COLON) {
		return nil, false
	}
	p.nextToken()

	typ := p.parseTypeExpr()
	if typ == nil {
		return nil, false
	}

	return ast.NewStructField(name, typ, pub, mergeSpan(start, typ.Span())), true
}

func (p *Parser) parseEnumDef() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	def := &ast.EnumDef{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	typeParams, ok := p.parseTypeParams()
	if !ok {
		return nil
	}
	def.TypeParams = typeParams

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}
		if p.curTok.Type != lexer.IDENT {
			p.reportExpected("variant name", p.curTok)
			return nil
		}

		variantStart := p.curTok.Span
		name := ast.NewIdent(p.curTok.Raw, p.curTok.Span)

		var fields []ast.TypeExpr
		if p.peekTok.Type == lexer.LPAREN {
			p.nextToken()
			p.nextToken()
			res, ok := parseDelimited[ast.TypeExpr](p, delimitedConfig{
				Closing:             lexer.RPAREN,
				Separator:           lexer.COMMA,
				AllowTrailing:       true,
				MissingElementMsg:   "expected type after ','",
				MissingSeparatorMsg: "expected ',' or ')' in variant payload",
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
			fields = res.Items
		}

		def.Variants = append(def.Variants,
			ast.NewEnumVariant(name, fields, mergeSpan(variantStart, p.curTok.Span)))

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
			p.nextToken()
		case lexer.RBRACE:
			p.nextToken()
		default:
			if p.peekTok.Span.Line > p.curTok.Span.Line {
				p.nextToken()
				continue
			}
			p.reportExpected("',' or '}'", p.peekTok)
			return nil
		}
	}

	def.SetSpan(mergeSpan(start, p.curTok.Span))
	return def
}

func (p *Parser) parseTraitDef() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	def := &ast.TraitDef{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}
		if p.curTok.Type != lexer.FUN {
			p.reportExpected("'fun' in trait body", p.curTok)
			return nil
		}

		method := p.parseTraitMethod()
		if method == nil {
			return nil
		}
		def.Methods = append(def.Methods, method)
		p.nextToken()
	}

	def.SetSpan(mergeSpan(start, p.curTok.Span))
	return def
}

// parseTraitMethod parses a method signature with an optional default body.
func (p *Parser) parseTraitMethod() *ast.FunExpr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	fn := &ast.FunExpr{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil
	}
	fn.Params = params

	if p.peekTok.Type == lexer.ARROW {
		p.nextToken()
		p.nextToken()
		ret := p.parseTypeExpr()
		if ret == nil {
			return nil
		}
		fn.ReturnType = ret
	}

	if p.peekTok.Type == lexer.LBRACE {
		p.nextToken()
		restore := p.enterFunctionScope()
		body := p.parseBlock()
		restore()
		if body == nil {
			return nil
		}
		fn.Body = body
	}

	fn.SetSpan(mergeSpan(start, p.curTok.Span))
	return fn
}

func (p *Parser) parseImplBlock() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	first := ast.NewIdent(p.curTok.Raw, p.curTok.Span)

	impl := &ast.ImplBlock{Type: first}
	if p.peekTok.Type == lexer.FOR {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		impl.Trait = first
		impl.Type = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		var fn ast.Expr
		switch p.curTok.Type {
		case lexer.FUN:
			fn = p.parseFunExpr()
		case lexer.PUB:
			fn = p.parsePubExpr()
		default:
			p.reportExpected("'fun' in impl body", p.curTok)
			return nil
		}
		if fn == nil {
			return nil
		}
		method, ok := fn.(*ast.FunExpr)
		if !ok {
			p.reportError("impl bodies may only contain functions", fn.Span())
			return nil
		}
		impl.Methods = append(impl.Methods, method)
		p.nextToken()
	}

	impl.SetSpan(mergeSpan(start, p.curTok.Span))
	return impl
}

func (p *Parser) parseClassDef() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	def := &ast.ClassDef{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		switch {
		case p.curTok.Type == lexer.FUN:
			fn := p.parseFunExpr()
			if fn == nil {
				return nil
			}
			def.Methods = append(def.Methods, fn.(*ast.FunExpr))
			p.nextToken()
		case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.COLON:
			field, ok := p.parseStructField()
			if !ok {
				return nil
			}
			def.Fields = append(def.Fields, field)
			if p.peekTok.Type == lexer.COMMA || p.peekTok.Type == lexer.SEMICOLON {
				p.nextToken()
			}
			p.nextToken()
		default:
			p.reportExpected("field or method in class body", p.curTok)
			return nil
		}
	}

	def.SetSpan(mergeSpan(start, p.curTok.Span))
	return def
}

func (p *Parser) parseTypeAlias() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	alias := &ast.TypeAlias{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	typ := p.parseTypeExpr()
	if typ == nil {
		return nil
	}
	alias.Type = typ
	alias.SetSpan(mergeSpan(start, typ.Span()))
	return alias
}

func (p *Parser) parseModuleDef() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	def := &ast.ModuleDef{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	def.Body = body

	def.SetSpan(mergeSpan(start, body.Span()))
	return def
}

// parseImportPath parses `a::b::c` or `a.b.c`.
func (p *Parser) parseImportPath() ([]*ast.Ident, bool) {
	if !p.expect(lexer.IDENT) {
		return nil, false
	}
	path := []*ast.Ident{ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	for p.peekTok.Type == lexer.DOUBLE_COLON || p.peekTok.Type == lexer.DOT {
		if p.peekTok.Type == lexer.DOUBLE_COLON {
			// `path::{a, b}` hands off to the grouped item list.
			p.nextToken()
			if p.peekTok.Type == lexer.LBRACE {
				return path, true
			}
			if !p.expect(lexer.IDENT) {
				return nil, false
			}
		} else {
			p.nextToken()
			if !p.expect(lexer.IDENT) {
				return nil, false
			}
		}
		path = append(path, ast.NewIdent(p.curTok.Raw, p.curTok.Span))
	}
	return path, true
}

func (p *Parser) parseImportExpr() ast.Expr {
	start := p.curTok.Span

	imp := &ast.ImportExpr{}

	path, ok := p.parseImportPath()
	if !ok {
		return nil
	}
	imp.Path = path

	if p.curTok.Type == lexer.DOUBLE_COLON && p.peekTok.Type == lexer.LBRACE {
		p.nextToken()
		items, ok := p.parseImportItems()
		if !ok {
			return nil
		}
		imp.Items = items
	}

	if p.peekTok.Type == lexer.AS {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		imp.Alias = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
	}

	imp.SetSpan(mergeSpan(start, p.curTok.Span))
	return imp
}

// parseImportItems parses `{a, b as c}` with curTok on '{'.
func (p *Parser) parseImportItems() ([]*ast.ImportItem, bool) {
	p.nextToken()
	res, ok := parseDelimited[*ast.ImportItem](p, delimitedConfig{
		Closing:             lexer.RBRACE,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected name after ',' in import list",
		MissingSeparatorMsg: "expected ',' or '}' in import list",
	}, func(int) (*ast.ImportItem, bool) {
		if p.curTok.Type != lexer.IDENT {
			p.reportExpected("imported name", p.curTok)
			return nil, false
		}
		item := &ast.ImportItem{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}
		if p.peekTok.Type == lexer.AS {
			p.nextToken()
			if !p.expect(lexer.IDENT) {
				return nil, false
			}
			item.Alias = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
		}
		return item, true
	})
	if !ok {
		return nil, false
	}
	return res.Items, true
}

// parseFromImport parses `from path import a, b`, `from path import *`.
func (p *Parser) parseFromImport() ast.Expr {
	start := p.curTok.Span

	imp := &ast.ImportExpr{}

	path, ok := p.parseImportPath()
	if !ok {
		return nil
	}
	imp.Path = path

	if !p.expect(lexer.IMPORT) {
		return nil
	}

	if p.peekTok.Type == lexer.ASTERISK {
		p.nextToken()
		imp.All = true
		imp.SetSpan(mergeSpan(start, p.curTok.Span))
		return imp
	}

	for {
		if !p.expect(lexer.IDENT) {
			return nil
		}
		item := &ast.ImportItem{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}
		if p.peekTok.Type == lexer.AS {
			p.nextToken()
			if !p.expect(lexer.IDENT) {
				return nil
			}
			item.Alias = ast.NewIdent(p.curTok.Raw, p.curTok.Span)
		}
		imp.Items = append(imp.Items, item)

		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	imp.SetSpan(mergeSpan(start, p.curTok.Span))
	return imp
}

func (p *Parser) parseExportExpr() ast.Expr {
	start := p.curTok.Span

	exp := &ast.ExportExpr{}

	switch p.peekTok.Type {
	case lexer.LBRACE:
		p.nextToken()
		p.nextToken()
		res, ok := parseDelimited[*ast.Ident](p, delimitedConfig{
			Closing:             lexer.RBRACE,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected name after ',' in export list",
			MissingSeparatorMsg: "expected ',' or '}' in export list",
		}, func(int) (*ast.Ident, bool) {
			if p.curTok.Type != lexer.IDENT {
				p.reportExpected("exported name", p.curTok)
				return nil, false
			}
			return ast.NewIdent(p.curTok.Raw, p.curTok.Span), true
		})
		if !ok {
			return nil
		}
		exp.Items = res.Items
	case lexer.FUN, lexer.STRUCT, lexer.ENUM, lexer.TRAIT, lexer.CLASS,
		lexer.TYPE, lexer.CONST, lexer.LET, lexer.VAR:
		p.nextToken()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		exp.Expr = inner
	case lexer.IDENT:
		for {
			if !p.expect(lexer.IDENT) {
				return nil
			}
			exp.Items = append(exp.Items, ast.NewIdent(p.curTok.Raw, p.curTok.Span))
			if p.peekTok.Type != lexer.COMMA {
				break
			}
			p.nextToken()
		}
	default:
		p.reportExpected("'{', definition, or name after 'export'", p.peekTok)
		return nil
	}

	exp.SetSpan(mergeSpan(start, p.curTok.Span))
	return exp
}

func (p *Parser) parseActorDef() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	def := &ast.ActorDef{Name: ast.NewIdent(p.curTok.Raw, p.curTok.Span)}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		switch {
		case p.curTok.Type == lexer.ON:
			handler := p.parseActorHandler()
			if handler == nil {
				return nil
			}
			def.Handlers = append(def.Handlers, handler)
			p.nextToken()
		case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.COLON:
			field, ok := p.parseStructField()
			if !ok {
				return nil
			}
			def.Fields = append(def.Fields, field)
			if p.peekTok.Type == lexer.COMMA || p.peekTok.Type == lexer.SEMICOLON {
				p.nextToken()
			}
			p.nextToken()
		default:
			p.reportExpected("state field or 'on' handler in actor body", p.curTok)
			return nil
		}
	}

	def.SetSpan(mergeSpan(start, p.curTok.Span))
	return def
}

// parseActorHandler parses `on Msg(params) { ... }` with curTok on `on`.
func (p *Parser) parseActorHandler() *ast.ActorHandler {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	message := ast.NewIdent(p.curTok.Raw, p.curTok.Span)

	var params []*ast.Param
	if p.peekTok.Type == lexer.LPAREN {
		p.nextToken()
		var ok bool
		params, ok = p.parseParamList()
		if !ok {
			return nil
		}
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	restore := p.enterFunctionScope()
	body := p.parseBlock()
	restore()
	if body == nil {
		return nil
	}

	return ast.NewActorHandler(message, params, body, mergeSpan(start, body.Span()))
}
