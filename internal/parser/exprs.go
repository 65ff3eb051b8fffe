package parser

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// parseExpr parses a full expression at the lowest precedence.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseExprPrecedence(precedenceLowest)
}

// parseExprNoStruct parses an expression while suppressing `Name { ... }`
// struct literals, for use in if/while/for/match headers where the brace
// belongs to the construct body.
func (p *Parser) parseExprNoStruct() ast.Expr {
	saved := p.noStruct
	p.noStruct = true
	expr := p.parseExprPrecedence(precedenceLowest)
	p.noStruct = saved
	return expr
}

// parseExprPrecedence drives the Pratt loop: a prefix handler produces the
// left operand, then infix handlers fold in operators while their binding
// power exceeds the caller's.
func (p *Parser) parseExprPrecedence(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.reportExpected("expression", p.curTok)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		if !p.peekContinuesExpr() {
			break
		}
		if p.peekTok.Type == lexer.LBRACE && !p.structLiteralAllowed(left) {
			break
		}

		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			break
		}

		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}
	return precedenceLowest
}

// peekContinuesExpr decides whether the peek token extends the current
// expression. Tokens that can open a fresh statement (prefix-capable
// operators, call and index delimiters) do not continue an expression
// across a line break; everything else does, so method chains may wrap.
func (p *Parser) peekContinuesExpr() bool {
	if p.peekTok.Span.Line == p.curTok.Span.Line {
		return true
	}
	switch p.peekTok.Type {
	case lexer.MINUS, lexer.ASTERISK, lexer.AMPERSAND, lexer.BANG, lexer.PIPE,
		lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE,
		lexer.INCREMENT, lexer.DECREMENT:
		return false
	}
	return true
}

// structLiteralAllowed reports whether `left { ... }` may be parsed as a
// struct literal. Only capitalized names qualify, and never inside a
// construct header.
func (p *Parser) structLiteralAllowed(left ast.Expr) bool {
	if p.noStruct {
		return false
	}
	switch n := left.(type) {
	case *ast.Ident:
		return startsUpper(n.Name)
	case *ast.QualifiedName:
		if len(n.Segments) == 0 {
			return false
		}
		return startsUpper(n.Segments[len(n.Segments)-1].Name)
	}
	return false
}

func startsUpper(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// canStartExpr reports whether a token of this type has a prefix handler,
// meaning an expression could begin with it.
func (p *Parser) canStartExpr(tt lexer.TokenType) bool {
	_, ok := p.prefixFns[tt]
	return ok
}

// --- prefix handlers ---

func (p *Parser) parsePrefixExpr() ast.Expr {
	op := p.curTok.Type
	start := p.curTok.Span

	p.nextToken()
	if op == lexer.AMPERSAND && p.curTok.Type == lexer.MUT {
		p.nextToken()
	}

	operand := p.parseExprPrecedence(precedencePrefix)
	if operand == nil {
		return nil
	}

	return ast.NewPrefixExpr(op, operand, mergeSpan(start, operand.Span()))
}

func (p *Parser) parseIncDecPrefix() ast.Expr {
	op := p.curTok.Type
	start := p.curTok.Span

	p.nextToken()
	target := p.parseExprPrecedence(precedencePrefix)
	if target == nil {
		return nil
	}
	if !isAssignableTarget(target) {
		p.reportError("invalid increment/decrement target", target.Span())
		return nil
	}

	expr := &ast.IncDecExpr{Op: op, Target: target, Prefix: true}
	expr.SetSpan(mergeSpan(start, target.Span()))
	return expr
}

func (p *Parser) parseSpreadExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	inner := p.parseExprPrecedence(precedencePrefix)
	if inner == nil {
		return nil
	}

	expr := &ast.SpreadExpr{Expr: inner}
	expr.SetSpan(mergeSpan(start, inner.Span()))
	return expr
}

// parseParenExpr parses `()`, `(e)`, and `(a, b, ...)`.
func (p *Parser) parseParenExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return ast.NewUnitLit(mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()

	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	first := p.parseExpr()
	if first == nil {
		return nil
	}

	if p.peekTok.Type == lexer.COMMA {
		elements := []ast.Expr{first}
		for p.peekTok.Type == lexer.COMMA {
			p.nextToken()
			if p.peekTok.Type == lexer.RPAREN {
				break
			}
			p.nextToken()
			el := p.parseExpr()
			if el == nil {
				return nil
			}
			elements = append(elements, el)
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
		return ast.NewTupleLit(elements, mergeSpan(start, p.curTok.Span))
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	// Grouping is transparent in the AST; widen the inner span to cover
	// the parentheses so diagnostics point at the whole group.
	if setter, ok := first.(interface{ SetSpan(lexer.Span) }); ok {
		setter.SetSpan(mergeSpan(start, p.curTok.Span))
	}
	return first
}

func (p *Parser) parseLambdaPipes() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	var params []*ast.Param
	if p.curTok.Type != lexer.PIPE {
		res, ok := parseDelimited[*ast.Param](p, delimitedConfig{
			Closing:             lexer.PIPE,
			Separator:           lexer.COMMA,
			MissingElementMsg:   "expected parameter after ',' in lambda",
			MissingSeparatorMsg: "expected ',' or '|' in lambda parameters",
		}, func(int) (*ast.Param, bool) {
			return p.parseParam()
		})
		if !ok {
			return nil
		}
		params = res.Items
	}

	p.nextToken()
	body := p.parseExpr()
	if body == nil {
		return nil
	}

	return ast.NewLambdaExpr(params, body, mergeSpan(start, body.Span()))
}

// parseLambdaEmptyPipes handles `|| body`: the two pipes lex as a single OR.
func (p *Parser) parseLambdaEmptyPipes() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	body := p.parseExpr()
	if body == nil {
		return nil
	}

	return ast.NewLambdaExpr(nil, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseLambdaBackslash() ast.Expr {
	start := p.curTok.Span

	var params []*ast.Param
	for {
		if !p.expect(lexer.IDENT) {
			return nil
		}
		name := ast.NewIdent(p.curTok.Raw, p.curTok.Span)
		params = append(params, ast.NewParam(name, nil, nil, false, p.curTok.Span))
		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if !p.expect(lexer.ARROW) {
		return nil
	}
	p.nextToken()

	body := p.parseExpr()
	if body == nil {
		return nil
	}

	return ast.NewLambdaExpr(params, body, mergeSpan(start, body.Span()))
}

// parseOpenRange parses prefix `..e`, `..=e`, and the bare full range `..`.
func (p *Parser) parseOpenRange() ast.Expr {
	start := p.curTok.Span
	inclusive := p.curTok.Type == lexer.RANGE_EQ

	var end ast.Expr
	if p.canStartExpr(p.peekTok.Type) && p.peekContinuesExpr() {
		p.nextToken()
		end = p.parseExprPrecedence(precedenceRange)
		if end == nil {
			return nil
		}
	}

	span := start
	if end != nil {
		span = mergeSpan(start, end.Span())
	}
	return ast.NewRangeLit(nil, end, inclusive, span)
}

func (p *Parser) parseAwaitExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	inner := p.parseExprPrecedence(precedencePrefix)
	if inner == nil {
		return nil
	}

	expr := &ast.AwaitExpr{Expr: inner}
	expr.SetSpan(mergeSpan(start, inner.Span()))
	return expr
}

func (p *Parser) parseAsyncExpr() ast.Expr {
	start := p.curTok.Span

	switch p.peekTok.Type {
	case lexer.LBRACE:
		p.nextToken()
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		expr := &ast.AsyncBlock{Body: body}
		expr.SetSpan(mergeSpan(start, body.Span()))
		return expr
	case lexer.FUN:
		p.nextToken()
		fn := p.parseFunExpr()
		if fn == nil {
			return nil
		}
		if f, ok := fn.(*ast.FunExpr); ok {
			f.Async = true
			f.SetSpan(mergeSpan(start, f.Span()))
		}
		return fn
	default:
		p.reportExpected("'{' or 'fun' after 'async'", p.peekTok)
		return nil
	}
}

func (p *Parser) parseSpawnExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	inner := p.parseExprPrecedence(precedencePrefix)
	if inner == nil {
		return nil
	}

	expr := &ast.SpawnExpr{Expr: inner}
	expr.SetSpan(mergeSpan(start, inner.Span()))
	return expr
}

func (p *Parser) parseLazyExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	inner := p.parseExpr()
	if inner == nil {
		return nil
	}

	expr := &ast.LazyExpr{Expr: inner}
	expr.SetSpan(mergeSpan(start, inner.Span()))
	return expr
}

func (p *Parser) parseUnsafeBlock() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	expr := &ast.UnsafeBlock{Body: body}
	expr.SetSpan(mergeSpan(start, body.Span()))
	return expr
}

// parseAskKeyword parses `ask(actor, msg)` with an optional timeout argument.
func (p *Parser) parseAskKeyword() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.nextToken()

	actor := p.parseExpr()
	if actor == nil {
		return nil
	}
	if !p.expect(lexer.COMMA) {
		return nil
	}
	p.nextToken()

	msg := p.parseExpr()
	if msg == nil {
		return nil
	}

	var timeout ast.Expr
	if p.peekTok.Type == lexer.COMMA {
		p.nextToken()
		p.nextToken()
		timeout = p.parseExpr()
		if timeout == nil {
			return nil
		}
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	expr := &ast.AskExpr{Actor: actor, Msg: msg, Timeout: timeout}
	expr.SetSpan(mergeSpan(start, p.curTok.Span))
	return expr
}

// --- infix handlers ---

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	op := p.curTok.Type
	prec := precedences[op]

	p.nextToken()
	right := p.parseExprPrecedence(prec)
	if right == nil {
		return nil
	}

	return ast.NewInfixExpr(op, left, right, mergeSpan(left.Span(), right.Span()))
}

// parsePowerExpr parses `**` right-associatively: `2 ** 3 ** 2` is 2**(3**2).
func (p *Parser) parsePowerExpr(left ast.Expr) ast.Expr {
	p.nextToken()
	right := p.parseExprPrecedence(precedencePower - 1)
	if right == nil {
		return nil
	}

	return ast.NewInfixExpr(lexer.POWER, left, right, mergeSpan(left.Span(), right.Span()))
}

func isAssignableTarget(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.FieldExpr:
		return !e.Optional
	case *ast.IndexExpr:
		return !e.Optional
	case *ast.TupleLit:
		for _, el := range e.Elements {
			if !isAssignableTarget(el) {
				return false
			}
		}
		return len(e.Elements) > 0
	case *ast.PrefixExpr:
		return e.Op == lexer.ASTERISK
	default:
		return false
	}
}

func (p *Parser) parseAssignExpr(left ast.Expr) ast.Expr {
	if !isAssignableTarget(left) {
		p.reportErrorCode(diag.CodeParseInvalidAssign, "invalid assignment target", left.Span())
		return nil
	}

	p.nextToken()
	value := p.parseExprPrecedence(precedenceAssign - 1)
	if value == nil {
		return nil
	}

	return ast.NewAssignExpr(left, value, mergeSpan(left.Span(), value.Span()))
}

var compoundOps = map[lexer.TokenType]lexer.TokenType{
	lexer.PLUS_ASSIGN:     lexer.PLUS,
	lexer.MINUS_ASSIGN:    lexer.MINUS,
	lexer.ASTERISK_ASSIGN: lexer.ASTERISK,
	lexer.SLASH_ASSIGN:    lexer.SLASH,
	lexer.PERCENT_ASSIGN:  lexer.PERCENT,
	lexer.AMP_ASSIGN:      lexer.AMPERSAND,
	lexer.PIPE_ASSIGN:     lexer.PIPE,
	lexer.CARET_ASSIGN:    lexer.CARET,
	lexer.SHL_ASSIGN:      lexer.SHL,
	lexer.SHR_ASSIGN:      lexer.SHR,
}

func (p *Parser) parseCompoundAssignExpr(left ast.Expr) ast.Expr {
	if !isAssignableTarget(left) {
		p.reportErrorCode(diag.CodeParseInvalidAssign, "invalid assignment target", left.Span())
		return nil
	}

	op := compoundOps[p.curTok.Type]

	p.nextToken()
	value := p.parseExprPrecedence(precedenceAssign - 1)
	if value == nil {
		return nil
	}

	expr := &ast.CompoundAssignExpr{Op: op, Target: left, Value: value}
	expr.SetSpan(mergeSpan(left.Span(), value.Span()))
	return expr
}

// parseQuestionInfix disambiguates the three uses of `?`:
// postfix error propagation `e?`, the ternary `c ? a : b`, and the
// actor query `actor ? msg`.
func (p *Parser) parseQuestionInfix(left ast.Expr) ast.Expr {
	qSpan := p.curTok.Span

	if !p.canStartExpr(p.peekTok.Type) {
		expr := &ast.QuestionExpr{Expr: left}
		expr.SetSpan(mergeSpan(left.Span(), qSpan))
		return expr
	}

	p.nextToken()
	then := p.parseExprPrecedence(precedenceTernary)
	if then == nil {
		return nil
	}

	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		els := p.parseExprPrecedence(precedenceTernary - 1)
		if els == nil {
			return nil
		}
		expr := &ast.TernaryExpr{Cond: left, Then: then, Else: els}
		expr.SetSpan(mergeSpan(left.Span(), els.Span()))
		return expr
	}

	expr := &ast.AskExpr{Actor: left, Msg: then}
	expr.SetSpan(mergeSpan(left.Span(), then.Span()))
	return expr
}

// parsePipelineExpr desugars `e |> f(a, b)` into `f(e, a, b)` and
// `e |> f` into `f(e)`.
func (p *Parser) parsePipelineExpr(left ast.Expr) ast.Expr {
	p.nextToken()
	right := p.parseExprPrecedence(precedencePipeline)
	if right == nil {
		return nil
	}

	span := mergeSpan(left.Span(), right.Span())
	if call, ok := right.(*ast.CallExpr); ok {
		call.Args = append([]ast.Expr{left}, call.Args...)
		call.SetSpan(span)
		return call
	}
	if mc, ok := right.(*ast.MethodCallExpr); ok {
		mc.Args = append([]ast.Expr{left}, mc.Args...)
		mc.SetSpan(span)
		return mc
	}
	return ast.NewCallExpr(right, []ast.Expr{left}, span)
}

// parseSendExpr handles `actor ! msg`, and also `name!(...)` / `name![...]`
// macro invocations when the bang directly follows an identifier.
func (p *Parser) parseSendExpr(left ast.Expr) ast.Expr {
	if ident, ok := left.(*ast.Ident); ok &&
		p.curTok.Span.Start == ident.Span().End &&
		p.peekTok.Span.Start == p.curTok.Span.End &&
		(p.peekTok.Type == lexer.LPAREN || p.peekTok.Type == lexer.LBRACKET) {
		return p.parseMacroExpr(ident)
	}

	p.nextToken()
	msg := p.parseExprPrecedence(precedencePipeline)
	if msg == nil {
		return nil
	}

	expr := &ast.SendExpr{Actor: left, Msg: msg}
	expr.SetSpan(mergeSpan(left.Span(), msg.Span()))
	return expr
}

func (p *Parser) parseRangeExpr(left ast.Expr) ast.Expr {
	inclusive := p.curTok.Type == lexer.RANGE_EQ
	opSpan := p.curTok.Span

	var end ast.Expr
	if p.canStartExpr(p.peekTok.Type) && p.peekContinuesExpr() {
		p.nextToken()
		end = p.parseExprPrecedence(precedenceRange)
		if end == nil {
			return nil
		}
	}

	span := mergeSpan(left.Span(), opSpan)
	if end != nil {
		span = mergeSpan(left.Span(), end.Span())
	}
	return ast.NewRangeLit(left, end, inclusive, span)
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	return p.parseCallWithTypeArgs(callee, nil)
}

func (p *Parser) parseCallWithTypeArgs(callee ast.Expr, typeArgs []ast.TypeExpr) ast.Expr {
	p.nextToken()

	saved := p.noStruct
	p.noStruct = false
	res, ok := parseDelimited[ast.Expr](p, delimitedConfig{
		Closing:             lexer.RPAREN,
		Separator:           lexer.COMMA,
		AllowTrailing:       true,
		MissingElementMsg:   "expected argument after ','",
		MissingSeparatorMsg: "expected ',' or ')' in argument list",
	}, func(int) (ast.Expr, bool) {
		arg := p.parseExpr()
		if arg == nil {
			return nil, false
		}
		return arg, true
	})
	p.noStruct = saved
	if !ok {
		return nil
	}

	call := ast.NewCallExpr(callee, res.Items, mergeSpan(callee.Span(), p.curTok.Span))
	call.TypeArgs = typeArgs
	return call
}

func (p *Parser) parseIndexExpr(target ast.Expr) ast.Expr {
	return p.parseIndexLike(target, false)
}

func (p *Parser) parseSafeIndexExpr(target ast.Expr) ast.Expr {
	return p.parseIndexLike(target, true)
}

// parseIndexLike parses `t[i]`, and the slice forms `t[a:b]`, `t[:b]`,
// `t[a:]`, `t[:]`. The optional flag marks `?[` access.
func (p *Parser) parseIndexLike(target ast.Expr, optional bool) ast.Expr {
	p.nextToken()

	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	if p.curTok.Type == lexer.COLON {
		return p.parseSliceTail(target, nil)
	}

	if p.curTok.Type == lexer.RBRACKET {
		p.reportExpected("index expression", p.curTok)
		return nil
	}

	index := p.parseExpr()
	if index == nil {
		return nil
	}

	if p.peekTok.Type == lexer.COLON && !optional {
		p.nextToken()
		return p.parseSliceTail(target, index)
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	return ast.NewIndexExpr(target, index, optional, mergeSpan(target.Span(), p.curTok.Span))
}

// parseSliceTail finishes a slice after its ':'. curTok is the colon.
func (p *Parser) parseSliceTail(target ast.Expr, start ast.Expr) ast.Expr {
	var end ast.Expr
	if p.peekTok.Type != lexer.RBRACKET {
		p.nextToken()
		end = p.parseExpr()
		if end == nil {
			return nil
		}
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	expr := &ast.SliceExpr{Target: target, Start: start, End: end}
	expr.SetSpan(mergeSpan(target.Span(), p.curTok.Span))
	return expr
}

// parseFieldOrMethod parses `.name`, `.name(args)`, tuple access `.0`, and
// the postfix `.await`.
func (p *Parser) parseFieldOrMethod(target ast.Expr) ast.Expr {
	switch p.peekTok.Type {
	case lexer.AWAIT:
		p.nextToken()
		expr := &ast.AwaitExpr{Expr: target}
		expr.SetSpan(mergeSpan(target.Span(), p.curTok.Span))
		return expr
	case lexer.INT:
		p.nextToken()
		field := ast.NewIdent(p.curTok.Raw, p.curTok.Span)
		return ast.NewFieldExpr(target, field, false, mergeSpan(target.Span(), p.curTok.Span))
	case lexer.IDENT:
		p.nextToken()
	default:
		p.reportExpected("field or method name", p.peekTok)
		return nil
	}

	field := ast.NewIdent(p.curTok.Raw, p.curTok.Span)

	if p.peekTok.Type == lexer.LPAREN && p.peekContinuesExpr() {
		p.nextToken()
		p.nextToken()

		saved := p.noStruct
		p.noStruct = false
		res, ok := parseDelimited[ast.Expr](p, delimitedConfig{
			Closing:             lexer.RPAREN,
			Separator:           lexer.COMMA,
			AllowTrailing:       true,
			MissingElementMsg:   "expected argument after ','",
			MissingSeparatorMsg: "expected ',' or ')' in argument list",
		}, func(int) (ast.Expr, bool) {
			arg := p.parseExpr()
			if arg == nil {
				return nil, false
			}
			return arg, true
		})
		p.noStruct = saved
		if !ok {
			return nil
		}

		return ast.NewMethodCallExpr(target, field, res.Items, mergeSpan(target.Span(), p.curTok.Span))
	}

	return ast.NewFieldExpr(target, field, false, mergeSpan(target.Span(), field.Span()))
}

func (p *Parser) parseSafeFieldExpr(target ast.Expr) ast.Expr {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	field := ast.NewIdent(p.curTok.Raw, p.curTok.Span)
	return ast.NewFieldExpr(target, field, true, mergeSpan(target.Span(), field.Span()))
}

// parseQualifiedName extends a path with `::segment`, and handles the
// turbofish `callee::<T, U>(args)`.
func (p *Parser) parseQualifiedName(left ast.Expr) ast.Expr {
	if p.peekTok.Type == lexer.LT {
		p.nextToken()
		typeArgs, ok := p.parseTypeArgList()
		if !ok {
			return nil
		}
		if !p.expect(lexer.LPAREN) {
			return nil
		}
		return p.parseCallWithTypeArgs(left, typeArgs)
	}

	var segments []*ast.Ident
	switch n := left.(type) {
	case *ast.Ident:
		segments = []*ast.Ident{n}
	case *ast.QualifiedName:
		segments = n.Segments
	default:
		p.reportError("expected path before '::'", left.Span())
		return nil
	}

	if !p.expect(lexer.IDENT) {
		return nil
	}
	segments = append(segments, ast.NewIdent(p.curTok.Raw, p.curTok.Span))

	return ast.NewQualifiedName(segments, mergeSpan(left.Span(), p.curTok.Span))
}

func (p *Parser) parseIncDecPostfix(target ast.Expr) ast.Expr {
	if !isAssignableTarget(target) {
		p.reportError("invalid increment/decrement target", target.Span())
		return nil
	}

	expr := &ast.IncDecExpr{Op: p.curTok.Type, Target: target, Prefix: false}
	expr.SetSpan(mergeSpan(target.Span(), p.curTok.Span))
	return expr
}
