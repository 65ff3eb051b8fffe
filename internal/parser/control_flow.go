package parser

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// enterFunctionScope resets loop context while parsing a function or lambda
// body, so a bare `break` inside a function cannot target an outer loop.
// The returned func restores the previous context.
func (p *Parser) enterFunctionScope() func() {
	savedLabels := p.labels
	savedDepth := p.loopDepth
	p.labels = nil
	p.loopDepth = 0
	return func() {
		p.labels = savedLabels
		p.loopDepth = savedDepth
	}
}

// enterLoop registers an enclosing loop, with an optional label.
func (p *Parser) enterLoop(label string) func() {
	p.loopDepth++
	if label != "" {
		p.pushLabel(label)
	}
	return func() {
		p.loopDepth--
		if label != "" {
			p.popLabel()
		}
	}
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.LET {
		return p.parseIfLetExpr(start)
	}

	p.nextToken()
	cond := p.parseExprNoStruct()
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}

	els := p.parseElseTail()
	span := mergeSpan(start, then.Span())
	if els != nil {
		span = mergeSpan(start, els.Span())
	}
	return ast.NewIfExpr(cond, then, els, span)
}

// parseElseTail parses an optional `else { ... }` or `else if ...` chain.
func (p *Parser) parseElseTail() ast.Expr {
	if p.peekTok.Type != lexer.ELSE {
		return nil
	}
	p.nextToken()

	if p.peekTok.Type == lexer.IF {
		p.nextToken()
		return p.parseIfExpr()
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	return p.parseBlock()
}

func (p *Parser) parseIfLetExpr(start lexer.Span) ast.Expr {
	p.nextToken() // onto `let`
	p.nextToken()

	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	value := p.parseExprNoStruct()
	if value == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}

	els := p.parseElseTail()

	expr := &ast.IfLetExpr{Pattern: pat, Value: value, Then: then, Else: els}
	span := mergeSpan(start, then.Span())
	if els != nil {
		span = mergeSpan(start, els.Span())
	}
	expr.SetSpan(span)
	return expr
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	subject := p.parseExprNoStruct()
	if subject == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	var arms []*ast.MatchArm
	for {
		p.nextToken()
		if p.curTok.Type == lexer.RBRACE {
			break
		}
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'}'", p.curTok)
			return nil
		}

		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		arms = append(arms, arm)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if len(arms) == 0 {
		p.reportError("match expression has no arms", mergeSpan(start, p.curTok.Span))
	}

	return ast.NewMatchExpr(subject, arms, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	armStart := p.curTok.Span

	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	var guard ast.Expr
	if p.peekTok.Type == lexer.IF {
		p.nextToken()
		p.nextToken()
		guard = p.parseExprNoStruct()
		if guard == nil {
			return nil
		}
	}

	if !p.expect(lexer.FATARROW) {
		return nil
	}
	p.nextToken()

	body := p.parseExpr()
	if body == nil {
		return nil
	}

	return ast.NewMatchArm(pat, guard, body, mergeSpan(armStart, body.Span()))
}

// parseLabeledLoop parses `'label: loop-expr`.
func (p *Parser) parseLabeledLoop() ast.Expr {
	label := p.curTok.Value
	start := p.curTok.Span

	if !p.expect(lexer.COLON) {
		return nil
	}

	var expr ast.Expr
	switch p.peekTok.Type {
	case lexer.WHILE:
		p.nextToken()
		expr = p.parseWhileWithLabel(label)
	case lexer.FOR:
		p.nextToken()
		expr = p.parseForWithLabel(label)
	case lexer.LOOP:
		p.nextToken()
		expr = p.parseLoopWithLabel(label)
	default:
		p.reportExpected("'while', 'for', or 'loop' after label", p.peekTok)
		return nil
	}

	if expr == nil {
		return nil
	}
	if setter, ok := expr.(interface{ SetSpan(lexer.Span) }); ok {
		setter.SetSpan(mergeSpan(start, expr.Span()))
	}
	return expr
}

func (p *Parser) parseWhileExpr() ast.Expr {
	return p.parseWhileWithLabel("")
}

func (p *Parser) parseWhileWithLabel(label string) ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.LET {
		return p.parseWhileLetExpr(start, label)
	}

	p.nextToken()
	cond := p.parseExprNoStruct()
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	leave := p.enterLoop(label)
	body := p.parseBlock()
	leave()
	if body == nil {
		return nil
	}

	expr := &ast.WhileExpr{Label: label, Cond: cond, Body: body}
	expr.SetSpan(mergeSpan(start, body.Span()))
	return expr
}

func (p *Parser) parseWhileLetExpr(start lexer.Span, label string) ast.Expr {
	p.nextToken() // onto `let`
	p.nextToken()

	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	value := p.parseExprNoStruct()
	if value == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	leave := p.enterLoop(label)
	body := p.parseBlock()
	leave()
	if body == nil {
		return nil
	}

	expr := &ast.WhileLetExpr{Label: label, Pattern: pat, Value: value, Body: body}
	expr.SetSpan(mergeSpan(start, body.Span()))
	return expr
}

func (p *Parser) parseForExpr() ast.Expr {
	return p.parseForWithLabel("")
}

func (p *Parser) parseForWithLabel(label string) ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	if !p.expect(lexer.IN) {
		return nil
	}
	p.nextToken()

	iter := p.parseExprNoStruct()
	if iter == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	leave := p.enterLoop(label)
	body := p.parseBlock()
	leave()
	if body == nil {
		return nil
	}

	expr := &ast.ForExpr{Label: label, Pattern: pat, Iter: iter, Body: body}
	expr.SetSpan(mergeSpan(start, body.Span()))
	return expr
}

func (p *Parser) parseLoopExpr() ast.Expr {
	return p.parseLoopWithLabel("")
}

func (p *Parser) parseLoopWithLabel(label string) ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	leave := p.enterLoop(label)
	body := p.parseBlock()
	leave()
	if body == nil {
		return nil
	}

	expr := &ast.LoopExpr{Label: label, Body: body}
	expr.SetSpan(mergeSpan(start, body.Span()))
	return expr
}

func (p *Parser) parseBreakExpr() ast.Expr {
	start := p.curTok.Span

	var label string
	if p.peekTok.Type == lexer.LABEL {
		p.nextToken()
		label = p.curTok.Value
		if !p.labelInScope(label) {
			p.reportErrorCode(diag.CodeParseUnresolvedLabel,
				"break references undefined label '"+label+"'", p.curTok.Span)
		}
	} else if p.loopDepth == 0 {
		p.reportErrorCode(diag.CodeParseUnresolvedLabel, "break outside of a loop", start)
	}

	var value ast.Expr
	if p.canStartExpr(p.peekTok.Type) && p.peekTok.Span.Line == p.curTok.Span.Line &&
		p.peekTok.Type != lexer.SEMICOLON {
		p.nextToken()
		value = p.parseExpr()
		if value == nil {
			return nil
		}
	}

	expr := &ast.BreakExpr{Label: label, Value: value}
	span := mergeSpan(start, p.curTok.Span)
	if value != nil {
		span = mergeSpan(start, value.Span())
	}
	expr.SetSpan(span)
	return expr
}

func (p *Parser) parseContinueExpr() ast.Expr {
	start := p.curTok.Span

	var label string
	if p.peekTok.Type == lexer.LABEL {
		p.nextToken()
		label = p.curTok.Value
		if !p.labelInScope(label) {
			p.reportErrorCode(diag.CodeParseUnresolvedLabel,
				"continue references undefined label '"+label+"'", p.curTok.Span)
		}
	} else if p.loopDepth == 0 {
		p.reportErrorCode(diag.CodeParseUnresolvedLabel, "continue outside of a loop", start)
	}

	expr := &ast.ContinueExpr{Label: label}
	expr.SetSpan(mergeSpan(start, p.curTok.Span))
	return expr
}

func (p *Parser) parseReturnExpr() ast.Expr {
	start := p.curTok.Span

	var value ast.Expr
	if p.canStartExpr(p.peekTok.Type) && p.peekTok.Span.Line == p.curTok.Span.Line {
		p.nextToken()
		value = p.parseExpr()
		if value == nil {
			return nil
		}
	}

	expr := &ast.ReturnExpr{Value: value}
	span := mergeSpan(start, p.curTok.Span)
	if value != nil {
		span = mergeSpan(start, value.Span())
	}
	expr.SetSpan(span)
	return expr
}

func (p *Parser) parseThrowExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	value := p.parseExpr()
	if value == nil {
		return nil
	}

	expr := &ast.ThrowExpr{Value: value}
	expr.SetSpan(mergeSpan(start, value.Span()))
	return expr
}

func (p *Parser) parseTryExpr() ast.Expr {
	start := p.curTok.Span

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	expr := &ast.TryCatchExpr{Body: body}

	for p.peekTok.Type == lexer.CATCH {
		p.nextToken()
		clauseStart := p.curTok.Span

		p.nextToken()
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}

		if !p.expect(lexer.LBRACE) {
			return nil
		}
		clauseBody := p.parseBlock()
		if clauseBody == nil {
			return nil
		}

		expr.Catches = append(expr.Catches,
			ast.NewCatchClause(pat, clauseBody, mergeSpan(clauseStart, clauseBody.Span())))
	}

	if p.peekTok.Type == lexer.FINALLY {
		p.nextToken()
		if !p.expect(lexer.LBRACE) {
			return nil
		}
		fin := p.parseBlock()
		if fin == nil {
			return nil
		}
		expr.Finally = fin
	}

	if len(expr.Catches) == 0 && expr.Finally == nil {
		p.reportExpected("'catch' or 'finally' after try block", p.peekTok)
		return nil
	}

	expr.SetSpan(mergeSpan(start, p.curTok.Span))
	return expr
}
