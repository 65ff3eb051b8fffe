package parser

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Precedence levels, lowest to highest. Assignment, ternary, and power are
// right-associative; their infix handlers reparse at prec-1.
const (
	precedenceLowest = iota
	precedenceAssign
	precedenceTernary
	precedencePipeline
	precedenceRange
	precedenceOr
	precedenceAnd
	precedenceBitOr
	precedenceBitXor
	precedenceBitAnd
	precedenceEquality
	precedenceComparison
	precedenceShift
	precedenceSum
	precedenceProduct
	precedencePower
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:          precedenceAssign,
	lexer.PLUS_ASSIGN:     precedenceAssign,
	lexer.MINUS_ASSIGN:    precedenceAssign,
	lexer.ASTERISK_ASSIGN: precedenceAssign,
	lexer.SLASH_ASSIGN:    precedenceAssign,
	lexer.PERCENT_ASSIGN:  precedenceAssign,
	lexer.AMP_ASSIGN:      precedenceAssign,
	lexer.PIPE_ASSIGN:     precedenceAssign,
	lexer.CARET_ASSIGN:    precedenceAssign,
	lexer.SHL_ASSIGN:      precedenceAssign,
	lexer.SHR_ASSIGN:      precedenceAssign,

	lexer.QUESTION: precedenceTernary,
	lexer.BANG:     precedencePipeline, // actor send `a ! m`
	lexer.PIPELINE: precedencePipeline,

	lexer.RANGE:    precedenceRange,
	lexer.RANGE_EQ: precedenceRange,

	lexer.OR:        precedenceOr,
	lexer.AND:       precedenceAnd,
	lexer.PIPE:      precedenceBitOr,
	lexer.CARET:     precedenceBitXor,
	lexer.AMPERSAND: precedenceBitAnd,

	lexer.EQ:     precedenceEquality,
	lexer.NOT_EQ: precedenceEquality,
	lexer.LT:     precedenceComparison,
	lexer.LE:     precedenceComparison,
	lexer.GT:     precedenceComparison,
	lexer.GE:     precedenceComparison,
	lexer.SHL:    precedenceShift,
	lexer.SHR:    precedenceShift,

	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.POWER:    precedencePower,

	lexer.LPAREN:       precedencePostfix,
	lexer.LBRACKET:     precedencePostfix,
	lexer.SAFE_IDX:     precedencePostfix,
	lexer.DOT:          precedencePostfix,
	lexer.SAFE_DOT:     precedencePostfix,
	lexer.DOUBLE_COLON: precedencePostfix,
	lexer.INCREMENT:    precedencePostfix,
	lexer.DECREMENT:    precedencePostfix,
	lexer.LBRACE:       precedencePostfix, // struct literals
}

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Code     diag.Code
	Severity diag.Severity
	Expected []string
	Found    string
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	sev := e.Severity
	if sev == "" {
		sev = diag.SeverityError
	}
	code := e.Code
	if code == "" {
		code = diag.CodeParseUnexpectedToken
	}
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: sev,
		Code:     code,
		Message:  e.Message,
		Expected: e.Expected,
		Found:    e.Found,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Parser implements a Pratt-style recursive descent parser.
//
// Invariants:
//   - Lookahead: curTok always reflects the token currently under
//     examination; peekTok mirrors the next token pulled from the lexer. The
//     pair forms the parser's sole lookahead window and is only mutated via
//     nextToken.
//   - Diagnostics: errors is an append-only accumulator of recoverable
//     diagnostics. Callers consult Errors() after Parse; the first entry is
//     the primary error.
//   - Spans: AST node spans are composed via mergeSpan so that tail.End is
//     never less than head.End.
type Parser struct {
	lx      *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token

	errors []ParseError

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	// noStruct suppresses `Name { ... }` struct literals while parsing
	// a construct whose body brace would otherwise be swallowed
	// (if/while/for/match headers).
	noStruct bool

	// labels is the stack of enclosing loop labels, innermost last.
	// loopDepth counts enclosing loops so bare break/continue can be
	// validated at parse time; both reset inside function bodies.
	labels    []string
	loopDepth int
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:        lexer.New(input),
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
		filename:  cfg.filename,
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.RAWSTRING, p.parseRawStringLiteral)
	p.registerPrefix(lexer.FSTRING, p.parseInterpLiteral)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.BYTE, p.parseByteLiteral)
	p.registerPrefix(lexer.ATOM, p.parseAtomLiteral)
	p.registerPrefix(lexer.COMMAND, p.parseCommandLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.NIL, p.parseNilLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpr)
	p.registerPrefix(lexer.TILDE, p.parsePrefixExpr)
	p.registerPrefix(lexer.ASTERISK, p.parsePrefixExpr)
	p.registerPrefix(lexer.AMPERSAND, p.parsePrefixExpr)
	p.registerPrefix(lexer.INCREMENT, p.parseIncDecPrefix)
	p.registerPrefix(lexer.DECREMENT, p.parseIncDecPrefix)
	p.registerPrefix(lexer.LPAREN, p.parseParenExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseBraceConstruct)
	p.registerPrefix(lexer.PIPE, p.parseLambdaPipes)
	p.registerPrefix(lexer.OR, p.parseLambdaEmptyPipes)
	p.registerPrefix(lexer.BACKSLASH, p.parseLambdaBackslash)
	p.registerPrefix(lexer.RANGE, p.parseOpenRange)
	p.registerPrefix(lexer.RANGE_EQ, p.parseOpenRange)
	p.registerPrefix(lexer.ELLIPSIS, p.parseSpreadExpr)
	p.registerPrefix(lexer.IF, p.parseIfExpr)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpr)
	p.registerPrefix(lexer.WHILE, p.parseWhileExpr)
	p.registerPrefix(lexer.FOR, p.parseForExpr)
	p.registerPrefix(lexer.LOOP, p.parseLoopExpr)
	p.registerPrefix(lexer.LABEL, p.parseLabeledLoop)
	p.registerPrefix(lexer.BREAK, p.parseBreakExpr)
	p.registerPrefix(lexer.CONTINUE, p.parseContinueExpr)
	p.registerPrefix(lexer.RETURN, p.parseReturnExpr)
	p.registerPrefix(lexer.TRY, p.parseTryExpr)
	p.registerPrefix(lexer.THROW, p.parseThrowExpr)
	p.registerPrefix(lexer.LET, p.parseLetExpr)
	p.registerPrefix(lexer.VAR, p.parseVarExpr)
	p.registerPrefix(lexer.CONST, p.parseConstExpr)
	p.registerPrefix(lexer.FUN, p.parseFunExpr)
	p.registerPrefix(lexer.PUB, p.parsePubExpr)
	p.registerPrefix(lexer.ASYNC, p.parseAsyncExpr)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExpr)
	p.registerPrefix(lexer.SPAWN, p.parseSpawnExpr)
	p.registerPrefix(lexer.LAZY, p.parseLazyExpr)
	p.registerPrefix(lexer.UNSAFE, p.parseUnsafeBlock)
	p.registerPrefix(lexer.STRUCT, p.parseStructDef)
	p.registerPrefix(lexer.ENUM, p.parseEnumDef)
	p.registerPrefix(lexer.TRAIT, p.parseTraitDef)
	p.registerPrefix(lexer.IMPL, p.parseImplBlock)
	p.registerPrefix(lexer.CLASS, p.parseClassDef)
	p.registerPrefix(lexer.TYPE, p.parseTypeAlias)
	p.registerPrefix(lexer.MODULE, p.parseModuleDef)
	p.registerPrefix(lexer.IMPORT, p.parseImportExpr)
	p.registerPrefix(lexer.FROM, p.parseFromImport)
	p.registerPrefix(lexer.EXPORT, p.parseExportExpr)
	p.registerPrefix(lexer.ACTOR, p.parseActorDef)
	p.registerPrefix(lexer.ASK, p.parseAskKeyword)

	p.registerInfix(lexer.ASSIGN, p.parseAssignExpr)
	p.registerInfix(lexer.PLUS_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.MINUS_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.ASTERISK_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.SLASH_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.PERCENT_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.AMP_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.PIPE_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.CARET_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.SHL_ASSIGN, p.parseCompoundAssignExpr)
	p.registerInfix(lexer.SHR_ASSIGN, p.parseCompoundAssignExpr)

	p.registerInfix(lexer.QUESTION, p.parseQuestionInfix)
	p.registerInfix(lexer.PIPELINE, p.parsePipelineExpr)
	p.registerInfix(lexer.BANG, p.parseSendExpr)
	p.registerInfix(lexer.RANGE, p.parseRangeExpr)
	p.registerInfix(lexer.RANGE_EQ, p.parseRangeExpr)

	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT,
		lexer.AND, lexer.OR, lexer.PIPE, lexer.CARET, lexer.AMPERSAND,
		lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.LE, lexer.GT, lexer.GE,
		lexer.SHL, lexer.SHR,
	} {
		p.registerInfix(tt, p.parseInfixExpr)
	}
	p.registerInfix(lexer.POWER, p.parsePowerExpr)

	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.SAFE_IDX, p.parseSafeIndexExpr)
	p.registerInfix(lexer.DOT, p.parseFieldOrMethod)
	p.registerInfix(lexer.SAFE_DOT, p.parseSafeFieldExpr)
	p.registerInfix(lexer.DOUBLE_COLON, p.parseQualifiedName)
	p.registerInfix(lexer.INCREMENT, p.parseIncDecPostfix)
	p.registerInfix(lexer.DECREMENT, p.parseIncDecPostfix)
	p.registerInfix(lexer.LBRACE, p.parseStructLiteral)

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns all recoverable parse errors that were encountered,
// including any lexer errors, in source order.
func (p *Parser) Errors() []ParseError {
	var all []ParseError
	for _, le := range p.lx.Errors {
		all = append(all, ParseError{
			Message:  le.Message,
			Span:     le.Span,
			Code:     le.ToDiagnostic().Code,
			Severity: diag.SeverityError,
		})
	}
	return append(all, p.errors...)
}

// Comments returns the lexer's comment side channel.
func (p *Parser) Comments() []lexer.Comment {
	return p.lx.Comments
}

// Parse parses a full program and returns its AST. The returned program may
// be partial when Errors() is non-empty; partial ASTs are suitable for
// tooling but must not be evaluated.
func (p *Parser) Parse() *ast.Program {
	program := ast.NewProgram(nil, p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		prevTok := p.curTok

		expr := p.parseStatement()
		if expr != nil {
			program.Exprs = append(program.Exprs, expr)
			program.SetSpan(mergeSpan(program.Span(), expr.Span()))
			p.consumeTerminator(expr)
			continue
		}

		if p.curTok.Type == lexer.EOF {
			break
		}

		p.recoverStatement(prevTok)
	}

	program.SetSpan(mergeSpan(program.Span(), p.curTok.Span))

	attachComments(program, p.lx.Comments)

	return program
}

// parseStatement parses one block-level expression, including any leading
// decorator attributes.
func (p *Parser) parseStatement() ast.Expr {
	attrs := p.parseAttributes()

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	if len(attrs) > 0 {
		if setter, ok := expr.(interface{ SetAttributes([]*ast.Attribute) }); ok {
			setter.SetAttributes(attrs)
		}
	}

	return expr
}

// parseAttributes parses a leading run of `@name` / `@name(args)` decorators.
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute

	for p.curTok.Type == lexer.AT {
		start := p.curTok.Span

		if !p.expect(lexer.IDENT) {
			return attrs
		}
		name := p.curTok.Raw
		span := mergeSpan(start, p.curTok.Span)

		var args []ast.Expr
		if p.peekTok.Type == lexer.LPAREN && p.peekTok.Span.Start == p.curTok.Span.End {
			p.nextToken() // move to '('
			p.nextToken()
			if p.curTok.Type != lexer.RPAREN {
				res, ok := parseDelimited[ast.Expr](p, delimitedConfig{
					Closing:             lexer.RPAREN,
					Separator:           lexer.COMMA,
					AllowTrailing:       true,
					MissingElementMsg:   "expected expression in attribute arguments",
					MissingSeparatorMsg: "expected ',' or ')' in attribute arguments",
				}, func(int) (ast.Expr, bool) {
					arg := p.parseExpr()
					if arg == nil {
						return nil, false
					}
					return arg, true
				})
				if !ok {
					return attrs
				}
				args = res.Items
			} else {
				// Empty argument list.
			}
			span = mergeSpan(span, p.curTok.Span)
		}

		attrs = append(attrs, ast.NewAttribute(name, args, p.spanWithFilename(span)))
		p.nextToken()
	}

	return attrs
}

// consumeTerminator advances past the just-parsed expression and consumes an
// explicit `;`, or accepts a newline boundary. Anything else on the same line
// is an error.
func (p *Parser) consumeTerminator(last ast.Expr) {
	p.nextToken()

	if p.curTok.Type == lexer.SEMICOLON {
		p.nextToken()
		return
	}
	if p.curTok.Type == lexer.EOF || p.curTok.Type == lexer.RBRACE {
		return
	}
	if last != nil && p.curTok.Span.Line > endLine(last.Span()) {
		return
	}
	p.reportExpected("';' or newline", p.curTok)
	p.nextToken()
}

// endLine approximates the line on which a span ends. Spans record the line
// of their start; multi-line constructs end on or after it, so a following
// token on a strictly greater line is always a safe boundary.
func endLine(span lexer.Span) int {
	return span.Line
}

// nextToken advances the parser's token window.
// Contract: after calling nextToken, curTok == old(peekTok). The lexer is
// only queried from this hop to keep lookahead bookkeeping centralized.
func (p *Parser) nextToken() {
	if p.lx == nil {
		p.curTok = p.peekTok
		p.peekTok = lexer.Token{}
		return
	}

	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
}

// expect asserts that the peek token matches the provided type. On success it
// promotes peekTok into curTok; expect never rewinds.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportExpected("'"+string(tt)+"'", p.peekTok)
	return false
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

// reportError records a recoverable diagnostic without aborting parsing.
func (p *Parser) reportError(msg string, span lexer.Span) {
	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     p.spanWithFilename(span),
		Severity: diag.SeverityError,
	})
}

func (p *Parser) reportErrorCode(code diag.Code, msg string, span lexer.Span) {
	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     p.spanWithFilename(span),
		Code:     code,
		Severity: diag.SeverityError,
	})
}

// reportExpected records an expected/found diagnostic at the given token.
func (p *Parser) reportExpected(expected string, found lexer.Token) {
	foundDesc := "'" + found.Raw + "'"
	if found.Type == lexer.EOF {
		foundDesc = "end of input"
	}
	p.errors = append(p.errors, ParseError{
		Message:  "expected " + expected,
		Span:     p.spanWithFilename(found.Span),
		Severity: diag.SeverityError,
		Expected: []string{expected},
		Found:    foundDesc,
	})
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixFns[tokenType] = fn
}

func sameTokenPosition(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}

// recoverStatement performs panic-mode recovery: skip to the next statement
// boundary so later statements still produce diagnostics.
func (p *Parser) recoverStatement(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	startLine := p.curTok.Span.Line
	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			return
		}
		if p.curTok.Span.Line > startLine {
			return
		}
		p.nextToken()
	}
}

// pushLabel/popLabel maintain the enclosing-loop label stack used to resolve
// break/continue targets at parse time.
func (p *Parser) pushLabel(label string) {
	p.labels = append(p.labels, label)
}

func (p *Parser) popLabel() {
	p.labels = p.labels[:len(p.labels)-1]
}

func (p *Parser) labelInScope(label string) bool {
	for _, l := range p.labels {
		if l == label {
			return true
		}
	}
	return false
}

// mergeSpan returns a span covering both inputs, assuming start begins no
// later than end. The parser relies on lexer spans being half-open.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if span.Line == 0 && end.Line != 0 {
		span.Line = end.Line
		span.Column = end.Column
		span.Start = end.Start
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}
