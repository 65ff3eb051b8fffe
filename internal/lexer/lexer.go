package lexer

import (
	"strconv"
	"unicode"

	"github.com/paiml/ruchy-sub011/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedChar
	ErrUnterminatedBlockComment
	ErrUnterminatedCommand
	ErrInvalidEscape
	ErrInvalidNumber
	ErrIllegalRune
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedChar:
		return diag.CodeLexerUnterminatedChar
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrUnterminatedCommand:
		return diag.CodeLexerUnterminatedCommand
	case ErrInvalidEscape:
		return diag.CodeLexerInvalidEscape
	case ErrInvalidNumber:
		return diag.CodeLexerInvalidNumber
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer turns source text into a token stream. Comments never become tokens;
// they accumulate on the Comments side channel in source order so a post-pass
// can attach them to AST nodes.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	prevType TokenType // type of the last emitted token, for `:atom` disambiguation

	Comments []Comment
	Errors   []LexerError
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// SetFilename attributes all subsequent spans to the provided filename.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// read advances the lexer to the next rune, keeping line/column in step.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.ch = 0 // EOF
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// peek2 returns the rune two positions ahead without advancing.
func (l *Lexer) peek2() rune {
	if l.pos+2 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+2]
}

func (l *Lexer) spanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos, endPos int, raw, value string) Token {
	return Token{
		Type:  tokType,
		Raw:   raw,
		Value: value,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.read()
	}
}

// emit records the token type for operand tracking and returns the token.
func (l *Lexer) emit(tok Token) Token {
	l.prevType = tok.Type
	return tok
}

// op emits a token for the next n runes of punctuation.
func (l *Lexer) op(tokType TokenType, n int) Token {
	startLine, startColumn, startPos := l.spanStart()
	var raw []rune
	for i := 0; i < n; i++ {
		raw = append(raw, l.ch)
		l.read()
	}
	s := string(raw)
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, s, s)
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		switch l.ch {
		case 0:
			startLine, startColumn, startPos := l.spanStart()
			if startColumn == 0 {
				startColumn = 1
			}
			return l.emit(l.makeToken(EOF, startLine, startColumn, startPos, startPos, "", ""))

		case '=':
			switch l.peek() {
			case '=':
				return l.emit(l.op(EQ, 2))
			case '>':
				return l.emit(l.op(FATARROW, 2))
			}
			return l.emit(l.op(ASSIGN, 1))

		case '+':
			switch l.peek() {
			case '=':
				return l.emit(l.op(PLUS_ASSIGN, 2))
			case '+':
				return l.emit(l.op(INCREMENT, 2))
			}
			return l.emit(l.op(PLUS, 1))

		case '-':
			switch l.peek() {
			case '>':
				return l.emit(l.op(ARROW, 2))
			case '=':
				return l.emit(l.op(MINUS_ASSIGN, 2))
			case '-':
				return l.emit(l.op(DECREMENT, 2))
			}
			return l.emit(l.op(MINUS, 1))

		case '*':
			switch l.peek() {
			case '*':
				return l.emit(l.op(POWER, 2))
			case '=':
				return l.emit(l.op(ASTERISK_ASSIGN, 2))
			}
			return l.emit(l.op(ASTERISK, 1))

		case '/':
			switch l.peek() {
			case '/':
				l.readLineComment()
				continue
			case '*':
				l.readBlockComment()
				continue
			case '=':
				return l.emit(l.op(SLASH_ASSIGN, 2))
			}
			return l.emit(l.op(SLASH, 1))

		case '%':
			if l.peek() == '=' {
				return l.emit(l.op(PERCENT_ASSIGN, 2))
			}
			return l.emit(l.op(PERCENT, 1))

		case '!':
			if l.peek() == '=' {
				return l.emit(l.op(NOT_EQ, 2))
			}
			return l.emit(l.op(BANG, 1))

		case '~':
			return l.emit(l.op(TILDE, 1))

		case '&':
			switch l.peek() {
			case '&':
				return l.emit(l.op(AND, 2))
			case '=':
				return l.emit(l.op(AMP_ASSIGN, 2))
			}
			return l.emit(l.op(AMPERSAND, 1))

		case '|':
			switch l.peek() {
			case '|':
				return l.emit(l.op(OR, 2))
			case '>':
				return l.emit(l.op(PIPELINE, 2))
			case '=':
				return l.emit(l.op(PIPE_ASSIGN, 2))
			}
			return l.emit(l.op(PIPE, 1))

		case '^':
			if l.peek() == '=' {
				return l.emit(l.op(CARET_ASSIGN, 2))
			}
			return l.emit(l.op(CARET, 1))

		case '<':
			switch l.peek() {
			case '=':
				return l.emit(l.op(LE, 2))
			case '<':
				if l.peek2() == '=' {
					return l.emit(l.op(SHL_ASSIGN, 3))
				}
				return l.emit(l.op(SHL, 2))
			}
			return l.emit(l.op(LT, 1))

		case '>':
			switch l.peek() {
			case '=':
				return l.emit(l.op(GE, 2))
			case '>':
				if l.peek2() == '=' {
					return l.emit(l.op(SHR_ASSIGN, 3))
				}
				return l.emit(l.op(SHR, 2))
			}
			return l.emit(l.op(GT, 1))

		case '?':
			switch l.peek() {
			case '.':
				return l.emit(l.op(SAFE_DOT, 2))
			case '[':
				return l.emit(l.op(SAFE_IDX, 2))
			}
			return l.emit(l.op(QUESTION, 1))

		case '.':
			if l.peek() == '.' {
				switch l.peek2() {
				case '=':
					return l.emit(l.op(RANGE_EQ, 3))
				case '.':
					return l.emit(l.op(ELLIPSIS, 3))
				}
				return l.emit(l.op(RANGE, 2))
			}
			return l.emit(l.op(DOT, 1))

		case ':':
			if l.peek() == ':' {
				return l.emit(l.op(DOUBLE_COLON, 2))
			}
			// `:name` is an atom in expression position. After an operand the
			// colon separates (field: value, ternary, annotations).
			if isLetter(l.peek()) && !endsOperand(l.prevType) {
				return l.emit(l.readAtom())
			}
			return l.emit(l.op(COLON, 1))

		case ',':
			return l.emit(l.op(COMMA, 1))
		case ';':
			return l.emit(l.op(SEMICOLON, 1))
		case '@':
			return l.emit(l.op(AT, 1))
		case '\\':
			return l.emit(l.op(BACKSLASH, 1))

		case '(':
			return l.emit(l.op(LPAREN, 1))
		case ')':
			return l.emit(l.op(RPAREN, 1))
		case '{':
			return l.emit(l.op(LBRACE, 1))
		case '}':
			return l.emit(l.op(RBRACE, 1))
		case '[':
			return l.emit(l.op(LBRACKET, 1))
		case ']':
			return l.emit(l.op(RBRACKET, 1))

		case '"':
			return l.emit(l.readString(STRING))

		case '\'':
			return l.emit(l.readCharOrLabel())

		case '`':
			return l.emit(l.readCommand())

		default:
			if isLetter(l.ch) {
				return l.emit(l.readIdentOrPrefixed())
			}
			if isDigit(l.ch) {
				return l.emit(l.readNumber())
			}

			startLine, startColumn, startPos := l.spanStart()
			raw := string(l.ch)
			l.read()
			tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
			l.addError(ErrIllegalRune, "illegal character "+strconv.Quote(raw), tok.Span)
			return tok
		}
	}
}

// readIdentOrPrefixed reads an identifier, keyword, or one of the prefixed
// literal forms r"...", f"...", b'...'.
func (l *Lexer) readIdentOrPrefixed() Token {
	startLine, startColumn, startPos := l.spanStart()

	// Single-letter prefixes bind to an immediately following quote.
	if l.peek() == '"' && (l.ch == 'r' || l.ch == 'f') {
		prefix := l.ch
		l.read() // consume prefix, now at '"'
		var tok Token
		if prefix == 'r' {
			tok = l.readRawString(startLine, startColumn, startPos)
		} else {
			tok = l.readFString(startLine, startColumn, startPos)
		}
		return tok
	}
	if l.ch == 'b' && l.peek() == '\'' {
		l.read() // consume 'b', now at quote
		return l.readByte(startLine, startColumn, startPos)
	}

	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	literal := string(l.input[startPos:l.pos])
	return l.makeToken(LookupIdent(literal), startLine, startColumn, startPos, l.pos, literal, literal)
}

func (l *Lexer) readAtom() Token {
	startLine, startColumn, startPos := l.spanStart()
	l.read() // consume ':'
	nameStart := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	name := string(l.input[nameStart:l.pos])
	raw := ":" + name
	return l.makeToken(ATOM, startLine, startColumn, startPos, l.pos, raw, name)
}

func (l *Lexer) readLineComment() {
	startLine, startColumn, startPos := l.spanStart()

	kind := CommentLine
	if l.peek2() == '/' {
		kind = CommentDoc
	}

	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.read()
	}

	l.Comments = append(l.Comments, Comment{
		Kind: kind,
		Text: string(l.input[startPos:l.pos]),
		Span: Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
	})
}

func (l *Lexer) readBlockComment() {
	startLine, startColumn, startPos := l.spanStart()
	l.read() // consume '/'
	l.read() // consume '*'

	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(
				ErrUnterminatedBlockComment,
				"unterminated block comment",
				Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			break
		}
		if l.ch == '/' && l.peek() == '*' {
			l.read()
			l.read()
			depth++
		} else if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			depth--
		} else {
			l.read()
		}
	}

	l.Comments = append(l.Comments, Comment{
		Kind: CommentBlock,
		Text: string(l.input[startPos:l.pos]),
		Span: Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
	})
}

// decodeEscape decodes the escape sequence at l.ch (just past the backslash).
// It reports invalid escapes but keeps lexing.
func (l *Lexer) decodeEscape(startLine, startColumn, startPos int) rune {
	ch := l.ch
	l.read()
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '\'':
		return '\''
	case 'u':
		// \u{XXXX}
		if l.ch != '{' {
			break
		}
		l.read()
		digitStart := l.pos
		for isHexDigit(l.ch) {
			l.read()
		}
		digits := string(l.input[digitStart:l.pos])
		if l.ch == '}' && digits != "" {
			l.read()
			if n, err := strconv.ParseInt(digits, 16, 32); err == nil {
				return rune(n)
			}
		}
	}
	l.addError(
		ErrInvalidEscape,
		"invalid escape sequence '\\"+string(ch)+"'",
		Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
	)
	return ch
}

func (l *Lexer) readString(tokType TokenType) Token {
	startLine, startColumn, startPos := l.spanStart()
	l.read() // consume opening quote

	var decoded []rune
	for {
		switch {
		case l.ch == 0, l.ch == '\n', l.ch == '\r':
			span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
			l.addError(ErrUnterminatedString, "unterminated string literal", span)
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, string(decoded))
		case l.ch == '"':
			l.read() // consume closing quote
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, string(decoded))
		case l.ch == '\\':
			l.read()
			decoded = append(decoded, l.decodeEscape(startLine, startColumn, startPos))
		default:
			decoded = append(decoded, l.ch)
			l.read()
		}
	}
}

// readRawString reads r"..." with no escape processing. The caller has
// consumed the prefix; l.ch is the opening quote.
func (l *Lexer) readRawString(startLine, startColumn, startPos int) Token {
	l.read() // consume opening quote
	contentStart := l.pos
	for l.ch != '"' {
		if l.ch == 0 {
			span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
			l.addError(ErrUnterminatedString, "unterminated raw string literal", span)
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, "")
		}
		l.read()
	}
	value := string(l.input[contentStart:l.pos])
	l.read() // consume closing quote
	raw := string(l.input[startPos:l.pos])
	return l.makeToken(RAWSTRING, startLine, startColumn, startPos, l.pos, raw, value)
}

// readFString reads f"..." decoding escapes but leaving `{...}` segments in
// place; the parser re-scans them as expressions. `{{` and `}}` decode to
// literal braces.
func (l *Lexer) readFString(startLine, startColumn, startPos int) Token {
	l.read() // consume opening quote

	var decoded []rune
	depth := 0
	for {
		switch {
		case l.ch == 0, (l.ch == '\n' || l.ch == '\r') && depth == 0:
			span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
			l.addError(ErrUnterminatedString, "unterminated string interpolation literal", span)
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, string(decoded))
		case l.ch == '"' && depth == 0:
			l.read()
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(FSTRING, startLine, startColumn, startPos, l.pos, raw, string(decoded))
		case l.ch == '{':
			if depth == 0 && l.peek() == '{' {
				decoded = append(decoded, '{', '{')
				l.read()
				l.read()
				continue
			}
			depth++
			decoded = append(decoded, l.ch)
			l.read()
		case l.ch == '}':
			if depth == 0 && l.peek() == '}' {
				decoded = append(decoded, '}', '}')
				l.read()
				l.read()
				continue
			}
			if depth > 0 {
				depth--
			}
			decoded = append(decoded, l.ch)
			l.read()
		case l.ch == '\\' && depth == 0:
			l.read()
			decoded = append(decoded, l.decodeEscape(startLine, startColumn, startPos))
		default:
			decoded = append(decoded, l.ch)
			l.read()
		}
	}
}

// readCharOrLabel reads 'x' (a char literal) or 'name (a loop label).
func (l *Lexer) readCharOrLabel() Token {
	startLine, startColumn, startPos := l.spanStart()

	// Scan ahead: if ident runes follow the quote and no closing quote
	// terminates them, this is a label.
	if isLetter(l.peek()) {
		i := l.pos + 1
		for i < len(l.input) && (isLetter(l.input[i]) || isDigit(l.input[i])) {
			i++
		}
		if i >= len(l.input) || l.input[i] != '\'' {
			l.read() // consume quote
			nameStart := l.pos
			for isLetter(l.ch) || isDigit(l.ch) {
				l.read()
			}
			name := string(l.input[nameStart:l.pos])
			raw := "'" + name
			return l.makeToken(LABEL, startLine, startColumn, startPos, l.pos, raw, name)
		}
	}

	return l.readQuotedRune(CHAR, startLine, startColumn, startPos)
}

// readByte reads the quoted part of b'x'. The caller consumed the prefix.
func (l *Lexer) readByte(startLine, startColumn, startPos int) Token {
	return l.readQuotedRune(BYTE, startLine, startColumn, startPos)
}

func (l *Lexer) readQuotedRune(tokType TokenType, startLine, startColumn, startPos int) Token {
	l.read() // consume opening quote

	var value rune
	switch l.ch {
	case 0, '\n', '\r':
		span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
		l.addError(ErrUnterminatedChar, "unterminated character literal", span)
		raw := string(l.input[startPos:l.pos])
		return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, "")
	case '\\':
		l.read()
		value = l.decodeEscape(startLine, startColumn, startPos)
	default:
		value = l.ch
		l.read()
	}

	if l.ch != '\'' {
		span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
		l.addError(ErrUnterminatedChar, "unterminated character literal", span)
		raw := string(l.input[startPos:l.pos])
		return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, string(value))
	}
	l.read() // consume closing quote

	raw := string(l.input[startPos:l.pos])
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, string(value))
}

// readCommand reads a `prog args` command literal verbatim.
func (l *Lexer) readCommand() Token {
	startLine, startColumn, startPos := l.spanStart()
	l.read() // consume opening backtick

	contentStart := l.pos
	for l.ch != '`' {
		if l.ch == 0 {
			span := Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: l.pos}
			l.addError(ErrUnterminatedCommand, "unterminated command literal", span)
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, "")
		}
		l.read()
	}
	value := string(l.input[contentStart:l.pos])
	l.read() // consume closing backtick
	raw := string(l.input[startPos:l.pos])
	return l.makeToken(COMMAND, startLine, startColumn, startPos, l.pos, raw, value)
}

// numericSuffixes are the type suffixes a numeric literal may carry.
var numericSuffixes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true,
	"usize": true, "isize": true,
}

// readNumber reads a numeric literal: decimal, 0x/0o/0b bases, floats with
// exponents, `_` separators, and an optional type suffix.
func (l *Lexer) readNumber() Token {
	startLine, startColumn, startPos := l.spanStart()
	tokType := INT

	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.read()
		l.read()
		digits := 0
		for isHexDigit(l.ch) || l.ch == '_' {
			if l.ch != '_' {
				digits++
			}
			l.read()
		}
		if digits == 0 {
			l.numberError(startLine, startColumn, startPos, "hexadecimal literal has no digits")
		}
		return l.finishNumber(INT, startLine, startColumn, startPos)
	}

	if l.ch == '0' && (l.peek() == 'o' || l.peek() == 'O') {
		l.read()
		l.read()
		digits := 0
		for (l.ch >= '0' && l.ch <= '7') || l.ch == '_' {
			if l.ch != '_' {
				digits++
			}
			l.read()
		}
		if digits == 0 {
			l.numberError(startLine, startColumn, startPos, "octal literal has no digits")
		}
		return l.finishNumber(INT, startLine, startColumn, startPos)
	}

	if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.read()
		l.read()
		digits := 0
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			if l.ch != '_' {
				digits++
			}
			l.read()
		}
		if digits == 0 {
			l.numberError(startLine, startColumn, startPos, "binary literal has no digits")
		}
		return l.finishNumber(INT, startLine, startColumn, startPos)
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.read()
	}

	// A '.' continues a float only when a digit follows; `1..5` is a range.
	if l.ch == '.' && isDigit(l.peek()) {
		tokType = FLOAT
		l.read()
		for isDigit(l.ch) || l.ch == '_' {
			l.read()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		// Exponent only when digits (or a signed digit) follow; otherwise the
		// 'e' starts a suffix or identifier.
		next := l.peek()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek2())) {
			tokType = FLOAT
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
	}

	return l.finishNumber(tokType, startLine, startColumn, startPos)
}

// finishNumber consumes an optional type suffix and produces the token.
func (l *Lexer) finishNumber(tokType TokenType, startLine, startColumn, startPos int) Token {
	if isLetter(l.ch) {
		suffixStart := l.pos
		for isLetter(l.ch) || isDigit(l.ch) {
			l.read()
		}
		suffix := string(l.input[suffixStart:l.pos])
		if !numericSuffixes[suffix] {
			l.numberError(startLine, startColumn, startPos, "invalid numeric suffix '"+suffix+"'")
		} else if suffix[0] == 'f' {
			tokType = FLOAT
		}
	}

	literal := string(l.input[startPos:l.pos])
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, literal, literal)
}

func (l *Lexer) numberError(startLine, startColumn, startPos int, msg string) {
	l.addError(ErrInvalidNumber, msg, Span{
		Filename: l.filename,
		Line:     startLine,
		Column:   startColumn,
		Start:    startPos,
		End:      l.pos,
	})
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}
