package lexer

import (
	"testing"
)

func TestNextToken_Basic(t *testing.T) {
	input := `let x = 10;`

	tests := []struct {
		expectedType TokenType
		expectedRaw  string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "10"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Raw != tt.expectedRaw {
			t.Fatalf("tests[%d] - raw wrong. expected=%q, got=%q",
				i, tt.expectedRaw, tok.Raw)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	input := `+ - * / % ** == != < <= > >= && || ! ~ & | ^ << >> |> ?. ?[ ? += -= *= /= %= &= |= ^= <<= >>= ++ -- .. ..= ... :: -> => @`

	expected := []TokenType{
		PLUS, MINUS, ASTERISK, SLASH, PERCENT, POWER,
		EQ, NOT_EQ, LT, LE, GT, GE,
		AND, OR, BANG, TILDE,
		AMPERSAND, PIPE, CARET, SHL, SHR,
		PIPELINE, SAFE_DOT, SAFE_IDX, QUESTION,
		PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN,
		AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN, SHL_ASSIGN, SHR_ASSIGN,
		INCREMENT, DECREMENT,
		RANGE, RANGE_EQ, ELLIPSIS, DOUBLE_COLON, ARROW, FATARROW, AT,
		EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d - expected %q, got %q (%q)", i, want, tok.Type, tok.Raw)
		}
	}
}

func TestNextToken_NumericLiterals(t *testing.T) {
	tests := []struct {
		input        string
		expectedType TokenType
		expectedRaw  string
	}{
		{"42", INT, "42"},
		{"1_000_000", INT, "1_000_000"},
		{"0xFF", INT, "0xFF"},
		{"0o77", INT, "0o77"},
		{"0b1010", INT, "0b1010"},
		{"3.14", FLOAT, "3.14"},
		{"1e9", FLOAT, "1e9"},
		{"2.5e-3", FLOAT, "2.5e-3"},
		{"42i64", INT, "42i64"},
		{"255u8", INT, "255u8"},
		{"1f64", FLOAT, "1f64"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Errorf("%q - expected type %q, got %q", tt.input, tt.expectedType, tok.Type)
		}
		if tok.Raw != tt.expectedRaw {
			t.Errorf("%q - expected raw %q, got %q", tt.input, tt.expectedRaw, tok.Raw)
		}
		if len(l.Errors) != 0 {
			t.Errorf("%q - unexpected lexer errors: %v", tt.input, l.Errors)
		}
	}
}

func TestNextToken_RangeIsNotFloat(t *testing.T) {
	l := New("1..5")

	expected := []struct {
		typ TokenType
		raw string
	}{
		{INT, "1"},
		{RANGE, ".."},
		{INT, "5"},
		{EOF, ""},
	}

	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ || tok.Raw != want.raw {
			t.Fatalf("token %d - expected (%q, %q), got (%q, %q)", i, want.typ, want.raw, tok.Type, tok.Raw)
		}
	}
}

func TestNextToken_StringVariants(t *testing.T) {
	tests := []struct {
		input         string
		expectedType  TokenType
		expectedValue string
	}{
		{`"hello"`, STRING, "hello"},
		{`"a\nb"`, STRING, "a\nb"},
		{`"tab\there"`, STRING, "tab\there"},
		{`r"no \escapes"`, RAWSTRING, `no \escapes`},
		{`f"x = {x}"`, FSTRING, "x = {x}"},
		{`f"{a} and {b:03}"`, FSTRING, "{a} and {b:03}"},
		{`'a'`, CHAR, "a"},
		{`'\n'`, CHAR, "\n"},
		{`b'z'`, BYTE, "z"},
		{"`ls -la`", COMMAND, "ls -la"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Errorf("%q - expected type %q, got %q", tt.input, tt.expectedType, tok.Type)
			continue
		}
		if tok.Value != tt.expectedValue {
			t.Errorf("%q - expected value %q, got %q", tt.input, tt.expectedValue, tok.Value)
		}
		if len(l.Errors) != 0 {
			t.Errorf("%q - unexpected lexer errors: %v", tt.input, l.Errors)
		}
	}
}

func TestNextToken_AtomsAndColons(t *testing.T) {
	// `:ok` in expression position is an atom; after an operand the colon is
	// a plain separator.
	l := New(`f(:ok); let x: i32 = m ? a : b`)

	expected := []struct {
		typ   TokenType
		value string
	}{
		{IDENT, "f"},
		{LPAREN, "("},
		{ATOM, "ok"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{LET, "let"},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "i32"},
		{ASSIGN, "="},
		{IDENT, "m"},
		{QUESTION, "?"},
		{IDENT, "a"},
		{COLON, ":"},
		{IDENT, "b"},
		{EOF, ""},
	}

	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ {
			t.Fatalf("token %d - expected %q, got %q (%q)", i, want.typ, tok.Type, tok.Raw)
		}
		if tok.Value != want.value {
			t.Fatalf("token %d - expected value %q, got %q", i, want.value, tok.Value)
		}
	}
}

func TestNextToken_LabelsVsChars(t *testing.T) {
	l := New(`'outer: loop { break 'outer }; 'x'`)

	expected := []TokenType{
		LABEL, COLON, LOOP, LBRACE, BREAK, LABEL, RBRACE, SEMICOLON, CHAR, EOF,
	}

	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d - expected %q, got %q (%q)", i, want, tok.Type, tok.Raw)
		}
	}
}

func TestCommentsSideChannel(t *testing.T) {
	input := "// leading\nlet x = 1 // trailing\n/* block */ /// doc\nlet y = 2"

	l := New(input)
	for tok := l.NextToken(); tok.Type != EOF; tok = l.NextToken() {
	}

	if len(l.Comments) != 4 {
		t.Fatalf("expected 4 comments, got %d: %v", len(l.Comments), l.Comments)
	}

	kinds := []CommentKind{CommentLine, CommentLine, CommentBlock, CommentDoc}
	texts := []string{"// leading", "// trailing", "/* block */", "/// doc"}
	for i, c := range l.Comments {
		if c.Kind != kinds[i] {
			t.Errorf("comment %d - expected kind %v, got %v", i, kinds[i], c.Kind)
		}
		if c.Text != texts[i] {
			t.Errorf("comment %d - expected text %q, got %q", i, texts[i], c.Text)
		}
	}
}

func TestNestedBlockComments(t *testing.T) {
	l := New("/* outer /* inner */ still outer */ let")

	tok := l.NextToken()
	if tok.Type != LET {
		t.Fatalf("expected LET after nested comment, got %q", tok.Type)
	}
	if len(l.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors)
	}
	if len(l.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(l.Comments))
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  LexerErrorKind
	}{
		{`"unterminated`, ErrUnterminatedString},
		{`'a`, ErrUnterminatedChar},
		{"/* never closed", ErrUnterminatedBlockComment},
		{"`no end", ErrUnterminatedCommand},
		{`"bad \q escape"`, ErrInvalidEscape},
		{"0x", ErrInvalidNumber},
		{"12zz", ErrInvalidNumber},
		{"\x03", ErrIllegalRune},
	}

	for _, tt := range tests {
		l := New(tt.input)
		for tok := l.NextToken(); tok.Type != EOF; tok = l.NextToken() {
		}
		if len(l.Errors) == 0 {
			t.Errorf("%q - expected a lexer error, got none", tt.input)
			continue
		}
		if l.Errors[0].Kind != tt.kind {
			t.Errorf("%q - expected error kind %v, got %v (%s)", tt.input, tt.kind, l.Errors[0].Kind, l.Errors[0].Message)
		}
	}
}

func TestSpanTracking(t *testing.T) {
	l := New("let x = 1\nlet y = 2")
	l.SetFilename("spans.ruchy")

	var tokens []Token
	for tok := l.NextToken(); tok.Type != EOF; tok = l.NextToken() {
		tokens = append(tokens, tok)
	}

	// `y` is on line 2, column 5.
	y := tokens[5]
	if y.Raw != "y" {
		t.Fatalf("expected token 5 to be y, got %q", y.Raw)
	}
	if y.Span.Line != 2 || y.Span.Column != 5 {
		t.Errorf("y span = %d:%d, want 2:5", y.Span.Line, y.Span.Column)
	}
	if y.Span.Filename != "spans.ruchy" {
		t.Errorf("y filename = %q", y.Span.Filename)
	}

	for _, tok := range tokens {
		if tok.Span.Start > tok.Span.End {
			t.Errorf("token %q has inverted span %d..%d", tok.Raw, tok.Span.Start, tok.Span.End)
		}
	}
}
