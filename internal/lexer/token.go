package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune or original string
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Raw   string // exact runes from source
	Value string // decoded value (for strings/chars; same as Raw for others)
	Span  Span   // source location information
}

// CommentKind distinguishes the three comment forms.
type CommentKind int

const (
	CommentLine CommentKind = iota
	CommentBlock
	CommentDoc
)

// Comment is an entry on the lexer's side channel. Text keeps the raw
// comment including its markers so the formatter can round-trip it.
type Comment struct {
	Kind CommentKind
	Text string
	Span Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT     TokenType = "IDENT"     // add, foobar, x, y, ...
	INT       TokenType = "INT"       // 1343456, 0xff, 0o77, 0b1010, 42i64
	FLOAT     TokenType = "FLOAT"     // 3.14, 1e9, 2.5f32
	STRING    TokenType = "STRING"    // "hello"
	RAWSTRING TokenType = "RAWSTRING" // r"no \escapes"
	FSTRING   TokenType = "FSTRING"   // f"x = {x}"
	CHAR      TokenType = "CHAR"      // 'a'
	BYTE      TokenType = "BYTE"      // b'a'
	ATOM      TokenType = "ATOM"      // :name
	LABEL     TokenType = "LABEL"     // 'outer
	COMMAND   TokenType = "COMMAND"   // `ls -la`

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	POWER    TokenType = "**"
	BANG     TokenType = "!"
	TILDE    TokenType = "~"

	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	CARET     TokenType = "^"
	SHL       TokenType = "<<"
	SHR       TokenType = ">>"

	AND TokenType = "&&"
	OR  TokenType = "||"

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	LE     TokenType = "<="
	GT     TokenType = ">"
	GE     TokenType = ">="

	PIPELINE TokenType = "|>"
	QUESTION TokenType = "?"
	SAFE_DOT TokenType = "?."
	SAFE_IDX TokenType = "?["

	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	AMP_ASSIGN      TokenType = "&="
	PIPE_ASSIGN     TokenType = "|="
	CARET_ASSIGN    TokenType = "^="
	SHL_ASSIGN      TokenType = "<<="
	SHR_ASSIGN      TokenType = ">>="

	INCREMENT TokenType = "++"
	DECREMENT TokenType = "--"

	// Delimiters
	DOT          TokenType = "."
	RANGE        TokenType = ".."
	RANGE_EQ     TokenType = "..="
	ELLIPSIS     TokenType = "..."
	COMMA        TokenType = ","
	SEMICOLON    TokenType = ";"
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	AT           TokenType = "@"
	BACKSLASH    TokenType = "\\"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	ARROW    TokenType = "->"
	FATARROW TokenType = "=>"

	// Keywords
	LET      TokenType = "LET"
	MUT      TokenType = "MUT"
	VAR      TokenType = "VAR"
	CONST    TokenType = "CONST"
	FUN      TokenType = "FUN"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	MATCH    TokenType = "MATCH"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	IN       TokenType = "IN"
	LOOP     TokenType = "LOOP"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	RETURN   TokenType = "RETURN"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NIL      TokenType = "NIL"
	STRUCT   TokenType = "STRUCT"
	ENUM     TokenType = "ENUM"
	TRAIT    TokenType = "TRAIT"
	IMPL     TokenType = "IMPL"
	CLASS    TokenType = "CLASS"
	TYPE     TokenType = "TYPE"
	MODULE   TokenType = "MODULE"
	IMPORT   TokenType = "IMPORT"
	EXPORT   TokenType = "EXPORT"
	FROM     TokenType = "FROM"
	AS       TokenType = "AS"
	TRY      TokenType = "TRY"
	CATCH    TokenType = "CATCH"
	FINALLY  TokenType = "FINALLY"
	THROW    TokenType = "THROW"
	ASYNC    TokenType = "ASYNC"
	AWAIT    TokenType = "AWAIT"
	SPAWN    TokenType = "SPAWN"
	ACTOR    TokenType = "ACTOR"
	ON       TokenType = "ON"
	ASK      TokenType = "ASK"
	PUB      TokenType = "PUB"
	UNSAFE   TokenType = "UNSAFE"
	LAZY     TokenType = "LAZY"
)

var keywords = map[string]TokenType{
	"let":      LET,
	"mut":      MUT,
	"var":      VAR,
	"const":    CONST,
	"fun":      FUN,
	"fn":       FUN, // both spellings are accepted
	"if":       IF,
	"else":     ELSE,
	"match":    MATCH,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"loop":     LOOP,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
	"null":     NIL,
	"struct":   STRUCT,
	"enum":     ENUM,
	"trait":    TRAIT,
	"impl":     IMPL,
	"class":    CLASS,
	"type":     TYPE,
	"mod":      MODULE,
	"module":   MODULE,
	"import":   IMPORT,
	"export":   EXPORT,
	"from":     FROM,
	"as":       AS,
	"try":      TRY,
	"catch":    CATCH,
	"finally":  FINALLY,
	"throw":    THROW,
	"async":    ASYNC,
	"await":    AWAIT,
	"spawn":    SPAWN,
	"actor":    ACTOR,
	"on":       ON,
	"ask":      ASK,
	"pub":      PUB,
	"unsafe":   UNSAFE,
	"lazy":     LAZY,
}

// LookupIdent maps an identifier to its keyword token type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// endsOperand reports whether a token of this type can end an operand. The
// lexer consults the previous token to disambiguate `:atom` from the `:` in
// `name: value` and `cond ? a : b`.
func endsOperand(tt TokenType) bool {
	switch tt {
	case IDENT, INT, FLOAT, STRING, RAWSTRING, FSTRING, CHAR, BYTE, ATOM,
		TRUE, FALSE, NIL, RPAREN, RBRACKET, RBRACE, COMMAND:
		return true
	default:
		return false
	}
}
