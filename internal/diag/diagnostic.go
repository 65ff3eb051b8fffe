package diag

import "fmt"

// Stage identifies which phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageRuntime   Stage = "runtime"
	StageTranspile Stage = "transpile"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString       Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedChar         Code = "LEXER_UNTERMINATED_CHAR"
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerUnterminatedCommand      Code = "LEXER_UNTERMINATED_COMMAND"
	CodeLexerInvalidEscape            Code = "LEXER_INVALID_ESCAPE"
	CodeLexerInvalidNumber            Code = "LEXER_INVALID_NUMBER"
	CodeLexerIllegalRune              Code = "LEXER_ILLEGAL_RUNE"

	// Parser errors
	CodeParseUnexpectedToken  Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseUnresolvedLabel  Code = "PARSE_UNRESOLVED_LABEL"
	CodeParseInvalidPattern   Code = "PARSE_INVALID_PATTERN"
	CodeParseInvalidAssign    Code = "PARSE_INVALID_ASSIGN"
	CodeParseDuplicateBinding Code = "PARSE_DUPLICATE_BINDING"

	// Runtime errors
	CodeRuntimeError         Code = "RUNTIME_ERROR"
	CodeRuntimeType          Code = "RUNTIME_TYPE_ERROR"
	CodeRuntimeName          Code = "RUNTIME_NAME_ERROR"
	CodeRuntimeArity         Code = "RUNTIME_ARITY_ERROR"
	CodeRuntimeDivideByZero  Code = "RUNTIME_DIVISION_BY_ZERO"
	CodeRuntimeIndex         Code = "RUNTIME_INDEX_OUT_OF_BOUNDS"
	CodeRuntimePattern       Code = "RUNTIME_PATTERN_MISMATCH"
	CodeRuntimeNonExhaustive Code = "RUNTIME_NON_EXHAUSTIVE_MATCH"
	CodeRuntimeStackOverflow Code = "RUNTIME_STACK_OVERFLOW"
	CodeRuntimeThrow         Code = "RUNTIME_UNCAUGHT_THROW"

	// Transpiler errors
	CodeTranspileUnsupported Code = "TRANSPILE_UNSUPPORTED_CONSTRUCT"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a problem surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span

	// Expected holds the parser's token hints. Expected[0] is the primary
	// expectation; any further entries render as secondary hints.
	Expected []string
	Found    string

	Suggestion string
	Notes      []string
	Help       string
}

// WithSuggestion returns a new diagnostic with the given suggestion.
func (d Diagnostic) WithSuggestion(suggestion string) Diagnostic {
	d.Suggestion = suggestion
	return d
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
