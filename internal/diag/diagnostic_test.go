package diag

import (
	"strings"
	"testing"
)

func TestSpanString(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{Filename: "main.ruchy", Line: 3, Column: 7}, "main.ruchy:3:7"},
		{Span{Line: 1, Column: 1}, "1:1"},
	}

	for _, tt := range tests {
		if got := tt.span.String(); got != tt.want {
			t.Errorf("Span.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSpanIsValid(t *testing.T) {
	if (Span{}).IsValid() {
		t.Error("zero span should not be valid")
	}
	if !(Span{Line: 1, Column: 1}).IsValid() {
		t.Error("1:1 span should be valid")
	}
}

func TestDiagnosticBuilders(t *testing.T) {
	d := Diagnostic{
		Stage:    StageParser,
		Severity: SeverityError,
		Code:     CodeParseUnexpectedToken,
		Message:  "unexpected token",
	}

	d = d.WithSuggestion("insert ';'").WithNote("statements end at newlines").WithHelp("try adding a semicolon")

	if d.Suggestion != "insert ';'" {
		t.Errorf("suggestion not applied: %q", d.Suggestion)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(d.Notes))
	}
	if d.Help == "" {
		t.Error("help not applied")
	}
}

func TestFormatterExcerpt(t *testing.T) {
	var sb strings.Builder
	f := NewPlainFormatter(&sb)
	f.AddSource("demo.ruchy", "let x = ;\nlet y = 2")

	f.Format(Diagnostic{
		Stage:    StageParser,
		Severity: SeverityError,
		Code:     CodeParseUnexpectedToken,
		Message:  "expected expression",
		Span:     Span{Filename: "demo.ruchy", Line: 1, Column: 9, Start: 8, End: 9},
		Expected: []string{"expression"},
		Found:    "';'",
	})

	out := sb.String()
	if !strings.Contains(out, "error[PARSE_UNEXPECTED_TOKEN]: expected expression") {
		t.Errorf("missing header in output:\n%s", out)
	}
	if !strings.Contains(out, "demo.ruchy:1:9") {
		t.Errorf("missing location in output:\n%s", out)
	}
	if !strings.Contains(out, "let x = ;") {
		t.Errorf("missing source line in output:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret in output:\n%s", out)
	}
	if !strings.Contains(out, "expected expression, found ';'") {
		t.Errorf("missing hint in output:\n%s", out)
	}
}

func TestFormatterWithoutSource(t *testing.T) {
	var sb strings.Builder
	f := NewPlainFormatter(&sb)

	f.Format(Diagnostic{
		Severity: SeverityWarning,
		Message:  "shadowed binding",
		Span:     Span{Filename: "missing.ruchy", Line: 2, Column: 1},
	})

	out := sb.String()
	if !strings.Contains(out, "warning: shadowed binding") {
		t.Errorf("missing fallback header:\n%s", out)
	}
	if !strings.Contains(out, "missing.ruchy:2:1") {
		t.Errorf("missing fallback location:\n%s", out)
	}
}
