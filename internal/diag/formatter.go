package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

var severityStyles = map[Severity]*pterm.Style{
	SeverityError:   pterm.NewStyle(pterm.FgRed, pterm.Bold),
	SeverityWarning: pterm.NewStyle(pterm.FgYellow, pterm.Bold),
	SeverityNote:    pterm.NewStyle(pterm.FgCyan),
}

// Formatter renders diagnostics in a Rust-style format with source excerpts.
type Formatter struct {
	out         io.Writer
	color       bool
	sourceCache map[string]string
}

// NewFormatter creates a formatter that writes to stderr with colors enabled.
func NewFormatter() *Formatter {
	return &Formatter{
		out:         os.Stderr,
		color:       true,
		sourceCache: make(map[string]string),
	}
}

// NewPlainFormatter creates a formatter without color, writing to w.
// Tests and --format=json callers use this to keep output stable.
func NewPlainFormatter(w io.Writer) *Formatter {
	return &Formatter{
		out:         w,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers source text for a filename so excerpts can be printed
// without touching the filesystem. The REPL registers its input under "".
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return "", nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format renders a diagnostic, with a source excerpt and caret when the span
// resolves into known source text.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	src, err := f.LoadSource(d.Span.Filename)
	if err != nil || src == "" || !d.Span.IsValid() {
		if d.Span.IsValid() {
			fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
		}
		f.printHints(d)
		return
	}

	f.printExcerpt(src, d)
	f.printHints(d)
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	label := severity
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}
	if f.color {
		if style, ok := severityStyles[Severity(severity)]; ok {
			label = style.Sprint(label)
		}
	}

	fmt.Fprintf(f.out, "%s: %s\n", label, d.Message)
}

func (f *Formatter) printExcerpt(src string, d Diagnostic) {
	lines := strings.Split(src, "\n")
	lineNum := d.Span.Line
	if lineNum < 1 || lineNum > len(lines) {
		return
	}
	lineContent := lines[lineNum-1]

	lineNumWidth := len(fmt.Sprintf("%d", lineNum))
	gutter := strings.Repeat(" ", lineNumWidth)

	fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
	fmt.Fprintf(f.out, "   %s |\n", gutter)
	fmt.Fprintf(f.out, " %*d | %s\n", lineNumWidth, lineNum, lineContent)

	width := d.Span.End - d.Span.Start
	if width < 1 {
		width = 1
	}
	col := d.Span.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(lineContent) {
		col = len(lineContent)
	}
	if col+width > len(lineContent)+1 {
		width = len(lineContent) + 1 - col
		if width < 1 {
			width = 1
		}
	}

	caret := strings.Repeat(" ", col) + strings.Repeat("^", width)
	if f.color {
		caret = severityStyles[SeverityError].Sprint(caret)
	}
	fmt.Fprintf(f.out, "   %s | %s\n", gutter, caret)
	fmt.Fprintf(f.out, "   %s |\n", gutter)
}

func (f *Formatter) printHints(d Diagnostic) {
	if len(d.Expected) > 0 {
		primary := d.Expected[0]
		if d.Found != "" {
			fmt.Fprintf(f.out, "  = expected %s, found %s\n", primary, d.Found)
		} else {
			fmt.Fprintf(f.out, "  = expected %s\n", primary)
		}
		for _, alt := range d.Expected[1:] {
			fmt.Fprintf(f.out, "  = note: also valid here: %s\n", alt)
		}
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}

	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	} else if d.Suggestion != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Suggestion)
	}
}
