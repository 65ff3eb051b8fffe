package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/interp"
	"github.com/paiml/ruchy-sub011/internal/parser"
	"github.com/paiml/ruchy-sub011/internal/runtime"
	"github.com/paiml/ruchy-sub011/internal/session"
	"github.com/paiml/ruchy-sub011/internal/toolcfg"
	"github.com/paiml/ruchy-sub011/internal/transpiler"
)

const (
	exitOK       = 0
	exitIssue    = 1
	exitUsage    = 2
	exitInternal = 3
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: ruchy <command> [options]\n")
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  parse <file>      Parse a source file and report diagnostics\n")
	fmt.Fprintf(os.Stderr, "  ast <file>        Print the parsed AST\n")
	fmt.Fprintf(os.Stderr, "  check <file>      Syntax-check a source file\n")
	fmt.Fprintf(os.Stderr, "  run <file>        Evaluate a source file\n")
	fmt.Fprintf(os.Stderr, "  transpile <file>  Emit Rust source\n")
	fmt.Fprintf(os.Stderr, "  repl              Start an interactive session\n")
	fmt.Fprintf(os.Stderr, "  -e <expr>         Evaluate an expression and print its value\n")
	fmt.Fprintf(os.Stderr, "\nEvery file argument accepts '-' for stdin.\n")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return exitUsage
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "-e":
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: ruchy -e <expr>")
			return exitUsage
		}
		return evalExpr(rest[0])
	case "parse":
		return withSource(rest, func(src, name, format string) int {
			return parseCmd(src, name, format, false)
		})
	case "ast":
		return withSource(rest, astCmd)
	case "check":
		return withSource(rest, func(src, name, format string) int {
			return parseCmd(src, name, format, true)
		})
	case "run":
		return withSource(rest, runCmd)
	case "transpile":
		return withSource(rest, transpileCmd)
	case "repl":
		return repl()
	case "-h", "--help", "help":
		usage()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
		return exitUsage
	}
}

// withSource handles the shared flag parsing and input reading of the
// file-based subcommands.
func withSource(args []string, f func(src, name, format string) int) int {
	fs := flag.NewFlagSet("ruchy", flag.ContinueOnError)
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one file argument (or '-')")
		return exitUsage
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		return exitUsage
	}

	path := fs.Arg(0)
	src, name, err := readInput(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ruchy: %v\n", err)
		return exitInternal
	}
	return f(src, name, *format)
}

func readInput(path string) (src, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

// reportParseErrors renders diagnostics in the requested format and returns
// whether any were errors.
func reportParseErrors(src, name, format string, errs []parser.ParseError) {
	if format == "json" {
		issues := make([]session.LintIssue, len(errs))
		for i, e := range errs {
			d := e.ToDiagnostic()
			issues[i] = session.LintIssue{
				Line:     d.Span.Line,
				Column:   d.Span.Column,
				Severity: string(d.Severity),
				Rule:     string(d.Code),
				Message:  d.Message,
				Type:     "syntax",
			}
		}
		json.NewEncoder(os.Stdout).Encode(issues)
		return
	}
	formatter := diag.NewFormatter()
	formatter.AddSource(name, src)
	if name != "<stdin>" {
		formatter.AddSource("", src)
	}
	for _, e := range errs {
		formatter.Format(e.ToDiagnostic())
	}
}

func parseSource(src, name string) (*ast.Program, []parser.ParseError) {
	opts := []parser.Option{}
	if name != "<stdin>" {
		opts = append(opts, parser.WithFilename(name))
	}
	p := parser.New(src, opts...)
	program := p.Parse()
	return program, p.Errors()
}

func parseCmd(src, name, format string, quiet bool) int {
	if _, errs := parseSource(src, name); len(errs) > 0 {
		reportParseErrors(src, name, format, errs)
		return exitIssue
	}
	switch {
	case format == "json":
		fmt.Println(`{"ok": true}`)
	case !quiet:
		fmt.Printf("%s: ok\n", name)
	}
	return exitOK
}

func astCmd(src, name, format string) int {
	program, errs := parseSource(src, name)
	if len(errs) > 0 {
		reportParseErrors(src, name, format, errs)
		return exitIssue
	}

	nodes := make([]*dumpNode, len(program.Exprs))
	for i, e := range program.Exprs {
		nodes[i] = dumpExpr(e)
	}
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(nodes)
		return exitOK
	}
	for _, n := range nodes {
		printDump(os.Stdout, n, 0)
	}
	return exitOK
}

func runCmd(src, name, format string) int {
	in := interp.New()
	cfg, err := toolcfg.Discover(".")
	if err == nil {
		in.GCSetThreshold(cfg.Run.GCThreshold)
		in.GCSetAutoCollect(cfg.Run.GCAuto)
	}

	_, err = func() (runtime.Value, error) {
		if name == "<stdin>" {
			return in.EvalString(src)
		}
		return in.EvalFile(src, name)
	}()
	if err != nil {
		reportEvalError(src, name, format, err)
		return exitIssue
	}
	return exitOK
}

func reportEvalError(src, name, format string, err error) {
	var d diag.Diagnostic
	if re, ok := err.(*interp.RuntimeError); ok {
		d = re.ToDiagnostic()
	} else {
		d = diag.Diagnostic{
			Stage:    diag.StageRuntime,
			Severity: diag.SeverityError,
			Code:     diag.CodeRuntimeError,
			Message:  err.Error(),
		}
	}
	if format == "json" {
		json.NewEncoder(os.Stdout).Encode([]session.LintIssue{{
			Line:     d.Span.Line,
			Column:   d.Span.Column,
			Severity: string(d.Severity),
			Rule:     string(d.Code),
			Message:  d.Message,
			Type:     "runtime",
		}})
		return
	}
	formatter := diag.NewFormatter()
	formatter.AddSource(name, src)
	formatter.AddSource("", src)
	formatter.Format(d)
}

func transpileCmd(src, name, format string) int {
	program, errs := parseSource(src, name)
	if len(errs) > 0 {
		reportParseErrors(src, name, format, errs)
		return exitIssue
	}

	out, err := transpiler.New().Transpile(program)
	if err != nil {
		if te, ok := err.(*transpiler.TranspileError); ok {
			formatter := diag.NewFormatter()
			formatter.AddSource(name, src)
			formatter.AddSource("", src)
			formatter.Format(te.ToDiagnostic())
		} else {
			fmt.Fprintf(os.Stderr, "ruchy: %v\n", err)
		}
		return exitIssue
	}

	cfg, cfgErr := toolcfg.Discover(".")
	if cfgErr == nil && cfg.Transpile.Output != "" {
		if err := os.WriteFile(cfg.Transpile.Output, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "ruchy: %v\n", err)
			return exitInternal
		}
		return exitOK
	}
	fmt.Print(out)
	return exitOK
}

func evalExpr(expr string) int {
	in := interp.New()
	v, err := in.EvalString(expr)
	if err != nil {
		reportEvalError(expr, "<expr>", "text", err)
		return exitIssue
	}
	if _, isUnit := v.(runtime.Unit); !isUnit {
		fmt.Println(runtime.Inspect(v))
	}
	return exitOK
}
