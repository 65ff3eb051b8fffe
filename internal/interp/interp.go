package interp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/parser"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// maxCallDepth bounds user-level recursion before a StackOverflow fault.
const maxCallDepth = 5000

// Interpreter is a tree-walking evaluator with persistent session state.
// A single instance is not safe for concurrent use.
type Interpreter struct {
	globals *Scope
	scope   *Scope

	// methods indexes impl-block and class methods by type name.
	methods map[string]map[string]*Closure

	stdout   io.Writer
	captured *bytes.Buffer

	depth int
	gc    *GC
}

// New builds an interpreter with the builtin functions installed in the
// global scope.
func New() *Interpreter {
	in := &Interpreter{
		methods: make(map[string]map[string]*Closure),
		stdout:  os.Stdout,
		gc:      newGC(),
	}
	in.globals = newScope(nil, scopeGlobal)
	in.scope = in.globals
	installBuiltins(in.globals)
	return in
}

// SetStdout redirects interpreter output, replacing any capture in effect.
func (in *Interpreter) SetStdout(w io.Writer) {
	in.stdout = w
	in.captured = nil
}

// CaptureStdout starts buffering interpreter output instead of writing it.
func (in *Interpreter) CaptureStdout() {
	in.captured = &bytes.Buffer{}
}

// GetStdout returns and clears the captured output.
func (in *Interpreter) GetStdout() string {
	if in.captured == nil {
		return ""
	}
	out := in.captured.String()
	in.captured.Reset()
	return out
}

func (in *Interpreter) out() io.Writer {
	if in.captured != nil {
		return in.captured
	}
	return in.stdout
}

// SetVariable binds a mutable variable in the current scope.
func (in *Interpreter) SetVariable(name string, v runtime.Value) {
	in.scope.define(name, v, true)
}

// GetVariable reads a variable visible from the current scope.
func (in *Interpreter) GetVariable(name string) (runtime.Value, bool) {
	c, ok := in.scope.lookup(name)
	if !ok {
		return nil, false
	}
	return c.value, true
}

// PushScope opens a block scope, as between REPL bracket continuations.
func (in *Interpreter) PushScope() {
	in.scope = newScope(in.scope, scopeBlock)
}

// PopScope closes the innermost pushed scope. The global scope stays.
func (in *Interpreter) PopScope() {
	if in.scope.parent != nil {
		in.scope = in.scope.parent
	}
}

// ClearCaches drops memoized state: captured output and GC arenas. Bindings
// survive.
func (in *Interpreter) ClearCaches() {
	if in.captured != nil {
		in.captured.Reset()
	}
	in.gc.clearArenas()
}

// EvalString parses and evaluates source in the current session. The result
// is the value of the last expression.
func (in *Interpreter) EvalString(source string) (runtime.Value, error) {
	return in.evalSource(source, "")
}

// EvalFile is EvalString with a filename attached to diagnostics.
func (in *Interpreter) EvalFile(source, filename string) (runtime.Value, error) {
	return in.evalSource(source, filename)
}

func (in *Interpreter) evalSource(source, filename string) (runtime.Value, error) {
	var opts []parser.Option
	if filename != "" {
		opts = append(opts, parser.WithFilename(filename))
	}
	p := parser.New(source, opts...)
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, parseFailure(errs)
	}
	return in.EvalProgram(program)
}

// EvalProgram evaluates a parsed program, returning the last value.
func (in *Interpreter) EvalProgram(program *ast.Program) (runtime.Value, error) {
	var result runtime.Value = runtime.Unit{}
	for _, expr := range program.Exprs {
		v, err := in.EvalExpr(expr)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// EvalExpr evaluates one expression at the session's current scope. Escaped
// control signals become runtime faults here.
func (in *Interpreter) EvalExpr(expr ast.Expr) (runtime.Value, error) {
	v, err := in.eval(expr, in.scope)
	if err != nil {
		return nil, in.topLevelFault(err, expr.Span())
	}
	return v, nil
}

func (in *Interpreter) topLevelFault(err error, span lexer.Span) error {
	switch sig := err.(type) {
	case returnSignal, breakSignal, continueSignal:
		return errAt(diag.CodeRuntimeError, span, "%s", sig.Error())
	case throwSignal:
		return errAt(diag.CodeRuntimeThrow, span, "uncaught throw: %s",
			runtime.Inspect(sig.value))
	}
	return err
}

func parseFailure(errs []parser.ParseError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
	}
	return fmt.Errorf("parse failed: %s", strings.Join(msgs, "; "))
}

func (in *Interpreter) methodOn(typeName, method string) (*Closure, bool) {
	table, ok := in.methods[typeName]
	if !ok {
		return nil, false
	}
	m, ok := table[method]
	return m, ok
}

func (in *Interpreter) registerMethod(typeName string, m *Closure) {
	table, ok := in.methods[typeName]
	if !ok {
		table = make(map[string]*Closure)
		in.methods[typeName] = table
	}
	table[m.Name] = m
}
