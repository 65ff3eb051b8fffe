package interp

import (
	"fmt"

	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// Non-local control flow travels through the evaluator's error return as
// signal values. Each loop, function, and try frame consumes the signals it
// recognizes and re-raises the rest.

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return outside function" }

type breakSignal struct {
	label string
	value runtime.Value
}

func (s breakSignal) Error() string { return "break outside loop" }

type continueSignal struct {
	label string
}

func (s continueSignal) Error() string { return "continue outside loop" }

type throwSignal struct {
	value runtime.Value
}

func (s throwSignal) Error() string {
	return fmt.Sprintf("uncaught throw: %s", runtime.Inspect(s.value))
}

// RuntimeError is an evaluation fault. Faults are catchable by `try` just
// like thrown values; uncaught they surface to the embedding client.
type RuntimeError struct {
	Code    diag.Code
	Message string
	Span    lexer.Span
}

func (e *RuntimeError) Error() string { return e.Message }

// ToDiagnostic converts the fault for the caret formatter.
func (e *RuntimeError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageRuntime,
		Severity: diag.SeverityError,
		Code:     e.Code,
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

func errAt(code diag.Code, span lexer.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Span: span}
}

func typeError(span lexer.Span, format string, args ...interface{}) *RuntimeError {
	return errAt(diag.CodeRuntimeType, span, format, args...)
}

func nameError(span lexer.Span, name string) *RuntimeError {
	return errAt(diag.CodeRuntimeName, span, "undefined identifier %q", name)
}

// errorValue renders a fault or thrown value for catch-clause binding.
func errorValue(err error) runtime.Value {
	switch e := err.(type) {
	case throwSignal:
		return e.value
	case *RuntimeError:
		return runtime.Str{Val: e.Message}
	}
	return runtime.Str{Val: err.Error()}
}

// catchable reports whether a try block may intercept the error.
func catchable(err error) bool {
	switch err.(type) {
	case throwSignal, *RuntimeError:
		return true
	}
	return false
}
