package interp

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// bindPattern matches a value in irrefutable position and defines the
// pattern's bindings in the scope. A failed match is a fault.
func (in *Interpreter) bindPattern(pat ast.Pattern, v runtime.Value, sc *Scope, mutable bool) error {
	bindings, ok, err := runtime.Match(pat, v)
	if err != nil {
		return errAt(diag.CodeRuntimeError, pat.Span(), "%s", err.Error())
	}
	if !ok {
		return errAt(diag.CodeRuntimePattern, pat.Span(),
			"pattern does not match %s value %s", v.Type(), runtime.Inspect(v))
	}
	for name, bound := range bindings {
		sc.define(name, bound, mutable)
	}
	return nil
}

func (in *Interpreter) evalIf(e *ast.IfExpr, sc *Scope) (runtime.Value, error) {
	cond, err := in.eval(e.Cond, sc)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return in.evalBlock(e.Then, newScope(sc, scopeBlock))
	}
	if e.Else != nil {
		return in.eval(e.Else, sc)
	}
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalIfLet(e *ast.IfLetExpr, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}
	bindings, ok, err := runtime.Match(e.Pattern, v)
	if err != nil {
		return nil, errAt(diag.CodeRuntimeError, e.Pattern.Span(), "%s", err.Error())
	}
	if ok {
		inner := newScope(sc, scopeBlock)
		for name, bound := range bindings {
			inner.define(name, bound, false)
		}
		return in.evalBlock(e.Then, inner)
	}
	if e.Else != nil {
		return in.eval(e.Else, sc)
	}
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalMatch(e *ast.MatchExpr, sc *Scope) (runtime.Value, error) {
	subject, err := in.eval(e.Subject, sc)
	if err != nil {
		return nil, err
	}

	for _, arm := range e.Arms {
		bindings, ok, err := runtime.Match(arm.Pattern, subject)
		if err != nil {
			return nil, errAt(diag.CodeRuntimeError, arm.Pattern.Span(), "%s", err.Error())
		}
		if !ok {
			continue
		}
		inner := newScope(sc, scopeBlock)
		for name, bound := range bindings {
			inner.define(name, bound, false)
		}
		if arm.Guard != nil {
			pass, err := in.eval(arm.Guard, inner)
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(pass) {
				continue
			}
		}
		return in.eval(arm.Body, inner)
	}
	return nil, errAt(diag.CodeRuntimeNonExhaustive, e.Span(),
		"no match arm matched %s", runtime.Inspect(subject))
}

// loopExit interprets a signal escaping a loop body. done reports that the
// loop should stop, returning value; when err is non-nil the signal belongs
// to an outer frame.
func loopExit(err error, label string) (value runtime.Value, done bool, out error) {
	switch sig := err.(type) {
	case breakSignal:
		if sig.label == "" || sig.label == label {
			v := sig.value
			if v == nil {
				v = runtime.Unit{}
			}
			return v, true, nil
		}
	case continueSignal:
		if sig.label == "" || sig.label == label {
			return nil, false, nil
		}
	}
	return nil, true, err
}

func (in *Interpreter) evalWhile(e *ast.WhileExpr, sc *Scope) (runtime.Value, error) {
	for {
		cond, err := in.eval(e.Cond, sc)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.Unit{}, nil
		}
		if _, err := in.evalBlock(e.Body, newScope(sc, scopeBlock)); err != nil {
			v, done, err := loopExit(err, e.Label)
			if err != nil {
				return nil, err
			}
			if done {
				return v, nil
			}
		}
	}
}

func (in *Interpreter) evalWhileLet(e *ast.WhileLetExpr, sc *Scope) (runtime.Value, error) {
	for {
		v, err := in.eval(e.Value, sc)
		if err != nil {
			return nil, err
		}
		bindings, ok, err := runtime.Match(e.Pattern, v)
		if err != nil {
			return nil, errAt(diag.CodeRuntimeError, e.Pattern.Span(), "%s", err.Error())
		}
		if !ok {
			return runtime.Unit{}, nil
		}
		inner := newScope(sc, scopeBlock)
		for name, bound := range bindings {
			inner.define(name, bound, false)
		}
		if _, err := in.evalBlock(e.Body, inner); err != nil {
			v, done, err := loopExit(err, e.Label)
			if err != nil {
				return nil, err
			}
			if done {
				return v, nil
			}
		}
	}
}

func (in *Interpreter) evalFor(e *ast.ForExpr, sc *Scope) (runtime.Value, error) {
	iterable, err := in.eval(e.Iter, sc)
	if err != nil {
		return nil, err
	}
	next, err := in.iterator(iterable, e.Iter.Span())
	if err != nil {
		return nil, err
	}

	for {
		item, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return runtime.Unit{}, nil
		}
		inner := newScope(sc, scopeBlock)
		if err := in.bindPattern(e.Pattern, item, inner, false); err != nil {
			return nil, err
		}
		if _, err := in.evalBlock(e.Body, inner); err != nil {
			v, done, err := loopExit(err, e.Label)
			if err != nil {
				return nil, err
			}
			if done {
				return v, nil
			}
		}
	}
}

func (in *Interpreter) evalLoop(e *ast.LoopExpr, sc *Scope) (runtime.Value, error) {
	for {
		if _, err := in.evalBlock(e.Body, newScope(sc, scopeBlock)); err != nil {
			v, done, err := loopExit(err, e.Label)
			if err != nil {
				return nil, err
			}
			if done {
				return v, nil
			}
		}
	}
}

// iterator builds a pull-style cursor over any iterable value. Container
// contents are snapshotted so mutation during iteration stays defined.
func (in *Interpreter) iterator(v runtime.Value, span lexer.Span) (func() (runtime.Value, bool, error), error) {
	fromSlice := func(items []runtime.Value) func() (runtime.Value, bool, error) {
		i := 0
		return func() (runtime.Value, bool, error) {
			if i >= len(items) {
				return nil, false, nil
			}
			item := items[i]
			i++
			return item, true, nil
		}
	}

	switch it := v.(type) {
	case runtime.Range:
		cur := it.Start
		end := it.End
		if it.Inclusive {
			end++
		}
		return func() (runtime.Value, bool, error) {
			if cur >= end {
				return nil, false, nil
			}
			item := runtime.Integer{Val: cur}
			cur++
			return item, true, nil
		}, nil
	case *runtime.Array:
		return fromSlice(append([]runtime.Value(nil), it.Elems...)), nil
	case *runtime.Tuple:
		return fromSlice(it.Elems), nil
	case runtime.Str:
		runes := []rune(it.Val)
		items := make([]runtime.Value, len(runes))
		for i, r := range runes {
			items[i] = runtime.Char{Val: r}
		}
		return fromSlice(items), nil
	case *runtime.Set:
		var items []runtime.Value
		it.Members(func(m runtime.Value) bool {
			items = append(items, m)
			return true
		})
		return fromSlice(items), nil
	case *runtime.Dict:
		var items []runtime.Value
		it.Entries(func(key, val runtime.Value) bool {
			items = append(items, &runtime.Tuple{Elems: []runtime.Value{key, val}})
			return true
		})
		return fromSlice(items), nil
	case *runtime.Object:
		// Custom iterator protocol: repeated next() yielding Some(v)/None.
		if m, ok := in.methodOn(it.TypeName, "next"); ok {
			bound := *m
			bound.Self = it
			return func() (runtime.Value, bool, error) {
				v, err := in.callClosure(&bound, nil, span)
				if err != nil {
					return nil, false, err
				}
				variant, ok := v.(*runtime.EnumVariant)
				if !ok {
					return nil, false, typeError(span, "next() must return Some or None, got %s", v.Type())
				}
				switch variant.Variant {
				case "Some":
					if len(variant.Payload) != 1 {
						return nil, false, typeError(span, "Some must carry one value")
					}
					return variant.Payload[0], true, nil
				case "None":
					return nil, false, nil
				}
				return nil, false, typeError(span, "next() must return Some or None, got %s", v.Display())
			}, nil
		}
	}
	return nil, typeError(span, "%s is not iterable", v.Type())
}

func (in *Interpreter) evalBreak(e *ast.BreakExpr, sc *Scope) (runtime.Value, error) {
	var v runtime.Value
	if e.Value != nil {
		val, err := in.eval(e.Value, sc)
		if err != nil {
			return nil, err
		}
		v = val
	}
	return nil, breakSignal{label: e.Label, value: v}
}

func (in *Interpreter) evalReturn(e *ast.ReturnExpr, sc *Scope) (runtime.Value, error) {
	var v runtime.Value = runtime.Unit{}
	if e.Value != nil {
		val, err := in.eval(e.Value, sc)
		if err != nil {
			return nil, err
		}
		v = val
	}
	return nil, returnSignal{value: v}
}

func (in *Interpreter) evalThrow(e *ast.ThrowExpr, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}
	return nil, throwSignal{value: v}
}

func (in *Interpreter) evalTryCatch(e *ast.TryCatchExpr, sc *Scope) (runtime.Value, error) {
	result, err := in.evalBlock(e.Body, newScope(sc, scopeBlock))

	if err != nil && catchable(err) {
		thrown := errorValue(err)
		for _, clause := range e.Catches {
			bindings, ok, matchErr := runtime.Match(clause.Pattern, thrown)
			if matchErr != nil {
				err = errAt(diag.CodeRuntimeError, clause.Pattern.Span(), "%s", matchErr.Error())
				break
			}
			if !ok {
				continue
			}
			inner := newScope(sc, scopeBlock)
			for name, bound := range bindings {
				inner.define(name, bound, false)
			}
			result, err = in.evalBlock(clause.Body, inner)
			break
		}
	}

	// finally runs on every exit, including signals passing through. An
	// error raised inside finally supersedes the pending outcome.
	if e.Finally != nil {
		if _, finErr := in.evalBlock(e.Finally, newScope(sc, scopeBlock)); finErr != nil {
			return nil, finErr
		}
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// evalQuestion implements `e?`: Err and None return early from the enclosing
// function; Ok and Some unwrap; everything else passes through.
func (in *Interpreter) evalQuestion(e *ast.QuestionExpr, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Expr, sc)
	if err != nil {
		return nil, err
	}
	variant, ok := v.(*runtime.EnumVariant)
	if !ok {
		return v, nil
	}
	switch variant.Variant {
	case "Err", "None":
		return nil, returnSignal{value: variant}
	case "Ok", "Some":
		if len(variant.Payload) == 1 {
			return variant.Payload[0], nil
		}
	}
	return v, nil
}

func (in *Interpreter) evalAwait(e *ast.AwaitExpr, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Expr, sc)
	if err != nil {
		return nil, err
	}
	if l, ok := v.(*Lazy); ok {
		return in.force(l)
	}
	return v, nil
}

// force evaluates a lazy thunk once and memoizes the result.
func (in *Interpreter) force(l *Lazy) (runtime.Value, error) {
	if l.done {
		return l.value, nil
	}
	v, err := in.eval(l.expr, l.env)
	if err != nil {
		return nil, err
	}
	l.done = true
	l.value = v
	return v, nil
}
