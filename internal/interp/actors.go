package interp

import (
	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// Actors are surface syntax in the core evaluator: message delivery runs the
// handler synchronously on the sender's thread of control.

func (in *Interpreter) evalActorDef(e *ast.ActorDef, sc *Scope) (runtime.Value, error) {
	t := &ActorType{
		Name:     e.Name.Name,
		Fields:   e.Fields,
		Handlers: make(map[string]*ast.ActorHandler),
		Env:      sc,
	}
	for _, h := range e.Handlers {
		t.Handlers[h.Message.Name] = h
	}
	sc.define(e.Name.Name, t, false)
	return runtime.Unit{}, nil
}

// newActorInstance builds an instance with typed zero values for state
// fields, overridden by any initializers.
func (in *Interpreter) newActorInstance(t *ActorType, init map[string]runtime.Value) (runtime.Value, error) {
	state := runtime.NewObject(t.Name)
	for _, f := range t.Fields {
		if v, ok := init[f.Name.Name]; ok {
			state.Set(f.Name.Name, v)
			continue
		}
		state.Set(f.Name.Name, zeroValueForType(f.Type))
	}
	return &ActorInstance{Behavior: t, State: state}, nil
}

func zeroValueForType(t ast.TypeExpr) runtime.Value {
	named, ok := t.(*ast.NamedType)
	if !ok {
		return runtime.Nil{}
	}
	switch named.Name.Name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "int":
		return runtime.Integer{Val: 0}
	case "f32", "f64", "float":
		return runtime.Float{Val: 0}
	case "bool":
		return runtime.Bool{Val: false}
	case "String", "str":
		return runtime.Str{Val: ""}
	}
	return runtime.Nil{}
}

func (in *Interpreter) evalSpawn(e *ast.SpawnExpr, sc *Scope) (runtime.Value, error) {
	// `spawn Counter { count: 0 }` initializes actor state directly.
	if lit, ok := e.Expr.(*ast.StructLit); ok {
		name := structLitName(lit.Name)
		if c, found := sc.lookup(name); found {
			if behavior, isActor := c.value.(*ActorType); isActor {
				init := make(map[string]runtime.Value)
				for _, f := range lit.Fields {
					var v runtime.Value
					var err error
					if f.Shorthand {
						cell, ok := sc.lookup(f.Name.Name)
						if !ok {
							return nil, nameError(f.Name.Span(), f.Name.Name)
						}
						v = cell.value
					} else {
						v, err = in.eval(f.Value, sc)
						if err != nil {
							return nil, err
						}
					}
					init[f.Name.Name] = v
				}
				return in.newActorInstance(behavior, init)
			}
		}
	}

	v, err := in.eval(e.Expr, sc)
	if err != nil {
		return nil, err
	}
	if behavior, ok := v.(*ActorType); ok {
		return in.newActorInstance(behavior, nil)
	}
	// Spawning a plain expression degrades to synchronous evaluation.
	return v, nil
}

// messageParts extracts the message name and argument expressions from the
// right-hand side of `!` and `?`.
func messageParts(msg ast.Expr) (string, []ast.Expr, bool) {
	switch m := msg.(type) {
	case *ast.Ident:
		return m.Name, nil, true
	case *ast.QualifiedName:
		return m.Segments[len(m.Segments)-1].Name, nil, true
	case *ast.CallExpr:
		switch callee := m.Callee.(type) {
		case *ast.Ident:
			return callee.Name, m.Args, true
		case *ast.QualifiedName:
			return callee.Segments[len(callee.Segments)-1].Name, m.Args, true
		}
	}
	return "", nil, false
}

func (in *Interpreter) deliver(actorExpr, msgExpr ast.Expr, sc *Scope, span lexer.Span) (runtime.Value, error) {
	target, err := in.eval(actorExpr, sc)
	if err != nil {
		return nil, err
	}
	instance, ok := target.(*ActorInstance)
	if !ok {
		return nil, typeError(span, "cannot send a message to %s", target.Type())
	}

	name, argExprs, ok := messageParts(msgExpr)
	if !ok {
		return nil, errAt(diag.CodeRuntimeError, msgExpr.Span(),
			"message must be a name or a call form")
	}
	handler, ok := instance.Behavior.Handlers[name]
	if !ok {
		return nil, errAt(diag.CodeRuntimeError, msgExpr.Span(),
			"actor %s has no handler for %s", instance.Behavior.Name, name)
	}
	args, err := in.evalArgs(argExprs, sc)
	if err != nil {
		return nil, err
	}
	return in.runHandler(instance, handler, args, span)
}

// evalSend delivers `actor ! msg`. The sender observes unit.
func (in *Interpreter) evalSend(e *ast.SendExpr, sc *Scope) (runtime.Value, error) {
	if _, err := in.deliver(e.Actor, e.Msg, sc, e.Span()); err != nil {
		return nil, err
	}
	return runtime.Unit{}, nil
}

// evalAsk delivers `actor ? msg` and returns the handler's value. The
// timeout is parsed but not enforced: delivery is synchronous.
func (in *Interpreter) evalAsk(e *ast.AskExpr, sc *Scope) (runtime.Value, error) {
	if e.Timeout != nil {
		if _, err := in.eval(e.Timeout, sc); err != nil {
			return nil, err
		}
	}
	return in.deliver(e.Actor, e.Msg, sc, e.Span())
}

func (in *Interpreter) runHandler(instance *ActorInstance, handler *ast.ActorHandler, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	if in.depth >= maxCallDepth {
		return nil, errAt(diag.CodeRuntimeStackOverflow, span,
			"maximum recursion depth %d exceeded", maxCallDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	fnScope := newScope(instance.Behavior.Env, scopeFunction)
	fnScope.define("self", instance, true)
	if err := in.bindParams(handler.Params, args, fnScope, span); err != nil {
		return nil, err
	}
	result, err := in.evalBlock(handler.Body, fnScope)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return result, nil
}
