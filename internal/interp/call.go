package interp

import (
	"os/exec"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

func (in *Interpreter) evalLet(e *ast.LetExpr, sc *Scope) (runtime.Value, error) {
	if e.Name != nil {
		var v runtime.Value = runtime.Nil{}
		if e.Value != nil {
			val, err := in.eval(e.Value, sc)
			if err != nil {
				return nil, err
			}
			v = val
		}
		sc.define(e.Name.Name, v, e.Mutable)
		return runtime.Unit{}, nil
	}

	v, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}

	bindings, ok, err := runtime.Match(e.Pattern, v)
	if err != nil {
		return nil, errAt(diag.CodeRuntimeError, e.Pattern.Span(), "%s", err.Error())
	}
	if !ok {
		if e.Else != nil {
			// let-else: the else block must diverge. A normal completion is
			// still a pattern fault.
			if _, err := in.evalBlock(e.Else, newScope(sc, scopeBlock)); err != nil {
				return nil, err
			}
		}
		return nil, errAt(diag.CodeRuntimePattern, e.Pattern.Span(),
			"let pattern does not match %s value %s", v.Type(), runtime.Inspect(v))
	}
	for name, bound := range bindings {
		sc.define(name, bound, e.Mutable)
	}
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalConst(e *ast.ConstExpr, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}
	sc.define(e.Name.Name, v, false)
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalFunDef(e *ast.FunExpr, sc *Scope) (runtime.Value, error) {
	c := &Closure{Params: e.Params, Body: e.Body, Env: sc}
	if e.Name != nil {
		c.Name = e.Name.Name
		sc.define(e.Name.Name, c, false)
	}
	return c, nil
}

// evalArgs evaluates call arguments left to right, flattening spreads.
func (in *Interpreter) evalArgs(exprs []ast.Expr, sc *Scope) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, a := range exprs {
		if spread, ok := a.(*ast.SpreadExpr); ok {
			v, err := in.eval(spread.Expr, sc)
			if err != nil {
				return nil, err
			}
			arr, ok := v.(*runtime.Array)
			if !ok {
				return nil, typeError(spread.Span(), "cannot spread %s", v.Type())
			}
			args = append(args, arr.Elems...)
			continue
		}
		v, err := in.eval(a, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (in *Interpreter) evalCall(e *ast.CallExpr, sc *Scope) (runtime.Value, error) {
	callee, err := in.eval(e.Callee, sc)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(e.Args, sc)
	if err != nil {
		return nil, err
	}
	return in.callValue(callee, args, e.Span())
}

func (in *Interpreter) callValue(callee runtime.Value, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *Closure:
		return in.callClosure(fn, args, span)
	case *Builtin:
		return fn.Fn(in, span, args)
	case *VariantCtor:
		if len(args) != fn.Arity {
			return nil, errAt(diag.CodeRuntimeArity, span,
				"%s::%s expects %d arguments, got %d", fn.Enum, fn.Variant, fn.Arity, len(args))
		}
		return &runtime.EnumVariant{Enum: fn.Enum, Variant: fn.Variant, Payload: args}, nil
	case *ClassType:
		return in.instantiateClass(fn, args, span)
	case *ActorType:
		return in.newActorInstance(fn, nil)
	case *Lazy:
		forced, err := in.force(fn)
		if err != nil {
			return nil, err
		}
		return in.callValue(forced, args, span)
	}
	return nil, typeError(span, "%s is not callable", callee.Type())
}

// callClosure binds arguments into a fresh function scope and evaluates the
// body. A Return signal yields its value; otherwise the body's value.
func (in *Interpreter) callClosure(c *Closure, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	if in.depth >= maxCallDepth {
		return nil, errAt(diag.CodeRuntimeStackOverflow, span,
			"maximum recursion depth %d exceeded", maxCallDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	fnScope := newScope(c.Env, scopeFunction)
	params := c.Params
	if c.Self != nil {
		fnScope.define("self", c.Self, true)
		// A declared `self` receiver is satisfied by the binding, not by a
		// call argument.
		if len(params) > 0 && params[0].Name.Name == "self" {
			params = params[1:]
		}
	}
	if err := in.bindParams(params, args, fnScope, span); err != nil {
		return nil, err
	}

	var result runtime.Value
	var err error
	if block, ok := c.Body.(*ast.BlockExpr); ok {
		result, err = in.evalBlock(block, fnScope)
	} else {
		result, err = in.eval(c.Body, fnScope)
	}
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return result, nil
}

// bindParams checks arity against declared parameters, honoring defaults and
// a trailing rest parameter.
func (in *Interpreter) bindParams(params []*ast.Param, args []runtime.Value, sc *Scope, span lexer.Span) error {
	required := 0
	hasRest := false
	for _, p := range params {
		if p.Rest {
			hasRest = true
			continue
		}
		if p.Default == nil {
			required++
		}
	}
	fixed := len(params)
	if hasRest {
		fixed--
	}

	if len(args) < required {
		return errAt(diag.CodeRuntimeArity, span,
			"expected at least %d arguments, got %d", required, len(args))
	}
	if !hasRest && len(args) > fixed {
		return errAt(diag.CodeRuntimeArity, span,
			"expected at most %d arguments, got %d", fixed, len(args))
	}

	i := 0
	for _, p := range params {
		if p.Rest {
			rest := runtime.NewArray(append([]runtime.Value(nil), args[i:]...))
			sc.define(p.Name.Name, rest, true)
			i = len(args)
			continue
		}
		if i < len(args) {
			sc.define(p.Name.Name, args[i], true)
			i++
			continue
		}
		def, err := in.eval(p.Default, sc)
		if err != nil {
			return err
		}
		sc.define(p.Name.Name, def, true)
	}
	return nil
}

func (in *Interpreter) instantiateClass(class *ClassType, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	obj := runtime.NewObject(class.Name)

	if ctor, ok := class.Methods["new"]; ok {
		bound := *ctor
		bound.Self = obj
		if _, err := in.callClosure(&bound, args, span); err != nil {
			return nil, err
		}
		return obj, nil
	}

	if len(args) != len(class.Fields) {
		return nil, errAt(diag.CodeRuntimeArity, span,
			"%s expects %d field values, got %d", class.Name, len(class.Fields), len(args))
	}
	for i, name := range class.Fields {
		obj.Set(name, args[i])
	}
	return obj, nil
}

func (in *Interpreter) evalMethodCall(e *ast.MethodCallExpr, sc *Scope) (runtime.Value, error) {
	receiver, err := in.eval(e.Receiver, sc)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(e.Args, sc)
	if err != nil {
		return nil, err
	}
	name := e.Method.Name

	// User-defined methods shadow the builtin method table.
	switch r := receiver.(type) {
	case *runtime.Object:
		if m, ok := in.methodOn(r.TypeName, name); ok {
			bound := *m
			bound.Self = r
			return in.callClosure(&bound, args, e.Span())
		}
		// A closure-valued field is callable as a method.
		if f, ok := r.Get(name); ok {
			if c, isClosure := f.(*Closure); isClosure {
				return in.callClosure(c, args, e.Span())
			}
			if b, isBuiltin := f.(*Builtin); isBuiltin {
				return b.Fn(in, e.Span(), args)
			}
		}
	case *ActorInstance:
		if handler, ok := r.Behavior.Handlers[name]; ok {
			return in.runHandler(r, handler, args, e.Span())
		}
	}

	return in.builtinMethod(receiver, name, args, e.Span())
}

// Definitions

func (in *Interpreter) evalStructDef(e *ast.StructDef, sc *Scope) (runtime.Value, error) {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.Name.Name
	}
	t := &StructType{Name: e.Name.Name, Fields: fields}
	sc.define(e.Name.Name, t, false)
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalEnumDef(e *ast.EnumDef, sc *Scope) (runtime.Value, error) {
	t := &EnumType{Name: e.Name.Name, Arity: make(map[string]int)}
	for _, v := range e.Variants {
		t.Variants = append(t.Variants, v.Name.Name)
		t.Arity[v.Name.Name] = len(v.Fields)
	}
	sc.define(e.Name.Name, t, false)
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalClassDef(e *ast.ClassDef, sc *Scope) (runtime.Value, error) {
	t := &ClassType{Name: e.Name.Name, Methods: make(map[string]*Closure)}
	for _, f := range e.Fields {
		t.Fields = append(t.Fields, f.Name.Name)
	}
	for _, m := range e.Methods {
		c := &Closure{Name: m.Name.Name, Params: m.Params, Body: m.Body, Env: sc}
		t.Methods[m.Name.Name] = c
		in.registerMethod(e.Name.Name, c)
	}
	sc.define(e.Name.Name, t, false)
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalTraitDef(e *ast.TraitDef, sc *Scope) (runtime.Value, error) {
	// Traits carry default method bodies; impl blocks copy the ones the
	// implementing type does not override.
	for _, m := range e.Methods {
		if m.Body == nil {
			continue
		}
		c := &Closure{Name: m.Name.Name, Params: m.Params, Body: m.Body, Env: sc}
		in.registerMethod("trait:"+e.Name.Name, c)
	}
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalImplBlock(e *ast.ImplBlock, sc *Scope) (runtime.Value, error) {
	typeName := e.Type.Name
	for _, m := range e.Methods {
		c := &Closure{Name: m.Name.Name, Params: m.Params, Body: m.Body, Env: sc}
		in.registerMethod(typeName, c)
	}
	if e.Trait != nil {
		if defaults, ok := in.methods["trait:"+e.Trait.Name]; ok {
			for name, m := range defaults {
				if _, overridden := in.methodOn(typeName, name); !overridden {
					in.registerMethod(typeName, m)
				}
			}
		}
	}
	return runtime.Unit{}, nil
}

func (in *Interpreter) evalModuleDef(e *ast.ModuleDef, sc *Scope) (runtime.Value, error) {
	inner := newScope(sc, scopeBlock)
	if _, err := in.evalBlock(e.Body, inner); err != nil {
		return nil, err
	}

	mod := runtime.NewObject("Module")
	for name, c := range inner.cells {
		mod.Set(name, c.value)
	}
	sc.define(e.Name.Name, mod, false)
	return runtime.Unit{}, nil
}

// Command literals

func (in *Interpreter) evalCommand(e *ast.CommandLit) (runtime.Value, error) {
	fields := strings.Fields(e.Text)
	if len(fields) == 0 {
		return runtime.Str{Val: ""}, nil
	}
	out, err := exec.Command(fields[0], fields[1:]...).Output()
	if err != nil {
		return nil, throwSignal{value: runtime.Str{
			Val: "command failed: " + err.Error(),
		}}
	}
	return runtime.Str{Val: string(out)}, nil
}

// Macro forms

func (in *Interpreter) evalMacro(e *ast.MacroExpr, sc *Scope) (runtime.Value, error) {
	switch e.Name {
	case "vec":
		return in.evalList(e.Args, sc)
	case "println", "print", "format":
		args, err := in.evalArgs(e.Args, sc)
		if err != nil {
			return nil, err
		}
		if b, ok := in.globals.lookup(e.Name); ok {
			if builtin, isBuiltin := b.value.(*Builtin); isBuiltin {
				return builtin.Fn(in, e.Span(), args)
			}
		}
		return nil, nameError(e.Span(), e.Name)
	case "assert":
		args, err := in.evalArgs(e.Args, sc)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 || !runtime.Truthy(args[0]) {
			msg := "assertion failed"
			if len(args) > 1 {
				msg = args[1].Display()
			}
			return nil, throwSignal{value: runtime.Str{Val: msg}}
		}
		return runtime.Unit{}, nil
	case "panic":
		args, err := in.evalArgs(e.Args, sc)
		if err != nil {
			return nil, err
		}
		msg := "panic"
		if len(args) > 0 {
			msg = args[0].Display()
		}
		return nil, throwSignal{value: runtime.Str{Val: msg}}
	}
	return nil, errAt(diag.CodeRuntimeError, e.Span(), "unsupported macro %s!", e.Name)
}
