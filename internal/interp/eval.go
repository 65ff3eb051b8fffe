package interp

import (
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// eval is the evaluator core. Non-local control flow (return, break,
// continue, throw) and runtime faults both travel through the error return.
func (in *Interpreter) eval(expr ast.Expr, sc *Scope) (runtime.Value, error) {
	switch e := expr.(type) {

	// Literals
	case *ast.IntegerLit:
		n, err := runtime.ParseInteger(e.Text)
		if err != nil {
			return nil, errAt(diag.CodeRuntimeError, e.Span(), "%s", err.Error())
		}
		return runtime.Integer{Val: n}, nil
	case *ast.FloatLit:
		f, err := strconv.ParseFloat(strings.ReplaceAll(e.Text, "_", ""), 64)
		if err != nil {
			return nil, errAt(diag.CodeRuntimeError, e.Span(), "invalid float literal %q", e.Text)
		}
		return runtime.Float{Val: f}, nil
	case *ast.StringLit:
		return runtime.Str{Val: e.Value}, nil
	case *ast.CharLit:
		return runtime.Char{Val: e.Value}, nil
	case *ast.ByteLit:
		return runtime.ByteVal{Val: e.Value}, nil
	case *ast.BoolLit:
		return runtime.Bool{Val: e.Value}, nil
	case *ast.AtomLit:
		return runtime.Atom{Name: e.Name}, nil
	case *ast.NilLit:
		return runtime.Nil{}, nil
	case *ast.UnitLit:
		return runtime.Unit{}, nil
	case *ast.InterpLit:
		return in.evalInterp(e, sc)
	case *ast.CommandLit:
		return in.evalCommand(e)

	// Names
	case *ast.Ident:
		c, ok := sc.lookup(e.Name)
		if !ok {
			return nil, nameError(e.Span(), e.Name)
		}
		return c.value, nil
	case *ast.QualifiedName:
		return in.resolvePath(e, sc)

	// Composite literals
	case *ast.ListLit:
		return in.evalList(e.Elements, sc)
	case *ast.ArrayRepeat:
		return in.evalArrayRepeat(e, sc)
	case *ast.ListComp:
		return in.evalListComp(e, sc)
	case *ast.TupleLit:
		elems, err := in.evalAll(e.Elements, sc)
		if err != nil {
			return nil, err
		}
		return &runtime.Tuple{Elems: elems}, nil
	case *ast.SetLit:
		return in.evalSetLit(e, sc)
	case *ast.ObjectLit:
		return in.evalObjectLit(e, sc)
	case *ast.DictLit:
		return in.evalDictLit(e, sc)
	case *ast.StructLit:
		return in.evalStructLit(e, sc)
	case *ast.RangeLit:
		return in.evalRangeLit(e, sc)
	case *ast.DataFrameLit:
		return in.evalDataFrameLit(e, sc)
	case *ast.MacroExpr:
		return in.evalMacro(e, sc)

	// Operators
	case *ast.PrefixExpr:
		return in.evalPrefix(e, sc)
	case *ast.InfixExpr:
		return in.evalInfix(e, sc)
	case *ast.TernaryExpr:
		cond, err := in.eval(e.Cond, sc)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return in.eval(e.Then, sc)
		}
		return in.eval(e.Else, sc)
	case *ast.AssignExpr:
		return in.evalAssign(e, sc)
	case *ast.CompoundAssignExpr:
		return in.evalCompoundAssign(e, sc)
	case *ast.IncDecExpr:
		return in.evalIncDec(e, sc)

	// Access
	case *ast.IndexExpr:
		return in.evalIndex(e, sc)
	case *ast.SliceExpr:
		return in.evalSlice(e, sc)
	case *ast.FieldExpr:
		return in.evalField(e, sc)

	// Calls
	case *ast.CallExpr:
		return in.evalCall(e, sc)
	case *ast.MethodCallExpr:
		return in.evalMethodCall(e, sc)
	case *ast.LambdaExpr:
		return &Closure{Params: e.Params, Body: e.Body, Env: sc}, nil

	// Control flow
	case *ast.BlockExpr:
		return in.evalBlock(e, newScope(sc, scopeBlock))
	case *ast.IfExpr:
		return in.evalIf(e, sc)
	case *ast.IfLetExpr:
		return in.evalIfLet(e, sc)
	case *ast.MatchExpr:
		return in.evalMatch(e, sc)
	case *ast.WhileExpr:
		return in.evalWhile(e, sc)
	case *ast.WhileLetExpr:
		return in.evalWhileLet(e, sc)
	case *ast.ForExpr:
		return in.evalFor(e, sc)
	case *ast.LoopExpr:
		return in.evalLoop(e, sc)
	case *ast.BreakExpr:
		return in.evalBreak(e, sc)
	case *ast.ContinueExpr:
		return nil, continueSignal{label: e.Label}
	case *ast.ReturnExpr:
		return in.evalReturn(e, sc)
	case *ast.ThrowExpr:
		return in.evalThrow(e, sc)
	case *ast.TryCatchExpr:
		return in.evalTryCatch(e, sc)
	case *ast.QuestionExpr:
		return in.evalQuestion(e, sc)

	// Declarations
	case *ast.LetExpr:
		return in.evalLet(e, sc)
	case *ast.ConstExpr:
		return in.evalConst(e, sc)
	case *ast.FunExpr:
		return in.evalFunDef(e, sc)
	case *ast.StructDef:
		return in.evalStructDef(e, sc)
	case *ast.EnumDef:
		return in.evalEnumDef(e, sc)
	case *ast.ClassDef:
		return in.evalClassDef(e, sc)
	case *ast.TraitDef:
		return in.evalTraitDef(e, sc)
	case *ast.ImplBlock:
		return in.evalImplBlock(e, sc)
	case *ast.TypeAlias:
		return runtime.Unit{}, nil
	case *ast.ModuleDef:
		return in.evalModuleDef(e, sc)
	case *ast.ImportExpr:
		// Whole-program evaluation resolves in-source modules only; import
		// of external paths is a no-op in the core evaluator.
		return runtime.Unit{}, nil
	case *ast.ExportExpr:
		if e.Expr != nil {
			return in.eval(e.Expr, sc)
		}
		return runtime.Unit{}, nil

	// Concurrency surface (synchronous in the core)
	case *ast.ActorDef:
		return in.evalActorDef(e, sc)
	case *ast.SpawnExpr:
		return in.evalSpawn(e, sc)
	case *ast.SendExpr:
		return in.evalSend(e, sc)
	case *ast.AskExpr:
		return in.evalAsk(e, sc)
	case *ast.AsyncBlock:
		return in.evalBlock(e.Body, newScope(sc, scopeBlock))
	case *ast.AwaitExpr:
		return in.evalAwait(e, sc)
	case *ast.LazyExpr:
		return &Lazy{expr: e.Expr, env: sc}, nil
	case *ast.UnsafeBlock:
		return in.evalBlock(e.Body, newScope(sc, scopeBlock))

	case *ast.SpreadExpr:
		return nil, errAt(diag.CodeRuntimeError, e.Span(),
			"spread is only valid in call arguments and list literals")
	}

	return nil, errAt(diag.CodeRuntimeError, expr.Span(),
		"cannot evaluate %T", expr)
}

// evalBlock runs statements in an existing scope; the block's value is the
// last expression's value, or unit when empty.
func (in *Interpreter) evalBlock(block *ast.BlockExpr, sc *Scope) (runtime.Value, error) {
	var result runtime.Value = runtime.Unit{}
	for _, expr := range block.Exprs {
		v, err := in.eval(expr, sc)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (in *Interpreter) evalAll(exprs []ast.Expr, sc *Scope) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := in.eval(e, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// evalList builds an array, flattening spread elements in place.
func (in *Interpreter) evalList(elements []ast.Expr, sc *Scope) (runtime.Value, error) {
	elems := make([]runtime.Value, 0, len(elements))
	for _, el := range elements {
		if spread, ok := el.(*ast.SpreadExpr); ok {
			v, err := in.eval(spread.Expr, sc)
			if err != nil {
				return nil, err
			}
			arr, ok := v.(*runtime.Array)
			if !ok {
				return nil, typeError(spread.Span(), "cannot spread %s", v.Type())
			}
			elems = append(elems, arr.Elems...)
			continue
		}
		v, err := in.eval(el, sc)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	arr := runtime.NewArray(elems)
	in.gc.noteAllocation(in)
	return arr, nil
}

func (in *Interpreter) evalArrayRepeat(e *ast.ArrayRepeat, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}
	count, err := in.eval(e.Count, sc)
	if err != nil {
		return nil, err
	}
	n, ok := count.(runtime.Integer)
	if !ok || n.Val < 0 {
		return nil, typeError(e.Count.Span(), "repeat count must be a non-negative integer")
	}
	elems := make([]runtime.Value, n.Val)
	for i := range elems {
		elems[i] = v
	}
	return runtime.NewArray(elems), nil
}

func (in *Interpreter) evalListComp(e *ast.ListComp, sc *Scope) (runtime.Value, error) {
	iter, err := in.eval(e.Iter, sc)
	if err != nil {
		return nil, err
	}
	next, err := in.iterator(iter, e.Iter.Span())
	if err != nil {
		return nil, err
	}

	out := runtime.NewArray(nil)
	for {
		item, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		inner := newScope(sc, scopeBlock)
		if err := in.bindPattern(e.Var, item, inner, false); err != nil {
			return nil, err
		}
		if e.Filter != nil {
			keep, err := in.eval(e.Filter, inner)
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(keep) {
				continue
			}
		}
		v, err := in.eval(e.Element, inner)
		if err != nil {
			return nil, err
		}
		out.Elems = append(out.Elems, v)
	}
	return out, nil
}

func (in *Interpreter) evalSetLit(e *ast.SetLit, sc *Scope) (runtime.Value, error) {
	set := runtime.NewSet()
	for _, el := range e.Elements {
		v, err := in.eval(el, sc)
		if err != nil {
			return nil, err
		}
		if err := set.Add(v); err != nil {
			return nil, typeError(el.Span(), "%s", err.Error())
		}
	}
	return set, nil
}

func (in *Interpreter) evalObjectLit(e *ast.ObjectLit, sc *Scope) (runtime.Value, error) {
	obj := runtime.NewObject("")
	for _, f := range e.Fields {
		v, err := in.eval(f.Value, sc)
		if err != nil {
			return nil, err
		}
		obj.Set(f.Name.Name, v)
	}
	return obj, nil
}

func (in *Interpreter) evalDictLit(e *ast.DictLit, sc *Scope) (runtime.Value, error) {
	dict := runtime.NewDict()
	for _, entry := range e.Entries {
		key, err := in.eval(entry.Key, sc)
		if err != nil {
			return nil, err
		}
		val, err := in.eval(entry.Value, sc)
		if err != nil {
			return nil, err
		}
		if err := dict.Set(key, val); err != nil {
			return nil, typeError(entry.Key.Span(), "%s", err.Error())
		}
	}
	return dict, nil
}

func (in *Interpreter) evalStructLit(e *ast.StructLit, sc *Scope) (runtime.Value, error) {
	typeName := structLitName(e.Name)

	obj := runtime.NewObject(typeName)
	for _, f := range e.Fields {
		var v runtime.Value
		var err error
		if f.Shorthand {
			c, ok := sc.lookup(f.Name.Name)
			if !ok {
				return nil, nameError(f.Name.Span(), f.Name.Name)
			}
			v = c.value
		} else {
			v, err = in.eval(f.Value, sc)
			if err != nil {
				return nil, err
			}
		}
		obj.Set(f.Name.Name, v)
	}

	if e.Base != nil {
		baseVal, err := in.eval(e.Base, sc)
		if err != nil {
			return nil, err
		}
		baseObj, ok := baseVal.(*runtime.Object)
		if !ok {
			return nil, typeError(e.Base.Span(), "struct update base must be an object, got %s", baseVal.Type())
		}
		for _, name := range baseObj.Names() {
			if _, set := obj.Get(name); !set {
				v, _ := baseObj.Get(name)
				obj.Set(name, v)
			}
		}
	}
	return obj, nil
}

func structLitName(name ast.Expr) string {
	switch n := name.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.QualifiedName:
		return n.Segments[len(n.Segments)-1].Name
	}
	return ""
}

func (in *Interpreter) evalRangeLit(e *ast.RangeLit, sc *Scope) (runtime.Value, error) {
	start, err := in.eval(e.Start, sc)
	if err != nil {
		return nil, err
	}
	end, err := in.eval(e.End, sc)
	if err != nil {
		return nil, err
	}
	lo, ok1 := start.(runtime.Integer)
	hi, ok2 := end.(runtime.Integer)
	if !ok1 || !ok2 {
		return nil, typeError(e.Span(), "range bounds must be integers, got %s and %s",
			start.Type(), end.Type())
	}
	return runtime.Range{Start: lo.Val, End: hi.Val, Inclusive: e.Inclusive}, nil
}

func (in *Interpreter) evalDataFrameLit(e *ast.DataFrameLit, sc *Scope) (runtime.Value, error) {
	cols := make([]runtime.Column, 0, len(e.Columns))
	for _, col := range e.Columns {
		values, err := in.evalAll(col.Values, sc)
		if err != nil {
			return nil, err
		}
		cols = append(cols, runtime.Column{Name: col.Name, Values: values})
	}
	df, err := runtime.NewDataFrame(cols)
	if err != nil {
		return nil, errAt(diag.CodeRuntimeError, e.Span(), "%s", err.Error())
	}
	return df, nil
}

// resolvePath evaluates a `::` path: module member, enum variant, or a type
// associated function.
func (in *Interpreter) resolvePath(e *ast.QualifiedName, sc *Scope) (runtime.Value, error) {
	head := e.Segments[0]
	c, ok := sc.lookup(head.Name)
	if !ok {
		// Option/Result variants are usable without the enum in scope.
		if len(e.Segments) == 2 {
			if v, ok := wellKnownVariant(e.Segments[0].Name, e.Segments[1].Name); ok {
				return v, nil
			}
		}
		return nil, nameError(head.Span(), head.Name)
	}

	current := c.value
	for _, seg := range e.Segments[1:] {
		switch holder := current.(type) {
		case *EnumType:
			arity, ok := holder.Arity[seg.Name]
			if !ok {
				return nil, nameError(seg.Span(), holder.Name+"::"+seg.Name)
			}
			if arity == 0 {
				return &runtime.EnumVariant{Enum: holder.Name, Variant: seg.Name}, nil
			}
			return &VariantCtor{Enum: holder.Name, Variant: seg.Name, Arity: arity}, nil
		case *runtime.Object:
			v, ok := holder.Get(seg.Name)
			if !ok {
				return nil, nameError(seg.Span(), seg.Name)
			}
			current = v
		case *StructType:
			if m, ok := in.methodOn(holder.Name, seg.Name); ok {
				current = m
				continue
			}
			return nil, nameError(seg.Span(), holder.Name+"::"+seg.Name)
		case *ClassType:
			if m, ok := holder.Methods[seg.Name]; ok {
				current = m
				continue
			}
			return nil, nameError(seg.Span(), holder.Name+"::"+seg.Name)
		default:
			return nil, typeError(seg.Span(), "%s has no member %s", current.Type(), seg.Name)
		}
	}
	return current, nil
}

func wellKnownVariant(enum, variant string) (runtime.Value, bool) {
	switch enum {
	case "Option":
		switch variant {
		case "Some":
			return &VariantCtor{Enum: "Option", Variant: "Some", Arity: 1}, true
		case "None":
			return &runtime.EnumVariant{Enum: "Option", Variant: "None"}, true
		}
	case "Result":
		switch variant {
		case "Ok":
			return &VariantCtor{Enum: "Result", Variant: "Ok", Arity: 1}, true
		case "Err":
			return &VariantCtor{Enum: "Result", Variant: "Err", Arity: 1}, true
		}
	}
	return nil, false
}
