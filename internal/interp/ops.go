package interp

import (
	"math"
	"strconv"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

func (in *Interpreter) evalPrefix(e *ast.PrefixExpr, sc *Scope) (runtime.Value, error) {
	// References and derefs are transparent in the evaluator: values already
	// share identity where the language requires it.
	if e.Op == lexer.AMPERSAND || e.Op == lexer.ASTERISK {
		return in.eval(e.Expr, sc)
	}

	v, err := in.eval(e.Expr, sc)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case lexer.MINUS:
		switch n := v.(type) {
		case runtime.Integer:
			return runtime.Integer{Val: -n.Val}, nil
		case runtime.Float:
			return runtime.Float{Val: -n.Val}, nil
		}
		return nil, typeError(e.Span(), "cannot negate %s", v.Type())
	case lexer.BANG:
		return runtime.Bool{Val: !runtime.Truthy(v)}, nil
	case lexer.TILDE:
		n, ok := v.(runtime.Integer)
		if !ok {
			return nil, typeError(e.Span(), "bitwise not requires an integer, got %s", v.Type())
		}
		return runtime.Integer{Val: ^n.Val}, nil
	}
	return nil, typeError(e.Span(), "unsupported prefix operator %s", e.Op)
}

func (in *Interpreter) evalInfix(e *ast.InfixExpr, sc *Scope) (runtime.Value, error) {
	// Short-circuit forms evaluate the right operand only when needed.
	if e.Op == lexer.AND || e.Op == lexer.OR {
		left, err := in.eval(e.Left, sc)
		if err != nil {
			return nil, err
		}
		truthy := runtime.Truthy(left)
		if (e.Op == lexer.AND && !truthy) || (e.Op == lexer.OR && truthy) {
			return runtime.Bool{Val: truthy}, nil
		}
		right, err := in.eval(e.Right, sc)
		if err != nil {
			return nil, err
		}
		return runtime.Bool{Val: runtime.Truthy(right)}, nil
	}

	left, err := in.eval(e.Left, sc)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(e.Right, sc)
	if err != nil {
		return nil, err
	}
	return in.applyBinary(e.Op, left, right, e.Span())
}

func (in *Interpreter) applyBinary(op lexer.TokenType, left, right runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch op {
	case lexer.EQ:
		return runtime.Bool{Val: runtime.Equals(left, right)}, nil
	case lexer.NOT_EQ:
		return runtime.Bool{Val: !runtime.Equals(left, right)}, nil

	case lexer.PLUS:
		if l, ok := left.(runtime.Str); ok {
			if r, ok := right.(runtime.Str); ok {
				return runtime.Str{Val: l.Val + r.Val}, nil
			}
		}
		if l, ok := left.(*runtime.Array); ok {
			if r, ok := right.(*runtime.Array); ok {
				elems := append(append([]runtime.Value{}, l.Elems...), r.Elems...)
				return runtime.NewArray(elems), nil
			}
		}
		return arith(op, left, right, span)
	case lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT, lexer.POWER:
		return arith(op, left, right, span)

	case lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		return compare(op, left, right, span)

	case lexer.AMPERSAND, lexer.PIPE, lexer.CARET, lexer.SHL, lexer.SHR:
		return bitwise(op, left, right, span)
	}
	return nil, typeError(span, "unsupported operator %s", op)
}

// arith applies a numeric operator, promoting int to float on mixed
// operands. Integer division or modulo by zero is a fault; float division
// follows IEEE-754.
func arith(op lexer.TokenType, left, right runtime.Value, span lexer.Span) (runtime.Value, error) {
	li, lInt := left.(runtime.Integer)
	ri, rInt := right.(runtime.Integer)

	if lInt && rInt {
		a, b := li.Val, ri.Val
		switch op {
		case lexer.PLUS:
			return runtime.Integer{Val: a + b}, nil
		case lexer.MINUS:
			return runtime.Integer{Val: a - b}, nil
		case lexer.ASTERISK:
			return runtime.Integer{Val: a * b}, nil
		case lexer.SLASH:
			if b == 0 {
				return nil, errAt(diag.CodeRuntimeDivideByZero, span, "division by zero")
			}
			return runtime.Integer{Val: a / b}, nil
		case lexer.PERCENT:
			if b == 0 {
				return nil, errAt(diag.CodeRuntimeDivideByZero, span, "modulo by zero")
			}
			return runtime.Integer{Val: a % b}, nil
		case lexer.POWER:
			if b < 0 {
				return runtime.Float{Val: math.Pow(float64(a), float64(b))}, nil
			}
			result := int64(1)
			for i := int64(0); i < b; i++ {
				result *= a
			}
			return runtime.Integer{Val: result}, nil
		}
	}

	lf, lok := numericAsFloat(left)
	rf, rok := numericAsFloat(right)
	if !lok || !rok {
		return nil, typeError(span, "cannot apply %s to %s and %s", op, left.Type(), right.Type())
	}
	switch op {
	case lexer.PLUS:
		return runtime.Float{Val: lf + rf}, nil
	case lexer.MINUS:
		return runtime.Float{Val: lf - rf}, nil
	case lexer.ASTERISK:
		return runtime.Float{Val: lf * rf}, nil
	case lexer.SLASH:
		return runtime.Float{Val: lf / rf}, nil
	case lexer.PERCENT:
		return runtime.Float{Val: math.Mod(lf, rf)}, nil
	case lexer.POWER:
		return runtime.Float{Val: math.Pow(lf, rf)}, nil
	}
	return nil, typeError(span, "unsupported numeric operator %s", op)
}

func numericAsFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.Integer:
		return float64(n.Val), true
	case runtime.Float:
		return n.Val, true
	}
	return 0, false
}

func compare(op lexer.TokenType, left, right runtime.Value, span lexer.Span) (runtime.Value, error) {
	var cmp int

	switch l := left.(type) {
	case runtime.Integer, runtime.Float:
		lf, _ := numericAsFloat(left)
		rf, ok := numericAsFloat(right)
		if !ok {
			return nil, typeError(span, "cannot compare %s with %s", left.Type(), right.Type())
		}
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	case runtime.Str:
		r, ok := right.(runtime.Str)
		if !ok {
			return nil, typeError(span, "cannot compare %s with %s", left.Type(), right.Type())
		}
		switch {
		case l.Val < r.Val:
			cmp = -1
		case l.Val > r.Val:
			cmp = 1
		}
	case runtime.Char:
		r, ok := right.(runtime.Char)
		if !ok {
			return nil, typeError(span, "cannot compare %s with %s", left.Type(), right.Type())
		}
		switch {
		case l.Val < r.Val:
			cmp = -1
		case l.Val > r.Val:
			cmp = 1
		}
	default:
		return nil, typeError(span, "cannot order %s values", left.Type())
	}

	switch op {
	case lexer.LT:
		return runtime.Bool{Val: cmp < 0}, nil
	case lexer.LE:
		return runtime.Bool{Val: cmp <= 0}, nil
	case lexer.GT:
		return runtime.Bool{Val: cmp > 0}, nil
	case lexer.GE:
		return runtime.Bool{Val: cmp >= 0}, nil
	}
	return nil, typeError(span, "unsupported comparison %s", op)
}

// bitwise applies integer-only bit operators. Shift counts are taken modulo
// the 64-bit width, matching two's-complement hardware behavior.
func bitwise(op lexer.TokenType, left, right runtime.Value, span lexer.Span) (runtime.Value, error) {
	l, lok := left.(runtime.Integer)
	r, rok := right.(runtime.Integer)
	if !lok || !rok {
		return nil, typeError(span, "bitwise %s requires integers, got %s and %s",
			op, left.Type(), right.Type())
	}
	switch op {
	case lexer.AMPERSAND:
		return runtime.Integer{Val: l.Val & r.Val}, nil
	case lexer.PIPE:
		return runtime.Integer{Val: l.Val | r.Val}, nil
	case lexer.CARET:
		return runtime.Integer{Val: l.Val ^ r.Val}, nil
	case lexer.SHL:
		return runtime.Integer{Val: l.Val << (uint64(r.Val) & 63)}, nil
	case lexer.SHR:
		return runtime.Integer{Val: l.Val >> (uint64(r.Val) & 63)}, nil
	}
	return nil, typeError(span, "unsupported bitwise operator %s", op)
}

func (in *Interpreter) evalAssign(e *ast.AssignExpr, sc *Scope) (runtime.Value, error) {
	v, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}
	if err := in.assignTo(e.Target, v, sc); err != nil {
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) assignTo(target ast.Expr, v runtime.Value, sc *Scope) error {
	switch t := target.(type) {
	case *ast.Ident:
		c, ok := sc.lookup(t.Name)
		if !ok {
			return nameError(t.Span(), t.Name)
		}
		if !c.mutable {
			return typeError(t.Span(), "cannot assign to immutable binding %q", t.Name)
		}
		c.value = v
		return nil

	case *ast.FieldExpr:
		obj, err := in.eval(t.Target, sc)
		if err != nil {
			return err
		}
		return in.setField(obj, t.Field.Name, v, t.Span())

	case *ast.IndexExpr:
		container, err := in.eval(t.Target, sc)
		if err != nil {
			return err
		}
		idx, err := in.eval(t.Index, sc)
		if err != nil {
			return err
		}
		return in.setIndex(container, idx, v, t.Span())

	case *ast.TupleLit:
		tup, ok := v.(*runtime.Tuple)
		if !ok || len(tup.Elems) != len(t.Elements) {
			return typeError(t.Span(), "cannot destructure %s into %d targets", v.Type(), len(t.Elements))
		}
		for i, el := range t.Elements {
			if err := in.assignTo(el, tup.Elems[i], sc); err != nil {
				return err
			}
		}
		return nil

	case *ast.PrefixExpr:
		if t.Op == lexer.ASTERISK {
			return in.assignTo(t.Expr, v, sc)
		}
	}
	return errAt(diag.CodeRuntimeError, target.Span(), "invalid assignment target")
}

func (in *Interpreter) setField(obj runtime.Value, name string, v runtime.Value, span lexer.Span) error {
	switch o := obj.(type) {
	case *runtime.Object:
		o.Set(name, v)
		return nil
	case *ActorInstance:
		o.State.Set(name, v)
		return nil
	}
	return typeError(span, "cannot set field %q on %s", name, obj.Type())
}

func (in *Interpreter) setIndex(container, idx, v runtime.Value, span lexer.Span) error {
	switch c := container.(type) {
	case *runtime.Array:
		i, ok := idx.(runtime.Integer)
		if !ok {
			return typeError(span, "array index must be an integer, got %s", idx.Type())
		}
		if i.Val < 0 || i.Val >= int64(len(c.Elems)) {
			return errAt(diag.CodeRuntimeIndex, span,
				"index %d out of bounds for array of length %d", i.Val, len(c.Elems))
		}
		c.Elems[i.Val] = v
		return nil
	case *runtime.Dict:
		if err := c.Set(idx, v); err != nil {
			return typeError(span, "%s", err.Error())
		}
		return nil
	case *runtime.Object:
		key, ok := idx.(runtime.Str)
		if !ok {
			return typeError(span, "object key must be a string, got %s", idx.Type())
		}
		c.Set(key.Val, v)
		return nil
	}
	return typeError(span, "cannot index-assign into %s", container.Type())
}

func (in *Interpreter) evalCompoundAssign(e *ast.CompoundAssignExpr, sc *Scope) (runtime.Value, error) {
	old, err := in.eval(e.Target, sc)
	if err != nil {
		return nil, err
	}
	operand, err := in.eval(e.Value, sc)
	if err != nil {
		return nil, err
	}
	v, err := in.applyBinary(e.Op, old, operand, e.Span())
	if err != nil {
		return nil, err
	}
	if err := in.assignTo(e.Target, v, sc); err != nil {
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) evalIncDec(e *ast.IncDecExpr, sc *Scope) (runtime.Value, error) {
	old, err := in.eval(e.Target, sc)
	if err != nil {
		return nil, err
	}
	op := lexer.PLUS
	if e.Op == lexer.DECREMENT {
		op = lexer.MINUS
	}
	updated, err := in.applyBinary(op, old, runtime.Integer{Val: 1}, e.Span())
	if err != nil {
		return nil, err
	}
	if err := in.assignTo(e.Target, updated, sc); err != nil {
		return nil, err
	}
	if e.Prefix {
		return updated, nil
	}
	return old, nil
}

func (in *Interpreter) evalIndex(e *ast.IndexExpr, sc *Scope) (runtime.Value, error) {
	target, err := in.eval(e.Target, sc)
	if err != nil {
		return nil, err
	}
	if e.Optional {
		if _, isNil := target.(runtime.Nil); isNil {
			return runtime.Nil{}, nil
		}
	}
	idx, err := in.eval(e.Index, sc)
	if err != nil {
		return nil, err
	}
	return in.indexValue(target, idx, e.Span())
}

func (in *Interpreter) indexValue(target, idx runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch c := target.(type) {
	case *runtime.Array:
		i, err := boundsCheck(idx, len(c.Elems), span, "array")
		if err != nil {
			return nil, err
		}
		return c.Elems[i], nil
	case *runtime.Tuple:
		i, err := boundsCheck(idx, len(c.Elems), span, "tuple")
		if err != nil {
			return nil, err
		}
		return c.Elems[i], nil
	case runtime.Str:
		runes := []rune(c.Val)
		i, err := boundsCheck(idx, len(runes), span, "string")
		if err != nil {
			return nil, err
		}
		return runtime.Char{Val: runes[i]}, nil
	case *runtime.Dict:
		v, found, err := c.Get(idx)
		if err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		if !found {
			return runtime.Nil{}, nil
		}
		return v, nil
	case *runtime.Object:
		key, ok := idx.(runtime.Str)
		if !ok {
			return nil, typeError(span, "object key must be a string, got %s", idx.Type())
		}
		v, found := c.Get(key.Val)
		if !found {
			return runtime.Nil{}, nil
		}
		return v, nil
	case *runtime.DataFrame:
		key, ok := idx.(runtime.Str)
		if !ok {
			return nil, typeError(span, "column name must be a string, got %s", idx.Type())
		}
		col, found := c.Column(key.Val)
		if !found {
			return nil, errAt(diag.CodeRuntimeError, span, "unknown column %q", key.Val)
		}
		return runtime.NewArray(append([]runtime.Value(nil), col.Values...)), nil
	}
	return nil, typeError(span, "cannot index %s", target.Type())
}

func boundsCheck(idx runtime.Value, length int, span lexer.Span, what string) (int, error) {
	i, ok := idx.(runtime.Integer)
	if !ok {
		return 0, typeError(span, "%s index must be an integer, got %s", what, idx.Type())
	}
	if i.Val < 0 || i.Val >= int64(length) {
		return 0, errAt(diag.CodeRuntimeIndex, span,
			"index %d out of bounds for %s of length %d", i.Val, what, length)
	}
	return int(i.Val), nil
}

func (in *Interpreter) evalSlice(e *ast.SliceExpr, sc *Scope) (runtime.Value, error) {
	target, err := in.eval(e.Target, sc)
	if err != nil {
		return nil, err
	}

	sliceBound := func(expr ast.Expr, def int) (int, error) {
		if expr == nil {
			return def, nil
		}
		v, err := in.eval(expr, sc)
		if err != nil {
			return 0, err
		}
		n, ok := v.(runtime.Integer)
		if !ok {
			return 0, typeError(expr.Span(), "slice bound must be an integer, got %s", v.Type())
		}
		return int(n.Val), nil
	}

	clamp := func(v, length int) int {
		if v < 0 {
			return 0
		}
		if v > length {
			return length
		}
		return v
	}

	switch c := target.(type) {
	case *runtime.Array:
		start, err := sliceBound(e.Start, 0)
		if err != nil {
			return nil, err
		}
		end, err := sliceBound(e.End, len(c.Elems))
		if err != nil {
			return nil, err
		}
		start, end = clamp(start, len(c.Elems)), clamp(end, len(c.Elems))
		if start > end {
			start = end
		}
		return runtime.NewArray(append([]runtime.Value(nil), c.Elems[start:end]...)), nil
	case runtime.Str:
		runes := []rune(c.Val)
		start, err := sliceBound(e.Start, 0)
		if err != nil {
			return nil, err
		}
		end, err := sliceBound(e.End, len(runes))
		if err != nil {
			return nil, err
		}
		start, end = clamp(start, len(runes)), clamp(end, len(runes))
		if start > end {
			start = end
		}
		return runtime.Str{Val: string(runes[start:end])}, nil
	}
	return nil, typeError(e.Span(), "cannot slice %s", target.Type())
}

func (in *Interpreter) evalField(e *ast.FieldExpr, sc *Scope) (runtime.Value, error) {
	target, err := in.eval(e.Target, sc)
	if err != nil {
		return nil, err
	}
	if e.Optional {
		if _, isNil := target.(runtime.Nil); isNil {
			return runtime.Nil{}, nil
		}
	}

	name := e.Field.Name

	// Tuple projection `.0`, `.1`.
	if idx, convErr := strconv.Atoi(name); convErr == nil {
		if tup, ok := target.(*runtime.Tuple); ok {
			if idx < 0 || idx >= len(tup.Elems) {
				return nil, errAt(diag.CodeRuntimeIndex, e.Span(),
					"tuple has no field %d", idx)
			}
			return tup.Elems[idx], nil
		}
	}

	switch t := target.(type) {
	case *runtime.Object:
		if v, ok := t.Get(name); ok {
			return v, nil
		}
		if m, ok := in.methodOn(t.TypeName, name); ok {
			bound := *m
			bound.Self = t
			return &bound, nil
		}
		return nil, errAt(diag.CodeRuntimeError, e.Span(),
			"%s has no field %q", displayTypeName(t), name)
	case *ActorInstance:
		if v, ok := t.State.Get(name); ok {
			return v, nil
		}
		return nil, errAt(diag.CodeRuntimeError, e.Span(),
			"actor %s has no field %q", t.Behavior.Name, name)
	case *runtime.EnumVariant:
		return nil, typeError(e.Span(), "%s::%s has no field %q", t.Enum, t.Variant, name)
	}
	return nil, typeError(e.Span(), "cannot access field %q on %s", name, target.Type())
}

func displayTypeName(o *runtime.Object) string {
	if o.TypeName != "" {
		return o.TypeName
	}
	return "object"
}
