package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

func installBuiltins(globals *Scope) {
	define := func(name string, fn func(*Interpreter, lexer.Span, []runtime.Value) (runtime.Value, error)) {
		globals.define(name, &Builtin{Name: name, Fn: fn}, false)
	}

	define("println", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		fmt.Fprintln(in.out(), displayJoined(args))
		return runtime.Unit{}, nil
	})
	define("print", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		fmt.Fprint(in.out(), displayJoined(args))
		return runtime.Unit{}, nil
	})
	define("format", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Str{Val: ""}, nil
		}
		tmpl, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "format template must be a string, got %s", args[0].Type())
		}
		out := tmpl.Val
		for _, a := range args[1:] {
			out = strings.Replace(out, "{}", a.Display(), 1)
		}
		return runtime.Str{Val: out}, nil
	})

	define("len", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		n, err := lengthOf(args[0], span)
		if err != nil {
			return nil, err
		}
		return runtime.Integer{Val: n}, nil
	})

	define("range", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		ints := make([]int64, len(args))
		for i, a := range args {
			n, ok := a.(runtime.Integer)
			if !ok {
				return nil, typeError(span, "range bounds must be integers, got %s", a.Type())
			}
			ints[i] = n.Val
		}
		switch len(args) {
		case 1:
			return runtime.Range{Start: 0, End: ints[0]}, nil
		case 2:
			return runtime.Range{Start: ints[0], End: ints[1]}, nil
		case 3:
			if ints[2] == 0 {
				return nil, errAt(diag.CodeRuntimeError, span, "range step must be non-zero")
			}
			out := runtime.NewArray(nil)
			if ints[2] > 0 {
				for v := ints[0]; v < ints[1]; v += ints[2] {
					out.Elems = append(out.Elems, runtime.Integer{Val: v})
				}
			} else {
				for v := ints[0]; v > ints[1]; v += ints[2] {
					out.Elems = append(out.Elems, runtime.Integer{Val: v})
				}
			}
			return out, nil
		}
		return nil, errAt(diag.CodeRuntimeArity, span, "range expects 1 to 3 arguments, got %d", len(args))
	})

	define("type_of", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		return runtime.Str{Val: args[0].Type()}, nil
	})
	define("to_string", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		return runtime.Str{Val: args[0].Display()}, nil
	})
	define("inspect", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		return runtime.Str{Val: runtime.Inspect(args[0])}, nil
	})

	define("to_int", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case runtime.Integer:
			return v, nil
		case runtime.Float:
			return runtime.Integer{Val: int64(v.Val)}, nil
		case runtime.Str:
			n, err := runtime.ParseInteger(strings.TrimSpace(v.Val))
			if err != nil {
				return nil, throwSignal{value: runtime.Str{Val: err.Error()}}
			}
			return runtime.Integer{Val: n}, nil
		case runtime.Char:
			return runtime.Integer{Val: int64(v.Val)}, nil
		case runtime.Bool:
			if v.Val {
				return runtime.Integer{Val: 1}, nil
			}
			return runtime.Integer{Val: 0}, nil
		}
		return nil, typeError(span, "cannot convert %s to Int", args[0].Type())
	})
	define("to_float", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case runtime.Float:
			return v, nil
		case runtime.Integer:
			return runtime.Float{Val: float64(v.Val)}, nil
		case runtime.Str:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Val), 64)
			if err != nil {
				return nil, throwSignal{value: runtime.Str{Val: "invalid float literal " + strconv.Quote(v.Val)}}
			}
			return runtime.Float{Val: f}, nil
		}
		return nil, typeError(span, "cannot convert %s to Float", args[0].Type())
	})

	define("abs", numeric1("abs", func(f float64) float64 { return math.Abs(f) }))
	define("sqrt", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		f, ok := numericAsFloat(args[0])
		if !ok {
			return nil, typeError(span, "sqrt requires a number, got %s", args[0].Type())
		}
		return runtime.Float{Val: math.Sqrt(f)}, nil
	})
	define("floor", float1("floor", math.Floor))
	define("ceil", float1("ceil", math.Ceil))
	define("round", float1("round", math.Round))

	define("min", fold2("min", func(a, b float64) bool { return a < b }))
	define("max", fold2("max", func(a, b float64) bool { return a > b }))

	define("push", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if len(args) < 2 {
			return nil, errAt(diag.CodeRuntimeArity, span, "push expects an array and a value")
		}
		arr, ok := args[0].(*runtime.Array)
		if !ok {
			return nil, typeError(span, "push requires an array, got %s", args[0].Type())
		}
		arr.Elems = append(arr.Elems, args[1:]...)
		return arr, nil
	})
	define("pop", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		arr, ok := args[0].(*runtime.Array)
		if !ok {
			return nil, typeError(span, "pop requires an array, got %s", args[0].Type())
		}
		if len(arr.Elems) == 0 {
			return nil, errAt(diag.CodeRuntimeIndex, span, "pop from empty array")
		}
		last := arr.Elems[len(arr.Elems)-1]
		arr.Elems = arr.Elems[:len(arr.Elems)-1]
		return last, nil
	})

	define("assert", func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 || !runtime.Truthy(args[0]) {
			msg := "assertion failed"
			if len(args) > 1 {
				msg = args[1].Display()
			}
			return nil, throwSignal{value: runtime.Str{Val: msg}}
		}
		return runtime.Unit{}, nil
	})

	// Option/Result constructors.
	globals.define("Some", &VariantCtor{Enum: "Option", Variant: "Some", Arity: 1}, false)
	globals.define("None", &runtime.EnumVariant{Enum: "Option", Variant: "None"}, false)
	globals.define("Ok", &VariantCtor{Enum: "Result", Variant: "Ok", Arity: 1}, false)
	globals.define("Err", &VariantCtor{Enum: "Result", Variant: "Err", Arity: 1}, false)
}

func displayJoined(args []runtime.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	return strings.Join(parts, " ")
}

func wantArity(span lexer.Span, args []runtime.Value, n int) error {
	if len(args) != n {
		return errAt(diag.CodeRuntimeArity, span, "expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func lengthOf(v runtime.Value, span lexer.Span) (int64, error) {
	switch c := v.(type) {
	case *runtime.Array:
		return int64(len(c.Elems)), nil
	case *runtime.Tuple:
		return int64(len(c.Elems)), nil
	case runtime.Str:
		return int64(len([]rune(c.Val))), nil
	case *runtime.Dict:
		return int64(c.Len()), nil
	case *runtime.Set:
		return int64(c.Len()), nil
	case *runtime.Object:
		return int64(c.Len()), nil
	case runtime.Range:
		return c.Len(), nil
	case *runtime.DataFrame:
		return int64(c.NumRows()), nil
	}
	return 0, typeError(span, "%s has no length", v.Type())
}

// numeric1 keeps integers integral, unlike float1.
func numeric1(name string, fn func(float64) float64) func(*Interpreter, lexer.Span, []runtime.Value) (runtime.Value, error) {
	return func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case runtime.Integer:
			return runtime.Integer{Val: int64(fn(float64(v.Val)))}, nil
		case runtime.Float:
			return runtime.Float{Val: fn(v.Val)}, nil
		}
		return nil, typeError(span, "%s requires a number, got %s", name, args[0].Type())
	}
}

func float1(name string, fn func(float64) float64) func(*Interpreter, lexer.Span, []runtime.Value) (runtime.Value, error) {
	return func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		f, ok := numericAsFloat(args[0])
		if !ok {
			return nil, typeError(span, "%s requires a number, got %s", name, args[0].Type())
		}
		return runtime.Float{Val: fn(f)}, nil
	}
}

func fold2(name string, better func(a, b float64) bool) func(*Interpreter, lexer.Span, []runtime.Value) (runtime.Value, error) {
	return func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error) {
		if len(args) < 2 {
			return nil, errAt(diag.CodeRuntimeArity, span, "%s expects at least 2 arguments", name)
		}
		best := args[0]
		bestF, ok := numericAsFloat(best)
		if !ok {
			return nil, typeError(span, "%s requires numbers, got %s", name, best.Type())
		}
		for _, a := range args[1:] {
			f, ok := numericAsFloat(a)
			if !ok {
				return nil, typeError(span, "%s requires numbers, got %s", name, a.Type())
			}
			if better(f, bestF) {
				best, bestF = a, f
			}
		}
		return best, nil
	}
}
