package interp

import (
	"math"
	"sort"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// builtinMethod dispatches the native method table for core value types.
func (in *Interpreter) builtinMethod(receiver runtime.Value, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch r := receiver.(type) {
	case *runtime.Array:
		return in.arrayMethod(r, name, args, span)
	case runtime.Str:
		return in.stringMethod(r, name, args, span)
	case *runtime.Dict:
		return in.dictMethod(r, name, args, span)
	case *runtime.Set:
		return in.setMethod(r, name, args, span)
	case runtime.Range:
		return in.rangeMethod(r, name, args, span)
	case *runtime.Tuple:
		if name == "len" {
			return runtime.Integer{Val: int64(len(r.Elems))}, nil
		}
	case *runtime.DataFrame:
		return in.dataframeMethod(r, name, args, span)
	case *runtime.EnumVariant:
		return in.variantMethod(r, name, args, span)
	case *runtime.Object:
		switch name {
		case "len":
			return runtime.Integer{Val: int64(r.Len())}, nil
		case "keys":
			out := runtime.NewArray(nil)
			for _, n := range r.Names() {
				out.Elems = append(out.Elems, runtime.Str{Val: n})
			}
			return out, nil
		}
	case *Lazy:
		if name == "force" {
			return in.force(r)
		}
	case runtime.Integer, runtime.Float:
		f, _ := numericAsFloat(receiver)
		switch name {
		case "abs":
			if n, ok := receiver.(runtime.Integer); ok {
				if n.Val < 0 {
					return runtime.Integer{Val: -n.Val}, nil
				}
				return n, nil
			}
			return runtime.Float{Val: math.Abs(f)}, nil
		case "to_string":
			return runtime.Str{Val: receiver.Display()}, nil
		case "to_float":
			return runtime.Float{Val: f}, nil
		case "to_int":
			return runtime.Integer{Val: int64(f)}, nil
		case "sqrt":
			return runtime.Float{Val: math.Sqrt(f)}, nil
		case "floor":
			return runtime.Float{Val: math.Floor(f)}, nil
		case "ceil":
			return runtime.Float{Val: math.Ceil(f)}, nil
		case "round":
			return runtime.Float{Val: math.Round(f)}, nil
		}
	}

	if name == "to_string" {
		return runtime.Str{Val: receiver.Display()}, nil
	}
	return nil, errAt(diag.CodeRuntimeError, span,
		"%s has no method %q", receiver.Type(), name)
}

func (in *Interpreter) arrayMethod(arr *runtime.Array, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch name {
	case "len":
		return runtime.Integer{Val: int64(len(arr.Elems))}, nil
	case "is_empty":
		return runtime.Bool{Val: len(arr.Elems) == 0}, nil
	case "push":
		arr.Elems = append(arr.Elems, args...)
		return arr, nil
	case "pop":
		if len(arr.Elems) == 0 {
			return nil, errAt(diag.CodeRuntimeIndex, span, "pop from empty array")
		}
		last := arr.Elems[len(arr.Elems)-1]
		arr.Elems = arr.Elems[:len(arr.Elems)-1]
		return last, nil
	case "first":
		if len(arr.Elems) == 0 {
			return runtime.Nil{}, nil
		}
		return arr.Elems[0], nil
	case "last":
		if len(arr.Elems) == 0 {
			return runtime.Nil{}, nil
		}
		return arr.Elems[len(arr.Elems)-1], nil
	case "reverse":
		out := make([]runtime.Value, len(arr.Elems))
		for i, v := range arr.Elems {
			out[len(arr.Elems)-1-i] = v
		}
		return runtime.NewArray(out), nil
	case "contains":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		for _, v := range arr.Elems {
			if runtime.Equals(v, args[0]) {
				return runtime.Bool{Val: true}, nil
			}
		}
		return runtime.Bool{Val: false}, nil
	case "join":
		sep := ", "
		if len(args) == 1 {
			s, ok := args[0].(runtime.Str)
			if !ok {
				return nil, typeError(span, "join separator must be a string, got %s", args[0].Type())
			}
			sep = s.Val
		}
		parts := make([]string, len(arr.Elems))
		for i, v := range arr.Elems {
			parts[i] = v.Display()
		}
		return runtime.Str{Val: strings.Join(parts, sep)}, nil
	case "sum":
		return sumValues(arr.Elems, span)
	case "sort":
		return sortArray(arr, span)
	case "map":
		fn, _, err := in.asCallback(args, span, "map")
		if err != nil {
			return nil, err
		}
		out := runtime.NewArray(make([]runtime.Value, 0, len(arr.Elems)))
		for _, v := range arr.Elems {
			mapped, err := fn(v)
			if err != nil {
				return nil, err
			}
			out.Elems = append(out.Elems, mapped)
		}
		return out, nil
	case "filter":
		fn, _, err := in.asCallback(args, span, "filter")
		if err != nil {
			return nil, err
		}
		out := runtime.NewArray(nil)
		for _, v := range arr.Elems {
			keep, err := fn(v)
			if err != nil {
				return nil, err
			}
			if runtime.Truthy(keep) {
				out.Elems = append(out.Elems, v)
			}
		}
		return out, nil
	case "reduce":
		if len(args) < 1 || len(args) > 2 {
			return nil, errAt(diag.CodeRuntimeArity, span, "reduce expects a function and an optional seed")
		}
		fn, _, err := in.asCallback(args[:1], span, "reduce")
		if err != nil {
			return nil, err
		}
		items := arr.Elems
		var acc runtime.Value
		if len(args) == 2 {
			acc = args[1]
		} else {
			if len(items) == 0 {
				return nil, errAt(diag.CodeRuntimeError, span, "reduce of empty array with no seed")
			}
			acc = items[0]
			items = items[1:]
		}
		for _, v := range items {
			acc, err = fn(acc, v)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
	return nil, errAt(diag.CodeRuntimeError, span, "Array has no method %q", name)
}

func (in *Interpreter) stringMethod(s runtime.Str, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch name {
	case "len":
		return runtime.Integer{Val: int64(len([]rune(s.Val)))}, nil
	case "is_empty":
		return runtime.Bool{Val: s.Val == ""}, nil
	case "to_upper", "to_uppercase":
		return runtime.Str{Val: strings.ToUpper(s.Val)}, nil
	case "to_lower", "to_lowercase":
		return runtime.Str{Val: strings.ToLower(s.Val)}, nil
	case "trim":
		return runtime.Str{Val: strings.TrimSpace(s.Val)}, nil
	case "chars":
		out := runtime.NewArray(nil)
		for _, r := range s.Val {
			out.Elems = append(out.Elems, runtime.Char{Val: r})
		}
		return out, nil
	case "split":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		sep, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "split separator must be a string, got %s", args[0].Type())
		}
		out := runtime.NewArray(nil)
		for _, part := range strings.Split(s.Val, sep.Val) {
			out.Elems = append(out.Elems, runtime.Str{Val: part})
		}
		return out, nil
	case "contains":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		sub, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "contains needle must be a string, got %s", args[0].Type())
		}
		return runtime.Bool{Val: strings.Contains(s.Val, sub.Val)}, nil
	case "starts_with":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		prefix, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "starts_with prefix must be a string, got %s", args[0].Type())
		}
		return runtime.Bool{Val: strings.HasPrefix(s.Val, prefix.Val)}, nil
	case "ends_with":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		suffix, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "ends_with suffix must be a string, got %s", args[0].Type())
		}
		return runtime.Bool{Val: strings.HasSuffix(s.Val, suffix.Val)}, nil
	case "replace":
		if err := wantArity(span, args, 2); err != nil {
			return nil, err
		}
		from, ok1 := args[0].(runtime.Str)
		to, ok2 := args[1].(runtime.Str)
		if !ok1 || !ok2 {
			return nil, typeError(span, "replace arguments must be strings")
		}
		return runtime.Str{Val: strings.ReplaceAll(s.Val, from.Val, to.Val)}, nil
	case "repeat":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		n, ok := args[0].(runtime.Integer)
		if !ok || n.Val < 0 {
			return nil, typeError(span, "repeat count must be a non-negative integer")
		}
		return runtime.Str{Val: strings.Repeat(s.Val, int(n.Val))}, nil
	case "to_int":
		n, err := runtime.ParseInteger(strings.TrimSpace(s.Val))
		if err != nil {
			return nil, throwSignal{value: runtime.Str{Val: err.Error()}}
		}
		return runtime.Integer{Val: n}, nil
	}
	return nil, errAt(diag.CodeRuntimeError, span, "String has no method %q", name)
}

func (in *Interpreter) dictMethod(d *runtime.Dict, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch name {
	case "len":
		return runtime.Integer{Val: int64(d.Len())}, nil
	case "get":
		if len(args) < 1 || len(args) > 2 {
			return nil, errAt(diag.CodeRuntimeArity, span, "get expects a key and an optional default")
		}
		v, found, err := d.Get(args[0])
		if err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		if found {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return runtime.Nil{}, nil
	case "insert":
		if err := wantArity(span, args, 2); err != nil {
			return nil, err
		}
		if err := d.Set(args[0], args[1]); err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		return runtime.Unit{}, nil
	case "remove":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		existed, err := d.Delete(args[0])
		if err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		return runtime.Bool{Val: existed}, nil
	case "contains_key":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		_, found, err := d.Get(args[0])
		if err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		return runtime.Bool{Val: found}, nil
	case "keys":
		out := runtime.NewArray(nil)
		d.Entries(func(key, _ runtime.Value) bool {
			out.Elems = append(out.Elems, key)
			return true
		})
		return out, nil
	case "values":
		out := runtime.NewArray(nil)
		d.Entries(func(_, val runtime.Value) bool {
			out.Elems = append(out.Elems, val)
			return true
		})
		return out, nil
	case "items":
		out := runtime.NewArray(nil)
		d.Entries(func(key, val runtime.Value) bool {
			out.Elems = append(out.Elems, &runtime.Tuple{Elems: []runtime.Value{key, val}})
			return true
		})
		return out, nil
	}
	return nil, errAt(diag.CodeRuntimeError, span, "Dict has no method %q", name)
}

func (in *Interpreter) setMethod(s *runtime.Set, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch name {
	case "len":
		return runtime.Integer{Val: int64(s.Len())}, nil
	case "add", "insert":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		if err := s.Add(args[0]); err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		return runtime.Unit{}, nil
	case "contains":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		ok, err := s.Contains(args[0])
		if err != nil {
			return nil, typeError(span, "%s", err.Error())
		}
		return runtime.Bool{Val: ok}, nil
	case "to_array":
		out := runtime.NewArray(nil)
		s.Members(func(m runtime.Value) bool {
			out.Elems = append(out.Elems, m)
			return true
		})
		return out, nil
	}
	return nil, errAt(diag.CodeRuntimeError, span, "Set has no method %q", name)
}

func (in *Interpreter) rangeMethod(r runtime.Range, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch name {
	case "len":
		return runtime.Integer{Val: r.Len()}, nil
	case "to_array":
		out := runtime.NewArray(nil)
		end := r.End
		if r.Inclusive {
			end++
		}
		for v := r.Start; v < end; v++ {
			out.Elems = append(out.Elems, runtime.Integer{Val: v})
		}
		return out, nil
	case "contains":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		n, ok := args[0].(runtime.Integer)
		if !ok {
			return runtime.Bool{Val: false}, nil
		}
		if r.Inclusive {
			return runtime.Bool{Val: n.Val >= r.Start && n.Val <= r.End}, nil
		}
		return runtime.Bool{Val: n.Val >= r.Start && n.Val < r.End}, nil
	case "sum":
		var total int64
		end := r.End
		if r.Inclusive {
			end++
		}
		for v := r.Start; v < end; v++ {
			total += v
		}
		return runtime.Integer{Val: total}, nil
	}
	return nil, errAt(diag.CodeRuntimeError, span, "Range has no method %q", name)
}

func (in *Interpreter) dataframeMethod(df *runtime.DataFrame, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		if _, ok := err.(*RuntimeError); ok {
			return err
		}
		if _, ok := err.(throwSignal); ok {
			return err
		}
		return errAt(diag.CodeRuntimeError, span, "%s", err.Error())
	}

	switch name {
	case "rows":
		return runtime.Integer{Val: int64(df.NumRows())}, nil
	case "columns":
		out := runtime.NewArray(nil)
		for _, c := range df.Cols {
			out.Elems = append(out.Elems, runtime.Str{Val: c.Name})
		}
		return out, nil
	case "shape":
		return &runtime.Tuple{Elems: []runtime.Value{
			runtime.Integer{Val: int64(df.NumRows())},
			runtime.Integer{Val: int64(df.NumCols())},
		}}, nil
	case "select":
		names := make([]string, 0, len(args))
		for _, a := range args {
			if arr, ok := a.(*runtime.Array); ok {
				for _, v := range arr.Elems {
					s, ok := v.(runtime.Str)
					if !ok {
						return nil, typeError(span, "column names must be strings, got %s", v.Type())
					}
					names = append(names, s.Val)
				}
				continue
			}
			s, ok := a.(runtime.Str)
			if !ok {
				return nil, typeError(span, "column names must be strings, got %s", a.Type())
			}
			names = append(names, s.Val)
		}
		out, err := df.Select(names)
		return out, wrap(err)
	case "filter":
		fn, _, err := in.asCallback(args, span, "filter")
		if err != nil {
			return nil, err
		}
		out, ferr := df.Filter(fn)
		return out, wrap(ferr)
	case "with_column":
		if len(args) != 2 {
			return nil, errAt(diag.CodeRuntimeArity, span, "with_column expects a name and a function")
		}
		colName, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "column name must be a string, got %s", args[0].Type())
		}
		fn, param, err := in.asCallback(args[1:], span, "with_column")
		if err != nil {
			return nil, err
		}
		out, werr := df.WithColumn(colName.Val, param, fn)
		return out, wrap(werr)
	case "transform":
		if len(args) != 2 {
			return nil, errAt(diag.CodeRuntimeArity, span, "transform expects a column and a function")
		}
		colName, ok := args[0].(runtime.Str)
		if !ok {
			return nil, typeError(span, "column name must be a string, got %s", args[0].Type())
		}
		fn, param, err := in.asCallback(args[1:], span, "transform")
		if err != nil {
			return nil, err
		}
		out, terr := df.Transform(colName.Val, param, fn)
		return out, wrap(terr)
	}
	return nil, errAt(diag.CodeRuntimeError, span, "DataFrame has no method %q", name)
}

func (in *Interpreter) variantMethod(v *runtime.EnumVariant, name string, args []runtime.Value, span lexer.Span) (runtime.Value, error) {
	switch name {
	case "is_some":
		return runtime.Bool{Val: v.Variant == "Some"}, nil
	case "is_none":
		return runtime.Bool{Val: v.Variant == "None"}, nil
	case "is_ok":
		return runtime.Bool{Val: v.Variant == "Ok"}, nil
	case "is_err":
		return runtime.Bool{Val: v.Variant == "Err"}, nil
	case "unwrap":
		switch v.Variant {
		case "Some", "Ok":
			if len(v.Payload) == 1 {
				return v.Payload[0], nil
			}
		}
		return nil, throwSignal{value: runtime.Str{
			Val: "unwrap of " + v.Display(),
		}}
	case "unwrap_or":
		if err := wantArity(span, args, 1); err != nil {
			return nil, err
		}
		switch v.Variant {
		case "Some", "Ok":
			if len(v.Payload) == 1 {
				return v.Payload[0], nil
			}
		}
		return args[0], nil
	}
	return nil, errAt(diag.CodeRuntimeError, span, "%s::%s has no method %q", v.Enum, v.Variant, name)
}

// asCallback adapts a single function-valued argument into the runtime's
// callback shape, reporting the parameter name for the DataFrame
// scalar-vs-row binding rule.
func (in *Interpreter) asCallback(args []runtime.Value, span lexer.Span, method string) (runtime.Callback, string, error) {
	if len(args) != 1 {
		return nil, "", errAt(diag.CodeRuntimeArity, span, "%s expects a function argument", method)
	}
	switch fn := args[0].(type) {
	case *Closure:
		param := ""
		if len(fn.Params) == 1 && !fn.Params[0].Rest {
			param = fn.Params[0].Name.Name
		}
		return func(cbArgs ...runtime.Value) (runtime.Value, error) {
			return in.callClosure(fn, cbArgs, span)
		}, param, nil
	case *Builtin:
		return func(cbArgs ...runtime.Value) (runtime.Value, error) {
			return fn.Fn(in, span, cbArgs)
		}, "", nil
	}
	return nil, "", typeError(span, "%s expects a function, got %s", method, args[0].Type())
}

func sumValues(items []runtime.Value, span lexer.Span) (runtime.Value, error) {
	var intSum int64
	var floatSum float64
	sawFloat := false
	for _, v := range items {
		switch n := v.(type) {
		case runtime.Integer:
			intSum += n.Val
		case runtime.Float:
			sawFloat = true
			floatSum += n.Val
		default:
			return nil, typeError(span, "sum requires numbers, got %s", v.Type())
		}
	}
	if sawFloat {
		return runtime.Float{Val: floatSum + float64(intSum)}, nil
	}
	return runtime.Integer{Val: intSum}, nil
}

func sortArray(arr *runtime.Array, span lexer.Span) (runtime.Value, error) {
	out := append([]runtime.Value(nil), arr.Elems...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		if a, ok := out[i].(runtime.Str); ok {
			b, ok := out[j].(runtime.Str)
			if !ok {
				sortErr = typeError(span, "cannot sort mixed String and %s", out[j].Type())
				return false
			}
			return a.Val < b.Val
		}
		a, aok := numericAsFloat(out[i])
		b, bok := numericAsFloat(out[j])
		if !aok || !bok {
			sortErr = typeError(span, "cannot sort %s values", out[i].Type())
			return false
		}
		return a < b
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return runtime.NewArray(out), nil
}
