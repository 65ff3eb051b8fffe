package interp

import (
	"fmt"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// Closure is a function value: parameters, body, and the defining scope
// captured by reference.
type Closure struct {
	Name   string
	Params []*ast.Param
	Body   ast.Expr
	Env    *Scope
	Self   runtime.Value // receiver for bound methods, nil otherwise
}

func (*Closure) Type() string { return "Function" }

func (c *Closure) Display() string {
	if c.Name == "" {
		return "<lambda>"
	}
	return fmt.Sprintf("<fun %s>", c.Name)
}

// Builtin is a native function exposed to user code.
type Builtin struct {
	Name string
	Fn   func(in *Interpreter, span lexer.Span, args []runtime.Value) (runtime.Value, error)
}

func (*Builtin) Type() string      { return "Function" }
func (b *Builtin) Display() string { return fmt.Sprintf("<builtin %s>", b.Name) }

// StructType is the runtime handle for a `struct` definition.
type StructType struct {
	Name   string
	Fields []string
}

func (*StructType) Type() string      { return "Type" }
func (t *StructType) Display() string { return fmt.Sprintf("<struct %s>", t.Name) }

// EnumType is the runtime handle for an `enum` definition.
type EnumType struct {
	Name     string
	Variants []string
	Arity    map[string]int
}

func (*EnumType) Type() string      { return "Type" }
func (t *EnumType) Display() string { return fmt.Sprintf("<enum %s>", t.Name) }

// HasVariant reports whether the enum declares the variant.
func (t *EnumType) HasVariant(name string) bool {
	_, ok := t.Arity[name]
	return ok
}

// VariantCtor is a payload-carrying enum variant awaiting its arguments.
type VariantCtor struct {
	Enum    string
	Variant string
	Arity   int
}

func (*VariantCtor) Type() string { return "Function" }
func (v *VariantCtor) Display() string {
	return fmt.Sprintf("<variant %s::%s>", v.Enum, v.Variant)
}

// ClassType is the runtime handle for a `class` definition.
type ClassType struct {
	Name    string
	Fields  []string
	Methods map[string]*Closure
}

func (*ClassType) Type() string      { return "Type" }
func (t *ClassType) Display() string { return fmt.Sprintf("<class %s>", t.Name) }

// ActorType is the runtime handle for an `actor` definition. Handlers keep
// their AST; each spawned instance evaluates them against its own state.
type ActorType struct {
	Name     string
	Fields   []*ast.StructField
	Handlers map[string]*ast.ActorHandler
	Env      *Scope
}

func (*ActorType) Type() string      { return "Type" }
func (t *ActorType) Display() string { return fmt.Sprintf("<actor %s>", t.Name) }

// ActorInstance is a spawned actor: behavior plus private state. Message
// handling is synchronous in the core evaluator.
type ActorInstance struct {
	Behavior *ActorType
	State    *runtime.Object
}

func (*ActorInstance) Type() string { return "Actor" }
func (a *ActorInstance) Display() string {
	return fmt.Sprintf("<%s %s>", a.Behavior.Name, a.State.Display())
}

// Lazy is an unevaluated thunk. Forcing is idempotent.
type Lazy struct {
	expr  ast.Expr
	env   *Scope
	done  bool
	value runtime.Value
}

func (*Lazy) Type() string { return "Lazy" }
func (l *Lazy) Display() string {
	if l.done {
		return l.value.Display()
	}
	return "<lazy>"
}
