package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// LetExpr represents a `let` binding. Either Name or Pattern is set:
// `let x = e` uses Name; `let (a, b) = e` uses Pattern. The binding's scope
// extends to the end of the enclosing block.
type LetExpr struct {
	base
	Mutable bool
	Name    *Ident
	Pattern Pattern
	Type    TypeExpr
	Value   Expr
	Else    *BlockExpr // `let ... else { ... }`, nil when absent
}

// NewLetExpr constructs a named let binding.
func NewLetExpr(mutable bool, name *Ident, typ TypeExpr, value Expr, span lexer.Span) *LetExpr {
	return &LetExpr{base: at(span), Mutable: mutable, Name: name, Type: typ, Value: value}
}

func (*LetExpr) exprNode() {}

// ConstExpr represents a `const` binding.
type ConstExpr struct {
	base
	Name  *Ident
	Type  TypeExpr
	Value Expr
}

func (*ConstExpr) exprNode() {}

// Param represents a function or lambda parameter.
type Param struct {
	Name    *Ident
	Type    TypeExpr
	Default Expr // nil when the parameter has no default
	Rest    bool // `...args`
	span    lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a parameter node.
func NewParam(name *Ident, typ TypeExpr, def Expr, rest bool, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, Default: def, Rest: rest, span: span}
}

// FunExpr represents a named function definition.
type FunExpr struct {
	base
	Name       *Ident
	TypeParams []*Ident
	Params     []*Param
	ReturnType TypeExpr
	Body       *BlockExpr
	Async      bool
	Pub        bool
}

// NewFunExpr constructs a function definition node.
func NewFunExpr(name *Ident, params []*Param, returnType TypeExpr, body *BlockExpr, span lexer.Span) *FunExpr {
	return &FunExpr{base: at(span), Name: name, Params: params, ReturnType: returnType, Body: body}
}

func (*FunExpr) exprNode() {}

// StructField is one field of a struct, class, or actor definition.
type StructField struct {
	Name *Ident
	Type TypeExpr
	Pub  bool
	span lexer.Span
}

// Span returns the field span.
func (f *StructField) Span() lexer.Span { return f.span }

// NewStructField constructs a struct field node.
func NewStructField(name *Ident, typ TypeExpr, pub bool, span lexer.Span) *StructField {
	return &StructField{Name: name, Type: typ, Pub: pub, span: span}
}

// StructDef represents `struct Name { fields }`.
type StructDef struct {
	base
	Name       *Ident
	TypeParams []*Ident
	Fields     []*StructField
	Pub        bool
}

func (*StructDef) exprNode() {}

// EnumVariant is one variant of an enum definition.
type EnumVariant struct {
	Name   *Ident
	Fields []TypeExpr // tuple-style payload; empty for unit variants
	span   lexer.Span
}

// Span returns the variant span.
func (v *EnumVariant) Span() lexer.Span { return v.span }

// NewEnumVariant constructs an enum variant node.
func NewEnumVariant(name *Ident, fields []TypeExpr, span lexer.Span) *EnumVariant {
	return &EnumVariant{Name: name, Fields: fields, span: span}
}

// EnumDef represents `enum Name { variants }`.
type EnumDef struct {
	base
	Name       *Ident
	TypeParams []*Ident
	Variants   []*EnumVariant
	Pub        bool
}

func (*EnumDef) exprNode() {}

// TraitDef represents `trait Name { method signatures }`.
type TraitDef struct {
	base
	Name    *Ident
	Methods []*FunExpr
	Pub     bool
}

func (*TraitDef) exprNode() {}

// ImplBlock represents `impl Type { ... }` or `impl Trait for Type { ... }`.
type ImplBlock struct {
	base
	Trait   *Ident // nil for inherent impls
	Type    *Ident
	Methods []*FunExpr
}

func (*ImplBlock) exprNode() {}

// ClassDef represents `class Name { fields; methods }`.
type ClassDef struct {
	base
	Name    *Ident
	Fields  []*StructField
	Methods []*FunExpr
	Pub     bool
}

func (*ClassDef) exprNode() {}

// TypeAlias represents `type Name = Type`.
type TypeAlias struct {
	base
	Name *Ident
	Type TypeExpr
	Pub  bool
}

func (*TypeAlias) exprNode() {}

// ModuleDef represents `mod name { ... }`.
type ModuleDef struct {
	base
	Name *Ident
	Body *BlockExpr
}

func (*ModuleDef) exprNode() {}

// ImportItem is one imported name with an optional alias.
type ImportItem struct {
	Name  *Ident
	Alias *Ident
}

// ImportExpr represents the import forms: `import path`, `import path as x`,
// `from path import a, b`, `from path import *`.
type ImportExpr struct {
	base
	Path     []*Ident
	Items    []*ImportItem // nil for whole-module imports
	All      bool          // `import *`
	Alias    *Ident        // `as name`
	ReExport bool          // re-export (`export from`)
}

func (*ImportExpr) exprNode() {}

// ExportExpr represents `export name` / `export { a, b }`.
type ExportExpr struct {
	base
	Items []*Ident
	Expr  Expr // `export fun ...` exports the definition directly
}

func (*ExportExpr) exprNode() {}

// ActorHandler is one `on Msg(params) { ... }` handler of an actor.
type ActorHandler struct {
	Message *Ident
	Params  []*Param
	Body    *BlockExpr
	span    lexer.Span
}

// Span returns the handler span.
func (h *ActorHandler) Span() lexer.Span { return h.span }

// NewActorHandler constructs an actor handler node.
func NewActorHandler(message *Ident, params []*Param, body *BlockExpr, span lexer.Span) *ActorHandler {
	return &ActorHandler{Message: message, Params: params, Body: body, span: span}
}

// ActorDef represents `actor Name { state fields; on Msg { ... } }`.
type ActorDef struct {
	base
	Name     *Ident
	Fields   []*StructField
	Handlers []*ActorHandler
}

func (*ActorDef) exprNode() {}
