package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// NamedType represents a named type reference.
type NamedType struct {
	base
	Name *Ident
}

// NewNamedType constructs a named type node.
func NewNamedType(name *Ident, span lexer.Span) *NamedType {
	return &NamedType{base: at(span), Name: name}
}

func (*NamedType) typeNode() {}

// GenericType represents `Base<Params>` / `Base[Params]`.
type GenericType struct {
	base
	Base   TypeExpr
	Params []TypeExpr
}

// NewGenericType constructs a generic type node.
func NewGenericType(baseType TypeExpr, params []TypeExpr, span lexer.Span) *GenericType {
	return &GenericType{base: at(span), Base: baseType, Params: params}
}

func (*GenericType) typeNode() {}

// FunctionType represents `fn(params) -> ret`.
type FunctionType struct {
	base
	Params []TypeExpr
	Return TypeExpr
}

// NewFunctionType constructs a function type node.
func NewFunctionType(params []TypeExpr, ret TypeExpr, span lexer.Span) *FunctionType {
	return &FunctionType{base: at(span), Params: params, Return: ret}
}

func (*FunctionType) typeNode() {}

// TupleType represents `(A, B)`.
type TupleType struct {
	base
	Elements []TypeExpr
}

func (*TupleType) typeNode() {}

// ArrayType represents `[T]` and `[T; N]`.
type ArrayType struct {
	base
	Elem TypeExpr
	Len  Expr // nil for unsized
}

func (*ArrayType) typeNode() {}

// RefType represents `&T` / `&mut T`.
type RefType struct {
	base
	Mutable bool
	Elem    TypeExpr
}

func (*RefType) typeNode() {}
