package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// PrefixExpr represents a prefix operator expression.
type PrefixExpr struct {
	base
	Op   lexer.TokenType
	Expr Expr
}

// NewPrefixExpr constructs a prefix expression node.
func NewPrefixExpr(op lexer.TokenType, expr Expr, span lexer.Span) *PrefixExpr {
	return &PrefixExpr{base: at(span), Op: op, Expr: expr}
}

func (*PrefixExpr) exprNode() {}

// InfixExpr represents an infix binary expression.
type InfixExpr struct {
	base
	Op    lexer.TokenType
	Left  Expr
	Right Expr
}

// NewInfixExpr constructs a binary expression node.
func NewInfixExpr(op lexer.TokenType, left, right Expr, span lexer.Span) *InfixExpr {
	return &InfixExpr{base: at(span), Op: op, Left: left, Right: right}
}

func (*InfixExpr) exprNode() {}

// TernaryExpr represents `cond ? then : else`.
type TernaryExpr struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryExpr) exprNode() {}

// AssignExpr represents `target = value`.
type AssignExpr struct {
	base
	Target Expr
	Value  Expr
}

// NewAssignExpr constructs an assignment expression node.
func NewAssignExpr(target, value Expr, span lexer.Span) *AssignExpr {
	return &AssignExpr{base: at(span), Target: target, Value: value}
}

func (*AssignExpr) exprNode() {}

// CompoundAssignExpr represents `target op= value`. Op is the underlying
// binary operator (PLUS for `+=` and so on).
type CompoundAssignExpr struct {
	base
	Op     lexer.TokenType
	Target Expr
	Value  Expr
}

func (*CompoundAssignExpr) exprNode() {}

// IncDecExpr represents `++x`, `--x`, `x++`, `x--`.
type IncDecExpr struct {
	base
	Op     lexer.TokenType // INCREMENT or DECREMENT
	Target Expr
	Prefix bool
}

func (*IncDecExpr) exprNode() {}

// CallExpr represents a function call.
type CallExpr struct {
	base
	Callee   Expr
	TypeArgs []TypeExpr
	Args     []Expr
}

// NewCallExpr constructs a call expression node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{base: at(span), Callee: callee, Args: args}
}

func (*CallExpr) exprNode() {}

// MethodCallExpr represents `receiver.name(args)`.
type MethodCallExpr struct {
	base
	Receiver Expr
	Method   *Ident
	Args     []Expr
}

// NewMethodCallExpr constructs a method call node.
func NewMethodCallExpr(receiver Expr, method *Ident, args []Expr, span lexer.Span) *MethodCallExpr {
	return &MethodCallExpr{base: at(span), Receiver: receiver, Method: method, Args: args}
}

func (*MethodCallExpr) exprNode() {}

// FieldExpr represents `target.field` or `target?.field`.
type FieldExpr struct {
	base
	Target   Expr
	Field    *Ident
	Optional bool
}

// NewFieldExpr constructs a field access node.
func NewFieldExpr(target Expr, field *Ident, optional bool, span lexer.Span) *FieldExpr {
	return &FieldExpr{base: at(span), Target: target, Field: field, Optional: optional}
}

func (*FieldExpr) exprNode() {}

// IndexExpr represents `target[index]` or `target?[index]`.
type IndexExpr struct {
	base
	Target   Expr
	Index    Expr
	Optional bool
}

// NewIndexExpr constructs an index expression node.
func NewIndexExpr(target, index Expr, optional bool, span lexer.Span) *IndexExpr {
	return &IndexExpr{base: at(span), Target: target, Index: index, Optional: optional}
}

func (*IndexExpr) exprNode() {}

// SliceExpr represents `target[start:end]` with optional bounds.
type SliceExpr struct {
	base
	Target Expr
	Start  Expr // nil when omitted
	End    Expr // nil when omitted
}

func (*SliceExpr) exprNode() {}

// QuestionExpr represents the error-propagation postfix `e?`.
type QuestionExpr struct {
	base
	Expr Expr
}

func (*QuestionExpr) exprNode() {}

// ThrowExpr represents `throw e`.
type ThrowExpr struct {
	base
	Value Expr
}

func (*ThrowExpr) exprNode() {}

// AwaitExpr represents `e.await` / `await e`.
type AwaitExpr struct {
	base
	Expr Expr
}

func (*AwaitExpr) exprNode() {}

// AsyncBlock represents `async { ... }`.
type AsyncBlock struct {
	base
	Body *BlockExpr
}

func (*AsyncBlock) exprNode() {}

// SpawnExpr represents `spawn e`.
type SpawnExpr struct {
	base
	Expr Expr
}

func (*SpawnExpr) exprNode() {}

// SendExpr represents the actor send `actor ! msg`.
type SendExpr struct {
	base
	Actor Expr
	Msg   Expr
}

func (*SendExpr) exprNode() {}

// AskExpr represents the actor query `actor ? msg` / `ask actor msg timeout`.
type AskExpr struct {
	base
	Actor   Expr
	Msg     Expr
	Timeout Expr // nil when absent
}

func (*AskExpr) exprNode() {}

// LazyExpr represents `lazy e`.
type LazyExpr struct {
	base
	Expr Expr
}

func (*LazyExpr) exprNode() {}

// UnsafeBlock represents `unsafe { ... }`.
type UnsafeBlock struct {
	base
	Body *BlockExpr
}

func (*UnsafeBlock) exprNode() {}

// LambdaExpr represents `|params| body` and `\params -> body`.
type LambdaExpr struct {
	base
	Params []*Param
	Body   Expr
}

// NewLambdaExpr constructs a lambda node.
func NewLambdaExpr(params []*Param, body Expr, span lexer.Span) *LambdaExpr {
	return &LambdaExpr{base: at(span), Params: params, Body: body}
}

func (*LambdaExpr) exprNode() {}
