package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// IfExpr represents `if cond { ... } else ...`. Else is nil, a *BlockExpr,
// or another *IfExpr for `else if` chains.
type IfExpr struct {
	base
	Cond Expr
	Then *BlockExpr
	Else Expr
}

// NewIfExpr constructs an if expression node.
func NewIfExpr(cond Expr, then *BlockExpr, els Expr, span lexer.Span) *IfExpr {
	return &IfExpr{base: at(span), Cond: cond, Then: then, Else: els}
}

func (*IfExpr) exprNode() {}

// IfLetExpr represents `if let pat = value { ... } else ...`.
type IfLetExpr struct {
	base
	Pattern Pattern
	Value   Expr
	Then    *BlockExpr
	Else    Expr
}

func (*IfLetExpr) exprNode() {}

// MatchArm is one `pattern if guard => body` arm of a match.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil when absent
	Body    Expr
	span    lexer.Span
}

// Span returns the arm span.
func (a *MatchArm) Span() lexer.Span { return a.span }

// NewMatchArm constructs a match arm.
func NewMatchArm(pattern Pattern, guard Expr, body Expr, span lexer.Span) *MatchArm {
	return &MatchArm{Pattern: pattern, Guard: guard, Body: body, span: span}
}

// MatchExpr represents `match subject { arms }`.
type MatchExpr struct {
	base
	Subject Expr
	Arms    []*MatchArm
}

// NewMatchExpr constructs a match expression node.
func NewMatchExpr(subject Expr, arms []*MatchArm, span lexer.Span) *MatchExpr {
	return &MatchExpr{base: at(span), Subject: subject, Arms: arms}
}

func (*MatchExpr) exprNode() {}

// WhileExpr represents `while cond { ... }`, optionally labeled.
type WhileExpr struct {
	base
	Label string
	Cond  Expr
	Body  *BlockExpr
}

func (*WhileExpr) exprNode() {}

// WhileLetExpr represents `while let pat = value { ... }`.
type WhileLetExpr struct {
	base
	Label   string
	Pattern Pattern
	Value   Expr
	Body    *BlockExpr
}

func (*WhileLetExpr) exprNode() {}

// ForExpr represents `for pat in iter { ... }`, optionally labeled.
type ForExpr struct {
	base
	Label   string
	Pattern Pattern
	Iter    Expr
	Body    *BlockExpr
}

func (*ForExpr) exprNode() {}

// LoopExpr represents `loop { ... }`, optionally labeled.
type LoopExpr struct {
	base
	Label string
	Body  *BlockExpr
}

func (*LoopExpr) exprNode() {}

// BreakExpr represents `break`, `break value`, `break 'label value`.
type BreakExpr struct {
	base
	Label string
	Value Expr
}

func (*BreakExpr) exprNode() {}

// ContinueExpr represents `continue` / `continue 'label`.
type ContinueExpr struct {
	base
	Label string
}

func (*ContinueExpr) exprNode() {}

// ReturnExpr represents `return` / `return value`.
type ReturnExpr struct {
	base
	Value Expr
}

func (*ReturnExpr) exprNode() {}

// CatchClause is one `catch pat { ... }` clause of a try expression.
type CatchClause struct {
	Pattern Pattern
	Body    *BlockExpr
	span    lexer.Span
}

// Span returns the clause span.
func (c *CatchClause) Span() lexer.Span { return c.span }

// NewCatchClause constructs a catch clause.
func NewCatchClause(pattern Pattern, body *BlockExpr, span lexer.Span) *CatchClause {
	return &CatchClause{Pattern: pattern, Body: body, span: span}
}

// TryCatchExpr represents `try { ... } catch pat { ... } finally { ... }`.
type TryCatchExpr struct {
	base
	Body    *BlockExpr
	Catches []*CatchClause
	Finally *BlockExpr // nil when absent
}

func (*TryCatchExpr) exprNode() {}
