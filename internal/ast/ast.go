package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node. The language is expression-oriented:
// declarations, bindings and control flow are all expressions.
type Expr interface {
	Node
	exprNode()
}

// Pattern represents a match pattern node.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr represents a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// Commented is satisfied by nodes that can carry attached comments. The
// parser's attachment pass uses it; comments never affect semantics.
type Commented interface {
	SetLeading([]lexer.Comment)
	SetTrailing(*lexer.Comment)
	LeadingComments() []lexer.Comment
	TrailingComment() *lexer.Comment
}

// spanSetter is satisfied by nodes that expose SetSpan.
type spanSetter interface {
	SetSpan(lexer.Span)
}

// Attribute represents a decorator `@name` or `@name(args)` attached to a
// definition.
type Attribute struct {
	Name string
	Args []Expr
	span lexer.Span
}

// Span returns the attribute span.
func (a *Attribute) Span() lexer.Span { return a.span }

// NewAttribute constructs an attribute node.
func NewAttribute(name string, args []Expr, span lexer.Span) *Attribute {
	return &Attribute{Name: name, Args: args, span: span}
}

// base carries the per-node bookkeeping every expression shares: its span,
// decorator attributes, and attached comments.
type base struct {
	span       lexer.Span
	Attributes []*Attribute
	leading    []lexer.Comment
	trailing   *lexer.Comment
}

// Span returns the node span.
func (b *base) Span() lexer.Span { return b.span }

// SetSpan updates the node span.
func (b *base) SetSpan(span lexer.Span) { b.span = span }

// SetAttributes attaches decorator attributes to the node.
func (b *base) SetAttributes(attrs []*Attribute) { b.Attributes = attrs }

// Attrs returns the node's decorator attributes.
func (b *base) Attrs() []*Attribute { return b.Attributes }

// SetLeading attaches leading comments.
func (b *base) SetLeading(cs []lexer.Comment) { b.leading = cs }

// SetTrailing attaches a trailing comment.
func (b *base) SetTrailing(c *lexer.Comment) { b.trailing = c }

// LeadingComments returns the attached leading comments.
func (b *base) LeadingComments() []lexer.Comment { return b.leading }

// TrailingComment returns the attached trailing comment, if any.
func (b *base) TrailingComment() *lexer.Comment { return b.trailing }

func at(span lexer.Span) base { return base{span: span} }

// Program represents a parsed source file or REPL input: a sequence of
// expressions whose value is the value of the last one.
type Program struct {
	base
	Exprs []Expr
}

// NewProgram constructs a program node.
func NewProgram(exprs []Expr, span lexer.Span) *Program {
	return &Program{base: at(span), Exprs: exprs}
}

// BlockExpr represents `{ e1; e2; ... }`; its value is the value of the last
// expression, or unit when empty.
type BlockExpr struct {
	base
	Exprs []Expr
}

// NewBlockExpr constructs a block expression node.
func NewBlockExpr(exprs []Expr, span lexer.Span) *BlockExpr {
	return &BlockExpr{base: at(span), Exprs: exprs}
}

func (*BlockExpr) exprNode() {}
