package ast

import "github.com/paiml/ruchy-sub011/internal/lexer"

// Ident represents an identifier.
type Ident struct {
	base
	Name string
}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{base: at(span), Name: name}
}

func (*Ident) exprNode() {}

// QualifiedName represents a path `mod::name`.
type QualifiedName struct {
	base
	Segments []*Ident
}

// NewQualifiedName constructs a qualified name node.
func NewQualifiedName(segments []*Ident, span lexer.Span) *QualifiedName {
	return &QualifiedName{base: at(span), Segments: segments}
}

func (*QualifiedName) exprNode() {}

// IntegerLit represents an integer literal. Text preserves the written form
// (base prefix, separators); Suffix is the optional type suffix.
type IntegerLit struct {
	base
	Text   string
	Suffix string
}

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(text, suffix string, span lexer.Span) *IntegerLit {
	return &IntegerLit{base: at(span), Text: text, Suffix: suffix}
}

func (*IntegerLit) exprNode() {}

// FloatLit represents a float literal.
type FloatLit struct {
	base
	Text   string
	Suffix string
}

// NewFloatLit constructs a float literal node.
func NewFloatLit(text, suffix string, span lexer.Span) *FloatLit {
	return &FloatLit{base: at(span), Text: text, Suffix: suffix}
}

func (*FloatLit) exprNode() {}

// StringLit represents a plain or raw string literal.
type StringLit struct {
	base
	Value string
	Raw   bool
}

// NewStringLit constructs a string literal node.
func NewStringLit(value string, raw bool, span lexer.Span) *StringLit {
	return &StringLit{base: at(span), Value: value, Raw: raw}
}

func (*StringLit) exprNode() {}

// InterpPart is one segment of an interpolated string: either literal text or
// an embedded expression with an optional format spec.
type InterpPart struct {
	Text   string
	Expr   Expr
	Format string
}

// InterpLit represents an f"..." interpolated string literal.
type InterpLit struct {
	base
	Parts []InterpPart
}

// NewInterpLit constructs an interpolated string node.
func NewInterpLit(parts []InterpPart, span lexer.Span) *InterpLit {
	return &InterpLit{base: at(span), Parts: parts}
}

func (*InterpLit) exprNode() {}

// CharLit represents a character literal.
type CharLit struct {
	base
	Value rune
}

// NewCharLit constructs a character literal node.
func NewCharLit(value rune, span lexer.Span) *CharLit {
	return &CharLit{base: at(span), Value: value}
}

func (*CharLit) exprNode() {}

// ByteLit represents a byte literal b'x'.
type ByteLit struct {
	base
	Value byte
}

// NewByteLit constructs a byte literal node.
func NewByteLit(value byte, span lexer.Span) *ByteLit {
	return &ByteLit{base: at(span), Value: value}
}

func (*ByteLit) exprNode() {}

// BoolLit represents a boolean literal.
type BoolLit struct {
	base
	Value bool
}

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{base: at(span), Value: value}
}

func (*BoolLit) exprNode() {}

// UnitLit represents the unit value `()`.
type UnitLit struct {
	base
}

// NewUnitLit constructs a unit literal node.
func NewUnitLit(span lexer.Span) *UnitLit {
	return &UnitLit{base: at(span)}
}

func (*UnitLit) exprNode() {}

// NilLit represents the nil/null literal.
type NilLit struct {
	base
}

// NewNilLit constructs a nil literal node.
func NewNilLit(span lexer.Span) *NilLit {
	return &NilLit{base: at(span)}
}

func (*NilLit) exprNode() {}

// AtomLit represents an atom `:name`.
type AtomLit struct {
	base
	Name string
}

// NewAtomLit constructs an atom literal node.
func NewAtomLit(name string, span lexer.Span) *AtomLit {
	return &AtomLit{base: at(span), Name: name}
}

func (*AtomLit) exprNode() {}

// ListLit represents `[a, b, c]`.
type ListLit struct {
	base
	Elements []Expr
}

// NewListLit constructs a list literal node.
func NewListLit(elements []Expr, span lexer.Span) *ListLit {
	return &ListLit{base: at(span), Elements: elements}
}

func (*ListLit) exprNode() {}

// ListComp represents a list comprehension `[expr for x in iter if cond]`.
type ListComp struct {
	base
	Element Expr
	Var     Pattern
	Iter    Expr
	Filter  Expr // nil when no `if` clause
}

func (*ListComp) exprNode() {}

// TupleLit represents `(a, b)`.
type TupleLit struct {
	base
	Elements []Expr
}

// NewTupleLit constructs a tuple literal node.
func NewTupleLit(elements []Expr, span lexer.Span) *TupleLit {
	return &TupleLit{base: at(span), Elements: elements}
}

func (*TupleLit) exprNode() {}

// SetLit represents `{a, b, c}` in expression position.
type SetLit struct {
	base
	Elements []Expr
}

func (*SetLit) exprNode() {}

// ObjectField is one `name: value` entry of an object literal.
type ObjectField struct {
	Name  *Ident
	Value Expr
}

// ObjectLit represents `{name: value, ...}` with identifier keys.
type ObjectLit struct {
	base
	Fields []*ObjectField
}

func (*ObjectLit) exprNode() {}

// DictEntry is one `key: value` pair of a dictionary literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLit represents `{"key": value, ...}` with expression keys.
type DictLit struct {
	base
	Entries []*DictEntry
}

func (*DictLit) exprNode() {}

// FieldInit is one field of a struct literal.
type FieldInit struct {
	Name      *Ident
	Value     Expr
	Shorthand bool
}

// StructLit represents `Name { field: value, ..base }`.
type StructLit struct {
	base
	Name   Expr // Ident or QualifiedName
	Fields []*FieldInit
	Base   Expr // nil unless `..base` is present
}

func (*StructLit) exprNode() {}

// ArrayRepeat represents `[value; count]`.
type ArrayRepeat struct {
	base
	Value Expr
	Count Expr
}

func (*ArrayRepeat) exprNode() {}

// RangeLit represents `start..end` or `start..=end`.
type RangeLit struct {
	base
	Start     Expr
	End       Expr
	Inclusive bool
}

// NewRangeLit constructs a range literal node.
func NewRangeLit(start, end Expr, inclusive bool, span lexer.Span) *RangeLit {
	return &RangeLit{base: at(span), Start: start, End: end, Inclusive: inclusive}
}

func (*RangeLit) exprNode() {}

// SpreadExpr represents `...e` in argument or element position.
type SpreadExpr struct {
	base
	Expr Expr
}

func (*SpreadExpr) exprNode() {}

// CommandLit represents a `prog args` command literal.
type CommandLit struct {
	base
	Text string
}

func (*CommandLit) exprNode() {}

// DataFrameColumn is one named column of a DataFrame literal.
type DataFrameColumn struct {
	Name   string
	Values []Expr
}

// DataFrameLit represents `df![name => [values], ...]`.
type DataFrameLit struct {
	base
	Columns []*DataFrameColumn
}

func (*DataFrameLit) exprNode() {}

// MacroExpr represents `name!(args)` for macro forms the evaluator does not
// give special meaning.
type MacroExpr struct {
	base
	Name string
	Args []Expr
}

func (*MacroExpr) exprNode() {}
