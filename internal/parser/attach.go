package parser

import (
	"sort"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// attachComments distributes the lexer's comment side channel over the
// parsed tree: a comment becomes leading on the nearest following statement,
// or trailing on a statement that ends on the comment's own line. Comments
// never affect semantics; tooling reads them off the nodes.
func attachComments(program *ast.Program, comments []lexer.Comment) {
	if len(comments) == 0 {
		return
	}

	var stmts []ast.Expr
	for _, e := range program.Exprs {
		collectStmtNodes(e, &stmts)
	}
	sort.Slice(stmts, func(i, j int) bool {
		return stmts[i].Span().Start < stmts[j].Span().Start
	})

	pending := make(map[ast.Expr][]lexer.Comment)

	for i := range comments {
		c := comments[i]

		if c.Kind == lexer.CommentLine || c.Kind == lexer.CommentBlock {
			if target := trailingTarget(stmts, c); target != nil {
				if setter, ok := target.(ast.Commented); ok && setter.TrailingComment() == nil {
					cc := c
					setter.SetTrailing(&cc)
					continue
				}
			}
		}

		if target := leadingTarget(stmts, c); target != nil {
			pending[target] = append(pending[target], c)
		}
	}

	for target, cs := range pending {
		if setter, ok := target.(ast.Commented); ok {
			setter.SetLeading(cs)
		}
	}
}

// leadingTarget finds the first statement starting at or after the comment's
// end.
func leadingTarget(stmts []ast.Expr, c lexer.Comment) ast.Expr {
	idx := sort.Search(len(stmts), func(i int) bool {
		return stmts[i].Span().Start >= c.Span.End
	})
	if idx == len(stmts) {
		return nil
	}
	return stmts[idx]
}

// trailingTarget finds a statement that ends before the comment on the
// comment's line.
func trailingTarget(stmts []ast.Expr, c lexer.Comment) ast.Expr {
	var best ast.Expr
	for _, s := range stmts {
		span := s.Span()
		if span.End > c.Span.Start {
			break
		}
		if span.Line == c.Span.Line {
			best = s
		}
	}
	return best
}

// collectStmtNodes gathers every statement-level expression, recursing into
// block bodies so nested statements can receive comments too.
func collectStmtNodes(e ast.Expr, out *[]ast.Expr) {
	if e == nil {
		return
	}
	*out = append(*out, e)

	switch n := e.(type) {
	case *ast.BlockExpr:
		for _, sub := range n.Exprs {
			collectStmtNodes(sub, out)
		}
	case *ast.IfExpr:
		collectBlock(n.Then, out)
		collectStmtNodes(n.Else, out)
	case *ast.IfLetExpr:
		collectBlock(n.Then, out)
		collectStmtNodes(n.Else, out)
	case *ast.MatchExpr:
		for _, arm := range n.Arms {
			if block, ok := arm.Body.(*ast.BlockExpr); ok {
				collectBlock(block, out)
			}
		}
	case *ast.WhileExpr:
		collectBlock(n.Body, out)
	case *ast.WhileLetExpr:
		collectBlock(n.Body, out)
	case *ast.ForExpr:
		collectBlock(n.Body, out)
	case *ast.LoopExpr:
		collectBlock(n.Body, out)
	case *ast.FunExpr:
		collectBlock(n.Body, out)
	case *ast.TryCatchExpr:
		collectBlock(n.Body, out)
		for _, clause := range n.Catches {
			collectBlock(clause.Body, out)
		}
		collectBlock(n.Finally, out)
	case *ast.ModuleDef:
		collectBlock(n.Body, out)
	case *ast.ActorDef:
		for _, h := range n.Handlers {
			collectBlock(h.Body, out)
		}
	case *ast.ImplBlock:
		for _, m := range n.Methods {
			collectStmtNodes(m, out)
		}
	case *ast.ClassDef:
		for _, m := range n.Methods {
			collectStmtNodes(m, out)
		}
	case *ast.AsyncBlock:
		collectBlock(n.Body, out)
	case *ast.UnsafeBlock:
		collectBlock(n.Body, out)
	}
}

func collectBlock(b *ast.BlockExpr, out *[]ast.Expr) {
	if b == nil {
		return
	}
	for _, sub := range b.Exprs {
		collectStmtNodes(sub, out)
	}
}
