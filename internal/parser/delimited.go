package parser

import (
	"github.com/paiml/ruchy-sub011/internal/lexer"
)

// delimitedConfig describes a separator-delimited list.
type delimitedConfig struct {
	Closing             lexer.TokenType
	Separator           lexer.TokenType
	AllowTrailing       bool
	MissingElementMsg   string
	MissingSeparatorMsg string
}

// delimitedResult carries the parsed items plus the closing token's span.
type delimitedResult[T any] struct {
	Items   []T
	EndSpan lexer.Span
}

// parseDelimited parses a homogeneous separator-delimited list.
//
// Entry: curTok is the first token after the opening delimiter (possibly the
// closing token itself for an empty list).
// Exit: curTok is the closing token on success.
//
// The element callback receives the element index and must leave curTok on
// the last token of the element it parsed. Returning false aborts the list;
// the callback is responsible for having reported the error.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, element func(i int) (T, bool)) (delimitedResult[T], bool) {
	var res delimitedResult[T]

	if p.curTok.Type == cfg.Closing {
		res.EndSpan = p.curTok.Span
		return res, true
	}

	for i := 0; ; i++ {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected("'"+string(cfg.Closing)+"'", p.curTok)
			return res, false
		}

		item, ok := element(i)
		if !ok {
			return res, false
		}
		res.Items = append(res.Items, item)

		switch p.peekTok.Type {
		case cfg.Separator:
			p.nextToken()
			p.nextToken()
			if cfg.AllowTrailing && p.curTok.Type == cfg.Closing {
				res.EndSpan = p.curTok.Span
				return res, true
			}
			if p.curTok.Type == cfg.Closing || p.curTok.Type == lexer.EOF {
				p.reportError(cfg.MissingElementMsg, p.curTok.Span)
				return res, false
			}
		case cfg.Closing:
			p.nextToken()
			res.EndSpan = p.curTok.Span
			return res, true
		default:
			p.reportExpected("'"+string(cfg.Separator)+"' or '"+string(cfg.Closing)+"'", p.peekTok)
			if cfg.MissingSeparatorMsg != "" {
				p.errors[len(p.errors)-1].Message = cfg.MissingSeparatorMsg
			}
			return res, false
		}
	}
}
