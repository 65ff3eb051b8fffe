package interp

import (
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
	"github.com/paiml/ruchy-sub011/internal/diag"
	"github.com/paiml/ruchy-sub011/internal/runtime"
)

// evalInterp assembles an f-string: literal parts verbatim, embedded
// expressions rendered with the canonical display rule and the optional
// format spec.
func (in *Interpreter) evalInterp(e *ast.InterpLit, sc *Scope) (runtime.Value, error) {
	var b strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			b.WriteString(part.Text)
			continue
		}
		v, err := in.eval(part.Expr, sc)
		if err != nil {
			return nil, err
		}
		s, err := applyFormat(v, part.Format)
		if err != nil {
			return nil, errAt(diag.CodeRuntimeError, part.Expr.Span(), "%s", err.Error())
		}
		b.WriteString(s)
	}
	return runtime.Str{Val: b.String()}, nil
}

// applyFormat renders a value under a `[fill][align][0][width][.precision]
// [base]` spec, where base is one of `b`, `o`, `x`, `X`. Numbers align right
// by default, everything else left; a leading `0` before the width zero-pads
// numerics after any sign.
func applyFormat(v runtime.Value, spec string) (string, error) {
	if spec == "" {
		return v.Display(), nil
	}

	fill := ' '
	align := byte(0)
	rest := spec

	runes := []rune(rest)
	if len(runes) >= 2 && isAlign(byte(runes[1])) {
		fill = runes[0]
		align = byte(runes[1])
		rest = string(runes[2:])
	} else if len(runes) >= 1 && isAlign(byte(runes[0])) {
		align = byte(runes[0])
		rest = string(runes[1:])
	}

	zeroPad := false
	if align == 0 && len(rest) > 1 && rest[0] == '0' && rest[1] >= '0' && rest[1] <= '9' {
		zeroPad = true
		fill = '0'
		rest = rest[1:]
	}

	width := 0
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		width = width*10 + int(rest[i]-'0')
		i++
	}
	rest = rest[i:]

	precision := -1
	if strings.HasPrefix(rest, ".") {
		rest = rest[1:]
		j := 0
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		if j == 0 {
			return "", strconv.ErrSyntax
		}
		precision, _ = strconv.Atoi(rest[:j])
		rest = rest[j:]
	}

	base := byte(0)
	switch rest {
	case "b", "o", "x", "X":
		base = rest[0]
	default:
		// Unrecognized trailing spec characters are dropped rather than
		// failing the whole string.
	}

	var s string
	numeric := false
	switch n := v.(type) {
	case runtime.Float:
		numeric = true
		if precision >= 0 {
			s = strconv.FormatFloat(n.Val, 'f', precision, 64)
		} else {
			s = n.Display()
		}
	case runtime.Integer:
		numeric = true
		switch {
		case base == 'b':
			s = strconv.FormatInt(n.Val, 2)
		case base == 'o':
			s = strconv.FormatInt(n.Val, 8)
		case base == 'x':
			s = strconv.FormatInt(n.Val, 16)
		case base == 'X':
			s = strings.ToUpper(strconv.FormatInt(n.Val, 16))
		case precision >= 0:
			s = strconv.FormatFloat(float64(n.Val), 'f', precision, 64)
		default:
			s = n.Display()
		}
	default:
		s = v.Display()
	}

	if pad := width - len([]rune(s)); pad > 0 {
		padding := strings.Repeat(string(fill), pad)
		switch align {
		case '<':
			s += padding
		case '>':
			s = padding + s
		case '^':
			left := pad / 2
			s = strings.Repeat(string(fill), left) + s +
				strings.Repeat(string(fill), pad-left)
		default:
			switch {
			case zeroPad && numeric && strings.HasPrefix(s, "-"):
				s = "-" + padding + s[1:]
			case numeric:
				s = padding + s
			default:
				s += padding
			}
		}
	}
	return s, nil
}

func isAlign(c byte) bool { return c == '<' || c == '>' || c == '^' }
