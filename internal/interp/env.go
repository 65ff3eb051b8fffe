package interp

import "github.com/paiml/ruchy-sub011/internal/runtime"

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeFunction
	scopeBlock
)

// cell is one binding slot. Closures capture scopes by reference, so a
// reassignment through one closure is visible to every closure sharing the
// defining function scope.
type cell struct {
	value   runtime.Value
	mutable bool
}

// Scope is a name to cell map. Scopes chain toward the global scope; lookup
// walks the chain outward.
type Scope struct {
	parent *Scope
	kind   scopeKind
	cells  map[string]*cell
}

func newScope(parent *Scope, kind scopeKind) *Scope {
	return &Scope{parent: parent, kind: kind, cells: make(map[string]*cell)}
}

// lookup finds the cell for a name, walking parent scopes.
func (s *Scope) lookup(name string) (*cell, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c, ok := sc.cells[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// define binds a name in this scope, shadowing any outer binding.
func (s *Scope) define(name string, v runtime.Value, mutable bool) {
	s.cells[name] = &cell{value: v, mutable: mutable}
}

// functionScope returns the nearest enclosing function (or global) scope.
func (s *Scope) functionScope() *Scope {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.kind != scopeBlock {
			return sc
		}
	}
	return s
}
