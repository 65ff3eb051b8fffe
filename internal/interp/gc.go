package interp

import "github.com/paiml/ruchy-sub011/internal/runtime"

// GC implements the cooperative mark-and-sweep hook. Tracking is opt-in:
// untracked values live and die with ordinary Go lifetimes. Collection runs
// only between evaluation steps, on an allocation threshold or on demand.
type GC struct {
	tracked     []runtime.Value
	threshold   int
	autoCollect bool
	allocations int
	collections int
	freed       int

	stringArena []string
	arrayArena  []*runtime.Array
}

func newGC() *GC {
	return &GC{threshold: 1024}
}

// noteAllocation counts an allocation and, with auto-collect on, collects
// once the threshold is crossed.
func (g *GC) noteAllocation(in *Interpreter) {
	g.allocations++
	if g.autoCollect && g.allocations >= g.threshold {
		in.GCCollect()
		g.allocations = 0
	}
}

func (g *GC) clearArenas() {
	g.stringArena = g.stringArena[:0]
	g.arrayArena = g.arrayArena[:0]
}

// GCTrack registers a value for collection. Only identity-carrying
// containers participate; primitives are ignored.
func (in *Interpreter) GCTrack(v runtime.Value) {
	switch v.(type) {
	case *runtime.Array, *runtime.Object, *runtime.Dict, *runtime.Set,
		*runtime.Tuple, *runtime.EnumVariant, *runtime.DataFrame:
		in.gc.tracked = append(in.gc.tracked, v)
	}
}

// GCCollect marks values reachable from the session scopes and sweeps
// unreachable tracked values. It returns the number freed.
func (in *Interpreter) GCCollect() int {
	g := in.gc
	reached := make(map[runtime.Value]bool)
	scopes := make(map[*Scope]bool)
	for sc := in.scope; sc != nil; sc = sc.parent {
		markScope(sc, reached, scopes)
	}

	kept := g.tracked[:0]
	freed := 0
	for _, v := range g.tracked {
		if reached[v] {
			kept = append(kept, v)
		} else {
			freed++
		}
	}
	g.tracked = kept
	g.collections++
	g.freed += freed
	return freed
}

// GCSetThreshold sets the allocation count that triggers auto-collection.
func (in *Interpreter) GCSetThreshold(n int) {
	if n > 0 {
		in.gc.threshold = n
	}
}

// GCSetAutoCollect toggles threshold-triggered collection.
func (in *Interpreter) GCSetAutoCollect(on bool) {
	in.gc.autoCollect = on
}

// GCClear forgets all tracked values and arena contents without collecting.
func (in *Interpreter) GCClear() {
	in.gc.tracked = nil
	in.gc.allocations = 0
	in.gc.clearArenas()
}

// GCStats reports collector counters as an object value.
func (in *Interpreter) GCStats() runtime.Value {
	g := in.gc
	stats := runtime.NewObject("GcStats")
	stats.Set("tracked", runtime.Integer{Val: int64(len(g.tracked))})
	stats.Set("threshold", runtime.Integer{Val: int64(g.threshold)})
	stats.Set("auto_collect", runtime.Bool{Val: g.autoCollect})
	stats.Set("collections", runtime.Integer{Val: int64(g.collections)})
	stats.Set("freed", runtime.Integer{Val: int64(g.freed)})
	stats.Set("allocations", runtime.Integer{Val: int64(g.allocations)})
	stats.Set("string_arena", runtime.Integer{Val: int64(len(g.stringArena))})
	stats.Set("array_arena", runtime.Integer{Val: int64(len(g.arrayArena))})
	return stats
}

// AllocString interns a string in the GC's string arena.
func (in *Interpreter) AllocString(s string) runtime.Str {
	in.gc.stringArena = append(in.gc.stringArena, s)
	return runtime.Str{Val: s}
}

// AllocArray places a new array in the GC's array arena and tracks it.
func (in *Interpreter) AllocArray(elems []runtime.Value) *runtime.Array {
	arr := runtime.NewArray(elems)
	in.gc.arrayArena = append(in.gc.arrayArena, arr)
	in.GCTrack(arr)
	return arr
}

func markScope(sc *Scope, reached map[runtime.Value]bool, scopes map[*Scope]bool) {
	if sc == nil || scopes[sc] {
		return
	}
	scopes[sc] = true
	for _, c := range sc.cells {
		markValue(c.value, reached, scopes)
	}
}

// markValue walks the reference graph. Only pointer-shaped values enter the
// reached set, so interface comparisons stay safe.
func markValue(v runtime.Value, reached map[runtime.Value]bool, scopes map[*Scope]bool) {
	switch val := v.(type) {
	case *runtime.Array:
		if reached[val] {
			return
		}
		reached[val] = true
		for _, el := range val.Elems {
			markValue(el, reached, scopes)
		}
	case *runtime.Tuple:
		if reached[val] {
			return
		}
		reached[val] = true
		for _, el := range val.Elems {
			markValue(el, reached, scopes)
		}
	case *runtime.Object:
		if reached[val] {
			return
		}
		reached[val] = true
		for _, name := range val.Names() {
			field, _ := val.Get(name)
			markValue(field, reached, scopes)
		}
	case *runtime.Dict:
		if reached[val] {
			return
		}
		reached[val] = true
		val.Entries(func(key, value runtime.Value) bool {
			markValue(key, reached, scopes)
			markValue(value, reached, scopes)
			return true
		})
	case *runtime.Set:
		if reached[val] {
			return
		}
		reached[val] = true
		val.Members(func(m runtime.Value) bool {
			markValue(m, reached, scopes)
			return true
		})
	case *runtime.EnumVariant:
		if reached[val] {
			return
		}
		reached[val] = true
		for _, p := range val.Payload {
			markValue(p, reached, scopes)
		}
	case *runtime.DataFrame:
		if reached[val] {
			return
		}
		reached[val] = true
		for _, col := range val.Cols {
			for _, cell := range col.Values {
				markValue(cell, reached, scopes)
			}
		}
	case *Closure:
		markScope(val.Env, reached, scopes)
		if val.Self != nil {
			markValue(val.Self, reached, scopes)
		}
	case *ActorInstance:
		markValue(val.State, reached, scopes)
		markScope(val.Behavior.Env, reached, scopes)
	case *Lazy:
		markScope(val.env, reached, scopes)
		if val.done {
			markValue(val.value, reached, scopes)
		}
	}
}
