package ggview

// Scope is a transform scope: one Push of the surface's state stack that
// must be matched by exactly one Release.
//
// Scopes nest strictly LIFO. Releasing a scope that still has scopes opened
// after it unwinds those inner scopes first, so the shared gg.Context never
// sees a mis-paired Pop. Releasing a scope twice is a no-op.
type Scope struct {
	surface  *Surface
	depth    int
	released bool
}

// Depth returns the 1-based nesting depth the scope was opened at.
func (sc *Scope) Depth() int {
	return sc.depth
}

// Released reports whether the scope has been popped.
func (sc *Scope) Released() bool {
	return sc.released
}

// Release pops the scope, unwinding any scopes opened inside it.
// A nil or already released scope is ignored.
func (sc *Scope) Release() {
	if sc == nil || sc.released {
		return
	}
	s := sc.surface
	if inner := len(s.scopes) - sc.depth; inner > 0 {
		Logger().Warn("ggview: transform scope released out of order",
			"depth", sc.depth, "unwound", inner)
	}
	s.unwindTo(sc.depth - 1)
}

// PushScope saves the current transform, clip and mask state and returns
// the guard that restores it.
func (s *Surface) PushScope() *Scope {
	s.ctx.Push()
	sc := &Scope{surface: s, depth: len(s.scopes) + 1}
	s.scopes = append(s.scopes, sc)
	return sc
}

// ScopeDepth returns the number of open scopes.
func (s *Surface) ScopeDepth() int {
	return len(s.scopes)
}

// Save is the canvas-style spelling of PushScope for callers that pair
// it with Restore instead of holding the guard.
func (s *Surface) Save() {
	s.PushScope()
}

// Restore releases the innermost open scope.
// With no open scope it logs a warning and does nothing.
func (s *Surface) Restore() {
	if len(s.scopes) == 0 {
		Logger().Warn("ggview: restore without matching save")
		return
	}
	s.scopes[len(s.scopes)-1].Release()
}

// unwindTo pops scopes until depth open scopes remain.
func (s *Surface) unwindTo(depth int) {
	if depth < 0 {
		depth = 0
	}
	for len(s.scopes) > depth {
		top := s.scopes[len(s.scopes)-1]
		s.scopes = s.scopes[:len(s.scopes)-1]
		s.ctx.Pop()
		top.released = true
	}
}
