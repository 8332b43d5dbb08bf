package term

// Unification, matching and variant checking share one lockstep walker;
// the three modes differ only in how variables may bind.

type walkMode uint8

const (
	modeUnify walkMode = iota
	modeMatch
	modeVariant
)

// Unify extends s (or a fresh substitution when s is nil) to a most
// general unifier of (a, asc) and (b, bsc). On failure the substitution
// passed in must be discarded by the caller.
func Unify(a *Term, asc int, b *Term, bsc int, s *Subst) (*Subst, bool) {
	if s == nil {
		s = NewSubst()
	}
	if !walk(modeUnify, a, asc, b, bsc, s) {
		return nil, false
	}
	return s, true
}

// Match extends s to a substitution binding only pattern-side variables
// such that pattern instantiates to instance. Instance-side variables are
// treated as constants.
func Match(pattern *Term, psc int, instance *Term, isc int, s *Subst) (*Subst, bool) {
	if s == nil {
		s = NewSubst()
	}
	if !walk(modeMatch, pattern, psc, instance, isc, s) {
		return nil, false
	}
	return s, true
}

// Variant reports whether a and b are equal up to a bijective renaming of
// their variables, and returns the renaming as a substitution from the a
// side to the b side.
func Variant(a *Term, asc int, b *Term, bsc int, s *Subst) (*Subst, bool) {
	if s == nil {
		s = NewSubst()
	}
	if !walk(modeVariant, a, asc, b, bsc, s) {
		return nil, false
	}
	return s, true
}

func walk(mode walkMode, a *Term, asc int, b *Term, bsc int, s *Subst) bool {
	if mode != modeVariant {
		a, asc = s.Deref(a, asc)
		b, bsc = s.Deref(b, bsc)
	}

	// In variant mode a shared non-ground subterm still has to enter the
	// variable map, so only ground terms take the shortcut.
	if a == b && asc == bsc && (mode != modeVariant || a.ground) {
		return true
	}
	if a.ty != b.ty {
		return false
	}

	if a.kind == KindVar || b.kind == KindVar {
		switch mode {
		case modeUnify:
			if a.kind == KindVar {
				return bindChecked(s, a, asc, b, bsc)
			}
			return bindChecked(s, b, bsc, a, asc)
		case modeMatch:
			if a.kind != KindVar {
				return false
			}
			return s.Bind(a, asc, b, bsc) == nil
		case modeVariant:
			if a.kind != KindVar || b.kind != KindVar {
				return false
			}
			// An a-side variable seen before must map to the same image.
			if img, ok := s.Lookup(a.index, asc); ok {
				return img.T == b && img.Scope == bsc
			}
			// Bijectivity: b must not already be the image of another
			// variable of the a side.
			for _, img := range s.bindings {
				if img.T == b && img.Scope == bsc {
					return false
				}
			}
			return s.Bind(a, asc, b, bsc) == nil
		}
	}

	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBound:
		return a.index == b.index
	case KindConst:
		return a.sym == b.sym
	case KindApp:
		if len(a.args) != len(b.args) {
			return false
		}
		if !walk(mode, a.head, asc, b.head, bsc, s) {
			return false
		}
		for i := range a.args {
			if !walk(mode, a.args[i], asc, b.args[i], bsc, s) {
				return false
			}
		}
		return true
	case KindLambda:
		return walk(mode, a.body, asc, b.body, bsc, s)
	}
	return false
}

// bindChecked binds v := t for unification, with the occurs check chased
// through the current bindings.
func bindChecked(s *Subst, v *Term, vsc int, t *Term, tsc int) bool {
	if t.kind == KindVar && t.index == v.index && tsc == vsc {
		return true
	}
	if occurs(s, v.index, vsc, t, tsc) {
		return false
	}
	return s.Bind(v, vsc, t, tsc) == nil
}

func occurs(s *Subst, id, idScope int, t *Term, tsc int) bool {
	t, tsc = s.Deref(t, tsc)
	switch t.kind {
	case KindVar:
		return t.index == id && tsc == idScope
	case KindApp:
		if occurs(s, id, idScope, t.head, tsc) {
			return true
		}
		for _, a := range t.args {
			if occurs(s, id, idScope, a, tsc) {
				return true
			}
		}
	case KindLambda:
		return occurs(s, id, idScope, t.body, tsc)
	}
	return false
}
