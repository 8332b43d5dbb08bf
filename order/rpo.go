package order

import (
	"varan/term"
)

// RPO is the recursive path ordering with status: arguments of a symbol
// are compared lexicographically or as multisets according to the
// precedence's status table.
type RPO struct {
	prec *Precedence
}

func NewRPO(prec *Precedence) *RPO {
	return &RPO{prec: prec}
}

func (r *RPO) Name() string { return "rpo" }

func (r *RPO) Precedence() *Precedence { return r.prec }

func (r *RPO) Compare(s, t *term.Term) Comparison {
	if s == t {
		return Equal
	}
	sGt := r.greater(s, t)
	tGt := r.greater(t, s)
	switch {
	case sGt && tGt:
		panic("order: rpo is not antisymmetric")
	case sGt:
		return Greater
	case tGt:
		return Less
	}
	return Incomparable
}

// greater is the classic s >rpo t test.
func (r *RPO) greater(s, t *term.Term) bool {
	if s == t {
		return false
	}
	if s.Kind() == term.KindVar {
		return false
	}
	if t.Kind() == term.KindVar {
		return term.ContainsVar(s, t.VarID())
	}
	if s.Kind() == term.KindBound || t.Kind() == term.KindBound ||
		s.Kind() == term.KindLambda || t.Kind() == term.KindLambda {
		// Binder shapes are not ordered by the first-order RPO.
		return false
	}

	// Subterm case: some argument of s dominates or equals t.
	for _, si := range argsOf(s) {
		if si == t || r.greater(si, t) {
			return true
		}
	}

	hs, ht := s.HeadSym(), t.HeadSym()
	switch r.prec.CompareSyms(hs, ht) {
	case Greater:
		return r.dominatesArgs(s, t)
	case Equal:
		if !r.dominatesArgs(s, t) {
			return false
		}
		sArgs, tArgs := argsOf(s), argsOf(t)
		if r.prec.StatusOf(hs) == StatusMultiset {
			return multisetGreater(sArgs, tArgs, r.Compare)
		}
		return lexGreater(sArgs, tArgs, r.greater)
	}
	return false
}

// dominatesArgs checks s > every argument of t.
func (r *RPO) dominatesArgs(s, t *term.Term) bool {
	for _, ti := range argsOf(t) {
		if !r.greater(s, ti) {
			return false
		}
	}
	return true
}

func lexGreater(a, b []*term.Term, gt func(x, y *term.Term) bool) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		return gt(a[i], b[i])
	}
	return len(a) > len(b)
}

// multisetGreater is the multiset extension of a partial order: every b
// element not cancelled by an equal a element must be strictly dominated
// by some remaining a element.
func multisetGreater(a, b []*term.Term, cmp func(x, y *term.Term) Comparison) bool {
	return MultisetCompare(a, b, cmp) == Greater
}

// MultisetCompare compares two multisets under the multiset extension of
// the given partial order.
func MultisetCompare(a, b []*term.Term, cmp func(x, y *term.Term) Comparison) Comparison {
	ra := append([]*term.Term(nil), a...)
	rb := append([]*term.Term(nil), b...)

	// Cancel equal elements pairwise.
	for i := 0; i < len(ra); i++ {
		for j := 0; j < len(rb); j++ {
			if rb[j] != nil && ra[i] != nil && ra[i] == rb[j] {
				ra[i], rb[j] = nil, nil
				break
			}
		}
	}
	ra = compact(ra)
	rb = compact(rb)

	switch {
	case len(ra) == 0 && len(rb) == 0:
		return Equal
	case len(rb) == 0:
		return Greater
	case len(ra) == 0:
		return Less
	}
	if dominatesAll(ra, rb, cmp) {
		return Greater
	}
	if dominatesAll(rb, ra, func(x, y *term.Term) Comparison { return cmp(y, x).Reverse() }) {
		return Less
	}
	return Incomparable
}

// dominatesAll reports that every element of b is strictly below some
// element of a.
func dominatesAll(a, b []*term.Term, cmp func(x, y *term.Term) Comparison) bool {
	for _, y := range b {
		ok := false
		for _, x := range a {
			if cmp(x, y) == Greater {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func compact(ts []*term.Term) []*term.Term {
	out := ts[:0]
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
