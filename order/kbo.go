package order

import (
	"varan/term"
)

// KBO is the Knuth-Bendix ordering: weights first, then head precedence,
// then the argument tuples lexicographically. Variables all share weight
// varWeight; s can only dominate t when s carries at least as many
// occurrences of every variable of t.
type KBO struct {
	prec      *Precedence
	varWeight int
}

func NewKBO(prec *Precedence) *KBO {
	return &KBO{prec: prec, varWeight: 1}
}

func (k *KBO) Name() string { return "kbo" }

func (k *KBO) Precedence() *Precedence { return k.prec }

func (k *KBO) Compare(s, t *term.Term) Comparison {
	if s == t {
		return Equal
	}
	sv := make(map[int]int)
	tv := make(map[int]int)
	ws := k.weigh(s, sv)
	wt := k.weigh(t, tv)

	sCovers := covers(sv, tv)
	tCovers := covers(tv, sv)

	switch {
	case ws > wt:
		if sCovers {
			return Greater
		}
		return Incomparable
	case ws < wt:
		if tCovers {
			return Less
		}
		return Incomparable
	}

	// Equal weight: decide by heads, then lexicographically by arguments.
	if s.Kind() == term.KindVar || t.Kind() == term.KindVar {
		// Same weight, distinct terms, at least one variable: only the
		// pathological f^n(x) vs x shape is ordered; it carries extra
		// weight, so here nothing is.
		return Incomparable
	}
	hs, ht := s.HeadSym(), t.HeadSym()
	if hs == term.NoSym || ht == term.NoSym {
		return Incomparable
	}
	switch k.prec.CompareSyms(hs, ht) {
	case Greater:
		if sCovers {
			return Greater
		}
		return Incomparable
	case Less:
		if tCovers {
			return Less
		}
		return Incomparable
	}

	sArgs, tArgs := argsOf(s), argsOf(t)
	if len(sArgs) != len(tArgs) {
		// Same head symbol with different arity cannot happen for
		// well-typed first-order terms.
		return Incomparable
	}
	for i := range sArgs {
		switch c := k.Compare(sArgs[i], tArgs[i]); c {
		case Equal:
			continue
		case Greater:
			if sCovers {
				return Greater
			}
			return Incomparable
		case Less:
			if tCovers {
				return Less
			}
			return Incomparable
		default:
			return Incomparable
		}
	}
	return Equal
}

// weigh sums symbol weights and tallies variable occurrences.
func (k *KBO) weigh(t *term.Term, vars map[int]int) int {
	switch t.Kind() {
	case term.KindVar:
		vars[t.VarID()]++
		return k.varWeight
	case term.KindBound:
		return k.varWeight
	case term.KindConst:
		return k.prec.Weight(t.Sym())
	case term.KindApp:
		w := k.weigh(t.Head(), vars)
		for _, a := range t.Args() {
			w += k.weigh(a, vars)
		}
		return w
	case term.KindLambda:
		return k.varWeight + k.weigh(t.Body(), vars)
	}
	panic("order: unknown term kind")
}

// covers reports that a has at least as many occurrences of every
// variable as b does.
func covers(a, b map[int]int) bool {
	for id, n := range b {
		if a[id] < n {
			return false
		}
	}
	return true
}

func argsOf(t *term.Term) []*term.Term {
	if t.Kind() == term.KindApp {
		return t.Args()
	}
	return nil
}
