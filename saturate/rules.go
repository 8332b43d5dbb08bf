package saturate

import (
	"varan/clause"
	"varan/index"
	"varan/order"
	"varan/term"
)

// Scopes used by binary inferences: the given clause lives in scope 0,
// its partner in scope 1. Variables never leak between the two.
const (
	scopeGiven   = 0
	scopePartner = 1
)

// generate runs every generating inference with g as one premise and the
// active set (which already contains g) as the other, and returns the
// conclusions. Rules that do not apply contribute nothing; only invariant
// violations escape, as panics.
func (p *Prover) generate(g *clause.Clause) []*clause.Clause {
	var out []*clause.Clause
	out = append(out, p.equalityResolution(g)...)
	out = append(out, p.equalityFactoring(g)...)
	out = append(out, p.superpositionFrom(g)...)
	out = append(out, p.superpositionInto(g)...)
	for _, hook := range p.Hooks.Unary {
		out = append(out, hook(p, g)...)
	}
	for _, hook := range p.Hooks.Binary {
		out = append(out, hook(p, g, p.active)...)
	}
	return out
}

// equalityResolution resolves a negative literal s != t whose sides
// unify: from s != t | C conclude C under the unifier.
func (p *Prover) equalityResolution(g *clause.Clause) []*clause.Clause {
	var out []*clause.Clause
	for i, lit := range g.Lits() {
		if lit.Positive {
			continue
		}
		sigma, ok := term.Unify(lit.Left, scopeGiven, lit.Right, scopeGiven, nil)
		if !ok {
			continue
		}
		rn := term.NewRenaming(p.bank, g.MaxVar()+1)
		applied := p.applyLits(g.Lits(), sigma, scopeGiven, rn)
		if !p.eligibleRes(g, applied, i) {
			continue
		}
		rest := append(append([]clause.Literal(nil), applied[:i]...), applied[i+1:]...)
		out = append(out, p.db.Make(rest, clause.NewStep(clause.RuleEqualityResolution, sigma, g)))
		rn.Clear()
	}
	return out
}

// equalityFactoring merges two positive equations with unifiable larger
// sides: from s = t | s' = t' | C conclude t != t' | s' = t' | C under
// the unifier.
func (p *Prover) equalityFactoring(g *clause.Clause) []*clause.Clause {
	if g.HasSelection() {
		return nil
	}
	var out []*clause.Clause
	lits := g.Lits()
	for i, li := range lits {
		if !li.Positive {
			continue
		}
		for j, lj := range lits {
			if i == j || !lj.Positive {
				continue
			}
			for _, oi := range orientations(li) {
				for _, oj := range orientations(lj) {
					sigma, ok := term.Unify(oi.Left, scopeGiven, oj.Left, scopeGiven, nil)
					if !ok {
						continue
					}
					rn := term.NewRenaming(p.bank, g.MaxVar()+1)
					s := sigma.Apply(p.bank, rn, oi.Left, scopeGiven)
					t := sigma.Apply(p.bank, rn, oi.Right, scopeGiven)
					if c := p.ord.Compare(s, t); c == order.Less || c == order.Equal {
						continue
					}
					applied := p.applyLits(lits, sigma, scopeGiven, rn)
					if !maximalIn(p.ord, applied, i, false) {
						continue
					}
					t2 := sigma.Apply(p.bank, rn, oj.Right, scopeGiven)
					neq, err := clause.MkNeq(t, t2)
					if err != nil {
						continue
					}
					concl := []clause.Literal{neq}
					for k, l := range applied {
						if k != i {
							concl = append(concl, l)
						}
					}
					out = append(out, p.db.Make(concl, clause.NewStep(clause.RuleEqualityFactoring, sigma, g)))
					rn.Clear()
				}
			}
		}
	}
	return out
}

// superpositionFrom uses a positive equation of g to rewrite subterms of
// active clauses.
func (p *Prover) superpositionFrom(g *clause.Clause) []*clause.Clause {
	if g.HasSelection() {
		return nil
	}
	var out []*clause.Clause
	for i, lit := range g.Lits() {
		if !lit.Positive {
			continue
		}
		cmp := lit.Orient(p.ord)
		for _, o := range orientations(lit) {
			if o.Left.Kind() == term.KindVar {
				continue
			}
			// Skip the side already known to be the smaller one.
			if (o.Left == lit.Left && cmp == order.Less) || (o.Left == lit.Right && cmp == order.Greater) {
				continue
			}
			l, r := o.Left, o.Right
			p.active.into.Unifiable(l, func(e index.Entry) bool {
				if c := p.superpose(g, i, l, r, e.Clause, e.Lit, e.Pos, e.Term); c != nil {
					out = append(out, c)
				}
				return true
			})
		}
	}
	return out
}

// superpositionInto rewrites subterms of g using positive equations of
// active clauses.
func (p *Prover) superpositionInto(g *clause.Clause) []*clause.Clause {
	var out []*clause.Clause
	for i, lit := range g.Lits() {
		for side, root := range [2]*term.Term{lit.Left, lit.Right} {
			tag := term.StepLeft
			if side == 1 {
				tag = term.StepRight
			}
			term.WalkPositions(root, func(sub *term.Term, pos term.Position) bool {
				if sub.Kind() == term.KindVar || sub.Kind() == term.KindBound {
					return true
				}
				full := append(term.Position{{Tag: tag}}, pos.Clone()...)
				p.active.from.Unifiable(sub, func(e index.Entry) bool {
					eq := e.Clause.Lits()[e.Lit]
					l, r := eq.Left, eq.Right
					if e.Side == 1 {
						l, r = r, l
					}
					if c := p.superposeSwapped(e.Clause, e.Lit, l, r, g, i, full, sub); c != nil {
						out = append(out, c)
					}
					return true
				})
				return true
			})
		}
	}
	return out
}

// superpose builds one superposition conclusion with the given clause as
// the equation premise. l/r live in the given scope, the target position
// in the partner scope.
func (p *Prover) superpose(fromC *clause.Clause, fromLit int, l, r *term.Term,
	intoC *clause.Clause, intoLit int, pos term.Position, target *term.Term) *clause.Clause {
	sigma, ok := term.Unify(l, scopeGiven, target, scopePartner, nil)
	if !ok {
		return nil
	}
	return p.buildSuperposition(fromC, fromLit, l, r, scopeGiven, intoC, intoLit, pos, scopePartner, sigma)
}

// superposeSwapped is superpose with the equation premise in the partner
// scope and the rewritten clause in the given scope.
func (p *Prover) superposeSwapped(fromC *clause.Clause, fromLit int, l, r *term.Term,
	intoC *clause.Clause, intoLit int, pos term.Position, target *term.Term) *clause.Clause {
	sigma, ok := term.Unify(l, scopePartner, target, scopeGiven, nil)
	if !ok {
		return nil
	}
	return p.buildSuperposition(fromC, fromLit, l, r, scopePartner, intoC, intoLit, pos, scopeGiven, sigma)
}

func (p *Prover) buildSuperposition(fromC *clause.Clause, fromLit int, l, r *term.Term, fromScope int,
	intoC *clause.Clause, intoLit int, pos term.Position, intoScope int, sigma *term.Subst) *clause.Clause {
	if fromC.HasSelection() {
		return nil
	}
	maxVar := fromC.MaxVar()
	if intoC.MaxVar() > maxVar {
		maxVar = intoC.MaxVar()
	}
	rn := term.NewRenaming(p.bank, maxVar+1)

	ls := sigma.Apply(p.bank, rn, l, fromScope)
	rs := sigma.Apply(p.bank, rn, r, fromScope)
	if c := p.ord.Compare(ls, rs); c == order.Less || c == order.Equal {
		return nil
	}

	fromApplied := p.applyLits(fromC.Lits(), sigma, fromScope, rn)
	if !maximalIn(p.ord, fromApplied, fromLit, true) {
		return nil
	}

	intoApplied := p.applyLits(intoC.Lits(), sigma, intoScope, rn)
	tl := intoC.Lits()[intoLit]
	sSide, tSide := tl.Left, tl.Right
	if pos[0].Tag == term.StepRight {
		sSide, tSide = tSide, sSide
	}
	ss := sigma.Apply(p.bank, rn, sSide, intoScope)
	ts := sigma.Apply(p.bank, rn, tSide, intoScope)
	if c := p.ord.Compare(ss, ts); c == order.Less || c == order.Equal {
		return nil
	}
	if tl.Positive {
		if intoC.HasSelection() || !maximalIn(p.ord, intoApplied, intoLit, true) {
			return nil
		}
	} else if !p.eligibleRes(intoC, intoApplied, intoLit) {
		return nil
	}

	newSide, err := p.bank.ReplaceAt(ss, pos[1:], rs)
	if err != nil {
		panic(err)
	}
	var newLit clause.Literal
	if pos[0].Tag == term.StepRight {
		newLit = clause.Literal{Left: ts, Right: newSide, Positive: tl.Positive}
	} else {
		newLit = clause.Literal{Left: newSide, Right: ts, Positive: tl.Positive}
	}

	concl := make([]clause.Literal, 0, len(fromApplied)+len(intoApplied)-1)
	for k, lit := range fromApplied {
		if k != fromLit {
			concl = append(concl, lit)
		}
	}
	for k, lit := range intoApplied {
		if k != intoLit {
			concl = append(concl, lit)
		}
	}
	concl = append(concl, newLit)
	c := p.db.Make(concl, clause.NewStep(clause.RuleSuperposition, sigma, fromC, intoC))
	rn.Clear()
	return c
}

// applyLits instantiates every literal of a clause under sigma with a
// shared renaming, so variables stay coherent across the conclusion.
func (p *Prover) applyLits(lits []clause.Literal, sigma *term.Subst, scope int, rn *term.Renaming) []clause.Literal {
	out := make([]clause.Literal, len(lits))
	for i, l := range lits {
		out[i] = l.Apply(p.bank, rn, sigma, scope)
	}
	return out
}

// eligibleRes checks resolution eligibility of literal i after
// instantiation: selected literals win; otherwise i must be maximal in
// the instantiated clause.
func (p *Prover) eligibleRes(c *clause.Clause, applied []clause.Literal, i int) bool {
	if c.HasSelection() {
		return c.Selected().Contains(i)
	}
	return maximalIn(p.ord, applied, i, false)
}

// maximalIn checks (strict) maximality of literal i within a literal
// list.
func maximalIn(ord order.Ordering, lits []clause.Literal, i int, strict bool) bool {
	for j := range lits {
		if i == j {
			continue
		}
		cmp := lits[j].Compare(ord, lits[i])
		if cmp == order.Greater {
			return false
		}
		if strict && cmp == order.Equal {
			return false
		}
	}
	return true
}

// orientations yields the two reads of an equation.
func orientations(l clause.Literal) [2]clause.Literal {
	return [2]clause.Literal{l, l.Swap()}
}
