package saturate

import (
	mapset "github.com/deckarep/golang-set/v2"

	"varan/clause"
	"varan/index"
	"varan/order"
	"varan/term"
)

// forwardSimplify reduces a clause against the current simplification
// set before it is used. The second result is false when the clause is
// redundant and must be discarded.
func (p *Prover) forwardSimplify(c *clause.Clause) (*clause.Clause, bool) {
	c = p.demodulate(c)
	c = p.simplifyReflect(c)
	if c.IsTautology() {
		return nil, false
	}
	if p.subsumedForward(c) {
		return nil, false
	}
	return c, true
}

// demodulate rewrites the clause with the unit equations until no rule
// applies. Each round applies a single rewrite and re-interns, so the
// ordering check always sees fully built terms.
func (p *Prover) demodulate(c *clause.Clause) *clause.Clause {
	for {
		next := p.demodulateOnce(c)
		if next == nil || next == c {
			return c
		}
		c = next
	}
}

func (p *Prover) demodulateOnce(c *clause.Clause) *clause.Clause {
	for i, lit := range c.Lits() {
		for side, root := range [2]*term.Term{lit.Left, lit.Right} {
			var res *clause.Clause
			term.WalkPositions(root, func(sub *term.Term, pos term.Position) bool {
				if sub.Kind() == term.KindVar || sub.Kind() == term.KindBound {
					return true
				}
				p.simpl.Generalizations(sub, func(e index.Entry) bool {
					if e.Clause == c {
						return true
					}
					eq := e.Clause.Lits()[0]
					l, r := eq.Left, eq.Right
					if e.Side == 1 {
						l, r = r, l
					}
					sigma, ok := term.Match(l, scopePartner, sub, scopeGiven, nil)
					if !ok {
						return true
					}
					rs := sigma.Apply(p.bank, nil, r, scopePartner)
					if p.ord.Compare(sub, rs) != order.Greater {
						return true
					}
					newSide, err := p.bank.ReplaceAt(root, pos, rs)
					if err != nil {
						panic(err)
					}
					nl := lit
					if side == 1 {
						nl.Right = newSide
					} else {
						nl.Left = newSide
					}
					lits := make([]clause.Literal, len(c.Lits()))
					copy(lits, c.Lits())
					lits[i] = nl
					res = p.db.Make(lits, clause.NewStep(clause.RuleDemodulation, sigma, c, e.Clause))
					return false
				})
				return res == nil
			})
			if res != nil {
				return res
			}
		}
	}
	return nil
}

// simplifyReflect deletes a negative literal s != t when a unit equation
// instantiates to s = t. Only the literal's left side is the retrieval
// key, so an oriented unit l = r (only l indexed) deletes s != t when l
// matches s, but not when l matches t.
func (p *Prover) simplifyReflect(c *clause.Clause) *clause.Clause {
	for {
		next := p.simplifyReflectOnce(c)
		if next == nil || next == c {
			return c
		}
		c = next
	}
}

func (p *Prover) simplifyReflectOnce(c *clause.Clause) *clause.Clause {
	for i, lit := range c.Lits() {
		if lit.Positive {
			continue
		}
		var unit *clause.Clause
		var sigma *term.Subst
		p.simpl.Generalizations(lit.Left, func(e index.Entry) bool {
			if e.Clause == c {
				return true
			}
			eq := e.Clause.Lits()[0]
			l, r := eq.Left, eq.Right
			if e.Side == 1 {
				l, r = r, l
			}
			s, ok := term.Match(l, scopePartner, lit.Left, scopeGiven, nil)
			if !ok {
				return true
			}
			s, ok = term.Match(r, scopePartner, lit.Right, scopeGiven, s)
			if !ok {
				return true
			}
			unit, sigma = e.Clause, s
			return false
		})
		if unit == nil {
			continue
		}
		lits := append(append([]clause.Literal(nil), c.Lits()[:i]...), c.Lits()[i+1:]...)
		return p.db.Make(lits, clause.NewStep(clause.RuleSimplifyReflect, sigma, c, unit))
	}
	return nil
}

// subsumedForward reports that an active clause subsumes c.
func (p *Prover) subsumedForward(c *clause.Clause) bool {
	found := false
	p.active.Each(func(a *clause.Clause) bool {
		if a != c && Subsumes(a, c) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Subsumes reports whether c subsumes d: some substitution maps the
// literals of c injectively onto literals of d, respecting polarity and
// allowing either orientation of each equation.
func Subsumes(c, d *clause.Clause) bool {
	if c.Len() > d.Len() || c.Weight() > d.Weight() {
		return false
	}
	if c.Len() == 0 {
		return true
	}
	used := make([]bool, d.Len())
	var assign func(i int, s *term.Subst) bool
	assign = func(i int, s *term.Subst) bool {
		if i == c.Len() {
			return true
		}
		cl := c.Lits()[i]
		for j, dl := range d.Lits() {
			if used[j] || cl.Positive != dl.Positive {
				continue
			}
			for _, o := range orientations(cl) {
				m, ok := term.Match(o.Left, scopePartner, dl.Left, scopeGiven, s.Clone())
				if !ok {
					continue
				}
				m, ok = term.Match(o.Right, scopePartner, dl.Right, scopeGiven, m)
				if !ok {
					continue
				}
				used[j] = true
				if assign(i+1, m) {
					return true
				}
				used[j] = false
			}
		}
		return false
	}
	return assign(0, term.NewSubst())
}

// backwardSimplify removes clauses the freshly activated g makes
// redundant, and re-queues active clauses its equation can rewrite.
func (p *Prover) backwardSimplify(g *clause.Clause) {
	p.backwardSubsume(g)
	if g.Len() == 1 && g.Lits()[0].Positive {
		p.backwardDemodulate(g)
	}
}

func (p *Prover) backwardSubsume(g *clause.Clause) {
	var victims []*clause.Clause
	p.active.Each(func(d *clause.Clause) bool {
		if d != g && Subsumes(g, d) {
			victims = append(victims, d)
		}
		return true
	})
	for _, d := range victims {
		p.discardActive(d)
	}
	victims = victims[:0]
	p.passive.Each(func(d *clause.Clause) bool {
		if d != g && Subsumes(g, d) {
			victims = append(victims, d)
		}
		return true
	})
	for _, d := range victims {
		p.discardPassive(d)
	}
}

// backwardDemodulate finds active clauses with a subterm the new unit
// equation rewrites and sends them back to the passive queue, where the
// next pop re-simplifies them.
func (p *Prover) backwardDemodulate(g *clause.Clause) {
	eq := g.Lits()[0]
	cmp := eq.Orient(p.ord)
	seen := mapset.NewThreadUnsafeSet[int]()
	var hits []*clause.Clause
	try := func(l, r *term.Term) {
		if l.Kind() == term.KindVar {
			return
		}
		p.active.into.Instances(l, func(e index.Entry) bool {
			if e.Clause == g || seen.Contains(e.Clause.ID()) {
				return true
			}
			sigma, ok := term.Match(l, scopePartner, e.Term, scopeGiven, nil)
			if !ok {
				return true
			}
			rs := sigma.Apply(p.bank, nil, r, scopePartner)
			if p.ord.Compare(e.Term, rs) != order.Greater {
				return true
			}
			seen.Add(e.Clause.ID())
			hits = append(hits, e.Clause)
			return true
		})
	}
	if cmp != order.Less {
		try(eq.Left, eq.Right)
	}
	if cmp != order.Greater {
		try(eq.Right, eq.Left)
	}
	for _, d := range hits {
		p.active.Remove(p.ord, d)
		p.simpl.Remove(p.ord, d)
		p.passive.Push(d)
	}
}
