// Package saturate implements the given-clause saturation loop on top of
// the superposition inference rules, with active, passive and
// simplification clause sets.
package saturate

import (
	"container/heap"

	mapset "github.com/deckarep/golang-set/v2"

	"varan/clause"
	"varan/index"
	"varan/order"
	"varan/term"
)

// ActiveSet holds the clauses currently usable as inference premises,
// together with the two retrieval indexes the rules need: every non-
// variable subterm position (superposition into) and every potential
// equation side (superposition from).
type ActiveSet struct {
	clauses map[int]*clause.Clause
	ids     mapset.Set[int]
	into    *index.Tree
	from    *index.Tree
}

func NewActiveSet() *ActiveSet {
	return &ActiveSet{
		clauses: make(map[int]*clause.Clause),
		ids:     mapset.NewThreadUnsafeSet[int](),
		into:    index.New(),
		from:    index.New(),
	}
}

func (a *ActiveSet) Len() int { return len(a.clauses) }

func (a *ActiveSet) Contains(c *clause.Clause) bool { return a.ids.Contains(c.ID()) }

func (a *ActiveSet) IDs() mapset.Set[int] { return a.ids }

// Each visits the active clauses; insertion order is not guaranteed.
func (a *ActiveSet) Each(visit func(*clause.Clause) bool) {
	for _, c := range a.clauses {
		if !visit(c) {
			return
		}
	}
}

// Into exposes the subterm-position index to binary inference hooks.
func (a *ActiveSet) Into() *index.Tree { return a.into }

// From exposes the equation-side index to binary inference hooks.
func (a *ActiveSet) From() *index.Tree { return a.from }

func (a *ActiveSet) Add(ord order.Ordering, c *clause.Clause) {
	if a.Contains(c) {
		return
	}
	a.clauses[c.ID()] = c
	a.ids.Add(c.ID())
	for _, e := range intoEntries(c) {
		a.into.Insert(e)
	}
	for _, e := range fromEntries(ord, c) {
		a.from.Insert(e)
	}
}

func (a *ActiveSet) Remove(ord order.Ordering, c *clause.Clause) {
	if !a.Contains(c) {
		return
	}
	delete(a.clauses, c.ID())
	a.ids.Remove(c.ID())
	for _, e := range intoEntries(c) {
		a.into.Remove(e)
	}
	for _, e := range fromEntries(ord, c) {
		a.from.Remove(e)
	}
}

// intoEntries lists every non-variable subterm position of every
// literal. Positions start with a Left or Right step naming the equation
// side.
func intoEntries(c *clause.Clause) []index.Entry {
	var out []index.Entry
	for i, lit := range c.Lits() {
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
				out = append(out, index.Entry{Term: sub, Clause: c, Lit: i, Pos: full})
				return true
			})
		}
	}
	return out
}

// fromEntries lists the sides of positive equations that could be the
// larger side after instantiation. Sides already known to be smaller are
// skipped; everything else is verified again at inference time.
func fromEntries(ord order.Ordering, c *clause.Clause) []index.Entry {
	var out []index.Entry
	for i, lit := range c.Lits() {
		if !lit.Positive {
			continue
		}
		cmp := lit.Orient(ord)
		if cmp != order.Less && lit.Left.Kind() != term.KindVar {
			out = append(out, index.Entry{Term: lit.Left, Clause: c, Lit: i, Side: 0})
		}
		if cmp != order.Greater && lit.Right.Kind() != term.KindVar {
			out = append(out, index.Entry{Term: lit.Right, Clause: c, Lit: i, Side: 1})
		}
	}
	return out
}

// passiveItem orders the heap by priority, ties broken by clause id so
// runs are deterministic.
type passiveItem struct {
	c    *clause.Clause
	prio int
}

type passiveHeap []passiveItem

func (h passiveHeap) Len() int { return len(h) }
func (h passiveHeap) Less(i, j int) bool {
	if h[i].prio != h[j].prio {
		return h[i].prio < h[j].prio
	}
	return h[i].c.ID() < h[j].c.ID()
}
func (h passiveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *passiveHeap) Push(x interface{}) { *h = append(*h, x.(passiveItem)) }
func (h *passiveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// PassiveSet is the priority queue of clauses awaiting processing. Most
// picks take the lightest clause; every ageRatio-th pick takes the oldest
// instead, so heavy clauses still get processed eventually.
type PassiveSet struct {
	byWeight passiveHeap
	byAge    []*clause.Clause
	members  mapset.Set[int]
	ageRatio int
	picks    int
}

func NewPassiveSet(ageRatio int) *PassiveSet {
	if ageRatio <= 0 {
		ageRatio = 5
	}
	return &PassiveSet{
		members:  mapset.NewThreadUnsafeSet[int](),
		ageRatio: ageRatio,
	}
}

func (p *PassiveSet) Len() int { return p.members.Cardinality() }

func (p *PassiveSet) Contains(c *clause.Clause) bool { return p.members.Contains(c.ID()) }

func (p *PassiveSet) Push(c *clause.Clause) {
	if p.members.Contains(c.ID()) {
		return
	}
	p.members.Add(c.ID())
	heap.Push(&p.byWeight, passiveItem{c: c, prio: c.Weight() + c.Penalty()})
	p.byAge = append(p.byAge, c)
}

// Remove cancels a waiting clause; the queues drop it lazily on pop.
func (p *PassiveSet) Remove(c *clause.Clause) {
	p.members.Remove(c.ID())
}

// Pop returns the next given clause, or nil when the set is drained.
func (p *PassiveSet) Pop() *clause.Clause {
	for p.members.Cardinality() > 0 {
		p.picks++
		if p.picks%p.ageRatio == 0 {
			if c := p.popOldest(); c != nil {
				return c
			}
			continue
		}
		if c := p.popLightest(); c != nil {
			return c
		}
	}
	return nil
}

func (p *PassiveSet) popLightest() *clause.Clause {
	for p.byWeight.Len() > 0 {
		it := heap.Pop(&p.byWeight).(passiveItem)
		if p.members.Contains(it.c.ID()) {
			p.members.Remove(it.c.ID())
			return it.c
		}
	}
	return nil
}

func (p *PassiveSet) popOldest() *clause.Clause {
	for len(p.byAge) > 0 {
		c := p.byAge[0]
		p.byAge = p.byAge[1:]
		if p.members.Contains(c.ID()) {
			p.members.Remove(c.ID())
			return c
		}
	}
	return nil
}

// Each visits the waiting clauses.
func (p *PassiveSet) Each(visit func(*clause.Clause) bool) {
	seen := mapset.NewThreadUnsafeSet[int]()
	for _, c := range p.byAge {
		if p.members.Contains(c.ID()) && !seen.Contains(c.ID()) {
			seen.Add(c.ID())
			if !visit(c) {
				return
			}
		}
	}
}

// SimplSet holds the unit positive equations used as rewrite rules, with
// an index over their sides for generalisation retrieval.
type SimplSet struct {
	units map[int]*clause.Clause
	lhs   *index.Tree
}

func NewSimplSet() *SimplSet {
	return &SimplSet{
		units: make(map[int]*clause.Clause),
		lhs:   index.New(),
	}
}

func (s *SimplSet) Len() int { return len(s.units) }

func (s *SimplSet) Contains(c *clause.Clause) bool {
	_, ok := s.units[c.ID()]
	return ok
}

// Add accepts only unit positive equations; everything else is ignored.
func (s *SimplSet) Add(ord order.Ordering, c *clause.Clause) bool {
	if c.Len() != 1 || !c.Lits()[0].Positive || s.Contains(c) {
		return false
	}
	s.units[c.ID()] = c
	for _, e := range demodEntries(ord, c) {
		s.lhs.Insert(e)
	}
	return true
}

func (s *SimplSet) Remove(ord order.Ordering, c *clause.Clause) {
	if !s.Contains(c) {
		return
	}
	delete(s.units, c.ID())
	for _, e := range demodEntries(ord, c) {
		s.lhs.Remove(e)
	}
}

func (s *SimplSet) Each(visit func(*clause.Clause) bool) {
	for _, c := range s.units {
		if !visit(c) {
			return
		}
	}
}

// Generalizations retrieves candidate rewrite rules whose left-hand side
// may match onto q.
func (s *SimplSet) Generalizations(q *term.Term, yield func(index.Entry) bool) {
	s.lhs.Generalizations(q, yield)
}

// demodEntries indexes the sides of a unit equation that may serve as a
// demodulator left-hand side.
func demodEntries(ord order.Ordering, c *clause.Clause) []index.Entry {
	lit := c.Lits()[0]
	cmp := lit.Orient(ord)
	var out []index.Entry
	if cmp != order.Less && lit.Left.Kind() != term.KindVar {
		out = append(out, index.Entry{Term: lit.Left, Clause: c, Lit: 0, Side: 0})
	}
	if cmp != order.Greater && lit.Right.Kind() != term.KindVar {
		out = append(out, index.Entry{Term: lit.Right, Clause: c, Lit: 0, Side: 1})
	}
	return out
}
