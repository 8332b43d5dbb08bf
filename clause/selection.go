package clause

import (
	"varan/order"
	"varan/term"
)

// SelectionFn picks negative literal indices that must be resolved upon
// before the clause does any positive work. An empty result means the
// eligibility rules fall back to maximal literals.
type SelectionFn func(c *Clause) []int

// NoSelection never selects; eligibility is purely by maximality.
func NoSelection(*Clause) []int { return nil }

// SelectAllNegative selects every negative literal.
func SelectAllNegative(c *Clause) []int {
	var out []int
	for i, l := range c.Lits() {
		if !l.Positive {
			out = append(out, i)
		}
	}
	return out
}

// SelectFirstNegative selects the first negative literal, if any.
func SelectFirstNegative(c *Clause) []int {
	for i, l := range c.Lits() {
		if !l.Positive {
			return []int{i}
		}
	}
	return nil
}

// SelectComplex picks a maximal negative literal containing the deepest
// variable occurrence, ties broken by literal size.
func SelectComplex(ord order.Ordering) SelectionFn {
	return func(c *Clause) []int {
		best := -1
		bestDepth := -1
		bestWeight := -1
		for i, l := range c.Lits() {
			if l.Positive {
				continue
			}
			dominated := false
			for j, m := range c.Lits() {
				if i != j && !m.Positive && m.Compare(ord, l) == order.Greater {
					dominated = true
					break
				}
			}
			if dominated {
				continue
			}
			d := maxInt(varDepth(l.Left), varDepth(l.Right))
			w := l.Weight()
			if d > bestDepth || (d == bestDepth && w > bestWeight) {
				best, bestDepth, bestWeight = i, d, w
			}
		}
		if best < 0 {
			return nil
		}
		return []int{best}
	}
}

// varDepth is the depth of the deepest variable occurrence, -1 for
// ground terms.
func varDepth(t *term.Term) int {
	if t.IsGround() {
		return -1
	}
	switch t.Kind() {
	case term.KindVar:
		return 0
	case term.KindApp:
		best := -1
		if d := varDepth(t.Head()); d >= 0 && d+1 > best {
			best = d + 1
		}
		for _, a := range t.Args() {
			if d := varDepth(a); d >= 0 && d+1 > best {
				best = d + 1
			}
		}
		return best
	case term.KindLambda:
		if d := varDepth(t.Body()); d >= 0 {
			return d + 1
		}
	}
	return -1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
