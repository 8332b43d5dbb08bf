package oracle

import (
	"errors"
	"fmt"

	"varan/clause"
	"varan/term"
)

var ErrNotPropositional = errors.New("oracle: clause is not ground propositional")

// Abstraction maps ground propositional atoms onto DIMACS variables
// 1..n. Atoms are interned terms, so pointer identity is atom identity.
type Abstraction struct {
	bank  *term.Bank
	vars  map[*term.Term]int
	atoms []*term.Term
}

func NewAbstraction(bank *term.Bank) *Abstraction {
	return &Abstraction{bank: bank, vars: make(map[*term.Term]int)}
}

func (a *Abstraction) atomVar(t *term.Term) int {
	if v, ok := a.vars[t]; ok {
		return v
	}
	a.atoms = append(a.atoms, t)
	v := len(a.atoms)
	a.vars[t] = v
	return v
}

// Literal abstracts one literal into a signed variable.
func (a *Abstraction) Literal(l clause.Literal) (int, error) {
	if !l.IsProp(a.bank) || !l.Left.IsGround() {
		return 0, fmt.Errorf("%w: %s", ErrNotPropositional, l)
	}
	v := a.atomVar(l.Left)
	if !l.Positive {
		v = -v
	}
	return v, nil
}

// Clause abstracts a whole clause.
func (a *Abstraction) Clause(c *clause.Clause) ([]int, error) {
	out := make([]int, 0, c.Len())
	for _, l := range c.Lits() {
		v, err := a.Literal(l)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// NumVars reports how many atoms have been assigned so far.
func (a *Abstraction) NumVars() int { return len(a.atoms) }

// Atom recovers the term behind a 1-based variable.
func (a *Abstraction) Atom(v int) *term.Term { return a.atoms[v-1] }

// CheckSat abstracts the clauses into s and reports satisfiability. The
// answer is exact on ground propositional input; anything else is an
// error.
func CheckSat(bank *term.Bank, s Solver, cs []*clause.Clause) (bool, error) {
	a := NewAbstraction(bank)
	for _, c := range cs {
		row, err := a.Clause(c)
		if err != nil {
			return false, err
		}
		s.AddClause(row)
	}
	return s.Solve(), nil
}

// LargestConsistentSubset returns a maximum satisfiable subset of the
// input clauses, computed with selector variables and MaxSAT. A nil
// result means even the empty subset fails, which cannot happen on
// well-formed input.
func LargestConsistentSubset(bank *term.Bank, cs []*clause.Clause) ([]*clause.Clause, error) {
	a := NewAbstraction(bank)
	rows := make([][]int, len(cs))
	for i, c := range cs {
		row, err := a.Clause(c)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	s := NewMaxSatSolver()
	base := a.NumVars()
	for i, row := range rows {
		sel := base + i + 1
		s.AddSoft(sel)
		s.AddClause(append([]int{-sel}, row...))
	}
	if !s.Solve() {
		return nil, nil
	}
	m := s.Model()
	var out []*clause.Clause
	for i := range cs {
		if m.Contains(base + i + 1) {
			out = append(out, cs[i])
		}
	}
	return out, nil
}
