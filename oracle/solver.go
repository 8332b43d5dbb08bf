// Package oracle cross-checks prover outcomes on decidable fragments.
// Ground propositional problems go through a SAT backend, Horn problems
// through an embedded Prolog interpreter. The saturation loop never
// depends on this package; it gives an independent answer on these
// fragments to compare prover results against.
package oracle

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/crillab/gophersat/solver"
	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

// Solver is a propositional SAT backend over DIMACS-style signed
// integer literals.
type Solver interface {
	AddClause(lits []int)
	Solve() bool
	Model() mapset.Set[int]
}

// GiniSolver wraps the incremental gini solver.
type GiniSolver struct {
	g      *gini.Gini
	maxVar int
}

func NewGiniSolver() *GiniSolver {
	return &GiniSolver{g: gini.New()}
}

func (s *GiniSolver) AddClause(lits []int) {
	for _, v := range lits {
		if v == 0 {
			panic("oracle: propositional variable cannot be zero")
		}
		a := v
		if a < 0 {
			a = -a
		}
		if a > s.maxVar {
			s.maxVar = a
		}
		if v < 0 {
			s.g.Add(z.Var(-v).Neg())
		} else {
			s.g.Add(z.Var(v).Pos())
		}
	}
	s.g.Add(0)
}

func (s *GiniSolver) Solve() bool {
	return s.g.Solve() == 1
}

func (s *GiniSolver) Model() mapset.Set[int] {
	m := mapset.NewThreadUnsafeSet[int]()
	for v := 1; v <= s.maxVar; v++ {
		if s.g.Value(z.Var(v).Pos()) {
			m.Add(v)
		}
	}
	return m
}

// GopherSolver accumulates clauses and hands them to gophersat in one
// batch per Solve call.
type GopherSolver struct {
	clauses [][]int
	model   []bool
}

func NewGopherSolver() *GopherSolver {
	return &GopherSolver{}
}

func (s *GopherSolver) AddClause(lits []int) {
	for _, v := range lits {
		if v == 0 {
			panic("oracle: propositional variable cannot be zero")
		}
	}
	s.clauses = append(s.clauses, append([]int(nil), lits...))
}

func (s *GopherSolver) Solve() bool {
	pb := solver.ParseSlice(s.clauses)
	sv := solver.New(pb)
	if sv.Solve() != solver.Sat {
		s.model = nil
		return false
	}
	s.model = sv.Model()
	return true
}

func (s *GopherSolver) Model() mapset.Set[int] {
	m := mapset.NewThreadUnsafeSet[int]()
	for i, b := range s.model {
		if b {
			m.Add(i + 1)
		}
	}
	return m
}
