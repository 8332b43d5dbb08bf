package oracle

import (
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/crillab/gophersat/maxsat"
)

// MaxSatSolver finds a model maximising the number of satisfied soft
// atoms under the hard clauses. It backs the "largest consistent input
// subset" diagnostic on unsatisfiable propositional problems.
type MaxSatSolver struct {
	constrs []maxsat.Constr
	soft    []int
	model   map[string]bool
}

func NewMaxSatSolver() *MaxSatSolver {
	return &MaxSatSolver{}
}

// AddSoft marks a variable the solver should try to satisfy.
func (s *MaxSatSolver) AddSoft(v int) {
	s.soft = append(s.soft, v)
	s.constrs = append(s.constrs, maxsat.SoftClause(maxsat.Var(strconv.Itoa(v))))
}

func (s *MaxSatSolver) AddClause(lits []int) {
	clause := make([]maxsat.Lit, len(lits))
	for i, v := range lits {
		if v == 0 {
			panic("oracle: propositional variable cannot be zero")
		}
		if v > 0 {
			clause[i] = maxsat.Var(strconv.Itoa(v))
		} else {
			clause[i] = maxsat.Var(strconv.Itoa(-v)).Negation()
		}
	}
	s.constrs = append(s.constrs, maxsat.HardClause(clause...))
}

func (s *MaxSatSolver) Solve() bool {
	pb := maxsat.New(s.constrs...)
	model, _ := pb.Solve()
	s.model = model
	return model != nil
}

func (s *MaxSatSolver) Model() mapset.Set[int] {
	m := mapset.NewThreadUnsafeSet[int]()
	for _, v := range s.soft {
		if s.model[strconv.Itoa(v)] {
			m.Add(v)
		}
	}
	return m
}
