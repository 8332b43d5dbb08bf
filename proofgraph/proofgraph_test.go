package proofgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varan/clause"
	"varan/notation"
	"varan/proofgraph"
	"varan/term"
)

type dag struct {
	bank      *term.Bank
	db        *clause.DB
	in1, in2  *clause.Clause
	mid, mid2 *clause.Clause
	top       *clause.Clause
}

// buildDAG derives a small diamond: two inputs, two middle steps both
// resting on in1, and an empty clause on top of everything.
func buildDAG(t *testing.T) *dag {
	bank := term.NewBank()
	db := clause.NewDB(bank)
	declare := func(name string) *term.Term {
		s, err := bank.Declare(name, bank.Indiv, 0)
		require.NoError(t, err)
		return bank.Const(s)
	}
	a, b, c := declare("a"), declare("b"), declare("c")
	eq := func(l, r *term.Term) clause.Literal {
		lit, err := clause.MkEq(l, r)
		require.NoError(t, err)
		return lit
	}

	in1 := db.Make([]clause.Literal{eq(a, b)}, clause.NewInput())
	in2 := db.Make([]clause.Literal{eq(b, c)}, clause.NewInput())
	mid := db.Make([]clause.Literal{eq(a, c)},
		clause.NewStep(clause.RuleSuperposition, term.NewSubst(), in1, in2))
	mid2 := db.Make([]clause.Literal{eq(b, a)},
		clause.NewStep(clause.RuleDemodulation, term.NewSubst(), in1))
	top := db.Make(nil,
		clause.NewStep(clause.RuleEqualityResolution, term.NewSubst(), mid, mid2))
	return &dag{bank: bank, db: db, in1: in1, in2: in2, mid: mid, mid2: mid2, top: top}
}

func TestStepsTopological(t *testing.T) {
	d := buildDAG(t)

	steps := proofgraph.Steps(d.top)
	assert.Len(t, steps, 5)

	pos := make(map[int]int)
	for i, s := range steps {
		pos[s.ID()] = i
	}
	for _, s := range steps {
		for _, p := range s.Proof().Parents {
			assert.Less(t, pos[p.ID()], pos[s.ID()])
		}
	}
	assert.Same(t, d.top, steps[len(steps)-1])
}

func TestStepsSharedParentOnce(t *testing.T) {
	d := buildDAG(t)
	seen := make(map[int]int)
	for _, s := range proofgraph.Steps(d.top) {
		seen[s.ID()]++
	}
	assert.Equal(t, 1, seen[d.in1.ID()])
}

func TestUsedInputs(t *testing.T) {
	d := buildDAG(t)
	assert.ElementsMatch(t, []*clause.Clause{d.in1, d.in2},
		proofgraph.UsedInputs(d.top))
	assert.ElementsMatch(t, []*clause.Clause{d.in1},
		proofgraph.UsedInputs(d.mid2))
}

func TestDepth(t *testing.T) {
	d := buildDAG(t)
	assert.Equal(t, 0, proofgraph.Depth(d.in1))
	assert.Equal(t, 1, proofgraph.Depth(d.mid))
	assert.Equal(t, 2, proofgraph.Depth(d.top))
}

func TestGraphComponents(t *testing.T) {
	g := proofgraph.NewGraph(6)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(3, 4)

	count, comps := g.Components()
	assert.Equal(t, 3, count)
	assert.ElementsMatch(t, []int{0, 1, 2}, comps[1])
	assert.ElementsMatch(t, []int{3, 4}, comps[2])
	assert.ElementsMatch(t, []int{5}, comps[3])
}

func TestClauseComponents(t *testing.T) {
	bank := term.NewBank()
	r := notation.NewReader(bank, clause.NewDB(bank))
	cs, err := r.Problem(`
		f(a) = a.
		g(a) = a.
		p(b).
		q.
	`)
	require.NoError(t, err)

	parts := proofgraph.ClauseComponents(bank, cs)
	require.Len(t, parts, 3)
	assert.ElementsMatch(t, []*clause.Clause{cs[0], cs[1]}, parts[0])
	assert.ElementsMatch(t, []*clause.Clause{cs[2]}, parts[1])
	assert.ElementsMatch(t, []*clause.Clause{cs[3]}, parts[2])
}

func TestClauseComponentsChainMerges(t *testing.T) {
	bank := term.NewBank()
	r := notation.NewReader(bank, clause.NewDB(bank))
	cs, err := r.Problem(`
		f(a) = b.
		g(b) = c.
		h(c) = d.
	`)
	require.NoError(t, err)

	parts := proofgraph.ClauseComponents(bank, cs)
	require.Len(t, parts, 1)
	assert.Len(t, parts[0], 3)
}
