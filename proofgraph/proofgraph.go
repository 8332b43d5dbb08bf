// Package proofgraph analyses the proof DAG that clause derivations
// form: topological listings, the input clauses a refutation actually
// used, and the connected components of a problem's symbol-sharing
// graph for splitting diagnostics.
package proofgraph

import (
	mapset "github.com/deckarep/golang-set/v2"

	"varan/clause"
	"varan/term"
)

// Steps lists every clause reachable from root through proof parents,
// parents before children.
func Steps(root *clause.Clause) []*clause.Clause {
	var out []*clause.Clause
	seen := mapset.NewThreadUnsafeSet[int]()
	var visit func(*clause.Clause)
	visit = func(c *clause.Clause) {
		if seen.Contains(c.ID()) {
			return
		}
		seen.Add(c.ID())
		for _, p := range c.Proof().Parents {
			visit(p)
		}
		out = append(out, c)
	}
	visit(root)
	return out
}

// UsedInputs filters Steps down to the input clauses a derivation rests
// on.
func UsedInputs(root *clause.Clause) []*clause.Clause {
	var out []*clause.Clause
	for _, c := range Steps(root) {
		if c.Proof().IsInput() {
			out = append(out, c)
		}
	}
	return out
}

// Depth is the longest parent chain from root down to an input clause.
// An input clause has depth 0.
func Depth(root *clause.Clause) int {
	memo := make(map[int]int)
	var depth func(*clause.Clause) int
	depth = func(c *clause.Clause) int {
		if d, ok := memo[c.ID()]; ok {
			return d
		}
		best := 0
		for _, p := range c.Proof().Parents {
			if d := depth(p) + 1; d > best {
				best = d
			}
		}
		memo[c.ID()] = best
		return best
	}
	return depth(root)
}

// Graph is an undirected graph over dense vertex ids.
type Graph struct {
	adj [][]int
}

func NewGraph(n int) *Graph {
	return &Graph{make([][]int, n)}
}

func (g *Graph) AddEdge(u, v int) {
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
}

// Components returns the number of connected components and the
// vertices of each, keyed 1..count.
func (g *Graph) Components() (int, map[int][]int) {
	n := len(g.adj)
	visited := make([]bool, n)
	componentMap := make(map[int][]int)

	var dfs func(int, int)
	dfs = func(v, component int) {
		visited[v] = true
		componentMap[component] = append(componentMap[component], v)
		for _, w := range g.adj[v] {
			if !visited[w] {
				dfs(w, component)
			}
		}
	}

	count := 0
	for i := 0; i < n; i++ {
		if !visited[i] {
			count++
			dfs(i, count)
		}
	}

	return count, componentMap
}

// ClauseComponents partitions a clause set by shared symbols: two
// clauses land in one component when some non-builtin symbol occurs in
// both. Independent components can be saturated separately.
func ClauseComponents(bank *term.Bank, cs []*clause.Clause) [][]*clause.Clause {
	g := NewGraph(len(cs))
	bySym := make(map[term.Sym]int)
	for i, c := range cs {
		for s := range clauseSyms(bank, c).Iter() {
			if j, ok := bySym[s]; ok {
				g.AddEdge(i, j)
			} else {
				bySym[s] = i
			}
		}
	}
	count, comps := g.Components()
	out := make([][]*clause.Clause, 0, count)
	for id := 1; id <= count; id++ {
		part := make([]*clause.Clause, 0, len(comps[id]))
		for _, v := range comps[id] {
			part = append(part, cs[v])
		}
		out = append(out, part)
	}
	return out
}

func clauseSyms(bank *term.Bank, c *clause.Clause) mapset.Set[term.Sym] {
	syms := mapset.NewThreadUnsafeSet[term.Sym]()
	var collect func(t *term.Term)
	collect = func(t *term.Term) {
		switch t.Kind() {
		case term.KindConst:
			if t.Sym() != bank.SymTrue && t.Sym() != bank.SymFalse {
				syms.Add(t.Sym())
			}
		case term.KindApp:
			collect(t.Head())
			for _, a := range t.Args() {
				collect(a)
			}
		case term.KindLambda:
			collect(t.Body())
		}
	}
	for _, l := range c.Lits() {
		collect(l.Left)
		collect(l.Right)
	}
	return syms
}
