// Package index provides a discrimination-tree term index. It answers
// which indexed subterms can unify with, generalise, or instantiate a
// query term. Retrieval is a superset test: candidates may include false
// positives, which callers discard with a real unification or matching
// call.
package index

import (
	"varan/clause"
	"varan/term"
)

// Entry associates an indexed term with the clause, literal index and
// position it occurs at.
type Entry struct {
	Term   *term.Term
	Clause *clause.Clause
	Lit    int
	Pos    term.Position
	// Side distinguishes payloads that index an equation side rather
	// than a subterm position; rules use it freely.
	Side int
}

func (e Entry) equal(o Entry) bool {
	return e.Term == o.Term && e.Clause == o.Clause && e.Lit == o.Lit && e.Side == o.Side &&
		samePos(e.Pos, o.Pos)
}

func samePos(a, b term.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type tokKind uint8

const (
	tokSym tokKind = iota
	tokBound
	tokStar
)

// token is one node of a flattened term. Stars stand for variables and
// for the shapes the first-order tree does not discriminate (lambdas,
// variable-headed applications).
type token struct {
	kind  tokKind
	sym   term.Sym
	index int
	arity int
}

// flatten serialises t in prefix order.
func flatten(t *term.Term, out []token) []token {
	switch t.Kind() {
	case term.KindVar:
		return append(out, token{kind: tokStar})
	case term.KindBound:
		return append(out, token{kind: tokBound, index: t.BoundIndex()})
	case term.KindConst:
		return append(out, token{kind: tokSym, sym: t.Sym()})
	case term.KindApp:
		head := t.Head()
		if head.Kind() != term.KindConst {
			return append(out, token{kind: tokStar})
		}
		out = append(out, token{kind: tokSym, sym: head.Sym(), arity: len(t.Args())})
		for _, a := range t.Args() {
			out = flatten(a, out)
		}
		return out
	case term.KindLambda:
		return append(out, token{kind: tokStar})
	}
	panic("index: unknown term kind")
}

// jumps computes, for each token position, the index just past the
// subterm starting there.
func jumps(toks []token) []int {
	out := make([]int, len(toks))
	var skip func(i int) int
	skip = func(i int) int {
		end := i + 1
		for k := 0; k < toks[i].arity; k++ {
			end = skip(end)
		}
		return end
	}
	for i := range toks {
		out[i] = skip(i)
	}
	return out
}

type node struct {
	children map[token]*node
	star     *node
	leaves   []Entry
}

func newNode() *node {
	return &node{children: make(map[token]*node)}
}

func (n *node) empty() bool {
	return len(n.children) == 0 && n.star == nil && len(n.leaves) == 0
}

// Tree is the discrimination tree.
type Tree struct {
	root *node
	size int
}

func New() *Tree {
	return &Tree{root: newNode()}
}

// Size counts stored entries.
func (x *Tree) Size() int { return x.size }

// Insert stores e under the flattened form of e.Term.
func (x *Tree) Insert(e Entry) {
	toks := flatten(e.Term, nil)
	n := x.root
	for _, t := range toks {
		if t.kind == tokStar {
			if n.star == nil {
				n.star = newNode()
			}
			n = n.star
			continue
		}
		child := n.children[t]
		if child == nil {
			child = newNode()
			n.children[t] = child
		}
		n = child
	}
	n.leaves = append(n.leaves, e)
	x.size++
}

// Remove deletes a previously inserted entry; unknown entries are a
// no-op.
func (x *Tree) Remove(e Entry) {
	toks := flatten(e.Term, nil)
	if x.remove(x.root, toks, e) {
		x.size--
	}
}

func (x *Tree) remove(n *node, toks []token, e Entry) bool {
	if n == nil {
		return false
	}
	if len(toks) == 0 {
		for i, cand := range n.leaves {
			if cand.equal(e) {
				n.leaves = append(n.leaves[:i], n.leaves[i+1:]...)
				return true
			}
		}
		return false
	}
	t := toks[0]
	if t.kind == tokStar {
		if !x.remove(n.star, toks[1:], e) {
			return false
		}
		if n.star.empty() {
			n.star = nil
		}
		return true
	}
	child := n.children[t]
	if !x.remove(child, toks[1:], e) {
		return false
	}
	if child.empty() {
		delete(n.children, t)
	}
	return true
}

type retrieveMode uint8

const (
	modeUnifiable retrieveMode = iota
	modeGeneralizations
	modeInstances
)

// Unifiable yields every entry whose term may unify with q. Stop early by
// returning false from yield.
func (x *Tree) Unifiable(q *term.Term, yield func(Entry) bool) {
	x.retrieve(q, modeUnifiable, yield)
}

// Generalizations yields entries whose term may match onto q.
func (x *Tree) Generalizations(q *term.Term, yield func(Entry) bool) {
	x.retrieve(q, modeGeneralizations, yield)
}

// Instances yields entries whose term q may match onto.
func (x *Tree) Instances(q *term.Term, yield func(Entry) bool) {
	x.retrieve(q, modeInstances, yield)
}

func (x *Tree) retrieve(q *term.Term, mode retrieveMode, yield func(Entry) bool) {
	toks := flatten(q, nil)
	jmp := jumps(toks)
	x.walk(x.root, toks, jmp, 0, mode, yield)
}

func (x *Tree) walk(n *node, toks []token, jmp []int, i int, mode retrieveMode, yield func(Entry) bool) bool {
	if n == nil {
		return true
	}
	if i == len(toks) {
		for _, e := range n.leaves {
			if !yield(e) {
				return false
			}
		}
		return true
	}

	// A tree-side variable may cover the whole query subterm.
	if mode == modeUnifiable || mode == modeGeneralizations {
		if !x.walk(n.star, toks, jmp, jmp[i], mode, yield) {
			return false
		}
	}

	t := toks[i]
	if t.kind == tokStar {
		// A query-side variable covers one indexed subterm.
		if mode == modeUnifiable || mode == modeInstances {
			return x.skip(n, 1, func(m *node) bool {
				return x.walk(m, toks, jmp, i+1, mode, yield)
			})
		}
		// Generalizations: the indexed side must be a variable too,
		// which the star branch above already handled.
		return true
	}
	return x.walk(n.children[t], toks, jmp, i+1, mode, yield)
}

// skip visits every node reachable by consuming exactly count indexed
// subterms from n.
func (x *Tree) skip(n *node, count int, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	if count == 0 {
		return visit(n)
	}
	if n.star != nil {
		if !x.skip(n.star, count-1, visit) {
			return false
		}
	}
	for t, child := range n.children {
		if !x.skip(child, count-1+t.arity, visit) {
			return false
		}
	}
	return true
}
