// Package order provides the reduction orderings (KBO, RPO) used to
// restrict inferences, built on a total symbol precedence.
package order

import (
	"varan/term"
)

// Comparison is the outcome of a partial order test.
type Comparison int8

const (
	Incomparable Comparison = iota
	Less
	Equal
	Greater
)

func (c Comparison) String() string {
	switch c {
	case Less:
		return "<"
	case Equal:
		return "="
	case Greater:
		return ">"
	}
	return "?"
}

// Reverse flips Less and Greater.
func (c Comparison) Reverse() Comparison {
	switch c {
	case Less:
		return Greater
	case Greater:
		return Less
	}
	return c
}

// Status selects how an ordering compares the arguments of a symbol.
type Status uint8

const (
	StatusLex Status = iota
	StatusMultiset
)

// Precedence is a total order on symbols with a per-symbol weight and
// status. The default order is the intern order of the Bank, which makes
// runs deterministic. The version counter increases on every explicit
// adjustment and on Touch, which callers invoke after adding symbols;
// cached comparisons key on it.
type Precedence struct {
	bank    *term.Bank
	rank    map[term.Sym]int
	weight  map[term.Sym]int
	status  map[term.Sym]Status
	version int
}

func NewPrecedence(bank *term.Bank) *Precedence {
	return &Precedence{
		bank:   bank,
		rank:   make(map[term.Sym]int),
		weight: make(map[term.Sym]int),
		status: make(map[term.Sym]Status),
	}
}

func (p *Precedence) Bank() *term.Bank { return p.bank }

func (p *Precedence) Version() int { return p.version }

// Touch signals that symbols were added after clauses cached literal
// comparisons; those caches recompute on their next use.
func (p *Precedence) Touch() { p.version++ }

func (p *Precedence) rankOf(s term.Sym) int {
	if r, ok := p.rank[s]; ok {
		return r
	}
	return int(s)
}

// SetGreater places a above b in the precedence.
func (p *Precedence) SetGreater(a, b term.Sym) {
	rb := p.rankOf(b)
	if p.rankOf(a) > rb {
		return
	}
	p.rank[a] = rb + p.bank.NumSyms() + 1
	p.version++
}

// CompareSyms is the total symbol order: ranks first, intern tags break
// ties.
func (p *Precedence) CompareSyms(a, b term.Sym) Comparison {
	if a == b {
		return Equal
	}
	ra, rb := p.rankOf(a), p.rankOf(b)
	if ra > rb {
		return Greater
	}
	if ra < rb {
		return Less
	}
	if a > b {
		return Greater
	}
	return Less
}

// Weight is the KBO symbol weight; 1 unless set.
func (p *Precedence) Weight(s term.Sym) int {
	if w, ok := p.weight[s]; ok {
		return w
	}
	return 1
}

func (p *Precedence) SetWeight(s term.Sym, w int) {
	if w <= 0 {
		panic("order: symbol weight must be positive")
	}
	p.weight[s] = w
	p.version++
}

func (p *Precedence) StatusOf(s term.Sym) Status {
	if st, ok := p.status[s]; ok {
		return st
	}
	return StatusLex
}

func (p *Precedence) SetStatus(s term.Sym, st Status) {
	p.status[s] = st
	p.version++
}

// Ordering compares two terms of the same type. Implementations are
// simplification orderings: stable under substitution, monotone under
// context, total on ground terms.
type Ordering interface {
	Compare(s, t *term.Term) Comparison
	Precedence() *Precedence
	Name() string
}
