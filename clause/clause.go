package clause

import (
	"errors"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"varan/order"
	"varan/term"
)

var ErrFrozen = errors.New("clause is frozen")

// Clause is a hash-consed disjunction of literals. Identity is by
// pointer within one DB; two clauses built from alpha-equivalent literal
// lists intern to the same pointer. Everything except the selection cache
// and the penalty is immutable after interning.
type Clause struct {
	id      int
	lits    []Literal
	proof   *Proof
	trail   mapset.Set[int]
	penalty int

	weight   int
	maxVar   int
	freeVars []*term.Term
	hash     uint64

	maximal    mapset.Set[int]
	maximalVer int
	selected   mapset.Set[int]

	db *DB
}

func (c *Clause) ID() int { return c.id }

func (c *Clause) Lits() []Literal { return c.lits }

func (c *Clause) Len() int { return len(c.lits) }

func (c *Clause) IsEmpty() bool { return len(c.lits) == 0 }

func (c *Clause) Proof() *Proof { return c.proof }

// Trail is the set of boolean assumptions the clause depends on. It is
// empty for the first-order core; splitting extensions may populate it.
func (c *Clause) Trail() mapset.Set[int] { return c.trail }

func (c *Clause) Penalty() int { return c.penalty }

// SetPenalty adjusts the passive-queue priority modifier. It does not
// participate in clause identity.
func (c *Clause) SetPenalty(p int) { c.penalty = p }

func (c *Clause) Weight() int { return c.weight }

// MaxVar is the largest free-variable id, or -1 for a ground clause.
func (c *Clause) MaxVar() int { return c.maxVar }

// FreeVars is the normalised free-variable list: ids form the dense
// prefix 0..k-1.
func (c *Clause) FreeVars() []*term.Term { return c.freeVars }

func (c *Clause) IsGround() bool { return c.maxVar < 0 }

func (c *Clause) Hash() uint64 { return c.hash }

// IsTautology reports a clause that is true in every interpretation: it
// contains a reflexive positive literal or a complementary pair.
func (c *Clause) IsTautology() bool {
	for i, l := range c.lits {
		if l.IsTrivial() {
			return true
		}
		for _, m := range c.lits[i+1:] {
			if l.Positive != m.Positive && l.SameLit(m.Negate()) {
				return true
			}
		}
	}
	return false
}

// MaximalLits is the cached set of literal indices maximal under the
// ordering. The cache keys on the precedence version, so growing the
// signature mid-run invalidates it.
func (c *Clause) MaximalLits(ord order.Ordering) mapset.Set[int] {
	ver := ord.Precedence().Version()
	if c.maximal != nil && c.maximalVer == ver {
		return c.maximal
	}
	max := mapset.NewThreadUnsafeSet[int]()
	for i := range c.lits {
		dominated := false
		for j := range c.lits {
			if i != j && c.lits[j].Compare(ord, c.lits[i]) == order.Greater {
				dominated = true
				break
			}
		}
		if !dominated {
			max.Add(i)
		}
	}
	c.maximal = max
	c.maximalVer = ver
	return max
}

// StrictlyMaximal reports that no other literal is greater than or equal
// to literal i.
func (c *Clause) StrictlyMaximal(ord order.Ordering, i int) bool {
	for j := range c.lits {
		if i == j {
			continue
		}
		switch c.lits[j].Compare(ord, c.lits[i]) {
		case order.Greater, order.Equal:
			return false
		}
	}
	return true
}

// Selected returns the selection cache, nil before Select ran.
func (c *Clause) Selected() mapset.Set[int] {
	return c.selected
}

// Select runs the selection function once and freezes the result. Every
// chosen index must denote a negative literal.
func (c *Clause) Select(fn SelectionFn) error {
	if c.selected != nil {
		return ErrFrozen
	}
	sel := mapset.NewThreadUnsafeSet[int]()
	for _, i := range fn(c) {
		if i < 0 || i >= len(c.lits) || c.lits[i].Positive {
			panic("clause: selection chose a non-negative literal")
		}
		sel.Add(i)
	}
	c.selected = sel
	return nil
}

// HasSelection reports a non-empty selection cache.
func (c *Clause) HasSelection() bool {
	return c.selected != nil && c.selected.Cardinality() > 0
}

// EligibleForResolution reports whether literal i may participate in a
// resolution-like inference: selected literals take precedence; with no
// selection the maximal literals are eligible.
func (c *Clause) EligibleForResolution(ord order.Ordering, i int) bool {
	if c.HasSelection() {
		return c.selected.Contains(i)
	}
	return c.MaximalLits(ord).Contains(i)
}

// EligibleForParamodulation reports whether the positive literal i may act
// as the rewriting equation of a superposition step: nothing may be
// selected and the literal must be maximal.
func (c *Clause) EligibleForParamodulation(ord order.Ordering, i int) bool {
	if !c.lits[i].Positive || c.HasSelection() {
		return false
	}
	return c.MaximalLits(ord).Contains(i)
}

func (c *Clause) String() string {
	if len(c.lits) == 0 {
		return "$false"
	}
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}

// DB is the clause hash-cons table of one prover context.
type DB struct {
	bank    *term.Bank
	buckets map[uint64][]*Clause
	nextID  int
}

func NewDB(bank *term.Bank) *DB {
	return &DB{bank: bank, buckets: make(map[uint64][]*Clause)}
}

func (db *DB) Bank() *term.Bank { return db.bank }

// NumClauses reports how many distinct clauses have been interned.
func (db *DB) NumClauses() int { return db.nextID }

// Clear drops all interned clauses but keeps the id counter, so ids stay
// unique across problems within one DB lifetime.
func (db *DB) Clear() {
	db.buckets = make(map[uint64][]*Clause)
}

// Make runs the clause creation pipeline: drop duplicate and reflexive
// negative literals, renumber variables to the dense prefix 0..k-1, sort
// literals by hash, intern.
func (db *DB) Make(lits []Literal, proof *Proof) *Clause {
	kept := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if l.IsAbsurd() {
			continue
		}
		dup := false
		for _, k := range kept {
			if l.SameLit(k) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, l)
		}
	}

	kept = db.renumber(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Hash() < kept[j].Hash()
	})

	h := uint64(0x811c9dc5)
	for _, l := range kept {
		h = h*0x100000001b3 ^ l.Hash()
	}
	for _, cand := range db.buckets[h] {
		if sameLits(cand.lits, kept) {
			return cand
		}
	}

	maxVar := -1
	weight := 0
	var freeVars []*term.Term
	for _, l := range kept {
		if l.MaxVar() > maxVar {
			maxVar = l.MaxVar()
		}
		weight += l.Weight()
		freeVars = term.FreeVars(l.Left, freeVars)
		freeVars = term.FreeVars(l.Right, freeVars)
	}

	c := &Clause{
		id:       db.nextID,
		lits:     kept,
		proof:    proof,
		trail:    mapset.NewThreadUnsafeSet[int](),
		weight:   weight,
		maxVar:   maxVar,
		freeVars: freeVars,
		hash:     h,
		db:       db,
	}
	db.nextID++
	db.buckets[h] = append(db.buckets[h], c)
	return c
}

// Empty interns the empty clause with the given proof.
func (db *DB) Empty(proof *Proof) *Clause {
	return db.Make(nil, proof)
}

// renumber maps the free variables of the literal list onto 0..k-1 in
// first-occurrence order, which makes alpha-equivalent clauses intern to
// the same pointer.
func (db *DB) renumber(lits []Literal) []Literal {
	var vars []*term.Term
	for _, l := range lits {
		vars = term.FreeVars(l.Left, vars)
		vars = term.FreeVars(l.Right, vars)
	}
	dense := true
	for i, v := range vars {
		if v.VarID() != i {
			dense = false
			break
		}
	}
	if dense {
		return lits
	}
	rn := term.NewRenaming(db.bank, 0)
	empty := term.NewSubst()
	out := make([]Literal, len(lits))
	for i, l := range lits {
		out[i] = l.Apply(db.bank, rn, empty, 0)
	}
	return out
}

func sameLits(a, b []Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Left != b[i].Left || a[i].Right != b[i].Right || a[i].Positive != b[i].Positive {
			return false
		}
	}
	return true
}
