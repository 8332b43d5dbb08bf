package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varan/clause"
	"varan/term"
)

type testSig struct {
	bank *term.Bank
	db   *clause.DB
	f, g term.Sym
	a, b term.Sym
}

func newTestSig(t *testing.T) *testSig {
	bank := term.NewBank()
	declare := func(name string, ty *term.Type) term.Sym {
		s, err := bank.Declare(name, ty, 0)
		require.NoError(t, err)
		return s
	}
	return &testSig{
		bank: bank,
		db:   clause.NewDB(bank),
		f:    declare("f", bank.Fn([]*term.Type{bank.Indiv}, bank.Indiv)),
		g:    declare("g", bank.Fn([]*term.Type{bank.Indiv, bank.Indiv}, bank.Indiv)),
		a:    declare("a", bank.Indiv),
		b:    declare("b", bank.Indiv),
	}
}

func (s *testSig) app(sym term.Sym, args ...*term.Term) *term.Term {
	return s.bank.MustApp(s.bank.Const(sym), args)
}

func (s *testSig) holder(t *testing.T, tm *term.Term) *clause.Clause {
	lit, err := clause.MkEq(tm, tm)
	require.NoError(t, err)
	return s.db.Make([]clause.Literal{lit}, clause.NewInput())
}

func collect(retrieve func(func(Entry) bool)) []*term.Term {
	var out []*term.Term
	retrieve(func(e Entry) bool {
		out = append(out, e.Term)
		return true
	})
	return out
}

func TestInsertRemove(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := New()
	fa := s.app(s.f, b.Const(s.a))
	e := Entry{Term: fa, Clause: s.holder(t, fa), Lit: 0}
	x.Insert(e)
	assert.Equal(t, 1, x.Size())

	// Removing a near-miss entry is a no-op.
	x.Remove(Entry{Term: fa, Clause: e.Clause, Lit: 1})
	assert.Equal(t, 1, x.Size())

	x.Remove(e)
	assert.Equal(t, 0, x.Size())
	assert.Empty(t, collect(func(y func(Entry) bool) { x.Unifiable(fa, y) }))
}

func TestRetrievalModes(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	xv := b.Var(0, b.Indiv)
	fa := s.app(s.f, b.Const(s.a))
	fx := s.app(s.f, xv)
	ga := s.app(s.g, b.Const(s.a), b.Const(s.b))

	x := New()
	for _, tm := range []*term.Term{fa, fx, ga, xv} {
		x.Insert(Entry{Term: tm, Clause: s.holder(t, tm), Lit: 0})
	}

	// Query f(b): unifies with f(X) and the bare variable only.
	fb := s.app(s.f, b.Const(s.b))
	uni := collect(func(y func(Entry) bool) { x.Unifiable(fb, y) })
	assert.ElementsMatch(t, []*term.Term{fx, xv}, uni)

	// Query f(a): generalisations are f(a), f(X) and the variable.
	gen := collect(func(y func(Entry) bool) { x.Generalizations(fa, y) })
	assert.ElementsMatch(t, []*term.Term{fa, fx, xv}, gen)

	// Query f(X): instances are f(a) and f(X).
	inst := collect(func(y func(Entry) bool) { x.Instances(fx, y) })
	assert.ElementsMatch(t, []*term.Term{fa, fx}, inst)

	// Query g(X, b): only g(a, b) can unify among the apps.
	gxb := s.app(s.g, xv, b.Const(s.b))
	uni = collect(func(y func(Entry) bool) { x.Unifiable(gxb, y) })
	assert.ElementsMatch(t, []*term.Term{ga, xv}, uni)
}

func TestRetrievalIsSuperset(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	// f(g(X, a)) and f(g(b, X)) share a skeleton; querying with
	// f(g(b, a)) must yield both (X := b and X := a respectively).
	xv := b.Var(0, b.Indiv)
	t1 := s.app(s.f, s.app(s.g, xv, b.Const(s.a)))
	t2 := s.app(s.f, s.app(s.g, b.Const(s.b), xv))

	x := New()
	x.Insert(Entry{Term: t1, Clause: s.holder(t, t1), Lit: 0})
	x.Insert(Entry{Term: t2, Clause: s.holder(t, t2), Lit: 0})

	q := s.app(s.f, s.app(s.g, b.Const(s.b), b.Const(s.a)))
	gen := collect(func(y func(Entry) bool) { x.Generalizations(q, y) })
	assert.ElementsMatch(t, []*term.Term{t1, t2}, gen)
}

func TestEarlyStop(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := New()
	for _, sym := range []term.Sym{s.a, s.b} {
		tm := s.app(s.f, b.Const(sym))
		x.Insert(Entry{Term: tm, Clause: s.holder(t, tm), Lit: 0})
	}
	count := 0
	x.Unifiable(s.app(s.f, b.Var(0, b.Indiv)), func(Entry) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
