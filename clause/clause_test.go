package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varan/order"
	"varan/term"
)

type testSig struct {
	bank *term.Bank
	db   *DB
	ord  order.Ordering
	f    term.Sym
	a, b term.Sym
	p    term.Sym
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
		db:   NewDB(bank),
		ord:  order.NewKBO(order.NewPrecedence(bank)),
		f:    declare("f", bank.Fn([]*term.Type{bank.Indiv}, bank.Indiv)),
		a:    declare("a", bank.Indiv),
		b:    declare("b", bank.Indiv),
		p:    declare("p", bank.Prop),
	}
}

func (s *testSig) app(sym term.Sym, args ...*term.Term) *term.Term {
	return s.bank.MustApp(s.bank.Const(sym), args)
}

func (s *testSig) eq(t *testing.T, l, r *term.Term) Literal {
	lit, err := MkEq(l, r)
	require.NoError(t, err)
	return lit
}

func (s *testSig) neq(t *testing.T, l, r *term.Term) Literal {
	lit, err := MkNeq(l, r)
	require.NoError(t, err)
	return lit
}

func TestLiteralBasics(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	eq := s.eq(t, b.Const(s.a), b.Const(s.b))
	assert.True(t, eq.Positive)
	assert.Equal(t, eq.Hash(), eq.Swap().Hash())
	assert.True(t, eq.SameLit(eq.Swap()))
	assert.False(t, eq.SameLit(eq.Negate()))

	refl := s.eq(t, b.Const(s.a), b.Const(s.a))
	assert.True(t, refl.IsTrivial())
	assert.True(t, refl.Negate().IsAbsurd())

	_, err := MkEq(b.Const(s.a), b.True)
	assert.ErrorIs(t, err, term.ErrTypeMismatch)
}

func TestPropLiterals(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	atom := b.Const(s.p)
	lit, err := MkProp(b, atom, true)
	require.NoError(t, err)
	assert.True(t, lit.IsProp(b))
	assert.Same(t, b.True, lit.Right)

	_, err = MkProp(b, b.Const(s.a), true)
	assert.ErrorIs(t, err, term.ErrTypeMismatch)
}

func TestMakePipeline(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	eq := s.eq(t, b.Const(s.a), b.Const(s.b))
	absurd := s.neq(t, b.Const(s.a), b.Const(s.a))

	c := s.db.Make([]Literal{eq, absurd, eq, eq.Swap()}, NewInput())
	// Duplicates (up to orientation) and reflexive negatives are gone.
	assert.Equal(t, 1, c.Len())
}

func TestMakeInternsAlphaEquivalent(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	y := b.Var(7, b.Indiv)

	c1 := s.db.Make([]Literal{s.eq(t, s.app(s.f, x), x)}, NewInput())
	c2 := s.db.Make([]Literal{s.eq(t, s.app(s.f, y), y)}, NewInput())
	assert.Same(t, c1, c2)

	// Renumbering is dense from zero.
	assert.Equal(t, 0, c1.MaxVar())
	require.Len(t, c1.FreeVars(), 1)
	assert.Equal(t, 0, c1.FreeVars()[0].VarID())
}

func TestEmptyClause(t *testing.T) {
	s := newTestSig(t)

	c := s.db.Empty(NewInput())
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "$false", c.String())
	assert.Same(t, c, s.db.Make(nil, NewInput()))
}

func TestTautology(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	refl := s.db.Make([]Literal{s.eq(t, b.Const(s.a), b.Const(s.a))}, NewInput())
	assert.True(t, refl.IsTautology())

	eq := s.eq(t, b.Const(s.a), b.Const(s.b))
	comp := s.db.Make([]Literal{eq, eq.Negate().Swap()}, NewInput())
	assert.True(t, comp.IsTautology())

	plain := s.db.Make([]Literal{eq}, NewInput())
	assert.False(t, plain.IsTautology())
}

func TestMaximalLits(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	small := s.eq(t, b.Const(s.a), b.Const(s.b))
	big := s.eq(t, s.app(s.f, s.app(s.f, b.Const(s.a))), b.Const(s.b))
	c := s.db.Make([]Literal{small, big}, NewInput())

	max := c.MaximalLits(s.ord)
	assert.Equal(t, 1, max.Cardinality())
	for i, l := range c.Lits() {
		if l.SameLit(big) {
			assert.True(t, max.Contains(i))
			assert.True(t, c.StrictlyMaximal(s.ord, i))
		}
	}
}

func TestSelectionFreeze(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	c := s.db.Make([]Literal{
		s.neq(t, s.app(s.f, b.Const(s.a)), b.Const(s.b)),
		s.eq(t, b.Const(s.a), b.Const(s.b)),
	}, NewInput())

	require.NoError(t, c.Select(SelectFirstNegative))
	assert.True(t, c.HasSelection())
	assert.ErrorIs(t, c.Select(SelectFirstNegative), ErrFrozen)

	// With a selection, eligibility ignores maximality.
	for i, l := range c.Lits() {
		if !l.Positive {
			assert.True(t, c.EligibleForResolution(s.ord, i))
		} else {
			assert.False(t, c.EligibleForResolution(s.ord, i))
			assert.False(t, c.EligibleForParamodulation(s.ord, i))
		}
	}
}

func TestSelectionFunctions(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	lits := []Literal{
		s.eq(t, b.Const(s.a), b.Const(s.b)),
		s.neq(t, s.app(s.f, x), b.Const(s.a)),
		s.neq(t, b.Const(s.a), b.Const(s.b)),
	}
	c := s.db.Make(lits, NewInput())

	assert.Nil(t, NoSelection(c))
	assert.Len(t, SelectAllNegative(c), 2)
	assert.Len(t, SelectFirstNegative(c), 1)

	picked := SelectComplex(s.ord)(c)
	require.Len(t, picked, 1)
	assert.False(t, c.Lits()[picked[0]].Positive)
}

func TestProofSteps(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	in := s.db.Make([]Literal{s.eq(t, b.Const(s.a), b.Const(s.b))}, NewInput())
	assert.True(t, in.Proof().IsInput())

	sigma := term.NewSubst()
	derived := s.db.Make(nil, NewStep(RuleEqualityResolution, sigma, in))
	assert.Equal(t, RuleEqualityResolution, derived.Proof().Rule)
	require.Len(t, derived.Proof().Parents, 1)
	assert.Same(t, in, derived.Proof().Parents[0])
}
