package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyBasic(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	y := b.Var(1, b.Indiv)

	// f(X) = f(a)
	sigma, ok := Unify(s.app(s.f, x), 0, s.app(s.f, b.Const(s.a)), 0, nil)
	require.True(t, ok)
	assert.Same(t, b.Const(s.a), sigma.Apply(b, nil, x, 0))

	// g(X, b) = g(a, Y)
	sigma, ok = Unify(s.app(s.g, x, b.Const(s.b)), 0, s.app(s.g, b.Const(s.a), y), 0, nil)
	require.True(t, ok)
	assert.Same(t, b.Const(s.a), sigma.Apply(b, nil, x, 0))
	assert.Same(t, b.Const(s.b), sigma.Apply(b, nil, y, 0))

	// a = b fails, f(X) = g(X, X) fails.
	_, ok = Unify(b.Const(s.a), 0, b.Const(s.b), 0, nil)
	assert.False(t, ok)
	_, ok = Unify(s.app(s.f, x), 0, s.app(s.g, x, x), 0, nil)
	assert.False(t, ok)
}

func TestUnifyOccursCheck(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	_, ok := Unify(x, 0, s.app(s.f, x), 0, nil)
	assert.False(t, ok)

	// Chained occurrence: X = f(Y), Y = f(X).
	y := b.Var(1, b.Indiv)
	sigma, ok := Unify(x, 0, s.app(s.f, y), 0, nil)
	require.True(t, ok)
	_, ok = Unify(y, 0, s.app(s.f, x), 0, sigma)
	assert.False(t, ok)
}

func TestUnifyScopes(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	// The same variable in two scopes is two variables: X/0 = f(X/1)
	// unifies, X/0 = f(X/0) does not.
	x := b.Var(0, b.Indiv)
	sigma, ok := Unify(x, 0, s.app(s.f, x), 1, nil)
	require.True(t, ok)

	rn := NewRenaming(b, 5)
	inst := sigma.Apply(b, rn, x, 0)
	assert.Equal(t, KindApp, inst.Kind())
	assert.Equal(t, s.f, inst.HeadSym())
}

func TestUnifyIdempotentInstance(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	y := b.Var(1, b.Indiv)
	left := s.app(s.g, x, s.app(s.f, y))
	right := s.app(s.g, s.app(s.f, y), x)

	sigma, ok := Unify(left, 0, right, 0, nil)
	require.True(t, ok)
	li := sigma.Apply(b, nil, left, 0)
	ri := sigma.Apply(b, nil, right, 0)
	assert.Same(t, li, ri)
}

func TestMatchOneSided(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	pat := s.app(s.f, x)
	inst := s.app(s.f, b.Const(s.a))

	sigma, ok := Match(pat, 1, inst, 0, nil)
	require.True(t, ok)
	assert.Same(t, inst, sigma.Apply(b, nil, pat, 1))

	// Matching never binds instance-side variables.
	_, ok = Match(inst, 1, pat, 0, nil)
	assert.False(t, ok)

	// A pattern variable must match consistently.
	_, ok = Match(s.app(s.g, x, x), 1, s.app(s.g, b.Const(s.a), b.Const(s.b)), 0, nil)
	assert.False(t, ok)
}

func TestVariant(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	y := b.Var(1, b.Indiv)
	z := b.Var(2, b.Indiv)

	_, ok := Variant(s.app(s.g, x, y), 0, s.app(s.g, y, x), 0, nil)
	assert.True(t, ok)

	// g(X, X) is not a variant of g(X, Y): the renaming must be
	// bijective.
	_, ok = Variant(s.app(s.g, x, x), 0, s.app(s.g, x, y), 0, nil)
	assert.False(t, ok)
	_, ok = Variant(s.app(s.g, x, y), 0, s.app(s.g, z, z), 0, nil)
	assert.False(t, ok)

	_, ok = Variant(s.app(s.f, x), 0, s.app(s.f, b.Const(s.a)), 0, nil)
	assert.False(t, ok)
}

func TestSubstBindAndMerge(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	sub := NewSubst()
	require.NoError(t, sub.Bind(x, 0, b.Const(s.a), 0))
	assert.ErrorIs(t, sub.Bind(x, 0, b.Const(s.b), 0), ErrInconsistentBinding)
	assert.NoError(t, sub.Bind(x, 0, b.Const(s.a), 0))

	other := NewSubst()
	require.NoError(t, other.Bind(x, 1, b.Const(s.b), 0))
	merged, err := sub.Merge(other)
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Len())
}

func TestApplyRenamesUnboundVars(t *testing.T) {
	s := newTestSig(t)
	b := s.bank

	x := b.Var(0, b.Indiv)
	y := b.Var(1, b.Indiv)
	sigma, ok := Unify(x, 0, b.Const(s.a), 0, nil)
	require.True(t, ok)

	rn := NewRenaming(b, 10)
	inst := sigma.Apply(b, rn, s.app(s.g, x, y), 0)
	// X is bound to a; Y is fresh, renamed past the base.
	assert.Equal(t, s.g, inst.HeadSym())
	assert.Same(t, b.Const(s.a), inst.Args()[0])
	assert.Equal(t, KindVar, inst.Args()[1].Kind())
	assert.GreaterOrEqual(t, inst.Args()[1].VarID(), 10)
}
