// Package clause provides the literal and clause algebra of the prover:
// oriented equations, hash-consed clauses with proof parentage, literal
// selection and the partial literal order induced by a term ordering.
package clause

import (
	"fmt"

	"varan/order"
	"varan/term"
)

// Literal is a signed equation Left = Right. Propositional atoms are
// encoded as atom = $true.
type Literal struct {
	Left     *term.Term
	Right    *term.Term
	Positive bool
}

// MkEq builds the positive equation l = r.
func MkEq(l, r *term.Term) (Literal, error) {
	if l.Ty() != r.Ty() {
		return Literal{}, fmt.Errorf("%w: equation between %s and %s", term.ErrTypeMismatch, l.Ty(), r.Ty())
	}
	return Literal{Left: l, Right: r, Positive: true}, nil
}

// MkNeq builds the negative equation l != r.
func MkNeq(l, r *term.Term) (Literal, error) {
	lit, err := MkEq(l, r)
	if err != nil {
		return Literal{}, err
	}
	lit.Positive = false
	return lit, nil
}

// MkProp encodes a propositional atom as atom = $true with the given
// sign. The atom must have type Prop.
func MkProp(bank *term.Bank, atom *term.Term, positive bool) (Literal, error) {
	if atom.Ty() != bank.Prop {
		return Literal{}, fmt.Errorf("%w: %s is not a proposition", term.ErrTypeMismatch, atom)
	}
	return Literal{Left: atom, Right: bank.True, Positive: positive}, nil
}

// IsTrivial reports a reflexive positive literal s = s, which is true.
func (l Literal) IsTrivial() bool { return l.Positive && l.Left == l.Right }

// IsAbsurd reports a reflexive negative literal s != s, which is false.
func (l Literal) IsAbsurd() bool { return !l.Positive && l.Left == l.Right }

// IsProp reports a literal of the shape atom = $true.
func (l Literal) IsProp(bank *term.Bank) bool {
	return l.Right == bank.True
}

func (l Literal) Sign() bool { return l.Positive }

func (l Literal) Negate() Literal {
	l.Positive = !l.Positive
	return l
}

// Swap exchanges the two sides. Equations are unordered, so the result
// denotes the same literal.
func (l Literal) Swap() Literal {
	l.Left, l.Right = l.Right, l.Left
	return l
}

func (l Literal) Weight() int { return l.Left.Size() + l.Right.Size() }

func (l Literal) IsGround() bool { return l.Left.IsGround() && l.Right.IsGround() }

func (l Literal) MaxVar() int {
	if l.Left.MaxVar() > l.Right.MaxVar() {
		return l.Left.MaxVar()
	}
	return l.Right.MaxVar()
}

// Hash is symmetric in the two sides, so a literal and its Swap collide.
func (l Literal) Hash() uint64 {
	h := l.Left.Hash() ^ l.Right.Hash()
	if l.Positive {
		h ^= 0x9e3779b97f4a7c15
	}
	return h
}

// SameLit compares two literals up to orientation of the equation.
func (l Literal) SameLit(o Literal) bool {
	if l.Positive != o.Positive {
		return false
	}
	if l.Left == o.Left && l.Right == o.Right {
		return true
	}
	return l.Left == o.Right && l.Right == o.Left
}

// Apply builds the instance of the literal under a substitution, renaming
// unbound variables through rn when non-nil.
func (l Literal) Apply(bank *term.Bank, rn *term.Renaming, s *term.Subst, scope int) Literal {
	return Literal{
		Left:     s.Apply(bank, rn, l.Left, scope),
		Right:    s.Apply(bank, rn, l.Right, scope),
		Positive: l.Positive,
	}
}

// asMultiset is the standard encoding of literals for the literal order:
// a positive equation is {s, t}, a negative one {s, s, t, t}. Negative
// literals thereby dominate the positive literal on the same terms.
func (l Literal) asMultiset() []*term.Term {
	if l.Positive {
		return []*term.Term{l.Left, l.Right}
	}
	return []*term.Term{l.Left, l.Left, l.Right, l.Right}
}

// Compare is the partial literal order: the multiset extension of the
// term ordering over the literal encodings.
func (l Literal) Compare(ord order.Ordering, o Literal) order.Comparison {
	return order.MultisetCompare(l.asMultiset(), o.asMultiset(), ord.Compare)
}

// Orient compares the two sides under the ordering.
func (l Literal) Orient(ord order.Ordering) order.Comparison {
	return ord.Compare(l.Left, l.Right)
}

func (l Literal) String() string {
	op := "="
	if !l.Positive {
		op = "!="
	}
	return fmt.Sprintf("%s %s %s", l.Left, op, l.Right)
}
