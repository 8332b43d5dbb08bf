package term

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags the five term shapes.
type Kind uint8

const (
	KindVar Kind = iota
	KindBound
	KindConst
	KindApp
	KindLambda
)

var ErrDeBruijnUnbound = errors.New("de bruijn index escapes its binder")

// Term is a hash-consed term. Terms built in the same Bank are equal iff
// they are the same pointer; every derived property (type, groundness,
// maximum free variable, structural hash) is cached at interning time.
type Term struct {
	kind  Kind
	index int
	sym   Sym
	name  string
	head  *Term
	args  []*Term
	body  *Term

	ty     *Type
	ground bool
	maxVar int
	size   int
	hash   uint64
}

func (t *Term) Kind() Kind { return t.kind }

// VarID is the free-variable id; only meaningful for KindVar.
func (t *Term) VarID() int { return t.index }

// BoundIndex is the de Bruijn index; only meaningful for KindBound.
func (t *Term) BoundIndex() int { return t.index }

// Sym is the constant's symbol; only meaningful for KindConst.
func (t *Term) Sym() Sym { return t.sym }

func (t *Term) Head() *Term { return t.head }

func (t *Term) Args() []*Term { return t.args }

func (t *Term) Body() *Term { return t.body }

// ArgType is the binder's argument type; only meaningful for KindLambda.
func (t *Term) ArgType() *Type {
	return t.ty.Args()[0]
}

func (t *Term) Ty() *Type { return t.ty }

func (t *Term) IsGround() bool { return t.ground }

// MaxVar is the largest free-variable id occurring in t, or -1 when t is
// ground.
func (t *Term) MaxVar() int { return t.maxVar }

// Size counts the nodes of t. An application counts its head and its
// arguments, with no extra node for the application itself.
func (t *Term) Size() int { return t.size }

func (t *Term) Hash() uint64 { return t.hash }

func (t *Term) IsVar() bool { return t.kind == KindVar }

func (t *Term) IsConst() bool { return t.kind == KindConst }

// HeadSym returns the symbol heading t: the symbol of a constant or of the
// head of an application. NoSym for variables, bound variables and lambdas.
func (t *Term) HeadSym() Sym {
	switch t.kind {
	case KindConst:
		return t.sym
	case KindApp:
		return t.head.HeadSym()
	default:
		return NoSym
	}
}

func (b *Bank) intern(t *Term) *Term {
	for _, cand := range b.terms[t.hash] {
		if sameShape(cand, t) {
			return cand
		}
	}
	b.terms[t.hash] = append(b.terms[t.hash], t)
	return t
}

// sameShape is structural equality one level deep; children are compared
// by pointer because they are already interned.
func sameShape(a, b *Term) bool {
	if a.kind != b.kind || a.ty != b.ty {
		return false
	}
	switch a.kind {
	case KindVar, KindBound:
		return a.index == b.index
	case KindConst:
		return a.sym == b.sym
	case KindApp:
		if a.head != b.head || len(a.args) != len(b.args) {
			return false
		}
		for i := range a.args {
			if a.args[i] != b.args[i] {
				return false
			}
		}
		return true
	case KindLambda:
		return a.body == b.body
	}
	return false
}

// Var returns the canonical free variable with the given id and type.
func (b *Bank) Var(id int, ty *Type) *Term {
	if id < 0 {
		panic("term: negative variable id")
	}
	h := hashCombine(hashCombine(hashVarSeed, uint64(id)), ty.hash)
	return b.intern(&Term{kind: KindVar, index: id, ty: ty, maxVar: id, size: 1, hash: h})
}

// Bound returns the canonical de Bruijn variable with the given index.
func (b *Bank) Bound(index int, ty *Type) *Term {
	if index < 0 {
		panic("term: negative de bruijn index")
	}
	h := hashCombine(hashCombine(hashBoundSeed, uint64(index)), ty.hash)
	return b.intern(&Term{kind: KindBound, index: index, ty: ty, ground: true, maxVar: -1, size: 1, hash: h})
}

// Const returns the canonical constant term for a declared symbol.
func (b *Bank) Const(s Sym) *Term {
	ty := b.syms[s].ty
	if ty == nil {
		panic(fmt.Sprintf("term: symbol %s used before declaration", b.syms[s].name))
	}
	h := hashCombine(hashCombine(hashConstSeed, uint64(s)), ty.hash)
	return b.intern(&Term{kind: KindConst, sym: s, name: b.syms[s].name, ty: ty, ground: true, maxVar: -1, size: 1, hash: h})
}

// App returns the canonical application of head to args. Applications are
// kept left-flat: applying an application extends its argument list.
// The result type is checked against the head's function type.
func (b *Bank) App(head *Term, args []*Term) (*Term, error) {
	if len(args) == 0 {
		return head, nil
	}
	if head.kind == KindApp {
		merged := make([]*Term, 0, len(head.args)+len(args))
		merged = append(merged, head.args...)
		merged = append(merged, args...)
		head, args = head.head, merged
	}
	actual := make([]*Type, len(args))
	for i, a := range args {
		actual[i] = a.ty
	}
	result, err := ApplyType(head.ty, actual)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot apply %s to %d arguments", ErrTypeMismatch, head, len(args))
	}
	h := hashCombine(hashAppSeed, head.hash)
	ground := head.ground
	maxVar := head.maxVar
	size := head.size
	for _, a := range args {
		h = hashCombine(h, a.hash)
		ground = ground && a.ground
		if a.maxVar > maxVar {
			maxVar = a.maxVar
		}
		size += a.size
	}
	t := &Term{
		kind:   KindApp,
		head:   head,
		args:   append([]*Term(nil), args...),
		ty:     result,
		ground: ground,
		maxVar: maxVar,
		size:   size,
		hash:   h,
	}
	return b.intern(t), nil
}

// MustApp is App for call sites where a type mismatch is an invariant
// violation rather than an input error.
func (b *Bank) MustApp(head *Term, args []*Term) *Term {
	t, err := b.App(head, args)
	if err != nil {
		panic(err)
	}
	return t
}

// Lambda returns the canonical abstraction over body, binding de Bruijn
// index 0 at type argTy.
func (b *Bank) Lambda(argTy *Type, body *Term) *Term {
	ty := b.Fn([]*Type{argTy}, body.ty)
	h := hashCombine(hashCombine(hashLambdaSeed, argTy.hash), body.hash)
	t := &Term{
		kind:   KindLambda,
		body:   body,
		ty:     ty,
		ground: body.ground,
		maxVar: body.maxVar,
		size:   body.size + 1,
		hash:   h,
	}
	return b.intern(t)
}

// Subterm reports whether sub occurs in t (including t itself).
func Subterm(sub, t *Term) bool {
	if sub == t {
		return true
	}
	switch t.kind {
	case KindApp:
		if Subterm(sub, t.head) {
			return true
		}
		for _, a := range t.args {
			if Subterm(sub, a) {
				return true
			}
		}
	case KindLambda:
		return Subterm(sub, t.body)
	}
	return false
}

// ContainsVar reports whether the free variable with the given id occurs
// in t.
func ContainsVar(t *Term, id int) bool {
	if t.ground || t.maxVar < id {
		return false
	}
	if t.kind == KindVar {
		return t.index == id
	}
	switch t.kind {
	case KindApp:
		if ContainsVar(t.head, id) {
			return true
		}
		for _, a := range t.args {
			if ContainsVar(a, id) {
				return true
			}
		}
	case KindLambda:
		return ContainsVar(t.body, id)
	}
	return false
}

// FreeVars appends the distinct free variables of t, in first-occurrence
// order, to acc.
func FreeVars(t *Term, acc []*Term) []*Term {
	if t.ground {
		return acc
	}
	switch t.kind {
	case KindVar:
		for _, v := range acc {
			if v == t {
				return acc
			}
		}
		return append(acc, t)
	case KindApp:
		acc = FreeVars(t.head, acc)
		for _, a := range t.args {
			acc = FreeVars(a, acc)
		}
		return acc
	case KindLambda:
		return FreeVars(t.body, acc)
	}
	return acc
}

// Lift shifts every de Bruijn index >= cutoff 0 by n. A negative shift
// that would expose a negative index fails.
func (b *Bank) Lift(t *Term, n int) (*Term, error) {
	return b.lift(t, n, 0)
}

func (b *Bank) lift(t *Term, n, depth int) (*Term, error) {
	if n == 0 || !hasBound(t) {
		return t, nil
	}
	switch t.kind {
	case KindVar, KindConst:
		return t, nil
	case KindBound:
		if t.index < depth {
			return t, nil
		}
		if t.index+n < depth {
			return nil, fmt.Errorf("%w: index %d shifted by %d", ErrDeBruijnUnbound, t.index, n)
		}
		return b.Bound(t.index+n, t.ty), nil
	case KindApp:
		head, err := b.lift(t.head, n, depth)
		if err != nil {
			return nil, err
		}
		args := make([]*Term, len(t.args))
		for i, a := range t.args {
			if args[i], err = b.lift(a, n, depth); err != nil {
				return nil, err
			}
		}
		return b.App(head, args)
	case KindLambda:
		body, err := b.lift(t.body, n, depth+1)
		if err != nil {
			return nil, err
		}
		return b.Lambda(t.ArgType(), body), nil
	}
	panic("term: unknown kind")
}

func hasBound(t *Term) bool {
	switch t.kind {
	case KindBound:
		return true
	case KindApp:
		if hasBound(t.head) {
			return true
		}
		for _, a := range t.args {
			if hasBound(a) {
				return true
			}
		}
	case KindLambda:
		return hasBound(t.body)
	}
	return false
}

func (t *Term) String() string {
	var sb strings.Builder
	t.format(&sb)
	return sb.String()
}

func (t *Term) format(sb *strings.Builder) {
	switch t.kind {
	case KindVar:
		fmt.Fprintf(sb, "X%d", t.index)
	case KindBound:
		fmt.Fprintf(sb, "Y%d", t.index)
	case KindConst:
		sb.WriteString(t.name)
	case KindApp:
		t.head.format(sb)
		sb.WriteByte('(')
		for i, a := range t.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.format(sb)
		}
		sb.WriteByte(')')
	case KindLambda:
		sb.WriteString("\\")
		sb.WriteString(t.ArgType().String())
		sb.WriteString(". ")
		t.body.format(sb)
	}
}
