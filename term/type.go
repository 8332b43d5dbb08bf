package term

import (
	"errors"
	"strings"
)

var ErrTypeMismatch = errors.New("type mismatch")

// Type is a hash-consed simple type: either atomic (a symbol) or a function
// type args -> result. Two types built in the same Bank are equal iff they
// are the same pointer.
type Type struct {
	atom   Sym
	name   string
	args   []*Type
	result *Type
	hash   uint64
}

func (t *Type) IsAtomic() bool { return t.result == nil }

func (t *Type) IsFn() bool { return t.result != nil }

func (t *Type) Atom() Sym { return t.atom }

func (t *Type) Args() []*Type { return t.args }

// Result returns the result type of a function type, or the type itself
// when atomic.
func (t *Type) Result() *Type {
	if t.result == nil {
		return t
	}
	return t.result
}

func (t *Type) Arity() int { return len(t.args) }

func (t *Type) Hash() uint64 { return t.hash }

func (t *Type) String() string {
	if t.IsAtomic() {
		return t.name
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, a := range t.args {
		if i > 0 {
			sb.WriteString(" * ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(" > ")
	sb.WriteString(t.result.String())
	sb.WriteByte(')')
	return sb.String()
}

// Atomic returns the canonical atomic type named by sym.
func (b *Bank) Atomic(sym Sym) *Type {
	h := hashCombine(hashTypeAtomSeed, uint64(sym))
	for _, cand := range b.types[h] {
		if cand.IsAtomic() && cand.atom == sym {
			return cand
		}
	}
	t := &Type{atom: sym, name: b.syms[sym].name, hash: h}
	b.types[h] = append(b.types[h], t)
	return t
}

// Fn returns the canonical function type args -> result. A nullary function
// type collapses to the result type.
func (b *Bank) Fn(args []*Type, result *Type) *Type {
	if len(args) == 0 {
		return result
	}
	h := hashCombine(hashTypeFnSeed, result.hash)
	for _, a := range args {
		h = hashCombine(h, a.hash)
	}
	for _, cand := range b.types[h] {
		if cand.IsFn() && cand.result == result && typeListEq(cand.args, args) {
			return cand
		}
	}
	t := &Type{atom: NoSym, args: append([]*Type(nil), args...), result: result, hash: h}
	b.types[h] = append(b.types[h], t)
	return t
}

func typeListEq(a, b []*Type) bool {
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

// ApplyType checks a function type against actual argument types and
// returns the result type. Arity and argument types are strict.
func ApplyType(fn *Type, actual []*Type) (*Type, error) {
	if fn.IsAtomic() {
		if len(actual) == 0 {
			return fn, nil
		}
		return nil, ErrTypeMismatch
	}
	if len(actual) != len(fn.args) {
		return nil, ErrTypeMismatch
	}
	for i, a := range actual {
		if a != fn.args[i] {
			return nil, ErrTypeMismatch
		}
	}
	return fn.result, nil
}
