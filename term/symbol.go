package term

import (
	"errors"
	"fmt"
)

// Sym is a stable handle for an interned symbol. Equality, hashing and
// comparison are on the handle, never on the name.
type Sym int32

const NoSym Sym = -1

// Attr is the attribute bitset carried by a symbol.
type Attr uint16

const (
	AttrSkolem Attr = 1 << iota
	AttrSplit
	AttrBinder
	AttrInfix
	AttrAC
	AttrCommutative
	AttrFreshConst
)

var ErrSignatureConflict = errors.New("signature conflict")

type symEntry struct {
	name string
	attr Attr
	ty   *Type
}

// Intern returns the symbol for name, allocating a fresh tag on first use.
// Interning records no type; use Declare to attach one.
func (b *Bank) Intern(name string) Sym {
	if s, ok := b.symIndex[name]; ok {
		return s
	}
	s := Sym(len(b.syms))
	b.syms = append(b.syms, symEntry{name: name})
	b.symIndex[name] = s
	return s
}

// Declare interns name and records its signature type and attributes.
// Declaring the same name twice with a different type is a conflict.
func (b *Bank) Declare(name string, ty *Type, attr Attr) (Sym, error) {
	s := b.Intern(name)
	e := &b.syms[s]
	if e.ty != nil && e.ty != ty {
		return NoSym, fmt.Errorf("%w: %s declared as %s and %s", ErrSignatureConflict, name, e.ty, ty)
	}
	e.ty = ty
	e.attr |= attr
	return s, nil
}

// Fresh allocates a symbol whose name does not clash with any interned name.
func (b *Bank) Fresh(prefix string, ty *Type, attr Attr) Sym {
	for {
		name := fmt.Sprintf("%s_%d", prefix, b.freshSym)
		b.freshSym++
		if _, taken := b.symIndex[name]; taken {
			continue
		}
		s, err := b.Declare(name, ty, attr|AttrFreshConst)
		if err != nil {
			panic(err)
		}
		return s
	}
}

func (b *Bank) Lookup(name string) (Sym, bool) {
	s, ok := b.symIndex[name]
	return s, ok
}

func (b *Bank) SymName(s Sym) string { return b.syms[s].name }

func (b *Bank) SymAttr(s Sym) Attr { return b.syms[s].attr }

func (b *Bank) SymType(s Sym) *Type { return b.syms[s].ty }

func (b *Bank) HasAttr(s Sym, a Attr) bool { return b.syms[s].attr&a != 0 }

// NumSyms reports how many symbols have been interned so far. Symbol tags
// are the dense range [0, NumSyms).
func (b *Bank) NumSyms() int { return len(b.syms) }
